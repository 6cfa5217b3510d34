package services

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Labels webMUSHRA reserves inside the stimuli map.
const (
	hiddenRefLabel = "hidden_ref"
	anchorLabel    = "anchor"
)

// BitrateCondition is one bitrate operating point; each produces its own
// test config file.
type BitrateCondition struct {
	Name   string `yaml:"name"`
	Suffix string `yaml:"suffix"`
	TestID string `yaml:"test_id"`
}

// Codec is one method under evaluation.
type Codec struct {
	Name       string `yaml:"name"`
	FilePrefix string `yaml:"file_prefix"`
}

// Trial is a single audio item rated in every condition.
type Trial struct {
	ID          string `yaml:"id"`
	Directory   string `yaml:"directory"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

// Experiment is the study description read from YAML; GenerateConfig expands
// it into one webMUSHRA config per bitrate condition.
type Experiment struct {
	Name          string             `yaml:"name"`
	AudioBasePath string             `yaml:"audio_base_path"`
	Conditions    []BitrateCondition `yaml:"conditions"`
	Codecs        []Codec            `yaml:"codecs"`
	Trials        []Trial            `yaml:"trials"`
	Training      *Trial             `yaml:"training,omitempty"`
	Reference     string             `yaml:"reference_filename"`
	Anchor        string             `yaml:"anchor_filename"`
	ShowWaveform  bool               `yaml:"show_waveform"`
	EnableLooping bool               `yaml:"enable_looping"`
	BufferSize    int                `yaml:"buffer_size"`
}

// LoadExperiment parses and validates a study description.
func LoadExperiment(data []byte) (*Experiment, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("experiment description empty")
	}
	var exp Experiment
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("experiment yaml decode failed: %w", err)
	}
	exp.Name = strings.TrimSpace(exp.Name)
	if exp.Name == "" {
		return nil, fmt.Errorf("experiment name missing")
	}
	if len(exp.Conditions) == 0 {
		return nil, fmt.Errorf("experiment has no bitrate conditions")
	}
	if len(exp.Codecs) == 0 {
		return nil, fmt.Errorf("experiment has no codecs")
	}
	if len(exp.Trials) == 0 {
		return nil, fmt.Errorf("experiment has no trials")
	}
	for i, c := range exp.Conditions {
		if strings.TrimSpace(c.TestID) == "" {
			return nil, fmt.Errorf("condition %d missing test_id", i)
		}
	}
	if exp.AudioBasePath == "" {
		exp.AudioBasePath = "configs/resources/audio"
	}
	if exp.Reference == "" {
		exp.Reference = "reference.wav"
	}
	if exp.Anchor == "" {
		exp.Anchor = "anchor_3.5khz_lp.wav"
	}
	if exp.BufferSize == 0 {
		exp.BufferSize = 2048
	}
	return &exp, nil
}

// WebMUSHRAConfig mirrors the config document the webMUSHRA front end loads.
type WebMUSHRAConfig struct {
	TestName           string  `yaml:"testname"`
	TestID             string  `yaml:"testId"`
	BufferSize         int     `yaml:"bufferSize"`
	StopOnErrors       bool    `yaml:"stopOnErrors"`
	ShowButtonPrevious bool    `yaml:"showButtonPrevious"`
	RemoteService      *string `yaml:"remoteService"`
	Pages              []any   `yaml:"pages"`
}

type genericPage struct {
	Type    string `yaml:"type"`
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Content string `yaml:"content"`
}

type mushraPage struct {
	Type           string            `yaml:"type"`
	ID             string            `yaml:"id"`
	Name           string            `yaml:"name"`
	Content        string            `yaml:"content"`
	ShowWaveform   bool              `yaml:"showWaveform"`
	EnableLooping  bool              `yaml:"enableLooping"`
	Reference      string            `yaml:"reference"`
	CreateAnchor35 bool              `yaml:"createAnchor35"`
	CreateAnchor70 bool              `yaml:"createAnchor70"`
	Stimuli        map[string]string `yaml:"stimuli"`
}

type finishPage struct {
	Type         string `yaml:"type"`
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Content      string `yaml:"content"`
	ShowResults  bool   `yaml:"showResults"`
	WriteResults bool   `yaml:"writeResults"`
}

func (e *Experiment) audioPath(trialDir, filename string) string {
	return e.AudioBasePath + "/" + trialDir + "/" + filename
}

func codecFilename(c Codec, cond BitrateCondition) string {
	return fmt.Sprintf("%s_%s.wav", c.FilePrefix, cond.Suffix)
}

// stimuli builds the per-trial stimuli map: hidden reference, low anchor,
// and one entry per codec at this bitrate.
func (e *Experiment) stimuli(trial Trial, cond BitrateCondition) map[string]string {
	m := map[string]string{
		hiddenRefLabel: e.audioPath(trial.Directory, e.Reference),
		anchorLabel:    e.audioPath(trial.Directory, e.Anchor),
	}
	for _, c := range e.Codecs {
		m[c.Name] = e.audioPath(trial.Directory, codecFilename(c, cond))
	}
	return m
}

// GenerateConfig builds the complete webMUSHRA config for one condition.
func (e *Experiment) GenerateConfig(cond BitrateCondition) *WebMUSHRAConfig {
	pages := []any{
		genericPage{
			Type: "generic",
			ID:   "introduction",
			Name: "Welcome",
			Content: fmt.Sprintf(
				"<h2>%s - %s</h2>"+
					"<p>Thank you for participating in this study evaluating audio codec quality.</p>"+
					"<ul><li>Please use <strong>high-quality headphones</strong> in a quiet environment</li>"+
					"<li>Rate each version from 0 (Bad) to 100 (Excellent) compared to the Reference</li>"+
					"<li>You can replay and switch between samples as often as needed</li></ul>"+
					"<p>The test contains <strong>%d trials</strong>.</p>",
				e.Name, cond.Name, len(e.Trials)),
		},
		genericPage{
			Type: "generic",
			ID:   "headphone_check",
			Name: "Equipment Check",
			Content: "<h2>Before You Begin</h2>" +
				"<p>Please confirm you are wearing headphones, are in a quiet environment, " +
				"and will not adjust the volume during the test.</p>",
		},
	}
	if e.Training != nil {
		pages = append(pages, mushraPage{
			Type: "mushra",
			ID:   e.Training.ID,
			Name: "Training Trial (Practice)",
			Content: "This is a practice trial to familiarize yourself with the interface. " +
				"Your ratings will NOT be recorded.",
			ShowWaveform:  e.ShowWaveform,
			EnableLooping: e.EnableLooping,
			Reference:     e.audioPath(e.Training.Directory, e.Reference),
			Stimuli:       e.stimuli(*e.Training, cond),
		})
	}
	for i, trial := range e.Trials {
		pages = append(pages, mushraPage{
			Type:          "mushra",
			ID:            trial.ID,
			Name:          fmt.Sprintf("Trial %d of %d", i+1, len(e.Trials)),
			Content:       "Rate the audio quality of each sample compared to the Reference.",
			ShowWaveform:  e.ShowWaveform,
			EnableLooping: e.EnableLooping,
			Reference:     e.audioPath(trial.Directory, e.Reference),
			Stimuli:       e.stimuli(trial, cond),
		})
	}
	pages = append(pages, finishPage{
		Type: "finish",
		ID:   "finish",
		Name: "Thank You",
		Content: fmt.Sprintf(
			"<h2>%s Complete</h2><p>Thank you for completing the listening test!</p>"+
				"<p><strong>Important:</strong> Please click <strong>Send Results</strong> below. "+
				"If the button does not work, download your results and email them to the researcher.</p>",
			cond.Name),
		ShowResults:  true,
		WriteResults: true,
	})

	return &WebMUSHRAConfig{
		TestName:           fmt.Sprintf("%s - %s", e.Name, cond.Name),
		TestID:             cond.TestID,
		BufferSize:         e.BufferSize,
		StopOnErrors:       true,
		ShowButtonPrevious: true,
		Pages:              pages,
	}
}

// ConfigYAML renders the config for one condition as YAML.
func (e *Experiment) ConfigYAML(cond BitrateCondition) ([]byte, error) {
	cfg := e.GenerateConfig(cond)
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config %s: %w", cond.TestID, err)
	}
	return out, nil
}
