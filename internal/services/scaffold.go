package services

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// ScaffoldOptions controls placeholder audio generation.
type ScaffoldOptions struct {
	Root       string
	SampleRate int           // default 44100
	Duration   time.Duration // default 2s
	BaseFreq   float64       // default 440 Hz
}

func (o *ScaffoldOptions) fill() {
	if o.SampleRate <= 0 {
		o.SampleRate = 44100
	}
	if o.Duration <= 0 {
		o.Duration = 2 * time.Second
	}
	if o.BaseFreq <= 0 {
		o.BaseFreq = 440
	}
}

func sinePCM16(freq float64, sampleRate, n int) []int16 {
	const amp = 0.5 * 32767
	out := make([]int16, n)
	step := 2 * math.Pi * freq / float64(sampleRate)
	for i := range out {
		out[i] = int16(amp * math.Sin(step*float64(i)))
	}
	return out
}

// EncodeWAV renders mono 16-bit PCM samples as a RIFF/WAVE file body.
func EncodeWAV(samples []int16, sampleRate int) []byte {
	dataSize := uint32(len(samples) * 2)
	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))        // fmt chunk size
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))         // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))         // mono
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2)) // byte rate
	_ = binary.Write(buf, binary.LittleEndian, uint16(2))            // block align
	_ = binary.Write(buf, binary.LittleEndian, uint16(16))           // bits per sample
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, dataSize)
	_ = binary.Write(buf, binary.LittleEndian, samples)
	return buf.Bytes()
}

// WriteSineWAV writes a mono sine tone to path.
func WriteSineWAV(path string, freq float64, sampleRate int, d time.Duration) error {
	n := int(d.Seconds() * float64(sampleRate))
	body := EncodeWAV(sinePCM16(freq, sampleRate, n), sampleRate)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Scaffold writes the audio directory tree the generated configs reference,
// filling each trial with placeholder sine tones so the test can be clicked
// through before real encodes exist. Every distinct filename within a trial
// gets its own semitone step so placeholders are audibly distinguishable.
// Real encodes come from external codec tooling and simply overwrite these.
func (e *Experiment) Scaffold(opts ScaffoldOptions) ([]string, error) {
	opts.fill()
	if opts.Root == "" {
		return nil, fmt.Errorf("scaffold root is required")
	}

	trials := make([]Trial, 0, len(e.Trials)+1)
	if e.Training != nil {
		trials = append(trials, *e.Training)
	}
	trials = append(trials, e.Trials...)

	// Filenames are identical in every trial directory.
	names := []string{e.Reference, e.Anchor}
	for _, cond := range e.Conditions {
		for _, c := range e.Codecs {
			names = append(names, codecFilename(c, cond))
		}
	}

	var written []string
	for _, trial := range trials {
		dir := filepath.Join(opts.Root, trial.Directory)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return written, fmt.Errorf("create trial dir %s: %w", dir, err)
		}
		for i, name := range names {
			freq := opts.BaseFreq * math.Pow(2, float64(i)/12)
			path := filepath.Join(dir, name)
			if err := WriteSineWAV(path, freq, opts.SampleRate, opts.Duration); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}
