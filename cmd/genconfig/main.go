package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/avqlab/mushrelay/internal/services"
)

// genconfig expands a study description into one webMUSHRA config per bitrate
// condition, and optionally scaffolds the referenced audio tree with
// placeholder sine tones.
func main() {
	var (
		expPath      = flag.String("experiment", "experiment.yaml", "study description YAML")
		outDir       = flag.String("out", "configs", "directory for generated webMUSHRA configs")
		scaffoldRoot = flag.String("scaffold", "", "when set, write placeholder audio under this root")
		duration     = flag.Duration("tone-duration", 2*time.Second, "placeholder tone length")
		sampleRate   = flag.Int("sample-rate", 44100, "placeholder tone sample rate")
	)
	flag.Parse()

	data, err := os.ReadFile(*expPath)
	if err != nil {
		log.Fatalf("read experiment: %v", err)
	}
	exp, err := services.LoadExperiment(data)
	if err != nil {
		log.Fatalf("load experiment: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}
	for _, cond := range exp.Conditions {
		out, err := exp.ConfigYAML(cond)
		if err != nil {
			log.Fatalf("generate %s: %v", cond.TestID, err)
		}
		path := filepath.Join(*outDir, cond.TestID+".yaml")
		if err := os.WriteFile(path, out, 0o644); err != nil {
			log.Fatalf("write %s: %v", path, err)
		}
		log.Printf("wrote %s", path)
	}

	if *scaffoldRoot != "" {
		written, err := exp.Scaffold(services.ScaffoldOptions{
			Root:       *scaffoldRoot,
			SampleRate: *sampleRate,
			Duration:   *duration,
		})
		if err != nil {
			log.Fatalf("scaffold audio: %v", err)
		}
		log.Printf("wrote %d placeholder files under %s", len(written), *scaffoldRoot)
	}
}
