package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/kimchi-drafts/internal/config"
)

const header = `# kimchi-drafts configuration example
# Copy this file to config.yaml and customize as needed.
# Every value can also be set from the environment, e.g. DRAFT_STORAGE_BACKEND,
# DATABASE_URL, DATABASE_SERVERLESS, REDIS_ADDR, S3_BUCKET, LOG_LEVEL.

`

func main() {
	outputFile := "config.example.yaml"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	if outputFile == "-" {
		if err := writeExample(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
			os.Exit(1)
		}
		return
	}

	f, err := os.Create(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := writeExample(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}

// writeExample writes the default configuration as commented YAML.
func writeExample(w io.Writer) error {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, header+string(data))
	return err
}
