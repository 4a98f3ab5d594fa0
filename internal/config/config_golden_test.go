package config

import (
	"os"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// TestConfigDefaultsGoldenFile tests that our defaults match the golden file
func TestConfigDefaultsGoldenFile(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.ErrorLevel)
	SetLogger(logger)

	goldenData, err := os.ReadFile("testdata/defaults.yaml")
	if err != nil {
		t.Fatalf("Failed to read golden defaults file: %v", err)
	}

	var goldenConfig Config
	if err := yaml.Unmarshal(goldenData, &goldenConfig); err != nil {
		t.Fatalf("Failed to parse golden config: %v", err)
	}

	testConfig := &Config{}
	ApplyDefaults(testConfig)

	if !reflect.DeepEqual(*testConfig, goldenConfig) {
		t.Errorf("Defaults mismatch:\n got  %+v\n want %+v", *testConfig, goldenConfig)
	}
}

// TestConfigDefaultsMarshalRoundTrip checks that generated example configs load back unchanged
func TestConfigDefaultsMarshalRoundTrip(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}

	if !reflect.DeepEqual(*cfg, loaded) {
		t.Errorf("Round trip mismatch:\n got  %+v\n want %+v", loaded, *cfg)
	}
}
