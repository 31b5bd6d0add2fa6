// Package application wires the audit pipeline together: configuration,
// the run engine that fans areas out to the detector, and the operator
// summary of a finished run.
package application

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-scrutineer/infrastructure/detect"
	"github.com/ahrav/go-scrutineer/infrastructure/results"
)

// DefaultWorkers bounds the detection fan-out when the configuration
// does not set an explicit worker count.
const DefaultWorkers = 8

// Package-level validator instance for configuration validation.
var validate = validator.New()

// AuditConfig defines the complete specification for an audit run and
// serves as the primary configuration entry point for the system.
// The command-line binary runs entirely on DefaultAuditConfig; the
// loadable form exists for programs embedding the engine.
type AuditConfig struct {
	// Source locates the constituency and party-list tally directories
	// and controls load-time validation.
	Source results.SourceConfig `yaml:"source"`

	// ReferencePath points at the shared reference document holding the
	// province-name lookup. The file is optional at run time; a missing
	// file degrades to placeholder names.
	ReferencePath string `yaml:"reference_path" validate:"required"`

	// Detector carries the twin-matching rule: eligible ballot numbers,
	// exclusions, the rank cutoff, and the scoring policy.
	Detector detect.TwinDetectorConfig `yaml:"detector"`

	// Report controls the output document.
	Report ReportConfig `yaml:"report"`

	// Workers bounds the number of areas examined concurrently during
	// the detection phase. Zero selects DefaultWorkers.
	Workers int `yaml:"workers" validate:"min=0,max=64"`
}

// ReportConfig controls where the report document is written and the
// description line embedded in its metadata.
type ReportConfig struct {
	// Path is the output file for the JSON report document. Parent
	// directories are created as needed.
	Path string `yaml:"path" validate:"required"`

	// Description is the free-form summary line written into report
	// metadata.
	Description string `yaml:"description" validate:"required"`
}

// DefaultAuditConfig returns the conventional layout the published data
// set uses: tallies under data/mp and data/pl, the shared reference
// document under docs/data, and the report written back into data/.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Source:        results.DefaultSourceConfig(),
		ReferencePath: filepath.Join("docs", "data", "common-data.json"),
		Detector:      detect.DefaultTwinDetectorConfig(),
		Report: ReportConfig{
			Path:        filepath.Join("data", "anomaly_report.json"),
			Description: detect.DefaultReportDescription,
		},
		Workers: DefaultWorkers,
	}
}

// LoadConfig reads a YAML audit configuration from r, layered over
// DefaultAuditConfig so partial documents only need to name what they
// change. Decoding is strict: unknown fields fail rather than being
// silently ignored.
func LoadConfig(r io.Reader) (AuditConfig, error) {
	config := DefaultAuditConfig()

	data, err := io.ReadAll(r)
	if err != nil {
		return AuditConfig{}, fmt.Errorf("failed to read data: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict mode - fail on unknown fields.
	if err := decoder.Decode(&config); err != nil && err != io.EOF {
		return AuditConfig{}, fmt.Errorf("YAML decode failed: %w", err)
	}

	if err := config.Validate(); err != nil {
		return AuditConfig{}, err
	}
	return config, nil
}

// LoadConfigFromFile reads a YAML audit configuration from a file,
// applying the same defaults and strict decoding as LoadConfig.
func LoadConfigFromFile(path string) (AuditConfig, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return AuditConfig{}, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}

// Validate checks the configuration against its struct constraints,
// recursing into the stage configurations.
func (c AuditConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("struct validation failed: %w", err)
	}
	return nil
}
