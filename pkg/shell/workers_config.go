package shell

import (
	"fmt"
	"os"
	"runtime"

	"github.com/core-tools/hsu-shell/pkg/errors"
	"github.com/core-tools/hsu-shell/pkg/process"

	"gopkg.in/yaml.v3"
)

// WorkersConfig represents the workers file structure
type WorkersConfig struct {
	Workers []process.ProcessSpec `yaml:"workers"`
}

// DefaultWorkerIDs are the server processes a stock installation runs, in launch order
var DefaultWorkerIDs = []string{"master", "db", "world"}

// NodeBinary returns the bundled node runtime path relative to the executable directory
func NodeBinary() string {
	if runtime.GOOS == "windows" {
		return "out/bin/node/node.exe"
	}
	return "out/bin/node/node"
}

// DefaultWorkers returns the built-in worker list used when no workers file is given
func DefaultWorkers() []process.ProcessSpec {
	specs := make([]process.ProcessSpec, 0, len(DefaultWorkerIDs))
	for _, id := range DefaultWorkerIDs {
		specs = append(specs, process.ProcessSpec{
			ID:       id,
			Binary:   NodeBinary(),
			Args:     []string{fmt.Sprintf("out/%s_server.js", id), "page.useGenWorkers=true"},
			ErrorLog: defaultErrorLog(id),
		})
	}
	return specs
}

func defaultErrorLog(id string) string {
	return fmt.Sprintf("stderr_%s.log", id)
}

// LoadWorkersConfig loads the worker list from a YAML file
func LoadWorkersConfig(filename string) (*WorkersConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.NewIOError("failed to read workers file", err).WithContext("filename", filename)
	}

	var config WorkersConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.NewValidationError("failed to parse YAML workers file", err).WithContext("filename", filename)
	}

	setWorkersDefaults(&config)

	return &config, nil
}

// setWorkersDefaults derives the error log from the worker ID when it is left out
func setWorkersDefaults(config *WorkersConfig) {
	for i := range config.Workers {
		worker := &config.Workers[i]
		if worker.ErrorLog == "" && worker.ID != "" {
			worker.ErrorLog = defaultErrorLog(worker.ID)
		}
	}
}

// ValidateWorkersConfig validates the whole worker list
func ValidateWorkersConfig(config *WorkersConfig) error {
	if config == nil {
		return errors.NewValidationError("workers configuration cannot be nil", nil)
	}

	for i, worker := range config.Workers {
		if worker.ID == "" {
			continue
		}
		if err := ValidateWorkerID(worker.ID); err != nil {
			return errors.NewValidationError(
				fmt.Sprintf("invalid worker at index %d", i),
				err,
			).WithContext("worker_index", fmt.Sprintf("%d", i))
		}
	}

	if err := process.ValidateSpecs(config.Workers); err != nil {
		return errors.NewValidationError("invalid workers configuration", err)
	}

	return nil
}

// ValidateWorkerID validates worker ID format and constraints
func ValidateWorkerID(id string) error {
	if id == "" {
		return errors.NewValidationError("worker ID cannot be empty", nil)
	}

	if len(id) > 64 {
		return errors.NewValidationError("worker ID cannot exceed 64 characters", nil)
	}

	for _, char := range id {
		if !isValidIDChar(char) {
			return errors.NewValidationError("worker ID contains invalid characters: only letters, numbers, hyphens, and underscores are allowed", nil)
		}
	}

	return nil
}

func isValidIDChar(char rune) bool {
	return (char >= 'a' && char <= 'z') ||
		(char >= 'A' && char <= 'Z') ||
		(char >= '0' && char <= '9') ||
		char == '-' || char == '_'
}
