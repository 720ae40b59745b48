package config

import (
	"fmt"
	"regexp"
	"sort"
)

const (
	// FormatJSON and FormatText are the accepted log output formats. Empty
	// means auto-detect based on whether stdout is a terminal.
	FormatJSON = "json"
	FormatText = "text"

	defaultLogBuffer = 256
)

// Config mirrors the procwatch.yaml document structure.
type Config struct {
	Version   string                  `yaml:"version"`
	Log       LogSpec                 `yaml:"log"`
	Processes map[string]*ProcessSpec `yaml:"processes"`
}

// LogSpec configures delivery of captured output.
type LogSpec struct {
	// Buffer bounds the fan-in channel; records beyond it are dropped and
	// accounted for.
	Buffer int    `yaml:"buffer"`
	Format string `yaml:"format"`
}

// ProcessSpec declares one supervised child process.
type ProcessSpec struct {
	Path        string            `yaml:"path"`
	Args        []string          `yaml:"args"`
	Workdir     string            `yaml:"workdir"`
	Env         map[string]string `yaml:"env"`
	EnvFromFile string            `yaml:"envFromFile"`
}

var processNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.Log.Buffer == 0 {
		c.Log.Buffer = defaultLogBuffer
	}
}

// Validate checks the manifest for structural errors.
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if c.Log.Buffer < 0 {
		return fmt.Errorf("log.buffer must not be negative")
	}
	switch c.Log.Format {
	case "", FormatJSON, FormatText:
	default:
		return fmt.Errorf("log.format %q is not one of %q, %q", c.Log.Format, FormatJSON, FormatText)
	}
	if len(c.Processes) == 0 {
		return fmt.Errorf("at least one process is required")
	}
	for _, name := range c.ProcessNames() {
		spec := c.Processes[name]
		if spec == nil {
			return fmt.Errorf("%s: empty process definition", processField(name, ""))
		}
		if !processNamePattern.MatchString(name) {
			return fmt.Errorf("process name %q is invalid", name)
		}
		if spec.Path == "" {
			return fmt.Errorf("%s is required", processField(name, "path"))
		}
	}
	return nil
}

// ProcessNames returns the declared process names in deterministic order.
func (c *Config) ProcessNames() []string {
	names := make([]string, 0, len(c.Processes))
	for name := range c.Processes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func processField(name, field string) string {
	if field == "" {
		return fmt.Sprintf("processes.%s", name)
	}
	return fmt.Sprintf("processes.%s.%s", name, field)
}
