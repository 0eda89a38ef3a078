package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RemindersConfig holds the default alarm lead times in minutes for each
// event category. Requests may override them per call.
type RemindersConfig struct {
	Lecture    int `yaml:"lecture" json:"lecture"`
	Exam       int `yaml:"exam" json:"exam"`
	Assignment int `yaml:"assignment" json:"assignment"`
}

// ExtractorConfig configures the document-extraction collaborator.
type ExtractorConfig struct {
	// Model is the generative model used for structured extraction.
	Model string `yaml:"model" json:"model"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// SchoolTimezone is the IANA timezone syllabus times are written in.
	SchoolTimezone string `yaml:"school_timezone" json:"school_timezone"`

	// UserTimezone, when set, shifts all output into this zone. Empty means
	// floating output: events keep their stated wall-clock time.
	UserTimezone string `yaml:"user_timezone,omitempty" json:"user_timezone,omitempty"`

	// Reminders are the default alarm lead times.
	Reminders RemindersConfig `yaml:"reminders" json:"reminders"`

	// Extractor configures the extraction collaborator. The API key is not
	// stored here; it comes from the environment.
	Extractor ExtractorConfig `yaml:"extractor" json:"extractor"`

	// UploadDir is where uploaded syllabi are spooled before extraction.
	UploadDir string `yaml:"upload_dir" json:"upload_dir"`

	// SweepCron is a cron-style schedule for cleaning stale uploads.
	SweepCron string `yaml:"sweep" json:"sweep"`

	// SweepMaxAgeHours is how old a spooled upload may get before the
	// sweeper removes it.
	SweepMaxAgeHours int `yaml:"sweep_max_age_hours" json:"sweep_max_age_hours"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:         "127.0.0.1:8080",
		SchoolTimezone: "America/Chicago",
		UserTimezone:   "",
		Reminders: RemindersConfig{
			Lecture:    10,
			Exam:       1440,
			Assignment: 30,
		},
		Extractor: ExtractorConfig{
			Model: "gemini-2.5-flash",
		},
		UploadDir:        "./var/uploads",
		SweepCron:        "@hourly",
		SweepMaxAgeHours: 6,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.SchoolTimezone == "" {
		c.SchoolTimezone = "America/Chicago"
	}
	if c.Reminders.Lecture < 0 {
		c.Reminders.Lecture = 0
	}
	if c.Reminders.Exam < 0 {
		c.Reminders.Exam = 0
	}
	if c.Reminders.Assignment < 0 {
		c.Reminders.Assignment = 0
	}
	if c.Extractor.Model == "" {
		c.Extractor.Model = "gemini-2.5-flash"
	}
	if c.UploadDir == "" {
		c.UploadDir = "./var/uploads"
	}
	if c.SweepCron == "" {
		c.SweepCron = "@hourly"
	}
	if c.SweepMaxAgeHours <= 0 {
		c.SweepMaxAgeHours = 6
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".syllabuscal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the
// package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
