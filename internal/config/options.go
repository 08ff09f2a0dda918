package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that provide defaults for command-line flags.
const (
	EnvConfigPath = "IIT_CONFIG"
	EnvFormats    = "IIT_FORMAT"
	EnvOutputDir  = "IIT_OUTPUT_DIR"
	EnvBaseName   = "IIT_BASENAME"
	EnvDBPath     = "IIT_DB"
	EnvLogLevel   = "IIT_LOG_LEVEL"
	EnvLocale     = "IIT_LOCALE"
)

// RunOptions holds everything a run needs besides the settings file contents.
type RunOptions struct {
	ConfigPath string
	Formats    []string
	OutputDir  string
	BaseName   string
	DBPath     string
	LogLevel   string
	Locale     string
}

// DefaultRunOptions mirrors the behaviour of a bare invocation: config.yaml in the working
// directory, a console table plus a spreadsheet next to it.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		ConfigPath: "config.yaml",
		Formats:    []string{"console", "xlsx"},
		OutputDir:  ".",
		BaseName:   "withholding_schedule",
		LogLevel:   "info",
		Locale:     "en",
	}
}

// LoadEnvFile loads variables from .env style files when they exist. Missing files are not an error.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides options with non-empty values from getenv. Pass os.Getenv in production.
func (o *RunOptions) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvConfigPath); v != "" {
		o.ConfigPath = v
	}
	if v := getenv(EnvFormats); v != "" {
		o.Formats = SplitList(v)
	}
	if v := getenv(EnvOutputDir); v != "" {
		o.OutputDir = v
	}
	if v := getenv(EnvBaseName); v != "" {
		o.BaseName = v
	}
	if v := getenv(EnvDBPath); v != "" {
		o.DBPath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		o.LogLevel = v
	}
	if v := getenv(EnvLocale); v != "" {
		o.Locale = v
	}
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
