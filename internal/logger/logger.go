package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Standard field keys used across the interpreter logs
const (
	FieldComponent  = "component"
	FieldSource     = "source"
	FieldFilter     = "filter"
	FieldPipelineID = "pipeline_id"
	FieldQuery      = "query"
)

// Config contains logging configuration.
type Config struct {
	Level   string `yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Format  string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
	Output  string `yaml:"output" mapstructure:"output" validate:"oneof=stdout stderr"`
	NoColor bool   `yaml:"no_color" mapstructure:"no_color"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
}

// New creates a zerolog.Logger writing to the output set on cfg.
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, outputWriter(cfg.Output))
}

// NewWithWriter creates a zerolog.Logger writing to w.
//
// The level is set on the returned logger only, so several
// interpreters can log with different levels on the same process.
func NewWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	cfg.ApplyDefaults()

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	if strings.ToLower(cfg.Format) == FormatConsole {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
			NoColor:    cfg.NoColor,
			FormatFieldName: func(i interface{}) string {
				return fmt.Sprintf("%s:", i)
			},
		}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func outputWriter(output string) *os.File {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout
	default:
		return os.Stderr
	}
}
