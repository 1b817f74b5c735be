package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	tt "github.com/badtuple/pipelang/internal/testtools"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	tt.AssertEqual(t, cfg, Config{
		Level:  "info",
		Format: FormatConsole,
		Output: "stderr",
	})
}

func TestNewWithWriter(t *testing.T) {
	t.Run("should write json lines", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(Config{Level: "debug", Format: FormatJSON}, &buf)

		log.Debug().Str(FieldSource, "sensor").Msg("processed")

		var line map[string]any
		tt.AssertNoErr(t, json.Unmarshal(buf.Bytes(), &line))
		tt.AssertEqual(t, line["level"], "debug")
		tt.AssertEqual(t, line["source"], "sensor")
		tt.AssertEqual(t, line["message"], "processed")
	})

	t.Run("should drop messages below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(Config{Level: "warn", Format: FormatJSON}, &buf)

		log.Info().Msg("ignored")
		tt.AssertEqual(t, buf.Len(), 0)

		log.Warn().Msg("kept")
		tt.AssertEqual(t, buf.Len() > 0, true)
	})

	t.Run("should fallback to info on unknown levels", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(Config{Level: "loud", Format: FormatJSON}, &buf)

		log.Debug().Msg("ignored")
		tt.AssertEqual(t, buf.Len(), 0)

		log.Info().Msg("kept")
		tt.AssertEqual(t, buf.Len() > 0, true)
	})
}
