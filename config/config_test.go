package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/badtuple/pipelang"
	"github.com/badtuple/pipelang/filters"
	tt "github.com/badtuple/pipelang/internal/testtools"
)

const sampleYAML = `
log:
  level: debug
  format: json
metrics:
  enabled: true
filters:
  - name: gt10
    kind: greater_than
    threshold: 10
  - name: pairs
    kind: batch
    size: 2
  - name: ints
    kind: match
    expression: 'kind == "integer"'
queries:
  - "@sensor | gt10 | pairs"
`

func TestLoad(t *testing.T) {
	t.Run("should load the yaml file", func(t *testing.T) {
		path := writeFile(t, "config.yml", sampleYAML)

		cfg, err := Load(WithConfigFile(path))
		tt.AssertNoErr(t, err)

		tt.AssertEqual(t, cfg.Log.Level, "debug")
		tt.AssertEqual(t, cfg.Log.Format, "json")
		tt.AssertEqual(t, cfg.Log.Output, "stderr")
		tt.AssertEqual(t, cfg.Metrics.Enabled, true)
		tt.AssertEqual(t, cfg.Metrics.Namespace, "pipelang")
		tt.AssertEqual(t, cfg.Filters, []FilterDef{
			{Name: "gt10", Kind: KindGreaterThan, Threshold: 10},
			{Name: "pairs", Kind: KindBatch, Size: 2},
			{Name: "ints", Kind: KindMatch, Expression: `kind == "integer"`},
		})
		tt.AssertEqual(t, cfg.Queries, []string{"@sensor | gt10 | pairs"})
	})

	t.Run("should work without any file", func(t *testing.T) {
		cfg, err := Load()
		tt.AssertNoErr(t, err)

		tt.AssertEqual(t, cfg.Log.Level, "info")
		tt.AssertEqual(t, len(cfg.Filters), 0)
	})

	t.Run("environment should override the file", func(t *testing.T) {
		path := writeFile(t, "config.yml", sampleYAML)
		t.Setenv("PIPELANG_LOG_LEVEL", "warn")

		cfg, err := Load(WithConfigFile(path))
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, cfg.Log.Level, "warn")
	})

	t.Run("should read variables from the .env file", func(t *testing.T) {
		envPath := writeFile(t, ".env", "PIPELANG_METRICS_NAMESPACE=from_dotenv\n")
		t.Cleanup(func() {
			os.Unsetenv("PIPELANG_METRICS_NAMESPACE")
		})

		cfg, err := Load(WithEnvFile(envPath))
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, cfg.Metrics.Namespace, "from_dotenv")
	})

	t.Run("should report missing files", func(t *testing.T) {
		_, err := Load(WithConfigFile(filepath.Join(t.TempDir(), "nope.yml")))
		tt.AssertErrCode(t, err, pipelang.InvalidConfig)

		_, err = Load(WithEnvFile(filepath.Join(t.TempDir(), ".env")))
		tt.AssertErrCode(t, err, pipelang.InvalidConfig)
	})

	t.Run("should validate filter definitions", func(t *testing.T) {
		tests := []struct {
			desc string
			yaml string
		}{
			{
				desc: "unknown kind",
				yaml: "filters: [{name: f, kind: triple}]",
			},
			{
				desc: "missing name",
				yaml: "filters: [{kind: greater_than}]",
			},
			{
				desc: "batch without size",
				yaml: "filters: [{name: f, kind: batch}]",
			},
			{
				desc: "match without expression",
				yaml: "filters: [{name: f, kind: match}]",
			},
			{
				desc: "empty query",
				yaml: `queries: [""]`,
			},
			{
				desc: "invalid log level",
				yaml: "log: {level: loud}",
			},
		}

		for _, test := range tests {
			t.Run(test.desc, func(t *testing.T) {
				path := writeFile(t, "config.yml", test.yaml)

				_, err := Load(WithConfigFile(path))
				tt.AssertErrCode(t, err, pipelang.InvalidConfig)
			})
		}
	})
}

func TestFilterDefBuild(t *testing.T) {
	f, err := FilterDef{Kind: KindGreaterThan, Threshold: 3}.Build()
	tt.AssertNoErr(t, err)
	tt.AssertEqual(t, f, pipelang.Filter(filters.NewGreaterThan(3)))

	f, err = FilterDef{Kind: KindBatch, Size: 4}.Build()
	tt.AssertNoErr(t, err)
	tt.AssertEqual(t, f.(*filters.Batch).Size(), 4)

	f, err = FilterDef{Kind: KindMatch, Expression: `value == 1`}.Build()
	tt.AssertNoErr(t, err)
	tt.AssertEqual(t, f.(*filters.Match).Expression(), `value == 1`)

	_, err = FilterDef{Kind: KindBatch, Size: -1}.Build()
	tt.AssertErrCode(t, err, pipelang.InvalidFilter)

	_, err = FilterDef{Name: "x", Kind: "triple"}.Build()
	tt.AssertErrCode(t, err, pipelang.InvalidFilter)
}

func writeFile(t *testing.T, name string, content string) string {
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0644)
	tt.AssertNoErr(t, err)
	return path
}
