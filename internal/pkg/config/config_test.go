package config

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestNew(t *testing.T) {
	t.Setenv("GRIDVIZ_PORT", "")
	t.Setenv("GRIDVIZ_SOURCE_PATH", "")

	cfg, err := New("./testdata/gridviz.json")
	assert.NilError(t, err)
	assert.Equal(t, cfg.Source.Kind, KindHDF5)
	assert.Equal(t, cfg.Source.Path, "results/task_data.hdf5")
	assert.Equal(t, cfg.Addr(), ":9000")
	assert.DeepEqual(t, cfg.Web.AllowedOrigins, []string{"http://localhost:9000"})
	assert.Assert(t, cfg.NATS.Enable)
	assert.Equal(t, cfg.NATS.URL, "nats://nats:4222")
	assert.Equal(t, cfg.NATS.Subject, DefaultSubject)
}

func TestNewEnvOverride(t *testing.T) {
	t.Setenv("GRIDVIZ_PORT", "7000")
	t.Setenv("GRIDVIZ_SOURCE_PATH", "/data/other.hdf5")

	cfg, err := New("./testdata/gridviz.json")
	assert.NilError(t, err)
	assert.Equal(t, cfg.Web.Port, "7000")
	assert.Equal(t, cfg.Source.Path, "/data/other.hdf5")
}

func TestNewRejectsIncompleteMongo(t *testing.T) {
	_, err := New("./testdata/mongo.json")
	assert.ErrorContains(t, err, "mongo source needs")
}

func TestNewMissingFile(t *testing.T) {
	_, err := New("./testdata/absent.json")
	assert.Assert(t, err != nil)
}

func TestDefaults(t *testing.T) {
	cfg := Config{}
	cfg.applyEnv(func(string) string { return "" })
	cfg.applyDefaults()

	assert.NilError(t, cfg.Validate())
	assert.Equal(t, cfg.Source.Path, DefaultPath)
	assert.Equal(t, cfg.Web.Port, DefaultPort)
	assert.Equal(t, cfg.NATS.URL, DefaultNATSURL)
	assert.Assert(t, !cfg.NATS.Enable)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		source Source
		errMsg string
	}{
		{"sql", Source{Kind: KindSQL, Driver: "postgres", DSN: "host=db"}, ""},
		{"sql without dsn", Source{Kind: KindSQL, Driver: "mysql"}, "sql source needs"},
		{"mongo", Source{Kind: KindMongo, URI: "mongodb://db", Database: "g", Collection: "c"}, ""},
		{"unknown", Source{Kind: "csv"}, "unknown source kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Config{Source: tt.source}.Validate()
			if tt.errMsg == "" {
				assert.NilError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
