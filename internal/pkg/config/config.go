// Package config reads the gridviz JSON configuration file and applies
// GRIDVIZ_* environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Source kinds.
const (
	KindHDF5  = "hdf5"
	KindSQL   = "sql"
	KindMongo = "mongo"
)

// Defaults applied to empty fields.
const (
	DefaultPath    = "task_data.hdf5"
	DefaultPort    = "8050"
	DefaultNATSURL = "nats://127.0.0.1:4222"
	DefaultSubject = "gridviz.cluster"
)

// Source selects where the hourly tables are read from. Only the fields of
// the chosen Kind are used.
type Source struct {
	Kind       string `json:"Kind"`
	Path       string `json:"Path"`
	Driver     string `json:"Driver"`
	DSN        string `json:"DSN"`
	Table      string `json:"Table"`
	Manifest   string `json:"Manifest"`
	URI        string `json:"URI"`
	Port       string `json:"Port"`
	Database   string `json:"Database"`
	Collection string `json:"Collection"`
}

// Web configures the HTTP presentation layer.
type Web struct {
	Port           string   `json:"Port"`
	AllowedOrigins []string `json:"AllowedOrigins"`
}

// NATS configures the optional cluster request/reply service.
type NATS struct {
	Enable  bool   `json:"Enable"`
	URL     string `json:"URL"`
	Subject string `json:"Subject"`
}

// Config is the top level of the configuration file.
type Config struct {
	Source Source `json:"Source"`
	Web    Web    `json:"Web"`
	NATS   NATS   `json:"NATS"`
}

// New reads configPath, loads a .env file from the working directory if one
// exists, applies environment overrides and defaults, and validates the result.
func New(configPath string) (Config, error) {
	jsonConfig, err := ioutil.ReadFile(configPath)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{}
	if err := json.Unmarshal(jsonConfig, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", configPath, err)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("[Config] no .env file, using process environment")
	}
	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Source.Kind, "GRIDVIZ_SOURCE_KIND")
	set(&c.Source.Path, "GRIDVIZ_SOURCE_PATH")
	set(&c.Source.DSN, "GRIDVIZ_SOURCE_DSN")
	set(&c.Source.URI, "GRIDVIZ_SOURCE_URI")
	set(&c.Web.Port, "GRIDVIZ_PORT")
	set(&c.NATS.URL, "GRIDVIZ_NATS_URL")
	if getenv("GRIDVIZ_NATS_ENABLE") == "true" {
		c.NATS.Enable = true
	}
}

func (c *Config) applyDefaults() {
	if c.Source.Kind == "" {
		c.Source.Kind = KindHDF5
	}
	if c.Source.Kind == KindHDF5 && c.Source.Path == "" {
		c.Source.Path = DefaultPath
	}
	if c.Web.Port == "" {
		c.Web.Port = DefaultPort
	}
	if c.NATS.URL == "" {
		c.NATS.URL = DefaultNATSURL
	}
	if c.NATS.Subject == "" {
		c.NATS.Subject = DefaultSubject
	}
}

// Validate rejects configurations no source backend can open.
func (c Config) Validate() error {
	switch c.Source.Kind {
	case KindHDF5:
		if c.Source.Path == "" {
			return fmt.Errorf("config: hdf5 source needs Path")
		}
	case KindSQL:
		if c.Source.Driver == "" || c.Source.DSN == "" {
			return fmt.Errorf("config: sql source needs Driver and DSN")
		}
	case KindMongo:
		if c.Source.URI == "" || c.Source.Database == "" || c.Source.Collection == "" {
			return fmt.Errorf("config: mongo source needs URI, Database and Collection")
		}
	default:
		return fmt.Errorf("config: unknown source kind %q", c.Source.Kind)
	}
	return nil
}

// Addr is the listen address of the web server.
func (c Config) Addr() string {
	return ":" + c.Web.Port
}
