// Package config loads the settings of the chaincode process: how it is
// reached by the peer, where private materials live and how it logs.
//
// Sources are applied in order, later ones winning: built-in defaults, an
// optional YAML file, an optional .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ffa6995/fabric-digital-product-passport/internal/logging"
	"github.com/ffa6995/fabric-digital-product-passport/internal/passport"
)

const (
	DefaultConfigFile = "config.yaml"
	DefaultEnvFile    = ".env"
)

type Config struct {
	Chaincode         Chaincode      `yaml:"chaincode"`
	PrivateCollection string         `yaml:"private_collection"`
	Log               logging.Config `yaml:"log"`
}

// Chaincode holds the chaincode-as-a-service settings. An empty Address
// means the peer launches the process itself.
type Chaincode struct {
	ID      string `yaml:"id"`
	Address string `yaml:"address"`
	TLS     TLS    `yaml:"tls"`
}

type TLS struct {
	Disabled         bool   `yaml:"disabled"`
	KeyFile          string `yaml:"key_file"`
	CertFile         string `yaml:"cert_file"`
	ClientCACertFile string `yaml:"client_ca_cert_file"`
}

// AsService reports whether the process runs its own chaincode server.
func (c Config) AsService() bool { return c.Chaincode.Address != "" }

func Default() Config {
	return Config{
		PrivateCollection: passport.DefaultCollection,
		Chaincode:         Chaincode{TLS: TLS{Disabled: true}},
		Log:               logging.Config{Level: "info", Format: "json"},
	}
}

// Load reads configuration. yamlPath and envPath may point to missing
// files; an empty yamlPath falls back to $PASSPORT_CONFIG, then
// config.yaml.
func Load(yamlPath, envPath string) (Config, error) {
	cfg := Default()

	if envPath == "" {
		envPath = DefaultEnvFile
	}
	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("config: load %s: %w", envPath, err)
	}

	if yamlPath == "" {
		yamlPath = os.Getenv("PASSPORT_CONFIG")
	}
	if yamlPath == "" {
		yamlPath = DefaultConfigFile
	}
	if err := cfg.readYAML(yamlPath); err != nil {
		return cfg, err
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if cfg.PrivateCollection == "" {
		cfg.PrivateCollection = passport.DefaultCollection
	}
	return cfg, cfg.Validate()
}

func (c *Config) readYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	setString("CHAINCODE_ID", &c.Chaincode.ID)
	setString("CHAINCODE_SERVER_ADDRESS", &c.Chaincode.Address)
	setString("CHAINCODE_TLS_KEY_FILE", &c.Chaincode.TLS.KeyFile)
	setString("CHAINCODE_TLS_CERT_FILE", &c.Chaincode.TLS.CertFile)
	setString("CHAINCODE_TLS_CLIENT_CA_CERT_FILE", &c.Chaincode.TLS.ClientCACertFile)
	setString("PRIVATE_COLLECTION", &c.PrivateCollection)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FORMAT", &c.Log.Format)

	if v, ok := os.LookupEnv("CHAINCODE_TLS_DISABLED"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: CHAINCODE_TLS_DISABLED=%q: %w", v, err)
		}
		c.Chaincode.TLS.Disabled = b
	}
	return nil
}

func (c Config) Validate() error {
	if !c.AsService() {
		return nil
	}
	if c.Chaincode.ID == "" {
		return errors.New("config: CHAINCODE_ID is required when CHAINCODE_SERVER_ADDRESS is set")
	}
	if !c.Chaincode.TLS.Disabled && (c.Chaincode.TLS.KeyFile == "" || c.Chaincode.TLS.CertFile == "") {
		return errors.New("config: TLS key and cert files are required unless CHAINCODE_TLS_DISABLED=true")
	}
	return nil
}
