package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PASSPORT_CONFIG", "CHAINCODE_ID", "CHAINCODE_SERVER_ADDRESS", "CHAINCODE_TLS_DISABLED",
	"CHAINCODE_TLS_KEY_FILE", "CHAINCODE_TLS_CERT_FILE", "CHAINCODE_TLS_CLIENT_CA_CERT_FILE",
	"PRIVATE_COLLECTION", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv unsets the variables Load reads and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		k := k
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, v) })
		} else {
			t.Cleanup(func() { os.Unsetenv(k) })
		}
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.AsService())
	assert.Equal(t, "privateMaterialsCollection", cfg.PrivateCollection)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "config.yaml", `
chaincode:
  id: passport:1.0
  address: 0.0.0.0:9999
  tls:
    disabled: false
    key_file: /tls/key.pem
    cert_file: /tls/cert.pem
private_collection: pdcFromYAML
log:
  level: debug
  format: console
`)
	envPath := writeFile(t, dir, ".env", "PRIVATE_COLLECTION=pdcFromDotEnv\nLOG_LEVEL=warn\n")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load(yamlPath, envPath)
	require.NoError(t, err)

	assert.Equal(t, "passport:1.0", cfg.Chaincode.ID)
	assert.Equal(t, "0.0.0.0:9999", cfg.Chaincode.Address)
	assert.False(t, cfg.Chaincode.TLS.Disabled)
	assert.Equal(t, "/tls/key.pem", cfg.Chaincode.TLS.KeyFile)
	assert.Equal(t, "pdcFromDotEnv", cfg.PrivateCollection)
	assert.Equal(t, "error", cfg.Log.Level, "process env wins over .env")
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.AsService())
}

func TestLoad_PathFromEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "custom.yaml", "private_collection: fromCustom\n")
	t.Setenv("PASSPORT_CONFIG", yamlPath)

	cfg, err := Load("", filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "fromCustom", cfg.PrivateCollection)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	noEnv := filepath.Join(dir, "missing.env")

	_, err := Load(writeFile(t, dir, "bad.yaml", "chaincode: [unterminated"), noEnv)
	assert.Error(t, err)

	t.Setenv("CHAINCODE_TLS_DISABLED", "maybe")
	_, err = Load(filepath.Join(dir, "missing.yaml"), noEnv)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Chaincode.Address = "0.0.0.0:9999"
	assert.Error(t, cfg.Validate(), "address without id")

	cfg.Chaincode.ID = "passport:1.0"
	assert.NoError(t, cfg.Validate())

	cfg.Chaincode.TLS.Disabled = false
	assert.Error(t, cfg.Validate(), "tls without key material")

	cfg.Chaincode.TLS.KeyFile = "k"
	cfg.Chaincode.TLS.CertFile = "c"
	assert.NoError(t, cfg.Validate())
}
