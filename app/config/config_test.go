package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"passgate/app/entitlement"
	"passgate/app/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.RestAddr)
	assert.Equal(t, entitlement.DefaultCollectionID, cfg.Entitlement.CollectionID)
	assert.Equal(t, entitlement.DefaultMintURL, cfg.Entitlement.MintURL)
	assert.Equal(t, 100*time.Millisecond, cfg.Bridge.RetryInterval)
	assert.Zero(t, cfg.Bridge.ConnectTimeout)
	assert.Nil(t, cfg.Globals())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
restAddr: ":9000"
log:
  level: debug
entitlement:
  baseURL: http://localhost:8081
  httpTimeout: 5s
bridge:
  retryInterval: 250ms
  connectTimeout: 2m
  petraGlobal: petra
browser:
  requestTTL: 10m
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.RestAddr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://localhost:8081", cfg.Entitlement.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Entitlement.HTTPTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Bridge.RetryInterval)
	assert.Equal(t, 2*time.Minute, cfg.Bridge.ConnectTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Browser.RequestTTL)
	assert.Equal(t, map[models.WalletName]string{models.WalletPetra: "petra"}, cfg.Globals())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PASSGATE_RESTADDR", ":7000")
	t.Setenv("PASSGATE_ENTITLEMENT_MINTURL", "https://mint.example/pass")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.RestAddr)
	assert.Equal(t, "https://mint.example/pass", cfg.Entitlement.MintURL)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Entitlement: entitlement.Config{
			BaseURL:      "ftp://aggregator",
			CollectionID: "0x1234",
			MintURL:      "https://launchpad.example",
		},
	}
	err := cfg.Validate()
	require.Error(t, err)
	// restAddr, collection id, base url, retry interval
	assert.Len(t, multierr.Errors(err), 4)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
