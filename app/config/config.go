package config

import (
	"flag"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"passgate/app/bridge"
	"passgate/app/entitlement"
	"passgate/app/models"
	"passgate/pkg/aptos"
	"passgate/pkg/log"
)

const (
	defaultConfigPath = "./configs/config.yaml"

	defaultRestAddr        = ":8000"
	defaultShutdownTimeout = 30 * time.Second

	envPrefix = "PASSGATE"
)

type Browser struct {
	RequestTTL time.Duration `mapstructure:"requestTTL"`
}

type Config struct {
	RestAddr        string             `mapstructure:"restAddr"`
	ShutdownTimeout time.Duration      `mapstructure:"shutdownTimeout"`
	Logging         log.Config         `mapstructure:"log"`
	Entitlement     entitlement.Config `mapstructure:"entitlement"`
	Bridge          bridge.Config      `mapstructure:"bridge"`
	Browser         Browser            `mapstructure:"browser"`
}

// Globals returns the injected-global overrides for the wallet registry.
func (c *Config) Globals() map[models.WalletName]string {
	if c.Bridge.PetraGlobal == "" {
		return nil
	}
	return map[models.WalletName]string{models.WalletPetra: c.Bridge.PetraGlobal}
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(err, "invalid %s", field)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("%s must be an http(s) url, got %q", field, raw)
	}
	return nil
}

func (c *Config) Validate() error {
	var err error
	if c.RestAddr == "" {
		err = multierr.Append(err, errors.New("you must provide restAddr in a config"))
	}
	if _, e := aptos.ParseObjectID(c.Entitlement.CollectionID); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "entitlement.collectionID"))
	}
	err = multierr.Append(err, validateURL("entitlement.baseURL", c.Entitlement.BaseURL))
	err = multierr.Append(err, validateURL("entitlement.mintURL", c.Entitlement.MintURL))
	if c.Entitlement.HTTPTimeout < 0 {
		err = multierr.Append(err, errors.New("entitlement.httpTimeout must not be negative"))
	}
	if c.Bridge.RetryInterval <= 0 {
		err = multierr.Append(err, errors.New("bridge.retryInterval must be positive"))
	}
	if c.Bridge.ConnectTimeout < 0 {
		err = multierr.Append(err, errors.New("bridge.connectTimeout must not be negative"))
	}
	if c.Browser.RequestTTL < 0 {
		err = multierr.Append(err, errors.New("browser.requestTTL must not be negative"))
	}
	return err
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("restAddr", defaultRestAddr)
	v.SetDefault("shutdownTimeout", defaultShutdownTimeout)
	v.SetDefault("entitlement.baseURL", entitlement.DefaultBaseURL)
	v.SetDefault("entitlement.collectionID", entitlement.DefaultCollectionID)
	v.SetDefault("entitlement.mintURL", entitlement.DefaultMintURL)
	v.SetDefault("entitlement.httpTimeout", entitlement.DefaultHTTPTimeout)
	v.SetDefault("bridge.retryInterval", bridge.DefaultRetryInterval)
	v.SetDefault("bridge.connectTimeout", time.Duration(0))
	v.SetDefault("browser.requestTTL", time.Duration(0))
}

// Load reads the config file at path, if any, applies defaults and
// PASSGATE_* environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "failed to read a file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal a config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

// Parse loads the file named by the -config flag.
func Parse() (*Config, error) {
	configPath := flag.String("config", defaultConfigPath, "configuration file path")
	flag.Parse()

	return Load(*configPath)
}
