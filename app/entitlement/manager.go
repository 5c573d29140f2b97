// Package entitlement decides whether a wallet holds the pass by asking the
// marketplace aggregator for the wallet's tokens in the pass collection.
package entitlement

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"passgate/app/models"
	"passgate/pkg/log"
)

const (
	DefaultBaseURL      = "https://aggregator-api.wapal.io"
	DefaultCollectionID = "0xe874fa9302dc2bbf91016d1329bd5eb923db290b363093922a841a280e878d37"
	DefaultMintURL      = "https://launchpad.wapal.io/nft/legendary-drivers-pass"

	DefaultHTTPTimeout = 30 * time.Second

	tokensPath   = "/user/tokens/"
	showAllQuery = "show_all"
)

type Config struct {
	BaseURL      string        `mapstructure:"baseURL"`
	CollectionID string        `mapstructure:"collectionID"`
	MintURL      string        `mapstructure:"mintURL"`
	HTTPTimeout  time.Duration `mapstructure:"httpTimeout"`
}

type Manager struct {
	Config     Config
	HttpClient *http.Client
}

// NewManager fills unset config fields with the defaults above.
func NewManager(cfg Config) *Manager {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CollectionID == "" {
		cfg.CollectionID = DefaultCollectionID
	}
	if cfg.MintURL == "" {
		cfg.MintURL = DefaultMintURL
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	return &Manager{
		Config:     cfg,
		HttpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

func (m *Manager) tokensURL(address string) string {
	q := url.Values{}
	q.Set("collectionId", m.Config.CollectionID)
	q.Set("type", showAllQuery)
	return m.Config.BaseURL + tokensPath + url.PathEscape(address) + "?" + q.Encode()
}

func (m *Manager) Check(ctx context.Context, address string) (*models.Entitlement, error) {
	out := &models.Entitlement{Address: address, Decision: models.NotEntitled}

	tokens, err := m.fetchTokens(ctx, address)
	if err != nil {
		log.Errorw("entitlement check failed", "address", address, "error", err.Error())
		return out, err
	}

	out.Tokens = tokens
	out.Decision = models.DecisionFor(tokens)
	log.Infow("entitlement checked", "address", address, "tokens", len(tokens), "decision", out.Decision.String())
	return out, nil
}

func (m *Manager) fetchTokens(ctx context.Context, address string) ([]*models.TokenRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.tokensURL(address), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create a get request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.HttpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to perform a get request to the aggregator")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("aggregator responded with status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read a response body from the aggregator")
	}

	// the aggregator answers with a bare array; null decodes to an empty list
	var tokens []*models.TokenRecord
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal a response from the aggregator (%d bytes)", len(body))
	}
	return tokens, nil
}
