// Package fallback adapts third-party shortening services. It is never
// called by the core: the surrounding layer probes /api/health first and
// only walks this chain when the primary store is unreachable.
package fallback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnavailable means every provider in the chain failed.
var ErrUnavailable = errors.New("fallback: no shortener available")

// Provider is one external shortening service. Providers that do not
// support aliases ignore the alias argument.
type Provider interface {
	Name() string
	Shorten(ctx context.Context, longURL, alias string) (string, error)
}

// Chain tries providers in priority order: the alias-capable provider
// first, then the alias-less free services.
type Chain struct {
	providers []Provider
}

// NewChain builds the default provider chain. TinyURL is included only
// when an API key is configured.
func NewChain(tinyURLAPIKey string) *Chain {
	client := &http.Client{Timeout: 10 * time.Second}

	var providers []Provider
	if tinyURLAPIKey != "" {
		providers = append(providers, &TinyURL{APIKey: tinyURLAPIKey, Client: client})
	}
	providers = append(providers,
		&SimpleProvider{ProviderName: "is.gd", Endpoint: "https://is.gd/create.php", Client: client},
		&SimpleProvider{ProviderName: "v.gd", Endpoint: "https://v.gd/create.php", Client: client},
	)
	return &Chain{providers: providers}
}

// NewChainWith builds a chain from explicit providers.
func NewChainWith(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Shorten walks the chain and returns the first successful short URL.
// Scheme-less input gets https:// prefixed before being sent out.
func (c *Chain) Shorten(ctx context.Context, longURL, alias string) (string, error) {
	if !strings.HasPrefix(longURL, "http://") && !strings.HasPrefix(longURL, "https://") {
		longURL = "https://" + longURL
	}

	var errs []error
	for _, p := range c.providers {
		short, err := p.Shorten(ctx, longURL, alias)
		if err == nil && short != "" {
			return short, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
	}
	return "", errors.Join(ErrUnavailable, errors.Join(errs...))
}

// TinyURL shortens through the TinyURL API and supports custom aliases.
type TinyURL struct {
	APIKey   string
	Client   *http.Client
	Endpoint string // defaults to the public API
}

// Name implements Provider.
func (t *TinyURL) Name() string { return "tinyurl" }

// Shorten implements Provider.
func (t *TinyURL) Shorten(ctx context.Context, longURL, alias string) (string, error) {
	endpoint := t.Endpoint
	if endpoint == "" {
		endpoint = "https://api.tinyurl.com/create"
	}

	payload := map[string]string{
		"url":    longURL,
		"domain": "tinyurl.com",
	}
	if alias != "" {
		payload["alias"] = alias
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("fallback: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("fallback: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fallback: tinyurl request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fallback: tinyurl status %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			TinyURL string `json:"tiny_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("fallback: decode tinyurl response: %w", err)
	}
	if result.Data.TinyURL == "" {
		return "", errors.New("fallback: tinyurl returned no url")
	}
	return result.Data.TinyURL, nil
}

// SimpleProvider covers the is.gd/v.gd style of API: a GET with the
// target URL as a query parameter, plain-text short URL in the body.
// No alias support.
type SimpleProvider struct {
	ProviderName string
	Endpoint     string
	Client       *http.Client
}

// Name implements Provider.
func (p *SimpleProvider) Name() string { return p.ProviderName }

// Shorten implements Provider.
func (p *SimpleProvider) Shorten(ctx context.Context, longURL, _ string) (string, error) {
	endpoint := p.Endpoint + "?format=simple&url=" + url.QueryEscape(longURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("fallback: build request: %w", err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fallback: %s request: %w", p.ProviderName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fallback: %s status %d", p.ProviderName, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("fallback: read %s response: %w", p.ProviderName, err)
	}
	short := strings.TrimSpace(string(body))
	if short == "" {
		return "", fmt.Errorf("fallback: %s returned empty body", p.ProviderName)
	}
	return short, nil
}
