package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aipdev/aip/internal/backend"
	"github.com/aipdev/aip/internal/tool"
)

const (
	defaultUsageURL = "https://api.anthropic.com/api/oauth/usage"
	// betaHeader opts the request into the OAuth usage endpoint.
	betaHeader = "oauth-2025-04-20"
)

// claudeCredentials is the slice of the credential blob we need for the
// usage request; everything else stays opaque.
type claudeCredentials struct {
	ClaudeAiOauth *struct {
		AccessToken string `json:"accessToken"`
	} `json:"claudeAiOauth"`
}

type claudeUsageResponse struct {
	FiveHour claudeWindow `json:"five_hour"`
	SevenDay claudeWindow `json:"seven_day"`
}

type claudeWindow struct {
	Utilization float64    `json:"utilization"` // percent used, 0-100
	ResetsAt    *time.Time `json:"resets_at"`
}

// ClaudeFetcher queries the Claude Code OAuth usage API using the active
// credential (or a named profile's credential, loaded without activating it).
type ClaudeFetcher struct {
	Backend backend.Backend
	Timeout time.Duration

	// BaseURL overrides the usage endpoint for testing.
	BaseURL string
	// HTTPClient overrides the default client for testing.
	HTTPClient *http.Client
}

// NewClaudeFetcher creates a fetcher over the default Claude backend.
func NewClaudeFetcher(timeout time.Duration) *ClaudeFetcher {
	return &ClaudeFetcher{Backend: backend.For(tool.Claude), Timeout: timeout}
}

func (f *ClaudeFetcher) Tool() tool.Tool { return tool.Claude }

func (f *ClaudeFetcher) url() string {
	if f.BaseURL != "" {
		return f.BaseURL
	}
	return defaultUsageURL
}

func (f *ClaudeFetcher) client() *http.Client {
	if f.HTTPClient != nil {
		return f.HTTPClient
	}
	return http.DefaultClient
}

// Fetch queries usage for the active credential.
func (f *ClaudeFetcher) Fetch(ctx context.Context) ([]Window, error) {
	blob, err := f.Backend.ReadActive()
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, fmt.Errorf("%w: not logged in", ErrUnavailable)
		}
		return nil, err
	}
	return f.fetchWith(ctx, blob)
}

// FetchProfile queries usage for a saved profile's credential without
// activating it.
func (f *ClaudeFetcher) FetchProfile(ctx context.Context, name string) ([]Window, error) {
	blob, err := f.Backend.ReadProfile(name)
	if err != nil {
		return nil, err
	}
	return f.fetchWith(ctx, blob)
}

func (f *ClaudeFetcher) fetchWith(ctx context.Context, blob []byte) ([]Window, error) {
	var creds claudeCredentials
	if err := json.Unmarshal(blob, &creds); err != nil {
		return nil, fmt.Errorf("parsing credential: %w", err)
	}
	if creds.ClaudeAiOauth == nil || creds.ClaudeAiOauth.AccessToken == "" {
		return nil, fmt.Errorf("%w: credential has no OAuth token", ErrUnavailable)
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.ClaudeAiOauth.AccessToken)
	req.Header.Set("anthropic-beta", betaHeader)

	resp, err := f.client().Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || (ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("usage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("usage API returned %d: %s", resp.StatusCode, body)
	}

	var parsed claudeUsageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding usage response: %w", err)
	}

	return []Window{
		{Tool: tool.Claude, Label: "5h", Fraction: parsed.FiveHour.Utilization / 100, Convention: Used, ResetsAt: parsed.FiveHour.ResetsAt},
		{Tool: tool.Claude, Label: "7d", Fraction: parsed.SevenDay.Utilization / 100, Convention: Used, ResetsAt: parsed.SevenDay.ResetsAt},
	}, nil
}
