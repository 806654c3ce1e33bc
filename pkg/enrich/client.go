// Package enrich fills missing conference fields by querying a
// web-search-capable LLM API and validating what comes back. The package
// holds the three pieces of the pipeline: the prompt builder, the Gemini
// client, and the update applier that merges validated values into a
// record's empty fields.
package enrich

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/confsync/confsync/pkg/conferences"
	"github.com/confsync/confsync/pkg/errors"
	"github.com/confsync/confsync/pkg/logging"
)

// Client is the enrichment boundary: one call per incomplete record.
// A nil, nil return means the search found nothing for this record.
type Client interface {
	// Enrich asks the API for the candidate's missing fields.
	Enrich(ctx context.Context, cand conferences.Candidate) (map[string]string, error)

	// Ping verifies the API is reachable with the configured credential.
	Ping(ctx context.Context) error
}

// Gemini is the production Client backed by the Gemini API with the
// Google Search tool enabled.
type Gemini struct {
	client *genai.Client
	model  string
}

// Compile-time interface check.
var _ Client = (*Gemini)(nil)

// NewGemini creates a Gemini enrichment client.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, &errors.ConfigError{
			Component: "enrich",
			Message:   "API key required - set GEMINI_API_KEY",
			Err:       errors.ErrAPIKeyRequired,
		}
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, &errors.APIError{Provider: "gemini", Message: "creating client", Err: err}
	}

	return &Gemini{client: client, model: model}, nil
}

// DefaultModel is the model used when none is configured. Search
// grounding requires a model that supports the Google Search tool.
const DefaultModel = "gemini-2.5-flash"

// Enrich sends one search-grounded query and parses the structured
// response. Failures come back as *errors.EnrichmentError so the caller
// can decide retry or skip without aborting the batch.
func (g *Gemini) Enrich(ctx context.Context, cand conferences.Candidate) (map[string]string, error) {
	prompt := Prompt(cand)

	logging.Debug().
		Str("conference", cand.Name).
		Strs("missing", cand.Missing).
		Msg("Querying enrichment API")

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return nil, errors.NewEnrichmentError(cand.Name, err)
	}

	fields, err := ParseResponse(resp.Text())
	if err != nil {
		return nil, errors.NewEnrichmentError(cand.Name, err)
	}
	if fields == nil {
		logging.Info().Str("conference", cand.Name).Msg("No information found")
		return nil, nil
	}

	logging.Info().
		Str("conference", cand.Name).
		Int("fields", len(fields)).
		Msg("Enrichment response parsed")
	return fields, nil
}

// Ping sends a trivial request to verify credentials and connectivity.
// Run at cycle start so a dead credential skips the cycle instead of
// burning the whole batch on per-record failures.
func (g *Gemini) Ping(ctx context.Context) error {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text("Respond with the single word: ok"), nil)
	if err != nil {
		return &errors.APIError{Provider: "gemini", Message: "connection test failed", Err: err}
	}
	if !strings.Contains(strings.ToLower(resp.Text()), "ok") {
		return &errors.APIError{Provider: "gemini", Message: "connection test returned unexpected response"}
	}
	return nil
}
