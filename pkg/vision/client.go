// Package vision wraps the Gemini API for class-photo analysis. The model
// does the actual work; this package builds the prompt, ships the photos and
// turns the reply back into typed fields.
package vision

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Hints are the locally known facts passed to the model so it can
// cross-check rather than guess.
type Hints struct {
	OrphanageName string
	ClassDate     string // "2006-01-02"
	ClassTime     string // free-form, as logged
	PhotoLat      *float64
	PhotoLng      *float64
	ExifTime      string // RFC3339, empty when no EXIF
}

// Usage reports the token counts of one call for cost tracking.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Gemini 1.5 Pro list pricing, in micro-USD per token.
const (
	inputTokenMicroUSD  = 1.25
	outputTokenMicroUSD = 5.0
)

// CostMicroUSD estimates the call cost from the token counts.
func (u Usage) CostMicroUSD() int64 {
	return int64(float64(u.InputTokens)*inputTokenMicroUSD +
		float64(u.OutputTokens)*outputTokenMicroUSD)
}

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// AnalyzeClassPhotos sends the photos plus hints to the model and parses its
// structured verdict. One blocking call, no retry; the caller surfaces
// failures to the admin who can re-trigger analysis.
func (c *Client) AnalyzeClassPhotos(ctx context.Context, photos [][]byte, hints Hints) (*Analysis, Usage, error) {
	parts := make([]genai.Part, 0, len(photos)+1)
	for _, p := range photos {
		parts = append(parts, genai.ImageData("jpeg", p))
	}
	parts = append(parts, genai.Text(buildPrompt(hints)))

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, Usage{}, fmt.Errorf("gemini generate: %w", err)
	}

	var usage Usage
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, usage, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	analysis, err := ParseAnalysis(sb.String())
	if err != nil {
		return nil, usage, err
	}
	return analysis, usage, nil
}

func buildPrompt(h Hints) string {
	var sb strings.Builder
	sb.WriteString("You are verifying photos from an English class taught at an orphanage in Bali.\n")
	fmt.Fprintf(&sb, "The class was logged at orphanage %q on %s", h.OrphanageName, h.ClassDate)
	if h.ClassTime != "" {
		fmt.Fprintf(&sb, " around %s", h.ClassTime)
	}
	sb.WriteString(".\n")
	if h.PhotoLat != nil && h.PhotoLng != nil {
		fmt.Fprintf(&sb, "A photo carries GPS coordinates %.6f, %.6f.\n", *h.PhotoLat, *h.PhotoLng)
	}
	if h.ExifTime != "" {
		fmt.Fprintf(&sb, "A photo carries EXIF capture time %s.\n", h.ExifTime)
	}
	sb.WriteString(`
Look at the photos and answer with JSON only, no prose, matching:
{
  "kidCount": <number of children visible across the photos>,
  "locationDescription": "<what the setting looks like>",
  "timestampDescription": "<visual cues about time of day>",
  "orphanageMatch": "<one of: high, likely, uncertain, unlikely>",
  "confidenceNotes": "<short reasoning for the match label>"
}`)
	return sb.String()
}
