package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider calls the Gemini generateContent endpoint through the
// official SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured (set gemini.api_key or GEMINI_API_KEY)")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Model() string { return p.model }

// Generate performs a single generateContent call. Cancellation of ctx
// aborts the request.
func (p *GeminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		TopK:            genai.Ptr(float32(req.TopK)),
		TopP:            genai.Ptr(float32(req.TopP)),
		MaxOutputTokens: req.MaxOutputTokens,
		SafetySettings:  safetySettings(),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", RequestFailed(err)
	}

	text := firstCandidateText(resp)
	if text == "" {
		return "", EmptyResponse()
	}
	return text, nil
}

// safetySettings blocks medium-and-above content in the three categories
// the assistant enforces.
func safetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return settings
}

// firstCandidateText extracts candidates[0].content.parts[0].text, guarding
// every step: a blocked or malformed response yields "".
func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 {
		return ""
	}
	part := cand.Content.Parts[0]
	if part == nil {
		return ""
	}
	return part.Text
}
