package llm

import (
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestFirstCandidateText(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{"nil response", nil, ""},
		{"no candidates", &genai.GenerateContentResponse{}, ""},
		{"nil content", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{}},
		}, ""},
		{"no parts", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
		}, ""},
		{"text present", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{
				Parts: []*genai.Part{{Text: "hello"}},
			}}},
		}, "hello"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := firstCandidateText(tc.resp); got != tc.want {
				t.Fatalf("firstCandidateText() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSafetySettingsCoverThreeCategories(t *testing.T) {
	settings := safetySettings()
	if len(settings) != 3 {
		t.Fatalf("settings = %d, want 3", len(settings))
	}
	for _, s := range settings {
		if s.Threshold != genai.HarmBlockThresholdBlockMediumAndAbove {
			t.Fatalf("category %s threshold = %v, want block medium and above", s.Category, s.Threshold)
		}
	}
}

func TestGenerationErrorKinds(t *testing.T) {
	cause := errors.New("connection refused")
	err := RequestFailed(cause)

	var genErr *GenerationError
	if !errors.As(error(err), &genErr) {
		t.Fatal("errors.As failed to match *GenerationError")
	}
	if genErr.Kind != ErrKindRequestFailed {
		t.Fatalf("kind = %v, want ErrKindRequestFailed", genErr.Kind)
	}
	if !errors.Is(err, cause) {
		t.Fatal("wrapped cause not reachable via errors.Is")
	}

	empty := EmptyResponse()
	if empty.Kind != ErrKindEmptyResponse {
		t.Fatalf("kind = %v, want ErrKindEmptyResponse", empty.Kind)
	}
	if empty.Error() == "" {
		t.Fatal("empty response error has no message")
	}
}
