package config

import "testing"

func TestApplyOverrides(t *testing.T) {
	cfg := &Config{
		Tone: "friendly",
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
	}

	cfg.ApplyOverrides("expert", "gemini-2.5-pro")
	if cfg.Tone != "expert" {
		t.Fatalf("tone=%q, want %q", cfg.Tone, "expert")
	}
	if cfg.Gemini.Model != "gemini-2.5-pro" {
		t.Fatalf("model=%q, want %q", cfg.Gemini.Model, "gemini-2.5-pro")
	}

	cfg.ApplyOverrides("", "gemini-2.5-flash")
	if cfg.Tone != "expert" {
		t.Fatalf("tone changed unexpectedly: %q", cfg.Tone)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Fatalf("model=%q, want %q", cfg.Gemini.Model, "gemini-2.5-flash")
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("COMPANION_TEST_KEY", "secret-value")

	tests := []struct {
		input string
		want  string
	}{
		{"${COMPANION_TEST_KEY}", "secret-value"},
		{"$COMPANION_TEST_KEY", "secret-value"},
		{"literal-key", "literal-key"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := expandEnv(tt.input); got != tt.want {
			t.Errorf("expandEnv(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolveValue(t *testing.T) {
	t.Setenv("COMPANION_TEST_KEY", "from-env")

	got, err := ResolveValue("${COMPANION_TEST_KEY}")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "from-env" {
		t.Errorf("ResolveValue() = %q, want %q", got, "from-env")
	}

	got, err = ResolveValue("$(echo from-command)")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "from-command" {
		t.Errorf("ResolveValue() = %q, want %q", got, "from-command")
	}

	got, err = ResolveValue("  plain  ")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "plain" {
		t.Errorf("ResolveValue() = %q, want %q", got, "plain")
	}
}
