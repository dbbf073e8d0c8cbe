package tone

import "testing"

func TestTemperature(t *testing.T) {
	tests := []struct {
		tone Tone
		want float64
	}{
		{Expert, 0.3},
		{Enthusiastic, 0.9},
		{Friendly, 0.7},
		{Professional, 0.7},
		{Simple, 0.7},
	}
	for _, tc := range tests {
		t.Run(string(tc.tone), func(t *testing.T) {
			if got := tc.tone.Temperature(); got != tc.want {
				t.Fatalf("Temperature() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("EXPERT")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != Expert {
		t.Fatalf("Parse() = %q, want %q", got, Expert)
	}

	got, err = Parse("")
	if err != nil {
		t.Fatalf("Parse(empty) error = %v", err)
	}
	if got != Default {
		t.Fatalf("Parse(empty) = %q, want default %q", got, Default)
	}

	if _, err := Parse("sarcastic"); err == nil {
		t.Fatal("Parse(sarcastic) expected error, got nil")
	}
}

func TestInstructionCoversAllTones(t *testing.T) {
	for _, tone := range All() {
		if tone.Instruction() == "" {
			t.Fatalf("tone %q has no instruction", tone)
		}
	}
}
