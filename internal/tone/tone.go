package tone

import (
	"fmt"
	"strings"
)

// Tone selects the assistant's response style. Each tone carries a fixed
// instruction preamble and controls the generation temperature; everything
// else about the request is tone-independent.
type Tone string

const (
	Friendly     Tone = "friendly"
	Professional Tone = "professional"
	Enthusiastic Tone = "enthusiastic"
	Simple       Tone = "simple"
	Expert       Tone = "expert"
)

// Default is used when no tone has been selected.
const Default = Friendly

// Generation parameters that do not vary by tone.
const (
	TopK            = 40
	TopP            = 0.95
	MaxOutputTokens = 1024
)

var all = []Tone{Friendly, Professional, Enthusiastic, Simple, Expert}

var instructions = map[Tone]string{
	Friendly:     "You are Instylo's AI assistant focused on helping users build meaningful connections and communities. Respond in a friendly, warm, and personable manner. Use the user's name if you know it. Focus on social connections, community building, and combating loneliness through digital connections.",
	Professional: "You are Instylo's AI assistant focused on helping users build meaningful connections and communities. Respond professionally with precise information about social networking, community building strategies, and connection opportunities.",
	Enthusiastic: "You are Instylo's AI assistant focused on helping users build meaningful connections and communities. Respond with enthusiasm and energy. Be encouraging about joining communities, making friends, and building social connections. Be upbeat about combating loneliness through digital and in-person interactions.",
	Simple:       "You are Instylo's AI assistant focused on helping users build meaningful connections and communities. Use simple, clear language about friendship, community involvement, and social networking that anyone can understand. Avoid complex terminology.",
	Expert:       "You are Instylo's AI assistant focused on helping users build meaningful connections and communities. Respond with detailed information showing expertise in social psychology, community building, friendship formation, and combating loneliness through meaningful connections.",
}

// Parse validates a tone name. The empty string resolves to Default.
func Parse(s string) (Tone, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Default, nil
	}
	t := Tone(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown tone %q (valid: %s)", s, strings.Join(Names(), ", "))
	}
	return t, nil
}

// All returns the tones in presentation order.
func All() []Tone {
	out := make([]Tone, len(all))
	copy(out, all)
	return out
}

// Names returns the tone names in presentation order.
func Names() []string {
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = string(t)
	}
	return names
}

func (t Tone) Valid() bool {
	_, ok := instructions[t]
	return ok
}

// Instruction returns the persona preamble prepended to every prompt.
func (t Tone) Instruction() string {
	if instr, ok := instructions[t]; ok {
		return instr
	}
	return instructions[Default]
}

// Temperature returns the generation temperature for the tone.
func (t Tone) Temperature() float64 {
	switch t {
	case Expert:
		return 0.3
	case Enthusiastic:
		return 0.9
	default:
		return 0.7
	}
}
