package extract

import (
	"strings"

	"github.com/instylo/companion/internal/chat"
)

// MaxInterests caps the detected interest list. The earliest interests
// found are kept.
const MaxInterests = 3

// Keywords that mark a memory point as interest-bearing, so interests
// recorded as free text can be recovered by the structured rules.
var interestKeywords = []string{"interested in", "likes", "enjoys", "hobby"}

// Name scans user-authored messages newest-first and returns the first
// detected name, or "" when no rule matches. A miss is a normal outcome.
func Name(messages []chat.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if !messages[i].IsUser {
			continue
		}
		if name := NameFromText(messages[i].Text); name != "" {
			return name
		}
	}
	return ""
}

// NameFromText applies the name rules to a single text. Used as the
// fast path on the message currently being sent, so a name introduced in
// it is recognized without a one-turn lag.
func NameFromText(text string) string {
	for _, rule := range rulesFor(FieldName) {
		if m := rule.Pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// Interests scans user-authored messages oldest-first with the interest
// rules, then re-scans memory points that contain an interest keyword.
// Matches are unique in first-seen order, capped at MaxInterests.
func Interests(messages []chat.Message, memoryPoints []string) []string {
	var found []string
	seen := make(map[string]bool)

	collect := func(text string) {
		for _, rule := range rulesFor(FieldInterest) {
			for _, m := range rule.Pattern.FindAllStringSubmatch(text, -1) {
				if m[1] != "" && !seen[m[1]] {
					seen[m[1]] = true
					found = append(found, m[1])
				}
			}
		}
	}

	for _, msg := range messages {
		if msg.IsUser {
			collect(msg.Text)
		}
	}

	for _, point := range memoryPoints {
		lower := strings.ToLower(point)
		for _, kw := range interestKeywords {
			if strings.Contains(lower, kw) {
				collect(point)
				break
			}
		}
	}

	if len(found) > MaxInterests {
		found = found[:MaxInterests]
	}
	return found
}
