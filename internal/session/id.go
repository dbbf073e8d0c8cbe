package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewID generates a session ID with a timestamp prefix and a random
// suffix: YYYYMMDD-HHMMSS-RANDOM. IDs sort chronologically and stay
// readable in listings while the suffix avoids collisions.
func NewID() string {
	now := time.Now()
	random := make([]byte, 3) // 6 hex chars
	rand.Read(random)
	return fmt.Sprintf("%s-%s",
		now.Format("20060102-150405"),
		hex.EncodeToString(random),
	)
}

// ShortID shortens a session ID for display: "20240115-143052-a1b2c3"
// becomes "240115-1430".
func ShortID(id string) string {
	if len(id) < 15 {
		return id
	}
	return id[2:8] + "-" + id[9:13]
}

// ExpandShortID turns a displayed short ID back into a SQL LIKE pattern
// matching the full ID. Full IDs pass through unchanged; anything else
// gets a trailing wildcard.
func ExpandShortID(short string) string {
	if len(short) == 22 && short[8] == '-' && short[15] == '-' {
		return short
	}
	if len(short) == 11 && short[6] == '-' {
		return "20" + short[:6] + "-" + short[7:] + "%"
	}
	return short + "%"
}
