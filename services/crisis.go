package services

import "strings"

// DefaultCrisisKeywords is the fallback keyword policy. The deployed list
// comes from configuration so it can be revised without a rebuild.
var DefaultCrisisKeywords = []string{
	"suicide",
	"kill myself",
	"end it all",
	"hurt myself",
	"can't go on",
	"want to die",
}

// CrisisDetector scans chat messages for self-harm indicators. It is a
// best-effort safety net, not a clinical safeguard: a missed phrase is an
// accepted limitation, and downstream consumers must not treat its output
// as a guarantee either way.
type CrisisDetector struct {
	phrases []string
}

// NewCrisisDetector builds a detector over the given phrase list; an
// empty list falls back to DefaultCrisisKeywords.
func NewCrisisDetector(phrases []string) *CrisisDetector {
	if len(phrases) == 0 {
		phrases = DefaultCrisisKeywords
	}
	lowered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			lowered = append(lowered, p)
		}
	}
	return &CrisisDetector{phrases: lowered}
}

// Scan reports whether the text contains any crisis phrase. Matching is a
// case-insensitive substring check; the detector keeps no state.
func (d *CrisisDetector) Scan(text string) bool {
	lowered := strings.ToLower(text)
	for _, p := range d.phrases {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}
