package domain

import "strings"

const (
	// EligibleTag marks a customer as qualified to book an appointment.
	EligibleTag = "appointment-eligible"
	// BookedTag marks a customer as having completed a booking.
	BookedTag = "appointment-booked"
)

// TagSet is an ordered set of customer tags. The remote store represents tags
// as a single comma-delimited string; parsing happens once at the boundary and
// everything in between works on tokens.
type TagSet struct {
	tokens []string
}

// ParseTagSet splits a comma-delimited tag string into trimmed tokens,
// dropping empty ones. Relative order is preserved.
func ParseTagSet(raw string) TagSet {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		tokens = append(tokens, trimmed)
	}
	return TagSet{tokens: tokens}
}

// MarkBooked removes every occurrence of the eligible marker and appends the
// booked marker as the final token unless it is already present. Pre-existing
// duplicates of the booked marker are left untouched. The transformation is
// idempotent: applying it to its own output is a no-op.
func (s TagSet) MarkBooked() TagSet {
	tokens := make([]string, 0, len(s.tokens)+1)
	for _, token := range s.tokens {
		if token == EligibleTag {
			continue
		}
		tokens = append(tokens, token)
	}
	result := TagSet{tokens: tokens}
	if !result.Contains(BookedTag) {
		result.tokens = append(result.tokens, BookedTag)
	}
	return result
}

// Contains reports whether the exact token is present.
func (s TagSet) Contains(tag string) bool {
	for _, token := range s.tokens {
		if token == tag {
			return true
		}
	}
	return false
}

// Tokens returns a copy of the underlying tokens.
func (s TagSet) Tokens() []string {
	out := make([]string, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// String serializes the set back to the store's comma-delimited wire format.
func (s TagSet) String() string {
	return strings.Join(s.tokens, ",")
}
