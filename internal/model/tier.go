package model

import (
	"fmt"
	"strings"
)

// Tier is the ordinal difficulty level of a session
type Tier int

const (
	TierEasy Tier = iota
	TierMedium
	TierHard
	TierStreamer
)

// TierCount is the number of difficulty tiers
const TierCount = 4

var tierNames = [TierCount]string{"EASY", "MEDIUM", "HARD", "STREAMER"}

var tierComplexity = [TierCount]float64{1.0, 1.25, 1.5, 2.0}

// Valid reports whether t is one of the four known tiers
func (t Tier) Valid() bool {
	return t >= TierEasy && t <= TierStreamer
}

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// Complexity is the score multiplier of the tier's questions, whatever their source
func (t Tier) Complexity() float64 {
	if !t.Valid() {
		return 1.0
	}
	return tierComplexity[t]
}

// ParseTier accepts either the tier name (case-insensitive) or its ordinal
func ParseTier(s string) (Tier, error) {
	s = strings.TrimSpace(s)
	for i, name := range tierNames {
		if strings.EqualFold(s, name) || s == fmt.Sprint(i) {
			return Tier(i), nil
		}
	}
	return TierEasy, fmt.Errorf("unknown difficulty tier %q", s)
}

// UnmarshalJSON accepts the tier as a number or as its name
func (t *Tier) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseTier(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
