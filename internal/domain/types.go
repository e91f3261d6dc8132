package domain

import (
	"fmt"
	"strings"
)

type SessionID string
type UserID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MBTI is a validated four-letter personality code (one of the 16 types).
type MBTI string

// Axis accessors. Each returns a single letter of the code.
func (m MBTI) Energy() byte      { return m[0] } // E or I
func (m MBTI) Information() byte { return m[1] } // S or N
func (m MBTI) Decision() byte    { return m[2] } // T or F
func (m MBTI) Lifestyle() byte   { return m[3] } // J or P

// ParseMBTI validates and normalizes a raw MBTI string.
func ParseMBTI(s string) (MBTI, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if len(v) != 4 {
		return "", fmt.Errorf("%w: mbti must be a 4-letter code, got %q", ErrValidation, s)
	}
	axes := []string{"EI", "SN", "TF", "JP"}
	for i, valid := range axes {
		if !strings.ContainsRune(valid, rune(v[i])) {
			return "", fmt.Errorf("%w: invalid mbti code %q", ErrValidation, s)
		}
	}
	return MBTI(v), nil
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ParseGender validates and normalizes a raw gender string.
func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToUpper(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g, nil
	default:
		return "", fmt.Errorf("%w: invalid gender %q", ErrValidation, s)
	}
}
