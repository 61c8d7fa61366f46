package validate

import "unicode/utf8"

// Strength is the result of scoring a password against five checks.
type Strength struct {
	Score    int      `json:"score"`
	Feedback []string `json:"feedback"`
	Class    string   `json:"class"`
}

// PasswordStrength awards one point each for length, lower case, upper case,
// digit and any other character. Feedback lists what is missing.
func PasswordStrength(pw string) Strength {
	var lower, upper, digit, other bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}

	s := Strength{Feedback: []string{}}
	checks := []struct {
		ok   bool
		hint string
	}{
		{utf8.RuneCountInString(pw) >= MinPasswordLength, "At least 8 characters"},
		{lower, "Lowercase letter"},
		{upper, "Uppercase letter"},
		{digit, "Number"},
		{other, "Special character"},
	}
	for _, c := range checks {
		if c.ok {
			s.Score++
		} else {
			s.Feedback = append(s.Feedback, c.hint)
		}
	}

	switch {
	case s.Score <= 2:
		s.Class = "strength-weak"
	case s.Score <= 3:
		s.Class = "strength-medium"
	default:
		s.Class = "strength-strong"
	}
	return s
}

// Match is the state of the confirm-password field.
type Match int

const (
	MatchUnknown Match = iota
	Matched
	Mismatched
)

func (m Match) String() string {
	switch m {
	case Matched:
		return "Passwords match"
	case Mismatched:
		return "Passwords do not match"
	default:
		return ""
	}
}

// SubmitEnabled reports whether the submit button should be enabled. An
// empty confirmation leaves it enabled.
func (m Match) SubmitEnabled() bool { return m != Mismatched }

// PasswordMatch compares pw with its confirmation. An empty confirmation is
// MatchUnknown.
func PasswordMatch(pw, confirm string) Match {
	if confirm == "" {
		return MatchUnknown
	}
	if pw == confirm {
		return Matched
	}
	return Mismatched
}
