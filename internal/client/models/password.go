package models

// Strength is a coarse rating of a password.
type Strength string

const (
	StrengthNone   Strength = ""
	StrengthWeak   Strength = "weak"
	StrengthFair   Strength = "fair"
	StrengthGood   Strength = "good"
	StrengthStrong Strength = "strong"
)

// PasswordStrength scores pw one point each for: at least 8 characters, an
// upper-case letter, a lower-case letter, a digit and any other character.
func PasswordStrength(pw string) Strength {
	if pw == "" {
		return StrengthNone
	}

	var upper, lower, digit, other bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}

	score := 0
	for _, ok := range []bool{len(pw) >= 8, upper, lower, digit, other} {
		if ok {
			score++
		}
	}

	switch score {
	case 0, 1:
		return StrengthWeak
	case 2:
		return StrengthFair
	case 3, 4:
		return StrengthGood
	default:
		return StrengthStrong
	}
}
