package morph

import (
	"strings"
	"unicode"
)

// maskSSN: 123-45-6789 -> ***-**-6789
func maskSSN(value string) (string, error) {
	digits := extractDigits(value)
	if len(digits) < 4 {
		return stars(value), nil
	}
	return "***-**-" + digits[len(digits)-4:], nil
}

// maskEmail: alice@example.com -> a***@example.com
func maskEmail(value string) (string, error) {
	at := strings.LastIndex(value, "@")
	if at < 1 {
		return stars(value), nil
	}
	return value[:1] + "***" + value[at:], nil
}

// maskPhone: (555) 123-4567 -> (***) ***-4567
func maskPhone(value string) (string, error) {
	digits := extractDigits(value)
	if len(digits) < 4 {
		return stars(value), nil
	}
	last4 := digits[len(digits)-4:]
	switch {
	case strings.HasPrefix(value, "(") && len(digits) >= 10:
		return "(***) ***-" + last4, nil
	case len(digits) >= 10:
		return "***-***-" + last4, nil
	default:
		return "***-" + last4, nil
	}
}

// maskCard: 4111111111111111 -> ************1111, keeping space or dash grouping.
func maskCard(value string) (string, error) {
	digits := extractDigits(value)
	if len(digits) < 4 {
		return stars(value), nil
	}
	last4 := digits[len(digits)-4:]
	for _, sep := range []string{" ", "-"} {
		if strings.Contains(value, sep) {
			groups := make([]string, (len(digits)-4+3)/4)
			for i := range groups {
				groups[i] = "****"
			}
			return strings.Join(append(groups, last4), sep), nil
		}
	}
	return strings.Repeat("*", len(digits)-4) + last4, nil
}

// maskIP keeps the network half: 192.168.1.100 -> 192.168.xxx.xxx and
// 2001:db8:85a3::7334 -> 2001:db8:85a3:0000:xxxx:xxxx:xxxx:xxxx.
func maskIP(value string) (string, error) {
	if parts := strings.Split(value, "."); len(parts) == 4 {
		return parts[0] + "." + parts[1] + ".xxx.xxx", nil
	}
	if !strings.Contains(value, ":") {
		return stars(value), nil
	}
	parts := strings.Split(expandIPv6(value), ":")
	if len(parts) != 8 {
		return stars(value), nil
	}
	return strings.Join(parts[:4], ":") + ":xxxx:xxxx:xxxx:xxxx", nil
}

// expandIPv6 expands :: into the zero groups it stands for.
func expandIPv6(value string) string {
	halves := strings.Split(value, "::")
	if len(halves) != 2 {
		return value
	}
	var left, right []string
	if halves[0] != "" {
		left = strings.Split(halves[0], ":")
	}
	if halves[1] != "" {
		right = strings.Split(halves[1], ":")
	}
	missing := 8 - len(left) - len(right)
	if missing < 0 {
		return value
	}
	all := append([]string{}, left...)
	for range missing {
		all = append(all, "0000")
	}
	return strings.Join(append(all, right...), ":")
}

// maskUUID: 550e8400-e29b-41d4-a716-446655440000 -> 550e8400-****-****-****-************
func maskUUID(value string) (string, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 5 {
		return stars(value), nil
	}
	return parts[0] + "-****-****-****-************", nil
}

// maskIBAN: GB82WEST12345698765432 -> GB82**************5432
func maskIBAN(value string) (string, error) {
	if len(value) <= 8 {
		return stars(value), nil
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:], nil
}

// maskName: John Smith -> J*** S****
func maskName(value string) (string, error) {
	words := strings.Fields(value)
	for i, word := range words {
		runes := []rune(word)
		words[i] = string(runes[0]) + strings.Repeat("*", len(runes)-1)
	}
	return strings.Join(words, " "), nil
}

func extractDigits(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}

func stars(s string) string {
	return strings.Repeat("*", len(s))
}
