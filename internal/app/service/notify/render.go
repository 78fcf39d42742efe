package notify

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_\-]+)\s*\}\}`)

// RenderTemplate substitutes {{key}} placeholders from vars. Placeholders
// with no matching key stay literally in place, so a template mentioning a
// field a given form does not collect still renders.
func RenderTemplate(content string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(content, func(m string) string {
		key := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := vars[key]; ok {
			return v
		}
		return m
	})
}

// NormalizePhone reduces the input to digits and applies the Brazilian
// country-code convention: an 11-digit local number (DDD + 9 digits) gets
// the 55 prefix, a 13-digit number already carrying 55 passes through, and
// anything else is left as-is rather than guessed at.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 11:
		return "55" + digits
	case len(digits) == 13 && strings.HasPrefix(digits, "55"):
		return digits
	default:
		return digits
	}
}

// FormatAmount renders a money value the way templates expect ({{valor}}),
// Brazilian style: "R$ 1.234,56".
func FormatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	intPart, decPart, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)
	intPart = strings.Join(groups, ".")
	if neg {
		intPart = "-" + intPart
	}
	return "R$ " + intPart + "," + decPart
}

func truncateError(err error, max int) *string {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if len(msg) > max {
		msg = msg[:max]
	}
	return &msg
}
