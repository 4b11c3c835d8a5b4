// Package tools holds the pure logic behind the utility tool endpoints:
// calculator, text formatting and resume building. AI-backed tools live
// with the controller since they only forward prompts.
package tools

import (
	"errors"
	"regexp"
	"strings"
)

var ErrUnknownOperation = errors.New("unknown operation")

// Calculate applies a basic arithmetic operation. Division by zero
// returns "Infinity" like the original calculator instead of an error,
// so results are strings.
func Calculate(a, b float64, op string) (float64, bool, error) {
	switch op {
	case "add":
		return a + b, false, nil
	case "sub":
		return a - b, false, nil
	case "mul":
		return a * b, false, nil
	case "div":
		if b == 0 {
			return 0, true, nil
		}
		return a / b, false, nil
	default:
		return 0, false, ErrUnknownOperation
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the input and collapses every non-alphanumeric run
// into a single dash, trimming leading and trailing dashes.
func Slugify(s string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// FormatText applies one of the supported text transforms.
func FormatText(text, format string) (string, error) {
	switch format {
	case "upper":
		return strings.ToUpper(text), nil
	case "lower":
		return strings.ToLower(text), nil
	case "slug":
		return Slugify(text), nil
	default:
		return "", ErrUnknownOperation
	}
}

// BuildResume renders the plain-text resume the builder produces before
// any optional AI polish.
func BuildResume(name, role, skills, bullets string) string {
	lines := strings.Split(bullets, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	var sb strings.Builder
	sb.WriteString("Resume for " + name + "\n")
	sb.WriteString("Role: " + role + "\n")
	sb.WriteString("Skills: " + skills + "\n")
	sb.WriteString("Achievements:\n")
	for _, l := range lines {
		if l == "" {
			continue
		}
		sb.WriteString("- " + l + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
