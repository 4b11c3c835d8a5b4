package tools

import (
	"errors"
	"strings"
	"testing"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		a, b     float64
		op       string
		want     float64
		infinite bool
	}{
		{2, 3, "add", 5, false},
		{10, 4, "sub", 6, false},
		{6, 7, "mul", 42, false},
		{9, 3, "div", 3, false},
		{1, 0, "div", 0, true},
	}
	for _, c := range cases {
		got, infinite, err := Calculate(c.a, c.b, c.op)
		if err != nil {
			t.Errorf("Calculate(%v, %v, %q) failed: %v", c.a, c.b, c.op, err)
			continue
		}
		if infinite != c.infinite {
			t.Errorf("Calculate(%v, %v, %q) infinite = %v, want %v", c.a, c.b, c.op, infinite, c.infinite)
		}
		if !infinite && got != c.want {
			t.Errorf("Calculate(%v, %v, %q) = %v, want %v", c.a, c.b, c.op, got, c.want)
		}
	}
}

func TestCalculate_UnknownOperation(t *testing.T) {
	if _, _, err := Calculate(1, 2, "pow"); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("Expected ErrUnknownOperation, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":          "hello-world",
		"  Already--slugged  ": "already-slugged",
		"Mixed CASE & symbols!": "mixed-case-symbols",
		"---":                  "",
		"":                     "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatText(t *testing.T) {
	if got, _ := FormatText("Hi There", "upper"); got != "HI THERE" {
		t.Errorf("upper = %q", got)
	}
	if got, _ := FormatText("Hi There", "lower"); got != "hi there" {
		t.Errorf("lower = %q", got)
	}
	if got, _ := FormatText("Hi There", "slug"); got != "hi-there" {
		t.Errorf("slug = %q", got)
	}
	if _, err := FormatText("x", "reverse"); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("Expected ErrUnknownOperation, got %v", err)
	}
}

func TestBuildResume(t *testing.T) {
	got := BuildResume("Ada Lovelace", "Engineer", "Go, SQL", "Shipped the thing\n\n  Fixed the bug  ")
	want := strings.Join([]string{
		"Resume for Ada Lovelace",
		"Role: Engineer",
		"Skills: Go, SQL",
		"Achievements:",
		"- Shipped the thing",
		"- Fixed the bug",
	}, "\n")
	if got != want {
		t.Errorf("BuildResume =\n%s\nwant\n%s", got, want)
	}
}
