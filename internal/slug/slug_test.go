package slug

import (
	"regexp"
	"testing"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple title",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "mixed case",
			input:    "GoLang Tips",
			expected: "golang-tips",
		},
		{
			name:     "punctuation collapsed",
			input:    "What's New?! (2024 edition)",
			expected: "what-s-new-2024-edition",
		},
		{
			name:     "leading and trailing junk",
			input:    "---Hello---",
			expected: "hello",
		},
		{
			name:     "consecutive separators",
			input:    "a  --  b",
			expected: "a-b",
		},
		{
			name:     "digits preserved",
			input:    "Top 10 Posts of 2023",
			expected: "top-10-posts-of-2023",
		},
		{
			name:     "unicode stripped",
			input:    "café über alles",
			expected: "caf-ber-alles",
		},
		{
			name:     "only junk",
			input:    "!!! ???",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "already a slug",
			input:    "already-a-slug",
			expected: "already-a-slug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Make(tt.input)
			if result != tt.expected {
				t.Errorf("Make(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestMakeIdempotent(t *testing.T) {
	inputs := []string{
		"Hello World",
		"What's New?! (2024 edition)",
		"---Hello---",
		"café über alles",
		"top-10-posts-of-2023",
		"",
	}

	for _, in := range inputs {
		once := Make(in)
		twice := Make(once)
		if once != twice {
			t.Errorf("Make not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestMakeShape(t *testing.T) {
	inputs := []string{
		"Hello World",
		"!!leading junk",
		"trailing junk!!",
		"a", "A", "1",
		"многое unicode текст",
		"tabs\tand\nnewlines",
	}

	for _, in := range inputs {
		got := Make(in)
		if got == "" {
			continue
		}
		if !slugPattern.MatchString(got) {
			t.Errorf("Make(%q) = %q does not match %s", in, got, slugPattern)
		}
	}
}
