package contract

import (
	"testing"
)

// FuzzParseRevListLine fuzzes the rev-list line parser with arbitrary input.
func FuzzParseRevListLine(f *testing.F) {
	seeds := []string{
		"1672650000 4f475c7697722e946e39e42f38f3dd03a95d8765",
		"0 abc",
		"-1 abc",
		"",
		"   ",
		"99999999999999999999 abc",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, line string) {
		c, err := parseRevListLine(line)
		if err == nil && c.ID == "" {
			t.Errorf("accepted %q without a commit id", line)
		}
	})
}

// FuzzParseBoolString fuzzes ParseBoolString to ensure it never panics.
func FuzzParseBoolString(f *testing.F) {
	for _, seed := range []string{"yes", "NO", "1", "0", "true", "", "maybe"} {
		f.Add(seed)
	}
	f.Fuzz(func(_ *testing.T, s string) {
		_, _ = ParseBoolString(s)
	})
}
