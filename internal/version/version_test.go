package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestString(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version, GitCommit, BuildDate = "1.2.3", "", ""
	if got := String(false); got != "nafi 1.2.3" {
		t.Errorf("String = %q", got)
	}
	GitCommit = "abc123"
	if got := String(false); got != "nafi 1.2.3 (abc123)" {
		t.Errorf("String = %q", got)
	}
	BuildDate = "2024-01-15"
	if got := String(false); got != "nafi 1.2.3 (abc123, 2024-01-15)" {
		t.Errorf("String = %q", got)
	}
}

func TestColored(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()

	color.NoColor = true
	for _, v := range []string{"0.1.0-dev", "1.2.3", "weird", "1.2"} {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored(%q) without color = %q", v, got)
		}
	}
}
