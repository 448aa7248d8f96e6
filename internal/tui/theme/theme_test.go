package theme

import (
	"testing"

	"github.com/theirongolddev/cbudget/internal/model"
)

func TestByName_FallsBackToFlexoki(t *testing.T) {
	if got := ByName("tokyo-night").Name; got != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %q", got)
	}
	if got := ByName("solarized").Name; got != FlexokiDark.Name {
		t.Fatalf("ByName(solarized) = %q, want %q", got, FlexokiDark.Name)
	}
}

func TestPalette(t *testing.T) {
	th := FlexokiDark
	tests := map[string]string{
		"blue":   string(th.Blue),
		"teal":   string(th.Cyan),
		"gray":   string(th.TextMuted),
		"mauve":  string(th.TextMuted),
		"orange": string(th.Orange),
	}
	for name, want := range tests {
		if got := string(th.Palette(name)); got != want {
			t.Errorf("Palette(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestStatusAndHealthColors(t *testing.T) {
	th := Terminal
	if th.Status(model.StatusOver) != th.Red || th.Status(model.StatusWarning) != th.Orange || th.Status(model.StatusGood) != th.Green {
		t.Fatal("Status colors do not follow over/warning/good")
	}
	if th.Health(80) != th.GreenBright || th.Health(79) != th.Blue || th.Health(39) != th.Red {
		t.Fatal("Health colors do not follow the label bands")
	}
}
