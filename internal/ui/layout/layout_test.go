package layout

import (
	"strings"
	"testing"
)

func TestFormatClock(t *testing.T) {
	tests := map[int]string{0: "0:00", 59: "0:59", 60: "1:00", 1805: "30:05", -3: "0:00"}
	for in, want := range tests {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) || !IsTooSmall(MinWidth, MinHeight-1) {
		t.Error("expected too small below minimum")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("minimum size should fit")
	}
}

func TestRenderHeaderShowsStatus(t *testing.T) {
	h := RenderHeader("Assessment", "12:30", 100)
	for _, want := range []string{"skillcheck", "Assessment", "12:30"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}
