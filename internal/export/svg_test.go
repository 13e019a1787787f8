package export

import (
	"strings"
	"testing"
)

func TestLatticeSVG(t *testing.T) {
	spins := [][]int{
		{1, 1, -1},
		{-1, 1, 1},
	}

	svg := LatticeSVG(spins, 4, "#ff0000", "#0000ff")
	if !strings.Contains(svg, `width="12" height="8"`) {
		t.Errorf("unexpected dimensions in %s", svg)
	}
	if got := strings.Count(svg, "<rect x="); got != 2 {
		t.Errorf("expected 2 runs, got %d", got)
	}
	if !strings.Contains(svg, `<rect x="0" y="0" width="8" height="4"/>`) {
		t.Error("missing first row run")
	}
	if !strings.Contains(svg, `<rect x="4" y="4" width="8" height="4"/>`) {
		t.Error("missing second row run")
	}

	if LatticeSVG(nil, 4, "#fff", "#000") != "" {
		t.Error("expected empty output for empty lattice")
	}
}

func TestSeriesSVG(t *testing.T) {
	if SeriesSVG([]float64{1}, 100, 50, "#fff") != "" {
		t.Error("expected empty output for a single value")
	}

	svg := SeriesSVG([]float64{0, 1, 0.5}, 100, 50, "#00ff00")
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("malformed svg document")
	}
	if got := strings.Count(svg, " L"); got != 2 {
		t.Errorf("expected 2 line segments, got %d", got)
	}
}
