package entropy

import (
	"bytes"
	"strings"
	"testing"
)

func TestCount(t *testing.T) {
	in := "0\n17\n 17 \n255\n256\n-1\nnoise\n\n17"

	h, rejects, err := Count(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	if rejects != 4 {
		t.Errorf("Expected 4 rejects, got %d", rejects)
	}
	if h[0] != 1 || h[17] != 3 || h[255] != 1 {
		t.Errorf("Unexpected counts: h[0]=%d h[17]=%d h[255]=%d", h[0], h[17], h[255])
	}
	if h.Total() != 5 {
		t.Errorf("Expected 5 samples, got %d", h.Total())
	}
}

func TestHistogram_Write(t *testing.T) {
	var h Histogram
	h[1] = 4
	h[255] = 2

	var buf bytes.Buffer
	if err := h.Write(&buf); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != Bins {
		t.Fatalf("Expected %d lines, got %d", Bins, len(lines))
	}
	for i, want := range map[int]string{0: "0, 0", 1: "1, 4", 255: "255, 2"} {
		if lines[i] != want {
			t.Errorf("Line %d: expected %q, got %q", i, want, lines[i])
		}
	}
}
