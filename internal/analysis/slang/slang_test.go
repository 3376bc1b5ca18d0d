package slang

import (
	"testing"
)

func TestDetectLongestPhraseWins(t *testing.T) {
	d := NewDetector()

	matches := d.Detect("no cap that was the best set of the year")

	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %+v", len(matches), matches)
	}
	if matches[0].Term != "no cap" {
		t.Errorf("term = %q, want %q", matches[0].Term, "no cap")
	}
	if matches[0].Start != 0 || matches[0].End != 6 {
		t.Errorf("span = [%d,%d), want [0,6)", matches[0].Start, matches[0].End)
	}
}

func TestDetectWholeWordsOnly(t *testing.T) {
	d := NewDetector()

	// "capital" and "scapegoat" must not trigger "cap".
	if matches := d.Detect("the capital raised a scapegoat argument"); len(matches) != 0 {
		t.Errorf("matched inside larger words: %+v", matches)
	}
}

func TestDetectCaseInsensitive(t *testing.T) {
	d := NewDetector()

	matches := d.Detect("That party was LIT")
	if len(matches) != 1 || matches[0].Term != "lit" {
		t.Fatalf("got %+v, want single lit match", matches)
	}
}

func TestDetectMultipleSorted(t *testing.T) {
	d := NewDetector()

	matches := d.Detect("ngl this track slaps fr")
	want := []string{"ngl", "slaps", "fr"}
	if len(matches) != len(want) {
		t.Fatalf("got %d matches, want %d: %+v", len(matches), len(want), matches)
	}
	for i, term := range want {
		if matches[i].Term != term {
			t.Errorf("match %d = %q, want %q", i, matches[i].Term, term)
		}
		if i > 0 && matches[i].Start < matches[i-1].End {
			t.Errorf("match %d overlaps previous: %+v", i, matches)
		}
	}
}

func TestDetectAbbreviationsInRawText(t *testing.T) {
	d := NewDetector()

	// Abbreviations are dictionary terms and must be reported from the
	// unprocessed content, emoji and hashtags included.
	matches := d.Detect("omg this is amazing! 😍 #blessed @friend https://example.com")

	var found bool
	for _, m := range matches {
		if m.Term == "omg" {
			found = true
			if m.Start != 0 || m.End != 3 {
				t.Errorf("omg span = [%d,%d), want [0,3)", m.Start, m.End)
			}
		}
	}
	if !found {
		t.Errorf("omg not reported: %+v", matches)
	}
}

func TestDetectEmpty(t *testing.T) {
	d := NewDetector()

	if matches := d.Detect("   "); matches != nil {
		t.Errorf("got %+v for blank input, want nil", matches)
	}
}

func TestMeasure(t *testing.T) {
	d := NewDetector()

	m := d.Measure("ngl this slaps fr fr")
	if m.Total != 4 {
		t.Errorf("Total = %d, want 4", m.Total)
	}
	if m.Unique != 3 {
		t.Errorf("Unique = %d, want 3", m.Unique)
	}
	if got, want := m.Density, 4.0/5.0; got != want {
		t.Errorf("Density = %v, want %v", got, want)
	}
}

func TestMeasureEmpty(t *testing.T) {
	d := NewDetector()

	m := d.Measure("")
	if m.Total != 0 || m.Unique != 0 || m.Density != 0 {
		t.Errorf("metrics for empty input = %+v, want zeros", m)
	}
}
