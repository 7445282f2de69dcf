package persist

import "testing"

func TestTrackLabelsCoverEveryChannelOnce(t *testing.T) {
	if len(TrackLabels) != 16 {
		t.Fatalf("len(TrackLabels) = %d, want 16", len(TrackLabels))
	}

	seenIdx := make(map[int]string)
	seenName := make(map[string]bool)
	for _, tl := range TrackLabels {
		if tl.Index < 0 || tl.Index > 15 {
			t.Fatalf("track %s has out-of-range index %d", tl.Name, tl.Index)
		}
		if prev, dup := seenIdx[tl.Index]; dup {
			t.Fatalf("index %d assigned to both %s and %s", tl.Index, prev, tl.Name)
		}
		if seenName[tl.Name] {
			t.Fatalf("duplicate label %s", tl.Name)
		}
		seenIdx[tl.Index] = tl.Name
		seenName[tl.Name] = true
	}
}

func TestTrackLabelsWiring(t *testing.T) {
	// Spot checks of the fixed instrument wiring.
	cases := map[string]int{"p1": 15, "null1": 11, "antinull6": 10, "p4": 0}
	for _, tl := range TrackLabels {
		if want, ok := cases[tl.Name]; ok && tl.Index != want {
			t.Fatalf("%s wired to %d, want %d", tl.Name, tl.Index, want)
		}
	}
}
