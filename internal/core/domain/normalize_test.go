package domain

import (
	"reflect"
	"testing"
)

func titles(tracks []TrackRecord) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.Song
	}
	return out
}

func tracksFromTitles(names ...string) []TrackRecord {
	out := make([]TrackRecord, len(names))
	for i, n := range names {
		out[i] = TrackRecord{Song: n, Artist: "David Bowie", Features: AudioFeatures{Energy: float64(i) / 10}}
	}
	return out
}

func TestCanonicalTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no delimiter", input: "Heroes", want: "Heroes"},
		{name: "remaster suffix", input: "Space Oddity - 1999 Remaster", want: "Space Oddity"},
		{name: "first delimiter wins", input: "Changes - Live - 1972", want: "Changes"},
		{name: "bare hyphen kept", input: "Sound-and-Vision", want: "Sound-and-Vision"},
		{name: "hyphenated title truncated", input: "Let's Dance - Single Version", want: "Let's Dance"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalTitle(tt.input); got != tt.want {
				t.Fatalf("CanonicalTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTracks(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "keeps first occurrence",
			input: []string{"Space Oddity", "Space Oddity - 1999 Remaster", "Heroes"},
			want:  []string{"Space Oddity", "Heroes"},
		},
		{
			name:  "scattered duplicates",
			input: []string{"Fame - 2016 Remaster", "Heroes", "Fame", "Heroes - Single Version", "Low"},
			want:  []string{"Fame", "Heroes", "Low"},
		},
		{
			name:  "empty input",
			input: []string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(NormalizeTracks(tracksFromTitles(tt.input...)))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("NormalizeTracks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeTracks_Properties(t *testing.T) {
	inputs := [][]string{
		{"A", "A - Live", "B", "C - Remaster", "C", "A"},
		{"Station to Station - 2016 Remaster", "Golden Years", "Golden Years - Single Edit"},
		{"x - y - z", "x", "x - y"},
		{"One"},
	}

	for _, names := range inputs {
		in := tracksFromTitles(names...)
		before := titles(in)
		once := NormalizeTracks(in)
		twice := NormalizeTracks(once)

		if len(once) > len(in) {
			t.Fatalf("output longer than input: %d > %d", len(once), len(in))
		}
		if !reflect.DeepEqual(titles(once), titles(twice)) {
			t.Fatalf("not idempotent: %v then %v", titles(once), titles(twice))
		}
		if !reflect.DeepEqual(titles(in), before) {
			t.Fatalf("input mutated: %v, want %v", titles(in), before)
		}

		// Each output record must appear in the input, in the same order.
		pos := 0
		for _, out := range once {
			found := false
			for pos < len(in) {
				candidate := in[pos]
				pos++
				if candidate.Features == out.Features && CanonicalTitle(candidate.Song) == out.Song {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("output %q is not a subsequence of input %v", out.Song, before)
			}
		}

		seen := map[string]bool{}
		for _, out := range once {
			if seen[out.Song] {
				t.Fatalf("duplicate canonical title %q", out.Song)
			}
			seen[out.Song] = true
		}
	}
}
