package domain

import "strings"

// editionDelimiter separates a base title from an edition qualifier,
// as in "Space Oddity - 2015 Remaster".
const editionDelimiter = " - "

// CanonicalTitle strips everything from the first edition delimiter on.
// A hyphenated title that is not an edition marker is truncated the same way.
func CanonicalTitle(song string) string {
	if idx := strings.Index(song, editionDelimiter); idx != -1 {
		return song[:idx]
	}
	return song
}

// NormalizeTracks rewrites every title to its canonical form and keeps only
// the first record for each canonical title. Relative order is preserved and
// the input slice is left untouched.
//
// The result depends on input order: deduplicating and then re-sorting can
// keep a different representative than re-sorting first.
func NormalizeTracks(tracks []TrackRecord) []TrackRecord {
	if len(tracks) == 0 {
		return []TrackRecord{}
	}

	seen := make(map[string]struct{}, len(tracks))
	out := make([]TrackRecord, 0, len(tracks))
	for _, t := range tracks {
		title := CanonicalTitle(t.Song)
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		t.Song = title
		out = append(out, t)
	}
	return out
}
