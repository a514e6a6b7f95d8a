package ports

import (
	"context"
	"errors"
	"fmt"
)

// ErrLookupFailed indicates a preview could not be resolved for a track.
var ErrLookupFailed = errors.New("lookup failed")

// LookupFailedError provides context for a failed preview lookup.
type LookupFailedError struct {
	Song   string
	Artist string
	Reason string
	Err    error
}

func (e *LookupFailedError) Error() string {
	msg := fmt.Sprintf("preview lookup failed for song %q artist %q", e.Song, e.Artist)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LookupFailedError) Is(target error) bool {
	return target == ErrLookupFailed
}

func (e *LookupFailedError) Unwrap() error {
	return e.Err
}

// PreviewResolver finds a short audio preview for a song.
type PreviewResolver interface {
	ResolvePreview(ctx context.Context, song, artist string) (string, error)
}
