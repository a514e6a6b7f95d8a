package domain

import "errors"

var (
	// ErrDataUnavailable means the dataset could not be opened or queried.
	ErrDataUnavailable = errors.New("domain: data unavailable")
	// ErrInvalidCriteria means a filter or sort request was malformed.
	ErrInvalidCriteria = errors.New("domain: invalid criteria")
)
