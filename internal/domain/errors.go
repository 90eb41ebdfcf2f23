package domain

import (
	"errors"
	"fmt"
)

var (
	// Extraction stage.
	ErrPageFetch         = errors.New("page fetch failed")
	ErrParse             = errors.New("page parse failed")
	ErrReferenceNotFound = errors.New("lightbox reference not found")

	// Download stage.
	ErrImageFetch = errors.New("image fetch failed")
	ErrWrite      = errors.New("image write failed")

	ErrMissingConfig = errors.New("missing required configuration")
	ErrNotFound      = errors.New("not found")
)

// HTTPStatusError is returned for non-2xx responses when strict status
// checking is enabled.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// OutcomeOf maps an error from the fetch pipeline to its tagged outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSaved
	case errors.Is(err, ErrPageFetch):
		return OutcomePageFetchFailed
	case errors.Is(err, ErrParse):
		return OutcomeParseFailed
	case errors.Is(err, ErrReferenceNotFound):
		return OutcomeReferenceNotFound
	case errors.Is(err, ErrWrite):
		return OutcomeWriteFailed
	default:
		return OutcomeImageFetchFailed
	}
}
