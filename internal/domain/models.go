package domain

import "time"

// Outcome tags how a single fetch ended.
type Outcome string

const (
	OutcomeSaved             Outcome = "saved"
	OutcomePageFetchFailed   Outcome = "page_fetch_failed"
	OutcomeParseFailed       Outcome = "parse_failed"
	OutcomeReferenceNotFound Outcome = "reference_not_found"
	OutcomeImageFetchFailed  Outcome = "image_fetch_failed"
	OutcomeWriteFailed       Outcome = "write_failed"
	OutcomeSkippedRecent     Outcome = "skipped_recent"
)

// Extraction reports whether the outcome belongs to the page/extraction
// stage, the failures that collapse into a plain "false".
func (o Outcome) Extraction() bool {
	switch o {
	case OutcomePageFetchFailed, OutcomeParseFailed, OutcomeReferenceNotFound:
		return true
	}
	return false
}

// FetchRequest is the payload for the API
type FetchRequest struct {
	Links []string `json:"links"`
	Force bool     `json:"force"` // Bypass the recently-fetched cache
}

// FetchResult holds everything known about one link after a fetch attempt.
type FetchResult struct {
	Link       string    `json:"link"`
	PageURL    string    `json:"page_url"`
	ImageURL   string    `json:"image_url,omitempty"`
	FileName   string    `json:"file_name,omitempty"`
	Path       string    `json:"path,omitempty"`
	Bytes      int64     `json:"bytes"`
	Outcome    Outcome   `json:"outcome"`
	FailReason string    `json:"fail_reason,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
	Err        error     `json:"-"`
}

// OK is the legacy boolean view of the result.
func (r *FetchResult) OK() bool {
	return r != nil && r.Outcome == OutcomeSaved
}

// Fail records err as the cause of a non-successful outcome.
func (r *FetchResult) Fail(err error) {
	r.Outcome = OutcomeOf(err)
	r.Err = err
	r.FailReason = err.Error()
}

// FetchStatusResponse is the API response for a link status query
type FetchStatusResponse struct {
	Link       string    `json:"link"`
	ImageURL   string    `json:"image_url,omitempty"`
	FileName   string    `json:"file_name,omitempty"`
	Outcome    Outcome   `json:"outcome"`
	FailReason string    `json:"fail_reason,omitempty"`
	Bytes      int64     `json:"bytes"`
	UpdatedAt  time.Time `json:"updated_at"`
}
