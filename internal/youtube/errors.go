package youtube

import (
	"errors"
	"fmt"
)

var (
	// ErrQuotaExceeded covers quota exhaustion and forbidden access.
	ErrQuotaExceeded = errors.New("youtube: quota exceeded or access forbidden")
	// ErrNotFound means the requested video, channel or playlist does not exist.
	ErrNotFound = errors.New("youtube: not found")
	// ErrBadRequest means the upstream rejected the request as malformed.
	ErrBadRequest = errors.New("youtube: bad request")
	// ErrCommentsDisabled means comments are turned off for the video.
	ErrCommentsDisabled = errors.New("youtube: comments disabled")
)

// APIError is a non-2xx response from the Data API, classified by reason.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube api: %d %s: %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube api: %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the response onto the error taxonomy so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Reason {
	case "commentsDisabled":
		return ErrCommentsDisabled
	case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "forbidden":
		return ErrQuotaExceeded
	}
	switch e.StatusCode {
	case 403:
		return ErrQuotaExceeded
	case 404:
		return ErrNotFound
	case 400:
		return ErrBadRequest
	}
	return nil
}
