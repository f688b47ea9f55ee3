package errs

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrProblemNotFound     = errors.New("problem not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrDispatchFailed      = errors.New("execution service dispatch failed")
	ErrPollTimeout         = errors.New("execution service did not finish in time")
	ErrPollMalformed       = errors.New("execution service returned a malformed status response")
	ErrAggregation         = errors.New("aggregation invariant violated")
	ErrPersistence         = errors.New("failed to persist submission")
	ErrSubmissionFinalized = errors.New("submission already finalized")
)

// IsServiceError reports whether err came from talking to the execution service
func IsServiceError(err error) bool {
	return errors.Is(err, ErrDispatchFailed) ||
		errors.Is(err, ErrPollTimeout) ||
		errors.Is(err, ErrPollMalformed)
}
