package orchestrator

import "errors"

var (
	errEmptyReviewSet    = errors.New("review set is empty")
	errNoEligibleReviews = errors.New("review set contains no core-processed reviews")
)
