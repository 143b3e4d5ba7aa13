package repository

import "errors"

// ErrNotFound means the sheet has no rows of the requested kind yet.
var ErrNotFound = errors.New("not found")

// DefaultSavedBy is recorded when a submission does not say who saved it.
const DefaultSavedBy = "Web App"

func savedByOrDefault(savedBy string) string {
	if savedBy == "" {
		return DefaultSavedBy
	}
	return savedBy
}
