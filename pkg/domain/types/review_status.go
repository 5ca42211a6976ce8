package types

import "fmt"

// ReviewStatus represents the human review state of a knowledge snippet.
// It is a settable label, not a directed workflow: any status can be set
// from any other, including resetting approved/rejected back to pending.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// AllReviewStatuses returns all valid review statuses
func AllReviewStatuses() []ReviewStatus {
	return []ReviewStatus{
		ReviewStatusPending,
		ReviewStatusApproved,
		ReviewStatusRejected,
	}
}

// IsValid checks if the review status is valid
func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewStatusPending,
		ReviewStatusApproved,
		ReviewStatusRejected:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as ReviewStatusPending.
func (s ReviewStatus) Normalize() ReviewStatus {
	if s == "" {
		return ReviewStatusPending
	}
	return s
}

// String returns the string representation of the review status
func (s ReviewStatus) String() string {
	return string(s)
}

// ParseReviewStatus parses a string into a ReviewStatus
func ParseReviewStatus(s string) (ReviewStatus, error) {
	status := ReviewStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid review status: %s", s)
	}
	return status, nil
}
