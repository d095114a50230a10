package entity

import "strings"

// Badge is the visual state of a status cell.
type Badge string

const (
	BadgeNone   Badge = ""
	BadgePassed Badge = "passed"
	BadgeFailed Badge = "failed"
)

// StatusBadge classifies a status value. Join request states map onto the
// same two badges as run results.
func StatusBadge(status string) Badge {
	switch status {
	case "":
		return BadgeNone
	case "APPROVED", "PENDING":
		return BadgePassed
	case "REJECTED":
		return BadgeFailed
	}
	if strings.EqualFold(status, "passed") {
		return BadgePassed
	}
	return BadgeFailed
}
