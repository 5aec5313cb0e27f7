package enums

import "fmt"

// RegionStatus describes the moderation state of a regional sub-community.
type RegionStatus string

const (
	RegionStatusPending  RegionStatus = "pending"
	RegionStatusActive   RegionStatus = "active"
	RegionStatusRejected RegionStatus = "rejected"
)

var validRegionStatuses = []RegionStatus{
	RegionStatusPending,
	RegionStatusActive,
	RegionStatusRejected,
}

// String returns the literal string for the status.
func (r RegionStatus) String() string {
	return string(r)
}

// IsValid reports whether the status is known.
func (r RegionStatus) IsValid() bool {
	for _, candidate := range validRegionStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRegionStatus converts raw input into a RegionStatus.
func ParseRegionStatus(value string) (RegionStatus, error) {
	for _, candidate := range validRegionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid region status %q", value)
}
