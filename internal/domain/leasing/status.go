package leasing

// ApplicationStatus is the review stage of a tenant application
type ApplicationStatus string

const (
	StatusUndetermined           ApplicationStatus = "UNDETERMINED"
	StatusBackgroundCheckPending ApplicationStatus = "BACKGROUND_CHECK_PENDING"
	StatusBackgroundCheckPassed  ApplicationStatus = "BACKGROUND_CHECK_PASSED"
	StatusBackgroundCheckFailed  ApplicationStatus = "BACKGROUND_CHECK_FAILED"
	StatusAccepted               ApplicationStatus = "ACCEPTED"
	StatusRejected               ApplicationStatus = "REJECTED"
	StatusLandlordApproved       ApplicationStatus = "LANDLORD_APPROVED"
	StatusLandlordRejected       ApplicationStatus = "LANDLORD_REJECTED"
	StatusFinalApproved          ApplicationStatus = "FINAL_APPROVED"
	StatusFinalRejected          ApplicationStatus = "FINAL_REJECTED"
)

// AllStatuses lists every application status in review order
var AllStatuses = []ApplicationStatus{
	StatusUndetermined,
	StatusBackgroundCheckPending,
	StatusBackgroundCheckPassed,
	StatusBackgroundCheckFailed,
	StatusAccepted,
	StatusRejected,
	StatusLandlordApproved,
	StatusLandlordRejected,
	StatusFinalApproved,
	StatusFinalRejected,
}

// IsValid checks if the status is a known status
func (s ApplicationStatus) IsValid() bool {
	_, ok := statusSteps[s]
	return ok
}

// String returns the string representation of the status
func (s ApplicationStatus) String() string {
	return string(s)
}

// Step returns the ordinal review stage of the status
func (s ApplicationStatus) Step() int {
	return statusSteps[s]
}

// IsRejection reports whether the status is a negative outcome at any stage
func (s ApplicationStatus) IsRejection() bool {
	switch s {
	case StatusRejected, StatusBackgroundCheckFailed, StatusLandlordRejected, StatusFinalRejected:
		return true
	}
	return false
}

// IsOpen reports whether the application is still under agent review
// (step 1 or 2) or waiting for the landlord's decision
func (s ApplicationStatus) IsOpen() bool {
	if !s.IsValid() {
		return false
	}
	return s.Step() < 3 || s.AwaitsLandlord()
}

// AwaitsLandlord reports whether the landlord decision is the next step
func (s ApplicationStatus) AwaitsLandlord() bool {
	return s == StatusAccepted || s == StatusBackgroundCheckPassed
}

// RejectedStatuses returns the statuses that count as rejections
func RejectedStatuses() []ApplicationStatus {
	return []ApplicationStatus{StatusRejected, StatusBackgroundCheckFailed, StatusLandlordRejected, StatusFinalRejected}
}

// OpenStatuses returns the statuses in which an application still competes for its listing
func OpenStatuses() []ApplicationStatus {
	open := make([]ApplicationStatus, 0, len(AllStatuses))
	for _, s := range AllStatuses {
		if s.IsOpen() {
			open = append(open, s)
		}
	}
	return open
}

var statusSteps = map[ApplicationStatus]int{
	StatusUndetermined:           1,
	StatusBackgroundCheckPending: 2,
	StatusAccepted:               3,
	StatusBackgroundCheckPassed:  3,
	StatusRejected:               3,
	StatusBackgroundCheckFailed:  3,
	StatusLandlordApproved:       4,
	StatusLandlordRejected:       4,
	StatusFinalApproved:          5,
	StatusFinalRejected:          5,
}
