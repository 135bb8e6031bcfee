package rest

import "github.com/sentinel-project/sentinel-go"

// TranslateRequestStatus translates the Sentinel service status into its
// equivalent sentinel approval status. Statuses this client does not
// recognize translate to unknown, which callers treat the same as a denial.
func TranslateRequestStatus(status *string) sentinel.ApprovalStatus {
	if status == nil {
		return sentinel.StatusUnknown
	}
	switch *status {
	case sentinel.RequestStatusApproved:
		return sentinel.StatusApproved
	case sentinel.RequestStatusPending:
		return sentinel.StatusPending
	case sentinel.RequestStatusDenied, sentinel.RequestStatusExpired:
		return sentinel.StatusDenied
	default:
		return sentinel.StatusUnknown
	}
}
