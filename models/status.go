package models

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// ParseRole converts a stored or submitted role string to the enum.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}

type EstimateStatus string

const (
	EstimateStatusWaiting  EstimateStatus = "Waiting Estimate"
	EstimateStatusReceived EstimateStatus = "Estimate Received"
	EstimateStatusApproved EstimateStatus = "Estimate Approved"
	EstimateStatusDeclined EstimateStatus = "Declined"
)

type CustomerResponse string

const (
	CustomerResponseNone     CustomerResponse = ""
	CustomerResponseApproved CustomerResponse = "Approved"
	CustomerResponseDeclined CustomerResponse = "Declined"
)

type ProjectStatus string

const (
	ProjectStatusWaitingAssignment       ProjectStatus = "Waiting Assignment"
	ProjectStatusPendingSchedule         ProjectStatus = "Pending Schedule"
	ProjectStatusWaitingScheduleApproval ProjectStatus = "Waiting for Schedule Approval"
	ProjectStatusScheduleApproved        ProjectStatus = "Schedule Approved"
	ProjectStatusCompleted               ProjectStatus = "Completed"
)

// InProgressStatuses are the statuses shown on the admin dashboard and the
// customer's project tracker.
var InProgressStatuses = []ProjectStatus{
	ProjectStatusPendingSchedule,
	ProjectStatusWaitingScheduleApproval,
	ProjectStatusScheduleApproved,
}
