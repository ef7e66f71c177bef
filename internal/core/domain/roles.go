package domain

// Role represents an employee's role in the system
type Role string

const (
	RoleStaff   Role = "Staff"
	RoleManager Role = "Manager"
	RoleHR      Role = "HR"
)

// CanApprove returns true for roles that may act on another employee's
// application (the approver-distinct-from-requestor check is separate).
func (r Role) CanApprove() bool {
	return r == RoleManager || r == RoleHR
}

// CanManageBlacklist returns true for roles that may create or edit
// blacklist windows.
func (r Role) CanManageBlacklist() bool {
	return r == RoleManager || r == RoleHR
}

// EventType identifies a lifecycle event emitted by the application
// engine and consumed by the notification emitter.
type EventType string

const (
	EventCreated      EventType = "Application Created"
	EventApproved     EventType = "Application Approved"
	EventRejected     EventType = "Application Rejected"
	EventWithdrawn    EventType = "Application Withdrawn"
	EventFieldsEdited EventType = "Application Updated"
)
