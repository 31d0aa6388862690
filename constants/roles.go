package constants

// Employee roles
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"

	// RoleAny allows any authenticated employee
	RoleAny = "any"
)

// Housekeeping sweep interval in minutes when HOUSEKEEPING_INTERVAL_MINUTES
// is not set.
const DefaultHousekeepingIntervalMinutes = 5
