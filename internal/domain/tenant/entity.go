package tenant

import "time"

type Status string

const (
	StatusTrial  Status = "trial"
	StatusActive Status = "active"
)

const PlanTrial = "trial"

type Tenant struct {
	ID        string
	Name      string
	Plan      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusForPlan returns the initial status of a tenant signing up for plan.
func StatusForPlan(plan string) Status {
	if plan == PlanTrial {
		return StatusTrial
	}
	return StatusActive
}
