package tenant

import "errors"

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrUnknownPlan    = errors.New("unknown subscription plan")
)
