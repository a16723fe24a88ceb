package tenant

import "context"

type TenantService interface {
	SignUp(ctx context.Context, req SignUpRequest) (SignUpResponse, error)
}
