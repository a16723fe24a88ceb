package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

type LeaveService interface {
	ListTypes(ctx context.Context) ([]LeaveTypeResponse, error)
	ListBalances(ctx context.Context, year int) ([]BalanceResponse, error)
	AvailableBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (decimal.Decimal, error)
	Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error)

	Submit(ctx context.Context, req SubmitRequest) (ApplicationResponse, error)
	ListMine(ctx context.Context, filter ApplicationFilter) ([]ApplicationResponse, error)
	GetMine(ctx context.Context, id string) (ApplicationResponse, error)
	Delete(ctx context.Context, id string, confirmed bool) error
	Cancel(ctx context.Context, id string) (ApplicationResponse, error)

	ListTeam(ctx context.Context, filter ApplicationFilter) ([]ApplicationResponse, error)
	Approve(ctx context.Context, id string) (ApplicationResponse, error)
	Reject(ctx context.Context, id string, req RejectRequest) (ApplicationResponse, error)
}
