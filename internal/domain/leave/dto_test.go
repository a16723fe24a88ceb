package leave

import (
	"testing"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLeaveTypeID = "123e4567-e89b-12d3-a456-426614174000"

func TestQuoteRequest_Validate(t *testing.T) {
	req := QuoteRequest{LeaveTypeID: testLeaveTypeID, StartDate: "2024-03-04", EndDate: "2024-03-08"}
	require.NoError(t, req.Validate())

	start, end := req.Range()
	assert.Equal(t, "2024-03-04", start.Format(validator.DateLayout))
	assert.Equal(t, "2024-03-08", end.Format(validator.DateLayout))
}

func TestQuoteRequest_Validate_Errors(t *testing.T) {
	req := QuoteRequest{LeaveTypeID: "annual", StartDate: "2024-03-08", EndDate: "2024-03-04"}
	err := req.Validate()
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	m := errs.ToMap()
	assert.Contains(t, m, "leave_type_id")
	assert.Equal(t, "end_date must not be before start_date", m["end_date"])
}

func TestSubmitRequest_Validate_ReasonLength(t *testing.T) {
	long := make([]byte, maxReasonLength+1)
	for i := range long {
		long[i] = 'a'
	}
	req := SubmitRequest{
		QuoteRequest: QuoteRequest{LeaveTypeID: testLeaveTypeID, StartDate: "2024-03-04", EndDate: "2024-03-04"},
		Reason:       string(long),
	}
	assert.Error(t, req.Validate())

	req.Reason = "family trip"
	assert.NoError(t, req.Validate())
}

func TestParseApplicationFilter(t *testing.T) {
	f, err := ParseApplicationFilter("APPROVED", "2024")
	require.NoError(t, err)
	require.NotNil(t, f.Status)
	require.NotNil(t, f.Year)
	assert.Equal(t, StatusApproved, *f.Status)
	assert.Equal(t, 2024, *f.Year)
	assert.Nil(t, f.EmployeeID)

	f, err = ParseApplicationFilter("", "")
	require.NoError(t, err)
	assert.Nil(t, f.Status)
	assert.Nil(t, f.Year)

	_, err = ParseApplicationFilter("PENDING", "twenty")
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
}

func TestApplication_StateChecks(t *testing.T) {
	a := Application{Status: StatusSubmitted}
	assert.True(t, a.CanDelete())
	assert.True(t, a.CanCancel())
	assert.True(t, a.IsPending())

	a.Status = StatusApproved
	assert.False(t, a.CanDelete())
	assert.True(t, a.CanCancel())
	assert.False(t, a.IsPending())

	a.Status = StatusRejected
	assert.False(t, a.CanCancel())
}
