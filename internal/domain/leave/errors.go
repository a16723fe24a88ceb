package leave

import "errors"

var (
	ErrApplicationNotFound  = errors.New("leave application not found")
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrBalanceNotFound      = errors.New("leave balance not found")
	ErrBalanceExists        = errors.New("leave balance already exists for this year")
	ErrInsufficientBalance  = errors.New("insufficient leave balance")
	ErrAlreadyProcessed     = errors.New("leave application already processed")
	ErrNotDeletable         = errors.New("only submitted leave applications can be deleted")
	ErrNotCancellable       = errors.New("leave application cannot be cancelled")
	ErrConfirmationRequired = errors.New("deleting a leave application requires confirmation")
	ErrNoWorkingDays        = errors.New("leave range contains no working days")
)
