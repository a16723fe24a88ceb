package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrNoLinkedEmployee   = errors.New("session is not linked to an employee")
)
