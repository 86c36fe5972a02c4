package errors

import (
	"fmt"
)

var (
	ErrNotFound       = fmt.Errorf("not found")
	ErrDuplicateName  = fmt.Errorf("duplicate name")
	ErrDuplicateEmail = fmt.Errorf("duplicate email")
	ErrInvalidInput   = fmt.Errorf("invalid input")
)
