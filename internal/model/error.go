package model

import "errors"

// Error codes attached to domain errors.
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeDuplicateAccount  = "DUPLICATE_ACCOUNT"
	ErrCodeAuthentication    = "AUTHENTICATION_FAILED"
	ErrCodeItemNotFound      = "ITEM_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeInvalidRole       = "INVALID_ROLE"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeSelfRoleChange    = "SELF_ROLE_CHANGE"
)

// DomainError is a business rule failure whose Message is safe to show to users.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// AsDomainError unwraps err into a *DomainError when it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrMissingFields      = NewDomainError(ErrCodeValidation, "Please fill out the form!")
	ErrInvalidEmail       = NewDomainError(ErrCodeValidation, "Invalid email address!")
	ErrMissingCredentials = NewDomainError(ErrCodeValidation, "Please enter email and password!")
	ErrMissingItemFields  = NewDomainError(ErrCodeValidation, "Please fill item name and price")
	ErrInvalidPrice       = NewDomainError(ErrCodeValidation, "Invalid price")
	ErrQuantityTooLarge   = NewDomainError(ErrCodeValidation, "Quantity is too large")
	ErrPasswordTooLong    = NewDomainError(ErrCodeValidation, "Password must be at most 72 bytes")

	ErrDuplicateAccount   = NewDomainError(ErrCodeDuplicateAccount, "Account already exists!")
	ErrInvalidCredentials = NewDomainError(ErrCodeAuthentication, "Incorrect email/password!")

	ErrItemNotFound      = NewDomainError(ErrCodeItemNotFound, "Item not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidStatus     = NewDomainError(ErrCodeInvalidStatus, "Invalid status")
	ErrInvalidTransition = NewDomainError(ErrCodeInvalidTransition, "Order cannot move to that status")

	ErrInvalidRole    = NewDomainError(ErrCodeInvalidRole, "Invalid role")
	ErrUserNotFound   = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrSelfRoleChange = NewDomainError(ErrCodeSelfRoleChange, "You cannot change your own role")
)
