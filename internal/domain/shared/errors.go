package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
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

// Error codes shared across the document engine
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeAlreadyExists        = "ALREADY_EXISTS"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeForbiddenActor       = "FORBIDDEN_ACTOR"
	CodeGuardFailed          = "GUARD_FAILED"
	CodeDuplicateReceipt     = "DUPLICATE_RECEIPT"
	CodeReceiptAlreadyExists = "RECEIPT_ALREADY_EXISTS"
	CodeOverpayment          = "OVERPAYMENT"
	CodeNotFound             = "NOT_FOUND"
	CodeConcurrencyConflict  = "CONCURRENCY_CONFLICT"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrForbidden           = NewDomainError(CodeForbiddenActor, "Actor is not allowed to perform this transition")
)

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewInvalidTransitionError describes an illegal status-graph move
func NewInvalidTransitionError(document, from, to string) *DomainError {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("Cannot transition %s from %s to %s", document, from, to))
}

// NewForbiddenActorError describes a transition attempted by the wrong actor class
func NewForbiddenActorError(actor ActorClass, document, to string) *DomainError {
	return NewDomainError(CodeForbiddenActor,
		fmt.Sprintf("Actor %s may not move %s to %s", actor, document, to))
}

// NewGuardFailedError describes a business precondition that was not met
func NewGuardFailedError(message string) *DomainError {
	return NewDomainError(CodeGuardFailed, message)
}

// NewOverpaymentError describes a payment exceeding the remaining balance
func NewOverpaymentError(message string) *DomainError {
	return NewDomainError(CodeOverpayment, message)
}

// IsCode reports whether err is a DomainError carrying the given code
func IsCode(err error, code string) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
