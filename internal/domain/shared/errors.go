package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same error code, so that
// errors.Is(err, ErrNotFound) matches any NOT_FOUND error regardless of message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes surfaced by the approval, commission and reporting flows
const (
	CodeNotFound          = "NOT_FOUND"
	CodeNotPending        = "NOT_PENDING"
	CodeProductUnresolved = "PRODUCT_UNRESOLVED"
	CodeReasonRequired    = "REASON_REQUIRED"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidState      = "INVALID_STATE"
	CodeAlreadyExists     = "ALREADY_EXISTS"
)

// Common domain errors
var (
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrNotPending        = NewDomainError(CodeNotPending, "Sale has already been processed")
	ErrProductUnresolved = NewDomainError(CodeProductUnresolved, "No product could be resolved for the sale")
	ErrReasonRequired    = NewDomainError(CodeReasonRequired, "Rejection reason is required")
	ErrInvalidInput      = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidState      = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrAlreadyExists     = NewDomainError(CodeAlreadyExists, "Resource already exists")
)
