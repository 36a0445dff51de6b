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

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound       = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists  = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput   = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState   = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrRowsInvalid    = NewDomainError("ROWS_INVALID", "One or more rows have unresolved references")
	ErrSupersededLoad = NewDomainError("SUPERSEDED_LOAD", "Load result superseded by a newer request")
	ErrUnknownFormat  = NewDomainError("UNKNOWN_FORMAT", "Unrecognized time entry file layout")
)
