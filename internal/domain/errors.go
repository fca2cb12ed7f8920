package domain

// APIError is the problem-details body returned for every failed request
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// ValidationMessages maps validator tags without a dedicated message to user-facing text
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"oneof":    "Must be one of the allowed values",
	"numeric":  "Must be a numeric value",
	"datetime": "Must be a valid date",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

// Error types
const (
	ErrorTypeValidation           = "validation_error"
	ErrorTypeNotFound             = "not_found"
	ErrorTypeBadRequest           = "bad_request"
	ErrorTypeConflict             = "conflict"
	ErrorTypeUnauthorized         = "unauthorized"
	ErrorTypeConfirmationRequired = "confirmation_required"
	ErrorTypeTooManyRequests      = "too_many_requests"
	ErrorTypeInternal             = "internal_error"
)
