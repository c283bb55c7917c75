package httputil

// Machine-readable error codes returned alongside error messages so clients
// can branch on failures without parsing message text.
const (
	CodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodePendingVerification = "PENDING_VERIFICATION"
	CodeEmailAlreadyExists  = "EMAIL_ALREADY_EXISTS"
	CodeNameRequired        = "NAME_REQUIRED"
	CodeEmailRequired       = "EMAIL_REQUIRED"
	CodeInvalidEmailFormat  = "INVALID_EMAIL_FORMAT"
	CodePasswordRequired    = "PASSWORD_REQUIRED"
	CodePasswordTooShort    = "PASSWORD_TOO_SHORT"
	CodeInvalidRole         = "INVALID_ROLE"
	CodeMissingAuth         = "MISSING_AUTH"
	CodeSessionInvalid      = "SESSION_INVALID"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeInternalError       = "INTERNAL_ERROR"
)
