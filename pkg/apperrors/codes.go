package apperrors

// Error codes grouped by domain.
const (
	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Resources
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Reconciliation pipeline
	CodeConfigMissing      ErrorCode = "CONFIG_MISSING"
	CodeVerificationFailed ErrorCode = "VERIFICATION_FAILED"

	// Scheduler
	CodeSchedulerTickFailed ErrorCode = "SCHEDULER_TICK_FAILED"

	// System
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
)
