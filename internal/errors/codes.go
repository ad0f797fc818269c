package errors

// Error codes returned in the "error" field of every failure body.
// Format: CATEGORY_SPECIFIC_DETAIL. Screens map these to their own messages.

const (
	// Authentication
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthTooManyAttempts    = "AUTH_TOO_MANY_ATTEMPTS"
	AuthLoginExists        = "AUTH_LOGIN_EXISTS"

	// Authorization
	AuthzForbidden     = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound  = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly     = "AUTHZ_ADMIN_ONLY"
	AuthzStoreRequired = "AUTHZ_STORE_REQUIRED"
	AuthzSelfDelete    = "AUTHZ_SELF_DELETE"

	// Validation
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// Resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"
	ResourceInUse         = "RESOURCE_IN_USE"

	// Orders
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderEmpty             = "ORDER_EMPTY"
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"
	OrderProductNotFound   = "ORDER_PRODUCT_NOT_FOUND"
	OrderCustomerRequired  = "ORDER_CUSTOMER_REQUIRED"

	// Backups
	BackupInvalidFormat = "BACKUP_INVALID_FORMAT"
	BackupNotFound      = "BACKUP_NOT_FOUND"
	BackupFailed        = "BACKUP_FAILED"
	BackupStorageOff    = "BACKUP_STORAGE_DISABLED"

	// Uploads
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadUnavailable     = "UPLOAD_UNAVAILABLE"

	// Internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
