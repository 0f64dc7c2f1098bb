package constant

// Domain service error codes
const (
	// Shortener service - Validation errors (1xx)
	ErrCodeInvalidURL    = "SVC101"
	ErrCodeAliasTooShort = "SVC102"

	// Shortener service - Storage errors (2xx)
	ErrCodeStorageFailure = "SVC201"
	ErrCodeAliasExists    = "SVC202"
	ErrCodeAliasRetry     = "SVC203"

	// Shortener service - Retrieval errors (3xx)
	ErrCodeAliasNotFound = "SVC301"
)

// Database error codes
const (
	// General DB errors (5xx)
	ErrCodeDBGeneral = "DB500"

	// Connection errors (0xx)
	ErrCodeDBOpen   = "DB001"
	ErrCodeDBSchema = "DB002"
	ErrCodeDBPool   = "DB003"

	// Save operation errors (1xx)
	ErrCodeDBInsert    = "DB101"
	ErrCodeDBDuplicate = "DB102"

	// Get operation errors (2xx)
	ErrCodeDBLookup = "DB201"

	// Delete operation errors (3xx)
	ErrCodeDBDelete = "DB301"

	// Close operation errors (4xx)
	ErrCodeDBClose = "DB401"
)

// API error codes
const (
	ErrCodeAPIDecodeRequest = "API001"
	ErrCodeAPIServiceError  = "API002"
	ErrCodeAPITimeout       = "API003"
	ErrCodeAPIOverloaded    = "API004"
	ErrCodeAPIQRCode        = "API005"
	ErrCodeAPIHealth        = "API006"
	ErrCodeAPIUnauthorized  = "API007"
)

// Application error codes
const (
	ErrCodeAppConfig         = "APP001"
	ErrCodeAppDBInit         = "APP002"
	ErrCodeAppServer         = "APP003"
	ErrCodeAppServerShutdown = "APP004"
	ErrCodeAppDelete         = "APP005"
)

// Error types for categorization
const (
	// Domain error types
	ErrTypeValidation = "validation"
	ErrTypeStorage    = "storage"
	ErrTypeRetrieval  = "retrieval"

	// Infrastructure error types
	ErrTypeDB = "db"

	ErrTypeAPI = "api"
	ErrTypeApp = "application"
)
