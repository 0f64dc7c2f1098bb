package constant

// HTTP header names
const (
	HeaderRequestID   = "X-Request-ID"
	HeaderContentType = "Content-Type"
)

// Content types
const (
	ContentTypeJSON = "application/json"
	ContentTypePNG  = "image/png"
)

// Alias constraints
const (
	MinAliasLength     = 4
	DefaultAliasLength = 6
	AliasCharset       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Function/Context names
const (
	// Domain context names
	CtxDomain  = "domain"
	CtxShorten = "Shorten"
	CtxResolve = "Resolve"
	CtxDelete  = "Delete"

	// Infrastructure context names
	CtxDB       = "db"
	CtxOpen     = "Open"
	CtxSave     = "Save"
	CtxGet      = "Get"
	CtxRemove   = "Remove"
	CtxClose    = "Close"
	CtxAPI      = "api"
	CtxQRCode   = "QRCode"
	CtxTimeout  = "Timeout"
	CtxLoadShed = "LoadShed"
	CtxAuth     = "BasicAuth"

	// General context names
	CtxRouter   = "Router"
	CtxMain     = "Main"
	CtxSaveURL  = "SaveURL"
	CtxRedirect = "Redirect"
)

// Data field keys
const (
	// Service data fields
	DataService   = "service"
	DataURL       = "url"
	DataAlias     = "alias"
	DataGenerated = "generated"
	DataAttempt   = "attempt"
	DataID        = "id"
	DataCacheHit  = "cache_hit"

	// Database data fields
	DataPath         = "path"
	DataDialect      = "dialect"
	DataElapsed      = "elapsed"
	DataRows         = "rows"
	DataSQL          = "sql"
	DataData         = "data"
	DataRowsAffected = "rows_affected"
	DataMaxOpenConns = "max_open_conns"

	// API data fields
	DataMethod      = "method"
	DataStatus      = "status"
	DataLatency     = "latency"
	DataSize        = "size"
	DataRemoteAddr  = "remote_addr"
	DataUserAgent   = "user_agent"
	DataAddress     = "address"
	DataEnvironment = "environment"
	DataTimeout     = "timeout"
	DataLimit       = "limit"
)

// Public response messages
const (
	MsgIncorrectURL     = "incorrect url"
	MsgAliasTooShort    = "alias length must be greater than 4"
	MsgAliasExists      = "alias already exists"
	MsgAliasNotFound    = "alias not found"
	MsgDatabaseError    = "database error"
	MsgInvalidRequest   = "invalid request"
	MsgInternalError    = "internal error"
	MsgRequestTimedOut  = "request timed out"
	MsgOverloaded       = "service is overloaded, try again later"
	MsgQRCodeFailed     = "failed to generate qr code"
	MsgUnauthorized     = "unauthorized"
	MsgRouteNotFound    = "not found"
	MsgMethodNotAllowed = "method not allowed"
)

// Response status markers
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// API routes
const (
	RouteSaveURL     = "/url"
	RouteRedirect    = "/{alias}"
	RouteQRCode      = "/qr/{alias}"
	RouteHealthcheck = "/health"
	RouteMetrics     = "/metrics"
	ParamAlias       = "alias"
	AuthRealm        = "shortlink"
)

// Log keys
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogCallerKey       = "caller"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"
	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
	LogOutputStdout    = "stdout"
	LogOutputStderr    = "stderr"
)

// Environment constants
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Message constants for application
const (
	MsgApplicationStarting = "Application starting"
	MsgFailedToInitDB      = "Failed to initialize database"
	MsgServerStarting      = "Server starting"
	MsgServerFailed        = "Server failed"
	MsgServerShuttingDown  = "Server shutting down"
	MsgServerStopped       = "Server stopped"
	MsgRequestReceived     = "Request received"
	MsgRequestCompleted    = "Request completed"
	MsgSettingUpRoutes     = "Setting up API routes"
	MsgHealthcheckRequest  = "Handling healthcheck request"
	MsgHealthy             = "Healthy"
	MsgUnhealthy           = "Unhealthy"
)
