// Package constants defines system-wide constants for the credit scoring service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Service Identity
// ================================================================================

const (
	// ServiceName is the name reported to tracing and logs
	ServiceName = "credscore"

	// APIVersion is the public API version prefix
	APIVersion = "v1"

	// WelcomeMessage is returned by the root endpoint
	WelcomeMessage = "Cashi Credit Scoring API"
)

// ================================================================================
// Error Code Constants
// ================================================================================

// ErrorCode represents a machine-readable error code returned to clients
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates a malformed or schema-violating request
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeValidationFailed indicates business-rule validation rejected the application
	ErrCodeValidationFailed ErrorCode = "validation_failed"

	// ErrCodeModelUnavailable indicates no scoring model is loaded
	ErrCodeModelUnavailable ErrorCode = "model_unavailable"

	// ErrCodeServerError indicates an unexpected internal condition
	ErrCodeServerError ErrorCode = "server_error"

	// ErrCodeUnauthorized indicates missing or invalid credentials
	ErrCodeUnauthorized ErrorCode = "unauthorized"

	// ErrCodeNotFound indicates the requested resource does not exist
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeRateLimitExceeded indicates the caller exceeded its request budget
	ErrCodeRateLimitExceeded ErrorCode = "rate_limit_exceeded"

	// ErrCodeDatabaseError indicates a storage failure
	ErrCodeDatabaseError ErrorCode = "database_error"
)

// ================================================================================
// Business Rule Thresholds
// ================================================================================

const (
	// MinAnnualIncome is the lowest annual income accepted for scoring
	MinAnnualIncome = 20000.0

	// MaxLoanAmount is the largest loan amount accepted for scoring
	MaxLoanAmount = 40000.0

	// MinInterestRate and MaxInterestRate bound the accepted interest rate (percent)
	MinInterestRate = 5.0
	MaxInterestRate = 31.0

	// MinGrade and MaxGrade bound the numeric loan grade (A=1 .. G=7)
	MinGrade = 1.0
	MaxGrade = 7.0

	// MaxLoanToIncome is the loan/income ratio above which a warning is raised
	MaxLoanToIncome = 0.5

	// MaxInstallmentToIncome is the installment/monthly income ratio above which a warning is raised
	MaxInstallmentToIncome = 0.40

	// MaxDTI is the debt-to-income ratio (percent) above which a warning is raised
	MaxDTI = 60.0

	// MinCreditHistoryMonths is the credit history length below which a warning is raised
	MinCreditHistoryMonths = 12.0

	// MaxRevolvingUtilization caps revolving utilization (percent) for model input
	MaxRevolvingUtilization = 100.0
)

// ================================================================================
// Risk Override Constants
// ================================================================================

const (
	// OverrideScoreCeiling is the highest score an overridden decision may keep
	OverrideScoreCeiling = 450

	// OverrideProbabilityFloor is the lowest default probability an overridden decision may keep
	OverrideProbabilityFloor = 0.70

	// LowRiskMinScore is the inclusive lower bound of the Low tier
	LowRiskMinScore = 580

	// MediumRiskMinScore is the inclusive lower bound of the Medium tier
	MediumRiskMinScore = 480
)

// ================================================================================
// Persistence Constants
// ================================================================================

const (
	// PredictionsTable is the table holding one row per scored decision
	PredictionsTable = "predictions"

	// StatsWindow is the trailing window used for recent decision counts
	StatsWindow = 24 * time.Hour

	// StatsCacheKey is the cache key for aggregate decision stats
	StatsCacheKey = "credscore:stats:aggregate"

	// DefaultStatsCacheTTL is how long aggregate stats stay cached
	DefaultStatsCacheTTL = 30 * time.Second
)

// ================================================================================
// Rate Limit Constants
// ================================================================================

const (
	// DefaultRateLimitPerMinute is the default request budget per client
	DefaultRateLimitPerMinute = 600

	// RateLimitKeyPrefix prefixes distributed limiter keys in Redis
	RateLimitKeyPrefix = "credscore:ratelimit"
)

// ================================================================================
// HTTP Header Constants
// ================================================================================

const (
	// HeaderRequestID carries the request correlation id
	HeaderRequestID = "X-Request-ID"

	// HeaderAuthorization carries bearer credentials
	HeaderAuthorization = "Authorization"

	// HeaderRateLimitLimit reports the configured limit
	HeaderRateLimitLimit = "X-RateLimit-Limit"

	// HeaderRateLimitRemaining reports remaining requests
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
)

// ================================================================================
// Log Level Constants
// ================================================================================

// LogLevel represents the severity level of log messages
type LogLevel string

const (
	// LogLevelDebug is the most verbose logging level
	LogLevelDebug LogLevel = "debug"

	// LogLevelInfo is the standard informational logging level
	LogLevelInfo LogLevel = "info"

	// LogLevelWarn indicates potential issues
	LogLevelWarn LogLevel = "warn"

	// LogLevelError indicates errors that need attention
	LogLevelError LogLevel = "error"

	// LogLevelFatal indicates critical errors that cause service termination
	LogLevelFatal LogLevel = "fatal"
)

// ================================================================================
// Context Key Constants
// ================================================================================

// ContextKey represents keys used in context.Context
type ContextKey string

const (
	// ContextKeyRequestID is the key for request ID in context
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID is the key for distributed trace ID in context
	ContextKeyTraceID ContextKey = "trace_id"

	// ContextKeyClientIP is the key for client IP address in context
	ContextKeyClientIP ContextKey = "client_ip"

	// ContextKeyClaims is the key for verified token claims in context
	ContextKeyClaims ContextKey = "claims"
)

//Personal.AI order the ending
