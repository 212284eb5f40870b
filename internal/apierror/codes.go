package apierror

// Error type URIs following the urn:neuralpath:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:neuralpath:error:validation"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:neuralpath:error:not_found"

	// TypeConflict indicates a record ID is already owned by someone else (409)
	TypeConflict = "urn:neuralpath:error:conflict"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:neuralpath:error:rate_limit"

	// TypeUnauthorized indicates missing or invalid authentication (401)
	TypeUnauthorized = "urn:neuralpath:error:unauthorized"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:neuralpath:error:internal"

	// TypeInvalidUUID indicates an invalid or non-v7 UUID in the request (400)
	TypeInvalidUUID = "urn:neuralpath:error:invalid_uuid"

	// TypeFutureTimestamp indicates a record timestamp too far in the future (400)
	TypeFutureTimestamp = "urn:neuralpath:error:future_timestamp"

	// TypeInvalidDateRange indicates start_date is after end_date or the window is too wide (400)
	TypeInvalidDateRange = "urn:neuralpath:error:invalid_date_range"

	// TypeInsufficientData indicates there are too few records to analyze (422)
	TypeInsufficientData = "urn:neuralpath:error:insufficient_data"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:neuralpath:error:bad_request"
)

// Titles for each error type
const (
	TitleValidation       = "Validation Error"
	TitleNotFound         = "Resource Not Found"
	TitleConflict         = "Resource Conflict"
	TitleRateLimit        = "Rate Limit Exceeded"
	TitleUnauthorized     = "Authentication Required"
	TitleInternal         = "Internal Server Error"
	TitleInvalidUUID      = "Invalid UUID Format"
	TitleFutureTimestamp  = "Future Timestamp Not Allowed"
	TitleInvalidDateRange = "Invalid Date Range"
	TitleInsufficientData = "Not Enough Data"
	TitleBadRequest       = "Bad Request"
)
