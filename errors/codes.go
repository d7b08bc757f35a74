package errors

import "strconv"

// ErrorCode identifies an application error independent of its HTTP status
type ErrorCode int32

const (
	ErrorCode_UNKNOWN          ErrorCode = 0
	ErrorCode_HTTP_OK          ErrorCode = 200
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1003

	ErrorCode_AUTH_INVALID_CREDENTIALS ErrorCode = 2001
	ErrorCode_AUTH_USER_ALREADY_EXISTS ErrorCode = 2002
	ErrorCode_AUTH_INVALID_SIGNATURE   ErrorCode = 2003

	ErrorCode_TRANSCRIPT_PERSIST_FAILED ErrorCode = 3001
	ErrorCode_ANALYSIS_LOOKUP_FAILED    ErrorCode = 3002

	ErrorCode_INTEGRATION_LIVEKIT_FAILED      ErrorCode = 4001
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 4002
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 4003

	ErrorCode_DB_QUERY_FAILED ErrorCode = 5001
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                         "UNKNOWN",
	ErrorCode_HTTP_OK:                         "HTTP_OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_CREDENTIALS:        "AUTH_INVALID_CREDENTIALS",
	ErrorCode_AUTH_USER_ALREADY_EXISTS:        "AUTH_USER_ALREADY_EXISTS",
	ErrorCode_AUTH_INVALID_SIGNATURE:          "AUTH_INVALID_SIGNATURE",
	ErrorCode_TRANSCRIPT_PERSIST_FAILED:       "TRANSCRIPT_PERSIST_FAILED",
	ErrorCode_ANALYSIS_LOOKUP_FAILED:          "ANALYSIS_LOOKUP_FAILED",
	ErrorCode_INTEGRATION_LIVEKIT_FAILED:      "INTEGRATION_LIVEKIT_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "ErrorCode(" + strconv.Itoa(int(c)) + ")"
}
