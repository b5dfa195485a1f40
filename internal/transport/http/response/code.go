package response

// Failure codes mirror the HTTP status they are sent with; success is 0.
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeEntityTooLarge  = 413
	CodeTooManyRequests = 429
	CodeServerError     = 500
	CodeServiceBusy     = 503
	CodeTimeout         = 504
)

var CodeMsgMap = map[int]string{
	CodeOK:              "OK",
	CodeBadRequest:      "Bad Request",
	CodeUnauthorized:    "Unauthorized",
	CodeForbidden:       "Forbidden",
	CodeNotFound:        "Not Found",
	CodeConflict:        "Conflict",
	CodeEntityTooLarge:  "Request Entity Too Large",
	CodeTooManyRequests: "Too Many Requests",
	CodeServerError:     "Internal Server Error",
	CodeServiceBusy:     "Service Unavailable",
	CodeTimeout:         "Gateway Timeout",
}
