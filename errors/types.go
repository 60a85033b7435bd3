package errors

// Constructors for the error classes the API distinguishes. Validation maps
// to 400, authentication to 401, authorization to 403, missing resources to
// 404, persistence failures to 500.

func BadRequest(format string, args ...any) *Error {
	return New(400, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(401, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(403, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(404, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(409, format, args...)
}

func Internal(format string, args ...any) *Error {
	return New(500, format, args...)
}

// IsAuthentication reports whether err maps to an authentication failure.
func IsAuthentication(err error) bool {
	return Code(err) == 401
}

// IsPersistence reports whether err maps to an unexpected store failure.
func IsPersistence(err error) bool {
	return Code(err) == 500
}
