package errors

import "net/http"

var ErrInvalidToken = &Exception{
	Message:    "invalid or missing token",
	StatusCode: http.StatusUnauthorized,
}
