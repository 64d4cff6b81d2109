package errors

import "net/http"

var ErrEnrichmentFailed = &Exception{
	Message:    "failed to generate procedure",
	StatusCode: http.StatusInternalServerError,
}
