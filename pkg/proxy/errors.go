package proxy

import (
	"errors"

	"mercator-hq/lookout/pkg/backend"
	"mercator-hq/lookout/pkg/proxy/types"
)

// Error kinds reported by ErrorKind in addition to the request kinds.
const (
	KindBackendUnavailable = "backend_unavailable"
	KindUnknown            = "unknown"
)

// HandleError converts an error into the JSON error body. The message is the
// error text itself.
//
// Example usage:
//
//	if err != nil {
//	    errResp := HandleError(err)
//	    WriteErrorResponse(w, errResp)
//	    return
//	}
func HandleError(err error) *types.ErrorResponse {
	if err == nil {
		return types.NewErrorResponse("unknown error")
	}
	return types.NewErrorResponse(err.Error())
}

// ErrorKind classifies err for logs and metrics.
func ErrorKind(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}

	var unavailable *backend.UnavailableError
	if errors.As(err, &unavailable) {
		return KindBackendUnavailable
	}

	return KindUnknown
}
