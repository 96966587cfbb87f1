package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"mercator-hq/lookout/pkg/backend"
	"mercator-hq/lookout/pkg/proxy/types"
)

// relayDropHeaders are recomputed or meaningless once the body is buffered.
var relayDropHeaders = map[string]bool{
	"Transfer-Encoding": true,
	"Content-Length":    true,
}

// RelayResponse writes a buffered backend response to w: the backend status,
// every backend header except Transfer-Encoding and Content-Length, a
// recomputed Content-Length and the raw body. Backend headers replace any
// value already set on w, such as the X-Request-ID added by middleware.
func RelayResponse(w http.ResponseWriter, resp *backend.Response) error {
	header := w.Header()
	for name, values := range resp.Header {
		if relayDropHeaders[http.CanonicalHeaderKey(name)] {
			continue
		}
		header.Del(name)
		for _, v := range values {
			header.Add(name, v)
		}
	}
	header.Set("Content-Length", strconv.Itoa(len(resp.Body)))

	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		return fmt.Errorf("failed to write response body: %w", err)
	}
	return nil
}

// WriteJSONResponse writes a JSON response to the HTTP response writer.
// It sets the appropriate content-type header and handles marshaling errors.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(statusCode)

	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

// WriteErrorResponse writes errResp with HTTP 500.
func WriteErrorResponse(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	return WriteJSONResponse(w, http.StatusInternalServerError, errResp)
}

// WriteError writes err as {"error": "..."} with HTTP 500.
func WriteError(w http.ResponseWriter, err error) error {
	return WriteErrorResponse(w, HandleError(err))
}
