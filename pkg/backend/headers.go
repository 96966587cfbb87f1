package backend

import (
	"net/http"
	"net/textproto"
	"strings"
)

// hopHeaders are connection-specific and never forwarded.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// ForwardHeaders returns a copy of the inbound headers suitable for the
// backend request. Host, Content-Length, hop-by-hop headers and any header
// named in Connection are dropped.
func ForwardHeaders(inbound http.Header) http.Header {
	out := inbound.Clone()
	if out == nil {
		out = http.Header{}
	}

	for _, v := range out.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = textproto.TrimString(name); name != "" {
				out.Del(name)
			}
		}
	}
	for _, h := range hopHeaders {
		out.Del(h)
	}
	out.Del("Host")
	out.Del("Content-Length")

	if out.Get("Content-Type") == "" {
		out.Set("Content-Type", "application/json")
	}
	return out
}
