package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
)

// listen opens a TCP listener on addr. When addr is the unspecified IPv6
// address and the host has no IPv6 support, it falls back to 0.0.0.0.
func listen(ctx context.Context, addr string, logger *slog.Logger) (net.Listener, error) {
	lc := listenConfig()

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err == nil {
		return ln, nil
	}

	host, port, splitErr := net.SplitHostPort(addr)
	if splitErr != nil || host != "::" {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	fallback := net.JoinHostPort("0.0.0.0", port)
	logger.WarnContext(ctx, "IPv6 listen failed, falling back to IPv4",
		"address", addr,
		"fallback", fallback,
		"error", err,
	)
	ln, err = lc.Listen(ctx, "tcp", fallback)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", fallback, err)
	}
	return ln, nil
}
