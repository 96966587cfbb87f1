//go:build !unix

package server

import "net"

// listenConfig returns the runtime default, which is dual-stack for the
// unspecified IPv6 address where the platform allows it.
func listenConfig() net.ListenConfig {
	return net.ListenConfig{}
}
