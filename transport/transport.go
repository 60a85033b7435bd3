package transport

import (
	"context"
	"net"
)

// Server is a long-running transport that the application lifecycle manages.
type Server interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// ValidateAddress reports whether addr is a usable host:port listen address.
func ValidateAddress(addr string) bool {
	if addr == "" {
		return false
	}
	_, _, err := net.SplitHostPort(addr)
	return err == nil
}
