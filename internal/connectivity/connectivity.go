// Package connectivity answers whether the network is currently reachable.
package connectivity

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"
)

//go:generate mockgen -source=connectivity.go -destination=../mocks/connectivity/mock_connectivity.go -package=mock_connectivity

// ErrOffline is returned when an operation needs the network and none is available.
var ErrOffline = errors.New("network unavailable")

// Checker reports the current connectivity state.
type Checker interface {
	IsConnected(ctx context.Context) bool
}

// DialChecker treats the network as reachable when a TCP connection to the probe address succeeds.
type DialChecker struct {
	address string
	timeout time.Duration
}

func NewDialChecker(address string, timeout time.Duration) *DialChecker {
	return &DialChecker{
		address: address,
		timeout: timeout,
	}
}

func (c *DialChecker) IsConnected(ctx context.Context) bool {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", c.address)
	if err != nil {
		slog.Default().Debug("connectivity probe failed", "address", c.address, "error", err)
		return false
	}
	_ = conn.Close()
	return true
}

// Fixed always reports the same state. It backs the --offline flag.
type Fixed bool

func (f Fixed) IsConnected(context.Context) bool {
	return bool(f)
}
