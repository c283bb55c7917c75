// Package scan models a barcode/QR scan as a one-shot, cancellable
// operation. The decoding itself (camera frames in, string out) is an
// external collaborator behind the Decoder interface; this package only pins
// down the lifecycle: at most one decoded value per session, and the capture
// device is always released, whether the scan completes, fails, or is
// cancelled.
package scan

import (
	"context"
	"errors"
	"sync/atomic"
)

var (
	// ErrSessionUsed is returned when Scan is called twice on one session
	ErrSessionUsed = errors.New("scan session already used")
)

// Decoder is a black-box camera decode stream. Decode blocks until a code is
// read, the stream fails, or the context is cancelled. Close stops the
// underlying capture; it must unblock any in-flight Decode.
type Decoder interface {
	Decode(ctx context.Context) (string, error)
	Close() error
}

// Session is a single scan attempt bound to one decoder
type Session struct {
	decoder Decoder
	used    atomic.Bool
}

func NewSession(decoder Decoder) *Session {
	return &Session{decoder: decoder}
}

type decodeResult struct {
	code string
	err  error
}

// Scan runs the decoder until it yields one value or the context is
// cancelled. The decoder is closed on every exit path, and on cancellation
// Scan waits for the decode goroutine to return before reporting, so the
// caller can be sure no capture handle outlives the call.
func (s *Session) Scan(ctx context.Context) (string, error) {
	if !s.used.CompareAndSwap(false, true) {
		return "", ErrSessionUsed
	}

	results := make(chan decodeResult, 1)
	go func() {
		code, err := s.decoder.Decode(ctx)
		results <- decodeResult{code: code, err: err}
	}()

	select {
	case res := <-results:
		_ = s.decoder.Close()
		if res.err != nil {
			return "", res.err
		}
		return res.code, nil
	case <-ctx.Done():
		_ = s.decoder.Close()
		<-results
		return "", ctx.Err()
	}
}
