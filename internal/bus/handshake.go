package bus

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrHandshakeTimeout is returned when no heartbeat arrives in time.
var ErrHandshakeTimeout = errors.New("no heartbeat received")

// WaitHeartbeat blocks until a HEARTBEAT message arrives on b or timeout
// elapses. Other messages received in the meantime are discarded.
func WaitHeartbeat(ctx context.Context, b Bus, timeout time.Duration) (*Message, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		msg, err := b.Receive(ctx, timeout)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w within %s", ErrHandshakeTimeout, timeout)
			}
			return nil, err
		}
		if msg != nil && msg.Type == TypeHeartbeat {
			return msg, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w within %s", ErrHandshakeTimeout, timeout)
		}
	}
}
