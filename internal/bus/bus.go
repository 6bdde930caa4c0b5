package bus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrClosed is returned by Receive once the bus is closed or the underlying
// connection is gone. It may wrap the transport error that ended the stream.
var ErrClosed = errors.New("bus closed")

// Bus is a source of decoded messages.
type Bus interface {
	// Receive waits up to timeout for the next message. It returns (nil, nil)
	// when nothing arrived in time.
	Receive(ctx context.Context, timeout time.Duration) (*Message, error)
	// Close releases the connection. Calling Close more than once is safe.
	Close() error
}

// Pipe is an in-memory Bus fed through Send.
type Pipe struct {
	ch   chan *Message
	done chan struct{}
	once sync.Once

	mu  sync.Mutex
	err error
}

// NewPipe creates a pipe buffering up to size messages.
func NewPipe(size int) *Pipe {
	if size < 0 {
		size = 0
	}
	return &Pipe{
		ch:   make(chan *Message, size),
		done: make(chan struct{}),
	}
}

// Send delivers msg, blocking while the buffer is full.
func (p *Pipe) Send(ctx context.Context, msg *Message) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	select {
	case p.ch <- msg:
		return nil
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive implements Bus. Messages buffered before Close are still delivered.
func (p *Pipe) Receive(ctx context.Context, timeout time.Duration) (*Message, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-p.ch:
		return msg, nil
	case <-p.done:
		select {
		case msg := <-p.ch:
			return msg, nil
		default:
			return nil, p.closedErr()
		}
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Fail closes the pipe as if the connection dropped with err.
func (p *Pipe) Fail(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
	p.Close()
}

// Close implements Bus.
func (p *Pipe) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}

func (p *Pipe) closedErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return fmt.Errorf("%w: %v", ErrClosed, p.err)
	}
	return ErrClosed
}

// Dial opens a bus for a connection target of the form "scheme:address".
//
//	tcp:host:port    connect to a bridge over TCP (length-prefixed frames)
//	udp:host:port    listen for datagrams on host:port
//	udpin:host:port  same as udp
func Dial(ctx context.Context, target string) (Bus, error) {
	scheme, addr, ok := strings.Cut(target, ":")
	if !ok || addr == "" {
		return nil, fmt.Errorf("invalid connection target %q: expected scheme:address", target)
	}

	switch strings.ToLower(scheme) {
	case "tcp":
		return DialTCP(ctx, addr)
	case "udp", "udpin":
		return ListenUDP(ctx, addr)
	default:
		return nil, fmt.Errorf("unsupported connection scheme %q (valid: tcp, udp, udpin)", scheme)
	}
}
