package bus

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rileyhilliard/mavinspect/internal/codec"
)

// MaxFrameSize bounds a single encoded record.
const MaxFrameSize = 1 << 20

// record is the CBOR shape of a message on the bridge wire. Fields are
// encoded as [name, value] pairs to keep their declared order.
type record struct {
	System    uint8   `cbor:"sys"`
	Component uint8   `cbor:"comp"`
	Type      string  `cbor:"type"`
	Fields    [][]any `cbor:"fields,omitempty"`
	Text      string  `cbor:"text,omitempty"`
}

// MarshalMessage encodes msg as a single CBOR record.
func MarshalMessage(msg *Message) ([]byte, error) {
	rec := record{
		System:    msg.SystemID,
		Component: msg.ComponentID,
		Type:      msg.Type,
		Text:      msg.Text,
	}
	for _, f := range msg.Fields {
		rec.Fields = append(rec.Fields, []any{f.Name, f.Value})
	}
	return codec.Marshal(rec)
}

// UnmarshalMessage decodes a CBOR record. Any structural problem yields an
// error; callers turn that into a BAD_DATA message.
func UnmarshalMessage(data []byte) (*Message, error) {
	var rec record
	if err := codec.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Type == "" {
		return nil, errors.New("record has no type")
	}

	msg := &Message{
		SystemID:    rec.System,
		ComponentID: rec.Component,
		Type:        rec.Type,
		Text:        rec.Text,
	}
	if len(rec.Fields) > 0 {
		msg.Fields = make([]Field, 0, len(rec.Fields))
	}
	for i, pair := range rec.Fields {
		if len(pair) != 2 {
			return nil, fmt.Errorf("field %d: expected [name, value] pair", i)
		}
		name, ok := pair[0].(string)
		if !ok {
			return nil, fmt.Errorf("field %d: name is %T, not a string", i, pair[0])
		}
		msg.Fields = append(msg.Fields, Field{Name: name, Value: pair[1]})
	}
	return msg, nil
}

// Encode writes msg to w as a length-prefixed frame.
func Encode(w io.Writer, msg *Message) error {
	payload, err := MarshalMessage(msg)
	if err != nil {
		return err
	}
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxFrameSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit of %d", n, MaxFrameSize)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Stream is a Bus backed by a network connection. A reader goroutine decodes
// frames into a buffered channel so Receive can honour its timeout without
// interrupting a partially read frame.
type Stream struct {
	conn   io.Closer
	frames chan *Message
	done   chan struct{}
	once   sync.Once

	mu  sync.Mutex
	err error
}

func newStream(conn io.Closer, next func() ([]byte, error)) *Stream {
	s := &Stream{
		conn:   conn,
		frames: make(chan *Message, 256),
		done:   make(chan struct{}),
	}
	go s.readLoop(next)
	return s
}

// NewStream wraps a connection carrying length-prefixed frames.
func NewStream(conn io.ReadCloser) *Stream {
	return newStream(conn, func() ([]byte, error) { return readFrame(conn) })
}

// DialTCP connects to a bridge at addr.
func DialTCP(ctx context.Context, addr string) (*Stream, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial tcp %s: %w", addr, err)
	}
	return NewStream(conn), nil
}

// ListenUDP listens for one-record-per-datagram traffic on addr.
func ListenUDP(ctx context.Context, addr string) (*Stream, error) {
	var lc net.ListenConfig
	pc, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen udp %s: %w", addr, err)
	}
	buf := make([]byte, 64*1024)
	return newStream(pc, func() ([]byte, error) {
		n, _, err := pc.ReadFrom(buf)
		if err != nil {
			return nil, err
		}
		payload := make([]byte, n)
		copy(payload, buf[:n])
		return payload, nil
	}), nil
}

func (s *Stream) readLoop(next func() ([]byte, error)) {
	defer close(s.frames)
	for {
		payload, err := next()
		if err != nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			return
		}

		msg, err := UnmarshalMessage(payload)
		if err != nil {
			msg = BadData()
		}

		select {
		case s.frames <- msg:
		case <-s.done:
			return
		}
	}
}

// Receive implements Bus.
func (s *Stream) Receive(ctx context.Context, timeout time.Duration) (*Message, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg, ok := <-s.frames:
		if !ok {
			return nil, s.closedErr()
		}
		return msg, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close implements Bus.
func (s *Stream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.conn.Close()
		if errors.Is(err, net.ErrClosed) {
			err = nil
		}
	})
	return err
}

func (s *Stream) closedErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil || errors.Is(s.err, net.ErrClosed) {
		return ErrClosed
	}
	return fmt.Errorf("%w: %v", ErrClosed, s.err)
}
