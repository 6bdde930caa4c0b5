package bus

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalMessage_RoundTripKeepsFieldOrder(t *testing.T) {
	msg := &Message{
		SystemID:    1,
		ComponentID: 191,
		Type:        "ATTITUDE",
		Fields: []Field{
			{Name: "time_boot_ms", Value: uint64(1200)},
			{Name: "roll", Value: 0.25},
			{Name: "pitch", Value: -0.5},
		},
	}

	data, err := MarshalMessage(msg)
	require.NoError(t, err)

	got, err := UnmarshalMessage(data)
	require.NoError(t, err)

	assert.Equal(t, uint8(1), got.SystemID)
	assert.Equal(t, uint8(191), got.ComponentID)
	assert.Equal(t, "ATTITUDE", got.Type)
	require.Len(t, got.Fields, 3)
	assert.Equal(t, "time_boot_ms", got.Fields[0].Name)
	assert.Equal(t, "roll", got.Fields[1].Name)
	assert.Equal(t, "pitch", got.Fields[2].Name)
	assert.InDelta(t, 0.25, got.Fields[1].Value, 1e-9)
}

func TestUnmarshalMessage_Rejects(t *testing.T) {
	t.Run("garbage bytes", func(t *testing.T) {
		_, err := UnmarshalMessage([]byte{0xff, 0x00, 0x13})
		assert.Error(t, err)
	})

	t.Run("missing type", func(t *testing.T) {
		data, err := MarshalMessage(&Message{SystemID: 1})
		require.NoError(t, err)
		_, err = UnmarshalMessage(data)
		assert.Error(t, err)
	})
}

func TestStream_DeliversFramesAndBadData(t *testing.T) {
	client, server := net.Pipe()
	s := NewStream(client)
	t.Cleanup(func() { _ = s.Close() })

	go func() {
		_ = Encode(server, &Message{SystemID: 1, ComponentID: 1, Type: TypeHeartbeat})

		junk := []byte{0xff, 0xfe}
		var hdr [4]byte
		binary.BigEndian.PutUint32(hdr[:], uint32(len(junk)))
		_, _ = server.Write(hdr[:])
		_, _ = server.Write(junk)

		_ = server.Close()
	}()

	ctx := context.Background()

	first, err := s.Receive(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, TypeHeartbeat, first.Type)

	second, err := s.Receive(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.True(t, second.IsBadData())

	_, err = s.Receive(ctx, time.Second)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStream_CloseIsIdempotent(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	s := NewStream(client)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())

	_, err := s.Receive(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStream_ReceiveTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	s := NewStream(client)
	defer s.Close()

	msg, err := s.Receive(context.Background(), 10*time.Millisecond)
	assert.NoError(t, err)
	assert.Nil(t, msg)
}

func TestDialTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = Encode(conn, &Message{SystemID: 3, ComponentID: 1, Type: TypeHeartbeat})
	}()

	b, err := Dial(context.Background(), "tcp:"+ln.Addr().String())
	require.NoError(t, err)
	defer b.Close()

	hb, err := WaitHeartbeat(context.Background(), b, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), hb.SystemID)
}

func TestListenUDP(t *testing.T) {
	b, err := ListenUDP(context.Background(), "127.0.0.1:0")
	require.NoError(t, err)
	defer b.Close()

	pc := b.conn.(net.PacketConn)
	sender, err := net.Dial("udp", pc.LocalAddr().String())
	require.NoError(t, err)
	defer sender.Close()

	data, err := MarshalMessage(&Message{SystemID: 2, ComponentID: 1, Type: TypeHeartbeat})
	require.NoError(t, err)
	_, err = sender.Write(data)
	require.NoError(t, err)

	msg, err := b.Receive(context.Background(), 2*time.Second)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, uint8(2), msg.SystemID)
}
