package mqttv3

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getShortSocketPath(t testing.TB) string {
	t.Helper()
	return fmt.Sprintf("/tmp/mqtt_test_%d.sock", time.Now().UnixNano())
}

func TestUnixDialer(t *testing.T) {
	t.Run("dial and exchange", func(t *testing.T) {
		socketPath := getShortSocketPath(t)
		defer os.Remove(socketPath)

		listener, err := net.Listen("unix", socketPath)
		require.NoError(t, err)
		defer listener.Close()

		serverDone := make(chan struct{})
		go func() {
			defer close(serverDone)
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
			_, _ = conn.Write([]byte{0xD0, 0x00})
		}()

		dialer := NewUnixDialer()
		conn, err := dialer.Dial(context.Background(), socketPath)
		require.NoError(t, err)
		defer conn.Close()

		buf := NewFixedBuffer(DefaultBufferSize)
		pkt, err := ReadPacket(conn, buf)
		require.NoError(t, err)
		assert.Equal(t, PacketPINGRESP, pkt.Header.PacketType)

		<-serverDone
	})

	t.Run("half close works over unix sockets", func(t *testing.T) {
		socketPath := getShortSocketPath(t)
		defer os.Remove(socketPath)

		listener, err := net.Listen("unix", socketPath)
		require.NoError(t, err)
		defer listener.Close()

		serverEOF := make(chan error, 1)
		go func() {
			conn, err := listener.Accept()
			if err != nil {
				serverEOF <- err
				return
			}
			defer conn.Close()

			buf := make([]byte, 16)
			_, err = conn.Read(buf)
			serverEOF <- err
		}()

		dialer := NewUnixDialer()
		conn, err := dialer.Dial(context.Background(), socketPath)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.CloseWrite())

		select {
		case err := <-serverEOF:
			assert.ErrorIs(t, err, io.EOF)
		case <-time.After(2 * time.Second):
			t.Fatal("peer never saw the half-close")
		}
	})

	t.Run("dial context cancel", func(t *testing.T) {
		dialer := NewUnixDialer()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := dialer.Dial(ctx, "/nonexistent/socket.sock")
		assert.Error(t, err)
	})

	t.Run("dial nonexistent socket", func(t *testing.T) {
		dialer := NewUnixDialer()
		_, err := dialer.Dial(context.Background(), "/nonexistent/socket.sock")

		var terr *TransportError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "dial", terr.Op)
	})
}
