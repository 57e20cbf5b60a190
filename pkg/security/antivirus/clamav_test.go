package antivirus

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClamd answers one connection: PONG for zPING, reply for zINSTREAM.
// The streamed payload is sent on received.
func fakeClamd(t *testing.T, reply string) (string, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		cmd := make([]byte, 0, 16)
		one := make([]byte, 1)
		for {
			if _, err := conn.Read(one); err != nil {
				return
			}
			if one[0] == 0 {
				break
			}
			cmd = append(cmd, one[0])
		}

		switch string(cmd) {
		case "zPING":
			conn.Write([]byte("PONG\x00"))
		case "zINSTREAM":
			var payload bytes.Buffer
			size := make([]byte, 4)
			for {
				if _, err := io.ReadFull(conn, size); err != nil {
					return
				}
				n := binary.BigEndian.Uint32(size)
				if n == 0 {
					break
				}
				if _, err := io.CopyN(&payload, conn, int64(n)); err != nil {
					return
				}
			}
			received <- payload.Bytes()
			conn.Write([]byte(reply + "\x00"))
		}
	}()

	return ln.Addr().String(), received
}

func TestClamAVScan(t *testing.T) {
	t.Run("Should stream the file and accept a clean reply", func(t *testing.T) {
		addr, received := fakeClamd(t, "stream: OK")
		data := bytes.Repeat([]byte("resume "), 20000) // spans several chunks

		res := NewClamAVScanner(addr, 2*time.Second).Scan(context.Background(), "cv.pdf", data)
		assert.NoError(t, res.Error)
		assert.False(t, res.Infected)
		assert.Equal(t, "clamav", res.ScannerName)
		assert.Equal(t, data, <-received)
	})

	t.Run("Should report a found threat", func(t *testing.T) {
		addr, _ := fakeClamd(t, "stream: Eicar-Test-Signature FOUND")

		res := NewClamAVScanner(addr, 2*time.Second).Scan(context.Background(), "cv.pdf", []byte("X5O!P%@AP"))
		assert.NoError(t, res.Error)
		assert.True(t, res.Infected)
		assert.Equal(t, "Eicar-Test-Signature", res.ThreatName)
	})

	t.Run("Should fail closed when clamd is unreachable", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := ln.Addr().String()
		ln.Close()

		res := NewClamAVScanner(addr, time.Second).Scan(context.Background(), "cv.pdf", []byte("%PDF"))
		assert.Error(t, res.Error)
		assert.True(t, res.Infected)
	})
}

func TestClamAVAvailable(t *testing.T) {
	addr, _ := fakeClamd(t, "")
	assert.True(t, NewClamAVScanner(addr, time.Second).Available(context.Background()))
}

func TestParseReply(t *testing.T) {
	res := parseReply(ScanResult{}, "stream: OK\x00")
	assert.False(t, res.Infected)
	assert.NoError(t, res.Error)

	res = parseReply(ScanResult{}, "INSTREAM size limit exceeded. ERROR")
	assert.True(t, res.Infected)
	assert.Error(t, res.Error)

	res = parseReply(ScanResult{}, "")
	assert.True(t, res.Infected)
	assert.Error(t, res.Error)
}

func TestNoOpScanner(t *testing.T) {
	s := NewNoOpScanner()
	res := s.Scan(context.Background(), "cv.pdf", []byte("%PDF"))
	assert.False(t, res.Infected)
	assert.True(t, s.Available(context.Background()))
}
