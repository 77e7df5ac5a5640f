package dongle

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"hz.tools/rf"
	"hz.tools/sdr"
)

// ErrNotConnected is returned by Chunk, SetFrequency and SetSampleRate when
// the client has no live connection.
var ErrNotConnected = errors.New("dongle: not connected")

// Client is the StreamClient component: it dials a DongleServer, validates
// the capability header, and pulls the already-mixed quantized stream,
// dequantizing back to floats for decoder consumption (spec §4.10).
//
// Client does not reconnect on its own; callers (internal/decode) own the
// reconnect-with-backoff policy since each decoder kind needs its own
// connection and its own notion of "chunk size."
type Client struct {
	addr string

	mu        sync.Mutex
	conn      net.Conn
	connected bool
	timeout   time.Duration
}

// NewClient returns an unconnected Client for the given "host:port".
func NewClient(addr string) *Client {
	return &Client{addr: addr, timeout: 5 * time.Second}
}

// Connect dials addr and reads/validates the 12-byte capability header.
func (c *Client) Connect() error {
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return fmt.Errorf("dongle: dial %s: %w", c.addr, err)
	}

	hdr := make([]byte, HeaderSize)
	if _, err := readFull(conn, hdr); err != nil {
		conn.Close()
		return fmt.Errorf("dongle: reading header: %w", err)
	}
	if string(hdr[0:4]) != Magic {
		conn.Close()
		return fmt.Errorf("dongle: bad magic %q", hdr[0:4])
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	return nil
}

// Connected reports whether the client currently believes it has a live
// connection. It is cleared on the first read/write failure.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close closes the underlying connection, if any.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false
}

// Chunk reads exactly n quantized samples and dequantizes them to
// [-1, 1] floats. On any read error the client marks itself disconnected
// and returns the error.
func (c *Client) Chunk(n int) (sdr.SamplesC64, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return nil, ErrNotConnected
	}

	buf := make([]byte, n*2)
	if _, err := readFull(conn, buf); err != nil {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		return nil, err
	}

	out := make(sdr.SamplesC64, n)
	for i := 0; i < n; i++ {
		out[i] = complex(Dequantize(buf[2*i]), Dequantize(buf[2*i+1]))
	}
	return out, nil
}

// SetFrequency sends a CmdSetFrequency command record.
func (c *Client) SetFrequency(freq rf.Hz) error {
	return c.sendCommand(CmdSetFrequency, uint32(freq))
}

// SetSampleRate sends a CmdSetSampleRate command record.
func (c *Client) SetSampleRate(rate uint) error {
	return c.sendCommand(CmdSetSampleRate, uint32(rate))
}

func (c *Client) sendCommand(cmd byte, param uint32) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	var buf [CommandSize]byte
	buf[0] = cmd
	binary.BigEndian.PutUint32(buf[1:5], param)
	if _, err := conn.Write(buf[:]); err != nil {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		return err
	}
	return nil
}
