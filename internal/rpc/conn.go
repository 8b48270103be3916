package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single call when the caller's context carries no
// deadline.
const DefaultTimeout = 2 * time.Second

// Conn is a newline-delimited JSON-RPC client over a Unix domain socket.
// One call is in flight at a time; concurrent callers are serialized by
// mu, since the bridge process answers requests in the order received.
type Conn struct {
	mu         sync.Mutex
	socketPath string
	timeout    time.Duration
	conn       net.Conn
	reader     *bufio.Reader
}

// NewConn returns a Conn that dials lazily on the first Call.
func NewConn(socketPath string, timeout time.Duration) *Conn {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Conn{socketPath: socketPath, timeout: timeout}
}

// Dial establishes the underlying socket connection.
func (c *Conn) Dial() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialLocked()
}

// Close closes the connection, if open.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Connected reports whether the socket is currently dialed.
func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Call issues an RPC and blocks for its response, reconnecting first if
// necessary. method/params/result follow the same shape as the bridge's
// envelope protocol throughout internal/platform.
func (c *Conn) Call(ctx context.Context, method string, params map[string]interface{}) (map[string]interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.dialLocked(); err != nil {
			return nil, err
		}
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := NewRequest(uuid.New().String(), method, params)
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	data = append(data, '\n')

	deadline, _ := ctx.Deadline()
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set write deadline: %w", err)
	}
	if _, err := c.conn.Write(data); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	type result struct {
		resp *Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		if err := c.conn.SetReadDeadline(deadline); err != nil {
			done <- result{nil, fmt.Errorf("set read deadline: %w", err)}
			return
		}
		var env Envelope
		for {
			line, err := c.reader.ReadBytes('\n')
			if err != nil {
				done <- result{nil, fmt.Errorf("read response: %w", err)}
				return
			}
			env = Envelope{}
			if err := json.Unmarshal(line, &env); err != nil {
				done <- result{nil, fmt.Errorf("unmarshal response: %w", err)}
				return
			}
			if env.Type != "event" {
				break
			}
		}
		if env.Type != "response" || env.Response == nil {
			done <- result{nil, fmt.Errorf("unexpected envelope type %q", env.Type)}
			return
		}
		done <- result{env.Response, nil}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("call %s: %w", method, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if r.resp.IsError() {
			return nil, fmt.Errorf("%s: %s", method, r.resp.ErrorMessage())
		}
		return r.resp.Result, nil
	}
}

func (c *Conn) dialLocked() error {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.socketPath, err)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}
