// Package netconn owns the TCP socket and feeds/drains bytes through a
// pgproto3.Session — the I/O the core library deliberately leaves to
// its embedder.
package netconn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/driftwire/pgproto3/pgproto3"
	"github.com/driftwire/pgproto3/pkg/logger"
)

// Conn pairs one net.Conn with one pgproto3.Session and runs the
// read/feed/dispatch loop until the socket closes or HandleMessage
// reports a protocol-fatal error.
type Conn struct {
	ID      string
	Session *pgproto3.Session

	conn         net.Conn
	parser       *pgproto3.Parser
	readTimeout  time.Duration
	writeTimeout time.Duration

	log *charmlog.Logger
}

// Dial opens a TCP connection to addr and wires a fresh Session to it.
// The caller still drives the handshake (InitialRequest, SendPassword,
// ...); Dial only establishes the socket.
func Dial(ctx context.Context, addr string, connectTimeout, readTimeout, writeTimeout time.Duration) (*Conn, error) {
	d := net.Dialer{Timeout: connectTimeout}
	raw, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("netconn: dial %s: %w", addr, err)
	}

	session := pgproto3.NewSession()
	id := uuid.New().String()

	c := &Conn{
		ID:           id,
		Session:      session,
		conn:         raw,
		parser:       pgproto3.NewParser(),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		log:          logger.With("conn", id),
	}

	session.On(pgproto3.EventSendRequest, func(payload any) {
		evt := payload.(pgproto3.SendRequestEvent)
		_ = c.write(evt.Data)
	})

	return c, nil
}

// write flushes bytes to the socket, honoring the configured write
// deadline.
func (c *Conn) write(data []byte) error {
	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.conn.Write(data)
	if err != nil {
		c.log.Error("write failed", "err", err)
		return fmt.Errorf("netconn: write: %w", err)
	}
	return nil
}

// ReadMessage blocks for one complete frame off the wire, feeding the
// parser until a full frame is available, and dispatches it through
// Session.HandleMessage. It returns io.EOF (wrapped) once the peer
// closes the connection cleanly.
func (c *Conn) ReadMessage() error {
	for {
		msgType, payload, ok, err := c.parser.Next()
		if err != nil {
			return fmt.Errorf("netconn: parse: %w", err)
		}
		if ok {
			return c.Session.HandleDecoded(msgType, payload)
		}

		if c.readTimeout > 0 {
			_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		}
		buf := make([]byte, 4096)
		n, err := c.conn.Read(buf)
		if n > 0 {
			c.parser.Feed(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("netconn: connection closed: %w", io.EOF)
			}
			return fmt.Errorf("netconn: read: %w", err)
		}
	}
}

// Close closes the underlying socket.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// SendCancelRequest opens a brand-new connection to addr, sends a
// CancelRequest for the given pid/secretKey pair, and closes it — per
// the protocol, cancellation is never sent on the connection being
// cancelled.
func SendCancelRequest(ctx context.Context, addr string, connectTimeout time.Duration, pid, secretKey int32) error {
	d := net.Dialer{Timeout: connectTimeout}
	raw, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("netconn: dial %s: %w", addr, err)
	}
	defer raw.Close()

	if _, err := raw.Write(pgproto3.CancelRequest(pid, secretKey)); err != nil {
		return fmt.Errorf("netconn: send cancel request: %w", err)
	}
	return nil
}
