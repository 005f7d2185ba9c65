package main

import (
	"context"
	"fmt"

	"github.com/driftwire/pgproto3/internal/config"
	"github.com/driftwire/pgproto3/internal/netconn"
	"github.com/driftwire/pgproto3/internal/ui"
	"github.com/driftwire/pgproto3/pgproto3"
)

// session wraps a live, authenticated connection. A single background
// goroutine owns the socket's read side for the session's entire
// lifetime; commands register their own event handlers on
// conn.Session and block on whatever channel those handlers feed.
type session struct {
	conn *netconn.Conn
	out  *ui.Output

	// errc receives the background read loop's terminal error exactly
	// once (io.EOF on a clean close, or a protocol-fatal decode error).
	errc chan error
}

// connect dials cfg.Conn, drives the handshake (StartupMessage through
// AuthenticationOk, answering any password challenge with password or,
// if empty, an interactive prompt), and returns once AuthenticationOk
// arrives (the request_ready event). It does not wait for the
// ParameterStatus, BackendKeyData and ReadyForQuery frames that follow.
func connect(ctx context.Context, cfg *config.Config, password string) (*session, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Conn.Host, cfg.Conn.Port)
	nc, err := netconn.Dial(ctx, addr, cfg.Conn.ConnectTimeout, cfg.Conn.ReadTimeout, cfg.Conn.WriteTimeout)
	if err != nil {
		return nil, err
	}

	s := &session{
		conn: nc,
		out:  ui.NewOutput(false, false),
		errc: make(chan error, 1),
	}

	handshakeReady := make(chan struct{})
	handshakeFailed := make(chan error, 1)

	nc.Session.On(pgproto3.EventPassword, func(payload any) {
		pw := password
		if pw == "" {
			var err error
			pw, err = ui.Password("Password")
			if err != nil {
				handshakeFailed <- err
				return
			}
		}
		if err := nc.Session.SendPassword(pw); err != nil {
			handshakeFailed <- err
		}
	})
	nc.Session.On(pgproto3.EventRequestReady, func(any) {
		close(handshakeReady)
	})
	nc.Session.On(pgproto3.EventError, func(payload any) {
		evt := payload.(pgproto3.ErrorEvent)
		handshakeFailed <- fmt.Errorf("pgproto3cli: %s: %s", evt.Fields.Severity, evt.Fields.Message)
	})

	if err := nc.Session.InitialRequest(cfg.Conn.User, cfg.Conn.Database, ""); err != nil {
		nc.Close()
		return nil, err
	}

	go s.readLoop()

	spin := ui.NewSpinner(fmt.Sprintf("connecting to %s:%d", cfg.Conn.Host, cfg.Conn.Port))
	spin.Start()

	select {
	case <-handshakeReady:
		spin.Stop(fmt.Sprintf("connected to %s:%d as %s", cfg.Conn.Host, cfg.Conn.Port, cfg.Conn.User))
		return s, nil
	case err := <-handshakeFailed:
		spin.StopError(err)
		nc.Close()
		return nil, err
	case err := <-s.errc:
		spin.StopError(err)
		return nil, err
	}
}

// readLoop owns nc.ReadMessage for the session's lifetime, reporting
// its terminal error on errc once.
func (s *session) readLoop() {
	for {
		if err := s.conn.ReadMessage(); err != nil {
			s.errc <- err
			return
		}
	}
}

func (s *session) close() {
	_ = s.conn.Close()
}
