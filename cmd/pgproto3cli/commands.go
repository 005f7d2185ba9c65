package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftwire/pgproto3/internal/ui"
	"github.com/driftwire/pgproto3/pgproto3"
)

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := connect(ctx, cfg, flagPassword)
	if err != nil {
		return err
	}
	defer sess.close()

	done := make(chan error, 1)

	sess.conn.Session.On(pgproto3.EventRowDescription, func(payload any) {
		evt := payload.(pgproto3.RowDescriptionEvent)
		names := make([]string, len(evt.Fields))
		for i, f := range evt.Fields {
			names[i] = f.Name
		}
		sess.out.Title(fmt.Sprintf("%v", names))
	})
	sess.conn.Session.On(pgproto3.EventDataRow, func(payload any) {
		evt := payload.(pgproto3.DataRowEvent)
		cells := make([]string, len(evt.Cells))
		for i, c := range evt.Cells {
			if c.Null {
				cells[i] = "NULL"
			} else {
				cells[i] = string(c.Data)
			}
		}
		sess.out.Print(fmt.Sprintf("%v", cells))
	})
	sess.conn.Session.On(pgproto3.EventCommandComplete, func(payload any) {
		evt := payload.(pgproto3.CommandCompleteEvent)
		sess.out.Success(evt.Tag)
		done <- nil
	})
	sess.conn.Session.On(pgproto3.EventEmptyQuery, func(any) {
		done <- nil
	})
	sess.conn.Session.On(pgproto3.EventError, func(payload any) {
		evt := payload.(pgproto3.ErrorEvent)
		done <- fmt.Errorf("%s: %s", evt.Fields.Severity, evt.Fields.Message)
	})

	if err := sess.conn.Session.SimpleQuery(args[0]); err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case err := <-sess.errc:
		return err
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := connect(ctx, cfg, flagPassword)
	if err != nil {
		return err
	}
	defer sess.close()

	sess.out.Success(fmt.Sprintf("connected to %s:%d as %s, watching events (ctrl+c to quit)", cfg.Conn.Host, cfg.Conn.Port, cfg.Conn.User))

	for _, kind := range []pgproto3.EventKind{
		pgproto3.EventNotification,
		pgproto3.EventNotice,
		pgproto3.EventError,
		pgproto3.EventParameterStatus,
		pgproto3.EventReadyForQuery,
	} {
		k := kind
		sess.conn.Session.On(k, func(payload any) {
			sess.out.Event(k.String(), fmt.Sprintf("%+v", payload))
		})
	}

	return <-sess.errc
}

func runCopy(cmd *cobra.Command, args []string) error {
	table, path := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := connect(ctx, cfg, flagPassword)
	if err != nil {
		return err
	}
	defer sess.close()

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("pgproto3cli: open %s: %w", path, err)
	}
	defer file.Close()

	done := make(chan error, 1)
	copyReady := make(chan struct{}, 1)

	sess.conn.Session.On(pgproto3.EventCopyInResponse, func(any) {
		copyReady <- struct{}{}
	})
	sess.conn.Session.On(pgproto3.EventCommandComplete, func(payload any) {
		evt := payload.(pgproto3.CommandCompleteEvent)
		sess.out.Success(evt.Tag)
		done <- nil
	})
	sess.conn.Session.On(pgproto3.EventError, func(payload any) {
		evt := payload.(pgproto3.ErrorEvent)
		done <- fmt.Errorf("%s: %s", evt.Fields.Severity, evt.Fields.Message)
	})

	if err := sess.conn.Session.SimpleQuery(fmt.Sprintf("COPY %s FROM STDIN", table)); err != nil {
		return err
	}

	select {
	case <-copyReady:
	case err := <-done:
		return err
	case err := <-sess.errc:
		return err
	}

	total, err := countLines(file)
	if err != nil {
		return fmt.Errorf("pgproto3cli: count rows in %s: %w", path, err)
	}
	message := fmt.Sprintf("copying into %s", table)

	var progress progressReporter
	var teaProgress *ui.Progress
	if cfg.TUI.Enabled {
		teaProgress = ui.NewProgress(total, message)
		teaProgress.Start()
		progress = teaProgress
	} else {
		progress = ui.NewSimpleProgress(total, message)
	}

	if err := streamCopyFile(sess, file, progress); err != nil {
		_ = sess.conn.Session.CopyFail(err.Error())
		if teaProgress != nil {
			teaProgress.Done()
		}
		return err
	}
	if teaProgress != nil {
		teaProgress.Done()
	} else if simple, ok := progress.(*ui.SimpleProgress); ok {
		simple.Done(message)
	}

	if err := sess.conn.Session.CopyDone(); err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case err := <-sess.errc:
		return err
	}
}
