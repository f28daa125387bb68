package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gwillem/framecontroller/pkg/transform"
)

type ServeCommand struct {
	Addr string `long:"addr" default:":7400" description:"Listen address"`
}

func (c *ServeCommand) Execute(args []string) error {
	logger := newLogger(os.Stderr)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot load %s: %v\n", opts.Config, err)
		os.Exit(1)
	}

	tree := transform.NewTree()
	for _, st := range cfg.Static {
		if err := tree.Set(st.Child, st.Parent, st.Pose()); err != nil {
			return fmt.Errorf("static transform %s -> %s: %w", st.Parent, st.Child, err)
		}
		logger.Info("static transform", "parent", st.Parent, "child", st.Child)
	}

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           transform.NewServer(tree, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("transform server listening", "addr", c.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
