package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/emzola/bookrank/internal/jsonlog"
)

func (a *app) serve(logger *jsonlog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.cache != nil {
		go a.cache.Start()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.handler.Routes(ctx),
		ErrorLog:     log.New(logger, "", 0),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	shutdownError := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		logger.PrintInfo("shutting down server", map[string]string{
			"signal": s.String(),
		})
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		err := srv.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			shutdownError <- err
			return
		}
		if a.cache != nil {
			logger.PrintInfo("stopping revalidation cache", map[string]string{
				"entries": strconv.Itoa(a.cache.Len()),
			})
			a.cache.Stop()
		}
		shutdownError <- nil
	}()

	// Start server and listen for incoming connections
	logger.PrintInfo("starting server", map[string]string{
		"addr": srv.Addr,
		"env":  a.config.Server.Env,
	})
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		if a.cache != nil {
			a.cache.Stop()
		}
		return err
	}
	err = <-shutdownError
	if err != nil {
		return err
	}
	logger.PrintInfo("stopped server", map[string]string{
		"addr": srv.Addr,
	})
	return nil
}
