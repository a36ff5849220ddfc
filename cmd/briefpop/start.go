// Copyright (C) 2020  Lukas Dietrich <lukas@lukasdietrich.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/lukasdietrich/briefpop/internal/database"
	"github.com/lukasdietrich/briefpop/internal/delivery"
	"github.com/lukasdietrich/briefpop/internal/log"
	"github.com/lukasdietrich/briefpop/internal/metrics"
	"github.com/lukasdietrich/briefpop/internal/textproto"
)

func init() {
	viper.SetDefault("cleaner.interval", "1h")
}

type startOptions struct {
	Address         string
	CleanerInterval time.Duration
}

func startOptionsFromViper() startOptions {
	return startOptions{
		Address:         viper.GetString("pop3.address"),
		CleanerInterval: viper.GetDuration("cleaner.interval"),
	}
}

type startCommand struct {
	Options        startOptions
	MetricsOptions metrics.Options
	Conn           database.Conn
	Server         textproto.Server
	Cleaner        delivery.Cleaner
}

func (s *startCommand) run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer s.Conn.Close() // nolint:errcheck

	if s.MetricsOptions.Address != "" {
		go s.serveMetrics(ctx)
	}

	go s.runCleaner(ctx)

	log.Info().
		Str("address", s.Options.Address).
		Msg("starting pop3 server")

	if err := s.Server.Listen(ctx, s.Options.Address); err != nil {
		return err
	}

	log.Info().Msg("pop3 server stopped")
	return nil
}

func (s *startCommand) serveMetrics(ctx context.Context) {
	server := http.Server{
		Addr:    s.MetricsOptions.Address,
		Handler: metrics.Handler(),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		server.Shutdown(shutdownCtx) // nolint:errcheck
	}()

	log.Info().
		Str("address", server.Addr).
		Msg("starting metrics server")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server failed")
	}
}

func (s *startCommand) runCleaner(ctx context.Context) {
	if s.Options.CleanerInterval <= 0 {
		return
	}

	ctx = log.WithOrigin(ctx, "cleaner")
	ticker := time.NewTicker(s.Options.CleanerInterval)
	defer ticker.Stop()

	for {
		if err := s.Cleaner.Clean(ctx); err != nil {
			log.ErrorContext(ctx).Err(err).Msg("could not clean deleted mails")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
