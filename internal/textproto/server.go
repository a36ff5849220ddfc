// Copyright (C) 2019  Lukas Dietrich <lukas@lukasdietrich.com>
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

package textproto

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	"github.com/lukasdietrich/briefpop/internal/log"
)

type Server interface {
	// Listen will open a new tcp listener and block until an error occurs or the context is
	// canceled. An error is either returned when trying to bind the given address or whenever
	// accepting a new connection fails.
	Listen(ctx context.Context, addr string) error
}

type Protocol interface {
	// Handle is supposed to consume a connection and manage all traffic
	// over it. Once Handle returns, the underlying network connection is
	// automatically closed by the server.
	Handle(Conn)
}

type server struct {
	proto   Protocol
	opts    ConnOptions
	counter int32
}

func NewServer(proto Protocol, opts ConnOptions) Server {
	return &server{
		proto: proto,
		opts:  opts,
	}
}

func (s *server) Listen(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().
		Str("address", l.Addr().String()).
		Msg("listening")

	return s.serve(ctx, l)
}

func (s *server) serve(ctx context.Context, l net.Listener) error {
	var (
		wg   sync.WaitGroup
		done = make(chan struct{})
	)

	defer wg.Wait()
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			l.Close() // nolint:errcheck
		case <-done:
		}
	}()

	for {
		netConn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			l.Close() // nolint:errcheck
			return err
		}

		wg.Add(1)

		go func() {
			defer wg.Done()
			s.handle(ctx, netConn)
		}()
	}
}

func (s *server) handle(ctx context.Context, netConn net.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	ctx = log.WithConnection(ctx, atomic.AddInt32(&s.counter, 1))

	log.DebugContext(ctx).
		Str("remote", netConn.RemoteAddr().String()).
		Msg("accepted connection")

	// closing the socket unblocks pending reads once the server shuts down
	go func() {
		<-ctx.Done()
		netConn.Close() // nolint:errcheck
	}()

	s.proto.Handle(NewConn(ctx, netConn, s.opts))
	cancel()

	log.DebugContext(ctx).Msg("closed connection")
}
