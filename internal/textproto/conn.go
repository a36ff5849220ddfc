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
	"time"
)

// DefaultMaxLineLength is the longest line accepted by a Reader, including the line ending.
const DefaultMaxLineLength = 1024

type Conn interface {
	Reader
	Writer

	// Context returns the context of the connection. It carries the log fields of the
	// connection and is canceled once the connection is closed.
	Context() context.Context

	// RemoteAddr returns the address of the peer.
	RemoteAddr() net.Addr
}

type ConnOptions struct {
	// MaxLineLength is the longest line accepted, including the line ending.
	MaxLineLength int
	// IdleTimeout limits the time to wait for the next line and for each flush. Zero disables
	// the timeout.
	IdleTimeout time.Duration
}

type conn struct {
	ctx  context.Context
	raw  net.Conn
	opts ConnOptions

	*reader
	*writer
}

// NewConn wraps a network connection into a line oriented Conn.
func NewConn(ctx context.Context, netConn net.Conn, opts ConnOptions) Conn {
	if opts.MaxLineLength <= 0 {
		opts.MaxLineLength = DefaultMaxLineLength
	}

	return &conn{
		ctx:  ctx,
		raw:  netConn,
		opts: opts,

		reader: newReader(netConn, opts.MaxLineLength),
		writer: newWriter(netConn),
	}
}

func (c *conn) Context() context.Context {
	return c.ctx
}

func (c *conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

func (c *conn) ReadLine() ([]byte, error) {
	if c.opts.IdleTimeout > 0 {
		if err := c.raw.SetReadDeadline(time.Now().Add(c.opts.IdleTimeout)); err != nil {
			return nil, err
		}
	}

	return c.reader.ReadLine()
}

func (c *conn) Flush() error {
	if c.opts.IdleTimeout > 0 {
		if err := c.raw.SetWriteDeadline(time.Now().Add(c.opts.IdleTimeout)); err != nil {
			return err
		}
	}

	return c.writer.Flush()
}
