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
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoProtocol answers every line with the line itself, until "bye" is received.
type echoProtocol struct{}

func (echoProtocol) Handle(c Conn) {
	for {
		line, err := c.ReadLine()
		if err != nil {
			return
		}

		if string(line) == "bye" {
			return
		}

		c.Write(line) // nolint:errcheck
		c.Endline()   // nolint:errcheck

		if err := c.Flush(); err != nil {
			return
		}
	}
}

func startEchoServer(t *testing.T, opts ConnOptions) (net.Addr, context.CancelFunc, <-chan error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		ctx, cancel = context.WithCancel(context.Background())
		s           = NewServer(echoProtocol{}, opts).(*server)
		errCh       = make(chan error, 1)
	)

	go func() {
		errCh <- s.serve(ctx, l)
	}()

	return l.Addr(), cancel, errCh
}

func TestServerConcurrentConnections(t *testing.T) {
	addr, cancel, errCh := startEchoServer(t, ConnOptions{})

	clients := make([]net.Conn, 3)

	for i := range clients {
		c, err := net.Dial("tcp", addr.String())
		require.NoError(t, err)

		clients[i] = c
	}

	for i, c := range clients {
		r := bufio.NewReader(c)
		message := []string{"first", "second", "third"}[i]

		_, err := c.Write([]byte(message + "\r\n"))
		require.NoError(t, err)

		line, err := r.ReadString('\n')
		require.NoError(t, err)
		assert.Equal(t, message+"\r\n", line)
	}

	{ // the server closes the connection once the protocol returns
		_, err := clients[0].Write([]byte("bye\r\n"))
		require.NoError(t, err)

		_, err = bufio.NewReader(clients[0]).ReadString('\n')
		assert.Error(t, err)
	}

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	for _, c := range clients {
		c.Close()
	}
}

func TestServerIdleTimeout(t *testing.T) {
	addr, cancel, _ := startEchoServer(t, ConnOptions{IdleTimeout: 50 * time.Millisecond})
	defer cancel()

	c, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)

	defer c.Close()

	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))

	_, err = bufio.NewReader(c).ReadString('\n')
	assert.Error(t, err)
	assert.False(t, isTimeout(err))
}

func isTimeout(err error) bool {
	netErr, ok := err.(net.Error)
	return ok && netErr.Timeout()
}
