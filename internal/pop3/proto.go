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
package pop3

import (
	"errors"
	"fmt"
	"io"

	"github.com/lukasdietrich/briefpop/internal/delivery"
	"github.com/lukasdietrich/briefpop/internal/log"
	"github.com/lukasdietrich/briefpop/internal/metrics"
	"github.com/lukasdietrich/briefpop/internal/textproto"
)

// Proto is a pop3 protocol implementation.
type Proto struct {
	greeting reply
	verbs    map[string]verb
}

// New creates a new Protocol instance to be used with a textproto Server.
func New(maildrops delivery.Maildrops, opts Options) *Proto {
	return &Proto{
		greeting: reply{true, fmt.Sprintf("POP3 Server on %s ready", opts.Hostname)},
		verbs: map[string]verb{
			"capa": {sAny, capa("USER")},

			"user": {sAuthorization, user(maildrops)},
			"pass": {sAuthorization, pass(maildrops)},

			"stat": {sTransaction, stat()},
			"list": {sTransaction, list()},
			"retr": {sTransaction, retr()},
			"dele": {sTransaction, dele()},
			"rset": {sTransaction, rset()},
			"noop": {sTransaction, noop()},

			"quit": {sAny, quit()},
		},
	}
}

// Handle accepts a pop3 connection and handles all incoming commands in a loop until the
// transmission is closed. Marks are only committed by QUIT. A session ending in any other way
// leaves the maildrop unchanged.
func (p *Proto) Handle(c textproto.Conn) {
	s := newSession(log.WithOrigin(c.Context(), "pop3"), c)
	defer s.release()

	metrics.ConnectionsTotal.Inc()
	metrics.ConnectionsCurrent.Inc()
	defer metrics.ConnectionsCurrent.Dec()

	log.InfoContext(s.ctx).
		Str("remoteAddr", c.RemoteAddr().String()).
		Msg("starting session")

	if err := s.send(p.greeting); err != nil {
		log.DebugContext(s.ctx).
			Err(err).
			Msg("could not send greeting")

		return
	}

	switch err := p.loop(s); {
	case err == nil:
		log.InfoContext(s.ctx).Msg("session closed")

	case errors.Is(err, io.EOF):
		log.InfoContext(s.ctx).
			Str("state", s.state.String()).
			Msg("session closed by peer")

	default:
		log.WarnContext(s.ctx).
			Err(err).
			Str("state", s.state.String()).
			Msg("session closed with an error")
	}
}

func (p *Proto) loop(s *session) error {
	for {
		line, err := s.ReadLine()
		if err != nil {
			if textproto.IsFramingError(err) {
				s.send(rUnrecognized) // nolint:errcheck
			}

			return err
		}

		cmd := parseCommand(line)

		if cmd.verb == "" {
			s.send(rBlankCommand) // nolint:errcheck
			return errBlankCommand
		}

		if err := p.dispatch(s, &cmd); err != nil {
			if errors.Is(err, errCloseSession) {
				return nil
			}

			return err
		}
	}
}

var errBlankCommand = errors.New("pop3: blank command")

// dispatch runs a single command. Only errors ending the session are returned.
func (p *Proto) dispatch(s *session, cmd *command) error {
	ctx := log.WithCommand(s.ctx, cmd.verb)

	v, ok := p.verbs[cmd.verb]
	if !ok {
		log.DebugContext(ctx).Msg("command unrecognized")
		metrics.CommandsTotal.WithLabelValues("unknown", metrics.OutcomeUnrecognized).Inc()

		return s.send(rUnrecognized)
	}

	if !s.state.in(v.states) {
		log.DebugContext(ctx).
			Str("state", s.state.String()).
			Msg("command not allowed in state")
		metrics.CommandsTotal.WithLabelValues(cmd.verb, metrics.OutcomeBadSequence).Inc()

		return s.send(rBadSequence)
	}

	err := v.handler(s, cmd)

	var r reply
	switch {
	case err == nil, errors.Is(err, errCloseSession):
		metrics.CommandsTotal.WithLabelValues(cmd.verb, metrics.OutcomeOk).Inc()
		return err

	case errors.As(err, &r) && !r.ok:
		log.DebugContext(ctx).
			Str("reply", r.text).
			Msg("command failed")
		metrics.CommandsTotal.WithLabelValues(cmd.verb, metrics.OutcomeFailed).Inc()

		return s.send(r)

	default:
		return err
	}
}
