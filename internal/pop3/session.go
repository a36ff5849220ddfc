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
	"context"

	"github.com/lukasdietrich/briefpop/internal/delivery"
	"github.com/lukasdietrich/briefpop/internal/log"
	"github.com/lukasdietrich/briefpop/internal/metrics"
	"github.com/lukasdietrich/briefpop/internal/textproto"
)

type sessionState uint8

const (
	sAuthorization sessionState = 1 << iota
	sTransaction
	sUpdate

	sAny = sAuthorization | sTransaction
)

func (s sessionState) String() string {
	switch s {
	case sAuthorization:
		return "authorization"
	case sTransaction:
		return "transaction"
	case sUpdate:
		return "update"
	default:
		return "unknown"
	}
}

func (s sessionState) in(states sessionState) bool {
	return s&states != 0
}

type session struct {
	textproto.Conn

	ctx   context.Context
	state sessionState

	// pendingUser is the name given by USER, until PASS either succeeds or fails.
	pendingUser string
	// mailboxOwner is the authenticated name. It is set once by a successful PASS.
	mailboxOwner string

	maildrop delivery.Maildrop
	inbox    *inbox
}

func newSession(ctx context.Context, c textproto.Conn) *session {
	return &session{
		Conn:  c,
		ctx:   ctx,
		state: sAuthorization,
	}
}

func (s *session) send(r reply) error {
	return r.writeTo(s)
}

// enterTransaction binds an opened maildrop and its snapshot to the session.
func (s *session) enterTransaction(maildrop delivery.Maildrop, messages []delivery.Message) {
	s.pendingUser = ""
	s.mailboxOwner = maildrop.Name()
	s.maildrop = maildrop
	s.inbox = newInbox(messages)
	s.state = sTransaction
	s.ctx = log.WithMailbox(s.ctx, s.mailboxOwner)

	metrics.SessionsCurrent.Inc()
}

// release closes the maildrop without committing any marks.
func (s *session) release() {
	if s.maildrop == nil {
		return
	}

	log.DebugContext(s.ctx).Msg("releasing maildrop")

	if err := s.maildrop.Close(); err != nil {
		log.WarnContext(s.ctx).
			Err(err).
			Msg("could not release maildrop")
	}

	s.maildrop = nil
	s.inbox = nil

	metrics.SessionsCurrent.Dec()
}
