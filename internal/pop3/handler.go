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
)

var errCloseSession = errors.New("pop3: session closed")

// handler executes a single command. A returned negative reply is sent to the client and the
// session continues. errCloseSession ends the session in an orderly manner. Any other error ends
// the session immediately.
type handler func(*session, *command) error

// verb binds a handler to the states it may be used in.
type verb struct {
	states  sessionState
	handler handler
}

// `USER` command as specified in RFC#1939
//
//     "USER" <name> CRLF
func user(maildrops delivery.Maildrops) handler {
	return func(s *session, c *command) error {
		if len(c.args) != 1 {
			return rInvalidSyntax
		}

		name := c.args[0]
		s.pendingUser = ""

		exists, err := maildrops.Exists(s.ctx, name)
		if err != nil {
			log.ErrorContext(s.ctx).
				Err(err).
				Msg("could not look up mailbox")

			return rError
		}

		if !exists {
			return rNoSuchMailbox
		}

		s.pendingUser = name
		return s.send(reply{true, fmt.Sprintf("%s is a valid mailbox, send the password", name)})
	}
}

// `PASS` command as specified in RFC#1939
//
//     "PASS" <password> CRLF
func pass(maildrops delivery.Maildrops) handler {
	return func(s *session, c *command) error {
		if s.pendingUser == "" {
			return rBadSequence
		}

		if c.rest == "" {
			return rInvalidSyntax
		}

		name := s.pendingUser
		s.pendingUser = ""

		maildrop, err := maildrops.Open(s.ctx, name, []byte(c.rest))
		if err != nil {
			switch {
			case errors.Is(err, delivery.ErrWrongNamePassword):
				metrics.AuthenticationAttempts.WithLabelValues(metrics.AuthFailure).Inc()
				return rAuthFailed

			case errors.Is(err, delivery.ErrMailboxLocked):
				metrics.AuthenticationAttempts.WithLabelValues(metrics.AuthLocked).Inc()
				return rMailboxLocked

			default:
				log.ErrorContext(s.ctx).
					Err(err).
					Msg("could not open maildrop")

				return rError
			}
		}

		messages, err := maildrop.List(s.ctx)
		if err != nil {
			log.ErrorContext(s.ctx).
				Err(err).
				Msg("could not list maildrop")

			if err := maildrop.Close(); err != nil {
				log.WarnContext(s.ctx).
					Err(err).
					Msg("could not release maildrop")
			}

			return rError
		}

		metrics.AuthenticationAttempts.WithLabelValues(metrics.AuthSuccess).Inc()
		s.enterTransaction(maildrop, messages)

		log.InfoContext(s.ctx).
			Int("messages", s.inbox.count()).
			Msg("maildrop opened")

		return s.send(reply{
			true,
			fmt.Sprintf("%s's maildrop has %d messages (%d octets)",
				s.mailboxOwner, s.inbox.count(), s.inbox.size()),
		})
	}
}

// `QUIT` command as specified in RFC#1939
//
//     "QUIT" CRLF
func quit() handler {
	return func(s *session, c *command) error {
		if len(c.args) != 0 {
			return rInvalidSyntax
		}

		if s.state.in(sTransaction) {
			commit(s)
		}

		s.state = sUpdate

		if err := s.send(rBye); err != nil {
			return err
		}

		return errCloseSession
	}
}

// commit removes all marked messages from the maildrop. Failures are only visible to operators,
// because the client cannot be told about them.
func commit(s *session) {
	slots := s.inbox.marked()
	if len(slots) == 0 {
		return
	}

	if err := s.maildrop.Delete(s.ctx, slots); err != nil {
		metrics.CommitFailures.Inc()

		log.ErrorContext(s.ctx).
			Err(err).
			Ints("slots", slots).
			Msg("could not commit deletions")

		return
	}

	metrics.MessagesDeleted.Add(float64(len(slots)))

	log.InfoContext(s.ctx).
		Ints("slots", slots).
		Msg("deletions committed")
}

// `STAT` command as specified in RFC#1939
//
//     "STAT" CRLF
func stat() handler {
	return func(s *session, c *command) error {
		if len(c.args) != 0 {
			return rInvalidSyntax
		}

		return s.send(reply{true, fmt.Sprintf("%d %d", s.inbox.count(), s.inbox.size())})
	}
}

// `LIST` command as specified in RFC#1939
//
//     "LIST" [ <slot> ] CRLF
func list() handler {
	return func(s *session, c *command) error {
		switch len(c.args) {
		case 0:
			err := s.send(reply{
				true,
				fmt.Sprintf("%d messages (%d octets)", s.inbox.count(), s.inbox.size()),
			})
			if err != nil {
				return err
			}

			for _, message := range s.inbox.visible() {
				if err := s.WriteString(fmt.Sprintf("%d %d", message.Slot, message.Size)); err != nil {
					return err
				}

				if err := s.Endline(); err != nil {
					return err
				}
			}

			if err := s.WriteString("."); err != nil {
				return err
			}

			if err := s.Endline(); err != nil {
				return err
			}

			return s.Flush()

		case 1:
			slot, err := c.slotArg(0)
			if err != nil {
				return err
			}

			message, err := s.inbox.lookup(slot)
			if err != nil {
				return rNoSuchMessage
			}

			return s.send(reply{true, fmt.Sprintf("%d %d", message.Slot, message.Size)})

		default:
			return rInvalidSyntax
		}
	}
}

// `RETR` command as specified in RFC#1939
//
//     "RETR" <slot> CRLF
func retr() handler {
	return func(s *session, c *command) error {
		if len(c.args) != 1 {
			return rInvalidSyntax
		}

		slot, err := c.slotArg(0)
		if err != nil {
			return err
		}

		message, err := s.inbox.lookup(slot)
		if err != nil {
			return err
		}

		r, err := s.maildrop.Reader(slot)
		if err != nil {
			log.ErrorContext(s.ctx).
				Err(err).
				Int("slot", slot).
				Msg("could not open message")

			return rError
		}

		defer r.Close()

		if err := s.send(reply{true, fmt.Sprintf("%d octets", message.Size)}); err != nil {
			return err
		}

		w := s.DotWriter()

		if _, err := io.Copy(w, r); err != nil {
			return err
		}

		if err := w.Close(); err != nil {
			return err
		}

		return s.Flush()
	}
}

// `DELE` command as specified in RFC#1939
//
//     "DELE" <slot> CRLF
func dele() handler {
	return func(s *session, c *command) error {
		if len(c.args) != 1 {
			return rInvalidSyntax
		}

		slot, err := c.slotArg(0)
		if err != nil {
			return err
		}

		if _, err := s.inbox.lookup(slot); err != nil {
			return err
		}

		s.inbox.mark(slot)
		return s.send(reply{true, fmt.Sprintf("Message %d deleted", slot)})
	}
}

// `RSET` command as specified in RFC#1939
//
//     "RSET" CRLF
func rset() handler {
	return func(s *session, c *command) error {
		if len(c.args) != 0 {
			return rInvalidSyntax
		}

		s.inbox.reset()

		return s.send(reply{
			true,
			fmt.Sprintf("Maildrop has %d messages (%d octets)", s.inbox.count(), s.inbox.size()),
		})
	}
}

// `NOOP` command as specified in RFC#1939
//
//     "NOOP" CRLF
func noop() handler {
	return func(s *session, c *command) error {
		if len(c.args) != 0 {
			return rInvalidSyntax
		}

		return s.send(rNoop)
	}
}

// `CAPA` command as specified in RFC#2449
//
//     "CAPA" CRLF
func capa(capabilities ...string) handler {
	return func(s *session, _ *command) error {
		if err := s.send(rCapabilities); err != nil {
			return err
		}

		for _, capability := range capabilities {
			if err := s.WriteString(capability); err != nil {
				return err
			}

			if err := s.Endline(); err != nil {
				return err
			}
		}

		if err := s.WriteString("."); err != nil {
			return err
		}

		if err := s.Endline(); err != nil {
			return err
		}

		return s.Flush()
	}
}
