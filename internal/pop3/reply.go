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
	"github.com/lukasdietrich/briefpop/internal/textproto"
)

// reply is a single line status response. Negative replies may be returned as errors by
// handlers, in which case they are sent and the session continues.
type reply struct {
	ok   bool
	text string
}

func (r reply) Error() string {
	return r.text
}

func (r reply) writeTo(w textproto.Writer) error {
	prefix := "-ERR "
	if r.ok {
		prefix = "+OK "
	}

	if err := w.WriteString(prefix + r.text); err != nil {
		return err
	}

	if err := w.Endline(); err != nil {
		return err
	}

	return w.Flush()
}

var (
	rBye            = reply{true, "Service closing transmission channel"}
	rCapabilities   = reply{true, "Capability list follows"}
	rError          = reply{false, "Requested action aborted: local error in processing"}
	rInvalidSyntax  = reply{false, "Syntax error in parameters or arguments"}
	rBadSequence    = reply{false, "Bad sequence of commands"}
	rUnrecognized   = reply{false, "Syntax error, command unrecognized"}
	rBlankCommand   = reply{false, "Syntax error, blank command unrecognized"}
	rNoSuchMailbox  = reply{false, "No such mailbox"}
	rAuthFailed     = reply{false, "Invalid user name or password"}
	rMailboxLocked  = reply{false, "Maildrop is locked by another session"}
	rNoSuchMessage  = reply{false, "No such message"}
	rAlreadyDeleted = reply{false, "Message already deleted"}
	rNoop           = reply{true, "Ok"}
)
