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
	"bytes"
	"errors"
	"strconv"
	"unicode"
)

// command represents a command-line of the form:
//
//     <verb> [<SP> <arg>]* <CR> <LF>
type command struct {
	verb string
	args []string
	// rest is everything after the verb, with surrounding whitespace removed.
	rest string
}

func parseCommand(line []byte) command {
	fields := bytes.Fields(line)
	if len(fields) == 0 {
		return command{}
	}

	c := command{
		verb: string(bytes.ToLower(fields[0])),
	}

	if len(fields) > 1 {
		c.args = make([]string, len(fields)-1)
		for i, field := range fields[1:] {
			c.args[i] = string(field)
		}

		rest := bytes.TrimLeftFunc(line, unicode.IsSpace)[len(fields[0]):]
		c.rest = string(bytes.TrimSpace(rest))
	}

	return c
}

// slotArg parses the argument at index as a message slot. Any decimal number is syntactically
// valid, the range is checked against the inbox. Numbers too large for an int cannot name a
// message at all.
func (c *command) slotArg(index int) (int, error) {
	if len(c.args) <= index {
		return -1, rInvalidSyntax
	}

	arg := c.args[index]
	for _, r := range arg {
		if r < '0' || r > '9' {
			return -1, rInvalidSyntax
		}
	}

	if len(arg) == 0 {
		return -1, rInvalidSyntax
	}

	n, err := strconv.Atoi(arg)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return -1, rNoSuchMessage
		}

		return -1, rInvalidSyntax
	}

	return n, nil
}
