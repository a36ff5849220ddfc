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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	for line, expected := range map[string]command{
		"QUIT":               {verb: "quit"},
		"stat":               {verb: "stat"},
		"  List   2  ":       {verb: "list", args: []string{"2"}, rest: "2"},
		"USER alice":         {verb: "user", args: []string{"alice"}, rest: "alice"},
		"PASS correct horse": {verb: "pass", args: []string{"correct", "horse"}, rest: "correct horse"},
		"PASS S":             {verb: "pass", args: []string{"S"}, rest: "S"},
		"pass\ta  b":         {verb: "pass", args: []string{"a", "b"}, rest: "a  b"},
		"":                   {},
		" \t ":               {},
	} {
		assert.Equal(t, expected, parseCommand([]byte(line)), line)
	}
}

func TestSlotArg(t *testing.T) {
	for arg, expected := range map[string]int{
		"1":    1,
		"0":    0,
		"42":   42,
		"0007": 7,
	} {
		c := command{verb: "retr", args: []string{arg}}
		slot, err := c.slotArg(0)

		assert.NoError(t, err, arg)
		assert.Equal(t, expected, slot, arg)
	}
}

func TestSlotArgInvalid(t *testing.T) {
	for _, arg := range []string{"-1", "+1", "one", "1.5", "0x10"} {
		c := command{verb: "retr", args: []string{arg}}
		_, err := c.slotArg(0)

		assert.Equal(t, rInvalidSyntax, err, arg)
	}

	c := command{verb: "retr"}
	_, err := c.slotArg(0)
	assert.Equal(t, rInvalidSyntax, err)
}

func TestSlotArgOverflow(t *testing.T) {
	c := command{verb: "retr", args: []string{"99999999999999999999999"}}
	_, err := c.slotArg(0)

	assert.Equal(t, rNoSuchMessage, err)
}
