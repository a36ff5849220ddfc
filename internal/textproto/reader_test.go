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
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	reader := newReader(strings.NewReader("USER alice\r\nPASS secret \t\r\nnoop\n\r\n"), 64)

	for _, expected := range []string{"USER alice", "PASS secret", "noop", ""} {
		line, err := reader.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, expected, string(line))
	}

	_, err := reader.ReadLine()
	assert.Equal(t, io.EOF, err)
}

func TestReadLineMaximumLength(t *testing.T) {
	const maxLineLength = 32

	{ // line ending within the limit
		raw := strings.Repeat("a", maxLineLength-1) + "\n"
		line, err := newReader(strings.NewReader(raw), maxLineLength).ReadLine()
		require.NoError(t, err)
		assert.Len(t, line, maxLineLength-1)
	}

	{ // limit reached without line ending
		raw := strings.Repeat("a", maxLineLength) + "\n"
		_, err := newReader(strings.NewReader(raw), maxLineLength).ReadLine()
		assert.Equal(t, ErrLineTooLong, err)
		assert.True(t, IsFramingError(err))
	}
}

func TestReadLineNullByte(t *testing.T) {
	_, err := newReader(strings.NewReader("USER al\x00ice\r\n"), 64).ReadLine()
	assert.Equal(t, ErrNullByte, err)
	assert.True(t, IsFramingError(err))
}

func TestReadLineUnterminated(t *testing.T) {
	reader := newReader(strings.NewReader("NOOP\r\nQUI"), 64)

	line, err := reader.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "NOOP", string(line))

	_, err = reader.ReadLine()
	assert.Equal(t, ErrUnterminatedLine, err)
	assert.True(t, IsFramingError(err))
}

func TestIsFramingError(t *testing.T) {
	assert.False(t, IsFramingError(io.EOF))
	assert.False(t, IsFramingError(io.ErrClosedPipe))
}
