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
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func joinLines(lines []string) string {
	// ensure final <CR> <LF>
	lines = append(lines, "")
	return strings.Join(lines, "\r\n")
}

func encodeDots(t *testing.T, decoded string) string {
	buffer := bytes.NewBuffer(nil)
	writer := newWriter(buffer)

	encoder := writer.DotWriter()
	_, err := io.Copy(encoder, strings.NewReader(decoded))
	assert.NoError(t, err)

	assert.NoError(t, encoder.Close())
	assert.NoError(t, writer.Flush())

	return buffer.String()
}

func TestDotWriter(t *testing.T) {
	buffer := bytes.NewBuffer(nil)
	writer := newWriter(buffer)

	assert.Nil(t, writer.WriteString("+OK 42 octets"))
	assert.Nil(t, writer.Endline())

	{
		decoded := []string{
			"normal line",
			".with a dot",
			".",
			"",
			"another",
		}

		encoder := writer.DotWriter()
		io.Copy(encoder, bytes.NewBufferString(joinLines(decoded))) // nolint:errcheck

		assert.Nil(t, encoder.Close())
		assert.Nil(t, writer.Flush())
	}

	expected := []string{
		"+OK 42 octets",
		"normal line",
		"..with a dot",
		"..",
		"",
		"another",
		".",
	}

	assert.EqualValues(t, joinLines(expected), buffer.Bytes())
}

func TestDotWriterLineEndings(t *testing.T) {
	for decoded, expected := range map[string]string{
		"":                  ".\r\n",
		"no ending":         "no ending\r\n.\r\n",
		"bare\nfeed\n":      "bare\r\nfeed\r\n.\r\n",
		"bare\rreturn":      "bare\r\nreturn\r\n.\r\n",
		"trailing\r":        "trailing\r\n.\r\n",
		"a\r.b\n.c":         "a\r\n..b\r\n..c\r\n.\r\n",
		"double\r\r\nempty": "double\r\n\r\nempty\r\n.\r\n",
	} {
		assert.Equal(t, expected, encodeDots(t, decoded), "%q", decoded)
	}
}
