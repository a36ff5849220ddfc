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
	"bytes"
	"errors"
	"io"
)

var (
	// ErrLineTooLong is returned when no line ending is found within the maximum line length.
	ErrLineTooLong = errors.New("textproto: line too long")
	// ErrNullByte is returned for lines containing a null byte.
	ErrNullByte = errors.New("textproto: line contains null byte")
	// ErrUnterminatedLine is returned when the stream ends in the middle of a line.
	ErrUnterminatedLine = errors.New("textproto: unterminated line")
)

// IsFramingError reports whether err was caused by malformed input rather than by the
// underlying connection. The stream cannot be resynchronized after a framing error.
func IsFramingError(err error) bool {
	return errors.Is(err, ErrLineTooLong) ||
		errors.Is(err, ErrNullByte) ||
		errors.Is(err, ErrUnterminatedLine)
}

type Reader interface {
	// ReadLine reads the next line. The line ending and any trailing whitespace are removed. The
	// returned slice is only valid until the next call.
	ReadLine() ([]byte, error)
}

type reader struct {
	buffer *bufio.Reader
}

// newReader creates a reader accepting lines of at most maxLineLength bytes, including the line
// ending.
func newReader(r io.Reader, maxLineLength int) *reader {
	return &reader{
		buffer: bufio.NewReaderSize(r, maxLineLength),
	}
}

func (r *reader) ReadLine() ([]byte, error) {
	line, err := r.buffer.ReadSlice('\n')
	if err != nil {
		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			return nil, ErrLineTooLong
		case errors.Is(err, io.EOF) && len(line) > 0:
			return nil, ErrUnterminatedLine
		default:
			return nil, err
		}
	}

	if bytes.IndexByte(line, 0) >= 0 {
		return nil, ErrNullByte
	}

	return bytes.TrimRight(line, " \t\r\n\v\f"), nil
}
