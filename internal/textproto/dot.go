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
)

const (
	sStart int = iota
	sCr
	sText
)

// dotWriter stuffs a leading dot on every line with another dot and completes bare <LF> and
// <CR> line endings to <CR> <LF>.
type dotWriter struct {
	w     *bufio.Writer
	state int
}

func (d *dotWriter) Write(b []byte) (int, error) {
	var (
		i int
		w = d.w
	)

	for i < len(b) {
		r := b[i]

		// nolint:errcheck
		switch d.state {
		case sStart:
			d.state = sText
			if r == '.' {
				w.WriteByte('.')
			}

			fallthrough
		case sText:
			switch r {
			case '\r':
				d.state = sCr
			case '\n':
				w.WriteByte('\r')
				d.state = sStart
			}
		case sCr:
			if r == '\n' {
				d.state = sStart
				break
			}

			// a bare <CR> ends the line as well
			w.WriteByte('\n')

			if r == '.' {
				w.WriteByte('.')
			}

			d.state = sText
			if r == '\r' {
				d.state = sCr
			}
		}

		if err := w.WriteByte(r); err != nil {
			return i, err
		}

		i++
	}

	return i, nil
}

func (d *dotWriter) Close() error {
	// nolint:errcheck
	switch d.state {
	case sText:
		d.w.WriteString("\r\n")
	case sCr:
		d.w.WriteByte('\n')
	}

	_, err := d.w.WriteString(".\r\n")
	return err
}
