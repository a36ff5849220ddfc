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

package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"io"
	"time"

	"github.com/google/wire"
)

// WireSet provides the default IDGenerator.
var WireSet = wire.NewSet(NewIDGenerator)

type IDGenerator interface {
	// GenerateID generates a new id. Ids generated later sort after ids generated earlier, as long
	// as the clock does not go backwards.
	GenerateID() (string, error)
}

func NewIDGenerator() IDGenerator {
	return &randomIDGenerator{
		random: rand.Reader,
		now:    time.Now,
	}
}

type randomIDGenerator struct {
	random io.Reader
	now    func() time.Time
}

func (r randomIDGenerator) GenerateID() (string, error) {
	const (
		timeLength   = 8
		randomLength = 8
	)

	b := make([]byte, timeLength+randomLength)
	binary.BigEndian.PutUint64(b[:timeLength], uint64(r.now().UnixNano()))

	if _, err := io.ReadFull(r.random, b[timeLength:]); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
