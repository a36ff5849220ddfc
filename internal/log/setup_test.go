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

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevel(t *testing.T) {
	var buffer bytes.Buffer

	require.NoError(t, setupWriter(&buffer, "warn", false))

	Info().Msg("dropped")
	assert.Zero(t, buffer.Len())

	Warn().Msg("kept")
	assert.Contains(t, buffer.String(), "\"message\":\"kept\"")
}

func TestSetupPretty(t *testing.T) {
	var buffer bytes.Buffer

	require.NoError(t, setupWriter(&buffer, "info", true))

	Info().Str("mailbox", "alice").Msg("pretty")
	assert.NotContains(t, buffer.String(), "{")
	assert.Contains(t, buffer.String(), "pretty")
}

func TestSetupUnknownLevel(t *testing.T) {
	assert.Error(t, setupWriter(new(bytes.Buffer), "loud", false))
}
