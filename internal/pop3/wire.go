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
	"os"

	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/lukasdietrich/briefpop/internal/textproto"
)

// WireSet provides the pop3 protocol and the options of its connections.
var WireSet = wire.NewSet(
	OptionsFromViper,
	ConnOptionsFromViper,
	New,
)

func init() {
	viper.SetDefault("general.hostname", defaultHostname())
	viper.SetDefault("pop3.address", ":110")
	viper.SetDefault("pop3.maxLineLength", textproto.DefaultMaxLineLength)
	viper.SetDefault("pop3.idleTimeout", "5m")
}

func defaultHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "localhost"
	}

	return hostname
}

type Options struct {
	// Hostname is announced in the greeting.
	Hostname string
}

func OptionsFromViper() Options {
	return Options{
		Hostname: viper.GetString("general.hostname"),
	}
}

// ConnOptionsFromViper returns the limits of pop3 connections.
func ConnOptionsFromViper() textproto.ConnOptions {
	return textproto.ConnOptions{
		MaxLineLength: viper.GetInt("pop3.maxLineLength"),
		IdleTimeout:   viper.GetDuration("pop3.idleTimeout"),
	}
}
