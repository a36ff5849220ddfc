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
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spf13/viper"
)

func init() {
	viper.SetDefault("metrics.address", "")
}

// Connection metrics
var (
	ConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "briefpop_connections_total",
			Help: "Total number of connections accepted",
		},
	)

	ConnectionsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "briefpop_connections_current",
			Help: "Current number of open connections",
		},
	)

	SessionsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "briefpop_sessions_current",
			Help: "Current number of sessions holding a maildrop",
		},
	)
)

// Protocol metrics
var (
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "briefpop_commands_total",
			Help: "Total number of commands by verb and outcome",
		},
		[]string{"verb", "outcome"},
	)

	AuthenticationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "briefpop_authentication_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)
)

// Maildrop metrics
var (
	MessagesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "briefpop_messages_deleted_total",
			Help: "Total number of messages deleted on QUIT",
		},
	)

	CommitFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "briefpop_commit_failures_total",
			Help: "Total number of deletions that could not be committed on QUIT",
		},
	)

	MessagesPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "briefpop_messages_purged_total",
			Help: "Total number of deleted messages removed by the cleaner",
		},
	)
)

// Command outcomes
const (
	OutcomeOk           = "ok"
	OutcomeFailed       = "failed"
	OutcomeBadSequence  = "bad_sequence"
	OutcomeUnrecognized = "unrecognized"
)

// Authentication results
const (
	AuthSuccess = "success"
	AuthFailure = "failure"
	AuthLocked  = "locked"
)

type Options struct {
	Address string
}

func OptionsFromViper() Options {
	return Options{
		Address: viper.GetString("metrics.address"),
	}
}
