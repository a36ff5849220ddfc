//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/lukasdietrich/briefpop/internal/crypto"
	"github.com/lukasdietrich/briefpop/internal/database"
	"github.com/lukasdietrich/briefpop/internal/delivery"
	"github.com/lukasdietrich/briefpop/internal/metrics"
	"github.com/lukasdietrich/briefpop/internal/pop3"
	"github.com/lukasdietrich/briefpop/internal/storage"
	"github.com/lukasdietrich/briefpop/internal/textproto"
)

var wireSet = wire.NewSet(
	wire.Struct(new(startCommand), "*"),
	wire.Struct(new(shellCommand), "*"),
	startOptionsFromViper,
	metrics.OptionsFromViper,

	textproto.NewServer,
	wire.Bind(new(textproto.Protocol), new(*pop3.Proto)),

	crypto.WireSet,
	database.WireSet,
	storage.WireSet,
	delivery.WireSet,
	pop3.WireSet,
)

func newStartCommand() (*startCommand, error) {
	panic(wire.Build(wireSet))
}

func newShellCommand() (*shellCommand, error) {
	panic(wire.Build(wireSet))
}
