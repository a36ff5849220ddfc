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

package database

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukasdietrich/briefpop/internal/models"
)

func TestConnOptionsFromViper(t *testing.T) {
	viper.Set("storage.database.filename", "somewhere/file.db")
	viper.Set("storage.database.journalmode", "off")

	expected := ConnOptions{
		Filename:    "somewhere/file.db",
		JournalMode: "off",
	}
	actual := ConnOptionsFromViper()
	assert.Equal(t, expected, actual)
}

func TestCreateDataSourceName(t *testing.T) {
	dsn := createDataSourceName(ConnOptions{
		Filename:    "somewhere/file.db",
		JournalMode: "off",
	})
	assert.Equal(t, "file:somewhere/file.db?_foreign_keys=true&_journal_mode=off", dsn)
}

func TestOpenConnection(t *testing.T) {
	conn, err := OpenInMemory()
	require.NoError(t, err)
	require.NotNil(t, conn)

	rows, err := conn.QueryContext(context.Background(), `select count(*) from "mails" ;`)
	require.NoError(t, err)
	require.NotNil(t, rows)

	assert.NoError(t, rows.Close())
	assert.NoError(t, conn.Close())
}

func TestBeginCommit(t *testing.T) {
	conn, err := OpenInMemory()
	require.NoError(t, err)
	require.NotNil(t, conn)

	defer conn.Close()

	var (
		ctx        = context.Background()
		mailboxDao = NewMailboxDao()
	)

	tx, err := conn.Begin(ctx)
	require.NoError(t, err)
	require.NotNil(t, tx)

	require.NoError(t, mailboxDao.Insert(ctx, tx, &models.MailboxEntity{Name: "alice"}))
	mailboxes, err := mailboxDao.FindAll(ctx, tx)
	require.NoError(t, err)
	require.Len(t, mailboxes, 1)

	require.NoError(t, tx.Commit())

	mailboxes, err = mailboxDao.FindAll(ctx, conn)
	require.NoError(t, err)
	require.Len(t, mailboxes, 1)
}

func TestBeginRollback(t *testing.T) {
	conn, err := OpenInMemory()
	require.NoError(t, err)
	require.NotNil(t, conn)

	defer conn.Close()

	var (
		ctx        = context.Background()
		mailboxDao = NewMailboxDao()
	)

	tx, err := conn.Begin(ctx)
	require.NoError(t, err)
	require.NotNil(t, tx)

	require.NoError(t, mailboxDao.Insert(ctx, tx, &models.MailboxEntity{Name: "alice"}))
	require.NoError(t, tx.Rollback())

	mailboxes, err := mailboxDao.FindAll(ctx, conn)
	require.NoError(t, err)
	require.Len(t, mailboxes, 0)
}

func TestBeginRollbackWith(t *testing.T) {
	conn, err := OpenInMemory()
	require.NoError(t, err)
	require.NotNil(t, conn)

	defer conn.Close()

	var (
		ctx             = context.Background()
		mailboxDao      = NewMailboxDao()
		callbackInvoked = 0
	)

	tx, err := conn.Begin(ctx)
	require.NoError(t, err)
	require.NotNil(t, tx)

	require.NoError(t, mailboxDao.Insert(ctx, tx, &models.MailboxEntity{Name: "alice"}))
	require.NoError(t, tx.RollbackWith(func() {
		callbackInvoked++
	}))

	// a second rollback is a no-op and must not invoke the callback again
	assert.Error(t, tx.RollbackWith(func() {
		callbackInvoked++
	}))

	mailboxes, err := mailboxDao.FindAll(ctx, conn)
	require.NoError(t, err)
	require.Len(t, mailboxes, 0)

	assert.Equal(t, 1, callbackInvoked)
}
