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
package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/viper"

	"github.com/lukasdietrich/briefpop/internal/crypto"
	"github.com/lukasdietrich/briefpop/internal/database"
	"github.com/lukasdietrich/briefpop/internal/log"
	"github.com/lukasdietrich/briefpop/internal/models"
)

var (
	// ErrUnknownMailbox is returned by Lookup when no mailbox matches a name.
	ErrUnknownMailbox = errors.New("delivery: unknown mailbox")
	// ErrWrongNamePassword is returned when a mailbox either does not exist or the password does
	// not match the hash.
	ErrWrongNamePassword = errors.New("delivery: wrong name or password combination")
)

func init() {
	viper.SetDefault("security.auth.minDuration", "2s")
}

type AuthenticatorOptions struct {
	MinDuration time.Duration
}

func AuthenticatorOptionsFromViper() AuthenticatorOptions {
	return AuthenticatorOptions{
		MinDuration: viper.GetDuration("security.auth.minDuration"),
	}
}

// Authenticator resolves mailboxes by name and verifies their credentials.
type Authenticator interface {
	// Lookup finds a mailbox by its name. The name is normalized before the lookup.
	Lookup(ctx context.Context, name string) (*models.MailboxEntity, error)
	// Auth finds a mailbox by its name and verifies the password. Every call takes at least the
	// configured minimum duration, regardless of the outcome.
	Auth(ctx context.Context, name string, pass []byte) (*models.MailboxEntity, error)
}

type authenticator struct {
	db                   database.Conn
	mailboxDao           database.MailboxDao
	mailboxCredentialDao database.MailboxCredentialDao
	minDuration          time.Duration
}

func NewAuthenticator(
	db database.Conn,
	mailboxDao database.MailboxDao,
	mailboxCredentialDao database.MailboxCredentialDao,
	opts AuthenticatorOptions,
) Authenticator {
	return &authenticator{
		db:                   db,
		mailboxDao:           mailboxDao,
		mailboxCredentialDao: mailboxCredentialDao,
		minDuration:          opts.MinDuration,
	}
}

func (a *authenticator) Lookup(ctx context.Context, name string) (*models.MailboxEntity, error) {
	normalized, err := models.NormalizeName(name)
	if err != nil {
		return nil, ErrUnknownMailbox
	}

	mailbox, err := a.mailboxDao.FindByName(ctx, a.db, normalized)
	if err != nil {
		if database.IsErrNoRows(err) {
			return nil, ErrUnknownMailbox
		}

		return nil, err
	}

	return mailbox, nil
}

func (a *authenticator) Auth(ctx context.Context, name string, pass []byte) (*models.MailboxEntity, error) {
	startTime := time.Now()
	defer a.ensureMinDuration(startTime)

	mailbox, err := a.Lookup(ctx, name)
	if err != nil {
		if errors.Is(err, ErrUnknownMailbox) {
			log.WarnContext(ctx).
				Str("name", name).
				Msg("failed auth attempt: unknown or invalid mailbox")

			return nil, ErrWrongNamePassword
		}

		return nil, err
	}

	credentials, err := a.mailboxCredentialDao.FindByMailbox(ctx, a.db, mailbox)
	if err != nil {
		if database.IsErrNoRows(err) {
			log.WarnContext(ctx).
				Str("name", name).
				Msg("failed auth attempt: mailbox has no password")

			return nil, ErrWrongNamePassword
		}

		return nil, err
	}

	if err := crypto.Verify(credentials, pass); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			log.WarnContext(ctx).
				Str("name", name).
				Msg("failed auth attempt: wrong password")

			return nil, ErrWrongNamePassword
		}

		return nil, err
	}

	return mailbox, nil
}

func (a *authenticator) ensureMinDuration(start time.Time) {
	elapsed := time.Since(start)
	remaining := a.minDuration - elapsed

	if remaining > 0 {
		time.Sleep(remaining)
	}
}
