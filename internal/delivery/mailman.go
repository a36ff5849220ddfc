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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"

	"github.com/lukasdietrich/briefpop/internal/database"
	"github.com/lukasdietrich/briefpop/internal/log"
	"github.com/lukasdietrich/briefpop/internal/models"
	"github.com/lukasdietrich/briefpop/internal/storage"
)

// ErrInvalidMessage is returned by Deliver, when the content does not start with a valid
// message header.
var ErrInvalidMessage = errors.New("delivery: invalid message")

// Mailman puts new mails into mailboxes.
type Mailman interface {
	// Deliver stores the content as a new mail in the mailbox with the given name.
	Deliver(ctx context.Context, name string, content io.Reader) (*models.MailEntity, error)
}

type mailman struct {
	db            database.Conn
	mailDao       database.MailDao
	authenticator Authenticator
	cache         storage.Cache
	blobs         storage.Blobs
	now           func() time.Time
}

// NewMailman creates a new mailman for delivery.
func NewMailman(
	db database.Conn,
	mailDao database.MailDao,
	authenticator Authenticator,
	cache storage.Cache,
	blobs storage.Blobs,
) Mailman {
	return &mailman{
		db:            db,
		mailDao:       mailDao,
		authenticator: authenticator,
		cache:         cache,
		blobs:         blobs,
		now:           time.Now,
	}
}

func (m *mailman) Deliver(ctx context.Context, name string, content io.Reader) (*models.MailEntity, error) {
	mailbox, err := m.authenticator.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	entry, err := m.cache.Write(ctx, content)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := entry.Release(ctx); err != nil {
			log.WarnContext(ctx).
				Err(err).
				Msg("could not release cache entry")
		}
	}()

	subject, err := readSubject(entry)
	if err != nil {
		return nil, err
	}

	r, err := entry.Reader()
	if err != nil {
		return nil, err
	}

	id, size, err := m.blobs.Write(ctx, r)
	if err != nil {
		return nil, err
	}

	mail := models.MailEntity{
		ID:         id,
		MailboxID:  mailbox.ID,
		ReceivedAt: m.now().Unix(),
		Size:       size,
	}

	if err := m.mailDao.Insert(ctx, m.db, &mail); err != nil {
		m.rollbackBlob(ctx, id)
		return nil, err
	}

	log.InfoContext(ctx).
		Str("mailbox", mailbox.Name).
		Str("mail", id).
		Int64("size", size).
		Str("subject", subject).
		Msg("delivered mail")

	return &mail, nil
}

// rollbackBlob removes the blob of a failed delivery. Errors are logged but not returned, so
// that the original cause is not shadowed.
func (m *mailman) rollbackBlob(ctx context.Context, id string) {
	log.InfoContext(ctx).
		Str("mail", id).
		Msg("an error occurred during delivery, rolling back")

	if err := m.blobs.Delete(ctx, id); err != nil {
		log.WarnContext(ctx).
			Str("mail", id).
			Err(err).
			Msg("could not delete blob")
	}
}

func readSubject(entry storage.CacheEntry) (string, error) {
	r, err := entry.Reader()
	if err != nil {
		return "", err
	}

	header, err := ReadHeader(r)
	if err != nil {
		return "", err
	}

	subject, _ := header.Subject()
	return subject, nil
}

// ReadHeader parses the header section of a message.
func ReadHeader(r io.Reader) (*mail.Header, error) {
	h, err := textproto.ReadHeader(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	return &mail.Header{Header: message.Header{Header: h}}, nil
}
