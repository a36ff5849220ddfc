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
	"io"
	"time"

	"github.com/lukasdietrich/briefpop/internal/database"
	"github.com/lukasdietrich/briefpop/internal/log"
	"github.com/lukasdietrich/briefpop/internal/models"
	"github.com/lukasdietrich/briefpop/internal/storage"
)

// Inboxer reads the content of mailboxes and commits deletions.
type Inboxer interface {
	// Inbox returns all mails of a mailbox, that are not deleted, ordered by arrival.
	Inbox(context.Context, *models.MailboxEntity) ([]models.MailEntity, error)
	// Reader opens the content of a mail.
	Reader(*models.MailEntity) (io.ReadCloser, error)
	// Commit marks all given mails as deleted in a single transaction. Either all or none of
	// the mails are deleted. Blobs are purged afterwards.
	Commit(context.Context, *models.MailboxEntity, []models.MailEntity) error
}

type inboxer struct {
	db      database.Conn
	mailDao database.MailDao
	blobs   storage.Blobs
	cleaner Cleaner
	now     func() time.Time
}

func NewInboxer(
	db database.Conn,
	mailDao database.MailDao,
	blobs storage.Blobs,
	cleaner Cleaner,
) Inboxer {
	return &inboxer{
		db:      db,
		mailDao: mailDao,
		blobs:   blobs,
		cleaner: cleaner,
		now:     time.Now,
	}
}

func (i *inboxer) Inbox(ctx context.Context, mailbox *models.MailboxEntity) ([]models.MailEntity, error) {
	return i.mailDao.FindByMailbox(ctx, i.db, mailbox)
}

func (i *inboxer) Reader(mail *models.MailEntity) (io.ReadCloser, error) {
	return i.blobs.Reader(mail.ID)
}

func (i *inboxer) Commit(ctx context.Context, mailbox *models.MailboxEntity, mails []models.MailEntity) error {
	if len(mails) == 0 {
		return nil
	}

	if err := i.markDeleted(ctx, mailbox, mails); err != nil {
		return err
	}

	log.InfoContext(ctx).
		Int("mails", len(mails)).
		Msg("deleted mails")

	// Leftovers are picked up by the next cleaner run.
	if err := i.cleaner.Purge(ctx, mails); err != nil {
		log.WarnContext(ctx).
			Err(err).
			Msg("could not purge all deleted mails")
	}

	return nil
}

func (i *inboxer) markDeleted(ctx context.Context, mailbox *models.MailboxEntity, mails []models.MailEntity) error {
	tx, err := i.db.Begin(ctx)
	if err != nil {
		return err
	}

	defer tx.Rollback() // nolint:errcheck

	if err := i.mailDao.MarkDeleted(ctx, tx, mailbox, mails, i.now().Unix()); err != nil {
		return err
	}

	return tx.Commit()
}
