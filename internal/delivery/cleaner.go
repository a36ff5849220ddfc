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
	"os"

	"github.com/lukasdietrich/briefpop/internal/database"
	"github.com/lukasdietrich/briefpop/internal/log"
	"github.com/lukasdietrich/briefpop/internal/metrics"
	"github.com/lukasdietrich/briefpop/internal/models"
	"github.com/lukasdietrich/briefpop/internal/storage"
)

// Cleaner removes mails, that were deleted by a client, together with their blobs.
type Cleaner interface {
	// Purge removes the blobs and rows of the given mails. It continues after a failure and
	// returns the first error encountered.
	Purge(context.Context, []models.MailEntity) error
	// Clean purges every mail marked as deleted.
	Clean(context.Context) error
}

type cleaner struct {
	db      database.Conn
	mailDao database.MailDao
	blobs   storage.Blobs
}

// NewCleaner creates a new Cleaner.
func NewCleaner(db database.Conn, mailDao database.MailDao, blobs storage.Blobs) Cleaner {
	return &cleaner{
		db:      db,
		mailDao: mailDao,
		blobs:   blobs,
	}
}

func (c *cleaner) Clean(ctx context.Context) error {
	mails, err := c.mailDao.FindDeleted(ctx, c.db)
	if err != nil {
		return err
	}

	if len(mails) > 0 {
		log.InfoContext(ctx).
			Int("mails", len(mails)).
			Msg("purging deleted mails")
	}

	return c.Purge(ctx, mails)
}

func (c *cleaner) Purge(ctx context.Context, mails []models.MailEntity) error {
	var firstErr error

	for i := range mails {
		if err := c.purgeMail(ctx, &mails[i]); err != nil {
			log.WarnContext(ctx).
				Str("mail", mails[i].ID).
				Err(err).
				Msg("could not purge mail")

			if firstErr == nil {
				firstErr = err
			}

			continue
		}

		metrics.MessagesPurged.Inc()
	}

	return firstErr
}

// purgeMail removes the blob first, so that a row never points to a missing blob unless it is
// already marked as deleted.
func (c *cleaner) purgeMail(ctx context.Context, mail *models.MailEntity) error {
	if err := c.blobs.Delete(ctx, mail.ID); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	return c.mailDao.Delete(ctx, c.db, mail)
}
