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

	"github.com/lukasdietrich/briefpop/internal/models"
)

type MailDao interface {
	// Insert inserts a new mail.
	Insert(context.Context, Queryer, *models.MailEntity) error
	// Delete removes a mail row entirely. Only mails that are marked as deleted and whose blob is
	// gone should be removed.
	Delete(context.Context, Queryer, *models.MailEntity) error
	// FindByMailbox returns all mails of a mailbox that are not deleted, oldest first.
	FindByMailbox(context.Context, Queryer, *models.MailboxEntity) ([]models.MailEntity, error)
	// FindDeleted returns all mails marked as deleted.
	FindDeleted(context.Context, Queryer) ([]models.MailEntity, error)
	// MarkDeleted sets the deletion time of the given mails. Either all of them are still present
	// in the mailbox and marked, or sql.ErrNoRows is returned.
	MarkDeleted(context.Context, Queryer, *models.MailboxEntity, []models.MailEntity, int64) error
}

type mailDao struct{}

func NewMailDao() MailDao {
	return mailDao{}
}

func (mailDao) Insert(ctx context.Context, q Queryer, mail *models.MailEntity) error {
	const query = `
		insert into "mails" (
			"id" ,
			"mailbox_id" ,
			"received_at" ,
			"deleted_at" ,
			"size"
		) values (
			:id ,
			:mailbox_id ,
			:received_at ,
			:deleted_at ,
			:size
		) ;
	`

	result, err := execNamed(ctx, q, query, mail)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (mailDao) Delete(ctx context.Context, q Queryer, mail *models.MailEntity) error {
	const query = `
		delete from "mails"
		where "id" = :id ;
	`

	result, err := execNamed(ctx, q, query, mail)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (mailDao) FindByMailbox(
	ctx context.Context,
	q Queryer,
	mailbox *models.MailboxEntity,
) ([]models.MailEntity, error) {
	const query = `
		select *
		from "mails"
		where "mailbox_id" = $1
		  and "deleted_at" is null
		order by "received_at" asc ,
		         "rowid" asc ;
	`

	var mailSlice []models.MailEntity

	if err := selectSlice(ctx, q, &mailSlice, query, mailbox.ID); err != nil {
		return nil, err
	}

	return mailSlice, nil
}

func (mailDao) FindDeleted(ctx context.Context, q Queryer) ([]models.MailEntity, error) {
	const query = `
		select *
		from "mails"
		where "deleted_at" is not null
		order by "deleted_at" asc ;
	`

	var mailSlice []models.MailEntity

	if err := selectSlice(ctx, q, &mailSlice, query); err != nil {
		return nil, err
	}

	return mailSlice, nil
}

func (mailDao) MarkDeleted(
	ctx context.Context,
	q Queryer,
	mailbox *models.MailboxEntity,
	mails []models.MailEntity,
	deletedAt int64,
) error {
	if len(mails) == 0 {
		return nil
	}

	const query = `
		update "mails"
		set "deleted_at" = ?
		where "mailbox_id" = ?
		  and "deleted_at" is null
		  and "id" in ( ? ) ;
	`

	ids := make([]string, len(mails))
	for i, mail := range mails {
		ids[i] = mail.ID
	}

	result, err := execIn(ctx, q, query, deletedAt, mailbox.ID, ids)
	if err != nil {
		return err
	}

	return ensureRowsAffectedExactly(result, int64(len(ids)))
}
