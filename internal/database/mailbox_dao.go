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

type MailboxDao interface {
	// Insert inserts a new mailbox.
	Insert(context.Context, Queryer, *models.MailboxEntity) error
	// Delete deletes an existing mailbox.
	Delete(context.Context, Queryer, *models.MailboxEntity) error
	// FindAll returns all mailboxes ordered by name.
	FindAll(context.Context, Queryer) ([]models.MailboxEntity, error)
	// FindByName returns the mailbox with the given (normalized) name.
	FindByName(context.Context, Queryer, string) (*models.MailboxEntity, error)
}

type mailboxDao struct{}

func NewMailboxDao() MailboxDao {
	return mailboxDao{}
}

func (mailboxDao) Insert(ctx context.Context, q Queryer, mailbox *models.MailboxEntity) error {
	const query = `
		insert into "mailboxes" (
			"name"
		) values (
			:name
		) ;
	`

	result, err := execNamed(ctx, q, query, mailbox)
	if err != nil {
		return err
	}

	if err := ensureRowsAffected(result); err != nil {
		return err
	}

	mailbox.ID, err = result.LastInsertId()
	return err
}

func (mailboxDao) Delete(ctx context.Context, q Queryer, mailbox *models.MailboxEntity) error {
	const query = `
		delete from "mailboxes"
		where "id" = :id ;
	`

	result, err := execNamed(ctx, q, query, mailbox)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (mailboxDao) FindAll(ctx context.Context, q Queryer) ([]models.MailboxEntity, error) {
	const query = `
		select *
		from "mailboxes"
		order by "name" asc ;
	`

	var mailboxSlice []models.MailboxEntity

	if err := selectSlice(ctx, q, &mailboxSlice, query); err != nil {
		return nil, err
	}

	return mailboxSlice, nil
}

func (mailboxDao) FindByName(ctx context.Context, q Queryer, name string) (*models.MailboxEntity, error) {
	const query = `
		select *
		from "mailboxes"
		where "name" = $1
		limit 1 ;
	`

	var mailbox models.MailboxEntity

	if err := selectOne(ctx, q, &mailbox, query, name); err != nil {
		return nil, err
	}

	return &mailbox, nil
}
