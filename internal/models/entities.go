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

package models

import (
	"database/sql"
)

type MailboxEntity struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type MailboxCredentialEntity struct {
	MailboxID int64  `db:"mailbox_id"`
	UpdatedAt int64  `db:"updated_at"`
	Hash      string `db:"hash"`
}

// MailEntity is a message stored in exactly one mailbox. A mail with DeletedAt set has been
// removed by a client and only waits for its blob to be purged.
type MailEntity struct {
	ID         string        `db:"id"`
	MailboxID  int64         `db:"mailbox_id"`
	ReceivedAt int64         `db:"received_at"`
	DeletedAt  sql.NullInt64 `db:"deleted_at"`
	Size       int64         `db:"size"`
}
