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
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"github.com/lukasdietrich/briefpop/internal/crypto"
	"github.com/lukasdietrich/briefpop/internal/database"
	"github.com/lukasdietrich/briefpop/internal/delivery"
	"github.com/lukasdietrich/briefpop/internal/log"
	"github.com/lukasdietrich/briefpop/internal/models"
)

var (
	errMissingPassword = errors.New("provisioning: missing password")
	errDuplicateName   = errors.New("provisioning: duplicate mailbox name")
)

// provisioningFile is the toml document accepted by "mailboxes import":
//
//     [[mailbox]]
//     name     = "alice@example.com"
//     password = "hunter2"
//     mails    = [ "welcome.eml" ]
type provisioningFile struct {
	Mailboxes []provisionedMailbox `toml:"mailbox"`
}

type provisionedMailbox struct {
	Name     string   `toml:"name"`
	Password string   `toml:"password"`
	Mails    []string `toml:"mails"`
}

// parseProvisioning decodes and validates a provisioning file. Names are normalized.
func parseProvisioning(r io.Reader) ([]provisionedMailbox, error) {
	var file provisioningFile

	if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("provisioning: %w", err)
	}

	seen := make(map[string]bool)

	for i := range file.Mailboxes {
		mailbox := &file.Mailboxes[i]

		name, err := models.NormalizeName(mailbox.Name)
		if err != nil {
			return nil, fmt.Errorf("mailbox %q: %w", mailbox.Name, err)
		}

		if seen[name] {
			return nil, fmt.Errorf("mailbox %q: %w", name, errDuplicateName)
		}

		if mailbox.Password == "" {
			return nil, fmt.Errorf("mailbox %q: %w", name, errMissingPassword)
		}

		seen[name] = true
		mailbox.Name = name
	}

	return file.Mailboxes, nil
}

type provisioningResult struct {
	Added     int
	Updated   int
	Delivered int
}

type provisioner struct {
	conn                 database.Conn
	mailboxDao           database.MailboxDao
	mailboxCredentialDao database.MailboxCredentialDao
	mailman              delivery.Mailman
	fs                   afero.Fs
}

// apply creates missing mailboxes and sets the passwords of all mailboxes in a single
// transaction. Mails are delivered afterwards, with paths relative to dir.
func (p *provisioner) apply(
	ctx context.Context,
	mailboxes []provisionedMailbox,
	dir string,
) (*provisioningResult, error) {
	var result provisioningResult

	if err := p.applyMailboxes(ctx, mailboxes, &result); err != nil {
		return nil, err
	}

	for _, mailbox := range mailboxes {
		for _, filename := range mailbox.Mails {
			if !filepath.IsAbs(filename) {
				filename = filepath.Join(dir, filename)
			}

			if err := p.deliverFile(ctx, mailbox.Name, filename); err != nil {
				return &result, fmt.Errorf("could not import %q into %q: %w", filename, mailbox.Name, err)
			}

			result.Delivered++
		}
	}

	return &result, nil
}

func (p *provisioner) applyMailboxes(
	ctx context.Context,
	mailboxes []provisionedMailbox,
	result *provisioningResult,
) error {
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return err
	}

	defer tx.Rollback() // nolint:errcheck

	for _, provisioned := range mailboxes {
		mailbox, err := p.mailboxDao.FindByName(ctx, tx, provisioned.Name)

		switch {
		case err == nil:
			result.Updated++

		case database.IsErrNoRows(err):
			mailbox = &models.MailboxEntity{Name: provisioned.Name}
			if err := p.mailboxDao.Insert(ctx, tx, mailbox); err != nil {
				return err
			}

			result.Added++

		default:
			return err
		}

		if err := setPassword(ctx, tx, p.mailboxCredentialDao, mailbox, []byte(provisioned.Password)); err != nil {
			return err
		}

		log.InfoContext(ctx).
			Str("mailbox", mailbox.Name).
			Msg("mailbox provisioned")
	}

	return tx.Commit()
}

func (p *provisioner) deliverFile(ctx context.Context, name, filename string) error {
	f, err := p.fs.Open(filename)
	if err != nil {
		return err
	}

	defer f.Close()

	_, err = p.mailman.Deliver(ctx, name, f)
	return err
}

func setPassword(
	ctx context.Context,
	q database.Queryer,
	dao database.MailboxCredentialDao,
	mailbox *models.MailboxEntity,
	password []byte,
) error {
	credentials := models.MailboxCredentialEntity{
		MailboxID: mailbox.ID,
		UpdatedAt: time.Now().Unix(),
	}

	if err := crypto.Hash(&credentials, password); err != nil {
		return err
	}

	return dao.Upsert(ctx, q, &credentials)
}
