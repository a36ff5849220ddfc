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
	"path/filepath"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/spf13/afero"

	"github.com/lukasdietrich/briefpop/internal/database"
	"github.com/lukasdietrich/briefpop/internal/delivery"
	"github.com/lukasdietrich/briefpop/internal/models"
	"github.com/lukasdietrich/briefpop/internal/storage"
)

type shellCommand struct {
	Conn                 database.Conn
	MailboxDao           database.MailboxDao
	MailboxCredentialDao database.MailboxCredentialDao
	MailDao              database.MailDao
	Blobs                storage.Blobs
	Authenticator        delivery.Authenticator
	Mailman              delivery.Mailman
	Fs                   afero.Fs
}

func (s *shellCommand) run() error {
	defer s.Conn.Close() // nolint:errcheck

	shell := ishell.New()
	s.setupShell(shell)
	shell.Run()

	return nil
}

func (s *shellCommand) setupShell(shell *ishell.Shell) {
	shell.AddCmd(composeShellCmd(
		ishell.Cmd{
			Name: "mailboxes",
			Help: "manage mailboxes",
		},
		[]*ishell.Cmd{
			{
				Name: "list",
				Help: "list all mailboxes",
				Func: s.wrapShellFunc(s.mailboxesList),
			},
			{
				Name: "add",
				Help: "add a new mailbox",
				Func: s.wrapShellFunc(s.mailboxesAdd),
			},
			{
				Name: "remove",
				Help: "remove an empty mailbox",
				Func: s.wrapShellFunc(s.mailboxesRemove),
			},
			{
				Name: "passwd",
				Help: "change the password of a mailbox",
				Func: s.wrapShellFunc(s.mailboxesPasswd),
			},
			{
				Name: "import",
				Help: "create or update mailboxes from a toml file",
				Func: s.wrapShellFunc(s.mailboxesImport),
			},
		},
	))

	shell.AddCmd(composeShellCmd(
		ishell.Cmd{
			Name: "mails",
			Help: "manage mails",
		},
		[]*ishell.Cmd{
			{
				Name: "list",
				Help: "list the mails of a mailbox",
				Func: s.wrapShellFunc(s.mailsList),
			},
			{
				Name: "import",
				Help: "import message files into a mailbox",
				Func: s.wrapShellFunc(s.mailsImport),
			},
		},
	))
}

func (s *shellCommand) mailboxesList(ctx shellContext) error {
	if !ctx.checkArgs(0) {
		return errors.New("Usage: mailboxes list")
	}

	mailboxes, err := s.MailboxDao.FindAll(ctx, s.Conn)
	if err != nil {
		return err
	}

	ctx.printf("\n(%d) Mailboxes:\n", len(mailboxes))
	for i := range mailboxes {
		mails, err := s.MailDao.FindByMailbox(ctx, s.Conn, &mailboxes[i])
		if err != nil {
			return err
		}

		ctx.printf("\t%q (%d mails, %d octets)\n", mailboxes[i].Name, len(mails), totalSize(mails))
	}
	ctx.printf("\n")

	return nil
}

func (s *shellCommand) mailboxesAdd(ctx shellContext) error {
	if !ctx.checkArgs(1) {
		return errors.New("Usage: mailboxes add [NAME]")
	}

	name, err := models.NormalizeName(ctx.arg(0))
	if err != nil {
		return err
	}

	pass, err := ctx.askPassword()
	if err != nil {
		return err
	}

	err = ctx.withTx(s.Conn, func(tx database.Tx) error {
		mailbox := models.MailboxEntity{Name: name}

		if err := s.MailboxDao.Insert(ctx, tx, &mailbox); err != nil {
			if database.IsErrUnique(err) {
				return fmt.Errorf("mailbox %q already exists", name)
			}

			return err
		}

		return setPassword(ctx, tx, s.MailboxCredentialDao, &mailbox, []byte(pass))
	})
	if err != nil {
		return err
	}

	ctx.printf("\n\tMailbox %q added.\n\n", name)
	return nil
}

func (s *shellCommand) mailboxesRemove(ctx shellContext) error {
	if !ctx.checkArgs(1) {
		return errors.New("Usage: mailboxes remove [NAME]")
	}

	mailbox, err := s.Authenticator.Lookup(ctx, ctx.arg(0))
	if err != nil {
		return err
	}

	if err := s.MailboxDao.Delete(ctx, s.Conn, mailbox); err != nil {
		if database.IsErrForeignKey(err) {
			return fmt.Errorf("mailbox %q still contains mails", mailbox.Name)
		}

		return err
	}

	ctx.printf("\n\tMailbox %q removed.\n\n", mailbox.Name)
	return nil
}

func (s *shellCommand) mailboxesPasswd(ctx shellContext) error {
	if !ctx.checkArgs(1) {
		return errors.New("Usage: mailboxes passwd [NAME]")
	}

	mailbox, err := s.Authenticator.Lookup(ctx, ctx.arg(0))
	if err != nil {
		return err
	}

	pass, err := ctx.askPassword()
	if err != nil {
		return err
	}

	if err := setPassword(ctx, s.Conn, s.MailboxCredentialDao, mailbox, []byte(pass)); err != nil {
		return err
	}

	ctx.printf("\n\tPassword of %q changed.\n\n", mailbox.Name)
	return nil
}

func (s *shellCommand) mailboxesImport(ctx shellContext) error {
	if !ctx.checkArgs(1) {
		return errors.New("Usage: mailboxes import [FILE]")
	}

	filename := ctx.arg(0)

	f, err := s.Fs.Open(filename)
	if err != nil {
		return err
	}

	defer f.Close()

	mailboxes, err := parseProvisioning(f)
	if err != nil {
		return err
	}

	result, err := s.provisioner().apply(ctx, mailboxes, filepath.Dir(filename))
	if err != nil {
		return err
	}

	ctx.printf("\n\t%d mailboxes added, %d updated, %d mails imported.\n\n",
		result.Added, result.Updated, result.Delivered)
	return nil
}

func (s *shellCommand) mailsList(ctx shellContext) error {
	if !ctx.checkArgs(1) {
		return errors.New("Usage: mails list [NAME]")
	}

	mailbox, err := s.Authenticator.Lookup(ctx, ctx.arg(0))
	if err != nil {
		return err
	}

	mails, err := s.MailDao.FindByMailbox(ctx, s.Conn, mailbox)
	if err != nil {
		return err
	}

	ctx.printf("\n(%d) Mails in %q:\n", len(mails), mailbox.Name)
	for i := range mails {
		mail := &mails[i]
		receivedAt := time.Unix(mail.ReceivedAt, 0).Format(time.RFC3339)

		ctx.printf("\t%3d  %s  %8d  %s\n", i+1, receivedAt, mail.Size, s.subject(mail))
	}
	ctx.printf("\n")

	return nil
}

func (s *shellCommand) subject(mail *models.MailEntity) string {
	r, err := s.Blobs.Reader(mail.ID)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}

	defer r.Close()

	header, err := delivery.ReadHeader(r)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}

	subject, err := header.Subject()
	if err != nil || subject == "" {
		return "<no subject>"
	}

	return subject
}

func (s *shellCommand) mailsImport(ctx shellContext) error {
	if len(ctx.shell.Args) < 2 {
		return errors.New("Usage: mails import [NAME] [FILE...]")
	}

	p := s.provisioner()
	name := ctx.arg(0)

	for _, filename := range ctx.shell.Args[1:] {
		if err := p.deliverFile(ctx, name, filename); err != nil {
			return fmt.Errorf("could not import %q: %w", filename, err)
		}

		ctx.printf("\tImported %q.\n", filename)
	}

	return nil
}

func (s *shellCommand) provisioner() *provisioner {
	return &provisioner{
		conn:                 s.Conn,
		mailboxDao:           s.MailboxDao,
		mailboxCredentialDao: s.MailboxCredentialDao,
		mailman:              s.Mailman,
		fs:                   s.Fs,
	}
}

func totalSize(mails []models.MailEntity) int64 {
	var size int64
	for _, mail := range mails {
		size += mail.Size
	}

	return size
}

type shellContext struct {
	context.Context
	shell *ishell.Context
}

func (c *shellContext) checkArgs(n int) bool {
	return len(c.shell.Args) == n
}

func (c *shellContext) arg(i int) string {
	return c.shell.Args[i]
}

func (c *shellContext) printf(format string, v ...interface{}) {
	c.shell.Printf(format, v...)
}

func (c *shellContext) askPassword() (string, error) {
	c.printf("Password: ")

	pass, err := c.shell.ReadPasswordErr()
	if err != nil {
		return "", err
	}

	if pass == "" {
		return "", errors.New("the password must not be empty")
	}

	return pass, nil
}

// withTx runs fn in a transaction. fn must not use the connection itself, because the pool only
// holds a single connection.
func (c *shellContext) withTx(conn database.Conn, fn func(database.Tx) error) error {
	tx, err := conn.Begin(c)
	if err != nil {
		return err
	}

	defer tx.Rollback() // nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func composeShellCmd(cmd ishell.Cmd, children []*ishell.Cmd) *ishell.Cmd {
	for _, child := range children {
		cmd.AddCmd(child)
	}

	return &cmd
}

func (s *shellCommand) wrapShellFunc(fn func(shellContext) error) func(*ishell.Context) {
	return func(shell *ishell.Context) {
		ctx := shellContext{
			Context: context.Background(),
			shell:   shell,
		}

		if err := fn(ctx); err != nil {
			shell.Err(err)
		}
	}
}
