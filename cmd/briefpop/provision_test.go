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
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lukasdietrich/briefpop/internal/crypto"
	"github.com/lukasdietrich/briefpop/internal/database"
	"github.com/lukasdietrich/briefpop/internal/delivery"
	"github.com/lukasdietrich/briefpop/internal/models"
	"github.com/lukasdietrich/briefpop/internal/storage"
)

func TestParseProvisioning(t *testing.T) {
	mailboxes, err := parseProvisioning(strings.NewReader(`
		[[mailbox]]
		name     = "Alice@Example.COM"
		password = "hunter2"
		mails    = [ "welcome.eml" ]

		[[mailbox]]
		name     = "bob"
		password = "correct horse"
	`))

	require.NoError(t, err)
	assert.Equal(t, []provisionedMailbox{
		{Name: "alice@example.com", Password: "hunter2", Mails: []string{"welcome.eml"}},
		{Name: "bob", Password: "correct horse"},
	}, mailboxes)
}

func TestParseProvisioningInvalid(t *testing.T) {
	for _, content := range []string{
		`[[mailbox]]
		name = "bob"`,

		`[[mailbox]]
		name     = "b o b"
		password = "x"`,

		`[[mailbox]]
		name     = "bob"
		password = "x"
		[[mailbox]]
		name     = "BOB"
		password = "y"`,

		`[[mailbox]`,
	} {
		_, err := parseProvisioning(strings.NewReader(content))
		assert.Error(t, err, content)
	}
}

func TestParseProvisioningErrors(t *testing.T) {
	_, err := parseProvisioning(strings.NewReader("[[mailbox]]\nname = \"bob\"\n"))
	assert.ErrorIs(t, err, errMissingPassword)

	_, err = parseProvisioning(strings.NewReader(
		"[[mailbox]]\nname = \"bob\"\npassword = \"x\"\n[[mailbox]]\nname = \"Bob\"\npassword = \"y\"\n"))
	assert.ErrorIs(t, err, errDuplicateName)
}

func TestProvisionerTestSuite(t *testing.T) {
	suite.Run(t, new(ProvisionerTestSuite))
}

type ProvisionerTestSuite struct {
	suite.Suite

	ctx  context.Context
	conn database.Conn
	fs   afero.Fs

	mailboxDao           database.MailboxDao
	mailboxCredentialDao database.MailboxCredentialDao
	mailDao              database.MailDao
	authenticator        delivery.Authenticator

	provisioner *provisioner
}

func (s *ProvisionerTestSuite) SetupTest() {
	viper.Set("security.crypto.argon2.time", 1)
	viper.Set("security.crypto.argon2.memory", 1024)
	viper.Set("security.crypto.argon2.threads", 1)

	conn, err := database.OpenInMemory()
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.conn = conn
	s.fs = afero.NewMemMapFs()

	idGen := crypto.NewIDGenerator()

	blobs, err := storage.NewBlobs(s.fs, idGen, storage.BlobsOptions{Foldername: "/data/blobs"})
	s.Require().NoError(err)

	cache, err := storage.NewCache(s.fs, idGen, storage.CacheOptions{
		Foldername:  "/data/cache",
		MemoryLimit: 1024,
	})
	s.Require().NoError(err)

	s.mailboxDao = database.NewMailboxDao()
	s.mailboxCredentialDao = database.NewMailboxCredentialDao()
	s.mailDao = database.NewMailDao()
	s.authenticator = delivery.NewAuthenticator(s.conn, s.mailboxDao, s.mailboxCredentialDao,
		delivery.AuthenticatorOptions{})

	s.provisioner = &provisioner{
		conn:                 s.conn,
		mailboxDao:           s.mailboxDao,
		mailboxCredentialDao: s.mailboxCredentialDao,
		mailman:              delivery.NewMailman(s.conn, s.mailDao, s.authenticator, cache, blobs),
		fs:                   s.fs,
	}
}

func (s *ProvisionerTestSuite) TearDownTest() {
	s.Require().NoError(s.conn.Close())
}

func (s *ProvisionerTestSuite) TestApply() {
	s.Require().NoError(afero.WriteFile(s.fs, "/import/welcome.eml",
		[]byte("Subject: Welcome\r\n\r\nHello!\r\n"), 0600))

	existing := models.MailboxEntity{Name: "bob"}
	s.Require().NoError(s.mailboxDao.Insert(s.ctx, s.conn, &existing))

	result, err := s.provisioner.apply(s.ctx, []provisionedMailbox{
		{Name: "alice", Password: "hunter2", Mails: []string{"welcome.eml"}},
		{Name: "bob", Password: "correct horse"},
	}, "/import")

	s.Require().NoError(err)
	s.Assert().Equal(&provisioningResult{Added: 1, Updated: 1, Delivered: 1}, result)

	alice, err := s.authenticator.Auth(s.ctx, "alice", []byte("hunter2"))
	s.Require().NoError(err)

	bob, err := s.authenticator.Auth(s.ctx, "bob", []byte("correct horse"))
	s.Require().NoError(err)
	s.Assert().Equal(existing.ID, bob.ID)

	mails, err := s.mailDao.FindByMailbox(s.ctx, s.conn, alice)
	s.Require().NoError(err)
	s.Require().Len(mails, 1)
	s.Assert().Equal(int64(len("Subject: Welcome\r\n\r\nHello!\r\n")), mails[0].Size)
}

func (s *ProvisionerTestSuite) TestApplyMissingMailFile() {
	result, err := s.provisioner.apply(s.ctx, []provisionedMailbox{
		{Name: "alice", Password: "hunter2", Mails: []string{"missing.eml"}},
	}, "/import")

	s.Assert().Error(err)
	s.Require().NotNil(result)
	s.Assert().Equal(1, result.Added)
	s.Assert().Equal(0, result.Delivered)
}
