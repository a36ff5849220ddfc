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
	"io/ioutil"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"

	"github.com/lukasdietrich/briefpop/internal/crypto"
	"github.com/lukasdietrich/briefpop/internal/database"
	"github.com/lukasdietrich/briefpop/internal/models"
	"github.com/lukasdietrich/briefpop/internal/storage"
)

type baseDeliveryTestSuite struct {
	suite.Suite

	ctx  context.Context
	conn database.Conn
	fs   afero.Fs

	blobs storage.Blobs
	cache storage.Cache

	mailboxDao           database.MailboxDao
	mailboxCredentialDao database.MailboxCredentialDao
	mailDao              database.MailDao

	authenticator Authenticator
}

func (s *baseDeliveryTestSuite) SetupTest() {
	viper.Set("security.crypto.argon2.time", 1)
	viper.Set("security.crypto.argon2.memory", 1024)
	viper.Set("security.crypto.argon2.threads", 1)

	conn, err := database.OpenInMemory()
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.conn = conn
	s.fs = afero.NewMemMapFs()

	idGen := crypto.NewIDGenerator()

	s.blobs, err = storage.NewBlobs(s.fs, idGen, storage.BlobsOptions{Foldername: "/blobs"})
	s.Require().NoError(err)

	s.cache, err = storage.NewCache(s.fs, idGen, storage.CacheOptions{
		Foldername:  "/cache",
		MemoryLimit: 16,
	})
	s.Require().NoError(err)

	s.mailboxDao = database.NewMailboxDao()
	s.mailboxCredentialDao = database.NewMailboxCredentialDao()
	s.mailDao = database.NewMailDao()

	s.authenticator = NewAuthenticator(s.conn, s.mailboxDao, s.mailboxCredentialDao,
		AuthenticatorOptions{})
}

func (s *baseDeliveryTestSuite) TearDownTest() {
	s.Require().NoError(s.conn.Close())
}

func (s *baseDeliveryTestSuite) requireMailbox(name, pass string) *models.MailboxEntity {
	mailbox := models.MailboxEntity{Name: name}
	s.Require().NoError(s.mailboxDao.Insert(s.ctx, s.conn, &mailbox))

	credentials := models.MailboxCredentialEntity{MailboxID: mailbox.ID, UpdatedAt: 1}
	s.Require().NoError(crypto.Hash(&credentials, []byte(pass)))
	s.Require().NoError(s.mailboxCredentialDao.Upsert(s.ctx, s.conn, &credentials))

	return &mailbox
}

func (s *baseDeliveryTestSuite) requireMail(mailbox *models.MailboxEntity, receivedAt int64, content string) models.MailEntity {
	id, size, err := s.blobs.Write(s.ctx, strings.NewReader(content))
	s.Require().NoError(err)

	mail := models.MailEntity{
		ID:         id,
		MailboxID:  mailbox.ID,
		ReceivedAt: receivedAt,
		Size:       size,
	}
	s.Require().NoError(s.mailDao.Insert(s.ctx, s.conn, &mail))

	return mail
}

func (s *baseDeliveryTestSuite) assertBlobExists(id string, expected bool) {
	exists, err := afero.Exists(s.fs, "/blobs/"+id)
	s.Require().NoError(err)
	s.Assert().Equal(expected, exists, "blob %q", id)
}

func (s *baseDeliveryTestSuite) assertBlobContent(id string, expected string) {
	r, err := s.blobs.Reader(id)
	s.Require().NoError(err)

	defer r.Close()

	actual, err := ioutil.ReadAll(r)
	s.Require().NoError(err)
	s.Assert().Equal(expected, string(actual))
}
