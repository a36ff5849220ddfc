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
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestAuthenticatorOptionsFromViper(t *testing.T) {
	viper.Set("security.auth.minDuration", "3s")
	defer viper.Set("security.auth.minDuration", "0")

	assert.Equal(t,
		AuthenticatorOptions{MinDuration: 3 * time.Second},
		AuthenticatorOptionsFromViper())
}

func TestAuthenticatorTestSuite(t *testing.T) {
	suite.Run(t, new(AuthenticatorTestSuite))
}

type AuthenticatorTestSuite struct {
	baseDeliveryTestSuite
}

func (s *AuthenticatorTestSuite) TestLookup() {
	expected := s.requireMailbox("someone@example.com", "hunter2")

	actual, err := s.authenticator.Lookup(s.ctx, "SomeOne@Example.COM")
	s.Require().NoError(err)
	s.Assert().Equal(expected, actual)
}

func (s *AuthenticatorTestSuite) TestLookupUnknown() {
	s.requireMailbox("someone@example.com", "hunter2")

	for _, name := range []string{"nobody@example.com", "someone", "", "some one@example.com"} {
		actual, err := s.authenticator.Lookup(s.ctx, name)
		s.Assert().ErrorIs(err, ErrUnknownMailbox, name)
		s.Assert().Nil(actual)
	}
}

func (s *AuthenticatorTestSuite) TestAuthSuccessful() {
	expected := s.requireMailbox("someone@example.com", "hunter2")

	actual, err := s.authenticator.Auth(s.ctx, "someone@example.com", []byte("hunter2"))
	s.Require().NoError(err)
	s.Assert().Equal(expected, actual)
}

func (s *AuthenticatorTestSuite) TestAuthWrongPassword() {
	s.requireMailbox("someone@example.com", "hunter2")

	actual, err := s.authenticator.Auth(s.ctx, "someone@example.com", []byte("hunter3"))
	s.Assert().ErrorIs(err, ErrWrongNamePassword)
	s.Assert().Nil(actual)
}

func (s *AuthenticatorTestSuite) TestAuthUnknownMailbox() {
	actual, err := s.authenticator.Auth(s.ctx, "nobody@example.com", []byte("hunter2"))
	s.Assert().ErrorIs(err, ErrWrongNamePassword)
	s.Assert().Nil(actual)
}

func (s *AuthenticatorTestSuite) TestAuthWithoutCredentials() {
	s.requireExec(`insert into "mailboxes" ( "name" ) values ( 'someone@example.com' ) ;`)

	actual, err := s.authenticator.Auth(s.ctx, "someone@example.com", []byte(""))
	s.Assert().ErrorIs(err, ErrWrongNamePassword)
	s.Assert().Nil(actual)
}

func (s *AuthenticatorTestSuite) TestAuthMinDuration() {
	s.authenticator = NewAuthenticator(s.conn, s.mailboxDao, s.mailboxCredentialDao,
		AuthenticatorOptions{MinDuration: 100 * time.Millisecond})

	start := time.Now()
	_, err := s.authenticator.Auth(s.ctx, "nobody@example.com", []byte("hunter2"))
	s.Assert().ErrorIs(err, ErrWrongNamePassword)
	s.Assert().GreaterOrEqual(int64(time.Since(start)), int64(100*time.Millisecond))
}

func (s *AuthenticatorTestSuite) requireExec(query string) {
	_, err := s.conn.ExecContext(s.ctx, query)
	s.Require().NoError(err)
}
