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
	"errors"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidName is used for mailbox names of zero length or names containing whitespace or
	// control characters.
	ErrInvalidName = errors.New("name: invalid format")

	// ErrNameTooLong is used for mailbox names exceeding the length of a mail path according to
	// RFC#5321.
	ErrNameTooLong = errors.New("name: too long")
)

const maxNameLength = 256

// fold is a cases.Caser to fold unicode text. Folding is more or less "compatible" lowercase.
var fold = cases.Fold()

// NormalizeName makes mailbox names comparable, so that a client may log in as "Alice" or
// "alice". Names may either be plain ("alice") or look like an address ("alice@example.com").
//
// 1) The local-part is case-folded and normalized using NFKC.
// 2) The domain, if any, is converted from punycode to unicode and normalized using NFC.
func NormalizeName(raw string) (string, error) {
	if len(raw) == 0 || strings.IndexFunc(raw, isInvalidNameRune) >= 0 {
		return "", ErrInvalidName
	}

	if len(raw) > maxNameLength {
		return "", ErrNameTooLong
	}

	localPart := raw
	domain := ""

	if at := strings.LastIndex(raw, "@"); at >= 0 {
		localPart, domain = raw[:at], raw[at+1:]

		if len(localPart) == 0 || len(domain) == 0 {
			return "", ErrInvalidName
		}
	}

	localPart = norm.NFKC.String(fold.String(localPart))

	if domain == "" {
		return localPart, nil
	}

	domain, err := DomainToUnicode(domain)
	if err != nil {
		return "", ErrInvalidName
	}

	return localPart + "@" + fold.String(domain), nil
}

func isInvalidNameRune(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}

// DomainToUnicode normalizes a punycode domain to unicode and applies the NFC normal form.
func DomainToUnicode(domain string) (string, error) {
	mapped, err := idna.Lookup.ToUnicode(domain)
	if err != nil {
		return domain, err
	}

	return norm.NFC.String(mapped), nil
}
