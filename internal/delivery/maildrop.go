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
	"io"
	"sync"

	"github.com/lukasdietrich/briefpop/internal/log"
	"github.com/lukasdietrich/briefpop/internal/models"
)

var (
	// ErrMailboxLocked is returned by Open, when another session holds the mailbox.
	ErrMailboxLocked = errors.New("delivery: mailbox is locked by another session")
	// ErrNoSuchSlot is returned for slots outside of the listing.
	ErrNoSuchSlot = errors.New("delivery: no such slot")
	// ErrMaildropClosed is returned for operations on a closed maildrop.
	ErrMaildropClosed = errors.New("delivery: maildrop is closed")
)

// Message is a single entry of a maildrop listing. Slots start at 1.
type Message struct {
	Slot int
	Size int64
}

// Maildrops gives exclusive access to mailboxes.
type Maildrops interface {
	// Exists reports whether a mailbox with the name exists.
	Exists(ctx context.Context, name string) (bool, error)
	// Open authenticates and locks a mailbox. The lock is held until the returned Maildrop is
	// closed.
	Open(ctx context.Context, name string, pass []byte) (Maildrop, error)
}

// Maildrop is a locked mailbox.
type Maildrop interface {
	// Name is the normalized name of the mailbox.
	Name() string
	// List returns the messages of the mailbox. The listing is taken once and stays the same
	// for the lifetime of the maildrop.
	List(context.Context) ([]Message, error)
	// Reader opens the content of the message in a slot.
	Reader(slot int) (io.ReadCloser, error)
	// Delete permanently removes the messages in the given slots. Either all or none of them
	// are removed.
	Delete(ctx context.Context, slots []int) error
	// Close releases the lock.
	Close() error
}

type maildrops struct {
	authenticator Authenticator
	inboxer       Inboxer
	locks         *locks
}

func NewMaildrops(authenticator Authenticator, inboxer Inboxer) Maildrops {
	return &maildrops{
		authenticator: authenticator,
		inboxer:       inboxer,
		locks:         newLocks(),
	}
}

func (m *maildrops) Exists(ctx context.Context, name string) (bool, error) {
	if _, err := m.authenticator.Lookup(ctx, name); err != nil {
		if errors.Is(err, ErrUnknownMailbox) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (m *maildrops) Open(ctx context.Context, name string, pass []byte) (Maildrop, error) {
	mailbox, err := m.authenticator.Auth(ctx, name, pass)
	if err != nil {
		return nil, err
	}

	if !m.locks.lock(mailbox.ID) {
		log.WarnContext(ctx).
			Str("mailbox", mailbox.Name).
			Msg("mailbox is already locked")

		return nil, ErrMailboxLocked
	}

	return &maildrop{
		mailbox: mailbox,
		inboxer: m.inboxer,
		release: func() { m.locks.unlock(mailbox.ID) },
	}, nil
}

type maildrop struct {
	mailbox *models.MailboxEntity
	inboxer Inboxer
	release func()

	mails  []models.MailEntity
	listed bool
	closed bool
	once   sync.Once
}

func (m *maildrop) Name() string {
	return m.mailbox.Name
}

func (m *maildrop) List(ctx context.Context) ([]Message, error) {
	if m.closed {
		return nil, ErrMaildropClosed
	}

	if !m.listed {
		mails, err := m.inboxer.Inbox(ctx, m.mailbox)
		if err != nil {
			return nil, err
		}

		m.mails = mails
		m.listed = true
	}

	messages := make([]Message, len(m.mails))
	for i, mail := range m.mails {
		messages[i] = Message{
			Slot: i + 1,
			Size: mail.Size,
		}
	}

	return messages, nil
}

func (m *maildrop) Reader(slot int) (io.ReadCloser, error) {
	mail, err := m.mail(slot)
	if err != nil {
		return nil, err
	}

	return m.inboxer.Reader(mail)
}

func (m *maildrop) Delete(ctx context.Context, slots []int) error {
	seen := make(map[int]bool, len(slots))
	mails := make([]models.MailEntity, 0, len(slots))

	for _, slot := range slots {
		if seen[slot] {
			continue
		}

		mail, err := m.mail(slot)
		if err != nil {
			return err
		}

		seen[slot] = true
		mails = append(mails, *mail)
	}

	return m.inboxer.Commit(ctx, m.mailbox, mails)
}

func (m *maildrop) mail(slot int) (*models.MailEntity, error) {
	if m.closed {
		return nil, ErrMaildropClosed
	}

	if slot < 1 || slot > len(m.mails) {
		return nil, ErrNoSuchSlot
	}

	return &m.mails[slot-1], nil
}

func (m *maildrop) Close() error {
	m.once.Do(func() {
		m.closed = true
		m.release()
	})

	return nil
}
