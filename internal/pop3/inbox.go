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
package pop3

import (
	"sort"

	"github.com/lukasdietrich/briefpop/internal/delivery"
)

// inbox is the snapshot of a maildrop taken when entering the transaction state, together with
// the slots marked for deletion. The snapshot itself is never modified, so slots stay stable.
type inbox struct {
	messages []delivery.Message
	marks    map[int]bool
}

func newInbox(messages []delivery.Message) *inbox {
	return &inbox{
		messages: messages,
		marks:    make(map[int]bool),
	}
}

func (i *inbox) exists(slot int) bool {
	return slot >= 1 && slot <= len(i.messages)
}

func (i *inbox) isMarked(slot int) bool {
	return i.marks[slot]
}

// lookup returns the message in a slot, if it exists and is not marked.
func (i *inbox) lookup(slot int) (delivery.Message, error) {
	if !i.exists(slot) {
		return delivery.Message{}, rNoSuchMessage
	}

	if i.isMarked(slot) {
		return delivery.Message{}, rAlreadyDeleted
	}

	return i.messages[slot-1], nil
}

func (i *inbox) mark(slot int) {
	if i.exists(slot) {
		i.marks[slot] = true
	}
}

func (i *inbox) reset() {
	i.marks = make(map[int]bool)
}

// count is the number of messages not marked for deletion.
func (i *inbox) count() int {
	return len(i.messages) - len(i.marks)
}

// size is the total size of messages not marked for deletion.
func (i *inbox) size() int64 {
	var size int64

	for _, message := range i.messages {
		if !i.marks[message.Slot] {
			size += message.Size
		}
	}

	return size
}

// visible returns the messages not marked for deletion in slot order.
func (i *inbox) visible() []delivery.Message {
	visible := make([]delivery.Message, 0, i.count())

	for _, message := range i.messages {
		if !i.marks[message.Slot] {
			visible = append(visible, message)
		}
	}

	return visible
}

// marked returns the marked slots in ascending order.
func (i *inbox) marked() []int {
	slots := make([]int, 0, len(i.marks))
	for slot := range i.marks {
		slots = append(slots, slot)
	}

	sort.Ints(slots)
	return slots
}
