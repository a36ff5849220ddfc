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
	"io"

	"github.com/stretchr/testify/mock"
)

// MockMaildrops is a mock type for the Maildrops type.
type MockMaildrops struct {
	mock.Mock
}

// Exists provides a mock function with given fields: ctx, name
func (_m *MockMaildrops) Exists(ctx context.Context, name string) (bool, error) {
	ret := _m.Called(ctx, name)

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context, string) bool); ok {
		r0 = rf(ctx, name)
	} else {
		r0 = ret.Get(0).(bool)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, name)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Open provides a mock function with given fields: ctx, name, pass
func (_m *MockMaildrops) Open(ctx context.Context, name string, pass []byte) (Maildrop, error) {
	ret := _m.Called(ctx, name, pass)

	var r0 Maildrop
	if rf, ok := ret.Get(0).(func(context.Context, string, []byte) Maildrop); ok {
		r0 = rf(ctx, name, pass)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(Maildrop)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, []byte) error); ok {
		r1 = rf(ctx, name, pass)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockMaildrop is a mock type for the Maildrop type.
type MockMaildrop struct {
	mock.Mock
}

// Name provides a mock function with given fields:
func (_m *MockMaildrop) Name() string {
	ret := _m.Called()

	var r0 string
	if rf, ok := ret.Get(0).(func() string); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}

// List provides a mock function with given fields: ctx
func (_m *MockMaildrop) List(ctx context.Context) ([]Message, error) {
	ret := _m.Called(ctx)

	var r0 []Message
	if rf, ok := ret.Get(0).(func(context.Context) []Message); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Message)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Reader provides a mock function with given fields: slot
func (_m *MockMaildrop) Reader(slot int) (io.ReadCloser, error) {
	ret := _m.Called(slot)

	var r0 io.ReadCloser
	if rf, ok := ret.Get(0).(func(int) io.ReadCloser); ok {
		r0 = rf(slot)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(io.ReadCloser)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(int) error); ok {
		r1 = rf(slot)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Delete provides a mock function with given fields: ctx, slots
func (_m *MockMaildrop) Delete(ctx context.Context, slots []int) error {
	ret := _m.Called(ctx, slots)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, []int) error); ok {
		r0 = rf(ctx, slots)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Close provides a mock function with given fields:
func (_m *MockMaildrop) Close() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
