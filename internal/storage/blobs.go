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

package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/lukasdietrich/briefpop/internal/crypto"
	"github.com/lukasdietrich/briefpop/internal/log"
)

// ErrInvalidBlobID is returned for ids that are empty or would escape the blob folder.
var ErrInvalidBlobID = errors.New("storage: invalid blob id")

func init() {
	viper.SetDefault("storage.blobs.foldername", "data/blobs")
}

type BlobsOptions struct {
	Foldername string
}

func BlobsOptionsFromViper() BlobsOptions {
	return BlobsOptions{
		Foldername: viper.GetString("storage.blobs.foldername"),
	}
}

// Blobs stores the raw content of messages. Each blob is written once and never modified.
type Blobs interface {
	// Write copies r into a new blob and returns its id and size.
	Write(context.Context, io.Reader) (string, int64, error)
	// Reader opens an existing blob for reading.
	Reader(string) (io.ReadCloser, error)
	// Delete removes a blob.
	Delete(context.Context, string) error
}

type blobs struct {
	fs    afero.Fs
	idGen crypto.IDGenerator
}

func NewBlobs(fs afero.Fs, idGen crypto.IDGenerator, opts BlobsOptions) (Blobs, error) {
	if err := fs.MkdirAll(opts.Foldername, 0700); err != nil {
		return nil, err
	}

	return &blobs{
		fs:    afero.NewBasePathFs(fs, opts.Foldername),
		idGen: idGen,
	}, nil
}

func (b *blobs) Write(ctx context.Context, r io.Reader) (string, int64, error) {
	id, err := b.idGen.GenerateID()
	if err != nil {
		return "", -1, err
	}

	f, err := b.fs.Create(id)
	if err != nil {
		return "", -1, err
	}

	log.DebugContext(ctx).
		Str("blob", id).
		Msg("writing blob")

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close() // nolint:errcheck

		if err := b.fs.Remove(id); err != nil {
			log.WarnContext(ctx).
				Str("blob", id).
				Err(err).
				Msg("could not remove partial blob")
		}

		return "", -1, err
	}

	return id, size, f.Close()
}

func (b *blobs) Reader(id string) (io.ReadCloser, error) {
	if !isValidBlobID(id) {
		return nil, ErrInvalidBlobID
	}

	return b.fs.Open(id)
}

func (b *blobs) Delete(ctx context.Context, id string) error {
	if !isValidBlobID(id) {
		return ErrInvalidBlobID
	}

	log.DebugContext(ctx).
		Str("blob", id).
		Msg("removing blob")

	return b.fs.Remove(id)
}

func isValidBlobID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\.`)
}
