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
	"bytes"
	"context"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/lukasdietrich/briefpop/internal/crypto"
	"github.com/lukasdietrich/briefpop/internal/log"
)

func init() {
	viper.SetDefault("storage.cache.foldername", "data/cache")
	viper.SetDefault("storage.cache.memoryLimit", "1mb")
}

type CacheOptions struct {
	Foldername  string
	MemoryLimit int64
}

func CacheOptionsFromViper() CacheOptions {
	return CacheOptions{
		Foldername:  viper.GetString("storage.cache.foldername"),
		MemoryLimit: int64(viper.GetSizeInBytes("storage.cache.memoryLimit")),
	}
}

// Cache buffers a stream, so that it can be read multiple times. Small streams are kept in
// memory, larger ones are evaded to a temporary file.
type Cache interface {
	Write(context.Context, io.Reader) (CacheEntry, error)
}

// CacheEntry is a buffered stream. It must be released after use.
type CacheEntry interface {
	// Reader returns a reader starting at the beginning of the entry.
	Reader() (io.Reader, error)
	// Release frees all resources associated with the entry.
	Release(context.Context) error
}

type cache struct {
	fs          afero.Fs
	idGen       crypto.IDGenerator
	memoryLimit int64
}

func NewCache(fs afero.Fs, idGen crypto.IDGenerator, opts CacheOptions) (Cache, error) {
	if err := fs.MkdirAll(opts.Foldername, 0700); err != nil {
		return nil, err
	}

	return &cache{
		fs:          afero.NewBasePathFs(fs, opts.Foldername),
		idGen:       idGen,
		memoryLimit: opts.MemoryLimit,
	}, nil
}

func (c *cache) Write(ctx context.Context, r io.Reader) (CacheEntry, error) {
	memory := bytes.NewBuffer(nil)

	n, err := io.Copy(memory, io.LimitReader(r, c.memoryLimit))
	if err != nil {
		return nil, err
	}

	if n < c.memoryLimit {
		return memoryEntry{memory.Bytes()}, nil
	}

	id, err := c.idGen.GenerateID()
	if err != nil {
		return nil, err
	}

	file, err := c.fs.Create(id)
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx).
		Str("filename", id).
		Int64("memoryLimit", c.memoryLimit).
		Msg("cache entry exceeding size limit, evading to file")

	if _, err := io.Copy(file, io.MultiReader(memory, r)); err != nil {
		log.WarnContext(ctx).
			Str("filename", id).
			Msg("could not write to cache file")

		if err := file.Close(); err != nil {
			log.WarnContext(ctx).
				Str("filename", id).
				Err(err).
				Msg("could not close partial cache file")
		}

		if err := c.fs.Remove(id); err != nil {
			log.WarnContext(ctx).
				Str("filename", id).
				Err(err).
				Msg("could not remove partial cache file")
		}

		return nil, err
	}

	return fileEntry{id: id, file: file, fs: c.fs}, nil
}

type memoryEntry struct {
	content []byte
}

func (e memoryEntry) Reader() (io.Reader, error) {
	return bytes.NewReader(e.content), nil
}

func (memoryEntry) Release(context.Context) error {
	return nil
}

type fileEntry struct {
	id   string
	file afero.File
	fs   afero.Fs
}

func (e fileEntry) Reader() (io.Reader, error) {
	if _, err := e.file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	return e.file, nil
}

func (e fileEntry) Release(ctx context.Context) error {
	log.InfoContext(ctx).
		Str("filename", e.id).
		Msg("removing cache file")

	if err := e.file.Close(); err != nil {
		return err
	}

	return e.fs.Remove(e.id)
}
