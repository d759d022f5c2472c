package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// DirSource serves catalog responses that were saved to disk:
//
//	<root>/albums/<album id>.json   album song listing
//	<root>/lyrics/<song id>.json    lyric response
type DirSource struct {
	root string
}

// NewDirSource creates a catalog source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{root: dir}
}

// AlbumSongs returns the full track listing of an album.
func (d *DirSource) AlbumSongs(ctx context.Context, albumID int64) ([]Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	songs, err := ReadSongs(d.path("albums", albumID))
	if err != nil {
		return nil, fmt.Errorf("album %d: %w", albumID, err)
	}
	return songs, nil
}

// Lyrics returns the lyrics of a song, or nil when none were saved.
func (d *DirSource) Lyrics(ctx context.Context, songID int64) (*Lyrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.path("lyrics", songID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lyrics %d: %w", songID, err)
	}
	return ParseLyrics(data)
}

func (d *DirSource) path(kind string, id int64) string {
	return filepath.Join(d.root, kind, strconv.FormatInt(id, 10)+".json")
}
