package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ReadSong decodes a single song or program record from a JSON file.
// A {"song": {...}} or {"program": {...}} wrapper is unwrapped.
func ReadSong(path string) (*Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Song    *Song `json:"song"`
		Program *Song `json:"program"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	switch {
	case wrapped.Song != nil:
		return wrapped.Song, nil
	case wrapped.Program != nil:
		return wrapped.Program, nil
	}

	var s Song
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &s, nil
}

// ReadSongs decodes a list of song records from a JSON file.
// The file may hold a bare array, {"songs": [...]} or {"tracks": [...]}.
func ReadSongs(path string) ([]Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	songs, err := decodeSongs(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return songs, nil
}

func decodeSongs(data []byte) ([]Song, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var songs []Song
		if err := json.Unmarshal(data, &songs); err != nil {
			return nil, err
		}
		return songs, nil
	}

	var wrapped struct {
		Songs  []Song `json:"songs"`
		Tracks []Song `json:"tracks"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Songs != nil {
		return wrapped.Songs, nil
	}
	if wrapped.Tracks != nil {
		return wrapped.Tracks, nil
	}
	return nil, errors.New("no song list found")
}
