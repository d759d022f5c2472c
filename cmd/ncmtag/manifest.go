package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/llehouerou/ncmtag/internal/catalog"
	"github.com/llehouerou/ncmtag/internal/metadata"
	"github.com/llehouerou/ncmtag/internal/tagger"
)

// manifestEntry locates the downloaded files of one song.
type manifestEntry struct {
	Audio string `json:"audio"`
	Cover string `json:"cover"`
}

// manifest maps song ids to downloaded files.
type manifest map[int64]manifestEntry

// loadManifest reads a {"<song id>": {"audio": ..., "cover": ...}} file.
// Relative paths are resolved against the manifest's directory.
func loadManifest(path string) (manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]manifestEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	base := filepath.Dir(path)
	m := make(manifest, len(raw))
	for key, entry := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("song id %q: %w", key, err)
		}
		if entry.Audio == "" {
			return nil, fmt.Errorf("song %d: no audio path", id)
		}
		entry.Audio = resolvePath(base, entry.Audio)
		if entry.Cover != "" {
			entry.Cover = resolvePath(base, entry.Cover)
		}
		m[id] = entry
	}
	return m, nil
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// buildJobs pairs songs with their downloaded files. Songs missing from the
// manifest are returned separately. hints, when not nil, is indexed like songs.
func buildJobs(songs []catalog.Song, m manifest, hints []metadata.Hint, cover string, playlist bool) (jobs []tagger.Job, missing []int64) {
	for i := range songs {
		entry, ok := m[songs[i].ID]
		if !ok {
			missing = append(missing, songs[i].ID)
			continue
		}
		job := tagger.Job{
			Song:      &songs[i],
			AudioPath: entry.Audio,
			CoverPath: entry.Cover,
			Playlist:  playlist,
		}
		if job.CoverPath == "" {
			job.CoverPath = cover
		}
		if hints != nil {
			job.Hint = hints[i]
		}
		jobs = append(jobs, job)
	}
	return jobs, missing
}
