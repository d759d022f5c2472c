package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/ncmtag/internal/catalog"
	"github.com/llehouerou/ncmtag/internal/metadata"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `{
		"101": {"audio": "01.mp3", "cover": "cover.jpg"},
		"102": {"audio": "/music/02.flac"}
	}`)
	base := filepath.Dir(path)

	m, err := loadManifest(path)
	require.NoError(t, err)
	require.Len(t, m, 2)

	assert.Equal(t, filepath.Join(base, "01.mp3"), m[101].Audio)
	assert.Equal(t, filepath.Join(base, "cover.jpg"), m[101].Cover)
	assert.Equal(t, "/music/02.flac", m[102].Audio)
	assert.Empty(t, m[102].Cover)
}

func TestLoadManifest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{"101": `},
		{"non numeric id", `{"abc": {"audio": "a.mp3"}}`},
		{"missing audio", `{"101": {"cover": "c.jpg"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadManifest(writeManifest(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := loadManifest(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildJobs(t *testing.T) {
	songs := []catalog.Song{{ID: 1}, {ID: 2}, {ID: 3}}
	m := manifest{
		1: {Audio: "/a/1.mp3", Cover: "/a/1.jpg"},
		3: {Audio: "/a/3.flac"},
	}
	hints := []metadata.Hint{{DiscNumber: 1}, {DiscNumber: 1}, {DiscNumber: 2}}

	jobs, missing := buildJobs(songs, m, hints, "/a/shared.jpg", false)

	require.Len(t, jobs, 2)
	assert.Equal(t, []int64{2}, missing)

	assert.Equal(t, int64(1), jobs[0].Song.ID)
	assert.Equal(t, "/a/1.jpg", jobs[0].CoverPath, "manifest cover wins")
	assert.Equal(t, 1, jobs[0].Hint.DiscNumber)

	assert.Equal(t, int64(3), jobs[1].Song.ID)
	assert.Equal(t, "/a/shared.jpg", jobs[1].CoverPath, "falls back to shared cover")
	assert.Equal(t, 2, jobs[1].Hint.DiscNumber)
	assert.False(t, jobs[1].Playlist)
}

func TestBuildJobs_Playlist(t *testing.T) {
	songs := []catalog.Song{{ID: 1}}
	m := manifest{1: {Audio: "/a/1.mp3"}}

	jobs, missing := buildJobs(songs, m, nil, "", true)

	require.Len(t, jobs, 1)
	assert.Empty(t, missing)
	assert.True(t, jobs[0].Playlist)
	assert.True(t, jobs[0].Hint.IsZero())
	assert.Same(t, &songs[0], jobs[0].Song)
}
