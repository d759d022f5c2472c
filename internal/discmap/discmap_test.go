package discmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/ncmtag/internal/catalog"
)

func songs(t *testing.T, raw string) []catalog.Song {
	t.Helper()
	var out []catalog.Song
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCount map[int]int
		wantTotal int
	}{
		{
			name:      "mixed designators",
			raw:       `[{"disc": "1/2"}, {"disc": "2"}]`,
			wantCount: map[int]int{1: 1, 2: 1},
			wantTotal: 2,
		},
		{
			name:      "total from designator beats max key",
			raw:       `[{"disc": "1/3"}, {"disc": "1/3"}, {"disc": "2/3"}]`,
			wantCount: map[int]int{1: 2, 2: 1},
			wantTotal: 3,
		},
		{
			name:      "integers and cd fallback",
			raw:       `[{"disc": 1}, {"cd": "2"}, {"disc": "", "cd": 2}]`,
			wantCount: map[int]int{1: 1, 2: 2},
			wantTotal: 2,
		},
		{
			name:      "malformed entry ignored",
			raw:       `[{"disc": "abc"}, {"disc": "1"}]`,
			wantCount: map[int]int{1: 1},
			wantTotal: 1,
		},
		{
			name:      "no designators",
			raw:       `[{"id": 1}, {"id": 2}]`,
			wantCount: map[int]int{},
			wantTotal: 0,
		},
		{
			name:      "empty listing",
			raw:       `[]`,
			wantCount: map[int]int{},
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Build(songs(t, tt.raw))
			assert.Equal(t, tt.wantCount, info.DiscTrackCount)
			assert.Equal(t, tt.wantTotal, info.DiscTotal)
		})
	}
}

func TestBuild_OrderIndependent(t *testing.T) {
	base := songs(t, `[{"disc": "1"}, {"disc": "1"}, {"disc": "2"}, {"disc": "3/4"}, {"disc": "x"}, {"id": 9}]`)
	want := Build(base)
	require.Equal(t, 4, want.DiscTotal)

	// Every rotation moves the single "N/M" designator to a different index.
	for shift := range base {
		rotated := append(append([]catalog.Song{}, base[shift:]...), base[:shift]...)
		got := Build(rotated)
		assert.Equal(t, want.DiscTrackCount, got.DiscTrackCount, "shift %d", shift)
		assert.Equal(t, 4, got.DiscTotal, "shift %d", shift)
	}
}

func TestBuild_FirstTotalWins(t *testing.T) {
	info := Build(songs(t, `[{"disc": "1/2"}, {"disc": "2/5"}]`))
	assert.Equal(t, 2, info.DiscTotal)
}

func TestInfo_TrackTotal(t *testing.T) {
	info := Info{DiscTrackCount: map[int]int{1: 10, 2: 8}}
	assert.Equal(t, 10, info.TrackTotal(1))
	assert.Equal(t, 8, info.TrackTotal(2))
	assert.Zero(t, info.TrackTotal(3))
	assert.Zero(t, info.TrackTotal(0))
	assert.Zero(t, Info{}.TrackTotal(1))
}

func TestFindDiscNumber(t *testing.T) {
	listing := songs(t, `[{"id": 1, "disc": "1/2"}, {"id": 2, "cd": "2/2"}, {"id": 3, "disc": "bad"}]`)

	assert.Equal(t, 1, FindDiscNumber(listing, 1))
	assert.Equal(t, 2, FindDiscNumber(listing, 2))
	assert.Zero(t, FindDiscNumber(listing, 3))
	assert.Zero(t, FindDiscNumber(listing, 4))
	assert.Zero(t, FindDiscNumber(nil, 1))
}
