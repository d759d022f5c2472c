package tagger

import (
	"context"
	"errors"

	"github.com/llehouerou/ncmtag/internal/catalog"
	"github.com/llehouerou/ncmtag/internal/discmap"
	"github.com/llehouerou/ncmtag/internal/metadata"
)

// AlbumHints derives the position hint of every track of an album listing,
// aggregating the listing once. Tracks without a disc designator get the
// album size as track total.
func AlbumHints(songs []catalog.Song) []metadata.Hint {
	info := discmap.Build(songs)
	hints := make([]metadata.Hint, len(songs))
	for i := range songs {
		disc, _ := songs[i].DiscPosition()
		h := metadata.Hint{DiscNumber: disc, DiscTotal: info.DiscTotal}
		if disc > 0 {
			h.TrackTotal = info.TrackTotal(disc)
		} else {
			h.TrackTotal = songs[i].AlbumInfo().TrackCount()
		}
		hints[i] = h
	}
	return hints
}

// PlaylistHint derives the position hint of a playlist entry from its album,
// resolved through the shared cache. Entries without an album get an empty hint.
func (t *Tagger) PlaylistHint(ctx context.Context, song *catalog.Song) (metadata.Hint, error) {
	albumID := song.AlbumID()
	if albumID == 0 {
		return metadata.Hint{}, nil
	}
	if t.cache == nil {
		return metadata.Hint{}, errors.New("no catalog to resolve albums")
	}

	album, err := t.cache.Resolve(ctx, albumID)
	if err != nil {
		return metadata.Hint{}, err
	}

	disc, _ := song.DiscPosition()
	if disc == 0 {
		disc = discmap.FindDiscNumber(album.Songs, song.ID)
	}
	return metadata.Hint{
		DiscNumber: disc,
		DiscTotal:  album.Info.DiscTotal,
		TrackTotal: album.Info.TrackTotal(disc),
	}, nil
}
