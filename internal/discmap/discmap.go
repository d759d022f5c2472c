// Package discmap derives disc and track totals from an album's full track
// listing and memoizes the result per album for the length of a traversal.
package discmap

import (
	"github.com/llehouerou/ncmtag/internal/catalog"
)

// Info holds the per-disc track counts of an album and its disc total.
// A zero DiscTotal means absent.
type Info struct {
	DiscTrackCount map[int]int
	DiscTotal      int
}

// TrackTotal returns the number of tracks on a disc, 0 when unknown.
func (i Info) TrackTotal(disc int) int {
	if disc <= 0 {
		return 0
	}
	return i.DiscTrackCount[disc]
}

// Build aggregates the disc designators of an album's tracks.
//
// Tracks are counted under their parsed disc number; tracks without a usable
// designator are not counted. The disc total is the first "N/M" total seen
// in listing order, else the highest disc number counted.
func Build(songs []catalog.Song) Info {
	info := Info{DiscTrackCount: make(map[int]int)}
	for i := range songs {
		number, total := songs[i].DiscPosition()
		if number > 0 {
			info.DiscTrackCount[number]++
		}
		if info.DiscTotal == 0 && total > 0 {
			info.DiscTotal = total
		}
	}
	if info.DiscTotal == 0 {
		for disc := range info.DiscTrackCount {
			info.DiscTotal = max(info.DiscTotal, disc)
		}
	}
	return info
}

// FindDiscNumber returns the parsed disc number of the track with the given
// id, or 0 when the track is missing or has no usable designator.
func FindDiscNumber(songs []catalog.Song, id int64) int {
	for i := range songs {
		if songs[i].ID == id {
			number, _ := songs[i].DiscPosition()
			return number
		}
	}
	return 0
}
