// Package tagger runs the per-track pipeline: derive position hints, build
// canonical metadata, condition the cover and write the tag container.
package tagger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/ncmtag/internal/catalog"
	"github.com/llehouerou/ncmtag/internal/cover"
	"github.com/llehouerou/ncmtag/internal/discmap"
	"github.com/llehouerou/ncmtag/internal/lyrics"
	"github.com/llehouerou/ncmtag/internal/metadata"
	"github.com/llehouerou/ncmtag/internal/tags"
)

// Catalog is the catalog service as seen by the tagger.
type Catalog interface {
	AlbumSongs(ctx context.Context, albumID int64) ([]catalog.Song, error)
	Lyrics(ctx context.Context, songID int64) (*catalog.Lyrics, error)
}

// Job is one track to tag.
type Job struct {
	Song      *catalog.Song
	IsProgram bool
	AudioPath string
	CoverPath string // optional, already downloaded

	// Hint overrides derived positions. For playlist entries it is merged
	// over the hint derived from the album cache.
	Hint     metadata.Hint
	Playlist bool

	// Lyrics are fetched from the catalog when nil.
	Lyrics *catalog.Lyrics
}

// Options configures a Tagger.
type Options struct {
	Cover        cover.Options
	CoverEnabled bool
	Workers      int
	Location     *time.Location
}

// Tagger tags audio files from catalog records.
type Tagger struct {
	catalog    Catalog
	cache      *discmap.Cache
	normalizer *metadata.Normalizer
	opts       Options
	logger     *log.Entry

	// Cover files are rewritten in place; jobs sharing one are serialized.
	coverLocks sync.Map
}

// New creates a Tagger. A nil cache gets a fresh one backed by cat; a nil
// catalog disables lyric fetching and playlist hints.
func New(cat Catalog, cache *discmap.Cache, opts Options) *Tagger {
	if cache == nil && cat != nil {
		cache = discmap.NewCache(cat.AlbumSongs)
	}
	return &Tagger{
		catalog:    cat,
		cache:      cache,
		normalizer: &metadata.Normalizer{Location: opts.Location},
		opts:       opts,
		logger:     log.WithFields(log.Fields{"module": "tagger"}),
	}
}

// TagTrack runs the pipeline for one track. Lyric and cover problems are
// logged and do not stop tagging; an invalid audio container is returned as
// tags.ErrInvalidContainer and leaves the file untouched.
func (t *Tagger) TagTrack(ctx context.Context, job Job) error {
	if job.Song == nil {
		return errors.New("job has no track record")
	}
	logger := t.logger.WithField("path", job.AudioPath)

	hint := job.Hint
	if job.Playlist && !job.IsProgram {
		derived, err := t.PlaylistHint(ctx, job.Song)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			logger.WithError(err).Warn("Album lookup failed, tagging without disc positions")
		}
		hint = mergeHint(derived, job.Hint)
	}

	lyr := job.Lyrics
	if lyr == nil {
		lyr = t.fetchLyrics(ctx, job, logger)
	}

	m := t.normalizer.Normalize(job.Song, job.IsProgram, lyr, hint)
	logger.WithFields(log.Fields{
		"title":       m.Title,
		"artists":     strings.Join(m.Artists, metadata.ArtistSeparator),
		"album":       m.Album,
		"track":       m.TrackPosition(),
		"disc":        m.DiscPosition(),
		"lyrics":      m.HasLyrics(),
		"translation": m.HasTranslation(),
	}).Info("Writing metadata")
	logLyricStats(m, logger)

	art := t.prepareArtwork(job.CoverPath, logger)

	if err := tags.Write(job.AudioPath, m, art, logger); err != nil {
		if errors.Is(err, tags.ErrInvalidContainer) {
			logger.WithError(err).Warn("File was not tagged")
		}
		return err
	}
	return nil
}

func (t *Tagger) fetchLyrics(ctx context.Context, job Job, logger *log.Entry) *catalog.Lyrics {
	if t.catalog == nil || job.IsProgram || job.Song.ID == 0 {
		return nil
	}
	lyr, err := t.catalog.Lyrics(ctx, job.Song.ID)
	if err != nil {
		logger.WithError(err).Warn("Could not fetch lyrics")
		return nil
	}
	return lyr
}

// prepareArtwork conditions the cover file and loads it. Failures only
// drop the picture.
func (t *Tagger) prepareArtwork(path string, logger *log.Entry) *tags.Artwork {
	if path == "" {
		return nil
	}
	logger = logger.WithField("cover", path)

	lock, _ := t.coverLocks.LoadOrStore(path, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	if t.opts.CoverEnabled {
		res, err := cover.Prepare(path, t.opts.Cover)
		switch {
		case err != nil:
			logger.WithError(err).Warn("Cover not resized")
		case res.Resized:
			logger.WithFields(log.Fields{
				"size": fmt.Sprintf("%dx%d", res.Width, res.Height),
				"file": humanize.Bytes(uint64(res.Size)), //nolint:gosec // file sizes are non-negative
			}).Debug("Cover resized")
		}
	}

	art, err := tags.LoadArtwork(path)
	if err != nil {
		logger.WithError(err).Warn("Cover not embedded")
		return nil
	}
	return art
}

// logLyricStats reports how much of the lyric text is timed and translated.
func logLyricStats(m *metadata.Metadata, logger *log.Entry) {
	if !m.HasLyrics() || !logger.Logger.IsLevelEnabled(log.DebugLevel) {
		return
	}
	lrc, err := lyrics.Parse(m.Lyrics)
	if err != nil {
		logger.WithError(err).Debug("Lyrics are not LRC")
		return
	}
	tr, _ := lyrics.Parse(m.TranslatedLyrics)
	logger.WithFields(log.Fields{
		"lines":      len(lrc.Lines),
		"synced":     lrc.IsSynced(),
		"translated": lrc.Translated(tr),
		"credits":    len(lrc.Credits),
	}).Debug("Lyric stats")
}

// mergeHint overlays the non-zero fields of override on base.
func mergeHint(base, override metadata.Hint) metadata.Hint {
	if override.TrackNumber > 0 {
		base.TrackNumber = override.TrackNumber
	}
	if override.TrackTotal > 0 {
		base.TrackTotal = override.TrackTotal
	}
	if override.DiscNumber > 0 {
		base.DiscNumber = override.DiscNumber
	}
	if override.DiscTotal > 0 {
		base.DiscTotal = override.DiscTotal
	}
	return base
}
