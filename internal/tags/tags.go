// Package tags writes canonical track metadata into the tag containers of
// MP3 (ID3v2) and FLAC (Vorbis comments and picture blocks) files, and reads
// the same field set back.
package tags

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/llehouerou/ncmtag/internal/metadata"
)

// File extensions handled by the tags package.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
)

// Format names reported by Read and ReadAudioInfo.
const (
	FormatMP3  = "MP3"
	FormatFLAC = "FLAC"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// flacMagic starts every FLAC stream.
const flacMagic = "fLaC"

var (
	// ErrInvalidContainer means the file is not a valid stream of the format
	// implied by its extension. The file is left untouched.
	ErrInvalidContainer = errors.New("invalid audio container")

	// ErrUnsupportedFormat is returned by readers for unknown extensions.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// FileTags is the owned field set read back from a file.
type FileTags struct {
	Path   string
	Format string
	metadata.Metadata

	HasCover  bool
	CoverMIME string
}

// AudioInfo contains audio stream properties (not tags).
type AudioInfo struct {
	Duration   time.Duration
	Format     string // MP3, FLAC
	SampleRate int
	BitDepth   int
}

// IsFLAC reports whether path is routed to the FLAC encoder.
func IsFLAC(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ExtFLAC)
}

// IsMusicFile returns true if the path has a supported music file extension.
func IsMusicFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ExtMP3 || ext == ExtFLAC
}

// parseNumberPair parses a track/disc number that may be "N" or "N/M".
func parseNumberPair(s string) (num, total int) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0
	}
	parts := strings.SplitN(s, "/", 2)
	num, _ = strconv.Atoi(parts[0])
	if len(parts) == 2 {
		total, _ = strconv.Atoi(parts[1])
	}
	return num, total
}

// splitNonEmpty splits s on sep and drops empty items.
func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(s, sep) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
