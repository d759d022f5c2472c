package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/ncmtag/internal/metadata"
)

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
)

// Cover picture description used in both containers.
const coverDescription = "Cover"

// Encoder writes metadata and an optional cover picture into the tag
// container of the file at path. Encoders only replace the fields they own;
// absent metadata values are never written.
type Encoder interface {
	Encode(path string, m *metadata.Metadata, art *Artwork) error
}

// Artwork is a prepared cover image ready to be embedded.
type Artwork struct {
	Data []byte
	MIME string
}

// LoadArtwork reads a cover image from disk. The MIME type follows the file
// extension.
func LoadArtwork(path string) (*Artwork, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	return &Artwork{Data: data, MIME: GuessMIME(path)}, nil
}

// GuessMIME returns image/png for .png files and image/jpeg for anything else.
func GuessMIME(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return mimePNG
	}
	return mimeJPEG
}

// EncoderFor selects the encoder for a file: FLAC for ".flac" (any case),
// ID3 for everything else.
func EncoderFor(path string, logger *log.Entry) Encoder {
	if IsFLAC(path) {
		return &FLACEncoder{Log: logger}
	}
	return &ID3Encoder{Log: logger}
}

// Write encodes metadata into the file at path using the encoder selected
// by EncoderFor. The file must already exist.
func Write(path string, m *metadata.Metadata, art *Artwork, logger *log.Entry) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %w", err)
	}
	return EncoderFor(path, logger).Encode(path, m, art)
}

func loggerOrDefault(e *log.Entry) *log.Entry {
	if e != nil {
		return e
	}
	return log.WithField("module", "tags")
}
