package tags

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Read reads the owned field set back from an MP3 or FLAC file.
func Read(path string) (*FileTags, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ExtMP3:
		return readMP3Tags(path)
	case ExtFLAC:
		return readFLACTags(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// splitDate turns a stored date into date and year. A bare year leaves the
// date empty.
func splitDate(value string) (date, year string) {
	switch {
	case len(value) >= len("2006-01-02"):
		return value[:10], value[:4]
	case len(value) >= 4:
		return "", value[:4]
	}
	return "", ""
}
