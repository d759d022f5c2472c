package catalog

import (
	"encoding/json"
	"fmt"
)

// Lyrics holds the original and translated lyric text of a track.
type Lyrics struct {
	Lyric       string `json:"lyric"`
	Translation string `json:"tlyric"`
}

// IsEmpty reports whether neither lyric text is present.
func (l *Lyrics) IsEmpty() bool {
	return l == nil || (l.Lyric == "" && l.Translation == "")
}

// lyricBlock is the {"lyric": "..."} object used by the raw lyric endpoint.
type lyricBlock struct {
	Lyric string `json:"lyric"`
}

// ParseLyrics decodes lyric JSON. Both the flattened {"lyric", "tlyric"} shape
// and the raw endpoint shape {"lrc": {"lyric"}, "tlyric": {"lyric"}} are accepted.
func ParseLyrics(data []byte) (*Lyrics, error) {
	var raw struct {
		Lyric  Field       `json:"lyric"`
		TLyric Field       `json:"tlyric"`
		Lrc    *lyricBlock `json:"lrc"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode lyrics: %w", err)
	}

	l := &Lyrics{}
	if s, ok := raw.Lyric.String(); ok {
		l.Lyric = s
	} else if raw.Lrc != nil {
		l.Lyric = raw.Lrc.Lyric
	}
	l.Translation = blockText(raw.TLyric)
	return l, nil
}

// blockText reads a field that is either a string or a {"lyric": "..."} object.
func blockText(f Field) string {
	if s, ok := f.String(); ok {
		return s
	}
	var b lyricBlock
	if len(f) > 0 && json.Unmarshal(f, &b) == nil {
		return b.Lyric
	}
	return ""
}
