// Package catalog models the track records returned by the music catalog
// service. Records are read-only inputs: the accessors resolve the loosely
// typed JSON once and report absent values as zero values.
package catalog

// Artist is an artist reference inside a song or album record.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DJ is the host of a radio program.
type DJ struct {
	Nickname string `json:"nickname"`
	Brand    string `json:"brand"`
}

// Album is the album block embedded in a song record.
type Album struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	Artist      *Artist  `json:"artist"`
	Tags        Field    `json:"tags"`
	PublishTime Field    `json:"publishTime"`
	Size        Field    `json:"size"`
	CDs         Field    `json:"cds"`
	Company     Field    `json:"company"`
}

// Song is a raw track record: a song, a playlist entry or a program episode.
type Song struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Artists  []Artist `json:"artists"`
	Album    *Album   `json:"album"`
	DJ       *DJ      `json:"dj"`
	Disc     Field    `json:"disc"`
	CD       Field    `json:"cd"`
	Composer Field    `json:"composer"`
	Alias    Field    `json:"alias"`
	Alia     Field    `json:"alia"`
	No       Field    `json:"no"`
}

// AlbumInfo returns the album block, or an empty album when the record has none.
func (s *Song) AlbumInfo() *Album {
	if s.Album == nil {
		return &Album{}
	}
	return s.Album
}

// AlbumID returns the album identifier, 0 when unknown.
func (s *Song) AlbumID() int64 {
	return s.AlbumInfo().ID
}

// ArtistNames returns the non-empty track artist names in record order.
func (s *Song) ArtistNames() []string {
	return artistNames(s.Artists)
}

// DiscDesignator returns the "disc" field, falling back to "cd" when disc is empty.
func (s *Song) DiscDesignator() Field {
	if !s.Disc.IsEmpty() {
		return s.Disc
	}
	return s.CD
}

// DiscPosition parses the disc designator into disc number and disc total.
func (s *Song) DiscPosition() (number, total int) {
	return ParseDiscDesignator(s.DiscDesignator())
}

// TrackNumber returns the "no" field when it is a positive integer.
func (s *Song) TrackNumber() int {
	return positive(s.No)
}

// ComposerName returns the composer when the record carries it as a string.
func (s *Song) ComposerName() string {
	name, _ := s.Composer.String()
	return name
}

// Aliases returns "alias", or "alia" when alias is empty, as a list of strings.
func (s *Song) Aliases() []string {
	if !s.Alias.IsEmpty() {
		return s.Alias.Strings()
	}
	return s.Alia.Strings()
}

// Host returns the program host nickname.
func (s *Song) Host() string {
	if s.DJ == nil {
		return ""
	}
	return s.DJ.Nickname
}

// Brand returns the program brand (the show name).
func (s *Song) Brand() string {
	if s.DJ == nil {
		return ""
	}
	return s.DJ.Brand
}

// ArtistNames returns the explicit album artists. An "artists" list takes
// precedence over a single "artist" object, even when the list has no names.
func (a *Album) ArtistNames() []string {
	if a.Artists != nil {
		return artistNames(a.Artists)
	}
	if a.Artist != nil && a.Artist.Name != "" {
		return []string{a.Artist.Name}
	}
	return nil
}

// TrackCount returns the album "size" field.
func (a *Album) TrackCount() int {
	return positive(a.Size)
}

// DiscCount returns the album "cds" field, which may be an integer or a numeric string.
func (a *Album) DiscCount() int {
	n, _ := ParseDiscDesignator(a.CDs)
	return n
}

// Genres returns the string entries of the album tags.
func (a *Album) Genres() []string {
	if _, ok := a.Tags.String(); ok {
		return nil
	}
	return a.Tags.Strings()
}

// PublishedAt returns the publish time in milliseconds since the Unix epoch.
// It reports false when the field is absent, zero or not a number.
func (a *Album) PublishedAt() (int64, bool) {
	if ms, ok := a.PublishTime.Int(); ok {
		return ms, ms != 0
	}
	if ms, ok := a.PublishTime.Float(); ok && ms >= -(1<<62) && ms <= 1<<62 {
		return int64(ms), ms != 0
	}
	return 0, false
}

// Publisher returns the album company.
func (a *Album) Publisher() string {
	company, _ := a.Company.String()
	return company
}

func artistNames(artists []Artist) []string {
	var names []string
	for _, a := range artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}
