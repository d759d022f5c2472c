package tags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Common cover art filenames to look for next to downloaded tracks.
var coverArtFilenames = []string{
	"cover.jpg", "cover.jpeg", "cover.png",
	"folder.jpg", "folder.jpeg", "folder.png",
	"album.jpg", "album.jpeg", "album.png",
	"front.jpg", "front.jpeg", "front.png",
}

// ExtractCoverArt reads the embedded cover picture of an audio file.
// Returns nil data when the file has no picture.
func ExtractCoverArt(path string) (data []byte, mimeType string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, "", err
	}

	pic := m.Picture()
	if pic == nil {
		return nil, "", nil
	}

	return pic.Data, pic.MIMEType, nil
}

// FindFolderCover returns the path of a common cover image file in dir
// (cover.jpg, folder.png, ...), or "" when there is none.
func FindFolderCover(dir string) string {
	for _, filename := range coverArtFilenames {
		for _, name := range []string{filename, strings.ToUpper(filename)} {
			imgPath := filepath.Join(dir, name)
			if info, err := os.Stat(imgPath); err == nil && info.Mode().IsRegular() {
				return imgPath
			}
		}
	}
	return ""
}
