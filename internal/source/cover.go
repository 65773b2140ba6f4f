package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/llehouerou/metaread/internal/tags"
)

// Common cover art filenames to look for in album folders.
var coverArtFilenames = []string{
	"cover.jpg", "cover.jpeg", "cover.png",
	"folder.jpg", "folder.jpeg", "folder.png",
	"album.jpg", "album.jpeg", "album.png",
	"front.jpg", "front.jpeg", "front.png",
	"artwork.jpg", "artwork.jpeg", "artwork.png",
}

// FolderArt looks for a cover image next to the audio file at path.
// It returns nil when the folder has none.
func FolderArt(path string) *tags.Art {
	dir := filepath.Dir(path)
	for _, filename := range coverArtFilenames {
		data, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			// Try case-insensitive match
			data, err = os.ReadFile(filepath.Join(dir, strings.ToUpper(filename)))
			if err != nil {
				continue
			}
		}
		if len(data) == 0 {
			continue
		}

		mimeType := tags.DetectImageMIME(data)
		if mimeType == "application/octet-stream" {
			switch strings.ToLower(filepath.Ext(filename)) {
			case ".jpg", ".jpeg":
				mimeType = "image/jpeg"
			case ".png":
				mimeType = "image/png"
			}
		}
		return &tags.Art{Data: data, MIMEType: mimeType}
	}
	return nil
}
