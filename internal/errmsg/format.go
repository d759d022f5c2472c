// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Configuration
	OpConfigLoad Op = "load configuration"

	// Record loading
	OpRecordLoad   Op = "load song record"
	OpLyricsLoad   Op = "load lyrics"
	OpManifestLoad Op = "load album manifest"
	OpListingLoad  Op = "load song listing"
	OpCatalogOpen  Op = "open catalog"

	// Tagging
	OpTagFile     Op = "tag file"
	OpTagAlbum    Op = "tag album"
	OpTagPlaylist Op = "tag playlist"
	OpTagSongs    Op = "tag songs"

	// Cover art
	OpCoverPrepare Op = "prepare cover art"
	OpCoverExtract Op = "extract cover art"

	// Inspection
	OpInspectTags  Op = "read file tags"
	OpInspectAudio Op = "read audio properties"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
