package tags

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/llehouerou/go-mp3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"

	"github.com/llehouerou/ncmtag/internal/metadata"
)

// TXXX descriptions owned by the ID3 encoder.
const (
	txxxAlias       = "ALIAS"
	txxxTranslation = "LYRIC_TRANSLATION"
)

// id3MultiSeparator joins multi-valued text frames in ID3v2.3.
const id3MultiSeparator = "/"

// id3Language is the ISO-639-2 code of COMM and USLT frames.
const id3Language = "eng"

const (
	id3HeaderSize      = 10
	id3FrameHeaderSize = 10
	id3MaxTagSize      = 1<<28 - 1
)

// ownedID3Frames are cleared on every write. TXXX is handled per description.
var ownedID3Frames = []string{
	"APIC", "TPE1", "TPE2", "TIT2", "TALB", "TRCK", "TPOS", "TCOM", "TCON",
	"TDRC", "TYER", "TDAT", "COMM", "USLT",
}

// ID3Encoder writes ID3v2.3 tags into MP3 files.
//
// The tag is rendered from scratch on every write: frames the encoder does
// not own are carried over, frames are sorted by id then body, and no padding
// is added, so encoding the same metadata twice yields the same bytes.
type ID3Encoder struct {
	Log *log.Entry
}

// Encode validates the MPEG stream, clears the owned frames and writes the
// new ones. An invalid stream yields ErrInvalidContainer before any change.
func (e *ID3Encoder) Encode(path string, m *metadata.Metadata, art *Artwork) error {
	if err := validateMPEG(path); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	frames, audioStart, err := e.keptID3Frames(path, data)
	if err != nil {
		return err
	}
	owned, err := ownedID3FramesFor(m, art)
	if err != nil {
		return fmt.Errorf("encode frames: %w", err)
	}
	frames = append(frames, owned...)
	sortID3Frames(frames)

	out, err := renderID3Tag(frames)
	if err != nil {
		return err
	}
	out = append(out, data[audioStart:]...)

	if err := replaceFile(path, out); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

// validateMPEG checks that the file holds a decodable MPEG audio stream.
func validateMPEG(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidContainer, path, err)
	}
	if decoder.SampleRate() == 0 {
		return fmt.Errorf("%w: %s: invalid sample rate", ErrInvalidContainer, path)
	}
	return nil
}

// keptID3Frames parses the existing tag in data and returns the frames the
// encoder does not own, along with the offset of the audio after the tag.
// ID3v2.2 tags cannot be parsed and are dropped whole.
func (e *ID3Encoder) keptID3Frames(path string, data []byte) ([]id3Frame, int, error) {
	tagSize := id3v2TagSize(data)
	if tagSize >= len(data) && tagSize > 0 {
		return nil, 0, fmt.Errorf("ID3v2 tag size (%d) exceeds file size (%d)", tagSize, len(data))
	}

	tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		loggerOrDefault(e.Log).WithField("path", path).Debug("Dropping unsupported ID3v2 tag")
		return nil, tagSize, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("parse tags: %w", err)
	}

	var kept []id3Frame
	for id, frames := range tag.AllFrames() {
		if slices.Contains(ownedID3Frames, id) {
			continue
		}
		for _, f := range frames {
			if txxx, ok := f.(id3v2.UserDefinedTextFrame); ok && isOwnedTXXX(txxx.Description) {
				continue
			}
			frame, err := foreignID3Frame(id, f)
			if err != nil {
				return nil, 0, fmt.Errorf("re-encode %s frame: %w", id, err)
			}
			kept = append(kept, frame)
		}
	}
	return kept, tagSize, nil
}

// foreignID3Frame re-encodes a frame the encoder does not own. Text keeps
// its original encoding unless ID3v2.3 cannot carry it.
func foreignID3Frame(id string, f id3v2.Framer) (id3Frame, error) {
	switch fr := f.(type) {
	case id3v2.TextFrame:
		text := strings.ReplaceAll(strings.TrimRight(fr.Text, "\x00"), "\x00", id3MultiSeparator)
		return newFrameBody(keptTextEncoding(fr.Encoding, text)).
			text(text).
			frame(id)
	case id3v2.UserDefinedTextFrame:
		return newFrameBody(keptTextEncoding(fr.Encoding, fr.Description, fr.Value)).
			text(fr.Description).terminator().
			text(fr.Value).
			frame(id)
	default:
		var buf bytes.Buffer
		if _, err := f.WriteTo(&buf); err != nil {
			return id3Frame{}, err
		}
		return id3Frame{id: id, body: buf.Bytes()}, nil
	}
}

func isOwnedTXXX(description string) bool {
	return strings.EqualFold(description, txxxAlias) || strings.EqualFold(description, txxxTranslation)
}

// ownedID3FramesFor builds the frames for every present metadata value.
func ownedID3FramesFor(m *metadata.Metadata, art *Artwork) ([]id3Frame, error) {
	var frames []id3Frame
	var errs []error
	add := func(f id3Frame, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		frames = append(frames, f)
	}
	addText := func(id, value string) {
		if value != "" {
			add(newFrameBody(id3TextEncoding(value)).text(value).frame(id))
		}
	}
	addTXXX := func(description, value string) {
		if value != "" {
			add(newFrameBody(id3TextEncoding(description, value)).
				text(description).terminator().
				text(value).
				frame("TXXX"))
		}
	}

	addText("TIT2", m.Title)
	addText("TALB", m.Album)
	addText("TPE1", strings.Join(m.Artists, id3MultiSeparator))
	addText("TPE2", m.AlbumArtist)
	addText("TRCK", m.TrackPosition())
	addText("TPOS", m.DiscPosition())
	addText("TCOM", m.Composer)
	addText("TCON", m.Genre())

	// ID3v2.3 splits the recording date into TYER (YYYY) and TDAT (DDMM)
	switch {
	case len(m.Date) == len("2006-01-02"):
		addText("TYER", m.Date[:4])
		addText("TDAT", m.Date[8:10]+m.Date[5:7])
	case m.Year != "":
		addText("TYER", m.Year)
	}

	if m.Comment != "" {
		add(newFrameBody(id3TextEncoding(m.Comment)).
			latin1(id3Language).
			text("").terminator().
			text(m.Comment).
			frame("COMM"))
	}

	addTXXX(txxxAlias, strings.Join(m.Aliases, id3MultiSeparator))

	if m.Lyrics != "" {
		add(newFrameBody(id3TextEncoding(m.Lyrics)).
			latin1(id3Language).
			text("").terminator().
			text(m.Lyrics).
			frame("USLT"))
	}
	addTXXX(txxxTranslation, m.TranslatedLyrics)

	if art != nil && len(art.Data) > 0 {
		add(newFrameBody(id3TextEncoding(coverDescription)).
			latin1(art.MIME).latin1("\x00").
			raw([]byte{byte(id3v2.PTFrontCover)}).
			text(coverDescription).terminator().
			raw(art.Data).
			frame("APIC"))
	}

	return frames, errors.Join(errs...)
}

// id3Frame is an encoded ID3v2.3 frame body keyed by its frame id.
type id3Frame struct {
	id   string
	body []byte
}

// frameBody builds an ID3 frame body that starts with its text encoding
// byte. The first encoding error sticks and is returned by frame.
type frameBody struct {
	buf bytes.Buffer
	enc id3v2.Encoding
	err error
}

func newFrameBody(enc id3v2.Encoding) *frameBody {
	b := &frameBody{enc: enc}
	b.buf.WriteByte(enc.Key)
	return b
}

// text appends s in the body encoding. UTF-16 text always carries a BOM,
// even when empty.
func (b *frameBody) text(s string) *frameBody {
	if b.err != nil {
		return b
	}
	encoded, err := textEncoder(b.enc).Bytes([]byte(s))
	if err != nil {
		b.err = fmt.Errorf("encode text as %s: %w", b.enc, err)
		return b
	}
	b.buf.Write(encoded)
	return b
}

func (b *frameBody) terminator() *frameBody {
	b.buf.Write(b.enc.TerminationBytes)
	return b
}

// latin1 appends fixed ASCII fields such as languages and MIME types.
func (b *frameBody) latin1(s string) *frameBody {
	b.buf.WriteString(s)
	return b
}

func (b *frameBody) raw(p []byte) *frameBody {
	b.buf.Write(p)
	return b
}

func (b *frameBody) frame(id string) (id3Frame, error) {
	if b.err != nil {
		return id3Frame{}, fmt.Errorf("%s: %w", id, b.err)
	}
	return id3Frame{id: id, body: b.buf.Bytes()}, nil
}

func textEncoder(enc id3v2.Encoding) *encoding.Encoder {
	switch {
	case enc.Equals(id3v2.EncodingISO):
		return charmap.ISO8859_1.NewEncoder()
	case enc.Equals(id3v2.EncodingUTF16BE):
		return xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM).NewEncoder()
	default:
		return xunicode.UTF16(xunicode.LittleEndian, xunicode.UseBOM).NewEncoder()
	}
}

// id3TextEncoding picks ISO-8859-1 when every value fits in it and UTF-16
// otherwise. ID3v2.3 has no UTF-8.
func id3TextEncoding(values ...string) id3v2.Encoding {
	enc := charmap.ISO8859_1.NewEncoder()
	for _, v := range values {
		if _, err := enc.String(v); err != nil {
			return id3v2.EncodingUTF16
		}
	}
	return id3v2.EncodingISO
}

// keptTextEncoding keeps UTF-16 encodings as they are. ISO-8859-1 stays when
// the text still fits; UTF-8 from ID3v2.4 tags is re-encoded.
func keptTextEncoding(enc id3v2.Encoding, values ...string) id3v2.Encoding {
	if enc.Equals(id3v2.EncodingUTF16) || enc.Equals(id3v2.EncodingUTF16BE) {
		return enc
	}
	return id3TextEncoding(values...)
}

func sortID3Frames(frames []id3Frame) {
	slices.SortFunc(frames, func(a, b id3Frame) int {
		if c := strings.Compare(a.id, b.id); c != 0 {
			return c
		}
		return bytes.Compare(a.body, b.body)
	})
}

// renderID3Tag serializes frames as an unpadded ID3v2.3 tag. No frames
// yields no tag at all.
func renderID3Tag(frames []id3Frame) ([]byte, error) {
	if len(frames) == 0 {
		return nil, nil
	}

	size := 0
	for _, f := range frames {
		size += id3FrameHeaderSize + len(f.body)
	}
	if size > id3MaxTagSize {
		return nil, fmt.Errorf("ID3v2 tag too large: %d bytes", size)
	}

	out := make([]byte, 0, id3HeaderSize+size)
	out = append(out, id3Magic...)
	out = append(out, 3, 0, 0) // version 2.3.0, no flags
	out = append(out,
		byte(size>>21&0x7f), byte(size>>14&0x7f), byte(size>>7&0x7f), byte(size&0x7f))

	for _, f := range frames {
		out = append(out, f.id...)
		out = binary.BigEndian.AppendUint32(out, uint32(len(f.body)))
		out = append(out, 0, 0) // frame flags
		out = append(out, f.body...)
	}
	return out, nil
}

// replaceFile writes data to a sibling temp file and renames it over path,
// keeping the original permissions. path is untouched on failure.
func replaceFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	tmp := path + "-ncmtag"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}

// id3v2TagSize returns the total size of an ID3v2 tag at the start of data,
// header and footer included, or 0 when data does not start with one.
func id3v2TagSize(data []byte) int {
	if len(data) < id3HeaderSize || string(data[:3]) != id3Magic {
		return 0
	}

	// Size is a synchsafe integer: each byte uses only 7 bits
	size := int(data[6]&0x7f)<<21 | int(data[7]&0x7f)<<14 | int(data[8]&0x7f)<<7 | int(data[9]&0x7f)
	size += id3HeaderSize

	// Footer flag (bit 4 of flags byte) - ID3v2.4 only
	if data[5]&0x10 != 0 {
		size += 10
	}
	return size
}
