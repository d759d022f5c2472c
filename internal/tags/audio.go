package tags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/llehouerou/go-mp3"
)

// ReadAudioInfo reads audio stream properties (duration, format, sample rate).
func ReadAudioInfo(path string) (*AudioInfo, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ExtMP3:
		return readMP3AudioInfo(path)
	case ExtFLAC:
		return readFLACStreamInfo(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// readMP3AudioInfo extracts audio info from an MP3 file.
func readMP3AudioInfo(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, errors.New("mp3: invalid sample rate")
	}

	sampleCount := max(decoder.SampleCount(), 0)

	duration := time.Duration(float64(sampleCount) / float64(sampleRate) * float64(time.Second))

	return &AudioInfo{
		Duration:   duration,
		Format:     FormatMP3,
		SampleRate: sampleRate,
		BitDepth:   16, // MP3 decodes to 16-bit
	}, nil
}

// readFLACStreamInfo extracts audio info from FLAC streaminfo metadata.
func readFLACStreamInfo(path string) (*AudioInfo, error) {
	f, _, err := parseFLACFile(path)
	if err != nil {
		return nil, err
	}

	info, err := f.GetStreamInfo()
	if err != nil {
		return nil, fmt.Errorf("read streaminfo: %w", err)
	}

	duration := time.Duration(0)
	if info.SampleRate > 0 {
		duration = time.Duration(float64(info.SampleCount) / float64(info.SampleRate) * float64(time.Second))
	}

	return &AudioInfo{
		Duration:   duration,
		Format:     FormatFLAC,
		SampleRate: info.SampleRate,
		BitDepth:   info.BitDepth,
	}, nil
}
