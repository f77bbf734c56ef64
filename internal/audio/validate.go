package audio

import (
	"bytes"
	"fmt"
)

// headerSize is how many leading bytes ValidateAudio looks at
const headerSize = 12

// ValidateAudio checks that header starts like a supported audio file
// (MP3, AAC/ADTS, WAV, OGG or FLAC)
func ValidateAudio(header []byte) error {
	if len(header) == 0 {
		return fmt.Errorf("audio file is empty")
	}

	switch {
	case bytes.HasPrefix(header, []byte("ID3")):
		return nil
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		// MPEG / ADTS frame sync
		return nil
	case len(header) >= 12 && bytes.HasPrefix(header, []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return nil
	case bytes.HasPrefix(header, []byte("OggS")):
		return nil
	case bytes.HasPrefix(header, []byte("fLaC")):
		return nil
	}

	preview := header
	if len(preview) > 8 {
		preview = preview[:8]
	}
	return fmt.Errorf("not an audio file (starts with %q)", preview)
}
