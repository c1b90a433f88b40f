package types

import (
	"fmt"
	"time"
)

// StreamInfo represents technical properties of an MPEG audio stream.
//
// StreamInfo is derived from the frames yielded while scanning a stream:
// the first audio frame fixes codec, sample rate and channel layout, and the
// Xing/Info header (when present) supplies the exact frame count.
type StreamInfo struct {
	Codec     string // "MPEG-1 Layer III"
	Container string // "RIFF/WAVE" when wrapped, empty for bare streams
	Duration  time.Duration
	Frames    int
	// SampleRate in Hz.
	SampleRate int
	Channels   int
	// Bitrate in bits per second. For VBR streams this is the average.
	Bitrate   int
	VBR       bool
	Protected bool
}

// String returns a human-readable representation of the stream info.
// Example output: "MPEG-1 Layer III 44.1kHz stereo 128kbps".
func (s StreamInfo) String() string {
	sampleRate := fmt.Sprintf("%.1fkHz", float64(s.SampleRate)/1000)

	quality := ""
	if s.Bitrate > 0 {
		quality = fmt.Sprintf("%dkbps", s.Bitrate/1000)
		if s.VBR {
			quality += " VBR"
		}
	}

	parts := []string{s.Codec, sampleRate, channelDescription(s.Channels), quality}
	if s.Container != "" {
		parts = append(parts, "("+s.Container+")")
	}

	return join(parts, " ")
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// join concatenates strings with a separator, skipping empty strings.
func join(parts []string, sep string) string {
	var result string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if result != "" {
			result += sep
		}
		result += part
	}
	return result
}
