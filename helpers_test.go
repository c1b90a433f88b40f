package mpegscan

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/bogem/id3v2/v2"
)

// frameLength is the length of the MPEG-1 Layer III 128kbps 44.1kHz frames
// built by mpegFrame.
const frameLength = 417

// mpegFrame returns an unpadded MPEG-1 Layer III 128kbps 44.1kHz stereo
// frame. The payload is filled with fill.
func mpegFrame(fill byte) []byte {
	frame := bytes.Repeat([]byte{fill}, frameLength)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0x00})
	return frame
}

// mpegStream returns n consecutive frames with zeroed payload.
func mpegStream(n int) []byte {
	var p []byte
	for range n {
		p = append(p, mpegFrame(0)...)
	}
	return p
}

// xingFrame returns a frame carrying a Xing header with every field set:
// 1000 frames, 51200 bytes, toc[i] = 2*i and quality 57.
func xingFrame() []byte {
	frame := mpegFrame(0)
	pos := 4 + 32
	copy(frame[pos:], "Xing")
	binary.BigEndian.PutUint32(frame[pos+4:], 0x0F)
	binary.BigEndian.PutUint32(frame[pos+8:], 1000)
	binary.BigEndian.PutUint32(frame[pos+12:], 51200)
	for i := range 100 {
		frame[pos+16+i] = byte(2 * i)
	}
	binary.BigEndian.PutUint32(frame[pos+116:], 57)
	return frame
}

// riffPrologue returns the RIFF/WAVE header, a fmt chunk with formatTag, a
// fact chunk and the data chunk header.
func riffPrologue(formatTag uint16) []byte {
	var p []byte
	le32 := func(v uint32) { p = binary.LittleEndian.AppendUint32(p, v) }

	p = append(p, "RIFF"...)
	le32(0)
	p = append(p, "WAVE"...)

	p = append(p, "fmt "...)
	le32(30)
	p = binary.LittleEndian.AppendUint16(p, formatTag)
	p = append(p, make([]byte, 28)...)

	p = append(p, "fact"...)
	le32(4)
	le32(1152 * 10)

	p = append(p, "data"...)
	le32(0)
	return p
}

// id3v1Tag returns an ID3v1.1 tag.
func id3v1Tag(title, artist string, track byte) []byte {
	p := make([]byte, 128)
	copy(p, "TAG")
	copy(p[3:33], title)
	copy(p[33:63], artist)
	copy(p[93:97], "1999")
	p[126] = track
	p[127] = 17 // Rock
	return p
}

// id3v2Tag returns an ID3v2.4 tag written by github.com/bogem/id3v2.
func id3v2Tag(t testing.TB, title, artist string) []byte {
	t.Helper()

	tag := id3v2.NewEmptyTag()
	tag.SetTitle(title)
	tag.SetArtist(artist)
	tag.SetAlbum("Frames")
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    "eng",
		Description: "",
		Text:        "synthetic",
	})

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		t.Fatalf("write id3v2 tag: %v", err)
	}
	return buf.Bytes()
}

// id3v2Padding returns an ID3v2.3 tag whose body is size zero bytes.
func id3v2Padding(size int) []byte {
	p := []byte{'I', 'D', '3', 3, 0, 0,
		byte(size >> 21 & 0x7F), byte(size >> 14 & 0x7F), byte(size >> 7 & 0x7F), byte(size & 0x7F)}
	return append(p, make([]byte, size)...)
}

// apeTag returns an APEv2 footer-only tag with a size field of 32.
func apeTag() []byte {
	p := append([]byte("APETAGEX"), make([]byte, 24)...)
	binary.LittleEndian.PutUint32(p[8:], 2000)
	binary.LittleEndian.PutUint32(p[12:], 32)
	return append(p, make([]byte, 32)...)
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// readAll drains r and returns the kinds and offsets of the frames.
func readAll(r *Reader) (kinds []Kind, offsets []int64) {
	for r.Next() {
		kinds = append(kinds, r.Frame().Kind())
		offsets = append(offsets, r.Offset())
	}
	return kinds, offsets
}

func countKind(kinds []Kind, k Kind) int {
	n := 0
	for _, kind := range kinds {
		if kind == k {
			n++
		}
	}
	return n
}
