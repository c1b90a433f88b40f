package mp3

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"golang.org/x/text/encoding/charmap"

	binutil "github.com/simonhull/mpegscan/internal/binary"
	"github.com/simonhull/mpegscan/internal/types"
)

// ID3v1 field widths.
const (
	id3v1TextLength    = 30
	id3v1YearLength    = 4
	id3v1CommentLength = 28
)

var id3v1Genres = []string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient", "Trip-Hop",
	"Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical", "Instrumental", "Acid",
	"House", "Game", "Sound Clip", "Gospel", "Noise", "Alternative Rock", "Bass",
	"Soul", "Punk", "Space", "Meditative", "Instrumental Pop", "Instrumental Rock",
	"Ethnic", "Gothic", "Darkwave", "Techno-Industrial", "Electronic", "Pop-Folk",
	"Eurodance", "Dream", "Southern Rock", "Comedy", "Cult", "Gangsta", "Top 40",
	"Christian Rap", "Pop/Funk", "Jungle", "Native US", "Cabaret", "New Wave",
	"Psychadelic", "Rave", "Showtunes", "Trailer", "Lo-Fi", "Tribal", "Acid Punk",
	"Acid Jazz", "Polka", "Retro", "Musical", "Rock & Roll", "Hard Rock",
}

// Tags decodes the descriptive fields of an assembled tag.
//
// ID3v2 tags are decoded with github.com/bogem/id3v2; versions it does not
// support fail with an error. ID3v1 text is ISO-8859-1.
func (f *ID3Frame) Tags() (types.Tags, error) {
	if f.data == nil {
		return types.Tags{}, errors.New("id3 tag not assembled")
	}
	if f.version == 1 {
		return parseID3v1(f.data)
	}
	return parseID3v2(f.data)
}

func parseID3v2(p []byte) (types.Tags, error) {
	tag, err := id3v2.ParseReader(bytes.NewReader(p), id3v2.Options{Parse: true})
	if err != nil {
		return types.Tags{}, fmt.Errorf("parse id3v2: %w", err)
	}

	tags := types.Tags{
		Title:  tag.Title(),
		Artist: tag.Artist(),
		Album:  tag.Album(),
		Year:   tag.Year(),
		Genre:  tag.Genre(),
		Source: types.KindID3v2,
	}

	if tf := tag.GetTextFrame(tag.CommonID("Track number/Position in set")); tf.Text != "" {
		track, _, _ := strings.Cut(tf.Text, "/")
		tags.Track, _ = strconv.Atoi(strings.TrimSpace(track))
	}

	for _, frame := range tag.GetFrames(tag.CommonID("Comments")) {
		if comment, ok := frame.(id3v2.CommentFrame); ok && comment.Text != "" {
			tags.Comment = comment.Text
			break
		}
	}

	return tags, nil
}

func parseID3v1(p []byte) (types.Tags, error) {
	cr := binutil.NewChainReader(binutil.NewReader(p, len(id3v1Magic), binutil.BigEndian))
	title := cr.Bytes(id3v1TextLength, "id3v1 title")
	artist := cr.Bytes(id3v1TextLength, "id3v1 artist")
	album := cr.Bytes(id3v1TextLength, "id3v1 album")
	year := cr.Bytes(id3v1YearLength, "id3v1 year")
	comment := cr.Bytes(id3v1CommentLength, "id3v1 comment")
	zero := binutil.ReadChained[uint8](cr, "id3v1 zero byte")
	track := binutil.ReadChained[uint8](cr, "id3v1 track")
	genre := binutil.ReadChained[uint8](cr, "id3v1 genre")
	if err := cr.Error(); err != nil {
		return types.Tags{}, err
	}

	tags := types.Tags{
		Title:  latin1(title),
		Artist: latin1(artist),
		Album:  latin1(album),
		Year:   latin1(year),
		Source: types.KindID3v1,
	}

	// ID3v1.1 stores the track in the last comment byte after a zero.
	if zero == 0 && track != 0 {
		tags.Comment = latin1(comment)
		tags.Track = int(track)
	} else {
		tags.Comment = latin1(append(comment[:len(comment):len(comment)], zero, track))
	}

	if int(genre) < len(id3v1Genres) {
		tags.Genre = id3v1Genres[genre]
	}

	return tags, nil
}

// latin1 decodes a NUL-padded ISO-8859-1 field.
func latin1(p []byte) string {
	if i := bytes.IndexByte(p, 0); i >= 0 {
		p = p[:i]
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(p)
	if err != nil {
		s = p
	}
	return strings.TrimSpace(string(s))
}
