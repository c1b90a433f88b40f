package mpegscan

import (
	"bytes"
	"encoding/binary"
	"errors"
	"runtime"
	"strings"
	"testing"
	"testing/iotest"
)

func TestReader_CleanStream(t *testing.T) {
	const n = 20

	r := NewReader(bytes.NewReader(mpegStream(n)))
	kinds, offsets := readAll(r)

	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kinds) != n {
		t.Fatalf("got %d frames, want %d", len(kinds), n)
	}
	for i, off := range offsets {
		if want := int64(i * frameLength); off != want {
			t.Errorf("frame %d at offset %d, want %d", i, off, want)
		}
	}

	stats := r.Stats()
	if stats.Resyncs != 0 || stats.SkippedBytes != 0 {
		t.Errorf("unexpected resync stats %+v", stats)
	}
	if len(r.Warnings()) != 0 {
		t.Errorf("unexpected warnings %v", r.Warnings())
	}
}

func TestReader_FrameContents(t *testing.T) {
	r := NewReader(bytes.NewReader(mpegStream(2)))
	if !r.Next() {
		t.Fatalf("Next() = false: %v", r.Err())
	}

	f, ok := r.Frame().(*MPEGFrame)
	if !ok {
		t.Fatalf("frame is %T, want *MPEGFrame", r.Frame())
	}
	if len(f.Bytes()) != frameLength || f.Len() != frameLength {
		t.Errorf("frame has %d bytes, Len() = %d", len(f.Bytes()), f.Len())
	}
	if h := f.Header(); h.Version() != MPEG1 || h.Layer() != Layer3 || h.Bitrate() != 128 {
		t.Errorf("unexpected header %s", h)
	}
	if f.Header().SideInfo() == nil {
		t.Error("side information not captured")
	}
}

func TestReader_Empty(t *testing.T) {
	for _, data := range [][]byte{nil, {0xFF}, {0xFF, 0xFB, 0x90, 0x00}} {
		r := NewReader(bytes.NewReader(data))
		if r.Next() {
			t.Errorf("%x: unexpected frame %s", data, r.Frame().Kind())
		}
		if err := r.Err(); err != nil {
			t.Errorf("%x: unexpected error %v", data, err)
		}
	}
}

func TestReader_CorruptedHeader(t *testing.T) {
	const n, bad = 10, 4

	data := mpegStream(n)
	data[bad*frameLength] = 0x00

	r := NewReader(bytes.NewReader(data))
	kinds, offsets := readAll(r)

	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kinds) != n-1 {
		t.Fatalf("got %d frames, want %d", len(kinds), n-1)
	}
	if offsets[bad] != (bad+1)*frameLength {
		t.Errorf("frame after corruption at offset %d, want %d", offsets[bad], (bad+1)*frameLength)
	}

	stats := r.Stats()
	if stats.Resyncs != 1 {
		t.Errorf("Resyncs = %d, want 1", stats.Resyncs)
	}
	if stats.SkippedBytes != frameLength {
		t.Errorf("SkippedBytes = %d, want %d", stats.SkippedBytes, frameLength)
	}

	warnings := r.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if warnings[0].Offset != bad*frameLength || warnings[0].Stage != "sync" {
		t.Errorf("unexpected warning %v", warnings[0])
	}
}

func TestReader_BodyCorruption(t *testing.T) {
	const n = 8

	data := mpegStream(n)
	data[3*frameLength+200] ^= 0xFF

	r := NewReader(bytes.NewReader(data))
	kinds, _ := readAll(r)

	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kinds) != n {
		t.Errorf("got %d frames, want %d", len(kinds), n)
	}
	if r.Stats().Resyncs != 0 {
		t.Errorf("Resyncs = %d, want 0", r.Stats().Resyncs)
	}
}

func TestReader_GarbagePrefix(t *testing.T) {
	const n = 5
	garbage := bytes.Repeat([]byte{0x42}, 100)

	r := NewReader(bytes.NewReader(concat(garbage, mpegStream(n))))
	kinds, offsets := readAll(r)

	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kinds) != n {
		t.Fatalf("got %d frames, want %d", len(kinds), n)
	}
	if offsets[0] != 100 {
		t.Errorf("first frame at offset %d, want 100", offsets[0])
	}
	if stats := r.Stats(); stats.Resyncs != 1 || stats.SkippedBytes != 100 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestReader_UnconfirmedCandidate(t *testing.T) {
	// A lone header inside garbage is not followed by another frame.
	garbage := bytes.Repeat([]byte{0x42}, 600)
	copy(garbage[50:], []byte{0xFF, 0xFB, 0x90, 0x00})

	data := concat(mpegStream(2), garbage, mpegStream(3))
	r := NewReader(bytes.NewReader(data))
	kinds, offsets := readAll(r)

	if len(kinds) != 5 {
		t.Fatalf("got %d frames, want 5", len(kinds))
	}
	if want := int64(2*frameLength + 600); offsets[2] != want {
		t.Errorf("frame after garbage at offset %d, want %d", offsets[2], want)
	}
	if r.Stats().SkippedBytes != 600 {
		t.Errorf("SkippedBytes = %d, want 600", r.Stats().SkippedBytes)
	}
}

func TestReader_StrictParsing(t *testing.T) {
	data := concat(mpegStream(2), []byte{1, 2, 3, 4, 5, 6}, mpegStream(2))

	r := NewReader(bytes.NewReader(data), WithStrictParsing())
	kinds, _ := readAll(r)

	if len(kinds) != 2 {
		t.Errorf("got %d frames, want 2", len(kinds))
	}

	var invalid *InvalidDataError
	if !errors.As(r.Err(), &invalid) {
		t.Fatalf("expected *InvalidDataError, got %T: %v", r.Err(), r.Err())
	}
	if invalid.Offset != 2*frameLength {
		t.Errorf("Offset = %d, want %d", invalid.Offset, 2*frameLength)
	}
	if r.Next() {
		t.Error("Next() after error should return false")
	}
}

func TestReader_TrailingBytes(t *testing.T) {
	data := concat(mpegStream(3), []byte{0xAA, 0xBB, 0xCC})

	t.Run("skip", func(t *testing.T) {
		r := NewReader(bytes.NewReader(data))
		kinds, _ := readAll(r)

		if err := r.Err(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(kinds) != 3 {
			t.Errorf("got %d frames, want 3", len(kinds))
		}
		if r.Stats().SkippedBytes != 3 {
			t.Errorf("SkippedBytes = %d, want 3", r.Stats().SkippedBytes)
		}
		if len(r.Warnings()) != 1 {
			t.Errorf("got %d warnings, want 1", len(r.Warnings()))
		}
	})

	t.Run("strict", func(t *testing.T) {
		r := NewReader(bytes.NewReader(data), WithStrictParsing())
		readAll(r)

		var invalid *InvalidDataError
		if !errors.As(r.Err(), &invalid) {
			t.Fatalf("expected *InvalidDataError, got %v", r.Err())
		}
		if invalid.Offset != 3*frameLength {
			t.Errorf("Offset = %d, want %d", invalid.Offset, 3*frameLength)
		}
		if !errors.Is(r.Err(), ErrEndOfStream) {
			t.Error("error should wrap ErrEndOfStream")
		}
	})
}

func TestReader_TruncatedFrame(t *testing.T) {
	data := concat(mpegStream(3), mpegFrame(0)[:200])

	t.Run("skip", func(t *testing.T) {
		r := NewReader(bytes.NewReader(data))
		kinds, _ := readAll(r)

		if err := r.Err(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(kinds) != 3 {
			t.Errorf("got %d frames, want 3", len(kinds))
		}
		if r.Stats().SkippedBytes != 200 {
			t.Errorf("SkippedBytes = %d, want 200", r.Stats().SkippedBytes)
		}
	})

	t.Run("strict", func(t *testing.T) {
		r := NewReader(bytes.NewReader(data), WithStrictParsing())
		kinds, _ := readAll(r)

		if len(kinds) != 3 {
			t.Errorf("got %d frames, want 3", len(kinds))
		}
		var invalid *InvalidDataError
		if !errors.As(r.Err(), &invalid) || !errors.Is(r.Err(), ErrEndOfStream) {
			t.Fatalf("expected *InvalidDataError wrapping ErrEndOfStream, got %v", r.Err())
		}
		if invalid.Offset != 3*frameLength {
			t.Errorf("Offset = %d, want %d", invalid.Offset, 3*frameLength)
		}
	})
}

func TestReader_OversizedTagLength(t *testing.T) {
	ape := append([]byte("APETAGEX"), make([]byte, 48)...)
	binary.LittleEndian.PutUint32(ape[8:], 2000)
	binary.LittleEndian.PutUint32(ape[12:], 0xFFFFFF00)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	r := NewReader(bytes.NewReader(ape))
	kinds, _ := readAll(r)

	runtime.ReadMemStats(&after)

	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kinds) != 0 {
		t.Errorf("got kinds %v, want none", kinds)
	}
	if grown := after.TotalAlloc - before.TotalAlloc; grown > 1<<20 {
		t.Errorf("reading %d bytes allocated %d bytes", len(ape), grown)
	}
	if w := r.Warnings(); len(w) != 1 || !strings.Contains(w[0].Message, "truncated") {
		t.Errorf("Warnings() = %v, want one truncation warning", w)
	}
}

func TestReader_RIFF(t *testing.T) {
	data := concat(riffPrologue(0x55), mpegStream(4))

	t.Run("all frames", func(t *testing.T) {
		r := NewReader(bytes.NewReader(data))
		kinds, _ := readAll(r)

		want := []Kind{KindRIFFHeader, KindRIFFFmt, KindRIFFFact, KindRIFFData, KindMPEG, KindMPEG, KindMPEG, KindMPEG}
		if len(kinds) != len(want) {
			t.Fatalf("got kinds %v, want %v", kinds, want)
		}
		for i := range want {
			if kinds[i] != want[i] {
				t.Errorf("frame %d is %s, want %s", i, kinds[i], want[i])
			}
		}
		if !r.HasRIFF() {
			t.Error("HasRIFF() = false")
		}
	})

	t.Run("suppressed", func(t *testing.T) {
		r := NewReader(bytes.NewReader(data), WithRIFFFrames(false))
		kinds, offsets := readAll(r)

		if len(kinds) != 4 || countKind(kinds, KindMPEG) != 4 {
			t.Fatalf("got kinds %v, want 4 MPEG frames", kinds)
		}
		if offsets[0] != int64(len(riffPrologue(0x55))) {
			t.Errorf("first audio frame at %d, want %d", offsets[0], len(riffPrologue(0x55)))
		}
		if r.Stats().Suppressed != 4 {
			t.Errorf("Suppressed = %d, want 4", r.Stats().Suppressed)
		}
	})
}

func TestReader_RIFFUnsupportedCodec(t *testing.T) {
	data := concat(riffPrologue(0x01), mpegStream(2))

	for _, opt := range []Option{WithSkipInvalidData(true), WithStrictParsing()} {
		r := NewReader(bytes.NewReader(data), opt)
		readAll(r)

		var unsupported *UnsupportedFormatError
		if !errors.As(r.Err(), &unsupported) {
			t.Fatalf("expected *UnsupportedFormatError, got %T: %v", r.Err(), r.Err())
		}
		if unsupported.Offset != 12 {
			t.Errorf("Offset = %d, want 12", unsupported.Offset)
		}
	}
}

func TestReader_UnsupportedChunkAfterCandidate(t *testing.T) {
	prologue := riffPrologue(0x55)
	pcmChunk := riffPrologue(0x01)[12:50]
	data := concat(prologue, []byte{0x42}, mpegFrame(0), pcmChunk, mpegStream(2))

	r := NewReader(bytes.NewReader(data), WithRIFFFrames(false))
	kinds, _ := readAll(r)

	if len(kinds) != 0 {
		t.Errorf("got kinds %v, want none", kinds)
	}
	var unsupported *UnsupportedFormatError
	if !errors.As(r.Err(), &unsupported) {
		t.Fatalf("expected *UnsupportedFormatError, got %T: %v", r.Err(), r.Err())
	}
	if want := int64(len(prologue) + 1 + frameLength); unsupported.Offset != want {
		t.Errorf("Offset = %d, want %d", unsupported.Offset, want)
	}
	if r.Stats().SkippedBytes != 1 {
		t.Errorf("SkippedBytes = %d, want 1", r.Stats().SkippedBytes)
	}
}

func TestReader_MetaFrames(t *testing.T) {
	data := concat(id3v2Padding(300), mpegStream(3), apeTag(), id3v1Tag("Title", "Artist", 3))

	tests := []struct {
		name       string
		opts       []Option
		want       []Kind
		suppressed int
	}{
		{
			name: "defaults",
			want: []Kind{KindID3v2, KindMPEG, KindMPEG, KindMPEG, KindAPEv2, KindID3v1},
		},
		{
			name:       "no meta",
			opts:       []Option{WithMetaFrames(false)},
			want:       []Kind{KindMPEG, KindMPEG, KindMPEG},
			suppressed: 3,
		},
		{
			name:       "no ID3",
			opts:       []Option{WithID3Frames(false)},
			want:       []Kind{KindMPEG, KindMPEG, KindMPEG, KindAPEv2},
			suppressed: 2,
		},
		{
			name:       "no APE",
			opts:       []Option{WithAPEFrames(false)},
			want:       []Kind{KindID3v2, KindMPEG, KindMPEG, KindMPEG, KindID3v1},
			suppressed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(data), tt.opts...)
			kinds, _ := readAll(r)

			if err := r.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(kinds) != len(tt.want) {
				t.Fatalf("got kinds %v, want %v", kinds, tt.want)
			}
			for i := range tt.want {
				if kinds[i] != tt.want[i] {
					t.Errorf("frame %d is %s, want %s", i, kinds[i], tt.want[i])
				}
			}
			if r.Stats().Suppressed != tt.suppressed {
				t.Errorf("Suppressed = %d, want %d", r.Stats().Suppressed, tt.suppressed)
			}
		})
	}
}

func TestReader_FrameLargerThanBuffer(t *testing.T) {
	tag := id3v2Padding(5000)
	data := concat(tag, mpegStream(3))

	r := NewReader(bytes.NewReader(data), WithBufferSize(1024))
	if !r.Next() {
		t.Fatalf("Next() = false: %v", r.Err())
	}
	if r.Frame().Kind() != KindID3v2 || len(r.Frame().Bytes()) != len(tag) {
		t.Fatalf("got %s of %d bytes, want ID3v2 of %d", r.Frame().Kind(), len(r.Frame().Bytes()), len(tag))
	}

	kinds, _ := readAll(r)
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kinds) != 3 {
		t.Errorf("got %d audio frames, want 3", len(kinds))
	}
}

func TestReader_CandidateLargerThanBuffer(t *testing.T) {
	// While out of sync a frame is only accepted if it and the margin fit.
	data := concat([]byte{0x42, 0x42}, id3v2Padding(2000), mpegStream(3))

	r := NewReader(bytes.NewReader(data), WithBufferSize(1024))
	kinds, offsets := readAll(r)

	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countKind(kinds, KindID3v2) != 0 {
		t.Error("oversized candidate should not be accepted")
	}
	if len(kinds) != 3 || offsets[0] != int64(len(data)-3*frameLength) {
		t.Errorf("got kinds %v at %v", kinds, offsets)
	}
}

func TestReader_ResyncNeedsRoomForFrame(t *testing.T) {
	data := concat([]byte{0x42}, mpegStream(3))

	tests := []struct {
		name    string
		size    int
		frames  int
		skipped int64
	}{
		{name: "frame and margin fit", size: frameLength + DefaultResyncMargin, frames: 3, skipped: 1},
		{name: "margin does not fit", size: frameLength + DefaultResyncMargin - 1, frames: 0, skipped: int64(len(data))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(data), WithBufferSize(tt.size))
			kinds, _ := readAll(r)

			if err := r.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(kinds) != tt.frames {
				t.Errorf("got %d frames, want %d", len(kinds), tt.frames)
			}
			if r.Stats().SkippedBytes != tt.skipped {
				t.Errorf("SkippedBytes = %d, want %d", r.Stats().SkippedBytes, tt.skipped)
			}
		})
	}
}

func TestReader_OneByteReads(t *testing.T) {
	data := concat(id3v1Tag("a", "b", 1), bytes.Repeat([]byte{7}, 33), mpegStream(6))

	r := NewReader(iotest.OneByteReader(bytes.NewReader(data)))
	kinds, _ := readAll(r)

	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kinds) != 7 || kinds[0] != KindID3v1 {
		t.Errorf("got kinds %v", kinds)
	}
	if r.Stats().SkippedBytes != 33 {
		t.Errorf("SkippedBytes = %d, want 33", r.Stats().SkippedBytes)
	}
}

func TestReader_SourceError(t *testing.T) {
	boom := errors.New("boom")
	r := NewReader(iotest.ErrReader(boom))

	if r.Next() {
		t.Fatal("unexpected frame")
	}
	if !errors.Is(r.Err(), boom) {
		t.Errorf("Err() = %v, want %v", r.Err(), boom)
	}
}

func TestReader_Xing(t *testing.T) {
	data := concat(xingFrame(), mpegStream(3))

	r := NewReader(bytes.NewReader(data))
	if !r.Next() {
		t.Fatalf("Next() = false: %v", r.Err())
	}

	x, ok := r.Frame().(*XingFrame)
	if !ok {
		t.Fatalf("first frame is %T, want *XingFrame", r.Frame())
	}
	if frames, ok := x.TotalFrames(); !ok || frames != 1000 {
		t.Errorf("TotalFrames() = %d, %v", frames, ok)
	}
	if off, ok := x.SeekPoint(50, 1_000_000); !ok || off != 390625 {
		t.Errorf("SeekPoint(50) = %d, %v, want 390625", off, ok)
	}

	kinds, _ := readAll(r)
	if len(kinds) != 3 || countKind(kinds, KindMPEG) != 3 {
		t.Errorf("got kinds %v after Xing frame", kinds)
	}
}

func TestReader_XingOneByteReads(t *testing.T) {
	data := concat(xingFrame(), mpegStream(3))

	r := NewReader(iotest.OneByteReader(bytes.NewReader(data)))
	if !r.Next() {
		t.Fatalf("Next() = false: %v", r.Err())
	}
	x, ok := r.Frame().(*XingFrame)
	if !ok {
		t.Fatalf("first frame is %T, want *XingFrame", r.Frame())
	}
	if frames, ok := x.TotalFrames(); !ok || frames != 1000 {
		t.Errorf("TotalFrames() = %d, %v", frames, ok)
	}

	kinds, _ := readAll(r)
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kinds) != 3 || countKind(kinds, KindMPEG) != 3 {
		t.Errorf("got kinds %v after Xing frame", kinds)
	}
}

func TestReader_Frames(t *testing.T) {
	const n = 6

	r := NewReader(bytes.NewReader(mpegStream(n)))

	seen := 0
	for f, err := range r.Frames() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Kind() != KindMPEG {
			t.Errorf("unexpected kind %s", f.Kind())
		}
		seen++
		if seen == 2 {
			break
		}
	}

	rest, _ := readAll(r)
	if seen+len(rest) != n {
		t.Errorf("saw %d + %d frames, want %d", seen, len(rest), n)
	}
}

func TestReader_FramesError(t *testing.T) {
	data := concat(mpegStream(1), []byte("garbage!"))

	var frames int
	var last error
	for f, err := range NewReader(bytes.NewReader(data), WithStrictParsing()).Frames() {
		if err != nil {
			last = err
			if f != nil {
				t.Error("error yielded with a frame")
			}
			continue
		}
		frames++
	}

	if frames != 1 {
		t.Errorf("got %d frames, want 1", frames)
	}
	var invalid *InvalidDataError
	if !errors.As(last, &invalid) {
		t.Errorf("expected *InvalidDataError, got %v", last)
	}
}

func TestReader_IgnoreWarnings(t *testing.T) {
	data := concat([]byte{1, 2, 3}, mpegStream(3))

	r := NewReader(bytes.NewReader(data), WithIgnoreWarnings())
	readAll(r)

	if len(r.Warnings()) != 0 {
		t.Errorf("got %d warnings, want none", len(r.Warnings()))
	}
	if r.Stats().SkippedBytes != 3 {
		t.Errorf("SkippedBytes = %d, want 3", r.Stats().SkippedBytes)
	}
}

func BenchmarkReader(b *testing.B) {
	data := concat(id3v2Padding(1000), mpegStream(500), id3v1Tag("t", "a", 1))
	b.SetBytes(int64(len(data)))

	for b.Loop() {
		r := NewReader(bytes.NewReader(data))
		for r.Next() {
		}
		if err := r.Err(); err != nil {
			b.Fatal(err)
		}
	}
}
