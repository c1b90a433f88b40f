package mpegscan

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/mpegscan/internal/types"
)

// cancelCheckInterval is the number of frames read between context checks.
const cancelCheckInterval = 64

// Summary is an alias to types.Summary.
// Re-exporting from internal/types to maintain public API.
type Summary = types.Summary

// Scan reads every frame of r and summarizes the stream.
//
// Scan accepts the same options as NewReader. Disabling ID3 frames also
// leaves Summary.Tags empty. Scan checks ctx between frames and before every
// read from r, and returns ctx.Err() once it is cancelled.
//
// Example:
//
//	sum, err := mpegscan.Scan(ctx, os.Stdin)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%s, %d frames, %d bytes skipped\n", sum.Info, sum.Info.Frames, sum.SkippedBytes)
func Scan(ctx context.Context, r io.Reader, opts ...Option) (*Summary, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rd := NewReader(&contextReader{ctx: ctx, r: r}, opts...)
	s := newSummarizer()

	for n := 1; rd.Next(); n++ {
		s.add(rd.Frame(), rd.Offset())

		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}

	sum := s.finish(rd.HasRIFF())
	stats := rd.Stats()
	sum.Resyncs = stats.Resyncs
	sum.SkippedBytes = stats.SkippedBytes
	sum.Warnings = append(rd.Warnings(), s.warnings...)

	if rd.opts.ignoreWarnings {
		sum.Warnings = nil
	}

	return sum, nil
}

// contextReader fails reads once ctx is done, so a Reader skipping a long
// run of invalid data or suppressed frames still stops on cancellation.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// ScanFile scans the file at path. Summary.Path and Summary.Size are set
// from the file.
//
// Options can be provided just like with NewReader:
//
//	sum, err := mpegscan.ScanFile(ctx, "song.mp3",
//	    mpegscan.WithStrictParsing(),
//	)
func ScanFile(ctx context.Context, path string, opts ...Option) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	sum, err := Scan(ctx, f, opts...)
	if err != nil {
		return nil, err
	}

	sum.Path = path
	sum.Size = stat.Size()
	return sum, nil
}

// ScanMany scans multiple files concurrently.
//
// Files are scanned in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. The first
// failure cancels the remaining scans and is returned.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	sums, err := mpegscan.ScanMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, s := range sums {
//		fmt.Printf("%s: %s\n", s.Path, s.Info)
//	}
func ScanMany(ctx context.Context, paths ...string) ([]*Summary, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU()) // Limit concurrent operations

	results := make([]*Summary, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			// Check for cancellation
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			sum, err := ScanFile(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = sum
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// summarizer accumulates StreamInfo and Tags from yielded frames.
type summarizer struct {
	counts   map[Kind]int
	warnings []Warning

	first    *Header
	xing     *XingFrame
	frames   int
	bytes    int64
	duration time.Duration
	bitrate  int // kbps of the first audio frame
	vbr      bool

	tags Tags
}

func newSummarizer() *summarizer {
	return &summarizer{counts: make(map[Kind]int)}
}

func (s *summarizer) add(f Frame, off int64) {
	s.counts[f.Kind()]++

	switch f := f.(type) {
	case *XingFrame:
		if s.xing == nil {
			s.xing = f
		}
		s.audio(f.Header())
	case *MPEGFrame:
		s.audio(f.Header())
		s.frames++
		s.bytes += int64(f.Len())
		s.duration += f.Header().Duration()
	case *ID3Frame:
		s.addTags(f, off)
	}
}

func (s *summarizer) audio(h *Header) {
	if s.first == nil {
		s.first = h
		s.bitrate = h.Bitrate()
		return
	}
	if h.Bitrate() != s.bitrate {
		s.vbr = true
	}
}

// addTags keeps the first ID3v2 tag, falling back to the first ID3v1 tag.
func (s *summarizer) addTags(f *ID3Frame, off int64) {
	if s.tags.Source == KindID3v2 || (s.tags.Source == KindID3v1 && f.Kind() == KindID3v1) {
		return
	}

	tags, err := f.Tags()
	if err != nil {
		s.warnings = append(s.warnings, Warning{
			Stage:   "tags",
			Message: fmt.Sprintf("decode %s: %v", f.Kind(), err),
			Offset:  off,
		})
		return
	}
	s.tags = tags
}

func (s *summarizer) finish(riff bool) *Summary {
	sum := &Summary{
		Counts: s.counts,
		Tags:   s.tags,
	}
	if s.first == nil {
		return sum
	}

	info := StreamInfo{
		Codec:      s.first.Codec(),
		SampleRate: s.first.SampleRate(),
		Channels:   s.first.Channels(),
		Protected:  s.first.Protected(),
		Frames:     s.frames,
		Duration:   s.duration,
		VBR:        s.vbr,
	}
	if riff {
		info.Container = "RIFF/WAVE"
	}

	if s.xing != nil {
		if s.xing.Tag() == "Xing" {
			info.VBR = true
		}
		if total, ok := s.xing.TotalFrames(); ok && total > 0 {
			info.Frames = int(total)
			info.Duration = time.Duration(total) * s.first.Duration()
		}
	}

	if s.duration > 0 {
		info.Bitrate = int(float64(s.bytes*8) / s.duration.Seconds())
	}
	if !info.VBR {
		info.Bitrate = s.bitrate * 1000
	}

	sum.Info = info
	return sum
}
