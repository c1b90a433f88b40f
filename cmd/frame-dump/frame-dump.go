// Command frame-dump lists the frames of MPEG audio files and can rewrite
// them without the bytes that belong to no frame.
//
// Usage:
//
//	frame-dump [-v] [-strict] [-meta=false] [-summary] file.mp3...
//	frame-dump -o clean.mp3 [-strip-tags] [-strip-riff] [-repair-crc] file.mp3
//	frame-dump -version
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"ktkr.us/pkg/fmtutil"

	"github.com/simonhull/mpegscan"
)

var (
	verbose   = flag.Bool("v", false, "log synchronization events")
	strict    = flag.Bool("strict", false, "fail on the first invalid byte")
	meta      = flag.Bool("meta", true, "list ID3 and APE tags")
	summary   = flag.Bool("summary", false, "print a summary instead of every frame")
	output    = flag.String("o", "", "rewrite the input to this file")
	stripTags = flag.Bool("strip-tags", false, "with -o, drop ID3 and APE tags")
	stripRIFF = flag.Bool("strip-riff", false, "with -o, drop the RIFF/WAVE wrapper")
	repairCRC = flag.Bool("repair-crc", false, "with -o, recompute bad CRCs")
	version   = flag.Bool("version", false, "print version information and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <file.mp3>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println(mpegscan.GetVersionInfo())
		return
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, false))
	capnslog.SetGlobalLogLevel(capnslog.WARNING)
	if *verbose {
		capnslog.SetGlobalLogLevel(capnslog.DEBUG)
	}

	if err := run(context.Background(), flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, paths []string) error {
	opts := []mpegscan.Option{mpegscan.WithMetaFrames(*meta)}
	if *strict {
		opts = append(opts, mpegscan.WithStrictParsing())
	}

	if *output != "" {
		if len(paths) != 1 {
			return errors.New("-o takes exactly one input file")
		}
		return rewrite(ctx, paths[0], *output, opts)
	}

	for _, path := range paths {
		var err error
		if *summary {
			err = summarize(ctx, path, opts)
		} else {
			err = dump(path, opts)
		}
		if err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func dump(path string, opts []mpegscan.Option) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Printf("%s:\n", path)

	r := mpegscan.NewReader(f, opts...)
	for r.Next() {
		printFrame(os.Stdout, r.Offset(), r.Frame())
	}
	if err := r.Err(); err != nil {
		return errors.Wrap(err, "read frames")
	}

	for _, w := range r.Warnings() {
		fmt.Printf("  warning: %s\n", w)
	}

	stats := r.Stats()
	fmt.Printf("  %d frames, %d resyncs, %d bytes skipped\n", stats.Frames, stats.Resyncs, stats.SkippedBytes)
	return nil
}

func printFrame(w io.Writer, off int64, f mpegscan.Frame) {
	fmt.Fprintf(w, "  %10d  %-9s %6d", off, f.Kind(), f.Len())

	switch f := f.(type) {
	case *mpegscan.XingFrame:
		fmt.Fprintf(w, "  %s %s", f.Tag(), f.Header())
		if n, ok := f.TotalFrames(); ok {
			fmt.Fprintf(w, " frames=%d", n)
		}
		if n, ok := f.TotalSize(); ok {
			fmt.Fprintf(w, " bytes=%d", n)
		}
	case *mpegscan.MPEGFrame:
		fmt.Fprintf(w, "  %s", f.Header())
		if err := f.Header().Verify(); err != nil {
			fmt.Fprintf(w, " (%v)", err)
		}
	case *mpegscan.ID3Frame:
		if tags, err := f.Tags(); err == nil && !tags.IsEmpty() {
			fmt.Fprintf(w, "  %q - %q", tags.Artist, tags.Title)
		}
	case *mpegscan.RIFFFrame:
		if f.Kind() == mpegscan.KindRIFFFmt {
			fmt.Fprintf(w, "  format=0x%04x", f.FormatTag())
		}
	}

	fmt.Fprintln(w)
}

func summarize(ctx context.Context, path string, opts []mpegscan.Option) error {
	sum, err := mpegscan.ScanFile(ctx, path, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s, %s\n", path, sum.Info, fmtutil.HMS(sum.Info.Duration.Round(time.Second)))
	if !sum.Tags.IsEmpty() {
		fmt.Printf("  %s - %s (%s)\n", sum.Tags.Artist, sum.Tags.Title, sum.Tags.Album)
	}
	for kind, n := range sum.Counts {
		fmt.Printf("  %-9s %d\n", kind, n)
	}
	if sum.Resyncs > 0 {
		fmt.Printf("  %d resyncs, %d bytes skipped\n", sum.Resyncs, sum.SkippedBytes)
	}
	return nil
}

func rewrite(ctx context.Context, in, out string, opts []mpegscan.Option) error {
	ropts := []mpegscan.RewriteOption{mpegscan.WithReaderOptions(opts...), mpegscan.WithValidation()}
	if *stripTags {
		ropts = append(ropts, mpegscan.WithStripTags())
	}
	if *stripRIFF {
		ropts = append(ropts, mpegscan.WithStripRIFF())
	}
	if *repairCRC {
		ropts = append(ropts, mpegscan.WithRepairCRC())
	}

	if err := mpegscan.RewriteFile(ctx, in, out, ropts...); err != nil {
		return errors.Wrapf(err, "rewrite %s", in)
	}
	return nil
}
