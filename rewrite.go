package mpegscan

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	binutil "github.com/simonhull/mpegscan/internal/binary"
)

// RewriteResult describes a completed rewrite.
type RewriteResult struct {
	// Frames is the number of frames written.
	Frames int
	// AudioFrames is the number of MPEG and Xing frames written.
	AudioFrames int
	// Repaired is the number of frames whose CRC was recomputed.
	Repaired int
	// Written is the number of bytes written.
	Written int64
	// Stats of the Reader over the source stream.
	Stats Stats
}

// headerCommitter is an audio frame whose header can be written back.
type headerCommitter interface {
	AudioFrame
	CommitHeader() error
}

// Rewrite copies the frames of src to dst.
//
// Bytes that belong to no frame are dropped, so the output of a damaged
// stream is a clean sequence of frames. WithStripTags and WithStripRIFF
// drop further frames; WithRepairCRC fixes protected frames.
//
// When dst implements io.WriterAt and a RIFF/WAVE wrapper is kept, the RIFF
// and data chunk sizes are updated to the rewritten length.
func Rewrite(ctx context.Context, dst io.Writer, src io.Reader, opts ...RewriteOption) (*RewriteResult, error) {
	options := defaultRewriteOptions()
	for _, opt := range opts {
		opt(options)
	}
	return rewrite(ctx, dst, src, options)
}

func rewrite(ctx context.Context, dst io.Writer, src io.Reader, options *rewriteOptions) (*RewriteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rd := NewReader(&contextReader{ctx: ctx, r: src}, options.readerOptions()...)
	sw := binutil.NewSafeWriter(dst)
	res := &RewriteResult{}

	riffAt, dataAt := int64(-1), int64(-1)

	for rd.Next() {
		f := rd.Frame()

		switch f.Kind() {
		case KindRIFFHeader:
			riffAt = sw.Offset()
		case KindRIFFData:
			dataAt = sw.Offset()
		}

		if af, ok := f.(headerCommitter); ok {
			res.AudioFrames++
			if options.repairCRC && !af.Header().Valid() {
				if err := af.CommitHeader(); err != nil {
					return nil, fmt.Errorf("repair frame at offset %d: %w", rd.Offset(), err)
				}
				res.Repaired++
			}
		}

		if err := sw.WriteBytes(f.Bytes()); err != nil {
			return nil, fmt.Errorf("write frame: %w", err)
		}
		res.Frames++

		if res.Frames%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}

	res.Written = sw.Offset()
	res.Stats = rd.Stats()

	if wa, ok := dst.(io.WriterAt); ok {
		if err := patchChunkSize(wa, riffAt, res.Written); err != nil {
			return nil, fmt.Errorf("patch RIFF size: %w", err)
		}
		if err := patchChunkSize(wa, dataAt, res.Written); err != nil {
			return nil, fmt.Errorf("patch data size: %w", err)
		}
	}

	return res, nil
}

// patchChunkSize stores the size of the chunk starting at off, which runs
// to end, in its little-endian size field.
func patchChunkSize(wa io.WriterAt, off, end int64) error {
	if off < 0 {
		return nil
	}
	sw := binutil.NewSafeWriter(io.NewOffsetWriter(wa, off+4))
	return binutil.Write(sw, binutil.LittleEndian, uint32(end-off-8))
}

// RewriteFile rewrites the file at inPath to outPath.
//
// This is an atomic operation: writes to a temporary file first, then renames
// to the output path. If any step fails, any partially written data is cleaned
// up and an existing output file remains unchanged. inPath and outPath may be
// the same file.
//
// Options can be provided to customize rewrite behavior:
//
//	err := mpegscan.RewriteFile(ctx, "song.mp3", "song.mp3",
//	    mpegscan.WithBackup(".bak"),
//	    mpegscan.WithValidation(),
//	)
func RewriteFile(ctx context.Context, inPath, outPath string, opts ...RewriteOption) error { //nolint:gocyclo // Atomic file operations require sequential steps
	// Apply options
	options := defaultRewriteOptions()
	for _, opt := range opts {
		opt(options)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer in.Close()

	inInfo, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	// Create temp file in same directory as output (for atomic rename)
	outputDir := filepath.Dir(outPath)
	tempFile, err := os.CreateTemp(outputDir, ".mpegscan-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Ensure cleanup on any error
	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	res, err := rewrite(ctx, tempFile, in, options)
	if err != nil {
		return fmt.Errorf("rewrite: %w", err)
	}

	// Sync temp file (fsync) to ensure data is on disk
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	// Close temp file before rename
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Validate before replacing anything
	if options.validate {
		if err := validateRewrite(ctx, tempPath, res); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	// Handle backup option (rename original to .bak before replace)
	if options.backupSuffix != "" {
		backupPath := outPath + options.backupSuffix
		// Check if output file exists before trying to back it up
		if _, err := os.Stat(outPath); err == nil {
			if err := os.Rename(outPath, backupPath); err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
		}
	}

	// Atomic rename temp -> output
	if err := os.Rename(tempPath, outPath); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}

	// Mark success so defer doesn't clean up
	success = true

	// Handle preserveModTime option
	if options.preserveModTime {
		_ = os.Chtimes(outPath, inInfo.ModTime(), inInfo.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	return nil
}

// validateRewrite re-reads a written file and compares it with what was
// written.
func validateRewrite(ctx context.Context, path string, res *RewriteResult) error {
	sum, err := ScanFile(ctx, path, WithStrictParsing())
	if err != nil {
		return fmt.Errorf("re-read: %w", err)
	}

	audio := sum.Counts[KindMPEG] + sum.Counts[KindXing]
	if audio != res.AudioFrames {
		return fmt.Errorf("audio frame mismatch: got %d, want %d", audio, res.AudioFrames)
	}
	if sum.Size != res.Written {
		return fmt.Errorf("size mismatch: got %d, want %d", sum.Size, res.Written)
	}

	return nil
}
