package mpegscan

// RewriteOption configures Rewrite and RewriteFile.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	err := mpegscan.RewriteFile(ctx, "in.mp3", "out.mp3",
//	    mpegscan.WithBackup(".bak"),
//	    mpegscan.WithRepairCRC(),
//	)
type RewriteOption func(*rewriteOptions)

// rewriteOptions holds configuration for rewriting streams.
type rewriteOptions struct {
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	validate        bool   // Re-read after write to verify
	preserveModTime bool   // Keep original modification time
	stripTags       bool   // Drop ID3 and APE tags
	stripRIFF       bool   // Drop the RIFF/WAVE wrapper
	repairCRC       bool   // Recompute bad CRCs of protected frames
	readerOpts      []Option
}

// defaultRewriteOptions returns the default configuration for rewriting.
func defaultRewriteOptions() *rewriteOptions {
	return &rewriteOptions{
		backupSuffix:    "",
		validate:        false,
		preserveModTime: false,
		stripTags:       false,
		stripRIFF:       false,
		repairCRC:       false,
	}
}

// readerOptions returns the options for reading the source stream.
func (o *rewriteOptions) readerOptions() []Option {
	opts := append([]Option(nil), o.readerOpts...)
	if o.stripTags {
		opts = append(opts, WithMetaFrames(false))
	}
	if o.stripRIFF {
		opts = append(opts, WithRIFFFrames(false))
	}
	return opts
}

// WithBackup keeps the file being replaced.
//
// If the output file already exists it is renamed to the output path with
// suffix appended before the rewritten file takes its place. For example,
// WithBackup(".bak") keeps "song.mp3.bak". An existing backup is
// overwritten.
//
// Example:
//
//	err := mpegscan.RewriteFile(ctx, "song.mp3", "song.mp3", mpegscan.WithBackup(".bak"))
//	// Original file preserved as song.mp3.bak
func WithBackup(suffix string) RewriteOption {
	return func(o *rewriteOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the output after writing to verify it.
//
// The written file is read back with strict parsing and must yield the same
// number of audio frames that were written. This adds a second pass over
// the output.
func WithValidation() RewriteOption {
	return func(o *rewriteOptions) {
		o.validate = true
	}
}

// WithPreserveModTime gives the output the modification time of the input.
func WithPreserveModTime() RewriteOption {
	return func(o *rewriteOptions) {
		o.preserveModTime = true
	}
}

// WithStripTags drops ID3 and APE tags from the output.
func WithStripTags() RewriteOption {
	return func(o *rewriteOptions) {
		o.stripTags = true
	}
}

// WithStripRIFF drops the RIFF/WAVE header and chunks, leaving a bare MPEG
// stream.
func WithStripRIFF() RewriteOption {
	return func(o *rewriteOptions) {
		o.stripRIFF = true
	}
}

// WithRepairCRC recomputes the CRC of every protected audio frame whose
// stored CRC does not match.
//
// Example:
//
//	res, err := mpegscan.Rewrite(ctx, out, in, mpegscan.WithRepairCRC())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Repaired, "frames repaired")
func WithRepairCRC() RewriteOption {
	return func(o *rewriteOptions) {
		o.repairCRC = true
	}
}

// WithReaderOptions passes options to the Reader of the source stream.
func WithReaderOptions(opts ...Option) RewriteOption {
	return func(o *rewriteOptions) {
		o.readerOpts = append(o.readerOpts, opts...)
	}
}
