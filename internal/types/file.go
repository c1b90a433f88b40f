// Package types provides core data structures shared by the frame parser
// and the public scanning API.
//
// This package defines Kind, StreamInfo, Tags, Summary, the error types and
// Warning, which the root package re-exports.
package types

// Summary describes a scanned stream.
//
// Summary is produced by reading every frame of a stream once:
//
//	sum, err := mpegscan.ScanFile(ctx, "song.mp3")
//	if err != nil {
//		return err
//	}
//	fmt.Println(sum.Info)
type Summary struct {
	Counts       map[Kind]int
	Path         string
	Warnings     []Warning
	Tags         Tags
	Info         StreamInfo
	Size         int64
	SkippedBytes int64
	Resyncs      int
}
