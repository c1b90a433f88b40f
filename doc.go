// Package mpegscan extracts frames from MPEG audio streams.
//
// mpegscan reads a stream once, front to back, through a small fixed-size
// buffer and splits it into frames: MPEG audio frames, Xing/Info VBR
// headers, ID3v1/ID3v2 and APE tags, and the chunks of a RIFF/WAVE
// container wrapping MPEG Layer III audio. Damaged or foreign bytes between
// frames are skipped and the reader resynchronizes on the next frame that is
// confirmed by the frame following it.
//
// # Quick Start
//
// Listing the frames of a file:
//
//	f, err := os.Open("song.mp3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer f.Close()
//
//	r := mpegscan.NewReader(f)
//	for r.Next() {
//		fmt.Printf("%8d %-8s %d\n", r.Offset(), r.Frame().Kind(), r.Frame().Len())
//	}
//	if err := r.Err(); err != nil {
//		log.Fatal(err)
//	}
//
// Summarizing a file:
//
//	sum, err := mpegscan.ScanFile(ctx, "song.mp3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(sum.Info, sum.Info.Duration)
//
// # Frames
//
// Frame is implemented by *MPEGFrame, *XingFrame, *ID3Frame, *APEFrame and
// *RIFFFrame. Each frame owns a copy of its bytes. Audio frames expose their
// decoded Header, which can be changed and written back with
// MPEGFrame.CommitHeader; the CRC of protected frames is recomputed.
//
// # Synchronization
//
// A Reader starts in sync. When no frame starts at the current position it
// loses sync, skips a byte and tries again. While out of sync a candidate
// frame is only accepted when another frame starts right after it. Each
// skipped region is recorded as a Warning and counted in Stats.
//
// # Error Handling
//
// By default invalid data is skipped. WithStrictParsing turns the first
// unrecognized byte into an *InvalidDataError carrying its stream offset:
//
//	r := mpegscan.NewReader(f, mpegscan.WithStrictParsing())
//	for r.Next() {
//	}
//	var invalid *mpegscan.InvalidDataError
//	if errors.As(r.Err(), &invalid) {
//		log.Printf("invalid data at %d", invalid.Offset)
//	}
//
// A RIFF/WAVE file whose fmt chunk declares anything other than MPEG Layer
// III fails with *UnsupportedFormatError regardless of options.
//
// # Rewriting
//
// Rewrite and RewriteFile copy the frames of a stream to a new one, dropping
// skipped bytes and optionally tags or the RIFF wrapper, and repairing CRCs:
//
//	err := mpegscan.RewriteFile(ctx, "in.mp3", "out.mp3",
//		mpegscan.WithStripTags(),
//		mpegscan.WithRepairCRC(),
//	)
package mpegscan
