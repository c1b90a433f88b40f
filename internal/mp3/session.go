package mp3

// XingState records what is known about a stream's Xing/Info header.
type XingState int

const (
	// XingUnknown means no audio frame has been examined yet.
	XingUnknown XingState = iota
	// XingPresent means the first audio frame carried a Xing/Info header.
	XingPresent
	// XingAbsent means the first audio frame had no usable Xing/Info
	// header, so later frames are not checked again.
	XingAbsent
)

func (s XingState) String() string {
	switch s {
	case XingPresent:
		return "present"
	case XingAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Session carries the per-stream state shared by frame detection.
//
// A Session is owned by one reader and is not safe for concurrent use.
type Session struct {
	// HasRIFF is set once a RIFF/WAVE header was seen at stream offset 0.
	HasRIFF bool
	Xing    XingState
	// Version and Layer of the first accepted audio frame; strict
	// detection rejects frames that disagree.
	Version Version
	Layer   Layer
}

// Observe records an accepted frame.
func (s *Session) Observe(f Frame) {
	af, ok := f.(AudioFrame)
	if !ok || s.Version != VersionUnknown {
		return
	}
	h := af.Header()
	s.Version = h.Version()
	s.Layer = h.Layer()
}

// consistent reports whether h matches the recorded version and layer.
func (s *Session) consistent(h *Header) bool {
	if s.Version != VersionUnknown && h.Version() != s.Version {
		return false
	}
	if s.Layer != LayerUnknown && h.Layer() != s.Layer {
		return false
	}
	return true
}
