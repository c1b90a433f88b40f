package types

// Tags holds the few descriptive fields a scan reports from ID3 tags.
//
// Tags are informational only; the frames themselves are yielded untouched.
type Tags struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	Genre   string
	Track   int
	// Source is the kind of tag the fields were read from.
	Source Kind
}

// IsEmpty reports whether no field was populated.
func (t Tags) IsEmpty() bool {
	return t.Title == "" && t.Artist == "" && t.Album == "" && t.Year == "" &&
		t.Comment == "" && t.Genre == "" && t.Track == 0
}
