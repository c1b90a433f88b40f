package binary

import (
	"strconv"
	"strings"

	"github.com/simonhull/mpegscan/internal/types"
)

// FieldKind is the value type of a bit field.
type FieldKind int

const (
	// Integer fields hold an unsigned value of their declared width.
	Integer FieldKind = iota + 1
	// Boolean fields are one bit wide and hold 0 or 1.
	Boolean
)

// maxFieldWidth is the widest field a Format accepts.
const maxFieldWidth = 32

// Field declares one named, fixed-width bit field.
type Field struct {
	// Expected, when non-nil, is the only value Unpack accepts.
	Expected *uint32
	Name     string
	Kind     FieldKind
	Width    int
}

// Expect returns a pointer to v for use as Field.Expected.
func Expect(v uint32) *uint32 {
	return &v
}

// Format is a compiled, immutable list of bit fields packed MSB first.
type Format struct {
	fields []Field
	bits   int
	size   int
}

// NewFormat compiles fields into a Format.
//
// It fails with a *types.FormatError if a field has an unknown kind, a
// width outside 1..32, or a Boolean field is not exactly one bit wide.
func NewFormat(fields ...Field) (*Format, error) {
	f := &Format{fields: make([]Field, 0, len(fields))}

	for _, fd := range fields {
		switch fd.Kind {
		case Integer:
			if fd.Width <= 0 || fd.Width > maxFieldWidth {
				return nil, &types.FormatError{Field: fd.Name, Reason: "width must be between 1 and 32, got " + strconv.Itoa(fd.Width)}
			}
		case Boolean:
			if fd.Width == 0 {
				fd.Width = 1
			}
			if fd.Width != 1 {
				return nil, &types.FormatError{Field: fd.Name, Reason: "boolean fields are one bit wide"}
			}
		default:
			return nil, &types.FormatError{Field: fd.Name, Reason: "unsupported field kind " + strconv.Itoa(int(fd.Kind))}
		}

		if fd.Expected != nil {
			if fd.Width < maxFieldWidth && *fd.Expected>>fd.Width != 0 {
				return nil, &types.FormatError{Field: fd.Name, Reason: "expected value does not fit the field width"}
			}
			fd.Expected = Expect(*fd.Expected)
		}

		f.fields = append(f.fields, fd)
		f.bits += fd.Width
	}

	f.size = (f.bits + 7) / 8
	return f, nil
}

// ParseFormat compiles the compact textual form of a format.
//
// Entries are separated by commas. Each entry is "name:i:width" for an
// integer or "name:b" for a boolean, optionally followed by "=value" to
// declare an expected constant (decimal or 0x-prefixed hexadecimal):
//
//	sync:i:11=0x7FF,version:i:2,crc:b
func ParseFormat(spec string) (*Format, error) {
	var fields []Field

	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		var fd Field
		if body, value, ok := strings.Cut(entry, "="); ok {
			v, err := strconv.ParseUint(value, 0, 32)
			if err != nil {
				return nil, &types.FormatError{Field: entry, Reason: "invalid expected value " + strconv.Quote(value)}
			}
			fd.Expected = Expect(uint32(v))
			entry = body
		}

		parts := strings.Split(entry, ":")
		if len(parts) < 2 || parts[0] == "" {
			return nil, &types.FormatError{Field: entry, Reason: "entries must have the form name:type[:width]"}
		}
		fd.Name = parts[0]

		switch parts[1] {
		case "b":
			fd.Kind = Boolean
			fd.Width = 1
			if len(parts) == 3 && parts[2] != "1" {
				return nil, &types.FormatError{Field: fd.Name, Reason: "boolean fields are one bit wide"}
			}
			if len(parts) > 3 {
				return nil, &types.FormatError{Field: fd.Name, Reason: "too many components"}
			}
		case "i":
			fd.Kind = Integer
			if len(parts) != 3 {
				return nil, &types.FormatError{Field: fd.Name, Reason: "integer fields need a width"}
			}
			if !isDigits(parts[2]) {
				return nil, &types.FormatError{Field: fd.Name, Reason: "width has to be a base-10 integer"}
			}
			w, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, &types.FormatError{Field: fd.Name, Reason: "width has to be a base-10 integer"}
			}
			fd.Width = w
		default:
			return nil, &types.FormatError{Field: fd.Name, Reason: "unsupported type " + strconv.Quote(parts[1])}
		}

		fields = append(fields, fd)
	}

	return NewFormat(fields...)
}

// MustParseFormat is like ParseFormat but panics on error. It is intended
// for package-level format declarations.
func MustParseFormat(spec string) *Format {
	f, err := ParseFormat(spec)
	if err != nil {
		panic(err)
	}
	return f
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Len returns the number of bytes the format occupies, ceil(bits/8).
func (f *Format) Len() int {
	return f.size
}

// Bits returns the sum of all field widths.
func (f *Format) Bits() int {
	return f.bits
}

// NumFields returns the number of fields.
func (f *Format) NumFields() int {
	return len(f.fields)
}

// Field returns the i-th field declaration.
func (f *Format) Field(i int) Field {
	return f.fields[i]
}

// Index returns the position of the named field, or -1.
func (f *Format) Index(name string) int {
	for i, fd := range f.fields {
		if fd.Name == name {
			return i
		}
	}
	return -1
}
