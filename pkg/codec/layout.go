package codec

import (
	"fmt"

	"github.com/ssargent/modelmarket/pkg/identity"
)

// Kind describes how a field's bytes are interpreted.
type Kind int

const (
	// KindFlag is a single 0x00/0x01 byte.
	KindFlag Kind = iota
	// KindText is UTF-8 text, zero padded up to the field width.
	KindText
	// KindIdentity is a raw identity.Identity.
	KindIdentity
	// KindUint64 is a little-endian unsigned 64-bit integer.
	KindUint64
	// KindBlob is opaque bytes, zero padded up to the field width.
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindFlag:
		return "flag"
	case KindText:
		return "text"
	case KindIdentity:
		return "identity"
	case KindUint64:
		return "uint64"
	case KindBlob:
		return "blob"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// naturalWidth returns the exact encoded width of fixed-width kinds, or 0
// for kinds whose values are padded up to a capacity.
func (k Kind) naturalWidth() int {
	switch k {
	case KindFlag:
		return 1
	case KindIdentity:
		return identity.Size
	case KindUint64:
		return 8
	default:
		return 0
	}
}

// FieldSpec declares a field of a layout. Offsets are never declared; they
// are derived from the order and widths of the specs.
type FieldSpec struct {
	Name  string
	Kind  Kind
	Width int
}

// Field is a placed field: a named byte span [Offset, Offset+Width).
type Field struct {
	Name   string
	Kind   Kind
	Offset int
	Width  int
}

// End returns the first offset past the field.
func (f Field) End() int {
	return f.Offset + f.Width
}

// Layout is a validated, contiguous fixed-width record layout.
type Layout struct {
	fields []Field
	byName map[string]int
	size   int
}

// NewLayout places specs back to back starting at offset 0 and checks the
// result against the declared record size.
//
// Construction fails if a field is unnamed or duplicated, has a non-positive
// width, reserves a span that differs from the natural width of its kind
// (for example an 8 byte span for a 32 byte identity), or if the widths do
// not add up to size.
func NewLayout(size int, specs ...FieldSpec) (*Layout, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no fields", ErrInvalidLayout)
	}

	l := &Layout{
		fields: make([]Field, 0, len(specs)),
		byName: make(map[string]int, len(specs)),
	}

	cursor := 0
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("%w: field at offset %d has no name", ErrInvalidLayout, cursor)
		}
		if _, dup := l.byName[spec.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidLayout, spec.Name)
		}
		if spec.Width <= 0 {
			return nil, fmt.Errorf("%w: field %q has width %d", ErrInvalidLayout, spec.Name, spec.Width)
		}
		if natural := spec.Kind.naturalWidth(); natural != 0 && natural != spec.Width {
			return nil, fmt.Errorf("%w: field %q reserves %d bytes but %s values encode to %d",
				ErrInvalidLayout, spec.Name, spec.Width, spec.Kind, natural)
		}

		l.byName[spec.Name] = len(l.fields)
		l.fields = append(l.fields, Field{
			Name:   spec.Name,
			Kind:   spec.Kind,
			Offset: cursor,
			Width:  spec.Width,
		})
		cursor += spec.Width
	}

	if cursor != size {
		return nil, fmt.Errorf("%w: fields span %d bytes, declared size is %d", ErrInvalidLayout, cursor, size)
	}
	l.size = size

	return l, nil
}

// MustLayout is like NewLayout but panics on error. Use it for package-level
// layouts so a bad descriptor fails at init.
func MustLayout(size int, specs ...FieldSpec) *Layout {
	l, err := NewLayout(size, specs...)
	if err != nil {
		panic(err)
	}
	return l
}

// Size returns the total encoded size.
func (l *Layout) Size() int {
	return l.size
}

// Fields returns the placed fields in wire order.
func (l *Layout) Fields() []Field {
	out := make([]Field, len(l.fields))
	copy(out, l.fields)
	return out
}

// Field looks up a field by name.
func (l *Layout) Field(name string) (Field, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Field{}, false
	}
	return l.fields[i], true
}

// Span returns the sub-slice of buf covering the named field. buf must be at
// least Size bytes.
func (l *Layout) Span(buf []byte, name string) []byte {
	f, ok := l.Field(name)
	if !ok {
		return nil
	}
	return buf[f.Offset:f.End():f.End()]
}
