package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/ssargent/modelmarket/pkg/identity"
)

// Capacities of the listing fields in bytes.
const (
	FlagSize  = 1
	NameCap   = 32
	DescCap   = 32
	PriceSize = 8
	FileCap   = 1024

	// RecordSize is the encoded size of a Listing and the exact storage a
	// listing slot must provide.
	RecordSize = FlagSize + NameCap + DescCap + identity.Size + PriceSize + FileCap
)

// Listing field names, in wire order.
const (
	FieldInitialized = "initialized"
	FieldName        = "name"
	FieldDescription = "description"
	FieldOwner       = "owner"
	FieldPrice       = "price"
	FieldFile        = "file"
)

// ListingLayout is the wire layout of a Listing.
//
//	[Initialized(1)][Name(32)][Description(32)][Owner(32)][Price(8)][File(1024)]
var ListingLayout = MustLayout(RecordSize,
	FieldSpec{Name: FieldInitialized, Kind: KindFlag, Width: FlagSize},
	FieldSpec{Name: FieldName, Kind: KindText, Width: NameCap},
	FieldSpec{Name: FieldDescription, Kind: KindText, Width: DescCap},
	FieldSpec{Name: FieldOwner, Kind: KindIdentity, Width: identity.Size},
	FieldSpec{Name: FieldPrice, Kind: KindUint64, Width: PriceSize},
	FieldSpec{Name: FieldFile, Kind: KindBlob, Width: FileCap},
)

// Listing is a purchasable AI model listing
type Listing struct {
	Initialized bool              // False for slots that were never written
	Name        string            // Model name, at most NameCap bytes
	Description string            // Short description, at most DescCap bytes
	Owner       identity.Identity // Account entitled to proceeds
	Price       uint64            // Price in the host's native unit
	File        []byte            // Model artifact, at most FileCap bytes
}

// Equal reports whether two listings hold the same values. File payloads are
// compared modulo trailing zero padding because the layout stores no payload
// length.
func (l *Listing) Equal(other *Listing) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.Initialized == other.Initialized &&
		l.Name == other.Name &&
		l.Description == other.Description &&
		l.Owner == other.Owner &&
		l.Price == other.Price &&
		bytes.Equal(bytes.TrimRight(l.File, "\x00"), bytes.TrimRight(other.File, "\x00"))
}

// ListingCodec converts listings to and from their fixed-width binary form
type ListingCodec struct {
	layout *Layout
}

// NewListingCodec creates a codec for ListingLayout
func NewListingCodec() *ListingCodec {
	return &ListingCodec{layout: ListingLayout}
}

// NewListingCodecWithLayout creates a codec for a custom layout. The layout
// must declare every listing field with the kind the codec expects.
func NewListingCodecWithLayout(layout *Layout) (*ListingCodec, error) {
	if layout == nil {
		return nil, fmt.Errorf("%w: nil layout", ErrInvalidLayout)
	}
	want := map[string]Kind{
		FieldInitialized: KindFlag,
		FieldName:        KindText,
		FieldDescription: KindText,
		FieldOwner:       KindIdentity,
		FieldPrice:       KindUint64,
		FieldFile:        KindBlob,
	}
	if got := len(layout.Fields()); got != len(want) {
		return nil, fmt.Errorf("%w: listing layout has %d fields, want %d", ErrInvalidLayout, got, len(want))
	}
	for name, kind := range want {
		f, ok := layout.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w: listing layout is missing %q", ErrInvalidLayout, name)
		}
		if f.Kind != kind {
			return nil, fmt.Errorf("%w: field %q is %s, want %s", ErrInvalidLayout, name, f.Kind, kind)
		}
	}
	return &ListingCodec{layout: layout}, nil
}

// Layout returns the layout the codec reads and writes.
func (c *ListingCodec) Layout() *Layout {
	return c.layout
}

// Size returns the encoded size of a listing.
func (c *ListingCodec) Size() int {
	return c.layout.Size()
}

// Encode serializes a listing into a new buffer of exactly Size bytes.
func (c *ListingCodec) Encode(l *Listing) ([]byte, error) {
	buf := make([]byte, c.layout.Size())
	if err := c.EncodeInto(buf, l); err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodeInto serializes a listing into dst, which must be exactly Size bytes.
// Every field is checked before the first byte is written, so on error dst
// is left unchanged.
func (c *ListingCodec) EncodeInto(dst []byte, l *Listing) error {
	if l == nil {
		return fmt.Errorf("%w: nil listing", ErrMalformedRecord)
	}
	if len(dst) != c.layout.Size() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrBufferSize, len(dst), c.layout.Size())
	}

	fields := c.layout.fields
	chunks := make([][]byte, len(fields))
	for i, f := range fields {
		raw, err := fieldBytes(f, l)
		if err != nil {
			return err
		}
		if len(raw) > f.Width {
			return fmt.Errorf("%w: %s is %d bytes, capacity %d", ErrFieldOverflow, f.Name, len(raw), f.Width)
		}
		if natural := f.Kind.naturalWidth(); natural != 0 && len(raw) != natural {
			return fmt.Errorf("%w: %s encodes to %d bytes, reserved %d", ErrFieldOverflow, f.Name, len(raw), f.Width)
		}
		chunks[i] = raw
	}

	for i, f := range fields {
		span := dst[f.Offset:f.End()]
		n := copy(span, chunks[i])
		clear(span[n:])
	}

	return nil
}

// Decode deserializes a listing from buf. Bytes past Size are ignored.
func (c *ListingCodec) Decode(buf []byte) (*Listing, error) {
	if len(buf) < c.layout.Size() {
		return nil, fmt.Errorf("%w: buffer is %d bytes, record needs %d", ErrMalformedRecord, len(buf), c.layout.Size())
	}

	l := &Listing{}
	for _, f := range c.layout.fields {
		span := buf[f.Offset:f.End()]
		switch f.Name {
		case FieldInitialized:
			switch span[0] {
			case 0:
				l.Initialized = false
			case 1:
				l.Initialized = true
			default:
				return nil, fmt.Errorf("%w: initialized flag is 0x%02x", ErrMalformedRecord, span[0])
			}
		case FieldName:
			s, err := decodeText(f, span)
			if err != nil {
				return nil, err
			}
			l.Name = s
		case FieldDescription:
			s, err := decodeText(f, span)
			if err != nil {
				return nil, err
			}
			l.Description = s
		case FieldOwner:
			owner, err := identity.FromBytes(span)
			if err != nil {
				return nil, fmt.Errorf("%w: owner: %v", ErrMalformedRecord, err)
			}
			l.Owner = owner
		case FieldPrice:
			l.Price = binary.LittleEndian.Uint64(span)
		case FieldFile:
			l.File = make([]byte, len(span))
			copy(l.File, span)
		}
	}

	return l, nil
}

// IsInitialized reports whether the raw initialized flag of buf is set.
// An empty buffer is uninitialized.
func (c *ListingCodec) IsInitialized(buf []byte) bool {
	f, _ := c.layout.Field(FieldInitialized)
	if len(buf) < f.End() {
		return false
	}
	return buf[f.Offset] != 0
}

func fieldBytes(f Field, l *Listing) ([]byte, error) {
	switch f.Name {
	case FieldInitialized:
		if l.Initialized {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case FieldName:
		return encodeText(f, l.Name)
	case FieldDescription:
		return encodeText(f, l.Description)
	case FieldOwner:
		return l.Owner[:], nil
	case FieldPrice:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], l.Price)
		return b[:], nil
	case FieldFile:
		return l.File, nil
	default:
		return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidLayout, f.Name)
	}
}

func encodeText(f Field, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidText, f.Name)
	}
	// NUL is the padding byte, so it cannot appear in the value.
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return nil, fmt.Errorf("%w: %s contains a NUL byte", ErrInvalidText, f.Name)
	}
	return []byte(s), nil
}

func decodeText(f Field, span []byte) (string, error) {
	text := bytes.TrimRight(span, "\x00")
	if bytes.IndexByte(text, 0) >= 0 {
		return "", fmt.Errorf("%w: %s has an embedded NUL byte", ErrMalformedRecord, f.Name)
	}
	if !utf8.Valid(text) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrMalformedRecord, f.Name)
	}
	return string(text), nil
}

var defaultCodec = NewListingCodec()

// Encode serializes a listing using ListingLayout.
func Encode(l *Listing) ([]byte, error) {
	return defaultCodec.Encode(l)
}

// EncodeInto serializes a listing into dst using ListingLayout.
func EncodeInto(dst []byte, l *Listing) error {
	return defaultCodec.EncodeInto(dst, l)
}

// Decode deserializes a listing using ListingLayout.
func Decode(buf []byte) (*Listing, error) {
	return defaultCodec.Decode(buf)
}

// IsInitialized reports whether buf holds an initialized listing flag.
func IsInitialized(buf []byte) bool {
	return defaultCodec.IsInitialized(buf)
}
