package codec

import (
	"testing"

	"github.com/ssargent/modelmarket/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayout_DerivesOffsets(t *testing.T) {
	l, err := NewLayout(13,
		FieldSpec{Name: "a", Kind: KindFlag, Width: 1},
		FieldSpec{Name: "b", Kind: KindText, Width: 4},
		FieldSpec{Name: "c", Kind: KindUint64, Width: 8},
	)
	require.NoError(t, err)

	fields := l.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, 0, fields[0].Offset)
	assert.Equal(t, 1, fields[1].Offset)
	assert.Equal(t, 5, fields[2].Offset)
	assert.Equal(t, 13, fields[2].End())
	assert.Equal(t, 13, l.Size())
}

func TestNewLayout_RejectsMismatchedWidths(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		specs []FieldSpec
	}{
		{
			// An identity squeezed into an 8 byte span, with a total size that
			// assumes the short span.
			name: "identity in 8 byte span",
			size: 1 + 32 + 32 + 8 + 8 + 1024,
			specs: []FieldSpec{
				{Name: FieldInitialized, Kind: KindFlag, Width: 1},
				{Name: FieldName, Kind: KindText, Width: 32},
				{Name: FieldDescription, Kind: KindText, Width: 32},
				{Name: FieldOwner, Kind: KindIdentity, Width: 8},
				{Name: FieldPrice, Kind: KindUint64, Width: 8},
				{Name: FieldFile, Kind: KindBlob, Width: 1024},
			},
		},
		{
			name: "identity span correct but declared size too small",
			size: 1 + 32 + 32 + 8 + 8 + 1024,
			specs: []FieldSpec{
				{Name: FieldInitialized, Kind: KindFlag, Width: 1},
				{Name: FieldName, Kind: KindText, Width: 32},
				{Name: FieldDescription, Kind: KindText, Width: 32},
				{Name: FieldOwner, Kind: KindIdentity, Width: identity.Size},
				{Name: FieldPrice, Kind: KindUint64, Width: 8},
				{Name: FieldFile, Kind: KindBlob, Width: 1024},
			},
		},
		{
			name:  "price in 4 byte span",
			size:  4,
			specs: []FieldSpec{{Name: "price", Kind: KindUint64, Width: 4}},
		},
		{
			name:  "two byte flag",
			size:  2,
			specs: []FieldSpec{{Name: "flag", Kind: KindFlag, Width: 2}},
		},
		{
			name:  "zero width",
			size:  0,
			specs: []FieldSpec{{Name: "blob", Kind: KindBlob, Width: 0}},
		},
		{
			name: "duplicate names",
			size: 2,
			specs: []FieldSpec{
				{Name: "x", Kind: KindFlag, Width: 1},
				{Name: "x", Kind: KindFlag, Width: 1},
			},
		},
		{
			name:  "unnamed field",
			size:  1,
			specs: []FieldSpec{{Kind: KindFlag, Width: 1}},
		},
		{
			name: "no fields",
			size: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(tt.size, tt.specs...)
			assert.ErrorIs(t, err, ErrInvalidLayout)
		})
	}
}

func TestMustLayout_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustLayout(9, FieldSpec{Name: "owner", Kind: KindIdentity, Width: 8}, FieldSpec{Name: "f", Kind: KindFlag, Width: 1})
	})
}

func TestLayout_Span(t *testing.T) {
	buf := make([]byte, RecordSize)
	owner := ListingLayout.Span(buf, FieldOwner)
	require.Len(t, owner, identity.Size)
	assert.Equal(t, identity.Size, cap(owner), "span must not expose the following field")

	owner[0] = 0x42
	assert.Equal(t, byte(0x42), buf[65])

	assert.Nil(t, ListingLayout.Span(buf, "missing"))
}

func TestNewListingCodecWithLayout(t *testing.T) {
	t.Run("wider text fields", func(t *testing.T) {
		wide := MustLayout(1+64+64+32+8+16,
			FieldSpec{Name: FieldInitialized, Kind: KindFlag, Width: 1},
			FieldSpec{Name: FieldName, Kind: KindText, Width: 64},
			FieldSpec{Name: FieldDescription, Kind: KindText, Width: 64},
			FieldSpec{Name: FieldOwner, Kind: KindIdentity, Width: identity.Size},
			FieldSpec{Name: FieldPrice, Kind: KindUint64, Width: 8},
			FieldSpec{Name: FieldFile, Kind: KindBlob, Width: 16},
		)
		c, err := NewListingCodecWithLayout(wide)
		require.NoError(t, err)

		in := &Listing{Initialized: true, Name: "a longer name than thirty-two bytes!", Price: 3}
		buf, err := c.Encode(in)
		require.NoError(t, err)
		assert.Len(t, buf, wide.Size())

		out, err := c.Decode(buf)
		require.NoError(t, err)
		assert.True(t, out.Equal(in))
	})

	t.Run("missing field", func(t *testing.T) {
		partial := MustLayout(9,
			FieldSpec{Name: FieldInitialized, Kind: KindFlag, Width: 1},
			FieldSpec{Name: FieldPrice, Kind: KindUint64, Width: 8},
		)
		_, err := NewListingCodecWithLayout(partial)
		assert.ErrorIs(t, err, ErrInvalidLayout)
	})

	t.Run("wrong kind", func(t *testing.T) {
		swapped := MustLayout(1+32+32+32+8+16,
			FieldSpec{Name: FieldInitialized, Kind: KindFlag, Width: 1},
			FieldSpec{Name: FieldName, Kind: KindBlob, Width: 32},
			FieldSpec{Name: FieldDescription, Kind: KindText, Width: 32},
			FieldSpec{Name: FieldOwner, Kind: KindIdentity, Width: identity.Size},
			FieldSpec{Name: FieldPrice, Kind: KindUint64, Width: 8},
			FieldSpec{Name: FieldFile, Kind: KindBlob, Width: 16},
		)
		_, err := NewListingCodecWithLayout(swapped)
		assert.ErrorIs(t, err, ErrInvalidLayout)
	})

	t.Run("nil layout", func(t *testing.T) {
		_, err := NewListingCodecWithLayout(nil)
		assert.ErrorIs(t, err, ErrInvalidLayout)
	})
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "identity", KindIdentity.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
