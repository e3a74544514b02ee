package codec

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/ssargent/modelmarket/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOwner(seed byte) identity.Identity {
	var id identity.Identity
	for i := range id {
		id[i] = seed + byte(i)
	}
	return id
}

func TestListingCodec_EncodeDecodeRoundTrip(t *testing.T) {
	codec := NewListingCodec()

	testCases := []struct {
		name    string
		listing Listing
	}{
		{
			name: "simple listing",
			listing: Listing{
				Initialized: true,
				Name:        "resnet-50",
				Description: "image classifier",
				Owner:       testOwner(1),
				Price:       100,
				File:        []byte("weights"),
			},
		},
		{
			name:    "zero value",
			listing: Listing{},
		},
		{
			name: "empty text fields",
			listing: Listing{
				Initialized: true,
				Owner:       testOwner(7),
				Price:       1,
				File:        []byte{0x01},
			},
		},
		{
			name: "full capacity",
			listing: Listing{
				Initialized: true,
				Name:        strings.Repeat("n", NameCap),
				Description: strings.Repeat("d", DescCap),
				Owner:       testOwner(0xF0),
				Price:       ^uint64(0),
				File:        bytes.Repeat([]byte{0xAB}, FileCap),
			},
		},
		{
			name: "unicode text",
			listing: Listing{
				Initialized: true,
				Name:        "模型 🤖",
				Description: "émojis ok",
				Owner:       testOwner(3),
				Price:       42,
			},
		},
		{
			name: "binary payload with interior zeros",
			listing: Listing{
				Initialized: true,
				Name:        "m",
				Owner:       testOwner(9),
				Price:       7,
				File:        []byte{0x00, 0x01, 0x00, 0x02},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := codec.Encode(&tc.listing)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			if len(encoded) != RecordSize {
				t.Fatalf("Encoded size mismatch: got %d, want %d", len(encoded), RecordSize)
			}

			decoded, err := codec.Decode(encoded)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if !decoded.Equal(&tc.listing) {
				t.Errorf("Round trip mismatch:\n got  %+v\n want %+v", decoded, tc.listing)
			}

			if len(decoded.File) != FileCap {
				t.Errorf("Decoded file payload should span full capacity, got %d bytes", len(decoded.File))
			}
		})
	}
}

func TestListingCodec_WireFormat(t *testing.T) {
	owner := testOwner(0x10)
	l := &Listing{
		Initialized: true,
		Name:        "m",
		Description: "d",
		Owner:       owner,
		Price:       0x0102030405060708,
		File:        []byte{0xEE},
	}

	buf, err := Encode(l)
	require.NoError(t, err)

	assert.Equal(t, byte(1), buf[0])
	assert.Equal(t, byte('m'), buf[1])
	assert.Equal(t, make([]byte, NameCap-1), buf[2:33], "name must be zero padded")
	assert.Equal(t, byte('d'), buf[33])
	assert.Equal(t, owner[:], buf[65:97])
	assert.Equal(t, uint64(0x0102030405060708), binary.LittleEndian.Uint64(buf[97:105]))
	assert.Equal(t, byte(0x08), buf[97], "price must be little-endian")
	assert.Equal(t, byte(0xEE), buf[105])
	assert.Equal(t, make([]byte, FileCap-1), buf[106:])
}

func TestListingCodec_CapacityBoundary(t *testing.T) {
	codec := NewListingCodec()

	tests := []struct {
		name    string
		listing Listing
		wantErr error
	}{
		{name: "name at capacity", listing: Listing{Name: strings.Repeat("a", NameCap)}},
		{name: "name over capacity", listing: Listing{Name: strings.Repeat("a", NameCap+1)}, wantErr: ErrFieldOverflow},
		{name: "description at capacity", listing: Listing{Description: strings.Repeat("b", DescCap)}},
		{name: "description over capacity", listing: Listing{Description: strings.Repeat("b", DescCap+1)}, wantErr: ErrFieldOverflow},
		{name: "file at capacity", listing: Listing{File: make([]byte, FileCap)}},
		{name: "file over capacity", listing: Listing{File: make([]byte, FileCap+1)}, wantErr: ErrFieldOverflow},
		// 11 three-byte runes = 33 bytes, over capacity even though 11 characters
		{name: "multibyte name over capacity", listing: Listing{Name: strings.Repeat("模", 11)}, wantErr: ErrFieldOverflow},
		{name: "invalid utf8", listing: Listing{Name: string([]byte{0xff, 0xfe})}, wantErr: ErrInvalidText},
		{name: "nul in description", listing: Listing{Description: "a\x00b"}, wantErr: ErrInvalidText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := bytes.Repeat([]byte{0x5A}, RecordSize)
			before := append([]byte(nil), dst...)

			err := codec.EncodeInto(dst, &tt.listing)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, dst, "rejected encode must not write any byte")
		})
	}
}

func TestListingCodec_EncodeIntoBufferSize(t *testing.T) {
	codec := NewListingCodec()

	for _, size := range []int{0, RecordSize - 1, RecordSize + 1} {
		dst := make([]byte, size)
		err := codec.EncodeInto(dst, &Listing{Initialized: true})
		assert.ErrorIs(t, err, ErrBufferSize, "size %d", size)
	}

	assert.ErrorIs(t, codec.EncodeInto(make([]byte, RecordSize), nil), ErrMalformedRecord)
}

func TestListingCodec_EncodeIntoOverwrites(t *testing.T) {
	dst := bytes.Repeat([]byte{0xFF}, RecordSize)

	require.NoError(t, EncodeInto(dst, &Listing{Initialized: true, Name: "x"}))

	decoded, err := Decode(dst)
	require.NoError(t, err)
	assert.Equal(t, "x", decoded.Name)
	assert.Equal(t, "", decoded.Description)
	assert.True(t, decoded.Owner.IsZero())
	assert.Equal(t, uint64(0), decoded.Price)
	assert.Equal(t, make([]byte, FileCap), decoded.File)
}

func TestListingCodec_FieldIsolation(t *testing.T) {
	base := Listing{
		Initialized: true,
		Name:        "model",
		Description: "desc",
		Owner:       testOwner(5),
		Price:       100,
		File:        []byte("payload"),
	}
	changed := base
	changed.Price = 200

	a, err := Encode(&base)
	require.NoError(t, err)
	b, err := Encode(&changed)
	require.NoError(t, err)

	price, _ := ListingLayout.Field(FieldPrice)
	for i := range a {
		inPrice := i >= price.Offset && i < price.End()
		if !inPrice && a[i] != b[i] {
			t.Fatalf("byte %d differs outside the price range", i)
		}
	}
	assert.NotEqual(t, a[price.Offset:price.End()], b[price.Offset:price.End()])
}

func TestListingCodec_DecodeMalformed(t *testing.T) {
	codec := NewListingCodec()

	valid, err := codec.Encode(&Listing{Initialized: true, Name: "ok", Description: "ok"})
	require.NoError(t, err)

	t.Run("empty buffer", func(t *testing.T) {
		_, err := codec.Decode(nil)
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("truncated buffer", func(t *testing.T) {
		_, err := codec.Decode(valid[:RecordSize-1])
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("invalid utf8 in name", func(t *testing.T) {
		corrupt := append([]byte(nil), valid...)
		corrupt[1] = 0xff
		_, err := codec.Decode(corrupt)
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("invalid utf8 in description", func(t *testing.T) {
		corrupt := append([]byte(nil), valid...)
		corrupt[33] = 0xc3 // truncated two-byte sequence
		corrupt[34] = 0x00
		_, err := codec.Decode(corrupt)
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("embedded nul in name", func(t *testing.T) {
		corrupt := append([]byte(nil), valid...)
		corrupt[1] = 0x00 // "\x00k"
		_, err := codec.Decode(corrupt)
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("bad initialized flag", func(t *testing.T) {
		corrupt := append([]byte(nil), valid...)
		corrupt[0] = 0x02
		_, err := codec.Decode(corrupt)
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("trailing bytes are ignored", func(t *testing.T) {
		longer := append(append([]byte(nil), valid...), 0xAA, 0xBB)
		decoded, err := codec.Decode(longer)
		require.NoError(t, err)
		assert.Equal(t, "ok", decoded.Name)
	})
}

func TestListingCodec_IsInitialized(t *testing.T) {
	assert.False(t, IsInitialized(nil))
	assert.False(t, IsInitialized(make([]byte, RecordSize)))

	buf, err := Encode(&Listing{Initialized: true})
	require.NoError(t, err)
	assert.True(t, IsInitialized(buf))

	// The raw check treats any non-zero flag as initialized.
	raw := make([]byte, RecordSize)
	raw[0] = 0x7F
	assert.True(t, IsInitialized(raw))
}

func TestListing_Equal(t *testing.T) {
	a := &Listing{Initialized: true, Name: "a", File: []byte{1, 2}}
	b := &Listing{Initialized: true, Name: "a", File: []byte{1, 2, 0, 0}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(&Listing{Initialized: true, Name: "a", File: []byte{1, 3}}))
	assert.False(t, a.Equal(nil))

	var nilListing *Listing
	assert.True(t, nilListing.Equal(nil))
}
