//go:build fuzz
// +build fuzz

package codec

import (
	"bytes"
	"testing"
	"unicode/utf8"
)

// FuzzListingCodec_RoundTrip tests encode/decode round-trip with random inputs
func FuzzListingCodec_RoundTrip(f *testing.F) {
	codec := NewListingCodec()

	f.Add("", "", uint64(0), []byte(""))
	f.Add("resnet", "classifier", uint64(100), []byte("weights"))
	f.Add("模型", "émojis", ^uint64(0), []byte{0x00, 0x01, 0x02})

	f.Fuzz(func(t *testing.T, name, description string, price uint64, file []byte) {
		l := &Listing{
			Initialized: true,
			Name:        name,
			Description: description,
			Price:       price,
			File:        file,
		}

		fits := len(name) <= NameCap && len(description) <= DescCap && len(file) <= FileCap &&
			utf8.ValidString(name) && utf8.ValidString(description) &&
			!bytes.ContainsRune([]byte(name), 0) && !bytes.ContainsRune([]byte(description), 0)

		encoded, err := codec.Encode(l)
		if !fits {
			if err == nil {
				t.Fatalf("Encode accepted out-of-range listing name=%q description=%q file=%d", name, description, len(file))
			}
			return
		}
		if err != nil {
			t.Fatalf("Encode failed for name=%q description=%q: %v", name, description, err)
		}

		decoded, err := codec.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}

		if !decoded.Equal(l) {
			t.Errorf("Round trip mismatch: got %+v, want %+v", decoded, l)
		}
	})
}

// FuzzListingCodec_Decode checks that arbitrary buffers never panic the decoder
func FuzzListingCodec_Decode(f *testing.F) {
	codec := NewListingCodec()

	f.Add(make([]byte, RecordSize))
	f.Add([]byte{0x01})
	f.Add(bytes.Repeat([]byte{0xFF}, RecordSize))

	f.Fuzz(func(t *testing.T, data []byte) {
		listing, err := codec.Decode(data)
		if err != nil {
			return
		}

		reencoded, err := codec.Encode(listing)
		if err != nil {
			t.Fatalf("Decoded listing failed to re-encode: %v", err)
		}
		if !bytes.Equal(reencoded, data[:RecordSize]) {
			t.Errorf("Re-encoding a decoded buffer changed its bytes")
		}
	})
}
