// Package codec provides the fixed-width binary form of a model listing.
//
// A listing occupies exactly RecordSize bytes of slot storage. The codec is
// the single source of truth for that size: the creation transition rejects
// any slot whose storage length differs from it.
//
// # Record Format
//
// Fields are written back to back in a fixed order:
//
//	[Initialized(1)][Name(32)][Description(32)][Owner(32)][Price(8)][File(1024)]
//
// Fields:
//   - Initialized: 0x00 for a never-written slot, 0x01 for a live listing
//   - Name: UTF-8 text, zero padded to 32 bytes
//   - Description: UTF-8 text, zero padded to 32 bytes
//   - Owner: 32-byte identity of the account entitled to proceeds
//   - Price: 64-bit unsigned price (little-endian)
//   - File: model artifact bytes, zero padded to 1024 bytes
//
// The total record size is 1129 bytes.
//
// # Layout Descriptor
//
// Offsets are never written by hand. ListingLayout is built from a list of
// FieldSpec values by NewLayout, which derives every offset from the widths
// before it and refuses to build a layout in which a fixed-width field
// (flag, identity, price) reserves a span of a different size than its
// value encodes to, or in which the spans do not add up to the declared
// record size. A bad descriptor therefore panics at package init rather
// than corrupting neighbouring fields at runtime.
//
// # Usage
//
//	buf, err := codec.Encode(&codec.Listing{
//	    Initialized: true,
//	    Name:        "resnet-50",
//	    Owner:       owner,
//	    Price:       100,
//	})
//	if err != nil {
//	    return err
//	}
//
//	listing, err := codec.Decode(buf)
//	if err != nil {
//	    return err // storage is corrupt
//	}
//
// # Error Handling
//
// Encoding fails with ErrFieldOverflow when a text field or the file payload
// is longer than its capacity, ErrInvalidText when text is not valid UTF-8 or
// contains NUL, and ErrBufferSize when the destination is not exactly
// RecordSize bytes. In every case the destination is left untouched.
//
// Decoding fails with ErrMalformedRecord when the buffer is short, a text
// field is not valid UTF-8, or the initialized flag is neither 0 nor 1.
//
// # Padding
//
// Shorter values are padded with zero bytes by the encoding. Text fields are
// trimmed of that padding on decode. The file payload is returned at full
// capacity, so Listing.Equal compares payloads modulo trailing zeros.
package codec
