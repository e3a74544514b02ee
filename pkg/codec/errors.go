package codec

// Errors
var (
	ErrMalformedRecord = &CodecError{"malformed record"}
	ErrFieldOverflow   = &CodecError{"field exceeds reserved capacity"}
	ErrInvalidText     = &CodecError{"invalid text field"}
	ErrBufferSize      = &CodecError{"destination buffer size mismatch"}
	ErrInvalidLayout   = &CodecError{"invalid record layout"}
)

// CodecError represents a record codec error
type CodecError struct {
	Message string
}

func (e *CodecError) Error() string {
	return e.Message
}
