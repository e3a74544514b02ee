// Package program implements the listing creation transition.
//
// CreateListing is the only entry point. The host binds it directly; there
// is no instruction decoding or registration in this package. The host is
// expected to serialize invocations and to hand the transition exclusive
// access to the slots it names for the duration of one call.
package program
