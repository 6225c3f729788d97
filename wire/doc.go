// Package wire is the octet-stream runtime shared by generated code and the
// plan interpreter.
//
// All multi-byte values are big-endian (network order), matching the byte order
// of the protocol descriptions the generator consumes. Readers carry a sticky
// error: after the first failure every further read returns the zero value and
// Err reports the original cause, so generated decoders can read a whole layout
// and check once at the end.
package wire
