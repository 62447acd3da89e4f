package ofpact

import "io"

type (
	pad2 [2]uint8
	pad3 [3]uint8
	pad4 [4]uint8
	pad6 [6]uint8
)

// The pad values serialize as zero bytes. Reading discards the wire
// bytes instead of storing them, so the shared defaultPadN sinks can
// be used from concurrent decoders.
var (
	defaultPad2 pad2
	defaultPad3 pad3
	defaultPad4 pad4
	defaultPad6 pad6
)

func discardPad(r io.Reader, n int64) (int64, error) {
	return io.CopyN(io.Discard, r, n)
}

func (*pad2) ReadFrom(r io.Reader) (int64, error) { return discardPad(r, 2) }
func (*pad3) ReadFrom(r io.Reader) (int64, error) { return discardPad(r, 3) }
func (*pad4) ReadFrom(r io.Reader) (int64, error) { return discardPad(r, 4) }
func (*pad6) ReadFrom(r io.Reader) (int64, error) { return discardPad(r, 6) }

// padLen returns a size of the padding for the given length.
func padLen(length int) int {
	return (length+actionAlign-1)/actionAlign*actionAlign - length
}

// makePad creates a new zero padding that rounds the given length up
// to the action alignment.
func makePad(length int) []byte {
	return make([]byte, padLen(length))
}
