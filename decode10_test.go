package ofpact

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netrack/ofpact/diag"
)

func TestActions10Output(t *testing.T) {
	runMU10(t, []mu{
		{actions: Actions{stamp(&Output{Port: 1, MaxLen: 0xffff}, CodeOFPAT10Output)},
			bytes: []byte{
				0x00, 0x00, // Action type.
				0x00, 0x08, // Action length.
				0x00, 0x01, // Port number.
				0xff, 0xff, // Maximum length.
			}},
		{actions: Actions{stamp(&Output{Port: PortController, MaxLen: 0x80}, CodeOFPAT10Output)},
			bytes: []byte{
				0x00, 0x00,
				0x00, 0x08,
				0xff, 0xfd,
				0x00, 0x80,
			}},
	})
}

func TestActions10Rewrites(t *testing.T) {
	runMU10(t, []mu{
		{actions: Actions{stamp(&SetVLANVID{VID: 0x123}, CodeOFPAT10SetVLANVID)},
			bytes: []byte{
				0x00, 0x01, // Action type.
				0x00, 0x08, // Action length.
				0x01, 0x23, // VLAN identifier.
				0x00, 0x00, // 2-byte padding.
			}},
		{actions: Actions{stamp(&SetVLANPCP{PCP: 5}, CodeOFPAT10SetVLANPCP)},
			bytes: []byte{
				0x00, 0x02,
				0x00, 0x08,
				0x05,             // VLAN priority.
				0x00, 0x00, 0x00, // 3-byte padding.
			}},
		{actions: Actions{stamp(&StripVLAN{}, CodeOFPAT10StripVLAN)},
			bytes: []byte{
				0x00, 0x03,
				0x00, 0x08,
				0x00, 0x00, 0x00, 0x00,
			}},
		{actions: Actions{stamp(&SetEthSrc{Addr: [6]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}}, CodeOFPAT10SetDLSrc)},
			bytes: []byte{
				0x00, 0x04,
				0x00, 0x10,
				0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, // Hardware address.
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // 6-byte padding.
			}},
		{actions: Actions{stamp(&SetIPv4Dst{Addr: 0xc0a80101}, CodeOFPAT10SetNWDst)},
			bytes: []byte{
				0x00, 0x07,
				0x00, 0x08,
				0xc0, 0xa8, 0x01, 0x01, // Network address.
			}},
		{actions: Actions{stamp(&SetIPv4DSCP{DSCP: 0xb8}, CodeOFPAT10SetNWTos)},
			bytes: []byte{
				0x00, 0x08,
				0x00, 0x08,
				0xb8,
				0x00, 0x00, 0x00,
			}},
		{actions: Actions{stamp(&SetL4SrcPort{Port: 8080}, CodeOFPAT10SetTPSrc)},
			bytes: []byte{
				0x00, 0x09,
				0x00, 0x08,
				0x1f, 0x90, // Transport port.
				0x00, 0x00,
			}},
	})
}

func TestActions10Enqueue(t *testing.T) {
	runMU10(t, []mu{
		{actions: Actions{stamp(&Enqueue{Port: 5, Queue: 7}, CodeOFPAT10Enqueue)},
			bytes: []byte{
				0x00, 0x0b, // Action type.
				0x00, 0x10, // Action length.
				0x00, 0x05, // Port number.
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // 6-byte padding.
				0x00, 0x00, 0x00, 0x07, // Queue identifier.
			}},
	})
}

func TestActions10Empty(t *testing.T) {
	acts, err := DecodeActions10(nil)
	require.NoError(t, err)
	require.Empty(t, acts)
}

func TestActions10Errors(t *testing.T) {
	tests := []struct {
		bytes []byte
		err   error
	}{
		// Unknown action type.
		{[]byte{0x00, 0x42, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00}, ErrBadType},

		// Wrong length for the type.
		{[]byte{0x00, 0x00, 0x00, 0x10,
			0x00, 0x01, 0xff, 0xff,
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, ErrBadLen},

		// Truncated final action.
		{[]byte{0x00, 0x04, 0x00, 0x10, 0x00, 0x00, 0x00, 0x00}, ErrBadLen},

		// Unaligned record length.
		{[]byte{0x00, 0x00, 0x00, 0x06, 0x00, 0x01, 0xff, 0xff}, ErrBadLen},

		// List length is not a multiple of the alignment.
		{[]byte{0x00, 0x00, 0x00, 0x08, 0x00, 0x01, 0xff}, ErrBadLen},

		// VLAN id wider than 12 bits.
		{[]byte{0x00, 0x01, 0x00, 0x08, 0x1f, 0xff, 0x00, 0x00}, ErrBadArgument},

		// VLAN priority wider than 3 bits.
		{[]byte{0x00, 0x02, 0x00, 0x08, 0x08, 0x00, 0x00, 0x00}, ErrBadArgument},

		// ToS bits outside the DSCP mask.
		{[]byte{0x00, 0x08, 0x00, 0x08, 0x03, 0x00, 0x00, 0x00}, ErrBadArgument},

		// Enqueue to a non-forwarding reserved port.
		{[]byte{0x00, 0x0b, 0x00, 0x10,
			0xff, 0xfd, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x07}, ErrBadOutPort},
	}

	d := &Dialect{Warn: diag.Discard()}
	for _, test := range tests {
		_, err := d.DecodeActions10(test.bytes)
		require.ErrorIs(t, err, test.err, "decode `%x`", test.bytes)
	}
}
