package ofpact

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netrack/ofpact/diag"
	"github.com/netrack/ofpact/nxm"
)

func TestNXASTMultipath(t *testing.T) {
	reg0 := field(t, "NXM_NX_REG0")

	runMU10(t, []mu{
		{actions: Actions{stamp(&Multipath{
			Fields:    HashFieldsSymmetricL4,
			Basis:     50,
			Algorithm: MultipathAlgHRW,
			MaxLink:   15,
			Dst:       nxm.Subfield{Field: reg0, Ofs: 0, NBits: 4},
		}, CodeNXASTMultipath)},
			bytes: []byte{
				0xff, 0xff,
				0x00, 0x20,
				0x00, 0x00, 0x23, 0x20,
				0x00, 0x0a, // Action subtype.
				0x00, 0x01, // Hash fields.
				0x00, 0x32, // Basis.
				0x00, 0x00,
				0x00, 0x02, // Algorithm.
				0x00, 0x0f, // Maximum link.
				0x00, 0x00, 0x00, 0x00, // Argument.
				0x00, 0x00,
				0x00, 0x03, // ofs_nbits.
				0x00, 0x01, 0x00, 0x04, // Destination field.
			}},
	})
}

func TestNXASTMultipathErrors(t *testing.T) {
	d := &Dialect{Warn: diag.Discard()}

	record := func(fields, algorithm uint16) []byte {
		return []byte{
			0xff, 0xff, 0x00, 0x20,
			0x00, 0x00, 0x23, 0x20,
			0x00, 0x0a,
			byte(fields >> 8), byte(fields),
			0x00, 0x32,
			0x00, 0x00,
			byte(algorithm >> 8), byte(algorithm),
			0x00, 0x0f,
			0x00, 0x00, 0x00, 0x00,
			0x00, 0x00,
			0x00, 0x03,
			0x00, 0x01, 0x00, 0x04,
		}
	}

	_, err := d.DecodeActions10(record(7, 2))
	require.ErrorIs(t, err, ErrBadArgument)

	_, err = d.DecodeActions10(record(1, 9))
	require.ErrorIs(t, err, ErrBadArgument)
}

func TestMultipathFormat(t *testing.T) {
	reg0 := field(t, "NXM_NX_REG0")

	a := &Multipath{
		Fields:    HashFieldsEthSrc,
		Basis:     50,
		Algorithm: MultipathAlgModuloN,
		MaxLink:   0,
		Dst:       nxm.Subfield{Field: reg0, Ofs: 0, NBits: 8},
	}
	require.Equal(t, "multipath(eth_src,50,modulo_n,1,0,NXM_NX_REG0[0..7])",
		formatAction(a))
}
