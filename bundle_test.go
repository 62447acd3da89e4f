package ofpact

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netrack/ofpact/diag"
	"github.com/netrack/ofpact/nxm"
)

func TestNXASTBundle(t *testing.T) {
	runMU10(t, []mu{
		{actions: Actions{stamp(&Bundle{
			Algorithm: BundleAlgHRW,
			Fields:    HashFieldsEthSrc,
			Slaves:    []PortNo{1, 2},
		}, CodeNXASTBundle)},
			bytes: []byte{
				0xff, 0xff,
				0x00, 0x28,
				0x00, 0x00, 0x23, 0x20,
				0x00, 0x0c, // Action subtype.
				0x00, 0x01, // Algorithm.
				0x00, 0x00, // Hash fields.
				0x00, 0x00, // Basis.
				0x00, 0x00, 0x00, 0x02, // Slave type, NXM_OF_IN_PORT.
				0x00, 0x02, // Slave count.
				0x00, 0x00, // ofs_nbits.
				0x00, 0x00, 0x00, 0x00, // Destination.
				0x00, 0x00, 0x00, 0x00, // Reserved zeros.
				0x00, 0x01, 0x00, 0x02, // Slaves.
				0x00, 0x00, 0x00, 0x00, // 4-byte padding.
			}},
	})
}

func TestNXASTBundleLoad(t *testing.T) {
	reg0 := field(t, "NXM_NX_REG0")

	runMU10(t, []mu{
		{actions: Actions{stamp(&Bundle{
			Algorithm: BundleAlgActiveBackup,
			Fields:    HashFieldsSymmetricL4,
			Basis:     50,
			Slaves:    []PortNo{5},
			Dst:       nxm.Subfield{Field: reg0, Ofs: 0, NBits: 16},
		}, CodeNXASTBundleLoad)},
			bytes: []byte{
				0xff, 0xff,
				0x00, 0x28,
				0x00, 0x00, 0x23, 0x20,
				0x00, 0x0d, // Action subtype.
				0x00, 0x00, // Algorithm.
				0x00, 0x01, // Hash fields.
				0x00, 0x32, // Basis.
				0x00, 0x00, 0x00, 0x02, // Slave type.
				0x00, 0x01, // Slave count.
				0x00, 0x0f, // ofs_nbits.
				0x00, 0x01, 0x00, 0x04, // Destination field.
				0x00, 0x00, 0x00, 0x00,
				0x00, 0x05, // Slave.
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // 6-byte padding.
			}},
	})
}

func TestNXASTBundleErrors(t *testing.T) {
	d := &Dialect{Warn: diag.Discard()}

	record := func(mutate func([]byte)) []byte {
		rec := []byte{
			0xff, 0xff, 0x00, 0x28,
			0x00, 0x00, 0x23, 0x20,
			0x00, 0x0c,
			0x00, 0x01,
			0x00, 0x00,
			0x00, 0x00,
			0x00, 0x00, 0x00, 0x02,
			0x00, 0x02,
			0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00,
			0x00, 0x01, 0x00, 0x02,
			0x00, 0x00, 0x00, 0x00,
		}
		mutate(rec)
		return rec
	}

	// A foreign slave type.
	_, err := d.DecodeActions10(record(func(rec []byte) {
		rec[19] = 0x06
	}))
	require.ErrorIs(t, err, ErrBadArgument)

	// Non-zero reserved bytes.
	_, err = d.DecodeActions10(record(func(rec []byte) {
		rec[31] = 0x01
	}))
	require.ErrorIs(t, err, ErrBadArgument)

	// More slaves than the record can hold.
	_, err = d.DecodeActions10(record(func(rec []byte) {
		rec[21] = 0x09
	}))
	require.ErrorIs(t, err, ErrBadLen)

	// A destination on the plain bundle shape.
	_, err = d.DecodeActions10(record(func(rec []byte) {
		rec[23] = 0x0f
	}))
	require.ErrorIs(t, err, ErrBadArgument)
}

func TestBundleFormat(t *testing.T) {
	reg0 := field(t, "NXM_NX_REG0")

	plain := &Bundle{
		Algorithm: BundleAlgHRW,
		Fields:    HashFieldsEthSrc,
		Basis:     0,
		Slaves:    []PortNo{4, 8},
	}
	require.Equal(t, "bundle(eth_src,0,hrw,ofport,slaves:4,8)",
		formatAction(plain))

	load := &Bundle{
		Algorithm: BundleAlgActiveBackup,
		Fields:    HashFieldsSymmetricL4,
		Basis:     50,
		Slaves:    []PortNo{4},
		Dst:       nxm.Subfield{Field: reg0, Ofs: 0, NBits: 16},
	}
	require.Equal(t,
		"bundle_load(symmetric_l4,50,active_backup,ofport,NXM_NX_REG0[0..15],slaves:4)",
		formatAction(load))
}
