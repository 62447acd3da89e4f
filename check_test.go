package ofpact

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netrack/ofpact/nxm"
)

func TestCheckOutput(t *testing.T) {
	flow := &nxm.Flow{}

	require.NoError(t, Check(Actions{&Output{Port: 5}}, flow, 10))
	require.NoError(t, Check(Actions{&Output{Port: PortFlood}}, flow, 10))

	err := Check(Actions{&Output{Port: 10}}, flow, 10)
	require.ErrorIs(t, err, ErrBadOutPort)
}

func TestCheckEnqueue(t *testing.T) {
	flow := &nxm.Flow{}

	require.NoError(t, Check(Actions{&Enqueue{Port: 5, Queue: 1}}, flow, 10))
	require.NoError(t, Check(Actions{&Enqueue{Port: PortInPort}}, flow, 10))
	require.NoError(t, Check(Actions{&Enqueue{Port: PortLocal}}, flow, 10))

	err := Check(Actions{&Enqueue{Port: PortFlood}}, flow, 10)
	require.ErrorIs(t, err, ErrBadOutPort)
}

func TestCheckFieldPrereqs(t *testing.T) {
	ipSrc := field(t, "NXM_OF_IP_SRC")

	load := &RegLoad{
		Dst:   nxm.Subfield{Field: ipSrc, Ofs: 0, NBits: 32},
		Value: 0x0a000001,
	}

	require.NoError(t, Check(Actions{load},
		&nxm.Flow{DLType: nxm.EthTypeIPv4}, 10))

	err := Check(Actions{load}, &nxm.Flow{DLType: nxm.EthTypeARP}, 10)
	require.ErrorIs(t, err, nxm.ErrPrereq)
}

func TestCheckTracksEtherType(t *testing.T) {
	ipSrc := field(t, "NXM_OF_IP_SRC")

	load := &RegLoad{
		Dst:   nxm.Subfield{Field: ipSrc, Ofs: 0, NBits: 32},
		Value: 0x0a000001,
	}
	flow := &nxm.Flow{DLType: nxm.EthTypeIPv4}

	// Pushing an MPLS header hides the IPv4 header from every
	// later field access.
	err := Check(Actions{&PushMPLS{EtherType: 0x8847}, load}, flow, 10)
	require.ErrorIs(t, err, nxm.ErrPrereq)

	// Popping it back restores the prerequisites.
	err = Check(Actions{
		&PushMPLS{EtherType: 0x8847},
		&PopMPLS{EtherType: 0x0800},
		load,
	}, flow, 10)
	require.NoError(t, err)
}

func TestCheckBundleSlaves(t *testing.T) {
	flow := &nxm.Flow{}

	bundle := &Bundle{
		Algorithm: BundleAlgHRW,
		Fields:    HashFieldsEthSrc,
		Slaves:    []PortNo{1, 42},
	}
	err := Check(Actions{bundle}, flow, 10)
	require.ErrorIs(t, err, ErrBadOutPort)
}

func TestOutputsTo(t *testing.T) {
	acts := Actions{
		&Output{Port: 3},
		&Enqueue{Port: 7, Queue: 1},
		&Controller{Reason: ReasonAction},
	}

	require.True(t, acts.OutputsTo(3))
	require.True(t, acts.OutputsTo(7))
	require.True(t, acts.OutputsTo(PortController))
	require.False(t, acts.OutputsTo(5))

	groups := Actions{&Group{ID: 9}}
	require.True(t, groups.OutputsToGroup(9))
	require.False(t, groups.OutputsToGroup(1))
	require.False(t, acts.OutputsToGroup(9))
}
