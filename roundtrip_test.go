package ofpact_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/netrack/ofpact"
	"github.com/netrack/ofpact/ofpacttest"
)

func TestWireCases(t *testing.T) {
	output := &ofpact.Output{Port: 1, MaxLen: 0xffff}
	output.Compat = ofpact.CodeOFPAT10Output

	tunnel := &ofpact.SetTunnel{ID: 7}
	tunnel.Compat = ofpact.CodeNXASTSetTunnel

	ofpacttest.RunActions10(t, []ofpacttest.MU{
		{Actions: ofpact.Actions{output, tunnel},
			Bytes: []byte{
				0x00, 0x00, 0x00, 0x08,
				0x00, 0x01, 0xff, 0xff,

				0xff, 0xff, 0x00, 0x10,
				0x00, 0x00, 0x23, 0x20,
				0x00, 0x02,
				0x00, 0x00,
				0x00, 0x00, 0x00, 0x07,
			}},
	})
}

// genPlain draws one action that every wire dialect can carry in an
// action list.
func genPlain(t *rapid.T) ofpact.Action {
	switch rapid.IntRange(0, 13).Draw(t, "kind") {
	case 0:
		return &ofpact.Output{
			Port:   ofpact.PortNo(rapid.IntRange(1, 100).Draw(t, "port")),
			MaxLen: rapid.Uint16().Draw(t, "maxLen"),
		}
	case 1:
		return &ofpact.SetVLANVID{VID: uint16(rapid.IntRange(0, 0xfff).Draw(t, "vid"))}
	case 2:
		return &ofpact.SetVLANPCP{PCP: uint8(rapid.IntRange(0, 7).Draw(t, "pcp"))}
	case 3:
		return &ofpact.StripVLAN{}
	case 4:
		var addr [6]byte
		copy(addr[:], rapid.SliceOfN(rapid.Byte(), 6, 6).Draw(t, "addr"))
		return &ofpact.SetEthSrc{Addr: addr}
	case 5:
		return &ofpact.SetIPv4Src{Addr: rapid.Uint32().Draw(t, "addr")}
	case 6:
		return &ofpact.SetL4DstPort{Port: rapid.Uint16().Draw(t, "port")}
	case 7:
		return &ofpact.SetTunnel{ID: rapid.Uint64().Draw(t, "tunnel")}
	case 8:
		return &ofpact.SetQueue{Queue: rapid.Uint32().Draw(t, "queue")}
	case 9:
		return &ofpact.Note{Data: rapid.SliceOfN(rapid.Byte(), 0, 24).Draw(t, "note")}
	case 10:
		return &ofpact.Resubmit{
			InPort:  ofpact.PortNo(rapid.IntRange(1, 100).Draw(t, "inPort")),
			TableID: uint8(rapid.IntRange(0, 255).Draw(t, "table")),
		}
	case 11:
		ids := rapid.SliceOfN(rapid.Uint16(), 0, 5).Draw(t, "ids")
		return &ofpact.DecTTL{IDs: ids}
	case 12:
		return &ofpact.Controller{
			MaxLen: rapid.Uint16().Draw(t, "maxLen"),
			ID:     rapid.Uint16().Draw(t, "id"),
			Reason: ofpact.PacketInReason(rapid.IntRange(0, 2).Draw(t, "reason")),
		}
	case 13:
		return &ofpact.FinTimeout{
			IdleTimeout: rapid.Uint16().Draw(t, "idle"),
			HardTimeout: rapid.Uint16().Draw(t, "hard"),
		}
	}
	panic("unreachable")
}

// TestRoundTrip10 checks that one encode pass canonicalizes: the
// wire bytes survive decode/encode unchanged, and the decoded list
// survives a wire round trip exactly.
func TestRoundTrip10(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(t, "len")
		acts := make(ofpact.Actions, 0, n)
		for i := 0; i < n; i++ {
			acts = append(acts, genPlain(t))
		}

		var buf bytes.Buffer
		_, err := ofpact.WriteActions10(&buf, acts)
		require.NoError(t, err)
		wire := append([]byte(nil), buf.Bytes()...)

		decoded, err := ofpact.DecodeActions10(wire)
		require.NoError(t, err)

		buf.Reset()
		_, err = ofpact.WriteActions10(&buf, decoded)
		require.NoError(t, err)
		require.Equal(t, wire, buf.Bytes())

		again, err := ofpact.DecodeActions10(buf.Bytes())
		require.NoError(t, err)
		require.True(t, decoded.Equal(again))
	})
}

func TestRoundTripInstructions(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 4).Draw(t, "len")
		var acts ofpact.Actions

		if rapid.Bool().Draw(t, "meter") {
			acts = append(acts, &ofpact.Meter{ID: rapid.Uint32().Draw(t, "meterID")})
		}
		for i := 0; i < n; i++ {
			acts = append(acts, genPlain(t))
		}
		if rapid.Bool().Draw(t, "clear") {
			acts = append(acts, &ofpact.ClearActions{})
		}
		if rapid.Bool().Draw(t, "metadata") {
			acts = append(acts, &ofpact.WriteMetadata{
				Metadata: rapid.Uint64().Draw(t, "metadata"),
				Mask:     rapid.Uint64().Draw(t, "mask"),
			})
		}
		if rapid.Bool().Draw(t, "goto") {
			acts = append(acts, &ofpact.GotoTable{
				TableID: uint8(rapid.IntRange(0, 254).Draw(t, "table")),
			})
		}

		var buf bytes.Buffer
		_, err := ofpact.WriteInstructions(&buf, acts)
		require.NoError(t, err)
		wire := append([]byte(nil), buf.Bytes()...)

		decoded, err := ofpact.DecodeInstructions(wire)
		require.NoError(t, err)

		buf.Reset()
		_, err = ofpact.WriteInstructions(&buf, decoded)
		require.NoError(t, err)
		require.Equal(t, wire, buf.Bytes())
	})
}
