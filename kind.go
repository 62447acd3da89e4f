// Package ofpact converts flow table action programs between their
// OpenFlow 1.0 wire form, their OpenFlow 1.1+ instruction wire form,
// the Nicira extension envelopes both of them carry, and the internal
// action list the rest of the switch consumes.
package ofpact

import "fmt"

// Kind tags an internal action record. The set is closed: decoders
// never produce a kind outside of it.
type Kind uint16

const (
	// KindOutput sends the packet out a port.
	KindOutput Kind = iota

	// KindController sends the packet to a controller.
	KindController

	// KindEnqueue sends the packet to a queue on a port.
	KindEnqueue

	// KindOutputReg sends the packet out a port read from a field.
	KindOutputReg

	// KindBundle selects one of several slave ports.
	KindBundle

	// KindSetVLANVID rewrites the VLAN id.
	KindSetVLANVID

	// KindSetVLANPCP rewrites the VLAN priority.
	KindSetVLANPCP

	// KindStripVLAN pops the outermost VLAN tag.
	KindStripVLAN

	// KindPushVLAN pushes a new VLAN tag.
	KindPushVLAN

	// KindSetEthSrc rewrites the Ethernet source address.
	KindSetEthSrc

	// KindSetEthDst rewrites the Ethernet destination address.
	KindSetEthDst

	// KindSetIPv4Src rewrites the IPv4 source address.
	KindSetIPv4Src

	// KindSetIPv4Dst rewrites the IPv4 destination address.
	KindSetIPv4Dst

	// KindSetIPv4DSCP rewrites the IPv4 DSCP bits.
	KindSetIPv4DSCP

	// KindSetL4SrcPort rewrites the TCP/UDP source port.
	KindSetL4SrcPort

	// KindSetL4DstPort rewrites the TCP/UDP destination port.
	KindSetL4DstPort

	// KindRegMove copies bits between fields.
	KindRegMove

	// KindRegLoad writes an immediate into a field.
	KindRegLoad

	// KindDecTTL decrements the IP TTL, reporting expiry to a set
	// of controllers.
	KindDecTTL

	// KindSetMPLSTTL rewrites the MPLS TTL.
	KindSetMPLSTTL

	// KindPushMPLS pushes an MPLS shim header.
	KindPushMPLS

	// KindPopMPLS pops the outermost MPLS shim header.
	KindPopMPLS

	// KindPushL2 pushes an outer Ethernet header.
	KindPushL2

	// KindPopL2 pops the outer Ethernet header.
	KindPopL2

	// KindSetTunnel sets the tunnel id.
	KindSetTunnel

	// KindSetQueue sets the output queue.
	KindSetQueue

	// KindPopQueue restores the default output queue.
	KindPopQueue

	// KindFinTimeout shortens flow timeouts on TCP FIN.
	KindFinTimeout

	// KindResubmit re-runs the pipeline on a port or table.
	KindResubmit

	// KindLearn installs a flow derived from the packet.
	KindLearn

	// KindMultipath hashes the flow onto one of several links.
	KindMultipath

	// KindNote carries opaque annotation bytes.
	KindNote

	// KindExit stops pipeline processing.
	KindExit

	// KindWriteMetadata updates the pipeline metadata register.
	KindWriteMetadata

	// KindClearActions empties the action set.
	KindClearActions

	// KindGotoTable continues the pipeline at another table.
	KindGotoTable

	// KindGroup processes the packet through a group.
	KindGroup

	// KindMeter rate-limits the packet through a meter.
	KindMeter

	kindMax
)

var kindText = map[Kind]string{
	KindOutput:        "output",
	KindController:    "controller",
	KindEnqueue:       "enqueue",
	KindOutputReg:     "output_reg",
	KindBundle:        "bundle",
	KindSetVLANVID:    "set_vlan_vid",
	KindSetVLANPCP:    "set_vlan_pcp",
	KindStripVLAN:     "strip_vlan",
	KindPushVLAN:      "push_vlan",
	KindSetEthSrc:     "set_eth_src",
	KindSetEthDst:     "set_eth_dst",
	KindSetIPv4Src:    "set_ipv4_src",
	KindSetIPv4Dst:    "set_ipv4_dst",
	KindSetIPv4DSCP:   "set_ipv4_dscp",
	KindSetL4SrcPort:  "set_l4_src_port",
	KindSetL4DstPort:  "set_l4_dst_port",
	KindRegMove:       "reg_move",
	KindRegLoad:       "reg_load",
	KindDecTTL:        "dec_ttl",
	KindSetMPLSTTL:    "set_mpls_ttl",
	KindPushMPLS:      "push_mpls",
	KindPopMPLS:       "pop_mpls",
	KindPushL2:        "push_l2",
	KindPopL2:         "pop_l2",
	KindSetTunnel:     "set_tunnel",
	KindSetQueue:      "set_queue",
	KindPopQueue:      "pop_queue",
	KindFinTimeout:    "fin_timeout",
	KindResubmit:      "resubmit",
	KindLearn:         "learn",
	KindMultipath:     "multipath",
	KindNote:          "note",
	KindExit:          "exit",
	KindWriteMetadata: "write_metadata",
	KindClearActions:  "clear_actions",
	KindGotoTable:     "goto_table",
	KindGroup:         "group",
	KindMeter:         "meter",
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	text, ok := kindText[k]
	if !ok {
		return fmt.Sprintf("Kind(%d)", k)
	}

	return text
}
