package ofpact

import (
	"reflect"

	"github.com/netrack/ofpact/nxm"
)

// compat is embedded in every internal record. It remembers the wire
// code the record was decoded from, so the encoder can prefer the same
// shape when several encodings exist.
type compat struct {
	// Compat is the originating wire code, or CodeInvalid for
	// records built in memory.
	Compat Code
}

func (c *compat) setCompat(code Code) {
	c.Compat = code
}

// Action is a single internal action record.
type Action interface {
	// Kind returns the tag of the record.
	Kind() Kind
}

// Actions is an internal action list, the decoders' output and the
// encoders' input.
type Actions []Action

// Equal reports whether two lists carry exactly the same records,
// including the remembered wire codes and trailing variable payloads.
func (a Actions) Equal(b Actions) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// OutputsTo reports whether any record in the list outputs to the
// given port.
func (a Actions) OutputsTo(port PortNo) bool {
	for _, action := range a {
		switch action := action.(type) {
		case *Output:
			if action.Port == port {
				return true
			}
		case *Enqueue:
			if action.Port == port {
				return true
			}
		case *Controller:
			if port == PortController {
				return true
			}
		}
	}
	return false
}

// OutputsToGroup reports whether any record in the list hands the
// packet to the given group.
func (a Actions) OutputsToGroup(group uint32) bool {
	for _, action := range a {
		if g, ok := action.(*Group); ok && g.ID == group {
			return true
		}
	}
	return false
}

// PacketInReason says why a packet is sent to the controller.
type PacketInReason uint8

const (
	// ReasonNoMatch marks packets with no matching flow.
	ReasonNoMatch PacketInReason = iota

	// ReasonAction marks packets sent by an explicit action.
	ReasonAction

	// ReasonInvalidTTL marks packets whose TTL ran out.
	ReasonInvalidTTL
)

var reasonText = map[PacketInReason]string{
	ReasonNoMatch:    "no_match",
	ReasonAction:     "action",
	ReasonInvalidTTL: "invalid_ttl",
}

// String returns the flow dump name of the reason.
func (r PacketInReason) String() string {
	if text, ok := reasonText[r]; ok {
		return text
	}
	return "unknown"
}

// Output sends the packet out a port, buffering at most MaxLen bytes
// when the port is the controller.
type Output struct {
	compat
	Port   PortNo
	MaxLen uint16
}

// Kind implements the Action interface.
func (a *Output) Kind() Kind { return KindOutput }

// Controller sends the packet to one controller connection.
type Controller struct {
	compat
	MaxLen uint16
	ID     uint16
	Reason PacketInReason
}

// Kind implements the Action interface.
func (a *Controller) Kind() Kind { return KindController }

// Enqueue sends the packet to a queue attached to a port.
type Enqueue struct {
	compat
	Port  PortNo
	Queue uint32
}

// Kind implements the Action interface.
func (a *Enqueue) Kind() Kind { return KindEnqueue }

// OutputReg sends the packet out the port read from a subfield.
type OutputReg struct {
	compat
	Src    nxm.Subfield
	MaxLen uint16
}

// Kind implements the Action interface.
func (a *OutputReg) Kind() Kind { return KindOutputReg }

// SetVLANVID rewrites the VLAN id of the outermost tag.
type SetVLANVID struct {
	compat
	VID uint16
}

// Kind implements the Action interface.
func (a *SetVLANVID) Kind() Kind { return KindSetVLANVID }

// SetVLANPCP rewrites the VLAN priority of the outermost tag.
type SetVLANPCP struct {
	compat
	PCP uint8
}

// Kind implements the Action interface.
func (a *SetVLANPCP) Kind() Kind { return KindSetVLANPCP }

// StripVLAN pops the outermost VLAN tag.
type StripVLAN struct {
	compat
}

// Kind implements the Action interface.
func (a *StripVLAN) Kind() Kind { return KindStripVLAN }

// PushVLAN pushes a new VLAN tag with the given ethertype.
type PushVLAN struct {
	compat
	EtherType uint16
}

// Kind implements the Action interface.
func (a *PushVLAN) Kind() Kind { return KindPushVLAN }

// SetEthSrc rewrites the Ethernet source address.
type SetEthSrc struct {
	compat
	Addr [6]byte
}

// Kind implements the Action interface.
func (a *SetEthSrc) Kind() Kind { return KindSetEthSrc }

// SetEthDst rewrites the Ethernet destination address.
type SetEthDst struct {
	compat
	Addr [6]byte
}

// Kind implements the Action interface.
func (a *SetEthDst) Kind() Kind { return KindSetEthDst }

// SetIPv4Src rewrites the IPv4 source address.
type SetIPv4Src struct {
	compat
	Addr uint32
}

// Kind implements the Action interface.
func (a *SetIPv4Src) Kind() Kind { return KindSetIPv4Src }

// SetIPv4Dst rewrites the IPv4 destination address.
type SetIPv4Dst struct {
	compat
	Addr uint32
}

// Kind implements the Action interface.
func (a *SetIPv4Dst) Kind() Kind { return KindSetIPv4Dst }

// SetIPv4DSCP rewrites the DSCP bits of the IPv4 ToS byte.
type SetIPv4DSCP struct {
	compat
	DSCP uint8
}

// Kind implements the Action interface.
func (a *SetIPv4DSCP) Kind() Kind { return KindSetIPv4DSCP }

// SetL4SrcPort rewrites the TCP or UDP source port.
type SetL4SrcPort struct {
	compat
	Port uint16
}

// Kind implements the Action interface.
func (a *SetL4SrcPort) Kind() Kind { return KindSetL4SrcPort }

// SetL4DstPort rewrites the TCP or UDP destination port.
type SetL4DstPort struct {
	compat
	Port uint16
}

// Kind implements the Action interface.
func (a *SetL4DstPort) Kind() Kind { return KindSetL4DstPort }

// RegMove copies a run of bits from one field to another.
type RegMove struct {
	compat
	Src nxm.Subfield
	Dst nxm.Subfield
}

// Kind implements the Action interface.
func (a *RegMove) Kind() Kind { return KindRegMove }

// RegLoad writes an immediate value into a subfield. A record decoded
// from an OpenFlow 1.2 set-field action carries CodeOFPAT12SetField
// as its compat code.
type RegLoad struct {
	compat
	Dst   nxm.Subfield
	Value uint64
}

// Kind implements the Action interface.
func (a *RegLoad) Kind() Kind { return KindRegLoad }

// DecTTL decrements the IP TTL and reports expired packets to the
// listed controllers.
type DecTTL struct {
	compat
	IDs []uint16
}

// Kind implements the Action interface.
func (a *DecTTL) Kind() Kind { return KindDecTTL }

// SetMPLSTTL rewrites the MPLS TTL.
type SetMPLSTTL struct {
	compat
	TTL uint8
}

// Kind implements the Action interface.
func (a *SetMPLSTTL) Kind() Kind { return KindSetMPLSTTL }

// PushMPLS pushes an MPLS shim header with the given ethertype.
type PushMPLS struct {
	compat
	EtherType uint16
}

// Kind implements the Action interface.
func (a *PushMPLS) Kind() Kind { return KindPushMPLS }

// PopMPLS pops the outermost MPLS shim header; EtherType names the
// payload left behind.
type PopMPLS struct {
	compat
	EtherType uint16
}

// Kind implements the Action interface.
func (a *PopMPLS) Kind() Kind { return KindPopMPLS }

// PushL2 pushes an outer Ethernet header.
type PushL2 struct {
	compat
}

// Kind implements the Action interface.
func (a *PushL2) Kind() Kind { return KindPushL2 }

// PopL2 pops the outer Ethernet header.
type PopL2 struct {
	compat
}

// Kind implements the Action interface.
func (a *PopL2) Kind() Kind { return KindPopL2 }

// SetTunnel sets the tunnel id. The internal value is always 64 bits
// wide; the compat code remembers whether the wire used the 32-bit or
// the 64-bit shape.
type SetTunnel struct {
	compat
	ID uint64
}

// Kind implements the Action interface.
func (a *SetTunnel) Kind() Kind { return KindSetTunnel }

// SetQueue sets the queue the packet leaves through.
type SetQueue struct {
	compat
	Queue uint32
}

// Kind implements the Action interface.
func (a *SetQueue) Kind() Kind { return KindSetQueue }

// PopQueue restores the default queue.
type PopQueue struct {
	compat
}

// Kind implements the Action interface.
func (a *PopQueue) Kind() Kind { return KindPopQueue }

// FinTimeout shortens the flow's timeouts when a TCP FIN or RST
// passes. Zero leaves a timeout unchanged.
type FinTimeout struct {
	compat
	IdleTimeout uint16
	HardTimeout uint16
}

// Kind implements the Action interface.
func (a *FinTimeout) Kind() Kind { return KindFinTimeout }

// Resubmit re-runs the pipeline with the in-port replaced. A table id
// of 0xff resubmits to the current table.
type Resubmit struct {
	compat
	InPort  PortNo
	TableID uint8
}

// Kind implements the Action interface.
func (a *Resubmit) Kind() Kind { return KindResubmit }

// Note carries opaque annotation bytes through the flow table.
type Note struct {
	compat
	Data []byte
}

// Kind implements the Action interface.
func (a *Note) Kind() Kind { return KindNote }

// Exit stops all pipeline processing.
type Exit struct {
	compat
}

// Kind implements the Action interface.
func (a *Exit) Kind() Kind { return KindExit }

// WriteMetadata updates the masked bits of the pipeline metadata.
type WriteMetadata struct {
	compat
	Metadata uint64
	Mask     uint64
}

// Kind implements the Action interface.
func (a *WriteMetadata) Kind() Kind { return KindWriteMetadata }

// ClearActions empties the action set. Synthesized from the
// clear-actions instruction.
type ClearActions struct {
	compat
}

// Kind implements the Action interface.
func (a *ClearActions) Kind() Kind { return KindClearActions }

// GotoTable continues the pipeline at the given table. Synthesized
// from the goto-table instruction.
type GotoTable struct {
	compat
	TableID uint8
}

// Kind implements the Action interface.
func (a *GotoTable) Kind() Kind { return KindGotoTable }

// Group hands the packet to a group.
type Group struct {
	compat
	ID uint32
}

// Kind implements the Action interface.
func (a *Group) Kind() Kind { return KindGroup }

// Meter rate-limits the packet through a meter. Synthesized from the
// meter instruction.
type Meter struct {
	compat
	ID uint32
}

// Kind implements the Action interface.
func (a *Meter) Kind() Kind { return KindMeter }
