package ofpact

import (
	"encoding/binary"
	"fmt"
)

// PortNo is a switch port in the internal, 16-bit space used by
// OpenFlow 1.0.
type PortNo uint16

const (
	// PortMax is the highest possible physical port number.
	PortMax PortNo = 0xff00

	// PortInPort sends the packet back out its ingress port.
	PortInPort PortNo = 0xfff8

	// PortTable submits the packet to the flow table.
	PortTable PortNo = 0xfff9

	// PortNormal processes the packet with the traditional L2/L3
	// pipeline.
	PortNormal PortNo = 0xfffa

	// PortFlood floods the packet along the spanning tree.
	PortFlood PortNo = 0xfffb

	// PortAll sends the packet out every port but the ingress one.
	PortAll PortNo = 0xfffc

	// PortController sends the packet to the controller.
	PortController PortNo = 0xfffd

	// PortLocal sends the packet to the local networking stack.
	PortLocal PortNo = 0xfffe

	// PortNone means no port.
	PortNone PortNo = 0xffff
)

var portText = map[PortNo]string{
	PortInPort:     "IN_PORT",
	PortTable:      "TABLE",
	PortNormal:     "NORMAL",
	PortFlood:      "FLOOD",
	PortAll:        "ALL",
	PortController: "CONTROLLER",
	PortLocal:      "LOCAL",
	PortNone:       "NONE",
}

// String renders reserved ports symbolically and everything else as a
// number.
func (p PortNo) String() string {
	if text, ok := portText[p]; ok {
		return text
	}
	return fmt.Sprintf("%d", uint16(p))
}

// OpenFlow 1.1 widens ports to 32 bits and moves the reserved block to
// the top of that space, at a fixed offset from the 16-bit one.
const (
	port11Offset uint32 = 0xffff0000
	port11Max    uint32 = uint32(PortMax) + port11Offset
)

// portFromOpenFlow11 maps a 1.1 wire port into the internal space.
// Physical ports pass through, reserved ports shift down by the fixed
// offset, and the gap in between is rejected.
func portFromOpenFlow11(port uint32) (PortNo, error) {
	switch {
	case port <= uint32(PortMax):
		return PortNo(port), nil
	case port >= port11Max:
		return PortNo(port - port11Offset), nil
	default:
		return 0, fmt.Errorf("%w: %#x", ErrBadOutPort, port)
	}
}

// portToOpenFlow11 is the inverse of portFromOpenFlow11.
func portToOpenFlow11(port PortNo) uint32 {
	if port <= PortMax {
		return uint32(port)
	}
	return uint32(port) + port11Offset
}

// checkOutputPort applies the output port policy: physical ports must
// fall inside the datapath's range, and only the forwarding-capable
// reserved ports are allowed.
func checkOutputPort(port PortNo, maxPorts int) error {
	switch port {
	case PortInPort, PortTable, PortNormal, PortFlood, PortAll,
		PortController, PortLocal:
		return nil
	}

	if int(port) < maxPorts {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrBadOutPort, port)
}

// Ethertypes the codec needs to recognize.
const (
	ethTypeVLAN      uint16 = 0x8100
	ethTypeVLANQinQ  uint16 = 0x88a8
	ethTypeMPLS      uint16 = 0x8847
	ethTypeMPLSMcast uint16 = 0x8848
)

// isMPLSEtherType reports whether the ethertype names an MPLS payload.
func isMPLSEtherType(ethType uint16) bool {
	return ethType == ethTypeMPLS || ethType == ethTypeMPLSMcast
}

// nxVendorID is the Nicira vendor id carried by the 1.0 vendor and
// 1.1 experimenter envelopes.
const nxVendorID uint32 = 0x00002320

// Alignment of actions, instructions and the buffers carrying them.
const (
	actionAlign = 8
	instAlign   = 8

	actionHeaderLen = 4
	nxHeaderLen     = 10
)

// cursor walks a buffer of wire records, validating each record's
// length field before handing the record out. Every record starts with
// a 16-bit type and a 16-bit length covering the whole record.
type cursor struct {
	buf []byte
}

// done reports whether the cursor consumed the whole buffer.
func (c *cursor) done() bool {
	return len(c.buf) == 0
}

// next validates the current record and returns its bytes. The length
// must be aligned, at least one alignment unit, and no longer than
// what remains.
func (c *cursor) next() ([]byte, error) {
	if len(c.buf) < actionAlign {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrBadLen, len(c.buf))
	}

	length := int(binary.BigEndian.Uint16(c.buf[2:4]))
	if length%actionAlign != 0 || length < actionAlign || length > len(c.buf) {
		return nil, fmt.Errorf("%w: record length %d of %d remaining",
			ErrBadLen, length, len(c.buf))
	}

	rec := c.buf[:length]
	c.buf = c.buf[length:]
	return rec, nil
}

// isAllZeros reports whether every byte of b is zero.
func isAllZeros(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
