// Package nxm resolves Nicira extensible match (NXM) and OpenFlow
// extensible match (OXM) field headers to field descriptors, and
// validates bit ranges over those fields.
package nxm

import (
	"errors"
	"fmt"
)

// Errors reported by field and subfield validation.
var (
	// ErrUnknownField is returned when a wire header names no
	// registered field.
	ErrUnknownField = errors.New("nxm: unknown field")

	// ErrBadSubfield is returned when a bit range does not fit
	// into its field.
	ErrBadSubfield = errors.New("nxm: bad subfield range")

	// ErrFieldUnwritable is returned when a destination subfield
	// names a read-only field.
	ErrFieldUnwritable = errors.New("nxm: field is not writable")

	// ErrPrereq is returned when the flow does not satisfy the
	// field's match prerequisites.
	ErrPrereq = errors.New("nxm: prerequisites not satisfied")
)

// Prereq names the protocol a flow must match before a field of that
// protocol may be read or written.
type Prereq uint8

const (
	// PrereqNone applies to fields valid in any flow.
	PrereqNone Prereq = iota

	// PrereqIPv4 applies to IPv4 header fields.
	PrereqIPv4

	// PrereqIP applies to fields shared by IPv4 and IPv6 headers.
	PrereqIP

	// PrereqARP applies to ARP header fields.
	PrereqARP

	// PrereqTCP applies to TCP header fields.
	PrereqTCP

	// PrereqUDP applies to UDP header fields.
	PrereqUDP
)

// Field describes a single match field known to the registry.
type Field struct {
	// Name is the canonical NXM_* name used by the flow dump format.
	Name string

	// NXM and OXM are the 32-bit wire headers of the field without
	// a mask. Zero means the field has no header in that class.
	NXM uint32
	OXM uint32

	// NBits is the width of the field.
	NBits uint16

	// Writable reports whether the field may be a load destination.
	Writable bool

	// Prereq names the protocol prerequisite of the field.
	Prereq Prereq
}

// NBytes returns the byte width of the field.
func (f *Field) NBytes() int {
	return int(f.NBits+7) / 8
}

// String returns the canonical name of the field.
func (f *Field) String() string {
	return f.Name
}

// Wire header layout: class(16) | field(7) | hasmask(1) | length(8).
func header(class uint32, field uint32, length uint32) uint32 {
	return class<<16 | field<<9 | length
}

const (
	classNXM0  = 0x0000
	classNXM1  = 0x0001
	classBasic = 0x8000
)

var fields = []*Field{
	{Name: "NXM_OF_IN_PORT", NXM: header(classNXM0, 0, 2), NBits: 16, Prereq: PrereqNone},
	{Name: "NXM_OF_ETH_DST", NXM: header(classNXM0, 1, 6), OXM: header(classBasic, 3, 6), NBits: 48, Writable: true},
	{Name: "NXM_OF_ETH_SRC", NXM: header(classNXM0, 2, 6), OXM: header(classBasic, 4, 6), NBits: 48, Writable: true},
	{Name: "NXM_OF_ETH_TYPE", NXM: header(classNXM0, 3, 2), OXM: header(classBasic, 5, 2), NBits: 16},
	{Name: "NXM_OF_VLAN_TCI", NXM: header(classNXM0, 4, 2), NBits: 16, Writable: true},
	{Name: "NXM_OF_IP_TOS", NXM: header(classNXM0, 5, 1), NBits: 8, Writable: true, Prereq: PrereqIP},
	{Name: "NXM_OF_IP_PROTO", NXM: header(classNXM0, 6, 1), OXM: header(classBasic, 10, 1), NBits: 8, Prereq: PrereqIP},
	{Name: "NXM_OF_IP_SRC", NXM: header(classNXM0, 7, 4), OXM: header(classBasic, 11, 4), NBits: 32, Writable: true, Prereq: PrereqIPv4},
	{Name: "NXM_OF_IP_DST", NXM: header(classNXM0, 8, 4), OXM: header(classBasic, 12, 4), NBits: 32, Writable: true, Prereq: PrereqIPv4},
	{Name: "NXM_OF_TCP_SRC", NXM: header(classNXM0, 9, 2), OXM: header(classBasic, 13, 2), NBits: 16, Writable: true, Prereq: PrereqTCP},
	{Name: "NXM_OF_TCP_DST", NXM: header(classNXM0, 10, 2), OXM: header(classBasic, 14, 2), NBits: 16, Writable: true, Prereq: PrereqTCP},
	{Name: "NXM_OF_UDP_SRC", NXM: header(classNXM0, 11, 2), OXM: header(classBasic, 15, 2), NBits: 16, Writable: true, Prereq: PrereqUDP},
	{Name: "NXM_OF_UDP_DST", NXM: header(classNXM0, 12, 2), OXM: header(classBasic, 16, 2), NBits: 16, Writable: true, Prereq: PrereqUDP},
	{Name: "NXM_OF_ARP_OP", NXM: header(classNXM0, 15, 2), OXM: header(classBasic, 21, 2), NBits: 16, Prereq: PrereqARP},
	{Name: "NXM_OF_ARP_SPA", NXM: header(classNXM0, 16, 4), OXM: header(classBasic, 22, 4), NBits: 32, Prereq: PrereqARP},
	{Name: "NXM_OF_ARP_TPA", NXM: header(classNXM0, 17, 4), OXM: header(classBasic, 23, 4), NBits: 32, Prereq: PrereqARP},

	{Name: "NXM_NX_REG0", NXM: header(classNXM1, 0, 4), NBits: 32, Writable: true},
	{Name: "NXM_NX_REG1", NXM: header(classNXM1, 1, 4), NBits: 32, Writable: true},
	{Name: "NXM_NX_REG2", NXM: header(classNXM1, 2, 4), NBits: 32, Writable: true},
	{Name: "NXM_NX_REG3", NXM: header(classNXM1, 3, 4), NBits: 32, Writable: true},
	{Name: "NXM_NX_REG4", NXM: header(classNXM1, 4, 4), NBits: 32, Writable: true},
	{Name: "NXM_NX_REG5", NXM: header(classNXM1, 5, 4), NBits: 32, Writable: true},
	{Name: "NXM_NX_REG6", NXM: header(classNXM1, 6, 4), NBits: 32, Writable: true},
	{Name: "NXM_NX_REG7", NXM: header(classNXM1, 7, 4), NBits: 32, Writable: true},
	{Name: "NXM_NX_TUN_ID", NXM: header(classNXM1, 16, 8), OXM: header(classBasic, 38, 8), NBits: 64, Writable: true},
	{Name: "NXM_NX_ARP_SHA", NXM: header(classNXM1, 17, 6), OXM: header(classBasic, 24, 6), NBits: 48, Prereq: PrereqARP},
	{Name: "NXM_NX_ARP_THA", NXM: header(classNXM1, 18, 6), OXM: header(classBasic, 25, 6), NBits: 48, Prereq: PrereqARP},

	{Name: "OXM_OF_METADATA", OXM: header(classBasic, 2, 8), NBits: 64, Writable: true},
}

var (
	byNXM  = make(map[uint32]*Field)
	byOXM  = make(map[uint32]*Field)
	byName = make(map[string]*Field)
)

func init() {
	for _, f := range fields {
		if f.NXM != 0 {
			byNXM[f.NXM] = f
		}
		if f.OXM != 0 {
			byOXM[f.OXM] = f
		}
		byName[f.Name] = f
	}
}

// hasMask is the has-mask bit of a wire header.
const hasMask = 1 << 8

// FieldFromHeader resolves a 32-bit NXM or OXM wire header. The
// has-mask bit is ignored for the lookup.
func FieldFromHeader(h uint32) (*Field, error) {
	masked := h &^ hasMask
	if f, ok := byNXM[masked]; ok {
		return f, nil
	}
	if f, ok := byOXM[masked]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %#08x", ErrUnknownField, h)
}

// FieldByName resolves a canonical field name.
func FieldByName(name string) (*Field, error) {
	if f, ok := byName[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// HeaderHasMask reports whether the has-mask bit of a wire header
// is set.
func HeaderHasMask(h uint32) bool {
	return h&hasMask != 0
}

// HeaderLen returns the payload length carried in a wire header.
func HeaderLen(h uint32) int {
	return int(h & 0xff)
}
