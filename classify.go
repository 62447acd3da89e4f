package ofpact

import (
	"encoding/binary"
	"fmt"
)

// checkLen applies the extensibility rule of the opcode tables: an
// extensible record must cover at least its fixed struct, everything
// else must match it exactly.
func (info *actionInfo) checkLen(length int) error {
	ok := length == int(info.size)
	if info.extensible {
		ok = length >= int(info.size)
	}

	if !ok {
		return fmt.Errorf("%w: %s wants %d bytes, has %d",
			ErrBadLen, info.name, info.size, length)
	}
	return nil
}

// classifyNX resolves the Nicira envelope shared by the 1.0 vendor
// and the 1.1 experimenter action.
func classifyNX(rec []byte, d *Dialect) (*actionInfo, error) {
	// The envelope itself must be complete before its vendor and
	// subtype words may be trusted.
	if len(rec) < 16 {
		return nil, fmt.Errorf("%w: vendor action of %d bytes", ErrBadLen, len(rec))
	}

	vendor := binary.BigEndian.Uint32(rec[4:8])
	if vendor != nxVendorID {
		return nil, fmt.Errorf("%w: %#08x", ErrBadVendor, vendor)
	}

	subtype := binary.BigEndian.Uint16(rec[8:10])
	info, ok := nxBySubtype[subtype]
	if !ok || (extendedKind(info.kind) && !d.Extended) {
		return nil, fmt.Errorf("%w: Nicira subtype %d", ErrBadType, subtype)
	}

	return info, info.checkLen(len(rec))
}

// classify10 resolves one OpenFlow 1.0 action record against the 1.0
// and Nicira tables.
func classify10(rec []byte, d *Dialect) (*actionInfo, error) {
	typ := binary.BigEndian.Uint16(rec[0:2])
	if typ == typeVendor10 {
		return classifyNX(rec, d)
	}

	info, ok := of10ByType[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrBadType, typ)
	}

	return info, info.checkLen(len(rec))
}

// classify11 resolves one OpenFlow 1.1/1.2 action record against the
// 1.1 and Nicira tables.
func classify11(rec []byte, d *Dialect) (*actionInfo, error) {
	typ := binary.BigEndian.Uint16(rec[0:2])
	if typ == typeExperimenter11 {
		return classifyNX(rec, d)
	}

	info, ok := of11ByType[typ]
	if !ok || (extendedKind(info.kind) && !d.Extended) {
		return nil, fmt.Errorf("%w: %d", ErrBadType, typ)
	}

	return info, info.checkLen(len(rec))
}
