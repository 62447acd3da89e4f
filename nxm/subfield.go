package nxm

import (
	"fmt"
)

// Subfield identifies a run of bits inside a match field, the way the
// Nicira extension actions address their sources and destinations.
type Subfield struct {
	// Field is the descriptor resolved from the wire header.
	Field *Field

	// Ofs is the index of the least significant bit of the run.
	Ofs uint16

	// NBits is the length of the run.
	NBits uint16
}

// SubfieldFromWire resolves a wire header and an ofs_nbits word into
// a subfield.
func SubfieldFromWire(header uint32, ofsNBits uint16) (Subfield, error) {
	field, err := FieldFromHeader(header)
	if err != nil {
		return Subfield{}, err
	}

	ofs, nBits := DecodeOfsNBits(ofsNBits)
	return Subfield{Field: field, Ofs: ofs, NBits: nBits}, nil
}

// DecodeOfsNBits unpacks the 16-bit ofs_nbits encoding: the offset in
// the high ten bits, the length minus one in the low six.
func DecodeOfsNBits(x uint16) (ofs, nBits uint16) {
	return x >> 6, x&0x3f + 1
}

// EncodeOfsNBits packs an offset and length into the 16-bit ofs_nbits
// encoding.
func EncodeOfsNBits(ofs, nBits uint16) uint16 {
	return ofs<<6 | (nBits - 1)
}

// OfsNBits returns the wire encoding of the subfield's range.
func (sf Subfield) OfsNBits() uint16 {
	return EncodeOfsNBits(sf.Ofs, sf.NBits)
}

// CheckSrc validates the subfield as a read source. With a non-nil
// flow the field's prerequisites are checked too.
func (sf Subfield) CheckSrc(flow *Flow) error {
	if sf.Field == nil {
		return ErrUnknownField
	}
	if sf.NBits == 0 || uint32(sf.Ofs)+uint32(sf.NBits) > uint32(sf.Field.NBits) {
		return fmt.Errorf("%w: %s[%d..%d]", ErrBadSubfield,
			sf.Field.Name, sf.Ofs, int(sf.Ofs)+int(sf.NBits)-1)
	}
	if !flow.PrereqOK(sf.Field.Prereq) {
		return fmt.Errorf("%w: %s", ErrPrereq, sf.Field.Name)
	}
	return nil
}

// CheckDst validates the subfield as a write destination: everything
// CheckSrc demands, plus writability.
func (sf Subfield) CheckDst(flow *Flow) error {
	if err := sf.CheckSrc(flow); err != nil {
		return err
	}
	if !sf.Field.Writable {
		return fmt.Errorf("%w: %s", ErrFieldUnwritable, sf.Field.Name)
	}
	return nil
}

// String renders the subfield in the flow dump form: the whole field
// as NAME[], a single bit as NAME[n], a run as NAME[a..b].
func (sf Subfield) String() string {
	if sf.Field == nil {
		return "<unknown>[]"
	}

	switch {
	case sf.Ofs == 0 && sf.NBits == sf.Field.NBits:
		return sf.Field.Name + "[]"
	case sf.NBits == 1:
		return fmt.Sprintf("%s[%d]", sf.Field.Name, sf.Ofs)
	default:
		return fmt.Sprintf("%s[%d..%d]", sf.Field.Name,
			sf.Ofs, int(sf.Ofs)+int(sf.NBits)-1)
	}
}
