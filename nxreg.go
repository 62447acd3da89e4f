package ofpact

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/netrack/ofpact/internal/encoding"
	"github.com/netrack/ofpact/nxm"
)

// regMoveFromNXAST decodes the reg_move action: a bit range copied
// between two fields. Both ranges are structurally validated here;
// the flow prerequisites wait for Check.
func regMoveFromNXAST(r io.Reader, info *actionInfo, out *Actions) error {
	var (
		nBits, srcOfs, dstOfs uint16
		src, dst              uint32
	)
	if _, err := encoding.ReadFrom(r, &nBits, &srcOfs, &dstOfs, &src, &dst); err != nil {
		return err
	}

	a := &RegMove{}
	srcField, err := nxm.FieldFromHeader(src)
	if err != nil {
		return err
	}
	dstField, err := nxm.FieldFromHeader(dst)
	if err != nil {
		return err
	}

	a.Src = nxm.Subfield{Field: srcField, Ofs: srcOfs, NBits: nBits}
	a.Dst = nxm.Subfield{Field: dstField, Ofs: dstOfs, NBits: nBits}

	if err := a.Src.CheckSrc(nil); err != nil {
		return err
	}
	if err := a.Dst.CheckDst(nil); err != nil {
		return err
	}

	a.Compat = info.code
	*out = append(*out, a)
	return nil
}

func regMoveToNXAST(w io.Writer, a *RegMove) (int64, error) {
	return encoding.WriteTo(w, nxhdr(CodeNXASTRegMove),
		a.Src.NBits, a.Src.Ofs, a.Dst.Ofs,
		a.Src.Field.NXM, a.Dst.Field.NXM)
}

// regMoveCheck validates the move against the flow.
func regMoveCheck(a *RegMove, flow *nxm.Flow) error {
	if err := a.Src.CheckSrc(flow); err != nil {
		return err
	}
	return a.Dst.CheckDst(flow)
}

// regMoveFormat renders "move:SRC->DST".
func regMoveFormat(a *RegMove) string {
	return fmt.Sprintf("move:%s->%s", a.Src, a.Dst)
}

// regLoadFromNXAST decodes the reg_load action: an immediate written
// into a bit range.
func regLoadFromNXAST(r io.Reader, info *actionInfo, out *Actions) error {
	var (
		ofsNBits uint16
		dst      uint32
		value    uint64
	)
	if _, err := encoding.ReadFrom(r, &ofsNBits, &dst, &value); err != nil {
		return err
	}

	a := &RegLoad{Value: value}
	sf, err := nxm.SubfieldFromWire(dst, ofsNBits)
	if err != nil {
		return err
	}
	a.Dst = sf

	if err := a.Dst.CheckDst(nil); err != nil {
		return err
	}
	if a.Dst.NBits < 64 && value>>a.Dst.NBits != 0 {
		return fmt.Errorf("%w: value %#x wider than %d bits",
			ErrBadArgument, value, a.Dst.NBits)
	}

	a.Compat = info.code
	*out = append(*out, a)
	return nil
}

func regLoadToNXAST(w io.Writer, a *RegLoad) (int64, error) {
	return encoding.WriteTo(w, nxhdr(CodeNXASTRegLoad),
		a.Dst.OfsNBits(), a.Dst.Field.NXM, a.Value)
}

// regLoadCheck validates the load against the flow.
func regLoadCheck(a *RegLoad, flow *nxm.Flow) error {
	return a.Dst.CheckDst(flow)
}

// regLoadFormat renders "load:0xVAL->DST".
func regLoadFormat(a *RegLoad) string {
	return fmt.Sprintf("load:%#x->%s", a.Value, a.Dst)
}

// outputRegFromNXAST decodes the output_reg action: output to the
// port read from a subfield.
func outputRegFromNXAST(r io.Reader, info *actionInfo, out *Actions) error {
	var (
		ofsNBits uint16
		src      uint32
		maxLen   uint16
		zero     [6]uint8
	)
	if _, err := encoding.ReadFrom(r, &ofsNBits, &src, &maxLen, &zero); err != nil {
		return err
	}
	if !isAllZeros(zero[:]) {
		return fmt.Errorf("%w: output_reg zero bytes", ErrBadArgument)
	}

	a := &OutputReg{MaxLen: maxLen}
	sf, err := nxm.SubfieldFromWire(src, ofsNBits)
	if err != nil {
		return err
	}
	a.Src = sf

	if err := a.Src.CheckSrc(nil); err != nil {
		return err
	}

	a.Compat = info.code
	*out = append(*out, a)
	return nil
}

func outputRegToNXAST(w io.Writer, a *OutputReg) (int64, error) {
	return encoding.WriteTo(w, nxhdr(CodeNXASTOutputReg),
		a.Src.OfsNBits(), a.Src.Field.NXM, a.MaxLen, pad6{})
}

// setFieldFromOpenFlow12 decodes the OpenFlow 1.2 set-field action
// into a full-width reg_load tagged with the set-field code.
func setFieldFromOpenFlow12(rec []byte, out *Actions) error {
	body := rec[actionHeaderLen:]
	if len(body) < 4 {
		return fmt.Errorf("%w: set_field of %d bytes", ErrBadLen, len(rec))
	}

	header := binary.BigEndian.Uint32(body[0:4])
	if nxm.HeaderHasMask(header) {
		return fmt.Errorf("%w: masked set_field", ErrBadArgument)
	}

	field, err := nxm.FieldFromHeader(header)
	if err != nil {
		return err
	}
	if !field.Writable {
		return fmt.Errorf("%w: set_field of read-only %s", ErrBadArgument, field)
	}

	payload := nxm.HeaderLen(header)
	if payload != field.NBytes() {
		return fmt.Errorf("%w: %s payload of %d bytes", ErrBadArgument, field, payload)
	}

	// The value is padded out to the action alignment.
	want := actionHeaderLen + 4 + payload
	if len(rec) != want+padLen(want) {
		return fmt.Errorf("%w: set_field of %d bytes for %s", ErrBadLen, len(rec), field)
	}

	var value uint64
	for _, b := range body[4 : 4+payload] {
		value = value<<8 | uint64(b)
	}

	a := &RegLoad{
		Dst:   nxm.Subfield{Field: field, Ofs: 0, NBits: field.NBits},
		Value: value,
	}
	a.Compat = CodeOFPAT12SetField
	*out = append(*out, a)
	return nil
}

// setFieldToOpenFlow12 re-emits a reg_load that covers a whole field
// as the 1.2 set-field action.
func setFieldToOpenFlow12(w io.Writer, a *RegLoad) (int64, error) {
	field := a.Dst.Field
	payload := field.NBytes()

	value := make([]byte, payload)
	v := a.Value
	for i := payload - 1; i >= 0; i-- {
		value[i] = byte(v)
		v >>= 8
	}

	length := actionHeaderLen + 4 + payload
	header := field.OXM
	if header == 0 {
		header = field.NXM
	}

	info := infoByCode[CodeOFPAT12SetField]
	return encoding.WriteTo(w,
		actionHdr{info.wireType, uint16(length + padLen(length))},
		header, value, makePad(length))
}

// setFieldRepresentable reports whether the load can take the 1.2
// set-field shape: a full-width write of a writable field.
func setFieldRepresentable(a *RegLoad) bool {
	return a.Dst.Field != nil && a.Dst.Field.Writable &&
		a.Dst.Ofs == 0 && a.Dst.NBits == a.Dst.Field.NBits
}
