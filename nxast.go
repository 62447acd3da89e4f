package ofpact

import (
	"bytes"
	"fmt"
	"io"

	"github.com/netrack/ofpact/internal/encoding"
)

// nxHdr is the Nicira action envelope: a vendor (1.0) or experimenter
// (1.1) action type, the record length, the Nicira vendor id and the
// action subtype.
type nxHdr struct {
	Type    uint16
	Len     uint16
	Vendor  uint32
	Subtype uint16
}

// nxhdr builds the envelope for a fixed-size Nicira action.
func nxhdr(code Code) nxHdr {
	info := infoByCode[code]
	return nxHdr{typeVendor10, info.size, nxVendorID, info.wireType}
}

// nxhdrLen builds the envelope with an explicit record length, for
// actions carrying a trailing payload.
func nxhdrLen(code Code, length int) nxHdr {
	h := nxhdr(code)
	h.Len = uint16(length)
	return h
}

// actionFromNXAST converts one classified Nicira action record.
func (d *Dialect) actionFromNXAST(rec []byte, info *actionInfo, out *Actions) error {
	r := bytes.NewReader(rec[nxHeaderLen:])

	switch info.code {
	case CodeNXASTResubmit:
		a := &Resubmit{TableID: 0xff}
		var port uint16
		if _, err := encoding.ReadFrom(r, &port, &defaultPad4); err != nil {
			return err
		}
		a.InPort = PortNo(port)
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTResubmitTable:
		a := &Resubmit{}
		var port uint16
		var pad [3]uint8
		if _, err := encoding.ReadFrom(r, &port, &a.TableID, &pad); err != nil {
			return err
		}
		if !isAllZeros(pad[:]) {
			return fmt.Errorf("%w: resubmit padding", ErrBadArgument)
		}
		a.InPort = PortNo(port)
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTSetTunnel:
		a := &SetTunnel{}
		var id uint32
		if _, err := encoding.ReadFrom(r, &defaultPad2, &id); err != nil {
			return err
		}
		a.ID = uint64(id)
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTSetTunnel64:
		a := &SetTunnel{}
		if _, err := encoding.ReadFrom(r, &defaultPad6, &a.ID); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTSetQueue:
		a := &SetQueue{}
		if _, err := encoding.ReadFrom(r, &defaultPad2, &a.Queue); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTPopQueue:
		a := &PopQueue{}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTRegMove:
		return regMoveFromNXAST(r, info, out)

	case CodeNXASTRegLoad:
		return regLoadFromNXAST(r, info, out)

	case CodeNXASTOutputReg:
		return outputRegFromNXAST(r, info, out)

	case CodeNXASTNote:
		a := &Note{Data: append([]byte{}, rec[nxHeaderLen:]...)}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTMultipath:
		return multipathFromNXAST(r, info, out)

	case CodeNXASTBundle, CodeNXASTBundleLoad:
		return bundleFromNXAST(rec, info, out)

	case CodeNXASTLearn:
		return learnFromNXAST(rec, info, out)

	case CodeNXASTExit:
		a := &Exit{}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTDecTTL:
		// The plain form reports expiry to the default
		// controller: one controller id of zero.
		a := &DecTTL{IDs: []uint16{0}}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTDecTTLCntIDs:
		var n uint16
		var zeros [4]uint8
		if _, err := encoding.ReadFrom(r, &n, &zeros); err != nil {
			return err
		}
		if !isAllZeros(zeros[:]) {
			return fmt.Errorf("%w: dec_ttl_cnt_ids zeros", ErrMustBeZero)
		}
		if idsLen := actionLen(rec) - int(info.size); idsLen < 2*int(n) {
			return fmt.Errorf("%w: %d bytes for %d controller ids",
				ErrBadLen, idsLen, n)
		}
		a := &DecTTL{IDs: make([]uint16, n)}
		for i := range a.IDs {
			if _, err := encoding.ReadFrom(r, &a.IDs[i]); err != nil {
				return err
			}
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTFinTimeout:
		a := &FinTimeout{}
		if _, err := encoding.ReadFrom(r, &a.IdleTimeout, &a.HardTimeout, &defaultPad2); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTController:
		a := &Controller{}
		var reason uint8
		var zero uint8
		if _, err := encoding.ReadFrom(r, &a.MaxLen, &a.ID, &reason, &zero); err != nil {
			return err
		}
		a.Reason = PacketInReason(reason)
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTWriteMetadata:
		a := &WriteMetadata{}
		var zeros [6]uint8
		if _, err := encoding.ReadFrom(r, &zeros, &a.Metadata, &a.Mask); err != nil {
			return err
		}
		if !isAllZeros(zeros[:]) {
			return fmt.Errorf("%w: write_metadata zeros", ErrMustBeZero)
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTPushMPLS:
		a := &PushMPLS{}
		if _, err := encoding.ReadFrom(r, &a.EtherType, &defaultPad4); err != nil {
			return err
		}
		if !isMPLSEtherType(a.EtherType) {
			return fmt.Errorf("%w: push_mpls ethertype %#04x", ErrBadArgument, a.EtherType)
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTPopMPLS:
		a := &PopMPLS{}
		if _, err := encoding.ReadFrom(r, &a.EtherType, &defaultPad4); err != nil {
			return err
		}
		if !d.RelaxPopMPLS && isMPLSEtherType(a.EtherType) {
			return fmt.Errorf("%w: pop_mpls ethertype %#04x", ErrBadArgument, a.EtherType)
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTPushL2:
		a := &PushL2{}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeNXASTPopL2:
		a := &PopL2{}
		a.Compat = info.code
		*out = append(*out, a)

	default:
		panic(fmt.Sprintf("ofpact: code %s in Nicira table", info.code))
	}

	return nil
}

// actionToNXAST emits the Nicira encoding of an internal record. It
// serves both wire targets: the 1.0 vendor action and the 1.1
// experimenter action share the envelope.
func actionToNXAST(w io.Writer, action Action) (int64, error) {
	switch a := action.(type) {
	case *Controller:
		return encoding.WriteTo(w, nxhdr(CodeNXASTController),
			a.MaxLen, a.ID, uint8(a.Reason), uint8(0))

	case *OutputReg:
		return outputRegToNXAST(w, a)

	case *Bundle:
		return bundleToNXAST(w, a)

	case *RegMove:
		return regMoveToNXAST(w, a)

	case *RegLoad:
		return regLoadToNXAST(w, a)

	case *DecTTL:
		return decTTLToNXAST(w, a)

	case *SetTunnel:
		if a.ID <= 0xffffffff && a.Compat != CodeNXASTSetTunnel64 {
			return encoding.WriteTo(w, nxhdr(CodeNXASTSetTunnel),
				pad2{}, uint32(a.ID))
		}
		return encoding.WriteTo(w, nxhdr(CodeNXASTSetTunnel64),
			pad6{}, a.ID)

	case *WriteMetadata:
		return encoding.WriteTo(w, nxhdr(CodeNXASTWriteMetadata),
			pad6{}, a.Metadata, a.Mask)

	case *SetQueue:
		return encoding.WriteTo(w, nxhdr(CodeNXASTSetQueue),
			pad2{}, a.Queue)

	case *PopQueue:
		return encoding.WriteTo(w, nxhdr(CodeNXASTPopQueue), pad6{})

	case *FinTimeout:
		return encoding.WriteTo(w, nxhdr(CodeNXASTFinTimeout),
			a.IdleTimeout, a.HardTimeout, pad2{})

	case *Resubmit:
		if a.TableID == 0xff && a.Compat != CodeNXASTResubmitTable {
			return encoding.WriteTo(w, nxhdr(CodeNXASTResubmit),
				uint16(a.InPort), pad4{})
		}
		return encoding.WriteTo(w, nxhdr(CodeNXASTResubmitTable),
			uint16(a.InPort), a.TableID, pad3{})

	case *Learn:
		return learnToNXAST(w, a)

	case *Multipath:
		return multipathToNXAST(w, a)

	case *Note:
		length := nxHeaderLen + len(a.Data)
		return encoding.WriteTo(w,
			nxhdrLen(CodeNXASTNote, length+padLen(length)),
			a.Data, makePad(length))

	case *Exit:
		return encoding.WriteTo(w, nxhdr(CodeNXASTExit), pad6{})

	case *PushMPLS:
		return encoding.WriteTo(w, nxhdr(CodeNXASTPushMPLS),
			a.EtherType, pad4{})

	case *PopMPLS:
		return encoding.WriteTo(w, nxhdr(CodeNXASTPopMPLS),
			a.EtherType, pad4{})

	case *PushL2:
		return encoding.WriteTo(w, nxhdr(CodeNXASTPushL2), pad6{})

	case *PopL2:
		return encoding.WriteTo(w, nxhdr(CodeNXASTPopL2), pad6{})
	}

	panic(fmt.Sprintf("ofpact: %s has no Nicira encoding", action.Kind()))
}

// decTTLToNXAST prefers the plain dec_ttl shape whenever it is
// lossless and the record was not decoded from the counted shape.
func decTTLToNXAST(w io.Writer, a *DecTTL) (int64, error) {
	plain := len(a.IDs) == 1 && a.IDs[0] == 0
	if plain && a.Compat != CodeNXASTDecTTLCntIDs {
		return encoding.WriteTo(w, nxhdr(CodeNXASTDecTTL), pad6{})
	}

	idsLen := 2 * len(a.IDs)
	length := int(infoByCode[CodeNXASTDecTTLCntIDs].size) + idsLen + padLen(idsLen)
	return encoding.WriteTo(w,
		nxhdrLen(CodeNXASTDecTTLCntIDs, length),
		uint16(len(a.IDs)), pad4{}, a.IDs, makePad(idsLen))
}
