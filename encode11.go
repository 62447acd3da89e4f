package ofpact

import (
	"bytes"
	"fmt"
	"io"

	"github.com/netrack/ofpact/internal/encoding"
)

// WriteActions11 encodes the list as a bare OpenFlow 1.1 action list
// and appends it to w, returning the appended byte count. Kinds
// without a 1.1 equivalent fall back to their Nicira experimenter
// action. The pipeline kinds that only exist as instructions must not
// appear here; use WriteInstructions for a full instruction list.
func (d *Dialect) WriteActions11(w io.Writer, acts Actions) (int64, error) {
	d = d.get()

	var buf bytes.Buffer
	for _, a := range acts {
		if _, err := actionToOpenFlow11(&buf, a); err != nil {
			return 0, err
		}
	}

	return buf.WriteTo(w)
}

func actionToOpenFlow11(w io.Writer, action Action) (int64, error) {
	switch a := action.(type) {
	case *Output:
		return encoding.WriteTo(w, hdr(CodeOFPAT11Output),
			portToOpenFlow11(a.Port), a.MaxLen, pad6{})

	case *Enqueue:
		// 1.1 dropped the enqueue action.
		return 0, nil

	case *SetVLANVID:
		return encoding.WriteTo(w, hdr(CodeOFPAT11SetVLANVID),
			a.VID, pad2{})

	case *SetVLANPCP:
		return encoding.WriteTo(w, hdr(CodeOFPAT11SetVLANPCP),
			a.PCP, pad3{})

	case *StripVLAN:
		return encoding.WriteTo(w, hdr(CodeOFPAT11PopVLAN), pad4{})

	case *PushVLAN:
		return encoding.WriteTo(w, hdr(CodeOFPAT11PushVLAN),
			a.EtherType, pad2{})

	case *SetQueue:
		return encoding.WriteTo(w, hdr(CodeOFPAT11SetQueue), a.Queue)

	case *SetEthSrc:
		return encoding.WriteTo(w, hdr(CodeOFPAT11SetDLSrc),
			a.Addr, pad6{})

	case *SetEthDst:
		return encoding.WriteTo(w, hdr(CodeOFPAT11SetDLDst),
			a.Addr, pad6{})

	case *SetIPv4Src:
		return encoding.WriteTo(w, hdr(CodeOFPAT11SetNWSrc), a.Addr)

	case *SetIPv4Dst:
		return encoding.WriteTo(w, hdr(CodeOFPAT11SetNWDst), a.Addr)

	case *SetIPv4DSCP:
		return encoding.WriteTo(w, hdr(CodeOFPAT11SetNWTos),
			a.DSCP, pad3{})

	case *SetL4SrcPort:
		return encoding.WriteTo(w, hdr(CodeOFPAT11SetTPSrc),
			a.Port, pad2{})

	case *SetL4DstPort:
		return encoding.WriteTo(w, hdr(CodeOFPAT11SetTPDst),
			a.Port, pad2{})

	case *DecTTL:
		plain := len(a.IDs) == 1 && a.IDs[0] == 0
		if plain && (a.Compat == CodeInvalid || a.Compat == CodeOFPAT11DecNWTTL) {
			return encoding.WriteTo(w, hdr(CodeOFPAT11DecNWTTL), pad4{})
		}
		return actionToNXAST(w, action)

	case *RegLoad:
		if a.Compat == CodeOFPAT12SetField && setFieldRepresentable(a) {
			return setFieldToOpenFlow12(w, a)
		}
		return actionToNXAST(w, action)

	case *WriteMetadata:
		// Expressed by the write-metadata instruction.
		return 0, nil

	case *PushMPLS:
		return encoding.WriteTo(w, hdr(CodeOFPAT11PushMPLS),
			a.EtherType, pad2{})

	case *PopMPLS:
		return encoding.WriteTo(w, hdr(CodeOFPAT11PopMPLS),
			a.EtherType, pad2{})

	case *Group:
		return encoding.WriteTo(w, hdr(CodeOFPAT11Group), a.ID)

	case *SetMPLSTTL:
		return encoding.WriteTo(w, hdr(CodeOFPAT11SetMPLSTTL),
			a.TTL, pad3{})

	case *ClearActions, *GotoTable, *Meter:
		panic(fmt.Sprintf("ofpact: %s in a 1.1 action list", action.Kind()))
	}

	return actionToNXAST(w, action)
}

// isInstruction reports whether the kind is carried by a dedicated
// instruction rather than an action when encoding for 1.1+.
func isInstruction(action Action) bool {
	switch action.Kind() {
	case KindClearActions, KindWriteMetadata, KindGotoTable, KindMeter:
		return true
	}
	return false
}

// WriteInstructions encodes the list as an OpenFlow 1.1+ instruction
// list and appends it to w. Runs of plain actions are wrapped into a
// single apply-actions instruction each; empty wrappings are
// suppressed.
func (d *Dialect) WriteInstructions(w io.Writer, acts Actions) (int64, error) {
	d = d.get()

	var buf bytes.Buffer
	var run Actions

	flush := func() error {
		if len(run) == 0 {
			return nil
		}

		var abuf bytes.Buffer
		for _, a := range run {
			if _, err := actionToOpenFlow11(&abuf, a); err != nil {
				return err
			}
		}
		run = run[:0]

		if abuf.Len() == 0 {
			return nil
		}

		_, err := encoding.WriteTo(&buf,
			instHdr{instApplyActions, uint16(8 + abuf.Len())},
			pad4{}, abuf.Bytes())
		return err
	}

	for _, action := range acts {
		if !isInstruction(action) {
			run = append(run, action)
			continue
		}

		if err := flush(); err != nil {
			return 0, err
		}

		var err error
		switch a := action.(type) {
		case *ClearActions:
			_, err = encoding.WriteTo(&buf,
				instHdr{instClearActions, 8}, pad4{})
		case *Meter:
			_, err = encoding.WriteTo(&buf,
				instHdr{instMeter, 8}, a.ID)
		case *WriteMetadata:
			_, err = encoding.WriteTo(&buf,
				instHdr{instWriteMetadata, 24},
				pad4{}, a.Metadata, a.Mask)
		case *GotoTable:
			_, err = encoding.WriteTo(&buf,
				instHdr{instGotoTable, 8}, a.TableID, pad3{})
		}
		if err != nil {
			return 0, err
		}
	}

	if err := flush(); err != nil {
		return 0, err
	}

	return buf.WriteTo(w)
}
