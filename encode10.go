package ofpact

import (
	"bytes"
	"io"

	"github.com/netrack/ofpact/internal/encoding"
)

// actionHdr is the header common to every OpenFlow action.
type actionHdr struct {
	Type uint16
	Len  uint16
}

// hdr builds the action header for a fixed-size native action.
func hdr(code Code) actionHdr {
	info := infoByCode[code]
	return actionHdr{info.wireType, info.size}
}

// WriteActions10 encodes the list as an OpenFlow 1.0 action list and
// appends it to w. Kinds without a 1.0 equivalent fall back to their
// Nicira vendor action; the few 1.1-only pipeline kinds that have
// neither are dropped, as the 1.0 wire cannot express them.
func (d *Dialect) WriteActions10(w io.Writer, acts Actions) (int64, error) {
	d = d.get()

	var buf bytes.Buffer
	for _, a := range acts {
		if _, err := actionToOpenFlow10(&buf, a); err != nil {
			return 0, err
		}
	}

	return buf.WriteTo(w)
}

func actionToOpenFlow10(w io.Writer, action Action) (int64, error) {
	switch a := action.(type) {
	case *Output:
		return encoding.WriteTo(w, hdr(CodeOFPAT10Output),
			uint16(a.Port), a.MaxLen)

	case *Enqueue:
		return encoding.WriteTo(w, hdr(CodeOFPAT10Enqueue),
			uint16(a.Port), pad6{}, a.Queue)

	case *SetVLANVID:
		return encoding.WriteTo(w, hdr(CodeOFPAT10SetVLANVID),
			a.VID, pad2{})

	case *SetVLANPCP:
		return encoding.WriteTo(w, hdr(CodeOFPAT10SetVLANPCP),
			a.PCP, pad3{})

	case *StripVLAN:
		return encoding.WriteTo(w, hdr(CodeOFPAT10StripVLAN), pad4{})

	case *SetEthSrc:
		return encoding.WriteTo(w, hdr(CodeOFPAT10SetDLSrc),
			a.Addr, pad6{})

	case *SetEthDst:
		return encoding.WriteTo(w, hdr(CodeOFPAT10SetDLDst),
			a.Addr, pad6{})

	case *SetIPv4Src:
		return encoding.WriteTo(w, hdr(CodeOFPAT10SetNWSrc), a.Addr)

	case *SetIPv4Dst:
		return encoding.WriteTo(w, hdr(CodeOFPAT10SetNWDst), a.Addr)

	case *SetIPv4DSCP:
		return encoding.WriteTo(w, hdr(CodeOFPAT10SetNWTos),
			a.DSCP, pad3{})

	case *SetL4SrcPort:
		return encoding.WriteTo(w, hdr(CodeOFPAT10SetTPSrc),
			a.Port, pad2{})

	case *SetL4DstPort:
		return encoding.WriteTo(w, hdr(CodeOFPAT10SetTPDst),
			a.Port, pad2{})

	case *PushVLAN, *ClearActions, *GotoTable, *Meter, *Group,
		*SetMPLSTTL:
		// Inexpressible in a 1.0 action list.
		return 0, nil
	}

	return actionToNXAST(w, action)
}
