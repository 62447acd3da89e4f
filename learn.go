package ofpact

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/netrack/ofpact/internal/encoding"
	"github.com/netrack/ofpact/nxm"
)

// Flags accepted on a learn action.
const (
	// LearnSendFlowRem asks for a removal message when a learned
	// flow expires.
	LearnSendFlowRem uint16 = 1 << 0
)

// learnDefaultPriority is the flow priority a learn action assumes
// when the controller does not name one.
const learnDefaultPriority uint16 = 0x8000

// LearnDst says what a flow_mod spec does with its source bits.
type LearnDst uint8

const (
	// LearnDstMatch adds a match criterion to the learned flow.
	LearnDstMatch LearnDst = iota

	// LearnDstLoad adds a load action to the learned flow.
	LearnDstLoad

	// LearnDstOutput adds an output action to the learned flow.
	LearnDstOutput
)

// Bit layout of a flow_mod spec header: one source-kind bit, two
// destination-kind bits, eleven bits of length.
const (
	learnSrcImmediate uint16 = 1 << 13
	learnDstShift            = 11
	learnDstMask      uint16 = 3 << learnDstShift
	learnNBitsMask    uint16 = 0x7ff
)

// LearnSpec is one flow_mod spec of a learn action: a run of bits
// taken from an immediate or a field of the current packet, applied
// to the learned flow.
type LearnSpec struct {
	// NBits is the width of the run.
	NBits uint16

	// Imm holds the immediate source, 2-byte aligned, big-endian.
	// Nil means the source is the Src subfield.
	Imm []byte

	// Src is the source subfield when Imm is nil.
	Src nxm.Subfield

	// Dst is the destination subfield for match and load specs.
	Dst nxm.Subfield

	// DstKind says how the bits are applied.
	DstKind LearnDst
}

// immLen returns the wire size of an immediate for a run of n bits.
func immLen(nBits uint16) int {
	return int(nBits+15) / 16 * 2
}

// Learn installs a new flow assembled from the current packet.
type Learn struct {
	compat
	IdleTimeout    uint16
	HardTimeout    uint16
	Priority       uint16
	Cookie         uint64
	Flags          uint16
	TableID        uint8
	FinIdleTimeout uint16
	FinHardTimeout uint16
	Specs          []LearnSpec
}

// Kind implements the Action interface.
func (a *Learn) Kind() Kind { return KindLearn }

// learnFromNXAST decodes the learn action: the fixed header followed
// by flow_mod specs until a zero spec header or the end of the
// record.
func learnFromNXAST(rec []byte, info *actionInfo, out *Actions) error {
	r := bytes.NewReader(rec[nxHeaderLen:])

	a := &Learn{}
	var pad uint8
	if _, err := encoding.ReadFrom(r, &a.IdleTimeout, &a.HardTimeout,
		&a.Priority, &a.Cookie, &a.Flags, &a.TableID, &pad,
		&a.FinIdleTimeout, &a.FinHardTimeout); err != nil {
		return err
	}

	if a.Flags&^LearnSendFlowRem != 0 {
		return fmt.Errorf("%w: learn flags %#x", ErrBadArgument, a.Flags)
	}
	if a.TableID == 0xff {
		return fmt.Errorf("%w: learn table id %#x", ErrBadArgument, a.TableID)
	}

	body := rec[int(info.size):]
	for len(body) >= 2 {
		header := uint16(body[0])<<8 | uint16(body[1])
		if header == 0 {
			break
		}
		body = body[2:]

		spec := LearnSpec{
			NBits:   header & learnNBitsMask,
			DstKind: LearnDst(header & learnDstMask >> learnDstShift),
		}
		if spec.NBits == 0 {
			return fmt.Errorf("%w: learn spec of 0 bits", ErrBadArgument)
		}

		if header&learnSrcImmediate != 0 {
			n := immLen(spec.NBits)
			if len(body) < n {
				return fmt.Errorf("%w: truncated learn immediate", ErrBadLen)
			}
			spec.Imm = append([]byte{}, body[:n]...)
			body = body[n:]
		} else {
			sf, rest, err := learnSubfield(body, spec.NBits)
			if err != nil {
				return err
			}
			spec.Src, body = sf, rest
			if err := spec.Src.CheckSrc(nil); err != nil {
				return err
			}
		}

		switch spec.DstKind {
		case LearnDstMatch, LearnDstLoad:
			sf, rest, err := learnSubfield(body, spec.NBits)
			if err != nil {
				return err
			}
			spec.Dst, body = sf, rest

			check := spec.Dst.CheckSrc
			if spec.DstKind == LearnDstLoad {
				check = spec.Dst.CheckDst
			}
			if err := check(nil); err != nil {
				return err
			}

		case LearnDstOutput:
			// Output consumes the source bits as a port.

		default:
			return fmt.Errorf("%w: learn spec destination %d",
				ErrBadArgument, spec.DstKind)
		}

		a.Specs = append(a.Specs, spec)
	}

	if !isAllZeros(body) {
		return fmt.Errorf("%w: learn trailing bytes", ErrBadArgument)
	}

	a.Compat = info.code
	*out = append(*out, a)
	return nil
}

// learnSubfield reads the 6-byte wire form of a spec subfield: the
// field header and a bit offset.
func learnSubfield(body []byte, nBits uint16) (nxm.Subfield, []byte, error) {
	if len(body) < 6 {
		return nxm.Subfield{}, nil, fmt.Errorf("%w: truncated learn subfield", ErrBadLen)
	}

	header := uint32(body[0])<<24 | uint32(body[1])<<16 |
		uint32(body[2])<<8 | uint32(body[3])
	ofs := uint16(body[4])<<8 | uint16(body[5])

	field, err := nxm.FieldFromHeader(header)
	if err != nil {
		return nxm.Subfield{}, nil, err
	}

	return nxm.Subfield{Field: field, Ofs: ofs, NBits: nBits}, body[6:], nil
}

func learnToNXAST(w io.Writer, a *Learn) (int64, error) {
	var body bytes.Buffer

	for _, spec := range a.Specs {
		header := spec.NBits | uint16(spec.DstKind)<<learnDstShift
		if spec.Imm != nil {
			header |= learnSrcImmediate
		}
		if _, err := encoding.WriteTo(&body, header); err != nil {
			return 0, err
		}

		var err error
		if spec.Imm != nil {
			_, err = encoding.WriteTo(&body, spec.Imm)
		} else {
			_, err = encoding.WriteTo(&body, spec.Src.Field.NXM, spec.Src.Ofs)
		}
		if err != nil {
			return 0, err
		}

		if spec.DstKind != LearnDstOutput {
			if _, err := encoding.WriteTo(&body, spec.Dst.Field.NXM, spec.Dst.Ofs); err != nil {
				return 0, err
			}
		}
	}

	fixed := int(infoByCode[CodeNXASTLearn].size)
	length := fixed + body.Len()

	return encoding.WriteTo(w, nxhdrLen(CodeNXASTLearn, length+padLen(length)),
		a.IdleTimeout, a.HardTimeout, a.Priority, a.Cookie,
		a.Flags, a.TableID, uint8(0),
		a.FinIdleTimeout, a.FinHardTimeout,
		body.Bytes(), makePad(length))
}

// learnCheck validates every spec against the flow.
func learnCheck(a *Learn, flow *nxm.Flow) error {
	for _, spec := range a.Specs {
		if spec.Imm == nil {
			if err := spec.Src.CheckSrc(flow); err != nil {
				return err
			}
		}

		switch spec.DstKind {
		case LearnDstMatch:
			if err := spec.Dst.CheckSrc(flow); err != nil {
				return err
			}
		case LearnDstLoad:
			if err := spec.Dst.CheckDst(flow); err != nil {
				return err
			}
		}
	}
	return nil
}

// learnFormat renders the flow dump form.
func learnFormat(a *Learn) string {
	var b strings.Builder
	b.WriteString("learn(")

	fmt.Fprintf(&b, "table=%d", a.TableID)
	if a.IdleTimeout != 0 {
		fmt.Fprintf(&b, ",idle_timeout=%d", a.IdleTimeout)
	}
	if a.HardTimeout != 0 {
		fmt.Fprintf(&b, ",hard_timeout=%d", a.HardTimeout)
	}
	if a.FinIdleTimeout != 0 {
		fmt.Fprintf(&b, ",fin_idle_timeout=%d", a.FinIdleTimeout)
	}
	if a.FinHardTimeout != 0 {
		fmt.Fprintf(&b, ",fin_hard_timeout=%d", a.FinHardTimeout)
	}
	if a.Priority != learnDefaultPriority {
		fmt.Fprintf(&b, ",priority=%d", a.Priority)
	}
	if a.Flags&LearnSendFlowRem != 0 {
		b.WriteString(",send_flow_rem")
	}
	if a.Cookie != 0 {
		fmt.Fprintf(&b, ",cookie=%#x", a.Cookie)
	}

	for _, spec := range a.Specs {
		b.WriteByte(',')
		b.WriteString(spec.format())
	}

	b.WriteByte(')')
	return b.String()
}

func (spec LearnSpec) format() string {
	switch spec.DstKind {
	case LearnDstMatch:
		if spec.Imm != nil {
			return fmt.Sprintf("%s=%#x", spec.Dst, immValue(spec.Imm))
		}
		if spec.Src == spec.Dst {
			return spec.Dst.String()
		}
		return fmt.Sprintf("%s=%s", spec.Dst, spec.Src)

	case LearnDstLoad:
		if spec.Imm != nil {
			return fmt.Sprintf("load:%#x->%s", immValue(spec.Imm), spec.Dst)
		}
		return fmt.Sprintf("load:%s->%s", spec.Src, spec.Dst)

	case LearnDstOutput:
		return "output:" + spec.Src.String()
	}

	return "<bad spec>"
}

// immValue folds an immediate into an integer for formatting. Wider
// immediates than 64 bits keep their low bits, which is as much as
// the dump format shows.
func immValue(imm []byte) uint64 {
	var v uint64
	for _, b := range imm {
		v = v<<8 | uint64(b)
	}
	return v
}
