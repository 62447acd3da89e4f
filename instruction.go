package ofpact

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/netrack/ofpact/internal/encoding"
)

// Instruction types of OpenFlow 1.1 and 1.3.
const (
	instGotoTable     uint16 = 1
	instWriteMetadata uint16 = 2
	instWriteActions  uint16 = 3
	instApplyActions  uint16 = 4
	instClearActions  uint16 = 5
	instMeter         uint16 = 6
	instExperimenter  uint16 = 0xffff
)

// instInfo describes one instruction encoding: numeric type, fixed
// struct size and the extensibility of the length check.
type instInfo struct {
	typ        uint16
	size       uint16
	extensible bool
	name       string
}

var instructions = []instInfo{
	{instGotoTable, 8, false, "goto_table"},
	{instWriteMetadata, 24, false, "write_metadata"},
	{instWriteActions, 8, true, "write_actions"},
	{instApplyActions, 8, true, "apply_actions"},
	{instClearActions, 8, false, "clear_actions"},
	{instMeter, 8, false, "meter"},
}

var instByType = make(map[uint16]*instInfo)

func init() {
	for i := range instructions {
		instByType[instructions[i].typ] = &instructions[i]
	}
}

// instHdr is the header common to every instruction.
type instHdr struct {
	Type uint16
	Len  uint16
}

// classifyInstruction resolves one instruction record against the
// instruction table.
func classifyInstruction(rec []byte) (*instInfo, error) {
	typ := binary.BigEndian.Uint16(rec[0:2])
	if typ == instExperimenter {
		return nil, fmt.Errorf("%w: type %d", ErrBadExperimenter, typ)
	}

	info, ok := instByType[typ]
	if !ok {
		return nil, fmt.Errorf("%w: type %d", ErrUnknownInst, typ)
	}

	length := len(rec)
	ok = length == int(info.size)
	if info.extensible {
		ok = length >= int(info.size)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s of %d bytes", ErrBadInstLen, info.name, length)
	}

	return info, nil
}

// DecodeInstructions converts an OpenFlow 1.1+ instruction list into
// internal form. Each instruction kind may appear at most once; the
// standalone instructions come out as synthetic records in the fixed
// order meter, apply-actions, clear-actions, write-metadata,
// goto-table, and the whole result is checked for instruction
// ordering.
func (d *Dialect) DecodeInstructions(data []byte) (Actions, error) {
	d = d.get()

	out, err := d.decodeInstructions(data)
	if err != nil {
		d.warnf("bad instruction list: %s", err)
		return nil, err
	}

	if err := Verify(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Dialect) decodeInstructions(data []byte) (Actions, error) {
	if len(data)%instAlign != 0 {
		return nil, fmt.Errorf("%w: instruction list length %d", ErrBadInstLen, len(data))
	}

	// At most one record of each instruction type.
	slots := make(map[uint16][]byte, len(instructions))

	cur := cursor{data}
	for !cur.done() {
		rec, err := cur.next()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadInstLen, err)
		}

		info, err := classifyInstruction(rec)
		if err != nil {
			return nil, err
		}

		if _, ok := slots[info.typ]; ok {
			return nil, fmt.Errorf("%w: duplicate %s instruction",
				ErrUnsupportedOrder, info.name)
		}
		slots[info.typ] = rec
	}

	var out Actions

	if rec, ok := slots[instMeter]; ok {
		a := &Meter{ID: binary.BigEndian.Uint32(rec[4:8])}
		out = append(out, a)
	}

	if rec, ok := slots[instApplyActions]; ok {
		if err := d.decodeInstructionActions(rec, &out); err != nil {
			return nil, err
		}
	}

	if rec, ok := slots[instWriteActions]; ok {
		if !d.WriteActions {
			return nil, fmt.Errorf("%w: write_actions", ErrUnsupInst)
		}
		if _, ok := slots[instApplyActions]; ok {
			return nil, fmt.Errorf("%w: write_actions together with apply_actions",
				ErrUnsupInst)
		}
		if err := d.decodeInstructionActions(rec, &out); err != nil {
			return nil, err
		}
	}

	if _, ok := slots[instClearActions]; ok {
		out = append(out, &ClearActions{})
	}

	if rec, ok := slots[instWriteMetadata]; ok {
		a := &WriteMetadata{}
		if _, err := encoding.ReadFrom(bytes.NewReader(rec), &defaultPad4,
			&defaultPad4, &a.Metadata, &a.Mask); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	if rec, ok := slots[instGotoTable]; ok {
		out = append(out, &GotoTable{TableID: rec[4]})
	}

	return out, nil
}

// decodeInstructionActions decodes the action list wrapped inside an
// apply-actions or write-actions instruction.
func (d *Dialect) decodeInstructionActions(rec []byte, out *Actions) error {
	return d.walkActions(rec[8:], out, d.actionFromOpenFlow11)
}

// walkActions runs the record walk over an embedded byte range,
// appending to an existing list.
func (d *Dialect) walkActions(data []byte, out *Actions, convert func([]byte, *Actions) error) error {
	cur := cursor{data}
	for !cur.done() {
		rec, err := cur.next()
		if err != nil {
			return err
		}
		if err := convert(rec, out); err != nil {
			return err
		}
	}
	return nil
}
