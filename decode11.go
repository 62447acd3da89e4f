package ofpact

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/netrack/ofpact/internal/encoding"
)

// DecodeActions11 converts a bare OpenFlow 1.1 action list into
// internal form. In most of OpenFlow 1.1+ actions arrive wrapped in
// instructions; use DecodeInstructions for those.
func (d *Dialect) DecodeActions11(data []byte) (Actions, error) {
	d = d.get()

	out, err := d.decodeActions(data, d.actionFromOpenFlow11)
	if err != nil {
		return nil, err
	}

	if err := Verify(out); err != nil {
		return nil, err
	}
	return out, nil
}

// actionFromOpenFlow11 converts one 1.1/1.2 wire record, delegating
// experimenter envelopes to the Nicira decoder.
func (d *Dialect) actionFromOpenFlow11(rec []byte, out *Actions) error {
	info, err := classify11(rec, d)
	if err != nil {
		return err
	}

	if info.code >= CodeNXASTResubmit {
		return d.actionFromNXAST(rec, info, out)
	}

	r := bytes.NewReader(rec)

	switch info.code {
	case CodeOFPAT11Output:
		a := &Output{}
		var port uint32
		if _, err := encoding.ReadFrom(r, &defaultPad4, &port, &a.MaxLen, &defaultPad6); err != nil {
			return err
		}
		a.Port, err = portFromOpenFlow11(port)
		if err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)
		return checkOutputPort(a.Port, int(PortMax))

	case CodeOFPAT11SetVLANVID:
		a := &SetVLANVID{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.VID, &defaultPad2); err != nil {
			return err
		}
		if a.VID&^0xfff != 0 {
			return fmt.Errorf("%w: vlan vid %#x", ErrBadArgument, a.VID)
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11SetVLANPCP:
		a := &SetVLANPCP{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.PCP, &defaultPad3); err != nil {
			return err
		}
		if a.PCP&^0x7 != 0 {
			return fmt.Errorf("%w: vlan pcp %#x", ErrBadArgument, a.PCP)
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11PushVLAN:
		a := &PushVLAN{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.EtherType, &defaultPad2); err != nil {
			return err
		}
		if !d.pushVLANAllowed(a.EtherType) {
			return fmt.Errorf("%w: push_vlan ethertype %#04x", ErrBadArgument, a.EtherType)
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11PopVLAN:
		a := &StripVLAN{}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11SetDLSrc:
		a := &SetEthSrc{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.Addr, &defaultPad6); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11SetDLDst:
		a := &SetEthDst{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.Addr, &defaultPad6); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11SetNWSrc:
		a := &SetIPv4Src{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.Addr); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11SetNWDst:
		a := &SetIPv4Dst{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.Addr); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11SetNWTos:
		a := &SetIPv4DSCP{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.DSCP, &defaultPad3); err != nil {
			return err
		}
		if a.DSCP&^dscpMask != 0 {
			return fmt.Errorf("%w: tos %#x", ErrBadArgument, a.DSCP)
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11SetTPSrc:
		a := &SetL4SrcPort{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.Port, &defaultPad2); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11SetTPDst:
		a := &SetL4DstPort{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.Port, &defaultPad2); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11SetQueue:
		a := &SetQueue{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.Queue); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11DecNWTTL:
		// The plain form means "report expiry to the default
		// controller": one controller id of zero.
		a := &DecTTL{IDs: []uint16{0}}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11PushMPLS:
		a := &PushMPLS{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.EtherType, &defaultPad2); err != nil {
			return err
		}
		if !isMPLSEtherType(a.EtherType) {
			return fmt.Errorf("%w: push_mpls ethertype %#04x", ErrBadArgument, a.EtherType)
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11PopMPLS:
		a := &PopMPLS{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.EtherType, &defaultPad2); err != nil {
			return err
		}
		if !d.RelaxPopMPLS && isMPLSEtherType(a.EtherType) {
			return fmt.Errorf("%w: pop_mpls ethertype %#04x", ErrBadArgument, a.EtherType)
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT12SetField:
		return setFieldFromOpenFlow12(rec, out)

	case CodeOFPAT11Group:
		a := &Group{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.ID); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT11SetMPLSTTL:
		a := &SetMPLSTTL{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.TTL, &defaultPad3); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	default:
		panic(fmt.Sprintf("ofpact: code %s in 1.1 table", info.code))
	}

	return nil
}

// actionLen reads the wire length of an already validated record.
func actionLen(rec []byte) int {
	return int(binary.BigEndian.Uint16(rec[2:4]))
}
