package ofpact

import (
	"bytes"
	"fmt"

	"github.com/netrack/ofpact/internal/encoding"
)

// DecodeActions10 converts an OpenFlow 1.0 action list into internal
// form. The whole buffer is consumed; on any error the output is
// dropped.
//
// The result is valid generically but may still be invalid for a
// specific datapath; use Check for context validation.
func (d *Dialect) DecodeActions10(data []byte) (Actions, error) {
	d = d.get()

	out, err := d.decodeActions(data, d.actionFromOpenFlow10)
	if err != nil {
		return nil, err
	}

	if err := Verify(out); err != nil {
		return nil, err
	}
	return out, nil
}

// actionFromOpenFlow10 converts one 1.0 wire record, delegating
// vendor envelopes to the Nicira decoder.
func (d *Dialect) actionFromOpenFlow10(rec []byte, out *Actions) error {
	info, err := classify10(rec, d)
	if err != nil {
		return err
	}

	if info.code >= CodeNXASTResubmit {
		return d.actionFromNXAST(rec, info, out)
	}

	r := bytes.NewReader(rec)

	switch info.code {
	case CodeOFPAT10Output:
		a := &Output{}
		var port uint16
		if _, err := encoding.ReadFrom(r, &defaultPad4, &port, &a.MaxLen); err != nil {
			return err
		}
		a.Port = PortNo(port)
		a.Compat = info.code
		*out = append(*out, a)
		return checkOutputPort(a.Port, int(PortMax))

	case CodeOFPAT10SetVLANVID:
		a := &SetVLANVID{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.VID, &defaultPad2); err != nil {
			return err
		}
		if a.VID&^0xfff != 0 {
			return fmt.Errorf("%w: vlan vid %#x", ErrBadArgument, a.VID)
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT10SetVLANPCP:
		a := &SetVLANPCP{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.PCP, &defaultPad3); err != nil {
			return err
		}
		if a.PCP&^0x7 != 0 {
			return fmt.Errorf("%w: vlan pcp %#x", ErrBadArgument, a.PCP)
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT10StripVLAN:
		a := &StripVLAN{}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT10SetDLSrc:
		a := &SetEthSrc{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.Addr, &defaultPad6); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT10SetDLDst:
		a := &SetEthDst{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.Addr, &defaultPad6); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT10SetNWSrc:
		a := &SetIPv4Src{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.Addr); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT10SetNWDst:
		a := &SetIPv4Dst{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.Addr); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT10SetNWTos:
		a := &SetIPv4DSCP{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.DSCP, &defaultPad3); err != nil {
			return err
		}
		if a.DSCP&^dscpMask != 0 {
			return fmt.Errorf("%w: tos %#x", ErrBadArgument, a.DSCP)
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT10SetTPSrc:
		a := &SetL4SrcPort{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.Port, &defaultPad2); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT10SetTPDst:
		a := &SetL4DstPort{}
		if _, err := encoding.ReadFrom(r, &defaultPad4, &a.Port, &defaultPad2); err != nil {
			return err
		}
		a.Compat = info.code
		*out = append(*out, a)

	case CodeOFPAT10Enqueue:
		a := &Enqueue{}
		var port uint16
		if _, err := encoding.ReadFrom(r, &defaultPad4, &port, &defaultPad6, &a.Queue); err != nil {
			return err
		}
		a.Port = PortNo(port)
		if a.Port >= PortMax && a.Port != PortInPort && a.Port != PortLocal {
			return fmt.Errorf("%w: enqueue to %s", ErrBadOutPort, a.Port)
		}
		a.Compat = info.code
		*out = append(*out, a)

	default:
		panic(fmt.Sprintf("ofpact: code %s in 1.0 table", info.code))
	}

	return nil
}

// dscpMask covers the DSCP bits of the IPv4 ToS byte.
const dscpMask uint8 = 0xfc
