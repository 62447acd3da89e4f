package ofpact

import (
	"fmt"
	"io"

	"golang.org/x/exp/slices"

	"github.com/netrack/ofpact/diag"
)

// Dialect bundles the deployment-specific choices the OpenFlow
// specifications leave open. The zero value is the strict standard
// behavior.
type Dialect struct {
	// PushVLANEtherTypes lists the tag protocol identifiers the
	// 1.1 push-vlan action may carry. Empty allows 802.1Q only.
	PushVLANEtherTypes []uint16 `yaml:"push_vlan_ethertypes"`

	// RelaxPopMPLS drops the requirement that the pop-mpls
	// ethertype names a non-MPLS payload.
	RelaxPopMPLS bool `yaml:"relax_pop_mpls"`

	// WriteActions decodes the write-actions instruction the same
	// way as apply-actions. The two remain mutually exclusive.
	// When false any write-actions instruction is rejected.
	WriteActions bool `yaml:"write_actions"`

	// Extended makes the decoders accept the group, set-mpls-ttl,
	// push-l2 and pop-l2 actions. The encoders emit them regardless.
	Extended bool `yaml:"extended"`

	// Warn receives diagnostics about malformed input. Nil means
	// the rate-limited default sink.
	Warn diag.Sink `yaml:"-"`
}

var defaultDialect Dialect

func (d *Dialect) get() *Dialect {
	if d == nil {
		return &defaultDialect
	}
	return d
}

func (d *Dialect) warnf(format string, args ...interface{}) {
	sink := d.Warn
	if sink == nil {
		sink = diag.Default()
	}
	sink.Warnf(format, args...)
}

// pushVLANAllowed reports whether the dialect accepts the ethertype
// on a push-vlan action.
func (d *Dialect) pushVLANAllowed(ethType uint16) bool {
	if len(d.PushVLANEtherTypes) == 0 {
		return ethType == ethTypeVLAN
	}
	return slices.Contains(d.PushVLANEtherTypes, ethType)
}

// extendedKind reports whether the kind is gated behind the Extended
// knob.
func extendedKind(k Kind) bool {
	switch k {
	case KindGroup, KindSetMPLSTTL, KindPushL2, KindPopL2:
		return true
	}
	return false
}

// DecodeActions10 converts an OpenFlow 1.0 action list using the
// default dialect.
func DecodeActions10(data []byte) (Actions, error) {
	return defaultDialect.DecodeActions10(data)
}

// DecodeActions11 converts an OpenFlow 1.1 action list using the
// default dialect.
func DecodeActions11(data []byte) (Actions, error) {
	return defaultDialect.DecodeActions11(data)
}

// DecodeInstructions converts an OpenFlow 1.1+ instruction list using
// the default dialect.
func DecodeInstructions(data []byte) (Actions, error) {
	return defaultDialect.DecodeInstructions(data)
}

// WriteActions10 encodes the list as OpenFlow 1.0 actions using the
// default dialect.
func WriteActions10(w io.Writer, acts Actions) (int64, error) {
	return defaultDialect.WriteActions10(w, acts)
}

// WriteActions11 encodes the list as OpenFlow 1.1 actions using the
// default dialect.
func WriteActions11(w io.Writer, acts Actions) (int64, error) {
	return defaultDialect.WriteActions11(w, acts)
}

// WriteInstructions encodes the list as OpenFlow 1.1+ instructions
// using the default dialect.
func WriteInstructions(w io.Writer, acts Actions) (int64, error) {
	return defaultDialect.WriteInstructions(w, acts)
}

// decodeActions drives the record walk shared by every decoder. Any
// error drops the whole output.
func (d *Dialect) decodeActions(data []byte, convert func([]byte, *Actions) error) (Actions, error) {
	if len(data)%actionAlign != 0 {
		d.warnf("action list length %d is not a multiple of %d", len(data), actionAlign)
		return nil, fmt.Errorf("%w: action list length %d", ErrBadLen, len(data))
	}

	var out Actions
	cur := cursor{data}
	for !cur.done() {
		ofs := len(data) - len(cur.buf)

		rec, err := cur.next()
		if err != nil {
			d.warnf("bad action at offset %#x: %s", ofs, err)
			return nil, err
		}

		if err := convert(rec, &out); err != nil {
			d.warnf("bad action at offset %#x: %s", ofs, err)
			return nil, err
		}
	}

	return out, nil
}
