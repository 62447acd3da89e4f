package ofpact

import "errors"

// Errors reported while decoding or validating action and instruction
// lists. Decoders wrap them with positional context; test with
// errors.Is.
var (
	// ErrBadType is returned for an unknown action code or Nicira
	// subtype, including obsolete subtypes.
	ErrBadType = errors.New("ofpact: bad action type")

	// ErrBadVendor is returned for a vendor envelope whose vendor
	// id is not the Nicira one.
	ErrBadVendor = errors.New("ofpact: bad vendor")

	// ErrBadLen is returned for a record whose length field is
	// mis-aligned, too small, truncated by the buffer, or wrong
	// for its type.
	ErrBadLen = errors.New("ofpact: bad action length")

	// ErrBadArgument is returned for a well-formed record carrying
	// a semantically invalid value.
	ErrBadArgument = errors.New("ofpact: bad argument")

	// ErrBadOutPort is returned for a port outside the datapath's
	// range.
	ErrBadOutPort = errors.New("ofpact: bad output port")

	// ErrMustBeZero is returned when reserved wire bytes carry a
	// non-zero value.
	ErrMustBeZero = errors.New("ofpact: reserved field must be zero")

	// ErrUnknownInst is returned for an unknown instruction type.
	ErrUnknownInst = errors.New("ofpact: unknown instruction")

	// ErrBadExperimenter is returned for an experimenter
	// instruction, which is never accepted.
	ErrBadExperimenter = errors.New("ofpact: bad experimenter instruction")

	// ErrBadInstLen is returned for an instruction whose length is
	// mis-aligned, truncated, or wrong for its type.
	ErrBadInstLen = errors.New("ofpact: bad instruction length")

	// ErrUnsupInst is returned for an instruction the dialect does
	// not support.
	ErrUnsupInst = errors.New("ofpact: unsupported instruction")

	// ErrUnsupportedOrder is returned when instructions repeat or
	// appear out of their mandated order.
	ErrUnsupportedOrder = errors.New("ofpact: unsupported instruction ordering")
)
