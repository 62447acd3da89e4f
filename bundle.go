package ofpact

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/netrack/ofpact/internal/encoding"
	"github.com/netrack/ofpact/nxm"
)

// BundleAlgorithm selects the slave a bundle forwards through.
type BundleAlgorithm uint16

const (
	// BundleAlgActiveBackup uses the first live slave.
	BundleAlgActiveBackup BundleAlgorithm = iota

	// BundleAlgHRW is highest random weight hashing over the
	// live slaves.
	BundleAlgHRW
)

var bundleAlgText = map[BundleAlgorithm]string{
	BundleAlgActiveBackup: "active_backup",
	BundleAlgHRW:          "hrw",
}

// String returns the flow dump name of the algorithm.
func (alg BundleAlgorithm) String() string {
	if text, ok := bundleAlgText[alg]; ok {
		return text
	}
	return fmt.Sprintf("BundleAlgorithm(%d)", uint16(alg))
}

// bundleSlaveTypeOFPort is the only slave type defined: slaves are
// 16-bit OpenFlow ports.
var bundleSlaveTypeOFPort = mustFieldHeader("NXM_OF_IN_PORT")

func mustFieldHeader(name string) uint32 {
	field, err := nxm.FieldByName(name)
	if err != nil {
		panic(err)
	}
	return field.NXM
}

// Bundle selects one slave port and either outputs to it (bundle) or
// writes it into a subfield (bundle_load, when Dst names a field).
type Bundle struct {
	compat
	Algorithm BundleAlgorithm
	Fields    HashFields
	Basis     uint16
	Slaves    []PortNo
	Dst       nxm.Subfield
}

// Kind implements the Action interface.
func (a *Bundle) Kind() Kind { return KindBundle }

// load reports whether the record is the bundle_load form.
func (a *Bundle) load() bool {
	return a.Dst.Field != nil
}

// bundleFromNXAST decodes the bundle and bundle_load actions,
// including the trailing slave list.
func bundleFromNXAST(rec []byte, info *actionInfo, out *Actions) error {
	r := bytes.NewReader(rec[nxHeaderLen:])

	var (
		algorithm, fields, basis uint16
		slaveType                uint32
		nSlaves                  uint16
		ofsNBits                 uint16
		dst                      uint32
		zero                     [4]uint8
	)
	if _, err := encoding.ReadFrom(r, &algorithm, &fields, &basis,
		&slaveType, &nSlaves, &ofsNBits, &dst, &zero); err != nil {
		return err
	}

	if !isAllZeros(zero[:]) {
		return fmt.Errorf("%w: bundle zero bytes", ErrBadArgument)
	}
	if slaveType != bundleSlaveTypeOFPort {
		return fmt.Errorf("%w: bundle slave type %#08x", ErrBadArgument, slaveType)
	}

	a := &Bundle{
		Algorithm: BundleAlgorithm(algorithm),
		Fields:    HashFields(fields),
		Basis:     basis,
	}
	if _, ok := bundleAlgText[a.Algorithm]; !ok {
		return fmt.Errorf("%w: bundle algorithm %d", ErrBadArgument, algorithm)
	}
	if _, ok := hashFieldsText[a.Fields]; !ok {
		return fmt.Errorf("%w: bundle fields %d", ErrBadArgument, fields)
	}

	switch info.code {
	case CodeNXASTBundle:
		if dst != 0 || ofsNBits != 0 {
			return fmt.Errorf("%w: bundle with destination", ErrBadArgument)
		}
	case CodeNXASTBundleLoad:
		sf, err := nxm.SubfieldFromWire(dst, ofsNBits)
		if err != nil {
			return err
		}
		a.Dst = sf
		if err := a.Dst.CheckDst(nil); err != nil {
			return err
		}
		if a.Dst.NBits < 16 {
			return fmt.Errorf("%w: bundle destination of %d bits",
				ErrBadArgument, a.Dst.NBits)
		}
	}

	slavesLen := actionLen(rec) - int(info.size)
	if slavesLen < 2*int(nSlaves) {
		return fmt.Errorf("%w: %d bytes for %d bundle slaves",
			ErrBadLen, slavesLen, nSlaves)
	}

	a.Slaves = make([]PortNo, nSlaves)
	for i := range a.Slaves {
		var port uint16
		if _, err := encoding.ReadFrom(r, &port); err != nil {
			return err
		}
		a.Slaves[i] = PortNo(port)
	}

	a.Compat = info.code
	*out = append(*out, a)
	return nil
}

func bundleToNXAST(w io.Writer, a *Bundle) (int64, error) {
	code := CodeNXASTBundle
	ofsNBits := uint16(0)
	dst := uint32(0)
	if a.load() {
		code = CodeNXASTBundleLoad
		ofsNBits = a.Dst.OfsNBits()
		dst = a.Dst.Field.NXM
	}

	slaves := make([]uint16, len(a.Slaves))
	for i, port := range a.Slaves {
		slaves[i] = uint16(port)
	}

	slavesLen := 2 * len(slaves)
	length := int(infoByCode[code].size) + slavesLen + padLen(slavesLen)

	return encoding.WriteTo(w, nxhdrLen(code, length),
		uint16(a.Algorithm), uint16(a.Fields), a.Basis,
		bundleSlaveTypeOFPort, uint16(len(slaves)), ofsNBits, dst,
		pad4{}, slaves, makePad(slavesLen))
}

// bundleCheck validates the slave ports against the datapath and the
// destination against the flow.
func bundleCheck(a *Bundle, maxPorts int, flow *nxm.Flow) error {
	for _, slave := range a.Slaves {
		if err := checkOutputPort(slave, maxPorts); err != nil {
			return err
		}
	}

	if a.load() {
		return a.Dst.CheckDst(flow)
	}
	return nil
}

// bundleFormat renders the flow dump form of both shapes.
func bundleFormat(a *Bundle) string {
	var b strings.Builder

	if a.load() {
		fmt.Fprintf(&b, "bundle_load(%s,%d,%s,ofport,%s,slaves:",
			a.Fields, a.Basis, a.Algorithm, a.Dst)
	} else {
		fmt.Fprintf(&b, "bundle(%s,%d,%s,ofport,slaves:",
			a.Fields, a.Basis, a.Algorithm)
	}

	for i, slave := range a.Slaves {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(slave.String())
	}
	b.WriteByte(')')

	return b.String()
}
