package ofpact

import (
	"fmt"
	"io"
	"strings"

	"github.com/netrack/ofpact/internal/encoding"
	"github.com/netrack/ofpact/nxm"
)

// HashFields selects the packet fields fed into a link-selection
// hash. Shared by the multipath and bundle actions.
type HashFields uint16

const (
	// HashFieldsEthSrc hashes the Ethernet source address only.
	HashFieldsEthSrc HashFields = iota

	// HashFieldsSymmetricL4 hashes the usual 5-tuple, direction
	// independent.
	HashFieldsSymmetricL4
)

var hashFieldsText = map[HashFields]string{
	HashFieldsEthSrc:      "eth_src",
	HashFieldsSymmetricL4: "symmetric_l4",
}

// String returns the flow dump name of the field selection.
func (hf HashFields) String() string {
	if text, ok := hashFieldsText[hf]; ok {
		return text
	}
	return fmt.Sprintf("HashFields(%d)", uint16(hf))
}

// MultipathAlgorithm maps a hash onto one of several links.
type MultipathAlgorithm uint16

const (
	// MultipathAlgModuloN takes the hash modulo the link count.
	MultipathAlgModuloN MultipathAlgorithm = iota

	// MultipathAlgHashThreshold divides the hash space into equal
	// consecutive regions.
	MultipathAlgHashThreshold

	// MultipathAlgHRW is highest random weight hashing.
	MultipathAlgHRW

	// MultipathAlgIterHash iterates the hash until it lands on a
	// live link.
	MultipathAlgIterHash
)

var multipathAlgText = map[MultipathAlgorithm]string{
	MultipathAlgModuloN:       "modulo_n",
	MultipathAlgHashThreshold: "hash_threshold",
	MultipathAlgHRW:           "hrw",
	MultipathAlgIterHash:      "iter_hash",
}

// String returns the flow dump name of the algorithm.
func (alg MultipathAlgorithm) String() string {
	if text, ok := multipathAlgText[alg]; ok {
		return text
	}
	return fmt.Sprintf("MultipathAlgorithm(%d)", uint16(alg))
}

// Multipath hashes the selected fields and writes the resulting link
// index into a subfield.
type Multipath struct {
	compat
	Fields    HashFields
	Basis     uint16
	Algorithm MultipathAlgorithm
	MaxLink   uint16
	Arg       uint32
	Dst       nxm.Subfield
}

// Kind implements the Action interface.
func (a *Multipath) Kind() Kind { return KindMultipath }

// multipathFromNXAST decodes the multipath action.
func multipathFromNXAST(r io.Reader, info *actionInfo, out *Actions) error {
	var (
		fields, basis      uint16
		algorithm, maxLink uint16
		arg                uint32
		ofsNBits           uint16
		dst                uint32
	)
	if _, err := encoding.ReadFrom(r, &fields, &basis, &defaultPad2,
		&algorithm, &maxLink, &arg, &defaultPad2, &ofsNBits, &dst); err != nil {
		return err
	}

	a := &Multipath{
		Fields:    HashFields(fields),
		Basis:     basis,
		Algorithm: MultipathAlgorithm(algorithm),
		MaxLink:   maxLink,
		Arg:       arg,
	}

	if _, ok := hashFieldsText[a.Fields]; !ok {
		return fmt.Errorf("%w: multipath fields %d", ErrBadArgument, fields)
	}
	if _, ok := multipathAlgText[a.Algorithm]; !ok {
		return fmt.Errorf("%w: multipath algorithm %d", ErrBadArgument, algorithm)
	}

	sf, err := nxm.SubfieldFromWire(dst, ofsNBits)
	if err != nil {
		return err
	}
	a.Dst = sf

	if err := a.Dst.CheckDst(nil); err != nil {
		return err
	}

	a.Compat = info.code
	*out = append(*out, a)
	return nil
}

func multipathToNXAST(w io.Writer, a *Multipath) (int64, error) {
	return encoding.WriteTo(w, nxhdr(CodeNXASTMultipath),
		uint16(a.Fields), a.Basis, pad2{},
		uint16(a.Algorithm), a.MaxLink, a.Arg, pad2{},
		a.Dst.OfsNBits(), a.Dst.Field.NXM)
}

// multipathCheck validates the action against the flow.
func multipathCheck(a *Multipath, flow *nxm.Flow) error {
	return a.Dst.CheckDst(flow)
}

// multipathFormat renders the flow dump form, with the link count
// rather than the raw max_link.
func multipathFormat(a *Multipath) string {
	var b strings.Builder
	fmt.Fprintf(&b, "multipath(%s,%d,%s,%d,%d,%s)",
		a.Fields, a.Basis, a.Algorithm, int(a.MaxLink)+1, a.Arg, a.Dst)
	return b.String()
}
