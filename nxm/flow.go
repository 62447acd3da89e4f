package nxm

// Ethertypes and IP protocol numbers used by prerequisite checks.
const (
	EthTypeIPv4 uint16 = 0x0800
	EthTypeIPv6 uint16 = 0x86dd
	EthTypeARP  uint16 = 0x0806

	IPProtoTCP uint8 = 6
	IPProtoUDP uint8 = 17
)

// Flow carries the match fields a field prerequisite may depend on.
// The zero value matches no protocol.
type Flow struct {
	// DLType is the Ethernet type of the flow.
	DLType uint16

	// NWProto is the IP protocol number, meaningful only when
	// DLType selects IPv4 or IPv6.
	NWProto uint8
}

func (f *Flow) isIP() bool {
	return f.DLType == EthTypeIPv4 || f.DLType == EthTypeIPv6
}

// PrereqOK reports whether the flow satisfies the given prerequisite.
// A nil flow satisfies everything: validation without a flow checks
// structure only.
func (f *Flow) PrereqOK(p Prereq) bool {
	if f == nil {
		return true
	}

	switch p {
	case PrereqNone:
		return true
	case PrereqIPv4:
		return f.DLType == EthTypeIPv4
	case PrereqIP:
		return f.isIP()
	case PrereqARP:
		return f.DLType == EthTypeARP
	case PrereqTCP:
		return f.isIP() && f.NWProto == IPProtoTCP
	case PrereqUDP:
		return f.isIP() && f.NWProto == IPProtoUDP
	}

	return false
}
