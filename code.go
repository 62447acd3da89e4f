package ofpact

import "fmt"

// Code identifies one concrete wire encoding of an action: an OpenFlow
// 1.0 action type, an OpenFlow 1.1/1.2 action type, or a Nicira vendor
// subtype. Several codes may map to the same internal kind; a record
// remembers the code it was decoded from so the encoder can reproduce
// the same shape.
type Code uint16

const (
	// CodeInvalid marks a record built in memory rather than
	// decoded from the wire.
	CodeInvalid Code = iota

	// OpenFlow 1.0 action types.
	CodeOFPAT10Output
	CodeOFPAT10SetVLANVID
	CodeOFPAT10SetVLANPCP
	CodeOFPAT10StripVLAN
	CodeOFPAT10SetDLSrc
	CodeOFPAT10SetDLDst
	CodeOFPAT10SetNWSrc
	CodeOFPAT10SetNWDst
	CodeOFPAT10SetNWTos
	CodeOFPAT10SetTPSrc
	CodeOFPAT10SetTPDst
	CodeOFPAT10Enqueue

	// OpenFlow 1.1 and 1.2 action types.
	CodeOFPAT11Output
	CodeOFPAT11SetVLANVID
	CodeOFPAT11SetVLANPCP
	CodeOFPAT11SetDLSrc
	CodeOFPAT11SetDLDst
	CodeOFPAT11SetNWSrc
	CodeOFPAT11SetNWDst
	CodeOFPAT11SetNWTos
	CodeOFPAT11SetTPSrc
	CodeOFPAT11SetTPDst
	CodeOFPAT11SetMPLSTTL
	CodeOFPAT11PushVLAN
	CodeOFPAT11PopVLAN
	CodeOFPAT11PushMPLS
	CodeOFPAT11PopMPLS
	CodeOFPAT11SetQueue
	CodeOFPAT11Group
	CodeOFPAT11DecNWTTL
	CodeOFPAT12SetField

	// Nicira vendor subtypes.
	CodeNXASTResubmit
	CodeNXASTSetTunnel
	CodeNXASTSetQueue
	CodeNXASTPopQueue
	CodeNXASTRegMove
	CodeNXASTRegLoad
	CodeNXASTNote
	CodeNXASTSetTunnel64
	CodeNXASTMultipath
	CodeNXASTBundle
	CodeNXASTBundleLoad
	CodeNXASTResubmitTable
	CodeNXASTOutputReg
	CodeNXASTLearn
	CodeNXASTExit
	CodeNXASTDecTTL
	CodeNXASTFinTimeout
	CodeNXASTController
	CodeNXASTDecTTLCntIDs
	CodeNXASTWriteMetadata
	CodeNXASTPushMPLS
	CodeNXASTPopMPLS
	CodeNXASTPushL2
	CodeNXASTPopL2
)

// String returns the wire name of the code.
func (c Code) String() string {
	if info, ok := infoByCode[c]; ok {
		return info.name
	}
	if c == CodeInvalid {
		return "invalid"
	}
	return fmt.Sprintf("Code(%d)", c)
}

// actionInfo describes one wire encoding: its numeric type (a Nicira
// subtype for NXAST codes), the size of its fixed wire struct, whether
// the struct may carry a trailing payload, and the internal kind its
// records decode to.
type actionInfo struct {
	code       Code
	wireType   uint16
	size       uint16
	extensible bool
	kind       Kind
	name       string
}

// Action types shared by the 1.0 and 1.1 vendor envelopes.
const (
	typeVendor10       uint16 = 0xffff
	typeExperimenter11 uint16 = 0xffff
)

// of10Actions is the OpenFlow 1.0 action table. 1.0 knows no
// extensible actions: every length must match exactly.
var of10Actions = []actionInfo{
	{CodeOFPAT10Output, 0, 8, false, KindOutput, "OFPAT_OUTPUT"},
	{CodeOFPAT10SetVLANVID, 1, 8, false, KindSetVLANVID, "OFPAT_SET_VLAN_VID"},
	{CodeOFPAT10SetVLANPCP, 2, 8, false, KindSetVLANPCP, "OFPAT_SET_VLAN_PCP"},
	{CodeOFPAT10StripVLAN, 3, 8, false, KindStripVLAN, "OFPAT_STRIP_VLAN"},
	{CodeOFPAT10SetDLSrc, 4, 16, false, KindSetEthSrc, "OFPAT_SET_DL_SRC"},
	{CodeOFPAT10SetDLDst, 5, 16, false, KindSetEthDst, "OFPAT_SET_DL_DST"},
	{CodeOFPAT10SetNWSrc, 6, 8, false, KindSetIPv4Src, "OFPAT_SET_NW_SRC"},
	{CodeOFPAT10SetNWDst, 7, 8, false, KindSetIPv4Dst, "OFPAT_SET_NW_DST"},
	{CodeOFPAT10SetNWTos, 8, 8, false, KindSetIPv4DSCP, "OFPAT_SET_NW_TOS"},
	{CodeOFPAT10SetTPSrc, 9, 8, false, KindSetL4SrcPort, "OFPAT_SET_TP_SRC"},
	{CodeOFPAT10SetTPDst, 10, 8, false, KindSetL4DstPort, "OFPAT_SET_TP_DST"},
	{CodeOFPAT10Enqueue, 11, 16, false, KindEnqueue, "OFPAT_ENQUEUE"},
}

// of11Actions is the OpenFlow 1.1/1.2 action table.
var of11Actions = []actionInfo{
	{CodeOFPAT11Output, 0, 16, false, KindOutput, "OFPAT11_OUTPUT"},
	{CodeOFPAT11SetVLANVID, 1, 8, false, KindSetVLANVID, "OFPAT11_SET_VLAN_VID"},
	{CodeOFPAT11SetVLANPCP, 2, 8, false, KindSetVLANPCP, "OFPAT11_SET_VLAN_PCP"},
	{CodeOFPAT11SetDLSrc, 3, 16, false, KindSetEthSrc, "OFPAT11_SET_DL_SRC"},
	{CodeOFPAT11SetDLDst, 4, 16, false, KindSetEthDst, "OFPAT11_SET_DL_DST"},
	{CodeOFPAT11SetNWSrc, 5, 8, false, KindSetIPv4Src, "OFPAT11_SET_NW_SRC"},
	{CodeOFPAT11SetNWDst, 6, 8, false, KindSetIPv4Dst, "OFPAT11_SET_NW_DST"},
	{CodeOFPAT11SetNWTos, 7, 8, false, KindSetIPv4DSCP, "OFPAT11_SET_NW_TOS"},
	{CodeOFPAT11SetTPSrc, 9, 8, false, KindSetL4SrcPort, "OFPAT11_SET_TP_SRC"},
	{CodeOFPAT11SetTPDst, 10, 8, false, KindSetL4DstPort, "OFPAT11_SET_TP_DST"},
	{CodeOFPAT11SetMPLSTTL, 15, 8, false, KindSetMPLSTTL, "OFPAT11_SET_MPLS_TTL"},
	{CodeOFPAT11PushVLAN, 17, 8, false, KindPushVLAN, "OFPAT11_PUSH_VLAN"},
	{CodeOFPAT11PopVLAN, 18, 8, false, KindStripVLAN, "OFPAT11_POP_VLAN"},
	{CodeOFPAT11PushMPLS, 19, 8, false, KindPushMPLS, "OFPAT11_PUSH_MPLS"},
	{CodeOFPAT11PopMPLS, 20, 8, false, KindPopMPLS, "OFPAT11_POP_MPLS"},
	{CodeOFPAT11SetQueue, 21, 8, false, KindSetQueue, "OFPAT11_SET_QUEUE"},
	{CodeOFPAT11Group, 22, 8, false, KindGroup, "OFPAT11_GROUP"},
	{CodeOFPAT11DecNWTTL, 24, 8, false, KindDecTTL, "OFPAT11_DEC_NW_TTL"},
	{CodeOFPAT12SetField, 25, 8, true, KindRegLoad, "OFPAT12_SET_FIELD"},
}

// nxActions is the Nicira extension table, keyed by subtype.
var nxActions = []actionInfo{
	{CodeNXASTResubmit, 1, 16, false, KindResubmit, "NXAST_RESUBMIT"},
	{CodeNXASTSetTunnel, 2, 16, false, KindSetTunnel, "NXAST_SET_TUNNEL"},
	{CodeNXASTSetQueue, 4, 16, false, KindSetQueue, "NXAST_SET_QUEUE"},
	{CodeNXASTPopQueue, 5, 16, false, KindPopQueue, "NXAST_POP_QUEUE"},
	{CodeNXASTRegMove, 6, 24, false, KindRegMove, "NXAST_REG_MOVE"},
	{CodeNXASTRegLoad, 7, 24, false, KindRegLoad, "NXAST_REG_LOAD"},
	{CodeNXASTNote, 8, 16, true, KindNote, "NXAST_NOTE"},
	{CodeNXASTSetTunnel64, 9, 24, false, KindSetTunnel, "NXAST_SET_TUNNEL64"},
	{CodeNXASTMultipath, 10, 32, false, KindMultipath, "NXAST_MULTIPATH"},
	{CodeNXASTBundle, 12, 32, true, KindBundle, "NXAST_BUNDLE"},
	{CodeNXASTBundleLoad, 13, 32, true, KindBundle, "NXAST_BUNDLE_LOAD"},
	{CodeNXASTResubmitTable, 14, 16, false, KindResubmit, "NXAST_RESUBMIT_TABLE"},
	{CodeNXASTOutputReg, 15, 24, false, KindOutputReg, "NXAST_OUTPUT_REG"},
	{CodeNXASTLearn, 16, 32, true, KindLearn, "NXAST_LEARN"},
	{CodeNXASTExit, 17, 16, false, KindExit, "NXAST_EXIT"},
	{CodeNXASTDecTTL, 18, 16, false, KindDecTTL, "NXAST_DEC_TTL"},
	{CodeNXASTFinTimeout, 19, 16, false, KindFinTimeout, "NXAST_FIN_TIMEOUT"},
	{CodeNXASTController, 20, 16, false, KindController, "NXAST_CONTROLLER"},
	{CodeNXASTDecTTLCntIDs, 21, 16, true, KindDecTTL, "NXAST_DEC_TTL_CNT_IDS"},
	{CodeNXASTWriteMetadata, 22, 32, false, KindWriteMetadata, "NXAST_WRITE_METADATA"},
	{CodeNXASTPushMPLS, 23, 16, false, KindPushMPLS, "NXAST_PUSH_MPLS"},
	{CodeNXASTPopMPLS, 24, 16, false, KindPopMPLS, "NXAST_POP_MPLS"},
	{CodeNXASTPushL2, 25, 16, false, KindPushL2, "NXAST_PUSH_L2"},
	{CodeNXASTPopL2, 26, 16, false, KindPopL2, "NXAST_POP_L2"},
}

// Retired Nicira subtypes. They classify exactly like unknown ones,
// the entries just document which numbers may never be reassigned.
const (
	subtypeSNATObsolete           uint16 = 0
	subtypeDropSpoofedARPObsolete uint16 = 3
)

var (
	of10ByType  = make(map[uint16]*actionInfo)
	of11ByType  = make(map[uint16]*actionInfo)
	nxBySubtype = make(map[uint16]*actionInfo)
	infoByCode  = make(map[Code]*actionInfo)
)

func init() {
	index := func(byType map[uint16]*actionInfo, table []actionInfo) {
		for i := range table {
			info := &table[i]
			byType[info.wireType] = info
			infoByCode[info.code] = info
		}
	}

	index(of10ByType, of10Actions)
	index(of11ByType, of11Actions)
	index(nxBySubtype, nxActions)
}
