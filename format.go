package ofpact

import (
	"fmt"
	"io"
	"strings"
)

// String renders the list in the canonical flow dump form. Formatting
// is total: it never fails and consumes every record.
func (a Actions) String() string {
	var b strings.Builder
	b.WriteString("actions=")

	if len(a) == 0 {
		b.WriteString("drop")
		return b.String()
	}

	for i, action := range a {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatAction(action))
	}

	return b.String()
}

// Format writes the canonical flow dump form of the list to w.
func Format(w io.Writer, a Actions) (int, error) {
	return io.WriteString(w, a.String())
}

func formatAction(action Action) string {
	switch a := action.(type) {
	case *Output:
		if a.Port < PortMax {
			return fmt.Sprintf("output:%d", uint16(a.Port))
		}
		if a.Port == PortController {
			return fmt.Sprintf("CONTROLLER:%d", a.MaxLen)
		}
		return a.Port.String()

	case *Controller:
		if a.Reason == ReasonAction && a.ID == 0 {
			return fmt.Sprintf("CONTROLLER:%d", a.MaxLen)
		}

		var b strings.Builder
		b.WriteString("controller(")
		if a.Reason != ReasonAction {
			fmt.Fprintf(&b, "reason=%s,", a.Reason)
		}
		if a.MaxLen != 0xffff {
			fmt.Fprintf(&b, "max_len=%d,", a.MaxLen)
		}
		if a.ID != 0 {
			fmt.Fprintf(&b, "id=%d,", a.ID)
		}
		return strings.TrimSuffix(b.String(), ",") + ")"

	case *Enqueue:
		return fmt.Sprintf("enqueue:%sq%d", a.Port, a.Queue)

	case *OutputReg:
		return "output:" + a.Src.String()

	case *Bundle:
		return bundleFormat(a)

	case *SetVLANVID:
		return fmt.Sprintf("mod_vlan_vid:%d", a.VID)

	case *SetVLANPCP:
		return fmt.Sprintf("mod_vlan_pcp:%d", a.PCP)

	case *StripVLAN:
		return "strip_vlan"

	case *PushVLAN:
		return fmt.Sprintf("push_vlan:%#x", a.EtherType)

	case *SetEthSrc:
		return "mod_dl_src:" + formatEthAddr(a.Addr)

	case *SetEthDst:
		return "mod_dl_dst:" + formatEthAddr(a.Addr)

	case *SetIPv4Src:
		return "mod_nw_src:" + formatIPv4(a.Addr)

	case *SetIPv4Dst:
		return "mod_nw_dst:" + formatIPv4(a.Addr)

	case *SetIPv4DSCP:
		return fmt.Sprintf("mod_nw_tos:%d", a.DSCP)

	case *SetL4SrcPort:
		return fmt.Sprintf("mod_tp_src:%d", a.Port)

	case *SetL4DstPort:
		return fmt.Sprintf("mod_tp_dst:%d", a.Port)

	case *RegMove:
		return regMoveFormat(a)

	case *RegLoad:
		return regLoadFormat(a)

	case *DecTTL:
		if a.Compat != CodeNXASTDecTTLCntIDs {
			return "dec_ttl"
		}
		ids := make([]string, len(a.IDs))
		for i, id := range a.IDs {
			ids[i] = fmt.Sprintf("%d", id)
		}
		return "dec_ttl(" + strings.Join(ids, ",") + ")"

	case *SetMPLSTTL:
		return fmt.Sprintf("set_mpls_ttl:%d", a.TTL)

	case *PushMPLS:
		return fmt.Sprintf("push_mpls:0x%04x", a.EtherType)

	case *PopMPLS:
		return fmt.Sprintf("pop_mpls:0x%04x", a.EtherType)

	case *PushL2:
		return "push_l2"

	case *PopL2:
		return "pop_l2"

	case *SetTunnel:
		wide := ""
		if a.ID > 0xffffffff || a.Compat == CodeNXASTSetTunnel64 {
			wide = "64"
		}
		return fmt.Sprintf("set_tunnel%s:%#x", wide, a.ID)

	case *SetQueue:
		return fmt.Sprintf("set_queue:%d", a.Queue)

	case *PopQueue:
		return "pop_queue"

	case *FinTimeout:
		var b strings.Builder
		b.WriteString("fin_timeout(")
		if a.IdleTimeout != 0 {
			fmt.Fprintf(&b, "idle_timeout=%d,", a.IdleTimeout)
		}
		if a.HardTimeout != 0 {
			fmt.Fprintf(&b, "hard_timeout=%d,", a.HardTimeout)
		}
		return strings.TrimSuffix(b.String(), ",") + ")"

	case *Resubmit:
		if a.InPort != PortInPort && a.TableID == 0xff {
			return "resubmit:" + a.InPort.String()
		}

		var b strings.Builder
		b.WriteString("resubmit(")
		if a.InPort != PortInPort {
			b.WriteString(a.InPort.String())
		}
		b.WriteByte(',')
		if a.TableID != 0xff {
			fmt.Fprintf(&b, "%d", a.TableID)
		}
		b.WriteByte(')')
		return b.String()

	case *Learn:
		return learnFormat(a)

	case *Multipath:
		return multipathFormat(a)

	case *Note:
		var b strings.Builder
		b.WriteString("note:")
		for i, v := range a.Data {
			if i > 0 {
				b.WriteByte('.')
			}
			fmt.Fprintf(&b, "%02x", v)
		}
		return b.String()

	case *Exit:
		return "exit"

	case *WriteMetadata:
		s := fmt.Sprintf("write_metadata:%#x", a.Metadata)
		if a.Mask != ^uint64(0) {
			s += fmt.Sprintf("/%#x", a.Mask)
		}
		return s

	case *ClearActions:
		return "clear_actions"

	case *GotoTable:
		return fmt.Sprintf("goto_table:%d", a.TableID)

	case *Group:
		return fmt.Sprintf("group:%d", a.ID)

	case *Meter:
		return fmt.Sprintf("meter:%d", a.ID)
	}

	return action.Kind().String()
}

func formatEthAddr(addr [6]byte) string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		addr[0], addr[1], addr[2], addr[3], addr[4], addr[5])
}

func formatIPv4(addr uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d",
		byte(addr>>24), byte(addr>>16), byte(addr>>8), byte(addr))
}
