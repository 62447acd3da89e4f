package ofpact

import (
	"fmt"

	"github.com/netrack/ofpact/nxm"
)

// Check validates a decoded list against a specific context: a
// datapath with maxPorts ports and a flow providing the field
// prerequisites. A decoded list that fails Check is still a
// well-formed list; it just cannot run in this context.
//
// The walk carries the Ethernet type: push-mpls and pop-mpls change
// it, and every later field check must see the changed value.
func Check(acts Actions, flow *nxm.Flow, maxPorts int) error {
	dlType := uint16(0)
	if flow != nil {
		dlType = flow.DLType
	}

	for _, action := range acts {
		if err := checkAction(action, flow, maxPorts, &dlType); err != nil {
			return err
		}
	}

	return nil
}

// effectiveFlow returns the flow with the running Ethernet type
// applied, copying only when they disagree.
func effectiveFlow(flow *nxm.Flow, dlType uint16) *nxm.Flow {
	if flow == nil || flow.DLType == dlType {
		return flow
	}

	updated := *flow
	updated.DLType = dlType
	return &updated
}

func checkAction(action Action, flow *nxm.Flow, maxPorts int, dlType *uint16) error {
	switch a := action.(type) {
	case *Output:
		return checkOutputPort(a.Port, maxPorts)

	case *Enqueue:
		if int(a.Port) >= maxPorts && a.Port != PortInPort && a.Port != PortLocal {
			return fmt.Errorf("%w: enqueue to %s", ErrBadOutPort, a.Port)
		}
		return nil

	case *OutputReg:
		return a.Src.CheckSrc(effectiveFlow(flow, *dlType))

	case *Bundle:
		return bundleCheck(a, maxPorts, effectiveFlow(flow, *dlType))

	case *RegMove:
		return regMoveCheck(a, effectiveFlow(flow, *dlType))

	case *RegLoad:
		return regLoadCheck(a, effectiveFlow(flow, *dlType))

	case *Learn:
		return learnCheck(a, effectiveFlow(flow, *dlType))

	case *Multipath:
		return multipathCheck(a, effectiveFlow(flow, *dlType))

	case *PushMPLS:
		*dlType = a.EtherType
		return nil

	case *PopMPLS:
		*dlType = a.EtherType
		return nil
	}

	return nil
}
