package ofpact

import "fmt"

// instOrder is the position of an action's instruction category in
// the order OpenFlow 1.1+ mandates. Plain actions all belong to
// apply-actions.
type instOrder int

const (
	orderApply instOrder = iota
	orderClear
	orderWriteMetadata
	orderGotoTable
)

var orderText = map[instOrder]string{
	orderApply:         "apply_actions",
	orderClear:         "clear_actions",
	orderWriteMetadata: "write_metadata",
	orderGotoTable:     "goto_table",
}

func orderOf(k Kind) instOrder {
	switch k {
	case KindClearActions:
		return orderClear
	case KindWriteMetadata:
		return orderWriteMetadata
	case KindGotoTable:
		return orderGotoTable
	}
	return orderApply
}

// Verify checks that the list respects the instruction ordering
// apply-actions, clear-actions, write-metadata, goto-table. Plain
// actions may repeat; each of the other categories may appear once,
// and never after a later one.
func Verify(acts Actions) error {
	inst := orderApply

	for _, action := range acts {
		next := orderOf(action.Kind())

		if inst != orderApply && next <= inst {
			if next == inst {
				return fmt.Errorf("%w: duplicate %s",
					ErrUnsupportedOrder, orderText[inst])
			}
			return fmt.Errorf("%w: %s must appear before %s",
				ErrUnsupportedOrder, orderText[next], orderText[inst])
		}

		inst = next
	}

	return nil
}
