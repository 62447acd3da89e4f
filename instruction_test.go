package ofpact

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netrack/ofpact/diag"
)

func TestInstructionsApply(t *testing.T) {
	runMUInstructions(t, []mu{
		{actions: Actions{stamp(&Output{Port: 1}, CodeOFPAT11Output)},
			bytes: []byte{
				0x00, 0x04, // Apply-actions.
				0x00, 0x18, // Instruction length.
				0x00, 0x00, 0x00, 0x00, // 4-byte padding.
				0x00, 0x00, // Output action.
				0x00, 0x10,
				0x00, 0x00, 0x00, 0x01,
				0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			}},
	})
}

func TestInstructionsPipeline(t *testing.T) {
	runMUInstructions(t, []mu{
		{actions: Actions{
			&Meter{ID: 7},
			stamp(&Output{Port: 1}, CodeOFPAT11Output),
			&ClearActions{},
			&WriteMetadata{Metadata: 0x11, Mask: 0xff},
			&GotoTable{TableID: 5},
		},
			bytes: []byte{
				0x00, 0x06, // Meter.
				0x00, 0x08,
				0x00, 0x00, 0x00, 0x07,

				0x00, 0x04, // Apply-actions.
				0x00, 0x18,
				0x00, 0x00, 0x00, 0x00,
				0x00, 0x00,
				0x00, 0x10,
				0x00, 0x00, 0x00, 0x01,
				0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

				0x00, 0x05, // Clear-actions.
				0x00, 0x08,
				0x00, 0x00, 0x00, 0x00,

				0x00, 0x02, // Write-metadata.
				0x00, 0x18,
				0x00, 0x00, 0x00, 0x00,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x11,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff,

				0x00, 0x01, // Goto-table.
				0x00, 0x08,
				0x05, 0x00, 0x00, 0x00,
			}},
	})
}

func TestInstructionsSynthesisOrder(t *testing.T) {
	// The wire order of the instructions does not matter: the
	// synthetic records always come out in the fixed order.
	acts, err := DecodeInstructions([]byte{
		0x00, 0x01, // Goto-table first on the wire.
		0x00, 0x08,
		0x05, 0x00, 0x00, 0x00,

		0x00, 0x05, // Clear-actions.
		0x00, 0x08,
		0x00, 0x00, 0x00, 0x00,

		0x00, 0x04, // Apply-actions.
		0x00, 0x18,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00,
		0x00, 0x10,
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	})
	require.NoError(t, err)

	require.Len(t, acts, 3)
	require.Equal(t, KindOutput, acts[0].Kind())
	require.Equal(t, KindClearActions, acts[1].Kind())
	require.Equal(t, KindGotoTable, acts[2].Kind())
}

func TestInstructionsDuplicate(t *testing.T) {
	d := &Dialect{Warn: diag.Discard()}

	_, err := d.DecodeInstructions([]byte{
		0x00, 0x02,
		0x00, 0x18,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x11,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,

		0x00, 0x02,
		0x00, 0x18,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x22,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	})
	require.ErrorIs(t, err, ErrUnsupportedOrder)
}

func TestInstructionsErrors(t *testing.T) {
	d := &Dialect{Warn: diag.Discard()}

	// Experimenter instructions are never accepted.
	_, err := d.DecodeInstructions([]byte{
		0xff, 0xff, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00,
	})
	require.ErrorIs(t, err, ErrBadExperimenter)

	// Unknown instruction type.
	_, err = d.DecodeInstructions([]byte{
		0x00, 0x09, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00,
	})
	require.ErrorIs(t, err, ErrUnknownInst)

	// Wrong length for the type.
	_, err = d.DecodeInstructions([]byte{
		0x00, 0x01, 0x00, 0x10,
		0x05, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	})
	require.ErrorIs(t, err, ErrBadInstLen)

	// Truncated instruction list.
	_, err = d.DecodeInstructions([]byte{
		0x00, 0x04, 0x00, 0x18, 0x00, 0x00, 0x00, 0x00,
	})
	require.ErrorIs(t, err, ErrBadInstLen)

	// A malformed action inside apply-actions.
	_, err = d.DecodeInstructions([]byte{
		0x00, 0x04, 0x00, 0x10,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x42, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00,
	})
	require.ErrorIs(t, err, ErrBadType)
}

func TestInstructionsWriteActions(t *testing.T) {
	writeActions := []byte{
		0x00, 0x03, // Write-actions.
		0x00, 0x18,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00,
		0x00, 0x10,
		0x00, 0x00, 0x00, 0x02,
		0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}

	// Rejected by the standard dialect.
	strict := &Dialect{Warn: diag.Discard()}
	_, err := strict.DecodeInstructions(writeActions)
	require.ErrorIs(t, err, ErrUnsupInst)

	// Decoded like apply-actions when the dialect allows it.
	relaxed := &Dialect{WriteActions: true, Warn: diag.Discard()}
	acts, err := relaxed.DecodeInstructions(writeActions)
	require.NoError(t, err)
	require.True(t, acts.Equal(Actions{stamp(&Output{Port: 2}, CodeOFPAT11Output)}))

	// Never together with apply-actions.
	both := append([]byte{
		0x00, 0x04, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00,
	}, writeActions...)
	_, err = relaxed.DecodeInstructions(both)
	require.ErrorIs(t, err, ErrUnsupInst)
}

func TestInstructionsEmptyApplySuppressed(t *testing.T) {
	// An enqueue action has no 1.1 encoding, so the apply-actions
	// wrapper around it would be empty and is dropped.
	var buf bytes.Buffer
	n, err := WriteInstructions(&buf, Actions{&Enqueue{Port: 1, Queue: 2}})
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, buf.Bytes())
}

func TestInstructionsEmpty(t *testing.T) {
	acts, err := DecodeInstructions(nil)
	require.NoError(t, err)
	require.Empty(t, acts)
}
