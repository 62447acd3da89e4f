package ofpact

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// mu defines one marshaling/unmarshaling case: the wire bytes decode
// into exactly the listed actions, and the actions encode into
// exactly the wire bytes.
type mu struct {
	dialect *Dialect
	actions Actions
	bytes   []byte
}

func runMU(t *testing.T, tests []mu,
	decode func(*Dialect, []byte) (Actions, error),
	encode func(*Dialect, *bytes.Buffer, Actions) (int64, error)) {

	t.Helper()

	for _, test := range tests {
		decoded, err := decode(test.dialect, test.bytes)
		require.NoError(t, err, "decode `%x`", test.bytes)
		require.True(t, decoded.Equal(test.actions),
			"decoded `%x` into %v, expected %v", test.bytes, decoded, test.actions)

		var buf bytes.Buffer
		n, err := encode(test.dialect, &buf, test.actions)
		require.NoError(t, err)
		require.Equal(t, test.bytes, buf.Bytes(), "encode %v", test.actions)
		require.Equal(t, int64(len(test.bytes)), n)
	}
}

func runMU10(t *testing.T, tests []mu) {
	t.Helper()
	runMU(t, tests,
		func(d *Dialect, b []byte) (Actions, error) { return d.DecodeActions10(b) },
		func(d *Dialect, w *bytes.Buffer, a Actions) (int64, error) { return d.WriteActions10(w, a) })
}

func runMU11(t *testing.T, tests []mu) {
	t.Helper()
	runMU(t, tests,
		func(d *Dialect, b []byte) (Actions, error) { return d.DecodeActions11(b) },
		func(d *Dialect, w *bytes.Buffer, a Actions) (int64, error) { return d.WriteActions11(w, a) })
}

func runMUInstructions(t *testing.T, tests []mu) {
	t.Helper()
	runMU(t, tests,
		func(d *Dialect, b []byte) (Actions, error) { return d.DecodeInstructions(b) },
		func(d *Dialect, w *bytes.Buffer, a Actions) (int64, error) { return d.WriteInstructions(w, a) })
}

// stamp sets the remembered wire code the way the decoder would.
func stamp(a Action, code Code) Action {
	a.(interface{ setCompat(Code) }).setCompat(code)
	return a
}
