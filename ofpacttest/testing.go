// Package ofpacttest provides a harness for wire round-trip tests:
// every case states an internal action list and its canonical wire
// bytes, and is checked in both directions.
package ofpacttest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netrack/ofpact"
)

// MU defines one marshaling/unmarshaling case: the wire bytes must
// decode into exactly Actions, and Actions must encode into exactly
// the wire bytes.
type MU struct {
	// Dialect used for the conversion; nil means the default.
	Dialect *ofpact.Dialect

	Actions ofpact.Actions
	Bytes   []byte
}

// RunActions10 exercises the OpenFlow 1.0 action list codec on each
// case.
func RunActions10(t *testing.T, tests []MU) {
	t.Helper()

	for _, test := range tests {
		decoded, err := test.Dialect.DecodeActions10(test.Bytes)
		require.NoError(t, err, "decode `%x`", test.Bytes)
		require.True(t, decoded.Equal(test.Actions),
			"decoded `%x` into %v, expected %v", test.Bytes, decoded, test.Actions)

		var buf bytes.Buffer
		n, err := test.Dialect.WriteActions10(&buf, test.Actions)
		require.NoError(t, err)
		require.Equal(t, int64(len(test.Bytes)), n)
		require.Equal(t, test.Bytes, buf.Bytes())
	}
}

// RunActions11 exercises the OpenFlow 1.1 action list codec on each
// case.
func RunActions11(t *testing.T, tests []MU) {
	t.Helper()

	for _, test := range tests {
		decoded, err := test.Dialect.DecodeActions11(test.Bytes)
		require.NoError(t, err, "decode `%x`", test.Bytes)
		require.True(t, decoded.Equal(test.Actions),
			"decoded `%x` into %v, expected %v", test.Bytes, decoded, test.Actions)

		var buf bytes.Buffer
		n, err := test.Dialect.WriteActions11(&buf, test.Actions)
		require.NoError(t, err)
		require.Equal(t, int64(len(test.Bytes)), n)
		require.Equal(t, test.Bytes, buf.Bytes())
	}
}

// RunInstructions exercises the OpenFlow 1.1+ instruction list codec
// on each case.
func RunInstructions(t *testing.T, tests []MU) {
	t.Helper()

	for _, test := range tests {
		decoded, err := test.Dialect.DecodeInstructions(test.Bytes)
		require.NoError(t, err, "decode `%x`", test.Bytes)
		require.True(t, decoded.Equal(test.Actions),
			"decoded `%x` into %v, expected %v", test.Bytes, decoded, test.Actions)

		var buf bytes.Buffer
		n, err := test.Dialect.WriteInstructions(&buf, test.Actions)
		require.NoError(t, err)
		require.Equal(t, int64(len(test.Bytes)), n)
		require.Equal(t, test.Bytes, buf.Bytes())
	}
}
