package gen

import (
	"bytes"
	"testing"
)

// CompareBytes reports the first differing line between the expected
// and actual generator output. It is only meant to be used by tests.
//
func CompareBytes(t testing.TB, ex, out []byte) {
	t.Helper()
	if bytes.Equal(ex, out) {
		return
	}

	exLines, outLines := bytes.Split(ex, []byte{'\n'}), bytes.Split(out, []byte{'\n'})
	for i := 0; i < len(exLines) && i < len(outLines); i++ {
		if !bytes.Equal(exLines[i], outLines[i]) {
			t.Errorf("line %d mismatch:\n\texpected: %q\n\tgot:      %q", i+1, exLines[i], outLines[i])
			return
		}
	}
	t.Errorf("line count mismatch: expected %d, got %d\n%s", len(exLines), len(outLines), out)
}
