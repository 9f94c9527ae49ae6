package testutils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type TestConsoleWriter struct {
	Lines []string
}

func (w *TestConsoleWriter) String() string {
	return strings.Join(w.Lines, "\n")
}

func (w *TestConsoleWriter) Println(a ...any) {
	s := fmt.Sprintln(a...)
	w.Lines = append(w.Lines, s[:len(s)-1]) // remove newline
}

func (w *TestConsoleWriter) Print(a ...any) {
	w.Println(a...)
}

// VerifyStdout checks that each expected line was printed, as a full line or
// as part of one.
func VerifyStdout(t *testing.T, consoleWriter *TestConsoleWriter, expectedLines ...string) {
	t.Helper()
	for _, expectedLine := range expectedLines {
		require.Condition(t, func() bool {
			for _, line := range consoleWriter.Lines {
				if strings.Contains(line, expectedLine) {
					return true
				}
			}
			return false
		}, "expected line %q not found in console output:\n%s", expectedLine, consoleWriter.String())
	}
}

func VerifyStdoutNotExists(t *testing.T, consoleWriter *TestConsoleWriter, unexpectedLines ...string) {
	t.Helper()
	for _, unexpected := range unexpectedLines {
		require.NotContains(t, consoleWriter.String(), unexpected)
	}
}
