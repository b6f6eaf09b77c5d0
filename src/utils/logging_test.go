//go:build unit

package utils

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrExitUsesHook(t *testing.T) {
	var buf bytes.Buffer
	stderr = &buf
	exitCode := -1
	SetExitHook(func(code int) { exitCode = code })
	defer func() {
		SetExitHook(nil)
		stderr = os.Stderr
	}()

	ErrExit("anonymize %q: %v", "patients.csv", errors.New("boom"))

	assert.Equal(t, 1, exitCode)
	assert.Equal(t, "anonymize \"patients.csv\": boom\n", buf.String())
}

func TestPrintAndLog(t *testing.T) {
	var buf bytes.Buffer
	stdout = &buf
	defer func() { stdout = os.Stdout }()

	PrintAndLog("anonymized %d rows", 3)
	assert.Equal(t, "anonymized 3 rows\n", buf.String())
}
