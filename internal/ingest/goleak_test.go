package ingest

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures no goroutine leaks in any test in this package.
// Grounded on the teacher's internal/core/goleak_test.go.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("sync.runtime_Semacquire"),
	)
}
