package pipeline

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures no goroutine leaks in any test in this package. The
// kernel spawns one worker goroutine per runnable message (RunPipeline
// in kernel.go); a mistake in the FlowController release path or the
// doneCh drain would otherwise leave workers stuck forever, invisible
// in a normal test run. Grounded on the teacher's internal/core/goleak_test.go.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("sync.runtime_Semacquire"),
	)
}
