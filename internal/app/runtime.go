package app

import (
	"os"
	"sync"
	"sync/atomic"
)

// testModeEnv is set by the testing bootstrap package. When it equals "1"
// the binaries return before opening postgres, redis or a listener.
const testModeEnv = "STORE_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

func readTestMode() {
	testModeFlag.Store(os.Getenv(testModeEnv) == "1")
}

// InTestMode reports whether STORE_TEST_MODE=1 was present on first call.
// cmd/storeapi and cmd/worker exit early when it is.
func InTestMode() bool {
	testModeOnce.Do(readTestMode)
	return testModeFlag.Load()
}

// RefreshTestMode rereads STORE_TEST_MODE, for tests that toggle it with
// t.Setenv after the first InTestMode call.
func RefreshTestMode() {
	testModeOnce.Do(func() {})
	readTestMode()
}
