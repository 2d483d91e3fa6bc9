package collective_test

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures no worker goroutines leak out of Pool.Run.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
