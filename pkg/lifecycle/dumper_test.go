package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trellisdb/trellis/internal/iodump"
	"github.com/trellisdb/trellis/pkg/lifecycle"
)

// TestDumperContract ensures that the iodump.DumperImpl implementation
// satisfies the lifecycle.Dumper interface.
// This is a compile-time check, and the test will not run if the contract
// is broken.
func TestDumperContract(t *testing.T) {
	// The following line is a compile-time check.
	// If iodump.DumperImpl does not implement lifecycle.Dumper,
	// this code will fail to compile.
	var _ lifecycle.Dumper = &iodump.DumperImpl{}

	// This assertion is a runtime check to confirm the test was executed.
	assert.True(t, true, "iodump.DumperImpl should implement lifecycle.Dumper")
}
