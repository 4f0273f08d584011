package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnown(t *testing.T) {
	assert.Equal(t, []string{Limare, Premali}, Known())
}

func TestProgram(t *testing.T) {
	assert.Equal(t, "/system/bin/limare/spinning_cube", Program(Limare, "spinning_cube"))
	assert.Equal(t, "/system/bin/premali/premali/triangle_smoothed", Program(Premali, "../../triangle_smoothed"))
}
