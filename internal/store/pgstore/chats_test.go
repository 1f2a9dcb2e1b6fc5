package pgstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectKeyOrderIndependent(t *testing.T) {
	assert.Equal(t, directKey("a", "b"), directKey("b", "a"))
	assert.Equal(t, "a:b", directKey("b", "a"))
}

func TestDirectKeyDistinctPairs(t *testing.T) {
	assert.NotEqual(t, directKey("a", "b"), directKey("a", "c"))
	assert.NotEqual(t, directKey("a", "b"), directKey("b", "c"))
}
