package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanModify(t *testing.T) {
	assert.True(t, CanModify(1, 1))
	assert.False(t, CanModify(1, 2))
}

func TestCanModifyNullable(t *testing.T) {
	owner := int64(1)
	assert.True(t, CanModifyNullable(&owner, 1))
	assert.False(t, CanModifyNullable(&owner, 2))
	assert.False(t, CanModifyNullable(nil, 1))
}
