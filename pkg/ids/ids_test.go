package ids

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode_TimestampIDs(t *testing.T) {
	node, err := NewNode()
	require.NoError(t, err)

	before := time.Now().UnixMilli()
	first := node.Generate().Int64()
	second := node.Generate().Int64()
	after := time.Now().UnixMilli()

	assert.GreaterOrEqual(t, first, before)
	assert.Greater(t, second, first)
	assert.LessOrEqual(t, second, after+1)
	assert.Less(t, second, int64(1)<<53)
}

func TestSequence(t *testing.T) {
	seq := NewSequence(10)
	assert.Equal(t, int64(10), seq.Generate().Int64())
	assert.Equal(t, int64(11), seq.Generate().Int64())
}
