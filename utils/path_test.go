package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"menu-app/types"
)

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "42", JoinPath("", types.SnowflakeID(42)))
	assert.Equal(t, "1.2.3", JoinPath("1.2", types.SnowflakeID(3)))
}

func TestIsDescendantPath(t *testing.T) {
	assert.True(t, IsDescendantPath("1.2.3", "1.2"))
	assert.True(t, IsDescendantPath("1.2.3", "1"))
	assert.False(t, IsDescendantPath("1.2", "1.2"), "a path is not its own descendant")
	assert.False(t, IsDescendantPath("1.22", "1.2"), "segment boundaries must be respected")
	assert.False(t, IsDescendantPath("1", "1.2"))
}

func TestPathDepth(t *testing.T) {
	assert.Equal(t, 0, PathDepth(""))
	assert.Equal(t, 1, PathDepth("7"))
	assert.Equal(t, 3, PathDepth("7.8.9"))
}

func TestParentPath(t *testing.T) {
	assert.Equal(t, "", ParentPath("7"))
	assert.Equal(t, "7.8", ParentPath("7.8.9"))
}

func TestRewritePathPrefix(t *testing.T) {
	assert.Equal(t, "50", RewritePathPrefix("10", "10", "50"))
	assert.Equal(t, "50.11.12", RewritePathPrefix("10.11.12", "10", "50"))
	assert.Equal(t, "40.50.11", RewritePathPrefix("9.10.11", "9.10", "40.50"))
}
