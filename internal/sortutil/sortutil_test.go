package sortutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	m := map[string][]int{
		"b/two.txt": {2},
		"a/one.txt": {1},
		"c.txt":     {3},
	}
	assert.Equal(t, []string{"a/one.txt", "b/two.txt", "c.txt"}, SortedKeys(m))
}

func TestSortedKeysEmpty(t *testing.T) {
	assert.Empty(t, SortedKeys(map[string]struct{}{}))
}
