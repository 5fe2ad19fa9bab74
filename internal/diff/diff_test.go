package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnifiedBasic(t *testing.T) {
	a := "one\ntwo\nthree\n"
	b := "one\n2\nthree\n"
	out := Unified("want", "got", a, b, 3)

	assert.True(t, strings.HasPrefix(out, "--- want"), "got: %s", out)
	assert.Contains(t, out, "+++ got")
	assert.Contains(t, out, "@@")
	assert.Contains(t, out, "-two")
	assert.Contains(t, out, "+2")
}

func TestUnifiedIdenticalInputs(t *testing.T) {
	out := Unified("a", "b", "same\n", "same\n", 3)
	assert.Empty(t, out)
}
