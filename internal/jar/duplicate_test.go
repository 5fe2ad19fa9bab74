package jar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionStrings(t *testing.T) {
	assert.Equal(t, "skip", ActionSkip.String())
	assert.Equal(t, "replace", ActionReplace.String())
	assert.Equal(t, "concat", ActionConcat.String())
	assert.Equal(t, "fail", ActionFail.String())
}

func TestParseAction(t *testing.T) {
	for _, want := range []Action{ActionSkip, ActionReplace, ActionConcat, ActionFail} {
		got, err := ParseAction(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseAction("explode")
	require.ErrorContains(t, err, "unknown duplicate action")
}

func TestPathMatchesIsUnanchored(t *testing.T) {
	policy, err := PathMatches(`\.properties$`, ActionConcat)
	require.NoError(t, err)
	assert.True(t, policy.Matches("conf/app.properties"))
	assert.False(t, policy.Matches("conf/app.properties.bak"))
}

func TestPathMatchesRejectsBadPattern(t *testing.T) {
	_, err := PathMatches("(", ActionSkip)
	require.Error(t, err)
}

func TestHandlerFirstMatchingPolicyWins(t *testing.T) {
	first, err := PathMatches("^META-INF/", ActionConcat)
	require.NoError(t, err)
	second, err := PathMatches("^META-INF/services/", ActionFail)
	require.NoError(t, err)

	h := NewDuplicateHandler(ActionReplace, first, second)
	assert.Equal(t, ActionConcat, h.actionFor("META-INF/services/spi"))
	assert.Equal(t, ActionReplace, h.actionFor("lib/Util.class"))
}

func TestAlwaysAppliesDefaultEverywhere(t *testing.T) {
	h := Always(ActionFail)
	assert.Equal(t, ActionFail, h.actionFor("anything/at/all"))
}

func TestSkipDuplicatesConcatServices(t *testing.T) {
	h := SkipDuplicatesConcatServices()
	assert.Equal(t, ActionConcat, h.actionFor("META-INF/services/com.example.Spi"))
	assert.Equal(t, ActionSkip, h.actionFor("META-INF/LICENSE"))
	assert.Equal(t, ActionSkip, h.actionFor("lib/Util.class"))
}
