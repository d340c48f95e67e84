package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyAllowListGrantsEveryone(t *testing.T) {
	g := New(nil)

	assert.True(t, g.Authorize("42"))
	assert.True(t, g.Authorize("anyone-at-all"))
}

func TestNonEmptyAllowListIsLiteral(t *testing.T) {
	g := New([]string{"42", "1337"})

	assert.True(t, g.Authorize("42"))
	assert.True(t, g.Authorize("1337"))
	assert.False(t, g.Authorize("43"))
	assert.False(t, g.Authorize(""))
	assert.False(t, g.Authorize("042"))
}

func TestBlankEntriesDiscarded(t *testing.T) {
	g := New([]string{""})

	// A list of only blanks is effectively empty, which means open access.
	assert.True(t, g.Authorize("42"))
}
