package ids

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreshProcessName_PrefixesBaseAndIsUnique(t *testing.T) {
	assert := assert.New(t)
	a := FreshProcessName("P")
	b := FreshProcessName("P")

	assert.True(strings.HasPrefix(a, "P_"))
	assert.True(strings.HasPrefix(b, "P_"))
	assert.NotEqual(a, b)
}
