package rewriter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/ast"
)

func TestIdentity_ReturnsInputUnchanged(t *testing.T) {
	var r Rewriter = Identity{}
	e := ast.DataVariable{Name: "x", VSort: &ast.Sort{Kind: ast.SortBasic, Name: "Nat"}}
	assert.Equal(t, e, r.Rewrite(e))
}
