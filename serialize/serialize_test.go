package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcrl2-go/symbolic/ast"
)

func samplePBES() *ast.PBES {
	a := ast.NewArena()
	eq := &ast.PBESEquation{
		Symbol: ast.Mu,
		Var:    ast.PropositionalVariable{Name: "X", Params: nil},
		Body:   a.PBESTrueE(),
	}
	return &ast.PBES{
		Equations: []*ast.PBESEquation{eq},
		Init:      a.PVI("X", nil),
	}
}

func TestFormatPBES_IncludesEveryEquationAndInit(t *testing.T) {
	assert := assert.New(t)
	out := FormatPBES(samplePBES())
	assert.Contains(out, "pbes")
	assert.Contains(out, "X")
	assert.Contains(out, "init X();")
}

func TestEncodeDecodeSnapshot_RoundTripsTextAndWarnings(t *testing.T) {
	assert := assert.New(t)
	p := samplePBES()
	warnings := []string{"equation X may not converge"}
	alphabets := map[string][]string{"X": {"a", "b"}}

	blob := EncodeSnapshot(p, warnings, alphabets)
	assert.NotEmpty(blob)

	text, gotWarnings, gotAlphabets, err := DecodeSnapshot(blob)
	if !assert.NoError(err) {
		return
	}
	assert.Contains(text, "X")
	assert.Contains(text, "init X();")
	assert.Equal(warnings, gotWarnings)
	assert.Equal(alphabets, gotAlphabets)
}

func TestDecodeSnapshot_RejectsTruncatedData(t *testing.T) {
	blob := EncodeSnapshot(samplePBES(), nil, nil)
	if len(blob) == 0 {
		t.Fatal("expected non-empty snapshot")
	}
	_, _, _, err := DecodeSnapshot(blob[:len(blob)-1])
	assert.Error(t, err)
}
