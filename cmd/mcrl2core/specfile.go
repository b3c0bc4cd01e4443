package main

import (
	"fmt"
	"os"

	"github.com/mcrl2-go/symbolic/ast"
	"github.com/mcrl2-go/symbolic/parsing"
	"github.com/mcrl2-go/symbolic/specio"
)

// loadProcessSpec reads path and builds an *ast.ProcessSpec over b's arena.
func loadProcessSpec(b *parsing.Builder, path string) (*ast.ProcessSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}
	spec, err := specio.ParseProcessSpec(b, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// loadLinearProcess reads path and builds an *ast.LinearProcess over b's
// arena.
func loadLinearProcess(b *parsing.Builder, path string) (*ast.LinearProcess, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lps file: %w", err)
	}
	lps, err := specio.ParseLinearProcess(b, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lps, nil
}
