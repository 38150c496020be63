package driver

import (
	"scriptgate/internal/ast"
	"scriptgate/internal/diag"
	"scriptgate/internal/parser"
	"scriptgate/internal/source"
)

type ParseResult struct {
	File   *source.File
	Module *ast.Module
	OK     bool
	Bag    *diag.Bag
}

// Parse loads a script and parses it; parsing stops at the first error.
func Parse(path string) (*ParseResult, error) {
	file, err := source.Load(path)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(1)
	res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	bag.Resolve(file)

	return &ParseResult{
		File:   file,
		Module: res.Module,
		OK:     res.OK,
		Bag:    bag,
	}, nil
}
