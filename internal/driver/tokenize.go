package driver

import (
	"scriptgate/internal/diag"
	"scriptgate/internal/lexer"
	"scriptgate/internal/source"
	"scriptgate/internal/token"
)

type TokenizeResult struct {
	File   *source.File
	Tokens []token.Token
	Bag    *diag.Bag
}

// Tokenize loads a script and runs only the lexer over it.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	file, err := source.Load(path)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(maxDiagnostics)
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	bag.Resolve(file)

	return &TokenizeResult{
		File:   file,
		Tokens: tokens,
		Bag:    bag,
	}, nil
}
