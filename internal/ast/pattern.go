package ast

type (
	// MatchValue compares against a literal or dotted name.
	MatchValue struct {
		Loc
		Value Expr
	}

	// MatchSingleton is None, True or False.
	MatchSingleton struct {
		Loc
		Value string
	}

	MatchSequence struct {
		Loc
		Patterns []Pattern
	}

	MatchMapping struct {
		Loc
		Keys     []Expr
		Patterns []Pattern
		Rest     string
	}

	MatchClass struct {
		Loc
		Cls         Expr
		Patterns    []Pattern
		KwdAttrs    []string
		KwdPatterns []Pattern
	}

	// MatchStar is "*name" inside a sequence; Name is empty for "*_".
	MatchStar struct {
		Loc
		Name string
	}

	// MatchAs is a capture ("x"), wildcard ("_": Pattern and Name empty) or
	// "pattern as x".
	MatchAs struct {
		Loc
		Pattern Pattern
		Name    string
	}

	MatchOr struct {
		Loc
		Patterns []Pattern
	}
)

func (*MatchValue) patternNode()     {}
func (*MatchSingleton) patternNode() {}
func (*MatchSequence) patternNode()  {}
func (*MatchMapping) patternNode()   {}
func (*MatchClass) patternNode()     {}
func (*MatchStar) patternNode()      {}
func (*MatchAs) patternNode()        {}
func (*MatchOr) patternNode()        {}
