package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexUnterminatedTriple Code = 1003
	LexBadNumber          Code = 1004
	LexBadDedent          Code = 1005
	LexTabError           Code = 1006
	LexUnclosedBracket    Code = 1007
	LexUnmatchedBracket   Code = 1008
	LexBadContinuation    Code = 1009
	LexUnterminatedFStr   Code = 1010

	// Синтаксические
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectIndent     Code = 2002
	SynUnexpectedIndent Code = 2003
	SynExpectExpression Code = 2004
	SynExpectColon      Code = 2005
	SynInvalidTarget    Code = 2006
	SynExpectIdentifier Code = 2007
	SynMissingParens    Code = 2008
	SynBadFString       Code = 2009
	SynInvalidPattern   Code = 2010
	SynOutsideFunction  Code = 2011
	SynOutsideLoop      Code = 2012
	SynBadArguments     Code = 2013
	SynFutureLate       Code = 2014

	// Scope
	ScpInfo               Code = 3000
	ScpUndefinedName      Code = 3001
	ScpMissingKnownImport Code = 3002

	// Imports
	ImpInfo       Code = 4000
	ImpNotFound   Code = 4001
	ImpRisky      Code = 4002
	ImpUnverified Code = 4003
	ImpRelative   Code = 4004
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		LexInfo:               "Lexical information",
		LexUnknownChar:        "Invalid character",
		LexUnterminatedString: "Unterminated string literal",
		LexUnterminatedTriple: "Unterminated triple-quoted string literal",
		LexBadNumber:          "Invalid number literal",
		LexBadDedent:          "Unindent does not match any outer indentation level",
		LexTabError:           "Inconsistent use of tabs and spaces in indentation",
		LexUnclosedBracket:    "Bracket was never closed",
		LexUnmatchedBracket:   "Unmatched closing bracket",
		LexBadContinuation:    "Unexpected character after line continuation character",
		LexUnterminatedFStr:   "Unterminated f-string",
		SynInfo:               "Syntax information",
		SynUnexpectedToken:    "Invalid syntax",
		SynExpectIndent:       "Expected an indented block",
		SynUnexpectedIndent:   "Unexpected indent",
		SynExpectExpression:   "Expected expression",
		SynExpectColon:        "Expected ':'",
		SynInvalidTarget:      "Invalid assignment target",
		SynExpectIdentifier:   "Expected identifier",
		SynMissingParens:      "Missing parentheses in call",
		SynBadFString:         "Invalid f-string expression",
		SynInvalidPattern:     "Invalid match pattern",
		SynOutsideFunction:    "Statement outside function",
		SynOutsideLoop:        "Statement outside loop",
		SynBadArguments:       "Invalid parameter list",
		SynFutureLate:         "from __future__ imports must occur at the beginning of the file",
		ScpInfo:               "Scope information",
		ScpUndefinedName:      "Undefined name",
		ScpMissingKnownImport: "Missing import for a known name",
		ImpInfo:               "Import information",
		ImpNotFound:           "Module not available",
		ImpRisky:              "Module often unavailable in the sandbox",
		ImpUnverified:         "Module availability could not be verified",
		ImpRelative:           "Relative import in a standalone script",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SCP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IMP%04d", ic)
	}
	return "E0000"
}

// Category maps the code range onto the pass category.
func (c Code) Category() Category {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return CatScope
	case ic >= 4000 && ic < 5000:
		return CatImport
	}
	return CatSyntax
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
