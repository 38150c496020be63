package diagfmt

import (
	"encoding/json"
	"io"

	"scriptgate/internal/diag"
	"scriptgate/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// IssueJSON представляет одно замечание в JSON формате
type IssueJSON struct {
	Severity    string       `json:"severity"`
	Category    string       `json:"category"`
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	Subject     string       `json:"subject,omitempty"`
	Hint        string       `json:"hint,omitempty"`
	AutoFixable bool         `json:"auto_fixable"`
	Location    LocationJSON `json:"location"`
	Notes       []NoteJSON   `json:"notes,omitempty"`
}

// IssuesOutput представляет корневую структуру JSON вывода
type IssuesOutput struct {
	Valid     bool        `json:"valid"`
	Issues    []IssueJSON `json:"issues"`
	Count     int         `json:"count"`
	FixedCode *string     `json:"fixed_code,omitempty"`
}

func makeLocation(span source.Span, file *source.File, opts JSONOpts) LocationJSON {
	path := source.VirtualPath
	if file != nil {
		path = displayPath(file.Path, opts.PathMode, opts.BaseDir)
	}
	loc := LocationJSON{
		File:      path,
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if opts.IncludePositions && file != nil {
		start, end := file.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

// BuildIssuesOutput формирует структуру JSON-вывода без сериализации.
// valid is reported as is; callers pass the validator's verdict.
func BuildIssuesOutput(issues []diag.Issue, file *source.File, valid bool, opts JSONOpts) IssuesOutput {
	n := len(issues)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := IssuesOutput{
		Valid:  valid,
		Issues: make([]IssueJSON, 0, n),
	}
	for _, is := range issues[:n] {
		item := IssueJSON{
			Severity:    is.Severity.Label(),
			Category:    is.Category().String(),
			Code:        is.Code.ID(),
			Message:     is.Message,
			Subject:     is.Subject,
			Hint:        is.Hint,
			AutoFixable: is.AutoFixable,
			Location:    makeLocation(is.Primary, file, opts),
		}
		if opts.IncludeNotes && len(is.Notes) > 0 {
			item.Notes = make([]NoteJSON, len(is.Notes))
			for j, note := range is.Notes {
				item.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, file, opts),
				}
			}
		}
		out.Issues = append(out.Issues, item)
	}
	out.Count = len(out.Issues)
	return out
}

// JSON форматирует issues в JSON.
func JSON(w io.Writer, out any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
