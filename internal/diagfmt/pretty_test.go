package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"scriptgate/internal/diag"
	"scriptgate/internal/source"
)

func undefinedIssue(file *source.File, start, end uint32) diag.Issue {
	is := diag.New(diag.SevWarning, diag.ScpMissingKnownImport, source.Span{Start: start, End: end}, "name 'pd' is not defined").
		WithHint("add 'import pandas as pd' at the top of the script")
	is.AutoFixable = true
	pos := file.Position(start)
	is.Line, is.Column = pos.Line, pos.Col
	return is
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	file := source.NewFile("/home/user/project/jobs/report.py", []byte("print(pd)\n"), 0)
	issues := []diag.Issue{undefinedIssue(file, 6, 8)}

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/jobs/report.py:1:7"},
		{"Relative path", PathModeRelative, "jobs/report.py:1:7"},
		{"Basename only", PathModeBasename, "report.py:1:7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, issues, file, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			out := buf.String()
			if !strings.Contains(out, tt.contains) {
				t.Fatalf("expected %q in output:\n%s", tt.contains, out)
			}
		})
	}
}

func TestPrettySnippetAndCarets(t *testing.T) {
	file := source.FromString("import os\nx = pd.read_csv('a.csv')\n")
	issues := []diag.Issue{undefinedIssue(file, 14, 16)}

	var buf bytes.Buffer
	Pretty(&buf, issues, file, PrettyOpts{ShowHints: true})
	out := buf.String()

	want := []string{
		"<script>:2:5: warning[SCP3002]: name 'pd' is not defined",
		"2 | x = pd.read_csv('a.csv')",
		"  |     ^~",
		"= hint: add 'import pandas as pd' at the top of the script",
		"= auto-fixable",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("missing %q in:\n%s", w, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("color codes emitted with Color=false:\n%q", out)
	}
}

func TestPrettyWideRunes(t *testing.T) {
	// «名前» занимает две колонки на руну, каретка должна сдвинуться на 4
	src := "s = '名前' + pd\n"
	file := source.FromString(src)
	start := uint32(strings.Index(src, "pd"))
	var buf bytes.Buffer
	Pretty(&buf, []diag.Issue{undefinedIssue(file, start, start+2)}, file, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	var caret string
	for _, l := range lines {
		if strings.Contains(l, "^") {
			caret = l
		}
	}
	// "s = '" (5) + 名前 (4) + "' + " (4) = 13 columns
	if idx := strings.Index(caret, "^"); idx != len("  | ")+13 {
		t.Fatalf("caret at %d, want %d:\n%s", idx, len("  | ")+13, buf.String())
	}
}

func TestPrettyContextLines(t *testing.T) {
	file := source.FromString("a = 1\nb = 2\nprint(pd)\nc = 3\n")
	var buf bytes.Buffer
	Pretty(&buf, []diag.Issue{undefinedIssue(file, 18, 20)}, file, PrettyOpts{Context: 1})
	out := buf.String()
	for _, w := range []string{"2 | b = 2", "3 | print(pd)", "4 | c = 3"} {
		if !strings.Contains(out, w) {
			t.Errorf("missing %q in:\n%s", w, out)
		}
	}
	if strings.Contains(out, "1 | a = 1") {
		t.Errorf("unexpected extra context:\n%s", out)
	}
}

func TestFixPreview(t *testing.T) {
	var buf bytes.Buffer
	FixPreview(&buf, "print(pd)\n", "import pandas as pd\nprint(pd)\n", false)
	want := "+ import pandas as pd\n  print(pd)\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
