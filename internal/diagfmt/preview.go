package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// FixPreview prints the lines the import rewrite adds, with a few lines of
// the original around them. Rewrites only insert, so a line walk suffices.
func FixPreview(w io.Writer, before, after string, useColor bool) {
	add := color.New(color.FgGreen)
	ctx := color.New(color.Faint)
	if useColor {
		add.EnableColor()
		ctx.EnableColor()
	} else {
		add.DisableColor()
		ctx.DisableColor()
	}

	old := splitPreviewLines(before)
	upd := splitPreviewLines(after)
	i := 0
	shown := 0
	for _, line := range upd {
		if i < len(old) && old[i] == line {
			i++
			// одна строка контекста после вставки
			if shown > 0 && shown < 3 {
				fmt.Fprintf(w, "%s\n", ctx.Sprint("  "+line))
				shown = 3
			}
			continue
		}
		fmt.Fprintf(w, "%s\n", add.Sprint("+ "+line))
		shown = 1
	}
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
