package diagfmt

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"scriptgate/internal/ast"
	"scriptgate/internal/source"
)

var (
	spanType = reflect.TypeFor[source.Span]()
	locType  = reflect.TypeFor[ast.Loc]()
)

// FormatASTPretty печатает дерево модуля с отступами, по узлу на строку.
// Scalar fields are shown inline; zero-valued ones are omitted.
func FormatASTPretty(w io.Writer, mod *ast.Module, file *source.File) error {
	if mod == nil {
		return fmt.Errorf("nil module")
	}
	p := &astPrinter{w: w, file: file}
	p.node(reflect.ValueOf(mod), 0, "")
	return p.err
}

type astPrinter struct {
	w    io.Writer
	file *source.File
	err  error
}

func (p *astPrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *astPrinter) node(v reflect.Value, depth int, label string) {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	indent := strings.Repeat("  ", depth)
	if label != "" {
		label += ": "
	}

	var attrs []string
	type child struct {
		name string
		v    reflect.Value
	}
	var children []child
	for i := range t.NumField() {
		f := t.Field(i)
		fv := v.Field(i)
		if !f.IsExported() || f.Type == spanType || f.Type == locType || fv.IsZero() {
			continue
		}
		switch fv.Kind() {
		case reflect.String, reflect.Bool, reflect.Int, reflect.Uint8, reflect.Int64:
			attrs = append(attrs, fmt.Sprintf("%s=%v", f.Name, formatScalar(fv)))
		case reflect.Slice:
			if f.Type.Elem().Kind() == reflect.String {
				items := make([]string, fv.Len())
				for j := range items {
					items[j] = fv.Index(j).String()
				}
				attrs = append(attrs, fmt.Sprintf("%s=[%s]", f.Name, strings.Join(items, " ")))
				continue
			}
			children = append(children, child{f.Name, fv})
		default:
			children = append(children, child{f.Name, fv})
		}
	}

	pos := ""
	if p.file != nil && v.CanAddr() {
		if n, ok := v.Addr().Interface().(ast.Node); ok {
			lc := p.file.Position(n.Pos().Start)
			pos = fmt.Sprintf(" @%d:%d", lc.Line, lc.Col)
		}
	}
	p.printf("%s%s%s%s", indent, label, t.Name(), pos)
	if len(attrs) > 0 {
		p.printf(" (%s)", strings.Join(attrs, ", "))
	}
	p.printf("\n")

	for _, c := range children {
		if c.v.Kind() == reflect.Slice {
			for j := range c.v.Len() {
				p.node(c.v.Index(j), depth+1, fmt.Sprintf("%s[%d]", c.name, j))
			}
			continue
		}
		p.node(c.v, depth+1, c.name)
	}
}

func formatScalar(v reflect.Value) string {
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	if v.Kind() == reflect.String {
		return fmt.Sprintf("%q", v.String())
	}
	return fmt.Sprint(v.Interface())
}
