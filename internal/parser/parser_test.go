package parser_test

import (
	"strings"
	"testing"

	"scriptgate/internal/ast"
	"scriptgate/internal/diag"
	"scriptgate/internal/parser"
	"scriptgate/internal/source"
	"scriptgate/internal/testkit"
)

type testReporter struct {
	issues []diag.Issue
}

func (r *testReporter) Report(issue diag.Issue) {
	r.issues = append(r.issues, issue)
}

func parse(input string) (parser.Result, *testReporter, *source.File) {
	rep := &testReporter{}
	file := source.FromString(input)
	res := parser.ParseFile(file, parser.Options{Reporter: rep})
	return res, rep, file
}

func mustParse(t *testing.T, input string) *ast.Module {
	t.Helper()
	res, rep, _ := parse(input)
	if !res.OK || len(rep.issues) > 0 {
		t.Fatalf("parse failed for:\n%s\nissues: %+v", input, rep.issues)
	}
	return res.Module
}

// mustFail разбирает input и возвращает единственную ошибку и строку.
func mustFail(t *testing.T, input string) (diag.Issue, uint32) {
	t.Helper()
	res, rep, file := parse(input)
	if res.OK {
		t.Fatalf("expected syntax error for:\n%s", input)
	}
	if len(rep.issues) != 1 {
		t.Fatalf("expected exactly one issue, got %d: %+v", len(rep.issues), rep.issues)
	}
	issue := rep.issues[0]
	return issue, file.Position(issue.Primary.Start).Line
}

func TestValidPrograms(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"comments":   "# just a comment\n\n",
		"assign":     "x = 1\ny: int = 2\nz += x\na, *b = [1, 2, 3]\n",
		"chain":      "a = b = c = 0\n",
		"semicolons": "x = 1; y = 2;\n",
		"def": `def f(a, b=1, *args, c, d=2, **kw) -> int:
    """doc"""
    return a + b
`,
		"posonly": "def f(a, /, b, *, c):\n    pass\n",
		"lambda":  "f = lambda x, y=2: x * y\ng = lambda: 0\n",
		"class": `@dataclass
class Point(Base, metaclass=Meta):
    x: int = 0
    def norm(self):
        return (self.x ** 2) ** 0.5
`,
		"control": `for i in range(10):
    if i % 2 == 0:
        continue
    elif i > 7:
        break
    else:
        pass
else:
    print("done")
while True:
    break
`,
		"try": `try:
    import numpy as np
except (ImportError, ValueError) as e:
    np = None
except Exception:
    raise
else:
    pass
finally:
    print("x")
`,
		"with":  "with open('a') as f, open('b') as g:\n    data = f.read()\n",
		"with2": "with (\n    open('a') as f,\n    open('b') as g,\n):\n    pass\n",
		"comprehensions": `squares = [x * x for x in range(10) if x % 2]
pairs = {k: v for k, v in items.items()}
uniq = {c for c in "hello"}
total = sum(x for x in range(3))
nested = [[y for y in row] for row in grid]
`,
		"slices":   "a[1:2]\na[::2]\na[:, 0]\na[...]\na[i, j:k]\n",
		"ternary":  "x = 1 if cond else 2\n",
		"walrus":   "if (n := len(a)) > 10:\n    print(n)\nwhile chunk := f.read(10):\n    pass\n",
		"compare":  "ok = a < b <= c != d\nz = x not in y and x is not None\n",
		"strings":  "s = 'a' \"b\" '''c'''\nb = b'x' rb'y'\n",
		"fstrings": "name = 'x'\ns = f'hello {name!r:>10} {value:{width}.{prec}f} {{literal}}'\nd = f\"{x=}\"\n",
		"fnested":  "s = f\"{', '.join(f'{k}={v}' for k, v in d.items())}\"\n",
		"async": `async def main():
    async with lock:
        await asyncio.sleep(1)
    async for item in aiter():
        print(item)
    return [x async for x in gen()]
`,
		"global":   "def f():\n    global counter\n    counter += 1\n",
		"nonlocal": "def f():\n    x = 0\n    def g():\n        nonlocal x\n        x += 1\n",
		"imports":  "import os, sys\nimport os.path as osp\nfrom collections import (\n    defaultdict,\n    Counter,\n)\nfrom . import sibling\nfrom ..pkg import *\n",
		"future":   "\"\"\"Module doc.\"\"\"\nfrom __future__ import annotations\nimport os\n",
		"decorators": `@app.route("/", methods=["GET"])
@cache
def index():
    pass
`,
		"del":       "del a, b[0], c.d\n",
		"assert":    "assert x > 0, 'positive'\n",
		"yield":     "def gen():\n    x = yield 1\n    yield from range(3)\n",
		"star":      "print(*args, **kwargs)\nfirst, *rest = items\n",
		"dict":      "d = {'a': 1, **other, 'b': 2}\ne = {}\ns = {1, 2, 3}\n",
		"typeparam": "def first[T](xs: list[T]) -> T:\n    return xs[0]\ntype Pair[T] = tuple[T, T]\n",
		"softnames": "match = 1\ntype = 'x'\nmatch.group(0)\ncase = 2\n",
		"match": `match command.split():
    case [action]:
        pass
    case ["go", direction] | ["move", direction]:
        pass
    case Point(x=0, y=0) as origin:
        pass
    case {"x": x, **rest}:
        pass
    case -1 | 1+2j | "s" | None:
        pass
    case (a, *others) if a > 0:
        pass
    case _:
        pass
`,
		"continuation":       "total = 1 + \\\n    2\n",
		"implicit":           "x = (1 +\n     2)\nfoo(a,\n    b)\n",
		"generator":          "def f():\n    return (yield)\n",
		"nonlocal in class":  "def outer():\n    x = 0\n    class C:\n        def m(self):\n            nonlocal x\n            x += 1\n        nonlocal x\n",
		"async genexp":       "def f(src):\n    return (x async for x in src)\n",
		"async genexp arg":   "agen = list(x async for x in src)\n",
		"raw fstring braces": "s = rf'\\{{{name}\\}}'\nt = f'\\{{x}}'\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			mod := mustParse(t, src)
			if err := testkit.CheckSpanInvariants(mod, source.FromString(src)); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		code  diag.Code
		msg   string
		line  uint32
	}{
		{"missing colon", "if x > 1\n    pass\n", diag.SynExpectColon, "expected ':'", 1},
		{"missing indent", "def f():\nreturn 1\n", diag.SynExpectIndent, "expected an indented block after function definition on line 1", 2},
		{"missing indent if", "x = 1\nif x:\npass\n", diag.SynExpectIndent, "expected an indented block after 'if' statement on line 2", 3},
		{"unexpected indent", "x = 1\n    y = 2\n", diag.SynUnexpectedIndent, "unexpected indent", 2},
		{"print statement", "print \"hello\"\n", diag.SynMissingParens, "Missing parentheses in call to 'print'. Did you mean print(...)?", 1},
		{"assign to call", "f() = 1\n", diag.SynInvalidTarget, "cannot assign to function call here. Maybe you meant '==' instead of '='?", 1},
		{"assign to literal", "1 = x\n", diag.SynInvalidTarget, "cannot assign to literal here. Maybe you meant '==' instead of '='?", 1},
		{"assign to True", "True = 1\n", diag.SynInvalidTarget, "cannot assign to True", 1},
		{"if assign", "if x = 1:\n    pass\n", diag.SynUnexpectedToken, "invalid syntax. Maybe you meant '==' or ':=' instead of '='?", 1},
		{"return outside", "return 5\n", diag.SynOutsideFunction, "'return' outside function", 1},
		{"yield outside", "x = yield 1\n", diag.SynOutsideFunction, "'yield' outside function", 1},
		{"await outside", "await foo()\n", diag.SynOutsideFunction, "'await' outside function", 1},
		{"await sync", "def f():\n    await g()\n", diag.SynOutsideFunction, "'await' outside async function", 2},
		{"break outside", "break\n", diag.SynOutsideLoop, "'break' outside loop", 1},
		{"continue outside", "def f():\n    continue\n", diag.SynOutsideLoop, "'continue' not properly in loop", 2},
		{"break in nested def", "for i in x:\n    def f():\n        break\n", diag.SynOutsideLoop, "'break' outside loop", 3},
		{"nonlocal module", "nonlocal x\n", diag.SynOutsideFunction, "nonlocal declaration not allowed at module level", 1},
		{"nonlocal module class", "class C:\n    nonlocal x\n", diag.SynOutsideFunction, "nonlocal declaration not allowed at module level", 2},
		{"async listcomp sync", "def f():\n    return [x async for x in g()]\n", diag.SynOutsideFunction, "asynchronous comprehension outside of an asynchronous function", 2},
		{"async setcomp module", "s = {x async for x in g()}\n", diag.SynOutsideFunction, "asynchronous comprehension outside of an asynchronous function", 1},
		{"default order", "def f(a=1, b):\n    pass\n", diag.SynBadArguments, "parameter without a default follows parameter with a default", 1},
		{"duplicate arg", "def f(a, a):\n    pass\n", diag.SynBadArguments, "duplicate argument 'a' in function definition", 1},
		{"positional after kw", "f(a=1, 2)\n", diag.SynBadArguments, "positional argument follows keyword argument", 1},
		{"kw expression", "f(a.b=1)\n", diag.SynBadArguments, `expression cannot contain assignment, perhaps you meant "=="?`, 1},
		{"missing comma", "x = [1 2]\n", diag.SynUnexpectedToken, "invalid syntax. Perhaps you forgot a comma?", 1},
		{"missing comma call", "print(a b)\n", diag.SynUnexpectedToken, "invalid syntax. Perhaps you forgot a comma?", 1},
		{"future late", "import os\nfrom __future__ import annotations\n", diag.SynFutureLate, "from __future__ imports must occur at the beginning of the file", 2},
		{"try without except", "try:\n    pass\nx = 1\n", diag.SynUnexpectedToken, "expected 'except' or 'finally' block", 3},
		{"ternary without else", "x = a if b\n", diag.SynUnexpectedToken, "expected 'else' after 'if' expression", 1},
		{"empty fstring field", "s = f'{}'\n", diag.SynBadFString, "f-string: valid expression required before '}'", 1},
		{"single brace", "s = f'a } b'\n", diag.SynBadFString, "f-string: single '}' is not allowed", 1},
		{"bad fstring expr", "s = f'{a b}'\n", diag.SynBadFString, "f-string: expecting '=', or '!', or ':', or '}'", 1},
		{"incomplete expr", "x = 1 +\n", diag.SynExpectExpression, "invalid syntax", 1},
		{"unclosed paren", "print((1, 2)\n", diag.LexUnclosedBracket, "'(' was never closed", 1},
		{"multiple except types", "try:\n    pass\nexcept A, B:\n    pass\n", diag.SynUnexpectedToken, "multiple exception types must be parenthesized", 3},
		{"mixed bytes", "x = b'a' 'b'\n", diag.SynUnexpectedToken, "cannot mix bytes and nonbytes literals", 1},
		{"bare star", "def f(*):\n    pass\n", diag.SynBadArguments, "named arguments must follow bare *", 1},
		{"del call", "del f()\n", diag.SynInvalidTarget, "cannot delete function call", 1},
		{"augassign literal", "1 += 2\n", diag.SynInvalidTarget, "'literal' is an illegal expression for augmented assignment", 1},
		{"annotate tuple", "a, b: int\n", diag.SynInvalidTarget, "only single target (not tuple) can be annotated", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issue, line := mustFail(t, tc.input)
			if issue.Code != tc.code {
				t.Errorf("code = %v, want %v", issue.Code, tc.code)
			}
			if issue.Message != tc.msg {
				t.Errorf("message = %q, want %q", issue.Message, tc.msg)
			}
			if line != tc.line {
				t.Errorf("line = %d, want %d", line, tc.line)
			}
			if issue.Severity != diag.SevError {
				t.Errorf("severity = %v, want error", issue.Severity)
			}
		})
	}
}

func TestStopsAtFirstError(t *testing.T) {
	res, rep, _ := parse("x = (\ny = 1 +\nz = ]\n")
	if res.OK || res.Module != nil {
		t.Fatalf("expected failure")
	}
	if len(rep.issues) != 1 {
		t.Fatalf("expected a single issue, got %+v", rep.issues)
	}
}

func TestAssignmentContexts(t *testing.T) {
	mod := mustParse(t, "a, (b, c) = x\nobj.attr = 1\nd[k] = 2\n")
	assign := mod.Body[0].(*ast.Assign)
	tup := assign.Targets[0].(*ast.Tuple)
	if tup.Ctx != ast.Store {
		t.Fatalf("tuple ctx = %v", tup.Ctx)
	}
	inner := tup.Elts[1].(*ast.Tuple)
	if inner.Elts[0].(*ast.Name).Ctx != ast.Store {
		t.Fatalf("nested name should be a store")
	}
	if assign.Value.(*ast.Name).Ctx != ast.Load {
		t.Fatalf("value should be a load")
	}
	if mod.Body[1].(*ast.Assign).Targets[0].(*ast.Attribute).Ctx != ast.Store {
		t.Fatalf("attribute should be a store")
	}
}

func TestDocstringDetection(t *testing.T) {
	if !mustParse(t, "'''Doc.'''\nx = 1\n").Docstring {
		t.Fatalf("expected docstring")
	}
	if mustParse(t, "x = 1\n'''not doc'''\n").Docstring {
		t.Fatalf("unexpected docstring")
	}
}

func TestFStringFieldsParsed(t *testing.T) {
	mod := mustParse(t, "s = f'{user.name} has {count + 1:>{width}} items {{x}}'\n")
	js, ok := mod.Body[0].(*ast.Assign).Value.(*ast.JoinedStr)
	if !ok {
		t.Fatalf("expected JoinedStr")
	}
	var names []string
	for _, v := range js.Values {
		ast.Inspect(v, func(n ast.Node) bool {
			if name, ok := n.(*ast.Name); ok {
				names = append(names, name.ID)
			}
			return true
		})
	}
	got := strings.Join(names, ",")
	if got != "user,count,width" {
		t.Fatalf("names = %s", got)
	}
}

func TestFStringNamedEscape(t *testing.T) {
	mod := mustParse(t, "s = f'\\N{EM DASH} {x}'\n")
	js := mod.Body[0].(*ast.Assign).Value.(*ast.JoinedStr)
	if len(js.Values) != 1 {
		t.Fatalf("expected one field, got %d", len(js.Values))
	}
	if js.Values[0].(*ast.Name).ID != "x" {
		t.Fatalf("unexpected field %#v", js.Values[0])
	}
}

func TestImportShapes(t *testing.T) {
	mod := mustParse(t, "import a.b.c\nimport numpy as np\nfrom ..x import y as z\n")
	imp := mod.Body[0].(*ast.Import)
	if imp.Names[0].BoundName() != "a" {
		t.Fatalf("bound name = %s", imp.Names[0].BoundName())
	}
	if mod.Body[1].(*ast.Import).Names[0].BoundName() != "np" {
		t.Fatalf("alias not bound")
	}
	from := mod.Body[2].(*ast.ImportFrom)
	if from.Level != 2 || from.Module != "x" || from.Names[0].BoundName() != "z" {
		t.Fatalf("unexpected from-import %+v", from)
	}
}

func TestMatchSoftKeyword(t *testing.T) {
	mod := mustParse(t, "match x:\n    case 1:\n        pass\nmatch(x)\n")
	if _, ok := mod.Body[0].(*ast.Match); !ok {
		t.Fatalf("expected match statement, got %T", mod.Body[0])
	}
	if _, ok := mod.Body[1].(*ast.ExprStmt); !ok {
		t.Fatalf("expected call statement, got %T", mod.Body[1])
	}
}

func TestDeepNestingRejected(t *testing.T) {
	src := "x = " + strings.Repeat("(", 250) + "1" + strings.Repeat(")", 250) + "\n"
	res, rep, _ := parse(src)
	if res.OK {
		t.Fatalf("expected nesting failure")
	}
	if len(rep.issues) != 1 || !strings.Contains(rep.issues[0].Message, "too many nested") {
		t.Fatalf("unexpected issues %+v", rep.issues)
	}
}
