package fuzztests

import (
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

// pythonSeeds покрывают конструкции, на которых лексер и парсер уже ломались.
var pythonSeeds = []string{
	"",
	"print('hi')\n",
	"import numpy as np\nx = np.zeros(3)\nprint(x)\n",
	"from math import *\nprint(sqrt(2))\n",
	"def f(a, b=1, *args, c, **kw):\n    return a + b\n",
	"async def main():\n    async with lock:\n        await task\n",
	"class A(Base, metaclass=M):\n    x: int = 0\n    def m(self): ...\n",
	"for i in range(10):\n    if i % 2:\n        continue\nelse:\n    pass\n",
	"try:\n    1/0\nexcept (ZeroDivisionError, ValueError) as e:\n    raise\nfinally:\n    pass\n",
	"match cmd:\n    case [x, *rest]:\n        pass\n    case {'k': v, **kw}:\n        pass\n    case Point(x=0) | None:\n        pass\n",
	"x = [y for y in z if y]\nd = {k: v for k, v in items}\n",
	"f'{x!r:>{width}} {y=}'\n",
	"s = '''multi\nline'''\nb = rb'\\x00'\n",
	"lambda x, /, y: (x := y)\n",
	"if x:\n\tpass\n        pass\n",
	"print(\"unterminated\n",
	"def f(:\n",
	"x = (1,\n",
	"0x_ff 1_000 0o17 0b101 1e-3j\n",
	"global x\nnonlocal y\n",
	"with (open('a') as f, open('b') as g):\n    pass\n",
	"type Alias[T] = list[T]\n",
	"@decorator(arg)\n@other\ndef g(): yield from range(3)\n",
	"del a[1:2:3], b.c\nassert x, 'msg'\n",
	"λ = 1\nпривет = λ + 1\n",
	"\\\n",
	"((((((((((((((((((((((((((((((((((((((((x))))))))))))))))))))))))))))))))))))))))\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range pythonSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds подмешивает *.py из testdata, если каталог есть.
func addTestdataSeeds(f *testing.F) {
	matches, err := filepath.Glob(filepath.Join("testdata", "*.py"))
	if err != nil {
		return
	}
	for _, path := range matches {
		// #nosec G304 -- path comes from the package testdata glob
		src, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f.Add(clampSeed(src))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(append([]byte(nil), input[:maxLen]...), "..."...)
}
