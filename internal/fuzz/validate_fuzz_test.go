package fuzztests

import (
	"context"
	"testing"

	"scriptgate/internal/validate"
)

// FuzzValidateFixedPoint checks that validation never panics and that an
// accepted import rewrite validates cleanly on a second pass.
func FuzzValidateFixedPoint(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("print(np.zeros(3))\n"))
	f.Add([]byte("df = pd.DataFrame()\nplt.plot(df)\n"))

	v := validate.New(validate.Options{})
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		res := v.ValidateContext(context.Background(), string(input), true)
		if res.Valid && len(res.Errors()) > 0 {
			t.Fatalf("valid result carries errors: %s", res.Format())
		}
		if !res.HasFix() {
			return
		}
		again := v.ValidateContext(context.Background(), *res.FixedCode, false)
		if !again.Valid {
			t.Fatalf("fixed code does not validate:\n%s\n%s", *res.FixedCode, again.Format())
		}
	})
}
