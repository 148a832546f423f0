package grainvalue

// Evaluator computes one user-defined formula over n grains given the
// built-in and other user values it depends on, writing n results to out.
// Implementations are expected to be pure and side-effect free over in.
type Evaluator interface {
	Eval(n int, in [][]float64, out []float64)
}

// ExprEvaluator compiles a user-supplied formula string referencing named
// identifiers (built-in tags or other user value names) into an Evaluator.
// grain-value.c delegates this to a libmatheval-style expression compiler;
// this module only defines the collaborator contract (see SPEC_FULL.md's
// external interfaces section) and leaves the concrete implementation to
// the caller, the same way unit.Descriptor leaves unit formatting external.
type ExprEvaluator interface {
	Compile(formula string, idents []string) (Evaluator, error)
}

// UserValue is one user-defined grain value: a name, the formula source,
// and the identifiers (built-in Tags or other user value Names) it reads.
type UserValue struct {
	Name    string
	Formula string
	Idents  []string
}

// EvaluateUser computes every user value in order against grains, allowing
// later entries to reference earlier ones by name. It mirrors
// grain-value.c's resolution of user formulas after all built-ins have
// been computed, without imposing a particular expression syntax.
func EvaluateUser(evaluator ExprEvaluator, grains []Grain, userValues []UserValue) error {
	named := make(map[string][]float64, len(userValues))
	n := len(grains)
	for _, uv := range userValues {
		in := make([][]float64, len(uv.Idents))
		for i, ident := range uv.Idents {
			col := make([]float64, n)
			if series, ok := named[ident]; ok {
				copy(col, series)
			} else {
				for g, grain := range grains {
					col[g] = grain.Values[Tag(ident)]
				}
			}
			in[i] = col
		}
		fn, err := evaluator.Compile(uv.Formula, uv.Idents)
		if err != nil {
			return err
		}
		out := make([]float64, n)
		fn.Eval(n, in, out)
		named[uv.Name] = out
		for g := range grains {
			grains[g].Values[Tag(uv.Name)] = out[g]
		}
	}
	return nil
}
