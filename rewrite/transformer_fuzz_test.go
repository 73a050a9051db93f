package rewrite

// Fuzz terms.  Rewrite them with a terminating rule set and then
// verify the fixpoint.

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Comcast/treexf/tree"
)

// Fuzz has parameters used to generate random terms.
type Fuzz struct {
	Width     int
	Types     []tree.Type
	MaxNumber int

	Exprs   float64
	Numbers float64
	Strings float64
	Bools   float64
	Nils    float64

	// generated counts the number of nodes generated.
	generated int64
}

// NewFuzz returns a reasonable, general-purpose Fuzz.
func NewFuzz() *Fuzz {
	return &Fuzz{
		Width:     3,
		Types:     []tree.Type{"Add", "Neg", "Lit", "Mul"},
		MaxNumber: 3,

		Exprs:   4,
		Numbers: 3,
		Strings: 1,
		Bools:   1,
		Nils:    0.5,
	}
}

// Gen generates a random term of at most the given depth.
func (f *Fuzz) Gen(r *rand.Rand, d int) tree.Node {
	f.generated++

	m := f.Numbers + f.Strings + f.Bools + f.Nils
	if 0 < d {
		m += f.Exprs
	}

	t := r.Float64() * m
	if t < f.Numbers {
		return tree.NewValue(r.Intn(f.MaxNumber))
	} else if t < f.Numbers+f.Strings {
		return tree.NewValue(string([]byte{byte('a' + r.Intn(3))}))
	} else if t < f.Numbers+f.Strings+f.Bools {
		return tree.NewValue(r.Intn(2) == 0)
	} else if t < f.Numbers+f.Strings+f.Bools+f.Nils {
		return tree.NewValue(nil)
	}
	return f.genExpr(r, d)
}

func (f *Fuzz) genExpr(r *rand.Rand, d int) tree.Node {
	typ := f.Types[r.Intn(len(f.Types))]
	n := r.Intn(f.Width + 1)
	children := make([]tree.Node, n)
	for i := range children {
		children[i] = f.Gen(r, d-1)
	}
	return tree.NewExpr(typ, children...)
}

// shrinking rules only ever make the term smaller, so they terminate.
func shrinking() *TreeTransformer {
	return NewTreeTransformer(
		addZero(),
		negNeg(),
		&Transformation{
			Name:        "mul-one",
			Pattern:     tree.NewExpr("Mul", tree.NewValue(1), tree.NewExprCapture("x")),
			Replacement: tree.NewExprCapture("x"),
		},
		&Transformation{
			Name: "add-same",
			Pattern: tree.NewExpr("Add",
				tree.NewExprCapture("x"),
				tree.NewExprCapture("x")),
			Replacement: tree.NewExpr("Neg", tree.NewExprCapture("x")),
		},
	)
}

func TestFuzzFixpoint(t *testing.T) {
	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))
	f := NewFuzz()
	tt := shrinking()

	for i := 0; i < 500; i++ {
		term := f.Gen(r, 5)
		before := tree.String(term)

		m := tree.NewMatch()
		out, err := tt.Transform(m, term)
		require.NoError(t, err, "seed %d term %s", seed, before)

		again, stats, err := tt.TransformWithStats(m, out)
		require.NoError(t, err, "seed %d term %s", seed, before)
		require.Same(t, out, again, "seed %d term %s", seed, before)
		require.Equal(t, 1, stats.Passes, "seed %d term %s", seed, before)
	}
	t.Logf("generated %d nodes", f.generated)
}

func TestFuzzSelfMatch(t *testing.T) {
	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))
	f := NewFuzz()

	for i := 0; i < 500; i++ {
		term := f.Gen(r, 4)
		matched, err := tree.Matches(tree.NewMatch(), term, term)
		require.NoError(t, err)
		require.True(t, matched, "seed %d term %s", seed, tree.String(term))

		found, err := tree.Find(tree.NewMatch(), term, term)
		require.NoError(t, err)
		require.Same(t, term, found)
	}
}
