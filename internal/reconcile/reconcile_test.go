package reconcile

import (
	"testing"

	"metabohunter/internal/gateway/metabohunter"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func ranking(ids ...string) *metabohunter.RankingTable {
	t := &metabohunter.RankingTable{}
	for i, id := range ids {
		t.Put(metabohunter.RankingRow{Rank: i + 1, ID: id})
	}
	return t
}

func TestJoinKey(t *testing.T) {
	cases := map[float64]string{
		3.14:   "3.14",
		5:      "5.00",
		1.005:  "1.00", // binary 1.00499999...
		2.675:  "2.67",
		0.125:  "0.12", // round half to even on an exact tie
		-0.004: "-0.00",
		12.3:   "12.30",
	}
	for in, want := range cases {
		assert.Equal(t, want, JoinKey(in), "JoinKey(%v)", in)
	}
}

func TestInvert(t *testing.T) {
	t.Run("restricted to ranked metabolites", func(t *testing.T) {
		ev := metabohunter.ParseEvidence("A: 3.14\nZ: 5.00\n")
		got := Invert(ranking("A"), ev)
		assert.Equal(t, Assignment{"3.14": "A"}, got)
	})

	t.Run("last write wins in ranking order", func(t *testing.T) {
		// evidence lists B before A; ranking order decides who writes last
		ev := metabohunter.ParseEvidence("B: 3.14\nA: 3.14 4.00\n")
		assert.Equal(t, Assignment{"3.14": "B", "4.00": "A"}, Invert(ranking("A", "B"), ev))
		assert.Equal(t, Assignment{"3.14": "A", "4.00": "A"}, Invert(ranking("B", "A"), ev))
	})

	t.Run("ranked without evidence", func(t *testing.T) {
		ev := metabohunter.ParseEvidence("A: 1.00\n")
		assert.Equal(t, Assignment{"1.00": "A"}, Invert(ranking("A", "B"), ev))
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Empty(t, Invert(ranking(), &metabohunter.Evidence{}))
		assert.Empty(t, Invert(nil, nil))
	})
}

func TestProject(t *testing.T) {
	a := Assignment{"3.14": "HMDB001", "4.20": "HMDB002"}

	t.Run("input order and misses", func(t *testing.T) {
		got := Project([]float64{3.14, 5.0, 4.2}, a)
		assert.Equal(t, []string{"HMDB001", "", "HMDB002"}, got)
	})

	t.Run("duplicate shifts share an assignment", func(t *testing.T) {
		assert.Equal(t, []string{"HMDB001", "HMDB001"}, Project([]float64{3.14, 3.141}, a))
	})

	t.Run("permutation of input permutes output", func(t *testing.T) {
		shifts := []float64{4.2, 1.0, 3.14}
		perm := []int{2, 0, 1}
		permuted := make([]float64, len(shifts))
		for i, j := range perm {
			permuted[i] = shifts[j]
		}
		base := Project(shifts, a)
		got := Project(permuted, a)
		for i, j := range perm {
			assert.Equal(t, base[j], got[i])
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		shifts := []float64{3.14, 5.0, 4.2}
		first := Project(shifts, a)
		second := Project(shifts, a)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("projection changed between runs (-first +second):\n%s", diff)
		}
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Project(nil, a))
	})
}
