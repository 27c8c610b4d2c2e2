package peaks

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("flat slices", func(t *testing.T) {
		list, err := Normalize([]float64{3.14, 5.0}, []float64{100, 50})
		require.NoError(t, err)
		assert.Equal(t, List{{3.14, 100}, {5.0, 50}}, list)
		assert.Equal(t, []float64{3.14, 5.0}, list.Shifts())
		assert.Equal(t, []float64{100, 50}, list.Intensities())
	})

	t.Run("column and row vectors squeeze", func(t *testing.T) {
		list, err := Normalize([][]float64{{3.14}, {5.0}}, [][]float64{{100, 50}})
		require.NoError(t, err)
		assert.Equal(t, List{{3.14, 100}, {5.0, 50}}, list)
	})

	t.Run("decoded json", func(t *testing.T) {
		list, err := Normalize([]any{1.0, 2.5}, []any{[]any{10.0}, []any{20.0}})
		require.NoError(t, err)
		assert.Equal(t, List{{1, 10}, {2.5, 20}}, list)
	})

	t.Run("single peak keeps one dimension", func(t *testing.T) {
		list, err := Normalize([][]float64{{3.14}}, []int{7})
		require.NoError(t, err)
		assert.Equal(t, List{{3.14, 7}}, list)
	})

	t.Run("integer kinds", func(t *testing.T) {
		inputs := map[string]any{
			"int8":    []int8{1, 2},
			"int16":   []int16{1, 2},
			"uint":    []uint{1, 2},
			"uint8":   []uint8{1, 2},
			"uint16":  []uint16{1, 2},
			"float32": []float32{1, 2},
			"column":  [][]uint16{{1}, {2}},
			"array":   [2]int64{1, 2},
		}
		for name, in := range inputs {
			got, err := Flatten(in)
			require.NoError(t, err, name)
			assert.Equal(t, []float64{1, 2}, got, name)
		}
		list, err := Normalize([]int16{300, 500}, []uint8{10, 20})
		require.NoError(t, err)
		assert.Equal(t, List{{300, 10}, {500, 20}}, list)
	})

	t.Run("empty", func(t *testing.T) {
		list, err := Normalize([]float64{}, []float64{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := Normalize([]float64{1, 2, 3}, []float64{1, 2})
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("two dimensional", func(t *testing.T) {
		_, err := Normalize([][]float64{{1, 2}, {3, 4}}, []float64{1, 2, 3, 4})
		assert.ErrorIs(t, err, ErrShape)
	})

	t.Run("ragged", func(t *testing.T) {
		_, err := Normalize([][]float64{{1}, {2, 3}}, []float64{1, 2})
		assert.ErrorIs(t, err, ErrShape)
	})

	t.Run("not numeric", func(t *testing.T) {
		_, err := Normalize([]any{"x"}, []float64{1})
		assert.ErrorIs(t, err, ErrShape)
		_, err = Normalize(nil, []float64{1})
		assert.ErrorIs(t, err, ErrShape)
	})

	t.Run("non finite", func(t *testing.T) {
		_, err := Normalize([]float64{math.NaN()}, []float64{1})
		assert.ErrorIs(t, err, ErrShape)
		_, err = Normalize([][]float64{{math.Inf(1)}}, []float64{1})
		assert.ErrorIs(t, err, ErrShape)
	})
}

func TestRead(t *testing.T) {
	t.Run("whitespace and commas", func(t *testing.T) {
		src := "# shift intensity\n3.14 100\n\n5.00,50 # trailing\n 1.2\t\t3\r\n"
		list, err := Read(strings.NewReader(src))
		require.NoError(t, err)
		assert.Equal(t, List{{3.14, 100}, {5.0, 50}, {1.2, 3}}, list)
	})

	t.Run("wrong column count", func(t *testing.T) {
		_, err := Read(strings.NewReader("1 2 3\n"))
		assert.ErrorIs(t, err, ErrShape)
		assert.Contains(t, err.Error(), "line 1")
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := Read(strings.NewReader("1 2\nabc 4\n"))
		assert.ErrorIs(t, err, ErrShape)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "peaks.txt")
		require.NoError(t, os.WriteFile(path, []byte("3.14 100\n"), 0o644))
		list, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, List{{3.14, 100}}, list)

		_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
		assert.Error(t, err)
	})
}
