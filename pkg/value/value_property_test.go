package value

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/zurustar/calc/pkg/calcerr"
)

// TestPropertyStorageEquivalence checks that the list and map backings
// answer every lookup the same way.
func TestPropertyStorageEquivalence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("list and map storage agree on lookups", prop.ForAll(
		func(keys []int, lookup int) bool {
			entries := make([]Entry[int], len(keys))
			for i, k := range keys {
				entries[i] = Entry[int]{Name: fmt.Sprintf("k%d", k), Value: i}
			}
			list := NewListStorage(entries)
			hashed := NewMapStorage(entries)

			name := fmt.Sprintf("k%d", lookup)
			lv, lok := list.Get(name)
			mv, mok := hashed.Get(name)
			if lok != mok || lv != mv {
				return false
			}
			if list.Len() != hashed.Len() {
				return false
			}
			ln, mn := list.Names(), hashed.Names()
			for i := range ln {
				if ln[i] != mn[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 20)),
		gen.IntRange(0, 25),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestPropertyArrayBounds checks that reads succeed exactly for indices below the length.
func TestPropertyArrayBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("index < len reads, index >= len is a range error", prop.ForAll(
		func(values []int64, index int) bool {
			elements := make([]Value, len(values))
			for i, v := range values {
				elements[i] = Int(v)
			}
			arr := NewArray(elements)

			got, err := arr.Get(index)
			if index < len(values) {
				return err == nil && Equal(got, Int(values[index]))
			}
			return calcerr.Is(err, calcerr.KindRange)
		},
		gen.SliceOf(gen.Int64()),
		gen.IntRange(0, 30),
	))

	properties.Property("writes are visible through every alias", prop.ForAll(
		func(values []int64, v int64) bool {
			if len(values) == 0 {
				return true
			}
			elements := make([]Value, len(values))
			for i, x := range values {
				elements[i] = Int(x)
			}
			arr := NewArray(elements)
			var alias Value = arr

			if err := arr.Set(len(values)-1, Int(v)); err != nil {
				return false
			}
			got, err := alias.(*Array).Get(len(values) - 1)
			return err == nil && Equal(got, Int(v))
		},
		gen.SliceOf(gen.Int64()),
		gen.Int64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
