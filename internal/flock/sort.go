package flock

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// kvSlice sorts keys ascending and carries vals along as the payload.
type kvSlice struct {
	keys, vals []int
}

func (s kvSlice) Len() int           { return len(s.keys) }
func (s kvSlice) Less(i, j int) bool { return s.keys[i] < s.keys[j] }
func (s kvSlice) Swap(i, j int) {
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
	s.vals[i], s.vals[j] = s.vals[j], s.vals[i]
}

// SortByKey sorts keys ascending and applies the same permutation to vals
// using workers goroutines. Order among equal keys is unspecified.
func SortByKey(keys, vals []int, workers int) error {
	if len(keys) != len(vals) {
		return fmt.Errorf("sort by key: %d keys but %d values", len(keys), len(vals))
	}
	n := len(keys)
	return newPool(workers).sortByKey(keys, vals, make([]int, n), make([]int, n))
}

// sortByKey sorts each pool chunk independently, then merges adjacent runs
// pairwise until one run remains. tmpKeys and tmpVals are scratch space of
// the same length as keys.
func (p *pool) sortByKey(keys, vals, tmpKeys, tmpVals []int) error {
	runs := p.split(len(keys))
	if len(runs) == 0 {
		return nil
	}
	if err := p.each(runs, func(r span) {
		sort.Sort(kvSlice{keys: keys[r.lo:r.hi], vals: vals[r.lo:r.hi]})
	}); err != nil {
		return fmt.Errorf("sort runs: %w", err)
	}

	srcK, srcV, dstK, dstV := keys, vals, tmpKeys, tmpVals
	inScratch := false
	for len(runs) > 1 {
		pairs := make([][2]span, 0, (len(runs)+1)/2)
		for i := 0; i < len(runs); i += 2 {
			if i+1 < len(runs) {
				pairs = append(pairs, [2]span{runs[i], runs[i+1]})
			} else {
				pairs = append(pairs, [2]span{runs[i], {lo: runs[i].hi, hi: runs[i].hi}})
			}
		}
		var g errgroup.Group
		g.SetLimit(p.workers)
		next := make([]span, len(pairs))
		for i, pr := range pairs {
			next[i] = span{lo: pr[0].lo, hi: pr[1].hi}
			g.Go(func() error {
				return guard(func() { mergeRuns(srcK, srcV, dstK, dstV, pr[0], pr[1]) })
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("merge runs: %w", err)
		}
		runs = next
		srcK, srcV, dstK, dstV = dstK, dstV, srcK, srcV
		inScratch = !inScratch
	}
	if inScratch {
		if err := p.run(len(keys), func(lo, hi int) {
			copy(keys[lo:hi], srcK[lo:hi])
			copy(vals[lo:hi], srcV[lo:hi])
		}); err != nil {
			return fmt.Errorf("copy back: %w", err)
		}
	}
	return nil
}

// each runs fn for every span concurrently.
func (p *pool) each(spans []span, fn func(span)) error {
	var g errgroup.Group
	g.SetLimit(p.workers)
	for _, s := range spans {
		g.Go(func() error { return guard(func() { fn(s) }) })
	}
	return g.Wait()
}

// mergeRuns merges the sorted adjacent runs a and b of src into the same
// index range of dst.
func mergeRuns(srcK, srcV, dstK, dstV []int, a, b span) {
	i, j, k := a.lo, b.lo, a.lo
	for i < a.hi && j < b.hi {
		if srcK[j] < srcK[i] {
			dstK[k], dstV[k] = srcK[j], srcV[j]
			j++
		} else {
			dstK[k], dstV[k] = srcK[i], srcV[i]
			i++
		}
		k++
	}
	for ; i < a.hi; i, k = i+1, k+1 {
		dstK[k], dstV[k] = srcK[i], srcV[i]
	}
	for ; j < b.hi; j, k = j+1, k+1 {
		dstK[k], dstV[k] = srcK[j], srcV[j]
	}
}
