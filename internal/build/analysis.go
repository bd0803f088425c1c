package build

import (
	"sync"

	ergoerrors "github.com/sunholo/ergo/internal/errors"
	"github.com/sunholo/ergo/internal/modcache"
)

// launchAnalysis implements spec.md §4.6 steps 3-4: walk the graph in
// post-order, spawn a concurrent analysis task per module not already
// registered, and perform the final root check once every dependency has
// completed. Modules are grouped into dependency-respecting layers (every
// module in a layer depends only on modules in earlier layers) so that
// independent modules within a layer genuinely run concurrently while
// still guaranteeing a module's dependencies finish before it starts --
// the module cache (internal/modcache) serializes registration across
// layers per spec.md §4.6 step 3.
func launchAnalysis(g *Graph, cache *modcache.Cache, analyze AnalysisFunc) []*ergoerrors.Report {
	layers := layerize(g)

	var mu sync.Mutex
	var reports []*ergoerrors.Report

	for _, layer := range layers {
		var wg sync.WaitGroup
		for _, path := range layer {
			if e, ok := cache.Get(path); ok && e.IsComplete() {
				continue
			}
			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				file := g.Files[path]
				rs := analyze(path, file, cache)

				status := modcache.StatusSucceed
				for _, r := range rs {
					if r != nil && r.Kind != ergoerrors.KindWarning {
						status = modcache.StatusFailed
						break
					}
				}
				cache.Insert(path, &modcache.Entry{
					ID:     cache.NextID(),
					Path:   path,
					AST:    file,
					Status: status,
				})

				mu.Lock()
				reports = append(reports, rs...)
				mu.Unlock()
			}(path)
		}
		wg.Wait()
	}

	return reports
}

// layerize groups g's modules by dependency depth: depth 0 has no
// dependencies, depth N depends only on modules at depth < N. The root
// module, transitively depending on everything else, always lands in the
// final layer -- realizing spec.md §4.6 step 4's "once all dependencies
// are registered" root check as a natural consequence of layer ordering.
func layerize(g *Graph) [][]string {
	depth := make(map[string]int)
	var compute func(path string) int
	visiting := make(map[string]bool)
	compute = func(path string) int {
		if d, ok := depth[path]; ok {
			return d
		}
		if visiting[path] {
			return 0 // already-broken cycle; inlined edges don't reach here
		}
		visiting[path] = true
		max := -1
		for _, dep := range g.Edges[path] {
			if d := compute(dep); d > max {
				max = d
			}
		}
		visiting[path] = false
		d := max + 1
		depth[path] = d
		return d
	}
	for _, path := range g.PostOrder {
		compute(path)
	}

	var maxDepth int
	for _, d := range depth {
		if d > maxDepth {
			maxDepth = d
		}
	}
	layers := make([][]string, maxDepth+1)
	for _, path := range g.PostOrder {
		d := depth[path]
		layers[d] = append(layers[d], path)
	}
	return layers
}
