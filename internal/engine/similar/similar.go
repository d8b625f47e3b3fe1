// Package similar clusters statements whose canonical messages are textually
// close but not identical. The candidate set scales quadratically, so
// comparison is pruned by canonical-length banding and fanned out across
// workers; clusters are the connected components of the threshold graph
// (transitive closure: A~B and B~C joins A, B, C even when A and C fall
// below the threshold directly).
package similar

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/logdup/logdup/internal/detector"
	"github.com/logdup/logdup/internal/types"
)

// DefaultThreshold is the similarity ratio above which two canonical
// messages are considered near-duplicates.
const DefaultThreshold = 0.7

// bandWidth is the canonical-length band size used to bucket candidates
// before pairwise comparison.
const bandWidth = 16

// Grouper implements the similarity stage.
type Grouper struct {
	threshold float64
	workers   int
}

// New creates the similarity stage. A threshold <= 0 selects
// DefaultThreshold; workers <= 0 defaults to runtime.NumCPU().
func New(threshold float64, workers int) *Grouper {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Grouper{threshold: threshold, workers: workers}
}

func (g *Grouper) Name() string { return "similar" }

// edge joins two candidate indices whose similarity meets the threshold.
type edge struct{ a, b int }

// job compares one pair of length bands.
type job struct{ lo, hi []int }

// Claim clusters the remaining records. A cluster qualifies iff it holds at
// least two records at distinct (file, line) locations. Output order is
// deterministic regardless of worker count: clusters are ordered by their
// first-seen record, members by input position.
func (g *Grouper) Claim(ctx context.Context, records []*detector.Record) ([]*detector.Group, []*detector.Record, error) {
	var candidates []*detector.Record
	for _, r := range records {
		if r.Canonical != "" {
			candidates = append(candidates, r)
		}
	}

	edges, err := g.compareAll(ctx, candidates)
	if err != nil {
		return nil, nil, err
	}

	// Merge point: fold the partial similarity graphs into components.
	uf := newUnionFind(len(candidates))
	for _, e := range edges {
		uf.union(e.a, e.b)
	}

	members := make(map[int][]int)
	var roots []int
	for i := range candidates {
		root := uf.find(i)
		if _, ok := members[root]; !ok {
			roots = append(roots, root)
		}
		members[root] = append(members[root], i)
	}
	sort.Slice(roots, func(i, j int) bool {
		return members[roots[i]][0] < members[roots[j]][0]
	})

	var groups []*detector.Group
	claimed := make(map[int]struct{})
	for _, root := range roots {
		idxs := members[root]
		if len(idxs) < 2 {
			continue
		}
		cluster := make([]*detector.Record, len(idxs))
		for i, idx := range idxs {
			cluster[i] = candidates[idx]
		}
		if !spansDistinctLocations(cluster) {
			continue
		}
		for _, r := range cluster {
			claimed[r.Index] = struct{}{}
		}
		groups = append(groups, &detector.Group{
			Type:     types.TypeSimilar,
			Records:  cluster,
			Elevated: detector.Elevated(cluster),
		})
	}

	var remaining []*detector.Record
	for _, r := range records {
		if _, ok := claimed[r.Index]; !ok {
			remaining = append(remaining, r)
		}
	}
	return groups, remaining, nil
}

// compareAll computes threshold edges between candidates. Candidates are
// bucketed by canonical-length band; only band pairs whose length gap could
// still reach the threshold are compared, each pair as one worker job.
func (g *Grouper) compareAll(ctx context.Context, candidates []*detector.Record) ([]edge, error) {
	if len(candidates) < 2 {
		return nil, nil
	}

	bands := make(map[int][]int)
	var bandKeys []int
	for i, r := range candidates {
		b := len(r.Canonical) / bandWidth
		if _, ok := bands[b]; !ok {
			bandKeys = append(bandKeys, b)
		}
		bands[b] = append(bands[b], i)
	}
	sort.Ints(bandKeys)

	var jobs []job
	for i, bi := range bandKeys {
		jobs = append(jobs, job{lo: bands[bi]})
		for _, bj := range bandKeys[i+1:] {
			if !g.bandsComparable(bi, bj) {
				break
			}
			jobs = append(jobs, job{lo: bands[bi], hi: bands[bj]})
		}
	}

	jobCh := make(chan job, len(jobs))
	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)

	var (
		mu    sync.Mutex
		edges []edge
		wg    sync.WaitGroup
	)
	// Workers share no mutable state; partial edge lists merge under one lock.
	for i := 0; i < g.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if ctx.Err() != nil {
					return
				}
				local := g.compareJob(candidates, j)
				if len(local) > 0 {
					mu.Lock()
					edges = append(edges, local...)
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return edges, nil
}

// bandsComparable reports whether two length bands can contain a pair at or
// above the threshold. The smallest possible gap between the bands must not
// exceed the largest tolerable edit span.
func (g *Grouper) bandsComparable(lo, hi int) bool {
	minGap := (hi-lo)*bandWidth - (bandWidth - 1)
	maxLen := hi*bandWidth + bandWidth - 1
	return float64(minGap) <= (1-g.threshold)*float64(maxLen)
}

func (g *Grouper) compareJob(candidates []*detector.Record, j job) []edge {
	var local []edge
	if j.hi == nil {
		for x := 0; x < len(j.lo); x++ {
			for y := x + 1; y < len(j.lo); y++ {
				if g.pairSimilar(candidates[j.lo[x]], candidates[j.lo[y]]) {
					local = append(local, edge{j.lo[x], j.lo[y]})
				}
			}
		}
		return local
	}
	for _, x := range j.lo {
		for _, y := range j.hi {
			if g.pairSimilar(candidates[x], candidates[y]) {
				local = append(local, edge{x, y})
			}
		}
	}
	return local
}

func (g *Grouper) pairSimilar(a, b *detector.Record) bool {
	la, lb := len(a.Canonical), len(b.Canonical)
	maxLen := max(la, lb)
	if maxLen == 0 {
		return false
	}
	// Cheap length prune before the quadratic distance computation.
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	if float64(diff) > (1-g.threshold)*float64(maxLen) {
		return false
	}
	return Ratio(a.Canonical, b.Canonical) >= g.threshold
}

func spansDistinctLocations(records []*detector.Record) bool {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.Location().Key()] = struct{}{}
		if len(seen) >= 2 {
			return true
		}
	}
	return false
}

// unionFind is a disjoint-set forest with path halving and union by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	// Keep the smaller index as root so components are stable across
	// edge arrival order.
	if rb < ra && uf.size[ra] == uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}
