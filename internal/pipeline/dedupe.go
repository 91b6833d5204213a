package pipeline

import "github.com/Egidiu/cadastral-cli/internal/model"

// SeenSet tracks every vertex already emitted during one processing
// run. Comparison is exact value equality on the (lat, lon) pair; no
// floating-point tolerance. A fresh set is created per run and passed
// explicitly so repeated runs are independent.
type SeenSet map[model.Vertex]struct{}

// NewSeenSet returns an empty set.
func NewSeenSet() SeenSet {
	return make(SeenSet)
}

// Dedupe returns the subsequence of vertices not present in seen at the
// time of the call, in original order, then inserts the record's
// vertices into seen. The filter looks only at prior records: a vertex
// repeated within the same record (rings are closed, so the last point
// repeats the first) is kept every time it appears.
//
// The set spans the whole batch, not one record: a vertex shared by two
// parcels is attributed to whichever record is processed first and
// dropped from the second. Centroids are computed before this filter
// and are never suppressed.
func Dedupe(vertices []model.Vertex, seen SeenSet) []model.Vertex {
	kept := make([]model.Vertex, 0, len(vertices))
	for _, v := range vertices {
		if _, ok := seen[v]; ok {
			continue
		}
		kept = append(kept, v)
	}
	for _, v := range kept {
		seen[v] = struct{}{}
	}
	return kept
}
