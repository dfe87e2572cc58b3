package indexer

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Query selects reports matching every non-empty field. Matching is exact
// and case-insensitive.
type Query struct {
	Hash        string
	Domain      string
	Host        string
	Family      string
	Tag         string
	Verdict     string
	Environment string
	ProcessName string
	FileHash    string
	Limit       int // <= 0 means unlimited
}

// Empty reports whether the query has no criteria.
func (q Query) Empty() bool {
	return q.Hash == "" && q.Domain == "" && q.Host == "" && q.Family == "" &&
		q.Tag == "" && q.Verdict == "" && q.Environment == "" &&
		q.ProcessName == "" && q.FileHash == ""
}

// Search returns matching reports, most recently indexed first, and the
// total number of matches before Limit. An empty query matches nothing.
func (idx *Indexer) Search(q Query) ([]ReportMeta, int) {
	if idx == nil || q.Empty() {
		return nil, 0
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	criteria := []struct {
		index map[string]*roaring.Bitmap
		value string
	}{
		{idx.idxHash, q.Hash},
		{idx.idxDomain, q.Domain},
		{idx.idxHost, q.Host},
		{idx.idxFamily, q.Family},
		{idx.idxTag, q.Tag},
		{idx.idxVerdict, q.Verdict},
		{idx.idxEnv, q.Environment},
		{idx.idxProcess, q.ProcessName},
		{idx.idxFileHash, q.FileHash},
	}

	var bitmaps []*roaring.Bitmap
	for _, c := range criteria {
		if c.value == "" {
			continue
		}
		bm, ok := c.index[normalize(c.value)]
		if !ok {
			return nil, 0
		}
		bitmaps = append(bitmaps, bm)
	}

	ids := roaring.FastAnd(bitmaps...).ToArray()
	total := len(ids)

	size := total
	if q.Limit > 0 && q.Limit < size {
		size = q.Limit
	}
	out := make([]ReportMeta, 0, size)
	for i := len(ids) - 1; i >= 0; i-- {
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
		out = append(out, *idx.docToMeta[ids[i]])
	}
	return out, total
}
