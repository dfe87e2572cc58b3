// Package indexer keeps an in-memory inverted index over the sandbox reports
// seen by lookups, so indicators can be searched without new API calls.
package indexer

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/falcon-mcp/pkg/client"
)

// ReportMeta is the indexed view of one report.
type ReportMeta struct {
	DocID       uint32
	Hash        string // hash the report was found under, normalized
	JobID       string
	SHA256      string
	Verdict     string
	ThreatScore int64
	Family      string
	Environment string
	IndexedAt   time.Time
}

// Indexer maintains inverted indexes over reports using Roaring bitmaps.
type Indexer struct {
	mu sync.RWMutex

	// ID mappings
	idToDoc   map[string]uint32
	docToMeta []*ReportMeta
	nextDocID uint32
	maxDocs   int

	// Inverted indexes, all keyed by lower-cased value
	idxHash     map[string]*roaring.Bitmap
	idxDomain   map[string]*roaring.Bitmap
	idxHost     map[string]*roaring.Bitmap
	idxFamily   map[string]*roaring.Bitmap
	idxTag      map[string]*roaring.Bitmap
	idxVerdict  map[string]*roaring.Bitmap
	idxEnv      map[string]*roaring.Bitmap
	idxProcess  map[string]*roaring.Bitmap
	idxFileHash map[string]*roaring.Bitmap // extracted file hashes
}

// New creates an Indexer holding at most maxDocs reports. Once full, new
// reports are dropped. maxDocs <= 0 means unlimited.
func New(maxDocs int) *Indexer {
	return &Indexer{
		idToDoc:     make(map[string]uint32),
		docToMeta:   make([]*ReportMeta, 0, 256),
		maxDocs:     maxDocs,
		idxHash:     make(map[string]*roaring.Bitmap),
		idxDomain:   make(map[string]*roaring.Bitmap),
		idxHost:     make(map[string]*roaring.Bitmap),
		idxFamily:   make(map[string]*roaring.Bitmap),
		idxTag:      make(map[string]*roaring.Bitmap),
		idxVerdict:  make(map[string]*roaring.Bitmap),
		idxEnv:      make(map[string]*roaring.Bitmap),
		idxProcess:  make(map[string]*roaring.Bitmap),
		idxFileHash: make(map[string]*roaring.Bitmap),
	}
}

// Index adds the reports found for hash. Reports already indexed (same job
// and sample) are skipped. Safe on a nil Indexer.
func (idx *Indexer) Index(hash string, results []client.SearchResult) {
	if idx == nil || len(results) == 0 {
		return
	}
	hash = normalize(hash)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i := range results {
		r := &results[i]
		key := r.JobID + "|" + strings.ToLower(r.SHA256)
		if docID, exists := idx.idToDoc[key]; exists {
			// Same report reached through another hash of the sample.
			idx.add(idx.idxHash, hash, docID)
			continue
		}
		if idx.maxDocs > 0 && len(idx.docToMeta) >= idx.maxDocs {
			slog.Debug("report index full, dropping report",
				slog.String("hash", hash),
				slog.String("job_id", r.JobID),
			)
			return
		}

		docID := idx.nextDocID
		idx.nextDocID++

		meta := &ReportMeta{
			DocID:       docID,
			Hash:        hash,
			JobID:       r.JobID,
			SHA256:      r.SHA256,
			Verdict:     r.Verdict,
			ThreatScore: r.ThreatScore,
			Environment: r.EnvironmentDescription,
			IndexedAt:   time.Now(),
		}
		if r.VXFamily != nil {
			meta.Family = *r.VXFamily
		}

		idx.idToDoc[key] = docID
		idx.docToMeta = append(idx.docToMeta, meta)

		idx.add(idx.idxHash, hash, docID)
		idx.add(idx.idxHash, r.MD5, docID)
		idx.add(idx.idxHash, r.SHA1, docID)
		idx.add(idx.idxHash, r.SHA256, docID)
		idx.add(idx.idxHash, r.SHA512, docID)
		idx.add(idx.idxVerdict, r.Verdict, docID)
		idx.add(idx.idxFamily, meta.Family, docID)
		idx.add(idx.idxEnv, r.EnvironmentDescription, docID)
		idx.add(idx.idxEnv, r.EnvironmentID, docID)

		for _, d := range r.Domains {
			idx.add(idx.idxDomain, d, docID)
		}
		for _, h := range r.Hosts {
			idx.add(idx.idxHost, h, docID)
		}
		for _, h := range r.CompromisedHosts {
			idx.add(idx.idxHost, h, docID)
		}
		for _, tag := range r.ClassificationTags {
			idx.add(idx.idxTag, tag, docID)
		}
		for _, p := range r.Processes {
			idx.add(idx.idxProcess, p.Name, docID)
		}
		for _, f := range r.ExtractedFiles {
			idx.add(idx.idxFileHash, f.SHA256, docID)
		}
	}
}

// Len returns the number of indexed reports.
func (idx *Indexer) Len() int {
	if idx == nil {
		return 0
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docToMeta)
}

func (idx *Indexer) add(m map[string]*roaring.Bitmap, value string, docID uint32) {
	key := normalize(value)
	if key == "" {
		return
	}
	bm, ok := m[key]
	if !ok {
		bm = roaring.New()
		m[key] = bm
	}
	bm.Add(docID)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
