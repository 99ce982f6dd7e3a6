package storage

import (
	"sync"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/annotcheck/internal/report"
)

// ReportStore keeps validation reports in memory, keyed by report ID.
type ReportStore struct {
	reports map[string]*report.Report
	order   []string
	limit   int
	mu      sync.RWMutex
}

// New creates a store that keeps at most limit reports; limit <= 0 keeps all.
func New(limit int) *ReportStore {
	return &ReportStore{
		reports: make(map[string]*report.Report),
		limit:   limit,
	}
}

// Add assigns a new ID to r, stores it, and returns the ID. The oldest report
// is evicted once the limit is reached.
func (s *ReportStore) Add(r *report.Report) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = uuid.NewString()
	s.reports[r.ID] = r
	s.order = append(s.order, r.ID)

	if s.limit > 0 && len(s.order) > s.limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.reports, oldest)
	}
	return r.ID
}

func (s *ReportStore) Get(id string) (*report.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, exists := s.reports[id]
	return r, exists
}

// GetAll returns stored reports oldest first.
func (s *ReportStore) GetAll() []*report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*report.Report, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.reports[id])
	}
	return result
}

func (s *ReportStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[id]; !ok {
		return
	}
	delete(s.reports, id)
	for i, stored := range s.order {
		if stored == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
