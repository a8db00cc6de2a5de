package inmem

import (
	"sort"
	"sync"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core/qbank"
)

type batchRepository struct {
	mutex sync.RWMutex
	table map[string]*qbank.Draft
}

var _ qbank.Repository = (*batchRepository)(nil)

func NewBatchRepository() qbank.Repository {
	return &batchRepository{table: make(map[string]*qbank.Draft)}
}

func (repo *batchRepository) Save(d *qbank.Draft) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.table[d.ID] = d
	return nil
}

func (repo *batchRepository) Get(id string) (*qbank.Draft, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	if d, ok := repo.table[id]; ok {
		return d, nil
	}
	return nil, qbank.ErrNotFound
}

// List returns the batches of owner (every batch if owner is empty), most recently updated first.
func (repo *batchRepository) List(owner string) ([]*qbank.Draft, error) {
	repo.mutex.RLock()
	drafts := make([]*qbank.Draft, 0, len(repo.table))
	for _, d := range repo.table {
		if owner == "" || d.Owner == owner {
			drafts = append(drafts, d)
		}
	}
	repo.mutex.RUnlock()

	updated := make(map[*qbank.Draft]int64, len(drafts))
	for _, d := range drafts {
		updated[d] = d.UpdatedAt().UnixNano()
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		a, b := drafts[i], drafts[j]
		if updated[a] != updated[b] {
			return updated[a] > updated[b]
		}
		return a.ID < b.ID
	})
	return drafts, nil
}

func (repo *batchRepository) Delete(id string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	if _, ok := repo.table[id]; !ok {
		return qbank.ErrNotFound
	}
	delete(repo.table, id)
	return nil
}
