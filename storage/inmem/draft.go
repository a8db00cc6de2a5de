// Package inmem keeps drafts in memory. Drafts do not survive restarts.
package inmem

import (
	"sort"
	"strings"
	"sync"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/draft"
)

type draftRepository struct {
	mutex sync.RWMutex
	table map[string]*draft.Draft
}

var _ draft.Repository = (*draftRepository)(nil)

func NewDraftRepository() draft.Repository {
	return &draftRepository{table: make(map[string]*draft.Draft)}
}

func (repo *draftRepository) Save(d *draft.Draft) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.table[d.ID] = d
	return nil
}

func (repo *draftRepository) Get(id string) (*draft.Draft, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	if d, ok := repo.table[id]; ok {
		return d, nil
	}
	return nil, draft.ErrNotFound
}

// List returns the drafts of owner (every draft if owner is empty), most recently updated first
// unless orderings say otherwise.
func (repo *draftRepository) List(owner string, orderings ...core.Ordering) ([]*draft.Draft, error) {
	repo.mutex.RLock()
	drafts := make([]*draft.Draft, 0, len(repo.table))
	for _, d := range repo.table {
		if owner == "" || d.Owner == owner {
			drafts = append(drafts, d)
		}
	}
	repo.mutex.RUnlock()

	if len(orderings) == 0 {
		orderings = []core.Ordering{{Field: draft.OrderUpdatedAt}}
	}
	summaries := make(map[*draft.Draft]draft.Summary, len(drafts))
	for _, d := range drafts {
		summaries[d] = d.Summary()
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		a, b := summaries[drafts[i]], summaries[drafts[j]]
		for _, ord := range orderings {
			c := compare(a, b, ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return a.ID < b.ID
	})
	return drafts, nil
}

func compare(a, b draft.Summary, field string) int {
	switch field {
	case draft.OrderCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case draft.OrderUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case draft.OrderTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	default:
		return 0
	}
}

func (repo *draftRepository) Delete(id string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	if _, ok := repo.table[id]; !ok {
		return draft.ErrNotFound
	}
	delete(repo.table, id)
	return nil
}
