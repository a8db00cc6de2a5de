package qbank

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("batch not found")
)

// Draft is a batch held by the service until it is committed or discarded.
// Mutations go through Edit, which serializes them.
type Draft struct {
	ID        string
	Owner     string // actor id
	CreatedAt time.Time

	mu        sync.Mutex
	batch     *Batch
	updatedAt time.Time
}

func NewDraft(owner string, b *Batch) *Draft {
	now := time.Now().UTC()
	return &Draft{
		ID:        uuid.NewString(),
		Owner:     owner,
		CreatedAt: now,
		batch:     b,
		updatedAt: now,
	}
}

// Edit applies fn to the batch; fn reports whether it changed the batch.
func (d *Draft) Edit(fn func(b *Batch) bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	changed := fn(d.batch)
	if changed {
		d.updatedAt = time.Now().UTC()
	}
	return changed
}

func (d *Draft) UpdatedAt() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updatedAt
}

// View is the JSON view of a batch draft.
type View struct {
	ID        string    `json:"id"`
	Records   []Wire    `json:"records"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *Draft) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := View{ID: d.ID, Records: make([]Wire, 0, len(d.batch.Records)), CreatedAt: d.CreatedAt, UpdatedAt: d.updatedAt}
	for _, rec := range d.batch.Records {
		v.Records = append(v.Records, rec.ToWire())
	}
	return v
}

// Repository stores batch drafts.
type Repository interface {
	Save(d *Draft) error
	Get(id string) (*Draft, error)
	List(owner string) ([]*Draft, error)
	Delete(id string) error
}
