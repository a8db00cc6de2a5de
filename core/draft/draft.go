// Package draft manages the course drafts edited through the authoring service:
// one editing tree per draft, owned by the actor who opened it.
package draft

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/course"
)

var (
	// errors
	ErrNotFound = errors.New("draft not found")
)

// Ordering fields
const (
	OrderCreatedAt = "created_at"
	OrderUpdatedAt = "updated_at"
	OrderTitle     = "title"
)

// Draft is an editing tree held by the service until it is published or discarded.
// Mutations go through Edit, which serializes them.
type Draft struct {
	ID        string
	Owner     string // actor id
	CreatedAt time.Time

	mu        sync.Mutex
	editor    *course.Editor
	original  *course.Document // nil for courses never saved
	updatedAt time.Time
}

// NewDraft opens a draft of c. original is the saved version of c, if any.
func NewDraft(owner string, c *course.Course, original *course.Document) *Draft {
	now := time.Now().UTC()
	return &Draft{
		ID:        uuid.NewString(),
		Owner:     owner,
		CreatedAt: now,
		editor:    course.NewEditor(c),
		original:  original,
		updatedAt: now,
	}
}

// Edit applies fn to the editor; fn reports whether it changed the tree.
func (d *Draft) Edit(fn func(e *course.Editor) bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	changed := fn(d.editor)
	if changed {
		d.updatedAt = time.Now().UTC()
	}
	return changed
}

// Read gives fn read access to the editor.
func (d *Draft) Read(fn func(e *course.Editor)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.editor)
}

// Summary is the listing view of a draft.
type Summary struct {
	ID        string      `json:"id"`
	CourseID  string      `json:"courseId,omitempty"`
	Title     string      `json:"title"`
	Type      course.Type `json:"type"`
	Items     int         `json:"items"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (d *Draft) Summary() Summary {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.editor.Course()
	return Summary{
		ID:        d.ID,
		CourseID:  c.ID.Server(),
		Title:     c.Title,
		Type:      c.Type,
		Items:     len(c.Content),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.updatedAt,
	}
}

// View is the full view of a draft.
type View struct {
	Summary
	Course   *course.Document `json:"course"`
	Expanded []string         `json:"expanded"`
}

func (d *Draft) View() View {
	s := d.Summary()
	var v View
	d.Read(func(e *course.Editor) {
		c := e.Course()
		v = View{Summary: s, Course: course.ToDocument(c), Expanded: []string{}}
		for _, item := range c.Content {
			id := item.Header().ID
			if e.Expanded(id.String()) {
				v.Expanded = append(v.Expanded, id.String())
			}
		}
	})
	return v
}

// Repository stores drafts.
type Repository interface {
	Save(d *Draft) error
	Get(id string) (*Draft, error)
	List(owner string, orderings ...core.Ordering) ([]*Draft, error)
	Delete(id string) error
}
