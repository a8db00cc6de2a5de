package draft

import (
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/course"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
	logsvc "github.com/ArbeitTechnology/tausif-lms-sub000/services/logger"
)

// oneDraft holds a single draft.
type oneDraft struct{ d *Draft }

func (r *oneDraft) Save(d *Draft) error { r.d = d; return nil }

func (r *oneDraft) Get(id string) (*Draft, error) {
	if r.d == nil || r.d.ID != id {
		return nil, ErrNotFound
	}
	return r.d, nil
}

func (r *oneDraft) List(string, ...core.Ordering) ([]*Draft, error) { return []*Draft{r.d}, nil }
func (r *oneDraft) Delete(string) error { r.d = nil; return nil }

func TestService_SaveUpload_unreadable(t *testing.T) {
	actor := session.Actor{ID: "u1", Role: session.RoleTeacher}
	dir := t.TempDir()
	svc := NewService(new(oneDraft), nil, nil, dir, logsvc.NewNopLogger())
	d, err := svc.New(actor, course.TypeFree)
	require.NoError(t, err)

	var spooled string
	newPendingFile = func(path, _ string) (course.PendingFile, error) {
		spooled = path
		return course.PendingFile{}, errors.New("detecting content type: boom")
	}
	defer func() { newPendingFile = course.NewPendingFile }()

	_, err = svc.SaveUpload(actor, d.ID, "cover.png", strings.NewReader("cover"))
	require.Error(t, err)
	require.NotEmpty(t, spooled)
	_, err = os.Stat(spooled)
	assert.True(t, os.IsNotExist(err), "the spooled file is removed")
}
