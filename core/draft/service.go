package draft

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/course"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
)

var newPendingFile = course.NewPendingFile // swapped in tests

type (
	// CourseAPI is the backend the drafts are loaded from and published to.
	CourseAPI interface {
		Fetch(ctx context.Context, sess session.Session, id string) (*course.Document, error)
		Create(ctx context.Context, sess session.Session, p *course.Payload) (*course.Document, error)
		Update(ctx context.Context, sess session.Session, id string, p *course.Payload) (*course.Document, error)
		Delete(ctx context.Context, sess session.Session, id string) error
		DeleteContent(ctx context.Context, sess session.Session, courseID, contentID string) error
	}

	// Notifier is told about published courses.
	Notifier interface {
		CoursePublished(actor session.Actor, doc *course.Document)
	}

	Service struct {
		repo      Repository
		courses   CourseAPI
		notifier  Notifier
		uploadDir string
		logger    core.Logger
	}
)

func NewService(repo Repository, courses CourseAPI, notifier Notifier, uploadDir string, logger core.Logger) *Service {
	return &Service{repo: repo, courses: courses, notifier: notifier, uploadDir: uploadDir, logger: logger}
}

// New opens a draft of a course never created.
func (s *Service) New(actor session.Actor, t course.Type) (*Draft, error) {
	if !t.Valid() {
		return nil, core.NewValidationError(
			errors.Errorf("unknown course type %q", t),
			core.FieldError{Field: "type", Error: "must be one of: free, premium"},
		)
	}
	d := NewDraft(actor.ID, course.New(t), nil)
	if err := s.repo.Save(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Import opens a draft of the saved course courseID.
func (s *Service) Import(ctx context.Context, sess session.Session, courseID string) (*Draft, error) {
	doc, err := s.courses.Fetch(ctx, sess, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "fetching course")
	}
	c, err := course.Hydrate(doc)
	if err != nil {
		return nil, core.NewValidationError(errors.Wrap(err, "invalid course document"))
	}
	d := NewDraft(sess.Actor.ID, c, course.ToDocument(c))
	if err := s.repo.Save(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get returns the draft id. Drafts of other actors are only visible to admins.
func (s *Service) Get(actor session.Actor, id string) (*Draft, error) {
	d, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	if d.Owner != actor.ID && actor.Role != session.RoleAdmin {
		return nil, ErrNotFound
	}
	return d, nil
}

// List returns the drafts of actor, or every draft for admins.
func (s *Service) List(actor session.Actor, orderings ...core.Ordering) ([]*Draft, error) {
	owner := actor.ID
	if actor.Role == session.RoleAdmin {
		owner = ""
	}
	return s.repo.List(owner, orderings...)
}

// Discard drops a draft and its uploaded files. The saved course, if any, is left untouched.
func (s *Service) Discard(actor session.Actor, id string) error {
	d, err := s.Get(actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(d.ID); err != nil {
		return err
	}
	s.cleanUploads(d.ID)
	return nil
}

// DeleteCourse deletes a saved course from the backend.
func (s *Service) DeleteCourse(ctx context.Context, sess session.Session, courseID string) error {
	return errors.Wrap(s.courses.Delete(ctx, sess, courseID), "deleting course")
}

// Edit applies fn to the draft id and reports whether the tree changed.
func (s *Service) Edit(actor session.Actor, id string, fn func(e *course.Editor) bool) (*Draft, bool, error) {
	d, err := s.Get(actor, id)
	if err != nil {
		return nil, false, err
	}
	return d, d.Edit(fn), nil
}

// RemoveContent removes a content item. Items of a saved course are deleted from the backend first.
func (s *Service) RemoveContent(ctx context.Context, sess session.Session, id, itemRef string) (*Draft, bool, error) {
	d, err := s.Get(sess.Actor, id)
	if err != nil {
		return nil, false, err
	}

	var courseID, contentID string
	d.Read(func(e *course.Editor) {
		c := e.Course()
		courseID = c.ID.Server()
		for _, item := range c.Content {
			if itemID := item.Header().ID; itemID.Matches(itemRef) {
				contentID = itemID.Server()
			}
		}
	})
	if courseID != "" && contentID != "" {
		if err := s.courses.DeleteContent(ctx, sess, courseID, contentID); err != nil {
			return nil, false, errors.Wrap(err, "deleting content item")
		}
	}

	removed := d.Edit(func(e *course.Editor) bool { return e.RemoveContentItem(itemRef) })
	return d, removed, nil
}

// Diff returns the unified diff of the draft against the course it was imported from or last published as.
func (s *Service) Diff(actor session.Actor, id string) (string, error) {
	d, err := s.Get(actor, id)
	if err != nil {
		return "", err
	}
	var before, after *course.Document
	d.Read(func(e *course.Editor) {
		before = d.original
		after = course.ToDocument(e.Course())
	})
	if before == nil {
		before = &course.Document{}
	}
	return course.Diff(before, after)
}

// SaveUpload spools an uploaded file of the draft id to disk.
func (s *Service) SaveUpload(actor session.Actor, id, filename string, r io.Reader) (course.PendingFile, error) {
	d, err := s.Get(actor, id)
	if err != nil {
		return course.PendingFile{}, err
	}
	dir := filepath.Join(s.uploadDir, d.ID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return course.PendingFile{}, errors.Wrap(err, "creating upload dir")
	}

	path := filepath.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return course.PendingFile{}, errors.Wrap(err, "creating upload file")
	}
	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return course.PendingFile{}, errors.Wrap(err, "writing upload file")
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(path)
		return course.PendingFile{}, errors.Wrap(err, "closing upload file")
	}
	pf, err := newPendingFile(path, filepath.Base(filename))
	if err != nil {
		_ = os.Remove(path)
		return course.PendingFile{}, err
	}
	return pf, nil
}

// Publish validates the draft and submits it: created when never saved, updated otherwise.
// On success the draft adopts the saved document, which becomes the new diff reference,
// and the uploaded files sent with it are removed.
// The draft lock is held during the submission.
func (s *Service) Publish(ctx context.Context, sess session.Session, id string) (*course.Document, error) {
	d, err := s.Get(sess.Actor, id)
	if err != nil {
		return nil, err
	}

	var (
		saved *course.Document
		sent  []course.FormFile
	)
	err = func() error {
		d.mu.Lock()
		defer d.mu.Unlock()

		c := d.editor.Course()
		payload, err := course.Validate(c)
		if err != nil {
			return err
		}
		if c.ID.IsPending() {
			saved, err = s.courses.Create(ctx, sess, payload)
		} else {
			saved, err = s.courses.Update(ctx, sess, c.ID.Server(), payload)
		}
		if err != nil {
			return errors.Wrap(err, "submitting course")
		}
		sent = payload.Files()
		if err = d.editor.Adopt(saved); err != nil {
			return errors.Wrap(err, "reading saved course")
		}
		d.original = course.ToDocument(d.editor.Course())
		return nil
	}()
	if err != nil {
		return nil, err
	}

	s.removeUploads(d.ID, sent)
	s.logger.Info("course published", map[string]interface{}{"draft": d.ID, "course": saved.ID}, sess.Actor)
	if s.notifier != nil {
		s.notifier.CoursePublished(sess.Actor, saved)
	}
	return saved, nil
}

// removeUploads removes the given spooled files of draft id. Files spooled by uploads still in
// flight are kept; Discard removes whatever is left.
func (s *Service) removeUploads(id string, files []course.FormFile) {
	for _, f := range files {
		if err := os.Remove(f.File.Path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("removing uploaded file", err, map[string]interface{}{"draft": id, "file": f.File.Filename})
		}
	}
}

func (s *Service) cleanUploads(id string) {
	if err := os.RemoveAll(filepath.Join(s.uploadDir, id)); err != nil {
		s.logger.Warn("removing uploaded files", err, map[string]interface{}{"draft": id})
	}
}
