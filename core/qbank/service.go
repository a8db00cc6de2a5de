package qbank

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/quiz"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
)

type (
	// Bank is the question bank backend.
	Bank interface {
		For(sess session.Session) Creator
		List(ctx context.Context, sess session.Session, filter Filter) ([]Wire, error)
		Update(ctx context.Context, sess session.Session, id string, w Wire) error
	}

	// Filter restricts the listed bank questions. Empty fields are ignored.
	Filter struct {
		Category   string
		Difficulty Difficulty
		Type       quiz.Type
	}

	// Notifier is told about submitted batches, committed or not.
	Notifier interface {
		QuestionsImported(actor session.Actor, report *Report)
	}

	Service struct {
		repo     Repository
		bank     Bank
		notifier Notifier
		logger   core.Logger
	}
)

func NewService(repo Repository, bank Bank, notifier Notifier, logger core.Logger) *Service {
	return &Service{repo: repo, bank: bank, notifier: notifier, logger: logger}
}

// New opens an empty batch draft.
func (s *Service) New(actor session.Actor) (*Draft, error) {
	return s.Open(actor, NewBatch())
}

// Open holds b as a draft of actor, to be edited before it is submitted.
func (s *Service) Open(actor session.Actor, b *Batch) (*Draft, error) {
	d := NewDraft(actor.ID, b)
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
func (s *Service) List(actor session.Actor) ([]*Draft, error) {
	owner := actor.ID
	if actor.Role == session.RoleAdmin {
		owner = ""
	}
	return s.repo.List(owner)
}

func (s *Service) Discard(actor session.Actor, id string) error {
	d, err := s.Get(actor, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(d.ID)
}

// Edit applies fn to the batch of draft id and reports whether it changed.
func (s *Service) Edit(actor session.Actor, id string, fn func(b *Batch) bool) (*Draft, bool, error) {
	d, err := s.Get(actor, id)
	if err != nil {
		return nil, false, err
	}
	return d, d.Edit(fn), nil
}

// Submit submits the batch of draft id. A committed draft is dropped; a rejected one is kept,
// rolled back, for the author to fix. The report is nil when the batch is invalid.
func (s *Service) Submit(ctx context.Context, sess session.Session, id string) (*Report, error) {
	d, err := s.Get(sess.Actor, id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	report, err := d.batch.Submit(ctx, s.bank.For(sess))
	d.mu.Unlock()

	if report != nil && report.Committed {
		if dErr := s.repo.Delete(d.ID); dErr != nil && dErr != ErrNotFound {
			s.logger.Warn("dropping committed batch", dErr, map[string]interface{}{"batch": d.ID})
		}
	}
	s.reported(sess.Actor, report)
	return report, err
}

// SubmitBatch submits b without holding it as a draft.
func (s *Service) SubmitBatch(ctx context.Context, sess session.Session, b *Batch) (*Report, error) {
	report, err := b.Submit(ctx, s.bank.For(sess))
	s.reported(sess.Actor, report)
	return report, err
}

func (s *Service) reported(actor session.Actor, report *Report) {
	if report == nil {
		return
	}
	s.logger.Info("question batch submitted", map[string]interface{}{"summary": report.Summary()}, actor)
	if s.notifier != nil {
		s.notifier.QuestionsImported(actor, report)
	}
}

// Questions lists the questions of the bank.
func (s *Service) Questions(ctx context.Context, sess session.Session, filter Filter) ([]Wire, error) {
	questions, err := s.bank.List(ctx, sess, filter)
	return questions, errors.Wrap(err, "listing questions")
}

// UpdateQuestion replaces the bank question id once w passes the record checks.
func (s *Service) UpdateQuestion(ctx context.Context, sess session.Session, id string, w Wire) (*Record, error) {
	rec, err := RecordFromWire(w)
	if err != nil {
		return nil, core.NewValidationError(err)
	}
	b := NewBatch()
	b.Records = append(b.Records, rec)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := s.bank.Update(ctx, sess, id, rec.ToWire()); err != nil {
		return nil, errors.Wrap(err, "updating question")
	}
	h := rec.Question.Header()
	h.ID = core.PersistedID(id)
	return rec, nil
}
