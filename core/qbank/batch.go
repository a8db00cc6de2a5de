// Package qbank edits and submits batches of standalone question bank records.
package qbank

import (
	"encoding/json"
	"fmt"
	"io"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/quiz"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Meta holds the question bank fields of a record.
type Meta struct {
	Category    string     `json:"category" validate:"required,notblank"`
	Difficulty  Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Explanation string     `json:"explanation"`
	Points      int        `json:"points" validate:"gte=0"`
}

// Record is one question of the bank.
type Record struct {
	Question quiz.Question
	Meta
}

// Wire is the JSON representation of a record.
type Wire struct {
	quiz.Wire
	Meta
}

func (r *Record) ToWire() Wire {
	return Wire{Wire: quiz.ToWire(r.Question), Meta: r.Meta}
}

func RecordFromWire(w Wire) (*Record, error) {
	q, err := quiz.FromWire(w.Wire)
	if err != nil {
		return nil, err
	}
	return &Record{Question: q, Meta: w.Meta}, nil
}

// Batch is an ordered list of records edited together and submitted at once.
// Records are looked up by temporary or server id; unknown references are no-ops returning false.
type Batch struct {
	Records []*Record

	validate   *validator.Validate
	translator ut.Translator
}

func NewBatch() *Batch {
	validate, translator := core.NewValidator()
	return &Batch{Records: []*Record{}, validate: validate, translator: translator}
}

// DecodeBatch reads a JSON array of records.
func DecodeBatch(r io.Reader) (*Batch, error) {
	var ws []Wire
	if err := json.NewDecoder(r).Decode(&ws); err != nil {
		return nil, errors.Wrap(err, "decoding question batch")
	}
	b := NewBatch()
	for i, w := range ws {
		rec, err := RecordFromWire(w)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i+1)
		}
		b.Records = append(b.Records, rec)
	}
	return b, nil
}

// AddRecord appends an empty record of the given question type.
func (b *Batch) AddRecord(t quiz.Type) (core.ID, bool) {
	q, ok := quiz.New(t)
	if !ok {
		return core.ID{}, false
	}
	b.Records = append(b.Records, &Record{Question: q, Meta: Meta{Difficulty: DifficultyMedium, Points: 1}})
	return q.Header().ID, true
}

func (b *Batch) RemoveRecord(ref string) bool {
	i := b.find(ref)
	if i < 0 {
		return false
	}
	b.Records = append(b.Records[:i:i], b.Records[i+1:]...)
	return true
}

// Field names of the metadata of a record. Question fields use quiz.Field.
const (
	FieldCategory    quiz.Field = "category"
	FieldDifficulty  quiz.Field = "difficulty"
	FieldExplanation quiz.Field = "explanation"
)

// UpdateRecordField replaces one text field of a record.
func (b *Batch) UpdateRecordField(ref string, f quiz.Field, value string) bool {
	rec := b.record(ref)
	if rec == nil {
		return false
	}
	switch f {
	case FieldCategory:
		rec.Category = value
	case FieldDifficulty:
		rec.Difficulty = Difficulty(value)
	case FieldExplanation:
		rec.Explanation = value
	default:
		return quiz.SetField(rec.Question, f, value)
	}
	return true
}

func (b *Batch) SetPoints(ref string, points int) bool {
	rec := b.record(ref)
	if rec == nil || points < 0 {
		return false
	}
	rec.Points = points
	return true
}

func (b *Batch) AddOption(ref string) bool {
	rec := b.record(ref)
	return rec != nil && quiz.AddOption(rec.Question)
}

func (b *Batch) RemoveOption(ref string, k int) bool {
	rec := b.record(ref)
	return rec != nil && quiz.RemoveOption(rec.Question, k)
}

func (b *Batch) SetCorrectAnswer(ref string, k int) bool {
	rec := b.record(ref)
	return rec != nil && quiz.SetCorrect(rec.Question, k)
}

func (b *Batch) UpdateOptionText(ref string, k int, text string) bool {
	rec := b.record(ref)
	return rec != nil && quiz.UpdateOption(rec.Question, k, text)
}

// Validate checks every record in order, stopping at the first invalid one.
func (b *Batch) Validate() error {
	if len(b.Records) == 0 {
		return core.NewValidationErrorf("at least one question is required")
	}
	for i, rec := range b.Records {
		if err := quiz.Check(rec.Question); err != nil {
			return core.NewValidationError(
				errors.Errorf("question %d: %v", i+1, err),
				core.FieldError{Field: fmt.Sprintf("records[%d].question", i), Error: err.Error()},
			)
		}
		if err := b.validate.Struct(rec.Meta); err != nil {
			return core.TranslateValidationErrors(err, b.translator, fmt.Sprintf("records[%d].", i))
		}
	}
	return nil
}

func (b *Batch) find(ref string) int {
	for i, rec := range b.Records {
		if rec.Question.Header().ID.Matches(ref) {
			return i
		}
	}
	return -1
}

func (b *Batch) record(ref string) *Record {
	i := b.find(ref)
	if i < 0 {
		return nil
	}
	return b.Records[i]
}
