package qbank

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/quiz"
)

type fakeCreator struct {
	failAt      int // 1-based creation attempt that fails, 0 never
	failDelete  string
	attempts    int
	created     []Wire
	deleted     []string
	outstanding map[string]bool
}

func (f *fakeCreator) CreateQuestion(_ context.Context, w Wire) (string, error) {
	f.attempts++
	if f.attempts == f.failAt {
		return "", errors.New("question bank unavailable")
	}
	id := fmt.Sprintf("srv-%d", f.attempts)
	f.created = append(f.created, w)
	if f.outstanding == nil {
		f.outstanding = map[string]bool{}
	}
	f.outstanding[id] = true
	return id, nil
}

func (f *fakeCreator) DeleteQuestion(_ context.Context, id string) error {
	if id == f.failDelete {
		return errors.New("delete refused")
	}
	f.deleted = append(f.deleted, id)
	delete(f.outstanding, id)
	return nil
}

func validBatch(t *testing.T, n int) *Batch {
	t.Helper()
	b := NewBatch()
	for i := 0; i < n; i++ {
		id, ok := b.AddRecord(quiz.TypeSingleChoice)
		require.True(t, ok)
		ref := id.Local()
		b.UpdateRecordField(ref, quiz.FieldQuestion, fmt.Sprintf("Question %d?", i+1))
		b.UpdateOptionText(ref, 0, "yes")
		b.UpdateOptionText(ref, 1, "no")
		b.UpdateRecordField(ref, FieldCategory, "go")
	}
	return b
}

func TestBatch_editing(t *testing.T) {
	b := NewBatch()
	id, ok := b.AddRecord(quiz.TypeMultipleChoice)
	require.True(t, ok)
	ref := id.Local()

	assert.True(t, b.AddOption(ref))
	assert.True(t, b.SetCorrectAnswer(ref, 0))
	assert.True(t, b.SetCorrectAnswer(ref, 2))
	assert.True(t, b.RemoveOption(ref, 1))
	assert.True(t, b.UpdateRecordField(ref, FieldDifficulty, "hard"))
	assert.True(t, b.UpdateRecordField(ref, FieldExplanation, "because"))
	assert.True(t, b.SetPoints(ref, 5))
	assert.False(t, b.SetPoints(ref, -1))
	assert.False(t, b.UpdateRecordField(ref, quiz.FieldAnswer, "x"))
	assert.False(t, b.AddOption("missing"))

	rec := b.Records[0]
	mc := rec.Question.(*quiz.MultipleChoice)
	assert.Equal(t, []int{0, 1}, mc.Correct)
	assert.Equal(t, DifficultyHard, rec.Difficulty)
	assert.Equal(t, "because", rec.Explanation)
	assert.Equal(t, 5, rec.Points)

	_, ok = b.AddRecord("essay")
	assert.False(t, ok)
	assert.True(t, b.RemoveRecord(ref))
	assert.False(t, b.RemoveRecord(ref))
	assert.Empty(t, b.Records)
}

func TestBatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(b *Batch)
		wantErr string
	}{
		{name: "valid", modify: func(b *Batch) {}},
		{name: "empty", modify: func(b *Batch) { b.Records = nil }, wantErr: "at least one question is required"},
		{
			name:    "question text",
			modify:  func(b *Batch) { b.Records[1].Question.Header().Question = "" },
			wantErr: "question 2: question text is required",
		},
		{
			name: "correct answer",
			modify: func(b *Batch) {
				b.Records[0].Question.(*quiz.SingleChoice).Correct = quiz.Unset
			},
			wantErr: "question 1: a correct answer must be selected",
		},
		{
			name:    "category",
			modify:  func(b *Batch) { b.Records[1].Category = " " },
			wantErr: "records[1].category: this field cannot be blank",
		},
		{
			name:    "difficulty",
			modify:  func(b *Batch) { b.Records[0].Difficulty = "extreme" },
			wantErr: "records[0].difficulty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBatch(t, 2)
			tt.modify(b)
			err := b.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, core.IsValidationError(err))
			assert.True(t, strings.HasPrefix(err.Error(), tt.wantErr), err.Error())
		})
	}
}

func TestBatch_Submit(t *testing.T) {
	t.Run("all created", func(t *testing.T) {
		b := validBatch(t, 3)
		creator := &fakeCreator{}
		report, err := b.Submit(context.Background(), creator)
		require.NoError(t, err)
		assert.True(t, report.Committed)
		assert.Equal(t, "3 question(s) created", report.Summary())
		assert.Len(t, creator.created, 3)
		assert.Equal(t, "srv-2", b.Records[1].Question.Header().ID.String())
		assert.Equal(t, "go", creator.created[0].Category)
	})

	t.Run("invalid batch submits nothing", func(t *testing.T) {
		b := validBatch(t, 2)
		b.Records[1].Question.Header().Question = ""
		creator := &fakeCreator{}
		report, err := b.Submit(context.Background(), creator)
		require.Error(t, err)
		assert.Nil(t, report)
		assert.Zero(t, creator.attempts)
	})

	t.Run("failure rolls back", func(t *testing.T) {
		b := validBatch(t, 4)
		creator := &fakeCreator{failAt: 3}
		report, err := b.Submit(context.Background(), creator)
		require.Error(t, err)
		assert.Equal(t, "question bank unavailable", errors.Cause(err).Error())
		assert.False(t, report.Committed)
		assert.Empty(t, creator.outstanding)
		assert.Equal(t, []string{"srv-2", "srv-1"}, creator.deleted)

		var statuses []Status
		for _, res := range report.Results {
			statuses = append(statuses, res.Status)
		}
		assert.Equal(t, []Status{StatusRolledBack, StatusRolledBack, StatusFailed, StatusSkipped}, statuses)
		assert.Equal(t, "batch rejected: 1 failed, 2 rolled back, 0 rollback failed, 1 skipped", report.Summary())
		assert.True(t, b.Records[0].Question.Header().ID.IsPending(), "ids are not promoted")
	})

	t.Run("rollback failure is reported", func(t *testing.T) {
		b := validBatch(t, 3)
		creator := &fakeCreator{failAt: 3, failDelete: "srv-1"}
		report, err := b.Submit(context.Background(), creator)
		require.Error(t, err)
		assert.Equal(t, StatusRollbackFailed, report.Results[0].Status)
		assert.Equal(t, "delete refused", report.Results[0].Error)
		assert.Equal(t, StatusRolledBack, report.Results[1].Status)
		assert.Equal(t, map[string]bool{"srv-1": true}, creator.outstanding)
	})

	t.Run("cancelled context", func(t *testing.T) {
		b := validBatch(t, 2)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		creator := &fakeCreator{}
		report, err := b.Submit(ctx, creator)
		require.Error(t, err)
		assert.Equal(t, context.Canceled, errors.Cause(err))
		assert.Equal(t, StatusFailed, report.Results[0].Status)
		assert.Zero(t, creator.attempts)
	})
}

func TestDecodeBatch(t *testing.T) {
	b, err := DecodeBatch(strings.NewReader(`[
		{"type": "mcq-single", "question": "Typed?", "options": ["yes", "no"], "correctAnswer": 0,
		 "category": "go", "difficulty": "easy", "explanation": "static types", "points": 2},
		{"type": "broad-answer", "question": "Explain interfaces", "answer": "",
		 "category": "go", "difficulty": "hard", "points": 5}
	]`))
	require.NoError(t, err)
	require.Len(t, b.Records, 2)
	assert.NoError(t, b.Validate())
	assert.Equal(t, 2, b.Records[0].Points)
	assert.Equal(t, DifficultyHard, b.Records[1].Difficulty)
	assert.IsType(t, &quiz.BroadAnswer{}, b.Records[1].Question)

	_, err = DecodeBatch(strings.NewReader(`[{"type": "true-false"}]`))
	assert.EqualError(t, err, `record 1: unknown question type "true-false"`)
}
