package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
)

// AnswerKey is the JSON form of `correctAnswer`: an index, a list of indexes or null.
type AnswerKey struct {
	Multi   bool
	Index   *int
	Indexes []int
}

func SingleKey(i int) AnswerKey {
	if i == Unset {
		return AnswerKey{}
	}
	return AnswerKey{Index: &i}
}

func MultiKey(idxs []int) AnswerKey {
	return AnswerKey{Multi: true, Indexes: append([]int{}, idxs...)}
}

func (k AnswerKey) MarshalJSON() ([]byte, error) {
	if k.Multi {
		if k.Indexes == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(k.Indexes)
	}
	if k.Index == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*k.Index)
}

func (k *AnswerKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*k = AnswerKey{}
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '[':
		k.Multi = true
		return json.Unmarshal(data, &k.Indexes)
	default:
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return errors.Wrap(err, "decoding correctAnswer")
		}
		k.Index = &i
		return nil
	}
}

// Wire is the JSON representation of a question exchanged with the backend.
type Wire struct {
	ID            string     `json:"_id,omitempty"`
	TempID        string     `json:"id,omitempty"`
	Type          Type       `json:"type"`
	Question      string     `json:"question"`
	Options       []string   `json:"options,omitempty"`
	CorrectAnswer *AnswerKey `json:"correctAnswer,omitempty"`
	Answer        *string    `json:"answer,omitempty"`
}

// ToWire converts q to its wire representation.
func ToWire(q Question) Wire {
	w := Wire{Type: q.Type(), Question: q.Header().Question}
	w.ID, w.TempID = q.Header().ID.Wire()
	switch q := q.(type) {
	case *SingleChoice:
		key := SingleKey(q.Correct)
		w.Options = append([]string{}, q.Options...)
		w.CorrectAnswer = &key
	case *MultipleChoice:
		key := MultiKey(q.Correct)
		w.Options = append([]string{}, q.Options...)
		w.CorrectAnswer = &key
	case *ShortAnswer:
		answer := q.Answer
		w.Answer = &answer
	case *BroadAnswer:
		answer := q.Answer
		w.Answer = &answer
	default:
		panic(fmt.Sprintf("quiz: unknown question %T", q))
	}
	return w
}

// FromWire converts a wire question back to a Question.
// Out of range answers are dropped; a question without id gets a new pending ID.
func FromWire(w Wire) (Question, error) {
	base := Base{ID: core.FromWire(w.ID, w.TempID), Question: w.Question}

	switch w.Type {
	case TypeSingleChoice:
		q := &SingleChoice{Base: base, Options: append([]string{}, w.Options...), Correct: Unset}
		if k := w.CorrectAnswer; k != nil {
			switch {
			case k.Index != nil:
				q.Correct = *k.Index
			case k.Multi && len(k.Indexes) > 0:
				q.Correct = k.Indexes[0]
			}
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			q.Correct = Unset
		}
		return q, nil
	case TypeMultipleChoice:
		q := &MultipleChoice{Base: base, Options: append([]string{}, w.Options...), Correct: []int{}}
		if k := w.CorrectAnswer; k != nil {
			switch {
			case k.Multi:
				q.Correct = normalizeSet(k.Indexes, len(q.Options))
			case k.Index != nil:
				q.Correct = normalizeSet([]int{*k.Index}, len(q.Options))
			}
		}
		return q, nil
	case TypeShortAnswer:
		q := &ShortAnswer{Base: base}
		if w.Answer != nil {
			q.Answer = *w.Answer
		}
		return q, nil
	case TypeBroadAnswer:
		q := &BroadAnswer{Base: base}
		if w.Answer != nil {
			q.Answer = *w.Answer
		}
		return q, nil
	default:
		return nil, errors.Errorf("unknown question type %q", w.Type)
	}
}
