// Package quiz holds the question model shared by course quizzes and the question bank.
package quiz

import (
	"fmt"
	"sort"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
)

// Type discriminates the question variants.
type Type string

const (
	TypeSingleChoice   Type = "mcq-single"
	TypeMultipleChoice Type = "mcq-multiple"
	TypeShortAnswer    Type = "short-answer"
	TypeBroadAnswer    Type = "broad-answer"
)

var Types = []Type{TypeSingleChoice, TypeMultipleChoice, TypeShortAnswer, TypeBroadAnswer}

// IsMCQ reports whether questions of this type carry options.
func (t Type) IsMCQ() bool {
	return t == TypeSingleChoice || t == TypeMultipleChoice
}

func (t Type) Valid() bool {
	for _, typ := range Types {
		if t == typ {
			return true
		}
	}
	return false
}

const (
	// MinOptions is the minimum number of options of a multiple-choice question.
	MinOptions = 2

	// Unset is the correct answer of a single-choice question with no selected option.
	Unset = -1
)

// Question is one of *SingleChoice, *MultipleChoice, *ShortAnswer or *BroadAnswer.
type Question interface {
	Type() Type
	Header() *Base
	isQuestion()
}

// Base holds the fields shared by every question.
type Base struct {
	ID       core.ID
	Question string
}

func (b *Base) Header() *Base { return b }
func (*Base) isQuestion()     {}

type SingleChoice struct {
	Base
	Options []string
	Correct int // index into Options, or Unset
}

type MultipleChoice struct {
	Base
	Options []string
	Correct []int // sorted set of indexes into Options
}

type ShortAnswer struct {
	Base
	Answer string
}

type BroadAnswer struct {
	Base
	Answer string
}

func (*SingleChoice) Type() Type   { return TypeSingleChoice }
func (*MultipleChoice) Type() Type { return TypeMultipleChoice }
func (*ShortAnswer) Type() Type    { return TypeShortAnswer }
func (*BroadAnswer) Type() Type    { return TypeBroadAnswer }

// New returns an empty question of the given type with a pending ID.
// Multiple-choice questions start with two empty options.
func New(t Type) (Question, bool) {
	base := Base{ID: core.NewPendingID()}
	switch t {
	case TypeSingleChoice:
		return &SingleChoice{Base: base, Options: []string{"", ""}, Correct: 0}, true
	case TypeMultipleChoice:
		return &MultipleChoice{Base: base, Options: []string{"", ""}, Correct: []int{}}, true
	case TypeShortAnswer:
		return &ShortAnswer{Base: base}, true
	case TypeBroadAnswer:
		return &BroadAnswer{Base: base}, true
	default:
		return nil, false
	}
}

// Options returns the options of a multiple-choice question, nil otherwise.
func Options(q Question) []string {
	switch q := q.(type) {
	case *SingleChoice:
		return q.Options
	case *MultipleChoice:
		return q.Options
	case *ShortAnswer, *BroadAnswer:
		return nil
	default:
		panic(fmt.Sprintf("quiz: unknown question %T", q))
	}
}

// Clone deep copies q.
func Clone(q Question) Question {
	switch q := q.(type) {
	case *SingleChoice:
		c := *q
		c.Options = append([]string(nil), q.Options...)
		return &c
	case *MultipleChoice:
		c := *q
		c.Options = append([]string(nil), q.Options...)
		c.Correct = append([]int{}, q.Correct...)
		return &c
	case *ShortAnswer:
		c := *q
		return &c
	case *BroadAnswer:
		c := *q
		return &c
	default:
		panic(fmt.Sprintf("quiz: unknown question %T", q))
	}
}

// Find returns the index of the question identified by ref, or -1.
func Find(questions []Question, ref string) int {
	for i, q := range questions {
		if q.Header().ID.Matches(ref) {
			return i
		}
	}
	return -1
}

// Remove deletes the question identified by ref, keeping the order of the others.
func Remove(questions []Question, ref string) ([]Question, bool) {
	i := Find(questions, ref)
	if i < 0 {
		return questions, false
	}
	return append(questions[:i:i], questions[i+1:]...), true
}

func normalizeSet(idxs []int, n int) []int {
	seen := make(map[int]bool, len(idxs))
	set := make([]int, 0, len(idxs))
	for _, i := range idxs {
		if i < 0 || i >= n || seen[i] {
			continue
		}
		seen[i] = true
		set = append(set, i)
	}
	sort.Ints(set)
	return set
}
