package quiz

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNoQuestionText = errors.New("question text is required")
	ErrTooFewOptions  = errors.Errorf("at least %d options are required", MinOptions)
	ErrNoCorrect      = errors.New("a correct answer must be selected")
)

// Check applies the submission rules of a single question, in order:
// question text, then for multiple-choice questions the option count and the correct answer.
func Check(q Question) error {
	if strings.TrimSpace(q.Header().Question) == "" {
		return ErrNoQuestionText
	}
	switch q := q.(type) {
	case *SingleChoice:
		if len(q.Options) < MinOptions {
			return ErrTooFewOptions
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return ErrNoCorrect
		}
	case *MultipleChoice:
		if len(q.Options) < MinOptions {
			return ErrTooFewOptions
		}
		if len(q.Correct) == 0 {
			return ErrNoCorrect
		}
	case *ShortAnswer, *BroadAnswer:
	default:
		panic(fmt.Sprintf("quiz: unknown question %T", q))
	}
	return nil
}
