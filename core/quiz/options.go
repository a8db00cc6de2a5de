package quiz

import "fmt"

// Field names a free-text field of a question.
type Field string

const (
	FieldQuestion Field = "question"
	FieldAnswer   Field = "answer" // expected answer of short/broad answer questions
)

// SetField replaces one text field. It is a no-op when the question has no such field.
func SetField(q Question, f Field, value string) bool {
	switch f {
	case FieldQuestion:
		q.Header().Question = value
		return true
	case FieldAnswer:
		switch q := q.(type) {
		case *ShortAnswer:
			q.Answer = value
			return true
		case *BroadAnswer:
			q.Answer = value
			return true
		case *SingleChoice, *MultipleChoice:
			return false
		default:
			panic(fmt.Sprintf("quiz: unknown question %T", q))
		}
	}
	return false
}

// AddOption appends an empty option to a multiple-choice question.
func AddOption(q Question) bool {
	switch q := q.(type) {
	case *SingleChoice:
		q.Options = append(q.Options, "")
		return true
	case *MultipleChoice:
		q.Options = append(q.Options, "")
		return true
	case *ShortAnswer, *BroadAnswer:
		return false
	default:
		panic(fmt.Sprintf("quiz: unknown question %T", q))
	}
}

// RemoveOption removes option k and renormalizes the correct answer:
//   - single choice: removing the selected option unsets it; a selection after k shifts down.
//   - multiple choice: k leaves the set; every selection after k shifts down.
//
// Questions keep at least MinOptions options: removal is rejected when there are MinOptions or fewer.
func RemoveOption(q Question, k int) bool {
	switch q := q.(type) {
	case *SingleChoice:
		if len(q.Options) <= MinOptions || k < 0 || k >= len(q.Options) {
			return false
		}
		q.Options = removeString(q.Options, k)
		switch {
		case q.Correct == k:
			q.Correct = Unset
		case q.Correct > k:
			q.Correct--
		}
		return true
	case *MultipleChoice:
		if len(q.Options) <= MinOptions || k < 0 || k >= len(q.Options) {
			return false
		}
		q.Options = removeString(q.Options, k)
		correct := make([]int, 0, len(q.Correct))
		for _, i := range q.Correct {
			switch {
			case i == k:
				continue
			case i > k:
				correct = append(correct, i-1)
			default:
				correct = append(correct, i)
			}
		}
		q.Correct = correct
		return true
	case *ShortAnswer, *BroadAnswer:
		return false
	default:
		panic(fmt.Sprintf("quiz: unknown question %T", q))
	}
}

// SetCorrect selects option k: single choice replaces the answer, multiple choice toggles k.
func SetCorrect(q Question, k int) bool {
	switch q := q.(type) {
	case *SingleChoice:
		if k < 0 || k >= len(q.Options) {
			return false
		}
		q.Correct = k
		return true
	case *MultipleChoice:
		if k < 0 || k >= len(q.Options) {
			return false
		}
		for i, sel := range q.Correct {
			if sel == k {
				q.Correct = append(q.Correct[:i:i], q.Correct[i+1:]...)
				return true
			}
		}
		q.Correct = normalizeSet(append(q.Correct, k), len(q.Options))
		return true
	case *ShortAnswer, *BroadAnswer:
		return false
	default:
		panic(fmt.Sprintf("quiz: unknown question %T", q))
	}
}

// UpdateOption replaces the text of option k.
func UpdateOption(q Question, k int, text string) bool {
	var opts []string
	switch q := q.(type) {
	case *SingleChoice:
		opts = q.Options
	case *MultipleChoice:
		opts = q.Options
	case *ShortAnswer, *BroadAnswer:
		return false
	default:
		panic(fmt.Sprintf("quiz: unknown question %T", q))
	}
	if k < 0 || k >= len(opts) {
		return false
	}
	opts[k] = text
	return true
}

func removeString(s []string, k int) []string {
	return append(s[:k:k], s[k+1:]...)
}
