package course

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/quiz"
)

// Validate checks the submission rules in order and stops at the first violation:
//  1. title, description and thumbnail
//  2. at least one content item
//  3. price of premium courses
//  4. every content item in order, and the questions of quizzes
//
// The returned error is a *core.ValidationError naming the offending entity.
// On success, the wire payload of the course is returned.
func Validate(c *Course) (*Payload, error) {
	switch {
	case blank(c.Title):
		return nil, invalid("title", "course title is required")
	case blank(c.Description):
		return nil, invalid("description", "course description is required")
	case c.Thumbnail.IsZero():
		return nil, invalid("thumbnail", "course thumbnail is required")
	case len(c.Content) == 0:
		return nil, invalid("content", "at least one content item is required")
	case c.Type == TypePremium && c.Price <= 0:
		return nil, invalid("price", "price is required for premium courses")
	}

	for i, item := range c.Content {
		if err := validateContent(i, item, c.Type); err != nil {
			return nil, err
		}
	}
	return BuildPayload(c), nil
}

func validateContent(i int, item ContentItem, t Type) error {
	name := fmt.Sprintf("content item %d (%s)", i+1, item.Kind())
	field := fmt.Sprintf("content[%d].", i)
	if blank(item.Header().Title) {
		return invalid(field+"title", "%s: title is required", name)
	}

	switch item := item.(type) {
	case *Tutorial:
		if t == TypePremium {
			if item.Video.IsZero() {
				return invalid(field+"content", "%s: video is required", name)
			}
		} else if item.YoutubeLink == nil || blank(*item.YoutubeLink) {
			return invalid(field+"youtubeLink", "%s: youtube link is required", name)
		}
	case *Live:
		if blank(item.MeetingLink) {
			return invalid(field+"meetingLink", "%s: meeting link is required", name)
		}
		if item.Schedule.IsZero() {
			return invalid(field+"schedule", "%s: schedule is required", name)
		}
	case *Quiz:
		if len(item.Questions) == 0 {
			return invalid(field+"questions", "quiz %q: at least one question is required", item.Title)
		}
		for j, q := range item.Questions {
			if err := quiz.Check(q); err != nil {
				return invalid(fmt.Sprintf("%squestions[%d]", field, j), "quiz %q, question %d: %v", item.Title, j+1, err)
			}
		}
	default:
		panic(fmt.Sprintf("course: unknown content item %T", item))
	}
	return nil
}

func invalid(field, format string, args ...interface{}) error {
	err := errors.Errorf(format, args...)
	return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
