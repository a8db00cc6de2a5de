package course

import (
	"fmt"
	"time"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/quiz"
)

// Field names a text field of a content item.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldYoutubeLink Field = "youtubeLink"
	FieldMeetingLink Field = "meetingLink"
)

// FileSlot names a file field of a content item.
type FileSlot string

const (
	SlotVideo     FileSlot = "video"     // tutorial of a premium course
	SlotThumbnail FileSlot = "thumbnail" // live class
)

// Editor owns a course tree and applies the editing operations to it.
// Items and questions are looked up by temporary or server id; operations referencing an
// unknown entity, or a field that does not apply to it, leave the tree unchanged and return false.
// An Editor is not safe for concurrent use.
type Editor struct {
	course   *Course
	expanded []core.ID
}

func NewEditor(c *Course) *Editor {
	return &Editor{course: c}
}

// Course returns the edited tree. Callers must not modify it directly.
func (e *Editor) Course() *Course {
	return e.course
}

// Course level fields

func (e *Editor) SetTitle(title string) {
	e.course.Title = title
}

func (e *Editor) SetDescription(description string) {
	e.course.Description = description
}

// SetType changes the course type. Only courses never created can change type.
func (e *Editor) SetType(t Type) bool {
	if !t.Valid() || !e.course.ID.IsZero() {
		return false
	}
	e.course.Type = t
	for _, item := range e.course.Content {
		switch item := item.(type) {
		case *Tutorial:
			normalizeTutorial(item, t)
		case *Live:
			normalizeLive(item, t)
		}
	}
	return true
}

func (e *Editor) SetPrice(price float64) bool {
	if price < 0 {
		return false
	}
	e.course.Price = price
	return true
}

func (e *Editor) SetLevel(level Level) bool {
	if !level.Valid() {
		return false
	}
	e.course.Level = level
	return true
}

func (e *Editor) SetCategory(category string) {
	e.course.Category = category
}

// SetThumbnail replaces the course thumbnail.
func (e *Editor) SetThumbnail(f FileRef) {
	e.course.Thumbnail = f
}

func (e *Editor) AddAttachment(f FileRef) {
	if f.IsZero() {
		return
	}
	e.course.Attachments = append(e.course.Attachments, f)
}

func (e *Editor) RemoveAttachment(i int) bool {
	if i < 0 || i >= len(e.course.Attachments) {
		return false
	}
	e.course.Attachments = append(e.course.Attachments[:i:i], e.course.Attachments[i+1:]...)
	return true
}

// AddCategory adds a category unless it is blank or already present.
func (e *Editor) AddCategory(category string) bool {
	return addCategory(&e.course.Categories, category)
}

func addCategory(list *[]string, category string) bool {
	category = core.CleanString(category)
	if category == "" {
		return false
	}
	for _, c := range *list {
		if c == category {
			return false
		}
	}
	*list = append(*list, category)
	return true
}

func (e *Editor) RemoveCategory(category string) bool {
	for i, c := range e.course.Categories {
		if c == category {
			e.course.Categories = removeString(e.course.Categories, i)
			return true
		}
	}
	return false
}

func (e *Editor) AddRequirement(s string) bool {
	return appendText(&e.course.Requirements, s)
}

func (e *Editor) RemoveRequirement(i int) bool {
	return removeText(&e.course.Requirements, i)
}

func (e *Editor) AddLearningOutcome(s string) bool {
	return appendText(&e.course.WhatYouWillLearn, s)
}

func (e *Editor) RemoveLearningOutcome(i int) bool {
	return removeText(&e.course.WhatYouWillLearn, i)
}

// Content items

// AddContentItem appends an empty item of the given kind and expands it.
func (e *Editor) AddContentItem(kind Kind) (core.ID, bool) {
	item, ok := newContentItem(kind, e.course.Type)
	if !ok {
		return core.ID{}, false
	}
	e.course.Content = append(e.course.Content, item)
	id := item.Header().ID
	e.expanded = append(e.expanded, id)
	return id, true
}

func (e *Editor) RemoveContentItem(ref string) bool {
	i := findContent(e.course.Content, ref)
	if i < 0 {
		return false
	}
	e.collapse(e.course.Content[i].Header().ID)
	e.course.Content = append(e.course.Content[:i:i], e.course.Content[i+1:]...)
	return true
}

// UpdateContentField replaces one text field of an item.
// youtubeLink only applies to tutorials of free courses and meetingLink to live classes.
func (e *Editor) UpdateContentField(ref string, f Field, value string) bool {
	item := e.content(ref)
	if item == nil {
		return false
	}
	switch f {
	case FieldTitle:
		item.Header().Title = value
		return true
	case FieldDescription:
		item.Header().Description = value
		return true
	}

	switch item := item.(type) {
	case *Tutorial:
		if f != FieldYoutubeLink || item.YoutubeLink == nil {
			return false
		}
		item.YoutubeLink = &value
		return true
	case *Live:
		if f != FieldMeetingLink {
			return false
		}
		item.MeetingLink = value
		return true
	case *Quiz:
		return false
	default:
		panic(fmt.Sprintf("course: unknown content item %T", item))
	}
}

// SetContentSchedule sets the schedule of a live class.
func (e *Editor) SetContentSchedule(ref string, schedule time.Time) bool {
	live, ok := e.content(ref).(*Live)
	if !ok {
		return false
	}
	live.Schedule = schedule
	return true
}

// SetContentFile replaces the file in slot of an item: the video of a premium tutorial
// or the thumbnail of a live class. Content files are only uploaded with premium courses,
// so a free course refuses a pending thumbnail.
func (e *Editor) SetContentFile(ref string, slot FileSlot, f FileRef) bool {
	switch item := e.content(ref).(type) {
	case *Tutorial:
		if slot != SlotVideo || e.course.Type != TypePremium {
			return false
		}
		item.Video = f
		return true
	case *Live:
		if slot != SlotThumbnail {
			return false
		}
		if _, pending := f.PendingFile(); pending && e.course.Type != TypePremium {
			return false
		}
		item.Thumbnail = f
		return true
	default:
		return false
	}
}

// Expanded reports whether the editor of an item is open.
func (e *Editor) Expanded(ref string) bool {
	for _, id := range e.expanded {
		if id.Matches(ref) {
			return true
		}
	}
	return false
}

func (e *Editor) ToggleExpanded(ref string) bool {
	item := e.content(ref)
	if item == nil {
		return false
	}
	id := item.Header().ID
	if !e.collapse(id) {
		e.expanded = append(e.expanded, id)
	}
	return true
}

func (e *Editor) collapse(id core.ID) bool {
	for i, exp := range e.expanded {
		if exp.Equal(id) {
			e.expanded = append(e.expanded[:i:i], e.expanded[i+1:]...)
			return true
		}
	}
	return false
}

// Questions

// AddQuestion appends an empty question to a quiz.
func (e *Editor) AddQuestion(itemRef string, t quiz.Type) (core.ID, bool) {
	qz, ok := e.content(itemRef).(*Quiz)
	if !ok {
		return core.ID{}, false
	}
	q, ok := quiz.New(t)
	if !ok {
		return core.ID{}, false
	}
	qz.Questions = append(qz.Questions, q)
	return q.Header().ID, true
}

func (e *Editor) RemoveQuestion(itemRef, questionRef string) bool {
	qz, ok := e.content(itemRef).(*Quiz)
	if !ok {
		return false
	}
	var removed bool
	qz.Questions, removed = quiz.Remove(qz.Questions, questionRef)
	return removed
}

func (e *Editor) UpdateQuestionField(itemRef, questionRef string, f quiz.Field, value string) bool {
	q := e.question(itemRef, questionRef)
	return q != nil && quiz.SetField(q, f, value)
}

func (e *Editor) AddOption(itemRef, questionRef string) bool {
	q := e.question(itemRef, questionRef)
	return q != nil && quiz.AddOption(q)
}

// RemoveOption removes option k and renormalizes the correct answer.
// It is rejected when the question has quiz.MinOptions options or fewer.
func (e *Editor) RemoveOption(itemRef, questionRef string, k int) bool {
	q := e.question(itemRef, questionRef)
	return q != nil && quiz.RemoveOption(q, k)
}

// SetCorrectAnswer selects option k: replacing the answer of single choice questions,
// toggling it for multiple choice questions.
func (e *Editor) SetCorrectAnswer(itemRef, questionRef string, k int) bool {
	q := e.question(itemRef, questionRef)
	return q != nil && quiz.SetCorrect(q, k)
}

func (e *Editor) UpdateOptionText(itemRef, questionRef string, k int, text string) bool {
	q := e.question(itemRef, questionRef)
	return q != nil && quiz.UpdateOption(q, k, text)
}

func (e *Editor) content(ref string) ContentItem {
	i := findContent(e.course.Content, ref)
	if i < 0 {
		return nil
	}
	return e.course.Content[i]
}

func (e *Editor) question(itemRef, questionRef string) quiz.Question {
	qz, ok := e.content(itemRef).(*Quiz)
	if !ok {
		return nil
	}
	i := quiz.Find(qz.Questions, questionRef)
	if i < 0 {
		return nil
	}
	return qz.Questions[i]
}

func appendText(list *[]string, s string) bool {
	s = core.CleanString(s)
	if s == "" {
		return false
	}
	*list = append(*list, s)
	return true
}

func removeText(list *[]string, i int) bool {
	if i < 0 || i >= len(*list) {
		return false
	}
	*list = removeString(*list, i)
	return true
}

func removeString(s []string, i int) []string {
	return append(s[:i:i], s[i+1:]...)
}
