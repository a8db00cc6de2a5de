// Package course holds the course editing tree: the course, its content items and their quiz questions.
package course

import (
	"fmt"
	"time"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/quiz"
)

// Type is the commercial type of a course.
type Type string

const (
	TypeFree    Type = "free"
	TypePremium Type = "premium"
)

func (t Type) Valid() bool { return t == TypeFree || t == TypePremium }

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

func (l Level) Valid() bool {
	return l == LevelBeginner || l == LevelIntermediate || l == LevelAdvanced
}

// StatusDraft is the status sent with every submission.
const StatusDraft = "draft"

// Kind discriminates the content item variants.
type Kind string

const (
	KindTutorial Kind = "tutorial"
	KindLive     Kind = "live"
	KindQuiz     Kind = "quiz"
)

var Kinds = []Kind{KindTutorial, KindLive, KindQuiz}

func (k Kind) Valid() bool {
	for _, kind := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ContentItem is one of *Tutorial, *Live or *Quiz.
type ContentItem interface {
	Kind() Kind
	Header() *ContentBase
	isContentItem()
}

// ContentBase holds the fields shared by every content item.
type ContentBase struct {
	ID          core.ID
	Title       string
	Description string
}

func (b *ContentBase) Header() *ContentBase { return b }
func (*ContentBase) isContentItem()         {}

// Tutorial is a lesson backed by a youtube link (free courses) or an uploaded video (premium courses).
// The field that does not apply to the owning course type is always empty:
// YoutubeLink is nil for premium courses and Video is zero for free courses.
type Tutorial struct {
	ContentBase
	YoutubeLink *string
	Video       FileRef
}

type Live struct {
	ContentBase
	Thumbnail   FileRef
	MeetingLink string
	Schedule    time.Time
}

type Quiz struct {
	ContentBase
	Questions []quiz.Question
}

func (*Tutorial) Kind() Kind { return KindTutorial }
func (*Live) Kind() Kind     { return KindLive }
func (*Quiz) Kind() Kind     { return KindQuiz }

// Course is the root of the editing tree.
// A zero ID means the course was never created on the backend.
type Course struct {
	ID               core.ID
	Title            string
	Description      string // HTML
	Type             Type
	Price            float64
	Thumbnail        FileRef
	Attachments      []FileRef
	Categories       []string
	Requirements     []string
	WhatYouWillLearn []string
	Level            Level
	Category         string
	Status           string
	Content          []ContentItem
}

// New returns an empty course of the given type.
func New(t Type) *Course {
	return &Course{
		Type:             t,
		Level:            LevelBeginner,
		Status:           StatusDraft,
		Attachments:      []FileRef{},
		Categories:       []string{},
		Requirements:     []string{},
		WhatYouWillLearn: []string{},
		Content:          []ContentItem{},
	}
}

// newContentItem returns an empty item with a pending ID and the defaults for the course type.
func newContentItem(kind Kind, t Type) (ContentItem, bool) {
	base := ContentBase{ID: core.NewPendingID()}
	switch kind {
	case KindTutorial:
		item := &Tutorial{ContentBase: base}
		normalizeTutorial(item, t)
		return item, true
	case KindLive:
		return &Live{ContentBase: base}, true
	case KindQuiz:
		return &Quiz{ContentBase: base, Questions: []quiz.Question{}}, true
	default:
		return nil, false
	}
}

// normalizeTutorial clears the source that does not apply to the course type.
func normalizeTutorial(item *Tutorial, t Type) {
	if t == TypePremium {
		item.YoutubeLink = nil
		return
	}
	item.Video = FileRef{}
	if item.YoutubeLink == nil {
		link := ""
		item.YoutubeLink = &link
	}
}

// normalizeLive drops the pending thumbnail of a live class of a free course, which has no file part.
func normalizeLive(item *Live, t Type) {
	if _, pending := item.Thumbnail.PendingFile(); pending && t != TypePremium {
		item.Thumbnail = FileRef{}
	}
}

// findContent returns the index of the item identified by ref, or -1.
func findContent(items []ContentItem, ref string) int {
	for i, item := range items {
		if item.Header().ID.Matches(ref) {
			return i
		}
	}
	return -1
}

func cloneContentItem(item ContentItem) ContentItem {
	switch item := item.(type) {
	case *Tutorial:
		c := *item
		if item.YoutubeLink != nil {
			link := *item.YoutubeLink
			c.YoutubeLink = &link
		}
		return &c
	case *Live:
		c := *item
		return &c
	case *Quiz:
		c := *item
		c.Questions = make([]quiz.Question, 0, len(item.Questions))
		for _, q := range item.Questions {
			c.Questions = append(c.Questions, quiz.Clone(q))
		}
		return &c
	default:
		panic(fmt.Sprintf("course: unknown content item %T", item))
	}
}

// Clone deep copies c.
func Clone(c *Course) *Course {
	cp := *c
	cp.Attachments = append([]FileRef{}, c.Attachments...)
	cp.Categories = append([]string{}, c.Categories...)
	cp.Requirements = append([]string{}, c.Requirements...)
	cp.WhatYouWillLearn = append([]string{}, c.WhatYouWillLearn...)
	cp.Content = make([]ContentItem, 0, len(c.Content))
	for _, item := range c.Content {
		cp.Content = append(cp.Content, cloneContentItem(item))
	}
	return &cp
}
