package course

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/quiz"
)

// WireContent is the JSON representation of a content item.
// Only the fields of its kind are encoded; tutorials always carry both youtubeLink and content,
// the one that does not apply being null.
type WireContent struct {
	ID          string
	TempID      string
	Type        Kind
	Title       string
	Description string

	YoutubeLink *string
	Video       *Descriptor

	Thumbnail   *Descriptor
	MeetingLink string
	Schedule    *time.Time

	Questions []quiz.Wire
}

type wireHeader struct {
	ID          string `json:"_id,omitempty"`
	TempID      string `json:"id,omitempty"`
	Type        Kind   `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type wireTutorial struct {
	wireHeader
	YoutubeLink *string     `json:"youtubeLink"`
	Content     *Descriptor `json:"content"`
}

type wireLive struct {
	wireHeader
	Thumbnail   *Descriptor `json:"thumbnail"`
	MeetingLink string      `json:"meetingLink"`
	Schedule    *time.Time  `json:"schedule"`
}

type wireQuiz struct {
	wireHeader
	Questions []quiz.Wire `json:"questions"`
}

// wireAny is used to decode any content item.
type wireAny struct {
	wireHeader
	YoutubeLink *string     `json:"youtubeLink"`
	Content     *Descriptor `json:"content"`
	Thumbnail   *Descriptor `json:"thumbnail"`
	MeetingLink string      `json:"meetingLink"`
	Schedule    *time.Time  `json:"schedule"`
	Questions   []quiz.Wire `json:"questions"`
}

func (w WireContent) MarshalJSON() ([]byte, error) {
	h := wireHeader{ID: w.ID, TempID: w.TempID, Type: w.Type, Title: w.Title, Description: w.Description}
	switch w.Type {
	case KindTutorial:
		return json.Marshal(wireTutorial{h, w.YoutubeLink, w.Video})
	case KindLive:
		return json.Marshal(wireLive{h, w.Thumbnail, w.MeetingLink, w.Schedule})
	case KindQuiz:
		questions := w.Questions
		if questions == nil {
			questions = []quiz.Wire{}
		}
		return json.Marshal(wireQuiz{h, questions})
	default:
		return nil, errors.Errorf("unknown content type %q", w.Type)
	}
}

func (w *WireContent) UnmarshalJSON(data []byte) error {
	var a wireAny
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*w = WireContent{
		ID:          a.ID,
		TempID:      a.TempID,
		Type:        a.Type,
		Title:       a.Title,
		Description: a.Description,
		YoutubeLink: a.YoutubeLink,
		Video:       a.Content,
		Thumbnail:   a.Thumbnail,
		MeetingLink: a.MeetingLink,
		Schedule:    a.Schedule,
		Questions:   a.Questions,
	}
	return nil
}

// Document is a course as exchanged with the backend: fetched for edition, or returned after a save.
type Document struct {
	ID               string        `json:"_id,omitempty"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Type             Type          `json:"type"`
	Price            float64       `json:"price"`
	Thumbnail        *Descriptor   `json:"thumbnail"`
	Attachments      []Descriptor  `json:"attachments"`
	Categories       []string      `json:"categories"`
	Requirements     []string      `json:"requirements"`
	WhatYouWillLearn []string      `json:"whatYouWillLearn"`
	Level            Level         `json:"level"`
	Category         string        `json:"category"`
	Status           string        `json:"status,omitempty"`
	Content          []WireContent `json:"content"`
}

// Hydrate builds the editing tree of a fetched course document.
func Hydrate(doc *Document) (*Course, error) {
	if !doc.Type.Valid() {
		return nil, errors.Errorf("unknown course type %q", doc.Type)
	}
	c := New(doc.Type)
	if doc.ID != "" {
		c.ID = core.PersistedID(doc.ID)
	}
	c.Title = doc.Title
	c.Description = doc.Description
	c.Price = doc.Price
	c.Category = doc.Category
	if doc.Level.Valid() {
		c.Level = doc.Level
	}
	if doc.Status != "" {
		c.Status = doc.Status
	}
	if doc.Thumbnail != nil {
		c.Thumbnail = Stored(*doc.Thumbnail)
	}
	for _, d := range doc.Attachments {
		c.Attachments = append(c.Attachments, Stored(d))
	}
	for _, category := range doc.Categories {
		addCategory(&c.Categories, category)
	}
	c.Requirements = append(c.Requirements, doc.Requirements...)
	c.WhatYouWillLearn = append(c.WhatYouWillLearn, doc.WhatYouWillLearn...)

	for i, w := range doc.Content {
		item, err := contentFromWire(w, c.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "content #%d", i+1)
		}
		c.Content = append(c.Content, item)
	}
	return c, nil
}

func contentFromWire(w WireContent, t Type) (ContentItem, error) {
	base := ContentBase{
		ID:          core.FromWire(w.ID, w.TempID),
		Title:       w.Title,
		Description: w.Description,
	}
	switch w.Type {
	case KindTutorial:
		item := &Tutorial{ContentBase: base}
		if w.YoutubeLink != nil {
			link := *w.YoutubeLink
			item.YoutubeLink = &link
		}
		if w.Video != nil {
			item.Video = Stored(*w.Video)
		}
		normalizeTutorial(item, t)
		return item, nil
	case KindLive:
		item := &Live{ContentBase: base, MeetingLink: w.MeetingLink}
		if w.Thumbnail != nil {
			item.Thumbnail = Stored(*w.Thumbnail)
		}
		if w.Schedule != nil {
			item.Schedule = *w.Schedule
		}
		return item, nil
	case KindQuiz:
		item := &Quiz{ContentBase: base, Questions: make([]quiz.Question, 0, len(w.Questions))}
		for i, qw := range w.Questions {
			q, err := quiz.FromWire(qw)
			if err != nil {
				return nil, errors.Wrapf(err, "question %d", i+1)
			}
			item.Questions = append(item.Questions, q)
		}
		return item, nil
	default:
		return nil, errors.Errorf("unknown content type %q", w.Type)
	}
}

// ToWireContent converts an item to its wire representation.
// Pending files are shown as pending descriptors.
func ToWireContent(item ContentItem) WireContent {
	h := item.Header()
	w := WireContent{Type: item.Kind(), Title: h.Title, Description: h.Description}
	w.ID, w.TempID = h.ID.Wire()
	switch item := item.(type) {
	case *Tutorial:
		if item.YoutubeLink != nil {
			link := *item.YoutubeLink
			w.YoutubeLink = &link
		}
		w.Video = item.Video.view()
	case *Live:
		w.Thumbnail = item.Thumbnail.view()
		w.MeetingLink = item.MeetingLink
		if !item.Schedule.IsZero() {
			schedule := item.Schedule
			w.Schedule = &schedule
		}
	case *Quiz:
		w.Questions = make([]quiz.Wire, 0, len(item.Questions))
		for _, q := range item.Questions {
			w.Questions = append(w.Questions, quiz.ToWire(q))
		}
	default:
		panic(fmt.Sprintf("course: unknown content item %T", item))
	}
	return w
}

// ToDocument returns the document view of a course tree.
func ToDocument(c *Course) *Document {
	doc := &Document{
		ID:               c.ID.Server(),
		Title:            c.Title,
		Description:      c.Description,
		Type:             c.Type,
		Price:            c.Price,
		Thumbnail:        c.Thumbnail.view(),
		Attachments:      make([]Descriptor, 0, len(c.Attachments)),
		Categories:       append([]string{}, c.Categories...),
		Requirements:     append([]string{}, c.Requirements...),
		WhatYouWillLearn: append([]string{}, c.WhatYouWillLearn...),
		Level:            c.Level,
		Category:         c.Category,
		Status:           c.Status,
		Content:          make([]WireContent, 0, len(c.Content)),
	}
	for _, a := range c.Attachments {
		if d := a.view(); d != nil {
			doc.Attachments = append(doc.Attachments, *d)
		}
	}
	for _, item := range c.Content {
		doc.Content = append(doc.Content, ToWireContent(item))
	}
	return doc
}

// Adopt replaces the edited tree with the document returned by the backend after a save.
// Items and questions keep their temporary ids as aliases, matched by position and kind,
// so references held by callers keep resolving.
func (e *Editor) Adopt(doc *Document) error {
	saved, err := Hydrate(doc)
	if err != nil {
		return err
	}
	old := e.course
	if saved.ID.IsZero() {
		saved.ID = old.ID
	} else {
		saved.ID = keepAlias(old.ID, saved.ID)
	}

	for i, item := range saved.Content {
		if i >= len(old.Content) || old.Content[i].Kind() != item.Kind() {
			break
		}
		prev := old.Content[i]
		item.Header().ID = keepAlias(prev.Header().ID, item.Header().ID)
		if qz, ok := item.(*Quiz); ok {
			prevQz := prev.(*Quiz)
			for j, q := range qz.Questions {
				if j >= len(prevQz.Questions) || prevQz.Questions[j].Type() != q.Type() {
					break
				}
				q.Header().ID = keepAlias(prevQz.Questions[j].Header().ID, q.Header().ID)
			}
		}
	}

	for i, id := range e.expanded {
		for _, item := range saved.Content {
			if item.Header().ID.Equal(id) {
				e.expanded[i] = item.Header().ID
			}
		}
	}
	e.course = saved
	return nil
}

func keepAlias(prev, saved core.ID) core.ID {
	if !prev.IsPending() || saved.IsPending() {
		return saved
	}
	return prev.Persist(saved.Server())
}
