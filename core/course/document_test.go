package course

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core/quiz"
)

const fetchedCourse = `{
	"_id": "c1",
	"title": "Go in practice",
	"description": "<p>Services</p>",
	"type": "free",
	"price": 0,
	"thumbnail": {"path": "/uploads/thumb.png", "filename": "thumb.png", "size": 42},
	"attachments": [{"path": "/uploads/syllabus.pdf", "filename": "syllabus.pdf", "size": 3}],
	"categories": ["go"],
	"requirements": ["a laptop"],
	"whatYouWillLearn": ["write services"],
	"level": "intermediate",
	"category": "programming",
	"status": "draft",
	"content": [
		{"_id": "i1", "type": "tutorial", "title": "Intro", "description": "", "youtubeLink": "https://youtu.be/intro", "content": null},
		{"_id": "i2", "type": "live", "title": "Q&A", "description": "", "thumbnail": null, "meetingLink": "https://meet.example.com", "schedule": "2026-05-01T18:00:00Z"},
		{"_id": "i3", "type": "quiz", "title": "Check", "description": "", "questions": [
			{"_id": "q1", "type": "mcq-single", "question": "Typed?", "options": ["yes", "no"], "correctAnswer": 0},
			{"_id": "q2", "type": "mcq-multiple", "question": "Pick", "options": ["A", "B", "C"], "correctAnswer": [0, 2]},
			{"_id": "q3", "type": "short-answer", "question": "Name", "answer": "gopher"}
		]}
	]
}`

func decodeDocument(t *testing.T, data string) *Document {
	t.Helper()
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(data), &doc))
	return &doc
}

func TestHydrate_roundTrip(t *testing.T) {
	doc := decodeDocument(t, fetchedCourse)
	c, err := Hydrate(doc)
	require.NoError(t, err)

	assert.Equal(t, "c1", c.ID.String())
	assert.False(t, c.ID.IsPending())
	assert.Equal(t, LevelIntermediate, c.Level)
	require.Len(t, c.Content, 3)
	assert.IsType(t, &Tutorial{}, c.Content[0])
	assert.IsType(t, &Live{}, c.Content[1])
	qz := c.Content[2].(*Quiz)
	assert.Equal(t, []int{0, 2}, qz.Questions[1].(*quiz.MultipleChoice).Correct)

	// re-serialized without modification
	want, err := json.Marshal(doc)
	require.NoError(t, err)
	got, err := json.Marshal(ToDocument(c))
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestHydrate_errors(t *testing.T) {
	_, err := Hydrate(&Document{Type: "gold"})
	assert.Error(t, err)

	_, err = Hydrate(&Document{Type: TypeFree, Content: []WireContent{{Type: "podcast"}}})
	assert.EqualError(t, err, `content #1: unknown content type "podcast"`)

	_, err = Hydrate(&Document{Type: TypeFree, Content: []WireContent{
		{Type: KindQuiz, Questions: []quiz.Wire{{Type: "true-false"}}},
	}})
	assert.EqualError(t, err, `content #1: question 1: unknown question type "true-false"`)
}

func TestHydrate_normalizesTutorials(t *testing.T) {
	link := "https://youtu.be/x"
	c, err := Hydrate(&Document{Type: TypePremium, Content: []WireContent{
		{ID: "i1", Type: KindTutorial, YoutubeLink: &link, Video: &Descriptor{Path: "/v.mp4", Filename: "v.mp4"}},
	}})
	require.NoError(t, err)
	tut := c.Content[0].(*Tutorial)
	assert.Nil(t, tut.YoutubeLink)
	assert.False(t, tut.Video.IsZero())
	assert.Equal(t, LevelBeginner, c.Level)
}

func TestHydrate_dedupsCategories(t *testing.T) {
	c, err := Hydrate(&Document{Type: TypeFree, Categories: []string{"go", " go ", "", "web", "go"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "web"}, c.Categories)
	assert.False(t, NewEditor(c).AddCategory("web"))
}

func TestWireContent_pendingIDs(t *testing.T) {
	e := NewEditor(New(TypeFree))
	id, _ := e.AddContentItem(KindQuiz)
	qid, _ := e.AddQuestion(id.Local(), quiz.TypeBroadAnswer)

	data, err := json.Marshal(ToWireContent(e.Course().Content[0]))
	require.NoError(t, err)

	var w WireContent
	require.NoError(t, json.Unmarshal(data, &w))
	assert.Empty(t, w.ID)
	assert.Equal(t, id.Local(), w.TempID)
	require.Len(t, w.Questions, 1)
	assert.Equal(t, qid.Local(), w.Questions[0].TempID)
}

func TestEditor_Adopt(t *testing.T) {
	e := NewEditor(New(TypeFree))
	itemID, _ := e.AddContentItem(KindQuiz)
	e.UpdateContentField(itemID.Local(), FieldTitle, "Check")
	qID, _ := e.AddQuestion(itemID.Local(), quiz.TypeShortAnswer)

	saved := ToDocument(e.Course())
	saved.ID = "c9"
	saved.Content[0].ID, saved.Content[0].TempID = "i9", ""
	saved.Content[0].Questions[0].ID, saved.Content[0].Questions[0].TempID = "q9", ""

	require.NoError(t, e.Adopt(saved))
	c := e.Course()
	assert.Equal(t, "c9", c.ID.String())

	item := c.Content[0]
	assert.Equal(t, "i9", item.Header().ID.String())
	assert.True(t, item.Header().ID.Matches(itemID.Local()), "temporary id still resolves")
	assert.True(t, e.Expanded("i9"))

	assert.True(t, e.UpdateQuestionField(itemID.Local(), qID.Local(), quiz.FieldAnswer, "by alias"))
	assert.True(t, e.UpdateQuestionField("i9", "q9", quiz.FieldQuestion, "by server id"))
	q := item.(*Quiz).Questions[0].(*quiz.ShortAnswer)
	assert.Equal(t, "by alias", q.Answer)
	assert.Equal(t, "by server id", q.Question)
}

func TestDiff(t *testing.T) {
	doc := decodeDocument(t, fetchedCourse)
	c, err := Hydrate(doc)
	require.NoError(t, err)

	diff, err := Diff(doc, ToDocument(c))
	require.NoError(t, err)
	assert.Empty(t, diff)

	e := NewEditor(c)
	e.SetTitle("Go in production")
	diff, err = Diff(doc, ToDocument(e.Course()))
	require.NoError(t, err)
	assert.Contains(t, diff, `-  "title": "Go in practice",`)
	assert.Contains(t, diff, `+  "title": "Go in production",`)
}
