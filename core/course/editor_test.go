package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core/quiz"
)

func TestEditor_AddContentItem(t *testing.T) {
	t.Run("free tutorial", func(t *testing.T) {
		e := NewEditor(New(TypeFree))
		id, ok := e.AddContentItem(KindTutorial)
		require.True(t, ok)
		assert.True(t, id.IsPending())
		assert.True(t, e.Expanded(id.Local()))

		tut := e.Course().Content[0].(*Tutorial)
		require.NotNil(t, tut.YoutubeLink)
		assert.Equal(t, "", *tut.YoutubeLink)
		assert.True(t, tut.Video.IsZero())
	})

	t.Run("premium tutorial", func(t *testing.T) {
		e := NewEditor(New(TypePremium))
		_, ok := e.AddContentItem(KindTutorial)
		require.True(t, ok)

		tut := e.Course().Content[0].(*Tutorial)
		assert.Nil(t, tut.YoutubeLink)
		assert.True(t, tut.Video.IsZero())
	})

	t.Run("unknown kind", func(t *testing.T) {
		e := NewEditor(New(TypeFree))
		_, ok := e.AddContentItem("podcast")
		assert.False(t, ok)
		assert.Empty(t, e.Course().Content)
	})
}

func TestEditor_contentItems(t *testing.T) {
	e := NewEditor(New(TypeFree))
	tutID, _ := e.AddContentItem(KindTutorial)
	liveID, _ := e.AddContentItem(KindLive)
	quizID, _ := e.AddContentItem(KindQuiz)

	assert.True(t, e.UpdateContentField(tutID.Local(), FieldTitle, "Intro"))
	assert.True(t, e.UpdateContentField(tutID.Local(), FieldYoutubeLink, "https://youtu.be/x"))
	assert.False(t, e.UpdateContentField(tutID.Local(), FieldMeetingLink, "https://meet"))
	assert.True(t, e.UpdateContentField(liveID.Local(), FieldMeetingLink, "https://meet"))
	assert.False(t, e.UpdateContentField(quizID.Local(), FieldYoutubeLink, "x"))
	assert.False(t, e.UpdateContentField("missing", FieldTitle, "x"))

	schedule := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.True(t, e.SetContentSchedule(liveID.Local(), schedule))
	assert.False(t, e.SetContentSchedule(tutID.Local(), schedule))

	thumb := Stored(Descriptor{Path: "/live.png", Filename: "live.png", Size: 10})
	assert.True(t, e.SetContentFile(liveID.Local(), SlotThumbnail, thumb))
	assert.False(t, e.SetContentFile(tutID.Local(), SlotVideo, thumb), "free tutorials have no video")
	pending := Pending(PendingFile{Filename: "live.png", Path: "/tmp/live.png"})
	assert.False(t, e.SetContentFile(liveID.Local(), SlotThumbnail, pending), "free courses upload no content files")

	c := e.Course()
	assert.Equal(t, "Intro", c.Content[0].Header().Title)
	assert.Equal(t, "https://youtu.be/x", *c.Content[0].(*Tutorial).YoutubeLink)
	live := c.Content[1].(*Live)
	assert.Equal(t, "https://meet", live.MeetingLink)
	assert.Equal(t, schedule, live.Schedule)
	assert.False(t, live.Thumbnail.IsZero())

	assert.True(t, e.RemoveContentItem(liveID.Local()))
	assert.False(t, e.RemoveContentItem(liveID.Local()))
	assert.False(t, e.Expanded(liveID.Local()))
	require.Len(t, c.Content, 2)
	assert.True(t, c.Content[0].Header().ID.Equal(tutID))
	assert.True(t, c.Content[1].Header().ID.Equal(quizID))
}

func TestEditor_ToggleExpanded(t *testing.T) {
	e := NewEditor(New(TypeFree))
	id, _ := e.AddContentItem(KindQuiz)
	assert.True(t, e.ToggleExpanded(id.Local()))
	assert.False(t, e.Expanded(id.Local()))
	assert.True(t, e.ToggleExpanded(id.Local()))
	assert.True(t, e.Expanded(id.Local()))
	assert.False(t, e.ToggleExpanded("missing"))
}

func TestEditor_SetType(t *testing.T) {
	e := NewEditor(New(TypeFree))
	id, _ := e.AddContentItem(KindTutorial)
	e.UpdateContentField(id.Local(), FieldYoutubeLink, "https://youtu.be/x")

	require.True(t, e.SetType(TypePremium))
	tut := e.Course().Content[0].(*Tutorial)
	assert.Nil(t, tut.YoutubeLink)

	video := Pending(PendingFile{Filename: "intro.mp4", Path: "/tmp/intro.mp4"})
	require.True(t, e.SetContentFile(id.Local(), SlotVideo, video))
	liveID, _ := e.AddContentItem(KindLive)
	require.True(t, e.SetContentFile(liveID.Local(), SlotThumbnail, Pending(PendingFile{Filename: "live.png", Path: "/tmp/live.png"})))
	require.True(t, e.SetType(TypeFree))
	assert.True(t, tut.Video.IsZero())
	assert.True(t, e.Course().Content[1].(*Live).Thumbnail.IsZero(), "pending live thumbnails are dropped with the premium type")
	assert.Equal(t, "", *tut.YoutubeLink)

	assert.False(t, e.SetType("gold"))

	created := New(TypeFree)
	created.ID = created.ID.Persist("c1")
	assert.False(t, NewEditor(created).SetType(TypePremium), "created courses keep their type")
}

func TestEditor_courseFields(t *testing.T) {
	e := NewEditor(New(TypePremium))
	assert.True(t, e.SetPrice(49.5))
	assert.False(t, e.SetPrice(-1))
	assert.True(t, e.SetLevel(LevelAdvanced))
	assert.False(t, e.SetLevel("expert"))

	assert.True(t, e.AddCategory(" go "))
	assert.False(t, e.AddCategory("go"))
	assert.False(t, e.AddCategory("  "))
	assert.True(t, e.AddCategory("backend"))
	assert.True(t, e.RemoveCategory("go"))
	assert.False(t, e.RemoveCategory("go"))

	assert.True(t, e.AddRequirement("a laptop"))
	assert.True(t, e.AddRequirement("a laptop"), "only categories are deduplicated")
	assert.True(t, e.RemoveRequirement(1))
	assert.False(t, e.RemoveRequirement(1))
	assert.True(t, e.AddLearningOutcome("write services"))
	assert.False(t, e.RemoveLearningOutcome(3))

	e.AddAttachment(Stored(Descriptor{Path: "/a.pdf", Filename: "a.pdf"}))
	e.AddAttachment(Pending(PendingFile{Filename: "b.pdf", Path: "/tmp/b.pdf"}))
	e.AddAttachment(FileRef{})
	assert.True(t, e.RemoveAttachment(0))
	assert.False(t, e.RemoveAttachment(1))

	c := e.Course()
	assert.Equal(t, 49.5, c.Price)
	assert.Equal(t, LevelAdvanced, c.Level)
	assert.Equal(t, []string{"backend"}, c.Categories)
	assert.Equal(t, []string{"a laptop"}, c.Requirements)
	assert.Equal(t, []string{"write services"}, c.WhatYouWillLearn)
	require.Len(t, c.Attachments, 1)
	assert.True(t, c.Attachments[0].IsPending())
}

func TestEditor_questions(t *testing.T) {
	e := NewEditor(New(TypePremium))
	quizID, _ := e.AddContentItem(KindQuiz)
	tutID, _ := e.AddContentItem(KindTutorial)
	item := quizID.Local()

	_, ok := e.AddQuestion(tutID.Local(), quiz.TypeShortAnswer)
	assert.False(t, ok, "only quizzes hold questions")
	_, ok = e.AddQuestion(item, "essay")
	assert.False(t, ok)

	mcqID, ok := e.AddQuestion(item, quiz.TypeMultipleChoice)
	require.True(t, ok)
	mcq := mcqID.Local()
	assert.True(t, e.UpdateQuestionField(item, mcq, quiz.FieldQuestion, "Pick"))
	assert.True(t, e.AddOption(item, mcq))
	for k, text := range []string{"A", "B", "C"} {
		assert.True(t, e.UpdateOptionText(item, mcq, k, text))
	}
	assert.True(t, e.SetCorrectAnswer(item, mcq, 0))
	assert.True(t, e.SetCorrectAnswer(item, mcq, 2))

	require.True(t, e.RemoveOption(item, mcq, 0))
	qz := e.Course().Content[0].(*Quiz)
	got := qz.Questions[0].(*quiz.MultipleChoice)
	assert.Equal(t, []string{"B", "C"}, got.Options)
	assert.Equal(t, []int{1}, got.Correct)

	assert.False(t, e.RemoveOption(item, mcq, 0), "two options left")
	assert.Equal(t, []string{"B", "C"}, got.Options)

	saID, ok := e.AddQuestion(item, quiz.TypeShortAnswer)
	require.True(t, ok)
	require.Len(t, qz.Questions, 2)
	assert.True(t, qz.Questions[0].Header().ID.Equal(mcqID), "existing questions untouched")
	sa := qz.Questions[1].(*quiz.ShortAnswer)
	assert.Nil(t, quiz.Options(sa))
	assert.Equal(t, "", sa.Answer)
	assert.False(t, e.AddOption(item, saID.Local()))

	assert.False(t, e.RemoveQuestion(item, "missing"))
	assert.True(t, e.RemoveQuestion(item, mcq))
	require.Len(t, qz.Questions, 1)
	assert.True(t, qz.Questions[0].Header().ID.Equal(saID))
}
