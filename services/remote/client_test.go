package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/course"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/qbank"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/quiz"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
)

var testSession = session.Session{Role: session.RoleTeacher, Token: "tkn"}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(core.RemoteConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       interface{}
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "server message",
			status:     http.StatusNotFound,
			body:       map[string]interface{}{"status": false, "message": "Course not found"},
			wantStatus: http.StatusNotFound,
			wantMsg:    "Course not found",
		},
		{
			name:       "fallback message",
			status:     http.StatusInternalServerError,
			body:       "oops",
			wantStatus: http.StatusInternalServerError,
			wantMsg:    FallbackMessage,
		},
		{
			name:       "false status",
			status:     http.StatusOK,
			body:       map[string]interface{}{"status": false, "message": "Only teachers can edit"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Only teachers can edit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCourseClient(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))
			_, err := c.Fetch(context.Background(), testSession, "c1")
			require.Error(t, err)
			rErr, ok := errors.Cause(err).(*Error)
			require.True(t, ok, "%T", err)
			assert.Equal(t, tt.wantStatus, rErr.Status)
			assert.Equal(t, tt.wantMsg, rErr.Message)
			assert.Equal(t, tt.wantStatus == http.StatusNotFound, IsNotFound(err))
		})
	}
}

func TestCourseClient_Fetch(t *testing.T) {
	c := NewCourseClient(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/courses/c1", r.URL.Path)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": true,
			"data": map[string]interface{}{
				"_id": "c1", "title": "Go", "type": "free",
				"content": []interface{}{
					map[string]interface{}{"_id": "i1", "type": "quiz", "title": "Check", "questions": []interface{}{}},
				},
			},
		})
	}))

	doc, err := c.Fetch(context.Background(), testSession, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", doc.ID)
	require.Len(t, doc.Content, 1)
	assert.Equal(t, course.KindQuiz, doc.Content[0].Type)
}

func TestCourseClient_Create(t *testing.T) {
	dir := t.TempDir()
	thumbPath := filepath.Join(dir, "upload-1")
	require.NoError(t, os.WriteFile(thumbPath, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))
	thumb, err := course.NewPendingFile(thumbPath, "thumb.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", thumb.ContentType)

	e := course.NewEditor(course.New(course.TypeFree))
	e.SetTitle("Go")
	e.SetThumbnail(course.Pending(thumb))
	payload := course.BuildPayload(e.Course())

	c := NewCourseClient(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/courses", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Go", r.FormValue("title"))
		assert.Equal(t, "0", r.FormValue("price"))
		assert.Equal(t, "[]", r.FormValue("content"))

		f, hdr, err := r.FormFile("thumbnail")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		assert.Equal(t, "thumb.png", hdr.Filename)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "\x89PNG\r\n\x1a\nfake", string(data))

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"status": true,
			"data":   map[string]interface{}{"_id": "c1", "title": "Go", "type": "free", "content": []interface{}{}},
		})
	}))

	doc, err := c.Create(context.Background(), testSession, payload)
	require.NoError(t, err)
	assert.Equal(t, "c1", doc.ID)
}

func TestCourseClient_DeleteContent(t *testing.T) {
	c := NewCourseClient(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/courses/c1/content/i2", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": true, "message": "deleted"})
	}))
	assert.NoError(t, c.DeleteContent(context.Background(), testSession, "c1", "i2"))
}

func TestQuestionClient(t *testing.T) {
	var deleted []string
	c := NewQuestionClient(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "go", body["category"])
			assert.Equal(t, float64(0), body["correctAnswer"])
			assert.NotContains(t, body, "id")
			writeJSON(w, http.StatusCreated, map[string]interface{}{"status": true, "data": map[string]string{"_id": "q1"}})
		case http.MethodDelete:
			deleted = append(deleted, r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]interface{}{"status": true})
		case http.MethodGet:
			assert.Equal(t, "hard", r.URL.Query().Get("difficulty"))
			assert.False(t, r.URL.Query().Has("category"))
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"status": true,
				"data": []interface{}{
					map[string]interface{}{"_id": "q1", "type": "short-answer", "question": "Name?", "answer": "go", "difficulty": "hard"},
				},
			})
		}
	}))

	b := qbank.NewBatch()
	id, _ := b.AddRecord(quiz.TypeSingleChoice)
	b.UpdateRecordField(id.Local(), qbank.FieldCategory, "go")

	creator := c.For(testSession)
	remoteID, err := creator.CreateQuestion(context.Background(), b.Records[0].ToWire())
	require.NoError(t, err)
	assert.Equal(t, "q1", remoteID)
	require.NoError(t, creator.DeleteQuestion(context.Background(), remoteID))
	assert.Equal(t, []string{"/questions/q1"}, deleted)

	list, err := c.List(context.Background(), testSession, qbank.Filter{Difficulty: qbank.DifficultyHard})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "q1", list[0].ID)
	assert.Equal(t, qbank.DifficultyHard, list[0].Difficulty)
}
