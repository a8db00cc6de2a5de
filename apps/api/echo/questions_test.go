package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/ArbeitTechnology/tausif-lms-sub000/apps/api/echo"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/qbank"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
)

func record(question string) map[string]interface{} {
	return map[string]interface{}{
		"type":          "mcq-single",
		"question":      question,
		"options":       []string{"yes", "no"},
		"correctAnswer": 0,
		"category":      "go",
		"difficulty":    "easy",
		"points":        1,
	}
}

func Test_questionApi_submitBatch(t *testing.T) {
	token := getToken(t, "t1", session.RoleTeacher)
	path := "/v1/questions/batch"

	t.Run("created", func(t *testing.T) {
		f := setup(t)
		rec := f.do(t, http.MethodPost, path, token, []interface{}{record("Is Go typed?"), record("Is Go fun?")})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var report qbank.Report
		decode(t, rec, &report)
		assert.True(t, report.Committed)
		assert.Equal(t, []string{"q1", "q2"}, f.bank.created)
		require.Len(t, f.bank.imported, 1)
	})

	t.Run("invalid", func(t *testing.T) {
		f := setup(t)
		bad := record("")
		checkError(t, f.do(t, http.MethodPost, path, token, []interface{}{record("ok?"), bad}),
			http.StatusBadRequest, "question 2: question text is required")
		checkError(t, f.do(t, http.MethodPost, path, token, []interface{}{}),
			http.StatusBadRequest, "at least one question is required")
		assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, path, token, "nope").Code)
		assert.Empty(t, f.bank.created)
		assert.Empty(t, f.bank.imported)
	})

	t.Run("rolled back", func(t *testing.T) {
		f := setup(t)
		rec := f.do(t, http.MethodPost, path, token, []interface{}{record("one?"), record("boom"), record("three?")})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		var res BatchErrorResponse
		decode(t, rec, &res)
		assert.Equal(t, "batch rejected: 1 failed, 1 rolled back, 0 rollback failed, 1 skipped", res.Error)
		require.Len(t, res.Report.Results, 3)
		assert.Equal(t, qbank.StatusRolledBack, res.Report.Results[0].Status)
		assert.Equal(t, qbank.StatusFailed, res.Report.Results[1].Status)
		assert.Equal(t, qbank.StatusSkipped, res.Report.Results[2].Status)
		assert.Equal(t, []string{"q1"}, f.bank.deleted)
		require.Len(t, f.bank.imported, 1)
	})
}

func Test_questionApi_batchDrafts(t *testing.T) {
	f := setup(t)
	token := getToken(t, "t1", session.RoleTeacher)
	path := "/v1/questions/batches"

	rec := f.do(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view qbank.View
	decode(t, rec, &view)
	assert.Empty(t, view.Records)
	base := path + "/" + view.ID

	// records
	checkError(t, f.do(t, http.MethodPost, base+"/records", token, map[string]string{"type": "true-false"}),
		http.StatusBadRequest, `unknown question type "true-false"`)
	rec = f.do(t, http.MethodPost, base+"/records", token, map[string]string{"type": "mcq-multiple"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created CreatedRecordResponse
	decode(t, rec, &created)
	rPath := base + "/records/" + created.ID

	rec = f.do(t, http.MethodPatch, rPath, token, map[string]interface{}{"difficulty": "legendary"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(t, http.MethodPatch, rPath, token, map[string]interface{}{
		"question": "Which are Go keywords?", "category": "go", "difficulty": "hard", "points": 3,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, rPath+"/options/0", token, map[string]string{"text": "defer"}).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, rPath+"/options/1", token, map[string]string{"text": "lambda"}).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, rPath+"/options", token, nil).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, rPath+"/options/2", token, map[string]string{"text": "go"}).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, rPath+"/correct/0", token, nil).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, rPath+"/correct/2", token, nil).Code)
	rec = f.do(t, http.MethodDelete, rPath+"/options/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &view)
	require.Len(t, view.Records, 1)
	r := view.Records[0]
	assert.Equal(t, []string{"defer", "go"}, r.Options)
	require.NotNil(t, r.CorrectAnswer)
	assert.Equal(t, []int{0, 1}, r.CorrectAnswer.Indexes)
	assert.Equal(t, "go", r.Category)
	assert.Equal(t, qbank.DifficultyHard, r.Difficulty)
	assert.Equal(t, 3, r.Points)

	// an empty record blocks the submission
	rec = f.do(t, http.MethodPost, base+"/records", token, map[string]string{"type": "short-answer"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var second CreatedRecordResponse
	decode(t, rec, &second)
	checkError(t, f.do(t, http.MethodPost, base+"/submit", token, nil), http.StatusBadRequest, "question 2: question text is required")
	assert.Empty(t, f.bank.created)

	rec = f.do(t, http.MethodDelete, base+"/records/"+second.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodDelete, base+"/records/nope", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "unknown records are no-ops")

	// other authors cannot see the batch
	other := getToken(t, "t2", session.RoleTeacher)
	checkError(t, f.do(t, http.MethodGet, base, other, nil), http.StatusNotFound, "not found")
	rec = f.do(t, http.MethodGet, path, other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	// submit
	rec = f.do(t, http.MethodPost, base+"/submit", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var report qbank.Report
	decode(t, rec, &report)
	assert.True(t, report.Committed)
	assert.Equal(t, []string{"q1"}, f.bank.created)
	require.Len(t, f.bank.imported, 1)
	checkError(t, f.do(t, http.MethodGet, base, token, nil), http.StatusNotFound, "not found")
}

func Test_questionApi_importedBatch(t *testing.T) {
	f := setup(t)
	token := getToken(t, "t1", session.RoleTeacher)

	rec := f.do(t, http.MethodPost, "/v1/questions/batches/import", token, []interface{}{record("one?"), record("boom")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view qbank.View
	decode(t, rec, &view)
	require.Len(t, view.Records, 2)
	base := "/v1/questions/batches/" + view.ID

	rec = f.do(t, http.MethodPost, base+"/submit", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"q1"}, f.bank.deleted)

	// a rejected batch is kept for fixing
	ref := view.Records[1].TempID
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPatch, base+"/records/"+ref, token, map[string]string{"question": "two?"}).Code)
	rec = f.do(t, http.MethodPost, base+"/submit", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"q1", "q2", "q3"}, f.bank.created)

	rec = f.do(t, http.MethodGet, "/v1/questions/batches", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = f.do(t, http.MethodPost, "/v1/questions/batches", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &view)
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/v1/questions/batches/"+view.ID, token, nil).Code)
	checkError(t, f.do(t, http.MethodDelete, "/v1/questions/batches/"+view.ID, token, nil), http.StatusNotFound, "not found")
}

func Test_questionApi_bank(t *testing.T) {
	f := setup(t)
	token := getToken(t, "t1", session.RoleTeacher)

	checkError(t, f.do(t, http.MethodPut, "/v1/questions/q7", token, record("")),
		http.StatusBadRequest, "question 1: question text is required")
	checkError(t, f.do(t, http.MethodPut, "/v1/questions/missing", token, record("Is Go typed?")),
		http.StatusNotFound, "Question not found")

	rec := f.do(t, http.MethodPut, "/v1/questions/q7", token, record("Is Go typed?"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var w qbank.Wire
	decode(t, rec, &w)
	assert.Equal(t, "q7", w.ID)
	assert.Equal(t, "Is Go typed?", f.bank.updated["q7"].Question)

	rec = f.do(t, http.MethodGet, "/v1/questions?difficulty=easy&category=go", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []qbank.Wire
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "q7", list[0].ID)
	assert.Equal(t, []qbank.Filter{{Category: "go", Difficulty: qbank.DifficultyEasy}}, f.bank.filters)
}
