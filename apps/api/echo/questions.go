package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/qbank"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/quiz"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
	"github.com/ArbeitTechnology/tausif-lms-sub000/services/remote"
)

type questionApi struct {
	svc        *qbank.Service
	logger     core.Logger
	validate   *validator.Validate
	translator ut.Translator
}

func registerQuestionAPI(g *echo.Group, svc *qbank.Service, logger core.Logger) {
	api := questionApi{svc: svc, logger: logger}
	api.validate, api.translator = core.NewValidator()

	qg := g.Group("/questions")
	qg.GET("", api.query)
	qg.PUT("/:questionId", api.update)
	qg.POST("/batch", api.submitBatch)

	bg := qg.Group("/batches")
	bg.POST("", api.createBatch)
	bg.POST("/import", api.importBatch)
	bg.GET("", api.queryBatches)
	bg.GET("/:id", api.retrieveBatch)
	bg.DELETE("/:id", api.destroyBatch)
	bg.POST("/:id/submit", api.submitDraft)

	rg := bg.Group("/:id/records")
	rg.POST("", api.addRecord)
	rg.PATCH("/:recordId", api.updateRecord)
	rg.DELETE("/:recordId", api.removeRecord)
	rg.POST("/:recordId/options", api.addOption)
	rg.PUT("/:recordId/options/:k", api.updateOption)
	rg.DELETE("/:recordId/options/:k", api.removeOption)
	rg.PUT("/:recordId/correct/:k", api.setCorrectAnswer)
}

// Bank

func (api *questionApi) query(ctx echo.Context) error {
	sess, err := contextSession(ctx)
	if err != nil {
		return err
	}
	filter := qbank.Filter{
		Category:   ctx.QueryParam("category"),
		Difficulty: qbank.Difficulty(ctx.QueryParam("difficulty")),
		Type:       quiz.Type(ctx.QueryParam("type")),
	}
	questions, err := api.svc.Questions(ctx.Request().Context(), sess, filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, questions)
}

func (api *questionApi) update(ctx echo.Context) error {
	sess, err := contextSession(ctx)
	if err != nil {
		return err
	}
	var data qbank.Wire
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to qbank.Wire")
	}
	rec, err := api.svc.UpdateQuestion(ctx.Request().Context(), sess, ctx.Param("questionId"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec.ToWire())
}

// submitBatch validates a question bank batch and creates its records.
// A batch rejected by the backend is rolled back; the report of every record is returned either way.
func (api *questionApi) submitBatch(ctx echo.Context) error {
	sess, err := contextSession(ctx)
	if err != nil {
		return err
	}
	batch, err := qbank.DecodeBatch(ctx.Request().Body)
	if err != nil {
		return core.NewValidationError(err)
	}
	report, err := api.svc.SubmitBatch(ctx.Request().Context(), sess, batch)
	return api.respondReport(ctx, sess, report, err)
}

// Batch drafts

func (api *questionApi) createBatch(ctx echo.Context) error {
	d, err := api.svc.New(contextActor(ctx))
	if err != nil {
		return errors.Wrap(err, "creating batch")
	}
	return ctx.JSON(http.StatusCreated, d.View())
}

// importBatch holds a JSON array of records as a batch draft. Records are checked on submit.
func (api *questionApi) importBatch(ctx echo.Context) error {
	batch, err := qbank.DecodeBatch(ctx.Request().Body)
	if err != nil {
		return core.NewValidationError(err)
	}
	d, err := api.svc.Open(contextActor(ctx), batch)
	if err != nil {
		return errors.Wrap(err, "opening batch")
	}
	return ctx.JSON(http.StatusCreated, d.View())
}

func (api *questionApi) queryBatches(ctx echo.Context) error {
	drafts, err := api.svc.List(contextActor(ctx))
	if err != nil {
		return errors.Wrap(err, "listing batches")
	}
	views := make([]qbank.View, 0, len(drafts))
	for _, d := range drafts {
		views = append(views, d.View())
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *questionApi) retrieveBatch(ctx echo.Context) error {
	d, err := api.svc.Get(contextActor(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting batch")
	}
	return ctx.JSON(http.StatusOK, d.View())
}

func (api *questionApi) destroyBatch(ctx echo.Context) error {
	if err := api.svc.Discard(contextActor(ctx), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "discarding batch")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *questionApi) submitDraft(ctx echo.Context) error {
	sess, err := contextSession(ctx)
	if err != nil {
		return err
	}
	report, err := api.svc.Submit(ctx.Request().Context(), sess, ctx.Param("id"))
	return api.respondReport(ctx, sess, report, err)
}

// respondReport answers 201 with the report of a committed batch, or the status of the
// backend failure along with the report of a rolled back one.
func (api *questionApi) respondReport(ctx echo.Context, sess session.Session, report *qbank.Report, err error) error {
	if report == nil {
		return errors.Wrap(err, "submitting question batch")
	}
	if err == nil {
		return ctx.JSON(http.StatusCreated, report)
	}

	code := http.StatusBadGateway
	if rErr, ok := errors.Cause(err).(*remote.Error); ok {
		code = rErr.Status
	}
	api.logger.Warn("question batch rejected", err, sess.Actor, map[string]interface{}{"summary": report.Summary()})
	return ctx.JSON(code, BatchErrorResponse{Error: report.Summary(), Report: report})
}

// Records

func (api *questionApi) addRecord(ctx echo.Context) error {
	var data AddQuestionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddQuestionRequest")
	}
	if !data.Type.Valid() {
		return core.NewValidationError(
			errors.Errorf("unknown question type %q", data.Type),
			core.FieldError{Field: "type", Error: "must be one of: mcq-single, mcq-multiple, short-answer, broad-answer"},
		)
	}

	var id core.ID
	d, _, err := api.svc.Edit(contextActor(ctx), ctx.Param("id"), func(b *qbank.Batch) (added bool) {
		id, added = b.AddRecord(data.Type)
		return added
	})
	if err != nil {
		return errors.Wrap(err, "adding record")
	}
	return ctx.JSON(http.StatusCreated, CreatedRecordResponse{ID: id.String(), Batch: d.View()})
}

func (api *questionApi) updateRecord(ctx echo.Context) error {
	var data UpdateRecordRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRecordRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return core.TranslateValidationErrors(err, api.translator, "")
	}
	ref := ctx.Param("recordId")
	return api.edit(ctx, func(b *qbank.Batch) bool {
		changed := false
		for f, value := range data.fields() {
			changed = b.UpdateRecordField(ref, f, value) || changed
		}
		if data.Points != nil {
			changed = b.SetPoints(ref, *data.Points) || changed
		}
		return changed
	})
}

func (api *questionApi) removeRecord(ctx echo.Context) error {
	ref := ctx.Param("recordId")
	return api.edit(ctx, func(b *qbank.Batch) bool { return b.RemoveRecord(ref) })
}

func (api *questionApi) addOption(ctx echo.Context) error {
	ref := ctx.Param("recordId")
	return api.edit(ctx, func(b *qbank.Batch) bool { return b.AddOption(ref) })
}

func (api *questionApi) updateOption(ctx echo.Context) error {
	k, err := intParam(ctx, "k")
	if err != nil {
		return err
	}
	var data OptionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OptionRequest")
	}
	ref := ctx.Param("recordId")
	return api.edit(ctx, func(b *qbank.Batch) bool { return b.UpdateOptionText(ref, k, data.Text) })
}

func (api *questionApi) removeOption(ctx echo.Context) error {
	k, err := intParam(ctx, "k")
	if err != nil {
		return err
	}
	ref := ctx.Param("recordId")
	return api.edit(ctx, func(b *qbank.Batch) bool { return b.RemoveOption(ref, k) })
}

func (api *questionApi) setCorrectAnswer(ctx echo.Context) error {
	k, err := intParam(ctx, "k")
	if err != nil {
		return err
	}
	ref := ctx.Param("recordId")
	return api.edit(ctx, func(b *qbank.Batch) bool { return b.SetCorrectAnswer(ref, k) })
}

// edit applies fn to the batch of the request and responds with the batch.
// References to unknown records are no-ops: the unchanged batch is returned.
func (api *questionApi) edit(ctx echo.Context, fn func(b *qbank.Batch) bool) error {
	d, _, err := api.svc.Edit(contextActor(ctx), ctx.Param("id"), fn)
	if err != nil {
		return errors.Wrap(err, "editing batch")
	}
	return ctx.JSON(http.StatusOK, d.View())
}

type (
	UpdateRecordRequest struct {
		Question    *string `json:"question"`
		Answer      *string `json:"answer"`
		Category    *string `json:"category"`
		Difficulty  *string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
		Explanation *string `json:"explanation"`
		Points      *int    `json:"points" validate:"omitempty,gte=0"`
	}

	CreatedRecordResponse struct {
		ID    string     `json:"id"`
		Batch qbank.View `json:"batch"`
	}

	BatchErrorResponse struct {
		Error  string        `json:"error"`
		Report *qbank.Report `json:"report"`
	}
)

// fields returns the text fields set in the request.
func (r *UpdateRecordRequest) fields() map[quiz.Field]string {
	fields := make(map[quiz.Field]string, 5)
	for f, v := range map[quiz.Field]*string{
		quiz.FieldQuestion:     r.Question,
		quiz.FieldAnswer:       r.Answer,
		qbank.FieldCategory:    r.Category,
		qbank.FieldDifficulty:  r.Difficulty,
		qbank.FieldExplanation: r.Explanation,
	} {
		if v != nil {
			fields[f] = *v
		}
	}
	return fields
}
