package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/course"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/draft"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/quiz"
)

func registerContentAPI(cg *echo.Group, api *draftApi, upload ...echo.MiddlewareFunc) {
	cg.POST("", api.addContent)
	cg.PATCH("/:itemId", api.updateContent)
	cg.DELETE("/:itemId", api.removeContent)
	cg.POST("/:itemId/toggle", api.toggleContent)
	cg.PUT("/:itemId/files/:slot", api.uploadContentFile, upload...)

	qg := cg.Group("/:itemId/questions")
	qg.POST("", api.addQuestion)
	qg.PATCH("/:questionId", api.updateQuestion)
	qg.DELETE("/:questionId", api.removeQuestion)
	qg.POST("/:questionId/options", api.addOption)
	qg.PUT("/:questionId/options/:k", api.updateOption)
	qg.DELETE("/:questionId/options/:k", api.removeOption)
	qg.PUT("/:questionId/correct/:k", api.setCorrectAnswer)
}

// Content items

func (api *draftApi) addContent(ctx echo.Context) error {
	var data AddContentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddContentRequest")
	}
	if !data.Kind.Valid() {
		return core.NewValidationError(
			errors.Errorf("unknown content type %q", data.Kind),
			core.FieldError{Field: "kind", Error: "must be one of: tutorial, live, quiz"},
		)
	}

	var id core.ID
	d, _, err := api.svc.Edit(contextActor(ctx), ctx.Param("id"), func(e *course.Editor) (added bool) {
		id, added = e.AddContentItem(data.Kind)
		return added
	})
	if err != nil {
		return errors.Wrap(err, "adding content item")
	}
	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: id.String(), Draft: d.View()})
}

func (api *draftApi) updateContent(ctx echo.Context) error {
	var data UpdateContentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateContentRequest")
	}
	ref := ctx.Param("itemId")
	return api.edit(ctx, func(e *course.Editor) bool {
		changed := false
		for f, value := range data.fields() {
			changed = e.UpdateContentField(ref, f, value) || changed
		}
		if data.Schedule != nil {
			changed = e.SetContentSchedule(ref, *data.Schedule) || changed
		}
		return changed
	})
}

func (api *draftApi) removeContent(ctx echo.Context) error {
	sess, err := contextSession(ctx)
	if err != nil {
		return err
	}
	d, _, err := api.svc.RemoveContent(ctx.Request().Context(), sess, ctx.Param("id"), ctx.Param("itemId"))
	if err != nil {
		return errors.Wrap(err, "removing content item")
	}
	return ctx.JSON(http.StatusOK, d.View())
}

func (api *draftApi) toggleContent(ctx echo.Context) error {
	ref := ctx.Param("itemId")
	return api.edit(ctx, func(e *course.Editor) bool { return e.ToggleExpanded(ref) })
}

func (api *draftApi) uploadContentFile(ctx echo.Context) error {
	ref, slot := ctx.Param("itemId"), course.FileSlot(ctx.Param("slot"))
	if slot != course.SlotVideo && slot != course.SlotThumbnail {
		return errHttpNotFound
	}
	return api.upload(ctx, func(e *course.Editor, f course.PendingFile) bool {
		return e.SetContentFile(ref, slot, course.Pending(f))
	})
}

// Questions

func (api *draftApi) addQuestion(ctx echo.Context) error {
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
	itemRef := ctx.Param("itemId")
	d, _, err := api.svc.Edit(contextActor(ctx), ctx.Param("id"), func(e *course.Editor) (added bool) {
		id, added = e.AddQuestion(itemRef, data.Type)
		return added
	})
	if err != nil {
		return errors.Wrap(err, "adding question")
	}
	if id.IsZero() { // unknown quiz: no-op
		return ctx.JSON(http.StatusOK, d.View())
	}
	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: id.String(), Draft: d.View()})
}

func (api *draftApi) updateQuestion(ctx echo.Context) error {
	var data UpdateQuestionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateQuestionRequest")
	}
	itemRef, questionRef := ctx.Param("itemId"), ctx.Param("questionId")
	return api.edit(ctx, func(e *course.Editor) bool {
		changed := false
		if data.Question != nil {
			changed = e.UpdateQuestionField(itemRef, questionRef, quiz.FieldQuestion, *data.Question) || changed
		}
		if data.Answer != nil {
			changed = e.UpdateQuestionField(itemRef, questionRef, quiz.FieldAnswer, *data.Answer) || changed
		}
		return changed
	})
}

func (api *draftApi) removeQuestion(ctx echo.Context) error {
	itemRef, questionRef := ctx.Param("itemId"), ctx.Param("questionId")
	return api.edit(ctx, func(e *course.Editor) bool { return e.RemoveQuestion(itemRef, questionRef) })
}

func (api *draftApi) addOption(ctx echo.Context) error {
	itemRef, questionRef := ctx.Param("itemId"), ctx.Param("questionId")
	return api.edit(ctx, func(e *course.Editor) bool { return e.AddOption(itemRef, questionRef) })
}

func (api *draftApi) updateOption(ctx echo.Context) error {
	k, err := intParam(ctx, "k")
	if err != nil {
		return err
	}
	var data OptionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OptionRequest")
	}
	itemRef, questionRef := ctx.Param("itemId"), ctx.Param("questionId")
	return api.edit(ctx, func(e *course.Editor) bool {
		return e.UpdateOptionText(itemRef, questionRef, k, data.Text)
	})
}

func (api *draftApi) removeOption(ctx echo.Context) error {
	k, err := intParam(ctx, "k")
	if err != nil {
		return err
	}
	itemRef, questionRef := ctx.Param("itemId"), ctx.Param("questionId")
	return api.edit(ctx, func(e *course.Editor) bool { return e.RemoveOption(itemRef, questionRef, k) })
}

func (api *draftApi) setCorrectAnswer(ctx echo.Context) error {
	k, err := intParam(ctx, "k")
	if err != nil {
		return err
	}
	itemRef, questionRef := ctx.Param("itemId"), ctx.Param("questionId")
	return api.edit(ctx, func(e *course.Editor) bool { return e.SetCorrectAnswer(itemRef, questionRef, k) })
}

type (
	AddContentRequest struct {
		Kind course.Kind `json:"kind"`
	}

	UpdateContentRequest struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		YoutubeLink *string    `json:"youtubeLink"`
		MeetingLink *string    `json:"meetingLink"`
		Schedule    *time.Time `json:"schedule"`
	}

	AddQuestionRequest struct {
		Type quiz.Type `json:"type"`
	}

	UpdateQuestionRequest struct {
		Question *string `json:"question"`
		Answer   *string `json:"answer"`
	}

	OptionRequest struct {
		Text string `json:"text"`
	}

	CreatedResponse struct {
		ID    string     `json:"id"`
		Draft draft.View `json:"draft"`
	}
)

// fields returns the text fields set in the request.
func (r *UpdateContentRequest) fields() map[course.Field]string {
	fields := make(map[course.Field]string, 4)
	for f, v := range map[course.Field]*string{
		course.FieldTitle:       r.Title,
		course.FieldDescription: r.Description,
		course.FieldYoutubeLink: r.YoutubeLink,
		course.FieldMeetingLink: r.MeetingLink,
	} {
		if v != nil {
			fields[f] = *v
		}
	}
	return fields
}
