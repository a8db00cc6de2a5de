package echoapi

import (
	"net/http"
	"net/url"
	"os"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/course"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/draft"
)

var errTypeLocked = core.NewValidationError(
	errors.New("the type of a saved course cannot change"),
	core.FieldError{Field: "type", Error: "cannot change once the course is saved"},
)

type draftApi struct {
	svc        *draft.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerDraftAPI(g *echo.Group, svc *draft.Service, upload ...echo.MiddlewareFunc) {
	api := draftApi{svc: svc}
	api.validate, api.translator = core.NewValidator()

	dg := g.Group("/drafts")
	dg.POST("", api.create)
	dg.GET("", api.query)
	dg.POST("/import/:courseId", api.importCourse)
	dg.GET("/:id", api.retrieve)
	dg.PATCH("/:id", api.update)
	dg.DELETE("/:id", api.destroy)
	dg.GET("/:id/diff", api.diff)
	dg.POST("/:id/publish", api.publish)

	dg.PUT("/:id/files/thumbnail", api.uploadThumbnail, upload...)
	dg.POST("/:id/files/attachments", api.uploadAttachment, upload...)
	dg.DELETE("/:id/files/attachments/:idx", api.removeAttachment)

	dg.POST("/:id/categories", api.addCategory)
	dg.DELETE("/:id/categories/:value", api.removeCategory)
	dg.POST("/:id/requirements", api.addRequirement)
	dg.DELETE("/:id/requirements/:idx", api.removeRequirement)
	dg.POST("/:id/outcomes", api.addOutcome)
	dg.DELETE("/:id/outcomes/:idx", api.removeOutcome)

	registerContentAPI(dg.Group("/:id/content"), &api, upload...)

	g.DELETE("/courses/:courseId", api.deleteCourse)
}

// Handlers

func (api *draftApi) create(ctx echo.Context) error {
	var data NewDraftRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDraftRequest")
	}
	d, err := api.svc.New(contextActor(ctx), data.Type)
	if err != nil {
		return errors.Wrap(err, "creating draft")
	}
	return ctx.JSON(http.StatusCreated, d.View())
}

func (api *draftApi) importCourse(ctx echo.Context) error {
	sess, err := contextSession(ctx)
	if err != nil {
		return err
	}
	d, err := api.svc.Import(ctx.Request().Context(), sess, ctx.Param("courseId"))
	if err != nil {
		return errors.Wrap(err, "importing course")
	}
	return ctx.JSON(http.StatusCreated, d.View())
}

func (api *draftApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	drafts, err := api.svc.List(contextActor(ctx), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "listing drafts")
	}
	summaries := make([]draft.Summary, 0, len(drafts))
	for _, d := range drafts {
		summaries = append(summaries, d.Summary())
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *draftApi) retrieve(ctx echo.Context) error {
	d, err := api.svc.Get(contextActor(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting draft")
	}
	return ctx.JSON(http.StatusOK, d.View())
}

func (api *draftApi) update(ctx echo.Context) error {
	var data UpdateCourseRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourseRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return core.TranslateValidationErrors(err, api.translator, "")
	}

	var typeLocked bool
	d, _, err := api.svc.Edit(contextActor(ctx), ctx.Param("id"), func(e *course.Editor) bool {
		if data.Type != nil && *data.Type != e.Course().Type && !e.SetType(*data.Type) {
			typeLocked = true
			return false
		}
		data.apply(e)
		return true
	})
	if err != nil {
		return errors.Wrap(err, "updating draft")
	}
	if typeLocked {
		return errTypeLocked
	}
	return ctx.JSON(http.StatusOK, d.View())
}

func (api *draftApi) destroy(ctx echo.Context) error {
	if err := api.svc.Discard(contextActor(ctx), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "discarding draft")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *draftApi) diff(ctx echo.Context) error {
	diff, err := api.svc.Diff(contextActor(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "diffing draft")
	}
	return ctx.String(http.StatusOK, diff)
}

func (api *draftApi) publish(ctx echo.Context) error {
	sess, err := contextSession(ctx)
	if err != nil {
		return err
	}
	doc, err := api.svc.Publish(ctx.Request().Context(), sess, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "publishing draft")
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *draftApi) deleteCourse(ctx echo.Context) error {
	sess, err := contextSession(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteCourse(ctx.Request().Context(), sess, ctx.Param("courseId")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// files

func (api *draftApi) uploadThumbnail(ctx echo.Context) error {
	return api.upload(ctx, func(e *course.Editor, f course.PendingFile) bool {
		e.SetThumbnail(course.Pending(f))
		return true
	})
}

func (api *draftApi) uploadAttachment(ctx echo.Context) error {
	return api.upload(ctx, func(e *course.Editor, f course.PendingFile) bool {
		e.AddAttachment(course.Pending(f))
		return true
	})
}

func (api *draftApi) removeAttachment(ctx echo.Context) error {
	i, err := intParam(ctx, "idx")
	if err != nil {
		return err
	}
	return api.edit(ctx, func(e *course.Editor) bool { return e.RemoveAttachment(i) })
}

// upload spools the `file` form file of the request and hands it to attach.
// The spooled file is dropped when attach leaves the tree unchanged.
func (api *draftApi) upload(ctx echo.Context, attach func(e *course.Editor, f course.PendingFile) bool) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(
			errors.Wrap(err, "reading uploaded file"),
			core.FieldError{Field: "file", Error: "this field is required"},
		)
	}
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer src.Close()

	actor := contextActor(ctx)
	f, err := api.svc.SaveUpload(actor, ctx.Param("id"), fh.Filename, src)
	if err != nil {
		return errors.Wrap(err, "saving uploaded file")
	}
	d, attached, err := api.svc.Edit(actor, ctx.Param("id"), func(e *course.Editor) bool { return attach(e, f) })
	if err != nil {
		return errors.Wrap(err, "attaching uploaded file")
	}
	if !attached {
		_ = os.Remove(f.Path)
	}
	return ctx.JSON(http.StatusOK, d.View())
}

// lists

func (api *draftApi) addCategory(ctx echo.Context) error {
	return api.addText(ctx, (*course.Editor).AddCategory)
}

func (api *draftApi) removeCategory(ctx echo.Context) error {
	value := ctx.Param("value")
	if unescaped, err := url.PathUnescape(value); err == nil {
		value = unescaped
	}
	return api.edit(ctx, func(e *course.Editor) bool { return e.RemoveCategory(value) })
}

func (api *draftApi) addRequirement(ctx echo.Context) error {
	return api.addText(ctx, (*course.Editor).AddRequirement)
}

func (api *draftApi) removeRequirement(ctx echo.Context) error {
	return api.removeAt(ctx, (*course.Editor).RemoveRequirement)
}

func (api *draftApi) addOutcome(ctx echo.Context) error {
	return api.addText(ctx, (*course.Editor).AddLearningOutcome)
}

func (api *draftApi) removeOutcome(ctx echo.Context) error {
	return api.removeAt(ctx, (*course.Editor).RemoveLearningOutcome)
}

func (api *draftApi) addText(ctx echo.Context, add func(e *course.Editor, s string) bool) error {
	var data TextRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TextRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return core.TranslateValidationErrors(err, api.translator, "")
	}
	return api.edit(ctx, func(e *course.Editor) bool { return add(e, data.Value) })
}

func (api *draftApi) removeAt(ctx echo.Context, remove func(e *course.Editor, i int) bool) error {
	i, err := intParam(ctx, "idx")
	if err != nil {
		return err
	}
	return api.edit(ctx, func(e *course.Editor) bool { return remove(e, i) })
}

// edit applies fn to the draft of the request and responds with the draft.
// References to unknown entities are no-ops: the unchanged draft is returned.
func (api *draftApi) edit(ctx echo.Context, fn func(e *course.Editor) bool) error {
	d, _, err := api.svc.Edit(contextActor(ctx), ctx.Param("id"), fn)
	if err != nil {
		return errors.Wrap(err, "editing draft")
	}
	return ctx.JSON(http.StatusOK, d.View())
}

func intParam(ctx echo.Context, name string) (int, error) {
	i, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, errHttpNotFound
	}
	return i, nil
}

type (
	NewDraftRequest struct {
		Type course.Type `json:"type"`
	}

	UpdateCourseRequest struct {
		Title       *string       `json:"title"`
		Description *string       `json:"description"`
		Type        *course.Type  `json:"type" validate:"omitempty,oneof=free premium"`
		Price       *float64      `json:"price" validate:"omitempty,gte=0"`
		Level       *course.Level `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
		Category    *string       `json:"category"`
	}

	TextRequest struct {
		Value string `json:"value" validate:"required,notblank"`
	}
)

func (r *UpdateCourseRequest) apply(e *course.Editor) {
	if r.Title != nil {
		e.SetTitle(*r.Title)
	}
	if r.Description != nil {
		e.SetDescription(*r.Description)
	}
	if r.Price != nil {
		e.SetPrice(*r.Price)
	}
	if r.Level != nil {
		e.SetLevel(*r.Level)
	}
	if r.Category != nil {
		e.SetCategory(*r.Category)
	}
}
