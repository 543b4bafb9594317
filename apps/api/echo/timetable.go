package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core/timetable"
)

var (
	errEntryNotFoundInCtx = errors.New("entry object not found in echo.Context")

	// roles allowed to edit timetables
	timetableAdminRoles = []string{RoleAdmin, RoleAdminPrincipal, RoleAdminTimetable}
)

type timetableApi struct {
	svc      *timetable.Service
	validate *validator.Validate
}

func registerTimetableAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *timetable.Service, validate *validator.Validate) {
	api := timetableApi{
		svc:      svc,
		validate: validate,
	}
	canEdit := adminMiddleware(timetableAdminRoles...)

	tg := g.Group("/timetable", jwt)
	tg.GET("/axis", api.axis)
	tg.GET("/grid", api.grid)
	tg.GET("/teachers/:id/grid", api.teacherGrid)

	eg := tg.Group("/entries")
	eg.GET("", api.query)
	eg.POST("", api.create, canEdit)

	// detail endpoints
	dg := eg.Group("/:id", entryMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, canEdit)
	dg.DELETE("", api.destroy, canEdit)
}

// Handlers

func (api *timetableApi) axis(ctx echo.Context) error {
	axis := api.svc.Axis()
	slots, err := axis.Slots()
	if err != nil {
		return errors.Wrap(err, "generating slots")
	}
	return ctx.JSON(http.StatusOK, AxisResponse{
		Start:       axis.Start,
		End:         axis.End,
		Granularity: axis.Granularity,
		Slots:       slots,
		Days:        timetable.Weekdays(),
	})
}

func (api *timetableApi) grid(ctx echo.Context) error {
	var scope timetable.Scope
	if err := ctx.Bind(&scope); err != nil {
		return errors.Wrap(err, "binding to Scope")
	}
	if err := scope.Validate(api.validate); err != nil {
		return err
	}

	grid, err := api.svc.Grid(ctx.Request().Context(), scope)
	if err != nil {
		return errors.Wrap(err, "projecting grid")
	}
	return ctx.JSON(http.StatusOK, grid)
}

func (api *timetableApi) teacherGrid(ctx echo.Context) error {
	teacherID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || teacherID <= 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "teacher_id", Error: "invalid teacher id"})
	}

	grid, err := api.svc.TeacherGrid(ctx.Request().Context(), teacherID)
	if err != nil {
		return errors.Wrap(err, "projecting teacher grid")
	}
	return ctx.JSON(http.StatusOK, grid)
}

func (api *timetableApi) query(ctx echo.Context) error {
	filter := new(timetable.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []timetable.Entry{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, timetable.IsOrderable)

	entries, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying entries")
	}
	if entries == nil {
		entries = []timetable.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *timetableApi) create(ctx echo.Context) error {
	var data timetable.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	e, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating entry")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *timetableApi) retrieve(ctx echo.Context) error {
	e, ok := ctx.Get(contextObjectKey).(timetable.Entry)
	if !ok {
		return errors.Wrap(errEntryNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *timetableApi) update(ctx echo.Context) error {
	e, ok := ctx.Get(contextObjectKey).(timetable.Entry)
	if !ok {
		return errors.Wrap(errEntryNotFoundInCtx, "retrieving object from context")
	}

	var data timetable.UpdateEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	e, err := api.svc.Update(ctx.Request().Context(), e.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating entry")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *timetableApi) destroy(ctx echo.Context) error {
	e, ok := ctx.Get(contextObjectKey).(timetable.Entry)
	if !ok {
		return errors.Wrap(errEntryNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), e.ID); err != nil {
		return errors.Wrap(err, "deleting entry")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type AxisResponse struct {
	Start       timetable.TimeSlot   `json:"start"`
	End         timetable.TimeSlot   `json:"end"`
	Granularity int                  `json:"granularity"`
	Slots       []timetable.TimeSlot `json:"slots"`
	Days        []timetable.Weekday  `json:"days"`
}
