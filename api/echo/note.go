package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/note"
)

type noteAPI struct {
	svc *note.Service
}

func registerNoteAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *note.Service) {
	api := noteAPI{svc: svc}

	ng := g.Group("/notes", jwt)
	ng.GET("", api.query)
	ng.POST("", api.upsert)
	ng.GET("/:id", api.retrieve)
	ng.DELETE("/:id", api.destroy)
}

func (api *noteAPI) query(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	notes, err := api.svc.Search(ctx.Request().Context(), owner, ctx.QueryParam("search"))
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *noteAPI) upsert(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	var data UpsertNoteRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpsertNoteRequest")
	}
	if err = validate.Struct(&data); err != nil {
		return err
	}

	// an existing id must belong to the caller
	if data.ID != "" {
		existing, err := api.svc.Get(ctx.Request().Context(), data.ID)
		if err != nil {
			return err
		}
		if existing.OwnerID != owner {
			return errHTTPForbidden
		}
	}

	n, err := api.svc.Upsert(ctx.Request().Context(), note.Note{
		ID:        data.ID,
		OwnerID:   owner,
		Title:     data.Title,
		Content:   data.Content,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "saving note")
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *noteAPI) retrieve(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if n.OwnerID != owner {
		return errHTTPNotFound
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *noteAPI) destroy(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == note.ErrNotFound {
			return ctx.NoContent(http.StatusNoContent)
		}
		return err
	}
	if n.OwnerID != owner {
		return errHTTPNotFound
	}
	if err = api.svc.Delete(ctx.Request().Context(), n.ID); err != nil {
		return errors.Wrap(err, "deleting note")
	}
	return ctx.NoContent(http.StatusNoContent)
}
