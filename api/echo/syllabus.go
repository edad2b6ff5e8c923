package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/syllabus"
)

type syllabusAPI struct {
	svc *syllabus.Service
}

func registerSyllabusAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *syllabus.Service) {
	api := syllabusAPI{svc: svc}

	sg := g.Group("/syllabus", jwt)
	sg.GET("", api.tree)
	sg.GET("/progress", api.progress)

	sg.POST("/subjects", api.addSubjects)
	sg.GET("/subjects/:id", api.retrieveSubject)
	sg.DELETE("/subjects/:id", api.destroySubject)

	sg.POST("/subjects/:id/topics", api.addTopics)
	sg.DELETE("/subjects/:id/topics/:topicID", api.destroyTopic)

	sg.POST("/subjects/:id/topics/:topicID/subtopics", api.addSubtopics)
	sg.DELETE("/subjects/:id/topics/:topicID/subtopics/:subtopicID", api.destroySubtopic)

	sg.GET("/subtopics/:id/note", api.openNote)
	sg.PUT("/subtopics/:id/note", api.saveNote)
}

func ownerID(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (api *syllabusAPI) tree(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	subjects, err := api.svc.Tree(ctx.Request().Context(), owner)
	if err != nil {
		return errors.Wrap(err, "querying tree")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *syllabusAPI) progress(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	prog, err := api.svc.Progress(ctx.Request().Context(), owner)
	if err != nil {
		return errors.Wrap(err, "computing progress")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *syllabusAPI) addSubjects(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	var data AddItemsRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddItemsRequest")
	}
	if err = validate.Struct(&data); err != nil {
		return err
	}

	subjects, err := api.svc.AddSubjects(ctx.Request().Context(), owner, data.Names)
	if err != nil {
		return errors.Wrap(err, "adding subjects")
	}
	return ctx.JSON(http.StatusCreated, subjects)
}

func (api *syllabusAPI) retrieveSubject(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	subj, err := api.svc.GetSubject(ctx.Request().Context(), owner, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, subj)
}

func (api *syllabusAPI) destroySubject(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteSubject(ctx.Request().Context(), owner, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *syllabusAPI) addTopics(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	var data AddItemsRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddItemsRequest")
	}
	if err = validate.Struct(&data); err != nil {
		return err
	}

	topics, err := api.svc.AddTopics(ctx.Request().Context(), owner, ctx.Param("id"), data.Names)
	if err != nil {
		return errors.Wrap(err, "adding topics")
	}
	return ctx.JSON(http.StatusCreated, topics)
}

func (api *syllabusAPI) destroyTopic(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteTopic(ctx.Request().Context(), owner, ctx.Param("id"), ctx.Param("topicID")); err != nil {
		return errors.Wrap(err, "deleting topic")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *syllabusAPI) addSubtopics(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	var data AddItemsRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddItemsRequest")
	}
	if err = validate.Struct(&data); err != nil {
		return err
	}

	subtopics, err := api.svc.AddSubtopics(ctx.Request().Context(), owner, ctx.Param("id"), ctx.Param("topicID"), data.Names)
	if err != nil {
		return errors.Wrap(err, "adding subtopics")
	}
	return ctx.JSON(http.StatusCreated, subtopics)
}

func (api *syllabusAPI) destroySubtopic(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	err = api.svc.DeleteSubtopic(ctx.Request().Context(), owner, ctx.Param("id"), ctx.Param("topicID"), ctx.Param("subtopicID"))
	if err != nil {
		return errors.Wrap(err, "deleting subtopic")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *syllabusAPI) openNote(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.OpenNote(ctx.Request().Context(), owner, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *syllabusAPI) saveNote(ctx echo.Context) error {
	owner, err := ownerID(ctx)
	if err != nil {
		return err
	}
	var data SaveNoteRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveNoteRequest")
	}
	if err = validate.Struct(&data); err != nil {
		return err
	}

	st, err := api.svc.AttachNote(ctx.Request().Context(), owner, ctx.Param("id"), data.Title, data.Content)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}
