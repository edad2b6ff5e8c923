package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/community"
	"github.com/trezcool/darasa/core/user"
	notifysvc "github.com/trezcool/darasa/services/notifier"
)

var errUnknownKind = echo.NewHTTPError(http.StatusBadRequest, "unknown post kind")

type communityAPI struct {
	svc           *community.Service
	userSvc       *user.Service
	notifications *notifysvc.Store
}

func registerCommunityAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := communityAPI{
		svc:           opts.CommunitySvc,
		userSvc:       opts.UserSvc,
		notifications: opts.Notifications,
	}

	// reading and sharing work logged out; posts are then attributed to the
	// anonymous user.
	cg := g.Group("/community", optionalJWTMiddleware())
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.POST("/share", api.share)

	// interactions require an account
	cg.POST("/:id/like", api.toggleLike, jwt)
	cg.POST("/:id/comments", api.comment, jwt)
	cg.POST("/:id/incorporate", api.incorporate, jwt)
	cg.DELETE("/:id", api.destroy, jwt)

	g.GET("/notifications", api.listNotifications, jwt)
}

func (api *communityAPI) query(ctx echo.Context) error {
	viewer := getContextActor(ctx, api.userSvc)
	posts, err := api.svc.Query(ctx.Request().Context(), ctx.QueryParam("filter"), ctx.QueryParam("sort"))
	if err != nil {
		return errors.Wrap(err, "querying posts")
	}
	return ctx.JSON(http.StatusOK, newPostResponses(posts, viewer.ID))
}

func (api *communityAPI) retrieve(ctx echo.Context) error {
	viewer := getContextActor(ctx, api.userSvc)
	p, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newPostResponse(p, viewer.ID))
}

func (api *communityAPI) share(ctx echo.Context) error {
	actor := getContextActor(ctx, api.userSvc)

	var data ShareRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ShareRequest")
	}
	if err := validate.Struct(&data); err != nil {
		return err
	}
	if !community.ValidKind(data.Kind) {
		return errUnknownKind
	}

	rctx := ctx.Request().Context()
	var p community.Post
	var err error
	switch data.Kind {
	case community.KindNote:
		p, err = api.svc.ShareNote(rctx, actor, data.NoteID)
	case community.KindNotes:
		p, err = api.svc.ShareNotes(rctx, actor, data.NoteIDs)
	case community.KindSubject:
		p, err = api.svc.ShareSubject(rctx, actor, actor.ID, data.SubjectID)
	case community.KindTopic:
		p, err = api.svc.ShareTopic(rctx, actor, actor.ID, data.SubjectID, data.TopicID)
	case community.KindTopics:
		p, err = api.svc.ShareTopics(rctx, actor, actor.ID, data.SubjectID)
	case community.KindSubtopic:
		p, err = api.svc.ShareSubtopic(rctx, actor, actor.ID, data.SubtopicID)
	case community.KindSubtopics:
		p, err = api.svc.ShareSubtopics(rctx, actor, actor.ID, data.SubjectID, data.TopicID)
	case community.KindSyllabus:
		p, err = api.svc.ShareSyllabus(rctx, actor, actor.ID)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, newPostResponse(p, actor.ID))
}

func (api *communityAPI) toggleLike(ctx echo.Context) error {
	viewer, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	p, err := api.svc.ToggleLike(ctx.Request().Context(), ctx.Param("id"), viewer)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newPostResponse(p, viewer.ID))
}

func (api *communityAPI) comment(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	var data CommentRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CommentRequest")
	}

	p, err := api.svc.AddComment(ctx.Request().Context(), ctx.Param("id"), actor, data.Content)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newPostResponse(p, actor.ID))
}

func (api *communityAPI) incorporate(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	p, err := api.svc.Incorporate(ctx.Request().Context(), ctx.Param("id"), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newPostResponse(p, actor.ID))
}

func (api *communityAPI) destroy(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), actor); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *communityAPI) listNotifications(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	events := api.notifications.Recent(claims.Subject)
	if events == nil {
		events = []core.Notification{}
	}
	return ctx.JSON(http.StatusOK, events)
}
