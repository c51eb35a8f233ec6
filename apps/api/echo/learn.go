package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core/learn"
)

type learnApi struct {
	svc      *learn.Service
	validate *validator.Validate
}

func registerLearnAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *learn.Service, validate *validator.Validate) {
	api := learnApi{svc: svc, validate: validate}

	lg := g.Group("/learn", jwt)
	lg.GET("/articles", api.queryArticles)
	lg.GET("/articles/:id", api.retrieveArticle)
	lg.POST("/articles/:id/complete", api.completeReading)
	lg.POST("/articles", api.publishArticle)
	lg.GET("/published", api.queryPublished)
}

func (api *learnApi) queryArticles(ctx echo.Context) error {
	arts, err := api.svc.Articles()
	if err != nil {
		return errors.Wrap(err, "listing articles")
	}
	return ctx.JSON(http.StatusOK, arts)
}

func (api *learnApi) retrieveArticle(ctx echo.Context) error {
	art, err := api.svc.Article(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding article")
	}
	return ctx.JSON(http.StatusOK, art)
}

func (api *learnApi) completeReading(ctx echo.Context) error {
	awarded, err := api.svc.CompleteReading(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "completing reading")
	}
	return ctx.JSON(http.StatusOK, CompleteReadingResponse{KPEarned: awarded})
}

func (api *learnApi) publishArticle(ctx echo.Context) error {
	var data learn.NewArticle
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewArticle")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	art, err := api.svc.PublishArticle(data)
	if err != nil {
		return errors.Wrap(err, "publishing article")
	}
	return ctx.JSON(http.StatusCreated, art)
}

func (api *learnApi) queryPublished(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Published())
}

type CompleteReadingResponse struct {
	KPEarned int `json:"kpEarned"`
}
