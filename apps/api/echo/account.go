package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core/account"
	"github.com/integralforce/backend/core/content"
)

type accountApi struct {
	svc      *account.Service
	catalog  *content.Catalog
	validate *validator.Validate
}

func registerAccountAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *account.Service, catalog *content.Catalog, validate *validator.Validate) {
	api := accountApi{svc: svc, catalog: catalog, validate: validate}

	// the leaderboard is public
	g.GET("/leaderboard", api.leaderboard)

	ag := g.Group("/account", jwt)
	ag.GET("", api.retrieve)
	ag.PUT("/level", api.updateLevel)
	ag.PUT("/interests", api.setInterests)
	ag.POST("/badges", api.addBadge)
}

func (api *accountApi) retrieve(ctx echo.Context) error {
	acct, err := api.svc.Current()
	if err != nil {
		return errors.Wrap(err, "getting current account")
	}
	return ctx.JSON(http.StatusOK, acct)
}

func (api *accountApi) updateLevel(ctx echo.Context) error {
	var data UpdateLevelRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLevelRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if err := api.svc.UpdateLevel(data.Level); err != nil {
		return errors.Wrap(err, "updating level")
	}
	return api.retrieve(ctx)
}

func (api *accountApi) setInterests(ctx echo.Context) error {
	var data SetInterestsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetInterestsRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if err := api.svc.SetInterests(data.Interests); err != nil {
		return errors.Wrap(err, "setting interests")
	}
	return api.retrieve(ctx)
}

func (api *accountApi) addBadge(ctx echo.Context) error {
	var data AddBadgeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddBadgeRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if err := api.svc.AddBadge(data.Badge); err != nil {
		return errors.Wrap(err, "adding badge")
	}
	return api.retrieve(ctx)
}

func (api *accountApi) leaderboard(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.catalog.Leaderboard())
}

type (
	UpdateLevelRequest struct {
		Level string `json:"level" validate:"required"`
	}

	SetInterestsRequest struct {
		Interests []string `json:"interests" validate:"required"`
	}

	AddBadgeRequest struct {
		Badge string `json:"badge" validate:"required"`
	}
)

func (r *UpdateLevelRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func (r *SetInterestsRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func (r *AddBadgeRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}
