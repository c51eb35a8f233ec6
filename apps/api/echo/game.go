package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core/game"
)

type gameApi struct {
	svc      *game.Service
	validate *validator.Validate
}

func registerGameAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *game.Service, validate *validator.Validate) {
	api := gameApi{svc: svc, validate: validate}

	gg := g.Group("/games", jwt)
	gg.GET("", api.query)
	gg.POST("/:id/start", api.start)
	gg.POST("/sessions/:id/answer", api.submitAnswer)
	gg.POST("/sessions/:id/finish", api.finish)
}

func (api *gameApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Games())
}

func (api *gameApi) start(ctx echo.Context) error {
	sess, err := api.svc.Start(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "starting game")
	}
	return ctx.JSON(http.StatusCreated, sess)
}

func (api *gameApi) submitAnswer(ctx echo.Context) error {
	var data GameAnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GameAnswerRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if err := api.svc.SubmitAnswer(ctx.Param("id"), *data.AnswerIndex); err != nil {
		return errors.Wrap(err, "submitting game answer")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "answer recorded"})
}

func (api *gameApi) finish(ctx echo.Context) error {
	res, err := api.svc.Finish(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finishing game")
	}
	return ctx.JSON(http.StatusOK, res)
}

// GameAnswerRequest carries the option index; a pointer so index 0 passes
// the required check.
type GameAnswerRequest struct {
	AnswerIndex *int `json:"answerIndex" validate:"required,min=0"`
}

func (r *GameAnswerRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}
