package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core"
	"github.com/integralforce/backend/core/staking"
)

type stakingApi struct {
	svc      *staking.Service
	validate *validator.Validate
}

func registerStakingAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *staking.Service, validate *validator.Validate) {
	api := stakingApi{svc: svc, validate: validate}

	sg := g.Group("/staking", jwt)
	sg.GET("/options", api.queryOptions)
	sg.GET("/active", api.queryActive)
	sg.POST("/stakes", api.stake)
	sg.GET("/stakes/:id/question", api.question)
	sg.POST("/stakes/:id/answer", api.answerQuestion)
	sg.POST("/stakes/:id/claim", api.claim)
}

func (api *stakingApi) queryOptions(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Options())
}

func (api *stakingApi) queryActive(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Active())
}

func (api *stakingApi) stake(ctx echo.Context) error {
	var data StakeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StakeRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	stake, err := api.svc.Stake(data.OptionID)
	if err != nil {
		return errors.Wrap(err, "staking")
	}
	return ctx.JSON(http.StatusCreated, stake)
}

func (api *stakingApi) question(ctx echo.Context) error {
	q, err := api.svc.Question(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching staking question")
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *stakingApi) answerQuestion(ctx echo.Context) error {
	var data StakeAnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StakeAnswerRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	res, err := api.svc.AnswerQuestion(ctx.Param("id"), data.QuestionID, data.Answer)
	if err != nil {
		return errors.Wrap(err, "answering staking question")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *stakingApi) claim(ctx echo.Context) error {
	earned, err := api.svc.Claim(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "claiming stake")
	}
	return ctx.JSON(http.StatusOK, ClaimResponse{KPEarned: earned})
}

type (
	StakeRequest struct {
		OptionID string `json:"optionId" validate:"required"`
	}

	StakeAnswerRequest struct {
		QuestionID string `json:"questionId" validate:"required"`
		Answer     string `json:"answer" validate:"required"`
	}

	ClaimResponse struct {
		KPEarned int `json:"kpEarned"`
	}
)

func (r *StakeRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func (r *StakeAnswerRequest) Validate(validate *validator.Validate) error {
	r.Answer = core.CleanString(r.Answer)
	return validate.Struct(r)
}
