package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core"
	"github.com/integralforce/backend/core/quiz"
)

type quizApi struct {
	svc      *quiz.Service
	validate *validator.Validate
}

func registerQuizAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *quiz.Service, validate *validator.Validate) {
	api := quizApi{svc: svc, validate: validate}

	qg := g.Group("/quiz", jwt)
	qg.GET("/questions", api.queryContributed)
	qg.POST("/questions", api.addQuestion)
	qg.GET("/:difficulty", api.queryQuestions)
	qg.POST("/:difficulty/:id/answer", api.submitAnswer)
}

func (api *quizApi) queryQuestions(ctx echo.Context) error {
	qs, err := api.svc.Questions(ctx.Param("difficulty"))
	if err != nil {
		return errors.Wrap(err, "listing questions")
	}
	return ctx.JSON(http.StatusOK, qs)
}

func (api *quizApi) submitAnswer(ctx echo.Context) error {
	var data SubmitAnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitAnswerRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	res, err := api.svc.SubmitAnswer(ctx.Param("difficulty"), ctx.Param("id"), data.Answer)
	if err != nil {
		return errors.Wrap(err, "submitting answer")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *quizApi) addQuestion(ctx echo.Context) error {
	var data quiz.NewQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	reward, err := api.svc.AddQuestion(data)
	if err != nil {
		return errors.Wrap(err, "contributing question")
	}
	return ctx.JSON(http.StatusCreated, AddQuestionResponse{KPEarned: reward})
}

func (api *quizApi) queryContributed(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Pending())
}

type (
	SubmitAnswerRequest struct {
		Answer string `json:"answer" validate:"required"`
	}

	AddQuestionResponse struct {
		KPEarned int `json:"kpEarned"`
	}
)

func (r *SubmitAnswerRequest) Validate(validate *validator.Validate) error {
	r.Answer = core.CleanString(r.Answer)
	return validate.Struct(r)
}
