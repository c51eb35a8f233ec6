package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core"
	"github.com/integralforce/backend/core/chat"
)

type chatApi struct {
	svc      *chat.Service
	validate *validator.Validate
}

func registerChatAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *chat.Service, validate *validator.Validate) {
	api := chatApi{svc: svc, validate: validate}

	cg := g.Group("/chat", jwt)
	cg.GET("", api.query)
	cg.POST("/sessions", api.startSession)
	cg.POST("/sessions/:id/messages", api.sendMessage)
	cg.DELETE("/sessions/:id", api.endSession)
	cg.POST("/questions", api.generateQuestion)
	cg.POST("/evaluations", api.evaluateAnswer)
}

func (api *chatApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Chats())
}

func (api *chatApi) startSession(ctx echo.Context) error {
	var data StartChatRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StartChatRequest")
	}
	sess, err := api.svc.StartSession(data.ChatID)
	if err != nil {
		return errors.Wrap(err, "starting chat session")
	}
	return ctx.JSON(http.StatusCreated, sess)
}

func (api *chatApi) sendMessage(ctx echo.Context) error {
	var data ChatMessageRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatMessageRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	msg, err := api.svc.SendMessage(ctx.Request().Context(), ctx.Param("id"), data.Message)
	if err != nil {
		return errors.Wrap(err, "sending chat message")
	}
	return ctx.JSON(http.StatusOK, msg)
}

func (api *chatApi) endSession(ctx echo.Context) error {
	api.svc.EndSession(ctx.Param("id"))
	return ctx.NoContent(http.StatusNoContent)
}

func (api *chatApi) generateQuestion(ctx echo.Context) error {
	var data GenerateQuestionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateQuestionRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	q, err := api.svc.GenerateQuestion(ctx.Request().Context(), data.Topic)
	if err != nil {
		return errors.Wrap(err, "generating question")
	}
	return ctx.JSON(http.StatusOK, GenerateQuestionResponse{Question: q})
}

func (api *chatApi) evaluateAnswer(ctx echo.Context) error {
	var data EvaluateAnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EvaluateAnswerRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	eval, err := api.svc.EvaluateAnswer(ctx.Request().Context(), data.Question, data.Answer)
	if err != nil {
		return errors.Wrap(err, "evaluating answer")
	}
	return ctx.JSON(http.StatusOK, eval)
}

type (
	StartChatRequest struct {
		ChatID string `json:"chatId"` // empty opens an ad-hoc session
	}

	ChatMessageRequest struct {
		Message string `json:"message" validate:"required"`
	}

	GenerateQuestionRequest struct {
		Topic string `json:"topic" validate:"required"`
	}

	GenerateQuestionResponse struct {
		Question string `json:"question"`
	}

	EvaluateAnswerRequest struct {
		Question string `json:"question" validate:"required"`
		Answer   string `json:"answer" validate:"required"`
	}
)

func (r *ChatMessageRequest) Validate(validate *validator.Validate) error {
	r.Message = core.CleanString(r.Message)
	return validate.Struct(r)
}

func (r *GenerateQuestionRequest) Validate(validate *validator.Validate) error {
	r.Topic = core.CleanString(r.Topic)
	return validate.Struct(r)
}

func (r *EvaluateAnswerRequest) Validate(validate *validator.Validate) error {
	r.Question = core.CleanString(r.Question)
	r.Answer = core.CleanString(r.Answer)
	return validate.Struct(r)
}
