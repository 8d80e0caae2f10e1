package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"llm-workbench/internal/app"
	"llm-workbench/internal/transport/http/response"
)

type GenerateHandler struct {
	generateService *app.GenerateService
}

func NewGenerateHandler(generateService *app.GenerateService) *GenerateHandler {
	return &GenerateHandler{generateService: generateService}
}

type BlogRequest struct {
	Topic  string `json:"topic" binding:"required"`
	Tone   string `json:"tone"`
	Length string `json:"length"`
}

type CodeRequest struct {
	Language string `json:"language"`
	Task     string `json:"task" binding:"required"`
}

func (h *GenerateHandler) Blog(c *gin.Context) {
	var req BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	content, err := h.generateService.Blog(c.Request.Context(), req.Topic, req.Tone, req.Length)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrTopicEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case storeFailure(c, err):
		case completionFailure(c, err):
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "generate blog failed")
		}
		return
	}

	response.OK(c, gin.H{"content": content})
}

func (h *GenerateHandler) Code(c *gin.Context) {
	var req CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.generateService.Code(c.Request.Context(), req.Language, req.Task)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrTaskEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case storeFailure(c, err):
		case completionFailure(c, err):
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "generate code failed")
		}
		return
	}

	response.OK(c, result)
}
