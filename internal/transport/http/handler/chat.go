package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"llm-workbench/internal/app"
	"llm-workbench/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type CreateConversationRequest struct {
	Title string `json:"title" binding:"max=128"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *ChatHandler) CreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	conv, err := h.chatService.CreateConversation(req.Title)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create conversation failed")
		return
	}

	response.OK(c, conv)
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	response.OK(c, h.chatService.ListConversations())
}

func (h *ChatHandler) SelectConversation(c *gin.Context) {
	id := c.Param("id")
	h.chatService.SelectConversation(id)

	if selected, ok := h.chatService.SelectedConversation(); ok {
		response.OK(c, selected)
		return
	}
	response.OK(c, nil)
}

func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	id := c.Param("id")
	confirmed := c.Query("confirm") == "true"

	if err := h.chatService.RemoveConversation(id, confirmed); err != nil {
		if !storeFailure(c, err) {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete conversation failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_conversation_id": id})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	id := c.Param("id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), id, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMessageEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrConversationNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case storeFailure(c, err):
		case completionFailure(c, err):
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "send message failed")
		}
		return
	}

	response.OK(c, result)
}
