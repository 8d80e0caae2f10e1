package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"llm-workbench/internal/app"
	"llm-workbench/internal/store"
	"llm-workbench/internal/transport/http/response"
)

type CredentialHandler struct {
	credentialService *app.CredentialService
}

func NewCredentialHandler(credentialService *app.CredentialService) *CredentialHandler {
	return &CredentialHandler{credentialService: credentialService}
}

type SaveCredentialRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

type ValidateCredentialRequest struct {
	APIKey string `json:"api_key"`
}

func (h *CredentialHandler) Get(c *gin.Context) {
	response.OK(c, gin.H{
		"saved":          h.credentialService.Saved(),
		"api_key_masked": h.credentialService.Masked(),
	})
}

func (h *CredentialHandler) Save(c *gin.Context) {
	var req SaveCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := h.credentialService.Save(req.APIKey); err != nil {
		switch {
		case errors.Is(err, store.ErrEmptyCredential):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "save credential failed")
		}
		return
	}

	response.OK(c, gin.H{"api_key_masked": h.credentialService.Masked()})
}

func (h *CredentialHandler) Validate(c *gin.Context) {
	var req ValidateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.credentialService.Validate(c.Request.Context(), req.APIKey)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmptyCredential):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no api key to validate")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "validate credential failed")
		}
		return
	}

	response.OK(c, result)
}
