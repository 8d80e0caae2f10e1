package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"llm-workbench/internal/ai"
	"llm-workbench/internal/app"
	"llm-workbench/internal/store"
	"llm-workbench/internal/transport/http/response"
)

// completionFailure maps a classified completion error onto the response
// envelope. Returns false when the error is not a completion failure.
func completionFailure(c *gin.Context, err error) bool {
	var compErr *ai.CompletionError
	if !errors.As(err, &compErr) {
		return false
	}
	switch compErr.Kind {
	case ai.FailureNetwork:
		response.Error(c, http.StatusBadGateway, response.CodeNetworkError, compErr.Message)
	case ai.FailureMalformed:
		response.Error(c, http.StatusBadGateway, response.CodeMalformedResponse, compErr.Message)
	default:
		response.Error(c, http.StatusBadGateway, response.CodeProviderError, compErr.Message)
	}
	return true
}

// storeFailure maps shared store/service errors. Returns false when the
// error needs handler-specific treatment.
func storeFailure(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, store.ErrNotConfirmed):
		response.Error(c, http.StatusBadRequest, response.CodeNotConfirmed, err.Error())
	case errors.Is(err, store.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrNoCredential):
		response.Error(c, http.StatusBadRequest, response.CodeNoCredential, err.Error())
	default:
		return false
	}
	return true
}
