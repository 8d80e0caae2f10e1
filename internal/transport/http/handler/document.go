package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"llm-workbench/internal/app"
	"llm-workbench/internal/transport/http/response"
)

type DocumentHandler struct {
	documentService *app.DocumentService
}

func NewDocumentHandler(documentService *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file upload")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "open upload failed")
		return
	}
	defer f.Close()

	doc, err := h.documentService.Upload(fileHeader.Filename, f)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoReadableText):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "upload failed: "+err.Error())
		}
		return
	}

	response.OK(c, doc)
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	response.OK(c, h.documentService.ListDocuments())
}

func (h *DocumentHandler) SelectDocument(c *gin.Context) {
	h.documentService.SelectDocument(c.Param("id"))

	if selected, ok := h.documentService.SelectedDocument(); ok {
		response.OK(c, selected)
		return
	}
	response.OK(c, nil)
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id := c.Param("id")
	confirmed := c.Query("confirm") == "true"

	if err := h.documentService.RemoveDocument(id, confirmed); err != nil {
		if !storeFailure(c, err) {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete document failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_document_id": id})
}

func (h *DocumentHandler) Summarize(c *gin.Context) {
	id := c.Param("id")

	summary, err := h.documentService.Summarize(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case storeFailure(c, err):
		case completionFailure(c, err):
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "summarize failed")
		}
		return
	}

	response.OK(c, gin.H{"summary": summary})
}

func (h *DocumentHandler) Ask(c *gin.Context) {
	id := c.Param("id")

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	answer, err := h.documentService.Ask(c.Request.Context(), id, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrQuestionEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case storeFailure(c, err):
		case completionFailure(c, err):
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ask failed")
		}
		return
	}

	response.OK(c, gin.H{"answer": answer})
}
