package http

import (
	"github.com/gin-gonic/gin"

	appsvc "llm-workbench/internal/app"
	"llm-workbench/internal/bootstrap"
	"llm-workbench/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	llm := app.LLMConfig()
	credentialService := appsvc.NewCredentialService(app.Credentials, app.LLMClient, llm)
	chatService := appsvc.NewChatService(app.Conversations, app.Credentials, app.LLMClient, llm)
	documentService := appsvc.NewDocumentService(app.Documents, app.Credentials, app.LLMClient, llm)
	generateService := appsvc.NewGenerateService(app.Credentials, app.LLMClient, llm)

	healthHandler := handler.NewHealthHandler(app)
	credentialHandler := handler.NewCredentialHandler(credentialService)
	chatHandler := handler.NewChatHandler(chatService)
	documentHandler := handler.NewDocumentHandler(documentService)
	generateHandler := handler.NewGenerateHandler(generateService)

	router.GET("/healthz", healthHandler.Check)

	v1 := router.Group("/api/v1")

	credentialGroup := v1.Group("/credential")
	credentialGroup.GET("", credentialHandler.Get)
	credentialGroup.PUT("", credentialHandler.Save)
	credentialGroup.POST("/validate", credentialHandler.Validate)

	conversationGroup := v1.Group("/conversations")
	conversationGroup.POST("", chatHandler.CreateConversation)
	conversationGroup.GET("", chatHandler.ListConversations)
	conversationGroup.POST("/:id/select", chatHandler.SelectConversation)
	conversationGroup.POST("/:id/messages", chatHandler.SendMessage)
	conversationGroup.DELETE("/:id", chatHandler.DeleteConversation)

	documentGroup := v1.Group("/documents")
	documentGroup.POST("", documentHandler.Upload)
	documentGroup.GET("", documentHandler.ListDocuments)
	documentGroup.POST("/:id/select", documentHandler.SelectDocument)
	documentGroup.POST("/:id/summarize", documentHandler.Summarize)
	documentGroup.POST("/:id/ask", documentHandler.Ask)
	documentGroup.DELETE("/:id", documentHandler.DeleteDocument)

	generateGroup := v1.Group("/generate")
	generateGroup.POST("/blog", generateHandler.Blog)
	generateGroup.POST("/code", generateHandler.Code)

	return router
}
