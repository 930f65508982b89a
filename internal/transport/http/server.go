package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"medilexica/internal/ai"
	appsvc "medilexica/internal/app"
	"medilexica/internal/bootstrap"
	"medilexica/internal/imagesearch"
	"medilexica/internal/repository"
	"medilexica/internal/transport/http/handler"
	"medilexica/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	answerService := appsvc.NewAnswerService(
		ai.NewOpenAICompatibleClient(),
		ai.ChatConfig{
			BaseURL: app.Config.LLM.BaseURL,
			APIKey:  app.Config.LLM.APIKey,
			Model:   app.Config.LLM.Model,
		},
		imagesearch.NewClient(imagesearch.Config{
			AccessKey: app.Config.Unsplash.AccessKey,
			BaseURL:   app.Config.Unsplash.BaseURL,
		}),
	)
	glossaryService := appsvc.NewGlossaryService(repository.NewGlossaryRepository(app.MySQL))

	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(answerService, app.Sessions, app.SnapshotPublisher)
	glossaryHandler := handler.NewGlossaryHandler(glossaryService)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/signin", authHandler.SignIn)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	chatGroup := v1.Group("/chat")
	chatGroup.POST("/ask", middleware.OptionalAuthJWT(app.Config.Auth.JWTSecret), chatHandler.Ask)
	chatGroup.GET("/sessions", middleware.AuthJWT(app.Config.Auth.JWTSecret), chatHandler.ListSessions)

	v1.GET("/languages", chatHandler.Languages)
	v1.GET("/glossary", glossaryHandler.Search)

	return router
}
