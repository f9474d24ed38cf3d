package router

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"iqroai/config"
	"iqroai/database"
	"iqroai/handlers"
	assessment_handlers "iqroai/handlers/assessment"
	assistant_handlers "iqroai/handlers/assistant"
	auth_handlers "iqroai/handlers/auth"
	chat_handlers "iqroai/handlers/chat"
	progress_handlers "iqroai/handlers/progress"
	report_handlers "iqroai/handlers/report"
	subject_handlers "iqroai/handlers/subject"
	test_handlers "iqroai/handlers/test"
	"iqroai/model"
	"iqroai/services"
	"iqroai/services/anthropic"
	"iqroai/utils/auth"
	"iqroai/utils/cache"
	"iqroai/utils/middleware"
	"iqroai/utils/validation"
)

// SetupRoutes wires services, handlers and middleware onto the app.
// Route paths match the contract the existing front end depends on.
func SetupRoutes(app *fiber.App, store database.Storage, getEnv *config.EnviornmentVariable) {
	jwtIssuer := getEnv.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "iqroai-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: getEnv.SECRET_KEY,
		Expiry: auth.DefaultAccessTokenTTL,
		Issuer: jwtIssuer,
	})

	db := store.GetDB()
	validator := validation.NewValidator()

	// Redis backs login lockout; the API stays functional without it
	var bruteForceProtection *middleware.BruteForceProtection
	if getEnv.REDIS_URL != "" {
		redisCache, err := cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
		} else {
			bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Services
	modelClient := anthropic.NewClient(getEnv.ANTHROPIC_API_KEY)
	contextService := services.NewContextService(db)
	chatService := services.NewChatService(db)
	assistantService := services.NewAssistantService(db, modelClient, chatService, contextService)
	reportService := services.NewReportService(db, modelClient, contextService)

	// Handlers
	registerHandler := auth_handlers.NewRegisterHandler(db, validator)
	tokenHandler := auth_handlers.NewTokenHandler(db, jwtManager, bruteForceProtection)
	profileHandler := auth_handlers.NewProfileHandler(db)
	subjectHandler := subject_handlers.NewHandler(db, validator)
	testHandler := test_handlers.NewHandler(db, validator)
	assessmentHandler := assessment_handlers.NewHandler(db)
	progressHandler := progress_handlers.NewHandler(db, validator)
	chatHandler := chat_handlers.NewHandler(chatService)
	assistantHandler := assistant_handlers.NewHandler(assistantService)
	reportHandler := report_handlers.NewHandler(db, reportService)

	// Global middleware
	app.Use(middleware.SetupCORS())
	app.Use(middleware.SetupRateLimiter())

	// Health check (public)
	app.Get("/ping", handlers.HealthCheck(store))

	// Registration (public)
	app.Post("/register_student", registerHandler.RegisterStudent)
	app.Post("/register_parent", registerHandler.RegisterParent)
	app.Post("/register_teacher", registerHandler.RegisterTeacher)

	// Token issuance (public, with login lockout when Redis is up)
	if bruteForceProtection != nil {
		app.Post("/token", bruteForceProtection.CheckLoginAttempts(), tokenHandler.Login)
	} else {
		app.Post("/token", tokenHandler.Login)
	}

	// Profile
	app.Get("/users/me", authMiddleware.Required(), profileHandler.GetMe)
	app.Put("/users/me", authMiddleware.Required(), profileHandler.UpdateMe)

	// Subjects (reads for any authenticated user, mutation admin only)
	app.Get("/subjects", authMiddleware.Required(), subjectHandler.List)
	app.Post("/subjects", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleAdmin), subjectHandler.Create)
	app.Put("/subjects/:id", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleAdmin), subjectHandler.Update)
	app.Delete("/subjects/:id", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleAdmin), subjectHandler.Delete)

	// Schedule and book material (public)
	app.Post("/schedule_and_books", subjectHandler.CreateScheduleAndBook)

	// Tests
	app.Post("/tests", testHandler.Create)
	app.Get("/tests", authMiddleware.Required(), testHandler.List)
	app.Get("/tests/:id", authMiddleware.Required(), testHandler.Get)
	app.Put("/tests/:id", authMiddleware.Required(), testHandler.Update)

	// Test results
	app.Post("/test_results", testHandler.CreateResult)
	app.Get("/test_results/:user_id", testHandler.ListResults)
	app.Put("/test_results/:id", testHandler.UpdateResult)

	// Psychological assessments
	app.Get("/psychological_assessments", authMiddleware.Required(), assessmentHandler.List)
	app.Get("/psychological_assessments/:id", authMiddleware.Required(), assessmentHandler.Get)
	app.Put("/psychological_assessments/:id", authMiddleware.Required(), assessmentHandler.Update)

	// Student progress
	app.Get("/student_progress/:student_id", progressHandler.ListForStudent)
	app.Post("/student_progress", authMiddleware.Required(),
		authMiddleware.RequireRole(model.RoleTeacher, model.RoleAdmin), progressHandler.Create)
	app.Put("/student_progress/:id", authMiddleware.Required(),
		authMiddleware.RequireRole(model.RoleTeacher, model.RoleAdmin), progressHandler.Update)

	// AI tutoring and reporting
	app.Post("/ai_assistant", authMiddleware.Required(), assistantHandler.Query)
	app.Post("/ai_hisobot", authMiddleware.Required(), reportHandler.Generate)
	app.Get("/student_reports", authMiddleware.Required(), reportHandler.List)

	// Chats
	app.Get("/chats", authMiddleware.Required(), chatHandler.List)
	app.Get("/chats/:id/messages", authMiddleware.Required(), chatHandler.Messages)
	app.Post("/chats/:id/messages", authMiddleware.Required(), chatHandler.AddMessage)
	app.Put("/chats/:id", authMiddleware.Required(), chatHandler.Rename)
	app.Delete("/chats/:id", authMiddleware.Required(), chatHandler.Delete)
}
