package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"kidassess/internal/narration"
	"kidassess/internal/repository"
	"kidassess/internal/service"
	"kidassess/internal/transport/rest/handler"
	"kidassess/internal/transport/rest/middleware"
	"kidassess/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	QuestionService   *service.QuestionService
	AssessmentService *service.AssessmentService
	ImageRepo         repository.ImageRepo
	TTS               *narration.TTSClient
	WSHandler         *ws.Handler
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	questionHandler := handler.NewQuestionHandler(c.QuestionService)
	imageHandler := handler.NewImageHandler(c.ImageRepo)
	audioHandler := handler.NewAudioHandler(c.TTS)
	sessionHandler := handler.NewSessionHandler(c.AssessmentService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/categories", questionHandler.Categories).Methods("GET", "OPTIONS")
	v1.HandleFunc("/images/{imageId}", imageHandler.Get).Methods("GET")
	v1.HandleFunc("/audio/{clipKey}", audioHandler.Clip).Methods("GET")

	// Respondent session routes (public: the respondent device carries no
	// credentials)
	v1.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}", sessionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}", sessionHandler.End).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/next", sessionHandler.Next).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/previous", sessionHandler.Previous).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/filter", sessionHandler.Filter).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/select", sessionHandler.Select).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/repeat", sessionHandler.Repeat).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{sessionId}/narrated", sessionHandler.Narrated).Methods("POST", "OPTIONS")

	// Observer WebSocket (operator token in query param)
	v1.HandleFunc("/ws/sessions/{sessionId}/observe", c.WSHandler.ObserveWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authoring routes (require operator auth)
	operatorRoutes := v1.NewRoute().Subrouter()
	operatorRoutes.Use(authMW.RequireOperator)

	operatorRoutes.HandleFunc("/questions", questionHandler.Create).Methods("POST", "OPTIONS")
	operatorRoutes.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/questions/{questionId}", questionHandler.Get).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/questions/{questionId}", questionHandler.Update).Methods("PUT", "OPTIONS")
	operatorRoutes.HandleFunc("/questions/{questionId}", questionHandler.Delete).Methods("DELETE", "OPTIONS")
	operatorRoutes.HandleFunc("/images/crop", imageHandler.Crop).Methods("POST", "OPTIONS")
	operatorRoutes.HandleFunc("/sessions/{sessionId}/answers", sessionHandler.Answers).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
