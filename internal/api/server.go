package api

import (
	"net/http"

	"github.com/CyrilRPG/diploma/internal/api/middleware"
	"github.com/CyrilRPG/diploma/internal/service"
	"github.com/CyrilRPG/diploma/internal/tasks"
)

type Server struct {
	authService *service.AuthService
	taskManager *tasks.Manager
	staticDir   string
}

func NewServer(
	authService *service.AuthService,
	taskManager *tasks.Manager,
	staticDir string,
) *Server {
	return &Server{
		authService: authService,
		taskManager: taskManager,
		staticDir:   staticDir,
	}
}

func (s *Server) Routes(adminSigningKey []byte) http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)

	// token validation routes; they are what the protected pages call
	mux.HandleFunc("GET "+ValidateRoute, s.handleValidate)
	mux.HandleFunc("GET "+GenerateLinkRoute, s.handleGenerateLink)

	// admin routes
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET "+ListAuditsRoute, s.handleAdminAudits)
	adminMux.HandleFunc("GET "+ListSessionsRoute, s.handleAdminSessions)
	adminMux.HandleFunc("GET "+ListRevocationsRoute, s.handleAdminRevocations)
	adminMux.HandleFunc("POST "+RevokeTokenRoute, s.handleAdminRevoke)
	adminMux.HandleFunc("GET "+ListTasksRoute, s.handleListTasks)
	adminMux.HandleFunc("POST "+TriggerTaskRoute, s.handleTriggerTask)
	adminMux.HandleFunc("GET "+LogsForTaskRoute, s.handleTaskLogs)
	mux.Handle(AdminParent, middleware.AdminAuth(adminSigningKey)(adminMux))

	// the protected pages themselves; their scripts consume /validate
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
