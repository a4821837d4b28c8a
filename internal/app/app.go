package app

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/mkravets/eduline/internal/config"
	"github.com/mkravets/eduline/internal/database"
	"github.com/mkravets/eduline/internal/delivery/httpd"
	"github.com/mkravets/eduline/internal/middleware"
	"github.com/mkravets/eduline/internal/render"
	"github.com/mkravets/eduline/internal/repository"
	"github.com/mkravets/eduline/internal/service"
	"github.com/mkravets/eduline/internal/service/integration"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	connector *database.Connector
	publisher integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, connector *database.Connector) (*App, error) {
	var publisher integration.EventPublisher
	if cfg.RabbitMQ.Enabled {
		var err error
		publisher, err = integration.NewRabbitMQPublisher(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.RoutingKey,
			cfg.RabbitMQ.QueueName,
			log,
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create RabbitMQ publisher")
			// Submission events are best effort, the app runs without a broker.
			publisher = nil
		}
	}

	userRepo := repository.NewUserRepository(connector, log)
	courseRepo := repository.NewCourseRepository(connector, log)
	assignmentRepo := repository.NewAssignmentRepository(connector, log)
	submissionRepo := repository.NewSubmissionRepository(connector, log)
	quizRepo := repository.NewQuizRepository(connector, log)
	attemptRepo := repository.NewQuizAttemptRepository(connector, log)
	sessionRepo := repository.NewSessionRepository(connector, log)

	authService := service.NewAuthService(userRepo, sessionRepo, cfg.Session.TTL, log)
	courseService := service.NewCourseService(courseRepo, userRepo, assignmentRepo, quizRepo, log)
	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, courseRepo, log)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, courseRepo, userRepo, publisher, log)
	quizService := service.NewQuizService(quizRepo, attemptRepo, courseRepo, userRepo, log)

	renderer, err := render.New(log)
	if err != nil {
		return nil, err
	}

	secureCookies := cfg.Server.IsProduction()

	handler := httpd.NewHandler(
		authService,
		courseService,
		assignmentService,
		submissionService,
		quizService,
		renderer,
		cfg.Session,
		secureCookies,
		log,
	)

	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	if cfg.Server.Serverless {
		router.Use(middleware.EnsureDatabase(connector, log))
	}

	router.Use(middleware.Sessions(authService, cfg.Session, secureCookies, log))
	router.Use(middleware.Flashes)

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		connector: connector,
		publisher: publisher,
	}, nil
}

// Handler exposes the configured router for serverless entrypoints.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting eduline on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down eduline...")

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if err := a.connector.Close(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close database connection")
	}

	return a.server.Shutdown(ctx)
}
