package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-study/internal/auth"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/paper"
	"github.com/phrazzld/scry-study/internal/platform/filestore"
	"github.com/phrazzld/scry-study/internal/platform/gemini"
	"github.com/phrazzld/scry-study/internal/platform/metrics"
	"github.com/phrazzld/scry-study/internal/platform/speech"
	"github.com/phrazzld/scry-study/internal/platform/telemetry"
	"github.com/phrazzld/scry-study/internal/prompts"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/phrazzld/scry-study/internal/studyplan"
)

// application holds the shared dependencies of the server and releases
// them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Stores shared by every session
	sessionStore  store.SessionStore
	progressStore store.ProgressStore
	dispatcher    *events.Dispatcher
	prompts       *prompts.Library

	// Optional; nil when speech is disabled
	speech *speech.Synthesizer

	jwtService  auth.JWTService
	credentials *auth.Credentials
	sessions    *session.Registry

	shutdownTracing telemetry.ShutdownFunc
}

// newApplication creates the stores, the event dispatcher and the session
// registry. Language model clients are created per session at login.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.credentials = auth.NewCredentials(cfg.Auth.Username, cfg.Auth.PasswordHash, auth.NewBcryptVerifier())
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.prompts = prompts.Default()
	if cfg.LLM.PromptTemplateDir != "" {
		app.prompts, err = prompts.Load(cfg.LLM.PromptTemplateDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load prompt templates: %w", err)
		}
		logger.Info("prompt templates loaded", "dir", cfg.LLM.PromptTemplateDir)
	}

	app.sessionStore = filestore.NewSessionStore(cfg.Storage.DataDir, logger)
	app.progressStore = filestore.NewProgressStore(cfg.Storage.DataDir, logger)

	app.dispatcher = events.NewDispatcher(logger)
	app.dispatcher.RegisterHandler(service.NewPersistenceHandler(app.sessionStore, app.progressStore, logger))

	if cfg.Speech.Enabled {
		app.speech, err = speech.New(ctx, speech.Config{
			APIKey:          cfg.Speech.APIKey,
			CredentialsFile: cfg.Speech.CredentialsFile,
			LanguageCode:    cfg.Speech.LanguageCode,
			VoiceName:       cfg.Speech.VoiceName,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize speech synthesis: %w", err)
		}
		logger.Info("speech synthesis enabled", "language", cfg.Speech.LanguageCode)
	}

	app.sessions = session.NewRegistry(
		cfg.Session.MaxSessions,
		time.Duration(cfg.Session.TTLMinutes)*time.Minute,
		cfg.LLM.GeminiAPIKey,
		app.buildWorkspace,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// buildWorkspace creates the model client and services of one session.
func (app *application) buildWorkspace(ctx context.Context, apiKey string) (*session.Workspace, error) {
	cfg := app.config.LLM

	client, err := gemini.NewClient(ctx, gemini.Config{APIKey: apiKey, Model: cfg.ModelName},
		app.logger.With("component", "gemini_client"))
	if err != nil {
		return nil, err
	}
	return app.newWorkspace(client, client.Model())
}

// newWorkspace wires the services of a session around llm.
func (app *application) newWorkspace(llm generation.Completer, model string) (*session.Workspace, error) {
	cfg := app.config.LLM
	countRetry := func(string) { metrics.LLMRetriesTotal.Inc() }

	studyPolicy := generation.DefaultPolicy(cfg.StudyMaxRetries)
	studyPolicy.InitialDelay = time.Duration(cfg.RetryDelaySeconds) * time.Second
	studyPolicy.DelayFirstAttempt = cfg.DelayFirstAttempt
	studyLLM := generation.NewBackoff(llm, studyPolicy, app.logger).WithNotify(countRetry)

	paperPolicy := studyPolicy
	paperPolicy.MaxRetries = cfg.PaperMaxRetries
	paperLLM := generation.NewBackoff(llm, paperPolicy, app.logger).WithNotify(countRetry)

	study, err := service.NewStudyService(
		service.StudyConfig{
			QuestionsPerTest: cfg.QuestionsPerTest,
			FlashcardsPerDay: cfg.FlashcardsPerDay,
			MaxPlanDays:      cfg.MaxPlanDays,
		},
		studyplan.NewPlanner(studyLLM, app.prompts, cfg.PlanBatchSize, app.logger),
		studyLLM,
		app.prompts,
		app.sessionStore,
		app.progressStore,
		app.dispatcher,
		app.logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	var audio service.AudioRenderer
	if app.speech != nil {
		audio = app.speech
	}
	papers, err := service.NewPaperService(
		paper.NewAnalyzer(paperLLM, app.prompts, cfg.MaxPodcastRounds, app.logger),
		audio,
		app.logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create paper service: %w", err)
	}

	return &session.Workspace{Study: study, Papers: papers, Model: model}, nil
}

// Run serves HTTP until ctx ends or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the speech client and flushes pending spans.
func (app *application) cleanup() {
	if app.speech != nil {
		if err := app.speech.Close(); err != nil {
			app.logger.Error("Error closing speech client", "error", err)
		}
	}

	if app.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.shutdownTracing(ctx); err != nil {
			app.logger.Error("Error flushing traces", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
