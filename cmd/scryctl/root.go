package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/paper"
	"github.com/phrazzld/scry-study/internal/platform/filestore"
	"github.com/phrazzld/scry-study/internal/platform/gemini"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/platform/speech"
	"github.com/phrazzld/scry-study/internal/prompts"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/studyplan"
)

// completerFactory creates the model client used by every command.
type completerFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (generation.Completer, error)

func geminiCompleter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (generation.Completer, error) {
	return gemini.NewClient(ctx, gemini.Config{APIKey: cfg.LLM.GeminiAPIKey, Model: cfg.LLM.ModelName}, logger)
}

// audioCloser is a speech backend that holds a client connection.
type audioCloser interface {
	service.AudioRenderer
	io.Closer
}

// cli carries the state shared by the commands of one invocation.
type cli struct {
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
	print  *printer
	in     io.Reader

	newCompleter completerFactory
	newAudio     func(ctx context.Context) (audioCloser, error)
	llm          generation.Completer
}

func newCLI(out, errOut io.Writer, in io.Reader) *cli {
	c := &cli{
		print:        &printer{out: out, err: errOut},
		in:           in,
		newCompleter: geminiCompleter,
	}
	c.newAudio = c.speech
	return c
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "scryctl",
		Short: "Study plans, quizzes and paper summaries from a language model",
		Long: `scryctl generates study plans, tests and flashcards for the courses kept
in the data directory, and summarizes papers or turns them into podcasts.

Example usage:
  scryctl plan create go --subject "Go programming" --days 30
  scryctl plan show go
  scryctl quiz go 1
  scryctl flashcards go 1 --shuffle
  scryctl summarize paper.pdf
  scryctl podcast paper.pdf --audio episode.mp3`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log model calls to stderr")

	root.AddCommand(
		newPlanCmd(c),
		newQuizCmd(c),
		newFlashcardsCmd(c),
		newSummarizeCmd(c),
		newPodcastCmd(c),
	)
	return root
}

// init loads configuration and the model client once per invocation.
func (c *cli) init(ctx context.Context) error {
	if c.cfg == nil {
		cfg, err := config.LoadLLM(c.cfgFile)
		if err != nil {
			return err
		}
		c.cfg = cfg
	}

	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	c.logger = logger.New(c.print.err, level)

	if c.llm == nil {
		llm, err := c.newCompleter(ctx, c.cfg, c.logger)
		if err != nil {
			return err
		}
		c.llm = llm
	}
	return nil
}

// backoff wraps the model client with the retry policy; retry warnings are
// printed as they happen.
func (c *cli) backoff(maxRetries int) generation.Completer {
	policy := generation.DefaultPolicy(maxRetries)
	policy.InitialDelay = time.Duration(c.cfg.LLM.RetryDelaySeconds) * time.Second
	policy.DelayFirstAttempt = c.cfg.LLM.DelayFirstAttempt
	return generation.NewBackoff(c.llm, policy, c.logger).WithNotify(func(message string) {
		c.print.Warn("%s", message)
	})
}

func (c *cli) studyService() (*service.StudyService, error) {
	llm := c.backoff(c.cfg.LLM.StudyMaxRetries)
	lib, err := c.prompts()
	if err != nil {
		return nil, err
	}

	sessions := filestore.NewSessionStore(c.cfg.Storage.DataDir, c.logger)
	progress := filestore.NewProgressStore(c.cfg.Storage.DataDir, c.logger)
	dispatcher := events.NewDispatcher(c.logger)
	dispatcher.RegisterHandler(service.NewPersistenceHandler(sessions, progress, c.logger))

	return service.NewStudyService(
		service.StudyConfig{
			QuestionsPerTest: c.cfg.LLM.QuestionsPerTest,
			FlashcardsPerDay: c.cfg.LLM.FlashcardsPerDay,
			MaxPlanDays:      c.cfg.LLM.MaxPlanDays,
		},
		studyplan.NewPlanner(llm, lib, c.cfg.LLM.PlanBatchSize, c.logger),
		llm,
		lib,
		sessions,
		progress,
		dispatcher,
		c.logger,
	)
}

// paperService builds the paper service. audio may be nil.
func (c *cli) paperService(audio service.AudioRenderer) (*service.PaperService, error) {
	lib, err := c.prompts()
	if err != nil {
		return nil, err
	}
	analyzer := paper.NewAnalyzer(c.backoff(c.cfg.LLM.PaperMaxRetries), lib, c.cfg.LLM.MaxPodcastRounds, c.logger)
	return service.NewPaperService(analyzer, audio, c.logger)
}

func (c *cli) speech(ctx context.Context) (audioCloser, error) {
	synth, err := speech.New(ctx, speech.Config{
		APIKey:          c.cfg.Speech.APIKey,
		CredentialsFile: c.cfg.Speech.CredentialsFile,
		LanguageCode:    c.cfg.Speech.LanguageCode,
		VoiceName:       c.cfg.Speech.VoiceName,
	}, c.logger)
	if err != nil {
		return nil, err
	}
	return synth, nil
}

func (c *cli) prompts() (*prompts.Library, error) {
	if c.cfg.LLM.PromptTemplateDir == "" {
		return prompts.Default(), nil
	}
	return prompts.Load(c.cfg.LLM.PromptTemplateDir)
}
