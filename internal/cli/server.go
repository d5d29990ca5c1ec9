package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/alphamano814/exam-jyoti/internal/app"
	"github.com/alphamano814/exam-jyoti/internal/config"
	"github.com/alphamano814/exam-jyoti/internal/domain"
	"github.com/alphamano814/exam-jyoti/internal/infra/memory"
	"github.com/alphamano814/exam-jyoti/internal/infra/postgres"
	redisinfra "github.com/alphamano814/exam-jyoti/internal/infra/redis"
	transport "github.com/alphamano814/exam-jyoti/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	serveCtx, stopServices := context.WithCancel(ctx)
	defer stopServices()

	// Question reads: Postgres when configured, the built-in demo bank
	// otherwise; Redis in front when available.
	var questionRepo app.QuestionRepository = memory.NewQuestionBank(sampleQuestions())
	if pool != nil {
		questionRepo = postgres.NewQuestionStore(pool)
	}
	if redisClient != nil {
		cache := redisinfra.NewQuestionCache(redisClient, questionRepo, config.Duration(cfg.Quiz.CacheTTL, 10*time.Minute))
		cache.ListenChanges(serveCtx)
		questionRepo = cache
	}

	// Results and leaderboard aggregates.
	var sink app.ResultSink
	var leaderboard app.LeaderboardReader
	var exams app.ExamStore
	var adminHandler *transport.AdminHandler
	if pool != nil {
		store := postgres.NewResultStore(pool)
		sink, leaderboard = store, store

		bunDB := postgres.NewBunDB(cfg.Postgres.URL)
		defer bunDB.Close()
		adminStore := postgres.NewAdminStore(bunDB)
		exams = adminStore

		var feed transport.ChangePublisher
		if redisClient != nil {
			feed = redisinfra.NewChangeFeed(redisClient)
		}
		adminHandler = transport.NewAdminHandler(adminStore, adminStore, feed, cfg.Admin.Token)
	} else {
		store := memory.NewResultStore()
		sink, leaderboard = store, store
		exams = memory.NewExamStore()
	}
	if redisClient != nil {
		leaderboard = redisinfra.NewLeaderboardCache(redisClient, leaderboard, config.Duration(cfg.Quiz.LeaderboardTTL, 30*time.Second))
	}

	engine := app.NewDailyEngine(questionRepo, sink,
		app.WithAdvanceDelay(config.Duration(cfg.Quiz.AdvanceDelay, app.DefaultAdvanceDelay)))
	practice := app.NewPracticeService(questionRepo, sink)

	apiHandler := transport.NewAPIHandler(engine, practice, leaderboard, exams)
	wsHandler := transport.NewWSHandler(engine)
	router := transport.NewRouter(apiHandler, adminHandler, wsHandler)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting exam-jyoti on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	stopServices()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestions seeds the demo bank used when no Postgres is configured:
// one question per category plus a second for nepal-history, which is just
// enough for a full daily quiz.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID: "demo-universe-1", Category: domain.CategoryUniverse,
			Prompt:  "Which planet is known as the Red Planet?",
			OptionA: "Venus", OptionB: "Mars", OptionC: "Jupiter", OptionD: "Saturn",
			CorrectOption: domain.OptionB,
		},
		{
			ID: "demo-geography-1", Category: domain.CategoryGeography,
			Prompt:  "Which is the highest mountain in the world?",
			OptionA: "Mount Everest", OptionB: "K2", OptionC: "Kanchenjunga", OptionD: "Lhotse",
			CorrectOption: domain.OptionA,
		},
		{
			ID: "demo-world-history-1", Category: domain.CategoryWorldHistory,
			Prompt:  "In which year did World War II end?",
			OptionA: "1943", OptionB: "1944", OptionC: "1945", OptionD: "1946",
			CorrectOption: domain.OptionC,
		},
		{
			ID: "demo-nepal-history-1", Category: domain.CategoryNepalHistory,
			Prompt:  "Who is regarded as the unifier of modern Nepal?",
			OptionA: "Prithvi Narayan Shah", OptionB: "Jung Bahadur Rana", OptionC: "Tribhuvan Shah", OptionD: "Amar Singh Thapa",
			CorrectOption: domain.OptionA,
		},
		{
			ID: "demo-nepal-history-2", Category: domain.CategoryNepalHistory,
			Prompt:  "In which year was the Sugauli Treaty signed?",
			OptionA: "1814", OptionB: "1815", OptionC: "1816", OptionD: "1817",
			CorrectOption: domain.OptionC,
		},
		{
			ID: "demo-culture-society-1", Category: domain.CategoryCultureSociety,
			Prompt:  "Which festival is known as the festival of lights in Nepal?",
			OptionA: "Dashain", OptionB: "Tihar", OptionC: "Holi", OptionD: "Teej",
			CorrectOption: domain.OptionB,
		},
		{
			ID: "demo-economy-1", Category: domain.CategoryEconomy,
			Prompt:  "What is the official currency of Nepal?",
			OptionA: "Rupee", OptionB: "Taka", OptionC: "Yuan", OptionD: "Dram",
			CorrectOption: domain.OptionA,
		},
		{
			ID: "demo-health-technology-1", Category: domain.CategoryHealthTechnology,
			Prompt:  "Which vitamin does the body produce when skin is exposed to sunlight?",
			OptionA: "Vitamin A", OptionB: "Vitamin B12", OptionC: "Vitamin C", OptionD: "Vitamin D",
			CorrectOption: domain.OptionD,
		},
		{
			ID: "demo-eco-system-1", Category: domain.CategoryEcoSystem,
			Prompt:  "Which is the oldest national park in Nepal?",
			OptionA: "Chitwan National Park", OptionB: "Sagarmatha National Park", OptionC: "Bardiya National Park", OptionD: "Langtang National Park",
			CorrectOption: domain.OptionA,
		},
		{
			ID: "demo-international-relations-1", Category: domain.CategoryInternationalRelations,
			Prompt:  "Where is the headquarters of the United Nations?",
			OptionA: "Geneva", OptionB: "New York", OptionC: "Vienna", OptionD: "Paris",
			CorrectOption: domain.OptionB,
		},
	}
}
