package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"txt-trivia/internal/app"
	"txt-trivia/internal/cache"
	"txt-trivia/internal/config"
	"txt-trivia/internal/infra/memory"
	pgsource "txt-trivia/internal/infra/postgres"
	redisinfra "txt-trivia/internal/infra/redis"
	"txt-trivia/internal/questions"
	transport "txt-trivia/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia relay and game API",
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
	}

	var source questions.Source
	switch {
	case pool != nil:
		source = pgsource.NewQuestionSource(pool)
	case cfg.Questions.APIURL != "":
		source = questions.NewClient(cfg.Questions.APIURL)
	default:
		source = memory.NewStaticSource(sampleQuestions())
	}
	if redisClient != nil {
		questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
		source = redisinfra.NewCachedSource(redisClient, source, questionTTL)
	}

	var store cache.Store = memory.NewKV()
	if redisClient != nil {
		cacheTTL := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)
		store = redisinfra.NewKV(redisClient, cacheTTL)
	}

	service := app.NewGameService(source, store)
	relay := transport.NewRelay()
	games := transport.NewGameHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", relay.ServeWS)
	mux.HandleFunc("/games", games.Create)
	mux.HandleFunc("/preview", games.Preview)
	mux.HandleFunc("/answer", games.Answer)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting txt-trivia on :%s", finalPort)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestions is a small built-in pool so the server runs without a
// question bank or API configured.
func sampleQuestions() map[string][]memory.RawQuestion {
	general := []memory.RawQuestion{
		{Text: "What is the capital of France?", Correct: "Paris",
			Incorrect: []string{"London", "Berlin", "Rome"}, Difficulty: 0},
		{Text: "Which planet is known as the Red Planet?", Correct: "Mars",
			Incorrect: []string{"Venus", "Jupiter", "Mercury"}, Difficulty: 0},
		{Text: "The Great Wall is located in China.", Correct: "True",
			Incorrect: []string{"False"}, Difficulty: 0},
		{Text: "What is 7 multiplied by 8?", Correct: "56",
			Incorrect: []string{"48", "54", "64"}, Difficulty: 1},
		{Text: "Who painted the Mona Lisa?", Correct: "Leonardo da Vinci",
			Incorrect: []string{"Michelangelo", "Raphael", "Donatello"}, Difficulty: 1},
		{Text: "Mount Everest is the tallest mountain on Earth.", Correct: "True",
			Incorrect: []string{"False"}, Difficulty: 0},
		{Text: "In which year did World War II end?", Correct: "1945",
			Incorrect: []string{"1918", "1939", "1944"}, Difficulty: 1},
		{Text: "What is the chemical symbol for gold?", Correct: "Au",
			Incorrect: []string{"Ag", "Gd", "Go"}, Difficulty: 2},
	}
	return map[string][]memory.RawQuestion{
		"any": general,
		"9":   general,
	}
}
