package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/blogplatform/blog-in-go/pkg/cache"
	"github.com/blogplatform/blog-in-go/pkg/config"
	"github.com/blogplatform/blog-in-go/pkg/mail"
	"github.com/blogplatform/blog-in-go/pkg/tasks"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the background task worker",
	Long: `Run the background task worker.

The worker processes queued tasks: account email delivery and response
cache invalidation. It requires REDIS_URL to be set.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if cfg.RedisURL == "" {
			fmt.Fprintln(os.Stderr, "REDIS_URL environment variable is required to run the worker")
			os.Exit(1)
		}

		opt, err := asynq.ParseRedisURI(cfg.RedisURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid REDIS_URL: %v\n", err)
			os.Exit(1)
		}

		concurrency := cfg.WorkerConcurrency
		if concurrency <= 0 {
			concurrency = 10
		}

		var sender mail.Sender
		if cfg.EmailHost != "" {
			sender = mail.NewMailer(cfg.EmailHost, cfg.EmailPort, cfg.EmailFrom, cfg.EmailPassword)
		} else {
			log.Println("Email delivery disabled: email_host is not configured")
		}

		var responseCache *cache.Cache
		responseCache, err = cache.New(cfg.RedisURL, cfg.CacheExpiry())
		if err != nil {
			log.Printf("Cache invalidation disabled: %v", err)
			responseCache = nil
		}

		srv := asynq.NewServer(opt, asynq.Config{Concurrency: concurrency})
		mux := tasks.NewHandler(sender, responseCache).Mux()

		log.Printf("Running worker with concurrency %d...\n", concurrency)
		if err := srv.Run(mux); err != nil {
			fmt.Fprintf(os.Stderr, "Worker stopped: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
