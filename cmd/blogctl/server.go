package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/blogplatform/blog-in-go/pkg/cache"
	"github.com/blogplatform/blog-in-go/pkg/config"
	"github.com/blogplatform/blog-in-go/pkg/db"
	"github.com/blogplatform/blog-in-go/pkg/server"
	"github.com/blogplatform/blog-in-go/pkg/server/endpoints"
	"github.com/blogplatform/blog-in-go/pkg/tasks"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the blog API server",
	Long: `Run the blog API server.

To run the server requires the environment variables SECRET_KEY and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		if os.Getenv("SECRET_KEY") == "" {
			fmt.Fprintln(os.Stderr, "SECRET_KEY environment variable is required")
			os.Exit(1)
		}
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		// Cache and task queue degrade to no-ops when Redis is unavailable
		var responseCache *cache.Cache
		var taskClient *asynq.Client
		if cfg.RedisURL != "" {
			responseCache, err = cache.New(cfg.RedisURL, cfg.CacheExpiry())
			if err != nil {
				log.Printf("Response cache disabled: %v", err)
				responseCache = nil
			}
			taskClient, err = tasks.NewClient(cfg.RedisURL)
			if err != nil {
				log.Printf("Task queue disabled: %v", err)
				taskClient = nil
			}
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(cfg, database, responseCache, taskClient, host, port)

		endpoints.RegisterAll(s)

		watchConfig(cfg.ConfigFilePath())
		reloadOnSIGHUP()

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

// watchConfig reloads the configuration when the config file changes
func watchConfig(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Config watch disabled: %v", err)
		return
	}
	if err := watcher.Add(path); err != nil {
		log.Printf("Config watch disabled: %v", err)
		_ = watcher.Close()
		return
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					log.Println("Config file changed, reloading configuration...")
					if err := config.Reload(); err != nil {
						log.Printf("Config reload failed: %v", err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Config watch error: %v", err)
			}
		}
	}()
}

// reloadOnSIGHUP reloads the configuration when the process receives SIGHUP,
// which `blogctl configuration apply` sends
func reloadOnSIGHUP() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	go func() {
		for range sigs {
			log.Println("Received SIGHUP, reloading configuration...")
			if err := config.Reload(); err != nil {
				log.Printf("Config reload failed: %v", err)
			}
		}
	}()
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
