package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"github.com/blogplatform/blog-in-go/pkg/cache"
	"github.com/blogplatform/blog-in-go/pkg/config"
	"github.com/blogplatform/blog-in-go/pkg/server/middleware"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
	gormstore "github.com/blogplatform/blog-in-go/pkg/server/store/gorm"
)

type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.BlogConfig
	Cache  *cache.Cache
	Tasks  *asynq.Client

	UsersStore      store.UsersStore
	PostsStore      store.PostsStore
	CategoriesStore store.CategoriesStore
	CommentsStore   store.CommentsStore
	HealthStore     store.HealthStore

	TokenAuth *middleware.TokenAuthenticator
	CSRF      *middleware.CSRFGuard

	srv *http.Server
}

func NewServer(
	cfg *config.BlogConfig,
	db *gorm.DB,
	responseCache *cache.Cache,
	taskClient *asynq.Client,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, corsHandler.Handler(router)),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	usersStore := gormstore.NewUsersStore(db)

	return &Server{
		Router: router,
		DB:     db,
		Config: cfg,
		Cache:  responseCache,
		Tasks:  taskClient,

		UsersStore:      usersStore,
		PostsStore:      gormstore.NewPostsStore(db),
		CategoriesStore: gormstore.NewCategoriesStore(db),
		CommentsStore:   gormstore.NewCommentsStore(db),
		HealthStore:     gormstore.NewHealthStore(db),

		TokenAuth: middleware.NewTokenAuthenticator(cfg, usersStore),
		CSRF:      middleware.NewCSRFGuard(),

		srv: srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}
