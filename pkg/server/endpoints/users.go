package endpoints

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/lib/pq"

	"github.com/blogplatform/blog-in-go/pkg/config"
	"github.com/blogplatform/blog-in-go/pkg/identity"
	"github.com/blogplatform/blog-in-go/pkg/mail"
	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/security"
	"github.com/blogplatform/blog-in-go/pkg/server"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
	"github.com/blogplatform/blog-in-go/pkg/tasks"
)

const usersCacheNamespace = "users"

// Usernames become path segments under the static dir, so no separators or
// dot runs
var validUsername = regexp.MustCompile(`^[A-Za-z0-9_-]{1,30}$`)

// UserCreateRequest is the registration payload
type UserCreateRequest struct {
	Username         string     `json:"username"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Email            string     `json:"email"`
	Password         string     `json:"password"`
	Gender           string     `json:"gender"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	About            string     `json:"about"`
	SocialMediaLinks []string   `json:"social_media_links"`
}

// UserUpdateRequest is the partial own-profile update payload
type UserUpdateRequest struct {
	FirstName        *string    `json:"first_name"`
	LastName         *string    `json:"last_name"`
	Gender           *string    `json:"gender"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	About            *string    `json:"about"`
	SocialMediaLinks []string   `json:"social_media_links"`
}

// ResetPasswordRequest asks for a password reset by username or email
type ResetPasswordRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUsersEndpoints registers account management endpoints under /users
func RegisterUsersEndpoints(s *server.Server) {
	usersRouter := s.Router.PathPrefix(s.Config.APIPrefix() + "/users").Subrouter()

	// Endpoints reachable without an access token
	usersRouter.HandleFunc("/create", handleCreateUser(s)).Methods("POST")
	usersRouter.HandleFunc("/activate_account/{uidb64}/{token}", handleActivateAccount(s)).Methods("GET")
	usersRouter.HandleFunc("/reset_password", handleResetPassword(s)).Methods("POST")
	usersRouter.HandleFunc("/confirm_reset_password/{uid_pass}/{token}", handleConfirmResetPassword(s)).Methods("GET")

	authRouter := usersRouter.NewRoute().Subrouter()
	authRouter.Use(s.TokenAuth.Middleware)

	// Scope checks run outside the cache wrapper so a cache hit cannot
	// bypass authorization
	authRouter.HandleFunc("/read_all",
		requireScope("user:read", s.Cache.Handler(usersCacheNamespace, handleReadUsers(s)))).Methods("GET")
	authRouter.HandleFunc("/read/{user_id}",
		requireScope("user:read", s.Cache.Handler(usersCacheNamespace, handleReadUserByID(s)))).Methods("GET")
	authRouter.HandleFunc("/me", requireScope("me:read", handleReadMe(s))).Methods("GET")
	authRouter.HandleFunc("/me/update", requireScope("me:update", handleUpdateMe(s))).Methods("PATCH")
	authRouter.HandleFunc("/me/posts", requireScope("post:read", handleMyPosts(s))).Methods("GET")
	authRouter.HandleFunc("/me/comments", requireScope("comment:read", handleMyComments(s))).Methods("GET")
	authRouter.HandleFunc("/delete/me", requireScope("me:delete", handleDeleteMe(s))).Methods("DELETE")
	authRouter.HandleFunc("/delete/{user_id}", requireScope("user:delete", handleDeleteUserByID(s))).Methods("DELETE")
	authRouter.HandleFunc("/upload_user_image", requireScope("me:update", handleUploadUserImage(s))).Methods("POST")
}

func handleCreateUser(s *server.Server) http.HandlerFunc {
	usersStore := s.UsersStore
	cfg := s.Config
	taskClient := s.Tasks

	return func(w http.ResponseWriter, r *http.Request) {
		var req UserCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			respondWithError(w, http.StatusBadRequest, "Username, email and password are required")
			return
		}
		if !validUsername.MatchString(req.Username) {
			respondWithError(w, http.StatusBadRequest,
				"Username may only contain letters, digits, hyphens and underscores, at most 30 characters")
			return
		}

		hashed, err := security.HashPassword(req.Password)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		user, err := usersStore.CreateUser(&model.User{
			Username:         req.Username,
			Role:             model.RoleRegularUser,
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			Email:            req.Email,
			HashedPassword:   hashed,
			Gender:           req.Gender,
			DateOfBirth:      req.DateOfBirth,
			About:            req.About,
			SocialMediaLinks: req.SocialMediaLinks,
			IsActive:         false,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateUsername) {
				respondWithError(w, http.StatusBadRequest, "Username already registered")
				return
			}
			if errors.Is(err, store.ErrDuplicateEmail) {
				respondWithError(w, http.StatusBadRequest, "Email already registered")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		enqueueAccountEmail(taskClient, cfg, tasks.TemplateAccountActivation, requestScheme(r), user, mail.Context{
			UID:     encodeUID(user.Username),
			Subject: "Activate your account",
		})
		enqueueCacheInvalidate(taskClient, usersCacheNamespace)

		respondWithJSON(w, http.StatusCreated, newUserShow(user, cfg, requestScheme(r)))
	}
}

func handleActivateAccount(s *server.Server) http.HandlerFunc {
	usersStore := s.UsersStore
	generator := accountTokenGenerator(s.Config)

	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		username, err := decodeUID(vars["uidb64"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed activation link")
			return
		}

		user, err := usersStore.UserByUsername(username)
		if err != nil {
			respondNotFound(w, "user")
			return
		}

		if !generator.CheckToken(user, vars["token"]) {
			respondWithError(w, http.StatusBadRequest, "Activation link is invalid or has expired")
			return
		}

		if _, err = usersStore.UpdateUser(user.ID, map[string]interface{}{"is_active": true}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, usersCacheNamespace)

		respondWithJSON(w, http.StatusOK, map[string]string{
			"success": "Account has been activated successfully",
		})
	}
}

func handleResetPassword(s *server.Server) http.HandlerFunc {
	usersStore := s.UsersStore
	cfg := s.Config
	taskClient := s.Tasks

	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if req.Password == "" || (req.Username == "" && req.Email == "") {
			respondWithError(w, http.StatusBadRequest, "Username or email and a new password are required")
			return
		}

		var (
			user *model.User
			err  error
		)
		if req.Username != "" {
			user, err = usersStore.UserByUsername(req.Username)
		} else {
			user, err = usersStore.UserByEmail(req.Email)
		}
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				respondNotFound(w, "user")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		newHash, err := security.HashPassword(req.Password)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		// uid_pass carries the pending hash so the change only lands after
		// the emailed link is followed
		uidPass := base64.RawURLEncoding.EncodeToString([]byte(newHash)) +
			":" + base64.RawURLEncoding.EncodeToString([]byte(user.Username))

		enqueueAccountEmail(taskClient, cfg, tasks.TemplatePasswordReset, requestScheme(r), user, mail.Context{
			UIDPass: uidPass,
			Subject: "Reset your password",
		})

		respondWithJSON(w, http.StatusOK, map[string]string{
			"success": "Check your email to confirm the password reset",
		})
	}
}

func handleConfirmResetPassword(s *server.Server) http.HandlerFunc {
	usersStore := s.UsersStore
	generator := accountTokenGenerator(s.Config)

	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		parts := strings.SplitN(vars["uid_pass"], ":", 2)
		if len(parts) != 2 {
			respondWithError(w, http.StatusBadRequest, "Malformed reset link")
			return
		}
		newHash, err := base64.RawURLEncoding.DecodeString(parts[0])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed reset link")
			return
		}
		username, err := base64.RawURLEncoding.DecodeString(parts[1])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed reset link")
			return
		}

		user, err := usersStore.UserByUsername(string(username))
		if err != nil {
			respondNotFound(w, "user")
			return
		}

		if !generator.CheckToken(user, vars["token"]) {
			respondWithError(w, http.StatusBadRequest, "Reset link is invalid or has expired")
			return
		}

		if _, err = usersStore.UpdateUser(user.ID, map[string]interface{}{"hashed_password": string(newHash)}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, usersCacheNamespace)

		respondWithJSON(w, http.StatusOK, map[string]string{
			"success": "Password has been changed successfully",
		})
	}
}

func handleReadUsers(s *server.Server) http.HandlerFunc {
	usersStore := s.UsersStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pagination(r, cfg)

		users, err := usersStore.ListUsers(skip, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		shows := make([]UserShow, 0, len(users))
		for i := range users {
			shows = append(shows, newUserShow(&users[i], cfg, requestScheme(r)))
		}
		respondWithJSON(w, http.StatusOK, shows)
	}
}

func handleReadUserByID(s *server.Server) http.HandlerFunc {
	usersStore := s.UsersStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.Atoi(mux.Vars(r)["user_id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed user id")
			return
		}

		user, err := usersStore.UserByID(userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				respondNotFound(w, "user")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondWithJSON(w, http.StatusOK, newUserShow(user, cfg, requestScheme(r)))
	}
}

func handleReadMe(s *server.Server) http.HandlerFunc {
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		respondWithJSON(w, http.StatusOK, newUserShow(id.User, cfg, requestScheme(r)))
	}
}

func handleUpdateMe(s *server.Server) http.HandlerFunc {
	usersStore := s.UsersStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		var req UserUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}

		updates := map[string]interface{}{}
		if req.FirstName != nil {
			updates["first_name"] = *req.FirstName
		}
		if req.LastName != nil {
			updates["last_name"] = *req.LastName
		}
		if req.Gender != nil {
			updates["gender"] = *req.Gender
		}
		if req.DateOfBirth != nil {
			updates["date_of_birth"] = *req.DateOfBirth
		}
		if req.About != nil {
			updates["about"] = *req.About
		}
		if req.SocialMediaLinks != nil {
			updates["social_media_links"] = pq.StringArray(req.SocialMediaLinks)
		}
		if len(updates) == 0 {
			respondWithJSON(w, http.StatusOK, newUserShow(id.User, cfg, requestScheme(r)))
			return
		}

		user, err := usersStore.UpdateUser(id.User.ID, updates)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, usersCacheNamespace)

		respondWithJSON(w, http.StatusOK, newUserShow(user, cfg, requestScheme(r)))
	}
}

func handleDeleteMe(s *server.Server) http.HandlerFunc {
	usersStore := s.UsersStore

	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		if err := usersStore.DeleteUser(id.User.ID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, usersCacheNamespace)

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDeleteUserByID(s *server.Server) http.HandlerFunc {
	usersStore := s.UsersStore

	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.Atoi(mux.Vars(r)["user_id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed user id")
			return
		}

		if err := usersStore.DeleteUser(userID); err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				respondNotFound(w, "user")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, usersCacheNamespace)

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleUploadUserImage(s *server.Server) http.HandlerFunc {
	usersStore := s.UsersStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed multipart form")
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Image file is required")
			return
		}
		defer file.Close()

		if !validUsername.MatchString(id.User.Username) {
			respondWithError(w, http.StatusBadRequest, "Invalid username")
			return
		}

		// Stored under a random name so uploads cannot clobber each other
		filename := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
		relPath := filepath.Join("img", "users", id.User.Username, filename)
		absPath := filepath.Join(cfg.StaticDir, relPath)
		if !strings.HasPrefix(absPath, filepath.Clean(cfg.StaticDir)+string(os.PathSeparator)) {
			respondWithError(w, http.StatusBadRequest, "Invalid username")
			return
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		dst, err := os.Create(absPath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer dst.Close()

		if _, err := io.Copy(dst, file); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		user, err := usersStore.UpdateUser(id.User.ID, map[string]interface{}{"image": relPath})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, usersCacheNamespace)

		respondWithJSON(w, http.StatusOK, newUserShow(user, cfg, requestScheme(r)))
	}
}

func handleMyPosts(s *server.Server) http.HandlerFunc {
	usersStore := s.UsersStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		query := r.URL.Query()

		skip, limit := pagination(r, cfg)
		filter := store.UserPostsFilter{Skip: skip, Limit: limit}

		if query.Get("apply_filter") == "true" {
			if tags := query.Get("tags"); tags != "" {
				filter.Tags = strings.Split(tags, ",")
			}
			filter.Category = query.Get("category")

			isPublish := query.Get("is_publish") != "false"
			filter.IsPublish = &isPublish

			minRating := 5
			if raw := query.Get("rating"); raw != "" {
				minRating, _ = strconv.Atoi(raw)
				if minRating < 0 || minRating > 5 {
					respondWithError(w, http.StatusBadRequest, "Rating must be between 0 and 5")
					return
				}
			}
			filter.MinRating = &minRating
		}

		posts, err := usersStore.UserPosts(id.User.ID, filter)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		shows := make([]UserPostShow, 0, len(posts))
		for i := range posts {
			shows = append(shows, newUserPostShow(&posts[i]))
		}
		respondWithJSON(w, http.StatusOK, shows)
	}
}

func handleMyComments(s *server.Server) http.HandlerFunc {
	usersStore := s.UsersStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		rateStatus := r.URL.Query().Get("rate_status")
		if rateStatus == "" {
			rateStatus = "all"
		}
		if rateStatus != store.RateLike && rateStatus != store.RateDislike && rateStatus != "all" {
			respondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("Only `like`, `dislike` or `all` is allow. But <%s> was provided", rateStatus))
			return
		}
		if rateStatus == "all" {
			rateStatus = ""
		}

		skip, limit := pagination(r, cfg)
		comments, err := usersStore.UserComments(id.User.ID, store.UserCommentsFilter{
			RateStatus: rateStatus,
			Skip:       skip,
			Limit:      limit,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		shows := make([]UserCommentShow, 0, len(comments))
		for i := range comments {
			shows = append(shows, newUserCommentShow(&comments[i]))
		}
		respondWithJSON(w, http.StatusOK, shows)
	}
}

// encodeUID encodes a username the way activation links carry it
func encodeUID(username string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(username))
}

func decodeUID(uidb64 string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uidb64)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func accountTokenGenerator(cfg *config.BlogConfig) *security.AccountTokenGenerator {
	return security.NewAccountTokenGenerator(cfg.ActivationSecretKey, cfg.AccountTokenTTL())
}

// pagination reads skip/limit query params, capping limit at the configured
// maximum
func pagination(r *http.Request, cfg *config.BlogConfig) (int, int) {
	query := r.URL.Query()

	skip, _ := strconv.Atoi(query.Get("skip"))
	if skip < 0 {
		skip = 0
	}

	limit := cfg.APIListLimitMax
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed < limit {
			limit = parsed
		}
	}
	return skip, limit
}

func enqueueAccountEmail(client *asynq.Client, cfg *config.BlogConfig, template, scheme string, user *model.User, ctx mail.Context) {
	if client == nil {
		return
	}

	ctx.Protocol = scheme
	ctx.Domain = cfg.Domain
	ctx.APIPrefix = cfg.APIPrefix()
	ctx.Username = user.Username
	ctx.Email = user.Email
	ctx.Token = accountTokenGenerator(cfg).MakeToken(user)

	task, err := tasks.NewEmailDeliverTask(tasks.EmailDeliverPayload{
		Template: template,
		SendTo:   user.Email,
		Context:  ctx,
	})
	if err != nil {
		log.Printf("failed to build email task: %v", err)
		return
	}
	if _, err := client.Enqueue(task); err != nil {
		log.Printf("failed to enqueue %s email for %s: %v", template, user.Email, err)
	}
}
