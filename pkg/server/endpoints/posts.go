package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lib/pq"

	"github.com/blogplatform/blog-in-go/pkg/identity"
	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/server"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
)

const (
	postsCacheNamespace      = "posts"
	categoriesCacheNamespace = "postcategories"

	// Column widths in the posts and postcategories tables
	maxTitleLength        = 512
	maxCategoryNameLength = 50
)

// PostCreateRequest is the post creation payload
type PostCreateRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// PostUpdateRequest is the post update payload
type PostUpdateRequest struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
	Rating    *int     `json:"rating"`
	IsPublish *bool    `json:"is_publish"`
}

// CategoryCreateRequest is the category creation payload
type CategoryCreateRequest struct {
	Name string `json:"name"`
}

// RegisterPostsEndpoints registers post and category endpoints under /posts
func RegisterPostsEndpoints(s *server.Server) {
	postsRouter := s.Router.PathPrefix(s.Config.APIPrefix() + "/posts").Subrouter()

	// Reads are public and cached
	postsRouter.HandleFunc("/read/{post_id}",
		s.Cache.Handler(postsCacheNamespace, handleReadPost(s))).Methods("GET")
	postsRouter.HandleFunc("/read_all",
		s.Cache.Handler(postsCacheNamespace, handleReadPosts(s))).Methods("GET")
	postsRouter.HandleFunc("/categories/read_all",
		s.Cache.Handler(categoriesCacheNamespace, handleReadCategories(s))).Methods("GET")
	postsRouter.HandleFunc("/categories/read/{category_id}",
		s.Cache.Handler(categoriesCacheNamespace, handleReadCategoryByID(s))).Methods("GET")

	authRouter := postsRouter.NewRoute().Subrouter()
	authRouter.Use(s.TokenAuth.Middleware)

	authRouter.HandleFunc("/create", requireScope("post:create", handleCreatePost(s))).Methods("POST")
	authRouter.HandleFunc("/update/{post_id}", requireScope("post:update", handleUpdatePost(s))).Methods("PUT")
	authRouter.HandleFunc("/delete/{post_id}", requireScope("post:delete", handleDeletePost(s))).Methods("DELETE")
	authRouter.HandleFunc("/categories/create", requireScope("category:create", handleCreateCategory(s))).Methods("POST")
}

func handleCreatePost(s *server.Server) http.HandlerFunc {
	postsStore := s.PostsStore
	categoriesStore := s.CategoriesStore

	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		var req PostCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if req.Title == "" || req.Body == "" || req.Category == "" {
			respondWithError(w, http.StatusBadRequest, "Title, body and category are required")
			return
		}
		if len(req.Title) > maxTitleLength {
			respondWithError(w, http.StatusBadRequest, "Title must be at most 512 characters")
			return
		}

		category, err := categoriesStore.CategoryByName(req.Category)
		if err != nil {
			if errors.Is(err, store.ErrCategoryNotFound) {
				respondNotFound(w, "category")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		post, err := postsStore.CreatePost(&model.Post{
			Title:      req.Title,
			Body:       req.Body,
			Tags:       pq.StringArray(req.Tags),
			CategoryID: category.ID,
			OwnerID:    id.User.ID,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateTitle) {
				respondAlreadyExists(w, "post")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, postsCacheNamespace)

		respondWithJSON(w, http.StatusCreated, newPostShow(post))
	}
}

func handleReadPost(s *server.Server) http.HandlerFunc {
	postsStore := s.PostsStore

	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := strconv.Atoi(mux.Vars(r)["post_id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed post id")
			return
		}

		post, err := postsStore.PostByID(postID)
		if err != nil {
			if errors.Is(err, store.ErrPostNotFound) {
				respondNotFound(w, "post")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondWithJSON(w, http.StatusOK, newPostShow(post))
	}
}

func handleReadPosts(s *server.Server) http.HandlerFunc {
	postsStore := s.PostsStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		sortBy := query.Get("sort_by")
		if sortBy == "" {
			sortBy = store.PostSortCreatedDesc
		}
		if !store.ValidPostSort(sortBy) {
			respondWithError(w, http.StatusBadRequest, "Unknown sort criteria")
			return
		}

		skip, limit := pagination(r, cfg)
		posts, err := postsStore.ListPosts(store.PostsFilter{
			Category: query.Get("category"),
			Skip:     skip,
			Limit:    limit,
			SortBy:   sortBy,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		shows := make([]PostShow, 0, len(posts))
		for i := range posts {
			shows = append(shows, newPostShow(&posts[i]))
		}
		respondWithJSON(w, http.StatusOK, shows)
	}
}

func handleUpdatePost(s *server.Server) http.HandlerFunc {
	postsStore := s.PostsStore

	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		postID, err := strconv.Atoi(mux.Vars(r)["post_id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed post id")
			return
		}

		var req PostUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
			respondWithError(w, http.StatusBadRequest, "Rating must be between 0 and 5")
			return
		}
		if len(req.Title) > maxTitleLength {
			respondWithError(w, http.StatusBadRequest, "Title must be at most 512 characters")
			return
		}

		post, err := postsStore.PostByID(postID)
		if err != nil {
			if errors.Is(err, store.ErrPostNotFound) {
				respondNotFound(w, "post")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if post.OwnerID != id.User.ID && !id.IsStaff() {
			respondOwnership(w, "post")
			return
		}

		updates := map[string]interface{}{}
		if req.Title != "" {
			updates["title"] = req.Title
		}
		if req.Body != "" {
			updates["body"] = req.Body
		}
		if req.Tags != nil {
			updates["tags"] = pq.StringArray(req.Tags)
		}
		if req.Rating != nil {
			updates["rating"] = *req.Rating
		}
		if req.IsPublish != nil {
			updates["is_publish"] = *req.IsPublish
		}

		updated, err := postsStore.UpdatePost(postID, updates)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, postsCacheNamespace)

		respondWithJSON(w, http.StatusOK, newPostShow(updated))
	}
}

func handleDeletePost(s *server.Server) http.HandlerFunc {
	postsStore := s.PostsStore

	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		postID, err := strconv.Atoi(mux.Vars(r)["post_id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed post id")
			return
		}

		post, err := postsStore.PostByID(postID)
		if err != nil {
			if errors.Is(err, store.ErrPostNotFound) {
				respondNotFound(w, "post")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if post.OwnerID != id.User.ID && !id.IsStaff() {
			respondOwnership(w, "post")
			return
		}

		if err := postsStore.DeletePost(postID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, postsCacheNamespace)

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleCreateCategory(s *server.Server) http.HandlerFunc {
	categoriesStore := s.CategoriesStore

	return func(w http.ResponseWriter, r *http.Request) {
		var req CategoryCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if req.Name == "" {
			respondWithError(w, http.StatusBadRequest, "Category name is required")
			return
		}
		if len(req.Name) > maxCategoryNameLength {
			respondWithError(w, http.StatusBadRequest, "Category name must be at most 50 characters")
			return
		}

		category, err := categoriesStore.CreateCategory(req.Name)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateCategory) {
				respondAlreadyExists(w, "category")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, categoriesCacheNamespace)

		respondWithJSON(w, http.StatusCreated, CategoryCreateRequest{Name: category.Name})
	}
}

func handleReadCategories(s *server.Server) http.HandlerFunc {
	categoriesStore := s.CategoriesStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pagination(r, cfg)

		categories, err := categoriesStore.ListCategories(skip, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		shows := make([]CategoryShow, 0, len(categories))
		for i := range categories {
			shows = append(shows, newCategoryShow(&categories[i]))
		}
		respondWithJSON(w, http.StatusOK, shows)
	}
}

func handleReadCategoryByID(s *server.Server) http.HandlerFunc {
	categoriesStore := s.CategoriesStore

	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := strconv.Atoi(mux.Vars(r)["category_id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed category id")
			return
		}

		category, err := categoriesStore.CategoryByID(categoryID)
		if err != nil {
			if errors.Is(err, store.ErrCategoryNotFound) {
				respondNotFound(w, "category")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondWithJSON(w, http.StatusOK, newCategoryShow(category))
	}
}
