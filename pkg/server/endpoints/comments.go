package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/blogplatform/blog-in-go/pkg/identity"
	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/server"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
)

// Column width of comments.body
const maxCommentLength = 600

// CommentRequest is the comment create/update payload
type CommentRequest struct {
	Body string `json:"body"`
}

// RegisterCommentsEndpoints registers comment endpoints under /posts/comments
func RegisterCommentsEndpoints(s *server.Server) {
	commentsRouter := s.Router.PathPrefix(s.Config.APIPrefix() + "/posts/comments").Subrouter()
	commentsRouter.Use(s.TokenAuth.Middleware)

	commentsRouter.HandleFunc("/create/{post_id}",
		requireScope("comment:create", handleCreateComment(s))).Methods("POST")
	commentsRouter.HandleFunc("/update/{comment_id}",
		requireScope("comment:update", handleUpdateComment(s))).Methods("PUT")
	commentsRouter.HandleFunc("/delete/{comment_id}",
		requireScope("comment:delete", handleDeleteComment(s))).Methods("DELETE")

	// Registered last so create/update/delete do not match as actions
	commentsRouter.HandleFunc("/{action}/{comment_id}",
		requireScope("comment:rate", handleRateComment(s))).Methods("POST")
}

func handleCreateComment(s *server.Server) http.HandlerFunc {
	commentsStore := s.CommentsStore

	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		postID, err := strconv.Atoi(mux.Vars(r)["post_id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed post id")
			return
		}

		var req CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if req.Body == "" {
			respondWithError(w, http.StatusBadRequest, "Comment body is required")
			return
		}
		if len(req.Body) > maxCommentLength {
			respondWithError(w, http.StatusBadRequest, "Comment body must be at most 600 characters")
			return
		}

		comment, err := commentsStore.CreateComment(&model.Comment{
			Body:    req.Body,
			PostID:  postID,
			OwnerID: id.User.ID,
		})
		if err != nil {
			if errors.Is(err, store.ErrPostNotFound) {
				respondNotFound(w, "post")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, postsCacheNamespace)

		respondWithJSON(w, http.StatusCreated, newCommentShow(comment))
	}
}

func handleRateComment(s *server.Server) http.HandlerFunc {
	commentsStore := s.CommentsStore

	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		vars := mux.Vars(r)

		commentID, err := strconv.Atoi(vars["comment_id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed comment id")
			return
		}

		action := vars["action"]
		comment, err := commentsStore.RateComment(commentID, id.User.ID, action)
		if err != nil {
			if errors.Is(err, store.ErrInvalidRateAction) {
				respondWithError(w, http.StatusBadRequest,
					fmt.Sprintf("Action is either like or dislike. Action <%s> was passed", action))
				return
			}
			if errors.Is(err, store.ErrCommentNotFound) {
				respondNotFound(w, "comment")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, postsCacheNamespace)

		respondWithJSON(w, http.StatusOK, newCommentShow(comment))
	}
}

func handleUpdateComment(s *server.Server) http.HandlerFunc {
	commentsStore := s.CommentsStore

	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		commentID, err := strconv.Atoi(mux.Vars(r)["comment_id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed comment id")
			return
		}

		var req CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if req.Body == "" {
			respondWithError(w, http.StatusBadRequest, "Comment body is required")
			return
		}
		if len(req.Body) > maxCommentLength {
			respondWithError(w, http.StatusBadRequest, "Comment body must be at most 600 characters")
			return
		}

		comment, err := commentsStore.CommentByID(commentID)
		if err != nil {
			if errors.Is(err, store.ErrCommentNotFound) {
				respondNotFound(w, "comment")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if comment.OwnerID != id.User.ID && !id.IsStaff() {
			respondOwnership(w, "comment")
			return
		}

		updated, err := commentsStore.UpdateComment(commentID, req.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, postsCacheNamespace)

		respondWithJSON(w, http.StatusOK, newCommentShow(updated))
	}
}

func handleDeleteComment(s *server.Server) http.HandlerFunc {
	commentsStore := s.CommentsStore

	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		commentID, err := strconv.Atoi(mux.Vars(r)["comment_id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed comment id")
			return
		}

		comment, err := commentsStore.CommentByID(commentID)
		if err != nil {
			if errors.Is(err, store.ErrCommentNotFound) {
				respondNotFound(w, "comment")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if comment.OwnerID != id.User.ID && !id.IsStaff() {
			respondOwnership(w, "comment")
			return
		}

		if err := commentsStore.DeleteComment(commentID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		enqueueCacheInvalidate(s.Tasks, postsCacheNamespace)

		w.WriteHeader(http.StatusNoContent)
	}
}
