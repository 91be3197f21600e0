// Package server exposes the domain operations as a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"social-feed/internal/auth"
	"social-feed/internal/csvstore"
	"social-feed/internal/domain"
	"social-feed/internal/repository"
)

type Server struct {
	log  *zap.Logger
	auth *auth.Manager

	users    *repository.UserRepository
	posts    *repository.PostRepository
	likes    *repository.LikeRepository
	comments *repository.CommentRepository
	follows  *repository.FollowRepository
	reports  *repository.ReportRepository
	feed     *repository.FeedRepository

	allowedOrigin string
}

func New(log *zap.Logger, authManager *auth.Manager, store *csvstore.Store, allowedOrigin string) *Server {
	return &Server{
		log:           log,
		auth:          authManager,
		users:         repository.NewUserRepository(store),
		posts:         repository.NewPostRepository(store),
		likes:         repository.NewLikeRepository(store),
		comments:      repository.NewCommentRepository(store),
		follows:       repository.NewFollowRepository(store),
		reports:       repository.NewReportRepository(store),
		feed:          repository.NewFeedRepository(store),
		allowedOrigin: allowedOrigin,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{s.allowedOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.With(s.auth.Optional).Get("/feed", s.handleGetFeed)
	r.Get("/trending", s.handleGetTrending)
	r.Get("/posts/{postID}/comments", s.handleGetComments)
	r.Get("/users/{userID}", s.handleGetUser)

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.Post("/posts", s.handleCreatePost)
		r.Delete("/posts/{postID}", s.handleDeletePost)
		r.Post("/posts/{postID}/like", s.handleToggleLike)
		r.Post("/posts/{postID}/retweet", s.handleRetweet)
		r.Post("/posts/{postID}/comments", s.handleCreateComment)
		r.Delete("/comments/{commentID}", s.handleDeleteComment)
		r.Post("/users/{userID}/follow", s.handleToggleFollow)
		r.Put("/me/profile", s.handleUpdateProfile)
		r.Post("/reports", s.handleCreateReport)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/admin/reports", s.handleListReports)
			r.Post("/admin/reports/{reportID}/resolve", s.handleResolveReport)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// requireAdmin guards the moderation endpoints.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.isAdmin(auth.UserID(r.Context())) {
			s.writeError(w, http.StatusForbidden, "admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) isAdmin(userID string) bool {
	if userID == "" {
		return false
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return false
	}
	return user.IsAdmin
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, domain.ErrorResponse{Code: status, Message: message})
}

// writeDomainError maps repository errors to HTTP statuses. Unknown errors
// are treated as storage faults: logged and returned as 500.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrEmptyUsername),
		errors.Is(err, repository.ErrEmptyPassword),
		errors.Is(err, repository.ErrEmptyContent),
		errors.Is(err, repository.ErrContentTooLong),
		errors.Is(err, repository.ErrInvalidReportTarget),
		errors.Is(err, repository.ErrEmptyReason):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrDuplicateUser),
		errors.Is(err, repository.ErrAlreadyRetweeted):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrPostNotFound),
		errors.Is(err, repository.ErrCommentNotFound),
		errors.Is(err, repository.ErrReportNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("internal error", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
