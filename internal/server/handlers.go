package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"social-feed/internal/auth"
	"social-feed/internal/domain"
	"social-feed/internal/repository"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.Create(req.Username, req.Password)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, domain.SignupResponse{User: user, Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.VerifyLogin(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		s.writeDomainError(w, err)
		return
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, domain.LoginResponse{User: user, Token: token})
}

func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	resp, err := s.feed.GetFeed(repository.FeedQuery{
		ViewerID: auth.UserID(r.Context()),
		Query:    r.URL.Query().Get("query"),
		Mode:     r.URL.Query().Get("mode"),
		Page:     page,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTrending(w http.ResponseWriter, r *http.Request) {
	tags, err := s.feed.Trending(10)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, domain.GetTrendingResponse{Hashtags: tags})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := s.posts.Create(auth.UserID(r.Context()), req.Content, "")
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleRetweet(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if _, err := s.posts.GetByID(postID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	post, err := s.posts.Create(auth.UserID(r.Context()), "", postID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	post, err := s.posts.GetByID(postID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	userID := auth.UserID(r.Context())
	if post.AuthorID != userID && !s.isAdmin(userID) {
		s.writeError(w, http.StatusForbidden, "only the author or an admin can delete a post")
		return
	}

	if err := s.posts.Delete(postID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if _, err := s.posts.GetByID(postID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	liked, err := s.likes.Toggle(postID, auth.UserID(r.Context()))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	count, err := s.likes.Count(postID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, domain.ToggleResponse{Active: liked, Count: count})
}

func (s *Server) handleGetComments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if _, err := s.posts.GetByID(postID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	comments, err := s.comments.ByPost(postID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	for i := range comments {
		comments[i].AuthorName = s.users.DisplayName(comments[i].AuthorID)
	}

	s.writeJSON(w, http.StatusOK, domain.GetCommentsResponse{Comments: comments})
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if _, err := s.posts.GetByID(postID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req domain.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := s.comments.Create(postID, auth.UserID(r.Context()), req.Content, req.ParentCommentID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID := chi.URLParam(r, "commentID")
	comment, err := s.comments.GetByID(commentID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	userID := auth.UserID(r.Context())
	if comment.AuthorID != userID && !s.isAdmin(userID) {
		s.writeError(w, http.StatusForbidden, "only the author or an admin can delete a comment")
		return
	}

	if err := s.comments.Delete(commentID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleFollow(w http.ResponseWriter, r *http.Request) {
	followeeID := chi.URLParam(r, "userID")
	if _, err := s.users.GetByID(followeeID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	following, err := s.follows.Toggle(auth.UserID(r.Context()), followeeID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	count, err := s.follows.FollowerCount(followeeID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, domain.ToggleResponse{Active: following, Count: count})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByID(chi.URLParam(r, "userID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := auth.UserID(r.Context())
	if err := s.users.UpdateProfile(userID, req.Bio, req.AvatarURL); err != nil {
		s.writeDomainError(w, err)
		return
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := s.reports.Create(req.TargetType, req.TargetID, auth.UserID(r.Context()), req.Reason)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reports.ListOpen()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, domain.GetReportsResponse{Reports: reports})
}

// handleResolveReport resolves a report, optionally deleting its target
// first (post deletes cascade to likes and comments).
func (s *Server) handleResolveReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	report, err := s.reports.GetByID(reportID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	// Body is optional; an empty body means resolve-only.
	var req domain.ResolveReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.DeleteTarget {
		switch report.TargetType {
		case repository.ReportTargetPost:
			err = s.posts.Delete(report.TargetID)
		case repository.ReportTargetComment:
			err = s.comments.Delete(report.TargetID)
		}
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
	}

	if err := s.reports.Resolve(reportID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	report.Resolved = true
	s.writeJSON(w, http.StatusOK, report)
}
