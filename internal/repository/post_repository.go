package repository

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"social-feed/internal/csvstore"
	"social-feed/internal/domain"
)

type PostRepository struct {
	store *csvstore.Store
}

func NewPostRepository(store *csvstore.Store) *PostRepository {
	return &PostRepository{store: store}
}

// Create appends a post. Content is trimmed and must be non-empty unless the
// post is a retweet; length is capped at MaxContentLength runes. A user may
// retweet a given post at most once.
func (r *PostRepository) Create(authorID, content, retweetOfPostID string) (*domain.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" && retweetOfPostID == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, ErrContentTooLong
	}

	if retweetOfPostID != "" {
		retweeted, err := r.HasRetweeted(retweetOfPostID, authorID)
		if err != nil {
			return nil, err
		}
		if retweeted {
			return nil, ErrAlreadyRetweeted
		}
	}

	post := &domain.Post{
		ID:              uuid.NewString(),
		AuthorID:        authorID,
		Content:         content,
		CreatedAt:       nowISO(),
		IsRetweet:       retweetOfPostID != "",
		RetweetOfPostID: retweetOfPostID,
	}
	if err := r.store.Append(csvstore.Posts, postToRow(post)); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) GetByID(postID string) (*domain.Post, error) {
	rows, err := r.store.Load(csvstore.Posts)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row["post_id"] == postID {
			return postFromRow(row), nil
		}
	}
	return nil, ErrPostNotFound
}

// HasRetweeted reports whether userID already has a retweet of postID.
func (r *PostRepository) HasRetweeted(postID, userID string) (bool, error) {
	rows, err := r.store.Load(csvstore.Posts)
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if row["author_id"] == userID && parseBool(row["is_retweet"]) && row["retweet_of_post_id"] == postID {
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the post and cascades to its likes and comments. Each table
// is rewritten and invalidated.
func (r *PostRepository) Delete(postID string) error {
	err := r.store.Update(csvstore.Posts, func(rows []csvstore.Row) ([]csvstore.Row, error) {
		return dropRows(rows, "post_id", postID), nil
	})
	if err != nil {
		return err
	}
	err = r.store.Update(csvstore.Likes, func(rows []csvstore.Row) ([]csvstore.Row, error) {
		return dropRows(rows, "post_id", postID), nil
	})
	if err != nil {
		return err
	}
	return r.store.Update(csvstore.Comments, func(rows []csvstore.Row) ([]csvstore.Row, error) {
		return dropRows(rows, "post_id", postID), nil
	})
}

func dropRows(rows []csvstore.Row, col, value string) []csvstore.Row {
	next := make([]csvstore.Row, 0, len(rows))
	for _, row := range rows {
		if row[col] != value {
			next = append(next, row)
		}
	}
	return next
}

func postFromRow(row csvstore.Row) *domain.Post {
	return &domain.Post{
		ID:              row["post_id"],
		AuthorID:        row["author_id"],
		Content:         row["content"],
		CreatedAt:       row["created_at"],
		IsRetweet:       parseBool(row["is_retweet"]),
		RetweetOfPostID: row["retweet_of_post_id"],
	}
}

func postToRow(p *domain.Post) csvstore.Row {
	return csvstore.Row{
		"post_id":            p.ID,
		"author_id":          p.AuthorID,
		"content":            p.Content,
		"created_at":         p.CreatedAt,
		"is_retweet":         boolString(p.IsRetweet),
		"retweet_of_post_id": p.RetweetOfPostID,
	}
}
