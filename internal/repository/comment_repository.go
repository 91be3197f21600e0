package repository

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"social-feed/internal/csvstore"
	"social-feed/internal/domain"
)

type CommentRepository struct {
	store *csvstore.Store
}

func NewCommentRepository(store *csvstore.Store) *CommentRepository {
	return &CommentRepository{store: store}
}

// Create appends a comment. parentCommentID is stored for future threading
// but otherwise unused.
func (r *CommentRepository) Create(postID, authorID, content, parentCommentID string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, ErrContentTooLong
	}

	comment := &domain.Comment{
		ID:              uuid.NewString(),
		PostID:          postID,
		AuthorID:        authorID,
		Content:         content,
		CreatedAt:       nowISO(),
		ParentCommentID: parentCommentID,
	}
	row := csvstore.Row{
		"comment_id":        comment.ID,
		"post_id":           comment.PostID,
		"author_id":         comment.AuthorID,
		"content":           comment.Content,
		"created_at":        comment.CreatedAt,
		"parent_comment_id": comment.ParentCommentID,
	}
	if err := r.store.Append(csvstore.Comments, row); err != nil {
		return nil, err
	}
	return comment, nil
}

// ByPost returns the post's comments oldest first.
func (r *CommentRepository) ByPost(postID string) ([]domain.Comment, error) {
	rows, err := r.store.Load(csvstore.Comments)
	if err != nil {
		return nil, err
	}
	comments := make([]domain.Comment, 0)
	for _, row := range rows {
		if row["post_id"] == postID {
			comments = append(comments, commentFromRow(row))
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt < comments[j].CreatedAt
	})
	return comments, nil
}

func (r *CommentRepository) GetByID(commentID string) (*domain.Comment, error) {
	rows, err := r.store.Load(csvstore.Comments)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row["comment_id"] == commentID {
			c := commentFromRow(row)
			return &c, nil
		}
	}
	return nil, ErrCommentNotFound
}

// Delete removes only the matching comment row.
func (r *CommentRepository) Delete(commentID string) error {
	return r.store.Update(csvstore.Comments, func(rows []csvstore.Row) ([]csvstore.Row, error) {
		return dropRows(rows, "comment_id", commentID), nil
	})
}

func (r *CommentRepository) CountByPost(postID string) (int, error) {
	rows, err := r.store.Load(csvstore.Comments)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, row := range rows {
		if row["post_id"] == postID {
			count++
		}
	}
	return count, nil
}

func commentFromRow(row csvstore.Row) domain.Comment {
	return domain.Comment{
		ID:              row["comment_id"],
		PostID:          row["post_id"],
		AuthorID:        row["author_id"],
		Content:         row["content"],
		CreatedAt:       row["created_at"],
		ParentCommentID: row["parent_comment_id"],
	}
}
