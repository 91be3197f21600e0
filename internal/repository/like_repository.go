package repository

import (
	"social-feed/internal/csvstore"
)

type LikeRepository struct {
	store *csvstore.Store
}

func NewLikeRepository(store *csvstore.Store) *LikeRepository {
	return &LikeRepository{store: store}
}

// Toggle flips the like for (post, user): removes the row if present,
// inserts one otherwise. Runs as a single locked read-modify-write. Returns
// whether the post is liked afterwards.
func (r *LikeRepository) Toggle(postID, userID string) (bool, error) {
	var liked bool
	err := r.store.Update(csvstore.Likes, func(rows []csvstore.Row) ([]csvstore.Row, error) {
		next := make([]csvstore.Row, 0, len(rows)+1)
		found := false
		for _, row := range rows {
			if row["post_id"] == postID && row["user_id"] == userID {
				found = true
				continue
			}
			next = append(next, row)
		}
		if !found {
			next = append(next, csvstore.Row{
				"post_id":    postID,
				"user_id":    userID,
				"created_at": nowISO(),
			})
		}
		liked = !found
		return next, nil
	})
	return liked, err
}

func (r *LikeRepository) HasLiked(postID, userID string) (bool, error) {
	rows, err := r.store.Load(csvstore.Likes)
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if row["post_id"] == postID && row["user_id"] == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *LikeRepository) Count(postID string) (int, error) {
	rows, err := r.store.Load(csvstore.Likes)
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
