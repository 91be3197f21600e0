package repository

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"social-feed/internal/csvstore"
	"social-feed/internal/domain"
)

// UnknownUserLabel is the display name used when an author id no longer
// resolves to a user.
const UnknownUserLabel = "unknown"

type UserRepository struct {
	store *csvstore.Store
}

func NewUserRepository(store *csvstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create registers a new user. Usernames are unique case-insensitively via
// the username_lc column; passwords are stored bcrypt-hashed.
func (r *UserRepository) Create(username, password string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrEmptyUsername
	}
	if strings.TrimSpace(password) == "" {
		return nil, ErrEmptyPassword
	}

	exists, err := r.usernameExists(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:         uuid.NewString(),
		Password:   string(hashedPassword),
		Username:   username,
		UsernameLC: strings.ToLower(username),
		CreatedAt:  nowISO(),
	}
	if err := r.store.Append(csvstore.Users, userToRow(user)); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) usernameExists(username string) (bool, error) {
	rows, err := r.store.Load(csvstore.Users)
	if err != nil {
		return false, err
	}
	lc := strings.ToLower(username)
	for _, row := range rows {
		if row["username_lc"] == lc {
			return true, nil
		}
	}
	return false, nil
}

// VerifyLogin authenticates by case-insensitive username and password.
// Returns ErrUserNotFound for unknown names and wrong passwords alike.
func (r *UserRepository) VerifyLogin(username, password string) (*domain.User, error) {
	rows, err := r.store.Load(csvstore.Users)
	if err != nil {
		return nil, err
	}
	lc := strings.ToLower(username)
	for _, row := range rows {
		if row["username_lc"] != lc {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(row["user_password"]), []byte(password)) != nil {
			return nil, ErrUserNotFound
		}
		return userFromRow(row), nil
	}
	return nil, ErrUserNotFound
}

func (r *UserRepository) GetByID(userID string) (*domain.User, error) {
	rows, err := r.store.Load(csvstore.Users)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row["user_id"] == userID {
			return userFromRow(row), nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *UserRepository) GetByName(username string) (*domain.User, error) {
	rows, err := r.store.Load(csvstore.Users)
	if err != nil {
		return nil, err
	}
	lc := strings.ToLower(username)
	for _, row := range rows {
		if row["username_lc"] == lc {
			return userFromRow(row), nil
		}
	}
	return nil, ErrUserNotFound
}

// DisplayName resolves a user id to its username, degrading to
// UnknownUserLabel when the id is missing.
func (r *UserRepository) DisplayName(userID string) string {
	user, err := r.GetByID(userID)
	if err != nil {
		return UnknownUserLabel
	}
	return user.Username
}

// UpdateProfile overwrites bio and avatar for the matching user id. Missing
// ids are a silent no-op.
func (r *UserRepository) UpdateProfile(userID, bio, avatarURL string) error {
	return r.store.Update(csvstore.Users, func(rows []csvstore.Row) ([]csvstore.Row, error) {
		next := make([]csvstore.Row, 0, len(rows))
		for _, row := range rows {
			if row["user_id"] == userID {
				row = row.Clone()
				row["bio"] = bio
				row["avatar_url"] = avatarURL
			}
			next = append(next, row)
		}
		return next, nil
	})
}

func userFromRow(row csvstore.Row) *domain.User {
	return &domain.User{
		ID:         row["user_id"],
		Password:   row["user_password"],
		Username:   row["username"],
		UsernameLC: row["username_lc"],
		CreatedAt:  row["created_at"],
		Bio:        row["bio"],
		AvatarURL:  row["avatar_url"],
		IsAdmin:    parseBool(row["is_admin"]),
	}
}

func userToRow(u *domain.User) csvstore.Row {
	return csvstore.Row{
		"user_id":       u.ID,
		"user_password": u.Password,
		"username":      u.Username,
		"username_lc":   u.UsernameLC,
		"created_at":    u.CreatedAt,
		"bio":           u.Bio,
		"avatar_url":    u.AvatarURL,
		"is_admin":      boolString(u.IsAdmin),
	}
}
