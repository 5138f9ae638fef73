package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/worldatlas/worldatlas-go/internal/model"
)

const mysqlErrDuplicateEntry = 1062

// MySQLUserRepository stores users in MySQL.
type MySQLUserRepository struct {
	db     *sql.DB
	hasher PasswordHasher
}

// NewMySQLUserRepository creates a new MySQLUserRepository.
func NewMySQLUserRepository(db *sql.DB, hasher PasswordHasher) *MySQLUserRepository {
	return &MySQLUserRepository{db: db, hasher: hasher}
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *MySQLUserRepository) Create(ctx context.Context, user *model.User) error {
	if err := BeforeSave(user, r.hasher); err != nil {
		return err
	}

	favorites, err := json.Marshal(user.FavoriteCountries)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (name, email, password, favorite_countries) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash, favorites)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user.ID = strconv.FormatInt(id, 10)
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// Save inserts user if it has no ID, otherwise updates it. The password
// column is only written when a new password was staged.
func (r *MySQLUserRepository) Save(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		return r.Create(ctx, user)
	}

	id, err := parseMySQLID(user.ID)
	if err != nil {
		return err
	}

	rehash := user.PasswordModified()
	if err := BeforeSave(user, r.hasher); err != nil {
		return err
	}

	favorites, err := json.Marshal(user.FavoriteCountries)
	if err != nil {
		return err
	}

	var result sql.Result
	if rehash {
		result, err = r.db.ExecContext(ctx,
			`UPDATE users SET name = ?, email = ?, password = ?, favorite_countries = ? WHERE id = ?`,
			user.Name, user.Email, user.PasswordHash, favorites, id)
	} else {
		result, err = r.db.ExecContext(ctx,
			`UPDATE users SET name = ?, email = ?, favorite_countries = ? WHERE id = ?`,
			user.Name, user.Email, favorites, id)
	}
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	// MySQL reports 0 affected rows when the values did not change, so a
	// zero count alone does not mean the row is missing.
	if affected == 0 {
		if err := r.exists(ctx, id); err != nil {
			return err
		}
	}

	user.UpdatedAt = time.Now().UTC()
	return nil
}

// FindByEmail retrieves a user, including the password hash, by exact email match.
func (r *MySQLUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, name, email, password, favorite_countries, created_at, updated_at
		FROM users WHERE email = ?`

	var (
		id        int64
		favorites []byte
	)
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&id, &user.Name, &user.Email, &user.PasswordHash, &favorites, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.ID = strconv.FormatInt(id, 10)
	if err := decodeFavorites(favorites, user); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID retrieves a user by ID. The password hash is not selected.
func (r *MySQLUserRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	id, err := parseMySQLID(userID)
	if err != nil {
		return nil, err
	}

	query := `SELECT name, email, favorite_countries, created_at, updated_at FROM users WHERE id = ?`

	var favorites []byte
	user := &model.User{ID: userID}
	err = r.db.QueryRowContext(ctx, query, id).Scan(
		&user.Name, &user.Email, &favorites, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := decodeFavorites(favorites, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *MySQLUserRepository) exists(ctx context.Context, id int64) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

func parseMySQLID(userID string) (int64, error) {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func decodeFavorites(raw []byte, user *model.User) error {
	user.FavoriteCountries = []string{}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, &user.FavoriteCountries)
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry
}
