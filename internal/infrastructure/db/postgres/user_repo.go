package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/user-mgmt-service/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const userColumns = `id, name, email, password_hash, designation, status, registration_date, last_login_time, email_verification_token`

func (r *UserRepo) scanUserRow(row *sql.Row) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Name,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Designation,
		&ur.Status,
		&ur.RegistrationDate,
		&ur.LastLoginTime,
		&ur.VerificationToken,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:                ur.ID,
		Name:              ur.Name,
		Email:             ur.Email,
		PasswordHash:      ur.PasswordHash,
		Designation:       ur.Designation,
		Status:            domain.Status(ur.Status),
		RegistrationDate:  ur.RegistrationDate,
		LastLoginTime:     ur.LastLoginTime,
		VerificationToken: ur.VerificationToken,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if u.Status == "" {
		u.Status = domain.StatusUnverified
	}

	const q = `
INSERT INTO users (id, name, email, password_hash, designation, status, registration_date, email_verification_token)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING ` + userColumns + `;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Designation, string(u.Status),
		u.RegistrationDate, u.VerificationToken,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users
SET last_login_time = $2
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID, at)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// ConsumeVerification only matches rows that are still unverified, so a
// replayed token (or a user blocked meanwhile) affects nothing.
func (r *UserRepo) ConsumeVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.ErrMissingField("email")
	}

	const q = `
UPDATE users
SET status = 'active',
    email_verification_token = NULL
WHERE email = $1
  AND status = 'unverified';
`
	res, err := r.db.ExecContext(ctx, q, email)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrVerificationNotFound()
	}
	return nil
}

// List returns every user, most recent login first. NULLS LAST keeps
// never-logged-in accounts at the bottom instead of the top.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
ORDER BY last_login_time DESC NULLS LAST, registration_date DESC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var ur userRow
		if err := rows.Scan(
			&ur.ID,
			&ur.Name,
			&ur.Email,
			&ur.PasswordHash,
			&ur.Designation,
			&ur.Status,
			&ur.RegistrationDate,
			&ur.LastLoginTime,
			&ur.VerificationToken,
		); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, toDomainUser(ur))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *UserRepo) SetStatusBulk(ctx context.Context, ids []string, status domain.Status) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.ErrMissingField("ids")
	}
	if !domain.IsValidStatus(string(status)) {
		return 0, domain.ErrInvalidField("status", string(status))
	}

	const q = `
UPDATE users
SET status = $2
WHERE id = ANY($1);
`
	res, err := r.db.ExecContext(ctx, q, ids, string(status))
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *UserRepo) DeleteBulk(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.ErrMissingField("ids")
	}

	const q = `
DELETE FROM users
WHERE id = ANY($1);
`
	res, err := r.db.ExecContext(ctx, q, ids)
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *UserRepo) DeleteUnverifiedBulk(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.ErrMissingField("ids")
	}

	const q = `
DELETE FROM users
WHERE id = ANY($1)
  AND status = 'unverified';
`
	res, err := r.db.ExecContext(ctx, q, ids)
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
