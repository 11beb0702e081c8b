package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/fisherfans/fisherfans-api/internal/utils"
)

// User mirrors the 'users' table. The password hash never leaves the API:
// it is excluded from JSON and only selected by the login path.
type User struct {
	ID                string   `json:"id"`
	LastName          string   `json:"lastName"`
	FirstName         string   `json:"firstName"`
	Email             string   `json:"email"`
	PasswordHash      string   `json:"-"`
	City              string   `json:"city"`
	Phone             string   `json:"phone,omitempty"`
	PhotoURL          string   `json:"photoUrl,omitempty"`
	Status            string   `json:"status"`
	BoatLicenseNumber string   `json:"boatLicenseNumber,omitempty"`
	InsuranceNumber   string   `json:"insuranceNumber,omitempty"`
	CompanyName       string   `json:"companyName,omitempty"`
	ActivityType      string   `json:"activityType,omitempty"`
	BirthDate         string   `json:"birthDate,omitempty"`
	Address           string   `json:"address,omitempty"`
	PostalCode        string   `json:"postalCode,omitempty"`
	Languages         []string `json:"languages,omitempty"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
}

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// userColumns is the SELECT list shared by every read; languages is stored
// as a comma-separated column and birth_date is rendered as YYYY-MM-DD.
const userColumns = `id, last_name, first_name, email, password_hash, city, phone,
	photo_url, status, boat_license_number, insurance_number, company_name,
	activity_type, COALESCE(DATE_FORMAT(birth_date, '%Y-%m-%d'), '') AS birth_date,
	address, postal_code, languages,
	DATE_FORMAT(created_at, '%Y-%m-%dT%TZ'), DATE_FORMAT(updated_at, '%Y-%m-%dT%TZ')`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var languages string
	err := row.Scan(&u.ID, &u.LastName, &u.FirstName, &u.Email, &u.PasswordHash,
		&u.City, &u.Phone, &u.PhotoURL, &u.Status, &u.BoatLicenseNumber,
		&u.InsuranceNumber, &u.CompanyName, &u.ActivityType, &u.BirthDate,
		&u.Address, &u.PostalCode, &languages, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Languages = splitList(languages)
	return &u, nil
}

// Create inserts a user with a fresh UUID and a bcrypt-hashed password.
// The email uniqueness constraint lives in the database; a duplicate-key
// violation is mapped to ErrEmailExists so concurrent registrations with
// the same address cannot both succeed.
func (r *UserRepo) Create(ctx context.Context, u *User, password string, cost int) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.ID = uuid.NewString()
	u.PasswordHash = hash

	const q = `INSERT INTO users
		(id, last_name, first_name, email, password_hash, city, phone, photo_url,
		 status, boat_license_number, insurance_number, company_name, activity_type,
		 birth_date, address, postal_code, languages)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,NULLIF(?,''),?,?,?)`
	_, err = r.db.ExecContext(ctx, q,
		u.ID, u.LastName, u.FirstName, u.Email, u.PasswordHash, u.City, u.Phone,
		u.PhotoURL, u.Status, u.BoatLicenseNumber, u.InsuranceNumber, u.CompanyName,
		u.ActivityType, u.BirthDate, u.Address, u.PostalCode, joinList(u.Languages))
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	// Follow-up SELECT to populate the DB-generated timestamps.
	created, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *created
	return nil
}

// GetByID fetches a user by id and returns ErrUserNotFound when missing.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	const q = "SELECT " + userColumns + " FROM users WHERE id = ? LIMIT 1"
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetByEmail fetches a user by normalized email, hash included; it backs the
// login path and reports ErrUserNotFound for unknown addresses so that the
// handler can collapse both failure modes into one 401.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = "SELECT " + userColumns + " FROM users WHERE email = ? LIMIT 1"
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// Search lists users filtered by optional lastName/city substrings and an
// exact status. Filters compose with AND; empty values are skipped.
func (r *UserRepo) Search(ctx context.Context, lastName, city, status string) ([]*User, error) {
	where := []string{"1=1"}
	args := []any{}
	if lastName != "" {
		where = append(where, "LOWER(last_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(lastName)+"%")
	}
	if city != "" {
		where = append(where, "LOWER(city) LIKE ?")
		args = append(args, "%"+strings.ToLower(city)+"%")
	}
	if status != "" {
		where = append(where, "status = ?")
		args = append(args, status)
	}
	q := "SELECT " + userColumns + " FROM users WHERE " + strings.Join(where, " AND ") + " ORDER BY created_at"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		var u User
		var languages string
		if err := rows.Scan(&u.ID, &u.LastName, &u.FirstName, &u.Email, &u.PasswordHash,
			&u.City, &u.Phone, &u.PhotoURL, &u.Status, &u.BoatLicenseNumber,
			&u.InsuranceNumber, &u.CompanyName, &u.ActivityType, &u.BirthDate,
			&u.Address, &u.PostalCode, &languages, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Languages = splitList(languages)
		out = append(out, &u)
	}
	return out, rows.Err()
}

// Update persists every mutable column of the user. Callers merge partial
// request bodies into a loaded record before calling this, so a full-row
// UPDATE keeps the SQL simple. A changed email can still collide with the
// unique key, which surfaces as ErrEmailExists.
func (r *UserRepo) Update(ctx context.Context, u *User) error {
	const q = `UPDATE users SET
		last_name = ?, first_name = ?, email = ?, password_hash = ?, city = ?,
		phone = ?, photo_url = ?, status = ?, boat_license_number = ?,
		insurance_number = ?, company_name = ?, activity_type = ?,
		birth_date = NULLIF(?, ''), address = ?, postal_code = ?, languages = ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		u.LastName, u.FirstName, strings.ToLower(strings.TrimSpace(u.Email)),
		u.PasswordHash, u.City, u.Phone, u.PhotoURL, u.Status, u.BoatLicenseNumber,
		u.InsuranceNumber, u.CompanyName, u.ActivityType, u.BirthDate, u.Address,
		u.PostalCode, joinList(u.Languages), u.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op update;
		// re-check existence so only the former maps to not-found.
		if _, err := r.GetByID(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

// Anonymize blanks the personal fields of an account instead of deleting the
// row, so bookings and logbook entries keep a valid owner reference. The
// email is rewritten to a unique tombstone to free the address for reuse.
func (r *UserRepo) Anonymize(ctx context.Context, id string) error {
	const q = `UPDATE users SET
		last_name = 'ANONYMIZED', first_name = 'ANONYMIZED',
		email = CONCAT('deleted_', id, '@anonymized.invalid'),
		phone = '', photo_url = '', boat_license_number = '',
		insurance_number = '', company_name = '', address = '',
		postal_code = '', languages = '', birth_date = NULL,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
