package repository

import (
	"context"

	"github.com/google/uuid"
)

const insertUser = `-- name: InsertUser :one
INSERT INTO users (id, email, first_name, last_name, password, num_successful_logins)
VALUES ($1, $2, $3, $4, $5, 1)
RETURNING id, email, first_name, last_name, password, num_successful_logins, num_failed_passwords, created_at, updated_at
`

type InsertUserParams struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Password  string
}

func (q *Queries) InsertUser(c context.Context, arg InsertUserParams) (User, error) {
	row := q.db.QueryRow(c, insertUser,
		arg.ID,
		arg.Email,
		arg.FirstName,
		arg.LastName,
		arg.Password,
	)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.FirstName,
		&i.LastName,
		&i.Password,
		&i.NumSuccessfulLogins,
		&i.NumFailedPasswords,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findUserByEmail = `-- name: FindUserByEmail :one
SELECT id, email, first_name, last_name, password, num_successful_logins, num_failed_passwords, created_at, updated_at
FROM users
WHERE email = $1
`

func (q *Queries) FindUserByEmail(c context.Context, email string) (User, error) {
	row := q.db.QueryRow(c, findUserByEmail, email)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.FirstName,
		&i.LastName,
		&i.Password,
		&i.NumSuccessfulLogins,
		&i.NumFailedPasswords,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findUserById = `-- name: FindUserById :one
SELECT id, email, first_name, last_name, password, num_successful_logins, num_failed_passwords, created_at, updated_at
FROM users
WHERE id = $1
`

func (q *Queries) FindUserById(c context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(c, findUserById, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.FirstName,
		&i.LastName,
		&i.Password,
		&i.NumSuccessfulLogins,
		&i.NumFailedPasswords,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateUserDetails = `-- name: UpdateUserDetails :one
UPDATE users
SET email = $2, first_name = $3, last_name = $4, updated_at = now()
WHERE id = $1
RETURNING id, email, first_name, last_name, password, num_successful_logins, num_failed_passwords, created_at, updated_at
`

type UpdateUserDetailsParams struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
}

func (q *Queries) UpdateUserDetails(c context.Context, arg UpdateUserDetailsParams) (User, error) {
	row := q.db.QueryRow(c, updateUserDetails, arg.ID, arg.Email, arg.FirstName, arg.LastName)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.FirstName,
		&i.LastName,
		&i.Password,
		&i.NumSuccessfulLogins,
		&i.NumFailedPasswords,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateUserPassword = `-- name: UpdateUserPassword :exec
UPDATE users
SET password = $2, updated_at = now()
WHERE id = $1
`

type UpdateUserPasswordParams struct {
	ID       uuid.UUID
	Password string
}

func (q *Queries) UpdateUserPassword(c context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.Exec(c, updateUserPassword, arg.ID, arg.Password)
	return err
}

const recordSuccessfulLogin = `-- name: RecordSuccessfulLogin :exec
UPDATE users
SET num_successful_logins = num_successful_logins + 1,
    num_failed_passwords = 0,
    updated_at = now()
WHERE id = $1
`

func (q *Queries) RecordSuccessfulLogin(c context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(c, recordSuccessfulLogin, id)
	return err
}

const recordFailedLogin = `-- name: RecordFailedLogin :exec
UPDATE users
SET num_failed_passwords = num_failed_passwords + 1,
    updated_at = now()
WHERE id = $1
`

func (q *Queries) RecordFailedLogin(c context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(c, recordFailedLogin, id)
	return err
}

const insertUserPassword = `-- name: InsertUserPassword :exec
INSERT INTO user_passwords (id, user_id, password)
VALUES ($1, $2, $3)
`

type InsertUserPasswordParams struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Password string
}

func (q *Queries) InsertUserPassword(c context.Context, arg InsertUserPasswordParams) error {
	_, err := q.db.Exec(c, insertUserPassword, arg.ID, arg.UserID, arg.Password)
	return err
}

const findUserPasswordsByUserId = `-- name: FindUserPasswordsByUserId :many
SELECT id, user_id, password, created_at
FROM user_passwords
WHERE user_id = $1
ORDER BY created_at ASC
`

func (q *Queries) FindUserPasswordsByUserId(
	c context.Context,
	userID uuid.UUID,
) ([]UserPassword, error) {
	rows, err := q.db.Query(c, findUserPasswordsByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []UserPassword{}
	for rows.Next() {
		var i UserPassword
		if err := rows.Scan(&i.ID, &i.UserID, &i.Password, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
