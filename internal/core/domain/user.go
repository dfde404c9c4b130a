package domain

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrInvalidUsername    = errors.New("username must be 3-50 characters")
	ErrInvalidGender      = errors.New("gender must be male or female")
	ErrInvalidBirthDate   = errors.New("birth date is required and must be before today")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrPasswordMismatch   = errors.New("new password confirmation does not match")
)

type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Username     string     `json:"username" db:"username"`
	Gender       string     `json:"gender" db:"gender"`
	BirthDate    *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
}

func NewUser(id, email, username, gender string) (*User, error) {
	email = strings.TrimSpace(email)
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	gender, err = normalizeGender(gender)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		ID:        id,
		Email:     strings.ToLower(email),
		Username:  username,
		Gender:    gender,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateProfile replaces username, gender and birth date. The birth date is
// stored as a calendar day and must fall before today.
func (u *User) UpdateProfile(username, gender string, birthDate *time.Time, today time.Time) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	gender, err = normalizeGender(gender)
	if err != nil {
		return err
	}
	if birthDate == nil || !DateOnly(*birthDate).Before(DateOnly(today)) {
		return ErrInvalidBirthDate
	}

	day := DateOnly(*birthDate)
	u.Username = username
	u.Gender = gender
	u.BirthDate = &day
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// ChangePassword checks the current password before hashing the new one.
func (u *User) ChangePassword(current, next, confirmation string) error {
	if err := u.CheckPassword(current); err != nil {
		return ErrWrongPassword
	}
	if next != confirmation {
		return ErrPasswordMismatch
	}
	return u.SetPassword(next)
}

func (u *User) SetPassword(plainPassword string) error {
	if utf8.RuneCountInString(plainPassword) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) CheckPassword(plainPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plainPassword)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return "", ErrInvalidUsername
	}
	return username, nil
}

func normalizeGender(gender string) (string, error) {
	gender = strings.ToLower(strings.TrimSpace(gender))
	if gender != GenderMale && gender != GenderFemale {
		return "", ErrInvalidGender
	}
	return gender, nil
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
