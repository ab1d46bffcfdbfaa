package domain

import (
	"errors"
	"time"
)

var (
	// ErrLoginAlreadyExists indicates that the user with the given login already exists.
	ErrLoginAlreadyExists = errors.New("login already exists")
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword indicates the wrong password for the given user.
	ErrWrongPassword = errors.New("wrong password")
	// ErrPhoneMismatch indicates that the provided phone does not match the user's phone.
	ErrPhoneMismatch = errors.New("phone does not match")
)

// User holds user data.
type User struct {
	UID            int64     `json:"uid"`
	Login          string    `json:"login"`
	HashedPassword string    `json:"hashed_password"`
	Phone          string    `json:"phone"`
	Age            string    `json:"age"`
	CardNumber     string    `json:"card_number,omitempty"`
	Geo            string    `json:"geo,omitempty"`
	Verified       bool      `json:"verified"`
	Online         bool      `json:"online"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	Login          string `json:"login"`
	HashedPassword string `json:"hashed_password"`
	Phone          string `json:"phone"`
	Age            string `json:"age"`
}

// VerifyUserParams is the input data to verify a user.
type VerifyUserParams struct {
	Login      string `json:"login"`
	Phone      string `json:"phone"`
	Age        string `json:"age"`
	CardNumber string `json:"card_number,omitempty"`
	Geo        string `json:"geo,omitempty"`
}

// UserWithoutPassword is User data excluding password data.
type UserWithoutPassword struct {
	UID       int64     `json:"uid"`
	Login     string    `json:"login"`
	Phone     string    `json:"phone,omitempty"`
	Age       string    `json:"age,omitempty"`
	Verified  bool      `json:"verified"`
	Online    bool      `json:"online"`
	CreatedAt time.Time `json:"created_at"`
}
