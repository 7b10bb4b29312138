package service

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUsernameTaken = errors.New("please use a different username")
	ErrEmailTaken    = errors.New("please use a different email address")

	ErrNotFound = errors.New("recipe not found")
	ErrNotOwner = errors.New("you do not have permission to modify this recipe")
)
