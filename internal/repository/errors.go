// Package repository implements MySQL persistence for users, blogs and
// comments. Sentinel errors let the service layer distinguish failure
// scenarios without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned by lookups that matched no row. Lookups never
// return an empty record in place of an error.
var ErrNotFound = errors.New("record not found")

// ErrEmailExists is returned when creating an account whose email is
// already registered (case-insensitive).
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when creating an account whose username is
// already taken (case-insensitive).
var ErrUsernameExists = errors.New("username already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")
