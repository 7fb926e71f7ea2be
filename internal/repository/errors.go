// Package repository implements the data access layer on top of MongoDB.
// This file defines sentinel error values shared across repositories so that
// handlers can translate failures into the right HTTP responses with
// errors.Is instead of inspecting driver errors.
package repository

import "errors"

// ErrEmailExists is returned when a write would violate the unique email
// index. Handlers translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a document does not exist or is owned by a
// different user. Both cases map to the same HTTP 404 response so that
// existence of other users' resources is never leaked.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials is returned by credential verification for both an
// unknown email and a wrong password. The single value keeps the login
// failure message generic.
var ErrInvalidCredentials = errors.New("invalid credentials")
