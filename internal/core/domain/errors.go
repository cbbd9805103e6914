package domain

import "errors"

var ErrInvalidCredentials = errors.New("incorrect username or password")
var ErrUnauthenticated = errors.New("could not validate credentials")
var ErrTokenExpired = errors.New("token expired")
var ErrInactiveUser = errors.New("inactive user")
var ErrForbidden = errors.New("access forbidden")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrDatasetUnavailable = errors.New("dataset unavailable")
