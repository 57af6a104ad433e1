package repository

import "errors"

// ErrNotFound se devuelve cuando el registro buscado no existe.
var ErrNotFound = errors.New("record not found")
