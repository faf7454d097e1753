package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested item is not exists, not owned
	// by the caller, or not in the state the operation requires. The three
	// cases are deliberately indistinguishable so existence of other users'
	// comments never leaks.
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrWindowExpired will throw once a time-boxed permission has lapsed:
	// edits after EditWindow, restores after RestoreWindow.
	ErrWindowExpired = errors.New("the time window for this action has expired")
	// ErrUnauthorized will throw if no valid principal accompanies the request
	ErrUnauthorized = errors.New("user is not authenticated")
	// ErrCacheMiss will throw if the requested item is not cached
	ErrCacheMiss = errors.New("requested item is not cached")
)
