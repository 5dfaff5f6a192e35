package sheet

import "errors"

var (
	// ErrNotFound means no tab matched; callers treat it as "not published yet".
	ErrNotFound = errors.New("sheet not found")
	// ErrAuth means credentials are missing or rejected. Never retried.
	ErrAuth = errors.New("sheet credentials rejected")
	// ErrTransient covers every other remote failure.
	ErrTransient = errors.New("sheet fetch failed")
)
