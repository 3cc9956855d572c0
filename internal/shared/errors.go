package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")

	// Engine errors. ErrMalformedInput and ErrPersistence are the only
	// fatal classes: per-item failures downgrade to result classifications.
	ErrMalformedInput = fmt.Errorf("malformed catalog input")
	ErrTransient      = fmt.Errorf("transient collaborator failure")
	ErrConflict       = fmt.Errorf("artwork conflict")
	ErrPersistence    = fmt.Errorf("baseline persistence failure")
	ErrNoBaseline     = fmt.Errorf("no baseline snapshot")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrArtworkNotFound    = fmt.Errorf("artwork not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
