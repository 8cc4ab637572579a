package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrSyncRunNotFound    = fmt.Errorf("sync run not found")

	// Pipeline errors
	ErrCatalogUnavailable = fmt.Errorf("catalog unavailable")
	ErrSearch             = fmt.Errorf("search failed")
	ErrDownload           = fmt.Errorf("download failed")
	ErrTargetExists       = fmt.Errorf("target already exists")
	ErrTagWrite           = fmt.Errorf("tag write failed")
	ErrCoverEmbed         = fmt.Errorf("cover embed failed")
	ErrCoverTooSmall      = fmt.Errorf("cover image too small")
	ErrUnknownImage       = fmt.Errorf("unrecognized image type")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
