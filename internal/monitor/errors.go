package monitor

// unknownSourceError signals a source name outside radarr/sonarr for 404 mapping.
type unknownSourceError struct{ name string }

func (e unknownSourceError) Error() string { return "unknown source: " + e.name }

// ErrUnknownSource constructs an unknownSourceError.
func ErrUnknownSource(name string) error { return unknownSourceError{name: name} }

// IsUnknownSource reports whether err indicates an unrecognized source name.
func IsUnknownSource(err error) bool {
	_, ok := err.(unknownSourceError)
	return ok
}

// sourceUnavailableError signals that a source is configured off or has no
// client, so the HTTP layer can return 503 instead of 500.
type sourceUnavailableError struct{ source Source }

func (e sourceUnavailableError) Error() string {
	return "source unavailable: " + string(e.source)
}

// ErrSourceUnavailable constructs a sourceUnavailableError.
func ErrSourceUnavailable(src Source) error { return sourceUnavailableError{source: src} }

// IsSourceUnavailable reports whether err indicates a disabled/missing source client.
func IsSourceUnavailable(err error) bool {
	_, ok := err.(sourceUnavailableError)
	return ok
}

// downloadNotFoundError signals an untracked download id for 404 mapping.
type downloadNotFoundError struct{ id DownloadID }

func (e downloadNotFoundError) Error() string { return "download not tracked: " + e.id.String() }

// ErrDownloadNotFound constructs a downloadNotFoundError.
func ErrDownloadNotFound(id DownloadID) error { return downloadNotFoundError{id: id} }

// IsDownloadNotFound reports whether err indicates an untracked download.
func IsDownloadNotFound(err error) bool {
	_, ok := err.(downloadNotFoundError)
	return ok
}

// ParseSource validates a source name from the API surface.
func ParseSource(name string) (Source, error) {
	switch Source(name) {
	case SourceRadarr, SourceSonarr:
		return Source(name), nil
	default:
		return "", ErrUnknownSource(name)
	}
}
