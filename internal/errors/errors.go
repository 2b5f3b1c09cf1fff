// internal/errors/errors.go
package errors

import "fmt"

// ErrMissingAttribute is returned when a required request attribute, such as
// the repository name path parameter, is absent.
type ErrMissingAttribute struct {
	Attribute string
}

func (e *ErrMissingAttribute) Error() string {
	return fmt.Sprintf("missing required request attribute %q", e.Attribute)
}

// ErrInvalidAttribute is returned when a request attribute is present but
// cannot be used as given.
type ErrInvalidAttribute struct {
	Attribute string
	Value     string
	Reason    string
}

func (e *ErrInvalidAttribute) Error() string {
	return fmt.Sprintf("invalid request attribute %q value %q: %s", e.Attribute, e.Value, e.Reason)
}

// ErrMalformedBody is returned when a request body declares a supported media
// type but cannot be decoded as such.
type ErrMalformedBody struct {
	MediaType string
	Err       error
}

func (e *ErrMalformedBody) Error() string {
	return fmt.Sprintf("malformed %s request body: %v", e.MediaType, e.Err)
}

func (e *ErrMalformedBody) Unwrap() error {
	return e.Err
}

// ErrRepositoryExists is returned when a repository with the same name has
// already been initialized.
type ErrRepositoryExists struct {
	Name string
}

func (e *ErrRepositoryExists) Error() string {
	return fmt.Sprintf("repository %q already exists", e.Name)
}

// ErrRepositoryNotFound is returned when a lookup names an unknown repository.
type ErrRepositoryNotFound struct {
	Name string
}

func (e *ErrRepositoryNotFound) Error() string {
	return fmt.Sprintf("repository %q not found", e.Name)
}
