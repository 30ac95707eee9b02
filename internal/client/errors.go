package client

import (
	"encoding/json"
	"errors"
)

// UnknownError is shown when a failure carries no server message.
const UnknownError = "Unknown error"

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Errors  map[string][]string
	Detail  string
	Body    []byte
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Body: body}
	var payload struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
		Error   string              `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Message = payload.Message
		e.Errors = payload.Errors
		e.Detail = payload.Error
	}
	return e
}

// Display is the text shown to the user: the server message, else the
// validation errors as JSON, else the error field, else UnknownError.
func (e *APIError) Display() string {
	switch {
	case e.Message != "":
		return e.Message
	case len(e.Errors) > 0:
		b, err := json.Marshal(e.Errors)
		if err == nil {
			return string(b)
		}
	case e.Detail != "":
		return e.Detail
	}
	return UnknownError
}

func (e *APIError) Error() string {
	return "api: " + e.Display()
}

// Message is the alert text for any error returned by this package.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Display()
	}
	return UnknownError
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
