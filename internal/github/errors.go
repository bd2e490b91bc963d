package github

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a repository listing could not be produced.
type ErrorKind int

const (
	// KindNetwork means the request never completed: DNS, connection
	// reset, deadline exceeded and so on.
	KindNetwork ErrorKind = iota + 1
	// KindHTTPStatus means the API answered with a non-2xx status.
	KindHTTPStatus
	// KindDecode means the body was not a JSON array of repositories.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is returned by ListUserRepos for every failure.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int    // set for KindHTTPStatus
	Body       string // response excerpt for KindHTTPStatus
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("GitHub API returned %d", e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("decoding repositories: %v", e.Err)
	default:
		return fmt.Sprintf("requesting repositories: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError returns err as a *FetchError. Any other error, including a
// caller's context deadline, is reported as KindNetwork.
func AsFetchError(err error) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{Kind: KindNetwork, Err: err}
}
