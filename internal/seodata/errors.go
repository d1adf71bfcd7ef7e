package seodata

import (
	"errors"
	"fmt"
)

var errNoFetcher = errors.New("seodata: no fetcher configured")

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("seodata: fetcher panicked: %v", e.value)
}
