package ancpi

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// StatusError reports a non-2xx response from the feature service.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ancpi: http status %d", e.Status)
}

// Sentinel failures for the fetch contract. Wrapped values remain
// classifiable with errors.Is.
var (
	// ErrParse means the response body was not valid JSON.
	ErrParse = eris.New("ancpi: malformed response body")

	// ErrEmptyResult means the response was valid but carried no usable
	// geometry (no features, no geometry, or no rings).
	ErrEmptyResult = eris.New("ancpi: response contains no usable geometry")
)
