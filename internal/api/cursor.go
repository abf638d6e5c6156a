package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// pageToken is the opaque cursor handed to clients of list endpoints.
type pageToken struct {
	Model string `msgpack:"m"`
	After string `msgpack:"a"`
}

// page wraps one page of a list endpoint.
type page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

func encodeCursor(model, after string) (string, error) {
	b, err := msgpack.Marshal(pageToken{Model: model, After: after})
	if err != nil {
		return "", fmt.Errorf("failed to encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func decodeCursor(model, token string) (*string, error) {
	if token == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed cursor", errBadRequest)
	}
	var tok pageToken
	if err := msgpack.Unmarshal(b, &tok); err != nil || tok.Model != model || tok.After == "" {
		return nil, fmt.Errorf("%w: invalid cursor", errBadRequest)
	}
	return &tok.After, nil
}

const (
	defaultTake = 20
	maxTake     = 100
)

// paging reads the cursor and take query parameters.
func paging(r *http.Request, model string) (after *string, take int, err error) {
	q := r.URL.Query()
	take = defaultTake
	if s := q.Get("take"); s != "" {
		take, err = strconv.Atoi(s)
		if err != nil || take < 1 {
			return nil, 0, fmt.Errorf("%w: take must be a positive integer", errBadRequest)
		}
		take = min(take, maxTake)
	}
	after, err = decodeCursor(model, q.Get("cursor"))
	return after, take, err
}

// newPage returns items with a cursor for the next page when the page is
// full.
func newPage[T any](model string, items []T, take int, id func(T) string) (page[T], error) {
	p := page[T]{Items: items}
	if p.Items == nil {
		p.Items = []T{}
	}
	if len(items) == take {
		next, err := encodeCursor(model, id(items[len(items)-1]))
		if err != nil {
			return page[T]{}, err
		}
		p.NextCursor = next
	}
	return p, nil
}
