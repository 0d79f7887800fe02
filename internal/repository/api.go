package repository

import (
	"context"
	"net/url"
	"strconv"
)

// apiClient is the slice of the authenticated backend client the remote
// repositories need.
type apiClient interface {
	GetJSON(ctx context.Context, path string, out any) error
	SendJSON(ctx context.Context, method, path string, in, out any) error
}

func itemPath(base string, id int) string {
	return base + "/" + strconv.Itoa(id)
}

func withQuery(path string, values url.Values) string {
	if encoded := values.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}
