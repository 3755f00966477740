package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/alfredjeanlab/hrms/internal/model"
)

// Resource is the CRUD surface of one entity collection, e.g. designations
// at {base}/designations. Every entity uses the same conventions, so one
// generic type serves them all.
type Resource[T any] struct {
	c       *HTTPClient
	path    string
	listKey string
	itemKey string
}

// NewResource returns the resource rooted at path. listKey names the array
// in list responses ("designations"); itemKey names the record in detail
// responses ("designation").
func NewResource[T any](c *HTTPClient, path, listKey, itemKey string) *Resource[T] {
	return &Resource[T]{c: c, path: path, listKey: listKey, itemKey: itemKey}
}

// Path returns the collection path relative to the API root.
func (r *Resource[T]) Path() string { return r.path }

// List issues GET {base} with the filters as query parameters. Its
// signature matches listctl.FetchFunc, so r.List can drive a controller.
func (r *Resource[T]) List(ctx context.Context, f model.Filters) (*model.Page[T], error) {
	path := r.path
	if q := f.Query(); len(q) > 0 {
		path += "?" + q.Encode()
	}
	var raw json.RawMessage
	if err := r.c.doJSON(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw, r.listKey)
}

// Get issues GET {base}/{id}.
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	return r.item(ctx, http.MethodGet, r.recordPath(id), nil)
}

// Create issues POST {base} with body.
func (r *Resource[T]) Create(ctx context.Context, body any) (*T, error) {
	return r.item(ctx, http.MethodPost, r.path, body)
}

// Update issues PUT {base}/{id} with body.
func (r *Resource[T]) Update(ctx context.Context, id string, body any) (*T, error) {
	return r.item(ctx, http.MethodPut, r.recordPath(id), body)
}

// Patch issues PATCH {base}/{id}/{subsection} with body.
func (r *Resource[T]) Patch(ctx context.Context, id, subsection string, body any) (*T, error) {
	return r.item(ctx, http.MethodPatch, r.recordPath(id)+"/"+url.PathEscape(subsection), body)
}

// Delete issues DELETE {base}/{id}.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.doJSON(ctx, http.MethodDelete, r.recordPath(id), nil, nil)
}

// All walks every page for f, following hasNext, and returns the records in
// server order. maxPages bounds the walk; zero means unbounded.
func (r *Resource[T]) All(ctx context.Context, f model.Filters, maxPages int) ([]T, error) {
	f = f.Clone()
	var out []T
	for page := 1; maxPages == 0 || page <= maxPages; page++ {
		f[model.FilterPage] = itoa(page)
		p, err := r.List(ctx, f)
		if err != nil {
			return out, err
		}
		out = append(out, p.Items...)
		if p.Pagination == nil || !p.Pagination.HasNext || len(p.Items) == 0 {
			break
		}
	}
	return out, nil
}

func (r *Resource[T]) item(ctx context.Context, method, path string, body any) (*T, error) {
	var raw json.RawMessage
	if err := r.c.doJSON(ctx, method, path, body, &raw); err != nil {
		return nil, err
	}
	return decodeItem[T](raw, r.itemKey)
}

func (r *Resource[T]) recordPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
