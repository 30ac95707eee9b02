package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Resource is one collection endpoint, e.g. "/farms", and its item
// endpoints "/farms/{id}".
type Resource[T any] struct {
	c    *Client
	path string
	// UpdateMethod is PUT unless the resource is edited with PATCH.
	UpdateMethod string
}

func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{
		c:            c,
		path:         "/" + strings.Trim(path, "/"),
		UpdateMethod: http.MethodPut,
	}
}

func (r *Resource[T]) Path() string { return r.path }

func (r *Resource[T]) itemPath(id uint) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

// GET /<resource>
func (r *Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	raw, err := r.c.send(ctx, http.MethodGet, r.path, query, nil)
	if err != nil {
		return nil, err
	}
	return DecodeList[T](raw)
}

// All reads every page of the collection, perPage rows per request. A server
// answering with a bare list ends the walk after the first request.
func (r *Resource[T]) All(ctx context.Context, query url.Values, perPage int) ([]T, error) {
	items := make([]T, 0)
	for page := 1; ; page++ {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(perPage))

		raw, err := r.c.send(ctx, http.MethodGet, r.path, q, nil)
		if err != nil {
			return nil, err
		}
		rows, err := DecodeList[T](raw)
		if err != nil {
			return nil, err
		}
		items = append(items, rows...)

		var meta struct {
			LastPage int `json:"last_page"`
		}
		// a bare array has no meta
		_ = json.Unmarshal(raw, &meta)
		if len(rows) == 0 || page >= meta.LastPage {
			return items, nil
		}
	}
}

// GET /<resource>/{id}
func (r *Resource[T]) Get(ctx context.Context, id uint) (T, error) {
	var item T
	err := r.c.Get(ctx, r.itemPath(id), nil, &item)
	return item, err
}

// POST /<resource>
func (r *Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	return r.write(ctx, http.MethodPost, r.path, payload)
}

// PUT|PATCH /<resource>/{id}
func (r *Resource[T]) Update(ctx context.Context, id uint, payload any) (T, error) {
	method := r.UpdateMethod
	if method == "" {
		method = http.MethodPut
	}
	return r.write(ctx, method, r.itemPath(id), payload)
}

// DELETE /<resource>/{id}
func (r *Resource[T]) Delete(ctx context.Context, id uint) error {
	_, err := r.c.send(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
	return err
}

// Summary fetches a report below the collection, e.g. "summary" for
// /gari-inventory/summary. out receives the whole body.
func (r *Resource[T]) Summary(ctx context.Context, name string, query url.Values, out any) error {
	return r.c.Do(ctx, http.MethodGet, r.path+"/"+strings.Trim(name, "/"), query, nil, out)
}

func (r *Resource[T]) write(ctx context.Context, method, path string, payload any) (T, error) {
	var item T
	raw, err := r.c.send(ctx, method, path, nil, payload)
	if err != nil {
		return item, err
	}
	err = DecodeItem(raw, &item)
	return item, err
}
