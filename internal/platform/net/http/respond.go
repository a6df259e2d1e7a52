// Package http writes handler results inside one JSON envelope
package http

import (
	"cmp"
	"encoding/json"
	stdhttp "net/http"

	perr "chromalyzer/internal/platform/errors"
	pnet "chromalyzer/internal/platform/net"
)

// Envelope is the body of every JSON response
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
	Page       *Page          `json:"page,omitempty"`
}

// Page describes a listing window
type Page struct {
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Cursor   string `json:"cursor,omitempty"`
}

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return-style handlers hand back. A Body holding an error
// turns the response into a failure whose status comes from the error code
type Response struct {
	Status int
	Body   any
	Page   *Page
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		resp := h(r)
		for k, vv := range resp.Header {
			for _, v := range vv {
				w.Header().Add(k, v)
			}
		}
		status, env := resp.envelope(pnet.RequestID(r.Context()))
		if env == nil {
			w.WriteHeader(status)
			return
		}
		JSON(w, status, env)
	}
}

// envelope resolves the final status and body. 204 has no body
func (resp Response) envelope(reqID string) (int, *Envelope) {
	status := cmp.Or(resp.Status, stdhttp.StatusOK)
	if status == stdhttp.StatusNoContent {
		return status, nil
	}
	env := &Envelope{RequestID: reqID, Data: resp.Body, Page: resp.Page}
	if err, ok := resp.Body.(error); ok && err != nil {
		status = perr.HTTPStatus(err)
		wire := perr.WireFrom(err)
		env.Code, env.Error = wire.Code, wire.Message
		env.Data, env.Page = nil, nil
	}
	env.StatusCode, env.Status = status, stdhttp.StatusText(status)
	return status, env
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created returns a 201 response
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// Error returns a response whose status and code come from err
func Error(err error) Response { return Response{Body: err} }

// List returns a 200 response carrying items and a page block
func List(items any, total, page, size int) Response {
	return Response{
		Status: stdhttp.StatusOK,
		Body:   items,
		Page:   &Page{Total: total, Page: page, PageSize: size},
	}
}
