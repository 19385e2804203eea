// Package handler exposes the HTTP API: document upload/serving and
// summary generation.
package handler

import (
	"bookdigest/internal/extract"
	"bookdigest/internal/llm"
	"bookdigest/internal/store"
	"bookdigest/internal/summarizer"
)

// Handler carries the dependencies shared by all routes.
type Handler struct {
	store      store.Store
	extractors *extract.Registry
	invoker    llm.Invoker
	summarizer *summarizer.Service
}

// New wires the handler. invoker may be nil when no provider is
// configured; summary endpoints then report service unavailable while
// document CRUD keeps working.
func New(st store.Store, extractors *extract.Registry, invoker llm.Invoker) *Handler {
	h := &Handler{
		store:      st,
		extractors: extractors,
		invoker:    invoker,
	}
	if invoker != nil {
		h.summarizer = summarizer.New(st, invoker)
	}
	return h
}
