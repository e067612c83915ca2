package exampleapp

import (
	"errors"
	"io"
	"net/http"

	"github.com/vitalvas/swagdoc/mux"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	mux.ResponseJSON(w, code, errorResponse{Error: msg})
}

// writeBodyError answers 413 for bodies over the size limit, 400 otherwise.
func writeBodyError(w http.ResponseWriter, err error) {
	if mux.BodyTooLarge(err) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// decodeItem reads a JSON item from the request body.
func decodeItem(r *http.Request) (Item, error) {
	var item Item
	if err := mux.BindJSON(r, &item); err != nil {
		return item, err
	}
	if item.Property1 == "" {
		return item, errors.New("property1 is required")
	}
	return item, nil
}

// ItemNoParamHandler serves the item collection at /items.
type ItemNoParamHandler struct {
	store *Store
}

// Description documents the route.
func (h *ItemNoParamHandler) Description() string {
	return "Create and list items"
}

// Post creates an item.
func (h *ItemNoParamHandler) Post(w http.ResponseWriter, r *http.Request) {
	item, err := decodeItem(r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	h.store.Put(item)
	mux.ResponseJSON(w, http.StatusOK, item)
}

// Get lists all items keyed by identifier.
func (h *ItemNoParamHandler) Get(w http.ResponseWriter, _ *http.Request) {
	mux.ResponseJSON(w, http.StatusOK, h.store.List())
}

// Options is served but not documented.
func (h *ItemNoParamHandler) Options(w http.ResponseWriter, _ *http.Request) {
	mux.ResponseJSON(w, http.StatusOK, "I'm invisible in the swagger docs")
}

// ItemHandler serves a single item at /items/{arg}.
type ItemHandler struct {
	store *Store
}

// Description documents the route.
func (h *ItemHandler) Description() string {
	return "Read and delete an item"
}

// Get returns an item.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := mux.Arg(r, 0)

	item, err := h.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	mux.ResponseJSON(w, http.StatusOK, item)
}

// Delete removes an item.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := mux.Arg(r, 0)

	if err := h.store.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	mux.ResponseJSON(w, http.StatusOK, "success")
}

// ItemOptionParamHandler stores case attachments at
// /items/{arg1}/cases/{arg2}.
type ItemOptionParamHandler struct {
	store *Store
}

// Post stores the request body as a case of an existing item.
func (h *ItemOptionParamHandler) Post(w http.ResponseWriter, r *http.Request) {
	itemID, _ := mux.Arg(r, 0)
	caseName, _ := mux.Arg(r, 1)

	if _, err := h.store.Get(itemID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	h.store.PutCase(itemID, caseName, body)
	mux.ResponseJSON(w, http.StatusOK, "success")
}
