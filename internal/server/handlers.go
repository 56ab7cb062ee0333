package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/floware/stockview/internal/product"
	"github.com/floware/stockview/internal/store"
)

const maxBodyBytes = 1 << 20

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	p, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, id, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	draft, ok := s.decodeDraft(w, r)
	if !ok {
		return
	}

	p, err := s.store.Create(r.Context(), draft)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/products/%d", p.ID))
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	draft, ok := s.decodeDraft(w, r)
	if !ok {
		return
	}

	p, err := s.store.Update(r.Context(), id, draft)
	if err != nil {
		s.storeError(w, r, id, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.storeError(w, r, id, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) markInStock(w http.ResponseWriter, r *http.Request) {
	s.setStock(w, r, true)
}

func (s *Server) markOutOfStock(w http.ResponseWriter, r *http.Request) {
	s.setStock(w, r, false)
}

func (s *Server) setStock(w http.ResponseWriter, r *http.Request, inStock bool) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.store.SetStock(r.Context(), id, inStock); err != nil {
		s.storeError(w, r, id, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) inventoryMetrics(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product.ComputeMetrics(products))
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid product id '%s'", raw))
		return 0, false
	}

	return id, true
}

func (s *Server) decodeDraft(w http.ResponseWriter, r *http.Request) (product.Draft, bool) {
	var draft product.Draft

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return product.Draft{}, false
	}

	if err := draft.Validate(); err != nil {
		var verrs product.ValidationErrors
		if errors.As(err, &verrs) {
			writeValidationError(w, verrs)
		} else {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return product.Draft{}, false
	}

	return draft, true
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, id int, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		return
	}

	s.internalError(w, r, err)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed",
		zap.String("requestID", requestIDFrom(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
