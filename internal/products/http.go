package products

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductStore/pkg/kit"
)

const (
	Banner = "Сервер с товарами работает! Доступные маршруты: /products"

	msgNotFound      = "Товар не найден"
	msgMissingFields = "Необходимо указать name и price"
	msgInvalidValues = "Некорректные значения name или price"
	msgBadJSON       = "Некорректный JSON"
	msgDeleted       = "Товар удален"
	msgServerError   = "Внутренняя ошибка сервера"
	msgNotReady      = "Хранилище недоступно"

	maxBody = 1 << 20
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", banner)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Route("/products", func(rr chi.Router) {
		rr.Get("/", s.list)
		rr.Get("/{id}", s.get)
		rr.Post("/", s.create)
		rr.Put("/{id}", s.update)
		rr.Delete("/{id}", s.delete)
	})

	return r
}

func banner(w http.ResponseWriter, _ *http.Request) {
	kit.WriteText(w, http.StatusOK, Banner)
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteMessage(w, r, http.StatusServiceUnavailable, msgNotReady)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.serverError(w, r, "list products failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		kit.WriteMessage(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	p, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err, "get product failed", id)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := decodeBody(w, r, &in); err != nil {
		kit.WriteMessage(w, r, http.StatusBadRequest, msgBadJSON)
		return
	}

	p, err := s.Store.Create(r.Context(), in)
	if errors.Is(err, ErrInvalidInput) {
		kit.WriteMessage(w, r, http.StatusBadRequest, msgMissingFields)
		return
	}
	if err != nil {
		s.serverError(w, r, "create product failed", err)
		return
	}

	if s.Log != nil {
		s.Log.Info("product created", zap.Int64("id", p.ID), zap.String("name", p.Name))
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		kit.WriteMessage(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	var in UpdateInput
	if err := decodeBody(w, r, &in); err != nil {
		kit.WriteMessage(w, r, http.StatusBadRequest, msgBadJSON)
		return
	}

	p, err := s.Store.Update(r.Context(), id, in)
	if err != nil {
		s.writeStoreError(w, r, err, "update product failed", id)
		return
	}

	if s.Log != nil {
		s.Log.Info("product updated", zap.Int64("id", p.ID))
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		kit.WriteMessage(w, r, http.StatusNotFound, msgNotFound)
		return
	}

	if err := s.Store.Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err, "delete product failed", id)
		return
	}

	if s.Log != nil {
		s.Log.Info("product deleted", zap.Int64("id", id))
	}
	s.writeJSON(w, http.StatusOK, kit.Message{Message: msgDeleted})
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, logMsg string, id int64) {
	switch {
	case errors.Is(err, ErrNotFound):
		kit.WriteMessage(w, r, http.StatusNotFound, msgNotFound)
	case errors.Is(err, ErrInvalidInput):
		kit.WriteMessage(w, r, http.StatusBadRequest, msgInvalidValues)
	default:
		if s.Log != nil {
			s.Log.Error(logMsg, zap.Error(err), zap.Int64("id", id))
		}
		kit.WriteMessage(w, r, http.StatusInternalServerError, msgServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	if err := kit.WriteJSON(w, status, v); err != nil && s.Log != nil {
		s.Log.Error("encode response failed", zap.Error(err), zap.Int("status", status))
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	if s.Log != nil {
		s.Log.Error(logMsg, zap.Error(err))
	}
	kit.WriteMessage(w, r, http.StatusInternalServerError, msgServerError)
}

// productID parses {id}. Anything that is not a base-10 int64 cannot name
// a stored product.
func productID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// decodeBody reads a single JSON value into dst. An empty body leaves dst
// untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}
