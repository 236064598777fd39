package books

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shelfd/shelfd/pkg/models"
	"go.uber.org/zap"
)

// Handler provides the /api/books and /api/export endpoints.
type Handler struct {
	repo   Repository
	logger *zap.Logger
}

// NewHandler creates a books Handler.
func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes registers the book routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/books", h.handleList)
	mux.HandleFunc("POST /api/books", h.handleCreate)
	mux.HandleFunc("GET /api/books/{id}", h.handleGet)
	mux.HandleFunc("PUT /api/books/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/books/{id}", h.handleDelete)
	mux.HandleFunc("GET /api/export", h.handleExport)
}

// exportResponse is the payload served by GET /api/export.
type exportResponse struct {
	ExportedAt time.Time     `json:"exported_at"`
	TotalBooks int           `json:"total_books"`
	Books      []models.Book `json:"books"`
}

// handleList returns a paginated, filtered, sorted page of books.
//
//	@Summary		List books
//	@Description	Returns books with pagination, search, sorting, and genre filtering.
//	@Tags			books
//	@Produce		json
//	@Param			page query int false "Page number (1-based)" default(1)
//	@Param			limit query int false "Page size" default(10)
//	@Param			search query string false "Substring match on title, author, or isbn"
//	@Param			sortBy query string false "One of title, author, price, date_added, genre, quantity"
//	@Param			sortOrder query string false "ASC or DESC"
//	@Param			genre query string false "Substring match on genre"
//	@Success		200 {object} ListResult
//	@Failure		400 {object} map[string]string
//	@Router			/books [get]
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := ListOptions{
		Page:      parseIntParam(q.Get("page")),
		Limit:     parseIntParam(q.Get("limit")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	filter := BookFilter{
		Search: q.Get("search"),
		Genre:  q.Get("genre"),
	}

	result, err := h.repo.List(r.Context(), filter, opts)
	if err != nil {
		if errors.Is(err, ErrInvalidSort) {
			booksWriteError(w, http.StatusBadRequest, "Invalid sort parameters.")
			return
		}
		h.logger.Warn("failed to list books", zap.Error(err))
		booksWriteError(w, http.StatusInternalServerError, "Failed to list books.")
		return
	}

	booksWriteJSON(w, http.StatusOK, result)
}

// handleGet returns a single book by id.
//
//	@Summary		Get book
//	@Description	Returns one book by its id.
//	@Tags			books
//	@Produce		json
//	@Param			id path int true "Book ID"
//	@Success		200 {object} models.Book
//	@Failure		404 {object} map[string]string
//	@Router			/books/{id} [get]
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		booksWriteError(w, http.StatusNotFound, "Book not found.")
		return
	}

	book, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			booksWriteError(w, http.StatusNotFound, "Book not found.")
			return
		}
		h.logger.Warn("failed to get book", zap.Int64("id", id), zap.Error(err))
		booksWriteError(w, http.StatusInternalServerError, "Failed to get book.")
		return
	}

	booksWriteJSON(w, http.StatusOK, book)
}

// handleCreate inserts a new book.
//
//	@Summary		Add book
//	@Description	Creates a new book. ISBN, when present, must be unique.
//	@Tags			books
//	@Accept			json
//	@Produce		json
//	@Param			body body models.BookInput true "Book fields"
//	@Success		201 {object} map[string]any
//	@Failure		400 {object} map[string]string
//	@Failure		409 {object} map[string]string
//	@Router			/books [post]
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in models.BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		booksWriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := in.Validate(); err != nil {
		booksWriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := h.repo.Create(r.Context(), &in)
	if err != nil {
		if errors.Is(err, ErrDuplicateISBN) {
			booksWriteError(w, http.StatusConflict, "Book with this ISBN already exists.")
			return
		}
		h.logger.Warn("failed to create book", zap.Error(err))
		booksWriteError(w, http.StatusInternalServerError, "Failed to add book.")
		return
	}

	booksWriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Book added successfully.",
		"book":    book,
	})
}

// handleUpdate replaces all mutable fields of an existing book.
//
//	@Summary		Update book
//	@Description	Full replacement of a book's mutable fields; refreshes date_updated.
//	@Tags			books
//	@Accept			json
//	@Produce		json
//	@Param			id path int true "Book ID"
//	@Param			body body models.BookInput true "Book fields"
//	@Success		200 {object} map[string]any
//	@Failure		400 {object} map[string]string
//	@Failure		404 {object} map[string]string
//	@Failure		409 {object} map[string]string
//	@Router			/books/{id} [put]
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		booksWriteError(w, http.StatusNotFound, "Book not found.")
		return
	}

	var in models.BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		booksWriteError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if err := in.Validate(); err != nil {
		booksWriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := h.repo.Update(r.Context(), id, &in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			booksWriteError(w, http.StatusNotFound, "Book not found.")
		case errors.Is(err, ErrDuplicateISBN):
			booksWriteError(w, http.StatusConflict, "Book with this ISBN already exists.")
		default:
			h.logger.Warn("failed to update book", zap.Int64("id", id), zap.Error(err))
			booksWriteError(w, http.StatusInternalServerError, "Failed to update book.")
		}
		return
	}

	booksWriteJSON(w, http.StatusOK, map[string]any{
		"message": "Book updated successfully.",
		"book":    book,
	})
}

// handleDelete removes a book.
//
//	@Summary		Delete book
//	@Description	Hard-deletes a book by id.
//	@Tags			books
//	@Produce		json
//	@Param			id path int true "Book ID"
//	@Success		200 {object} map[string]string
//	@Failure		404 {object} map[string]string
//	@Router			/books/{id} [delete]
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		booksWriteError(w, http.StatusNotFound, "Book not found.")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			booksWriteError(w, http.StatusNotFound, "Book not found.")
			return
		}
		h.logger.Warn("failed to delete book", zap.Int64("id", id), zap.Error(err))
		booksWriteError(w, http.StatusInternalServerError, "Failed to delete book.")
		return
	}

	booksWriteJSON(w, http.StatusOK, map[string]string{
		"message": "Book deleted successfully.",
	})
}

// handleExport serves the full dataset as a downloadable JSON snapshot.
//
//	@Summary		Export books
//	@Description	Returns every book sorted by title, with a download disposition.
//	@Tags			books
//	@Produce		json
//	@Success		200 {object} exportResponse
//	@Failure		500 {object} map[string]string
//	@Router			/export [get]
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.All(r.Context())
	if err != nil {
		h.logger.Warn("failed to export books", zap.Error(err))
		booksWriteError(w, http.StatusInternalServerError, "Failed to export books.")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=bookstore-export.json")
	booksWriteJSON(w, http.StatusOK, exportResponse{
		ExportedAt: time.Now().UTC(),
		TotalBooks: len(list),
		Books:      list,
	})
}

// -- helpers --

// parseID extracts the numeric {id} path value. A non-integer id is a miss,
// not a malformed request: it can never name an existing record.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func parseIntParam(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func booksWriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func booksWriteError(w http.ResponseWriter, status int, msg string) {
	booksWriteJSON(w, status, map[string]string{"error": msg})
}
