package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// BookRequest is the form a client submits to add or replace a book.
type BookRequest struct {
	Title         string `json:"title" binding:"required"`
	Author        string `json:"author" binding:"required"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Notes         string `json:"notes"`
	Rating        int    `json:"rating" binding:"min=0,max=5"`
	ReadingStatus string `json:"readingStatus" binding:"omitempty,oneof='Not Started' Reading Completed"`
	Progress      int    `json:"progress" binding:"min=0,max=100"`
	CoverURL      string `json:"coverUrl" binding:"omitempty,url"`
}

func (r BookRequest) draft() entities.Draft {
	return entities.Draft{
		Title:         strings.TrimSpace(r.Title),
		Author:        strings.TrimSpace(r.Author),
		Category:      strings.TrimSpace(r.Category),
		Description:   r.Description,
		Notes:         r.Notes,
		Rating:        r.Rating,
		ReadingStatus: entities.ReadingStatus(r.ReadingStatus),
		Progress:      r.Progress,
		CoverURL:      strings.TrimSpace(r.CoverURL),
	}
}

// MutationResponse describes an accepted or confirmed change.
type MutationResponse struct {
	Book    entities.Book     `json:"book"`
	Pending bool              `json:"pending"`
	Status  collection.Status `json:"status"`
}

type BooksController struct {
	collection  Collection
	waitTimeout time.Duration
	logger      *zap.Logger
}

func NewBooksController(c Collection, waitTimeout time.Duration, logger *zap.Logger) *BooksController {
	if waitTimeout <= 0 {
		waitTimeout = DefaultWaitTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BooksController{collection: c, waitTimeout: waitTimeout, logger: logger}
}

// List returns the current collection and sync status.
// GET /api/books
func (bc *BooksController) List(c *gin.Context) {
	books := bc.collection.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"books":  books,
		"count":  len(books),
		"status": bc.collection.Status(),
	})
}

// Get returns one book from the local collection.
// GET /api/books/:id
func (bc *BooksController) Get(c *gin.Context) {
	book, ok := bc.collection.Get(c.Param("id"))
	if !ok {
		respondNotFound(c, "book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Reload replaces the collection with the store contents.
// POST /api/books/reload
func (bc *BooksController) Reload(c *gin.Context) {
	if err := bc.collection.Load(c.Request.Context()); err != nil {
		respondStoreError(c, err)
		return
	}
	bc.List(c)
}

// Create adds a book optimistically.
// POST /api/books[?wait=true]
func (bc *BooksController) Create(c *gin.Context) {
	var req BookRequest
	if !bindBook(c, &req) {
		return
	}

	m := bc.collection.Add(c.Request.Context(), req.draft())
	bc.respond(c, m, http.StatusCreated)
}

// Update replaces a book optimistically.
// PUT /api/books/:id[?wait=true]
func (bc *BooksController) Update(c *gin.Context) {
	id := c.Param("id")
	current, ok := bc.collection.Get(id)
	if !ok {
		respondNotFound(c, "book")
		return
	}

	var req BookRequest
	if !bindBook(c, &req) {
		return
	}

	d := req.draft()
	replacement := entities.Book{
		ID:            id,
		Title:         d.Title,
		Author:        d.Author,
		Category:      d.Category,
		Description:   d.Description,
		Notes:         d.Notes,
		Rating:        d.Rating,
		ReadingStatus: d.ReadingStatus,
		Progress:      d.Progress,
		CoverURL:      d.CoverURL,
		CreatedAt:     current.CreatedAt,
	}

	m := bc.collection.Update(c.Request.Context(), id, replacement)
	bc.respond(c, m, http.StatusOK)
}

// Delete removes a book optimistically. Clients confirm with the user first.
// DELETE /api/books/:id[?wait=true]
func (bc *BooksController) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, ok := bc.collection.Get(id); !ok {
		respondNotFound(c, "book")
		return
	}

	m := bc.collection.Delete(c.Request.Context(), id)
	bc.respond(c, m, http.StatusOK)
}

// respond answers 202 with the optimistic book, or with ?wait=true blocks
// until the store settles the mutation and answers confirmedStatus or 502.
// A wait that times out still answers 202.
func (bc *BooksController) respond(c *gin.Context, m *collection.Mutation, confirmedStatus int) {
	if !wantsWait(c) {
		c.JSON(http.StatusAccepted, MutationResponse{
			Book:    m.Book(),
			Pending: true,
			Status:  bc.collection.Status(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), bc.waitTimeout)
	defer cancel()

	_ = m.Wait(ctx)
	select {
	case <-m.Done():
	default:
		bc.logger.Info("mutation still pending after wait",
			zap.String("op", string(m.Op())),
			zap.String("id", m.ID()))
		c.JSON(http.StatusAccepted, MutationResponse{Book: m.Book(), Pending: true, Status: bc.collection.Status()})
		return
	}

	if err := m.Err(); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(confirmedStatus, MutationResponse{Book: m.Book(), Status: bc.collection.Status()})
}

// bindBook binds and validates the request body, answering 400 on failure.
func bindBook(c *gin.Context, req *BookRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBadRequest(c, "invalid book", err.Error())
		return false
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Author) == "" {
		respondBadRequest(c, "invalid book", "title and author must not be blank")
		return false
	}
	return true
}
