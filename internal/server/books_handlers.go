// file: internal/server/books_handlers.go
// version: 1.0.0
// guid: 7e0b0c76-8da4-4845-b806-4120013a0ee6

package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/library-catalog/internal/i18n"
	"github.com/jdfalk/library-catalog/internal/library"
	"github.com/jdfalk/library-catalog/internal/matcher"
	"github.com/jdfalk/library-catalog/internal/metrics"
	"github.com/jdfalk/library-catalog/internal/models"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

func (s *Server) createBook(c *gin.Context) {
	ol := operationLogger(c, "createBook")

	var dto BookDTO
	if HandleBindError(c, ol, c.ShouldBindJSON(&dto)) {
		return
	}

	created, err := s.deps.Books.Create(c.Request.Context(), bookFromDTO(dto))
	if err != nil {
		if library.IsDuplicateCatalogNumber(err) {
			metrics.IncDuplicatesRejected()
		}
		RespondWithError(c, ol, err)
		return
	}

	metrics.IncBooksCreated()
	s.catalog.InvalidateAll()
	ol.SetResourceID(created.ID)
	ol.LogSuccess(http.StatusCreated)
	c.JSON(http.StatusCreated, bookToDTO(*created))
}

func (s *Server) getBook(c *gin.Context) {
	ol := operationLogger(c, "getBook")
	id := c.Param("id")
	ol.SetResourceID(id)

	book, err := s.deps.Books.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondWithError(c, ol, err)
		return
	}
	if book == nil {
		RespondWithError(c, ol, notFound(library.MsgBookNotFound))
		return
	}

	c.JSON(http.StatusOK, bookToDTO(*book))
}

func (s *Server) updateBook(c *gin.Context) {
	ol := operationLogger(c, "updateBook")
	id := c.Param("id")
	ol.SetResourceID(id)

	var dto BookUpdateDTO
	if HandleBindError(c, ol, c.ShouldBindJSON(&dto)) {
		return
	}

	updated, err := s.deps.Books.Update(c.Request.Context(), bookFromUpdateDTO(id, dto))
	if err != nil {
		RespondWithError(c, ol, err)
		return
	}

	s.catalog.InvalidateAll()
	ol.LogSuccess(http.StatusOK)
	c.JSON(http.StatusOK, bookToDTO(*updated))
}

func (s *Server) deleteBook(c *gin.Context) {
	ol := operationLogger(c, "deleteBook")
	id := c.Param("id")
	ol.SetResourceID(id)
	ctx := c.Request.Context()

	book, err := s.deps.Books.GetByID(ctx, id)
	if err != nil {
		RespondWithError(c, ol, err)
		return
	}
	if book == nil {
		RespondWithError(c, ol, notFound(library.MsgBookNotFound))
		return
	}

	if err := s.deps.Books.Delete(ctx, book); err != nil {
		RespondWithError(c, ol, err)
		return
	}

	s.catalog.InvalidateAll()
	ol.LogSuccess(http.StatusNoContent)
	c.Status(http.StatusNoContent)
}

func (s *Server) findBooks(c *gin.Context) {
	ol := operationLogger(c, "findBooks")

	var filter models.BookFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		HandleBindError(c, ol, err)
		return
	}
	pageReq, err := ParsePageRequest(c)
	if err != nil {
		RespondWithError(c, ol, err)
		return
	}

	page, err := s.deps.Books.Find(c.Request.Context(), filter, pageReq)
	if err != nil {
		RespondWithError(c, ol, err)
		return
	}

	c.JSON(http.StatusOK, newPageResponse(page, bookToDTO))
}

// suggestBooks ranks stored titles against q, tolerating typos.
func (s *Server) suggestBooks(c *gin.Context) {
	ol := operationLogger(c, "suggestBooks")

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		RespondWithError(c, ol, invalidArgument(i18n.MsgQueryParamRequired, "q"))
		return
	}
	limit, err := ParseQueryInt(c, "limit", defaultSuggestLimit)
	if err != nil {
		RespondWithError(c, ol, err)
		return
	}
	switch {
	case limit <= 0:
		limit = defaultSuggestLimit
	case limit > maxSuggestLimit:
		limit = maxSuggestLimit
	}

	books, err := s.catalog.GetOrLoad(c.Request.Context(), "all", func(ctx context.Context) ([]models.Book, error) {
		return s.deps.Books.All(ctx, models.BookFilter{})
	})
	if err != nil {
		RespondWithError(c, ol, err)
		return
	}

	suggestions := matcher.SuggestBooks(query, books, limit, matcher.DefaultMinScore)
	items := make([]BookDTO, 0, len(suggestions))
	for _, sg := range suggestions {
		items = append(items, bookToDTO(sg.Book))
	}
	ol.LogDebug(fmt.Sprintf("%d suggestions for %q", len(items), query))
	c.JSON(http.StatusOK, SuggestResponse{Items: items})
}
