// file: internal/server/error_handler.go
// version: 2.0.0
// guid: 90c3d447-1f1d-461b-ac33-5d19385d24b8

package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/library-catalog/internal/i18n"
	"github.com/jdfalk/library-catalog/internal/library"
	"github.com/jdfalk/library-catalog/internal/models"
	"github.com/jdfalk/library-catalog/internal/server/middleware"
)

// statusForKind maps business error kinds to HTTP status codes.
func statusForKind(kind library.ErrorKind) int {
	switch kind {
	case library.KindDuplicateCatalogNumber, library.KindInvalidArgument, library.KindBookAlreadyLent:
		return http.StatusBadRequest
	case library.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithError maps err to a status and a localized `{"errors": [...]}` body.
// Business errors are logged as warnings, everything else as a server error.
func RespondWithError(c *gin.Context, ol *OperationLogger, err error) {
	p := middleware.Printer(c)

	var be *library.Error
	if errors.As(err, &be) {
		status := statusForKind(be.Kind)
		msg := p.Sprintf(be.Message, be.Args...)
		ol.LogWarning(status, be.Error())
		c.JSON(status, ApiErrors{Errors: []string{msg}})
		return
	}

	ol.LogError(http.StatusInternalServerError, err)
	c.JSON(http.StatusInternalServerError, ApiErrors{Errors: []string{p.Sprintf(i18n.MsgInternalError)}})
}

// HandleBindError responds to a failed body binding and reports whether it did.
func HandleBindError(c *gin.Context, ol *OperationLogger, err error) bool {
	if err == nil {
		return false
	}

	p := middleware.Printer(c)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		ol.LogWarning(http.StatusRequestEntityTooLarge, err.Error())
		c.JSON(http.StatusRequestEntityTooLarge, ApiErrors{Errors: []string{p.Sprintf(i18n.MsgRequestTooLarge)}})
		return true
	}

	msgs := validationMessages(p, err)
	ol.LogWarning(http.StatusBadRequest, strings.Join(msgs, "; "))
	c.JSON(http.StatusBadRequest, ApiErrors{Errors: msgs})
	return true
}

func notFound(msg string) error {
	return &library.Error{Kind: library.KindNotFound, Message: msg}
}

func invalidArgument(msg string, args ...any) error {
	return &library.Error{Kind: library.KindInvalidArgument, Message: msg, Args: args}
}

// ParseQueryInt parses an integer query parameter with a default value
func ParseQueryInt(c *gin.Context, key string, defaultValue int) (int, error) {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, invalidArgument(i18n.MsgInvalidQueryParam, key)
	}
	return value, nil
}

// ParsePageRequest reads page, size and sort query parameters. sort may be
// repeated and takes the form `field` or `field,asc|desc`.
func ParsePageRequest(c *gin.Context) (models.PageRequest, error) {
	page, err := ParseQueryInt(c, "page", 0)
	if err != nil {
		return models.PageRequest{}, err
	}
	size, err := ParseQueryInt(c, "size", models.DefaultPageSize)
	if err != nil {
		return models.PageRequest{}, err
	}

	req := models.PageRequest{Page: page, Size: size}
	for _, raw := range c.QueryArray("sort") {
		if raw == "" {
			continue
		}
		field, dir, _ := strings.Cut(raw, ",")
		order := models.SortOrder{Field: strings.TrimSpace(field)}
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
		case "desc":
			order.Descending = true
		default:
			return models.PageRequest{}, invalidArgument(i18n.MsgInvalidSortDirection, dir)
		}
		req.Sort = append(req.Sort, order)
	}
	return req, nil
}
