// file: internal/server/response_types.go
// version: 2.0.0
// guid: b45fe84e-d929-488c-8916-040b615c13a9

package server

import "github.com/jdfalk/library-catalog/internal/models"

// ApiErrors is the body of every failed request.
type ApiErrors struct {
	Errors []string `json:"errors"`
}

// PageResponse is one page of a listing.
type PageResponse[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Page          int `json:"page"`
	Size          int `json:"size"`
}

// SuggestResponse lists title suggestions, best match first.
type SuggestResponse struct {
	Items []BookDTO `json:"items"`
}

// HealthResponse reports service and store status.
type HealthResponse struct {
	Status       string         `json:"status"` // "ok"
	Timestamp    int64          `json:"timestamp"`
	Version      string         `json:"version"`
	DatabaseType string         `json:"database_type"`
	Metrics      map[string]int `json:"metrics"`
}

// newPageResponse converts a page of models into a page of DTOs.
func newPageResponse[M, D any](page models.Page[M], convert func(M) D) PageResponse[D] {
	content := make([]D, 0, len(page.Content))
	for _, item := range page.Content {
		content = append(content, convert(item))
	}
	return PageResponse[D]{
		Content:       content,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages(),
		Page:          page.Page,
		Size:          page.Size,
	}
}
