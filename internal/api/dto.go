package api

import (
	"github.com/weavehq/weave/internal/index"
	"github.com/weavehq/weave/internal/models"
)

// RenderRequest is the request body for the preview endpoint.
type RenderRequest struct {
	Content string `json:"content"`
}

// RenderResponse carries the rendered preview.
type RenderResponse struct {
	HTML     string          `json:"html"`
	Metadata models.Metadata `json:"metadata"`
}

// PostListResponse wraps paginated post listings.
type PostListResponse struct {
	Posts []PostListItem `json:"posts"`
	Total int            `json:"total"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results"`
}

// UploadResponse is returned after a successful Markdown upload.
type UploadResponse struct {
	Path   string `json:"path"`
	Slug   string `json:"slug"`
	Size   int64  `json:"size"`
	Status string `json:"status"`
}
