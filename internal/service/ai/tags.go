package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zhouzirui/wellness/backend/internal/model/llm"
)

// ModelLister reports the models installed on the runtime.
type ModelLister interface {
	ListModels(ctx context.Context) ([]llm.ModelInfo, error)
}

// TagsClient lists models through the daemon's native /api/tags endpoint.
type TagsClient struct {
	baseURL string
	client  *http.Client
}

// NewTagsClient creates a lister for the daemon at baseURL.
func NewTagsClient(baseURL string) *TagsClient {
	return &TagsClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListModels returns every model the daemon reports.
func (c *TagsClient) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("runtime request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("runtime returned status %d: %s", resp.StatusCode, string(body))
	}

	var result tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Models, nil
}

type tagsResponse struct {
	Models []llm.ModelInfo `json:"models"`
}
