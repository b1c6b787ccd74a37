package syncclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// SceneFetcher loads the persisted shapes of a room over HTTP.
type SceneFetcher struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

type shapesResponse struct {
	Shapes []struct {
		Data domain.Shape `json:"data"`
	} `json:"shapes"`
}

// Fetch returns the room's shapes in z-order.
func (f SceneFetcher) Fetch(ctx context.Context, room string) ([]domain.Shape, error) {
	client := f.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	endpoint := strings.TrimRight(f.BaseURL, "/") + "/api/rooms/" + url.PathEscape(room) + "/shapes"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch scene: %w", err)
	}
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch scene %s: %w", room, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch scene %s: unexpected status %s", room, resp.Status)
	}

	var body shapesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("fetch scene %s: decode: %w", room, err)
	}
	shapes := make([]domain.Shape, 0, len(body.Shapes))
	for _, s := range body.Shapes {
		shapes = append(shapes, s.Data)
	}
	return shapes, nil
}
