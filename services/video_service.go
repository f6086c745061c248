package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// PlaceholderVideoID is returned for an exercise whose tutorial search failed.
const PlaceholderVideoID = "dQw4w9WgXcQ"

type VideoSearcher interface {
	SearchVideoID(ctx context.Context, query string) (string, error)
}

// YouTubeService looks up tutorial videos through the YouTube Data API.
type YouTubeService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewYouTubeService(apiKey string) *YouTubeService {
	return &YouTubeService{
		apiKey:  apiKey,
		baseURL: "https://www.googleapis.com/youtube/v3/search",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// SearchVideoID returns the id of the top video result for query.
func (s *YouTubeService) SearchVideoID(ctx context.Context, query string) (string, error) {
	if s.apiKey == "" {
		return "", errors.New("YOUTUBE_API_KEY not set")
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("maxResults", "1")
	q.Set("q", query)
	q.Set("key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("youtube request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read youtube response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("youtube api error %d: %s", resp.StatusCode, string(body))
	}

	var out youtubeSearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode youtube response: %w", err)
	}
	if len(out.Items) == 0 || out.Items[0].ID.VideoID == "" {
		return "", fmt.Errorf("no video found for %q", query)
	}
	return out.Items[0].ID.VideoID, nil
}
