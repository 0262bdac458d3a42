package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"GiveShare-Backend/domain"
)

type (
	// ClassifierClient suggests a category for an item image. It never
	// returns an error: categorization is assistive, so any failure yields
	// the fallback category with UsedModel=false.
	ClassifierClient interface {
		Classify(ctx context.Context, imageURL string) domain.ClassificationResult
	}

	classifierClient struct {
		baseURL    string
		httpClient *http.Client
	}
)

func NewClassifierClient(baseURL string) ClassifierClient {
	return &classifierClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *classifierClient) Classify(ctx context.Context, imageURL string) domain.ClassificationResult {
	fallback := domain.ClassificationResult{Category: domain.FallbackCategory, UsedModel: false}

	if c.baseURL == "" || imageURL == "" {
		return fallback
	}

	requestJSON, err := json.Marshal(map[string]string{"image_url": imageURL})
	if err != nil {
		return fallback
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(requestJSON))
	if err != nil {
		return fallback
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("classifier call failed: %v", err)
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("classifier returned %s", resp.Status)
		return fallback
	}

	var result struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fallback
	}

	// The allow-list is enforced here, not trusted from the service.
	if !domain.ValidCategory(result.Category) {
		return fallback
	}

	return domain.ClassificationResult{Category: result.Category, UsedModel: true}
}
