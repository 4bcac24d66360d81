package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// ModelClient calls the classifier service hosting the trained
// eligibility model.
type ModelClient struct {
	url    string
	client *http.Client
}

// NewModelClient creates a client for the model service at url.
func NewModelClient(url string, timeout time.Duration) *ModelClient {
	return &ModelClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	MonthlyIncome  float64 `json:"monthly_income"`
	Assets         float64 `json:"assets"`
	Liabilities    float64 `json:"liabilities"`
	HouseholdSize  int     `json:"household_size"`
	Age            int     `json:"age"`
	EducationLevel string  `json:"education_level"`
	MaritalStatus  string  `json:"marital_status"`
}

type predictResponse struct {
	Label string `json:"label"`
}

// Predict returns the eligibility label for the application.
func (c *ModelClient) Predict(ctx context.Context, data workflow.ApplicationData) (string, error) {
	body, err := json.Marshal(predictRequest{
		MonthlyIncome:  data.MonthlyIncome,
		Assets:         data.Assets,
		Liabilities:    data.Liabilities,
		HouseholdSize:  data.HouseholdSize,
		Age:            data.Age,
		EducationLevel: data.EducationLevel,
		MaritalStatus:  data.MaritalStatus,
	})
	if err != nil {
		return "", fmt.Errorf("marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/predict", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("predict request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model service returned status %d", resp.StatusCode)
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode predict response: %w", err)
	}

	return parsed.Label, nil
}
