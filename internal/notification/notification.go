// Package notification delivers document checklists to borrowers
// through an external notify service. Delivery itself (email/SMS
// rendering and sending) happens outside this system.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/document"
)

// Contact identifies the borrower to notify.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Receipt reports which channels accepted the notification.
type Receipt struct {
	EmailSent bool `json:"email_sent"`
	SMSSent   bool `json:"sms_sent"`
}

//go:generate mockgen -source=notification.go -destination=gateway_mock.go -package=notification
type Gateway interface {
	SendDocumentChecklist(ctx context.Context, contact Contact, missing []document.Requirement) (Receipt, error)
}

// HTTPGateway posts checklists to a configured notify endpoint with
// token auth.
type HTTPGateway struct {
	client   *http.Client
	endpoint string
	token    string
}

func NewHTTPGateway(endpoint, token string) *HTTPGateway {
	return &HTTPGateway{
		client:   &http.Client{Timeout: 15 * time.Second},
		endpoint: endpoint,
		token:    token,
	}
}

type checklistPayload struct {
	Contact Contact         `json:"contact"`
	Items   []checklistItem `json:"items"`
}

type checklistItem struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

func (g *HTTPGateway) SendDocumentChecklist(ctx context.Context, contact Contact, missing []document.Requirement) (Receipt, error) {
	payload := checklistPayload{Contact: contact}

	for _, req := range missing {
		payload.Items = append(payload.Items, checklistItem{
			Type:        string(req.Type),
			Name:        req.Name,
			Description: req.Description,
			Required:    req.Required,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, fmt.Errorf("encoding checklist: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/v1/checklists", bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if g.token != "" {
		req.Header.Set("Authorization", "Token "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return Receipt{}, fmt.Errorf("unexpected status code %d from notify service", resp.StatusCode)
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return Receipt{}, fmt.Errorf("decoding receipt: %w", err)
	}

	return receipt, nil
}
