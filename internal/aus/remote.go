package aus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

// RemoteSubmitter transmits loan files to a third-party AUS over HTTP.
// Authentication uses an HS256 client assertion signed with the shared
// secret; the returned session token is reused until it expires.
type RemoteSubmitter struct {
	settings *SettingsStore
	client   *http.Client
	auditor  *Auditor

	mu            sync.Mutex
	session       string
	sessionExpiry time.Time
}

func NewRemoteSubmitter(settings *SettingsStore, auditor *Auditor) *RemoteSubmitter {
	return &RemoteSubmitter{
		settings: settings,
		client:   &http.Client{Timeout: 30 * time.Second},
		auditor:  auditor,
	}
}

// submitPayload is the wire format of a loan file submission.
type submitPayload struct {
	LoanID        string          `json:"loan_id"`
	LoanType      loan.Type       `json:"loan_type"`
	LoanPurpose   loan.Purpose    `json:"loan_purpose"`
	LoanAmount    decimal.Decimal `json:"loan_amount"`
	PropertyValue decimal.Decimal `json:"property_value"`
	PropertyType  loan.PropertyType `json:"property_type"`
	Occupancy     loan.Occupancy  `json:"occupancy"`
	Units         int             `json:"units"`
	CreditScore   int             `json:"credit_score"`
	Borrower      loan.Borrower   `json:"borrower"`
}

type submitResponse struct {
	CaseID         string `json:"case_id"`
	Recommendation string `json:"recommendation"`
	Findings       []struct {
		RuleID    string `json:"rule_id"`
		Category  string `json:"category"`
		Status    string `json:"status"`
		Message   string `json:"message"`
		Condition string `json:"condition"`
	} `json:"findings"`
}

func (r *RemoteSubmitter) Submit(ctx context.Context, app *loan.Application) (*Submission, error) {
	settings := r.settings.Get()
	if !settings.Configured() {
		r.auditor.Error(ctx, "submit", "rejected", "reason", "integration not configured")
		return nil, fmt.Errorf("remote aus not configured")
	}

	token, err := r.authenticate(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("authenticating with aus: %w", err)
	}

	payload := submitPayload{
		LoanID:        app.ID.String(),
		LoanType:      app.Terms.Type,
		LoanPurpose:   app.Terms.Purpose,
		LoanAmount:    app.Terms.Amount,
		PropertyValue: app.Property.PurchasePrice,
		PropertyType:  app.Property.Type,
		Occupancy:     app.Property.Occupancy,
		Units:         app.Property.Units,
		CreditScore:   app.Borrower.CreditScore,
		Borrower:      app.Borrower,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.Endpoint+"/v1/submissions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := r.client.Do(req)
	if err != nil {
		r.auditor.Error(ctx, "submit", "transport failure", "loan_id", app.ID, "error", err)
		return nil, fmt.Errorf("submitting loan file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		r.auditor.Error(ctx, "submit", "rejected", "loan_id", app.ID, "status_code", resp.StatusCode)
		return nil, fmt.Errorf("unexpected status code %d from aus", resp.StatusCode)
	}

	var decoded submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding aus response: %w", err)
	}

	submission := toSubmission(decoded)

	r.auditor.Info(ctx, "submit", "completed",
		"mode", "remote",
		"loan_id", app.ID,
		"case_id", submission.CaseID,
		"recommendation", submission.Recommendation,
	)

	return submission, nil
}

// authenticate exchanges a signed client assertion for a session token.
// A cached session is reused until one minute before expiry.
func (r *RemoteSubmitter) authenticate(ctx context.Context, settings Settings) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != "" && time.Now().Before(r.sessionExpiry.Add(-time.Minute)) {
		return r.session, nil
	}

	now := time.Now()

	assertion := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": settings.ClientID,
		"sub": settings.ClientID,
		"aud": settings.Endpoint,
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
	})

	signed, err := assertion.SignedString([]byte(settings.ClientSecret))
	if err != nil {
		return "", fmt.Errorf("signing client assertion: %w", err)
	}

	body, _ := json.Marshal(map[string]string{"client_assertion": signed})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.Endpoint+"/v1/sessions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating auth request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.auditor.Secure(ctx, "authenticate", "transport failure", "error", err)
		return "", fmt.Errorf("executing auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.auditor.Secure(ctx, "authenticate", "rejected", "status_code", resp.StatusCode)
		return "", fmt.Errorf("unexpected status code %d from aus auth", resp.StatusCode)
	}

	var decoded struct {
		SessionToken string `json:"session_token"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding auth response: %w", err)
	}

	expiry, err := sessionExpiry(decoded.SessionToken, settings.ClientSecret)
	if err != nil {
		return "", fmt.Errorf("inspecting session token: %w", err)
	}

	r.session = decoded.SessionToken
	r.sessionExpiry = expiry

	r.auditor.Secure(ctx, "authenticate", "session established", "client_id", settings.ClientID, "expires", expiry)

	return r.session, nil
}

// sessionExpiry verifies the HS256 session token and extracts its
// expiry claim.
func sessionExpiry(token, secret string) (time.Time, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		return time.Time{}, err
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("session token has no expiry")
	}

	return exp.Time, nil
}

// toSubmission converts the wire response into the domain submission.
func toSubmission(decoded submitResponse) *Submission {
	sub := &Submission{
		CaseID:         decoded.CaseID,
		Recommendation: parseRecommendation(decoded.Recommendation),
	}

	for _, f := range decoded.Findings {
		sub.Findings = append(sub.Findings, parseFinding(f.RuleID, f.Category, f.Status, f.Message, f.Condition))
	}

	return sub
}
