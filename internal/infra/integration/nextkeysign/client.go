package nextkeysign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ProviderError is a non-2xx answer from NextKeySign. The raw body travels
// with it so the caller can surface the provider's own error text.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("nextkeysign rejected request (status %d): %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
}

func NewClient(apiToken, baseURL string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateSubmission creates one signing request and returns the identifiers of
// the first submitter. The provider responds with an array of submitters.
func (c *Client) CreateSubmission(ctx context.Context, input CreateSubmissionInput) (*CreateSubmissionOutput, error) {
	url := fmt.Sprintf("%s/api/submissions", c.baseURL)

	payload := createSubmissionRequest{
		TemplateID: input.TemplateID,
		SendEmail:  input.SendEmail,
		Submitters: []submitterRequest{
			{
				Name:       input.Name,
				Email:      input.Email,
				Role:       input.Role,
				ExternalID: input.ExternalID,
				Values:     input.Values,
			},
		},
		Message:              input.Message,
		CompletedRedirectURL: input.CompletedRedirectURL,
		DeclinedRedirectURL:  input.DeclinedRedirectURL,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal submission payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nextkeysign request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var submitters []submitterResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitters); err != nil {
		return nil, fmt.Errorf("decode nextkeysign response: %w", err)
	}
	if len(submitters) == 0 {
		return nil, fmt.Errorf("nextkeysign returned no submitters")
	}

	first := submitters[0]
	return &CreateSubmissionOutput{
		SubmissionID: strconv.FormatInt(first.SubmissionID, 10),
		SubmitterID:  strconv.FormatInt(first.ID, 10),
		Slug:         first.Slug,
	}, nil
}

// SigningURL builds the user-facing signing link for a submitter slug.
func (c *Client) SigningURL(slug string) string {
	return fmt.Sprintf("%s/s/%s", c.baseURL, slug)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Auth-Token", c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "LegalIntake/1.0")
}
