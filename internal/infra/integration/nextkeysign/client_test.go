package nextkeysign

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateSubmission(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/submissions", r.URL.Path)
		assert.Equal(t, "token-123", r.Header.Get("X-Auth-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req createSubmissionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tmpl-9", req.TemplateID)
		assert.False(t, req.SendEmail)
		if assert.Len(t, req.Submitters, 1) {
			assert.Equal(t, "sam@example.com", req.Submitters[0].Email)
			assert.Equal(t, "ext-1", req.Submitters[0].ExternalID)
		}

		json.NewEncoder(w).Encode([]submitterResponse{
			{ID: 400, SubmissionID: 300, Slug: "slug-ret", Email: "sam@example.com", Status: "awaiting"},
		})
	}))
	defer server.Close()

	client := NewClient("token-123", server.URL)

	out, err := client.CreateSubmission(context.Background(), CreateSubmissionInput{
		TemplateID: "tmpl-9",
		Name:       "Sam Doe",
		Email:      "sam@example.com",
		Role:       "Client",
		ExternalID: "ext-1",
		SendEmail:  false,
	})

	assert.NoError(t, err)
	assert.Equal(t, "300", out.SubmissionID)
	assert.Equal(t, "400", out.SubmitterID)
	assert.Equal(t, "slug-ret", out.Slug)
}

func TestCreateSubmissionProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"template not found"}`))
	}))
	defer server.Close()

	client := NewClient("token-123", server.URL)

	_, err := client.CreateSubmission(context.Background(), CreateSubmissionInput{TemplateID: "missing"})

	var providerErr *ProviderError
	assert.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusUnprocessableEntity, providerErr.StatusCode)
	assert.Contains(t, providerErr.Body, "template not found")
}

func TestCreateSubmissionEmptySubmitterList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient("token-123", server.URL)

	_, err := client.CreateSubmission(context.Background(), CreateSubmissionInput{TemplateID: "tmpl-9"})
	assert.Error(t, err)
}

func TestSigningURL(t *testing.T) {
	client := NewClient("token-123", "https://sign.example/")

	// Trailing slash on the base URL must not double up.
	assert.Equal(t, "https://sign.example/s/slug-abc", client.SigningURL("slug-abc"))
}
