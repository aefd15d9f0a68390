package sendgrid

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var gotAuth, gotPath string
	var gotPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotPayload))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient("sg-key", srv.URL)
	status, err := client.Send(context.Background(), Email{
		To:      "alice@example.com",
		From:    Address{Email: "news@tenant.example", Name: "Tenant"},
		Subject: "Hello Alice",
		HTML:    "<p>Hi</p>",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, "Bearer sg-key", gotAuth)
	assert.Equal(t, "/v3/mail/send", gotPath)

	personalizations := gotPayload["personalizations"].([]interface{})
	to := personalizations[0].(map[string]interface{})["to"].([]interface{})
	assert.Equal(t, "alice@example.com", to[0].(map[string]interface{})["email"])

	tracking := gotPayload["tracking_settings"].(map[string]interface{})
	assert.Equal(t, true, tracking["click_tracking"].(map[string]interface{})["enable"])
	assert.Equal(t, true, tracking["open_tracking"].(map[string]interface{})["enable"])
}

func TestSendContentOrder(t *testing.T) {
	var gotPayload struct {
		Content []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"content"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotPayload))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient("sg-key", srv.URL)
	_, err := client.Send(context.Background(), Email{
		To:      "alice@example.com",
		From:    Address{Email: "news@tenant.example"},
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
	})
	require.NoError(t, err)

	require.Len(t, gotPayload.Content, 2)
	assert.Equal(t, "text/plain", gotPayload.Content[0].Type)
	assert.Equal(t, "text/html", gotPayload.Content[1].Type)
}

func TestSendTextOnlyBecomesHTML(t *testing.T) {
	var gotPayload struct {
		Content []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"content"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotPayload))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient("sg-key", srv.URL)
	_, err := client.Send(context.Background(), Email{
		To:      "alice@example.com",
		From:    Address{Email: "news@tenant.example"},
		Subject: "Hello",
		Text:    "plain body",
	})
	require.NoError(t, err)

	require.Len(t, gotPayload.Content, 1)
	assert.Equal(t, "text/html", gotPayload.Content[0].Type)
	assert.Equal(t, "plain body", gotPayload.Content[0].Value)
}

func TestSendErrorCarriesProviderDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"message":"does not contain a valid address"}]}`))
	}))
	defer srv.Close()

	client := NewClient("sg-key", srv.URL)
	status, err := client.Send(context.Background(), Email{
		To:      "not-an-address",
		From:    Address{Email: "news@tenant.example"},
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "does not contain a valid address")
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	client := NewClient("sg-key", "")
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
