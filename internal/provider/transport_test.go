package provider

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallEncodesPayloadWithoutHTMLEscaping(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(raw)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "v", r.Header.Get("X-Custom"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewClientWithHTTP(http.DefaultClient)
	resp, err := client.Call(context.Background(), http.MethodPost, srv.URL,
		map[string]string{"X-Custom": "v"},
		map[string]string{"xml": "<Invoice>&amp;</Invoice>"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	// embedded markup must survive encoding untouched
	assert.Contains(t, body, "<Invoice>&amp;</Invoice>")
	assert.NotContains(t, body, `\u003c`)
}

func TestCallNilPayloadSendsNoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.Empty(t, raw)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClientWithHTTP(http.DefaultClient)
	_, err := client.Call(context.Background(), http.MethodGet, srv.URL, nil, nil)
	require.NoError(t, err)
}

func TestCallStatusAtLeast400IsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClientWithHTTP(http.DefaultClient)
	_, err := client.Call(context.Background(), http.MethodPost, srv.URL, nil, map[string]string{})

	var rejection *RemoteRejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, http.StatusUnauthorized, rejection.StatusCode)
	assert.Contains(t, rejection.Body, "bad credentials")
}

func TestCallConnectionFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClientWithHTTP(http.DefaultClient)
	_, err := client.Call(context.Background(), http.MethodGet, srv.URL, nil, nil)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
}

func TestResponseDecodeMalformedBody(t *testing.T) {
	resp := &Response{StatusCode: http.StatusOK, Body: []byte("not json")}

	var v map[string]any
	err := resp.Decode(&v)

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
}
