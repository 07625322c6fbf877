package misa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vninvoice/internal/config"
	"vninvoice/internal/provider"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
}

func newAuthAdapter() *Adapter {
	return &Adapter{
		deps:     provider.Deps{Transport: provider.NewClientWithHTTP(http.DefaultClient)},
		now:      fixedNow,
		newRefID: func() string { return "ref-1" },
	}
}

// unsignedJWT builds a syntactically valid token with the given expiry; only
// the exp claim is read, never the signature.
func unsignedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	claims, err := json.Marshal(map[string]int64{"exp": exp.Unix()})
	require.NoError(t, err)
	return fmt.Sprintf("%s.%s.",
		base64.RawURLEncoding.EncodeToString(header),
		base64.RawURLEncoding.EncodeToString(claims))
}

func TestAuthenticateChain(t *testing.T) {
	exp := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)
	token := unsignedJWT(t, exp)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/integration/auth/token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "integration", body["username"])
		w.Write([]byte(`{"success":true,"data":"primary-token"}`))
	})
	mux.HandleFunc("/api2/validateuser", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "app-1", r.Header.Get("appid"))
		w.Write([]byte(`{"Success":true,"Data":"session;secure-token"}`))
	})
	mux.HandleFunc("/api2/auth/jwttoken", func(w http.ResponseWriter, r *http.Request) {
		// only the part after the delimiter is forwarded
		assert.Equal(t, "secure-token", r.Header.Get("securetoken"))
		w.Write([]byte(`{"Success":true,"Data":{"AccessToken":"` + token + `"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := config.ProviderConfig{
		Host:     srv.URL,
		AppID:    "app-1",
		TaxCode:  "0100123456",
		Username: "integration",
		Password: "secret",
	}

	bundle, err := newAuthAdapter().Authenticate(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "primary-token", bundle.Token)
	assert.Equal(t, token, bundle.AccessToken)
	assert.Empty(t, bundle.SubscriberID)
	assert.Empty(t, bundle.OrganizationID)
	assert.Equal(t, exp, bundle.ExpiresAt.UTC())
}

func TestAuthenticateResolvesOrganizationWhenAppURLSet(t *testing.T) {
	token := unsignedJWT(t, fixedNow().Add(time.Hour))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/integration/auth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":"primary-token"}`))
	})
	mux.HandleFunc("/api2/validateuser", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Success":true,"Data":"secure-token"}`))
	})
	mux.HandleFunc("/api2/auth/jwttoken", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Success":true,"Data":{"AccessToken":"` + token + `"}}`))
	})
	mux.HandleFunc("/inbot/api/subscribers/code/0100123456", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "client-1", r.Header.Get("ClientId"))
		w.Write([]byte(`{"Success":true,"Data":{"Id":"sub-1"}}`))
	})
	mux.HandleFunc("/inbot/api/sub-1/organizations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		w.Write([]byte(`{"Success":true,"Data":[{"Id":"org-1"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := config.ProviderConfig{
		Host:     srv.URL,
		AppURL:   srv.URL,
		AppID:    "app-1",
		ClientID: "client-1",
		TaxCode:  "0100123456",
		Username: "integration",
		Password: "secret",
	}

	bundle, err := newAuthAdapter().Authenticate(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", bundle.SubscriberID)
	assert.Equal(t, "org-1", bundle.OrganizationID)
	assert.Equal(t, fixedNow().Add(bundleTTL), bundle.ExpiresAt)
}

func TestAuthenticateFirstStepFailureShortCircuits(t *testing.T) {
	laterCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/integration/auth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"data":""}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		laterCalls++
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := config.ProviderConfig{Host: srv.URL, Username: "integration", Password: "bad"}

	_, err := newAuthAdapter().Authenticate(context.Background(), cfg)

	var stepErr *provider.AuthStepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "token", stepErr.Step)
	assert.Zero(t, laterCalls)
}

func TestJWTExpiryUnreadableTokenIsZero(t *testing.T) {
	assert.True(t, jwtExpiry("not-a-token").IsZero())
}
