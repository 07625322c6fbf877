package misa

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vninvoice/internal/config"
	"vninvoice/internal/domain"
	"vninvoice/internal/provider"
)

// Named steps of the staged authentication chain, in order. The chain
// short-circuits on the first failing step.
const (
	stepToken        = "token"
	stepSecureToken  = "secure_token"
	stepJWT          = "jwt"
	stepSubscribers  = "subscribers"
	stepOrganization = "organization"
)

const (
	epAuthToken    = "/api/integration/auth/token"
	epValidateUser = "/api2/validateuser"
	epJWTToken     = "/api2/auth/jwttoken"
)

// bundleTTL applies when the chain includes subscriber/organization
// resolution; those vendors require a periodic refresh.
const bundleTTL = 7 * 24 * time.Hour

type tokenResponse struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
}

type secureTokenResponse struct {
	Success bool   `json:"Success"`
	Data    string `json:"Data"`
}

type jwtResponse struct {
	Success bool `json:"Success"`
	Data    struct {
		AccessToken string `json:"AccessToken"`
	} `json:"Data"`
}

type subscribersResponse struct {
	Success bool `json:"Success"`
	Data    struct {
		ID string `json:"Id"`
	} `json:"Data"`
}

type organizationResponse struct {
	Success bool `json:"Success"`
	Data    []struct {
		ID string `json:"Id"`
	} `json:"Data"`
}

// authenticate runs the ordered credential chain: primary token, secure
// token, JWT exchange, and — only when an app URL is configured — subscriber
// and organization resolution. Each step must return HTTP 200 with a success
// flag; the first step that does not aborts the chain with an AuthStepError
// naming it.
func (a *Adapter) authenticate(ctx context.Context, cfg config.ProviderConfig) (*domain.CredentialBundle, error) {
	token, err := a.primaryToken(ctx, cfg)
	if err != nil {
		return nil, err
	}

	secure, err := a.secureToken(ctx, cfg)
	if err != nil {
		return nil, err
	}

	accessToken, err := a.jwtToken(ctx, cfg, secure)
	if err != nil {
		return nil, err
	}

	bundle := &domain.CredentialBundle{
		Token:       token,
		AccessToken: accessToken,
	}

	if cfg.AppURL != "" {
		subscriberID, err := a.subscribers(ctx, cfg)
		if err != nil {
			return nil, err
		}
		organizationID, err := a.organization(ctx, cfg, accessToken, subscriberID)
		if err != nil {
			return nil, err
		}
		bundle.SubscriberID = subscriberID
		bundle.OrganizationID = organizationID
		bundle.ExpiresAt = a.now().Add(bundleTTL)
	} else {
		bundle.ExpiresAt = jwtExpiry(accessToken)
	}

	return bundle, nil
}

func (a *Adapter) primaryToken(ctx context.Context, cfg config.ProviderConfig) (string, error) {
	resp, err := a.deps.Transport.Call(ctx, http.MethodPost, cfg.Host+epAuthToken, nil, map[string]string{
		"appid":    cfg.AppID,
		"taxcode":  cfg.TaxCode,
		"username": cfg.Username,
		"password": cfg.Password,
	})
	if err != nil {
		return "", &provider.AuthStepError{Step: stepToken, Err: err}
	}

	var parsed tokenResponse
	if err := resp.Decode(&parsed); err != nil {
		return "", &provider.AuthStepError{Step: stepToken, Err: err}
	}
	if !parsed.Success || resp.StatusCode != http.StatusOK {
		return "", stepRejected(stepToken, resp)
	}
	return parsed.Data, nil
}

func (a *Adapter) secureToken(ctx context.Context, cfg config.ProviderConfig) (string, error) {
	resp, err := a.deps.Transport.Call(ctx, http.MethodPost, cfg.Host+epValidateUser, map[string]string{
		"appid":          cfg.AppID,
		"companytaxcode": cfg.TaxCode,
		"username":       cfg.Username,
	}, map[string]string{
		"password": cfg.Password,
	})
	if err != nil {
		return "", &provider.AuthStepError{Step: stepSecureToken, Err: err}
	}

	var parsed secureTokenResponse
	if err := resp.Decode(&parsed); err != nil {
		return "", &provider.AuthStepError{Step: stepSecureToken, Err: err}
	}
	if !parsed.Success || resp.StatusCode != http.StatusOK {
		return "", stepRejected(stepSecureToken, resp)
	}
	return parsed.Data, nil
}

func (a *Adapter) jwtToken(ctx context.Context, cfg config.ProviderConfig, secureToken string) (string, error) {
	// The secure token arrives as "<session>;<token>"; only the part after
	// the delimiter is valid for the exchange.
	if i := strings.Index(secureToken, ";"); i >= 0 {
		secureToken = secureToken[i+1:]
	}

	resp, err := a.deps.Transport.Call(ctx, http.MethodPost, cfg.Host+epJWTToken, map[string]string{
		"appid":          cfg.AppID,
		"companytaxcode": cfg.TaxCode,
		"username":       cfg.Username,
		"securetoken":    secureToken,
	}, nil)
	if err != nil {
		return "", &provider.AuthStepError{Step: stepJWT, Err: err}
	}

	var parsed jwtResponse
	if err := resp.Decode(&parsed); err != nil {
		return "", &provider.AuthStepError{Step: stepJWT, Err: err}
	}
	if !parsed.Success || resp.StatusCode != http.StatusOK {
		return "", stepRejected(stepJWT, resp)
	}
	return parsed.Data.AccessToken, nil
}

func (a *Adapter) subscribers(ctx context.Context, cfg config.ProviderConfig) (string, error) {
	url := fmt.Sprintf("%s/inbot/api/subscribers/code/%s", cfg.AppURL, cfg.TaxCode)
	resp, err := a.deps.Transport.Call(ctx, http.MethodGet, url, map[string]string{
		"ClientId": cfg.ClientID,
	}, nil)
	if err != nil {
		return "", &provider.AuthStepError{Step: stepSubscribers, Err: err}
	}

	var parsed subscribersResponse
	if err := resp.Decode(&parsed); err != nil {
		return "", &provider.AuthStepError{Step: stepSubscribers, Err: err}
	}
	if !parsed.Success || resp.StatusCode != http.StatusOK {
		return "", stepRejected(stepSubscribers, resp)
	}
	return parsed.Data.ID, nil
}

func (a *Adapter) organization(ctx context.Context, cfg config.ProviderConfig, accessToken, subscriberID string) (string, error) {
	url := fmt.Sprintf("%s/inbot/api/%s/organizations", cfg.AppURL, subscriberID)
	resp, err := a.deps.Transport.Call(ctx, http.MethodGet, url, map[string]string{
		"ClientId":      cfg.ClientID,
		"Authorization": "Bearer " + accessToken,
	}, nil)
	if err != nil {
		return "", &provider.AuthStepError{Step: stepOrganization, Err: err}
	}

	var parsed organizationResponse
	if err := resp.Decode(&parsed); err != nil {
		return "", &provider.AuthStepError{Step: stepOrganization, Err: err}
	}
	if !parsed.Success || resp.StatusCode != http.StatusOK {
		return "", stepRejected(stepOrganization, resp)
	}
	if len(parsed.Data) == 0 {
		return "", nil
	}
	return parsed.Data[0].ID, nil
}

func stepRejected(step string, resp *provider.Response) error {
	return &provider.AuthStepError{
		Step: step,
		Err:  &provider.RemoteRejectionError{StatusCode: resp.StatusCode, Body: string(resp.Body)},
	}
}

// jwtExpiry derives a bundle expiry from the access token's exp claim. The
// token is not verified here; the vendor signed it and only the expiry is of
// interest. Returns zero when the claim is absent or unreadable.
func jwtExpiry(accessToken string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
