// Package dialogflow talks to the upstream NLU platform: it mints OAuth
// access tokens from a Google service-account key and proxies detectIntent
// calls for the browser front end.
package dialogflow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
const jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// serviceAccount is the subset of the Google service-account JSON we need.
type serviceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
	ProjectID   string `json:"project_id"`
}

// TokenSource mints and caches OAuth access tokens for the service account.
// Safe for concurrent use.
type TokenSource struct {
	account serviceAccount
	client  *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource parses the service-account key JSON, typically taken from
// the GOOGLE_APPLICATION_CREDENTIALS_JSON environment variable.
func NewTokenSource(credentialsJSON []byte) (*TokenSource, error) {
	var account serviceAccount
	if err := json.Unmarshal(credentialsJSON, &account); err != nil {
		return nil, fmt.Errorf("parse service account JSON: %w", err)
	}
	if account.ClientEmail == "" || account.PrivateKey == "" {
		return nil, fmt.Errorf("service account JSON missing client_email or private_key")
	}
	if account.TokenURI == "" {
		account.TokenURI = "https://oauth2.googleapis.com/token"
	}
	return &TokenSource{
		account: account,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// ProjectID returns the project the key belongs to.
func (ts *TokenSource) ProjectID() string {
	return ts.account.ProjectID
}

// Token returns a cached access token, minting a fresh one when the cache
// is empty or within a minute of expiry.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Until(ts.expiry) > time.Minute {
		return ts.token, nil
	}

	assertion, err := ts.signAssertion(time.Now())
	if err != nil {
		return "", err
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.account.TokenURI,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange: unexpected status %s", resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	ts.token = body.AccessToken
	ts.expiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return ts.token, nil
}

// signAssertion builds the RS256-signed JWT the OAuth endpoint exchanges
// for an access token.
func (ts *TokenSource) signAssertion(now time.Time) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(ts.account.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("parse private key: %w", err)
	}

	claims := jwt.MapClaims{
		"iss":   ts.account.ClientEmail,
		"scope": cloudPlatformScope,
		"aud":   ts.account.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}
