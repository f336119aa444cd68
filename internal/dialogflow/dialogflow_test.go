package dialogflow

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredentials(t *testing.T, tokenURI string) ([]byte, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemKey := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	creds, err := json.Marshal(map[string]string{
		"client_email": "bot@panda-hinl.iam.gserviceaccount.com",
		"private_key":  string(pemKey),
		"token_uri":    tokenURI,
		"project_id":   "panda-hinl",
	})
	require.NoError(t, err)
	return creds, key
}

func TestNewTokenSourceRejectsBadJSON(t *testing.T) {
	_, err := NewTokenSource([]byte("{"))
	assert.Error(t, err)

	_, err = NewTokenSource([]byte(`{"client_email": "a@b.c"}`))
	assert.Error(t, err, "missing private key must be rejected")
}

func TestTokenExchangeAndCaching(t *testing.T) {
	var calls int
	var key *rsa.PrivateKey

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", r.Form.Get("grant_type"))

		// The assertion must verify against the service-account key and
		// carry the expected claims.
		token, err := jwt.Parse(r.Form.Get("assertion"), func(tok *jwt.Token) (any, error) {
			return &key.PublicKey, nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "bot@panda-hinl.iam.gserviceaccount.com", claims["iss"])
		assert.Equal(t, cloudPlatformScope, claims["scope"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-1",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	creds, k := testCredentials(t, srv.URL)
	key = k

	ts, err := NewTokenSource(creds)
	require.NoError(t, err)
	assert.Equal(t, "panda-hinl", ts.ProjectID())

	got, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", got)

	// A second call inside the expiry window reuses the cache.
	_, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDetectIntent(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	}))
	defer tokenSrv.Close()

	var gotPath, gotAuth string
	var gotBody map[string]any
	dfSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"queryResult": {"fulfillmentText": "ok"}}`))
	}))
	defer dfSrv.Close()

	creds, _ := testCredentials(t, tokenSrv.URL)
	ts, err := NewTokenSource(creds)
	require.NoError(t, err)

	c := NewClient(ts, "panda-hinl", "web-user-session", "en")
	c.endpoint = dfSrv.URL

	raw, err := c.DetectIntent(context.Background(), "two sushi rolls")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "fulfillmentText")

	assert.Equal(t, "/v2/projects/panda-hinl/agent/sessions/web-user-session:detectIntent", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)

	query := gotBody["queryInput"].(map[string]any)["text"].(map[string]any)
	assert.Equal(t, "two sushi rolls", query["text"])
	assert.Equal(t, "en", query["languageCode"])
}

func TestDetectIntentDefaultsEmptyText(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	}))
	defer tokenSrv.Close()

	var gotBody map[string]any
	dfSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}))
	defer dfSrv.Close()

	creds, _ := testCredentials(t, tokenSrv.URL)
	ts, err := NewTokenSource(creds)
	require.NoError(t, err)

	c := NewClient(ts, "panda-hinl", "web-user-session", "en")
	c.endpoint = dfSrv.URL

	_, err = c.DetectIntent(context.Background(), "")
	require.NoError(t, err)

	query := gotBody["queryInput"].(map[string]any)["text"].(map[string]any)
	assert.Equal(t, "Hello", query["text"])
}
