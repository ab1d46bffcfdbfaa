package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/configpkg"
	"github.com/go-petr/pet-wallet/pkg/currencypkg"
	"github.com/go-petr/pet-wallet/pkg/randompkg"
)

func testConfig() configpkg.Config {
	return configpkg.Config{
		TokenSymmetricKey:    randompkg.String(32),
		AccessTokenDuration:  time.Minute,
		RefreshTokenDuration: time.Hour,
		ExchangeRateUSD:      "100",
		ExchangeRateRUB:      "0.01",
		StartingBalanceRUB:   "10000",
		StartingBalanceUSD:   "100",
	}
}

type response struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Data         json.RawMessage `json:"data"`
	Error        string          `json:"error"`
}

func doRequest(t *testing.T, server *Server, method, url, token string, body gin.H) (int, response) {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("authorization", "bearer "+token)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	var res response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))

	return recorder.Code, res
}

func signUp(t *testing.T, server *Server, login, password string) (string, string, int64) {
	t.Helper()

	code, res := doRequest(t, server, http.MethodPost, "/users", "", gin.H{
		"login":           login,
		"password":        password,
		"password_repeat": password,
	})
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)

	var data struct {
		User domain.UserWithoutPassword `json:"user"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &data))
	require.Equal(t, login, data.User.Login)
	require.NotZero(t, data.User.UID)

	return res.AccessToken, res.RefreshToken, data.User.UID
}

func getBalance(t *testing.T, server *Server, token string) domain.Balance {
	t.Helper()

	code, res := doRequest(t, server, http.MethodGet, "/balances", token, nil)
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Balance domain.Balance `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &data))

	return data.Balance
}

func requireAmount(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.NewFromInt(want)), "amount = %s, want %d", got, want)
}

func TestTransactionFlow(t *testing.T) {
	server, err := New(zerolog.Nop(), testConfig())
	require.NoError(t, err)

	aliceToken, _, _ := signUp(t, server, "alice", "password1")
	bobToken, _, bobUID := signUp(t, server, "bob", "password2")

	// Fresh accounts start with the configured balances.
	balance := getBalance(t, server, aliceToken)
	requireAmount(t, 10000, balance.RUB)
	requireAmount(t, 100, balance.USD)

	// Alice offers 20 USD to Bob. Nothing moves yet.
	code, res := doRequest(t, server, http.MethodPost, "/transactions", aliceToken, gin.H{
		"to_uid":   bobUID,
		"currency": currencypkg.USD,
		"amount":   "20",
	})
	require.Equal(t, http.StatusOK, code)

	var txData struct {
		Transaction domain.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &txData))
	require.Equal(t, domain.StatusPending, txData.Transaction.Status)

	balance = getBalance(t, server, aliceToken)
	requireAmount(t, 100, balance.USD)

	resolveURL := fmt.Sprintf("/transactions/%d/resolve", txData.Transaction.ID)

	// The sender cannot resolve their own offer.
	code, _ = doRequest(t, server, http.MethodPost, resolveURL, aliceToken, gin.H{"accept": true})
	require.Equal(t, http.StatusNotFound, code)

	// Bob accepts: he gains 20 USD and pays 2000 RUB back to Alice.
	code, _ = doRequest(t, server, http.MethodPost, resolveURL, bobToken, gin.H{"accept": true})
	require.Equal(t, http.StatusOK, code)

	balance = getBalance(t, server, aliceToken)
	requireAmount(t, 80, balance.USD)
	requireAmount(t, 12000, balance.RUB)

	balance = getBalance(t, server, bobToken)
	requireAmount(t, 120, balance.USD)
	requireAmount(t, 8000, balance.RUB)

	// Resolving again fails and changes nothing.
	code, _ = doRequest(t, server, http.MethodPost, resolveURL, bobToken, gin.H{"accept": false})
	require.Equal(t, http.StatusNotFound, code)

	balance = getBalance(t, server, bobToken)
	requireAmount(t, 120, balance.USD)

	// Both parties see the accepted transaction in their history.
	for _, token := range []string{aliceToken, bobToken} {
		code, res = doRequest(t, server, http.MethodGet, "/transactions", token, nil)
		require.Equal(t, http.StatusOK, code)

		var historyData struct {
			Transactions []domain.Transaction `json:"transactions"`
		}
		require.NoError(t, json.Unmarshal(res.Data, &historyData))
		require.Len(t, historyData.Transactions, 1)
		require.Equal(t, domain.StatusAccepted, historyData.Transactions[0].Status)
	}
}

func TestRejectFlow(t *testing.T) {
	server, err := New(zerolog.Nop(), testConfig())
	require.NoError(t, err)

	aliceToken, _, _ := signUp(t, server, "alice", "password1")
	bobToken, _, bobUID := signUp(t, server, "bob", "password2")

	code, res := doRequest(t, server, http.MethodPost, "/transactions", aliceToken, gin.H{
		"to_uid":   bobUID,
		"currency": currencypkg.RUB,
		"amount":   "500",
	})
	require.Equal(t, http.StatusOK, code)

	var txData struct {
		Transaction domain.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &txData))

	resolveURL := fmt.Sprintf("/transactions/%d/resolve", txData.Transaction.ID)

	code, _ = doRequest(t, server, http.MethodPost, resolveURL, bobToken, gin.H{"accept": false})
	require.Equal(t, http.StatusOK, code)

	for _, token := range []string{aliceToken, bobToken} {
		balance := getBalance(t, server, token)
		requireAmount(t, 10000, balance.RUB)
		requireAmount(t, 100, balance.USD)
	}
}

func TestAuthFlow(t *testing.T) {
	server, err := New(zerolog.Nop(), testConfig())
	require.NoError(t, err)

	_, refreshToken, _ := signUp(t, server, "alice", "password1")

	// Signing up with a taken login fails.
	code, _ := doRequest(t, server, http.MethodPost, "/users", "", gin.H{
		"login":           "alice",
		"password":        "password1",
		"password_repeat": "password1",
	})
	require.Equal(t, http.StatusConflict, code)

	// Wrong password is rejected.
	code, _ = doRequest(t, server, http.MethodPost, "/users/login", "", gin.H{
		"login":    "alice",
		"password": "incorrect",
	})
	require.Equal(t, http.StatusUnauthorized, code)

	code, res := doRequest(t, server, http.MethodPost, "/users/login", "", gin.H{
		"login":    "alice",
		"password": "password1",
	})
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, res.AccessToken)

	// The refresh token from signup buys a new access token.
	code, res = doRequest(t, server, http.MethodPost, "/sessions", "", gin.H{
		"refresh_token": refreshToken,
	})
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(res.Data), "access_token")

	// Protected routes reject anonymous requests.
	code, _ = doRequest(t, server, http.MethodGet, "/balances", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestVerifyAndResetFlow(t *testing.T) {
	server, err := New(zerolog.Nop(), testConfig())
	require.NoError(t, err)

	aliceToken, _, _ := signUp(t, server, "alice", "password1")
	phone := randompkg.Phone()

	code, _ := doRequest(t, server, http.MethodPost, "/users/verify", "", gin.H{
		"login": "alice",
		"phone": phone,
		"age":   "30",
	})
	require.Equal(t, http.StatusOK, code)

	// Password reset requires the phone on record.
	code, _ = doRequest(t, server, http.MethodPost, "/users/forgot-password", "", gin.H{
		"login":        "alice",
		"phone":        "wrong",
		"new_password": "password2",
	})
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = doRequest(t, server, http.MethodPost, "/users/forgot-password", "", gin.H{
		"login":        "alice",
		"phone":        phone,
		"new_password": "password2",
	})
	require.Equal(t, http.StatusOK, code)

	code, _ = doRequest(t, server, http.MethodPost, "/users/login", "", gin.H{
		"login":    "alice",
		"password": "password2",
	})
	require.Equal(t, http.StatusOK, code)

	// Online toggle requires auth and reflects in the response.
	code, res := doRequest(t, server, http.MethodPatch, "/users/online", aliceToken, gin.H{
		"online": true,
	})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		User domain.UserWithoutPassword `json:"user"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &data))
	require.True(t, data.User.Online)
}
