package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/moneybalancer/internal/auth"
	"github.com/mmynk/moneybalancer/internal/models"
	"github.com/mmynk/moneybalancer/internal/service"
	"github.com/mmynk/moneybalancer/internal/storage/sqlite"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tempDir, err := os.MkdirTemp("", "moneybalancer-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	groups := service.NewGroupService(store)
	ledger := service.NewLedgerService(store)

	return NewRouter(
		NewUserHandler(authenticator, jwtManager, groups),
		NewGroupHandler(groups, ledger),
		jwtManager,
	)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out))
	return out
}

// registerUser registers a user through the API and returns their token.
func registerUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	recorder := doJSON(t, router, http.MethodPost, "/api/v1/user", "", gin.H{
		"username": username,
		"nickname": username,
		"password": "correct horse battery staple",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterAndLogin(t *testing.T) {
	router := newTestRouter(t)

	registerUser(t, router, "alice")

	t.Run("duplicate username", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, "/api/v1/user", "", gin.H{
			"username": "alice", "nickname": "alice2", "password": "another long password",
		})
		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("weak password", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, "/api/v1/user", "", gin.H{
			"username": "bob", "nickname": "bob", "password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("login", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "alice", "password": "correct horse battery staple",
		})
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "alice", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "nobody", "password": "correct horse battery staple",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/v1/user", "/api/v1/group"} {
		recorder := doJSON(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, path)
	}

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/group", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCurrentUser(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "alice")

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/group", token, gin.H{"name": "Flat"})
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = doJSON(t, router, http.MethodGet, "/api/v1/user", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var user struct {
		Username string          `json:"username"`
		Groups   []*models.Group `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)
	require.Len(t, user.Groups, 1)
	assert.Equal(t, "Flat", user.Groups[0].Name)
}

func TestGroupFlow(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerUser(t, router, "alice")
	bobToken := registerUser(t, router, "bob")
	malToken := registerUser(t, router, "mal")

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/group", aliceToken, gin.H{"name": "Trip"})
	require.Equal(t, http.StatusCreated, recorder.Code)
	group := decodeBody[models.Group](t, recorder)
	require.NotEmpty(t, group.ID)

	groupPath := "/api/v1/group/" + group.ID

	t.Run("join", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, groupPath+"/member", bobToken, nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		// Joining twice fails.
		recorder = doJSON(t, router, http.MethodPost, groupPath+"/member", bobToken, nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("members visible to members", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodGet, groupPath+"/member", bobToken, nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		members := decodeBody[[]models.GroupMember](t, recorder)
		assert.Len(t, members, 2)
	})

	t.Run("group hidden from non-members", func(t *testing.T) {
		for _, path := range []string{groupPath, groupPath + "/member", groupPath + "/transaction", groupPath + "/debt"} {
			recorder := doJSON(t, router, http.MethodGet, path, malToken, nil)
			assert.Equal(t, http.StatusNotFound, recorder.Code, path)
		}
	})
}

func TestTransactionEndpoints(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerUser(t, router, "alice")
	bobToken := registerUser(t, router, "bob")

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/group", aliceToken, gin.H{"name": "Flat"})
	require.Equal(t, http.StatusCreated, recorder.Code)
	group := decodeBody[models.Group](t, recorder)
	groupPath := "/api/v1/group/" + group.ID

	recorder = doJSON(t, router, http.MethodGet, "/api/v1/user", bobToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	bob := decodeBody[models.User](t, recorder)

	recorder = doJSON(t, router, http.MethodPost, groupPath+"/member", bobToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	t.Run("amount variant", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, groupPath+"/transaction", aliceToken, gin.H{
			"amount": gin.H{
				"debtor_ids":  []string{bob.ID},
				"amount":      100,
				"description": "Groceries",
			},
		})
		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
		transaction := decodeBody[models.Transaction](t, recorder)
		assert.EqualValues(t, 100, transaction.Amount)
		require.Len(t, transaction.Debts, 1)
		assert.Equal(t, bob.ID, transaction.Debts[0].DebtorID)
	})

	t.Run("debts variant", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, groupPath+"/transaction", aliceToken, gin.H{
			"debts": gin.H{
				"debts":       []gin.H{{"debtor_id": bob.ID, "amount": 42}},
				"description": "Taxi",
			},
		})
		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
		transaction := decodeBody[models.Transaction](t, recorder)
		assert.EqualValues(t, 42, transaction.Amount)
	})

	t.Run("neither variant", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, groupPath+"/transaction", aliceToken, gin.H{
			"description": "Nothing",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("both variants", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, groupPath+"/transaction", aliceToken, gin.H{
			"amount": gin.H{"debtor_ids": []string{bob.ID}, "amount": 10},
			"debts":  gin.H{"debts": []gin.H{{"debtor_id": bob.ID, "amount": 10}}},
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("negative amount", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, groupPath+"/transaction", aliceToken, gin.H{
			"amount": gin.H{"debtor_ids": []string{bob.ID}, "amount": -1},
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("unknown debtor", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, groupPath+"/transaction", aliceToken, gin.H{
			"amount": gin.H{"debtor_ids": []string{"not-a-member"}, "amount": 10},
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("unknown group is 404", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodPost, "/api/v1/group/no-such-group/transaction", aliceToken, gin.H{
			"amount": gin.H{"debtor_ids": []string{bob.ID}, "amount": 10},
		})
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("list and delete", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodGet, groupPath+"/transaction", bobToken, nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		transactions := decodeBody[[]models.Transaction](t, recorder)
		require.Len(t, transactions, 2)

		target := transactions[0].ID
		recorder = doJSON(t, router, http.MethodDelete,
			fmt.Sprintf("%s/transaction/%s", groupPath, target), bobToken, nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		recorder = doJSON(t, router, http.MethodDelete,
			fmt.Sprintf("%s/transaction/%s", groupPath, target), bobToken, nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("debt balances", func(t *testing.T) {
		recorder := doJSON(t, router, http.MethodGet, groupPath+"/debt", bobToken, nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		balances := decodeBody[[]models.NetBalance](t, recorder)
		require.Len(t, balances, 1)
		assert.Negative(t, balances[0].Amount) // bob owes alice
	})
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	recorder := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
