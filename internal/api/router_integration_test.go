//go:build integration

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/lofoneh/usersvc/internal/api"
	"github.com/lofoneh/usersvc/internal/api/handlers"
	"github.com/lofoneh/usersvc/internal/migrations"
	"github.com/lofoneh/usersvc/internal/models"
	"github.com/lofoneh/usersvc/internal/repository"
	"github.com/lofoneh/usersvc/internal/services"
	"github.com/lofoneh/usersvc/pkg/database"
	"github.com/lofoneh/usersvc/pkg/logger"
	"github.com/lofoneh/usersvc/pkg/utils"
)

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	logger.UseNop()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("midb"),
		tcpostgres.WithUsername("andres"),
		tcpostgres.WithPassword("mi_password_segura"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.OpenPostgres(ctx, database.Settings{URL: dsn, ConnectTimeout: 10 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, migrations.Up(ctx, sqlDB))
	require.NoError(t, migrations.Up(ctx, sqlDB), "create-if-absent must be repeatable")

	provider := database.NewPostgresProvider(db)
	svc := services.NewUserService(repository.NewUserRepository(provider), utils.PBKDF2Hasher{Iterations: 1000})
	srv := httptest.NewServer(api.NewRouter(api.Dependencies{
		UsersHandler:  handlers.NewUsersHandler(svc),
		HealthHandler: handlers.NewHealthHandler(provider),
		CORSOrigins:   "*",
	}))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out.Bytes()
}

func TestUsersLifecycle(t *testing.T) {
	srv := startServer(t)

	status, _ := call(t, srv, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, status)

	// create
	status, body := call(t, srv, http.MethodPost, "/users", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created models.User
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Positive(t, created.ID)
	assert.NotEqual(t, "hunter22", created.Password)
	assert.True(t, utils.PBKDF2Hasher{}.Verify(created.Password, "hunter22"))
	assert.False(t, created.CreatedAt.IsZero())

	// duplicate email
	status, body = call(t, srv, http.MethodPost, "/users", map[string]string{
		"name": "Imposter", "email": "ada@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"email already exists"}`, string(body))

	// get equals created
	status, body = call(t, srv, http.MethodGet, fmt.Sprintf("/users/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var fetched models.User
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Name, fetched.Name)
	assert.Equal(t, created.Email, fetched.Email)
	assert.Equal(t, created.Password, fetched.Password)
	assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))

	// nonexistent
	status, body = call(t, srv, http.MethodGet, "/users/999999", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"user not found"}`, string(body))

	// name-only update keeps the rest
	status, body = call(t, srv, http.MethodPut, fmt.Sprintf("/users/%d", created.ID), map[string]string{"name": "Ada Lovelace"})
	require.Equal(t, http.StatusOK, status, string(body))
	status, body = call(t, srv, http.MethodGet, fmt.Sprintf("/users/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, "Ada Lovelace", fetched.Name)
	assert.Equal(t, "ada@example.com", fetched.Email)
	assert.Equal(t, created.Password, fetched.Password)

	// password update is hashed
	status, body = call(t, srv, http.MethodPut, fmt.Sprintf("/users/%d", created.ID), map[string]string{"password": "n3w-secret"})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.NotEqual(t, "n3w-secret", fetched.Password)
	assert.True(t, utils.PBKDF2Hasher{}.Verify(fetched.Password, "n3w-secret"))

	// list includes every created user
	ids := map[int64]bool{created.ID: true}
	for _, email := range []string{"bob@example.com", "cy@example.com"} {
		status, body = call(t, srv, http.MethodPost, "/users", map[string]string{"name": "n", "email": email, "password": "pw"})
		require.Equal(t, http.StatusCreated, status)
		var u models.User
		require.NoError(t, json.Unmarshal(body, &u))
		ids[u.ID] = true
	}
	status, body = call(t, srv, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, status)
	var all []models.User
	require.NoError(t, json.Unmarshal(body, &all))
	assert.GreaterOrEqual(t, len(all), 3)
	for _, u := range all {
		delete(ids, u.ID)
	}
	assert.Empty(t, ids)

	// delete is final
	status, body = call(t, srv, http.MethodDelete, fmt.Sprintf("/users/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, status)
	var deleted struct {
		Deleted models.User `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(body, &deleted))
	assert.Equal(t, created.ID, deleted.Deleted.ID)

	status, _ = call(t, srv, http.MethodGet, fmt.Sprintf("/users/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, srv, http.MethodDelete, fmt.Sprintf("/users/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDuplicateEmailCreatesNoRow(t *testing.T) {
	srv := startServer(t)

	status, _ := call(t, srv, http.MethodPost, "/users", map[string]string{"name": "A", "email": "dup@example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = call(t, srv, http.MethodPost, "/users", map[string]string{"name": "B", "email": "dup@example.com", "password": "pw"})
	require.Equal(t, http.StatusBadRequest, status)

	_, body := call(t, srv, http.MethodGet, "/users", nil)
	var all []models.User
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 1)
}
