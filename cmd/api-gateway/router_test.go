package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/handler"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/service"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/config"
)

type salaSrvStub struct{ created int }

func (s *salaSrvStub) List(context.Context, dto.SalaQuery) ([]models.Sala, error) {
	return []models.Sala{}, nil
}

func (s *salaSrvStub) Get(_ context.Context, id string) (*models.Sala, error) {
	return &models.Sala{ID: id}, nil
}

func (s *salaSrvStub) Create(_ context.Context, req dto.SalaRequest) (*models.Sala, error) {
	s.created++
	return &models.Sala{ID: "s1", Nome: req.Nome}, nil
}

func (s *salaSrvStub) Update(_ context.Context, id string, _ dto.SalaRequest) (*models.Sala, error) {
	return &models.Sala{ID: id}, nil
}

func (s *salaSrvStub) Delete(context.Context, string) error { return nil }

func testRouter(auth *service.AuthService, salas *salaSrvStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api"}
	return newRouter(cfg, zap.NewNop(), routerDeps{
		auth:    auth,
		metrics: service.NewMetricsService(),
		salas:   handler.NewSalaHandler(salas),
		health:  handler.NewMetricsHandler(nil, nil),
	})
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	var body *strings.Reader
	if method == http.MethodPost {
		body = strings.NewReader(`{"nome":"Lab","capacidade_total":20}`)
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterWithoutAuthAllowsWrites(t *testing.T) {
	salas := &salaSrvStub{}
	r := testRouter(nil, salas)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/api/salas", "").Code)
	assert.Equal(t, 1, salas.created)
}

func TestRouterWithAuthChecksRoles(t *testing.T) {
	auth := service.NewAuthService(service.AuthConfig{Secret: "router-secret"})
	salas := &salaSrvStub{}
	r := testRouter(auth, salas)

	viewer, err := auth.IssueToken("u1", models.RoleVisualizador, time.Minute)
	require.NoError(t, err)
	coord, err := auth.IssueToken("u2", models.RoleCoordenador, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/salas", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/salas", viewer).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, "/api/salas", viewer).Code)
	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/api/salas", coord).Code)
	assert.Equal(t, 1, salas.created)

	// probes stay public
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "").Code)
}
