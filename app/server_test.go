package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/joefazee/visaguide/app/admin"
	"github.com/joefazee/visaguide/app/countries"
	"github.com/joefazee/visaguide/app/storage"
	"github.com/joefazee/visaguide/internal/cache"
	"github.com/joefazee/visaguide/internal/logger"
)

type ServerTestSuite struct {
	suite.Suite
	server *Server
	cookie *http.Cookie
}

func (suite *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := &Config{
		StorageConfig: StorageConfig{
			Storage: storage.Config{
				Backend:  storage.BackendFile,
				FilePath: filepath.Join(suite.T().TempDir(), "countries.json"),
			},
		},
		Admin: admin.Config{
			Username:     "editor",
			Password:     "s3cure-passphrase",
			SymmetricKey: testSymmetricKey,
			TokenTTL:     time.Hour,
		},
		Cache:          cache.Config{Backend: cache.MemoryBackend},
		Countries:      *countries.DefaultConfig(),
		Env:            "test",
		Version:        "1.2.3",
		AllowedOrigins: []string{"http://localhost:3000"},
		PublicURL:      "http://localhost:8080",
	}

	server, err := NewServer(context.Background(), cfg, logger.NewNullLogger(), prometheus.NewRegistry())
	suite.Require().NoError(err)
	suite.server = server
	suite.cookie = nil
}

func (suite *ServerTestSuite) TearDownTest() {
	suite.NoError(suite.server.Close())
}

func (suite *ServerTestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if suite.cookie != nil {
		req.AddCookie(suite.cookie)
	}

	w := httptest.NewRecorder()
	suite.server.Engine.ServeHTTP(w, req)
	return w
}

func (suite *ServerTestSuite) login() {
	w := suite.do(http.MethodPost, "/api/v1/admin/login", map[string]string{
		"username": "editor",
		"password": "s3cure-passphrase",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == admin.CookieName {
			suite.cookie = c
		}
	}
	suite.Require().NotNil(suite.cookie)
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func (suite *ServerTestSuite) TestHealthz_FileBackend() {
	w := suite.do(http.MethodGet, "/api/v1/healthz", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("healthy", body["status"])
	suite.Equal("file", body["storage"])
	suite.Equal("1.2.3", body["version"])
	suite.Equal(false, body["degraded"])
}

func (suite *ServerTestSuite) TestAdminRoutes_RequireSession() {
	w := suite.do(http.MethodGet, "/api/v1/admin/countries", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/admin/stats", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ServerTestSuite) TestCatalogLifecycle() {
	suite.login()

	w := suite.do(http.MethodPost, "/api/v1/admin/countries", map[string]interface{}{
		"name":          "Japan",
		"flag":          "JP",
		"region":        "asia",
		"visa_required": "true",
		"summary":       "Tourist visa required for most travellers.",
		"photo_requirements": map[string]interface{}{
			"size":       "35x45mm",
			"background": "white",
		},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	created := decodeData(suite.T(), w)
	suite.Equal("japan", created["slug"])
	suite.Equal(false, created["published"])
	id := created["id"].(string)

	w = suite.do(http.MethodGet, "/api/v1/countries/japan", nil)
	suite.Equal(http.StatusNotFound, w.Code, "drafts are hidden from the public API")

	w = suite.do(http.MethodPost, "/api/v1/admin/countries/"+id+"/publish", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/countries/japan", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("Japan", decodeData(suite.T(), w)["name"])

	w = suite.do(http.MethodGet, "/api/v1/countries/regions", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Asia")

	w = suite.do(http.MethodGet, "/api/v1/admin/stats", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	stats := decodeData(suite.T(), w)
	suite.EqualValues(1, stats["total"])
	suite.EqualValues(1, stats["published"])
}

func (suite *ServerTestSuite) TestPublishIncomplete_Returns422() {
	suite.login()

	w := suite.do(http.MethodPost, "/api/v1/admin/countries", map[string]interface{}{"name": "Peru"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	id := decodeData(suite.T(), w)["id"].(string)

	w = suite.do(http.MethodPost, "/api/v1/admin/countries/"+id+"/publish", nil)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(w.Body.String(), "INCOMPLETE_RECORD")
}

func (suite *ServerTestSuite) TestLogout_RevokesSession() {
	suite.login()

	w := suite.do(http.MethodPost, "/api/v1/admin/logout", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/admin/profile", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ServerTestSuite) TestMetricsEndpoint() {
	suite.login()
	suite.do(http.MethodGet, "/api/v1/admin/countries", nil)

	w := suite.do(http.MethodGet, "/metrics", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `visaguide_admin_login_attempts_total{outcome="success"} 1`)
	suite.Contains(w.Body.String(), "visaguide_storage_operation_duration_seconds")
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestServer_Close_Idempotent(t *testing.T) {
	s := &Server{}
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
