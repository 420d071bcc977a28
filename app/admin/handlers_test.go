package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/joefazee/visaguide/app/api"
	"github.com/joefazee/visaguide/internal/cache"
	"github.com/joefazee/visaguide/internal/deps"
	"github.com/joefazee/visaguide/internal/logger"
	"github.com/joefazee/visaguide/internal/security"
)

type HandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *HandlerTestSuite) SetupTest() {
	maker, err := security.NewPasetoMaker(testKey)
	suite.Require().NoError(err)

	container := deps.NewContainer(maker, nil, logger.NewNullLogger(), cache.NewMemoryCache[string](), nil)
	suite.Require().NoError(InitServices(container, testConfig()))

	suite.router = gin.New()
	MountPublic(suite.router.Group("/admin"), container)
	protected := suite.router.Group("/admin")
	protected.Use(Middleware(container))
	MountAdmin(protected, container)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (suite *HandlerTestSuite) do(req *http.Request) (*httptest.ResponseRecorder, api.Response) {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	var resp api.Response
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func (suite *HandlerTestSuite) login() (*http.Cookie, string) {
	body, _ := json.Marshal(LoginRequest{Username: testUser, Password: testPassword})
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w, resp := suite.do(req)
	suite.Require().Equal(http.StatusOK, w.Code)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			cookie = c
		}
	}
	suite.Require().NotNil(cookie)
	token := resp.Data.(map[string]interface{})["token"].(string)
	return cookie, token
}

func (suite *HandlerTestSuite) TestLogin_SetsCookie() {
	cookie, token := suite.login()

	suite.Equal(token, cookie.Value)
	suite.True(cookie.HttpOnly)
	suite.Equal("/", cookie.Path)
	suite.InDelta(8*60*60, cookie.MaxAge, 5)
	suite.Equal(http.SameSiteLaxMode, cookie.SameSite)
}

func (suite *HandlerTestSuite) TestLogin_Form() {
	form := url.Values{"username": {testUser}, "password": {testPassword}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewBufferString(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w, resp := suite.do(req)
	suite.Equal(http.StatusOK, w.Code)
	suite.True(resp.Success)
}

func (suite *HandlerTestSuite) TestLogin_InvalidCredentials() {
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewBufferString(`{"username":"editor","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")

	w, resp := suite.do(req)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("INVALID_CREDENTIALS", resp.Error.Code)
	suite.Empty(w.Result().Cookies())
}

func (suite *HandlerTestSuite) TestLogin_MissingFields() {
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewBufferString(`{"username":"editor"}`))
	req.Header.Set("Content-Type", "application/json")

	w, resp := suite.do(req)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("BAD_REQUEST", resp.Error.Code)
}

func (suite *HandlerTestSuite) TestProfile() {
	cookie, token := suite.login()

	req := httptest.NewRequest(http.MethodGet, "/admin/profile", http.NoBody)
	req.AddCookie(cookie)
	w, resp := suite.do(req)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(testUser, resp.Data.(map[string]interface{})["username"])

	req = httptest.NewRequest(http.MethodGet, "/admin/profile", http.NoBody)
	req.Header.Set(AuthorizationHeaderKey, "Bearer "+token)
	w, _ = suite.do(req)
	suite.Equal(http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/profile", http.NoBody)
	w, resp = suite.do(req)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("UNAUTHORIZED", resp.Error.Code)
}

func (suite *HandlerTestSuite) TestLogout() {
	cookie, _ := suite.login()

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", http.NoBody)
	req.AddCookie(cookie)
	w, _ := suite.do(req)
	suite.Equal(http.StatusOK, w.Code)

	cleared := w.Result().Cookies()
	suite.Require().Len(cleared, 1)
	suite.Equal(CookieName, cleared[0].Name)
	suite.Empty(cleared[0].Value)
	suite.Negative(cleared[0].MaxAge)

	req = httptest.NewRequest(http.MethodGet, "/admin/profile", http.NoBody)
	req.AddCookie(cookie)
	w, _ = suite.do(req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}
