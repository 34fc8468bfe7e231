package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/api"
	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/router"
	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/service"
	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/testhelpers"
)

// testApp bundles the wired router and its collaborators for handler tests.
type testApp struct {
	router    *gin.Engine
	db        *gorm.DB
	auth      *service.AuthService
	extractor *testhelpers.MockLabelExtractor
	composer  *testhelpers.MockRecipeComposer
	images    *testhelpers.MockImageStore
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	authSvc := service.NewAuthService(db, "test-secret")
	recipeSvc := service.NewRecipeService(db)

	extractor := new(testhelpers.MockLabelExtractor)
	composer := new(testhelpers.MockRecipeComposer)
	images := new(testhelpers.MockImageStore)
	analysisSvc := service.NewAnalysisService(extractor, composer, images, recipeSvc, nil)

	r := router.SetupRouter(
		api.NewAuthHandler(authSvc),
		api.NewRecipeHandler(recipeSvc),
		api.NewAnalyzeHandler(analysisSvc, 16<<20),
		authSvc,
	)

	return &testApp{
		router:    r,
		db:        db,
		auth:      authSvc,
		extractor: extractor,
		composer:  composer,
		images:    images,
	}
}

// registerAndLogin creates a user and returns a bearer token for it.
func (a *testApp) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	_, err := a.auth.Register(username, "password123")
	require.NoError(t, err)

	token, err := a.auth.Login(username, "password123")
	require.NoError(t, err)
	return token
}

// doJSON performs a JSON request against the test router.
func (a *testApp) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// doMultipart performs a multipart upload against the test router. A nil
// image omits the file part entirely.
func (a *testApp) doMultipart(t *testing.T, path, token string, image []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if image != nil {
		part, err := writer.CreateFormFile("image", "upload.jpg")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
