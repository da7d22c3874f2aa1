package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicflow/content-service/internal/history"
	"github.com/clinicflow/content-service/internal/logger"
	"github.com/clinicflow/content-service/internal/metrics"
	"github.com/clinicflow/content-service/internal/profile"
	"github.com/clinicflow/content-service/internal/research"
	"github.com/clinicflow/content-service/internal/resolver"
	"github.com/clinicflow/content-service/internal/seo"
	"github.com/clinicflow/content-service/internal/store"
)

const (
	testSecret  = "test-secret"
	testBaseURL = "https://clinicflow.test"
)

// The Prometheus default registry rejects duplicate registration, so every
// test router shares one metrics instance.
var (
	metricsOnce sync.Once
	testMetrics *metrics.Metrics
)

func sharedMetrics() *metrics.Metrics {
	metricsOnce.Do(func() { testMetrics = metrics.New() })
	return testMetrics
}

func fixtureStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(map[store.Collection][]store.ContentRecord{
		store.CollectionBlog: {
			{
				Key: "sample-post", Title: "Sample Post", Summary: "A sample entry.",
				Category: "Documentation", Author: "Dana Wells",
				Tags: []string{"sample", "docs", "intro", "extra"},
				Body: "# Welcome\n\nSome **bold** text.\n\n- point one\n- point two",
			},
			{
				Key: "phipa-guide", Title: "PHIPA Compliance Guide", Summary: "Privacy rules.",
				Category: "Compliance", Author: "Sam Archer",
			},
			{
				Key: "second-doc", Title: "Second Doc", Summary: "More documentation.",
				Category: "Documentation",
			},
		},
		store.CollectionLocations: {
			{Key: "toronto", Title: "Toronto", Summary: "Serving Toronto clinics.", Category: "Ontario"},
		},
	})
	require.NoError(t, err)
	return s
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := fixtureStore(t)
	handler := NewHandler(
		s,
		resolver.New(s),
		seo.New(seo.Site{Name: "ClinicFlow", BaseURL: testBaseURL, Organization: "ClinicFlow Inc."}),
		testBaseURL,
		research.NewDemoSource(),
		profile.NewMemoryRepository(),
		history.NewMemoryRepository(),
		sharedMetrics(),
		logger.NewNop(),
	)

	router := gin.New()
	handler.RegisterRoutes(router, testSecret)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func userToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestListCollection(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/content/blog", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "blog", resp.Collection)
	assert.Equal(t, 3, resp.Total)
	assert.False(t, resp.NoResults)
	require.Len(t, resp.Records, 3)
	assert.Equal(t, "sample-post", resp.Records[0].Key)
	assert.Len(t, resp.Records[0].DisplayTags, 3, "listing cards cap displayed tags")
	assert.Equal(t, "documentation", resp.Records[0].CategorySlug)
	require.Len(t, resp.Categories, 2)
	assert.Equal(t, "Documentation", resp.Categories[0].Label)
}

func TestListCollectionCategoryFilter(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/content/blog?category=Documentation", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	for _, rec := range resp.Records {
		assert.Equal(t, "Documentation", rec.Category)
	}
}

func TestListCollectionSearch(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/content/blog?q=phipa", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "phipa-guide", resp.Records[0].Key)
	assert.Equal(t, "phipa", resp.Filter.Term)
}

func TestListCollectionEmptyResultIsOK(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/content/blog?q=nonexistent-topic", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.NoResults)
	assert.Zero(t, resp.Total)
	assert.Empty(t, resp.Records)
	// Category links stay available so the user can pivot out.
	assert.NotEmpty(t, resp.Categories)
}

func TestListCollectionUnknownCollection(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/content/podcasts", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
	assert.False(t, resp.Timestamp.IsZero())

	// The 404 envelope still carries metadata so the error page renders tags.
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, "Page Not Found | ClinicFlow", resp.Metadata.Title)
}

func TestGetRecord(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/content/blog/sample-post", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp DetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Sample Post", resp.Record.Title)
	assert.Equal(t, "Sample Post | ClinicFlow Blog", resp.Metadata.Title)
	assert.Equal(t, testBaseURL+"/blog/sample-post", resp.Metadata.Canonical)

	require.NotEmpty(t, resp.BodyBlocks)
	assert.Contains(t, resp.BodyHTML, "<h1>Welcome</h1>")
	assert.Contains(t, resp.BodyHTML, "<strong>bold</strong>")

	// Related records share the category, excluding the record itself.
	require.Len(t, resp.Related, 1)
	assert.Equal(t, "second-doc", resp.Related[0].Key)
}

func TestGetRecordWithoutBody(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/content/blog/phipa-guide", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp DetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.BodyBlocks)
	assert.Empty(t, resp.BodyHTML)
}

func TestGetRecordNotFound(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{
		"/api/v1/content/blog/sample-post-2",
		"/api/v1/content/blog/Sample-Post",
		"/api/v1/content/locations/sample-post",
	} {
		w := doJSON(t, router, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code, "path %s", path)
	}
}

func TestGetCategory(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/content/blog/category/documentation", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CategoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Documentation", resp.Category.Label)
	assert.Equal(t, "documentation", resp.Category.Slug)
	assert.Len(t, resp.Records, 2)
	assert.Equal(t, testBaseURL+"/blog/category/documentation", resp.Metadata.Canonical)
}

func TestGetCategoryNotFound(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/content/blog/category/marketing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The raw label is not a slug.
	w = doJSON(t, router, http.MethodGet, "/api/v1/content/blog/category/Documentation", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListKeys(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/content/blog/keys", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp KeysResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"sample-post", "phipa-guide", "second-doc"}, resp.Keys)
}

func TestListCategories(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/content/blog/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CategoriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Categories, 2)
	assert.Equal(t, "compliance", resp.Categories[1].Slug)
}

func TestSitemap(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/sitemap", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp SitemapResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testBaseURL, resp.BaseURL)

	paths := make(map[string]bool, len(resp.Routes))
	for _, route := range resp.Routes {
		paths[route.Path] = true
	}
	assert.True(t, paths["/blog/sample-post"])
	assert.True(t, paths["/blog/category/documentation"])
	assert.True(t, paths["/locations/toronto"])
}

func TestResearchDemo(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/research",
		research.Request{Query: "hypertension targets"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp research.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Summary)
	assert.NotEmpty(t, resp.Sources)
}

func TestResearchRejectsBadBody(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/research", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
}

func TestProfileRoundTrip(t *testing.T) {
	router := testRouter(t)
	token := userToken(t, "user-1")

	w := doJSON(t, router, http.MethodGet, "/api/v1/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var p profile.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "high", p.Preferences.EvidenceLevel)

	p.DisplayName = "Dr. Wells"
	w = doJSON(t, router, http.MethodPut, "/api/v1/profile", p, token)
	require.Equal(t, http.StatusOK, w.Code)

	name := "Dr. Chen"
	w = doJSON(t, router, http.MethodPatch, "/api/v1/profile", profile.Update{DisplayName: &name}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var updated profile.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Dr. Chen", updated.DisplayName)
}

func TestProfileRequiresAuth(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestConsultationsRoundTrip(t *testing.T) {
	router := testRouter(t)
	token := userToken(t, "user-2")

	w := doJSON(t, router, http.MethodPost, "/api/v1/consultations", history.ConsultationCreateRequest{
		Query:       "statin intolerance options",
		Summary:     "Consider alternate-day dosing.",
		KeyFindings: []string{"ezetimibe add-on"},
		Confidence:  0.8,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var saved history.Consultation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, "user-2", saved.UserID)

	w = doJSON(t, router, http.MethodGet, "/api/v1/consultations", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Consultations []history.Consultation `json:"consultations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Consultations, 1)
	assert.Equal(t, saved.ID, listed.Consultations[0].ID)
}

func TestConsultationsValidateBody(t *testing.T) {
	router := testRouter(t)
	token := userToken(t, "user-2")

	// Missing required summary.
	w := doJSON(t, router, http.MethodPost, "/api/v1/consultations",
		map[string]any{"query": "q"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHistoryRoundTrip(t *testing.T) {
	router := testRouter(t)
	token := userToken(t, "user-3")

	w := doJSON(t, router, http.MethodPost, "/api/v1/search-history",
		map[string]string{"term": "warfarin bridging"}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/search-history", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Searches []history.SearchEntry `json:"searches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Searches, 1)
	assert.Equal(t, "warfarin bridging", listed.Searches[0].Term)
}

func TestAccountDataIsolatedByUser(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/search-history",
		map[string]string{"term": "private query"}, userToken(t, "user-a"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/search-history", nil, userToken(t, "user-b"))
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Searches []history.SearchEntry `json:"searches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Empty(t, listed.Searches)
}
