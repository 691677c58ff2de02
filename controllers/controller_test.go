package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/echohabit/server/middleware"
	"github.com/echohabit/server/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser injects an authenticated identity without going through JWT parsing.
func asUser(id uint) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, id)
		ctx.Next()
	}
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) (int, map[string]interface{}) {
	t.Helper()
	var envelope struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v (%s)", err, body.String())
	}
	return envelope.Code, envelope.Data
}

func TestCatalogActivities(t *testing.T) {
	r := gin.New()
	c := NewCatalogController()
	r.GET("/catalog/activities", c.Activities)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/activities", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	code, data := decodeEnvelope(t, w.Body)
	if code != 0 {
		t.Fatalf("envelope code = %d", code)
	}

	categories, ok := data["categories"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing categories in %v", data)
	}
	if len(categories) != 4 {
		t.Errorf("categories = %d, want 4", len(categories))
	}
	moveGreen, ok := categories[models.CategoryMoveGreen].([]interface{})
	if !ok || len(moveGreen) != 3 {
		t.Errorf("move_green should list 3 types, got %v", categories[models.CategoryMoveGreen])
	}
}

func TestCatalogLevels(t *testing.T) {
	r := gin.New()
	c := NewCatalogController()
	r.GET("/catalog/levels", c.Levels)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/levels", nil))

	_, data := decodeEnvelope(t, w.Body)
	levels, ok := data["levels"].([]interface{})
	if !ok || len(levels) != 5 {
		t.Errorf("levels = %v, want 5 tiers", data["levels"])
	}
}

func TestActivityCreateRejectsBadCategory(t *testing.T) {
	r := gin.New()
	// Validation happens before any service call, so nil deps are safe here.
	a := NewActivityController(nil, nil)
	r.POST("/activities", asUser(1), a.Create)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("category", "teleportation")
	mw.WriteField("activity_type", models.TypeBike)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/activities", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestActivityCreateRejectsMismatchedType(t *testing.T) {
	r := gin.New()
	a := NewActivityController(nil, nil)
	r.POST("/activities", asUser(1), a.Create)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("category", models.CategoryEatClean)
	mw.WriteField("activity_type", models.TypeBike)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/activities", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestActivityCreateRequiresAuth(t *testing.T) {
	r := gin.New()
	a := NewActivityController(nil, nil)
	r.POST("/activities", a.Create)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/activities", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestBadgeCatalogPublic(t *testing.T) {
	r := gin.New()
	b := NewBadgeController(nil, nil)
	r.GET("/badges", b.Catalog)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/badges", nil))

	_, data := decodeEnvelope(t, w.Body)
	badges, ok := data["badges"].([]interface{})
	if !ok || len(badges) != 7 {
		t.Errorf("badges = %v, want 7 entries", data["badges"])
	}
}
