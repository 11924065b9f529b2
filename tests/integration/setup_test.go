package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"savora/internal/cache"
	"savora/internal/handlers"
	"savora/internal/logger"
	"savora/internal/middleware"
	"savora/internal/models"
	"savora/internal/services"
	"savora/internal/storage"
	"savora/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB        *gorm.DB
	Router    *gin.Engine
	MediaRoot string
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite
// and a throwaway media directory.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	mediaRoot := t.TempDir()
	store := storage.NewLocalStorage(mediaRoot)
	cacheClient := cache.New("", "", 0)

	// Services
	userService := services.NewUserService(db)
	tagService := services.NewTagService(db)
	ingredientService := services.NewIngredientService(db)
	recipeService := services.NewRecipeService(db, store, cacheClient, time.Minute)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	tagHandler := handlers.NewTagHandler(tagService, auditService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService, auditService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, auditService)
	adminHandler := handlers.NewAdminHandler(userService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	tags := protected.Group("/tags")
	tags.POST("", tagHandler.CreateTag)
	tags.GET("", tagHandler.GetUserTags)
	tags.GET("/:id", tagHandler.GetTagByID)
	tags.PUT("/:id", tagHandler.UpdateTag)
	tags.DELETE("/:id", tagHandler.DeleteTag)

	ingredients := protected.Group("/ingredients")
	ingredients.POST("", ingredientHandler.CreateIngredient)
	ingredients.GET("", ingredientHandler.GetUserIngredients)
	ingredients.GET("/:id", ingredientHandler.GetIngredientByID)
	ingredients.PUT("/:id", ingredientHandler.UpdateIngredient)
	ingredients.DELETE("/:id", ingredientHandler.DeleteIngredient)

	recipes := protected.Group("/recipes")
	recipes.POST("", recipeHandler.CreateRecipe)
	recipes.GET("", recipeHandler.GetUserRecipes)
	recipes.GET("/:id", recipeHandler.GetRecipeByID)
	recipes.PATCH("/:id", recipeHandler.UpdateRecipe)
	recipes.PUT("/:id", recipeHandler.ReplaceRecipe)
	recipes.DELETE("/:id", recipeHandler.DeleteRecipe)
	recipes.POST("/:id/upload-image", recipeHandler.UploadImage)

	admin := protected.Group("/admin")
	admin.Use(middleware.StaffOnly())
	admin.GET("/users", adminHandler.ListUsers)

	return &testApp{DB: db, Router: router, MediaRoot: mediaRoot}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// multipartRequest posts a single file as multipart form data.
func (app *testApp) multipartRequest(t *testing.T, path, field, filename string, payload []byte, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createTag creates a tag for the authenticated user and returns its ID.
func (app *testApp) createTag(t *testing.T, token, name string) float64 {
	t.Helper()
	rec := app.request("POST", "/api/v1/tags", fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tag failed: %d %s", rec.Code, rec.Body.String())
	}
	tag := parseJSON(t, rec)["tag"].(map[string]interface{})
	return tag["id"].(float64)
}

// createIngredient creates an ingredient for the authenticated user and returns its ID.
func (app *testApp) createIngredient(t *testing.T, token, name string) float64 {
	t.Helper()
	rec := app.request("POST", "/api/v1/ingredients", fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create ingredient failed: %d %s", rec.Code, rec.Body.String())
	}
	ingredient := parseJSON(t, rec)["ingredient"].(map[string]interface{})
	return ingredient["id"].(float64)
}

// createRecipe creates a recipe from a raw JSON payload and returns its ID.
func (app *testApp) createRecipe(t *testing.T, token, body string) float64 {
	t.Helper()
	rec := app.request("POST", "/api/v1/recipes", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create recipe failed: %d %s", rec.Code, rec.Body.String())
	}
	recipe := parseJSON(t, rec)["recipe"].(map[string]interface{})
	return recipe["id"].(float64)
}
