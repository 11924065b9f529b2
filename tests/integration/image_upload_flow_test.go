package integration

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngPayload(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestImageUploadFlow_UploadAndReplace(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "upload@test.com", "password123")

	recipeID := app.createRecipe(t, access, `{"title":"Photogenic","time_minutes":10,"price":"3.00"}`)
	path := fmt.Sprintf("/api/v1/recipes/%.0f/upload-image", recipeID)

	// Upload
	rec := app.multipartRequest(t, path, "image", "photo.png", pngPayload(t), access)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload failed: %d %s", rec.Code, rec.Body.String())
	}
	recipe := parseJSON(t, rec)["recipe"].(map[string]interface{})
	imagePath := recipe["image"].(string)
	if !strings.HasPrefix(imagePath, "uploads/recipe/") || !strings.HasSuffix(imagePath, ".png") {
		t.Fatalf("unexpected image path %q", imagePath)
	}
	if _, err := os.Stat(filepath.Join(app.MediaRoot, imagePath)); err != nil {
		t.Fatalf("expected image file on disk: %v", err)
	}

	// Replace: a fresh path is generated and the old file is removed
	rec = app.multipartRequest(t, path, "image", "better.png", pngPayload(t), access)
	if rec.Code != http.StatusOK {
		t.Fatalf("replace failed: %d %s", rec.Code, rec.Body.String())
	}
	recipe = parseJSON(t, rec)["recipe"].(map[string]interface{})
	newPath := recipe["image"].(string)
	if newPath == imagePath {
		t.Error("expected a fresh image path on replace")
	}
	if _, err := os.Stat(filepath.Join(app.MediaRoot, newPath)); err != nil {
		t.Fatalf("expected new image file on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(app.MediaRoot, imagePath)); !os.IsNotExist(err) {
		t.Error("expected old image file to be removed")
	}
}

func TestImageUploadFlow_MissingFile(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "nofile@test.com", "password123")

	recipeID := app.createRecipe(t, access, `{"title":"Bare","time_minutes":10,"price":"3.00"}`)

	rec := app.request("POST", fmt.Sprintf("/api/v1/recipes/%.0f/upload-image", recipeID), "", access)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "MISSING_IMAGE" {
		t.Errorf("expected MISSING_IMAGE, got %v", errObj["code"])
	}
}

func TestImageUploadFlow_RejectsNonImage(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "notimage@test.com", "password123")

	recipeID := app.createRecipe(t, access, `{"title":"Fussy","time_minutes":10,"price":"3.00"}`)
	path := fmt.Sprintf("/api/v1/recipes/%.0f/upload-image", recipeID)

	rec := app.multipartRequest(t, path, "image", "notes.txt", []byte("just some text"), access)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "INVALID_IMAGE" {
		t.Errorf("expected INVALID_IMAGE, got %v", errObj["code"])
	}

	// The recipe keeps no image path
	rec = app.request("GET", fmt.Sprintf("/api/v1/recipes/%.0f", recipeID), "", access)
	recipe := parseJSON(t, rec)["recipe"].(map[string]interface{})
	if img, ok := recipe["image"]; ok && img != "" {
		t.Errorf("expected no image path, got %v", img)
	}
}

func TestImageUploadFlow_ForeignRecipe(t *testing.T) {
	app := setupApp(t)
	aliceToken, _, _ := app.registerUser(t, "imgalice@test.com", "password123")
	bobToken, _, _ := app.registerUser(t, "imgbob@test.com", "password123")

	recipeID := app.createRecipe(t, aliceToken, `{"title":"Hers","time_minutes":10,"price":"3.00"}`)
	path := fmt.Sprintf("/api/v1/recipes/%.0f/upload-image", recipeID)

	rec := app.multipartRequest(t, path, "image", "photo.png", pngPayload(t), bobToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign recipe, got %d: %s", rec.Code, rec.Body.String())
	}
}
