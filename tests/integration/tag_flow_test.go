package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestTagFlow_CreateListUpdateDelete(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "tags@test.com", "password123")

	// Create two tags
	veganID := app.createTag(t, access, "Vegan")
	app.createTag(t, access, "Dessert")

	// List: ordered by name descending
	rec := app.request("GET", "/api/v1/tags", "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	data := result["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(data))
	}
	first := data[0].(map[string]interface{})
	second := data[1].(map[string]interface{})
	if first["name"] != "Vegan" || second["name"] != "Dessert" {
		t.Errorf("expected name-descending order [Vegan Dessert], got [%v %v]", first["name"], second["name"])
	}

	// Update
	rec = app.request("PUT", fmt.Sprintf("/api/v1/tags/%.0f", veganID), `{"name":"Plant Based"}`, access)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
	}
	tag := parseJSON(t, rec)["tag"].(map[string]interface{})
	if tag["name"] != "Plant Based" {
		t.Errorf("expected renamed tag, got %v", tag["name"])
	}

	// Delete
	rec = app.request("DELETE", fmt.Sprintf("/api/v1/tags/%.0f", veganID), "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", fmt.Sprintf("/api/v1/tags/%.0f", veganID), "", access)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestTagFlow_OwnershipIsolation(t *testing.T) {
	app := setupApp(t)
	aliceToken, _, _ := app.registerUser(t, "alice@test.com", "password123")
	bobToken, _, _ := app.registerUser(t, "bob@test.com", "password123")

	tagID := app.createTag(t, aliceToken, "Private")

	// Bob cannot see Alice's tag in his list
	rec := app.request("GET", "/api/v1/tags", "", bobToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if total := parseJSON(t, rec)["total_items"].(float64); total != 0 {
		t.Errorf("expected empty list for other user, got %v items", total)
	}

	// Direct access, update, and delete all come back 404
	path := fmt.Sprintf("/api/v1/tags/%.0f", tagID)
	for _, tc := range []struct{ method, body string }{
		{"GET", ""},
		{"PUT", `{"name":"Stolen"}`},
		{"DELETE", ""},
	} {
		rec := app.request(tc.method, path, tc.body, bobToken)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404 for foreign tag, got %d", tc.method, rec.Code)
		}
	}
}

func TestTagFlow_AssignedOnlyFilter(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "assigned@test.com", "password123")

	usedID := app.createTag(t, access, "Used")
	app.createTag(t, access, "Unused")

	// Two recipes share the same tag; the filter still returns it once.
	app.createRecipe(t, access, fmt.Sprintf(
		`{"title":"Soup","time_minutes":15,"price":"4.00","tags":[%.0f]}`, usedID))
	app.createRecipe(t, access, fmt.Sprintf(
		`{"title":"Stew","time_minutes":45,"price":"7.50","tags":[%.0f]}`, usedID))

	rec := app.request("GET", "/api/v1/tags?assigned_only=true", "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	data := result["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected exactly 1 assigned tag, got %d", len(data))
	}
	if tag := data[0].(map[string]interface{}); tag["name"] != "Used" {
		t.Errorf("expected Used, got %v", tag["name"])
	}
	if total := result["total_items"].(float64); total != 1 {
		t.Errorf("expected total_items 1, got %v", total)
	}
}

func TestTagFlow_InvalidAssignedOnlyValue(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "badflag@test.com", "password123")

	rec := app.request("GET", "/api/v1/tags?assigned_only=maybe", "", access)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
