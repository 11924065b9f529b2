package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"savora/internal/models"
	"savora/internal/pagination"
)

func setupAdminRouter(handler *AdminHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/admin/users", handler.ListUsers)
	return r
}

func TestAdminHandler_ListUsers(t *testing.T) {
	t.Run("returns paginated users", func(t *testing.T) {
		userSvc := &mockUserService{
			listUsersFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
				page.Defaults()
				resp := pagination.NewPageResponse([]models.User{
					{Base: models.Base{ID: 1}, Email: "a@test.com"},
					{Base: models.Base{ID: 2}, Email: "b@test.com"},
				}, page.Page, page.PageSize, 2)
				return &resp, nil
			},
		}
		handler := NewAdminHandler(userSvc)
		r := setupAdminRouter(handler)

		rec := doRequest(r, "GET", "/admin/users", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_items"].(float64) != 2 {
			t.Errorf("expected total_items 2, got %v", result["total_items"])
		}
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Fatalf("expected 2 users, got %d", len(data))
		}
	})

	t.Run("passes pagination parameters", func(t *testing.T) {
		var gotPage pagination.PageRequest
		userSvc := &mockUserService{
			listUsersFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
				gotPage = page
				resp := pagination.NewPageResponse([]models.User{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		handler := NewAdminHandler(userSvc)
		r := setupAdminRouter(handler)

		rec := doRequest(r, "GET", "/admin/users?page=3&page_size=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotPage.Page != 3 || gotPage.PageSize != 5 {
			t.Errorf("expected page 3 size 5, got %+v", gotPage)
		}
	})

	t.Run("returns 400 on invalid page size", func(t *testing.T) {
		handler := NewAdminHandler(&mockUserService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "GET", "/admin/users?page_size=9999", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
