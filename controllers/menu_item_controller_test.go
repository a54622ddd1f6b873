package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"menu-app/controllers/idgen"
	"menu-app/itemtypes"
	"menu-app/models"
)

func TestMain(m *testing.M) {
	idgen.Init()
	os.Exit(m.Run())
}

// setupTestApp wires the handlers without the auth middleware; the audit
// actor simply defaults to 0.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Menu{}, &models.MenuItem{}, &models.MenuChangeLog{}))

	registry := itemtypes.Default()
	log := zap.NewNop()
	menuController := NewMenuController(db, log, registry)
	itemController := NewMenuItemController(db, log, registry)

	app := fiber.New()
	app.Get("/api/v1/menus", menuController.GetMenus)
	app.Post("/api/v1/menus/copy", menuController.CopyMenuItemsToMenu)
	app.Get("/api/v1/menus/:id/items", menuController.GetMenuItems)
	app.Post("/api/v1/menus/:id/items/reorder", menuController.ReorderMenuItems)
	app.Get("/api/v1/menus/:id/item-types", menuController.GetMenuItemTypes)
	app.Post("/api/v1/items", itemController.CreateMenuItem)
	app.Get("/api/v1/items/:id", itemController.GetMenuItem)
	app.Put("/api/v1/items/:id", itemController.UpdateMenuItem)
	app.Delete("/api/v1/items/:id", itemController.DeleteMenuItem)
	app.Post("/api/v1/items/:id/duplicate", itemController.DuplicateMenuItem)

	return app, db
}

func jsonRequest(t *testing.T, app *fiber.App, method, target string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func createTestMenu(t *testing.T, db *gorm.DB, name, slug string) *models.Menu {
	t.Helper()
	menu := &models.Menu{Name: name, Slug: slug}
	require.NoError(t, db.Create(menu).Error)
	return menu
}

func TestCreateAndFetchMenuItem(t *testing.T) {
	app, db := setupTestApp(t)
	menu := createTestMenu(t, db, "Main menu", "main")

	resp, body := jsonRequest(t, app, fiber.MethodPost, "/api/v1/items", fiber.Map{
		"menu_id": menu.ID,
		"locale":  "en_US",
		"name":    "Home",
		"fields":  fiber.Map{"url": "/"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, true, body["success"])

	id := body["data"].(map[string]interface{})["id"].(string)
	require.NotEmpty(t, id)

	resp, body = jsonRequest(t, app, fiber.MethodGet, "/api/v1/items/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Home", data["name"])
	assert.Equal(t, "link", data["type"], "the menu's default type is filled in")
	assert.Equal(t, float64(1), data["order"])
}

func TestCreateMenuItemValidation(t *testing.T) {
	app, db := setupTestApp(t)
	menu := createTestMenu(t, db, "Main menu", "main")

	resp, body := jsonRequest(t, app, fiber.MethodPost, "/api/v1/items", fiber.Map{
		"menu_id": menu.ID,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, body = jsonRequest(t, app, fiber.MethodPost, "/api/v1/items", fiber.Map{
		"menu_id": 999,
		"locale":  "en_US",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "menu_not_found", body["error"])
}

func TestGetMenuItemsErrorCodes(t *testing.T) {
	app, db := setupTestApp(t)
	menu := createTestMenu(t, db, "Main menu", "main")

	resp, body := jsonRequest(t, app, fiber.MethodGet, "/api/v1/menus/999/items?locale=en_US", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "menu_not_found", body["error"])

	resp, body = jsonRequest(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/menus/%d/items", menu.ID), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "locale_required", body["error"])
}

func TestDuplicateEndpointShiftsSiblings(t *testing.T) {
	app, db := setupTestApp(t)
	menu := createTestMenu(t, db, "Main menu", "main")

	var ids []string
	for _, name := range []string{"A", "B"} {
		_, body := jsonRequest(t, app, fiber.MethodPost, "/api/v1/items", fiber.Map{
			"menu_id": menu.ID, "locale": "en_US", "name": name,
		})
		ids = append(ids, body["data"].(map[string]interface{})["id"].(string))
	}

	resp, body := jsonRequest(t, app, fiber.MethodPost, "/api/v1/items/"+ids[0]+"/duplicate", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])

	_, body = jsonRequest(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/menus/%d/items?locale=en_US", menu.ID), nil)
	roots := body["data"].([]interface{})
	require.Len(t, roots, 3)
	assert.Equal(t, "A", roots[0].(map[string]interface{})["name"])
	assert.Equal(t, "", roots[1].(map[string]interface{})["name"], "the copy waits for a name")
	assert.Equal(t, "B", roots[2].(map[string]interface{})["name"])
}

func TestDeleteEndpointCascades(t *testing.T) {
	app, db := setupTestApp(t)
	menu := createTestMenu(t, db, "Main menu", "main")

	_, body := jsonRequest(t, app, fiber.MethodPost, "/api/v1/items", fiber.Map{
		"menu_id": menu.ID, "locale": "en_US", "name": "A",
	})
	parentID := body["data"].(map[string]interface{})["id"].(string)

	_, _ = jsonRequest(t, app, fiber.MethodPost, "/api/v1/items", fiber.Map{
		"menu_id": menu.ID, "locale": "en_US", "name": "A1", "parent_id": parentID,
	})

	resp, body := jsonRequest(t, app, fiber.MethodDelete, "/api/v1/items/"+parentID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["data"].(map[string]interface{})["deleted_descendants"])

	resp, body = jsonRequest(t, app, fiber.MethodDelete, "/api/v1/items/"+parentID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "item_not_found", body["error"])
}

func TestReorderEndpoint(t *testing.T) {
	app, db := setupTestApp(t)
	menu := createTestMenu(t, db, "Main menu", "main")

	var ids []string
	for _, name := range []string{"A", "B"} {
		_, body := jsonRequest(t, app, fiber.MethodPost, "/api/v1/items", fiber.Map{
			"menu_id": menu.ID, "locale": "en_US", "name": name,
		})
		ids = append(ids, body["data"].(map[string]interface{})["id"].(string))
	}

	target := fmt.Sprintf("/api/v1/menus/%d/items/reorder?locale=en_US", menu.ID)
	resp, body := jsonRequest(t, app, fiber.MethodPost, target, fiber.Map{
		"menuItems": []fiber.Map{{"id": ids[1]}, {"id": ids[0]}},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])

	_, body = jsonRequest(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/menus/%d/items?locale=en_US", menu.ID), nil)
	roots := body["data"].([]interface{})
	require.Len(t, roots, 2)
	assert.Equal(t, "B", roots[0].(map[string]interface{})["name"])
	assert.Equal(t, "A", roots[1].(map[string]interface{})["name"])
}

func TestCopyEndpointValidation(t *testing.T) {
	app, db := setupTestApp(t)
	menu := createTestMenu(t, db, "Main menu", "main")

	resp, body := jsonRequest(t, app, fiber.MethodPost, "/api/v1/menus/copy", fiber.Map{
		"fromMenuId": menu.ID, "toMenuId": 999,
		"fromLocale": "en_US", "toLocale": "en_US",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "menu_not_found", body["error"])
}

func TestGetMenuItemTypes(t *testing.T) {
	app, db := setupTestApp(t)
	menu := createTestMenu(t, db, "Main menu", "main")

	resp, body := jsonRequest(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/menus/%d/item-types?locale=en_US", menu.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	typesList := body["data"].([]interface{})
	require.Len(t, typesList, 2)
	link := typesList[0].(map[string]interface{})
	assert.Equal(t, "link", link["type"])
	assert.Equal(t, true, link["default"])
	assert.NotEmpty(t, link["options"])
}
