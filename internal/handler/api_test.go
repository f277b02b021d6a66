package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ubt-tracker/internal/middleware"
	"ubt-tracker/internal/model"
	"ubt-tracker/internal/repository/repotest"
	"ubt-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	app         *fiber.App
	userRepo    *repotest.FakeUserRepo
	partnerRepo *repotest.FakePartnerRepo
	productRepo *repotest.FakeProductRepo
	scanLogRepo *repotest.FakeScanLogRepo
}

// newTestEnv wires the full route table against in-memory fakes, mirroring
// cmd/api/main.go.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	productRepo := repotest.NewFakeProductRepo()
	partnerRepo := repotest.NewFakePartnerRepo(productRepo)
	userRepo := repotest.NewFakeUserRepo()
	scanLogRepo := repotest.NewFakeScanLogRepo()

	for _, seed := range []struct {
		username, password, role string
	}{
		{"admin", "admin123", model.RoleAdmin},
		{"operator", "operator123", model.RoleOperator},
	} {
		user := &model.User{Username: seed.username, Role: seed.role, Active: true}
		require.NoError(t, user.SetPassword(seed.password))
		require.NoError(t, userRepo.Create(user))
	}

	authHandler := NewAuthHandler(service.NewAuthService(userRepo))
	partnerHandler := NewPartnerHandler(service.NewPartnerService(partnerRepo, productRepo))
	productHandler := NewProductHandler(service.NewProductService(productRepo, partnerRepo, nil))
	scanHandler := NewScanHandler(service.NewScanService(productRepo, partnerRepo, scanLogRepo, nil))
	dashHandler := NewDashboardHandler(service.NewDashboardService(partnerRepo, productRepo, scanLogRepo))

	app := fiber.New()
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify", authHandler.Verify)

	protected := api.Group("", middleware.RequireAuth())
	protected.Get("/provinces", GetProvinces)
	protected.Get("/dashboard/stats", dashHandler.GetStats)
	protected.Get("/dashboard/recent-scans", dashHandler.GetRecentScans)
	protected.Get("/products/scan/:qrCode", scanHandler.Resolve)
	protected.Post("/products/scan/:qrCode", scanHandler.Scan)
	protected.Patch("/products/:id", productHandler.UpdateCondition)
	protected.Get("/products", middleware.RequireAdmin(), productHandler.GetProducts)
	protected.Post("/products", middleware.RequireAdmin(), productHandler.CreateBatch)
	protected.Get("/products/export", middleware.RequireAdmin(), productHandler.Export)
	protected.Get("/products/:id/qrcode", middleware.RequireAdmin(), productHandler.QRCodeImage)

	partners := protected.Group("/partners", middleware.RequireAdmin())
	partners.Get("/", partnerHandler.GetPartners)
	partners.Post("/", partnerHandler.CreatePartner)
	partners.Get("/:id", partnerHandler.GetPartner)
	partners.Put("/:id", partnerHandler.UpdatePartner)
	partners.Delete("/:id", partnerHandler.DeletePartner)

	return &testEnv{
		app:         app,
		userRepo:    userRepo,
		partnerRepo: partnerRepo,
		productRepo: productRepo,
		scanLogRepo: scanLogRepo,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (*http.Response, *envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if json.Valid(raw) {
		_ = json.Unmarshal(raw, &env)
	}
	return resp, &env
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp, env := e.request(t, fiber.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (e *testEnv) createPartner(t *testing.T, token, name, province string) model.Partner {
	t.Helper()
	resp, env := e.request(t, fiber.MethodPost, "/api/v1/partners/", token, fiber.Map{
		"name":           name,
		"address":        "Jl. Kesehatan No. 1",
		"province":       province,
		"phone":          "+62-21-5550001",
		"email":          "contact@example.com",
		"contact_person": "dr. Siti",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var partner model.Partner
	require.NoError(t, json.Unmarshal(env.Data, &partner))
	return partner
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, fiber.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Message)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, fiber.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, body.Success)
}

func TestOperatorForbiddenFromBatchCreation(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "admin123")
	operatorToken := env.login(t, "operator", "operator123")

	partner := env.createPartner(t, adminToken, "RS A", "DKI Jakarta")

	batch := fiber.Map{
		"partner_id":         partner.ID,
		"batch_number":       "BATCH-001",
		"manufacturing_date": "2024-01-01",
		"expiry_date":        "2025-01-01",
		"quantity":           1,
	}

	resp, body := env.request(t, fiber.MethodPost, "/api/v1/products", operatorToken, batch)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, body.Success)

	resp, _ = env.request(t, fiber.MethodPost, "/api/v1/products", adminToken, batch)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestBatchQuantityValidation(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "admin123")
	partner := env.createPartner(t, adminToken, "RS A", "DKI Jakarta")

	for _, quantity := range []int{0, -1, 101} {
		resp, body := env.request(t, fiber.MethodPost, "/api/v1/products", adminToken, fiber.Map{
			"partner_id":         partner.ID,
			"batch_number":       "BATCH-001",
			"manufacturing_date": "2024-01-01",
			"expiry_date":        "2025-01-01",
			"quantity":           quantity,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "quantity %d", quantity)
		assert.False(t, body.Success)
	}

	count, _ := env.productRepo.Count()
	assert.Zero(t, count)
}

func TestBatchDuplicateQRCodeIs409(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "admin123")
	partner := env.createPartner(t, adminToken, "RS A", "DKI Jakarta")

	// unique-index violation after one successful insert
	env.productRepo.FailAfter = 1
	env.productRepo.CreateErr = gorm.ErrDuplicatedKey

	resp, body := env.request(t, fiber.MethodPost, "/api/v1/products", adminToken, fiber.Map{
		"partner_id":         partner.ID,
		"batch_number":       "BATCH-001",
		"manufacturing_date": "2024-01-01",
		"expiry_date":        "2025-01-01",
		"quantity":           3,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, body.Success)
	assert.Contains(t, body.Message, "1 of 3")

	var partial struct {
		Created int `json:"created"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &partial))
	assert.Equal(t, 1, partial.Created)
}

func TestScanUnknownCodeIs404(t *testing.T) {
	env := newTestEnv(t)
	operatorToken := env.login(t, "operator", "operator123")

	resp, body := env.request(t, fiber.MethodPost, "/api/v1/products/scan/UBT-2024-DEADBEEF-000", operatorToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, body.Success)
	assert.Contains(t, body.Message, "not found")
}

// Full field scenario: register partner, generate a batch, scan one unit.
func TestEndToEndScanScenario(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "admin123")
	operatorToken := env.login(t, "operator", "operator123")

	partner := env.createPartner(t, adminToken, "RS A", "DKI Jakarta")

	resp, body := env.request(t, fiber.MethodPost, "/api/v1/products", adminToken, fiber.Map{
		"partner_id":         partner.ID,
		"batch_number":       "BATCH-001",
		"manufacturing_date": "2024-01-01",
		"expiry_date":        "2025-01-01",
		"quantity":           3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var batch struct {
		Requested int             `json:"requested"`
		Created   int             `json:"created"`
		Products  []model.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &batch))
	require.Equal(t, 3, batch.Created)
	for _, p := range batch.Products {
		assert.Equal(t, model.StatusActive, p.Status)
		assert.Equal(t, model.ConditionTerkirim, p.Condition)
	}

	// operator scans the first unit
	resp, body = env.request(t, fiber.MethodPost, "/api/v1/products/scan/"+batch.Products[0].QRCode, operatorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view struct {
		model.Product
		Partner *model.PartnerRef `json:"partner"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, model.StatusScanned, view.Status)
	require.NotNil(t, view.Partner)
	assert.Equal(t, "RS A", view.Partner.Name)
	assert.Equal(t, "DKI Jakarta", view.Partner.Province)

	// the other two units stay active
	for _, p := range batch.Products[1:] {
		stored, err := env.productRepo.FindByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusActive, stored.Status)
	}
}

func TestConditionUpdateViaAPI(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "admin123")
	operatorToken := env.login(t, "operator", "operator123")

	partner := env.createPartner(t, adminToken, "RS A", "DKI Jakarta")
	_, body := env.request(t, fiber.MethodPost, "/api/v1/products", adminToken, fiber.Map{
		"partner_id":         partner.ID,
		"batch_number":       "BATCH-001",
		"manufacturing_date": "2024-01-01",
		"expiry_date":        "2025-01-01",
		"quantity":           1,
	})
	var batch struct {
		Products []model.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &batch))
	unit := batch.Products[0]

	// operators may update condition
	resp, body := env.request(t, fiber.MethodPatch, fmt.Sprintf("/api/v1/products/%s", unit.ID), operatorToken, fiber.Map{
		"condition": "rusak",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated model.Product
	require.NoError(t, json.Unmarshal(body.Data, &updated))
	assert.Equal(t, model.ConditionRusak, updated.Condition)

	// invalid values are rejected and leave the unit untouched
	resp, _ = env.request(t, fiber.MethodPatch, fmt.Sprintf("/api/v1/products/%s", unit.ID), operatorToken, fiber.Map{
		"condition": "unknown",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	stored, err := env.productRepo.FindByID(unit.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConditionRusak, stored.Condition)
}

func TestDeletePartnerCascadesOverAPI(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "admin123")

	partner := env.createPartner(t, adminToken, "RS A", "DKI Jakarta")
	_, _ = env.request(t, fiber.MethodPost, "/api/v1/products", adminToken, fiber.Map{
		"partner_id":         partner.ID,
		"batch_number":       "BATCH-001",
		"manufacturing_date": "2024-01-01",
		"expiry_date":        "2025-01-01",
		"quantity":           5,
	})

	resp, _ := env.request(t, fiber.MethodDelete, "/api/v1/partners/"+partner.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	count, _ := env.productRepo.Count()
	assert.Zero(t, count, "cascade delete must remove all partner units")
}

func TestQRCodeImageEndpoint(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "admin123")

	partner := env.createPartner(t, adminToken, "RS A", "DKI Jakarta")
	_, body := env.request(t, fiber.MethodPost, "/api/v1/products", adminToken, fiber.Map{
		"partner_id":         partner.ID,
		"batch_number":       "BATCH-001",
		"manufacturing_date": "2024-01-01",
		"expiry_date":        "2025-01-01",
		"quantity":           1,
	})
	var batch struct {
		Products []model.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &batch))

	req := httptest.NewRequest(fiber.MethodGet, fmt.Sprintf("/api/v1/products/%s/qrcode", batch.Products[0].ID), nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestExportEndpoint(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "admin123")
	operatorToken := env.login(t, "operator", "operator123")

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/products/export", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "units.xlsx")

	// operators may not export the manifest
	req = httptest.NewRequest(fiber.MethodGet, "/api/v1/products/export", nil)
	req.Header.Set("Authorization", "Bearer "+operatorToken)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProvincesEndpoint(t *testing.T) {
	env := newTestEnv(t)
	operatorToken := env.login(t, "operator", "operator123")

	resp, body := env.request(t, fiber.MethodGet, "/api/v1/provinces", operatorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var provinces []string
	require.NoError(t, json.Unmarshal(body.Data, &provinces))
	assert.Contains(t, provinces, "DKI Jakarta")
	assert.Contains(t, provinces, "DI Yogyakarta")
}
