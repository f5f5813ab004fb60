package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/srkbolt25-collab/srkfence-backend/internal/api/http"
	"github.com/srkbolt25-collab/srkfence-backend/internal/api/http/handlers"
	"github.com/srkbolt25-collab/srkfence-backend/internal/auth"
	"github.com/srkbolt25-collab/srkfence-backend/internal/cache"
	"github.com/srkbolt25-collab/srkfence-backend/internal/config"
	"github.com/srkbolt25-collab/srkfence-backend/internal/domain"
	"github.com/srkbolt25-collab/srkfence-backend/internal/events"
	"github.com/srkbolt25-collab/srkfence-backend/internal/media"
	"github.com/srkbolt25-collab/srkfence-backend/internal/observability"
	"github.com/srkbolt25-collab/srkfence-backend/internal/persistence"
	"github.com/srkbolt25-collab/srkfence-backend/internal/repository"
	"github.com/srkbolt25-collab/srkfence-backend/internal/resource"
	"github.com/srkbolt25-collab/srkfence-backend/internal/service"
)

// ---------------------------------------------------------------------------
// in-memory fakes

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*domain.User)}
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeDocs struct {
	mu      sync.Mutex
	clock   time.Time
	records map[string][]*domain.Record
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		records: make(map[string][]*domain.Record),
	}
}

var _ repository.DocumentRepository = (*fakeDocs)(nil)

func (f *fakeDocs) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeDocs) Insert(_ context.Context, collection string, body map[string]any) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.tick()
	record := &domain.Record{
		ID:         uuid.NewString(),
		Collection: collection,
		Body:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.records[collection] = append(f.records[collection], record)
	return record, nil
}

func (f *fakeDocs) Update(_ context.Context, collection, id string, body map[string]any) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records[collection] {
		if record.ID == id {
			record.Body = body
			record.UpdatedAt = f.tick()
			return record, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDocs) Delete(_ context.Context, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteLocked(collection, id)
}

func (f *fakeDocs) deleteLocked(collection, id string) error {
	records := f.records[collection]
	for i, record := range records {
		if record.ID == id {
			f.records[collection] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeDocs) GetByID(_ context.Context, collection, id string) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records[collection] {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDocs) List(_ context.Context, collection string) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.records[collection]
	out := make([]domain.Record, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, *stored[i])
	}
	return out, nil
}

func (f *fakeDocs) DeleteGuarded(_ context.Context, collection, id string, ref repository.ReferenceCheck) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, record := range f.records[ref.Collection] {
		if val, _ := record.Body[ref.Field].(string); val == ref.Value {
			count++
		}
	}
	if count > 0 {
		return count, nil
	}
	return 0, f.deleteLocked(collection, id)
}

func (f *fakeDocs) size(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[collection])
}

// ---------------------------------------------------------------------------
// app harness

type testEnv struct {
	app   *fiber.App
	docs  *fakeDocs
	token string
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithMedia(t, config.MediaConfig{})
}

func newTestEnvWithMedia(t *testing.T, mediaCfg config.MediaConfig) *testEnv {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
		Admin: config.AdminConfig{
			Email:    "admin@srkfence.com",
			Password: "fence-pass",
			Name:     "Admin",
		},
	}

	logger := zap.NewNop()
	users := newFakeUsers()
	docs := newFakeDocs()

	authService := service.NewAuthService(cfg, users, logger)
	require.NoError(t, authService.EnsureAdmin(context.Background()))

	listCache := cache.NewListCache(nil, time.Minute, logger)
	dispatcher := events.NewInMemoryDispatcher(logger)
	resourceService := service.NewResourceService(docs, listCache, logger)
	enquiryService := service.NewEnquiryService(docs, dispatcher, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Resources:      handlers.NewResourcesHandler(resourceService, resource.Builtin()),
		Enquiries:      handlers.NewEnquiriesHandler(enquiryService),
		Uploads:        handlers.NewUploadsHandler(media.NewGateway(mediaCfg, logger), mediaCfg),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager(), users),
	})

	env := &testEnv{app: app, docs: docs}
	env.token = env.login(t, "admin@srkfence.com", "fence-pass")
	return env
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	body := decode(t, e.request(t, http.MethodPost, "/api/auth/login",
		map[string]any{"email": email, "password": password}, "", http.StatusOK))
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *testEnv) request(t *testing.T, method, path string, payload any, token string, wantStatus int) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "unexpected status for %s %s", method, path)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// ---------------------------------------------------------------------------
// auth

func TestLoginReturnsSanitizedUser(t *testing.T) {
	env := newTestEnv(t)

	body := decode(t, env.request(t, http.MethodPost, "/api/auth/login",
		map[string]any{"email": "admin@srkfence.com", "password": "fence-pass"}, "", http.StatusOK))

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin@srkfence.com", user["email"])
	assert.Equal(t, "admin", user["role"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "password")
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.request(t, http.MethodPost, "/api/auth/login",
		map[string]any{"email": "admin@srkfence.com", "password": "wrong"}, "", http.StatusUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	env.request(t, http.MethodPost, "/api/auth/login",
		map[string]any{"email": "nobody@srkfence.com", "password": "fence-pass"}, "", http.StatusUnauthorized)
}

// ---------------------------------------------------------------------------
// generic resources

func TestWriteWithoutTokenRejectedBeforeStore(t *testing.T) {
	env := newTestEnv(t)

	env.request(t, http.MethodPost, "/api/products",
		map[string]any{"title": "Fence"}, "", http.StatusUnauthorized)
	env.request(t, http.MethodPost, "/api/products",
		map[string]any{"title": "Fence"}, "tampered.token.value", http.StatusUnauthorized)

	assert.Equal(t, 0, env.docs.size("products"), "no mutation may reach the store")
}

func TestProductCreateGetRoundtrip(t *testing.T) {
	env := newTestEnv(t)

	created := decode(t, env.request(t, http.MethodPost, "/api/products", map[string]any{
		"title":    "Chain Link Fence",
		"category": "Commercial",
		"images":   []string{"a.jpg"},
	}, env.token, http.StatusCreated))

	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	require.NotEmpty(t, created["createdAt"])
	require.NotEmpty(t, created["updatedAt"])

	fetched := decode(t, env.request(t, http.MethodGet, "/api/products/"+id, nil, "", http.StatusOK))
	assert.Equal(t, "Chain Link Fence", fetched["title"])
	assert.Equal(t, "Commercial", fetched["category"])
	assert.Equal(t, []any{"a.jpg"}, fetched["images"])
	assert.Equal(t, "Published", fetched["status"])
}

func TestProductCreateInvalidBody(t *testing.T) {
	env := newTestEnv(t)

	body := decode(t, env.request(t, http.MethodPost, "/api/products",
		map[string]any{"description": "no title"}, env.token, http.StatusBadRequest))

	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "required", details["title"])
	assert.Equal(t, 0, env.docs.size("products"))
}

func TestPutUnknownIDReturns404(t *testing.T) {
	env := newTestEnv(t)

	env.request(t, http.MethodPut, "/api/products/00000000-0000-0000-0000-000000000000",
		map[string]any{"title": "Fence"}, env.token, http.StatusNotFound)
}

func TestListEnvelopeAndArrayBackfill(t *testing.T) {
	env := newTestEnv(t)

	// Stored record predating the images field, inserted behind the API.
	_, err := env.docs.Insert(context.Background(), "products",
		map[string]any{"title": "Legacy", "status": "Published"})
	require.NoError(t, err)

	body := decode(t, env.request(t, http.MethodGet, "/api/products", nil, "", http.StatusOK))
	items, ok := body["products"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)

	record := items[0].(map[string]any)
	assert.Equal(t, []any{}, record["images"], "array fields are never missing in list output")
	assert.Equal(t, []any{}, record["features"])
}

func TestListNewestFirstOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	env.request(t, http.MethodPost, "/api/projects",
		map[string]any{"title": "Old"}, env.token, http.StatusCreated)
	env.request(t, http.MethodPost, "/api/projects",
		map[string]any{"title": "New"}, env.token, http.StatusCreated)

	body := decode(t, env.request(t, http.MethodGet, "/api/projects", nil, "", http.StatusOK))
	items := body["projects"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "New", items[0].(map[string]any)["title"])
	assert.Equal(t, "Old", items[1].(map[string]any)["title"])
}

func TestUnknownResourceKind(t *testing.T) {
	env := newTestEnv(t)
	env.request(t, http.MethodGet, "/api/widgets", nil, "", http.StatusNotFound)
	env.request(t, http.MethodPost, "/api/widgets", map[string]any{"title": "x"}, env.token, http.StatusNotFound)
}

func TestDeleteResource(t *testing.T) {
	env := newTestEnv(t)

	created := decode(t, env.request(t, http.MethodPost, "/api/testimonials",
		map[string]any{"name": "Ben", "message": "Solid"}, env.token, http.StatusCreated))
	id := created["id"].(string)

	body := decode(t, env.request(t, http.MethodDelete, "/api/testimonials/"+id, nil, env.token, http.StatusOK))
	assert.Equal(t, true, body["success"])

	env.request(t, http.MethodDelete, "/api/testimonials/"+id, nil, env.token, http.StatusNotFound)
}

// ---------------------------------------------------------------------------
// category referential guard

func TestCategoryDeleteConflict(t *testing.T) {
	env := newTestEnv(t)

	cat := decode(t, env.request(t, http.MethodPost, "/api/categories",
		map[string]any{"name": "Residential"}, env.token, http.StatusCreated))
	catID := cat["id"].(string)

	env.request(t, http.MethodPost, "/api/products",
		map[string]any{"title": "Picket", "category": "Residential"}, env.token, http.StatusCreated)

	body := decode(t, env.request(t, http.MethodDelete, "/api/categories/"+catID, nil, env.token, http.StatusBadRequest))
	details := body["details"].(map[string]any)
	assert.Equal(t, float64(1), details["products"])
	assert.Equal(t, 1, env.docs.size("categories"))

	// Once the referencing product is gone the delete goes through.
	products := decode(t, env.request(t, http.MethodGet, "/api/products", nil, "", http.StatusOK))
	prodID := products["products"].([]any)[0].(map[string]any)["id"].(string)
	env.request(t, http.MethodDelete, "/api/products/"+prodID, nil, env.token, http.StatusOK)
	env.request(t, http.MethodDelete, "/api/categories/"+catID, nil, env.token, http.StatusOK)
	assert.Equal(t, 0, env.docs.size("categories"))
}

// ---------------------------------------------------------------------------
// enquiries

func TestEnquirySubmitPublic(t *testing.T) {
	env := newTestEnv(t)

	body := decode(t, env.request(t, http.MethodPost, "/api/enquiries", map[string]any{
		"name":  "Priya",
		"email": "priya@example.com",
		"items": []map[string]any{
			{"productId": "p1", "productTitle": "Fence A", "quantity": 2},
		},
	}, "", http.StatusCreated))

	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Pending", body["status"])
	assert.Equal(t, float64(2), body["totalItems"])
}

func TestEnquirySubmitRejectsBadItems(t *testing.T) {
	env := newTestEnv(t)

	env.request(t, http.MethodPost, "/api/enquiries", map[string]any{
		"name": "Priya", "email": "priya@example.com", "items": []map[string]any{},
	}, "", http.StatusBadRequest)

	env.request(t, http.MethodPost, "/api/enquiries", map[string]any{
		"name": "Priya", "email": "priya@example.com",
		"items": []map[string]any{{"productId": "p1", "productTitle": "Fence A", "quantity": 0}},
	}, "", http.StatusBadRequest)

	assert.Equal(t, 0, env.docs.size("enquiries"))
}

func TestEnquiryListRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	env.request(t, http.MethodGet, "/api/enquiries", nil, "", http.StatusUnauthorized)

	body := decode(t, env.request(t, http.MethodGet, "/api/enquiries", nil, env.token, http.StatusOK))
	_, ok := body["enquiries"].([]any)
	assert.True(t, ok)
}

func TestEnquiryStatusWorkflowOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	created := decode(t, env.request(t, http.MethodPost, "/api/enquiries", map[string]any{
		"name":  "Priya",
		"email": "priya@example.com",
		"items": []map[string]any{{"productId": "p1", "productTitle": "Fence A", "quantity": 1}},
	}, "", http.StatusCreated))
	id := created["id"].(string)

	updated := decode(t, env.request(t, http.MethodPut, "/api/enquiries/"+id+"/status",
		map[string]any{"status": "Quoted"}, env.token, http.StatusOK))
	assert.Equal(t, "Quoted", updated["status"])

	env.request(t, http.MethodPut, "/api/enquiries/"+id+"/status",
		map[string]any{"status": "Lost"}, env.token, http.StatusBadRequest)

	env.request(t, http.MethodPut, "/api/enquiries/"+id+"/status",
		map[string]any{"status": "Quoted"}, "", http.StatusUnauthorized)
}
