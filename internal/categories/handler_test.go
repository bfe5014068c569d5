package categories_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/store-mgmt/store-api/internal/categories"
	"github.com/store-mgmt/store-api/internal/rbac"
	_ "github.com/store-mgmt/store-api/testing"
)

type roleKey struct{}

type role string

func (r role) RoleName() string { return string(r) }

func newRouter(t *testing.T) (http.Handler, *categories.Service) {
	t.Helper()
	svc := categories.NewService(categories.NewMemoryRepository(), nil, nil)
	mw := rbac.Middleware{
		Gate: rbac.NewGate(nil),
		Principal: func(ctx context.Context) rbac.Principal {
			p, _ := ctx.Value(roleKey{}).(rbac.Principal)
			return p
		},
	}
	r := chi.NewRouter()
	r.Route("/categories", categories.NewHandler(nil, svc, mw).MountRoutes)
	return r, svc
}

func call(t *testing.T, h http.Handler, as, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if as != "" {
		req = req.WithContext(context.WithValue(req.Context(), roleKey{}, role(as)))
	}
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func TestHandlerRoutePermissions(t *testing.T) {
	h, svc := newRouter(t)
	existing, err := svc.Create(context.Background(), "Seed", "")
	require.NoError(t, err)

	cases := []struct {
		name   string
		role   string
		method string
		path   string
		body   any
		status int
	}{
		{"employee list", rbac.RoleEmployee, http.MethodGet, "/categories/", nil, http.StatusOK},
		{"employee show", rbac.RoleEmployee, http.MethodGet, "/categories/" + existing.ID, nil, http.StatusOK},
		{"employee create", rbac.RoleEmployee, http.MethodPost, "/categories/", map[string]string{"name": "Toys"}, http.StatusCreated},
		{"employee update", rbac.RoleEmployee, http.MethodPut, "/categories/" + existing.ID, map[string]string{"note": "x"}, http.StatusForbidden},
		{"manager update", rbac.RoleManager, http.MethodPut, "/categories/" + existing.ID, map[string]string{"note": "x"}, http.StatusOK},
		{"manager delete", rbac.RoleManager, http.MethodDelete, "/categories/" + existing.ID, nil, http.StatusForbidden},
		{"admin delete", rbac.RoleAdmin, http.MethodDelete, "/categories/" + existing.ID, nil, http.StatusNoContent},
		{"admin delete again", rbac.RoleAdmin, http.MethodDelete, "/categories/" + existing.ID, nil, http.StatusNotFound},
		{"anonymous list", "", http.MethodGet, "/categories/", nil, http.StatusForbidden},
		{"unknown role list", "ghost", http.MethodGet, "/categories/", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		res := call(t, h, tc.role, tc.method, tc.path, tc.body)
		assert.Equal(t, tc.status, res.Code, tc.name)
		if tc.status == http.StatusForbidden {
			var body map[string]string
			require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
			assert.Equal(t, rbac.MsgAccessDenied, body["error"], tc.name)
		}
	}
}

func TestHandlerListAndValidation(t *testing.T) {
	h, svc := newRouter(t)
	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		_, err := svc.Create(context.Background(), name, "")
		require.NoError(t, err)
	}

	res := call(t, h, rbac.RoleEmployee, http.MethodGet, "/categories/?search=a$&offset=0&limit=2", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var page categories.Page
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Limit)

	assert.Equal(t, http.StatusBadRequest, call(t, h, rbac.RoleEmployee, http.MethodGet, "/categories/?limit=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, call(t, h, rbac.RoleEmployee, http.MethodGet, "/categories/?offset=-1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, call(t, h, rbac.RoleEmployee, http.MethodGet, "/categories/not-an-id", nil).Code)
	assert.Equal(t, http.StatusBadRequest, call(t, h, rbac.RoleAdmin, http.MethodPost, "/categories/", map[string]string{"note": "no name"}).Code)
	assert.Equal(t, http.StatusConflict, call(t, h, rbac.RoleAdmin, http.MethodPost, "/categories/", map[string]string{"name": "Alpha"}).Code)
}
