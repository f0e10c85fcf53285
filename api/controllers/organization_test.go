package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOrganizationAutoAssignRequiresPausedField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/organization/auto-assign", bytes.NewReader([]byte(`{}`)))
	resp := httptest.NewRecorder()

	OrganizationAutoAssign(nil, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
