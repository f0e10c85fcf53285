package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/leadflow-backend/api/middleware"
	"github.com/angelmondragon/leadflow-backend/internal/leads"
	"github.com/angelmondragon/leadflow-backend/pkg/enums"
)

type stubLeadService struct {
	listInput   leads.ListLeadsInput
	listResult  *leads.ListLeadsResult
	getID       uuid.UUID
	lead        *leads.LeadDTO
	bulkIDs     []uuid.UUID
	assignee    string
	bulkResult  *leads.BulkActionResult
	exportBytes []byte
	exportName  string
	err         error
}

func (s *stubLeadService) List(ctx context.Context, actor leads.Actor, input leads.ListLeadsInput) (*leads.ListLeadsResult, error) {
	s.listInput = input
	return s.listResult, s.err
}

func (s *stubLeadService) Get(ctx context.Context, actor leads.Actor, id uuid.UUID) (*leads.LeadDTO, error) {
	s.getID = id
	return s.lead, s.err
}

func (s *stubLeadService) Create(ctx context.Context, actor leads.Actor, input leads.CreateLeadInput) (*leads.LeadDTO, error) {
	return s.lead, s.err
}

func (s *stubLeadService) Update(ctx context.Context, actor leads.Actor, id uuid.UUID, input leads.UpdateLeadInput) (*leads.LeadDTO, error) {
	s.getID = id
	return s.lead, s.err
}

func (s *stubLeadService) Delete(ctx context.Context, actor leads.Actor, id uuid.UUID) error {
	s.getID = id
	return s.err
}

func (s *stubLeadService) MarkContactedBulk(ctx context.Context, actor leads.Actor, ids []uuid.UUID) (*leads.BulkActionResult, error) {
	s.bulkIDs = ids
	return s.bulkResult, s.err
}

func (s *stubLeadService) AssignBulk(ctx context.Context, actor leads.Actor, ids []uuid.UUID, assignee string) (*leads.BulkActionResult, error) {
	s.bulkIDs = ids
	s.assignee = assignee
	return s.bulkResult, s.err
}

func (s *stubLeadService) UnassignBulk(ctx context.Context, actor leads.Actor, ids []uuid.UUID) (*leads.BulkActionResult, error) {
	s.bulkIDs = ids
	return s.bulkResult, s.err
}

func (s *stubLeadService) DeleteBulk(ctx context.Context, actor leads.Actor, ids []uuid.UUID) (*leads.BulkActionResult, error) {
	s.bulkIDs = ids
	return s.bulkResult, s.err
}

func (s *stubLeadService) Export(ctx context.Context, actor leads.Actor, input leads.ListLeadsInput) ([]byte, string, error) {
	s.listInput = input
	return s.exportBytes, s.exportName, s.err
}

func authedContext(ctx context.Context) context.Context {
	ctx = middleware.WithUserEmail(ctx, "agent@example.com")
	ctx = middleware.WithRole(ctx, string(enums.SystemRoleAgent))
	return middleware.WithCapabilities(ctx, []string{string(enums.CapabilityUpdateLeads)})
}

func TestLeadsListParsesQuerySurface(t *testing.T) {
	svc := &stubLeadService{listResult: &leads.ListLeadsResult{Page: 2, PageSize: 50}}
	handler := LeadsList(svc, nil)

	url := "/api/v1/leads?q=garcia&stage=qualified&source=facebook&assignment=my_leads" +
		"&date_filter=custom&date_from=2026-01-01&date_to=2026-01-31" +
		"&stages=new,qualified&sources=website&assigned=a@x.com&assigned=b@x.com" +
		"&sort_by=name&sort_dir=asc&page=2&page_size=50"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req = req.WithContext(authedContext(req.Context()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	in := svc.listInput
	if in.Filter.Query != "garcia" || in.Filter.Status != "qualified" || in.Filter.Source != "facebook" {
		t.Fatalf("unexpected scalar filters: %+v", in.Filter)
	}
	if in.Filter.Assignment != enums.AssignmentModeMyLeads {
		t.Fatalf("expected my_leads assignment, got %s", in.Filter.Assignment)
	}
	if in.Filter.DateFilter != enums.DateRangeCustom || in.Filter.DateFrom == nil || in.Filter.DateTo == nil {
		t.Fatalf("expected custom date range with bounds: %+v", in.Filter)
	}
	if len(in.Filter.Stages) != 2 || in.Filter.Stages[1] != "qualified" {
		t.Fatalf("unexpected stages %v", in.Filter.Stages)
	}
	if len(in.Filter.AssignedTo) != 2 {
		t.Fatalf("expected repeated assigned params collected, got %v", in.Filter.AssignedTo)
	}
	if in.SortBy != leads.SortByName || in.SortDir != leads.SortAsc {
		t.Fatalf("unexpected sort %s %s", in.SortBy, in.SortDir)
	}
	if in.Pagination.Page != 2 || in.Pagination.Size != 50 {
		t.Fatalf("unexpected pagination %+v", in.Pagination)
	}
}

func TestLeadsListDefaultsSort(t *testing.T) {
	svc := &stubLeadService{listResult: &leads.ListLeadsResult{}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
	req = req.WithContext(authedContext(req.Context()))
	resp := httptest.NewRecorder()

	LeadsList(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.listInput.SortBy != leads.SortByCreatedDate || svc.listInput.SortDir != leads.SortDesc {
		t.Fatalf("expected created_date desc default, got %s %s", svc.listInput.SortBy, svc.listInput.SortDir)
	}
}

func TestLeadsListRejectsUnknownAssignment(t *testing.T) {
	svc := &stubLeadService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads?assignment=nobody", nil)
	req = req.WithContext(authedContext(req.Context()))
	resp := httptest.NewRecorder()

	LeadsList(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLeadsGetRejectsBadID(t *testing.T) {
	svc := &stubLeadService{}
	router := chi.NewRouter()
	router.Get("/leads/{leadId}", LeadsGet(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/leads/not-a-uuid", nil)
	req = req.WithContext(authedContext(req.Context()))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLeadsCreateRejectsUnknownSource(t *testing.T) {
	svc := &stubLeadService{}
	body := []byte(`{"name":"Maria Garcia","source":"carrier-pigeon"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", bytes.NewReader(body))
	req = req.WithContext(authedContext(req.Context()))
	resp := httptest.NewRecorder()

	LeadsCreate(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLeadsCreateReturns201(t *testing.T) {
	svc := &stubLeadService{lead: &leads.LeadDTO{ID: uuid.New(), Name: "Maria Garcia"}}
	body := []byte(`{"name":"Maria Garcia","source":"website"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", bytes.NewReader(body))
	req = req.WithContext(authedContext(req.Context()))
	resp := httptest.NewRecorder()

	LeadsCreate(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data leads.LeadDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "Maria Garcia" {
		t.Fatalf("unexpected lead payload %+v", envelope.Data)
	}
}

func TestLeadsUpdateClearsAssigneeOnEmptyString(t *testing.T) {
	req := updateLeadRequest{AssignedTo: strPtr("")}
	input, err := req.toInput()
	if err != nil {
		t.Fatalf("to input: %v", err)
	}
	if !input.ClearAssignee || input.AssignedTo != nil {
		t.Fatalf("expected clear-assignee semantics, got %+v", input)
	}
}

func TestLeadsBulkAssignParsesBody(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	svc := &stubLeadService{bulkResult: &leads.BulkActionResult{Requested: 2, Succeeded: 2}}

	body, _ := json.Marshal(map[string]any{
		"lead_ids": []string{first.String(), second.String()},
		"assignee": "agent@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/bulk/assign", bytes.NewReader(body))
	req = req.WithContext(authedContext(req.Context()))
	resp := httptest.NewRecorder()

	LeadsBulkAssign(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.bulkIDs) != 2 || svc.bulkIDs[0] != first {
		t.Fatalf("unexpected ids %v", svc.bulkIDs)
	}
	if svc.assignee != "agent@example.com" {
		t.Fatalf("unexpected assignee %q", svc.assignee)
	}
}

func TestLeadsBulkRejectsEmptySelection(t *testing.T) {
	svc := &stubLeadService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/bulk/delete", bytes.NewReader([]byte(`{"lead_ids":[]}`)))
	req = req.WithContext(authedContext(req.Context()))
	resp := httptest.NewRecorder()

	LeadsBulkDelete(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLeadsExportSetsAttachmentHeaders(t *testing.T) {
	svc := &stubLeadService{
		exportBytes: []byte("Name,Status\nMaria Garcia,new\n"),
		exportName:  "leads_export_2026-08-31.csv",
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads/export?stage=new", nil)
	req = req.WithContext(authedContext(req.Context()))
	resp := httptest.NewRecorder()

	LeadsExport(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="leads_export_2026-08-31.csv"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if resp.Body.String() != "Name,Status\nMaria Garcia,new\n" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
}

func strPtr(s string) *string { return &s }
