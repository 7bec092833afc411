package comments_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/uzeyirmammadli/catcare-sub001/internal/api/handlers/http/comments"
	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/internal/middleware"
	mock_service "github.com/uzeyirmammadli/catcare-sub001/internal/service/mocks"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func newHandler(t *testing.T) (*comments.Handler, *mock_service.MockCommentService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	svc := mock_service.NewMockCommentService(ctrl)
	return comments.NewHandler(newTestLogger(), svc), svc
}

func withChiParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func asUser(h http.HandlerFunc, rr *httptest.ResponseRecorder, req *http.Request, userID, role string) {
	req.Header.Set("X-User-ID", userID)
	req.Header.Set("X-User-Role", role)
	middleware.Actor(h).ServeHTTP(rr, req)
}

func TestAdd_OK(t *testing.T) {
	t.Parallel()

	h, svc := newHandler(t)

	caseID := uuid.New()
	commentID := uuid.New()
	svc.EXPECT().
		Add(gomock.Any(), caseID, domain.AddCommentRequest{Content: "she is back"}, domain.Actor{ID: "u-1", Role: domain.RoleReporter}).
		Return(commentID, nil).
		Times(1)

	body := bytes.NewBufferString(`{"content":"she is back"}`)
	req := httptest.NewRequest(http.MethodPost, "/view_case_details/"+caseID.String()+"/comments", body)
	req.Header.Set("Content-Type", "application/json")
	req = withChiParam(req, "id", caseID.String())
	rr := httptest.NewRecorder()
	asUser(h.Add, rr, req, "u-1", "reporter")

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.ID != commentID.String() {
		t.Fatalf("unexpected response: %s", rr.Body.String())
	}
}

func TestAdd_InvalidJSON_400(t *testing.T) {
	t.Parallel()

	h, _ := newHandler(t)

	caseID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/view_case_details/"+caseID.String()+"/comments",
		bytes.NewBufferString("{not json"))
	req = withChiParam(req, "id", caseID.String())
	rr := httptest.NewRecorder()
	asUser(h.Add, rr, req, "u-1", "reporter")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestEdit_Forbidden_403(t *testing.T) {
	t.Parallel()

	h, svc := newHandler(t)

	id := uuid.New()
	svc.EXPECT().
		Edit(gomock.Any(), id, gomock.Any(), gomock.Any()).
		Return(e.ErrForbidden).
		Times(1)

	req := httptest.NewRequest(http.MethodPost, "/edit_comment/"+id.String(),
		bytes.NewBufferString(`{"content":"rewritten"}`))
	req = withChiParam(req, "id", id.String())
	rr := httptest.NewRecorder()
	asUser(h.Edit, rr, req, "u-2", "admin")

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDelete_OK(t *testing.T) {
	t.Parallel()

	h, svc := newHandler(t)

	id := uuid.New()
	svc.EXPECT().
		Delete(gomock.Any(), id, domain.Actor{ID: "u-1", Role: domain.RoleReporter}).
		Return(nil).
		Times(1)

	req := httptest.NewRequest(http.MethodPost, "/delete_comment/"+id.String(),
		bytes.NewBufferString(`{}`))
	req = withChiParam(req, "id", id.String())
	rr := httptest.NewRecorder()
	asUser(h.Delete, rr, req, "u-1", "reporter")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDelete_NotFound_404(t *testing.T) {
	t.Parallel()

	h, svc := newHandler(t)

	id := uuid.New()
	svc.EXPECT().
		Delete(gomock.Any(), id, gomock.Any()).
		Return(e.ErrNotFound).
		Times(1)

	req := httptest.NewRequest(http.MethodPost, "/delete_comment/"+id.String(),
		bytes.NewBufferString(`{}`))
	req = withChiParam(req, "id", id.String())
	rr := httptest.NewRecorder()
	asUser(h.Delete, rr, req, "u-1", "reporter")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}
