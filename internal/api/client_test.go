package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/config"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
)

func newTestClient(t *testing.T, upstream http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.RequestTimeout = 5

	return NewClient(cfg), srv
}

func TestLoginSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Fatalf("login must not carry a bearer token")
		}

		var req struct{ Username, Password string }
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Username != "alice" || req.Password != "rightpass" {
			t.Fatalf("unexpected credentials: %+v", req)
		}

		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-alice", "username": "alice", "role": "baker"})
	}))

	res, err := client.Login(context.Background(), "alice", "rightpass")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Token != "tok-alice" {
		t.Fatalf("unexpected token: %q", res.Token)
	}
	if res.Role != domain.RoleBaker {
		t.Fatalf("unexpected role: %q", res.Role)
	}
}

func TestLoginRejectedIsAuthError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid username or password"})
	}))

	_, err := client.Login(context.Background(), "alice", "wrongpass")
	if !IsAuthError(err) {
		t.Fatalf("expected AuthError, got %v", err)
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) || authErr.Message != "Invalid username or password" {
		t.Fatalf("expected server message preserved, got %v", err)
	}
}

func TestMeAttachesBearerToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-alice" {
			t.Fatalf("unexpected Authorization header: %q", got)
		}
		_ = json.NewEncoder(w).Encode(domain.User{ID: 7, Username: "alice", Name: "Alice", Role: domain.RoleBaker})
	}))

	user, err := client.Me(context.Background(), "tok-alice")
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if user.Name != "Alice" || user.Role != domain.RoleBaker {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestForbiddenIsAuthError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.ListUsers(context.Background(), "tok-alice")
	if !IsAuthError(err) {
		t.Fatalf("expected AuthError for 403, got %v", err)
	}
}

func TestServerFailureIsAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "database down"})
	}))

	_, err := client.ListUsers(context.Background(), "tok-alice")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "database down" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
	if IsAuthError(err) {
		t.Fatalf("a 500 must not be an AuthError")
	}
}

func TestUnreachableIsTransportError(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	_, err := client.Me(context.Background(), "tok-alice")

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestListShiftsSendsRange(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shifts" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("start") != "2024-05-01" || q.Get("end") != "2024-05-31" {
			t.Fatalf("unexpected range: %v", q)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"shifts": []domain.Shift{{ID: 3, Date: "2024-05-07"}}})
	}))

	start, _ := time.Parse("2006-01-02", "2024-05-01")
	end, _ := time.Parse("2006-01-02", "2024-05-31")

	shifts, err := client.ListShifts(context.Background(), "tok-alice", start, end)
	if err != nil {
		t.Fatalf("ListShifts returned error: %v", err)
	}
	if len(shifts) != 1 || shifts[0].ID != 3 {
		t.Fatalf("unexpected shifts: %+v", shifts)
	}
}

func TestGetUser(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/users/3" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(domain.User{ID: 3, Username: "carol", Role: domain.RoleManager})
	}))

	user, err := client.GetUser(context.Background(), "tok-alice", 3)
	if err != nil {
		t.Fatalf("GetUser returned error: %v", err)
	}
	if user.Username != "carol" || user.Role != domain.RoleManager {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUpdateShiftSendsOnlyChangedFields(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/shifts/42" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["startTime"] != "05:00" {
			t.Fatalf("unexpected startTime: %v", body["startTime"])
		}
		if _, ok := body["date"]; ok {
			t.Fatalf("untouched field must not travel: %v", body)
		}

		_ = json.NewEncoder(w).Encode(domain.Shift{ID: 42})
	}))

	start := "05:00"
	shift, err := client.UpdateShift(context.Background(), "tok-alice", 42, &UpdateShiftRequest{StartTime: &start})
	if err != nil {
		t.Fatalf("UpdateShift returned error: %v", err)
	}
	if shift.ID != 42 {
		t.Fatalf("unexpected shift: %+v", shift)
	}
}

func TestSetShiftAvailabilityBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/shifts/42/staff" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Username string `json:"username"`
			Status   string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Username != "alice" || req.Status != "confirmed" {
			t.Fatalf("unexpected body: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))

	err := client.SetShiftAvailability(context.Background(), "tok-alice", 42, "alice", domain.AssignmentConfirmed)
	if err != nil {
		t.Fatalf("SetShiftAvailability returned error: %v", err)
	}
}
