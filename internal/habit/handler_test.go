package habit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/d-medvedev/habits-api/internal/auth"
	"github.com/d-medvedev/habits-api/internal/user"
)

type pageEnvelope struct {
	Count    int64             `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []json.RawMessage `json:"results"`
}

func newTestServer(t *testing.T, fx *serviceFixture) *httptest.Server {
	t.Helper()
	auth.Init("handler-test-secret")

	r := chi.NewRouter()
	r.Mount("/habits", Routes(NewHandler(fx.service)))
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func bearerFor(t *testing.T, u *user.User) string {
	t.Helper()
	token, err := auth.GenerateJWT(u.ID.String(), u.Role(), auth.TokenTypeAccess, 5*time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	return "Bearer " + token
}

func doRequest(t *testing.T, method, url, authHeader string, body string) *http.Response {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPublicListPagination(t *testing.T) {
	fx := newServiceFixture()
	for i := 0; i < 8; i++ {
		fx.mustCreate(t, fx.owner, CreateHabitDTO{Action: "public", IsPublic: boolPtr(true)})
	}
	server := newTestServer(t, fx)

	resp := doRequest(t, http.MethodGet, server.URL+"/habits/public/", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var first pageEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&first); err != nil {
		t.Fatal(err)
	}
	if first.Count != 8 {
		t.Errorf("want count=8, got %d", first.Count)
	}
	if len(first.Results) != 5 {
		t.Errorf("want 5 results on the first page, got %d", len(first.Results))
	}
	if first.Next == nil {
		t.Fatal("want a non-null next link on the first page")
	}
	if first.Previous != nil {
		t.Error("first page must have a null previous link")
	}

	resp = doRequest(t, http.MethodGet, *first.Next, "", "")
	var second pageEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&second); err != nil {
		t.Fatal(err)
	}
	if len(second.Results) != 3 {
		t.Errorf("want 3 results on the second page, got %d", len(second.Results))
	}
	if second.Next != nil {
		t.Error("last page must have a null next link")
	}
	if second.Previous == nil {
		t.Error("second page must have a previous link")
	}
}

func TestPublicListUsesReducedProjection(t *testing.T) {
	fx := newServiceFixture()
	fx.mustCreate(t, fx.owner, CreateHabitDTO{
		Action:   "public",
		Location: strPtr("park"),
		IsPublic: boolPtr(true),
	})
	server := newTestServer(t, fx)

	resp := doRequest(t, http.MethodGet, server.URL+"/habits/public/", "", "")
	var page pageEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatal(err)
	}
	if len(page.Results) != 1 {
		t.Fatalf("want 1 result, got %d", len(page.Results))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(page.Results[0], &fields); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"id", "action", "periodicity", "time_to_complete", "is_public"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("projection missing %q", key)
		}
	}
	if _, ok := fields["location"]; ok {
		t.Error("public projection must not expose location")
	}
	if _, ok := fields["owner"]; ok {
		t.Error("public projection must not expose the owner")
	}
}

func TestRetrievePrivateHabitForbidden(t *testing.T) {
	fx := newServiceFixture()
	private := fx.mustCreate(t, fx.owner, CreateHabitDTO{Action: "secret"})
	server := newTestServer(t, fx)

	resp := doRequest(t, http.MethodGet, server.URL+"/habits/"+private.ID.String()+"/detail/", bearerFor(t, fx.stranger), "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("want 403, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["detail"] != "not permitted to view this habit" {
		t.Errorf("wrong reason: %q", body["detail"])
	}
}

func TestCreateRequiresAuth(t *testing.T) {
	fx := newServiceFixture()
	server := newTestServer(t, fx)

	resp := doRequest(t, http.MethodPost, server.URL+"/habits/create/", "", `{"action":"run"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("want 401, got %d", resp.StatusCode)
	}
}

func TestCreateAndDeleteRoundTrip(t *testing.T) {
	fx := newServiceFixture()
	server := newTestServer(t, fx)
	authHeader := bearerFor(t, fx.owner)

	resp := doRequest(t, http.MethodPost, server.URL+"/habits/create/", authHeader, `{"action":"run","periodicity":3}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("want 201, got %d", resp.StatusCode)
	}
	var created Habit
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.OwnerID == nil || *created.OwnerID != fx.owner.ID {
		t.Errorf("owner not set to the authenticated actor: %v", created.OwnerID)
	}

	resp = doRequest(t, http.MethodDelete, server.URL+"/habits/"+created.ID.String()+"/delete/", authHeader, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("want 204, got %d", resp.StatusCode)
	}

	stored, ok := fx.repo.habits[created.ID]
	if !ok {
		t.Fatal("owner delete must be soft, record is gone")
	}
	if stored.IsActive {
		t.Error("soft-deleted habit must be inactive")
	}
}

func TestCreateWithConflictingFieldsReturns400(t *testing.T) {
	fx := newServiceFixture()
	pleasant := fx.mustCreate(t, fx.owner, CreateHabitDTO{Action: "take a bath", IsEnjoyable: boolPtr(true)})
	server := newTestServer(t, fx)

	body := `{"action":"run","reward":"X","associated_habit":"` + pleasant.ID.String() + `"}`
	resp := doRequest(t, http.MethodPost, server.URL+"/habits/create/", bearerFor(t, fx.owner), body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}

	var payload struct {
		Violations []Violation `json:"violations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if kinds(payload.Violations)[KindConflictingFields] == 0 {
		t.Errorf("want ConflictingFields in the payload, got %v", payload.Violations)
	}
}

func TestRetrieveMissingHabitReturns404(t *testing.T) {
	fx := newServiceFixture()
	server := newTestServer(t, fx)

	resp := doRequest(t, http.MethodGet, server.URL+"/habits/00000000-0000-0000-0000-000000000000/detail/", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("want 404, got %d", resp.StatusCode)
	}
}
