// File path: internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/logicforge/logicforge/internal/llm"
	"github.com/logicforge/logicforge/internal/store"
)

type failingProvider struct{}

func (failingProvider) Name() string { return "failing" }

func (failingProvider) Chat(context.Context, []llm.Message) (string, error) {
	return "", llm.ErrUnavailable
}

func (failingProvider) Embed(context.Context, []string) ([][]float32, error) {
	return nil, llm.ErrUnavailable
}

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api_test.db")
	st, err := store.OpenWithConfig(store.Config{Path: path, MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	srv, err := NewServer(st, failingProvider{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		st.Close()
	})
	return ts, st
}

func doJSON(t *testing.T, method, url string, body interface{}, wantStatus int) map[string]interface{} {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status %d, want %d (body %s)", method, url, resp.StatusCode, wantStatus, raw)
	}
	var out map[string]interface{}
	if len(raw) > 0 && json.Unmarshal(raw, &out) != nil {
		// Non-object payloads (arrays, attachments) are checked by callers.
		return nil
	}
	return out
}

func TestHealthAndInfo(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Fatalf("healthz body = %q", body)
	}
	info := doJSON(t, http.MethodGet, ts.URL+"/api/info", nil, http.StatusOK)
	if info["provider"] != "failing" {
		t.Fatalf("info provider = %v", info["provider"])
	}
}

func TestDesignJourneyEndToEnd(t *testing.T) {
	ts, _ := newTestServer(t)

	created := doJSON(t, http.MethodPost, ts.URL+"/api/programs",
		map[string]string{"title": "Remedial Reading Pilot"}, http.StatusCreated)
	programID, _ := created["id"].(string)
	if programID == "" {
		t.Fatalf("program id missing: %v", created)
	}
	base := ts.URL + "/api/programs/" + programID

	// Gate: step 1 needs a completed problem statement.
	doJSON(t, http.MethodPost, base+"/problem/complete", map[string]string{}, http.StatusBadRequest)

	doJSON(t, http.MethodPost, base+"/problem", map[string]interface{}{
		"challenge_text": "Grade 3 students cannot read grade-level text",
		"root_causes":    []string{"no remedial support"},
		"theme":          "FLN",
		"is_completed":   true,
	}, http.StatusOK)
	step1 := doJSON(t, http.MethodPost, base+"/problem/complete", map[string]string{}, http.StatusOK)
	if xp, ok := step1["xp"].(map[string]interface{}); !ok || xp["awarded"].(float64) != 100 {
		t.Fatalf("step 1 xp = %v", step1["xp"])
	}

	// Completing step 1 again is out of order.
	doJSON(t, http.MethodPost, base+"/problem/complete", map[string]string{}, http.StatusConflict)

	doJSON(t, http.MethodPost, base+"/stakeholders", map[string]string{
		"name": "Primary School Teachers", "role": "Implementers", "priority": "high",
	}, http.StatusCreated)
	doJSON(t, http.MethodPost, base+"/stakeholders/complete", map[string]string{}, http.StatusOK)

	doJSON(t, http.MethodPost, base+"/models/complete", map[string]string{}, http.StatusOK)

	outcome := doJSON(t, http.MethodPost, base+"/outcomes", map[string]string{
		"description": "Students read at grade level within one year",
	}, http.StatusCreated)
	outcomeID, _ := outcome["id"].(string)
	doJSON(t, http.MethodPost, ts.URL+"/api/outcomes/"+outcomeID+"/indicators", map[string]string{
		"description": "Percentage of students at benchmark fluency",
		"type":        "outcome",
	}, http.StatusCreated)
	doJSON(t, http.MethodPost, base+"/indicators/complete", map[string]string{}, http.StatusOK)

	// Step five only completes through export.
	resp, err := http.Get(ts.URL + "/api/export/" + programID + "/json")
	if err != nil {
		t.Fatalf("export json: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "Remedial_Reading_Pilot") {
		t.Fatalf("content disposition = %q", cd)
	}

	program := doJSON(t, http.MethodGet, base, nil, http.StatusOK)
	if program["status"] != "completed" {
		t.Fatalf("program status after export = %v", program["status"])
	}

	full := doJSON(t, http.MethodGet, base+"/full", nil, http.StatusOK)
	if full["problem_statement"] == nil {
		t.Fatal("full record missing problem statement")
	}
}

func TestAssistFallsBackToDemoContent(t *testing.T) {
	ts, _ := newTestServer(t)
	out := doJSON(t, http.MethodPost, ts.URL+"/api/ai/refine-problem",
		map[string]string{"challenge_text": "children are behind in maths"}, http.StatusOK)
	result, ok := out["result"].(map[string]interface{})
	if !ok || result["demo_mode"] != true {
		t.Fatalf("expected demo fallback, got %v", out)
	}
	if xp, ok := out["xp"].(map[string]interface{}); !ok || xp["awarded"].(float64) != 25 {
		t.Fatalf("assist xp = %v", out["xp"])
	}

	doJSON(t, http.MethodPost, ts.URL+"/api/ai/refine-problem",
		map[string]string{"challenge_text": "  "}, http.StatusBadRequest)
}

func TestSearchModelsKeywordFallback(t *testing.T) {
	ts, _ := newTestServer(t)
	out := doJSON(t, http.MethodPost, ts.URL+"/api/ai/search-models",
		map[string]interface{}{"query": "numeracy", "limit": 3}, http.StatusOK)
	if out["count"].(float64) == 0 {
		t.Fatalf("expected keyword matches for numeracy, got %v", out)
	}
}

func TestTemplateInstantiation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/templates")
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	var summaries []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		t.Fatalf("decode templates: %v", err)
	}
	resp.Body.Close()
	if len(summaries) == 0 {
		t.Fatal("expected built-in templates")
	}
	id := summaries[0]["id"].(string)

	out := doJSON(t, http.MethodPost, ts.URL+"/api/templates/"+id+"/create-program",
		map[string]string{"custom_title": "My Pilot"}, http.StatusCreated)
	program := out["program"].(map[string]interface{})
	if program["title"] != "My Pilot" {
		t.Fatalf("instantiated title = %v", program["title"])
	}

	doJSON(t, http.MethodPost, ts.URL+"/api/templates/nope/create-program",
		map[string]string{}, http.StatusNotFound)
}

func TestCollaborationAndActivityFeed(t *testing.T) {
	ts, _ := newTestServer(t)
	created := doJSON(t, http.MethodPost, ts.URL+"/api/programs",
		map[string]string{"title": "Feed Test"}, http.StatusCreated)
	programID := created["id"].(string)

	doJSON(t, http.MethodPost, ts.URL+"/api/collaboration/comments", map[string]string{
		"program_id": programID, "user_name": "Asha", "content": "Sharpen the root causes", "section": "problem",
	}, http.StatusCreated)
	doJSON(t, http.MethodPost, ts.URL+"/api/collaboration/versions", map[string]interface{}{
		"program_id": programID, "user_name": "Asha", "description": "First draft",
	}, http.StatusCreated)

	resp, err := http.Get(ts.URL + "/api/collaboration/activity/" + programID)
	if err != nil {
		t.Fatalf("activity feed: %v", err)
	}
	var feed []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	resp.Body.Close()
	if len(feed) != 2 {
		t.Fatalf("feed length = %d", len(feed))
	}
	types := map[string]bool{}
	for _, item := range feed {
		types[item["type"].(string)] = true
	}
	if !types["comment"] || !types["version"] {
		t.Fatalf("feed types = %v", types)
	}
}

func TestActivityTimelineFlagsOverdue(t *testing.T) {
	ts, _ := newTestServer(t)
	created := doJSON(t, http.MethodPost, ts.URL+"/api/programs",
		map[string]string{"title": "Work Plan"}, http.StatusCreated)
	programID := created["id"].(string)

	doJSON(t, http.MethodPost, ts.URL+"/api/activities", map[string]interface{}{
		"program_id": programID,
		"title":      "Baseline survey",
		"start_date": "2020-01-01",
		"end_date":   "2020-01-15",
	}, http.StatusCreated)

	out := doJSON(t, http.MethodGet, ts.URL+"/api/activities/timeline/"+programID, nil, http.StatusOK)
	activities := out["activities"].([]interface{})
	if len(activities) != 1 {
		t.Fatalf("timeline length = %d", len(activities))
	}
	entry := activities[0].(map[string]interface{})
	if entry["duration_days"].(float64) != 15 {
		t.Fatalf("duration = %v", entry["duration_days"])
	}
	if entry["overdue"] != true {
		t.Fatal("expected overdue activity")
	}
}

func TestFormsAndBenchmarks(t *testing.T) {
	ts, _ := newTestServer(t)

	form := doJSON(t, http.MethodPost, ts.URL+"/api/forms/generate", map[string]interface{}{
		"program_id": "p1",
		"form_title": "Baseline",
		"indicators": []map[string]string{
			{"indicator_id": "i1", "description": "Percentage of students at benchmark", "type": "outcome"},
		},
	}, http.StatusOK)
	if form["total_fields"].(float64) != 4 {
		t.Fatalf("total fields = %v", form["total_fields"])
	}

	nipun := doJSON(t, http.MethodGet, ts.URL+"/api/benchmarks/nipun", nil, http.StatusOK)
	if nipun["grades"] == nil {
		t.Fatal("nipun benchmarks missing grades")
	}
	doJSON(t, http.MethodGet, ts.URL+"/api/benchmarks/states/Atlantis", nil, http.StatusNotFound)
}

func TestAnalyticsEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)
	created := doJSON(t, http.MethodPost, ts.URL+"/api/programs",
		map[string]string{"title": "Analytics Test"}, http.StatusCreated)
	programID := created["id"].(string)
	doJSON(t, http.MethodPost, ts.URL+fmt.Sprintf("/api/programs/%s/stakeholders", programID),
		map[string]string{"name": "District Education Officer", "role": "Liaison", "priority": "low"},
		http.StatusCreated)

	stats := doJSON(t, http.MethodGet,
		ts.URL+"/api/analytics/"+store.DemoUserID+"/stakeholders", nil, http.StatusOK)
	data := stats["data"].([]interface{})
	if len(data) != 5 {
		t.Fatalf("expected 5 stakeholder categories, got %d", len(data))
	}
	var officials map[string]interface{}
	for _, item := range data {
		point := item.(map[string]interface{})
		if point["category"] == "Officials" {
			officials = point
		}
	}
	if officials == nil || officials["low"].(float64) != 1 {
		t.Fatalf("officials point = %v", officials)
	}

	progress := doJSON(t, http.MethodGet,
		ts.URL+"/api/analytics/"+store.DemoUserID+"/progress?weeks=4", nil, http.StatusOK)
	points := progress["data"].([]interface{})
	if len(points) != 4 {
		t.Fatalf("expected 4 weekly points, got %d", len(points))
	}
	last := points[3].(map[string]interface{})
	if last["date"] != "This Week" {
		t.Fatalf("last label = %v", last["date"])
	}
	if last["programs"].(float64) != 1 {
		t.Fatalf("cumulative programs = %v", last["programs"])
	}
}

func TestGamificationEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	xp := doJSON(t, http.MethodPost, ts.URL+"/api/gamification/xp",
		map[string]string{"action": "daily_login"}, http.StatusOK)
	if xp["awarded"].(float64) != 10 {
		t.Fatalf("daily login xp = %v", xp["awarded"])
	}

	streak := doJSON(t, http.MethodPost, ts.URL+"/api/gamification/streak",
		map[string]string{}, http.StatusOK)
	if streak["current_streak"].(float64) != 1 {
		t.Fatalf("streak = %v", streak["current_streak"])
	}

	stats := doJSON(t, http.MethodGet, ts.URL+"/api/gamification/stats", nil, http.StatusOK)
	if stats["total_xp"].(float64) != 10 {
		t.Fatalf("total xp = %v", stats["total_xp"])
	}

	board := doJSON(t, http.MethodGet, ts.URL+"/api/gamification/leaderboard", nil, http.StatusOK)
	entries := board["leaderboard"].([]interface{})
	if len(entries) != 1 {
		t.Fatalf("leaderboard length = %d", len(entries))
	}
}
