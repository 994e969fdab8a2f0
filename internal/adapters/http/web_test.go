package web

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"dojo/internal/adapters/http/flash"
	"dojo/internal/adapters/http/middleware"
	"dojo/internal/adapters/http/perf"
	"dojo/internal/adapters/storage/storagetest"
	"dojo/internal/application/orchestrators"
	"dojo/internal/domain/access"
	"dojo/internal/domain/account"
)

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

var csrfFieldRe = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

// testApp drives the full handler chain over a real listener with a cookie jar.
type testApp struct {
	t         *testing.T
	db        *sql.DB
	srv       *Server
	ts        *httptest.Server
	client    *http.Client
	collector *perf.Collector
	home      string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := storagetest.Open(t)
	collector := perf.NewCollector(100)
	srv, err := New(Config{
		DB:            db,
		Flashes:       flash.New(bytes.Repeat([]byte("f"), 32), false),
		CSRFKey:       bytes.Repeat([]byte("k"), 32),
		RateLimit:     1000,
		SlowRequestMs: 1000,
		Collector:     collector,
		Now:           func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ts := httptest.NewServer(srv.Handler(ctx))
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testApp{t: t, db: db, srv: srv, ts: ts, client: client, collector: collector, home: "/login"}
}

// loginAs attaches a session for id without going through the login form.
func (a *testApp) loginAs(id access.Identity) {
	a.t.Helper()
	token, err := a.srv.sessions.Create(id)
	if err != nil {
		a.t.Fatalf("create session: %v", err)
	}
	u, _ := url.Parse(a.ts.URL)
	a.client.Jar.SetCookies(u, []*http.Cookie{{Name: middleware.SessionCookieName, Value: token, Path: "/"}})
	a.home = "/" + id.Role
}

// get returns the status, Location header and body of a GET.
func (a *testApp) get(path string) (int, string, string) {
	a.t.Helper()
	resp, err := a.client.Get(a.ts.URL + path)
	if err != nil {
		a.t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header.Get("Location"), string(body)
}

// csrfToken loads the caller's home page and extracts the form token.
func (a *testApp) csrfToken() string {
	a.t.Helper()
	code, _, body := a.get(a.home)
	m := csrfFieldRe.FindStringSubmatch(body)
	if m == nil {
		a.t.Fatalf("no CSRF field on %s (status %d)", a.home, code)
	}
	return m[1]
}

// post submits form with a valid CSRF token and returns status and Location.
func (a *testApp) post(path string, form url.Values, header ...string) (int, string) {
	a.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("gorilla.csrf.Token", a.csrfToken())
	req, _ := http.NewRequest(http.MethodPost, a.ts.URL+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := a.client.Do(req)
	if err != nil {
		a.t.Fatalf("POST %s: %v", path, err)
	}
	resp.Body.Close()
	return resp.StatusCode, resp.Header.Get("Location")
}

func (a *testApp) count(query string, args ...any) int {
	a.t.Helper()
	var n int
	if err := a.db.QueryRow(query, args...).Scan(&n); err != nil {
		a.t.Fatalf("count %q: %v", query, err)
	}
	return n
}

var (
	managerID  = access.Identity{UserID: "m1", Username: "sensei", Role: account.RoleManager}
	employeeID = access.Identity{UserID: "e1", Username: "alice", Role: account.RoleEmployee}
	parentID   = access.Identity{UserID: "p1", Username: "pat", Role: account.RoleParent}
)

// seedAcademy inserts one user per role, a second employee and a child of p1.
func seedAcademy(t *testing.T, db *sql.DB) {
	t.Helper()
	storagetest.User(t, db, "m1", "sensei", account.RoleManager)
	storagetest.User(t, db, "e1", "alice", account.RoleEmployee)
	storagetest.User(t, db, "e2", "bob", account.RoleEmployee)
	storagetest.User(t, db, "p1", "pat", account.RoleParent)
	storagetest.Child(t, db, "c1", "Kai", "p1")
}

func TestLoginFlow(t *testing.T) {
	app := newTestApp(t)
	_, err := orchestrators.ExecuteSeedManager(context.Background(), orchestrators.SeedManagerInput{
		Username: "sensei",
		Password: "s3cret-pass",
	}, orchestrators.SeedManagerDeps{
		Users:      NewStores(app.db).Users,
		GenerateID: func() string { return "m1" },
		Now:        func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("seed manager: %v", err)
	}

	code, loc := app.post("/login", url.Values{"username": {"sensei"}, "password": {"wrong-pass"}})
	if code != http.StatusSeeOther || loc != "/login" {
		t.Fatalf("bad password: got %d %q, want 303 /login", code, loc)
	}
	if _, _, body := app.get("/login"); !strings.Contains(body, "Invalid username or password.") {
		t.Error("bad password flash not shown")
	}

	code, loc = app.post("/login", url.Values{"username": {"sensei"}, "password": {"s3cret-pass"}})
	if code != http.StatusSeeOther || loc != "/dashboard" {
		t.Fatalf("login: got %d %q, want 303 /dashboard", code, loc)
	}
	if code, loc, _ := app.get("/dashboard"); code != http.StatusSeeOther || loc != "/manager" {
		t.Fatalf("dashboard: got %d %q, want 303 /manager", code, loc)
	}
	code, _, body := app.get("/manager")
	if code != http.StatusOK || !strings.Contains(body, "Manager Dashboard") {
		t.Fatalf("manager page: got %d", code)
	}

	app.home = "/manager"
	if code, loc := app.post("/logout", nil); code != http.StatusSeeOther || loc != "/login" {
		t.Fatalf("logout: got %d %q", code, loc)
	}
	if code, loc, _ := app.get("/manager"); code != http.StatusSeeOther || loc != middleware.LoginPath {
		t.Errorf("after logout: got %d %q, want redirect to login", code, loc)
	}
}

func TestRegister(t *testing.T) {
	app := newTestApp(t)

	code, loc := app.post("/register", url.Values{
		"username":         {"pat"},
		"password":         {"abcdef"},
		"confirm_password": {"abcdef"},
		"role":             {"parent"},
		"child_name":       {"Kai"},
	})
	if code != http.StatusSeeOther || loc != "/login" {
		t.Fatalf("register: got %d %q", code, loc)
	}
	if n := app.count("SELECT COUNT(*) FROM children WHERE child_name = 'Kai'"); n != 1 {
		t.Errorf("children = %d, want 1", n)
	}

	code, loc = app.post("/register", url.Values{
		"username":         {"boss"},
		"password":         {"abcdef"},
		"confirm_password": {"abcdef"},
		"role":             {"manager"},
	})
	if code != http.StatusSeeOther || loc != "/register" {
		t.Fatalf("manager self-registration: got %d %q, want redirect back", code, loc)
	}
	if n := app.count("SELECT COUNT(*) FROM users WHERE role = 'manager'"); n != 0 {
		t.Errorf("managers = %d, want 0", n)
	}
}

func TestAccessGate(t *testing.T) {
	tests := []struct {
		name     string
		as       *access.Identity
		path     string
		wantCode int
		wantLoc  string
	}{
		{"anonymous employee page", nil, "/employee", http.StatusSeeOther, middleware.LoginPath},
		{"anonymous dashboard", nil, "/dashboard", http.StatusSeeOther, middleware.LoginPath},
		{"employee on manager page", &employeeID, "/manager", http.StatusSeeOther, middleware.DashboardPath},
		{"parent on techniques", &parentID, "/techniques", http.StatusSeeOther, middleware.DashboardPath},
		{"manager on parent page", &managerID, "/parent", http.StatusSeeOther, middleware.DashboardPath},
		{"employee home", &employeeID, "/employee", http.StatusOK, ""},
		{"employee techniques", &employeeID, "/techniques", http.StatusOK, ""},
		{"manager progress", &managerID, "/manager/progress", http.StatusOK, ""},
		{"parent home", &parentID, "/parent", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			seedAcademy(t, app.db)
			if tt.as != nil {
				app.loginAs(*tt.as)
			}
			code, loc, _ := app.get(tt.path)
			if code != tt.wantCode || loc != tt.wantLoc {
				t.Errorf("GET %s = %d %q, want %d %q", tt.path, code, loc, tt.wantCode, tt.wantLoc)
			}
		})
	}
}

func TestAccessDeniedFlash(t *testing.T) {
	app := newTestApp(t)
	seedAcademy(t, app.db)
	app.loginAs(employeeID)

	app.get("/manager")
	_, _, body := app.get("/employee")
	if !strings.Contains(body, middleware.MsgAccessDenied) {
		t.Error("access denied flash not shown on next page")
	}
}

func TestPostWithoutCSRFTokenRejected(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.client.PostForm(app.ts.URL+"/login", url.Values{"username": {"x"}, "password": {"y"}})
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestResolveCalloutApproval(t *testing.T) {
	app := newTestApp(t)
	seedAcademy(t, app.db)
	storagetest.Shift(t, app.db, "s1", "e1", "2026-10-20", "Juniors")
	storagetest.Request(t, app.db, "r1", "callout", "e1", "s1", "", "Sick", "2026-10-15T08:00:00Z")
	app.loginAs(managerID)

	code, loc := app.post("/manager/requests/r1/approve", nil)
	if code != http.StatusSeeOther || loc != "/manager" {
		t.Fatalf("approve: got %d %q", code, loc)
	}
	sh, err := NewStores(app.db).Shifts.GetByID(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get shift: %v", err)
	}
	if !sh.CalledOut || sh.EmployeeID != "e1" {
		t.Errorf("shift = %+v, want called out and still assigned to e1", sh)
	}
	if _, _, body := app.get("/manager"); !strings.Contains(body, orchestrators.MsgRequestApproved) {
		t.Error("approval flash not shown")
	}
	if _, _, body := app.get("/manager/schedule?start=2026-10-16"); strings.Count(body, "Juniors (CALL-OUT)") != 1 {
		t.Error("schedule should show the call-out marker exactly once")
	}

	// Second decision is a conflict and leaves everything as it was.
	app.post("/manager/requests/r1/reject", nil)
	if _, _, body := app.get("/manager"); !strings.Contains(body, "Request already processed.") {
		t.Error("conflict flash not shown")
	}
	if n := app.count("SELECT COUNT(*) FROM requests WHERE id = 'r1' AND status = 'approved'"); n != 1 {
		t.Error("request status changed by second decision")
	}

	_, _, metricsBody := app.get("/metrics")
	want := `dojo_request_resolutions_total{outcome="called_out",type="callout"} 1`
	if !strings.Contains(metricsBody, want) {
		t.Errorf("metrics missing %q", want)
	}
}

func TestResolveRequiresManager(t *testing.T) {
	app := newTestApp(t)
	seedAcademy(t, app.db)
	storagetest.Shift(t, app.db, "s1", "e1", "2026-10-20", "Juniors")
	storagetest.Request(t, app.db, "r1", "callout", "e1", "s1", "", "Sick", "2026-10-15T08:00:00Z")
	app.loginAs(employeeID)

	code, loc := app.post("/manager/requests/r1/approve", nil)
	if code != http.StatusSeeOther || loc != middleware.DashboardPath {
		t.Fatalf("got %d %q, want redirect to dashboard", code, loc)
	}
	if n := app.count("SELECT COUNT(*) FROM requests WHERE status = 'pending'"); n != 1 {
		t.Error("employee resolved a request")
	}
}

func TestSubmitSwitchForAnotherEmployeesShift(t *testing.T) {
	app := newTestApp(t)
	seedAcademy(t, app.db)
	storagetest.Shift(t, app.db, "s2", "e2", "2026-10-20", "Adults")
	app.loginAs(employeeID)

	code, loc := app.post("/employee/request-switch", url.Values{"shift_id": {"s2"}, "reason": {"Swap"}})
	if code != http.StatusSeeOther || loc != "/employee/request-switch" {
		t.Fatalf("got %d %q", code, loc)
	}
	if n := app.count("SELECT COUNT(*) FROM requests"); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}

func TestSubmitCallout(t *testing.T) {
	app := newTestApp(t)
	seedAcademy(t, app.db)
	storagetest.Shift(t, app.db, "s1", "e1", "2026-10-20", "Juniors")
	app.loginAs(employeeID)

	code, loc := app.post("/employee/request-callout", url.Values{"shift_id": {"s1"}, "reason": {"Sick"}})
	if code != http.StatusSeeOther || loc != "/employee" {
		t.Fatalf("got %d %q", code, loc)
	}
	if n := app.count("SELECT COUNT(*) FROM requests WHERE request_type = 'callout' AND status = 'pending'"); n != 1 {
		t.Errorf("pending callouts = %d, want 1", n)
	}
	_, _, body := app.get("/employee")
	if !strings.Contains(body, "Call-out request submitted.") {
		t.Error("success flash not shown")
	}
}

func TestScheduleInvalidStartFallsBackToToday(t *testing.T) {
	app := newTestApp(t)
	seedAcademy(t, app.db)
	storagetest.Shift(t, app.db, "s1", "e1", "2026-10-17", "Juniors")
	app.loginAs(employeeID)

	code, _, body := app.get("/employee/schedule?start=16-10-2026")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	for _, want := range []string{
		"Start date must be in YYYY-MM-DD format. Showing today instead.",
		"Fri 16 Oct 2026",
		"Juniors",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestManagerScheduleShowsEveryone(t *testing.T) {
	app := newTestApp(t)
	seedAcademy(t, app.db)
	storagetest.Shift(t, app.db, "s1", "e1", "2026-10-17", "Juniors")
	storagetest.Shift(t, app.db, "s2", "e2", "2026-10-18", "Adults")

	app.loginAs(managerID)
	_, _, body := app.get("/manager/schedule?start=2026-10-16")
	if !strings.Contains(body, "alice") || !strings.Contains(body, "bob") {
		t.Error("manager schedule should list both employees")
	}

	app.loginAs(employeeID)
	_, _, body = app.get("/employee/schedule?start=2026-10-16")
	if strings.Contains(body, "Adults") {
		t.Error("employee schedule shows a coworker's shift")
	}
}

func TestProgressAssignAndToggle(t *testing.T) {
	app := newTestApp(t)
	seedAcademy(t, app.db)
	storagetest.Technique(t, app.db, "t1", "Armbar", true)
	app.loginAs(employeeID)

	code, loc := app.post("/employee/progress", url.Values{"child_id": {"c1"}, "technique_id": {"t1"}, "notes": {"Good grip"}})
	if code != http.StatusSeeOther || loc != "/employee/progress" {
		t.Fatalf("assign: got %d %q", code, loc)
	}
	var id string
	if err := app.db.QueryRow("SELECT id FROM child_skill_progress WHERE child_id = 'c1'").Scan(&id); err != nil {
		t.Fatalf("progress row: %v", err)
	}

	code, loc = app.post("/progress/"+id+"/toggle", nil, "Referer", app.ts.URL+"/employee/progress")
	if code != http.StatusSeeOther || loc != "/employee/progress" {
		t.Fatalf("toggle: got %d %q", code, loc)
	}
	if n := app.count("SELECT COUNT(*) FROM child_skill_progress WHERE id = ? AND completed = 1 AND completed_at IS NOT NULL", id); n != 1 {
		t.Error("toggle did not complete the record")
	}
}

func TestDeleteTechniqueWithHistoryIsRefused(t *testing.T) {
	app := newTestApp(t)
	seedAcademy(t, app.db)
	storagetest.Technique(t, app.db, "t1", "Armbar", true)
	storagetest.Technique(t, app.db, "t2", "Sweep", true)
	storagetest.Progress(t, app.db, "pr1", "c1", "t1", "e1", false, "2026-10-10T09:00:00Z")
	app.loginAs(managerID)

	app.home = "/techniques"
	app.post("/manager/techniques/t1/delete", nil)
	if _, _, body := app.get("/techniques"); !strings.Contains(body, "Technique has progress history; deactivate it instead.") {
		t.Error("conflict flash not shown")
	}
	if n := app.count("SELECT COUNT(*) FROM techniques WHERE id = 't1'"); n != 1 {
		t.Error("technique with history was deleted")
	}

	app.post("/manager/techniques/t2/delete", nil)
	if n := app.count("SELECT COUNT(*) FROM techniques WHERE id = 't2'"); n != 0 {
		t.Error("unused technique was not deleted")
	}
}

func TestParentSeesEscapedMarkdownNotes(t *testing.T) {
	app := newTestApp(t)
	seedAcademy(t, app.db)
	app.loginAs(employeeID)

	code, _ := app.post("/children/c1/notes", url.Values{"note_text": {"Great **focus** today <script>alert(1)</script>"}})
	if code != http.StatusSeeOther {
		t.Fatalf("add note: got %d", code)
	}

	app.loginAs(parentID)
	_, _, body := app.get("/parent")
	if !strings.Contains(body, "<strong>focus</strong>") {
		t.Error("markdown not rendered")
	}
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("raw HTML from a note reached the page")
	}
	if !strings.Contains(body, "Kai") {
		t.Error("child missing from parent dashboard")
	}
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	code, _, body := app.get("/healthz")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(body), &got); err != nil || got["status"] != "ok" {
		t.Errorf("body = %q", body)
	}
}

func TestPerfSnapshot(t *testing.T) {
	app := newTestApp(t)
	seedAcademy(t, app.db)
	app.loginAs(managerID)
	app.get("/manager")

	code, _, body := app.get("/manager/perf?minutes=5")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var snap perf.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Requests < 1 {
		t.Errorf("requests = %d, want at least the dashboard hit", snap.Requests)
	}
}

func TestBackTo(t *testing.T) {
	tests := []struct {
		name    string
		referer string
		want    string
	}{
		{"same host", "http://dojo.test/employee/progress", "/employee/progress"},
		{"keeps query", "http://dojo.test/manager/schedule?start=2026-10-16", "/manager/schedule?start=2026-10-16"},
		{"other host", "http://evil.test/steal", "/dashboard"},
		{"missing", "", "/dashboard"},
		{"protocol relative path", "http://dojo.test//evil.test/x", "/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "http://dojo.test/progress/x/toggle", nil)
			if tt.referer != "" {
				r.Header.Set("Referer", tt.referer)
			}
			if got := backTo(r, "/dashboard"); got != tt.want {
				t.Errorf("backTo = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewRejectsMissingConfig(t *testing.T) {
	db := storagetest.Open(t)
	flashes := flash.New(bytes.Repeat([]byte("f"), 32), false)
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no db", Config{Flashes: flashes, CSRFKey: bytes.Repeat([]byte("k"), 32)}},
		{"no flashes", Config{DB: db, CSRFKey: bytes.Repeat([]byte("k"), 32)}},
		{"short key", Config{DB: db, Flashes: flashes, CSRFKey: []byte("short")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}
