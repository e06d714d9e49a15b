package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/km-arc/go-rh-forms/app/controllers"
	"github.com/km-arc/go-rh-forms/app/models"
	"github.com/km-arc/go-rh-forms/app/providers"
	"github.com/km-arc/go-rh-forms/app/store"
	"github.com/km-arc/go-rh-forms/app/views"
	"github.com/km-arc/go-rh-forms/framework/app"
	"github.com/km-arc/go-rh-forms/framework/config"
	"github.com/km-arc/go-rh-forms/framework/dom"
	"github.com/km-arc/go-rh-forms/framework/feedback"
	"github.com/km-arc/go-rh-forms/framework/password"
)

var fixedNow = time.Date(2026, time.October, 18, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type harness struct {
	app   *app.Application
	store *store.Store
}

func newHarness(t *testing.T, tune ...func(*config.Config)) *harness {
	t.Helper()
	cfg := &config.Config{
		App:   config.AppConfig{Name: "CY-RH", Env: "testing", Port: "0"},
		Log:   config.LogConfig{Level: "disabled", Format: "json"},
		HTTP:  config.HTTPConfig{ShutdownTimeout: time.Second},
		Forms: config.FormsConfig{Timezone: "UTC"},
	}
	for _, fn := range tune {
		fn(cfg)
	}
	a, err := app.New(app.WithConfig(cfg), app.WithViews(views.FS))
	if err != nil {
		t.Fatal(err)
	}
	st := store.Seeded(fixedNow)
	if err := a.Register(&providers.AppServiceProvider{Store: st, Now: clock}); err != nil {
		t.Fatal(err)
	}
	if err := a.Boot(); err != nil {
		t.Fatal(err)
	}
	return &harness{app: a, store: st}
}

func (h *harness) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.app.Router().ServeHTTP(rr, req)
	return rr
}

func (h *harness) get(t *testing.T, target string) *httptest.ResponseRecorder {
	return h.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (h *harness) postForm(t *testing.T, target string, values map[string]string) *httptest.ResponseRecorder {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(t, req)
}

func parse(t *testing.T, rr *httptest.ResponseRecorder) *dom.Document {
	t.Helper()
	doc, err := dom.Parse(rr.Body)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func visibleRows(doc *dom.Document, tableID string) int {
	n := 0
	for _, tr := range doc.ByID(tableID).Find(dom.TagIs("tbody")).FindAll(dom.TagIs("tr")) {
		if !tr.Hidden() {
			n++
		}
	}
	return n
}

func newEmployee() map[string]string {
	return map[string]string{
		"matricule":     "EMP005",
		"nom":           "Lefèvre",
		"prenom":        "Julie",
		"email":         "julie.lefevre@cy-rh.fr",
		"telephone":     "0612345678",
		"poste":         "Développeuse",
		"grade":         "CADRE",
		"role":          "EMPLOYE",
		"salaireBase":   "3200",
		"dateEmbauche":  "2025-09-01",
		"idDepartement": "1",
	}
}

func TestHome_RedirectsToEmployees(t *testing.T) {
	rr := newHarness(t).get(t, "/")
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/employees" {
		t.Errorf("got %d %s", rr.Code, rr.Header().Get("Location"))
	}
}

func TestIndex_ListsAndDerivesFilters(t *testing.T) {
	h := newHarness(t)
	rr := h.get(t, "/employees")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	doc := parse(t, rr)
	if n := visibleRows(doc, "employeesTable"); n != h.store.Employees.Len() {
		t.Errorf("visible rows: %d", n)
	}
	if doc.ByID("filter-6") == nil {
		t.Error("grade dropdown missing")
	}
	if doc.ByID("filter-0") != nil || doc.ByID("filter-8") != nil {
		t.Error("ID and Actions must not get dropdowns")
	}
}

func TestIndex_SearchAndColumnFilter(t *testing.T) {
	h := newHarness(t)

	doc := parse(t, h.get(t, "/employees?q=DUPONT"))
	if n := visibleRows(doc, "employeesTable"); n != 1 {
		t.Errorf("search: %d rows", n)
	}
	if doc.ByID("searchInput").Value() != "DUPONT" {
		t.Error("search input should keep the term")
	}

	doc = parse(t, h.get(t, "/employees?f6=CADRE"))
	if n := visibleRows(doc, "employeesTable"); n != 2 {
		t.Errorf("grade filter: %d rows", n)
	}

	doc = parse(t, h.get(t, "/employees?q=nobody"))
	if doc.Find(dom.ClassIs("no-results-message")) == nil {
		t.Error("expected the no-results placeholder")
	}
}

func TestCreate_RendersForm(t *testing.T) {
	rr := newHarness(t).get(t, "/fiches-paie/new")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	doc := parse(t, rr)
	form := doc.ByID("payslipForm")
	if form == nil {
		t.Fatal("form missing")
	}
	if opts := doc.ByID("idEmployer").FindAll(dom.TagIs("option")); len(opts) != 5 {
		t.Errorf("employee options: %d", len(opts))
	}
}

func TestStore_ValidRedirects(t *testing.T) {
	h := newHarness(t)
	before := h.store.Employees.Len()

	rr := h.postForm(t, "/employees", newEmployee())
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status %d:\n%s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/employees?ok=1" {
		t.Errorf("location: %s", loc)
	}
	if h.store.Employees.Len() != before+1 {
		t.Error("employee not stored")
	}

	doc := parse(t, h.get(t, "/employees?ok=1"))
	if alert := doc.Find(dom.ClassIs("alert-success")); alert == nil || alert.Text() != controllers.FlashCreated {
		t.Error("flash missing")
	}
}

func TestStore_ClientRuleRejects(t *testing.T) {
	h := newHarness(t)
	values := newEmployee()
	values["salaireBase"] = "500"

	rr := h.postForm(t, "/employees", values)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rr.Code)
	}
	doc := parse(t, rr)
	if got := feedback.FieldError(doc.ByID("salaireBase")); !strings.Contains(got, "1000€") {
		t.Errorf("salary message: %q", got)
	}
	if doc.ByID("employeeForm").Find(dom.ClassIs(feedback.ClassAlert)) == nil {
		t.Error("banner missing")
	}
	if doc.ByID("nom").Value() != "Lefèvre" {
		t.Error("submitted values should be kept")
	}
	if h.store.Employees.Len() != 4 {
		t.Error("invalid employee stored")
	}
}

func TestStore_ServerRuleRejects(t *testing.T) {
	h := newHarness(t)

	rr := h.postForm(t, "/departements", map[string]string{"intitule": "finance"})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rr.Code)
	}
	doc := parse(t, rr)
	if got := feedback.FieldError(doc.ByID("intitule")); got != "Un département avec cet intitulé existe déjà" {
		t.Errorf("message: %q", got)
	}
	if doc.ByID("departmentForm").Find(dom.ClassIs(feedback.ClassAlert)) == nil {
		t.Error("banner missing")
	}
}

func TestStore_RecordsMetrics(t *testing.T) {
	h := newHarness(t)
	values := newEmployee()
	values["email"] = "julie"
	h.postForm(t, "/employees", values)

	body := h.get(t, "/metrics").Body.String()
	for _, want := range []string{
		`rhforms_submissions_total{kind="employee",outcome="rejected",stage="client"} 1`,
		`rhforms_field_errors_total{field="email",kind="employee"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestValidateAPI(t *testing.T) {
	h := newHarness(t)
	values := newEmployee()
	values["salaireBase"] = "500"
	values["matricule"] = "emp5"
	payload, _ := json.Marshal(values)

	req := httptest.NewRequest(http.MethodPost, "/api/validate/employees", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	rr := h.do(t, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Data controllers.Verdicts `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Valid || body.Data.Kind != "employee" {
		t.Errorf("verdicts: %+v", body.Data)
	}
	for _, key := range []string{"salaireBase", "matricule"} {
		if body.Data.Errors[key] == "" || body.Data.Fields[key].Valid {
			t.Errorf("%s should be invalid: %+v", key, body.Data.Fields[key])
		}
	}
	if !body.Data.Fields["nom"].Valid {
		t.Error("nom should be valid")
	}
	if h.store.Employees.Len() != 4 {
		t.Error("the API must not store anything")
	}

	if rr := h.postForm(t, "/api/validate/invoices", nil); rr.Code != http.StatusNotFound {
		t.Errorf("unknown resource: %d", rr.Code)
	}
}

func TestValidateAPI_RateLimit(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.HTTP.RateLimit = 1 })
	first := h.postForm(t, "/api/validate/departements", map[string]string{"intitule": "Juridique"})
	second := h.postForm(t, "/api/validate/departements", map[string]string{"intitule": "Juridique"})
	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Errorf("got %d then %d", first.Code, second.Code)
	}
}

func TestValidateAPI_CORS(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.HTTP.CORSOrigins = []string{"https://rh.example"} })
	req := httptest.NewRequest(http.MethodOptions, "/api/validate/employees", nil)
	req.Header.Set("Origin", "https://rh.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rr := h.do(t, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://rh.example" {
		t.Errorf("allow-origin: %q", got)
	}
}

func TestLogin_PasswordToggle(t *testing.T) {
	h := newHarness(t)

	doc := parse(t, h.get(t, "/login"))
	if typ, _ := doc.ByID("password").Attr("type"); typ != "password" {
		t.Errorf("masked by default, got %q", typ)
	}

	doc = parse(t, h.get(t, "/login?show=1"))
	if typ, _ := doc.ByID("password").Attr("type"); typ != "text" {
		t.Errorf("shown, got %q", typ)
	}
	if doc.ByID("togglePassword").Text() != password.GlyphPlain {
		t.Error("toggle glyph not flipped")
	}
}

func TestResources_MatchKindConfiguration(t *testing.T) {
	v := models.NewValidator(clock)
	for _, res := range controllers.Resources() {
		if res.Name == "" || res.FormID == "" || res.Bind == nil || res.Rows == nil {
			t.Errorf("%s: incomplete resource", res.Path)
		}
		if _, msgs := res.Bind(store.New(), v, map[string]string{}); !msgs.Has() {
			t.Errorf("%s: an empty submission should be rejected", res.Path)
		}
	}
}

func TestDepartments_ConcurrentDuplicateCommit(t *testing.T) {
	v := models.NewValidator(clock)
	var departments *controllers.Resource
	for _, res := range controllers.Resources() {
		if res.Name == "departements" {
			departments = res
		}
	}
	if departments == nil {
		t.Fatal("departements resource missing")
	}

	s := store.New()
	fields := map[string]string{"intitule": "Juridique"}
	first, msgs := departments.Bind(s, v, fields)
	if msgs.Has() {
		t.Fatalf("first bind: %v", msgs.Bag)
	}
	second, msgs := departments.Bind(s, v, map[string]string{"intitule": " juridique "})
	if msgs.Has() {
		t.Fatalf("second bind should pass before either commit: %v", msgs.Bag)
	}

	if late := first(s); late.Has() {
		t.Fatalf("first commit: %v", late.Bag)
	}
	late := second(s)
	if got := late.Get("intitule"); got != "Un département avec cet intitulé existe déjà" {
		t.Errorf("second commit should report the conflict, got %v", late.Bag)
	}
	if n := s.Departments.Len(); n != 1 {
		t.Errorf("expected one department, got %d", n)
	}
}
