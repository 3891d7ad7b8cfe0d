package web

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ycliao/jobtrack/internal/config"
	"github.com/ycliao/jobtrack/internal/domain"
	"github.com/ycliao/jobtrack/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New() returned error: %v", err)
	}
	cfg := &config.Config{
		ListenAddr:     "localhost:0",
		DataDir:        st.Dir(),
		BackupOnImport: false,
		MaxUploadBytes: 10 << 20,
	}
	return NewServer(st, cfg), st
}

func formRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestAddAndListApplications(t *testing.T) {
	srv, st := newTestServer(t)

	form := url.Values{
		"company":      {"PChome"},
		"role_title":   {"Data Analyst"},
		"status":       {"Applied"},
		"date_applied": {"2025-08-20"},
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, formRequest(http.MethodPost, "/applications", form))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "PChome - Data Analyst (Applied)") {
		t.Errorf("response does not list the new entry: %s", rec.Body.String())
	}

	tbl, err := st.Load(domain.Applications)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(tbl.Rows))
	}
}

func TestAddRejectsInvalidRecord(t *testing.T) {
	srv, st := newTestServer(t)

	form := url.Values{"role_title": {"Data Analyst"}} // no company
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, formRequest(http.MethodPost, "/applications", form))

	if !strings.Contains(rec.Body.String(), "is required") {
		t.Errorf("expected a validation message, got: %s", rec.Body.String())
	}
	// The rejected value stays in the form.
	if !strings.Contains(rec.Body.String(), "Data Analyst") {
		t.Error("expected the submission to stick in the form")
	}

	tbl, _ := st.Load(domain.Applications)
	if len(tbl.Rows) != 0 {
		t.Errorf("invalid record was stored: %d rows", len(tbl.Rows))
	}
}

func TestEditCycle(t *testing.T) {
	srv, st := newTestServer(t)
	if err := st.Append(domain.Networking, map[string]string{
		"contact_name": "Sarah Chen",
		"company":      "PChome",
		"response":     "Pending",
	}); err != nil {
		t.Fatalf("Append() returned error: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/networking/0/edit", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Sarah Chen") {
		t.Fatalf("edit form missing current values: %d %s", rec.Code, rec.Body.String())
	}

	form := url.Values{
		"contact_name": {"Sarah Chen"},
		"company":      {"PChome"},
		"response":     {"Responded"},
	}
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, formRequest(http.MethodPut, "/networking/0", form))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	tbl, _ := st.Load(domain.Networking)
	if got := tbl.Record(tbl.Rows[0])["response"]; got != "Responded" {
		t.Errorf("expected updated response, got %q", got)
	}
}

func TestDeleteRow(t *testing.T) {
	srv, st := newTestServer(t)
	st.Append(domain.Companies, map[string]string{"company": "PChome"})
	st.Append(domain.Companies, map[string]string{"company": "Cathay"})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/companies/0", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	tbl, _ := st.Load(domain.Companies)
	if len(tbl.Rows) != 1 {
		t.Fatalf("expected 1 row after delete, got %d", len(tbl.Rows))
	}
	if got := tbl.Record(tbl.Rows[0])["company"]; got != "Cathay" {
		t.Errorf("wrong row deleted, remaining: %q", got)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/companies/5", nil))
	if rec.Code == http.StatusOK {
		t.Error("expected an error deleting a missing position")
	}
}

func TestExportCSV(t *testing.T) {
	srv, st := newTestServer(t)
	st.Append(domain.Applications, map[string]string{"company": "PChome", "role_title": "Analyst"})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/applications.csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("unexpected content type: %q", ct)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "applications_") {
		t.Errorf("unexpected disposition: %q", rec.Header().Get("Content-Disposition"))
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "date_applied,company,") || !strings.Contains(body, "PChome") {
		t.Errorf("unexpected CSV body: %q", body)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/resumes.csv", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown dataset, got %d", rec.Code)
	}
}

func TestExportWorkbook(t *testing.T) {
	srv, st := newTestServer(t)
	st.Append(domain.Interviews, map[string]string{"company": "PChome", "interview_type": "Final Round"})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/workbook.xlsx", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("exported workbook does not open: %v", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Interviews" {
		t.Errorf("expected only the Interviews sheet, got %v", sheets)
	}
}

func importRequest(t *testing.T, filename, content, mode, dataset string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() returned error: %v", err)
	}
	fw.Write([]byte(content))
	mw.WriteField("mode", mode)
	mw.WriteField("dataset", dataset)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportPreviewDoesNotWrite(t *testing.T) {
	srv, st := newTestServer(t)

	csvBody := "company,role_title\nPChome,Analyst\n"
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, importRequest(t, "applications.csv", csvBody, "preview", "auto"))

	if !strings.Contains(rec.Body.String(), "Preview only") {
		t.Errorf("expected a preview notice, got: %s", rec.Body.String())
	}
	tbl, _ := st.Load(domain.Applications)
	if len(tbl.Rows) != 0 {
		t.Errorf("preview wrote %d rows", len(tbl.Rows))
	}
}

func TestImportAppendAndReplace(t *testing.T) {
	srv, st := newTestServer(t)
	st.Append(domain.Applications, map[string]string{"company": "Existing", "role_title": "X"})

	csvBody := "company,role_title\nPChome,Analyst\nCathay,BI\n"
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, importRequest(t, "applications.csv", csvBody, "append", "applications"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	tbl, _ := st.Load(domain.Applications)
	if len(tbl.Rows) != 3 {
		t.Fatalf("expected 3 rows after append, got %d", len(tbl.Rows))
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, importRequest(t, "applications.csv", csvBody, "replace", "applications"))
	tbl, _ = st.Load(domain.Applications)
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows after replace, got %d", len(tbl.Rows))
	}
	if got := tbl.Record(tbl.Rows[0])["company"]; got != "PChome" {
		t.Errorf("unexpected first row after replace: %q", got)
	}
}

func TestImportRejectsUnknownFileType(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, importRequest(t, "notes.txt", "whatever", "append", "auto"))
	if !strings.Contains(rec.Body.String(), "Unsupported file type") {
		t.Errorf("expected an unsupported type message, got: %s", rec.Body.String())
	}
}

func TestBackupEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	st.Append(domain.Companies, map[string]string{"company": "PChome"})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/backup", nil))
	if !strings.Contains(rec.Body.String(), "Snapshot committed") {
		t.Errorf("expected a committed snapshot, got: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/backup", nil))
	if !strings.Contains(rec.Body.String(), "Nothing changed") {
		t.Errorf("expected a no-change notice, got: %s", rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/applications", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
