package web

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ycliao/jobtrack/internal/backup"
	"github.com/ycliao/jobtrack/internal/domain"
	"github.com/ycliao/jobtrack/internal/sheet"
	"github.com/ycliao/jobtrack/internal/store"
)

type datasetCount struct {
	Dataset string
	Title   string
	Count   int
}

type dataPageView struct {
	Counts []datasetCount
}

type importItem struct {
	Title   string
	Count   int
	Columns []string
	Head    [][]string
}

type importView struct {
	Mode    string
	Preview bool
	Items   []importItem
	Total   int
	Problem string
}

// handleDataPage renders the data management section with the per
// dataset record counts, export links, and the import form.
func (s *Server) handleDataPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var view dataPageView
		for _, d := range domain.All() {
			t, err := s.store.Load(d)
			if err != nil {
				log.Printf("Error loading %s: %v", d, err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			view.Counts = append(view.Counts, datasetCount{
				Dataset: string(d),
				Title:   d.SheetName(),
				Count:   len(t.Rows),
			})
		}
		s.render(w, "data", view)
	}
}

// handlePostImport accepts an uploaded workbook or CSV and applies it
// in one of three modes: replace, append, or preview.
func (s *Server) handlePostImport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
		if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
			s.render(w, "import_result", importView{Problem: "The file is too large or the upload was malformed"})
			return
		}

		mode := r.FormValue("mode")
		if mode != "replace" && mode != "append" {
			mode = "preview"
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			s.render(w, "import_result", importView{Mode: mode, Problem: "Choose a file to import"})
			return
		}
		defer file.Close()

		tables, problem := s.readUpload(file, header.Filename, r.FormValue("dataset"))
		if problem != "" {
			s.render(w, "import_result", importView{Mode: mode, Problem: problem})
			return
		}
		if len(tables) == 0 {
			s.render(w, "import_result", importView{Mode: mode, Problem: "No recognizable data found in the file"})
			return
		}

		view := importView{Mode: mode, Preview: mode == "preview"}
		for _, d := range domain.All() {
			t, ok := tables[d]
			if !ok {
				continue
			}
			item := importItem{Title: d.SheetName(), Count: len(t.Rows), Columns: t.Columns}
			for i := 0; i < len(t.Rows) && i < 5; i++ {
				item.Head = append(item.Head, t.Rows[i])
			}
			view.Items = append(view.Items, item)
			view.Total += len(t.Rows)

			if mode == "preview" {
				continue
			}
			var applyErr error
			if mode == "replace" {
				applyErr = s.store.Replace(d, t)
			} else {
				applyErr = s.store.AppendAll(d, t)
			}
			if applyErr != nil {
				log.Printf("Error importing %s: %v", d, applyErr)
				view.Problem = fmt.Sprintf("Error importing %s: %v", d.SheetName(), applyErr)
			}
		}

		if mode != "preview" && view.Problem == "" && s.cfg.BackupOnImport {
			if _, err := backup.Snapshot(s.store.Dir(), "snapshot after import"); err != nil {
				log.Printf("Error taking backup snapshot after import: %v", err)
			}
		}
		s.render(w, "import_result", view)
	}
}

// readUpload turns the uploaded file into reconciled tables. A chosen
// dataset pins a CSV (or filters a workbook) to that dataset; "auto"
// classifies by sheet or file name and columns.
func (s *Server) readUpload(file io.Reader, filename, chosen string) (map[domain.Dataset]*store.Table, string) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		raw, err := sheet.ReadCSV(file)
		if err != nil {
			return nil, fmt.Sprintf("Could not read the CSV file: %v", err)
		}
		d, err := resolveDataset(chosen, filename, raw.Columns)
		if err != nil {
			return nil, err.Error()
		}
		return map[domain.Dataset]*store.Table{d: sheet.Reconcile(raw, d)}, ""
	case ".xlsx", ".xlsm":
		tables, _, err := sheet.ReadWorkbook(file)
		if err != nil {
			return nil, fmt.Sprintf("Could not read the workbook: %v", err)
		}
		if chosen != "" && chosen != "auto" {
			d, err := domain.Parse(chosen)
			if err != nil {
				return nil, err.Error()
			}
			if t, ok := tables[d]; ok {
				return map[domain.Dataset]*store.Table{d: t}, ""
			}
			return nil, fmt.Sprintf("The workbook has no %s data", d.SheetName())
		}
		return tables, ""
	}
	return nil, "Unsupported file type; upload a .xlsx workbook or a .csv file"
}

func resolveDataset(chosen, filename string, columns []string) (domain.Dataset, error) {
	if chosen != "" && chosen != "auto" {
		return domain.Parse(chosen)
	}
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if d, ok := domain.ClassifySheet(stem, columns); ok {
		return d, nil
	}
	return "", fmt.Errorf("could not tell which dataset %q belongs to; pick one explicitly", filename)
}

// handleExportWorkbook streams all non-empty datasets as one workbook.
func (s *Server) handleExportWorkbook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tables := make(map[domain.Dataset]*store.Table)
		for _, d := range domain.All() {
			t, err := s.store.Load(d)
			if err != nil {
				log.Printf("Error loading %s for export: %v", d, err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			tables[d] = t
		}

		filename := fmt.Sprintf("job_search_backup_%s.xlsx", time.Now().Format("20060102_1504"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := sheet.WriteWorkbook(w, tables); err != nil {
			log.Printf("Error writing workbook export: %v", err)
		}
	}
}

// handleExportCSV streams a single dataset, path /export/{dataset}.csv.
func (s *Server) handleExportCSV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/export/"), ".csv")
		d, err := domain.Parse(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		t, err := s.store.Load(d)
		if err != nil {
			log.Printf("Error loading %s for export: %v", d, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("%s_%s.csv", d, time.Now().Format("20060102"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		cw := csv.NewWriter(w)
		if err := cw.Write(t.Columns); err == nil {
			cw.WriteAll(t.Rows)
		}
		cw.Flush()
	}
}

// handlePostBackup commits a manual snapshot of the data directory.
func (s *Server) handlePostBackup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		hash, err := backup.Snapshot(s.store.Dir(), "manual snapshot "+time.Now().Format(time.RFC3339))
		if err != nil {
			log.Printf("Error taking backup snapshot: %v", err)
			s.render(w, "backup_result", map[string]string{"Problem": "Backup failed; see the server log"})
			return
		}
		if hash == "" {
			s.render(w, "backup_result", map[string]string{"Message": "Nothing changed since the last snapshot"})
			return
		}
		s.render(w, "backup_result", map[string]string{"Message": "Snapshot committed: " + hash[:8]})
	}
}
