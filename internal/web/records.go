package web

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/ycliao/jobtrack/internal/domain"
)

type fieldView struct {
	domain.Field
	Value string
	Error string
}

// Control names the form control for the template; templates cannot
// compare the typed Kind against a string literal directly.
func (v fieldView) Control() string {
	return string(v.Kind)
}

type pairView struct {
	Label  string
	Value  string
	IsLink bool
}

type rowView struct {
	Index    int
	Headline string
	Pairs    []pairView
}

type formView struct {
	Dataset string
	Action  string
	Method  string // "post" or "put"
	Fields  []fieldView
}

type sectionView struct {
	Dataset string
	Title   string
	Count   int
	Flash   string
	Problem string
	Form    formView
	Rows    []rowView
}

// handleDataset serves a dataset section: GET renders it, POST appends
// a new record through the add form.
func (s *Server) handleDataset(d domain.Dataset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.renderSection(w, d, nil, nil, "", "")
		case http.MethodPost:
			s.handleAddRecord(w, r, d)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request, d domain.Dataset) {
	rec := recordFromForm(d, r)
	if problems := d.ValidateRecord(rec); len(problems) > 0 {
		// Re-render the section with the submission kept in the form.
		s.renderSection(w, d, rec, problems, "", "Please fix the highlighted fields")
		return
	}

	if err := s.store.Append(d, rec); err != nil {
		log.Printf("Error appending to %s: %v", d, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.renderSection(w, d, nil, nil, fmt.Sprintf("Added entry: %s", d.Headline(rec)), "")
}

// handleDatasetRow covers the per-row edit cycle: GET .../{idx}/edit
// renders the edit form, PUT .../{idx} saves it, DELETE .../{idx}
// removes the row.
func (s *Server) handleDatasetRow(d domain.Dataset) http.HandlerFunc {
	prefix := "/" + string(d) + "/"
	return func(w http.ResponseWriter, r *http.Request) {
		idx, tail, err := rowIndex(r.URL.Path, prefix)
		if err != nil {
			http.Error(w, "Invalid entry position", http.StatusBadRequest)
			return
		}

		switch {
		case r.Method == http.MethodGet && tail == "edit":
			s.handleEditForm(w, r, d, idx)
		case r.Method == http.MethodPut && tail == "":
			s.handleUpdateRecord(w, r, d, idx)
		case r.Method == http.MethodDelete && tail == "":
			s.handleDeleteRecord(w, d, idx)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request, d domain.Dataset, idx int) {
	t, err := s.store.Load(d)
	if err != nil {
		log.Printf("Error loading %s: %v", d, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if idx < 0 || idx >= len(t.Rows) {
		http.NotFound(w, r)
		return
	}
	rec := t.Record(t.Rows[idx])
	form := buildForm(d, rec, nil)
	form.Action = fmt.Sprintf("/%s/%d", d, idx)
	form.Method = "put"
	s.render(w, "edit_row", form)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request, d domain.Dataset, idx int) {
	rec := recordFromForm(d, r)
	if problems := d.ValidateRecord(rec); len(problems) > 0 {
		form := buildForm(d, rec, problems)
		form.Action = fmt.Sprintf("/%s/%d", d, idx)
		form.Method = "put"
		s.render(w, "edit_row", form)
		return
	}

	if err := s.store.Update(d, idx, rec); err != nil {
		log.Printf("Error updating %s row %d: %v", d, idx, err)
		http.Error(w, "Could not save changes", http.StatusBadRequest)
		return
	}
	s.renderSection(w, d, nil, nil, "Changes saved", "")
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, d domain.Dataset, idx int) {
	if err := s.store.Delete(d, idx); err != nil {
		log.Printf("Error deleting %s row %d: %v", d, idx, err)
		http.Error(w, "Could not delete entry", http.StatusBadRequest)
		return
	}
	s.renderSection(w, d, nil, nil, "Deleted entry", "")
}

// renderSection rebuilds and renders a whole dataset section. formRec
// and problems carry a rejected submission back into the add form.
func (s *Server) renderSection(w http.ResponseWriter, d domain.Dataset, formRec map[string]string, problems map[string]string, flash, problem string) {
	t, err := s.store.Load(d)
	if err != nil {
		log.Printf("Error loading %s: %v", d, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view := sectionView{
		Dataset: string(d),
		Title:   d.Title(),
		Count:   len(t.Rows),
		Flash:   flash,
		Problem: problem,
		Form:    buildForm(d, formRec, problems),
	}
	view.Form.Action = "/" + string(d)
	view.Form.Method = "post"

	schema := d.Schema()
	for i, row := range t.Rows {
		rec := t.Record(row)
		rv := rowView{Index: i, Headline: d.Headline(rec)}
		for _, f := range schema {
			v := rec[f.Name]
			if v == "" {
				continue
			}
			rv.Pairs = append(rv.Pairs, pairView{
				Label:  f.Label,
				Value:  v,
				IsLink: f.Kind == domain.URL && strings.HasPrefix(v, "http"),
			})
		}
		view.Rows = append(view.Rows, rv)
	}

	s.render(w, "section", view)
}

func buildForm(d domain.Dataset, rec map[string]string, problems map[string]string) formView {
	form := formView{Dataset: string(d)}
	for _, f := range d.Schema() {
		fv := fieldView{Field: f}
		if rec != nil {
			fv.Value = rec[f.Name]
		}
		if problems != nil {
			fv.Error = problems[f.Name]
		}
		form.Fields = append(form.Fields, fv)
	}
	return form
}

func recordFromForm(d domain.Dataset, r *http.Request) map[string]string {
	rec := make(map[string]string)
	for _, f := range d.Schema() {
		rec[f.Name] = strings.TrimSpace(r.PostFormValue(f.Name))
	}
	return rec
}
