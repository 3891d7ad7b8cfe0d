package web

import (
	"log"
	"math"
	"net/http"
	"sort"

	"github.com/ycliao/jobtrack/internal/domain"
	"github.com/ycliao/jobtrack/internal/store"
)

type statusCount struct {
	Status  string
	Count   int
	Percent int // of the largest bucket, for the bar width
}

type dashboardView struct {
	TotalApplications int
	Interviews        int
	Offers            int
	ResponseRate      float64
	StatusCounts      []statusCount
	Recent            []rowView
}

// handleDashboard renders the metrics overview.
func (s *Server) handleDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		apps, err := s.store.Load(domain.Applications)
		if err != nil {
			log.Printf("Error loading applications for dashboard: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.render(w, "dashboard", buildDashboard(apps))
	}
}

// buildDashboard derives the overview numbers from the applications
// table: interview and offer counts, the response rate (interviews
// plus offers over total, one decimal), the status distribution, and
// the five most recently applied entries.
func buildDashboard(apps *store.Table) dashboardView {
	var view dashboardView
	view.TotalApplications = len(apps.Rows)

	counts := make(map[string]int)
	for _, row := range apps.Rows {
		status := apps.Record(row)["status"]
		if status == "" {
			continue
		}
		counts[status]++
	}
	view.Interviews = counts["Interview"]
	view.Offers = counts["Offer"]

	if view.TotalApplications > 0 {
		rate := float64(view.Interviews+view.Offers) / float64(view.TotalApplications) * 100
		view.ResponseRate = math.Round(rate*10) / 10
	}

	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	for status, n := range counts {
		sc := statusCount{Status: status, Count: n}
		if max > 0 {
			sc.Percent = n * 100 / max
		}
		view.StatusCounts = append(view.StatusCounts, sc)
	}
	sort.Slice(view.StatusCounts, func(i, j int) bool {
		if view.StatusCounts[i].Count != view.StatusCounts[j].Count {
			return view.StatusCounts[i].Count > view.StatusCounts[j].Count
		}
		return view.StatusCounts[i].Status < view.StatusCounts[j].Status
	})

	view.Recent = recentApplications(apps, 5)
	return view
}

// recentApplications returns up to n rows sorted by date_applied
// descending. The dates are YYYY-MM-DD strings, so a plain string sort
// is a date sort; blank dates go last.
func recentApplications(apps *store.Table, n int) []rowView {
	order := make([]int, len(apps.Rows))
	for i := range order {
		order[i] = i
	}
	dateAt := func(i int) string {
		return apps.Record(apps.Rows[i])["date_applied"]
	}
	sort.SliceStable(order, func(a, b int) bool {
		da, db := dateAt(order[a]), dateAt(order[b])
		if (da == "") != (db == "") {
			return db == ""
		}
		return da > db
	})

	var out []rowView
	for _, i := range order {
		if len(out) == n {
			break
		}
		rec := apps.Record(apps.Rows[i])
		out = append(out, rowView{
			Index:    i,
			Headline: domain.Applications.Headline(rec),
			Pairs: []pairView{
				{Label: "Date Applied", Value: rec["date_applied"]},
				{Label: "Location", Value: rec["location"]},
				{Label: "Priority", Value: rec["priority"]},
			},
		})
	}
	return out
}
