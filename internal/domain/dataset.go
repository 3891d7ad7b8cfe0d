package domain

import (
	"fmt"
	"strings"
)

// Dataset identifies one of the four flat tables the tracker manages.
// The value doubles as the URL path segment and the CSV file stem.
type Dataset string

const (
	Applications Dataset = "applications"
	Companies    Dataset = "companies"
	Networking   Dataset = "networking"
	Interviews   Dataset = "interviews"
)

// All returns the datasets in their canonical display order.
func All() []Dataset {
	return []Dataset{Applications, Companies, Networking, Interviews}
}

// Parse converts a path or form value into a Dataset.
func Parse(s string) (Dataset, error) {
	switch Dataset(strings.ToLower(strings.TrimSpace(s))) {
	case Applications:
		return Applications, nil
	case Companies:
		return Companies, nil
	case Networking:
		return Networking, nil
	case Interviews:
		return Interviews, nil
	}
	return "", fmt.Errorf("unknown dataset %q", s)
}

// FileName is the on-disk CSV file for the dataset.
func (d Dataset) FileName() string {
	return string(d) + ".csv"
}

// SheetName is the workbook sheet the dataset is exported to and
// imported from.
func (d Dataset) SheetName() string {
	switch d {
	case Applications:
		return "Applications"
	case Companies:
		return "Companies"
	case Networking:
		return "Networking"
	case Interviews:
		return "Interviews"
	}
	return string(d)
}

// Title is the human heading used in the UI.
func (d Dataset) Title() string {
	switch d {
	case Applications:
		return "Job Applications"
	case Companies:
		return "Company Research"
	case Networking:
		return "Networking Tracker"
	case Interviews:
		return "Interview Preparation"
	}
	return string(d)
}

// signatureColumns identify a dataset when a sheet's name gives nothing
// away. A single match is enough.
var signatureColumns = map[Dataset][]string{
	Applications: {"role_title", "job_link"},
	Companies:    {"industry", "glassdoor_rating"},
	Networking:   {"contact_name", "connection_type"},
	Interviews:   {"interview_type", "interviewer"},
}

// ClassifySheet maps an uploaded sheet to a dataset, first by sheet
// name, then by looking for signature columns in the header.
func ClassifySheet(name string, columns []string) (Dataset, bool) {
	lower := strings.ToLower(name)
	for _, d := range All() {
		if strings.Contains(lower, strings.ToLower(d.SheetName())) {
			return d, true
		}
	}

	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[strings.ToLower(strings.TrimSpace(c))] = true
	}
	for _, d := range All() {
		for _, sig := range signatureColumns[d] {
			if have[sig] {
				return d, true
			}
		}
	}
	return "", false
}
