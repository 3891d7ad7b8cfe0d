package domain

import "fmt"

// Kind selects the form control rendered for a field.
type Kind string

const (
	Text     Kind = "text"
	TextArea Kind = "textarea"
	Date     Kind = "date"
	URL      Kind = "url"
	Select   Kind = "select"
)

// Field describes one column of a dataset: its CSV header name, how it
// is rendered in a form, and how submitted values are validated.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Options     []string
	Required    bool
	Placeholder string
}

var applicationFields = []Field{
	{Name: "date_applied", Label: "Date Applied", Kind: Date},
	{Name: "company", Label: "Company", Kind: Text, Required: true, Placeholder: "e.g., Cathay Financial"},
	{Name: "role_title", Label: "Role Title", Kind: Text, Required: true, Placeholder: "e.g., Data Analyst"},
	{Name: "job_link", Label: "Job Link", Kind: URL, Placeholder: "https://104.com.tw/job/..."},
	{Name: "status", Label: "Status", Kind: Select, Options: []string{"Applied", "Interview", "Rejected", "Offer", "Follow-up"}},
	{Name: "priority", Label: "Priority", Kind: Select, Options: []string{"High", "Medium", "Low"}},
	{Name: "salary_range", Label: "Salary Range", Kind: Text, Placeholder: "NT$800K-1.2M"},
	{Name: "location", Label: "Location", Kind: Text, Placeholder: "Taipei, Remote, Hybrid"},
	{Name: "next_action", Label: "Next Action", Kind: Text, Placeholder: "Follow up, Prepare interview"},
	{Name: "follow_up_date", Label: "Follow-up Date", Kind: Date},
	{Name: "notes", Label: "Notes", Kind: TextArea, Placeholder: "Requirements, contact info, etc."},
}

var companyFields = []Field{
	{Name: "company", Label: "Company", Kind: Text, Required: true},
	{Name: "industry", Label: "Industry", Kind: Text, Placeholder: "e.g., Fintech/Banking"},
	{Name: "size", Label: "Company Size", Kind: Select, Options: []string{"<50", "50-200", "200-1000", "1000-5000", "5000+", "10,000+"}},
	{Name: "tech_stack", Label: "Tech Stack", Kind: Text, Placeholder: "SQL, Tableau, Python"},
	{Name: "culture_notes", Label: "Culture Notes", Kind: Text},
	{Name: "glassdoor_rating", Label: "Glassdoor Rating", Kind: Select, Options: []string{"1.0/5", "1.5/5", "2.0/5", "2.5/5", "3.0/5", "3.5/5", "4.0/5", "4.5/5", "5.0/5"}},
	{Name: "key_contacts", Label: "Key Contacts", Kind: Text, Placeholder: "Name (Position)"},
	{Name: "open_roles", Label: "Open Roles", Kind: Text},
	{Name: "applied_status", Label: "Applied Status", Kind: Select, Options: []string{"Not yet", "Target", "Applied"}},
}

var networkingFields = []Field{
	{Name: "contact_name", Label: "Contact Name", Kind: Text, Required: true},
	{Name: "company", Label: "Company", Kind: Text},
	{Name: "position", Label: "Position", Kind: Text},
	{Name: "connection_type", Label: "Connection Type", Kind: Select, Options: []string{"LinkedIn", "Alumni", "Referral", "Cold Outreach", "Meetup", "Conference"}},
	{Name: "contact_date", Label: "Contact Date", Kind: Date},
	{Name: "response", Label: "Response", Kind: Select, Options: []string{"Responded", "No response", "Pending"}},
	{Name: "meeting_scheduled", Label: "Meeting Scheduled", Kind: Text, Placeholder: "2025-08-21 10:00 AM"},
	{Name: "follow_up_action", Label: "Follow-up Action", Kind: Text, Placeholder: "Send thank you, Ask for referral"},
	{Name: "notes", Label: "Notes", Kind: TextArea},
}

var interviewFields = []Field{
	{Name: "company", Label: "Company", Kind: Text, Required: true},
	{Name: "interview_date", Label: "Interview Date & Time", Kind: Text, Placeholder: "2025-08-22 2:00 PM"},
	{Name: "interview_type", Label: "Interview Type", Kind: Select, Options: []string{"1st Round - HR", "2nd Round - Technical", "3rd Round - Manager", "Final Round", "Case Study", "Panel Interview"}},
	{Name: "interviewer", Label: "Interviewer(s)", Kind: Text},
	{Name: "prep_status", Label: "Prep Status", Kind: Select, Options: []string{"Ready", "In progress", "Need work"}},
	{Name: "key_topics", Label: "Key Topics to Cover", Kind: Text},
	{Name: "questions_to_ask", Label: "Questions to Ask", Kind: Text},
	{Name: "outcome", Label: "Outcome", Kind: Select, Options: []string{"", "Positive", "Neutral", "Negative"}},
	{Name: "next_steps", Label: "Next Steps", Kind: TextArea},
}

// Schema returns the ordered field definitions for a dataset.
func (d Dataset) Schema() []Field {
	switch d {
	case Applications:
		return applicationFields
	case Companies:
		return companyFields
	case Networking:
		return networkingFields
	case Interviews:
		return interviewFields
	}
	return nil
}

// Columns returns the CSV header for a dataset in schema order.
func (d Dataset) Columns() []string {
	schema := d.Schema()
	cols := make([]string, len(schema))
	for i, f := range schema {
		cols[i] = f.Name
	}
	return cols
}

// DateColumns lists the fields that are coerced to YYYY-MM-DD on import.
func (d Dataset) DateColumns() []string {
	var cols []string
	for _, f := range d.Schema() {
		if f.Kind == Date {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// Headline is the one-line summary shown for a collapsed row.
func (d Dataset) Headline(rec map[string]string) string {
	switch d {
	case Applications:
		return fmt.Sprintf("%s - %s (%s)", rec["company"], rec["role_title"], rec["status"])
	case Companies:
		return fmt.Sprintf("%s - %s (%s)", rec["company"], rec["industry"], rec["applied_status"])
	case Networking:
		return fmt.Sprintf("%s (%s) - %s", rec["contact_name"], rec["company"], rec["response"])
	case Interviews:
		return fmt.Sprintf("%s - %s (%s)", rec["company"], rec["interview_type"], rec["prep_status"])
	}
	return ""
}
