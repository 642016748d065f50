package monday

import (
	"strings"

	"github.com/ummah-scheduler/scheduler/src/api/types"
)

// Missing is substituted for absent or empty column values.
const Missing = "N/A"

// Board column ids as they appear on the intake form board.
const (
	ColumnEmail            = "email_mksanes7"
	ColumnPhone            = "phone_mksam3k4"
	ColumnIndustry         = "dropdown_mksazheg"
	ColumnAcademicStanding = "dropdown_mksank0m"
	ColumnLookingFor       = "dropdown_mksa2xnv"
	ColumnResume           = "files_1"
	ColumnHowTheyHeard     = "dropdown_mksatymx"
	ColumnAvailability     = "dropdown_mksddh69"
	ColumnTimeline         = "project_timeline"
	ColumnOtherInfo        = "text9"
	ColumnLastUpdated      = "last_updated"
)

type fieldMapping struct {
	column string
	assign func(s *types.Submission, v string)
}

// fieldTable maps board columns onto submission fields. Renamed or removed
// board columns only need a change here.
var fieldTable = []fieldMapping{
	{ColumnEmail, func(s *types.Submission, v string) { s.Email = v }},
	{ColumnPhone, func(s *types.Submission, v string) { s.Phone = v }},
	{ColumnIndustry, func(s *types.Submission, v string) { s.Industry = v }},
	{ColumnAcademicStanding, func(s *types.Submission, v string) { s.AcademicStanding = v }},
	{ColumnLookingFor, func(s *types.Submission, v string) { s.LookingFor = v }},
	{ColumnResume, func(s *types.Submission, v string) { s.Resume = v }},
	{ColumnHowTheyHeard, func(s *types.Submission, v string) { s.HowTheyHeard = v }},
	{ColumnAvailability, func(s *types.Submission, v string) { s.Availability = v }},
	{ColumnTimeline, func(s *types.Submission, v string) { s.Timeline = v }},
	{ColumnOtherInfo, func(s *types.Submission, v string) { s.OtherInfo = v }},
}

// Item is a board item as returned by the items_page query.
type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CreatedAt    string        `json:"created_at"`
	ColumnValues []ColumnValue `json:"column_values"`
}

type ColumnValue struct {
	ID    string  `json:"id"`
	Text  *string `json:"text"`
	Value *string `json:"value"`
}

// ParseItem flattens a board item into a Submission. It never fails: absent
// columns become Missing and an unreadable timestamp becomes epoch 0.
func ParseItem(item Item) types.Submission {
	columns := make(map[string]string, len(item.ColumnValues))
	for _, c := range item.ColumnValues {
		if c.Text != nil {
			columns[c.ID] = strings.TrimSpace(*c.Text)
		}
	}

	sub := types.Submission{
		ID:     item.ID,
		Name:   orMissing(strings.TrimSpace(item.Name)),
		Status: types.StatusToDo,
	}
	for _, f := range fieldTable {
		f.assign(&sub, orMissing(columns[f.column]))
	}

	submitted := columns[ColumnLastUpdated]
	if submitted == "" {
		submitted = item.CreatedAt
	}
	sub.SubmittedTS, sub.Submitted = NormalizeTimestamp(submitted)
	if sub.Submitted == "" {
		sub.Submitted = Missing
	}
	return sub
}

func orMissing(v string) string {
	if v == "" {
		return Missing
	}
	return v
}
