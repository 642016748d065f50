package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ummah-scheduler/scheduler/src/api/types"
	"github.com/ummah-scheduler/scheduler/src/discord"
	"github.com/ummah-scheduler/scheduler/src/monday"
)

var strict = bluemonday.StrictPolicy()

// clean strips markup a form user may have typed and keeps the text readable.
func clean(v string) string {
	v = strings.TrimSpace(html.UnescapeString(strict.Sanitize(v)))
	if v == "" {
		return monday.Missing
	}
	return v
}

// Render formats a submission as a Discord message linking back to the
// scheduler frontend.
func Render(s types.Submission, frontendURL string) string {
	var b strings.Builder
	b.WriteString("**New Career-Prep Submission**\n")
	line := func(label, value string) {
		fmt.Fprintf(&b, "**%s:** %s\n", label, clean(value))
	}
	line("Name", s.Name)
	line("Email", s.Email)
	line("Phone", s.Phone)
	line("Industry", s.Industry)
	line("Academic Standing", s.AcademicStanding)
	line("Looking For", s.LookingFor)
	line("Resume", s.Resume)
	line("How They Heard", s.HowTheyHeard)
	line("Weekly Availability", s.Availability)
	line("Preferred Times", s.Timeline)
	line("Other Info", s.OtherInfo)
	line("Submitted", s.Submitted)
	if frontendURL != "" {
		fmt.Fprintf(&b, "[View in Scheduler Tool](%s)\n", frontendURL)
	}
	return discord.Truncate(discord.WrapURLsNoEmbed(b.String()))
}
