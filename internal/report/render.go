package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/peercount/internal/model"
)

const (
	statusMeets     = "MEETS"
	statusNeedsMore = "NEEDS MORE"
	minContentWidth = 20
)

var (
	meetsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	needsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// Status returns the label used for a record's verdict.
func Status(rec model.ParticipationRecord) string {
	if rec.MeetsRequirement {
		return statusMeets
	}
	return statusNeedsMore
}

// RenderRanked prints the ranked participation table.
func RenderRanked(w io.Writer, rep Report, useColor bool) error {
	title := fmt.Sprintf("Participation (threshold %d, window %s)", rep.Threshold, rep.Window)
	if useColor {
		title = titleStyle.Render(title)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Posts: %d  Replies: %d\n", rep.Posts, rep.Replies); err != nil {
		return err
	}
	if len(rep.Ranked) == 0 {
		_, err := fmt.Fprintln(w, "No qualifying replies found.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Students: %d  Meeting: %d  Needs more: %d\n\n", len(rep.Ranked), rep.Meeting, rep.NotMeeting); err != nil {
		return err
	}

	status := column{title: "Status"}
	if useColor {
		status.style = func(row int, cell string) string {
			if rep.Ranked[row].MeetsRequirement {
				return meetsStyle.Render(cell)
			}
			return needsStyle.Render(cell)
		}
	}
	cols := []column{
		{title: "#", right: true},
		{title: "Student"},
		{title: "Distinct Peers", right: true},
		status,
	}
	rows := make([][]string, 0, len(rep.Ranked))
	for i, rec := range rep.Ranked {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			rec.Student,
			fmt.Sprintf("%d", rec.DistinctPeers),
			Status(rec),
		})
	}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderRecords prints one line per record.
func RenderRecords(w io.Writer, records []model.ParticipationRecord) error {
	for _, rec := range records {
		if _, err := fmt.Fprintln(w, rec.String()); err != nil {
			return err
		}
	}
	return nil
}

// RenderStudent prints a student's peers and authored replies. Reply content is
// truncated to fit width; width <= 0 disables truncation.
func RenderStudent(w io.Writer, d StudentDetail, width int) error {
	if _, err := fmt.Fprintf(w, "Student: %s\n", d.Student); err != nil {
		return err
	}
	verdict := fmt.Sprintf("Distinct peers answered: 0 (%s, threshold %d)", statusNeedsMore, d.Threshold)
	if d.Found {
		verdict = fmt.Sprintf("Distinct peers answered: %d (%s, threshold %d)", d.Record.DistinctPeers, Status(d.Record), d.Threshold)
	}
	if _, err := fmt.Fprintln(w, verdict); err != nil {
		return err
	}
	peers := "none"
	if len(d.Peers) > 0 {
		peers = strings.Join(d.Peers, ", ")
	}
	for _, line := range wrapText("Peers: "+peers, width) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Replies (%d)\n", len(d.Replies)); err != nil {
		return err
	}
	if len(d.Replies) == 0 {
		return nil
	}
	cols := []column{{title: "Date"}, {title: "Post"}, {title: "Content"}}
	rows := make([][]string, 0, len(d.Replies))
	for _, r := range d.Replies {
		post := d.PostTitles[r.PostID]
		if post == "" {
			post = r.PostID
		}
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			runewidth.Truncate(post, 24, "..."),
			oneLine(r.Content),
		})
	}
	for _, line := range formatTable(cols, rows) {
		if width > 0 {
			line = runewidth.Truncate(line, maxInt(width, minContentWidth), "...")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
