package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/dto"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printUsers(w io.Writer, users ...dto.UserDTO) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tEMAIL\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Email, u.CreatedAt.Format(time.RFC3339))
	}
	tw.Flush()
}

func printTaskList(w io.Writer, list *dto.TaskListResponse) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tASSIGNEE\tCREATED")
	for _, t := range list.Data {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, userLabel(t.Author, t.AuthorID), userLabel(t.Assignee, t.AssigneeID),
			t.CreatedAt.Format(time.RFC3339))
	}
	tw.Flush()

	m := list.Meta
	fmt.Fprintf(w, "Page %d of %d (%d tasks, %d per page)\n", m.Page, m.TotalPages, m.Total, m.Limit)
}

func printTask(w io.Writer, t *dto.TaskDTO) {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%d\n", t.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", t.Title)
	description := "-"
	if t.Description != nil {
		description = strings.ReplaceAll(*t.Description, "\n", " ")
	}
	fmt.Fprintf(tw, "Description:\t%s\n", description)
	fmt.Fprintf(tw, "Author:\t%s\n", userLabel(t.Author, t.AuthorID))
	fmt.Fprintf(tw, "Assignee:\t%s\n", userLabel(t.Assignee, t.AssigneeID))
	fmt.Fprintf(tw, "Created:\t%s\n", t.CreatedAt.Format(time.RFC3339))
	tw.Flush()
}

func printDrafts(w io.Writer, drafts []dto.TaskDraftDTO) {
	if len(drafts) == 0 {
		fmt.Fprintln(w, "No tasks suggested")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tTITLE\tDESCRIPTION")
	for i, d := range drafts {
		description := "-"
		if d.Description != nil {
			description = *d.Description
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, d.Title, description)
	}
	tw.Flush()
}

func userLabel(u *dto.UserDTO, id uint64) string {
	if u == nil {
		return fmt.Sprintf("#%d", id)
	}
	return fmt.Sprintf("%s (#%d)", u.Email, u.ID)
}
