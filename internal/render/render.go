// Package render formats tasks as text for the terminal front ends.
package render

import (
	"fmt"
	"strings"

	"github.com/gosuda/todo/internal/domain"
)

const (
	none        = "none"
	createdTime = "2006-01-02 15:04:05 UTC"
)

// Table renders tasks one per row under a header. An empty slice renders
// as a single "No tasks found." line.
func Table(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return "No tasks found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%3s %-3s %-4s %-10s %-30s %s\n", "ID", "STS", "PRI", "DUE", "TITLE", "TAGS")
	b.WriteString(strings.Repeat("-", 70))
	for _, t := range tasks {
		b.WriteByte('\n')
		b.WriteString(Row(t))
	}
	return b.String()
}

// Row renders one table row.
func Row(t *domain.Task) string {
	status := "[ ]"
	if t.Status == domain.TaskStatusDone {
		status = "[x]"
	}
	pri := "-"
	if t.Priority != domain.PriorityNone {
		pri = strings.ToUpper(string(t.Priority))
	}
	due := "-"
	if t.Due != nil {
		due = t.Due.String()
	}
	tags := "-"
	if len(t.Tags) > 0 {
		tags = strings.Join(t.Tags, ",")
	}
	return fmt.Sprintf("%3d %s %-4s %-10s %s [%s]", t.ID, status, pri, due, t.Title, tags)
}

// Detail renders every field of a task as a labelled block.
func Detail(t *domain.Task) string {
	return fmt.Sprintf("Task #%d\n"+
		"  Title:    %s\n"+
		"  Status:   %s\n"+
		"  Priority: %s\n"+
		"  Due:      %s\n"+
		"  Tags:     %s\n"+
		"  Created:  %s",
		t.ID, t.Title, t.Status, Priority(t), Due(t), strings.Join(TagsOr(t, none), ", "),
		t.CreatedAt.UTC().Format(createdTime))
}

// Summary is the one-line "Current:" description shown before a guided update.
func Summary(t *domain.Task) string {
	return fmt.Sprintf("%s (%s, due: %s, priority: %s, tags: %s)",
		t.Title, t.Status, Due(t), Priority(t), strings.Join(TagsOr(t, none), ","))
}

// Due returns the due date or "none".
func Due(t *domain.Task) string {
	if t.Due == nil {
		return none
	}
	return t.Due.String()
}

// Priority returns the priority or "none".
func Priority(t *domain.Task) string {
	if t.Priority == domain.PriorityNone {
		return none
	}
	return string(t.Priority)
}

// TagsOr returns the tags, or a single fallback element when there are none.
func TagsOr(t *domain.Task, fallback string) []string {
	if len(t.Tags) == 0 {
		return []string{fallback}
	}
	return t.Tags
}
