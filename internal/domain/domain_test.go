package domain_test

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/todo/internal/domain"
)

// ---------------------------------------------------------------------------
// 1. Validators.
// ---------------------------------------------------------------------------

func TestValidateTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "Buy milk", want: "Buy milk"},
		{name: "trims surrounding whitespace", input: "  Buy milk \t", want: "Buy milk"},
		{name: "keeps inner whitespace", input: "Buy  milk", want: "Buy  milk"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   \t\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := domain.ValidateTitle(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
				assert.Equal(t, "title cannot be empty", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDueDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    civil.Date
		wantErr bool
	}{
		{name: "valid date", input: "2025-12-31", want: civil.Date{Year: 2025, Month: time.December, Day: 31}},
		{name: "leap day", input: "2024-02-29", want: civil.Date{Year: 2024, Month: time.February, Day: 29}},
		{name: "not a leap year", input: "2025-02-29", wantErr: true},
		{name: "day out of range", input: "2025-04-31", wantErr: true},
		{name: "month out of range", input: "2025-13-01", wantErr: true},
		{name: "single digit month", input: "2025-1-05", wantErr: true},
		{name: "slashes", input: "2025/01/05", wantErr: true},
		{name: "with time", input: "2025-01-05T10:00:00", wantErr: true},
		{name: "garbage", input: "invalid-date", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := domain.ParseDueDate(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
				assert.Contains(t, err.Error(), "invalid date format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    domain.Priority
		wantErr bool
	}{
		{input: "low", want: domain.PriorityLow},
		{input: "med", want: domain.PriorityMed},
		{input: "high", want: domain.PriorityHigh},
		{input: "", want: domain.PriorityNone},
		{input: "HIGH", wantErr: true},
		{input: "medium", wantErr: true},
		{input: " low", wantErr: true},
		{input: "urgent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("input="+tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := domain.ParsePriority(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
				assert.Contains(t, err.Error(), "must be one of: low, med, high")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single", input: "work", want: []string{"work"}},
		{name: "trims segments", input: " work , home ", want: []string{"work", "home"}},
		{name: "drops empty segments", input: "work,,home,", want: []string{"work", "home"}},
		{name: "dedupes keeping first", input: "b,a,b,c,a", want: []string{"b", "a", "c"}},
		{name: "case preserved and distinct", input: "Work,work", want: []string{"Work", "work"}},
		{name: "empty", input: "", want: []string{}},
		{name: "only separators", input: " , ,, ", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, domain.ParseTags(tt.input))
		})
	}
}

// ---------------------------------------------------------------------------
// 2. Task.Validate and TaskPatch.Apply.
// ---------------------------------------------------------------------------

func validTask() *domain.Task {
	due := civil.Date{Year: 2025, Month: time.June, Day: 15}
	return &domain.Task{
		ID:        1,
		Title:     "Buy milk",
		Status:    domain.TaskStatusOpen,
		CreatedAt: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		Due:       &due,
		Priority:  domain.PriorityHigh,
		Tags:      []string{"home"},
	}
}

func TestTask_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*domain.Task)
		ok     bool
	}{
		{name: "valid", mutate: func(*domain.Task) {}, ok: true},
		{name: "zero id", mutate: func(t *domain.Task) { t.ID = 0 }},
		{name: "empty title", mutate: func(t *domain.Task) { t.Title = "  " }},
		{name: "untrimmed title", mutate: func(t *domain.Task) { t.Title = " x" }},
		{name: "bad status", mutate: func(t *domain.Task) { t.Status = "archived" }},
		{name: "zero created_at", mutate: func(t *domain.Task) { t.CreatedAt = time.Time{} }},
		{name: "bad priority", mutate: func(t *domain.Task) { t.Priority = "urgent" }},
		{name: "no priority", mutate: func(t *domain.Task) { t.Priority = domain.PriorityNone }, ok: true},
		{name: "no due date", mutate: func(t *domain.Task) { t.Due = nil }, ok: true},
		{name: "invalid due", mutate: func(t *domain.Task) { t.Due = &civil.Date{Year: 2025, Month: 2, Day: 30} }},
		{name: "empty tag", mutate: func(t *domain.Task) { t.Tags = []string{""} }},
		{name: "duplicate tag", mutate: func(t *domain.Task) { t.Tags = []string{"a", "a"} }},
		{name: "no tags", mutate: func(t *domain.Task) { t.Tags = []string{} }, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			task := validTask()
			tt.mutate(task)
			err := task.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestTask_Clone(t *testing.T) {
	t.Parallel()

	orig := validTask()
	c := orig.Clone()
	require.Equal(t, orig, c)

	c.Tags[0] = "changed"
	c.Due.Day = 1
	c.Title = "other"

	assert.Equal(t, []string{"home"}, orig.Tags)
	assert.Equal(t, 15, orig.Due.Day)
	assert.Equal(t, "Buy milk", orig.Title)
}

func TestTaskPatch_Apply(t *testing.T) {
	t.Parallel()

	newDue := civil.Date{Year: 2026, Month: time.March, Day: 3}

	tests := []struct {
		name    string
		patch   domain.TaskPatch
		check   func(t *testing.T, task *domain.Task)
		wantErr bool
	}{
		{
			name:  "empty patch keeps everything",
			patch: domain.TaskPatch{},
			check: func(t *testing.T, task *domain.Task) { assert.Equal(t, validTask(), task) },
		},
		{
			name:  "set title",
			patch: domain.TaskPatch{Title: domain.Set("Call mom")},
			check: func(t *testing.T, task *domain.Task) { assert.Equal(t, "Call mom", task.Title) },
		},
		{
			name:  "set due",
			patch: domain.TaskPatch{Due: domain.Set(newDue)},
			check: func(t *testing.T, task *domain.Task) { assert.Equal(t, &newDue, task.Due) },
		},
		{
			name:  "clear due",
			patch: domain.TaskPatch{Due: domain.Clear[civil.Date]()},
			check: func(t *testing.T, task *domain.Task) { assert.Nil(t, task.Due) },
		},
		{
			name:  "clear priority",
			patch: domain.TaskPatch{Priority: domain.Clear[domain.Priority]()},
			check: func(t *testing.T, task *domain.Task) { assert.Equal(t, domain.PriorityNone, task.Priority) },
		},
		{
			name:  "clear tags",
			patch: domain.TaskPatch{Tags: domain.Clear[[]string]()},
			check: func(t *testing.T, task *domain.Task) { assert.Empty(t, task.Tags) },
		},
		{
			name:  "set status",
			patch: domain.TaskPatch{Status: domain.Set(domain.TaskStatusDone)},
			check: func(t *testing.T, task *domain.Task) { assert.Equal(t, domain.TaskStatusDone, task.Status) },
		},
		{name: "clear title rejected", patch: domain.TaskPatch{Title: domain.Clear[string]()}, wantErr: true},
		{name: "clear status rejected", patch: domain.TaskPatch{Status: domain.Clear[domain.TaskStatus]()}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			task := validTask()
			err := tt.patch.Apply(task)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			tt.check(t, task)
		})
	}
}

func TestTaskPatch_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.TaskPatch{}.Empty())
	assert.False(t, domain.TaskPatch{Tags: domain.Clear[[]string]()}.Empty())
	assert.False(t, domain.TaskPatch{Title: domain.Set("x")}.Empty())
}

func TestPriority_Rank(t *testing.T) {
	t.Parallel()

	assert.Less(t, domain.PriorityHigh.Rank(), domain.PriorityMed.Rank())
	assert.Less(t, domain.PriorityMed.Rank(), domain.PriorityLow.Rank())
	assert.Less(t, domain.PriorityLow.Rank(), domain.PriorityNone.Rank())
}

// ---------------------------------------------------------------------------
// 3. Query parsing.
// ---------------------------------------------------------------------------

func TestParseStatusFilter(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]domain.StatusFilter{
		"":     domain.StatusFilterAll,
		"all":  domain.StatusFilterAll,
		"open": domain.StatusFilterOpen,
		"done": domain.StatusFilterDone,
	} {
		got, err := domain.ParseStatusFilter(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := domain.ParseStatusFilter("invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
}

func TestParseSortKey(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]domain.SortKey{
		"":         domain.SortCreated,
		"created":  domain.SortCreated,
		"due":      domain.SortDue,
		"priority": domain.SortPriority,
	} {
		got, err := domain.ParseSortKey(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := domain.ParseSortKey("title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sort")
}

func TestStatusFilter_Match(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.StatusFilterAll.Match(domain.TaskStatusOpen))
	assert.True(t, domain.StatusFilterAll.Match(domain.TaskStatusDone))
	assert.True(t, domain.StatusFilterOpen.Match(domain.TaskStatusOpen))
	assert.False(t, domain.StatusFilterOpen.Match(domain.TaskStatusDone))
	assert.True(t, domain.StatusFilterDone.Match(domain.TaskStatusDone))
	assert.False(t, domain.StatusFilterDone.Match(domain.TaskStatusOpen))
}

// ---------------------------------------------------------------------------
// 4. Error types: wrapping and messages.
// ---------------------------------------------------------------------------

func TestErrors(t *testing.T) {
	t.Parallel()

	verr := domain.NewValidationError("bad %s", "thing")
	assert.Equal(t, "bad thing", verr.Error())
	assert.ErrorIs(t, verr, domain.ErrValidation)
	assert.NotErrorIs(t, verr, domain.ErrNotFound)

	nf := &domain.NotFoundError{ID: 999}
	assert.Equal(t, "task with id 999 not found", nf.Error())
	assert.ErrorIs(t, nf, domain.ErrNotFound)

	var target *domain.NotFoundError
	require.True(t, errors.As(errors.Join(errors.New("ctx"), nf), &target))
	assert.Equal(t, 999, target.ID)

	assert.NotErrorIs(t, domain.ErrValidation, domain.ErrNotFound, "sentinel errors must be distinct")
}
