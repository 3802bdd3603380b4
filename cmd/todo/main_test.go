package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/todo/internal/domain"
)

// invoke runs one process invocation with the given stdin.
func invoke(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	code = run(context.Background(), args, strings.NewReader(stdin), &out, &errOut, nil)
	return code, out.String(), errOut.String()
}

func TestRun_OneShotCommands(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "add", args: []string{"add", "Buy milk", "--priority", "high"}, wantCode: exitOK, wantStdout: "Added task 1: Buy milk\n"},
		{name: "add joins words", args: []string{"add", "Buy", "milk"}, wantCode: exitOK, wantStdout: "Added task 1: Buy milk\n"},
		{name: "list empty", args: []string{"list"}, wantCode: exitOK, wantStdout: "No tasks found.\n"},
		{name: "clear-done empty", args: []string{"clear-done"}, wantCode: exitOK, wantStdout: "Cleared 0 completed task(s)\n"},

		{name: "add empty title", args: []string{"add", "  "}, wantCode: exitValidation, wantStderr: "Error: title cannot be empty\n"},
		{name: "add bad date", args: []string{"add", "x", "--due", "2025-13-01"}, wantCode: exitValidation, wantStderr: "Error: invalid date format: \"2025-13-01\", expected YYYY-MM-DD\n"},
		{name: "add bad priority", args: []string{"add", "x", "--priority", "urgent"}, wantCode: exitValidation},
		{name: "add without title", args: []string{"add"}, wantCode: exitValidation},
		{name: "list bad status", args: []string{"list", "--status", "pending"}, wantCode: exitValidation},
		{name: "list bad sort", args: []string{"list", "--sort", "title"}, wantCode: exitValidation},
		{name: "unknown flag", args: []string{"list", "--colour"}, wantCode: exitValidation},
		{name: "non-integer id", args: []string{"done", "abc"}, wantCode: exitValidation, wantStderr: "Error: 'abc' is not a valid task ID\n"},
		{name: "unknown command", args: []string{"frobnicate"}, wantCode: exitValidation},
		{name: "no command", args: nil, wantCode: exitValidation},

		{name: "done missing", args: []string{"done", "1"}, wantCode: exitNotFound, wantStderr: "Error: task with id 1 not found\n"},
		{name: "show missing", args: []string{"show", "5"}, wantCode: exitNotFound},
		{name: "update missing", args: []string{"update", "5", "--title", "x"}, wantCode: exitNotFound},
		{name: "delete missing", args: []string{"delete", "5"}, wantCode: exitNotFound},
		{name: "reopen missing", args: []string{"reopen", "5"}, wantCode: exitNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, stdout, stderr := invoke(t, "", tc.args...)
			assert.Equal(t, tc.wantCode, code, "stderr: %s", stderr)
			if tc.wantStdout != "" {
				assert.Equal(t, tc.wantStdout, stdout)
			}
			if tc.wantStderr != "" {
				assert.Equal(t, tc.wantStderr, stderr)
			}
		})
	}
}

func TestRun_InvocationsDoNotShareState(t *testing.T) {
	code, _, _ := invoke(t, "", "add", "first")
	require.Equal(t, exitOK, code)

	code, stdout, _ := invoke(t, "", "add", "second")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "Added task 1: second\n", stdout)

	code, _, _ = invoke(t, "", "show", "1")
	assert.Equal(t, exitNotFound, code)
}

func TestRun_Shell(t *testing.T) {
	for _, sub := range []string{"shell", "menu"} {
		t.Run(sub, func(t *testing.T) {
			script := strings.Join([]string{
				`add "Buy milk" --tag home`,
				"a Walk dog --priority high",
				"x 1",
				"ls --sort priority",
				"update 2 --due none --title 'Walk the dog'",
				"rm 1",
				"y",
				"q",
			}, "\n") + "\n"

			code, stdout, _ := invoke(t, script, sub)
			require.Equal(t, exitOK, code)

			assert.Contains(t, stdout, "Todo Interactive Mode (type 'help' or 'quit')")
			assert.Contains(t, stdout, "Added task 1: Buy milk")
			assert.Contains(t, stdout, "Added task 2: Walk dog")
			assert.Contains(t, stdout, "Marked task 1 as done: Buy milk")
			assert.Less(t, strings.Index(stdout, "Walk dog ["), strings.Index(stdout, "Buy milk [home]"))
			assert.Contains(t, stdout, "Updated task 2: Walk the dog")
			assert.Contains(t, stdout, `Delete task 1 "Buy milk"? [y/N]: `)
			assert.Contains(t, stdout, "Deleted task 1")
			assert.Contains(t, stdout, "Goodbye!")
		})
	}
}

func TestRun_ShellEndOfInput(t *testing.T) {
	code, stdout, _ := invoke(t, "add\n", "shell")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Title: ")
	assert.Contains(t, stdout, "Cancelled.")
	assert.Contains(t, stdout, "Goodbye!")
}

func TestRun_CustomPrompt(t *testing.T) {
	t.Setenv("TODO_PROMPT", "tasks> ")

	code, stdout, _ := invoke(t, "quit\n", "shell")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "tasks> ")
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("TODO_LOG_FORMAT", "xml")

	code, _, stderr := invoke(t, "", "list")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "TODO_LOG_FORMAT")
}

func TestRun_PublishesEventsToRedis(t *testing.T) {
	m, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	client := goredis.NewClient(&goredis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sub := client.Subscribe(context.Background(), "todo:test")
	t.Cleanup(func() { _ = sub.Close() })
	_, err = sub.Receive(context.Background())
	require.NoError(t, err)

	t.Setenv("TODO_REDIS_ADDR", m.Addr())
	t.Setenv("TODO_REDIS_CHANNEL", "todo:test")

	code, _, _ := invoke(t, "", "add", "Buy milk")
	require.Equal(t, exitOK, code)

	select {
	case msg := <-sub.Channel():
		var ev domain.TaskEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, domain.EventTaskCreated, ev.Type)
		assert.Equal(t, 1, ev.TaskID)
		require.NotNil(t, ev.Task)
		assert.Equal(t, "Buy milk", ev.Task.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestRun_EventJournal(t *testing.T) {
	t.Setenv("TODO_EVENT_LOG", "true")
	t.Setenv("TODO_LOG_LEVEL", "info")
	t.Setenv("TODO_LOG_FORMAT", "json")

	code, _, stderr := invoke(t, "", "add", "Buy milk")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stderr, `"event":"task.created"`)
	assert.Contains(t, stderr, `"task_id":1`)
	assert.Contains(t, stderr, `"session_id":`)
}

func TestRun_ServiceLogsCarrySessionID(t *testing.T) {
	t.Setenv("TODO_LOG_LEVEL", "debug")
	t.Setenv("TODO_LOG_FORMAT", "json")

	code, _, stderr := invoke(t, "", "add", "Buy milk")
	require.Equal(t, exitOK, code)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		if rec["message"] == "task created" {
			found = true
			assert.NotEmpty(t, rec["session_id"])
			assert.Equal(t, "add", rec["op"])
		}
	}
	assert.True(t, found, "no task created record in %q", stderr)
}

func TestRun_UnreachableRedisIsNotFatal(t *testing.T) {
	t.Setenv("TODO_REDIS_ADDR", "127.0.0.1:1")
	t.Setenv("TODO_REDIS_TIMEOUT", "200ms")

	code, stdout, _ := invoke(t, "", "add", "Buy milk")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "Added task 1: Buy milk\n", stdout)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitOK},
		{name: "validation", err: domain.NewValidationError("bad"), want: exitValidation},
		{name: "usage", err: usageErrorf("bad flag"), want: exitValidation},
		{name: "not found", err: &domain.NotFoundError{ID: 1}, want: exitNotFound},
		{name: "other", err: errors.New("boom"), want: exitFailure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCode(tc.err))
		})
	}
}
