package session

import "strings"

const commandHelp = `Commands:
  add [title] [--due D] [--priority P] [--tag T]    Add a new task
  list [--status S] [--tag T] [--sort S]            List tasks
  show <id>                                         Show task details
  done <id>                                         Mark task as done
  reopen <id>                                       Reopen a task
  update <id> [--title T] [--due D] [--priority P] [--tag T]
                                                    Update a task
  delete <id> [-f]                                  Delete a task
  clear-done [-f]                                   Clear completed tasks
  help                                              Show this help
  quit                                              Exit

Use "none" with update to clear a due date, priority or tags.
`

// HelpText returns the command summary followed by the alias table.
func HelpText() string {
	pairs := make([]string, 0, len(Aliases))
	for _, a := range Aliases {
		pairs = append(pairs, a.Word+"="+string(a.Name))
	}
	return commandHelp + "\nAliases: " + strings.Join(pairs, ", ")
}
