package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/riseflow/pkg/domain"
)

// CommandKind identifies what a line of input asks for.
type CommandKind int

const (
	CmdRefresh CommandKind = iota
	CmdFollow
	CmdGo
	CmdBack
	CmdReset
	CmdHome
	CmdJump
	CmdSearch
	CmdQuick
	CmdShare
	CmdInstall
	CmdHelp
	CmdQuit
)

// Command is a parsed input line.
type Command struct {
	Kind  CommandKind
	Index int         // CmdFollow (zero-based edge or result), CmdJump (breadcrumb)
	ID    string      // CmdGo
	Query string      // CmdSearch
	Role  domain.Role // CmdQuick
}

// ErrUnknownCommand is returned for input ParseCommand does not understand.
var ErrUnknownCommand = errors.New("unknown command")

// ParseCommand turns an input line into a Command.
//
//	(empty)     redraw
//	N           follow option N (1-based), or open result N while searching
//	go ID       open node ID
//	b, back     go back
//	r, reset    start over at home
//	h, home     push home
//	j N         jump to breadcrumb N
//	/text       search; "/" alone clears
//	ct, ht, dp  quick jump to a role's entry point
//	share       print the share link
//	install     show the install prompt
//	?, help     list commands
//	q, quit     exit
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "/") {
		return Command{Kind: CmdSearch, Query: strings.TrimSpace(line[1:])}, nil
	}

	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{Kind: CmdRefresh}, nil
	}

	if n, err := strconv.Atoi(fields[0]); err == nil && len(fields) == 1 {
		if n < 1 {
			return Command{}, fmt.Errorf("%w: option numbers start at 1", ErrUnknownCommand)
		}
		return Command{Kind: CmdFollow, Index: n - 1}, nil
	}

	switch fields[0] {
	case "go", "g":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: usage: go ID", ErrUnknownCommand)
		}
		return Command{Kind: CmdGo, ID: fields[1]}, nil
	case "b", "back":
		return Command{Kind: CmdBack}, nil
	case "r", "reset":
		return Command{Kind: CmdReset}, nil
	case "h", "home":
		return Command{Kind: CmdHome}, nil
	case "j", "jump":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: usage: j N", ErrUnknownCommand)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("%w: usage: j N", ErrUnknownCommand)
		}
		return Command{Kind: CmdJump, Index: n}, nil
	case "ct", "ht", "dp":
		role, err := domain.ParseRole(fields[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdQuick, Role: role}, nil
	case "share":
		return Command{Kind: CmdShare}, nil
	case "install":
		return Command{Kind: CmdInstall}, nil
	case "?", "help":
		return Command{Kind: CmdHelp}, nil
	case "q", "quit", "exit":
		return Command{Kind: CmdQuit}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
}

// HelpText lists the commands for users.
const HelpText = `Commands:
  N        follow option N (open result N while searching)
  go ID    open node ID
  b        back          r   reset to home      h  home
  j N      jump to breadcrumb N
  /text    search        /   clear search
  ct ht dp jump to Classroom Teacher, Head Teacher or Deputy Principal
  share    show the share link
  install  install as an app (when offered)
  q        quit`
