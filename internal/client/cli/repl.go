package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Admin(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL reads commands from reader and dispatches them to a until EOF,
// "exit"/"quit" or ctx cancellation. Command errors are printed and the loop
// carries on.
//
//	Not logged in:  help, register, login, status, exit
//	Logged in:      help, whoami, admin, status, logout, exit
//
// Command handlers prompt on the same reader, so it must not be wrapped in
// another buffering layer.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("auth%s> ", prefixed(statusFn())))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		err = nil
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, admin, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, status, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami", "me":
			err = a.WhoAmI(ctx)

		case "admin":
			err = a.Admin(ctx)

		case "status":
			err = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

func prefixed(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
