// Command lyskom-cli is the credential-prompt / chat example spec.md
// names as an external, optional collaborator: connect, log in, and
// offer a small REPL over a single Session.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petli/node-lyskom-client"
	"github.com/petli/node-lyskom-client/internal/env"
	"github.com/petli/node-lyskom-client/schema"
)

func main() {
	root := &cobra.Command{
		Use:   "lyskom-cli",
		Short: "Connect to a LysKOM server and chat from a REPL",
		RunE:  run,
	}
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lyskom-cli:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := env.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	fmt.Printf("Connecting to %s...\n", addr)

	sess, err := lyskom.Connect(ctx, addr, lyskom.WithClientIdentity(cfg.User, cfg.Host))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer sess.Close()

	sess.OnLifecycle("close", func(err error) {
		fmt.Println("\nconnection closed:", err)
	})
	sess.On("send-message", func(value any) {
		rec, ok := value.(*schema.Record)
		if !ok {
			return
		}
		msg, _ := rec.Get("message")
		sender, _ := rec.Get("sender")
		fmt.Printf("\n[message from %v] %s\n> ", sender, msg)
	})

	person := cfg.Person
	passwd := cfg.Password
	if person == 0 {
		fmt.Print("Person number: ")
		fmt.Scanln(&person)
	}
	if passwd == "" {
		fmt.Print("Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		passwd = strings.TrimSpace(line)
	}
	if err := sess.Login(ctx, person, passwd, false); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Println("Logged in.")

	repl(ctx, sess)
	return nil
}

func repl(ctx context.Context, sess *lyskom.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Commands: who, send <conf> <msg>, logout, quit")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "who":
			handleWho(ctx, sess)
		case "send":
			if len(fields) < 3 {
				fmt.Println("Usage: send <conf> <msg>")
				continue
			}
			handleSend(ctx, sess, fields[1], strings.Join(fields[2:], " "))
		case "logout":
			if err := sess.Logout(ctx); err != nil {
				fmt.Println("logout failed:", err)
				continue
			}
			fmt.Println("Logged out.")
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

func handleWho(ctx context.Context, sess *lyskom.Session) {
	t, err := sess.GetTime(ctx)
	if err != nil {
		fmt.Println("get-time failed:", err)
		return
	}
	hours, _ := t.Get("hours")
	minutes, _ := t.Get("minutes")
	fmt.Printf("Server time: %02d:%02d\n", hours, minutes)
}

func handleSend(ctx context.Context, sess *lyskom.Session, confArg, msg string) {
	conf, err := strconv.Atoi(confArg)
	if err != nil {
		fmt.Println("invalid conference number:", confArg)
		return
	}
	if err := sess.SendMessage(ctx, int32(conf), msg); err != nil {
		fmt.Println("send failed:", err)
		return
	}
	fmt.Println("sent.")
}

