package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/geocoder89/userhub/internal/console"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var baseURL string

func main() {
	rootCmd := &cobra.Command{
		Use:   "console",
		Short: "Terminal console for the user store",
		Long:  "List, inspect, create, update and delete users against the user store API.",
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "api", defaultBaseURL(), "base URL of the user store API")

	rootCmd.AddCommand(
		listCmd(),
		getCmd(),
		addCmd(),
		updateCmd(),
		deleteCmd(),
		uiCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultBaseURL() string {
	if v := os.Getenv("USERHUB_API_URL"); v != "" {
		return v
	}
	return "http://127.0.0.1:8000"
}

func newSession() *console.Session {
	return console.NewSession(console.NewClient(baseURL))
}

func cmdCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

// ==========================
// One-shot commands
// ==========================

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdCtx()
			defer cancel()

			sess := newSession()

			if res := sess.Load(ctx); !res.OK {
				return fmt.Errorf("list failed: %s", res.Message)
			}

			renderUsers(sess.State.Users)
			return nil
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			ctx, cancel := cmdCtx()
			defer cancel()

			u, err := console.NewClient(baseURL).GetUser(ctx, id)
			if err != nil {
				return err
			}

			renderDetail(u)
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdCtx()
			defer cancel()

			sess := newSession()
			sess.State.Form = console.Form{Name: name, Email: email, Password: password}

			res := sess.Submit(ctx)
			if !res.OK {
				return fmt.Errorf("create failed: %s", res.Message)
			}

			fmt.Println(res.Message)
			renderUsers(sess.State.Users)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (min 8 chars)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func updateCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user's name and email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			ctx, cancel := cmdCtx()
			defer cancel()

			sess := newSession()

			if res := sess.Load(ctx); !res.OK {
				return fmt.Errorf("list failed: %s", res.Message)
			}

			if res := sess.Edit(id); !res.OK {
				return fmt.Errorf("update failed: %s", res.Message)
			}

			if name != "" {
				sess.State.Form.Name = name
			}
			if email != "" {
				sess.State.Form.Email = email
			}

			res := sess.Submit(ctx)
			if !res.OK {
				return fmt.Errorf("update failed: %s", res.Message)
			}

			fmt.Println(res.Message)
			renderUsers(sess.State.Users)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new full name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			ctx, cancel := cmdCtx()
			defer cancel()

			sess := newSession()

			res := sess.Remove(ctx, id)
			if !res.OK {
				return fmt.Errorf("delete failed: %s", res.Message)
			}

			fmt.Println(res.Message)
			return nil
		},
	}
}

// ==========================
// Interactive console
// ==========================

func uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Interactive console keeping the list in memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := newSession()

			ctx, cancel := cmdCtx()
			res := sess.Load(ctx)
			cancel()

			// initial load failure leaves the list empty, same as any
			// other action it is reported, not swallowed
			if !res.OK {
				fmt.Println("load failed:", res.Message)
			}

			renderUsers(sess.State.Users)
			runLoop(sess)
			return nil
		},
	}
}

func runLoop(sess *console.Session) {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("console> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return
		case "help":
			fmt.Println("commands: list | view <id> | edit <id> | add | submit | delete <id> | clear | quit")
		case "list":
			ctx, cancel := cmdCtx()
			report(sess.Load(ctx))
			cancel()
			renderUsers(sess.State.Users)
		case "view":
			if id, ok := argID(fields); ok {
				if res := sess.View(id); report(res) {
					renderDetail(*sess.State.Selected)
					sess.State.ClearSelection()
				}
			}
		case "edit":
			if id, ok := argID(fields); ok {
				if report(sess.Edit(id)) {
					promptForm(reader, sess, true)
				}
			}
		case "add":
			sess.Clear()
			promptForm(reader, sess, false)
		case "submit":
			ctx, cancel := cmdCtx()
			report(sess.Submit(ctx))
			cancel()
			renderUsers(sess.State.Users)
		case "delete":
			if id, ok := argID(fields); ok {
				ctx, cancel := cmdCtx()
				report(sess.Remove(ctx, id))
				cancel()
				renderUsers(sess.State.Users)
			}
		case "clear":
			report(sess.Clear())
		default:
			fmt.Println("unknown command; try help")
		}
	}
}

func promptForm(reader *bufio.Reader, sess *console.Session, editing bool) {
	sess.State.Form.Name = prompt(reader, "Name", sess.State.Form.Name)
	sess.State.Form.Email = prompt(reader, "Email", sess.State.Form.Email)

	// password input is disabled while editing
	if !editing {
		sess.State.Form.Password = prompt(reader, "Password", "")
	}

	fmt.Println("run 'submit' to save, 'clear' to discard")
}

func prompt(reader *bufio.Reader, label, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return current
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}

	return line
}

func argID(fields []string) (int64, bool) {
	if len(fields) < 2 {
		fmt.Println("an id is required")
		return 0, false
	}

	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		fmt.Printf("invalid id %q\n", fields[1])
		return 0, false
	}

	return id, true
}

func report(res console.Result) bool {
	if res.OK {
		fmt.Println(res.Message)
	} else {
		fmt.Println("failed:", res.Message)
	}
	return res.OK
}

// ==========================
// Rendering
// ==========================

func renderUsers(users []user.User) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Name", "Email", "Created"})

	for _, u := range users {
		t.AppendRow(table.Row{u.ID, u.Name, u.Email, u.CreatedAt.Format("2006-01-02")})
	}

	t.Render()
}

func renderDetail(u user.User) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendRow(table.Row{"ID", u.ID})
	t.AppendRow(table.Row{"Name", u.Name})
	t.AppendRow(table.Row{"Email", u.Email})
	t.AppendRow(table.Row{"Created At", u.CreatedAt.Format(time.RFC3339)})
	t.Render()
}
