package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"taskboard/pkg/client"
)

const usage = `usage: taskctl [-server URL] <command> [args]

commands:
  register <username> <email> <password>
  login <username> <password>
  logout
  me
  list
  add <title>
  edit <id> <title>
  rm <id>
  audit [limit]
`

func main() {
	server := flag.String("server", "http://127.0.0.1:4000", "taskboard server URL")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	c := client.New(*server)
	c.Token = loadToken()

	if err := run(c, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(c *client.Client, cmd string, args []string) error {
	switch cmd {
	case "register":
		if len(args) != 3 {
			return fmt.Errorf("register needs <username> <email> <password>")
		}
		if err := c.Register(args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Println("registered")
		return nil

	case "login":
		if len(args) != 2 {
			return fmt.Errorf("login needs <username> <password>")
		}
		role, err := c.Login(args[0], args[1])
		if err != nil {
			return err
		}
		saveToken(c.Token)
		fmt.Printf("logged in as %s (%s)\n", args[0], role)
		return nil

	case "logout":
		if err := c.Logout(); err != nil {
			return err
		}
		saveToken("")
		fmt.Println("logged out")
		return nil

	case "me":
		user, err := c.Me()
		if err != nil {
			return err
		}
		st := client.Update(client.State{}, client.UserLoaded{User: user})
		fmt.Printf("%s <%s> role=%s\n", st.User.Username, st.User.Email, st.Role)
		return nil

	case "list":
		tasks, err := c.Tasks()
		if err != nil {
			return err
		}
		render(client.Update(client.State{}, client.TasksLoaded{Tasks: tasks}))
		return nil

	case "add":
		if len(args) == 0 {
			return fmt.Errorf("add needs a title")
		}
		task, err := c.CreateTask(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("created #%d\n", task.ID)
		return nil

	case "edit":
		if len(args) < 2 {
			return fmt.Errorf("edit needs <id> <title>")
		}
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("bad id %q", args[0])
		}
		task, err := c.UpdateTask(uint(id), strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("updated #%d: %s\n", task.ID, task.Title)
		return nil

	case "rm":
		if len(args) != 1 {
			return fmt.Errorf("rm needs <id>")
		}
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("bad id %q", args[0])
		}
		if err := c.DeleteTask(uint(id)); err != nil {
			return err
		}
		fmt.Printf("deleted #%d\n", id)
		return nil

	case "audit":
		limit := 0
		if len(args) > 0 {
			limit, _ = strconv.Atoi(args[0])
		}
		entries, err := c.Audit(limit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s %-12s %-16s %s %s\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, e.Actor, e.Target, e.Detail)
		}
		return nil

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func render(st client.State) {
	if len(st.Tasks) == 0 {
		fmt.Println("no tasks")
		return
	}
	for _, t := range st.Tasks {
		mark := " "
		if t.EditedByAdmin {
			mark = "*"
		}
		fmt.Printf("#%-4d %s %-40s (%s)\n", t.ID, mark, t.Title, t.User.Username)
	}
}

func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskboard_token"
	}
	return filepath.Join(home, ".taskboard_token")
}

// loadToken restores the session from the last login so the cookie
// survives across invocations.
func loadToken() string {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func saveToken(token string) {
	if token == "" {
		_ = os.Remove(tokenPath())
		return
	}
	_ = os.WriteFile(tokenPath(), []byte(token), 0o600)
}
