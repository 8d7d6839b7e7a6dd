package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/todo/internal/api"
	"github.com/idilsaglam/todo/internal/auth"
	"github.com/idilsaglam/todo/internal/config"
	"github.com/idilsaglam/todo/internal/logging"
	"github.com/idilsaglam/todo/internal/todo"
	"github.com/idilsaglam/todo/internal/tui"
	"github.com/idilsaglam/todo/internal/ui"
)

// Options carry root flags; non-empty values override the environment.
type Options struct {
	APIURL string
	Theme  string
	Debug  bool
}

// stdin is where confirmations and tokens are read from.
var stdin io.Reader = os.Stdin

// session is what every networked subcommand needs.
type session struct {
	ctx context.Context
	cfg *config.Config
	log zerolog.Logger
	api *api.Client
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return withSession(opt, doList)

	case "print":
		return withSession(opt, doPrint)

	case "add":
		if len(a) != 2 {
			ui.Fail("usage: todo add <title> <description>")
			return 2
		}
		return withSession(opt, func(s *session) int { return doAdd(s, a[0], a[1]) })

	case "edit":
		if len(a) != 3 {
			ui.Fail("usage: todo edit <id> <title> <description>")
			return 2
		}
		return withSession(opt, func(s *session) int { return doEdit(s, a[0], a[1], a[2]) })

	case "rm":
		fs := flag.NewFlagSet("rm", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		yes := fs.Bool("y", false, "do not ask for confirmation")
		if err := fs.Parse(a); err != nil || fs.NArg() != 1 {
			ui.Fail("usage: todo rm [-y] <id>")
			return 2
		}
		id := fs.Arg(0)
		return withSession(opt, func(s *session) int { return doRemove(s, id, *yes) })

	case "auth":
		if len(a) == 0 {
			ui.Fail("usage: todo auth <login|logout|status|whoami>")
			return 2
		}
		switch a[0] {
		case "login":
			return doAuthLogin()
		case "logout":
			return doAuthLogout()
		case "status":
			return doAuthStatus()
		case "whoami":
			return doAuthWhoAmI()
		default:
			ui.Fail("usage: todo auth <login|logout|status|whoami>")
			return 2
		}
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`todo - a terminal client for a remote todo list

Usage:
  todo [-api URL] [-theme NAME] [-debug] <subcommand> [args]

Subcommands:
  ls                            Browse and edit items (interactive TUI)
  print                         Print all items
  add <title> <description>     Create an item
  edit <id> <title> <desc>      Update an item
  rm [-y] <id>                  Delete an item (asks first unless -y)
  auth <login|logout|status|whoami>   Bearer token for the backend

Examples:
  todo add "Buy milk" "2%%"
  todo ls
  todo rm 64f1c2e9a1

Environment:
%s`, config.Usage())
}

func withSession(opt Options, fn func(*session) int) int {
	cfg, err := config.Load()
	if err != nil {
		ui.Fail("config: " + err.Error())
		return 2
	}
	if opt.APIURL != "" {
		cfg.APIURL = opt.APIURL
	}
	if opt.Theme != "" {
		cfg.Theme = opt.Theme
	}
	if opt.Debug {
		cfg.LogLevel = "debug"
		if cfg.LogFile == "" {
			cfg.LogFile = "todo-debug.log"
		}
	}
	ui.SetTheme(cfg.Theme)

	log, closeLog, err := logging.New(cfg.LogFile, cfg.LogLevel, opt.Debug)
	if err != nil {
		ui.Fail("log: " + err.Error())
		return 2
	}
	defer closeLog()

	opts := []api.Option{api.WithTimeout(cfg.Timeout), api.WithLogger(log)}
	ti, err := auth.Get()
	if err != nil {
		log.Warn().Err(err).Msg("ignoring unreadable credentials")
	}
	if ti != nil {
		if ti.Expired(time.Now()) {
			ui.Fail("token expired; run `todo auth login`")
			return 2
		}
		opts = append(opts, api.WithToken(ti.Token))
	}
	client, err := api.New(cfg.APIURL, opts...)
	if err != nil {
		ui.Fail("api: " + err.Error())
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("api", cfg.APIURL).Msg("starting")
	return fn(&session{ctx: ctx, cfg: cfg, log: log, api: client})
}

// report prints the controller notice and maps it to an exit code.
func report(st todo.State) int {
	if msg := st.Notice.Error(); msg != "" {
		ui.Fail(msg)
		return 1
	}
	if msg := st.Notice.Success(); msg != "" {
		ui.OK(msg)
	}
	return 0
}

// ---------------------------------------------------
// Collection subcommands
// ---------------------------------------------------

func doList(s *session) int {
	if err := tui.Run(s.ctx, s.api, s.log); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doPrint(s *session) int {
	c := todo.NewController(s.api, nil, s.log)
	c.Load(s.ctx)
	if code := report(c.State()); code != 0 {
		return code
	}
	ui.Panel(os.Stdout, ui.ItemLines(c.State().Items))
	return 0
}

func doAdd(s *session, title, description string) int {
	d := todo.Draft{Title: title, Description: description}
	if !d.Valid() {
		ui.Fail("add: title and description must not be blank")
		return 2
	}
	c := todo.NewController(s.api, nil, s.log)
	c.Submit(s.ctx, d)
	return report(c.State())
}

func doEdit(s *session, id, title, description string) int {
	if !(todo.Draft{Title: title, Description: description}).Valid() {
		ui.Fail("edit: title and description must not be blank")
		return 2
	}
	c := todo.NewController(s.api, nil, s.log)
	c.Load(s.ctx)
	if code := report(c.State()); code != 0 {
		return code
	}
	st := c.State()
	i := st.Index(id)
	if i < 0 {
		ui.Fail(fmt.Sprintf("no item with id %q", id))
		fmt.Fprintln(os.Stderr, ui.C(ui.Current().Muted, "Hint: run `todo print` to see ids"))
		return 1
	}
	c.BeginEdit(st.Items[i])
	c.SetEdit(title, description)
	c.SaveEdit(s.ctx)
	return report(c.State())
}

func doRemove(s *session, id string, yes bool) int {
	confirm := promptConfirm
	if yes {
		confirm = func(context.Context, string) bool { return true }
	}
	c := todo.NewController(s.api, confirm, s.log)
	c.Delete(s.ctx, id)
	return report(c.State())
}

func promptConfirm(_ context.Context, prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// ---------------------------------------------------
// Auth subcommands
// ---------------------------------------------------

func doAuthLogin() int {
	fmt.Print("Paste your token: ")
	var token string
	if _, err := fmt.Fscanln(stdin, &token); err != nil {
		ui.Fail("read token: " + err.Error())
		return 1
	}
	if err := auth.Save(token); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func doAuthLogout() int {
	ti, _ := auth.Get()
	if ti != nil && ti.Source == "env" {
		ui.OK("token is provided by " + auth.EnvToken + " env var (nothing to delete)")
		return 0
	}
	if err := auth.Delete(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func doAuthStatus() int {
	ti, err := auth.Get()
	if err != nil {
		ui.Fail("status: " + err.Error())
		return 1
	}
	if ti == nil {
		fmt.Println(ui.C(ui.Current().Muted, "not logged in"))
		fmt.Println("Run: todo auth login")
		return 0
	}
	fmt.Printf("source: %s\n", ti.Source)
	switch {
	case ti.ExpiresAt == nil:
		fmt.Println("expires: (unknown)")
	case ti.Expired(time.Now()):
		fmt.Printf("expires: %s %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339), ui.C(ui.Current().Error, "(expired)"))
	default:
		fmt.Printf("expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	}
	fmt.Println("env override: " + auth.EnvToken)
	return 0
}

// whoami decodes JWT claims locally (unverified); opaque tokens print basic info.
func doAuthWhoAmI() int {
	ti, _ := auth.Get()
	if ti == nil {
		ui.Fail("not logged in. Run: todo auth login")
		return 2
	}
	claims, err := auth.Claims(ti.Token)
	if err != nil {
		fmt.Println("Opaque token (cannot introspect locally).")
		fmt.Println("source:", ti.Source)
		return 0
	}
	b, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		ui.Fail("whoami: " + err.Error())
		return 1
	}
	fmt.Println("JWT payload:")
	fmt.Println(string(b))
	return 0
}
