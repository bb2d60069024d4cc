// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/panicpal/panicpal/internal/catalog"
	"github.com/panicpal/panicpal/internal/credential"
	"github.com/panicpal/panicpal/internal/directory"
	"github.com/panicpal/panicpal/internal/observability"
	"github.com/panicpal/panicpal/pkg/errutil"
)

// Test seams for terminal access.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Command statuses recorded in shell metrics.
const (
	statusOK      = "ok"
	statusError   = "error"
	statusUnknown = "unknown"
)

// errQuit ends the session.
var errQuit = errors.New("quit")

const helpText = `Commands:
  register                    create an account
  login                       sign in
  logout                      sign out
  whoami                      show the signed-in user
  dashboard                   list every resource by category
  categories                  list resource categories
  resources <category>        list resources in a category
  search <pattern>            find resources by name (* and ? wildcards)
  resource <id>               show one resource
  cope                        get a random coping tip
  log <type> [details]        record a support interaction
  history                     show your support interactions
  prefs                       show your preferences
  prefs set <key>=<value>     change a preference
  help                        show this help
  exit | quit                 leave PanicPal`

// shell is a line-oriented interactive session over one directory.
type shell struct {
	svc     *directory.Service
	policy  credential.Policy
	catalog *catalog.File
	metrics *observability.Metrics
	logger  *slog.Logger
	in      *bufio.Reader
	out     io.Writer
	fd      int

	user    *directory.User
	command string
}

func newShell(
	svc *directory.Service,
	policy credential.Policy,
	cat *catalog.File,
	metrics *observability.Metrics,
	logger *slog.Logger,
	in io.Reader,
	out io.Writer,
) *shell {
	return &shell{
		svc:     svc,
		policy:  policy,
		catalog: cat,
		metrics: metrics,
		logger:  logger,
		in:      bufio.NewReader(in),
		out:     out,
		fd:      stdinFd(in),
	}
}

// run reads commands until EOF, "exit" or "quit", or ctx is done.
// Command failures are reported to the user and never end the session.
func (s *shell) run(ctx context.Context) error {
	s.metrics.RecordSession(observability.SessionOpened)
	defer s.metrics.RecordSession(observability.SessionClosed)

	s.println("Welcome to PanicPal. Type \"help\" for commands.")
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		s.print(s.prompt())

		line, err := s.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil

		if execErr := s.exec(ctx, strings.TrimSpace(line)); errors.Is(execErr, errQuit) {
			return nil
		}
		if eof {
			s.println()
			return nil
		}
	}
}

func (s *shell) prompt() string {
	if s.user != nil {
		return fmt.Sprintf("panicpal (%s)> ", s.user.Name)
	}
	return "panicpal> "
}

// exec runs one command line.
func (s *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	// rest keeps inner whitespace, for arguments that are labels or patterns.
	rest := strings.TrimSpace(line[len(fields[0]):])
	s.command = name

	var err error
	switch name {
	case "help", "?":
		s.println(helpText)
	case "register":
		err = s.register(ctx)
	case "login":
		err = s.login(ctx)
	case "logout":
		err = s.logout()
	case "whoami":
		err = s.whoami()
	case "dashboard":
		err = s.dashboard(ctx)
	case "categories":
		err = s.categories(ctx)
	case "resources":
		err = s.resources(ctx, rest)
	case "search":
		err = s.search(ctx, rest)
	case "resource":
		err = s.resource(ctx, args)
	case "cope":
		err = s.cope(ctx)
	case "log":
		err = s.logInteraction(ctx, args)
	case "history":
		err = s.history(ctx)
	case "prefs":
		err = s.prefs(ctx, args)
	case "exit", "quit":
		s.println("Take care.")
		s.metrics.RecordCommand(name, statusOK)
		return errQuit
	default:
		s.printf("Unknown command: %s. Type \"help\" for commands.\n", name)
		s.metrics.RecordCommand("other", statusUnknown)
		return nil
	}

	if err != nil {
		s.report(ctx, err)
		s.metrics.RecordCommand(name, statusError)
		return err
	}
	s.metrics.RecordCommand(name, statusOK)
	return nil
}

// report shows a caller-safe message. Errors without a public mapping are
// also logged in full. Input ending mid-command is not an error.
func (s *shell) report(ctx context.Context, err error) {
	if errors.Is(err, io.EOF) {
		s.logger.DebugContext(ctx, "input ended mid-command", "command", s.command)
		s.println()
		return
	}
	var usage usageError
	if errors.As(err, &usage) {
		s.println(usage.Error())
		return
	}
	msg := directory.PublicMessage(err)
	if msg == directory.GenericMessage {
		errutil.LogError(s.logger, "shell command failed", err, "command", s.command)
	} else {
		s.logger.DebugContext(ctx, "shell command rejected", "command", s.command, "code", errutil.Code(err))
	}
	s.println(msg)
}

// usageError is a user mistake shown verbatim.
type usageError string

func (e usageError) Error() string { return string(e) }

func (s *shell) requireUser() error {
	if s.user == nil {
		return usageError("Please log in first.")
	}
	return nil
}

func (s *shell) register(ctx context.Context) error {
	name, err := s.ask("Name: ")
	if err != nil {
		return err
	}
	email, err := s.ask("Email: ")
	if err != nil {
		return err
	}
	password, err := s.askPassword("Password: ")
	if err != nil {
		return err
	}
	if err := s.policy.Check(password); err != nil {
		return err
	}

	if _, err := s.svc.RegisterUser(ctx, name, email, password); err != nil {
		return err
	}
	s.println("User registered successfully.")
	return nil
}

func (s *shell) login(ctx context.Context) error {
	email, err := s.ask("Email: ")
	if err != nil {
		return err
	}
	password, err := s.askPassword("Password: ")
	if err != nil {
		return err
	}

	user, err := s.svc.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}
	s.user = user
	s.metrics.RecordSession(observability.SessionLogin)
	s.printf("Welcome, %s.\n", user.Name)
	return nil
}

func (s *shell) logout() error {
	if err := s.requireUser(); err != nil {
		return err
	}
	s.printf("Goodbye, %s.\n", s.user.Name)
	s.user = nil
	s.metrics.RecordSession(observability.SessionLogout)
	return nil
}

func (s *shell) whoami() error {
	if err := s.requireUser(); err != nil {
		return err
	}
	s.printf("%s <%s> (id %s, member since %s)\n",
		s.user.Name, s.user.Email, s.user.ID, s.user.CreatedAt.Format(time.DateOnly))
	return nil
}

func (s *shell) dashboard(ctx context.Context) error {
	categories, err := s.svc.Categories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		s.println("No resources available.")
		return nil
	}
	for _, category := range categories {
		s.printf("### %s\n", category)
		resources, err := s.svc.ResourcesByCategory(ctx, category)
		if err != nil {
			return err
		}
		s.printResources(resources)
	}
	return nil
}

func (s *shell) categories(ctx context.Context) error {
	categories, err := s.svc.Categories(ctx)
	if err != nil {
		return err
	}
	for _, category := range categories {
		s.println(category)
	}
	return nil
}

func (s *shell) resources(ctx context.Context, category string) error {
	if category == "" {
		return usageError("Usage: resources <category>")
	}
	resources, err := s.svc.ResourcesByCategory(ctx, category)
	if err != nil {
		return err
	}
	if len(resources) == 0 {
		s.printf("No resources in %q.\n", category)
		return nil
	}
	s.printResources(resources)
	return nil
}

func (s *shell) search(ctx context.Context, pattern string) error {
	if pattern == "" {
		return usageError("Usage: search <pattern>")
	}
	resources, err := s.svc.SearchResources(ctx, pattern)
	if err != nil {
		return err
	}
	if len(resources) == 0 {
		s.println("No matching resources.")
		return nil
	}
	s.printResources(resources)
	return nil
}

func (s *shell) resource(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("Usage: resource <id>")
	}
	id, err := directory.ParseID(args[0])
	if err != nil {
		return err
	}
	r, ok, err := s.svc.FindResource(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		s.println("Resource not found.")
		return nil
	}
	s.printf("%s\n  category: %s\n  %s\n", r.Name, r.Category, r.Description)
	if r.HasLink() {
		s.printf("  link: %s\n", *r.Link)
	}
	return nil
}

func (s *shell) cope(ctx context.Context) error {
	if err := s.requireUser(); err != nil {
		return err
	}
	tip, ok := s.catalog.RandomTip()
	if !ok {
		s.println("No coping tips available.")
		return nil
	}
	s.println(tip)
	return s.svc.LogInteraction(ctx, s.user.ID, "coping_tip", tip)
}

func (s *shell) logInteraction(ctx context.Context, args []string) error {
	if err := s.requireUser(); err != nil {
		return err
	}
	if len(args) == 0 {
		return usageError("Usage: log <type> [details]")
	}
	if err := s.svc.LogInteraction(ctx, s.user.ID, args[0], strings.Join(args[1:], " ")); err != nil {
		return err
	}
	s.printf("Support provided to %s (%s).\n", s.user.Name, args[0])
	return nil
}

func (s *shell) history(ctx context.Context) error {
	if err := s.requireUser(); err != nil {
		return err
	}
	user, err := s.svc.GetUser(ctx, s.user.ID)
	if err != nil {
		return err
	}
	entries := user.Interactions()
	if len(entries) == 0 {
		s.println("No support interactions yet.")
		return nil
	}
	for _, e := range entries {
		line := e.Timestamp.Local().Format(time.DateTime) + "  " + e.Type
		if e.Details != "" {
			line += ": " + e.Details
		}
		s.println(line)
	}
	return nil
}

func (s *shell) prefs(ctx context.Context, args []string) error {
	if err := s.requireUser(); err != nil {
		return err
	}
	if len(args) == 0 {
		user, err := s.svc.GetUser(ctx, s.user.ID)
		if err != nil {
			return err
		}
		prefs := user.Preferences()
		if len(prefs) == 0 {
			s.println("No preferences set.")
			return nil
		}
		keys := make([]string, 0, len(prefs))
		for k := range prefs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s.printf("%s=%v\n", k, prefs[k])
		}
		return nil
	}

	if args[0] != "set" || len(args) < 2 {
		return usageError("Usage: prefs set <key>=<value>")
	}
	update := make(map[string]any, len(args)-1)
	for _, kv := range args[1:] {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return usageError("Usage: prefs set <key>=<value>")
		}
		update[key] = value
	}
	if err := s.svc.UpdatePreferences(ctx, s.user.ID, update); err != nil {
		return err
	}
	s.println("Preferences updated.")
	return nil
}

func (s *shell) printResources(resources []*directory.Resource) {
	for _, r := range resources {
		if r.HasLink() && *r.Link != "" {
			s.printf("- [%s](%s): %s  (id %s)\n", r.Name, *r.Link, r.Description, r.ID)
		} else {
			s.printf("- %s: %s  (id %s)\n", r.Name, r.Description, r.ID)
		}
	}
}

// ask prompts for one line of input.
func (s *shell) ask(prompt string) (string, error) {
	s.print(prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askPassword prompts for a password, without echo when input is a terminal.
// Surrounding whitespace is kept.
func (s *shell) askPassword(prompt string) (string, error) {
	if s.fd < 0 || !isTerminal(s.fd) {
		s.print(prompt)
		line, err := s.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	s.print(prompt)
	pw, err := readPassword(s.fd)
	s.println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func (s *shell) print(a ...any) {
	if _, err := fmt.Fprint(s.out, a...); err != nil {
		observability.RecordOutputFailure(s.command)
	}
}

func (s *shell) println(a ...any) {
	if _, err := fmt.Fprintln(s.out, a...); err != nil {
		observability.RecordOutputFailure(s.command)
	}
}

func (s *shell) printf(format string, a ...any) {
	if _, err := fmt.Fprintf(s.out, format, a...); err != nil {
		observability.RecordOutputFailure(s.command)
	}
}
