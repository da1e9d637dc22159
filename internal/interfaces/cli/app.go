// internal/interfaces/cli/app.go
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/nishantmakwanaa/clothing-store/internal/client/api"
	"github.com/nishantmakwanaa/clothing-store/internal/client/cart"
	"github.com/nishantmakwanaa/clothing-store/internal/client/catalog"
	"github.com/nishantmakwanaa/clothing-store/internal/client/session"
	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/infrastructure/storage"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/pdf"
	"github.com/sirupsen/logrus"
)

// ErrUsage is returned when a command is invoked with the wrong arguments
var ErrUsage = errors.New("usage error")

// command is one clothify subcommand
type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, fs *flag.FlagSet, args []string) error
	// mutates marks commands that write the cart or order history
	mutates bool
}

// App wires the storefront client core behind the clothify commands
type App struct {
	cfg      *config.Config
	sessions *session.Manager
	cart     *cart.Store
	catalog  *catalog.Catalog
	receipts *pdf.Service
	out      io.Writer
	log      logrus.FieldLogger
	commands map[string]command
}

// New builds the client services on top of store and returns the app
func New(cfg *config.Config, store storage.Store, log logrus.FieldLogger, out io.Writer) *App {
	client := api.NewClient(cfg.Client, log)
	sessions := session.NewManager(client, store, cfg.Client, log)

	a := &App{
		cfg:      cfg,
		sessions: sessions,
		cart:     cart.NewStore(store, cart.Policy(cfg.Client.OrderPolicy), log),
		catalog:  catalog.New(sessions.Client(), cfg.Client.CatalogCacheTTL, log),
		receipts: pdf.NewService(cfg.Receipt),
		out:      out,
		log:      log.WithField("component", "cli"),
	}
	a.commands = a.registerCommands()
	return a
}

// Sessions exposes the session manager
func (a *App) Sessions() *session.Manager {
	return a.sessions
}

// Cart exposes the cart store
func (a *App) Cart() *cart.Store {
	return a.cart
}

func (a *App) registerCommands() map[string]command {
	return map[string]command{
		"login":           {usage: "login -email EMAIL -password PASSWORD", summary: "sign in", run: a.login},
		"logout":          {usage: "logout", summary: "sign out, keeping the cart", run: a.logout},
		"whoami":          {usage: "whoami", summary: "show the signed-in user", run: a.whoami},
		"signup":          {usage: "signup -first NAME -last NAME -email EMAIL -password PASSWORD [-phone PHONE]", summary: "create an account", run: a.signup},
		"forgot-password": {usage: "forgot-password -email EMAIL", summary: "request a password reset email", run: a.forgotPassword},
		"reset-password":  {usage: "reset-password -token TOKEN -password PASSWORD", summary: "set a new password", run: a.resetPassword},
		"update-profile":  {usage: "update-profile [-first NAME] [-last NAME] [-phone PHONE]", summary: "edit the signed-in profile", run: a.updateProfile},
		"products":        {usage: "products [-category ID] [-q TEXT]", summary: "list products", run: a.products},
		"product":         {usage: "product ID", summary: "show one product", run: a.product},
		"categories":      {usage: "categories", summary: "list categories", run: a.categories},
		"colors":          {usage: "colors", summary: "list colors", run: a.colors},
		"sizes":           {usage: "sizes", summary: "list sizes", run: a.sizes},
		"cart":            {usage: "cart", summary: "show the cart", run: a.showCart},
		"add":             {usage: "add [-color COLOR] [-size SIZE] PRODUCT_ID", summary: "add a product variant to the cart", run: a.add, mutates: true},
		"remove":          {usage: "remove ITEM_ID", summary: "remove a cart item", run: a.remove, mutates: true},
		"checkout":        {usage: "checkout", summary: "complete an order from the cart", run: a.checkout, mutates: true},
		"orders":          {usage: "orders", summary: "list completed orders", run: a.orders},
		"receipt":         {usage: "receipt [-o FILE] [-html] ORDER_ID", summary: "export an order receipt", run: a.receipt},
		"upload":          {usage: "upload FILE", summary: "upload an image", run: a.upload},
	}
}

// Run restores client state and executes one command
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.printUsage()
		return nil
	}

	name := args[0]
	cmd, ok := a.commands[name]
	if !ok {
		a.printUsage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, name)
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.Usage = func() { fmt.Fprintf(a.out, "usage: clothify %s\n", cmd.usage) }

	a.sessions.RestoreSession(ctx)
	if err := a.cart.Load(ctx); err != nil {
		if cmd.mutates {
			return err
		}
		a.log.WithError(err).Warn("failed to load cart")
	}

	a.log.WithField("command", name).Debug("running command")
	if err := cmd.run(ctx, fs, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	return nil
}

func (a *App) printUsage() {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(a.out, "usage: clothify COMMAND [FLAGS]\n\ncommands:\n")
	w := newTable(a.out)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", name, a.commands[name].summary)
	}
	w.Flush()
}

// parse parses flags and checks the positional argument count
func parse(fs *flag.FlagSet, args []string, positional int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	rest := fs.Args()
	if len(rest) != positional {
		fs.Usage()
		return nil, fmt.Errorf("%w: expected %d argument(s), got %d", ErrUsage, positional, len(rest))
	}
	return rest, nil
}
