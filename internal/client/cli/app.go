package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ayadas/cozyon-cli/internal/client/api"
	"github.com/ayadas/cozyon-cli/internal/client/checkout"
	"github.com/ayadas/cozyon-cli/internal/client/config"
	"github.com/ayadas/cozyon-cli/internal/client/session"
	"github.com/ayadas/cozyon-cli/internal/client/storage"
	"github.com/ayadas/cozyon-cli/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the storefront client together: the persisted session store,
// the REST gateway, the cart/session state container and the checkout
// orchestrator.
type App struct {
	config   *config.Config
	db       *sql.DB
	store    storage.Repository
	api      api.Client
	session  *session.Container
	checkout *checkout.Orchestrator
	device   checkout.DeviceClass
	log      logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := storage.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	repo := storage.NewSQLiteRepository(db)
	gateway := api.NewHTTPClient(c.APIBaseURL, api.NewStoreTokenSource(repo), c.RequestTimeout, log)

	app := &App{
		config:  c,
		db:      db,
		store:   repo,
		api:     gateway,
		session: session.New(gateway, repo, log),
		device:  checkout.DetectDeviceClass(checkout.PlatformSignal(c.Platform)),
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	app.checkout = checkout.NewOrchestrator(gateway, app.session, app.newPresenter(), log)
	return app, nil
}

// newPresenter picks the payment presentation for the detected device class:
// provider deep links on mobile, a terminal QR on everything else.
func (a *App) newPresenter() checkout.PaymentPresenter {
	payee := checkout.Payee{
		Address:  a.config.UPIPayeeAddress,
		Name:     a.config.UPIPayeeName,
		Currency: a.config.UPICurrency,
	}

	if a.device == checkout.DeviceMobile {
		return &checkout.MobilePresenter{
			Payee:   payee,
			Launch:  checkout.ExecLauncher{},
			Out:     a.out,
			Log:     a.log,
			Handoff: a.config.PaymentHandoffDelay,
			Timeout: a.config.LaunchTimeout,
			Choose:  a.chooseProvider,
		}
	}
	return &checkout.DesktopPresenter{
		Payee:   payee,
		Out:     a.out,
		Log:     a.log,
		Confirm: a.confirmPayment,
	}
}

// chooseProvider offers the known UPI apps and reads a selection. An empty
// or invalid answer falls through to the generic payment link.
func (a *App) chooseProvider(_ context.Context, providers []checkout.Provider) (checkout.Provider, bool) {
	fmt.Fprintln(a.out, "Pay with:")
	for i, p := range providers {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, p.Name)
	}
	answer, err := GetSimpleText(a.reader, "Choose an app (Enter for a generic UPI link)", a.out)
	if err != nil || answer == "" {
		return checkout.Provider{}, false
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(providers) {
		return checkout.Provider{}, false
	}
	return providers[n-1], true
}

func (a *App) confirmPayment(context.Context) (bool, error) {
	return GetConfirm(a.reader, "Payment done?", a.out)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsLoggedIn()
}

// getStatus renders the prompt status: the logged-in user (or guest) and
// the current cart unit count.
func (a *App) getStatus() string {
	name := "guest"
	if u := a.session.CurrentUser(); u != nil && u.Name != "" {
		name = u.Name
	}
	return fmt.Sprintf("(%s, cart %d)", name, a.session.CartCount())
}

// Run restores the persisted session and starts the REPL. It blocks until
// the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.db.Close(); err != nil {
			a.log.Error(ctx, "error closing session store", "error", err)
		}
	}()

	a.session.Initialize(ctx)

	fmt.Fprintln(a.out, "Welcome to Cozyon (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
