package checkout

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"time"

	"github.com/ayadas/cozyon-cli/internal/logging"
	"github.com/mdp/qrterminal/v3"
)

// PaymentPresenter drives the payment step for one device class. It returns
// whether the user explicitly confirmed the payment; the client has no way
// to actually verify it (trust-on-confirm), so "confirmed" only means the
// user said so.
type PaymentPresenter interface {
	PresentPayment(ctx context.Context, booking *Booking) (confirmed bool, err error)
}

// AppLauncher opens a payment URI with whatever the platform uses for
// external navigation.
type AppLauncher interface {
	Open(ctx context.Context, uri string) error
}

// ExecLauncher shells out to the platform opener.
type ExecLauncher struct{}

func (ExecLauncher) Open(ctx context.Context, uri string) error {
	name, args := openerCommand(runtime.GOOS, uri)
	return exec.CommandContext(ctx, name, args...).Run()
}

func openerCommand(goos, uri string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{uri}
	case "android":
		return "am", []string{"start", "-a", "android.intent.action.VIEW", "-d", uri}
	default:
		return "xdg-open", []string{uri}
	}
}

// MobilePresenter offers the provider deep links, hands off to the chosen
// app, and waits the fixed delay that lets the app take over before the
// confirmation view is shown. It never reports the payment as confirmed —
// nothing comes back from the external app.
type MobilePresenter struct {
	Payee   Payee
	Launch  AppLauncher
	Out     io.Writer
	Log     logging.Logger
	Handoff time.Duration // delay before returning to the confirmation view
	Timeout time.Duration // per-attempt launch budget before falling back

	// Choose picks a provider from the offered list; nil (or ok=false)
	// falls through to the generic URI.
	Choose func(ctx context.Context, providers []Provider) (Provider, bool)
}

func (m *MobilePresenter) PresentPayment(ctx context.Context, booking *Booking) (bool, error) {
	params := paymentParams(m.Payee, booking)

	uri := params.GenericURI()
	if m.Choose != nil {
		if provider, ok := m.Choose(ctx, Providers); ok {
			if err := m.launch(ctx, provider.URI(params)); err != nil {
				m.Log.Warn(ctx, "payment app did not open, falling back to generic link",
					"provider", provider.Name, "error", err)
			} else {
				uri = ""
			}
		}
	}
	if uri != "" {
		if err := m.launch(ctx, uri); err != nil {
			m.Log.Warn(ctx, "could not open payment link", "error", err)
			fmt.Fprintf(m.Out, "Open this link in your payment app: %s\n", uri)
		}
	}

	// Give the external app time to take over before showing the
	// confirmation view.
	if err := wait(ctx, m.Handoff); err != nil {
		return false, err
	}
	return false, nil
}

func (m *MobilePresenter) launch(ctx context.Context, uri string) error {
	launchCtx := ctx
	if m.Timeout > 0 {
		var cancel context.CancelFunc
		launchCtx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}
	return m.Launch.Open(launchCtx, uri)
}

// DesktopPresenter renders the generic UPI URI as a terminal QR code and
// waits for the user's explicit "payment done" before reporting confirmed.
type DesktopPresenter struct {
	Payee Payee
	Out   io.Writer
	Log   logging.Logger

	// Confirm blocks until the user answers the "payment done?" prompt.
	Confirm func(ctx context.Context) (bool, error)
}

func (d *DesktopPresenter) PresentPayment(ctx context.Context, booking *Booking) (bool, error) {
	params := paymentParams(d.Payee, booking)
	uri := params.GenericURI()

	fmt.Fprintf(d.Out, "\nScan to pay %.2f %s\n\n", booking.Total, d.Payee.Currency)
	qrterminal.GenerateWithConfig(uri, qrterminal.Config{
		Writer:    d.Out,
		Level:     qrterminal.L,
		BlackChar: qrterminal.BLACK,
		WhiteChar: qrterminal.WHITE,
		QuietZone: 1,
	})
	fmt.Fprintln(d.Out, "\nOpen any UPI app on your phone and scan this QR code to complete the payment.")

	confirmed, err := d.Confirm(ctx)
	if err != nil {
		return false, err
	}
	return confirmed, nil
}

func paymentParams(payee Payee, booking *Booking) UPIParams {
	return UPIParams{
		Payee:  payee,
		Amount: booking.Total,
		Note:   "Cozyon Order " + booking.BookingID,
		TxnRef: booking.TxnRef,
	}
}

// wait sleeps for d but honors cancellation.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
