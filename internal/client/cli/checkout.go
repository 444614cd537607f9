package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayadas/cozyon-cli/internal/client/checkout"
	"github.com/ayadas/cozyon-cli/internal/client/session"
)

// Checkout collects the booking form, places the order and drives the
// payment step for the detected device class, then shows the booking
// confirmation.
func (a *App) Checkout(ctx context.Context) error {
	if !a.session.IsLoggedIn() {
		return a.promptLogin(ctx)
	}
	if a.session.CartCount() == 0 {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return nil
	}

	form, err := a.readBookingForm()
	if err != nil {
		return err
	}

	booking, err := a.checkout.PlaceOrder(ctx, *form)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrFieldRequired),
			errors.Is(err, checkout.ErrDateInPast):
			fmt.Fprintln(a.out, "Invalid booking:", err.Error())
		case errors.Is(err, session.ErrAuthRequired):
			return a.promptLogin(ctx)
		default:
			fmt.Fprintln(a.out, "Could not place the order:", err.Error())
		}
		return err
	}

	a.printConfirmation(booking)
	return nil
}

func (a *App) readBookingForm() (*checkout.BookingForm, error) {
	prompts := []struct {
		label string
		dest  *string
	}{
		{"Your name", nil},
		{"Phone", nil},
		{"Booking date (YYYY-MM-DD)", nil},
		{"Address", nil},
		{"City", nil},
		{"Postal code", nil},
		{"Country", nil},
	}

	form := &checkout.BookingForm{PaymentMethod: "Online"}
	prompts[0].dest = &form.Name
	prompts[1].dest = &form.Phone
	prompts[2].dest = &form.BookingDate
	prompts[3].dest = &form.Address
	prompts[4].dest = &form.City
	prompts[5].dest = &form.PostalCode
	prompts[6].dest = &form.Country

	for _, p := range prompts {
		value, err := getSimpleText(a.reader, p.label, a.out)
		if err != nil {
			return nil, err
		}
		*p.dest = value
	}
	return form, nil
}

// printConfirmation renders the booking snapshot. Nothing here re-fetches
// or verifies; the snapshot is what the user gets.
func (a *App) printConfirmation(b *checkout.Booking) {
	fmt.Fprintln(a.out, "\nBooking confirmed!")
	fmt.Fprintln(a.out, "Booking ID:", b.BookingID)
	fmt.Fprintln(a.out, "Name:      ", b.CustomerName)
	fmt.Fprintln(a.out, "Date:      ", b.BookingDate)
	fmt.Fprintf(a.out, "Ship to:    %s, %s %s, %s\n",
		b.ShippingAddress.Address, b.ShippingAddress.City,
		b.ShippingAddress.PostalCode, b.ShippingAddress.Country)
	for _, item := range b.Items {
		fmt.Fprintf(a.out, "  %-24s x%-3d %10.2f %s\n",
			item.Product.Name, item.Quantity,
			item.UnitPrice()*float64(item.Quantity), a.config.UPICurrency)
	}
	fmt.Fprintf(a.out, "Total:      %.2f %s\n", b.Total, a.config.UPICurrency)
	fmt.Fprintf(a.out, "Status:     %s, payment %s\n", b.Status, b.PaymentStatus)
	fmt.Fprintln(a.out, "Check 'orders' later for the payment status.")
}
