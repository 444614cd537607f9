// Package checkout builds the order from the booking form, creates it
// server-side in a pending-payment state, and drives the payment step for
// the detected device class. Payment completion is never verified with the
// backend — the flow is trust-on-confirm by design.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayadas/cozyon-cli/internal/client/api"
	"github.com/ayadas/cozyon-cli/internal/client/models"
	"github.com/ayadas/cozyon-cli/internal/logging"
	"github.com/google/uuid"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrFieldRequired = errors.New("required field missing")
	ErrDateInPast    = errors.New("booking date must be today or later")
)

const bookingDateLayout = "2006-01-02"

// BookingForm is the checkout input. Only required-field and basic date
// validation happens client-side; everything else is the backend's call.
type BookingForm struct {
	Name        string
	Phone       string
	BookingDate string // YYYY-MM-DD, today or later
	Address     string
	City        string
	PostalCode  string
	Country     string

	// PaymentMethod currently has a single enabled value, "Online".
	PaymentMethod string
}

// Validate checks the required fields and that the booking date is not in
// the past relative to now.
func (f *BookingForm) Validate(now time.Time) error {
	required := []struct{ name, value string }{
		{"name", f.Name},
		{"phone", f.Phone},
		{"booking date", f.BookingDate},
		{"address", f.Address},
		{"city", f.City},
		{"postal code", f.PostalCode},
		{"country", f.Country},
		{"payment method", f.PaymentMethod},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%w: %s", ErrFieldRequired, field.name)
		}
	}

	date, err := time.ParseInLocation(bookingDateLayout, f.BookingDate, now.Location())
	if err != nil {
		return fmt.Errorf("invalid booking date %q: %w", f.BookingDate, err)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return ErrDateInPast
	}
	return nil
}

func (f *BookingForm) shippingAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Address:    f.Address,
		City:       f.City,
		PostalCode: f.PostalCode,
		Country:    f.Country,
	}
}

// Booking is the order snapshot carried into the confirmation view. The
// confirmation only displays it; nothing is re-fetched or verified.
type Booking struct {
	BookingID       string
	TxnRef          string
	CustomerName    string
	Phone           string
	BookingDate     string
	Items           []models.CartItem
	Total           float64
	Status          models.OrderStatus
	PaymentStatus   models.PaymentStatus
	CreatedAt       time.Time
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
}

// Cart is the slice of the state container the orchestrator needs.
type Cart interface {
	Items() []models.CartItem
	CartTotal() float64
	ClearCart(ctx context.Context)
}

// OrderCreator is the gateway surface used at checkout.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*models.Order, error)
}

// Orchestrator runs the checkout protocol end to end.
type Orchestrator struct {
	orders    OrderCreator
	cart      Cart
	presenter PaymentPresenter
	log       logging.Logger

	now    func() time.Time
	txnRef func() string
}

func NewOrchestrator(orders OrderCreator, cart Cart, presenter PaymentPresenter, log logging.Logger) *Orchestrator {
	return &Orchestrator{
		orders:    orders,
		cart:      cart,
		presenter: presenter,
		log:       log.With("component", "checkout"),
		now:       time.Now,
		txnRef:    uuid.NewString,
	}
}

// PlaceOrder validates the form, creates the order with a pending payment
// status, presents the payment step for the device class, and returns the
// booking snapshot for the confirmation view. On order-creation failure
// nothing is presented and no local state changes — the caller re-enables
// its submit control and shows the error. The cart is cleared only when the
// presenter reports an explicit confirmation.
func (o *Orchestrator) PlaceOrder(ctx context.Context, form BookingForm) (*Booking, error) {
	if err := form.Validate(o.now()); err != nil {
		return nil, err
	}

	items := o.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	total := o.cart.CartTotal()

	order, err := o.orders.CreateOrder(ctx, api.CreateOrderRequest{
		ShippingAddress: form.shippingAddress(),
		PaymentMethod:   form.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	bookingID := order.ID
	if bookingID == "" {
		bookingID = fmt.Sprintf("BK%d", o.now().UnixMilli())
		o.log.Warn(ctx, "order response carried no id, synthesized one", "bookingID", bookingID)
	}

	booking := &Booking{
		BookingID:       bookingID,
		TxnRef:          o.txnRef(),
		CustomerName:    form.Name,
		Phone:           form.Phone,
		BookingDate:     form.BookingDate,
		Items:           items,
		Total:           total,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		CreatedAt:       o.now(),
		ShippingAddress: form.shippingAddress(),
		PaymentMethod:   form.PaymentMethod,
	}

	confirmed, err := o.presenter.PresentPayment(ctx, booking)
	if err != nil {
		// The order exists server-side either way; payment outcome is
		// unknowable from here.
		o.log.Warn(ctx, "payment presentation aborted", "bookingID", bookingID, "error", err)
		return booking, nil
	}
	if confirmed {
		o.cart.ClearCart(ctx)
	}
	return booking, nil
}
