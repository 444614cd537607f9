package cli

import (
	"context"
	"fmt"

	"github.com/ayadas/cozyon-cli/internal/client/models"
)

// Orders lists the order history.
func (a *App) Orders(ctx context.Context) error {
	orders, err := a.api.ListOrders(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Could not load orders:", err.Error())
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders yet.")
		return nil
	}
	for _, o := range orders {
		fmt.Fprintf(a.out, "%s  %10.2f %s  %s/%s  %s\n",
			o.ID, o.TotalAmount, a.config.UPICurrency,
			o.Status, o.PaymentStatus, o.CreatedAt)
	}
	return nil
}

// Order shows a single order, refreshing its payment status.
func (a *App) Order(ctx context.Context, id string) error {
	o, err := a.api.GetOrder(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "Could not load order:", err.Error())
		return err
	}

	// Best-effort refresh; the stored status stands if it fails.
	if status, err := a.api.GetPaymentStatus(ctx, id); err == nil && status != "" {
		o.PaymentStatus = status
	}

	fmt.Fprintln(a.out, "Order", o.ID)
	for _, item := range o.Items {
		fmt.Fprintf(a.out, "  %-24s x%-3d %10.2f %s\n",
			item.Product.Name, item.Quantity,
			item.Price*float64(item.Quantity), a.config.UPICurrency)
	}
	fmt.Fprintf(a.out, "Total:   %.2f %s\n", o.TotalAmount, a.config.UPICurrency)
	fmt.Fprintf(a.out, "Status:  %s, payment %s\n", o.Status, o.PaymentStatus)
	if o.InvoiceNumber != "" {
		fmt.Fprintln(a.out, "Invoice:", o.InvoiceNumber)
	}
	a.printAddress(o.ShippingAddress)
	return nil
}

// Invoice shows the backend's printable projection of an order.
func (a *App) Invoice(ctx context.Context, id string) error {
	inv, err := a.api.GetInvoice(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "Could not load invoice:", err.Error())
		return err
	}

	fmt.Fprintln(a.out, "Invoice", inv.InvoiceNumber)
	fmt.Fprintln(a.out, "Date:   ", inv.OrderDate)
	for _, line := range inv.Items {
		fmt.Fprintf(a.out, "  %-24s x%-3d %10.2f %s\n",
			line.Name, line.Quantity, line.Subtotal, a.config.UPICurrency)
	}
	fmt.Fprintf(a.out, "Subtotal: %.2f %s\n", inv.Subtotal, a.config.UPICurrency)
	fmt.Fprintf(a.out, "Tax:      %.2f %s\n", inv.Tax, a.config.UPICurrency)
	fmt.Fprintf(a.out, "Total:    %.2f %s\n", inv.Total, a.config.UPICurrency)
	fmt.Fprintf(a.out, "Status:   %s, payment %s\n", inv.OrderStatus, inv.PaymentStatus)
	a.printAddress(inv.ShippingAddress)
	return nil
}

func (a *App) printAddress(addr models.ShippingAddress) {
	if addr.Address == "" {
		return
	}
	fmt.Fprintf(a.out, "Ship to: %s, %s %s, %s\n",
		addr.Address, addr.City, addr.PostalCode, addr.Country)
}
