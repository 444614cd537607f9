package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayadas/cozyon-cli/internal/client/models"
	"github.com/ayadas/cozyon-cli/internal/client/session"
)

// Cart shows the current cart lines and the recomputed total.
func (a *App) Cart(ctx context.Context) error {
	items := a.session.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return nil
	}
	for _, item := range items {
		fmt.Fprintf(a.out, "%-26s x%-3d %10.2f %s  [%s]\n",
			item.Product.Name, item.Quantity,
			item.UnitPrice()*float64(item.Quantity), a.config.UPICurrency,
			item.Product.Key())
	}
	fmt.Fprintf(a.out, "Total: %.2f %s (%d items)\n",
		a.session.CartTotal(), a.config.UPICurrency, a.session.CartCount())
	return nil
}

// Add puts qty units of the product into the server-side cart. While logged
// out the session refuses and we offer an immediate login instead.
func (a *App) Add(ctx context.Context, id string, qty int) error {
	product := models.Product{ID: id}
	if err := a.session.AddToCart(ctx, product, qty); err != nil {
		if errors.Is(err, session.ErrAuthRequired) {
			return a.promptLogin(ctx)
		}
		return err
	}
	fmt.Fprintf(a.out, "Added. Cart now has %d items.\n", a.session.CartCount())
	return nil
}

// Remove drops the product's line from the cart.
func (a *App) Remove(ctx context.Context, id string) error {
	if err := a.session.RemoveFromCart(ctx, id); err != nil {
		fmt.Fprintln(a.out, "Could not remove item:", err.Error())
		return err
	}
	fmt.Fprintln(a.out, "Removed.")
	return nil
}

// Qty sets the absolute quantity of the product's line; zero removes it.
func (a *App) Qty(ctx context.Context, id string, qty int) error {
	if err := a.session.UpdateQuantity(ctx, id, qty); err != nil {
		fmt.Fprintln(a.out, "Could not update quantity:", err.Error())
		return err
	}
	fmt.Fprintf(a.out, "Updated. Cart now has %d items.\n", a.session.CartCount())
	return nil
}
