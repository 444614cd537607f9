package cli

import (
	"context"
	"fmt"

	"github.com/ayadas/cozyon-cli/internal/client/models"
)

// Products lists the catalog.
func (a *App) Products(ctx context.Context) error {
	products, err := a.api.ListProducts(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Could not load products:", err.Error())
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(a.out, "No products available.")
		return nil
	}
	for _, p := range products {
		a.printProductLine(p)
	}
	return nil
}

// Product shows a single product's details.
func (a *App) Product(ctx context.Context, id string) error {
	p, err := a.api.GetProduct(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "Could not load product:", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "%s  %.2f %s\n", p.Name, p.Price, a.config.UPICurrency)
	if p.Category != "" {
		fmt.Fprintln(a.out, "Category:", p.Category)
	}
	if p.Stock != nil {
		if *p.Stock > 0 {
			fmt.Fprintf(a.out, "In stock: %d\n", *p.Stock)
		} else {
			fmt.Fprintln(a.out, "Out of stock")
		}
	}
	if p.Description != "" {
		fmt.Fprintln(a.out, p.Description)
	}
	if url := p.ImageURL(); url != "" {
		fmt.Fprintln(a.out, "Image:", url)
	}
	fmt.Fprintf(a.out, "Add with: add %s [qty]\n", p.Key())
	return nil
}

func (a *App) printProductLine(p models.Product) {
	stock := ""
	if p.Stock != nil && *p.Stock <= 0 {
		stock = "  (out of stock)"
	}
	fmt.Fprintf(a.out, "%-26s %10.2f %s  [%s]%s\n", p.Name, p.Price, a.config.UPICurrency, p.Key(), stock)
}
