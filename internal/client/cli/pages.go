package cli

import "fmt"

// Static store pages. These mirror the storefront's informational pages and
// are served locally; no backend call is involved.
var pages = map[string]string{
	"about": `Cozyon is a home & living store: furniture, decor and textiles,
shipped across India. Every product in the catalog is stocked in our own
warehouse and dispatched within two working days.`,

	"contact": `Reach us at support@cozyon.example or +91 33 4000 0000
(Mon-Sat, 10:00-18:00 IST). For order issues, include your booking ID.`,

	"shipping": `Standard shipping is free on orders above 999 INR and takes
3-7 working days depending on the destination. Cash on delivery is not
available; all orders are prepaid via UPI.`,
}

// Page prints a static store page by name.
func (a *App) Page(name string) error {
	text, ok := pages[name]
	if !ok {
		fmt.Fprintln(a.out, "Unknown page:", name)
		return nil
	}
	fmt.Fprintln(a.out, text)
	return nil
}
