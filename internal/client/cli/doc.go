// Package cli provides the interactive Cozyon storefront command-line
// client.
//
// It wires configuration, the local session store, the REST gateway and an
// interactive REPL. Typical flow: restore the persisted session, browse the
// catalog, manage the cart (login is required to add items), and check out
// with a UPI payment presented for the detected device class.
//
// Key features:
//   - Register / Login / Logout with a persisted session
//   - Browse products, view product details
//   - Cart management backed by the server cart
//   - Checkout with QR (desktop) or deep-link (mobile) UPI payment
//   - Order history and invoices
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
