package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Products(ctx context.Context) error
	Product(ctx context.Context, id string) error
	Cart(ctx context.Context) error
	Add(ctx context.Context, id string, qty int) error
	Remove(ctx context.Context, id string) error
	Qty(ctx context.Context, id string, qty int) error
	Checkout(ctx context.Context) error
	Orders(ctx context.Context) error
	Order(ctx context.Context, id string) error
	Invoice(ctx context.Context, id string) error
	Page(name string) error
}

// runREPL starts a simple read–eval–print loop for the storefront CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help             — show available commands
//	  - products | p     — list the catalog
//	  - product <id>     — show one product
//	  - cart             — show the cart
//	  - about | contact | shipping — static store pages
//	  - exit | quit      — leave the program
//
//	Not logged in:
//	  - register         — create an account
//	  - login            — authenticate
//
//	Logged in:
//	  - add <id> [qty]   — add a product to the cart
//	  - remove <id>      — remove a cart line
//	  - qty <id> <n>     — set a line's quantity (0 removes)
//	  - checkout         — place the order and pay
//	  - orders           — list order history
//	  - order <id>       — show one order
//	  - invoice <id>     — show an order's invoice
//	  - logout           — log out
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cozyon> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (p)roducts, product <id>, cart, add <id> [qty], remove <id>, qty <id> <n>, checkout, orders, order <id>, invoice <id>, about, contact, shipping, logout, exit")
			} else {
				printlnFn("Available commands: (p)roducts, product <id>, cart, about, contact, shipping, register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "p", "products":
			_ = a.Products(ctx)

		case "product":
			if len(args) == 0 {
				printlnFn("Usage: product <id>")
				continue
			}
			_ = a.Product(ctx, args[0])

		case "cart":
			_ = a.Cart(ctx)

		case "add":
			if len(args) == 0 {
				printlnFn("Usage: add <id> [qty]")
				continue
			}
			qty := 1
			if len(args) > 1 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					printlnFn("Usage: add <id> [qty]")
					continue
				}
				qty = n
			}
			_ = a.Add(ctx, args[0], qty)

		case "remove":
			if len(args) == 0 {
				printlnFn("Usage: remove <id>")
				continue
			}
			_ = a.Remove(ctx, args[0])

		case "qty":
			if len(args) < 2 {
				printlnFn("Usage: qty <id> <n>")
				continue
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				printlnFn("Usage: qty <id> <n>")
				continue
			}
			_ = a.Qty(ctx, args[0], n)

		case "checkout":
			_ = a.Checkout(ctx)

		case "orders":
			_ = a.Orders(ctx)

		case "order":
			if len(args) == 0 {
				printlnFn("Usage: order <id>")
				continue
			}
			_ = a.Order(ctx, args[0])

		case "invoice":
			if len(args) == 0 {
				printlnFn("Usage: invoice <id>")
				continue
			}
			_ = a.Invoice(ctx, args[0])

		case "about", "contact", "shipping":
			_ = a.Page(cmd)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
