// internal/interfaces/cli/cart.go
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nishantmakwanaa/clothing-store/internal/client/api"
	"github.com/nishantmakwanaa/clothing-store/internal/client/cart"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/apperrors"
)

func (a *App) showCart(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tCOLOR\tSIZE\tPRICE")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", item.ID, item.Product.Name, item.Color, item.Size, a.receipts.FormatMoney(item.Product.Price))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	a.printTotals(a.cart.Totals())
	return nil
}

func (a *App) add(ctx context.Context, fs *flag.FlagSet, args []string) error {
	color := fs.String("color", "", "color name")
	size := fs.String("size", "", "size name")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	p, err := a.catalog.Product(ctx, api.ID(rest[0]))
	if err != nil {
		return err
	}

	chosenColor, err := pickVariant("color", colorNames(p.Colors), *color)
	if err != nil {
		return err
	}
	chosenSize, err := pickVariant("size", sizeNames(p.Sizes), *size)
	if err != nil {
		return err
	}

	if a.cart.Contains(p.ID, chosenColor, chosenSize) {
		fmt.Fprintf(a.out, "%s (%s, %s) is already in your cart.\n", p.Name, chosenColor, chosenSize)
		return nil
	}

	item, err := a.cart.AddToCart(ctx, *p, chosenColor, chosenSize)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s (%s, %s) to your cart as %s.\n", p.Name, item.Color, item.Size, item.ID)
	return nil
}

func (a *App) remove(ctx context.Context, fs *flag.FlagSet, args []string) error {
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	if err := a.cart.RemoveFromCart(ctx, rest[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Removed.")
	return nil
}

func (a *App) checkout(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	inCart := len(a.cart.Items())
	order, err := a.cart.CompleteOrder(ctx)
	if err != nil && order.ID == "" {
		return err
	}

	fmt.Fprintf(a.out, "Order %s %s on %s\n", order.ID, strings.ToLower(string(order.Status)), order.Date.Format("2006-01-02 15:04"))
	for _, line := range order.Lines {
		fmt.Fprintf(a.out, "  %s (%s, %s)  %s\n", line.Name, line.Color, line.Size, a.receipts.FormatMoney(line.Price))
	}
	fmt.Fprintf(a.out, "Total: %s\n", a.receipts.FormatMoney(order.Total))
	if skipped := inCart - len(order.Lines); skipped > 0 && a.cart.Policy() == cart.PolicyFirstItem {
		fmt.Fprintf(a.out, "Only the first item is ordered under the %s policy; %d other item(s) were dropped from the cart.\n", a.cart.Policy(), skipped)
	}

	// The order exists in memory even when it could not be saved
	return err
}

func (a *App) orders(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	history := a.cart.Orders()
	if len(history) == 0 {
		fmt.Fprintln(a.out, "No orders yet.")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ORDER\tDATE\tITEMS\tTOTAL\tSTATUS")
	for i := len(history) - 1; i >= 0; i-- {
		o := history[i]
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", o.ID, o.Date.Format("2006-01-02 15:04"), len(o.Lines), a.receipts.FormatMoney(o.Total), o.Status)
	}
	return w.Flush()
}

func (a *App) receipt(ctx context.Context, fs *flag.FlagSet, args []string) error {
	output := fs.String("o", "", "output file (default receipt-<order>.pdf or .html)")
	asHTML := fs.Bool("html", false, "write the HTML receipt instead of a PDF")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	order, err := a.cart.Order(rest[0])
	if err != nil {
		return err
	}

	customer := "Guest"
	if profile := a.sessions.Profile(); profile != nil {
		customer = profile.DisplayName()
	}

	path := *output
	var content []byte
	if *asHTML {
		html, err := a.receipts.RenderReceiptHTML(order, customer)
		if err != nil {
			return err
		}
		content = []byte(html)
		if path == "" {
			path = receiptFilename(order, ".html")
		}
	} else {
		buf, err := a.receipts.GenerateReceipt(order, customer)
		if err != nil {
			return err
		}
		content = buf.Bytes()
		if path == "" {
			path = receiptFilename(order, ".pdf")
		}
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	fmt.Fprintf(a.out, "Receipt written to %s\n", path)
	return nil
}

func (a *App) upload(ctx context.Context, fs *flag.FlagSet, args []string) error {
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	f, err := os.Open(rest[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", rest[0], err)
	}
	defer f.Close()

	resp, err := a.sessions.Client().Upload(ctx, filepath.Base(rest[0]), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded to %s\n", resp.Path)
	return nil
}

func (a *App) printTotals(t cart.Totals) {
	fmt.Fprintf(a.out, "\nItems:    %d\n", t.ItemCount)
	fmt.Fprintf(a.out, "Subtotal: %s\n", a.receipts.FormatMoney(t.Subtotal))
	fmt.Fprintf(a.out, "Shipping: %s\n", a.receipts.FormatMoney(t.Shipping))
	fmt.Fprintf(a.out, "Total:    %s\n", a.receipts.FormatMoney(t.Total))
}

// pickVariant resolves the requested option against what the product offers.
// A product with a single option needs no flag.
func pickVariant(field string, options []string, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if len(options) == 0 {
		return requested, nil
	}
	if requested == "" {
		if len(options) == 1 {
			return options[0], nil
		}
		return "", apperrors.NewValidationError(field, "choose one of "+strings.Join(options, ", "))
	}
	for _, option := range options {
		if strings.EqualFold(option, requested) {
			return option, nil
		}
	}
	return "", apperrors.NewValidationError(field, fmt.Sprintf("%q is not available, choose one of %s", requested, strings.Join(options, ", ")))
}

func receiptFilename(order cart.Order, ext string) string {
	id := order.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "receipt-" + id + ext
}
