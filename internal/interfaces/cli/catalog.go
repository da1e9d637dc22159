// internal/interfaces/cli/catalog.go
package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/nishantmakwanaa/clothing-store/internal/client/api"
)

func (a *App) products(ctx context.Context, fs *flag.FlagSet, args []string) error {
	category := fs.String("category", "", "category id")
	query := fs.String("q", "", "search text matched against name and brand")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}

	var (
		list []api.Product
		err  error
	)
	switch {
	case *category != "":
		list, err = a.catalog.ProductsByCategory(ctx, api.ID(*category))
		if err == nil && *query != "" {
			list = filterProducts(list, *query)
		}
	case *query != "":
		list, err = a.catalog.Search(ctx, *query)
	default:
		list, err = a.catalog.Products(ctx)
	}
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No products found.")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tPRICE\tRATING")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f (%d)\n", p.ID, p.Name, p.Brand, a.receipts.FormatMoney(p.Price), p.Rating, p.Reviews)
	}
	return w.Flush()
}

func (a *App) product(ctx context.Context, fs *flag.FlagSet, args []string) error {
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	p, err := a.catalog.Product(ctx, api.ID(rest[0]))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n", p.Name)
	if p.Brand != "" {
		fmt.Fprintf(a.out, "Brand:    %s\n", p.Brand)
	}
	if p.Category != nil {
		fmt.Fprintf(a.out, "Category: %s\n", p.Category.Name)
	}
	fmt.Fprintf(a.out, "Price:    %s\n", a.receipts.FormatMoney(p.Price))
	fmt.Fprintf(a.out, "Rating:   %.1f (%d reviews)\n", p.Rating, p.Reviews)
	fmt.Fprintf(a.out, "Colors:   %s\n", joinOrDash(colorNames(p.Colors)))
	fmt.Fprintf(a.out, "Sizes:    %s\n", joinOrDash(sizeNames(p.Sizes)))
	if p.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", p.Description)
	}
	return nil
}

func (a *App) categories(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	list, err := a.catalog.Categories(ctx)
	if err != nil {
		return err
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tNAME")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%s\n", c.ID, c.Name)
	}
	return w.Flush()
}

func (a *App) colors(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	list, err := a.catalog.Colors(ctx)
	if err != nil {
		return err
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tNAME\tHEX")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.Hex)
	}
	return w.Flush()
}

func (a *App) sizes(ctx context.Context, fs *flag.FlagSet, args []string) error {
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	list, err := a.catalog.Sizes(ctx)
	if err != nil {
		return err
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tNAME")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\n", s.ID, s.Name)
	}
	return w.Flush()
}

func filterProducts(list []api.Product, query string) []api.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]api.Product, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Brand), q) {
			out = append(out, p)
		}
	}
	return out
}

func colorNames(colors []api.Color) []string {
	names := make([]string, 0, len(colors))
	for _, c := range colors {
		names = append(names, c.Name)
	}
	return names
}

func sizeNames(sizes []api.Size) []string {
	names := make([]string, 0, len(sizes))
	for _, s := range sizes {
		names = append(names, s.Name)
	}
	return names
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
