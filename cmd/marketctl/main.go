// marketctl is a terminal client for a marketd deployment. It drives the
// same list-view controller the dashboards use, so search, paging and
// mutations behave identically to the web surfaces.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/multivend/marketd/internal/apiclient"
	"github.com/multivend/marketd/pkg/listview"
)

type stderrNotifier struct{}

func (stderrNotifier) Success(message string) {
	fmt.Fprintln(os.Stderr, "ok:", message)
}

func (stderrNotifier) Error(kind, message string) {
	fmt.Fprintf(os.Stderr, "error (%s): %s\n", kind, message)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: marketctl [flags] <command> [args]

commands:
  login <email> <password>          authenticate and print a token
  shop-login <email> <password>     authenticate as a seller
  products                          list seller products (-q, -page, -per-page)
  delete-product <id>               delete one seller product
  set-stock <id> <stock>            inline-update one product's stock
  approve-seller <id>               approve a pending seller (admin)
  export-orders <csv|xlsx> <file>   download the order export (admin)`)
	os.Exit(2)
}

func main() {
	baseURL := flag.String("url", "http://127.0.0.1:1816", "marketd base URL")
	token := flag.String("token", os.Getenv("MARKETCTL_TOKEN"), "bearer token")
	query := flag.String("q", "", "search term")
	page := flag.Int("page", 1, "page number")
	perPage := flag.Int("per-page", 10, "page size")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := apiclient.New(*baseURL)
	client.Token = *token

	var err error
	switch args[0] {
	case "login":
		err = runLogin(ctx, client, args[1:], false)
	case "shop-login":
		err = runLogin(ctx, client, args[1:], true)
	case "products":
		err = runProducts(ctx, client, *query, *page, *perPage)
	case "delete-product":
		err = runDeleteProduct(ctx, client, args[1:])
	case "set-stock":
		err = runSetStock(ctx, client, args[1:])
	case "approve-seller":
		err = runApproveSeller(ctx, client, args[1:])
	case "export-orders":
		err = runExportOrders(ctx, client, args[1:])
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "marketctl:", err)
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, client *apiclient.Client, args []string, shop bool) error {
	if len(args) != 2 {
		usage()
	}
	var err error
	if shop {
		err = client.ShopLogin(ctx, args[0], args[1])
	} else {
		err = client.Login(ctx, args[0], args[1])
	}
	if err != nil {
		return err
	}
	fmt.Println(client.Token)
	return nil
}

func productController(client *apiclient.Client) *listview.Controller[apiclient.ProductRow] {
	source := &apiclient.ShopProductSource{Client: client}
	return listview.New[apiclient.ProductRow](source, stderrNotifier{})
}

func runProducts(ctx context.Context, client *apiclient.Client, query string, page, perPage int) error {
	ctl := productController(client)
	if err := ctl.Load(ctx); err != nil {
		return err
	}
	ctl.SetPerPage(perPage)
	ctl.Search(query)
	ctl.Page(page)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tSTATUS")
	for _, p := range ctl.Visible() {
		stock := "-"
		if p.Stock != nil {
			stock = strconv.Itoa(*p.Stock)
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\n", p.ID, p.Name, p.DiscountPrice, stock, p.Status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("page %d/%d, %d matching\n", ctl.CurrentPage(), ctl.Pages(), len(ctl.Matches()))
	return nil
}

func runDeleteProduct(ctx context.Context, client *apiclient.Client, args []string) error {
	if len(args) != 1 {
		usage()
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	ctl := productController(client)
	if err := ctl.Load(ctx); err != nil {
		return err
	}
	return ctl.Delete(ctx, id)
}

func runSetStock(ctx context.Context, client *apiclient.Client, args []string) error {
	if len(args) != 2 {
		usage()
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	stock, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid stock %q", args[1])
	}
	ctl := productController(client)
	if err := ctl.Load(ctx); err != nil {
		return err
	}
	return ctl.InlineUpdate(ctx, id, map[string]interface{}{"stock": stock})
}

func runApproveSeller(ctx context.Context, client *apiclient.Client, args []string) error {
	if len(args) != 1 {
		usage()
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid seller id %q", args[0])
	}
	shop, err := client.AdminApproveSeller(ctx, id, true)
	if err != nil {
		return err
	}
	fmt.Printf("seller %d (%s) approved\n", shop.ID, shop.Name)
	return nil
}

func runExportOrders(ctx context.Context, client *apiclient.Client, args []string) error {
	if len(args) != 2 {
		usage()
	}
	data, err := client.AdminExportOrders(ctx, args[0])
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %d bytes to %s\n", len(data), args[1])
	return nil
}
