package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"estate-front/internal/api"
	"estate-front/internal/auth"
	"estate-front/internal/cache"
	"estate-front/internal/cart"
	"estate-front/internal/config"
	"estate-front/internal/listing"
	"estate-front/internal/logger"
	"estate-front/internal/mutation"
	"estate-front/internal/notify"
	"estate-front/internal/orders"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const usage = `usage: storefront <command> [args]

commands:
  products [page]        list properties
  product <id>           show one property
  categories             list categories
  cart                   show the cart
  add <productId> [qty]  add a property to the cart
  checkout               convert the cart to an order
  orders                 show order history`

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		log = logger.NewWithDefaults()
	}
	defer log.Sync()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	session := auth.NewSession(cfg.Auth.Token)
	client, err := api.New(cfg.Backend.BaseURL, session, cfg.Backend.Timeout, log)
	if err != nil {
		log.Fatal("Failed to create API client", zap.Error(err))
	}

	store := cache.NewStore(log)
	defer store.Close()
	runner := mutation.NewRunner(store, log)
	notifier := notify.NewLogger(log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout+5*time.Second)
	defer cancel()

	if err := run(ctx, os.Args[1], os.Args[2:], client, store, runner, notifier, cfg); err != nil {
		log.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, client *api.Client, store *cache.Store, runner *mutation.Runner, notifier notify.Notifier, cfg *config.Config) error {
	switch command {
	case "products":
		svc := listing.NewService(client, store, cfg.App.PageSize)
		if len(args) > 0 {
			if page, err := strconv.Atoi(args[0]); err == nil {
				svc.Model.SetPage(page)
			}
		}
		page, err := svc.Fetch(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tADDRESS")
		for _, p := range page.Data {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", p.ID, p.Name, p.Price, p.Address)
		}
		w.Flush()
		fmt.Printf("page %d of %d (%d total)\n", page.Page, page.TotalPages, page.Total)
		return nil

	case "product":
		if len(args) < 1 {
			return fmt.Errorf("product id required")
		}
		p, err := client.GetProduct(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s\n%s\nprice: %.2f\naddress: %s\nimages: %d\n", p.Name, p.Description, p.Price, p.Address, len(p.Images))
		return nil

	case "categories":
		categories, err := client.Categories(ctx)
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Printf("%s\t%s\n", c.ID, c.Name)
		}
		return nil

	case "cart":
		mgr := cart.NewManager(client, store, runner, notifier, nil)
		c, err := mgr.Cart(ctx)
		if err != nil {
			return err
		}
		for _, item := range c.Items {
			fmt.Printf("%s x%d @ %.2f\n", item.Product.Name, item.Quantity, item.Product.Price)
		}
		fmt.Printf("total: %d items, %.2f\n", c.TotalQuantity, c.TotalPrice)
		return nil

	case "add":
		if len(args) < 1 {
			return fmt.Errorf("product id required")
		}
		qty := 1
		if len(args) > 1 {
			if v, err := strconv.Atoi(args[1]); err == nil {
				qty = v
			}
		}
		product, err := client.GetProduct(ctx, args[0])
		if err != nil {
			return err
		}
		mgr := cart.NewManager(client, store, runner, notifier, nil)
		return mgr.Add(ctx, product, qty, "")

	case "checkout":
		mgr := cart.NewManager(client, store, runner, notifier, nil)
		result, err := mgr.Checkout(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("ordered %d, unavailable %d, total %.2f\n",
			len(result.AvailableProducts), len(result.UnavailableProducts), result.TotalAmount)
		return nil

	case "orders":
		history := orders.NewHistory(client, store)
		list, err := history.Orders(ctx, orders.Filter{})
		if err != nil {
			return err
		}
		for _, o := range list {
			fmt.Printf("%s\t%s\t%.2f\t%s\n", o.ID, orders.StatusLabel(o.Status), o.Total, o.OrderDate.Format("2006-01-02"))
		}
		return nil

	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}
