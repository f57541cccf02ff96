package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/farmhub/client-go/internal/api"
	"github.com/farmhub/client-go/internal/config"
	"github.com/farmhub/client-go/internal/kvstore"
	"github.com/farmhub/client-go/internal/logging"
	"github.com/farmhub/client-go/internal/models"
	"github.com/farmhub/client-go/internal/saved"
	"github.com/farmhub/client-go/internal/session"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: farmhub <command> [args]

commands:
  login <email> <password>   authenticate and persist the session
  whoami                     show the current session
  logout                     discard the session
  products [query]           list products, optionally filtered
  save <product-id>          toggle a product in the saved set
  saved                      list saved products
  comments <product-id>      list comments on a product`)
	os.Exit(2)
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o755); err != nil {
		log.Fatalf("create store directory: %v", err)
	}
	store, err := kvstore.Open(cfg.StorePath)
	if err != nil {
		log.Fatalf("open local store: %v", err)
	}

	sessions := session.NewStore(store)
	savedSet := saved.NewSet(store)
	client := api.New(cfg.APIBaseURL, sessions, cfg.HTTPTimeout)

	if err := run(ctx, args, client, sessions, savedSet); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, client *api.Client, sessions *session.Store, savedSet *saved.Set) error {
	switch args[0] {
	case "login":
		if len(args) != 3 {
			usage()
		}
		sess, err := client.Login(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		if sess.User != nil {
			fmt.Printf("logged in as %s (%s)\n", sess.User.Email, sess.User.Role)
		} else {
			fmt.Println("logged in")
		}
		return nil

	case "whoami":
		sess, err := sessions.Read(ctx)
		if err != nil {
			return err
		}
		if !sess.IsAuthenticated() {
			fmt.Println("not logged in")
			return nil
		}
		if sess.User != nil {
			fmt.Printf("%s (%s)\n", sess.User.Email, sess.User.Role)
		} else {
			fmt.Println("logged in, profile pending")
		}
		return nil

	case "logout":
		return client.Logout(ctx)

	case "products":
		products, err := client.Products(ctx)
		if err != nil {
			return err
		}
		if len(args) > 1 {
			products = models.FilterProducts(products, args[1])
		}
		printProducts(products)
		return nil

	case "save":
		if len(args) != 2 {
			usage()
		}
		nowSaved, err := savedSet.Toggle(ctx, args[1])
		if err != nil {
			return err
		}
		if nowSaved {
			fmt.Println("saved")
		} else {
			fmt.Println("removed")
		}
		return nil

	case "saved":
		ids, err := savedSet.List(ctx)
		if err != nil {
			return err
		}
		products, err := client.SavedProducts(ctx, ids)
		if err != nil {
			return err
		}
		printProducts(products)
		return nil

	case "comments":
		if len(args) != 2 {
			usage()
		}
		comments, err := client.Comments(ctx, args[1])
		if err != nil {
			return err
		}
		for _, comment := range comments {
			name := comment.UserName
			if name == "" {
				name = comment.UserID
			}
			fmt.Printf("%s: %s\n", name, comment.Text)
		}
		return nil

	default:
		usage()
		return nil
	}
}

func printProducts(products []models.Product) {
	for _, p := range products {
		fmt.Printf("%s  %-20s %-12s %8.2f x %g\n", p.ID, p.Name, p.Category, p.Price, p.Quantity)
	}
}
