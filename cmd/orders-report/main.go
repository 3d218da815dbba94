package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"storedash/internal/config"
	"storedash/internal/infra/db"
	gormrepo "storedash/internal/infra/repository"
	"storedash/internal/report"
	repo "storedash/internal/repository"

	"github.com/joho/godotenv"
)

func main() {
	var (
		storeID = flag.String("store", "", "store id to report on (required)")
		userID  = flag.String("user", "", "only orders placed by this user id")
		orderID = flag.String("order", "", "print a single order with its items and shipment form")
		timeout = flag.Duration("timeout", 30*time.Second, "query timeout")
	)
	flag.Parse()

	if strings.TrimSpace(*storeID) == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	gdb, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	stores := gormrepo.NewStoreGormRepository(gdb)
	store, err := stores.FindByID(ctx, *storeID)
	if errors.Is(err, repo.ErrNotFound) {
		log.Fatalf("store %s not found", *storeID)
	}
	if err != nil {
		log.Fatalf("failed to load store: %v", err)
	}
	log.Printf("store %s (%s)", store.Name, store.ID)

	orders := gormrepo.NewOrderGormRepository(gdb)

	if *orderID != "" {
		detail, err := loadDetail(ctx, gdb, orders, store.ID, *orderID)
		if err != nil {
			log.Fatalf("failed to load order: %v", err)
		}
		if err := report.WriteOrderDetail(os.Stdout, detail); err != nil {
			log.Fatalf("failed to print order: %v", err)
		}
		return
	}

	filter := repo.OrderListFilter{StoreID: store.ID}
	if *userID != "" {
		filter.UserID = userID
	}
	list, err := orders.ListByStore(ctx, filter)
	if err != nil {
		log.Fatalf("failed to list orders: %v", err)
	}
	if err := report.WriteOrders(os.Stdout, list); err != nil {
		log.Fatalf("failed to print orders: %v", err)
	}
}
