package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/noah-isme/lunch-tray/internal/menu"
	"github.com/noah-isme/lunch-tray/internal/money"
)

// menucheck validates a menu file and prints it with formatted prices.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	path := os.Getenv("MENU_FILE")
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	locale := envOrDefault("LOCALE", "en-US")
	code := envOrDefault("CURRENCY_CODE", "USD")
	formatter, err := money.NewFormatter(locale, code)
	if err != nil {
		log.Fatalf("Invalid currency settings: %v", err)
	}

	var catalog *menu.Catalog
	if path == "" {
		log.Println("MENU_FILE not set, checking built-in menu")
		catalog, err = menu.DefaultFor(formatter.Digits())
	} else {
		catalog, err = menu.LoadFile(path, formatter.Digits())
	}
	if err != nil {
		log.Fatalf("Invalid menu: %v", err)
	}

	for _, c := range menu.Categories() {
		items := catalog.ByCategory(c)
		fmt.Printf("%s (%d)\n", c, len(items))
		for _, it := range items {
			fmt.Printf("  %-12s %-28s %s\n", it.Name, it.Title, formatter.Format(it.Price))
		}
	}
	log.Printf("Menu OK: %d items", catalog.Len())
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
