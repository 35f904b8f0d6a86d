// shopcart — консольная витрина для ручной проверки сервиса заказов:
// каталог, корзина с персистентным состоянием и оба сценария оформления.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ryan24411390/clearr-vision-sub000/internal/cart"
	"github.com/ryan24411390/clearr-vision-sub000/internal/catalog"
	"github.com/ryan24411390/clearr-vision-sub000/internal/checkout"
	"github.com/ryan24411390/clearr-vision-sub000/internal/domain"
	"github.com/ryan24411390/clearr-vision-sub000/internal/pricing"
	"github.com/ryan24411390/clearr-vision-sub000/internal/storage/pebblestore"
)

const defaultAPIURL = "http://localhost:8080"

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.WarnLevel)

	if len(os.Args) < 2 {
		usage()
	}

	apiURL := os.Getenv("CLEARR_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	switch os.Args[1] {
	case "catalog":
		runCatalog()
	case "cart":
		runCart(os.Args[2:])
	case "order":
		runDirectOrder(os.Args[2:], apiURL)
	case "checkout":
		runCheckout(os.Args[2:], apiURL)
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: shopcart <command>

commands:
  catalog                  list products
  cart show|add|remove|clear
  order                    place a one-click order from a product page
  checkout                 place an order from the cart`)
	os.Exit(2)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// openCart открывает персистентную корзину в CLEARR_CART_PATH.
func openCart() (*cart.Store, func()) {
	dir := os.Getenv("CLEARR_CART_PATH")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fail("resolve home dir: %v", err)
		}
		dir = filepath.Join(home, ".clearr", "cart")
	}

	backend, err := pebblestore.Open(dir)
	if err != nil {
		fail("open cart: %v", err)
	}
	store, err := cart.NewStore(backend, nil)
	if err != nil {
		_ = backend.Close()
		fail("load cart: %v", err)
	}
	return store, func() { _ = backend.Close() }
}

func runCatalog() {
	for _, p := range catalog.Products() {
		price := fmt.Sprintf("%d tk", p.Price)
		if p.OriginalPrice > p.Price {
			price = fmt.Sprintf("%d tk (was %d)", p.Price, p.OriginalPrice)
		}
		fmt.Printf("%-6s %-28s %s\n", p.ID, p.Name, price)
		if len(p.AvailableColors) > 0 {
			fmt.Printf("       colors: %s\n", strings.Join(p.AvailableColors, ", "))
		}
		if len(p.AvailablePowers) > 0 {
			fmt.Printf("       powers: %s\n", strings.Join(p.AvailablePowers, ", "))
		}
	}
}

func runCart(args []string) {
	if len(args) == 0 {
		args = []string{"show"}
	}

	store, closeCart := openCart()
	defer closeCart()

	switch args[0] {
	case "show":
		items := store.Items()
		if len(items) == 0 {
			fmt.Println("cart is empty")
			return
		}
		for _, item := range items {
			line := fmt.Sprintf("%dx %s", item.Quantity, item.Name)
			if item.Variant != nil {
				line += fmt.Sprintf(" (%s, %s)", item.Variant.Color, item.Variant.Power)
			}
			fmt.Printf("%-50s %d tk\n", line, item.Price*int64(item.Quantity))
		}
		fmt.Printf("total: %d tk (%d items)\n", store.Total(), store.ItemCount())
	case "add":
		fs := flag.NewFlagSet("cart add", flag.ExitOnError)
		productID := fs.String("product", "", "product id")
		color := fs.String("color", "", "display color")
		power := fs.String("power", "", "lens power")
		qty := fs.Int("qty", 1, "quantity")
		_ = fs.Parse(args[1:])

		product, err := catalog.ByID(*productID)
		if err != nil {
			fail("unknown product %q", *productID)
		}
		item := cart.Item{
			ID:        cart.ItemID(product.ID, *color, *power),
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  int32(*qty),
		}
		if *color != "" || *power != "" {
			item.Variant = &domain.Variant{Color: *color, Power: *power}
		}
		if err := store.AddItem(item); err != nil {
			fail("add item: %v", err)
		}
		fmt.Printf("added %dx %s\n", *qty, product.Name)
	case "remove":
		fs := flag.NewFlagSet("cart remove", flag.ExitOnError)
		id := fs.String("id", "", "cart line id (productID-color-power)")
		_ = fs.Parse(args[1:])
		if err := store.RemoveItem(*id); err != nil {
			fail("remove item: %v", err)
		}
	case "clear":
		if err := store.Clear(); err != nil {
			fail("clear cart: %v", err)
		}
		fmt.Println("cart cleared")
	default:
		usage()
	}
}

func runDirectOrder(args []string, apiURL string) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	productID := fs.String("product", "", "product id")
	color := fs.String("color", "", "display color")
	power := fs.String("power", "", "lens power")
	qty := fs.Int("qty", 2, "quantity: 1 or 2")
	zone := fs.String("zone", "inside", "delivery zone: inside|outside")
	name := fs.String("name", "", "customer name")
	phone := fs.String("phone", "", "customer phone")
	address := fs.String("address", "", "delivery address")
	_ = fs.Parse(args)

	product, err := catalog.ByID(*productID)
	if err != nil {
		fail("unknown product %q", *productID)
	}

	form := checkout.NewForm(product, checkout.FormDeps{
		Submitter: checkout.NewClient(apiURL, nil),
	})
	form.SetQuantity(pricing.Quantity(*qty))
	form.SetZone(pricing.Zone(*zone))
	form.SetColor(*color)
	form.SetPower(*power)
	form.SetCustomerName(*name)
	form.SetPhoneNumber(*phone)
	form.SetAddress(*address)

	quote := form.Quote()
	fmt.Printf("subtotal %d tk, delivery %d tk, total %d tk\n",
		quote.Subtotal, quote.DeliveryCharge, quote.Total)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := form.PlaceOrder(ctx)
	if err != nil {
		fail("place order: %v", err)
	}
	if result == nil {
		errs := form.Errors()
		fields := []checkout.Field{
			checkout.FieldColor, checkout.FieldPower,
			checkout.FieldCustomerName, checkout.FieldPhoneNumber, checkout.FieldAddress,
		}
		for _, field := range fields {
			if msg := errs.Get(field); msg != "" {
				fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
			}
		}
		os.Exit(1)
	}
	fmt.Printf("order placed: %s\n", result.OrderNumber)
}

func runCheckout(args []string, apiURL string) {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	phone := fs.String("phone", "", "customer phone")
	address := fs.String("address", "", "delivery address")
	city := fs.String("city", "", "city")
	area := fs.String("area", "", "area")
	_ = fs.Parse(args)

	store, closeCart := openCart()
	defer closeCart()

	co := checkout.NewCheckout(store, checkout.FormDeps{
		Submitter: checkout.NewClient(apiURL, nil),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := co.PlaceOrder(ctx, checkout.CheckoutDetails{
		FirstName: *first,
		LastName:  *last,
		Phone:     *phone,
		Address:   *address,
		City:      *city,
		Area:      *area,
	})
	if err != nil {
		fail("checkout: %v", err)
	}
	if result == nil {
		os.Exit(1)
	}
	fmt.Printf("order placed: %s\n", result.OrderNumber)
}
