package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"minitemu/internal/identity"
	"minitemu/internal/models"
	"minitemu/internal/service"
	"minitemu/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// errInputClosed ends the shell when stdin runs out
var errInputClosed = errors.New("input closed")

// Shell is the interactive menu front end. It reads one answer per line and
// renders every result to out; the domain packages never touch the terminal.
type Shell struct {
	controller *service.SessionController
	in         *bufio.Scanner
	out        io.Writer
	logger     *zap.Logger
}

// NewShell creates a shell reading from in and writing to out
func NewShell(controller *service.SessionController, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		controller: controller,
		in:         bufio.NewScanner(in),
		out:        out,
		logger:     util.GetLogger(),
	}
}

// Run loops over the menus until the user exits or input ends
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		var err error
		switch id := s.controller.Current().(type) {
		case nil:
			var exit bool
			exit, err = s.mainMenu(ctx)
			if exit {
				s.printf("Thank you for using our system. Goodbye!\n")
				return nil
			}
		case *identity.Seller:
			err = s.sellerMenu(ctx)
		case *identity.Customer:
			err = s.customerMenu(ctx)
		default:
			s.printf("Unrecognized role. Logging out...\n")
			_ = s.controller.Logout(ctx)
			s.logger.Error("Unrecognized identity type", zap.String("username", id.Username()))
		}

		if errors.Is(err, errInputClosed) {
			if scanErr := s.in.Err(); scanErr != nil {
				return scanErr
			}
			return nil
		}
	}
}

func (s *Shell) mainMenu(ctx context.Context) (bool, error) {
	s.printf("\n=== Mini - Temu ===\n")
	s.printf("1. Login\n")
	s.printf("2. Sign Up\n")
	s.printf("3. Exit\n")

	choice, err := s.prompt("Enter your choice: ")
	if err != nil {
		return false, err
	}

	switch choice {
	case "1":
		return false, s.login(ctx)
	case "2":
		return false, s.signUp(ctx)
	case "3":
		return true, nil
	default:
		s.printf("Invalid choice. Please try again.\n")
		return false, nil
	}
}

func (s *Shell) login(ctx context.Context) error {
	s.printf("\n=== Login ===\n")
	username, err := s.prompt("Username: ")
	if err != nil {
		return err
	}
	password, err := s.prompt("Password: ")
	if err != nil {
		return err
	}

	if _, err := s.controller.Login(ctx, username, password); err != nil {
		if errors.Is(err, models.ErrAuthentication) {
			s.printf("Invalid credentials. Please try again.\n")
			return nil
		}
		s.report(err)
		return nil
	}
	s.printf("Login successful! Welcome, %s.\n", username)
	return nil
}

func (s *Shell) signUp(ctx context.Context) error {
	s.printf("\n=== Sign Up ===\n")
	username, err := s.prompt("Username: ")
	if err != nil {
		return err
	}
	password, err := s.prompt("Password: ")
	if err != nil {
		return err
	}
	role, err := s.prompt("Role (customer/seller): ")
	if err != nil {
		return err
	}

	id, err := s.controller.SignUp(ctx, username, password, role)
	switch {
	case errors.Is(err, models.ErrDuplicateUsername):
		s.printf("Username already taken. Please choose a different username.\n")
	case err != nil:
		if _, ok := models.ParseRole(role); !ok {
			s.printf("Invalid role. Please choose 'customer' or 'seller'.\n")
			return nil
		}
		s.report(err)
	default:
		s.printf("Registration successful for %s '%s'.\n", id.Role(), id.Username())
	}
	return nil
}

func (s *Shell) sellerMenu(ctx context.Context) error {
	s.printf("\n=== Seller Menu ===\n")
	s.printf("1. Add Product\n")
	s.printf("2. View All Products\n")
	s.printf("3. Set Product on Sale\n")
	s.printf("4. View Product Details\n")
	s.printf("5. View Inventory\n")
	s.printf("6. End Sale\n")
	s.printf("7. Change Price\n")
	s.printf("8. Restock Product\n")
	s.printf("9. View Sales Report\n")
	s.printf("0. Logout\n")

	choice, err := s.prompt("Enter your choice: ")
	if err != nil {
		return err
	}

	switch choice {
	case "0":
		return s.logout(ctx)
	case "1":
		return s.addProduct(ctx)
	case "2":
		return s.listProducts(ctx)
	case "3":
		return s.setOnSale(ctx)
	case "4":
		return s.productDetails(ctx)
	case "5":
		return s.inventory(ctx)
	case "6":
		return s.endSale(ctx)
	case "7":
		return s.setPrice(ctx)
	case "8":
		return s.restock(ctx)
	case "9":
		return s.salesReport(ctx)
	default:
		s.printf("Invalid choice. Please try again.\n")
		return nil
	}
}

func (s *Shell) customerMenu(ctx context.Context) error {
	s.printf("\n=== Customer Menu ===\n")
	s.printf("1. View All Products\n")
	s.printf("2. Search for a Product\n")
	s.printf("3. View Product Details\n")
	s.printf("4. Add Product to Cart\n")
	s.printf("5. View Cart\n")
	s.printf("6. Checkout\n")
	s.printf("7. Write a Review\n")
	s.printf("8. View Orders\n")
	s.printf("0. Logout\n")

	choice, err := s.prompt("Enter your choice: ")
	if err != nil {
		return err
	}

	switch choice {
	case "0":
		return s.logout(ctx)
	case "1":
		return s.listProducts(ctx)
	case "2":
		return s.search(ctx)
	case "3":
		return s.productDetails(ctx)
	case "4":
		return s.addToCart(ctx)
	case "5":
		return s.viewCart(ctx)
	case "6":
		return s.checkout(ctx)
	case "7":
		return s.writeReview(ctx)
	case "8":
		return s.orders(ctx)
	default:
		s.printf("Invalid choice. Please try again.\n")
		return nil
	}
}

func (s *Shell) logout(ctx context.Context) error {
	s.printf("Logging out...\n")
	if err := s.controller.Logout(ctx); err != nil {
		s.report(err)
	}
	return nil
}

func (s *Shell) addProduct(ctx context.Context) error {
	name, err := s.prompt("Enter product name: ")
	if err != nil {
		return err
	}
	price, ok, err := s.promptDecimal("Enter product price: ")
	if err != nil || !ok {
		return err
	}
	category, err := s.prompt("Enter product category: ")
	if err != nil {
		return err
	}
	quantity, ok, err := s.promptInt("Enter product quantity: ")
	if err != nil || !ok {
		return err
	}
	seller, err := s.prompt("Enter seller name: ")
	if err != nil {
		return err
	}

	p, err := s.controller.AddProduct(ctx, service.AddProductRequest{
		Name:       name,
		Price:      price,
		Category:   category,
		Quantity:   quantity,
		SellerName: seller,
	})
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Product '%s' added successfully with %d units.\n", p.Name, p.Quantity)
	return nil
}

func (s *Shell) listProducts(ctx context.Context) error {
	products, err := s.controller.ViewAllProducts(ctx)
	if err != nil {
		s.report(err)
		return nil
	}
	if len(products) == 0 {
		s.printf("No products available.\n")
		return nil
	}
	s.printf("Available Products:\n")
	for _, p := range products {
		s.printf("- %s ($%s) [%s] - %d in stock", p.Name, money(p.Price), p.Category, p.Quantity)
		if p.OnSale {
			s.printf(" (ON SALE: $%s)", money(p.SalePrice))
		}
		s.printf("\n")
	}
	return nil
}

func (s *Shell) search(ctx context.Context) error {
	query, err := s.prompt("Enter search query: ")
	if err != nil {
		return err
	}
	results, err := s.controller.Search(ctx, query)
	if err != nil {
		s.report(err)
		return nil
	}
	if len(results) == 0 {
		s.printf("No products matched your search.\n")
		return nil
	}
	s.printf("\nSearch Results:\n")
	for _, p := range results {
		s.printf("- %s ($%s) [%s]\n", p.Name, money(p.UnitPrice()), p.Category)
	}
	return nil
}

func (s *Shell) productDetails(ctx context.Context) error {
	name, err := s.prompt("Enter product name to view details: ")
	if err != nil {
		return err
	}
	p, err := s.controller.ViewProductDetails(ctx, name)
	if errors.Is(err, models.ErrNotFound) {
		s.printf("Product not found.\n")
		return nil
	}
	if err != nil {
		s.report(err)
		return nil
	}

	s.printf("\n=== Product Details ===\n")
	s.printf("Name: %s\n", p.Name)
	s.printf("Category: %s\n", p.Category)
	s.printf("Seller: %s\n", p.SellerName)
	s.printf("Regular Price: $%s\n", money(p.Price))
	if p.OnSale {
		s.printf("ON SALE: $%s (%s%% off)\n", money(p.SalePrice), p.DiscountPct.String())
	}
	s.printf("Quantity Available: %d\n", p.Quantity)
	s.printf("Average Rating: %.1f/5.0\n", p.AverageRating)
	if len(p.Reviews) > 0 {
		s.printf("\nCustomer Reviews:\n")
		for _, r := range p.Reviews {
			s.printf("%d stars - %s (%s)\n", r.Rating, r.Username, r.CreatedAt.Format("2006-01-02 15:04"))
			s.printf("%q\n\n", r.Comment)
		}
	}
	return nil
}

func (s *Shell) inventory(ctx context.Context) error {
	products, err := s.controller.ViewInventory(ctx)
	if err != nil {
		s.report(err)
		return nil
	}
	if len(products) == 0 {
		s.printf("No products available in inventory.\n")
		return nil
	}
	s.printf("\n=== Inventory Details ===\n")
	for _, p := range products {
		s.printf("Product: %s\n", p.Name)
		s.printf("Category: %s\n", p.Category)
		s.printf("Price: $%s\n", money(p.Price))
		if p.OnSale {
			s.printf("Sale Price: $%s (ON SALE)\n", money(p.SalePrice))
		}
		s.printf("Quantity Available: %d\n", p.Quantity)
		s.printf("Average Rating: %.1f/5.0\n", p.AverageRating)
		s.printf("----------------------------\n")
	}
	return nil
}

func (s *Shell) setOnSale(ctx context.Context) error {
	name, err := s.prompt("Enter product name to set on sale: ")
	if err != nil {
		return err
	}
	pct, ok, err := s.promptDecimal("Enter discount percentage: ")
	if err != nil || !ok {
		return err
	}
	p, err := s.controller.SetOnSale(ctx, name, pct)
	if errors.Is(err, models.ErrValidation) {
		s.printf("Invalid discount percentage. Please enter a value between 1 and 100.\n")
		return nil
	}
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Product '%s' is now on sale with %s%% discount. Sale price: $%s\n", p.Name, pct.String(), money(p.SalePrice))
	return nil
}

func (s *Shell) endSale(ctx context.Context) error {
	name, err := s.prompt("Enter product name to end sale: ")
	if err != nil {
		return err
	}
	p, err := s.controller.EndSale(ctx, name)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Sale ended for '%s'. Price: $%s\n", p.Name, money(p.Price))
	return nil
}

func (s *Shell) setPrice(ctx context.Context) error {
	name, err := s.prompt("Enter product name: ")
	if err != nil {
		return err
	}
	price, ok, err := s.promptDecimal("Enter new price: ")
	if err != nil || !ok {
		return err
	}
	p, err := s.controller.SetPrice(ctx, name, price)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Price of '%s' is now $%s\n", p.Name, money(p.Price))
	return nil
}

func (s *Shell) restock(ctx context.Context) error {
	name, err := s.prompt("Enter product name: ")
	if err != nil {
		return err
	}
	amount, ok, err := s.promptInt("Enter units to add: ")
	if err != nil || !ok {
		return err
	}
	p, err := s.controller.Restock(ctx, name, amount)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("'%s' now has %d units.\n", p.Name, p.Quantity)
	return nil
}

func (s *Shell) salesReport(ctx context.Context) error {
	lines, err := s.controller.ViewSalesReport(ctx)
	if err != nil {
		s.report(err)
		return nil
	}
	if len(lines) == 0 {
		s.printf("No sales yet.\n")
		return nil
	}
	s.printf("\n=== Sales Report ===\n")
	for _, l := range lines {
		s.printf("- %s: %d units in %d orders, revenue $%s\n", l.ProductName, l.UnitsSold, l.Orders, money(l.Revenue))
	}
	return nil
}

func (s *Shell) addToCart(ctx context.Context) error {
	name, err := s.prompt("Enter product name: ")
	if err != nil {
		return err
	}
	quantity, ok, err := s.promptInt("Enter quantity: ")
	if err != nil || !ok {
		return err
	}
	item, err := s.controller.AddToCart(ctx, name, quantity)
	switch {
	case errors.Is(err, models.ErrInsufficientStock), errors.Is(err, models.ErrNotFound):
		s.printf("Product not available in the requested quantity.\n")
	case err != nil:
		s.report(err)
	default:
		s.printf("Added %d of %s to the cart.\n", item.Quantity, item.Product.Name)
	}
	return nil
}

func (s *Shell) viewCart(ctx context.Context) error {
	view, err := s.controller.ViewCart(ctx)
	if err != nil {
		s.report(err)
		return nil
	}
	if len(view.Lines) == 0 {
		s.printf("Your cart is empty.\n")
		return nil
	}
	s.printf("Your Cart:\n")
	for _, l := range view.Lines {
		s.printf("- %s ($%s) x %d = $%s\n", l.Product.Name, money(l.UnitPrice()), l.Quantity, money(l.Subtotal()))
	}
	s.printf("Total: $%s\n", money(view.Total))
	return nil
}

func (s *Shell) checkout(ctx context.Context) error {
	view, err := s.controller.ViewCart(ctx)
	if err != nil {
		s.report(err)
		return nil
	}
	if len(view.Lines) == 0 {
		s.printf("Your cart is empty. Add items before checking out.\n")
		return nil
	}

	var shipping models.ShippingInfo
	if shipping.Address, err = s.prompt("Enter delivery address: "); err != nil {
		return err
	}
	if shipping.City, err = s.prompt("Enter city: "); err != nil {
		return err
	}
	if shipping.PostalCode, err = s.prompt("Enter postal code: "); err != nil {
		return err
	}

	order, err := s.controller.Checkout(ctx, shipping, "")
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Order placed successfully! Delivery details:\n")
	s.printf("Address: %s, %s, %s\n", shipping.Address, shipping.City, shipping.PostalCode)
	s.printf("Order %s total: $%s\n", order.ID, money(order.Total))
	return nil
}

func (s *Shell) writeReview(ctx context.Context) error {
	name, err := s.prompt("Enter product name to review: ")
	if err != nil {
		return err
	}
	if !s.purchased(name) {
		s.printf("You can only review products you have purchased.\n")
		return nil
	}
	rating, ok, err := s.promptInt("Enter rating (1-5 stars): ")
	if err != nil || !ok {
		return err
	}
	if rating < models.MinRating || rating > models.MaxRating {
		s.printf("Invalid rating. Please enter a number between 1 and 5.\n")
		return nil
	}
	comment, err := s.prompt("Enter your review comment: ")
	if err != nil {
		return err
	}

	_, err = s.controller.WriteReview(ctx, name, rating, comment)
	switch {
	case errors.Is(err, models.ErrNotFound):
		s.printf("Product not found.\n")
	case err != nil:
		s.report(err)
	default:
		s.printf("Review added successfully!\n")
	}
	return nil
}

func (s *Shell) orders(ctx context.Context) error {
	orders, err := s.controller.ViewOrders(ctx)
	if err != nil {
		s.report(err)
		return nil
	}
	if len(orders) == 0 {
		s.printf("You have no orders yet.\n")
		return nil
	}
	s.printf("\n=== Your Orders ===\n")
	for _, o := range orders {
		s.printf("Order %s (%s) - $%s\n", o.ID, o.Status, money(o.Total))
		for _, l := range o.Lines {
			s.printf("  - %s x %d @ $%s\n", l.ProductName, l.Quantity, money(l.UnitPrice))
		}
	}
	return nil
}

// purchased lets the shell refuse a review before prompting for a rating.
// WriteReview still enforces the rule.
func (s *Shell) purchased(name string) bool {
	c, ok := s.controller.Current().(*identity.Customer)
	return ok && c.HasPurchased(name)
}

func (s *Shell) report(err error) {
	if service.IsUserError(err) {
		s.printf("Error: %s\n", err)
		return
	}
	s.logger.Error("Command failed", zap.Error(err))
	s.printf("Something went wrong. Please try again.\n")
}

func (s *Shell) prompt(label string) (string, error) {
	s.printf("%s", label)
	if !s.in.Scan() {
		return "", errInputClosed
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) promptInt(label string) (int, bool, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.printf("Please enter a whole number.\n")
		return 0, false, nil
	}
	return n, true, nil
}

func (s *Shell) promptDecimal(label string) (decimal.Decimal, bool, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return decimal.Zero, false, err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		s.printf("Please enter a number.\n")
		return decimal.Zero, false, nil
	}
	return d, true, nil
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
