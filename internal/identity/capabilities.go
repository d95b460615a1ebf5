package identity

import "minitemu/internal/models"

// Command names a session operation
type Command string

// Session commands
const (
	CmdViewAllProducts    Command = "ViewAllProducts"
	CmdViewProductDetails Command = "ViewProductDetails"
	CmdLogout             Command = "Logout"

	CmdAddProduct      Command = "AddProduct"
	CmdSetOnSale       Command = "SetOnSale"
	CmdEndSale         Command = "EndSale"
	CmdSetPrice        Command = "SetPrice"
	CmdRestock         Command = "Restock"
	CmdViewInventory   Command = "ViewInventory"
	CmdViewSalesReport Command = "ViewSalesReport"

	CmdSearch      Command = "Search"
	CmdAddToCart   Command = "AddToCart"
	CmdViewCart    Command = "ViewCart"
	CmdCheckout    Command = "Checkout"
	CmdWriteReview Command = "WriteReview"
	CmdViewOrders  Command = "ViewOrders"
)

var capabilities = map[models.Role]map[Command]struct{}{
	models.RoleSeller: set(
		CmdAddProduct, CmdViewAllProducts, CmdSetOnSale, CmdEndSale, CmdSetPrice,
		CmdRestock, CmdViewProductDetails, CmdViewInventory, CmdViewSalesReport, CmdLogout,
	),
	models.RoleCustomer: set(
		CmdViewAllProducts, CmdSearch, CmdViewProductDetails, CmdAddToCart,
		CmdViewCart, CmdCheckout, CmdWriteReview, CmdViewOrders, CmdLogout,
	),
}

func set(cmds ...Command) map[Command]struct{} {
	m := make(map[Command]struct{}, len(cmds))
	for _, c := range cmds {
		m[c] = struct{}{}
	}
	return m
}

// Allowed reports whether role may run cmd
func Allowed(role models.Role, cmd Command) bool {
	_, ok := capabilities[role][cmd]
	return ok
}

// Capabilities lists the commands available to role
func Capabilities(role models.Role) []Command {
	out := make([]Command, 0, len(capabilities[role]))
	for c := range capabilities[role] {
		out = append(out, c)
	}
	return out
}
