package foodorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	catalogx "github.com/naruebet/voiceline/agent/catalog"
	contractx "github.com/naruebet/voiceline/agent/contract"
	toolx "github.com/naruebet/voiceline/agent/tool"
	logx "github.com/naruebet/voiceline/pkg/logger"
)

const (
	ToolAddToCart       = "add_to_cart"
	ToolAddRecipe       = "add_recipe_to_cart"
	ToolRemoveFromCart  = "remove_from_cart"
	ToolUpdateQuantity  = "update_quantity"
	ToolShowCart        = "show_cart"
	ToolSearchCatalog   = "search_catalog"
	ToolPlaceOrder      = "place_order"
	ordersCollection    = "orders"
	orderStatusReceived = "received"
)

// Order is the immutable finalized snapshot handed to the sink.
type Order struct {
	OrderID      string     `json:"order_id"`
	CustomerName string     `json:"customer_name"`
	Timestamp    time.Time  `json:"timestamp"`
	Items        []CartLine `json:"items"`
	Total        float64    `json:"total"`
	Currency     string     `json:"currency"`
	Status       string     `json:"status"`
}

func ToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolAddToCart,
			Desc: "Add a catalog item to the customer's cart by item id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item_id":  {Type: schema.String, Desc: "Catalog item id, e.g. G001", Required: true},
				"quantity": {Type: schema.Integer, Desc: "How many to add (default 1)"},
			}),
		},
		{
			Name: ToolAddRecipe,
			Desc: "Add every ingredient of a known dish to the cart.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"dish_name": {Type: schema.String, Desc: "Dish name, e.g. pasta", Required: true},
			}),
		},
		{
			Name: ToolRemoveFromCart,
			Desc: "Remove an item from the cart by spoken name.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item_name": {Type: schema.String, Desc: "Item name as the customer said it", Required: true},
			}),
		},
		{
			Name: ToolUpdateQuantity,
			Desc: "Change the quantity of a cart item; 0 removes it.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item_name":    {Type: schema.String, Desc: "Item name as the customer said it", Required: true},
				"new_quantity": {Type: schema.Integer, Desc: "New quantity, 0 to remove", Required: true},
			}),
		},
		{
			Name:        ToolShowCart,
			Desc:        "Read the cart contents and running total back to the customer.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: ToolSearchCatalog,
			Desc: "Search the catalog by name or tag.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "What the customer is looking for", Required: true},
			}),
		},
		{
			Name: ToolPlaceOrder,
			Desc: "Finalize the order and save it. Rejected when the cart is empty.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"customer_name": {Type: schema.String, Desc: "Customer's name for the order", Required: true},
			}),
		},
	}
}

// NewExecutor binds the ordering tools to one session's cart. The clock is
// injected so order ids are deterministic in tests.
func NewExecutor(sess *OrderSession, cat *catalogx.Catalog, sink contractx.Sink, now func() time.Time) toolx.Executor {
	if now == nil {
		now = time.Now
	}
	log := *logx.For("foodorder")
	fallback := toolx.DefaultExecutor(contractx.AgentTypeFoodOrder)

	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		switch tool {
		case ToolAddToCart:
			return addToCart(sess, cat, tool, args, log)
		case ToolAddRecipe:
			return addRecipeToCart(sess, cat, tool, args, log)
		case ToolRemoveFromCart:
			return removeFromCart(sess, tool, args, log)
		case ToolUpdateQuantity:
			return updateQuantity(sess, tool, args, log)
		case ToolShowCart:
			return reply(tool, sess.ListContents()), nil
		case ToolSearchCatalog:
			return searchCatalog(cat, tool, args)
		case ToolPlaceOrder:
			return placeOrder(ctx, sess, sink, tool, args, now, log)
		default:
			return fallback(ctx, tool, args)
		}
	}
}

func addToCart(sess *OrderSession, cat *catalogx.Catalog, tool string, args map[string]any, log zerolog.Logger) (contractx.ToolResult, error) {
	itemID, err := toolx.StringArg(args, "item_id")
	if err != nil {
		return fail(tool, err), nil
	}
	quantity, err := toolx.IntArgDefault(args, "quantity", 1)
	if err != nil {
		return fail(tool, err), nil
	}
	if quantity < 1 {
		return fail(tool, fmt.Errorf("quantity must be at least 1")), nil
	}

	item, ok := cat.LookupByID(itemID)
	if !ok {
		return reply(tool, fmt.Sprintf("I couldn't find item %s in the catalog.", itemID)), nil
	}

	line, merged := sess.AddItem(item, quantity)
	log.Info().Str("item", item.Name).Int("quantity", line.Quantity).Bool("merged", merged).Msg("cart updated")

	if merged {
		return reply(tool, fmt.Sprintf("Updated %s to %d in your cart, that's Rs. %.0f.", line.Name, line.Quantity, line.Total)), nil
	}
	return reply(tool, fmt.Sprintf("Added %d x %s to your cart, that's Rs. %.0f.", line.Quantity, line.Name, line.Total)), nil
}

func addRecipeToCart(sess *OrderSession, cat *catalogx.Catalog, tool string, args map[string]any, log zerolog.Logger) (contractx.ToolResult, error) {
	dish, err := toolx.StringArg(args, "dish_name")
	if err != nil {
		return fail(tool, err), nil
	}

	name, itemIDs, ok := cat.Recipe(dish)
	if !ok {
		return reply(tool, fmt.Sprintf("I don't have a recipe for %s.", dish)), nil
	}

	// Ingredients no longer in the catalog are skipped silently.
	var added []string
	for _, id := range itemIDs {
		item, found := cat.LookupByID(id)
		if !found {
			continue
		}
		sess.AddItem(item, 1)
		added = append(added, item.Name)
	}

	if len(added) == 0 {
		return reply(tool, fmt.Sprintf("None of the ingredients for %s are available right now.", name)), nil
	}

	log.Info().Str("recipe", name).Int("ingredients", len(added)).Msg("recipe added to cart")
	return reply(tool, fmt.Sprintf("For %s I added: %s.", name, strings.Join(added, ", "))), nil
}

func removeFromCart(sess *OrderSession, tool string, args map[string]any, log zerolog.Logger) (contractx.ToolResult, error) {
	name, err := toolx.StringArg(args, "item_name")
	if err != nil {
		return fail(tool, err), nil
	}

	idx, ok := sess.FindLine(name)
	if !ok {
		// List current contents so the dialogue policy can recover.
		return reply(tool, fmt.Sprintf("I couldn't find %s in your cart. %s", name, sess.ListContents())), nil
	}

	removed := sess.Cart[idx].Name
	sess.RemoveLine(idx)
	log.Info().Str("item", removed).Msg("removed from cart")
	return reply(tool, fmt.Sprintf("Removed %s from your cart.", removed)), nil
}

func updateQuantity(sess *OrderSession, tool string, args map[string]any, log zerolog.Logger) (contractx.ToolResult, error) {
	name, err := toolx.StringArg(args, "item_name")
	if err != nil {
		return fail(tool, err), nil
	}
	quantity, err := toolx.IntArg(args, "new_quantity")
	if err != nil {
		return fail(tool, err), nil
	}
	if quantity < 0 {
		return fail(tool, fmt.Errorf("new_quantity must be 0 or more")), nil
	}

	idx, ok := sess.FindLine(name)
	if !ok {
		return reply(tool, fmt.Sprintf("I couldn't find %s in your cart. %s", name, sess.ListContents())), nil
	}

	lineName := sess.Cart[idx].Name
	if quantity == 0 {
		sess.RemoveLine(idx)
		log.Info().Str("item", lineName).Msg("removed from cart")
		return reply(tool, fmt.Sprintf("Removed %s from your cart.", lineName)), nil
	}

	sess.SetQuantity(idx, quantity)
	line := sess.Cart[idx]
	log.Info().Str("item", lineName).Int("quantity", quantity).Msg("quantity updated")
	return reply(tool, fmt.Sprintf("Set %s to %d, that's Rs. %.0f.", line.Name, line.Quantity, line.Total)), nil
}

func searchCatalog(cat *catalogx.Catalog, tool string, args map[string]any) (contractx.ToolResult, error) {
	query, err := toolx.StringArg(args, "query")
	if err != nil {
		return fail(tool, err), nil
	}

	matches := cat.Search(query)
	switch len(matches) {
	case 0:
		return reply(tool, fmt.Sprintf("Nothing in the catalog matches %s.", query)), nil
	case 1:
		m := matches[0]
		return reply(tool, fmt.Sprintf("Found %s (%s) at Rs. %.0f.", m.Name, m.ID, m.Price)), nil
	default:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, fmt.Sprintf("%s (Rs. %.0f)", m.Name, m.Price))
		}
		return reply(tool, fmt.Sprintf("A few options match %s: %s.", query, strings.Join(names, ", "))), nil
	}
}

func placeOrder(ctx context.Context, sess *OrderSession, sink contractx.Sink, tool string, args map[string]any, now func() time.Time, log zerolog.Logger) (contractx.ToolResult, error) {
	customer, err := toolx.StringArg(args, "customer_name")
	if err != nil {
		return fail(tool, err), nil
	}

	if sess.IsEmpty() {
		return reply(tool, "Your cart is empty, there's nothing to order yet."), nil
	}

	ts := now()
	order := Order{
		OrderID:      "ORD_" + ts.Format("20060102_150405"),
		CustomerName: customer,
		Timestamp:    ts,
		Items:        append([]CartLine(nil), sess.Cart...),
		Total:        sess.GrandTotal(),
		Currency:     "INR",
		Status:       orderStatusReceived,
	}

	if err := sink.Write(ctx, ordersCollection, order.OrderID, order); err != nil {
		log.Error().Err(err).Str("order_id", order.OrderID).Msg("order save failed")
		return reply(tool, "I couldn't save your order just now, let's try that again in a moment."), nil
	}

	sess.Cart = nil
	log.Info().Str("order_id", order.OrderID).Float64("total", order.Total).Msg("order placed")
	return reply(tool, fmt.Sprintf("Order %s placed for %s. Total is Rs. %.0f. Thank you!", order.OrderID, customer, order.Total)), nil
}

func reply(tool, msg string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Result: msg}
}

func fail(tool string, err error) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Error: err.Error()}
}
