// Package reply renders aggregation results into the bot's Spanish message
// templates. There is one template per action; handlers pick the template,
// never the data. Currency is Peruvian sol, always two decimals.
package reply

import (
	"fmt"
	"strings"

	"github.com/mercabot/mercabot-go/internal/backend"
	"github.com/mercabot/mercabot-go/internal/report"
)

// Prompt messages for missing slots. Returned before any network call.
const (
	PromptOrderID       = "Por favor, indícame el número de orden."
	PromptCancelOrderID = "Por favor, indícame el número de orden que deseas cancelar."
	PromptOrderStatus   = "Por favor, indícame el nuevo estado de la orden."
	PromptStatusFilter  = "Por favor, indícame el estado que quieres consultar."
	PromptCustomerEmail = "Por favor, indícame el correo del cliente."
	PromptProductName   = "Por favor, indícame el nombre del producto."
	PromptPhone         = "Por favor, indícame tu número de teléfono."
)

// Failure messages for backend fetch errors. One per collection, uniform
// regardless of the failure cause.
const (
	FailOrders    = "No pude obtener tus órdenes. 😕"
	FailCustomers = "No pude obtener los datos de clientes. 😕"
	FailProducts  = "No pude obtener el catálogo de productos. 😕"
	FailPayments  = "No pude obtener la información de pagos. 😕"

	FailCancel = "No se pudo cancelar la orden."
	FailUpdate = "No se pudo actualizar la orden."

	// Generic renders the catch-all error when a handler panics or fails in
	// an unexpected way.
	Generic = "❌ Ocurrió un error inesperado. Intenta de nuevo."

	// RateLimited renders the reply for a sender exceeding the request limit.
	RateLimited = "⏳ Estás enviando demasiadas consultas. Espera un momento e inténtalo de nuevo."
)

// Money formats an amount as Peruvian soles with two decimals.
func Money(v float64) string {
	return fmt.Sprintf("S/ %.2f", v)
}

// OrderCount renders the "my orders" count reply.
func OrderCount(n int) string {
	if n == 0 {
		return "No se encontraron órdenes activas."
	}
	return fmt.Sprintf("Tienes %d órdenes registradas.", n)
}

// OrderStatus renders the status of a single order.
func OrderStatus(orderRef, status string) string {
	return fmt.Sprintf("El estado de la orden %s es: %s.", orderRef, status)
}

// OrderNotFound renders the miss for an order lookup.
func OrderNotFound() string {
	return "No encontré la orden que indicaste."
}

// OrderDetail renders a full order with its line items.
func OrderDetail(o *backend.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧾 *Orden %s*\n", o.OrderNumber)
	for _, item := range o.Items {
		subtotal := float64(item.Quantity) * item.Price
		fmt.Fprintf(&b, "• %s — %dx %s = %s\n", item.ProductName, item.Quantity, Money(item.Price), Money(subtotal))
	}
	fmt.Fprintf(&b, "💰 Total: %s\n", Money(o.TotalAmount))
	fmt.Fprintf(&b, "📦 Estado: %s | Pago: %s", o.Status, o.PaymentStatus)
	return b.String()
}

// RecentOrders renders the newest-orders list.
func RecentOrders(orders []backend.Order) string {
	if len(orders) == 0 {
		return "No hay órdenes registradas todavía."
	}
	var b strings.Builder
	b.WriteString("🕒 *Últimas órdenes:*\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "• %s — %s (%s)\n", o.OrderNumber, Money(o.TotalAmount), o.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

// OrdersByStatus renders the count of orders matching a status filter.
func OrdersByStatus(status string, n int) string {
	if n == 0 {
		return fmt.Sprintf("No hay órdenes con estado \"%s\".", status)
	}
	return fmt.Sprintf("📦 Hay %d órdenes con estado \"%s\".", n, status)
}

// OrderCancelled renders a successful cancellation.
func OrderCancelled(orderRef string) string {
	return fmt.Sprintf("La orden %s fue cancelada con éxito.", orderRef)
}

// OrderStatusUpdated renders a successful status change.
func OrderStatusUpdated(orderRef, status string) string {
	return fmt.Sprintf("✅ La orden %s ahora está en estado \"%s\".", orderRef, status)
}

// TotalSales renders the sales summary split into total and paid.
func TotalSales(total, paid float64) string {
	return fmt.Sprintf("💰 Ventas totales: %s\n✅ Ventas pagadas: %s", Money(total), Money(paid))
}

// ConversionRate renders the paid-order rate, or the insufficient-data
// message when there are no orders to rate.
func ConversionRate(rate float64, ok bool, paidCount, totalCount int) string {
	if !ok {
		return "Aún no hay órdenes suficientes para calcular la conversión."
	}
	return fmt.Sprintf("📈 Tasa de conversión: %.1f%% (%d de %d órdenes pagadas).", rate, paidCount, totalCount)
}

// AverageTicket renders the mean paid-order total, or the no-paid-orders
// message when the paid subset is empty.
func AverageTicket(avg float64, ok bool) string {
	if !ok {
		return "Todavía no hay órdenes pagadas para calcular el ticket promedio."
	}
	return fmt.Sprintf("🎟️ Ticket promedio: %s.", Money(avg))
}

// PendingPayments renders the count of payments awaiting completion.
func PendingPayments(n int) string {
	if n == 0 {
		return "✅ No hay pagos pendientes."
	}
	return fmt.Sprintf("⏳ Hay %d pagos pendientes.", n)
}

// TopCustomers renders the customer ranking.
func TopCustomers(stats []report.CustomerStat) string {
	if len(stats) == 0 {
		return "Todavía no hay compras registradas."
	}
	var b strings.Builder
	b.WriteString("🏆 *Mejores clientes:*\n")
	for i, s := range stats {
		fmt.Fprintf(&b, "%d. %s — %s (%d órdenes)\n", i+1, s.Name, Money(s.Total), s.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

// TopProducts renders the product sales ranking.
func TopProducts(stats []report.ProductStat) string {
	if len(stats) == 0 {
		return "Todavía no hay ventas de productos registradas."
	}
	var b strings.Builder
	b.WriteString("📊 *Productos más vendidos:*\n")
	for i, s := range stats {
		fmt.Fprintf(&b, "%d. %s — %d unidades (%s)\n", i+1, s.Name, s.Quantity, Money(s.Revenue))
	}
	return strings.TrimRight(b.String(), "\n")
}

// MostSoldProduct renders the single best seller.
func MostSoldProduct(stat report.ProductStat, ok bool) string {
	if !ok {
		return "Todavía no hay ventas de productos registradas."
	}
	return fmt.Sprintf("🥇 El producto más vendido es %s con %d unidades.", stat.Name, stat.Quantity)
}

// MostExpensiveProduct renders the priciest catalog product.
func MostExpensiveProduct(p backend.Product, ok bool) string {
	if !ok {
		return "No hay productos en el catálogo."
	}
	return fmt.Sprintf("💎 El producto más caro es %s a %s.", p.Name, Money(p.Price))
}

// LowStock renders the low-stock alert for the scarcest active product,
// phrased by severity band.
func LowStock(p backend.Product, severity report.Severity, found bool) string {
	if !found {
		return "No hay productos activos en el catálogo."
	}
	switch severity {
	case report.SeverityUrgent:
		return fmt.Sprintf("🚨 ¡Stock crítico! %s tiene solo %d unidades. Repón urgente.", p.Name, p.Stock)
	case report.SeverityModerate:
		return fmt.Sprintf("⚠️ Stock bajo: %s tiene %d unidades.", p.Name, p.Stock)
	default:
		return fmt.Sprintf("✅ El inventario está en buen nivel. El producto con menos stock es %s con %d unidades.", p.Name, p.Stock)
	}
}

// Dashboard renders the one-shot store summary.
func Dashboard(d report.Dashboard) string {
	var b strings.Builder
	b.WriteString("📋 *Resumen de la tienda:*\n")
	fmt.Fprintf(&b, "🛒 Órdenes: %d (%d pagadas)\n", d.OrderCount, d.PaidCount)
	fmt.Fprintf(&b, "💰 Ventas totales: %s\n", Money(d.TotalSales))
	fmt.Fprintf(&b, "✅ Ventas pagadas: %s\n", Money(d.PaidSales))
	if d.PaidRateOK {
		fmt.Fprintf(&b, "📈 Conversión: %.1f%%\n", d.PaidRate)
	} else {
		b.WriteString("📈 Conversión: sin datos\n")
	}
	fmt.Fprintf(&b, "⏳ Pagos pendientes: %d", d.PendingPayments)
	return b.String()
}

// CustomerCount renders the customer base size.
func CustomerCount(n int) string {
	return fmt.Sprintf("👥 Hay %d clientes registrados.", n)
}

// CustomerInfo renders a single customer card.
func CustomerInfo(c *backend.Customer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 *%s*\n✉️ %s", c.Name, c.Email)
	if c.Phone != "" {
		fmt.Fprintf(&b, "\n📱 %s", c.Phone)
	}
	return b.String()
}

// CustomerNotFound renders the miss for a customer lookup.
func CustomerNotFound(email string) string {
	return fmt.Sprintf("No encontré ningún cliente con el correo %s.", email)
}

// CustomerOrders renders a customer's order history.
func CustomerOrders(name string, orders []backend.Order) string {
	if len(orders) == 0 {
		return fmt.Sprintf("%s no tiene órdenes registradas.", name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🛍️ Órdenes de %s:\n", name)
	for _, o := range orders {
		fmt.Fprintf(&b, "• %s — %s (%s)\n", o.OrderNumber, Money(o.TotalAmount), o.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ProductCount renders the catalog size.
func ProductCount(n int) string {
	return fmt.Sprintf("📦 Hay %d productos en el catálogo.", n)
}

// ProductInfo renders a single product card.
func ProductInfo(p backend.Product) string {
	return fmt.Sprintf("📦 *%s*\n💰 %s\n🗃️ Stock: %d", p.Name, Money(p.Price), p.Stock)
}

// ProductNotFound renders the miss for a product lookup.
func ProductNotFound(name string) string {
	return fmt.Sprintf("No encontré el producto \"%s\" en el catálogo.", name)
}
