package handler

import (
	"go-sales-inventory/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const apiVersion = "1.0.0"

// Routes groups the handlers and guards mounted by Register
type Routes struct {
	Inventory *InventoryHandler
	Sales     *SaleHandler
	Auth      *AuthHandler

	// Protect guards mutating inventory and sales routes
	Protect fiber.Handler
	// Authenticated guards routes that always need a user, such as /api/auth/me
	Authenticated fiber.Handler

	Hub *ws.Hub
}

func passThrough(c *fiber.Ctx) error {
	return c.Next()
}

// Register mounts every route on app. The catch-all 404 goes last.
func Register(app *fiber.App, r Routes) {
	protect := r.Protect
	if protect == nil {
		protect = passThrough
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Sales & Inventory API",
			"version": apiVersion,
			"endpoints": fiber.Map{
				"inventory": "/api/inventory",
				"sales":     "/api/sales",
				"auth":      "/api/auth",
				"ws":        "/ws",
			},
		})
	})

	api := app.Group("/api")

	if r.Auth != nil {
		auth := api.Group("/auth")
		auth.Post("/login", r.Auth.Login)
		if r.Authenticated != nil {
			auth.Get("/me", r.Authenticated, r.Auth.Me)
		}
	}

	inventory := api.Group("/inventory")
	inventory.Get("/", r.Inventory.GetProducts)
	inventory.Post("/", protect, r.Inventory.CreateProduct)
	// registered before /:id so the literal path wins
	inventory.Get("/low-stock", r.Inventory.GetLowStock)
	inventory.Get("/:id", r.Inventory.GetProduct)
	inventory.Put("/:id", protect, r.Inventory.UpdateProduct)
	inventory.Delete("/:id", protect, r.Inventory.DeleteProduct)

	sales := api.Group("/sales")
	sales.Get("/", r.Sales.GetSales)
	sales.Post("/", protect, r.Sales.CreateSale)
	sales.Get("/statistics", r.Sales.GetStatistics)
	sales.Get("/:id", r.Sales.GetSale)
	sales.Put("/:id", protect, r.Sales.UpdateSale)
	sales.Delete("/:id", protect, r.Sales.DeleteSale)

	if r.Hub != nil {
		registerWebSocket(app, r.Hub)
	}

	app.Use(RouteNotFound)
}

func registerWebSocket(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !hub.Attach(c) {
			return
		}
		defer hub.Detach(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
