package handler

import (
	"strconv"

	"go-sales-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// CreateProduct handles POST /api/inventory
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Product created", product)
}

// GetProducts handles GET /api/inventory?search=&sort=
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext(), c.Query("search"), c.Query("sort"))
	if err != nil {
		return err
	}
	return list(c, products)
}

// GetLowStock handles GET /api/inventory/low-stock?min=
func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	threshold, err := strconv.Atoi(c.Query("min"))
	if err != nil || threshold < 0 {
		threshold = service.DefaultLowStockThreshold
	}

	products, err := h.service.ListLowStock(c.UserContext(), threshold)
	if err != nil {
		return err
	}
	return list(c, products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", product)
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}

	var req service.UpdateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Product updated", updated)
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}

	deleted, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Product deleted", deleted)
}
