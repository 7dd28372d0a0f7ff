package handler

import (
	"go-sales-inventory/internal/model"
	"go-sales-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// createSaleBody accepts the date as text so YYYY-MM-DD works as well as RFC3339
type createSaleBody struct {
	service.CreateSaleRequest
	Date string `json:"date"`
}

// CreateSale handles POST /api/sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var body createSaleBody
	if err := parseBody(c, &body); err != nil {
		return err
	}

	date, err := ParseDate(body.Date, false)
	if err != nil {
		return err
	}
	req := body.CreateSaleRequest
	req.Date = date

	sale, err := h.service.CreateSale(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Sale created", sale)
}

// GetSales handles GET /api/sales?status=&dateFrom=&dateTo=&sort=
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	from, err := ParseDate(c.Query("dateFrom"), false)
	if err != nil {
		return err
	}
	to, err := ParseDate(c.Query("dateTo"), true)
	if err != nil {
		return err
	}

	sales, err := h.service.ListSales(c.UserContext(), service.SaleListFilter{
		Status:   model.SaleStatus(c.Query("status")),
		DateFrom: from,
		DateTo:   to,
		Sort:     c.Query("sort"),
	})
	if err != nil {
		return err
	}
	return list(c, sales)
}

func (h *SaleHandler) GetStatistics(c *fiber.Ctx) error {
	stats, err := h.service.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", stats)
}

func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseID(c, "sale")
	if err != nil {
		return err
	}

	sale, err := h.service.GetSale(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", sale)
}

func (h *SaleHandler) UpdateSale(c *fiber.Ctx) error {
	id, err := parseID(c, "sale")
	if err != nil {
		return err
	}

	var req service.UpdateSaleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sale, err := h.service.UpdateSale(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Sale updated", sale)
}

// DeleteSale handles DELETE /api/sales/:id and returns the stock of every line
func (h *SaleHandler) DeleteSale(c *fiber.Ctx) error {
	id, err := parseID(c, "sale")
	if err != nil {
		return err
	}

	sale, err := h.service.DeleteSale(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Sale deleted and stock restored", sale)
}
