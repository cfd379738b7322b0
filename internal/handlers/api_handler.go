package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"print_shop_sync/internal/middleware"
	"print_shop_sync/internal/models"
	"print_shop_sync/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultOrderLimit   = 1000
	defaultSyncLogLimit = 20
)

type APIHandler struct {
	userService  services.UserService
	orderService services.OrderService
	syncService  services.SyncService
}

func NewAPIHandler(
	userService services.UserService,
	orderService services.OrderService,
	syncService services.SyncService,
) *APIHandler {
	return &APIHandler{
		userService:  userService,
		orderService: orderService,
		syncService:  syncService,
	}
}

func (h *APIHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Auth

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *APIHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	user, token, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during login"})
		return
	}

	c.SetCookie(middleware.TokenCookieName, token, int(7*24*time.Hour/time.Second), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Orders

func (h *APIHandler) ListOrders(c *gin.Context) {
	filters := parseOrderFilters(c)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultOrderLimit)))
	if err != nil || limit <= 0 {
		limit = defaultOrderLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), filters, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// parseOrderFilters builds the optional-field filter struct from validated
// query parameters; absent parameters stay nil.
func parseOrderFilters(c *gin.Context) models.OrderFilters {
	var filters models.OrderFilters

	if v := c.Query("platform"); v != "" {
		platform := models.Platform(v)
		filters.Platform = &platform
	}
	if v := c.Query("status"); v != "" {
		status := models.OrderStatus(v)
		filters.Status = &status
	}
	if v := c.Query("decoration_method"); v != "" {
		decoration := models.DecorationMethod(v)
		filters.DecorationMethod = &decoration
	}
	if v := c.Query("assigned_to"); v != "" {
		filters.AssignedTo = &v
	}
	if v := c.Query("priority"); v == "true" {
		priority := true
		filters.Priority = &priority
	}
	if v := c.Query("date_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.DateFrom = &t
		}
	}
	if v := c.Query("date_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.DateTo = &t
		}
	}
	filters.Search = c.Query("search")

	return filters
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *APIHandler) UpdateOrder(c *gin.Context) {
	var update models.OrderUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if update.Status != nil && !update.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *APIHandler) GetOrderStats(c *gin.Context) {
	stats, err := h.orderService.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// Sync

type syncRequest struct {
	Platform string `json:"platform"`
}

// TriggerSync runs a sync pass. Platform-level failures are reported inside
// the 200 body; only authorization problems or a malformed request surface as
// transport errors.
func (h *APIHandler) TriggerSync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.Platform == "" {
		summary := h.syncService.SyncAll(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"result": summary})
		return
	}

	result, err := h.syncService.SyncOne(c.Request.Context(), models.Platform(req.Platform))
	if err != nil {
		if errors.Is(err, services.ErrUnknownPlatform) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync platform"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *APIHandler) GetSyncLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSyncLogLimit)))
	if err != nil || limit <= 0 {
		limit = defaultSyncLogLimit
	}

	logs, err := h.syncService.RecentLogs(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sync logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *APIHandler) GetPlatformStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"platforms": h.syncService.PlatformHealth(c.Request.Context())})
}

// Users

func (h *APIHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
