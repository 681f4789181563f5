package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTLs

	"finance_system/internal/domain"  // Importing domain models
	"finance_system/internal/service" // Service layer
	"finance_system/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// WalletRequest represents a wallet creation request
type WalletRequest struct {
	Name     string          `json:"name" binding:"required"`     // Display name
	Type     string          `json:"type" binding:"required"`     // BANK or CASH
	Currency string          `json:"currency" binding:"required"` // Currency code
	Balance  decimal.Decimal `json:"balance"`                     // Initial balance, defaults to zero
}

// WalletUpdateRequest represents a wallet update request; currency and
// balance are not editable here
type WalletUpdateRequest struct {
	Name string `json:"name" binding:"required"` // Display name
	Type string `json:"type" binding:"required"` // BANK or CASH
}

// walletResponse renders a wallet with its formatted balance
func walletResponse(w *domain.Wallet) gin.H {
	return gin.H{
		"id":                w.ID,
		"name":              w.Name,
		"type":              w.Type,
		"balance":           w.Balance,
		"currency":          w.Currency,
		"formatted_balance": w.FormattedBalance(),
	}
}

// idParam parses the :id path parameter
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// ListWalletsHandler returns the authenticated user's wallets, paginated,
// optionally filtered by name
func ListWalletsHandler(wallets *service.WalletService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		page, pageSize, offset := pagination(c)
		name := c.Query("name")
		ctx := context.Background() // Context for Redis operations
		// Cache key scoped by user, filter and page
		cacheKey := "wallets:user:" + strconv.Itoa(int(userID)) +
			":name:" + name + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		var cached gin.H
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		list, total, err := wallets.List(userID, name, offset, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		responses := make([]gin.H, 0, len(list))
		for i := range list {
			responses = append(responses, walletResponse(&list[i]))
		}
		resp := gin.H{
			"wallets":     responses,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": (int(total) + pageSize - 1) / pageSize,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, resp)
	}
}

// GetWalletHandler returns one wallet owned by the authenticated user
func GetWalletHandler(wallets *service.WalletService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		ctx := context.Background() // Context for Redis operations
		cacheKey := "wallets:user:" + strconv.Itoa(int(userID)) + ":wallet:" + strconv.Itoa(int(id))
		var cached gin.H
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		wallet, err := wallets.Get(userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := walletResponse(wallet)
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, resp)
	}
}

// CreateWalletHandler creates a wallet for the authenticated user
func CreateWalletHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req WalletRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		wallet, err := wallets.Create(userID, service.WalletInput{
			Name:     req.Name,
			Type:     req.Type,
			Currency: req.Currency,
			Balance:  req.Balance,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		// Log successful wallet creation
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,
			"wallet_id": wallet.ID,
			"currency":  wallet.Currency,
		}).Info("Wallet created")
		invalidateFinanceCache(c, userID) // Invalidate cached listings
		c.JSON(http.StatusCreated, walletResponse(wallet))
	}
}

// UpdateWalletHandler renames or retypes a wallet
func UpdateWalletHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req WalletUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		wallet, err := wallets.Update(userID, id, req.Name, req.Type)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidateFinanceCache(c, userID) // Invalidate cached listings
		c.JSON(http.StatusOK, walletResponse(wallet))
	}
}

// DeleteWalletHandler deletes a wallet and its dependent records
func DeleteWalletHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := wallets.Delete(userID, id); err != nil {
			respondError(c, err)
			return
		}
		// Log successful wallet deletion
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,
			"wallet_id": id,
		}).Info("Wallet deleted")
		invalidateFinanceCache(c, userID) // Invalidate cached listings
		c.Status(http.StatusNoContent)
	}
}
