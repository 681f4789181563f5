package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTLs

	"finance_system/internal/repository" // Listing filters
	"finance_system/internal/service"    // Service layer
	"finance_system/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// TransferenceRequest represents a transference create/update request
type TransferenceRequest struct {
	FromWalletID uint            `json:"from_wallet_id" binding:"required"` // Debited wallet
	ToWalletID   uint            `json:"to_wallet_id" binding:"required"`   // Credited wallet
	Amount       decimal.Decimal `json:"amount" binding:"required"`         // Positive, in the from-wallet's currency
	Date         string          `json:"date" binding:"required"`           // YYYY-MM-DD
	Description  string          `json:"description"`                       // Free-form note
}

// toInput converts the request into the service input, parsing the date
func (req *TransferenceRequest) toInput() (service.TransferenceInput, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return service.TransferenceInput{}, err
	}
	return service.TransferenceInput{
		FromWalletID: req.FromWalletID,
		ToWalletID:   req.ToWalletID,
		Amount:       req.Amount,
		Date:         date,
		Description:  req.Description,
	}, nil
}

// listFilter builds the optional sender/receiver/date filters
func listFilter(c *gin.Context) (repository.TransferenceFilter, error) {
	var filter repository.TransferenceFilter
	if sender := c.Query("sender"); sender != "" {
		if v, err := strconv.ParseUint(sender, 10, 64); err == nil {
			filter.SenderWalletID = uint(v)
		}
	}
	if receiver := c.Query("receiver"); receiver != "" {
		if v, err := strconv.ParseUint(receiver, 10, 64); err == nil {
			filter.ReceiverWalletID = uint(v)
		}
	}
	if start := c.Query("start"); start != "" {
		date, err := parseDate(start)
		if err != nil {
			return filter, err
		}
		filter.StartDate = date
	}
	if end := c.Query("end"); end != "" {
		date, err := parseDate(end)
		if err != nil {
			return filter, err
		}
		filter.EndDate = date
	}
	return filter, nil
}

// ListTransferencesHandler returns the user's transferences, paginated
// and optionally filtered
func ListTransferencesHandler(transferences *service.TransferenceService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		filter, err := listFilter(c)
		if err != nil {
			respondError(c, err)
			return
		}
		page, pageSize, offset := pagination(c)
		ctx := context.Background() // Context for Redis operations
		// Cache key scoped by user, filters and page
		cacheKey := "transferences:user:" + strconv.Itoa(int(userID)) +
			":sender:" + strconv.Itoa(int(filter.SenderWalletID)) +
			":receiver:" + strconv.Itoa(int(filter.ReceiverWalletID)) +
			":start:" + c.Query("start") + ":end:" + c.Query("end") +
			":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		var cached gin.H
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		list, total, err := transferences.List(userID, filter, offset, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := gin.H{
			"transferences": list,
			"page":          page,
			"page_size":     pageSize,
			"total":         total,
			"total_pages":   (int(total) + pageSize - 1) / pageSize,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, resp)
	}
}

// GetTransferenceHandler returns one transference owned by the user
func GetTransferenceHandler(transferences *service.TransferenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		transference, err := transferences.Get(userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, transference)
	}
}

// CreateTransferenceHandler moves funds between two wallets
func CreateTransferenceHandler(transferences *service.TransferenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req TransferenceRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		in, err := req.toInput()
		if err != nil {
			respondError(c, err)
			return
		}
		transference, err := transferences.Create(userID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		// Log the two-wallet mutation
		logrus.WithFields(logrus.Fields{
			"user_id":         userID,
			"transference_id": transference.ID,
			"from_wallet_id":  transference.FromWalletID,
			"to_wallet_id":    transference.ToWalletID,
			"amount":          transference.Amount,
		}).Info("Transference created")
		invalidateFinanceCache(c, userID) // Invalidate cached listings
		c.JSON(http.StatusCreated, transference)
	}
}

// UpdateTransferenceHandler rewrites a transference, reverting both old
// legs before applying the new ones
func UpdateTransferenceHandler(transferences *service.TransferenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req TransferenceRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		in, err := req.toInput()
		if err != nil {
			respondError(c, err)
			return
		}
		transference, err := transferences.Update(userID, id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":         userID,
			"transference_id": transference.ID,
		}).Info("Transference updated")
		invalidateFinanceCache(c, userID) // Invalidate cached listings
		c.JSON(http.StatusOK, transference)
	}
}

// DeleteTransferenceHandler reverts both legs and removes the record
func DeleteTransferenceHandler(transferences *service.TransferenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := transferences.Delete(userID, id); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":         userID,
			"transference_id": id,
		}).Info("Transference deleted")
		invalidateFinanceCache(c, userID) // Invalidate cached listings
		c.Status(http.StatusNoContent)
	}
}
