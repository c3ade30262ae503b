package controllers

import (
	"strings"
	"time"

	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/models"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-gonic/gin"
)

// CouponRequest represents the admin request body for creating or
// updating a coupon.
type CouponRequest struct {
	Code      string `json:"code" binding:"required"`
	ValidFrom string `json:"valid_from" binding:"required"`
	ValidTo   string `json:"valid_to" binding:"required"`
	Discount  int    `json:"discount" binding:"required"`
	Active    *bool  `json:"active"`
}

func parseCouponWindow(req *CouponRequest) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", req.ValidFrom)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", req.ValidTo)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	// The end date is inclusive for the whole day.
	to = to.Add(24*time.Hour - time.Second)
	return from, to, !to.Before(from)
}

// CreateCoupon creates a coupon. Codes are unique case-insensitively.
func CreateCoupon(c *gin.Context) {
	utils.LogInfo("CreateCoupon called")

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Discount < 1 || req.Discount > 100 {
		utils.BadRequest(c, "Discount must be between 1 and 100", nil)
		return
	}
	from, to, ok := parseCouponWindow(&req)
	if !ok {
		utils.BadRequest(c, "Invalid validity window", nil)
		return
	}

	var existing models.Coupon
	if err := config.DB.Where("LOWER(code) = LOWER(?)", req.Code).First(&existing).Error; err == nil {
		utils.BadRequest(c, "Coupon code already exists", nil)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	coupon := models.Coupon{
		Code:      strings.TrimSpace(req.Code),
		ValidFrom: from,
		ValidTo:   to,
		Discount:  req.Discount,
		Active:    active,
	}
	if err := config.DB.Create(&coupon).Error; err != nil {
		utils.LogError("Failed to create coupon: %v", err)
		utils.InternalServerError(c, "Failed to create coupon", nil)
		return
	}

	utils.LogInfo("Created coupon %s", coupon.Code)
	utils.Created(c, "Coupon created successfully", gin.H{"coupon": coupon})
}

// UpdateCoupon updates an existing coupon.
func UpdateCoupon(c *gin.Context) {
	utils.LogInfo("UpdateCoupon called")

	var coupon models.Coupon
	if err := config.DB.First(&coupon, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Discount < 1 || req.Discount > 100 {
		utils.BadRequest(c, "Discount must be between 1 and 100", nil)
		return
	}
	from, to, ok := parseCouponWindow(&req)
	if !ok {
		utils.BadRequest(c, "Invalid validity window", nil)
		return
	}

	var clash models.Coupon
	if err := config.DB.Where("LOWER(code) = LOWER(?) AND id <> ?", req.Code, coupon.ID).First(&clash).Error; err == nil {
		utils.BadRequest(c, "Coupon code already exists", nil)
		return
	}

	coupon.Code = strings.TrimSpace(req.Code)
	coupon.ValidFrom = from
	coupon.ValidTo = to
	coupon.Discount = req.Discount
	if req.Active != nil {
		coupon.Active = *req.Active
	}
	if err := config.DB.Save(&coupon).Error; err != nil {
		utils.LogError("Failed to update coupon %d: %v", coupon.ID, err)
		utils.InternalServerError(c, "Failed to update coupon", nil)
		return
	}

	utils.Success(c, "Coupon updated successfully", gin.H{"coupon": coupon})
}

// DeleteCoupon soft deletes a coupon. Orders that referenced it keep
// their recorded discount.
func DeleteCoupon(c *gin.Context) {
	utils.LogInfo("DeleteCoupon called")

	var coupon models.Coupon
	if err := config.DB.First(&coupon, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}
	if err := config.DB.Delete(&coupon).Error; err != nil {
		utils.LogError("Failed to delete coupon %d: %v", coupon.ID, err)
		utils.InternalServerError(c, "Failed to delete coupon", nil)
		return
	}

	utils.Success(c, "Coupon deleted successfully", nil)
}

// ListCoupons returns all coupons with usage counts.
func ListCoupons(c *gin.Context) {
	utils.LogInfo("ListCoupons called")

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Coupon{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count coupons: %v", err)
		utils.InternalServerError(c, "Failed to fetch coupons", nil)
		return
	}

	var coupons []models.Coupon
	if err := config.DB.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&coupons).Error; err != nil {
		utils.LogError("Failed to fetch coupons: %v", err)
		utils.InternalServerError(c, "Failed to fetch coupons", nil)
		return
	}

	utils.SuccessWithPagination(c, "Coupons retrieved successfully", gin.H{
		"coupons": coupons,
	}, total, pagination.Page, pagination.Limit)
}
