package controllers

import (
	"strconv"
	"strings"

	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/models"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-gonic/gin"
)

// GetShippingRates returns the whole rate table.
func GetShippingRates(c *gin.Context) {
	utils.LogInfo("GetShippingRates called")

	var rates []models.ShippingRate
	if err := config.DB.Order("state ASC").Find(&rates).Error; err != nil {
		utils.LogError("Failed to fetch shipping rates: %v", err)
		utils.InternalServerError(c, "Failed to fetch shipping rates", err.Error())
		return
	}

	utils.Success(c, "Shipping rates retrieved successfully", gin.H{
		"shipping_rates": rates,
	})
}

// AddShippingRate adds a rate row for a state. Cost and days come in
// pairs per method; a method with either half missing is not offered.
func AddShippingRate(c *gin.Context) {
	utils.LogInfo("AddShippingRate called")

	var req struct {
		State         string   `json:"state" binding:"required"`
		StandardCost  *float64 `json:"standard_cost"`
		StandardDays  *int     `json:"standard_days"`
		ExpeditedCost *float64 `json:"expedited_cost"`
		ExpeditedDays *int     `json:"expedited_days"`
		FreightCost   *float64 `json:"freight_cost"`
		FreightDays   *int     `json:"freight_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	state := strings.ToUpper(strings.TrimSpace(req.State))
	if len(state) != 2 {
		utils.BadRequest(c, "State must be a two letter code", nil)
		return
	}

	var existing models.ShippingRate
	if err := config.DB.Where("UPPER(state) = ?", state).First(&existing).Error; err == nil {
		utils.BadRequest(c, "Shipping rate for this state already exists", nil)
		return
	}

	rate := models.ShippingRate{
		State:         state,
		StandardCost:  req.StandardCost,
		StandardDays:  req.StandardDays,
		ExpeditedCost: req.ExpeditedCost,
		ExpeditedDays: req.ExpeditedDays,
		FreightCost:   req.FreightCost,
		FreightDays:   req.FreightDays,
	}
	if err := config.DB.Create(&rate).Error; err != nil {
		utils.LogError("Failed to create shipping rate: %v", err)
		utils.InternalServerError(c, "Failed to create shipping rate", err.Error())
		return
	}

	utils.Created(c, "Shipping rate added successfully", gin.H{
		"shipping_rate": rate,
	})
}

// UpdateShippingRate updates individual fields of a rate row.
func UpdateShippingRate(c *gin.Context) {
	utils.LogInfo("UpdateShippingRate called")

	rateID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid shipping rate ID", nil)
		return
	}

	var rate models.ShippingRate
	if err := config.DB.First(&rate, rateID).Error; err != nil {
		utils.NotFound(c, "Shipping rate not found")
		return
	}

	var req struct {
		StandardCost  *float64 `json:"standard_cost"`
		StandardDays  *int     `json:"standard_days"`
		ExpeditedCost *float64 `json:"expedited_cost"`
		ExpeditedDays *int     `json:"expedited_days"`
		FreightCost   *float64 `json:"freight_cost"`
		FreightDays   *int     `json:"freight_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.StandardCost != nil {
		updates["standard_cost"] = *req.StandardCost
	}
	if req.StandardDays != nil {
		updates["standard_days"] = *req.StandardDays
	}
	if req.ExpeditedCost != nil {
		updates["expedited_cost"] = *req.ExpeditedCost
	}
	if req.ExpeditedDays != nil {
		updates["expedited_days"] = *req.ExpeditedDays
	}
	if req.FreightCost != nil {
		updates["freight_cost"] = *req.FreightCost
	}
	if req.FreightDays != nil {
		updates["freight_days"] = *req.FreightDays
	}

	if err := config.DB.Model(&rate).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update shipping rate: %v", err)
		utils.InternalServerError(c, "Failed to update shipping rate", err.Error())
		return
	}

	utils.Success(c, "Shipping rate updated successfully", gin.H{
		"shipping_rate": rate,
	})
}

// DeleteShippingRate removes a state from the rate table. Quotes for
// that state start answering region-not-served.
func DeleteShippingRate(c *gin.Context) {
	utils.LogInfo("DeleteShippingRate called")

	rateID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid shipping rate ID", nil)
		return
	}

	var rate models.ShippingRate
	if err := config.DB.First(&rate, rateID).Error; err != nil {
		utils.NotFound(c, "Shipping rate not found")
		return
	}

	if err := config.DB.Delete(&rate).Error; err != nil {
		utils.LogError("Failed to delete shipping rate: %v", err)
		utils.InternalServerError(c, "Failed to delete shipping rate", err.Error())
		return
	}

	utils.Success(c, "Shipping rate deleted successfully", nil)
}
