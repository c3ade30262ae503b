package controllers

import (
	"net/http"
	"strings"

	"github.com/dellacasa/emporio/utils"
	"github.com/gin-gonic/gin"
)

// QuoteShipping returns the shipping options available for a state. A
// method is offered only when the rate table carries both its cost and
// its transit days.
func QuoteShipping(c *gin.Context) {
	utils.LogInfo("QuoteShipping called")

	state := strings.TrimSpace(c.Query("state"))
	if len(state) != 2 {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"options": []utils.ShippingOption{},
			"message": "Informe a UF de destino",
		})
		return
	}

	rate, err := utils.GetShippingRate(state)
	if err != nil {
		utils.LogInfo("No shipping rate for state %s", state)
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"options": []utils.ShippingOption{},
			"message": "Não entregamos nessa região",
		})
		return
	}

	options := utils.ShippingOptions(rate)
	if len(options) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"options": []utils.ShippingOption{},
			"message": "Não entregamos nessa região",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"options": options,
		"message": "",
	})
}
