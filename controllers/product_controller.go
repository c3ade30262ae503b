package controllers

import (
	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/models"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-gonic/gin"
)

// ListProducts returns the active catalog, optionally filtered by
// category slug and the featured/promotion flags.
func ListProducts(c *gin.Context) {
	utils.LogInfo("ListProducts called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Product{}).Where("is_active = ?", true)

	if categorySlug := c.Query("category"); categorySlug != "" {
		var category models.Category
		if err := config.DB.Where("slug = ?", categorySlug).First(&category).Error; err != nil {
			utils.NotFound(c, "Category not found")
			return
		}
		query = query.Where("category_id = ?", category.ID)
	}
	if c.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
	}
	if c.Query("promotion") == "true" {
		query = query.Where("is_promotion = ?", true)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}

	var products []models.Product
	if err := query.Preload("Category").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&products).Error; err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}

	utils.SuccessWithPagination(c, "Products retrieved successfully", gin.H{
		"products": products,
	}, total, pagination.Page, pagination.Limit)
}

// GetProduct returns a single active product by slug.
func GetProduct(c *gin.Context) {
	slug := c.Param("slug")
	utils.LogInfo("GetProduct called for slug: %s", slug)

	var product models.Product
	if err := config.DB.Preload("Category").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error; err != nil {
		utils.LogError("Product not found: %s", slug)
		utils.NotFound(c, "Product not found")
		return
	}

	utils.Success(c, "Product retrieved successfully", gin.H{
		"product": product,
	})
}

// ListCategories returns all categories for the storefront navigation.
func ListCategories(c *gin.Context) {
	utils.LogInfo("ListCategories called")

	var categories []models.Category
	if err := config.DB.Order("name ASC").Find(&categories).Error; err != nil {
		utils.LogError("Failed to fetch categories: %v", err)
		utils.InternalServerError(c, "Failed to fetch categories", nil)
		return
	}

	utils.Success(c, "Categories retrieved successfully", gin.H{
		"categories": categories,
	})
}
