package controllers

import (
	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/models"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-gonic/gin"
)

// CreateCourse adds a course to the catalog.
func CreateCourse(c *gin.Context) {
	utils.LogInfo("CreateCourse called")

	var req struct {
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"min=0"`
		ImageURL    string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	course := models.Course{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if err := config.DB.Create(&course).Error; err != nil {
		utils.LogError("Failed to create course: %v", err)
		utils.InternalServerError(c, "Failed to create course", nil)
		return
	}

	utils.Created(c, "Course created successfully", gin.H{"course": course})
}

// UpdateCourse updates course fields. Deactivating a course hides it
// from the catalog but keeps existing enrollments working.
func UpdateCourse(c *gin.Context) {
	utils.LogInfo("UpdateCourse called")

	var course models.Course
	if err := config.DB.First(&course, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Course not found")
		return
	}

	var req struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		ImageURL    *string  `json:"image_url"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			utils.BadRequest(c, "Price cannot be negative", nil)
			return
		}
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := config.DB.Model(&course).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update course %d: %v", course.ID, err)
		utils.InternalServerError(c, "Failed to update course", nil)
		return
	}

	utils.Success(c, "Course updated successfully", gin.H{"course": course})
}

// CreateModule adds a module to a course.
func CreateModule(c *gin.Context) {
	utils.LogInfo("CreateModule called")

	var course models.Course
	if err := config.DB.First(&course, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Course not found")
		return
	}

	var req struct {
		Title    string `json:"title" binding:"required"`
		Position int    `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	module := models.Module{
		CourseID: course.ID,
		Title:    req.Title,
		Position: req.Position,
	}
	if err := config.DB.Create(&module).Error; err != nil {
		utils.LogError("Failed to create module: %v", err)
		utils.InternalServerError(c, "Failed to create module", nil)
		return
	}

	utils.Created(c, "Module created successfully", gin.H{"module": module})
}

// CreateLesson adds a lesson to a module.
func CreateLesson(c *gin.Context) {
	utils.LogInfo("CreateLesson called")

	var module models.Module
	if err := config.DB.First(&module, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Module not found")
		return
	}

	var req struct {
		Title    string `json:"title" binding:"required"`
		VideoURL string `json:"video_url"`
		Content  string `json:"content"`
		Position int    `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	lesson := models.Lesson{
		ModuleID: module.ID,
		Title:    req.Title,
		VideoURL: req.VideoURL,
		Content:  req.Content,
		Position: req.Position,
	}
	if err := config.DB.Create(&lesson).Error; err != nil {
		utils.LogError("Failed to create lesson: %v", err)
		utils.InternalServerError(c, "Failed to create lesson", nil)
		return
	}

	utils.Created(c, "Lesson created successfully", gin.H{"lesson": lesson})
}
