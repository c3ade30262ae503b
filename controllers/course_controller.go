package controllers

import (
	"fmt"
	"strconv"

	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/gateway"
	"github.com/dellacasa/emporio/models"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListCourses returns the active course catalog.
func ListCourses(c *gin.Context) {
	utils.LogInfo("ListCourses called")

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Course{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		utils.LogError("Failed to count courses: %v", err)
		utils.InternalServerError(c, "Failed to fetch courses", nil)
		return
	}

	var courses []models.Course
	if err := config.DB.Where("is_active = ?", true).
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&courses).Error; err != nil {
		utils.LogError("Failed to fetch courses: %v", err)
		utils.InternalServerError(c, "Failed to fetch courses", nil)
		return
	}

	utils.SuccessWithPagination(c, "Courses retrieved successfully", gin.H{
		"courses": courses,
	}, total, pagination.Page, pagination.Limit)
}

// GetCourse returns a course with its module and lesson outline. Lesson
// content stays behind the enrollment gate; only titles are listed here.
func GetCourse(c *gin.Context) {
	utils.LogInfo("GetCourse called")

	var course models.Course
	if err := config.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("is_active = ?", true).
		First(&course, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Course not found")
		return
	}

	type lessonOutline struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	}
	type moduleOutline struct {
		ID      uint            `json:"id"`
		Title   string          `json:"title"`
		Lessons []lessonOutline `json:"lessons"`
	}
	outline := make([]moduleOutline, 0, len(course.Modules))
	for _, m := range course.Modules {
		mo := moduleOutline{ID: m.ID, Title: m.Title, Lessons: []lessonOutline{}}
		for _, l := range m.Lessons {
			mo.Lessons = append(mo.Lessons, lessonOutline{ID: l.ID, Title: l.Title})
		}
		outline = append(outline, mo)
	}

	enrolled := false
	if user, exists := c.Get("user"); exists {
		enrolled = hasPaidEnrollment(user.(models.User).ID, course.ID)
	}

	utils.Success(c, "Course retrieved successfully", gin.H{
		"course": gin.H{
			"id":          course.ID,
			"title":       course.Title,
			"description": course.Description,
			"price":       course.Price,
			"image_url":   course.ImageURL,
			"modules":     outline,
		},
		"enrolled": enrolled,
	})
}

// hasPaidEnrollment reports whether the student holds a paid enrollment
// for the course.
func hasPaidEnrollment(studentID, courseID uint) bool {
	var count int64
	config.DB.Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ? AND status = ?", studentID, courseID, models.EnrollmentStatusPaid).
		Count(&count)
	return count > 0
}

// GetLesson returns a lesson's content to enrolled students. Students
// without a paid enrollment get 402 with the course reference so the
// client can send them to checkout.
func GetLesson(c *gin.Context) {
	utils.LogInfo("GetLesson called")

	user, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Please login for access")
		return
	}
	student := user.(models.User)

	var lesson models.Lesson
	if err := config.DB.Preload("Module").First(&lesson, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Lesson not found")
		return
	}

	var course models.Course
	if err := config.DB.First(&course, lesson.Module.CourseID).Error; err != nil {
		utils.NotFound(c, "Course not found")
		return
	}

	if !hasPaidEnrollment(student.ID, course.ID) {
		utils.LogInfo("Lesson %d blocked for student %d without enrollment", lesson.ID, student.ID)
		utils.PaymentRequired(c, "Enrollment required to access this lesson", gin.H{
			"course_id": course.ID,
			"price":     course.Price,
		})
		return
	}

	utils.Success(c, "Lesson retrieved successfully", gin.H{
		"lesson": lesson,
	})
}

// MarkLessonViewed records lesson progress, once per student and lesson.
func MarkLessonViewed(c *gin.Context) {
	utils.LogInfo("MarkLessonViewed called")

	user, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Please login for access")
		return
	}
	student := user.(models.User)

	lessonID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid lesson ID", nil)
		return
	}

	var lesson models.Lesson
	if err := config.DB.Preload("Module").First(&lesson, lessonID).Error; err != nil {
		utils.NotFound(c, "Lesson not found")
		return
	}
	if !hasPaidEnrollment(student.ID, lesson.Module.CourseID) {
		utils.PaymentRequired(c, "Enrollment required to access this lesson", nil)
		return
	}

	view := models.LessonView{StudentID: student.ID, LessonID: uint(lessonID)}
	if err := config.DB.
		Where("student_id = ? AND lesson_id = ?", student.ID, lessonID).
		FirstOrCreate(&view).Error; err != nil {
		utils.LogError("Failed to record lesson view: %v", err)
		utils.InternalServerError(c, "Failed to record progress", nil)
		return
	}

	utils.Success(c, "Lesson marked as viewed", nil)
}

// MyCourses lists the caller's paid enrollments with progress.
func MyCourses(c *gin.Context) {
	utils.LogInfo("MyCourses called")

	user, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Please login for access")
		return
	}
	student := user.(models.User)

	var enrollments []models.Enrollment
	if err := config.DB.Preload("Course").
		Where("student_id = ? AND status = ?", student.ID, models.EnrollmentStatusPaid).
		Order("created_at DESC").
		Find(&enrollments).Error; err != nil {
		utils.LogError("Failed to fetch enrollments for student %d: %v", student.ID, err)
		utils.InternalServerError(c, "Failed to fetch courses", nil)
		return
	}

	utils.Success(c, "Courses retrieved successfully", gin.H{
		"enrollments": enrollments,
	})
}

// EnrollCourse enrolls the caller in a course. Free courses grant
// access immediately; paid courses create a pending enrollment and a
// gateway charge correlated through the enrollment reference.
func EnrollCourse(c *gin.Context) {
	utils.LogInfo("EnrollCourse called")

	user, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Please login for access")
		return
	}
	student := user.(models.User)

	var course models.Course
	if err := config.DB.Where("is_active = ?", true).First(&course, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Course not found")
		return
	}

	if hasPaidEnrollment(student.ID, course.ID) {
		utils.BadRequest(c, "You are already enrolled in this course", nil)
		return
	}

	if course.Price == 0 {
		enrollment := models.Enrollment{
			StudentID: student.ID,
			CourseID:  course.ID,
		}
		if err := config.DB.
			Where("student_id = ? AND course_id = ?", student.ID, course.ID).
			Assign(map[string]interface{}{"status": models.EnrollmentStatusPaid, "amount": 0.0}).
			FirstOrCreate(&enrollment).Error; err != nil {
			utils.LogError("Failed to enroll student %d in course %d: %v", student.ID, course.ID, err)
			utils.InternalServerError(c, "Failed to enroll", nil)
			return
		}
		utils.LogInfo("Free enrollment granted: student %d course %d", student.ID, course.ID)
		utils.Created(c, "Enrolled successfully", gin.H{
			"enrollment": enrollment,
		})
		return
	}

	// Paid course: reuse any pending enrollment so repeated attempts do
	// not pile up rows, then charge the gateway.
	enrollment := models.Enrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
	}
	if err := config.DB.
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).
		Assign(map[string]interface{}{"status": models.EnrollmentStatusPending, "amount": course.Price}).
		FirstOrCreate(&enrollment).Error; err != nil {
		utils.LogError("Failed to create enrollment: %v", err)
		utils.InternalServerError(c, "Failed to enroll", nil)
		return
	}

	client := newPaymentClient()
	charge, err := client.CreateCharge(gateway.ChargeRequest{
		CustomerName:      student.FullName(),
		CustomerEmail:     student.Email,
		Value:             course.Price,
		Description:       fmt.Sprintf("Curso: %s", course.Title),
		ExternalReference: gateway.EnrollmentReference(enrollment.ID),
	})
	if err != nil {
		utils.ChargeFailures.Inc()
		utils.LogError("Failed to create charge for enrollment %d: %v", enrollment.ID, err)
		utils.InternalServerError(c, "Failed to start payment", nil)
		return
	}

	if err := config.DB.Model(&enrollment).Updates(map[string]interface{}{
		"charge_id":   charge.ID,
		"invoice_url": charge.InvoiceURL,
	}).Error; err != nil {
		utils.LogError("Failed to store charge for enrollment %d: %v", enrollment.ID, err)
		utils.InternalServerError(c, "Failed to start payment", nil)
		return
	}

	utils.ChargesCreated.Inc()
	utils.LogInfo("Charge %s created for enrollment %d", charge.ID, enrollment.ID)
	utils.Created(c, "Payment initiated for course", gin.H{
		"enrollment_id": enrollment.ID,
		"charge_id":     charge.ID,
		"invoice_url":   charge.InvoiceURL,
		"amount":        course.Price,
		"status":        models.EnrollmentStatusPending,
	})
}

// CreateCourseOrder places a course purchase through the unified order
// flow, so course and product payments share the same webhook path.
func CreateCourseOrder(c *gin.Context) {
	utils.LogInfo("CreateCourseOrder called")

	user, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Please login for access")
		return
	}
	student := user.(models.User)

	var course models.Course
	if err := config.DB.Where("is_active = ?", true).First(&course, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Course not found")
		return
	}
	if hasPaidEnrollment(student.ID, course.ID) {
		utils.BadRequest(c, "You are already enrolled in this course", nil)
		return
	}

	courseID := course.ID
	order := models.Order{
		UserID:         &student.ID,
		FirstName:      student.FirstName,
		LastName:       student.LastName,
		Email:          student.Email,
		Phone:          student.Phone,
		PaymentStatus:  models.PaymentStatusPending,
		DeliveryStatus: models.DeliveryStatusProcessing,
		Lines: []models.OrderLine{{
			CourseID: &courseID,
			Price:    course.Price,
			Quantity: 1,
		}},
	}
	if err := config.DB.Create(&order).Error; err != nil {
		utils.LogError("Failed to create course order: %v", err)
		utils.InternalServerError(c, "Failed to place order", nil)
		return
	}

	utils.OrdersPlaced.Inc()
	utils.LogInfo("Course order %d placed for student %d", order.ID, student.ID)
	utils.Created(c, "Order placed successfully", gin.H{
		"order_id":       order.ID,
		"total":          order.Total(),
		"payment_status": order.PaymentStatus,
	})
}
