package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/models"
	"expensetracker/internal/patch"
	"expensetracker/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name        string              `json:"name" binding:"required,max=50"`
	Description *string             `json:"description" binding:"omitempty,max=1000"`
	Tag         *models.CategoryTag `json:"tag" binding:"omitempty,category_tag" swaggertype:"string" enums:"Blue,Red,Black,White"`
}

// UpdateCategoryRequest is a partial update. Omitted keys are left unchanged;
// null clears description or tag.
type UpdateCategoryRequest struct {
	Name        patch.Field[string]             `json:"name" binding:"omitempty,max=50" swaggertype:"string"`
	Description patch.Field[string]             `json:"description" binding:"omitempty,max=1000" swaggertype:"string"`
	Tag         patch.Field[models.CategoryTag] `json:"tag" binding:"omitempty,category_tag" swaggertype:"string" enums:"Blue,Red,Black,White"`
}

// CategoryResponse represents a category in the response
type CategoryResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	Tag         *models.CategoryTag `json:"tag"`
	IsDefault   bool                `json:"is_default"`
	DateOfEntry string              `json:"date_of_entry"`
}

func newCategoryResponse(category *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		UserID:      category.UserID,
		Name:        category.Name,
		Description: category.Description,
		Tag:         category.Tag,
		IsDefault:   category.IsDefault,
		DateOfEntry: category.DateOfEntry.Format(time.DateOnly),
	}
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a new, non-default category. Names are unique per user, ignoring case.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} CategoryResponse "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Category name already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /me/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(userID, services.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Tag:         req.Tag,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, services.AuditResourceCategory, category.ID, c.ClientIP(), map[string]any{
		"name": category.Name,
	})

	c.JSON(http.StatusCreated, gin.H{"category": newCategoryResponse(category)})
}

// GetCategories lists the user's categories
// @Summary     List categories
// @Description Paginated list of the user's categories, default category first
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[CategoryResponse] "Categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /me/categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.categoryService.GetUserCategories(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapPage(result, newCategoryResponse))
}

// GetCategoryByID returns one category
// @Summary     Get category by ID
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} CategoryResponse "Category"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Category belongs to another user"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /me/categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(userID, pathID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": newCategoryResponse(category)})
}

// UpdateCategory applies a partial update to a category
// @Summary     Update a category
// @Description Only provided fields change. The default category cannot be updated.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Category ID"
// @Param       request body UpdateCategoryRequest true "Fields to change"
// @Success     200 {object} CategoryResponse "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Category belongs to another user"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Default category or duplicate name"
// @Router      /me/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, pathID(c), services.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		Tag:         req.Tag,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, services.AuditResourceCategory, category.ID, c.ClientIP(), changedFields(map[string]bool{
		"name":        req.Name.IsSet(),
		"description": req.Description.IsSet(),
		"tag":         req.Tag.IsSet(),
	}))

	c.JSON(http.StatusOK, gin.H{"category": newCategoryResponse(category)})
}

// DeleteCategory deletes a category and its expenses
// @Summary     Delete a category
// @Description Deletes the category and every expense filed under it. The default category cannot be deleted.
// @Tags        categories
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Category belongs to another user"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Default category"
// @Router      /me/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID := pathID(c)
	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, services.AuditResourceCategory, categoryID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}

// GetCategoryExpenses lists the expenses filed under one category
// @Summary     List a category's expenses
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Category ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[ExpenseResponse] "Expenses"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Category belongs to another user"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /me/categories/{id}/expenses [get]
func (h *CategoryHandler) GetCategoryExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.categoryService.GetCategoryExpenses(userID, pathID(c), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapPage(result, newExpenseResponse))
}
