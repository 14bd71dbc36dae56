package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/patch"
	"expensetracker/internal/services"
)

// UserHandler handles requests on the authenticated user's own account.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// UpdateUserRequest is a partial update. Omitted keys are left unchanged.
type UpdateUserRequest struct {
	Username patch.Field[string] `json:"username" binding:"omitempty,min=3,max=50,username" swaggertype:"string"`
	Email    patch.Field[string] `json:"email" binding:"omitempty,email,max=128" swaggertype:"string"`
	Password patch.Field[string] `json:"password" binding:"omitempty,min=8,max=128" swaggertype:"string"`
	Salary   patch.Field[int64]  `json:"salary" binding:"omitempty,gte=0" swaggertype:"integer"`
}

// GetMe returns the authenticated user's profile
// @Summary     Get current user
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// UpdateMe applies a partial update to the authenticated user
// @Summary     Update current user
// @Description Only the provided fields change; a null salary clears it
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateUserRequest true "Fields to change"
// @Success     200 {object} UserResponse "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Username or email already exists"
// @Router      /me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(userID, services.UserPatch{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Salary:   req.Salary,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, services.AuditResourceUser, userID, c.ClientIP(), changedFields(map[string]bool{
		"username": req.Username.IsSet(),
		"email":    req.Email.IsSet(),
		"password": req.Password.IsSet(),
		"salary":   req.Salary.IsSet(),
	}))

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// DeleteMe deletes the authenticated user and everything it owns
// @Summary     Delete current user
// @Tags        user
// @Security    BearerAuth
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /me [delete]
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteUser(userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, services.AuditResourceUser, userID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}

// changedFields lists the keys a patch provided, for the audit log.
func changedFields(provided map[string]bool) map[string]any {
	fields := make([]string, 0, len(provided))
	for name, set := range provided {
		if set {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return map[string]any{"fields": fields}
}
