package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"growthflow-server/database"
	"growthflow-server/models"
	"growthflow-server/services"
	"growthflow-server/types"
	"growthflow-server/utils"
)

// RegisterUserRoutes registers all user-related routes
func RegisterUserRoutes(router *gin.RouterGroup) {
	userRoutes := router.Group("/users")
	{
		userRoutes.GET("", listUsers)
		userRoutes.GET("/me", getMe)
		userRoutes.GET("/employees", listEmployees)
		userRoutes.GET("/:id", getUser)
		userRoutes.POST("", createUser)
		userRoutes.PATCH("/:id", updateUser)
		userRoutes.DELETE("/:id", deleteUser)
	}
}

// listUsers returns the users visible to the caller
func listUsers(c *gin.Context) {
	user := currentUser(c)

	var users []models.User
	if err := services.VisibleUsers(database.DB, user).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// getMe returns the authenticated principal
func getMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// listEmployees returns the employees the caller manages (all employees
// for superusers)
func listEmployees(c *gin.Context) {
	user := currentUser(c)

	query := database.DB.Model(&models.User{}).Where("role = ?", models.RoleEmployee).Order("username")
	switch {
	case user.IsSuperuser:
		// All employees
	case user.IsManager():
		query = query.Where("manager_id = ?", user.ID)
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to view this"})
		return
	}

	var employees []models.User
	if err := query.Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employees"})
		return
	}

	c.JSON(http.StatusOK, employees)
}

// getUser returns a single user resolved through the caller's
// visibility set
func getUser(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var target models.User
	if err := services.VisibleUsers(database.DB, user).First(&target, id).Error; err != nil {
		respondError(c, &types.NotFoundError{Resource: "user"})
		return
	}

	c.JSON(http.StatusOK, target)
}

// createUser provisions a principal. Restricted to superusers; the
// manager reference is validated against the manager role at write time.
func createUser(c *gin.Context) {
	user := currentUser(c)
	if !user.IsSuperuser {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only superusers can provision users"})
		return
	}

	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "message": err.Error()})
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A user with this username already exists"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	newUser := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         req.Role,
		ManagerID:    req.Manager,
		IsActive:     true,
	}
	if !newUser.IsValidRole() {
		respondError(c, &types.ValidationError{Message: "role must be manager or employee"})
		return
	}

	if err := database.DB.Create(&newUser).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUser)
}

// updateUser mutates provisioning fields (role, manager link, active
// flag). Restricted to superusers; a null manager clears the link.
func updateUser(c *gin.Context) {
	user := currentUser(c)
	if !user.IsSuperuser {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only superusers can modify users"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var target models.User
	if err := database.DB.First(&target, id).Error; err != nil {
		respondError(c, &types.NotFoundError{Resource: "user"})
		return
	}

	patch, err := bindPatch(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "message": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if raw, present := patch["email"]; present {
		var email string
		if err := unmarshalField(raw, &email); err != nil {
			respondError(c, err)
			return
		}
		updates["email"] = email
	}
	if raw, present := patch["role"]; present {
		var role models.UserRole
		if err := unmarshalField(raw, &role); err != nil {
			respondError(c, err)
			return
		}
		probe := models.User{Role: role}
		if !probe.IsValidRole() {
			respondError(c, &types.ValidationError{Message: "role must be manager or employee"})
			return
		}
		updates["role"] = role
	}
	if raw, present := patch["manager"]; present {
		var managerID *uint
		if err := unmarshalField(raw, &managerID); err != nil {
			respondError(c, err)
			return
		}
		if managerID != nil {
			var mgr models.User
			if err := database.DB.First(&mgr, *managerID).Error; err != nil || !mgr.IsManager() {
				respondError(c, &types.ValidationError{Message: "manager reference must have the manager role"})
				return
			}
		}
		updates["manager_id"] = managerID
	}
	if raw, present := patch["is_active"]; present {
		var active bool
		if err := unmarshalField(raw, &active); err != nil {
			respondError(c, err)
			return
		}
		updates["is_active"] = active
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&target).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	database.DB.First(&target, id)
	c.JSON(http.StatusOK, target)
}

// deleteUser removes a principal. Direct reports keep existing but
// their manager link becomes null.
func deleteUser(c *gin.Context) {
	user := currentUser(c)
	if !user.IsSuperuser {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only superusers can delete users"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var target models.User
	if err := database.DB.First(&target, id).Error; err != nil {
		respondError(c, &types.NotFoundError{Resource: "user"})
		return
	}

	if err := database.DB.Model(&models.User{}).
		Where("manager_id = ?", target.ID).
		Update("manager_id", nil).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlink reports"})
		return
	}

	if err := database.DB.Delete(&target).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
