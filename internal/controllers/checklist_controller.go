package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleet_maintenance/internal/models"
)

type ChecklistController struct {
	DB *gorm.DB
}

func NewChecklistController(db *gorm.DB) *ChecklistController {
	return &ChecklistController{DB: db}
}

// GetTemplates returns the checklist template and its ordered items for a
// vehicle type. Templates are seeded configuration; no mutation is exposed.
func (cc *ChecklistController) GetTemplates(c *gin.Context) {
	vehicleType := c.DefaultQuery("vehicle_type", models.UnitTypeTractor)
	if !models.ValidUnitType(vehicleType) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown vehicle_type: " + vehicleType})
		return
	}

	var templates []models.ChecklistTemplate
	if err := cc.DB.Where("vehicle_type = ?", vehicleType).Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching templates: " + err.Error()})
		return
	}

	templateIDs := make([]uint, 0, len(templates))
	for _, t := range templates {
		templateIDs = append(templateIDs, t.ID)
	}

	var items []models.ChecklistItem
	if len(templateIDs) > 0 {
		if err := cc.DB.Where("template_id IN ?", templateIDs).Order("id").Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching checklist items: " + err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"items":     items,
	})
}
