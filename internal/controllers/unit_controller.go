package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"fleet_maintenance/internal/models"
)

type UnitController struct {
	DB *gorm.DB
}

func NewUnitController(db *gorm.DB) *UnitController {
	return &UnitController{DB: db}
}

// CreateUnit registers a new vehicle identity (admin only). Units are
// immutable once created.
func (uc *UnitController) CreateUnit(c *gin.Context) {
	var input struct {
		UnitNumber string `json:"unit_number" binding:"required"`
		Type       string `json:"type" binding:"required"`
		Make       string `json:"make"`
		Model      string `json:"model"`
		Year       int    `json:"year"`
		VIN        string `json:"vin"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unit input: " + err.Error()})
		return
	}

	if !models.ValidUnitType(input.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be 'tractor' or 'trailer'"})
		return
	}

	unit := models.Unit{
		UnitNumber: input.UnitNumber,
		Type:       input.Type,
		Make:       input.Make,
		ModelName:  input.Model,
		Year:       input.Year,
		VIN:        input.VIN,
	}

	if err := uc.DB.Create(&unit).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "unit_number already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create unit: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": unit.ID})
}

// ListUnits returns every registered unit ordered by unit number.
func (uc *UnitController) ListUnits(c *gin.Context) {
	var units []models.Unit
	if err := uc.DB.Order("unit_number").Find(&units).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing units: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": units})
}

// isUniqueViolation reports whether err is a storage-layer uniqueness
// constraint failure, for both the postgres and sqlite backends.
func isUniqueViolation(err error) bool {
	if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
