package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fleet_maintenance/internal/models"
	"fleet_maintenance/internal/notify"
)

type RecordController struct {
	DB         *gorm.DB
	Dispatcher *notify.Dispatcher
	UploadDir  string
}

func NewRecordController(db *gorm.DB, dispatcher *notify.Dispatcher, uploadDir string) *RecordController {
	return &RecordController{DB: db, Dispatcher: dispatcher, UploadDir: uploadDir}
}

// checklistResult is the typed form of one entry of the submitted
// checklistItems array.
type checklistResult struct {
	ItemID   *uint  `json:"item_id"`
	Status   string `json:"status"`
	Comments string `json:"comments"`
	PhotoURL string `json:"photo_url"`
}

// parseChecklistResults decodes and normalizes the free-form checklistItems
// payload at the boundary. Malformed JSON is rejected; an entry with an
// unrecognized status is defaulted to "pass", matching the historical
// submission behavior clients rely on.
func parseChecklistResults(raw string) ([]checklistResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var results []checklistResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, fmt.Errorf("checklistItems must be a JSON array: %w", err)
	}
	for i := range results {
		if !models.ValidItemStatus(results[i].Status) {
			results[i].Status = models.ItemStatusPass
		}
	}
	return results, nil
}

// CreateRecord handles a multipart maintenance-record submission: it
// validates the referenced unit and the scalar fields, stores the optional
// signature image, writes the record with its checklist items and signature
// row in one transaction, and dispatches the creation notification after
// commit.
func (rc *RecordController) CreateRecord(c *gin.Context) {
	unitID, err := strconv.ParseUint(c.PostForm("unit_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_id must be a positive integer"})
		return
	}

	var unit models.Unit
	if err := rc.DB.First(&unit, uint(unitID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	mileage, err := models.ParseMileage(c.PostForm("mileage"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estimatedMinutes, err := parseOptionalInt(c.PostForm("estimated_time_minutes"))
	if err != nil || estimatedMinutes < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "estimated_time_minutes must be a non-negative integer"})
		return
	}

	status := c.DefaultPostForm("status", models.RecordStatusCompleted)
	if !models.ValidRecordStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be 'in_progress' or 'completed'"})
		return
	}

	driverID, err := parseOptionalID(c.PostForm("driver_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "driver_id must be a positive integer"})
		return
	}
	technicianID, err := parseOptionalID(c.PostForm("technician_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "technician_id must be a positive integer"})
		return
	}

	results, err := parseChecklistResults(c.PostForm("checklistItems"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Store the signature image before opening the transaction; a failed
	// upload aborts the submission with nothing persisted.
	signatureURL := ""
	signaturePath := ""
	if file, ferr := c.FormFile("signature"); ferr == nil {
		name := fmt.Sprintf("sig_%d_%s", time.Now().UnixNano(), sanitizeFilename(file.Filename))
		signaturePath = filepath.Join(rc.UploadDir, name)
		if err := c.SaveUploadedFile(file, signaturePath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store signature: " + err.Error()})
			return
		}
		signatureURL = "/uploads/" + name
	}

	// If the transaction does not commit, the stored image must not linger
	// as an orphan under the upload dir.
	committed := false
	defer func() {
		if committed || signaturePath == "" {
			return
		}
		if err := os.Remove(signaturePath); err != nil {
			logrus.WithError(err).WithField("path", signaturePath).Warn("Could not remove signature file after rollback.")
		}
	}()

	record := models.MaintenanceRecord{
		UnitID:               unit.ID,
		DriverID:             driverID,
		TechnicianID:         technicianID,
		CompanyName:          c.PostForm("company_name"),
		Mileage:              mileage,
		EstimatedTimeMinutes: estimatedMinutes,
		Notes:                c.PostForm("notes"),
		Status:               status,
	}

	tx := rc.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		rc.respondStorageError(c, err)
		return
	}

	if len(results) > 0 {
		items := make([]models.MaintenanceRecordItem, 0, len(results))
		for _, r := range results {
			items = append(items, models.MaintenanceRecordItem{
				RecordID: record.ID,
				ItemID:   r.ItemID,
				Status:   r.Status,
				Comments: r.Comments,
				PhotoURL: r.PhotoURL,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			tx.Rollback()
			rc.respondStorageError(c, err)
			return
		}
	}

	if signatureURL != "" {
		signature := models.Signature{
			RecordID:          record.ID,
			SignatureImageURL: signatureURL,
			SignedAt:          time.Now(),
		}
		if err := tx.Create(&signature).Error; err != nil {
			tx.Rollback()
			rc.respondStorageError(c, err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}
	committed = true

	// Post-commit, best-effort: a failing notification channel must never
	// roll back or delay the submission.
	rc.Dispatcher.Dispatch(notify.RecordCreated{
		RecordID:             record.ID,
		UnitNumber:           unit.UnitNumber,
		DriverName:           rc.submitterName(record.DriverID, record.TechnicianID),
		EstimatedTimeMinutes: record.EstimatedTimeMinutes,
	})

	logrus.WithFields(logrus.Fields{
		"record_id":   record.ID,
		"unit_number": unit.UnitNumber,
		"item_count":  len(results),
	}).Info("Maintenance record created.")

	c.JSON(http.StatusCreated, gin.H{"id": record.ID})
}

// ListRecords returns record summaries newest first, optionally filtered by
// unit and status. With include_items it also carries each record's items,
// item count and the derived issues list.
func (rc *RecordController) ListRecords(c *gin.Context) {
	includeItems := false
	switch c.Query("include_items") {
	case "true", "1":
		includeItems = true
	}

	query := rc.DB.Preload("Unit").Order("created_at DESC, id DESC")
	if includeItems {
		query = query.Preload("Items")
	}

	if unitIDStr := c.Query("unit_id"); unitIDStr != "" {
		unitID, err := strconv.ParseUint(unitIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unit_id must be a positive integer"})
			return
		}
		query = query.Where("unit_id = ?", uint(unitID))
	}
	if status := c.Query("status"); status != "" {
		if !models.ValidRecordStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be 'in_progress' or 'completed'"})
			return
		}
		query = query.Where("status = ?", status)
	}

	var records []models.MaintenanceRecord
	if err := query.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing records: " + err.Error()})
		return
	}

	var itemNames map[uint]string
	if includeItems {
		var err error
		if itemNames, err = rc.checklistItemNames(records); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error resolving checklist items: " + err.Error()})
			return
		}
	}

	summaries := make([]gin.H, 0, len(records))
	for _, r := range records {
		summary := gin.H{
			"id":                     r.ID,
			"unit_id":                r.UnitID,
			"unit_number":            r.Unit.UnitNumber,
			"company_name":           r.CompanyName,
			"mileage":                r.Mileage,
			"estimated_time_minutes": r.EstimatedTimeMinutes,
			"notes":                  r.Notes,
			"status":                 r.Status,
			"created_at":             r.CreatedAt,
		}
		if includeItems {
			summary["items"] = r.Items
			summary["item_count"] = len(r.Items)
			summary["issues"] = deriveIssues(r.Items, itemNames)
		}
		summaries = append(summaries, summary)
	}

	c.JSON(http.StatusOK, gin.H{"data": summaries})
}

// UpdateRecordStatus performs the only supported lifecycle transition,
// in_progress -> completed. Completing an already-completed record is a
// no-op; a record never moves backwards.
func (rc *RecordController) UpdateRecordStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "record id must be a positive integer"})
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Status != models.RecordStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only the transition to 'completed' is supported"})
		return
	}

	var record models.MaintenanceRecord
	if err := rc.DB.First(&record, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if record.Status == models.RecordStatusCompleted {
		c.JSON(http.StatusOK, gin.H{"status": record.Status, "message": "record already completed"})
		return
	}

	if err := rc.DB.Model(&record).Update("status", models.RecordStatusCompleted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update record: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": models.RecordStatusCompleted})
}

// deriveIssues projects the non-passing items of a record into its display
// issues list: the item's comments, falling back to the template item name.
// Computed at read time so the list can never drift from item status.
func deriveIssues(items []models.MaintenanceRecordItem, itemNames map[uint]string) []string {
	issues := make([]string, 0)
	for _, item := range items {
		if item.Status == models.ItemStatusPass {
			continue
		}
		issue := item.Comments
		if issue == "" && item.ItemID != nil {
			issue = itemNames[*item.ItemID]
		}
		if issue == "" {
			issue = item.Status
		}
		issues = append(issues, issue)
	}
	return issues
}

// checklistItemNames loads the template item names referenced by any item of
// the given records, for the issues fallback.
func (rc *RecordController) checklistItemNames(records []models.MaintenanceRecord) (map[uint]string, error) {
	ids := make([]uint, 0)
	seen := make(map[uint]bool)
	for _, r := range records {
		for _, item := range r.Items {
			if item.ItemID != nil && !seen[*item.ItemID] {
				seen[*item.ItemID] = true
				ids = append(ids, *item.ItemID)
			}
		}
	}
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var items []models.ChecklistItem
	if err := rc.DB.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range items {
		names[item.ID] = item.ItemName
	}
	return names, nil
}

// submitterName resolves the display name attached to the notification,
// preferring the driver over the technician.
func (rc *RecordController) submitterName(driverID, technicianID *uint) string {
	id := driverID
	if id == nil {
		id = technicianID
	}
	if id == nil {
		return "N/A"
	}
	var user models.User
	if err := rc.DB.First(&user, *id).Error; err != nil {
		logrus.WithError(err).WithField("user_id", *id).Warn("Could not resolve submitter name for notification.")
		return "N/A"
	}
	return user.Name
}

// respondStorageError translates storage-layer constraint failures into the
// API error taxonomy instead of leaking raw driver errors.
func (rc *RecordController) respondStorageError(c *gin.Context, err error) {
	if isForeignKeyViolation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "referenced row does not exist"})
		return
	}
	if isUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "conflicting row already exists"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not persist record: " + err.Error()})
}

func isForeignKeyViolation(err error) bool {
	if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23503" {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

func parseOptionalID(raw string) (*uint, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	id := uint(n)
	return &id, nil
}

func sanitizeFilename(name string) string {
	return strings.Join(strings.Fields(filepath.Base(name)), "_")
}
