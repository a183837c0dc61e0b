package handlers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"EstateHub/models"
	"EstateHub/store"
	"EstateHub/utils"
)

type ContactStore interface {
	Create(ctx context.Context, req models.ContactRequest) (*models.Contact, error)
	GetAll(ctx context.Context, filter models.ContactFilter) ([]models.Contact, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	AddNote(ctx context.Context, id primitive.ObjectID, note models.ContactNote) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Stats(ctx context.Context) (*models.ContactStats, error)
}

type ContactController struct {
	store ContactStore
}

func NewContactController(s ContactStore) *ContactController {
	return &ContactController{store: s}
}

func parseContactID(c echo.Context) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Param("id"))
}

// Submit is the public contact-form endpoint.
func (cc *ContactController) Submit(c echo.Context) error {
	var req models.ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name, email and message are required"})
	}

	contact, err := cc.store.Create(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to submit inquiry"})
	}
	return c.JSON(http.StatusCreated, contact)
}

func (cc *ContactController) List(c echo.Context) error {
	filter := models.ContactFilter{Page: 1, Limit: 20}
	if status := c.QueryParam("status"); status != "" {
		if !utils.IsValidContactStatus(status) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status filter"})
		}
		filter.Status = status
	}
	if p := c.QueryParam("page"); p != "" {
		if num, err := strconv.Atoi(p); err == nil && num > 0 {
			filter.Page = num
		}
	}
	if l := c.QueryParam("limit"); l != "" {
		if num, err := strconv.Atoi(l); err == nil && num > 0 {
			filter.Limit = num
		}
	}

	contacts, err := cc.store.GetAll(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch inquiries"})
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	return c.JSON(http.StatusOK, contacts)
}

func (cc *ContactController) Get(c echo.Context) error {
	id, err := parseContactID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid contact ID"})
	}

	contact, err := cc.store.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Contact not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch inquiry"})
	}
	return c.JSON(http.StatusOK, contact)
}

func (cc *ContactController) UpdateStatus(c echo.Context) error {
	id, err := parseContactID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid contact ID"})
	}

	var req models.ContactStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if !utils.IsValidContactStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid contact status"})
	}

	if err := cc.store.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Contact not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update status"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Status updated"})
}

func (cc *ContactController) AddNote(c echo.Context) error {
	id, err := parseContactID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid contact ID"})
	}

	var req models.ContactNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Note text is required"})
	}

	author, _ := c.Get("user_email").(string)
	note := models.ContactNote{
		Author:    author,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}
	if err := cc.store.AddNote(c.Request().Context(), id, note); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Contact not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to add note"})
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Note added"})
}

func (cc *ContactController) Delete(c echo.Context) error {
	id, err := parseContactID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid contact ID"})
	}

	if err := cc.store.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Contact not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete inquiry"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Inquiry deleted successfully"})
}

// ExportCSV streams every inquiry as a CSV download.
func (cc *ContactController) ExportCSV(c echo.Context) error {
	contacts, err := cc.store.GetAll(c.Request().Context(), models.ContactFilter{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch inquiries"})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="contacts.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"id", "name", "email", "phone", "listing_id", "status", "message", "notes", "created_at", "updated_at"}); err != nil {
		return err
	}
	for _, contact := range contacts {
		listingID := ""
		if contact.ListingID != 0 {
			listingID = strconv.FormatInt(contact.ListingID, 10)
		}
		row := []string{
			contact.ID.Hex(),
			contact.Name,
			contact.Email,
			contact.Phone,
			listingID,
			contact.Status,
			contact.Message,
			fmt.Sprintf("%d", len(contact.Notes)),
			contact.CreatedAt.UTC().Format(time.RFC3339),
			contact.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
