package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "chapterfund/internal/errors"
	"chapterfund/internal/models"
	"chapterfund/internal/pagination"
)

// deadlineService handles deadline-related business logic.
type deadlineService struct {
	db *gorm.DB
}

// NewDeadlineService creates a new DeadlineServicer.
func NewDeadlineService(db *gorm.DB) DeadlineServicer {
	return &deadlineService{db: db}
}

// CreateDeadline creates a chapter-sourced deadline. Admin-sourced deadlines
// only enter the system through fixture seeding.
func (s *deadlineService) CreateDeadline(userID, title string, dueDate time.Time, amount *decimal.Decimal, priority models.DeadlinePriority, notes string) (*models.Deadline, error) {
	if amount != nil && !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}

	deadline := &models.Deadline{
		UserID:   userID,
		Title:    title,
		DueDate:  dueDate,
		Amount:   amount,
		Priority: priority,
		Status:   models.DeadlineStatusUpcoming,
		Notes:    notes,
		Source:   models.DeadlineSourceChapter,
	}

	if err := s.db.Create(deadline).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return deadline, nil
}

// GetUserDeadlines returns a paginated list of deadlines with the overdue
// status derived at read time.
func (s *deadlineService) GetUserDeadlines(userID string, page pagination.PageRequest, filter DeadlineFilter) (*pagination.PageResponse[models.Deadline], error) {
	page.Defaults()

	base := s.db.Model(&models.Deadline{}).Where("user_id = ?", userID)
	if filter.Priority != nil {
		base = base.Where("priority = ?", *filter.Priority)
	}
	if filter.Source != nil {
		base = base.Where("source = ?", *filter.Source)
	}

	// The overdue filter cannot be pushed to SQL: it is derived from the
	// due date, so filter in memory after fetching the user's deadlines.
	now := time.Now()
	if filter.Status != nil {
		var all []models.Deadline
		if err := base.Order("due_date ASC").Find(&all).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		matched := make([]models.Deadline, 0, len(all))
		for i := range all {
			all[i].Status = all[i].EffectiveStatus(now)
			if all[i].Status == *filter.Status {
				matched = append(matched, all[i])
			}
		}
		return pageSlice(matched, page), nil
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var deadlines []models.Deadline
	if err := base.Order("due_date ASC").Scopes(pagination.Paginate(page)).Find(&deadlines).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range deadlines {
		deadlines[i].Status = deadlines[i].EffectiveStatus(now)
	}

	result := pagination.NewPageResponse(deadlines, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// pageSlice paginates an already-filtered in-memory slice.
func pageSlice(items []models.Deadline, page pagination.PageRequest) *pagination.PageResponse[models.Deadline] {
	total := int64(len(items))
	start := page.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + page.PageSize
	if end > len(items) {
		end = len(items)
	}
	result := pagination.NewPageResponse(items[start:end], page.Page, page.PageSize, total)
	return &result
}

// GetDeadlineByID returns a deadline by ID if it belongs to the user.
func (s *deadlineService) GetDeadlineByID(userID, deadlineID string) (*models.Deadline, error) {
	var deadline models.Deadline
	if err := s.db.Where("id = ? AND user_id = ?", deadlineID, userID).First(&deadline).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDeadlineNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	deadline.Status = deadline.EffectiveStatus(time.Now())
	return &deadline, nil
}

// UpdateDeadline updates a chapter deadline. Admin-sourced deadlines are
// read-only.
func (s *deadlineService) UpdateDeadline(userID, deadlineID string, title *string, dueDate *time.Time, amount *decimal.Decimal, priority *models.DeadlinePriority, notes *string) (*models.Deadline, error) {
	deadline, err := s.GetDeadlineByID(userID, deadlineID)
	if err != nil {
		return nil, err
	}
	if deadline.Source == models.DeadlineSourceAdminEvent {
		return nil, apperrors.ErrDeadlineReadOnly
	}

	updates := make(map[string]interface{})
	if title != nil {
		updates["title"] = *title
	}
	if dueDate != nil {
		updates["due_date"] = *dueDate
	}
	if amount != nil {
		if !amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
		}
		updates["amount"] = *amount
	}
	if priority != nil {
		updates["priority"] = *priority
	}
	if notes != nil {
		updates["notes"] = *notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(deadline).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return deadline, nil
}

// CompleteDeadline marks a chapter deadline as completed.
func (s *deadlineService) CompleteDeadline(userID, deadlineID string) (*models.Deadline, error) {
	deadline, err := s.GetDeadlineByID(userID, deadlineID)
	if err != nil {
		return nil, err
	}
	if deadline.Source == models.DeadlineSourceAdminEvent {
		return nil, apperrors.ErrDeadlineReadOnly
	}

	if err := s.db.Model(deadline).Update("status", models.DeadlineStatusCompleted).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	deadline.Status = models.DeadlineStatusCompleted
	return deadline, nil
}

// DeleteDeadline soft-deletes a chapter deadline.
func (s *deadlineService) DeleteDeadline(userID, deadlineID string) error {
	deadline, err := s.GetDeadlineByID(userID, deadlineID)
	if err != nil {
		return err
	}
	if deadline.Source == models.DeadlineSourceAdminEvent {
		return apperrors.ErrDeadlineReadOnly
	}

	if err := s.db.Delete(deadline).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
