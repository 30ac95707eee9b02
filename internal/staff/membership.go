package staff

import (
	"errors"
	"fmt"

	"farmadmin/internal/crud"
	"farmadmin/internal/database"
	"farmadmin/internal/models"
	"farmadmin/internal/respond"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// checkMemberships validates a full membership list. Errors are keyed
// farms.<index>.<field>.
func checkMemberships(tx *gorm.DB, farms []models.UserFarm) error {
	verr := respond.NewValidationError()
	seen := map[uint]bool{}
	for i := range farms {
		prefix := fmt.Sprintf("farms.%d.", i)
		if err := checkMembership(tx, &farms[i], prefix, verr); err != nil {
			return err
		}
		id := farms[i].FarmID
		if id != 0 && seen[id] {
			verr.Add(prefix+"farm_id", "The "+prefix+"farm_id field has a duplicate value.")
		}
		seen[id] = true
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// checkMembership fills defaults on m and adds its problems to verr. Only
// storage failures are returned.
func checkMembership(tx *gorm.DB, m *models.UserFarm, prefix string, verr *respond.ValidationError) error {
	m.ID, m.UserID, m.Farm = 0, 0, nil
	if m.MembershipStatus == "" {
		m.MembershipStatus = models.MembershipActive
	}
	if err := merge(verr, prefix, respond.Validate(m)); err != nil {
		return err
	}
	if err := merge(verr, "", crud.CheckRefs(tx, crud.To(prefix+"farm_id", &models.Farm{}, m.FarmID))); err != nil {
		return err
	}
	if m.StartDate != nil && m.EndDate != nil && m.EndDate.Before(m.StartDate.Time) {
		verr.Add(prefix+"end_date", "The end date must be a date after or equal to the start date.")
	}
	return nil
}

func merge(verr *respond.ValidationError, prefix string, err error) error {
	if err == nil {
		return nil
	}
	var ve *respond.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for field, msgs := range ve.Errors {
		for _, msg := range msgs {
			verr.Add(prefix+field, msg)
		}
	}
	return nil
}

// syncMemberships replaces every membership of the user with farms.
func syncMemberships(tx *gorm.DB, userID uint, farms []models.UserFarm) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.UserFarm{}).Error; err != nil {
		return err
	}
	if len(farms) == 0 {
		return nil
	}
	for i := range farms {
		farms[i].UserID = userID
	}
	return tx.Omit("Farm").Create(&farms).Error
}

func parseFarmID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("farmId")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid farm id")
	}
	return uint(id), nil
}

func loadMembership(userID, farmID uint) (*models.UserFarm, error) {
	var m models.UserFarm
	err := database.DB.Where("user_id = ? AND farm_id = ?", userID, farmID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Membership not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// POST /api/v1/users/:id/farms
// Adding a farm the user left reactivates the old membership with the new
// terms.
func AddMembershipHandler(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := crud.ParseID(c)
		if err != nil {
			return err
		}
		u, err := loadUser(id)
		if err != nil {
			return err
		}

		var m models.UserFarm
		if err := c.BodyParser(&m); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		verr := respond.NewValidationError()
		if err := checkMembership(database.DB, &m, "", verr); err != nil {
			return err
		}
		if !verr.Empty() {
			return verr
		}
		m.UserID = u.ID

		var existing models.UserFarm
		err = database.DB.Where("user_id = ? AND farm_id = ?", u.ID, m.FarmID).First(&existing).Error
		switch {
		case err == nil && existing.Active():
			return respond.Invalid("farm_id", "The user is already a member of this farm.")
		case err == nil:
			m.ID, m.CreatedAt = existing.ID, existing.CreatedAt
			err = database.DB.Omit("Farm").Save(&m).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			err = database.DB.Omit("Farm").Create(&m).Error
		}
		if err != nil {
			log.Error("membership not saved", zap.Uint("user", u.ID), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Membership could not be saved")
		}

		saved, err := loadUser(u.ID)
		if err != nil {
			return err
		}
		recordUser(c, log, saved, models.AuditActionUpdate, u, saved)
		return respond.Created(c, saved)
	}
}

// PUT|PATCH /api/v1/users/:id/farms/:farmId
func UpdateMembershipHandler(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := crud.ParseID(c)
		if err != nil {
			return err
		}
		farmID, err := parseFarmID(c)
		if err != nil {
			return err
		}
		u, err := loadUser(id)
		if err != nil {
			return err
		}
		m, err := loadMembership(u.ID, farmID)
		if err != nil {
			return err
		}
		memberID, createdAt := m.ID, m.CreatedAt

		if err := c.BodyParser(m); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		// the farm is part of the address, not the body
		m.FarmID = farmID
		verr := respond.NewValidationError()
		if err := checkMembership(database.DB, m, "", verr); err != nil {
			return err
		}
		if !verr.Empty() {
			return verr
		}
		m.ID, m.UserID, m.CreatedAt = memberID, u.ID, createdAt

		if err := database.DB.Omit("Farm").Save(m).Error; err != nil {
			log.Error("membership not saved", zap.Uint("user", u.ID), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Membership could not be saved")
		}

		saved, err := loadUser(u.ID)
		if err != nil {
			return err
		}
		recordUser(c, log, saved, models.AuditActionUpdate, u, saved)
		return respond.Data(c, saved)
	}
}

// DELETE /api/v1/users/:id/farms/:farmId
// The membership is kept as INACTIVE so its terms stay on record.
func RemoveMembershipHandler(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := crud.ParseID(c)
		if err != nil {
			return err
		}
		farmID, err := parseFarmID(c)
		if err != nil {
			return err
		}
		u, err := loadUser(id)
		if err != nil {
			return err
		}
		m, err := loadMembership(u.ID, farmID)
		if err != nil {
			return err
		}
		if err := database.DB.Model(m).Update("membership_status", models.MembershipInactive).Error; err != nil {
			log.Error("membership not saved", zap.Uint("user", u.ID), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Membership could not be saved")
		}

		saved, err := loadUser(u.ID)
		if err != nil {
			return err
		}
		recordUser(c, log, saved, models.AuditActionUpdate, u, saved)
		return respond.Data(c, saved)
	}
}
