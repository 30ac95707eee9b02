// Package crud serves the collection and item endpoints of one gorm model.
//
// Every resource in the API follows the same contract: list with filters,
// show, create, partial update and soft-delete, each mutation audited. A
// resource package supplies Options with its hooks and mounts the handlers.
package crud

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"farmadmin/internal/audit"
	"farmadmin/internal/auth"
	"farmadmin/internal/database"
	"farmadmin/internal/models"
	"farmadmin/internal/respond"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPerPage = 20
	maxPerPage     = 1000
)

// Record is implemented by models embedding models.Base.
type Record interface {
	Key() uint
	SetKey(id uint)
}

// Options configures the handlers for one model.
type Options[T any] struct {
	// Name is the human label used in messages, e.g. "Farm".
	Name string
	// EntityType is the audit log entity type, e.g. "farm".
	EntityType string

	Preloads []string
	// Order defaults to "id DESC".
	Order string
	// Filters maps query parameters to columns compared by equality.
	Filters map[string]string
	// DateColumn is filtered by date_from and date_to when set.
	DateColumn string
	// SearchColumns are matched by ?search= with LIKE.
	SearchColumns []string

	// Prepare runs before validation on create and update. It fills defaults,
	// generated codes and derived columns.
	Prepare func(tx *gorm.DB, item *T, creating bool) error
	// Check runs after tag validation for rules spanning fields or rows.
	Check func(tx *gorm.DB, item *T) error
	// AfterCreate runs in the insert transaction, e.g. to move stock.
	AfterCreate func(tx *gorm.DB, item *T) error
	// Scope limits every read and write to the user's farms.
	Scope Scope

	Logger *zap.Logger
}

type Handlers struct {
	List   fiber.Handler
	Get    fiber.Handler
	Create fiber.Handler
	Update fiber.Handler
	Delete fiber.Handler
}

// New builds the handlers. PT is the pointer type of T and must implement
// Record, which every model embedding models.Base does.
func New[T any, PT interface {
	*T
	Record
}](opts Options[T]) Handlers {
	if opts.Order == "" {
		opts.Order = "id DESC"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	audit.Register(opts.EntityType, func() any { return PT(new(T)) })

	r := resource[T, PT]{opts: opts}
	return Handlers{
		List:   r.list,
		Get:    r.get,
		Create: r.create,
		Update: r.update,
		Delete: r.delete,
	}
}

// Mount registers the five routes under path, gated by permission prefix
// perm: GET needs perm.view, POST perm.create, PUT/PATCH/DELETE perm.update.
func Mount(router fiber.Router, path string, perm string, h Handlers) {
	view := auth.RequirePermission(perm + ".view")
	create := auth.RequirePermission(perm + ".create")
	update := auth.RequirePermission(perm + ".update")

	router.Get(path, view, h.List)
	router.Get(path+"/:id", view, h.Get)
	router.Post(path, create, h.Create)
	router.Put(path+"/:id", update, h.Update)
	router.Patch(path+"/:id", update, h.Update)
	router.Delete(path+"/:id", update, h.Delete)
}

type resource[T any, PT interface {
	*T
	Record
}] struct {
	opts Options[T]
}

func (r resource[T, PT]) notFound() error {
	return fiber.NewError(fiber.StatusNotFound, r.opts.Name+" not found")
}

func (r resource[T, PT]) withPreloads(tx *gorm.DB) *gorm.DB {
	for _, p := range r.opts.Preloads {
		tx = tx.Preload(p)
	}
	return tx
}

// ParseID reads the :id route parameter.
func ParseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return uint(id), nil
}

// ApplyFilters adds the equality, date range and search conditions of the
// request to tx.
func ApplyFilters(c *fiber.Ctx, tx *gorm.DB, filters map[string]string, dateColumn string, searchColumns []string) (*gorm.DB, error) {
	for param, column := range filters {
		if v := c.Query(param); v != "" {
			tx = tx.Where(column+" = ?", v)
		}
	}

	if dateColumn != "" {
		if v := c.Query("date_from"); v != "" {
			from, err := models.ParseDate(v)
			if err != nil {
				return nil, respond.Invalid("date_from", "The date from field must be a valid date.")
			}
			tx = tx.Where(dateColumn+" >= ?", from.Time)
		}
		if v := c.Query("date_to"); v != "" {
			to, err := models.ParseDate(v)
			if err != nil {
				return nil, respond.Invalid("date_to", "The date to field must be a valid date.")
			}
			tx = tx.Where(dateColumn+" < ?", to.AddDate(0, 0, 1))
		}
	}

	if s := strings.TrimSpace(c.Query("search")); s != "" && len(searchColumns) > 0 {
		like := "%" + strings.ToLower(s) + "%"
		conds := make([]string, len(searchColumns))
		args := make([]any, len(searchColumns))
		for i, col := range searchColumns {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = like
		}
		tx = tx.Where(strings.Join(conds, " OR "), args...)
	}
	return tx, nil
}

// GET /api/v1/<resource>
func (r resource[T, PT]) list(c *fiber.Ctx) error {
	base, err := ApplyFilters(c, database.DB.Model(PT(new(T))), r.opts.Filters, r.opts.DateColumn, r.opts.SearchColumns)
	if err != nil {
		return err
	}
	base = r.scoped(c, base).Session(&gorm.Session{})

	items := make([]T, 0)

	if c.Query("page") == "" && c.Query("per_page") == "" {
		if err := r.withPreloads(base).Order(r.opts.Order).Find(&items).Error; err != nil {
			return fmt.Errorf("list %s: %w", r.opts.EntityType, err)
		}
		return respond.Data(c, items)
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", defaultPerPage)
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fmt.Errorf("count %s: %w", r.opts.EntityType, err)
	}
	err = r.withPreloads(base).
		Order(r.opts.Order).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return fmt.Errorf("list %s: %w", r.opts.EntityType, err)
	}
	return c.JSON(respond.NewPage(items, page, perPage, total))
}

func (r resource[T, PT]) load(c *fiber.Ctx, id uint, preload bool) (*T, error) {
	item := new(T)
	tx := r.scoped(c, database.DB.Model(PT(new(T))))
	if preload {
		tx = r.withPreloads(tx)
	}
	if err := tx.First(item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, r.notFound()
		}
		return nil, err
	}
	return item, nil
}

// GET /api/v1/<resource>/:id
func (r resource[T, PT]) get(c *fiber.Ctx) error {
	id, err := ParseID(c)
	if err != nil {
		return err
	}
	item, err := r.load(c, id, true)
	if err != nil {
		return err
	}
	return respond.Data(c, item)
}

func (r resource[T, PT]) validate(item *T, creating bool) error {
	if r.opts.Prepare != nil {
		if err := r.opts.Prepare(database.DB, item, creating); err != nil {
			return err
		}
	}
	if err := respond.Validate(item); err != nil {
		return err
	}
	if r.opts.Check != nil {
		if err := r.opts.Check(database.DB, item); err != nil {
			return err
		}
	}
	return nil
}

func (r resource[T, PT]) audit(c *fiber.Ctx, id uint, action models.AuditAction, before, after any) {
	desc := fmt.Sprintf("%s #%d %sd", r.opts.Name, id, action)
	if err := audit.Record(c, r.opts.EntityType, id, action, desc, before, after); err != nil {
		r.opts.Logger.Warn("audit log not written",
			zap.String("entity", r.opts.EntityType),
			zap.Uint("id", id),
			zap.Error(err),
		)
	}
}

// POST /api/v1/<resource>
func (r resource[T, PT]) create(c *fiber.Ctx) error {
	item := new(T)
	if err := c.BodyParser(item); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	PT(item).SetKey(0)
	body := *item

	err := r.insert(c, item)
	if isDuplicate(err) {
		// A concurrent insert took the generated code; regenerate once.
		*item = body
		err = r.insert(c, item)
	}
	if err != nil {
		return r.writeError(err, "create", "created")
	}

	id := PT(item).Key()
	saved, err := r.load(c, id, true)
	if err != nil {
		return err
	}
	r.audit(c, id, models.AuditActionCreate, nil, saved)
	return respond.Created(c, saved)
}

func (r resource[T, PT]) insert(c *fiber.Ctx, item *T) error {
	if err := r.validate(item, true); err != nil {
		return err
	}
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
			return err
		}
		if err := r.visible(c, tx, PT(item).Key()); err != nil {
			return err
		}
		if r.opts.AfterCreate != nil {
			return r.opts.AfterCreate(tx, item)
		}
		return nil
	})
}

// writeError passes request errors through and hides storage failures.
func (r resource[T, PT]) writeError(err error, op, done string) error {
	var fe *fiber.Error
	var ve *respond.ValidationError
	switch {
	case errors.As(err, &fe), errors.As(err, &ve):
		return err
	case isDuplicate(err):
		return fiber.NewError(fiber.StatusUnprocessableEntity,
			r.opts.Name+" could not be saved: a record with the same code already exists.")
	}
	r.opts.Logger.Error(op+" failed", zap.String("entity", r.opts.EntityType), zap.Error(err))
	return fiber.NewError(fiber.StatusInternalServerError, r.opts.Name+" could not be "+done)
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// PUT|PATCH /api/v1/<resource>/:id
// Fields absent from the body keep their stored values.
func (r resource[T, PT]) update(c *fiber.Ctx) error {
	id, err := ParseID(c)
	if err != nil {
		return err
	}
	item, err := r.load(c, id, false)
	if err != nil {
		return err
	}
	// Snapshot now; decoding the body writes through pointer fields.
	before, err := json.Marshal(item)
	if err != nil {
		return err
	}

	if err := c.BodyParser(item); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	PT(item).SetKey(id)

	if err := r.validate(item, false); err != nil {
		return err
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations, "created_at").Save(item).Error; err != nil {
			return err
		}
		return r.visible(c, tx, id)
	})
	if err != nil {
		return r.writeError(err, "update", "updated")
	}

	saved, err := r.load(c, id, true)
	if err != nil {
		return err
	}
	r.audit(c, id, models.AuditActionUpdate, json.RawMessage(before), saved)
	return respond.Data(c, saved)
}

// DELETE /api/v1/<resource>/:id
func (r resource[T, PT]) delete(c *fiber.Ctx) error {
	id, err := ParseID(c)
	if err != nil {
		return err
	}
	item, err := r.load(c, id, false)
	if err != nil {
		return err
	}
	if err := database.DB.Delete(item).Error; err != nil {
		r.opts.Logger.Error("delete failed", zap.String("entity", r.opts.EntityType), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, r.opts.Name+" could not be deleted")
	}
	r.audit(c, id, models.AuditActionDelete, item, nil)
	return respond.NoContent(c)
}
