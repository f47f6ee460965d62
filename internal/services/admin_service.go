package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindBool
	kindTime
	kindDate
)

// field describes one filterable or editable column.
type field struct {
	column   string
	kind     fieldKind
	enum     []string
	required bool
	bounded  bool
	min, max int64
}

// AdminResource is one model exposed through the admin API.
type AdminResource interface {
	Name() string
	Creatable() bool
	List(ctx context.Context, params map[string]string, page, size int) (*Page[any], error)
	Get(ctx context.Context, id uint) (any, error)
	Create(ctx context.Context, values map[string]any) (any, error)
	Update(ctx context.Context, id uint, values map[string]any) (any, error)
	Delete(ctx context.Context, id uint) error
}

type resource[T any] struct {
	name      string
	table     string
	db        *gorm.DB
	joins     []string
	search    []string
	filters   map[string]field
	editable  map[string]field
	preloads  []string
	creatable bool

	// check runs before an update with the converted values.
	check func(ctx context.Context, db *gorm.DB, id uint, values map[string]any) error
	// beforeDelete runs inside the delete transaction.
	beforeDelete func(tx *gorm.DB, id uint) error
}

func (r *resource[T]) Name() string    { return r.name }
func (r *resource[T]) Creatable() bool { return r.creatable }

// List applies the search term and filters from params. Unknown parameters
// are ignored; malformed filter values are a validation error.
func (r *resource[T]) List(ctx context.Context, params map[string]string, page, size int) (*Page[any], error) {
	query := r.db.Model(new(T))
	for _, join := range r.joins {
		query = query.Joins(join)
	}

	if term := strings.TrimSpace(params["search"]); term != "" && len(r.search) > 0 {
		like := containsPattern(term)
		conds := make([]string, len(r.search))
		args := make([]any, len(r.search))
		for i, col := range r.search {
			conds[i] = ilike(col)
			args[i] = like
		}
		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	for _, name := range sortedKeys(r.filters) {
		raw, ok := params[name]
		if !ok || raw == "" {
			continue
		}
		f := r.filters[name]
		if f.kind == kindDate {
			day, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrValidation, name)
			}
			query = query.Where(f.column+" >= ? AND "+f.column+" < ?", day, day.AddDate(0, 0, 1))
			continue
		}
		value, err := parseFilter(name, f, raw)
		if err != nil {
			return nil, err
		}
		query = query.Where(f.column+" = ?", value)
	}

	result, err := paginate[T](ctx, query, r.table+".id DESC", page, size, r.preloads...)
	if err != nil {
		return nil, err
	}
	items := make([]any, len(result.Items))
	for i := range result.Items {
		items[i] = &result.Items[i]
	}
	return &Page[any]{Items: items, Total: result.Total, Number: result.Number, Size: result.Size}, nil
}

func (r *resource[T]) Get(ctx context.Context, id uint) (any, error) {
	obj := new(T)
	tx := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		tx = tx.Preload(p)
	}
	if err := tx.First(obj, id).Error; err != nil {
		return nil, fmt.Errorf("%s %d: %w", r.name, id, translate(err))
	}
	return obj, nil
}

func (r *resource[T]) Create(ctx context.Context, values map[string]any) (any, error) {
	if !r.creatable {
		return nil, fmt.Errorf("%w: %s cannot be created here", ErrForbidden, r.name)
	}
	converted, err := r.convert(values)
	if err != nil {
		return nil, err
	}
	for name, f := range r.editable {
		if _, ok := converted[name]; f.required && !ok {
			return nil, fmt.Errorf("%w: %s is required", ErrValidation, name)
		}
	}

	raw, err := json.Marshal(converted)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.name, err)
	}
	obj := new(T)
	if err := json.Unmarshal(raw, obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(obj).Error; err != nil {
			return err
		}
		// Create skips zero values of columns with defaults; write them explicitly.
		return tx.Model(obj).Updates(converted).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", r.name, translate(err))
	}
	return obj, nil
}

func (r *resource[T]) Update(ctx context.Context, id uint, values map[string]any) (any, error) {
	converted, err := r.convert(values)
	if err != nil {
		return nil, err
	}

	obj := new(T)
	if err := r.db.WithContext(ctx).First(obj, id).Error; err != nil {
		return nil, fmt.Errorf("%s %d: %w", r.name, id, translate(err))
	}
	if r.check != nil {
		if err := r.check(ctx, r.db, id, converted); err != nil {
			return nil, err
		}
	}
	if len(converted) > 0 {
		if err := r.db.WithContext(ctx).Model(obj).Updates(converted).Error; err != nil {
			return nil, fmt.Errorf("update %s %d: %w", r.name, id, translate(err))
		}
	}
	return r.Get(ctx, id)
}

func (r *resource[T]) Delete(ctx context.Context, id uint) error {
	obj := new(T)
	if err := r.db.WithContext(ctx).First(obj, id).Error; err != nil {
		return fmt.Errorf("%s %d: %w", r.name, id, translate(err))
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.beforeDelete != nil {
			if err := r.beforeDelete(tx, id); err != nil {
				return err
			}
		}
		return tx.Select(clause.Associations).Delete(obj).Error
	})
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", r.name, id, translate(err))
	}
	return nil
}

// convert checks values against the editable whitelist and converts JSON
// values to column values.
func (r *resource[T]) convert(values map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for name, raw := range values {
		f, ok := r.editable[name]
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not editable", ErrValidation, name)
		}
		v, err := convertValue(name, f, raw)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

func convertValue(name string, f field, raw any) (any, error) {
	invalid := func(want string) error {
		return fmt.Errorf("%w: %s must be %s", ErrValidation, name, want)
	}

	switch f.kind {
	case kindString:
		s, ok := raw.(string)
		if !ok {
			return nil, invalid("a string")
		}
		if f.required && strings.TrimSpace(s) == "" {
			return nil, invalid("non-empty")
		}
		if len(f.enum) > 0 && !contains(f.enum, s) {
			return nil, invalid("one of " + strings.Join(f.enum, ", "))
		}
		return s, nil
	case kindInt:
		n, ok := raw.(float64)
		if !ok || n != math.Trunc(n) {
			return nil, invalid("an integer")
		}
		i := int64(n)
		if f.bounded && (i < f.min || i > f.max) {
			return nil, invalid(fmt.Sprintf("between %d and %d", f.min, f.max))
		}
		return i, nil
	case kindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, invalid("a boolean")
		}
		return b, nil
	case kindTime:
		if raw == nil {
			return nil, nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, invalid("an RFC 3339 timestamp")
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, invalid("an RFC 3339 timestamp")
		}
		return t, nil
	}
	return nil, invalid("a supported value")
}

func parseFilter(name string, f field, raw string) (any, error) {
	switch f.kind {
	case kindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", ErrValidation, name)
		}
		return n, nil
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false", ErrValidation, name)
		}
		return b, nil
	default:
		if len(f.enum) > 0 && !contains(f.enum, raw) {
			return nil, fmt.Errorf("%w: %s must be one of %s", ErrValidation, name, strings.Join(f.enum, ", "))
		}
		return raw, nil
	}
}

// AdminService dispatches admin API calls to the registered resources.
type AdminService struct {
	resources map[string]AdminResource
	stats     *StatsService
	log       *slog.Logger
}

var ErrUnknownResource = errors.New("unknown admin resource")

func NewAdminService(db *gorm.DB, stats *StatsService, log *slog.Logger) *AdminService {
	s := &AdminService{
		resources: map[string]AdminResource{},
		stats:     stats,
		log:       log,
	}
	for _, r := range adminResources(db) {
		s.resources[r.Name()] = r
	}
	return s
}

// Resource looks up a registered resource by its URL name.
func (s *AdminService) Resource(name string) (AdminResource, error) {
	r, ok := s.resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", ErrNotFound, ErrUnknownResource, name)
	}
	return r, nil
}

// Names lists the registered resources in alphabetical order.
func (s *AdminService) Names() []string {
	return sortedKeys(s.resources)
}

func (s *AdminService) Create(ctx context.Context, name string, values map[string]any) (any, error) {
	r, err := s.Resource(name)
	if err != nil {
		return nil, err
	}
	obj, err := r.Create(ctx, values)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "create", name)
	return obj, nil
}

func (s *AdminService) Update(ctx context.Context, name string, id uint, values map[string]any) (any, error) {
	r, err := s.Resource(name)
	if err != nil {
		return nil, err
	}
	obj, err := r.Update(ctx, id, values)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "update", name, "id", id)
	return obj, nil
}

func (s *AdminService) Delete(ctx context.Context, name string, id uint) error {
	r, err := s.Resource(name)
	if err != nil {
		return err
	}
	if err := r.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, "delete", name, "id", id)
	return nil
}

// changed drops the cached stats report after any admin write.
func (s *AdminService) changed(ctx context.Context, action, name string, args ...any) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
	s.log.Info("admin "+action, append([]any{"resource", name}, args...)...)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
