package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// MaterialRow is one entry of the material catalog.
type MaterialRow struct {
	ID        string          `json:"id"`
	Material  string          `json:"material"`
	Thickness string          `json:"thickness"`
	Grade     string          `json:"grade"`
	BasePrice decimal.Decimal `json:"base_price"`
	Status    string          `json:"status"`
}

// Active reports whether the row is offered for pricing.
func (r MaterialRow) Active() bool {
	return r.Status == "Active"
}

// Validate checks a catalog row before it is saved.
func (r MaterialRow) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Material, validation.Required.Error("material is required"), validation.Length(1, 100)),
		validation.Field(&r.Thickness, validation.By(func(v any) error {
			s, _ := v.(string)
			if s == "" || IsKnownThickness(s) {
				return nil
			}
			return errors.New("thickness must be one of the offered sheet thicknesses")
		})),
		validation.Field(&r.Status, validation.Required, validation.In("Active", "Inactive")),
		validation.Field(&r.BasePrice, validation.By(func(v any) error {
			d, _ := v.(decimal.Decimal)
			if d.IsNegative() {
				return errors.New("base price cannot be negative")
			}
			return nil
		})),
	)
}

// MaterialCatalogStore loads and saves the whole catalog at once. Save
// replaces the stored catalog with the snapshot, and a Load after Save in
// the same process returns what was saved.
type MaterialCatalogStore interface {
	Load(ctx context.Context) ([]MaterialRow, error)
	Save(ctx context.Context, rows []MaterialRow) error
}

// CatalogPrices returns the base price of each active material with a
// positive price. The first active row for a material wins.
func CatalogPrices(rows []MaterialRow) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, r := range rows {
		if !r.Active() || !r.BasePrice.IsPositive() {
			continue
		}
		if _, seen := out[r.Material]; seen {
			continue
		}
		out[r.Material] = r.BasePrice
	}
	return out
}

// ── PocketBase-backed catalog ────────────────────────────────────────

// RecordMaterialCatalog stores the catalog in the materials collection.
type RecordMaterialCatalog struct {
	app core.App
}

func NewRecordMaterialCatalog(app core.App) *RecordMaterialCatalog {
	return &RecordMaterialCatalog{app: app}
}

func (c *RecordMaterialCatalog) Load(ctx context.Context) ([]MaterialRow, error) {
	col, err := c.app.FindCollectionByNameOrId("materials")
	if err != nil {
		return nil, fmt.Errorf("material catalog: %w", err)
	}
	records, err := c.app.FindRecordsByFilter(col, "id != ''", "material,thickness", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("material catalog: query: %w", err)
	}
	rows := make([]MaterialRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, materialRowFromRecord(rec))
	}
	return rows, nil
}

// Save upserts every row by id and deletes catalog records not in rows.
// Rows without an id are created and get their new id written back.
func (c *RecordMaterialCatalog) Save(ctx context.Context, rows []MaterialRow) error {
	for i, r := range rows {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("material catalog: row %d: %w", i+1, err)
		}
	}

	return c.app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId("materials")
		if err != nil {
			return fmt.Errorf("material catalog: %w", err)
		}
		existing, err := txApp.FindAllRecords(col)
		if err != nil {
			return fmt.Errorf("material catalog: query: %w", err)
		}
		byID := make(map[string]*core.Record, len(existing))
		for _, rec := range existing {
			byID[rec.Id] = rec
		}

		keep := make(map[string]bool, len(rows))
		for i := range rows {
			rec, ok := byID[rows[i].ID]
			if !ok {
				rec = core.NewRecord(col)
			}
			rec.Set("material", strings.TrimSpace(rows[i].Material))
			rec.Set("thickness", rows[i].Thickness)
			rec.Set("grade", rows[i].Grade)
			rec.Set("base_price", rows[i].BasePrice.InexactFloat64())
			rec.Set("status", rows[i].Status)
			if err := txApp.SaveWithContext(ctx, rec); err != nil {
				return fmt.Errorf("material catalog: save %q: %w", rows[i].Material, err)
			}
			rows[i].ID = rec.Id
			keep[rec.Id] = true
		}

		for id, rec := range byID {
			if keep[id] {
				continue
			}
			if err := txApp.DeleteWithContext(ctx, rec); err != nil {
				return fmt.Errorf("material catalog: delete %s: %w", id, err)
			}
		}
		return nil
	})
}

func materialRowFromRecord(rec *core.Record) MaterialRow {
	return MaterialRow{
		ID:        rec.Id,
		Material:  rec.GetString("material"),
		Thickness: rec.GetString("thickness"),
		Grade:     rec.GetString("grade"),
		BasePrice: decimal.NewFromFloat(rec.GetFloat("base_price")).Round(2),
		Status:    rec.GetString("status"),
	}
}

// ── In-memory catalog ────────────────────────────────────────────────

// MemoryMaterialCatalog keeps the catalog in process memory.
type MemoryMaterialCatalog struct {
	mu     sync.RWMutex
	rows   []MaterialRow
	nextID int
}

func NewMemoryMaterialCatalog(rows ...MaterialRow) *MemoryMaterialCatalog {
	c := &MemoryMaterialCatalog{}
	_ = c.Save(context.Background(), rows)
	return c
}

func (c *MemoryMaterialCatalog) Load(ctx context.Context) ([]MaterialRow, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]MaterialRow(nil), c.rows...), nil
}

func (c *MemoryMaterialCatalog) Save(ctx context.Context, rows []MaterialRow) error {
	for i, r := range rows {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("material catalog: row %d: %w", i+1, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range rows {
		if rows[i].ID == "" {
			c.nextID++
			rows[i].ID = fmt.Sprintf("mem%d", c.nextID)
		}
	}
	c.rows = append([]MaterialRow(nil), rows...)
	return nil
}
