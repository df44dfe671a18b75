// Package memory implementa el libro de facturas en memoria del proceso.
// Sirve para desarrollo local (STORE_DRIVER=memory) y como almacenamiento de los tests.
//
// Las transacciones trabajan sobre una copia del estado y la publican al confirmar; los
// lectores toman un RLock y nunca ven un lote a medio aplicar.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/wholesale-trade/internal/application/inventory"
	"github.com/jhoicas/wholesale-trade/internal/domain"
	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
	domaininv "github.com/jhoicas/wholesale-trade/internal/domain/inventory"
	"github.com/jhoicas/wholesale-trade/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	products   map[int64]entity.Product
	lines      []entity.InvoiceLine
	nextLineID int64
}

func (s *state) clone() *state {
	c := &state{
		products:   make(map[int64]entity.Product, len(s.products)),
		lines:      make([]entity.InvoiceLine, len(s.lines)),
		nextLineID: s.nextLineID,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	copy(c.lines, s.lines)
	return c
}

// Store estado compartido del libro en memoria.
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza el reloj usado para created_at (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore crea un libro vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{
		st:  &state{products: make(map[int64]entity.Product), nextLineID: 1},
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{acc: sharedAccess{s}} }

// Lines repositorio de líneas fuera de transacción.
func (s *Store) Lines() *InvoiceLineRepo { return &InvoiceLineRepo{acc: sharedAccess{s}, now: s.now} }

// Run ejecuta fn sobre una copia del estado con el candado de escritura tomado y la publica
// solo si fn termina sin error.
func (s *Store) Run(ctx context.Context, fn func(
	ctx context.Context,
	productRepo repository.ProductRepository,
	lineRepo repository.InvoiceLineRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	acc := txAccess{work}
	if err := fn(ctx, &ProductRepo{acc: acc}, &InvoiceLineRepo{acc: acc, now: s.now}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// accessor abstrae si el repositorio trabaja sobre el estado publicado o sobre la copia de una tx.
type accessor interface {
	read(fn func(*state))
	write(fn func(*state) error) error
}

type sharedAccess struct{ s *Store }

func (a sharedAccess) read(fn func(*state)) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	fn(a.s.st)
}

func (a sharedAccess) write(fn func(*state) error) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	work := a.s.st.clone()
	if err := fn(work); err != nil {
		return err
	}
	a.s.st = work
	return nil
}

type txAccess struct{ st *state }

func (a txAccess) read(fn func(*state))              { fn(a.st) }
func (a txAccess) write(fn func(*state) error) error { return fn(a.st) }

// ── Productos ─────────────────────────────────────────────────────────────────

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	acc accessor
}

// List devuelve el catálogo ordenado por id.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []*entity.Product
	r.acc.read(func(st *state) {
		list = make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			p := p
			list = append(list, &p)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// ExistingIDs devuelve los ids presentes en el catálogo.
func (r *ProductRepo) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	found := make(map[int64]bool, len(ids))
	r.acc.read(func(st *state) {
		for _, id := range ids {
			if _, ok := st.products[id]; ok {
				found[id] = true
			}
		}
	})
	return found, nil
}

// Upsert inserta o reemplaza el producto por ID.
func (r *ProductRepo) Upsert(ctx context.Context, product *entity.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if product == nil || product.ID <= 0 {
		return domain.ErrInvalidInput
	}
	return r.acc.write(func(st *state) error {
		st.products[product.ID] = *product
		return nil
	})
}

// ── Líneas de factura ─────────────────────────────────────────────────────────

var _ repository.InvoiceLineRepository = (*InvoiceLineRepo)(nil)

// InvoiceLineRepo implementación en memoria de InvoiceLineRepository.
type InvoiceLineRepo struct {
	acc accessor
	now func() time.Time
}

// NextBatchID max(batch_id)+1, o 1 si no hay líneas.
func (r *InvoiceLineRepo) NextBatchID(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var maxID int64
	r.acc.read(func(st *state) {
		for _, l := range st.lines {
			if l.BatchID > maxID {
				maxID = l.BatchID
			}
		}
	})
	return maxID + 1, nil
}

// Create agrega la línea asignando ID y CreatedAt.
func (r *InvoiceLineRepo) Create(ctx context.Context, line *entity.InvoiceLine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.acc.write(func(st *state) error {
		if _, ok := st.products[line.ProductID]; !ok {
			return domain.ErrUnknownProduct
		}
		line.ID = st.nextLineID
		st.nextLineID++
		if line.CreatedAt.IsZero() {
			line.CreatedAt = r.now()
		}
		st.lines = append(st.lines, *line)
		return nil
	})
}

// UpdateQuantity fija la cantidad de una línea existente.
func (r *InvoiceLineRepo) UpdateQuantity(ctx context.Context, id, quantity int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if quantity < 0 {
		return domain.ErrInvalidInput
	}
	return r.acc.write(func(st *state) error {
		for i := range st.lines {
			if st.lines[i].ID == id {
				st.lines[i].Quantity = quantity
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// StockPosition suma las entradas del producto.
func (r *InvoiceLineRepo) StockPosition(ctx context.Context, productID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	lines := r.filter(func(l entity.InvoiceLine) bool { return l.ProductID == productID })
	return domaininv.Position(lines), nil
}

// ListStockLines entradas con cantidad > 0 del producto en orden FIFO.
func (r *InvoiceLineRepo) ListStockLines(ctx context.Context, productID int64) ([]*entity.InvoiceLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	list := r.filter(func(l entity.InvoiceLine) bool {
		return l.ProductID == productID && l.Kind.HoldsStock() && l.Quantity > 0
	})
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// ListByBatch líneas del lote ordenadas por id.
func (r *InvoiceLineRepo) ListByBatch(ctx context.Context, batchID int64) ([]*entity.InvoiceLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.filter(func(l entity.InvoiceLine) bool { return l.BatchID == batchID }), nil
}

// ListAll todas las líneas ordenadas por batch_id e id.
func (r *InvoiceLineRepo) ListAll(ctx context.Context) ([]*entity.InvoiceLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	list := r.filter(func(entity.InvoiceLine) bool { return true })
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].BatchID != list[j].BatchID {
			return list[i].BatchID < list[j].BatchID
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// ListForReport líneas del tipo en [from, to] con nombre y precio del producto.
func (r *InvoiceLineRepo) ListForReport(ctx context.Context, kind entity.InvoiceKind, from, to time.Time) ([]*entity.ReportLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*entity.ReportLine
	r.acc.read(func(st *state) {
		for _, l := range st.lines {
			if l.Kind != kind || l.CreatedAt.Before(from) || l.CreatedAt.After(to) {
				continue
			}
			p, ok := st.products[l.ProductID]
			if !ok {
				continue
			}
			out = append(out, &entity.ReportLine{InvoiceLine: l, ProductName: p.Name, Price: p.Price})
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteAll vacía el libro.
func (r *InvoiceLineRepo) DeleteAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	err := r.acc.write(func(st *state) error {
		n = int64(len(st.lines))
		st.lines = nil
		return nil
	})
	return n, err
}

func (r *InvoiceLineRepo) filter(keep func(entity.InvoiceLine) bool) []*entity.InvoiceLine {
	var out []*entity.InvoiceLine
	r.acc.read(func(st *state) {
		for _, l := range st.lines {
			if keep(l) {
				l := l
				out = append(out, &l)
			}
		}
	})
	return out
}
