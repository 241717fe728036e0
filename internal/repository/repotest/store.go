// Package repotest provides in-memory repositories for tests that do not
// need PostgreSQL. They honor the same constraints as the migrations.
package repotest

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/catalog-service/internal/model"
	"github.com/tuanvumaihuynh/catalog-service/internal/repository"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage/db"
)

// Store holds the shared state behind every fake repository.
type Store struct {
	// txMu serializes transactions.
	txMu sync.Mutex

	mu             sync.Mutex
	err            error
	categories     map[int64]model.Category
	items          map[int64]model.Item
	outbox         []outboxEntry
	nextCategoryID int64
	nextItemID     int64
}

func NewStore() *Store {
	return &Store{
		categories: make(map[int64]model.Category),
		items:      make(map[int64]model.Item),
	}
}

// FailWith makes every subsequent repository call return err. A nil err
// restores normal behavior.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

type outboxEntry struct {
	msg       repository.OutboxMsg
	processed bool
	err       *string
}

// OutboxMsgs returns every outbox message written so far, in insertion order.
func (s *Store) OutboxMsgs() []repository.OutboxMsg {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]repository.OutboxMsg, 0, len(s.outbox))
	for _, e := range s.outbox {
		msgs = append(msgs, e.msg)
	}
	return msgs
}

// OutboxResult reports whether the message was marked processed and the
// error recorded for it.
func (s *Store) OutboxResult(id uuid.UUID) (processed bool, errMsg *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.outbox {
		if e.msg.ID == id {
			return e.processed, e.err
		}
	}
	return false, nil
}

func (s *Store) DB() db.DB { return &fakeDB{store: s} }
func (s *Store) Categories() repository.CategoryRepository { return categoryRepo{s} }
func (s *Store) Items() repository.ItemRepository { return itemRepo{s} }
func (s *Store) Outbox() repository.OutboxMsgRepository { return outboxRepo{s} }

type fakeDB struct {
	// Query methods are not supported and panic through the nil interface.
	db.DB
	store *Store
	inTx  bool
}

func (d *fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	if d.inTx {
		return txFunc(d)
	}

	d.store.txMu.Lock()
	defer d.store.txMu.Unlock()

	return txFunc(&fakeDB{store: d.store, inTx: true})
}

func (s *Store) lock() error {
	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) resolve(item model.Item) model.Item {
	item.Category = s.categories[item.CategoryID].Summary()
	return item
}

func sortedItems(items map[int64]model.Item, keep func(model.Item) bool) []model.Item {
	res := make([]model.Item, 0, len(items))
	for _, item := range items {
		if keep(item) {
			res = append(res, item)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func page[T any](all []T, offset, limit int64) []T {
	if offset >= int64(len(all)) {
		return []T{}
	}
	end := min(offset+limit, int64(len(all)))
	return all[offset:end]
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) WithDB(db.DB) repository.CategoryRepository { return r }

func (r categoryRepo) ListCategories(_ context.Context, params repository.ListCategoriesParams) ([]model.Category, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	all := make([]model.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	return page(all, params.Offset, params.Limit), nil
}

func (r categoryRepo) GetCategory(_ context.Context, id int64) (model.Category, error) {
	if err := r.s.lock(); err != nil {
		return model.Category{}, err
	}
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return model.Category{}, repository.ErrNotFound
	}
	return c, nil
}

func (r categoryRepo) GetCategoryByCode(_ context.Context, code string) (model.Category, error) {
	if err := r.s.lock(); err != nil {
		return model.Category{}, err
	}
	defer r.s.mu.Unlock()

	for _, c := range r.s.categories {
		if c.Code == code {
			return c, nil
		}
	}
	return model.Category{}, repository.ErrNotFound
}

func (r categoryRepo) codeTaken(code string, excludeID int64) bool {
	for _, c := range r.s.categories {
		if c.Code == code && c.ID != excludeID {
			return true
		}
	}
	return false
}

func (r categoryRepo) CreateCategory(_ context.Context, category model.Category) (model.Category, error) {
	if err := r.s.lock(); err != nil {
		return model.Category{}, err
	}
	defer r.s.mu.Unlock()

	if r.codeTaken(category.Code, 0) {
		return model.Category{}, repository.NewConstraintError(repository.ErrUniqueViolation, repository.ConstraintCategoryCode, nil)
	}

	r.s.nextCategoryID++
	category.ID = r.s.nextCategoryID
	r.s.categories[category.ID] = category

	return category, nil
}

func (r categoryRepo) UpdateCategory(_ context.Context, category model.Category) (model.Category, error) {
	if err := r.s.lock(); err != nil {
		return model.Category{}, err
	}
	defer r.s.mu.Unlock()

	existing, ok := r.s.categories[category.ID]
	if !ok {
		return model.Category{}, repository.ErrNotFound
	}
	if r.codeTaken(category.Code, category.ID) {
		return model.Category{}, repository.NewConstraintError(repository.ErrUniqueViolation, repository.ConstraintCategoryCode, nil)
	}

	category.CreatedAt = existing.CreatedAt
	r.s.categories[category.ID] = category

	return category, nil
}

func (r categoryRepo) DeleteCategory(_ context.Context, id int64) (bool, error) {
	if err := r.s.lock(); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return false, nil
	}
	for _, item := range r.s.items {
		if item.CategoryID == id {
			return false, repository.NewConstraintError(repository.ErrForeignKeyViolation, repository.ConstraintItemCategory, nil)
		}
	}

	delete(r.s.categories, id)
	return true, nil
}

func (r categoryRepo) CountCategories(context.Context) (int64, error) {
	if err := r.s.lock(); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()

	return int64(len(r.s.categories)), nil
}

func (r categoryRepo) CategoryExists(_ context.Context, id int64) (bool, error) {
	if err := r.s.lock(); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()

	_, ok := r.s.categories[id]
	return ok, nil
}

func (r categoryRepo) CategoryCodeExists(_ context.Context, code string, excludeID *int64) (bool, error) {
	if err := r.s.lock(); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()

	var exclude int64
	if excludeID != nil {
		exclude = *excludeID
	}
	return r.codeTaken(code, exclude), nil
}

type itemRepo struct{ s *Store }

func (r itemRepo) WithDB(db.DB) repository.ItemRepository { return r }

func (r itemRepo) ListItems(_ context.Context, params repository.ListItemsParams) ([]model.Item, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	all := sortedItems(r.s.items, func(i model.Item) bool {
		return params.CategoryID == nil || i.CategoryID == *params.CategoryID
	})
	return r.resolveAll(page(all, params.Offset, params.Limit)), nil
}

func (r itemRepo) resolveAll(items []model.Item) []model.Item {
	res := make([]model.Item, 0, len(items))
	for _, item := range items {
		res = append(res, r.s.resolve(item))
	}
	return res
}

func (r itemRepo) GetItem(_ context.Context, id int64) (model.Item, error) {
	if err := r.s.lock(); err != nil {
		return model.Item{}, err
	}
	defer r.s.mu.Unlock()

	item, ok := r.s.items[id]
	if !ok {
		return model.Item{}, repository.ErrNotFound
	}
	return r.s.resolve(item), nil
}

func (r itemRepo) LockItem(ctx context.Context, id int64) (model.Item, error) {
	return r.GetItem(ctx, id)
}

func (r itemRepo) GetItemBySku(_ context.Context, sku string) (model.Item, error) {
	if err := r.s.lock(); err != nil {
		return model.Item{}, err
	}
	defer r.s.mu.Unlock()

	for _, item := range r.s.items {
		if item.Sku == sku {
			return r.s.resolve(item), nil
		}
	}
	return model.Item{}, repository.ErrNotFound
}

func (r itemRepo) SearchItemsByName(_ context.Context, keyword string) ([]model.Item, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	keyword = strings.ToLower(keyword)
	return r.resolveAll(sortedItems(r.s.items, func(i model.Item) bool {
		return strings.Contains(strings.ToLower(i.Name), keyword)
	})), nil
}

func (r itemRepo) ListItemsByCategory(_ context.Context, categoryID int64) ([]model.Item, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	return r.resolveAll(sortedItems(r.s.items, func(i model.Item) bool {
		return i.CategoryID == categoryID
	})), nil
}

func (r itemRepo) checkConstraints(item model.Item) error {
	for _, other := range r.s.items {
		if other.Sku == item.Sku && other.ID != item.ID {
			return repository.NewConstraintError(repository.ErrUniqueViolation, repository.ConstraintItemSku, nil)
		}
	}
	if _, ok := r.s.categories[item.CategoryID]; !ok {
		return repository.NewConstraintError(repository.ErrForeignKeyViolation, repository.ConstraintItemCategory, nil)
	}
	if !item.Price.IsPositive() {
		return repository.NewConstraintError(repository.ErrCheckViolation, repository.ConstraintItemPrice, nil)
	}
	if item.Stock < 0 {
		return repository.NewConstraintError(repository.ErrCheckViolation, repository.ConstraintItemStock, nil)
	}
	return nil
}

func (r itemRepo) CreateItem(_ context.Context, item model.Item) (model.Item, error) {
	if err := r.s.lock(); err != nil {
		return model.Item{}, err
	}
	defer r.s.mu.Unlock()

	item.ID = 0
	if err := r.checkConstraints(item); err != nil {
		return model.Item{}, err
	}

	r.s.nextItemID++
	item.ID = r.s.nextItemID
	r.s.items[item.ID] = item

	return r.s.resolve(item), nil
}

func (r itemRepo) UpdateItem(_ context.Context, item model.Item) (model.Item, error) {
	if err := r.s.lock(); err != nil {
		return model.Item{}, err
	}
	defer r.s.mu.Unlock()

	existing, ok := r.s.items[item.ID]
	if !ok {
		return model.Item{}, repository.ErrNotFound
	}
	if err := r.checkConstraints(item); err != nil {
		return model.Item{}, err
	}

	item.CreatedAt = existing.CreatedAt
	r.s.items[item.ID] = item

	return r.s.resolve(item), nil
}

func (r itemRepo) UpdateItemStock(_ context.Context, params repository.UpdateItemStockParams) (model.Item, error) {
	if err := r.s.lock(); err != nil {
		return model.Item{}, err
	}
	defer r.s.mu.Unlock()

	item, ok := r.s.items[params.ID]
	if !ok {
		return model.Item{}, repository.ErrNotFound
	}
	if params.Stock < 0 {
		return model.Item{}, repository.NewConstraintError(repository.ErrCheckViolation, repository.ConstraintItemStock, nil)
	}

	item.Stock = params.Stock
	item.UpdatedAt = params.UpdatedAt
	r.s.items[item.ID] = item

	return r.s.resolve(item), nil
}

func (r itemRepo) DeleteItem(_ context.Context, id int64) (bool, error) {
	if err := r.s.lock(); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[id]; !ok {
		return false, nil
	}
	delete(r.s.items, id)
	return true, nil
}

func (r itemRepo) CountItems(context.Context) (int64, error) {
	if err := r.s.lock(); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()

	return int64(len(r.s.items)), nil
}

func (r itemRepo) CountItemsByCategory(_ context.Context, categoryID int64) (int64, error) {
	if err := r.s.lock(); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()

	var count int64
	for _, item := range r.s.items {
		if item.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r itemRepo) ItemExists(_ context.Context, id int64) (bool, error) {
	if err := r.s.lock(); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()

	_, ok := r.s.items[id]
	return ok, nil
}

func (r itemRepo) ItemSkuExists(_ context.Context, sku string, excludeID *int64) (bool, error) {
	if err := r.s.lock(); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()

	for _, item := range r.s.items {
		if item.Sku == sku && (excludeID == nil || item.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

type outboxRepo struct{ s *Store }

func (r outboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r outboxRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	r.s.outbox = append(r.s.outbox, outboxEntry{msg: repository.OutboxMsg{
		ID:           id,
		Topic:        params.Topic,
		Headers:      params.Headers,
		Payload:      append(json.RawMessage(nil), params.Payload...),
		PartitionKey: params.PartitionKey,
	}})
	return nil
}

func (r outboxRepo) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.OutboxMsg, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	msgs := []repository.OutboxMsg{}
	for _, e := range r.s.outbox {
		if len(msgs) >= int(params.BatchSize) {
			break
		}
		if !e.processed {
			msgs = append(msgs, e.msg)
		}
	}
	return msgs, nil
}

func (r outboxRepo) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	for _, item := range params.Items {
		for i := range r.s.outbox {
			if r.s.outbox[i].msg.ID == item.ID {
				r.s.outbox[i].processed = true
				r.s.outbox[i].err = item.Error
			}
		}
	}
	return nil
}
