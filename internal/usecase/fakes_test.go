package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"storedash/internal/domain/model"
	"storedash/internal/domain/payment"
	repo "storedash/internal/repository"
)

// =====================
// in-memory repository（Txはエラー時に状態を巻き戻す）
// =====================

type memState struct {
	orders   map[string]model.Order
	items    map[string][]model.OrderItem
	products map[string]model.Product
	users    map[string]model.User
	stores   map[string]model.Store
	forms    map[string]model.ShipmentForm
	audits   []model.AuditLog
}

func (s memState) clone() memState {
	c := memState{
		orders:   make(map[string]model.Order, len(s.orders)),
		items:    make(map[string][]model.OrderItem, len(s.items)),
		products: make(map[string]model.Product, len(s.products)),
		users:    make(map[string]model.User, len(s.users)),
		stores:   make(map[string]model.Store, len(s.stores)),
		forms:    make(map[string]model.ShipmentForm, len(s.forms)),
		audits:   append([]model.AuditLog(nil), s.audits...),
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]model.OrderItem(nil), v...)
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.stores {
		c.stores[k] = v
	}
	for k, v := range s.forms {
		c.forms[k] = v
	}
	return c
}

type memDB struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   memState

	// 障害注入
	failArchive bool
	failSettle  bool
}

func newMemDB() *memDB {
	return &memDB{st: memState{}.clone()}
}

func (db *memDB) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	db.mu.Lock()
	snapshot := db.st.clone()
	db.mu.Unlock()

	if err := fn(db); err != nil {
		db.mu.Lock()
		db.st = snapshot
		db.mu.Unlock()
		return err
	}
	return nil
}

func (db *memDB) Orders() repo.OrderRepository               { return memOrders{db} }
func (db *memDB) OrderItems() repo.OrderItemRepository       { return memOrderItems{db} }
func (db *memDB) Products() repo.ProductRepository           { return memProducts{db} }
func (db *memDB) Users() repo.UserRepository                 { return memUsers{db} }
func (db *memDB) Stores() repo.StoreRepository               { return memStores{db} }
func (db *memDB) ShipmentForms() repo.ShipmentFormRepository { return memForms{db} }
func (db *memDB) AuditLogs() repo.AuditLogRepository         { return memAudits{db} }

// seed / assert helpers
func (db *memDB) addStore(s model.Store) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.st.stores[s.ID] = s
}

func (db *memDB) addProduct(p model.Product) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.st.products[p.ID] = p
}

func (db *memDB) addUser(u model.User) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.st.users[u.ID] = u
}

func (db *memDB) addForm(f model.ShipmentForm) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.st.forms[f.ID] = f
}

func (db *memDB) addOrder(o model.Order, items ...model.OrderItem) {
	db.mu.Lock()
	defer db.mu.Unlock()
	o.OrderItems = nil
	db.st.orders[o.ID] = o
	for _, it := range items {
		it.OrderID = o.ID
		db.st.items[o.ID] = append(db.st.items[o.ID], it)
	}
}

func (db *memDB) order(id string) (model.Order, bool) {
	o, err := memOrders{db}.FindByID(context.Background(), id)
	return o, err == nil
}

func (db *memDB) product(id string) model.Product {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.st.products[id]
}

func (db *memDB) user(id string) (model.User, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.st.users[id]
	return u, ok
}

func (db *memDB) orderCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.st.orders)
}

func (db *memDB) itemCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, v := range db.st.items {
		n += len(v)
	}
	return n
}

func (db *memDB) formsForOrder(orderID string) []model.ShipmentForm {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []model.ShipmentForm
	for _, f := range db.st.forms {
		if f.OrderID != nil && *f.OrderID == orderID {
			out = append(out, f)
		}
	}
	return out
}

func (db *memDB) auditLogs() []model.AuditLog {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]model.AuditLog(nil), db.st.audits...)
}

type memOrders struct{ db *memDB }

func (r memOrders) Create(ctx context.Context, o model.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.st.orders[o.ID]; ok {
		return repo.ErrConflict
	}
	o.OrderItems = nil
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	r.db.st.orders[o.ID] = o
	return nil
}

func (r memOrders) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.st.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return r.db.hydrate(o), nil
}

func (r memOrders) FindByIDForUpdate(ctx context.Context, orderID string) (model.Order, error) {
	return r.FindByID(ctx, orderID)
}

func (r memOrders) ListByStore(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []model.Order{}
	for _, o := range r.db.st.orders {
		if o.StoreID != f.StoreID {
			continue
		}
		if f.UserID != nil && (o.UserID == nil || *o.UserID != *f.UserID) {
			continue
		}
		out = append(out, r.db.hydrate(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memOrders) Settle(ctx context.Context, orderID string, s repo.OrderSettlement) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failSettle {
		return errors.New("settle failed")
	}
	o, ok := r.db.st.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.IsPaid = true
	o.Address = s.Address
	o.Phone = s.Phone
	o.UserName = s.UserName
	o.UserEmail = s.UserEmail
	r.db.st.orders[orderID] = o
	return nil
}

func (r memOrders) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.st.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	r.db.st.orders[orderID] = o
	return nil
}

// 呼び出し側でmuを持っていること
func (db *memDB) hydrate(o model.Order) model.Order {
	o.OrderItems = append([]model.OrderItem(nil), db.st.items[o.ID]...)
	if o.UserID != nil {
		if u, ok := db.st.users[*o.UserID]; ok {
			o.User = &u
		}
	}
	for _, f := range db.st.forms {
		if f.OrderID != nil && *f.OrderID == o.ID {
			f := f
			o.ShipmentForm = &f
		}
	}
	return o
}

type memOrderItems struct{ db *memDB }

func (r memOrderItems) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, it := range items {
		it.OrderID = orderID
		it.Position = i
		r.db.st.items[orderID] = append(r.db.st.items[orderID], it)
	}
	return nil
}

func (r memOrderItems) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]model.OrderItem(nil), r.db.st.items[orderID]...), nil
}

type memProducts struct{ db *memDB }

func (r memProducts) FindByIDs(ctx context.Context, storeID string, ids []string) ([]model.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []model.Product{}
	for _, id := range ids {
		if p, ok := r.db.st.products[id]; ok && p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProducts) ArchiveByIDs(ctx context.Context, ids []string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failArchive {
		return errors.New("archive failed")
	}
	for _, id := range ids {
		if p, ok := r.db.st.products[id]; ok {
			p.IsArchived = true
			r.db.st.products[id] = p
		}
	}
	return nil
}

type memUsers struct{ db *memDB }

func (r memUsers) FindByID(ctx context.Context, userID string) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.st.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memUsers) FindOrCreate(ctx context.Context, user model.User) (model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.st.users[user.ID]; ok {
		return u, nil
	}
	r.db.st.users[user.ID] = user
	return user, nil
}

type memStores struct{ db *memDB }

func (r memStores) FindByID(ctx context.Context, storeID string) (model.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.st.stores[storeID]
	if !ok {
		return model.Store{}, repo.ErrNotFound
	}
	return s, nil
}

func (r memStores) FindByIDAndOwner(ctx context.Context, storeID string, ownerUserID string) (model.Store, error) {
	s, err := r.FindByID(ctx, storeID)
	if err != nil {
		return model.Store{}, err
	}
	if s.UserID != ownerUserID {
		return model.Store{}, repo.ErrNotFound
	}
	return s, nil
}

type memForms struct{ db *memDB }

func (r memForms) Create(ctx context.Context, form model.ShipmentForm) (model.ShipmentForm, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if form.OrderID != nil {
		for _, f := range r.db.st.forms {
			if f.OrderID != nil && *f.OrderID == *form.OrderID {
				return model.ShipmentForm{}, repo.ErrConflict
			}
		}
	}
	r.db.st.forms[form.ID] = form
	return form, nil
}

func (r memForms) CreateIfAbsentForOrder(ctx context.Context, form model.ShipmentForm) (bool, error) {
	_, err := r.Create(ctx, form)
	if errors.Is(err, repo.ErrConflict) {
		return false, nil
	}
	return err == nil, err
}

func (r memForms) FindByOrderID(ctx context.Context, orderID string) (model.ShipmentForm, error) {
	forms := r.db.formsForOrder(orderID)
	if len(forms) == 0 {
		return model.ShipmentForm{}, repo.ErrNotFound
	}
	return forms[0], nil
}

type memAudits struct{ db *memDB }

func (r memAudits) Create(ctx context.Context, log model.AuditLog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.st.audits = append(r.db.st.audits, log)
	return nil
}

// =====================
// webhook ledger
// =====================

type memEvents struct {
	mu   sync.Mutex
	rows map[string]model.WebhookEvent
}

func newMemEvents() *memEvents {
	return &memEvents{rows: map[string]model.WebhookEvent{}}
}

func (r *memEvents) key(provider, id string) string { return provider + "/" + id }

func (r *memEvents) Record(ctx context.Context, ev model.WebhookEvent) (model.WebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := r.key(ev.Provider, ev.ProviderEventID)
	if existing, ok := r.rows[k]; ok {
		return existing, nil
	}
	r.rows[k] = ev
	return ev, nil
}

func (r *memEvents) MarkProcessed(ctx context.Context, provider, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := r.key(provider, id)
	row, ok := r.rows[k]
	if !ok {
		return repo.ErrNotFound
	}
	row.ProcessedAt = &at
	row.ProcessingError = ""
	r.rows[k] = row
	return nil
}

func (r *memEvents) MarkFailed(ctx context.Context, provider, id, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := r.key(provider, id)
	row, ok := r.rows[k]
	if !ok {
		return repo.ErrNotFound
	}
	row.ProcessingError = reason
	r.rows[k] = row
	return nil
}

func (r *memEvents) get(provider, id string) (model.WebhookEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[r.key(provider, id)]
	return row, ok
}

func (r *memEvents) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// =====================
// ports
// =====================

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

const testSignature = "t=1,v1=valid"

// 署名が testSignature のときだけ登録済みイベントを返す
type fakeGateway struct {
	mu       sync.Mutex
	events   map[string]payment.WebhookEvent
	sessions []payment.CheckoutSessionInput
	failNext error
	parseErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{events: map[string]payment.WebhookEvent{}}
}

func (g *fakeGateway) Provider() string { return "stripe" }

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, in payment.CheckoutSessionInput) (payment.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failNext != nil {
		err := g.failNext
		g.failNext = nil
		return payment.CheckoutSession{}, err
	}
	g.sessions = append(g.sessions, in)
	id := fmt.Sprintf("cs_test_%d", len(g.sessions))
	return payment.CheckoutSession{ID: id, URL: "https://checkout.example/" + id}, nil
}

func (g *fakeGateway) ParseWebhook(payload []byte, signature string) (payment.WebhookEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if signature != testSignature {
		return payment.WebhookEvent{}, fmt.Errorf("verify: %w", payment.ErrInvalidSignature)
	}
	if g.parseErr != nil {
		return payment.WebhookEvent{}, g.parseErr
	}
	ev, ok := g.events[string(payload)]
	if !ok {
		return payment.WebhookEvent{}, fmt.Errorf("unknown payload: %w", payment.ErrInvalidSignature)
	}
	return ev, nil
}

// payloadとしてイベントIDをそのまま使う
func (g *fakeGateway) register(ev payment.WebhookEvent) []byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	payload := []byte(ev.ID)
	ev.Payload = payload
	g.events[ev.ID] = ev
	return payload
}

func (g *fakeGateway) lastSession() payment.CheckoutSessionInput {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessions[len(g.sessions)-1]
}

type memDeduper struct {
	mu   sync.Mutex
	done map[string]bool
	err  error
}

func newMemDeduper() *memDeduper {
	return &memDeduper{done: map[string]bool{}}
}

func (d *memDeduper) Seen(ctx context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	return d.done[eventID], nil
}

func (d *memDeduper) MarkDone(ctx context.Context, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.done[eventID] = true
	return nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	paid    []model.OrderPaidEvent
	changed []model.OrderStatusChangedEvent
	err     error
}

func (p *recordingPublisher) PublishOrderPaid(ctx context.Context, ev model.OrderPaidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paid = append(p.paid, ev)
	return p.err
}

func (p *recordingPublisher) PublishOrderStatusChanged(ctx context.Context, ev model.OrderStatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, ev)
	return p.err
}

func strPtr(s string) *string { return &s }
