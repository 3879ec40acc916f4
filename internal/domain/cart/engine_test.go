package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-cart/internal/events"
)

type memoryHandleStore struct {
	m       sync.Mutex
	handles map[string]string
}

func newMemoryHandleStore() *memoryHandleStore {
	return &memoryHandleStore{handles: make(map[string]string)}
}

func (s *memoryHandleStore) Get(_ context.Context, sessionID string) (string, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.handles[sessionID], nil
}

func (s *memoryHandleStore) Set(_ context.Context, sessionID, handle string) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.handles[sessionID] = handle
	return nil
}

func (s *memoryHandleStore) Clear(_ context.Context, sessionID string) error {
	s.m.Lock()
	defer s.m.Unlock()
	delete(s.handles, sessionID)
	return nil
}

// fakeGateway simulates the remote cart service in memory
type fakeGateway struct {
	m          sync.Mutex
	nextCartID int
	nextLineID int
	carts      map[string][]Line

	// Failure injection
	addLineErrs  []error // consumed in order, nil entries succeed
	createErr    error
	fetchErr     error
	rejectUpdate error
	rejectRemove error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{carts: make(map[string][]Line)}
}

func invalidHandleErr(op string) error {
	return &DomainRejection{Op: op, Messages: []string{"cart id invalid"}, InvalidHandle: true}
}

func (g *fakeGateway) CreateCart(context.Context) (string, string, error) {
	g.m.Lock()
	defer g.m.Unlock()
	if g.createErr != nil {
		return "", "", g.createErr
	}
	g.nextCartID++
	id := fmt.Sprintf("gid://cart/%d", g.nextCartID)
	g.carts[id] = []Line{}
	return id, "https://shop.example/checkout/" + id, nil
}

func (g *fakeGateway) FetchCart(_ context.Context, id string) (*RemoteCart, error) {
	g.m.Lock()
	defer g.m.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	lines, ok := g.carts[id]
	if !ok {
		return nil, nil
	}
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return &RemoteCart{
		ID:            id,
		CheckoutURL:   "https://shop.example/checkout/" + id,
		TotalQuantity: total,
		Lines:         append([]Line(nil), lines...),
	}, nil
}

func (g *fakeGateway) AddLine(_ context.Context, id, merchandiseID string, quantity int) error {
	g.m.Lock()
	defer g.m.Unlock()
	if len(g.addLineErrs) > 0 {
		err := g.addLineErrs[0]
		g.addLineErrs = g.addLineErrs[1:]
		if err != nil {
			return err
		}
	}
	lines, ok := g.carts[id]
	if !ok {
		return invalidHandleErr("add_line")
	}
	g.nextLineID++
	g.carts[id] = append(lines, Line{
		ID:            fmt.Sprintf("line-%d", g.nextLineID),
		MerchandiseID: merchandiseID,
		UnitPrice:     100,
		Quantity:      quantity,
	})
	return nil
}

func (g *fakeGateway) UpdateLineQuantity(_ context.Context, id, lineID string, quantity int) error {
	g.m.Lock()
	defer g.m.Unlock()
	if g.rejectUpdate != nil {
		return g.rejectUpdate
	}
	lines, ok := g.carts[id]
	if !ok {
		return invalidHandleErr("update_line")
	}
	for i := range lines {
		if lines[i].ID == lineID {
			lines[i].Quantity = quantity
			return nil
		}
	}
	// Unknown lines are a remote no-op
	return nil
}

func (g *fakeGateway) RemoveLine(_ context.Context, id, lineID string) error {
	g.m.Lock()
	defer g.m.Unlock()
	if g.rejectRemove != nil {
		return g.rejectRemove
	}
	lines, ok := g.carts[id]
	if !ok {
		return invalidHandleErr("remove_line")
	}
	for i, l := range lines {
		if l.ID == lineID {
			g.carts[id] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func newTestEngine(gateway *fakeGateway) (*Engine, *memoryHandleStore, *events.Bus) {
	store := newMemoryHandleStore()
	bus := events.NewBus()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewEngine(gateway, store, bus, logger), store, bus
}

const session = "session-1"

func addInput(merchandiseID string, quantity int) AddLineInput {
	return AddLineInput{MerchandiseID: merchandiseID, Quantity: quantity}
}

func TestEngine_FreshAddCreatesCart(t *testing.T) {
	gateway := newFakeGateway()
	engine, store, _ := newTestEngine(gateway)

	err := engine.AddLine(context.Background(), session, addInput("gid://variant/1", 1))
	require.NoError(t, err)

	handle, _ := store.Get(context.Background(), session)
	assert.NotEmpty(t, handle, "handle persisted after first add")

	snapshot, err := engine.Snapshot(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.TotalQuantity)
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, 1, snapshot.Lines[0].Quantity)
	assert.Equal(t, "gid://variant/1", snapshot.Lines[0].MerchandiseID)
}

func TestEngine_SnapshotWithoutHandleIsEmptyAndOffline(t *testing.T) {
	gateway := newFakeGateway()
	gateway.fetchErr = &TransportError{Op: "fetch_cart", Err: errors.New("unreachable")}
	engine, _, _ := newTestEngine(gateway)

	// No handle: must not touch the (broken) gateway at all.
	snapshot, err := engine.Snapshot(context.Background(), session)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Lines)
	assert.Equal(t, 0, snapshot.TotalQuantity)
}

func TestEngine_ExpiredHandleRecovery(t *testing.T) {
	gateway := newFakeGateway()
	engine, store, _ := newTestEngine(gateway)
	ctx := context.Background()

	// Session holds a handle the remote no longer knows.
	require.NoError(t, store.Set(ctx, session, "gid://cart/expired"))

	snapshot, err := engine.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Lines)

	handle, _ := store.Get(ctx, session)
	assert.Empty(t, handle, "stale handle cleared")

	// A subsequent add transparently creates a new cart.
	require.NoError(t, engine.AddLine(ctx, session, addInput("gid://variant/2", 3)))

	snapshot, err = engine.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot.TotalQuantity)
}

func TestEngine_DomainRejectionRetriesOnce(t *testing.T) {
	gateway := newFakeGateway()
	engine, store, _ := newTestEngine(gateway)
	ctx := context.Background()

	// First add is rejected at the domain level, retry must succeed
	// against a freshly created cart with no error surfaced.
	require.NoError(t, store.Set(ctx, session, "gid://cart/stale"))
	gateway.carts["gid://cart/stale"] = []Line{}
	gateway.addLineErrs = []error{invalidHandleErr("add_line")}

	err := engine.AddLine(ctx, session, addInput("gid://variant/1", 1))
	require.NoError(t, err)

	handle, _ := store.Get(ctx, session)
	assert.NotEqual(t, "gid://cart/stale", handle)

	snapshot, err := engine.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.TotalQuantity)
}

func TestEngine_PersistentDoubleFailure(t *testing.T) {
	gateway := newFakeGateway()
	engine, store, _ := newTestEngine(gateway)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, session, "gid://cart/stale"))
	gateway.carts["gid://cart/stale"] = []Line{}
	gateway.addLineErrs = []error{
		invalidHandleErr("add_line"),
		invalidHandleErr("add_line"),
	}

	err := engine.AddLine(ctx, session, addInput("gid://variant/1", 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCartOperationFailed)

	handle, _ := store.Get(ctx, session)
	assert.Empty(t, handle, "handle rolled back to no cart")
}

func TestEngine_TransportFailureNotRetried(t *testing.T) {
	gateway := newFakeGateway()
	engine, store, _ := newTestEngine(gateway)
	ctx := context.Background()

	require.NoError(t, engine.AddLine(ctx, session, addInput("gid://variant/1", 1)))
	handle, _ := store.Get(ctx, session)

	gateway.addLineErrs = []error{&TransportError{Op: "add_line", Err: errors.New("connection refused")}}

	err := engine.AddLine(ctx, session, addInput("gid://variant/2", 1))
	require.Error(t, err)
	assert.True(t, IsTransport(err))

	// Handle untouched: the cart is still valid, only the network failed.
	after, _ := store.Get(ctx, session)
	assert.Equal(t, handle, after)
}

func TestEngine_UpdateQuantityZeroEqualsRemove(t *testing.T) {
	gateway := newFakeGateway()
	engine, _, _ := newTestEngine(gateway)
	ctx := context.Background()

	require.NoError(t, engine.AddLine(ctx, session, addInput("gid://variant/1", 2)))
	snapshot, err := engine.Snapshot(ctx, session)
	require.NoError(t, err)
	require.Len(t, snapshot.Lines, 1)
	lineID := snapshot.Lines[0].ID

	require.NoError(t, engine.UpdateLineQuantity(ctx, session, lineID, 0))

	snapshot, err = engine.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Lines)
	assert.Equal(t, 0, snapshot.TotalQuantity)
}

func TestEngine_UpdateQuantityChangesLine(t *testing.T) {
	gateway := newFakeGateway()
	engine, _, _ := newTestEngine(gateway)
	ctx := context.Background()

	require.NoError(t, engine.AddLine(ctx, session, addInput("gid://variant/1", 1)))
	snapshot, _ := engine.Snapshot(ctx, session)
	lineID := snapshot.Lines[0].ID

	require.NoError(t, engine.UpdateLineQuantity(ctx, session, lineID, 5))

	snapshot, err := engine.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 5, snapshot.TotalQuantity)
}

func TestEngine_RemoveUnknownLineIsNoOp(t *testing.T) {
	gateway := newFakeGateway()
	engine, _, _ := newTestEngine(gateway)
	ctx := context.Background()

	require.NoError(t, engine.AddLine(ctx, session, addInput("gid://variant/1", 1)))

	err := engine.RemoveLine(ctx, session, "line-does-not-exist")
	assert.NoError(t, err)

	snapshot, err := engine.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.TotalQuantity)
}

func TestEngine_RemoveWithoutCartIsNoOp(t *testing.T) {
	gateway := newFakeGateway()
	engine, _, _ := newTestEngine(gateway)

	err := engine.RemoveLine(context.Background(), session, "line-1")
	assert.NoError(t, err)
}

func TestEngine_UpdateAgainstGoneCartEmptiesIt(t *testing.T) {
	gateway := newFakeGateway()
	engine, store, _ := newTestEngine(gateway)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, session, "gid://cart/gone"))
	// fakeGateway rejects any op on an unknown cart id with an
	// invalid-handle rejection.

	err := engine.UpdateLineQuantity(ctx, session, "line-1", 2)
	require.NoError(t, err)

	handle, _ := store.Get(ctx, session)
	assert.Empty(t, handle)
}

func TestEngine_FreshCartReadsEmpty(t *testing.T) {
	gateway := newFakeGateway()
	engine, store, _ := newTestEngine(gateway)
	ctx := context.Background()

	id, _, err := gateway.CreateCart(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, session, id))

	snapshot, err := engine.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Lines)
	assert.Equal(t, 0, snapshot.TotalQuantity)
	assert.Equal(t, int64(0), snapshot.Totals.TotalFinal)
}

func TestEngine_OtherDomainRejectionsSurface(t *testing.T) {
	gateway := newFakeGateway()
	engine, store, _ := newTestEngine(gateway)
	ctx := context.Background()

	require.NoError(t, engine.AddLine(ctx, session, addInput("gid://variant/1", 2)))
	snapshot, _ := engine.Snapshot(ctx, session)
	lineID := snapshot.Lines[0].ID

	// A rejection that does not blame the handle must not trigger the
	// recreate cycle; it surfaces to the caller as-is.
	gateway.rejectUpdate = &DomainRejection{Op: "update_line", Messages: []string{"quantity too large"}}

	err := engine.UpdateLineQuantity(ctx, session, lineID, 999)
	require.Error(t, err)
	assert.True(t, IsDomainRejection(err))

	handle, _ := store.Get(ctx, session)
	assert.NotEmpty(t, handle, "handle kept, the cart itself is fine")
}

func TestEngine_CreateFailureSurfaces(t *testing.T) {
	gateway := newFakeGateway()
	gateway.createErr = &TransportError{Op: "create_cart", Err: errors.New("unreachable")}
	engine, store, _ := newTestEngine(gateway)
	ctx := context.Background()

	err := engine.AddLine(ctx, session, addInput("gid://variant/1", 1))
	require.Error(t, err)
	assert.True(t, IsTransport(err))

	handle, _ := store.Get(ctx, session)
	assert.Empty(t, handle, "nothing persisted when creation fails")
}

func TestEngine_AddLineValidation(t *testing.T) {
	gateway := newFakeGateway()
	engine, _, _ := newTestEngine(gateway)
	ctx := context.Background()

	var ve *ValidationError

	err := engine.AddLine(ctx, session, addInput("", 1))
	require.Error(t, err)
	assert.ErrorAs(t, err, &ve)

	err = engine.AddLine(ctx, session, addInput("gid://variant/1", 0))
	require.Error(t, err)
	assert.ErrorAs(t, err, &ve)

	// Validation failures never create a remote cart
	assert.Equal(t, 0, gateway.nextCartID)
}

func TestEngine_CheckoutClearsHandle(t *testing.T) {
	gateway := newFakeGateway()
	engine, store, _ := newTestEngine(gateway)
	ctx := context.Background()

	require.NoError(t, engine.AddLine(ctx, session, addInput("gid://variant/1", 1)))

	url, err := engine.Checkout(ctx, session)
	require.NoError(t, err)
	assert.Contains(t, url, "https://shop.example/checkout/")

	handle, _ := store.Get(ctx, session)
	assert.Empty(t, handle, "handle cleared before navigation")

	snapshot, err := engine.Snapshot(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Lines)
}

func TestEngine_CheckoutOnEmptyCart(t *testing.T) {
	gateway := newFakeGateway()
	engine, _, _ := newTestEngine(gateway)

	_, err := engine.Checkout(context.Background(), session)
	assert.ErrorIs(t, err, ErrNothingToCheckout)
}

func TestEngine_MutationsPublishEvents(t *testing.T) {
	gateway := newFakeGateway()
	engine, _, bus := newTestEngine(gateway)
	ctx := context.Background()

	changed := 0
	drawer := 0
	bus.Subscribe(events.CartChanged, func(events.Kind) { changed++ })
	bus.Subscribe(events.RequestOpenDrawer, func(events.Kind) { drawer++ })

	require.NoError(t, engine.AddLine(ctx, session, addInput("gid://variant/1", 1)))
	assert.Equal(t, 1, changed)
	assert.Equal(t, 1, drawer, "successful add asks the shell to open the drawer")

	snapshot, _ := engine.Snapshot(ctx, session)
	lineID := snapshot.Lines[0].ID

	require.NoError(t, engine.UpdateLineQuantity(ctx, session, lineID, 2))
	require.NoError(t, engine.RemoveLine(ctx, session, lineID))
	assert.Equal(t, 3, changed)
	assert.Equal(t, 1, drawer)
}

func TestEngine_SnapshotTotalsMatchPricing(t *testing.T) {
	gateway := newFakeGateway()
	engine, _, _ := newTestEngine(gateway)
	ctx := context.Background()

	require.NoError(t, engine.AddLine(ctx, session, addInput("gid://variant/1", 2)))
	require.NoError(t, engine.AddLine(ctx, session, addInput("gid://variant/2", 1)))

	snapshot, err := engine.Snapshot(ctx, session)
	require.NoError(t, err)

	sum := 0
	var total int64
	for _, l := range snapshot.Lines {
		sum += l.Quantity
		total += l.UnitPrice * int64(l.Quantity)
	}
	assert.Equal(t, sum, snapshot.TotalQuantity)
	assert.Equal(t, total, snapshot.Totals.TotalFinal)
}
