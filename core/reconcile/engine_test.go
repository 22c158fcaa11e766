package reconcile

import (
	"context"
	"errors"
	"testing"

	"registry-sync/core/normalize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLicense struct {
	entityID   uint
	update     normalize.EntityUpdate
	reissues   []normalize.Reissue
	operations []normalize.Operation
}

type memState struct {
	nextID   uint
	entities map[string]Entity
	licenses map[uint]*memLicense
}

func (s *memState) clone() *memState {
	out := &memState{
		nextID:   s.nextID,
		entities: make(map[string]Entity, len(s.entities)),
		licenses: make(map[uint]*memLicense, len(s.licenses)),
	}
	for k, v := range s.entities {
		out.entities[k] = v
	}
	for k, v := range s.licenses {
		cp := *v
		out.licenses[k] = &cp
	}
	return out
}

// memStore applies a transaction to a copy of its state and swaps it in on commit.
type memStore struct {
	state *memState
	// failUpsertAt makes the n-th UpsertLicense call (1-based) fail.
	failUpsertAt int
	upserts      int
}

func newMemStore() *memStore {
	return &memStore{state: &memState{nextID: 1, entities: map[string]Entity{}, licenses: map[uint]*memLicense{}}}
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(Tx) error) error {
	work := m.state.clone()
	if err := fn(&memTx{store: m, state: work}); err != nil {
		return err
	}
	m.state = work
	return nil
}

type memTx struct {
	store *memStore
	state *memState
}

func (t *memTx) FindEntity(_ context.Context, identifier string) (*Entity, error) {
	e, ok := t.state.entities[identifier]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (t *memTx) SaveEntity(_ context.Context, e *Entity) error {
	e.ID = t.state.nextID
	t.state.nextID++
	t.state.entities[e.Identifier] = *e
	return nil
}

func (t *memTx) UpsertLicense(_ context.Context, entityID uint, u normalize.EntityUpdate) (uint, error) {
	t.store.upserts++
	if t.store.failUpsertAt > 0 && t.store.upserts == t.store.failUpsertAt {
		return 0, errors.New("disk full")
	}
	for id, l := range t.state.licenses {
		if l.entityID == entityID && l.update.CurrentLicenseNumber == u.CurrentLicenseNumber {
			l.update = u
			return id, nil
		}
	}
	id := t.state.nextID
	t.state.nextID++
	t.state.licenses[id] = &memLicense{entityID: entityID, update: u}
	return id, nil
}

func (t *memTx) SetReissues(_ context.Context, licenseID uint, r []normalize.Reissue) error {
	t.state.licenses[licenseID].reissues = append([]normalize.Reissue(nil), r...)
	return nil
}

func (t *memTx) SetOperations(_ context.Context, licenseID uint, _ string, ops []normalize.Operation) error {
	t.state.licenses[licenseID].operations = append([]normalize.Operation(nil), ops...)
	return nil
}

func update(identifier, name, license string) normalize.EntityUpdate {
	return normalize.EntityUpdate{
		Identifier:           identifier,
		DisplayName:          name,
		CurrentLicenseNumber: license,
		Reissues:             []normalize.Reissue{},
		Operations:           []normalize.Operation{},
	}
}

func knownResolver(known ...string) Resolver {
	set := map[string]bool{}
	for _, k := range known {
		set[k] = true
	}
	return ResolverFunc(func(_ context.Context, id string) (Entity, error) {
		if set[id] {
			return Entity{Identifier: id, FullName: "Resolved " + id}, nil
		}
		return Entity{}, ErrNotFound
	})
}

func TestApply_EndToEndScenario(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, knownResolver("123456789012"), nil)

	u := update("123456789012", "Acme", "L-7")
	u.Reissues = []normalize.Reissue{{Basis: "b1"}}
	u.IsReissued = true

	report, err := engine.Apply(context.Background(), []normalize.EntityUpdate{u}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Accepted)
	assert.Equal(t, 0, report.Summary.Skipped)
	assert.Equal(t, 1, report.Summary.Resolved)

	require.Len(t, store.state.entities, 1)
	require.Len(t, store.state.licenses, 1)
	for _, l := range store.state.licenses {
		assert.Equal(t, "L-7", l.update.CurrentLicenseNumber)
		assert.True(t, l.update.IsReissued)
		assert.Len(t, l.reissues, 1)
	}
}

func TestApply_Idempotent(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, knownResolver("1"), nil)

	u := update("1", "Acme", "L-1")
	u.Operations = []normalize.Operation{{LicenseTypeName: "T", OperationTypeName: "Op"}}

	_, err := engine.Apply(context.Background(), []normalize.EntityUpdate{u}, Options{})
	require.NoError(t, err)
	first := store.state.clone()

	report, err := engine.Apply(context.Background(), []normalize.EntityUpdate{u}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Accepted)
	assert.Equal(t, 0, report.Summary.Resolved, "entity exists after the first run")

	assert.Equal(t, first.entities, store.state.entities)
	require.Len(t, store.state.licenses, 1)
	for id, l := range store.state.licenses {
		assert.Equal(t, first.licenses[id].update, l.update)
		assert.Equal(t, first.licenses[id].operations, l.operations)
	}
}

func TestApply_FullReplaceOfChildren(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, knownResolver("1"), nil)

	u := update("1", "Acme", "L-1")
	u.Reissues = []normalize.Reissue{{Basis: "a"}, {Basis: "b"}, {Basis: "c"}}
	_, err := engine.Apply(context.Background(), []normalize.EntityUpdate{u}, Options{})
	require.NoError(t, err)

	u.Reissues = []normalize.Reissue{{Basis: "d"}, {Basis: "e"}}
	_, err = engine.Apply(context.Background(), []normalize.EntityUpdate{u}, Options{})
	require.NoError(t, err)

	for _, l := range store.state.licenses {
		assert.Equal(t, []normalize.Reissue{{Basis: "d"}, {Basis: "e"}}, l.reissues)
	}

	u.Reissues = []normalize.Reissue{}
	_, err = engine.Apply(context.Background(), []normalize.EntityUpdate{u}, Options{})
	require.NoError(t, err)
	for _, l := range store.state.licenses {
		assert.Empty(t, l.reissues)
	}
}

func TestApply_SkipLaw(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, knownResolver("known"), nil)

	updates := []normalize.EntityUpdate{
		update("", "No Identifier", "L-1"),
		update("   ", "Blank Identifier", "L-2"),
		update("known", "  ", "L-3"),
		update("unknown", "Nobody", "L-4"),
		update(" known ", "Acme", "L-5"),
	}

	report, err := engine.Apply(context.Background(), updates, Options{})
	require.NoError(t, err)

	assert.Equal(t, 5, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Accepted)
	assert.Equal(t, 4, report.Summary.Skipped)
	assert.Equal(t, 3, report.Summary.ByReason[SkipIdentifierMissing])
	assert.Equal(t, 1, report.Summary.ByReason[SkipParentNotFound])

	require.Len(t, report.Outcomes, 5)
	assert.Equal(t, SkipParentNotFound, report.Outcomes[3].Reason)
	assert.True(t, report.Outcomes[4].Applied)
	assert.Equal(t, "known", report.Outcomes[4].Identifier)

	_, placeholder := store.state.entities["unknown"]
	assert.False(t, placeholder, "no placeholder entity is created")
	assert.Len(t, store.state.licenses, 1)
}

func TestApply_ResolverErrorIsSkip(t *testing.T) {
	store := newMemStore()
	resolver := ResolverFunc(func(context.Context, string) (Entity, error) {
		return Entity{}, errors.New("directory unavailable")
	})
	engine := NewEngine(store, resolver, nil)

	report, err := engine.Apply(context.Background(), []normalize.EntityUpdate{update("1", "Acme", "L")}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.ByReason[SkipParentNotFound])
}

func TestApply_AtomicBatch(t *testing.T) {
	store := newMemStore()
	store.failUpsertAt = 2
	engine := NewEngine(store, knownResolver("1", "2", "3"), nil)

	updates := []normalize.EntityUpdate{
		update("1", "One", "L-1"),
		update("2", "Two", "L-2"),
		update("3", "Three", "L-3"),
	}

	report, err := engine.Apply(context.Background(), updates, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Summary.Accepted, "counts reached before the failure")

	assert.Empty(t, store.state.entities)
	assert.Empty(t, store.state.licenses)
}

func TestApply_DryRunRollsBack(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, knownResolver("1"), nil)

	report, err := engine.Apply(context.Background(), []normalize.EntityUpdate{update("1", "Acme", "L-1")}, Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Summary.Accepted)
	assert.Empty(t, store.state.licenses)
	assert.Empty(t, store.state.entities)
}

func TestApply_CancelledContextRollsBack(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, knownResolver("1"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Apply(ctx, []normalize.EntityUpdate{update("1", "Acme", "L-1")}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.state.licenses)
}

func TestApply_EmptyBatch(t *testing.T) {
	engine := NewEngine(newMemStore(), nil, nil)

	report, err := engine.Apply(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Summary.Total)
	assert.NotNil(t, report.Outcomes)
}
