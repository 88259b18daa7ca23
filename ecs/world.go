package ecs

import (
	"iter"
	"reflect"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World owns every component storage, the capability index and the deferred
// destroy queue. Gameplay code and lifecycle passes receive it explicitly;
// independent worlds do not share state.
type World struct {
	registry   *ComponentRegistry
	host       Host
	logger     zerolog.Logger
	storages   []iComponentStorage
	order      []iComponentStorage
	caps       capabilityIndex
	commands   *Commands
	singletons map[reflect.Type]any

	destroyQueue []Entity
	frame        uint64
	stats        lifecycleStats
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithLogger sets the logger callback failures and reload events go to.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger
	}
}

// NewWorld creates a world over the given component catalog and native host.
func NewWorld(registry *ComponentRegistry, host Host, opts ...WorldOption) *World {
	if registry == nil {
		panic("ecs: world needs a component registry")
	}
	if host == nil {
		panic("ecs: world needs a host")
	}
	w := &World{
		registry:   registry,
		host:       host,
		logger:     zerolog.Nop(),
		storages:   make([]iComponentStorage, registry.Capacity()),
		commands:   newCommands(),
		singletons: make(map[reflect.Type]any),
		stats:      newLifecycleStats(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Registry returns the component catalog the world currently resolves types against.
func (w *World) Registry() *ComponentRegistry { return w.registry }

// Host returns the native collaborator.
func (w *World) Host() Host { return w.host }

// Logger returns the world's logger.
func (w *World) Logger() *zerolog.Logger { return &w.logger }

// assure returns the storage for info, creating it and indexing its
// capabilities on first use.
func (w *World) assure(info *ComponentInfo) iComponentStorage {
	if s := w.storages[info.Slot]; s != nil {
		return s
	}
	s := info.factory(w)
	w.storages[info.Slot] = s
	w.order = append(w.order, s)
	w.caps.add(s)
	w.logger.Debug().
		Str("component", info.Name).
		Int("slot", int(info.Slot)).
		Str("capabilities", info.Capabilities.String()).
		Msg("component storage created")
	return s
}

func (w *World) storageOf(t reflect.Type) (iComponentStorage, error) {
	info, err := w.registry.infoOf(t)
	if err != nil {
		return nil, err
	}
	return w.assure(info), nil
}

// StorageOf returns the storage of T, creating it on first use.
func StorageOf[T any](w *World) (*ComponentStorage[T], error) {
	s, err := w.storageOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return s.(*ComponentStorage[T]), nil
}

func (w *World) checkValid(e Entity) error {
	if e.IsNull() {
		return eris.Wrap(ErrNullEntity, "null handle")
	}
	if !w.host.Valid(e) {
		return eris.Wrapf(ErrNullEntity, "entity %s is not valid", e)
	}
	return nil
}

// Add attaches a zero T to e and runs its activation callback.
func Add[T any](w *World, e Entity) (*T, error) {
	var zero T
	return AddValue(w, e, zero)
}

// AddValue attaches value to e and runs its activation callback.
func AddValue[T any](w *World, e Entity, value T) (*T, error) {
	if err := w.checkValid(e); err != nil {
		return nil, err
	}
	s, err := StorageOf[T](w)
	if err != nil {
		return nil, err
	}
	p, err := s.Set(e, value)
	if err != nil {
		return nil, err
	}
	if s.info.Capabilities.Has(CapActivation) {
		w.activate(s, e)
	}
	return p, nil
}

// Get returns e's T.
func Get[T any](w *World, e Entity) (*T, error) {
	if err := w.checkValid(e); err != nil {
		return nil, err
	}
	s, err := StorageOf[T](w)
	if err != nil {
		return nil, err
	}
	return s.Get(e)
}

// Remove detaches e's T.
func Remove[T any](w *World, e Entity) error {
	if err := w.checkValid(e); err != nil {
		return err
	}
	s, err := StorageOf[T](w)
	if err != nil {
		return err
	}
	return s.Remove(e)
}

// Has reports whether e has a T. Unregistered types and dead entities never
// have one.
func Has[T any](w *World, e Entity) bool {
	if !w.Valid(e) {
		return false
	}
	s, err := StorageOf[T](w)
	if err != nil {
		return false
	}
	return s.Contains(e)
}

// View iterates every (entity, T) pair in dense order.
func View[T any](w *World) iter.Seq2[Entity, *T] {
	s, err := StorageOf[T](w)
	if err != nil {
		return func(func(Entity, *T) bool) {}
	}
	return s.All()
}

// AddComponent attaches a value of any registered type to e. A pointer is
// dereferenced and its value copied.
func (w *World) AddComponent(e Entity, component any) error {
	return w.addBoxed(e, component, true)
}

func (w *World) addBoxed(e Entity, component any, activate bool) error {
	if err := w.checkValid(e); err != nil {
		return err
	}
	t := reflect.TypeOf(component)
	if t == nil {
		return eris.New("cannot add a nil component")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	s, err := w.storageOf(t)
	if err != nil {
		return err
	}
	if err := s.setBoxed(e, component); err != nil {
		return err
	}
	if activate && s.Capabilities().Has(CapActivation) {
		w.activate(s, e)
	}
	return nil
}

// RemoveComponent detaches the component of type compType from e.
func (w *World) RemoveComponent(e Entity, compType reflect.Type) error {
	if err := w.checkValid(e); err != nil {
		return err
	}
	s, err := w.storageOf(compType)
	if err != nil {
		return err
	}
	return s.remove(e)
}

// GetComponent returns a pointer to e's component of type compType, or nil.
func (w *World) GetComponent(e Entity, compType reflect.Type) any {
	if !w.Valid(e) {
		return nil
	}
	s, err := w.storageOf(compType)
	if err != nil {
		return nil
	}
	v, ok := s.getBoxed(e)
	if !ok {
		return nil
	}
	return v
}

// HasComponent reports whether e has a component of type compType.
func (w *World) HasComponent(e Entity, compType reflect.Type) bool {
	return w.GetComponent(e, compType) != nil
}

// Create asks the host for a new entity.
func (w *World) Create() Entity {
	return w.host.Create()
}

// Valid asks the host whether e is alive.
func (w *World) Valid(e Entity) bool {
	return !e.IsNull() && w.host.Valid(e)
}

// Find returns the entity carrying name, if any.
func (w *World) Find(name string) (Entity, bool) {
	found := Null
	w.host.Each(func(e Entity) {
		if n, ok := w.host.Name(e); ok && n == name {
			found = e
		}
	})
	return found, !found.IsNull()
}

// Transform reads e's native transform.
func (w *World) Transform(e Entity) (Transform, error) {
	if err := w.checkValid(e); err != nil {
		return Transform{}, err
	}
	return w.host.Transform(e), nil
}

// SetTransform writes e's native transform.
func (w *World) SetTransform(e Entity, t Transform) error {
	if err := w.checkValid(e); err != nil {
		return err
	}
	w.host.SetTransform(e, t)
	return nil
}

// Destroy destroys e through the host and purges it from every storage.
func (w *World) Destroy(e Entity) error {
	if e.IsNull() {
		return eris.Wrap(ErrNullEntity, "null handle")
	}
	for _, s := range w.order {
		if s.sweeping() && s.Contains(e) {
			return eris.Wrapf(ErrSweepMutation, "destroy entity %s while %s is being swept", e, s.Name())
		}
	}

	w.host.Destroy(e)
	if w.host.Valid(e) {
		w.logger.Error().Uint32("entity", uint32(e)).Msg("host did not destroy entity")
	}
	w.purge(e)
	return nil
}

// DestroyNext queues e for destruction at the end of the current frame.
func (w *World) DestroyNext(e Entity) {
	w.destroyQueue = append(w.destroyQueue, e)
}

// PendingDestroy returns the number of queued destroy requests.
func (w *World) PendingDestroy() int {
	return len(w.destroyQueue)
}

// OnNativeEntityDestroy is called by the host when it destroys an entity on
// its own. Storages being swept are purged once the pass is over.
func (w *World) OnNativeEntityDestroy(e Entity) {
	for _, s := range w.order {
		if s.sweeping() && s.Contains(e) {
			w.commands.Defer(func() { w.purge(e) })
			return
		}
	}
	w.purge(e)
}

func (w *World) purge(e Entity) {
	for _, s := range w.order {
		if !s.Contains(e) {
			continue
		}
		if err := s.remove(e); err != nil {
			w.logger.Error().Err(err).Uint32("entity", uint32(e)).Str("component", s.Name()).Msg("purge failed")
		}
	}
}

// Template describes an entity to instantiate: its components are inserted
// first, then activation runs for the new entity only.
type Template struct {
	Name       string
	Transform  *Transform
	Components []any
}

// Instantiate creates an entity from t.
func (w *World) Instantiate(t Template) (Entity, error) {
	e := w.host.Create()
	if t.Name != "" {
		w.host.SetName(e, t.Name)
	}
	if t.Transform != nil {
		w.host.SetTransform(e, *t.Transform)
	}

	for _, c := range t.Components {
		if err := w.addBoxed(e, c, false); err != nil {
			w.purge(e)
			w.host.Destroy(e)
			return Null, eris.Wrapf(err, "instantiate %q", t.Name)
		}
	}

	// Components added by a Start callback are activated by that add.
	var pending []iComponentStorage
	for _, s := range w.caps.activation {
		if s.Contains(e) {
			pending = append(pending, s)
		}
	}
	for _, s := range pending {
		w.activate(s, e)
	}
	return e, nil
}

// CopyComponents copies every component of from onto to. Values are copied
// through their encoding, so the copies share no memory with the originals.
func (w *World) CopyComponents(from, to Entity) error {
	if err := w.checkValid(to); err != nil {
		return err
	}
	for _, s := range w.order {
		if !s.Contains(from) {
			continue
		}
		bz, err := s.Encode(from)
		if err != nil {
			return err
		}
		if err := s.decodeInsert(to, bz); err != nil {
			return err
		}
	}
	return nil
}

// Pools returns the live storages in creation order.
func (w *World) Pools() []ComponentPool {
	out := make([]ComponentPool, len(w.order))
	for i, s := range w.order {
		out[i] = s
	}
	return out
}

// RestoreComponent inserts an encoded component for e without running
// activation. name is resolved against the current registry.
func (w *World) RestoreComponent(name string, e Entity, payload []byte) error {
	info, err := w.registry.infoByName(name)
	if err != nil {
		return err
	}
	return w.assure(info).decodeInsert(e, payload)
}

// Unload drops every storage, the capability index and pending commands.
// Entities, the destroy queue and singletons survive.
func (w *World) Unload() {
	clear(w.storages)
	w.order = nil
	w.caps.clear()
	w.commands = newCommands()
}

// Rebuild unloads the world and switches it to a freshly loaded catalog.
func (w *World) Rebuild(registry *ComponentRegistry) {
	w.Unload()
	w.registry = registry
	w.storages = make([]iComponentStorage, registry.Capacity())
}
