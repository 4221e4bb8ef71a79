package tasks

import (
	"context"
	"sync"
)

// memStore implementa DocStore em memória para os testes, com o mesmo
// comportamento de entrega do Firestore: cada escuta recebe o conjunto de
// resultados completo a cada mudança, inclusive um snapshot inicial no
// registro da escuta.
type memStore struct {
	mu   sync.Mutex
	docs map[string]map[string]interface{}

	ownedListeners  map[int]*queryListener
	publicListeners map[int]*queryListener
	docListeners    map[int]*docListener
	nextListener    int

	// injeção de falhas por operação
	failSet    error
	failUpdate error
	failDelete error
	failQuery  error
}

type queryListener struct {
	ownerID string
	fn      func([]Snapshot)
}

type docListener struct {
	docID string
	fn    func(Snapshot)
}

func newMemStore() *memStore {
	return &memStore{
		docs:            map[string]map[string]interface{}{},
		ownedListeners:  map[int]*queryListener{},
		publicListeners: map[int]*queryListener{},
		docListeners:    map[int]*docListener{},
	}
}

func cloneDoc(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if nested, ok := v.(map[string]interface{}); ok {
			out[k] = cloneDoc(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func (m *memStore) Get(ctx context.Context, id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return Snapshot{ID: id, Exists: false}, nil
	}
	return Snapshot{ID: id, Data: cloneDoc(doc), Exists: true}, nil
}

func (m *memStore) Set(ctx context.Context, id string, doc map[string]interface{}) error {
	m.mu.Lock()
	if m.failSet != nil {
		err := m.failSet
		m.mu.Unlock()
		return err
	}
	m.docs[id] = cloneDoc(doc)
	m.mu.Unlock()

	m.broadcast(id)
	return nil
}

func (m *memStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	if m.failUpdate != nil {
		err := m.failUpdate
		m.mu.Unlock()
		return err
	}
	doc, ok := m.docs[id]
	if !ok {
		doc = map[string]interface{}{}
		m.docs[id] = doc
	}
	for k, v := range fields {
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	m.mu.Unlock()

	m.broadcast(id)
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	if m.failDelete != nil {
		err := m.failDelete
		m.mu.Unlock()
		return err
	}
	delete(m.docs, id)
	m.mu.Unlock()

	m.broadcast(id)
	return nil
}

func (m *memStore) FindCopies(ctx context.Context, ownerID, originalTaskID string) ([]Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failQuery != nil {
		return nil, m.failQuery
	}

	snaps := []Snapshot{}
	for id, doc := range m.docs {
		if doc["userId"] == ownerID && doc["originalTaskId"] == originalTaskID {
			snaps = append(snaps, Snapshot{ID: id, Data: cloneDoc(doc), Exists: true})
		}
	}
	return snaps, nil
}

func (m *memStore) ListenOwned(ctx context.Context, ownerID string, fn func([]Snapshot)) (CancelFunc, error) {
	m.mu.Lock()
	key := m.nextListener
	m.nextListener++
	m.ownedListeners[key] = &queryListener{ownerID: ownerID, fn: fn}
	initial := m.ownedSnapshotLocked(ownerID)
	m.mu.Unlock()

	fn(initial)
	return func() {
		m.mu.Lock()
		delete(m.ownedListeners, key)
		m.mu.Unlock()
	}, nil
}

func (m *memStore) ListenPublic(ctx context.Context, ownerID string, fn func([]Snapshot)) (CancelFunc, error) {
	m.mu.Lock()
	key := m.nextListener
	m.nextListener++
	m.publicListeners[key] = &queryListener{ownerID: ownerID, fn: fn}
	initial := m.publicSnapshotLocked(ownerID)
	m.mu.Unlock()

	fn(initial)
	return func() {
		m.mu.Lock()
		delete(m.publicListeners, key)
		m.mu.Unlock()
	}, nil
}

func (m *memStore) ListenDoc(ctx context.Context, id string, fn func(Snapshot)) (CancelFunc, error) {
	m.mu.Lock()
	key := m.nextListener
	m.nextListener++
	m.docListeners[key] = &docListener{docID: id, fn: fn}
	initial := m.docSnapshotLocked(id)
	m.mu.Unlock()

	fn(initial)
	return func() {
		m.mu.Lock()
		delete(m.docListeners, key)
		m.mu.Unlock()
	}, nil
}

func (m *memStore) ownedSnapshotLocked(ownerID string) []Snapshot {
	snaps := []Snapshot{}
	for id, doc := range m.docs {
		if doc["userId"] == ownerID {
			snaps = append(snaps, Snapshot{ID: id, Data: cloneDoc(doc), Exists: true})
		}
	}
	return snaps
}

func (m *memStore) publicSnapshotLocked(ownerID string) []Snapshot {
	snaps := []Snapshot{}
	for id, doc := range m.docs {
		if doc["userId"] != ownerID && doc["isPrivate"] == false {
			snaps = append(snaps, Snapshot{ID: id, Data: cloneDoc(doc), Exists: true})
		}
	}
	return snaps
}

func (m *memStore) docSnapshotLocked(id string) Snapshot {
	if doc, ok := m.docs[id]; ok {
		return Snapshot{ID: id, Data: cloneDoc(doc), Exists: true}
	}
	return Snapshot{ID: id, Exists: false}
}

// broadcast entrega os snapshots correntes a todas as escutas afetadas.
// As chamadas acontecem fora do mutex, como callbacks do cliente real.
func (m *memStore) broadcast(changedID string) {
	m.mu.Lock()
	type ownedDelivery struct {
		fn    func([]Snapshot)
		snaps []Snapshot
	}
	deliveries := []ownedDelivery{}
	for _, l := range m.ownedListeners {
		deliveries = append(deliveries, ownedDelivery{l.fn, m.ownedSnapshotLocked(l.ownerID)})
	}
	for _, l := range m.publicListeners {
		deliveries = append(deliveries, ownedDelivery{l.fn, m.publicSnapshotLocked(l.ownerID)})
	}

	type docDelivery struct {
		fn   func(Snapshot)
		snap Snapshot
	}
	docDeliveries := []docDelivery{}
	for _, l := range m.docListeners {
		if l.docID == changedID {
			docDeliveries = append(docDeliveries, docDelivery{l.fn, m.docSnapshotLocked(l.docID)})
		}
	}
	m.mu.Unlock()

	for _, d := range deliveries {
		d.fn(d.snaps)
	}
	for _, d := range docDeliveries {
		d.fn(d.snap)
	}
}

// memCategoryStore implementa CategoryStore em memória
type memCategoryStore struct {
	mu        sync.Mutex
	names     map[string]map[string]bool // userID -> nomes
	listeners map[int]struct {
		userID string
		fn     func([]string)
	}
	next int
}

func newMemCategoryStore() *memCategoryStore {
	return &memCategoryStore{
		names: map[string]map[string]bool{},
		listeners: map[int]struct {
			userID string
			fn     func([]string)
		}{},
	}
}

func (m *memCategoryStore) Add(ctx context.Context, userID, name string) error {
	m.mu.Lock()
	if m.names[userID] == nil {
		m.names[userID] = map[string]bool{}
	}
	m.names[userID][name] = true
	m.mu.Unlock()
	m.notify(userID)
	return nil
}

func (m *memCategoryStore) Remove(ctx context.Context, userID, name string) error {
	m.mu.Lock()
	delete(m.names[userID], name)
	m.mu.Unlock()
	m.notify(userID)
	return nil
}

func (m *memCategoryStore) Listen(ctx context.Context, userID string, fn func([]string)) (CancelFunc, error) {
	m.mu.Lock()
	key := m.next
	m.next++
	m.listeners[key] = struct {
		userID string
		fn     func([]string)
	}{userID, fn}
	initial := m.listLocked(userID)
	m.mu.Unlock()

	fn(initial)
	return func() {
		m.mu.Lock()
		delete(m.listeners, key)
		m.mu.Unlock()
	}, nil
}

func (m *memCategoryStore) listLocked(userID string) []string {
	out := []string{}
	for name := range m.names[userID] {
		out = append(out, name)
	}
	return out
}

func (m *memCategoryStore) notify(userID string) {
	m.mu.Lock()
	type delivery struct {
		fn    func([]string)
		names []string
	}
	deliveries := []delivery{}
	for _, l := range m.listeners {
		if l.userID == userID {
			deliveries = append(deliveries, delivery{l.fn, m.listLocked(userID)})
		}
	}
	m.mu.Unlock()

	for _, d := range deliveries {
		d.fn(d.names)
	}
}
