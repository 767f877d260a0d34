// Package collection binds a named collection of a database file to typed
// CRUD operations.
package collection

import (
	"context"
	"slices"
	"time"

	"github.com/vinicius-lino-figueiredo/jsondb/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/idgenerator"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/locker"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/matcher"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/store"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/timegetter"
	"github.com/vinicius-lino-figueiredo/jsondb/domain"
	"go.uber.org/zap"
)

// Collection is a binding between a collection name and the database file
// holding it. It keeps no documents in memory: every call reads the file, and
// every mutating call writes it back before returning.
type Collection[T any] struct {
	name        string
	path        string
	store       domain.Store
	locker      domain.Locker
	matcher     domain.Matcher
	decoder     domain.Decoder
	idGenerator domain.IDGenerator
	timeGetter  domain.TimeGetter
	logger      *zap.Logger
}

// New binds the collection name stored in the file at path. The collection is
// expected to exist already; see database.Database for how it is created.
func New[T any](name string, path string, options ...Option) *Collection[T] {
	cfg := config{
		store:       store.NewFileStore(),
		locker:      locker.NewLocker(),
		matcher:     matcher.NewMatcher(),
		decoder:     decoder.NewDecoder(),
		idGenerator: idgenerator.NewIDGenerator(),
		timeGetter:  timegetter.NewTimeGetter(),
		logger:      zap.NewNop(),
	}
	for _, option := range options {
		option(&cfg)
	}

	return &Collection[T]{
		name:        name,
		path:        path,
		store:       cfg.store,
		locker:      cfg.locker,
		matcher:     cfg.matcher,
		decoder:     cfg.decoder,
		idGenerator: cfg.idGenerator,
		timeGetter:  cfg.timeGetter,
		logger:      cfg.logger.With(zap.String("collection", name), zap.String("path", path)),
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

// Path returns the path of the database file.
func (c *Collection[T]) Path() string { return c.path }

// Find returns every document matching filter, in stored order. A nil filter
// returns the whole collection.
func (c *Collection[T]) Find(ctx context.Context, filter domain.Filter) ([]*Document[T], error) {
	query, err := c.compile(filter)
	if err != nil {
		return nil, err
	}

	unlock, err := c.locker.Lock(ctx, c.path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	_, docs, err := c.read(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]*Document[T], 0)
	for _, raw := range docs {
		if query != nil && !c.matcher.Match(raw, query) {
			continue
		}
		doc, err := c.newDocument(raw)
		if err != nil {
			return nil, err
		}
		res = append(res, doc)
	}

	c.logger.Debug("find", zap.Int("matched", len(res)))
	return res, nil
}

// FindOne returns the first document matching filter. Without a filter, or
// without a match, both results are nil.
func (c *Collection[T]) FindOne(ctx context.Context, filter domain.Filter) (*Document[T], error) {
	if filter == nil {
		return nil, nil
	}
	query, err := c.compile(filter)
	if err != nil {
		return nil, err
	}

	unlock, err := c.locker.Lock(ctx, c.path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	_, docs, err := c.read(ctx)
	if err != nil {
		return nil, err
	}

	idx := c.indexes(docs, query, false)
	c.logger.Debug("find one", zap.Int("matched", len(idx)))
	if len(idx) == 0 {
		return nil, nil
	}
	return c.newDocument(docs[idx[0]])
}

// FindByID returns the document with the given id. An empty id is never
// found.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (*Document[T], error) {
	if id == "" {
		return nil, nil
	}
	return c.FindOne(ctx, domain.Filter{domain.FieldID: id})
}

// Count returns how many documents match filter. A nil filter counts the
// whole collection.
func (c *Collection[T]) Count(ctx context.Context, filter domain.Filter) (int64, error) {
	query, err := c.compile(filter)
	if err != nil {
		return 0, err
	}

	unlock, err := c.locker.Lock(ctx, c.path)
	if err != nil {
		return 0, err
	}
	defer unlock()

	_, docs, err := c.read(ctx)
	if err != nil {
		return 0, err
	}
	if query == nil {
		return int64(len(docs)), nil
	}
	return int64(len(c.indexes(docs, query, true))), nil
}

// InsertOne stores value as a new document and returns it with its generated
// id and timestamps.
func (c *Collection[T]) InsertOne(ctx context.Context, value T) (*Document[T], error) {
	docs, err := c.insert(ctx, []T{value})
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

// InsertMany stores every value with a single write. If any value is invalid
// nothing is stored. All the new documents share the same timestamps.
func (c *Collection[T]) InsertMany(ctx context.Context, values []T) ([]*Document[T], error) {
	return c.insert(ctx, values)
}

func (c *Collection[T]) insert(ctx context.Context, values []T) ([]*Document[T], error) {
	payloads := make([]domain.Document, len(values))
	for n, value := range values {
		payload, err := c.encode(value)
		if err != nil {
			return nil, err
		}
		payloads[n] = payload
	}
	if len(payloads) == 0 {
		return make([]*Document[T], 0), nil
	}

	unlock, err := c.locker.Lock(ctx, c.path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, docs, err := c.read(ctx)
	if err != nil {
		return nil, err
	}

	used := make(map[string]struct{}, len(docs)+len(payloads))
	for _, raw := range docs {
		if id, ok := raw[domain.FieldID].(string); ok {
			used[id] = struct{}{}
		}
	}

	now := domain.FormatTime(c.timeGetter.GetTime())
	for _, raw := range payloads {
		id, err := c.createNewID(used)
		if err != nil {
			return nil, err
		}
		raw[domain.FieldID] = id
		raw[domain.FieldCreatedAt] = now
		raw[domain.FieldUpdatedAt] = now
		docs = append(docs, raw)
	}

	data[c.name] = docs
	if err := c.store.Write(ctx, c.path, data); err != nil {
		return nil, err
	}

	res := make([]*Document[T], len(payloads))
	for n, raw := range payloads {
		if res[n], err = c.newDocument(raw); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("insert", zap.Int("inserted", len(res)))
	return res, nil
}

// createNewID generates ids until one is not in use, then reserves it.
func (c *Collection[T]) createNewID(used map[string]struct{}) (string, error) {
	for {
		id, err := c.idGenerator.GenerateID()
		if err != nil {
			return "", err
		}
		if _, ok := used[id]; !ok {
			used[id] = struct{}{}
			return id, nil
		}
	}
}

// UpdateOne merges patch onto the first document matching filter and returns
// the updated document, or nil if nothing matched. Fields not present in
// patch are kept.
func (c *Collection[T]) UpdateOne(ctx context.Context, filter domain.Filter, patch any) (*Document[T], error) {
	if filter == nil {
		return nil, domain.ErrFilterRequired
	}
	query, err := c.compile(filter)
	if err != nil {
		return nil, err
	}
	docs, err := c.update(ctx, query, patch, false)
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

// UpdateMany merges patch onto every document matching filter and returns the
// updated documents.
func (c *Collection[T]) UpdateMany(ctx context.Context, filter domain.Filter, patch any) ([]*Document[T], error) {
	if filter == nil {
		return nil, domain.ErrFilterRequired
	}
	query, err := c.compile(filter)
	if err != nil {
		return nil, err
	}
	return c.update(ctx, query, patch, true)
}

// FindByIDAndUpdate updates the document with the given id. An empty id is
// never found.
func (c *Collection[T]) FindByIDAndUpdate(ctx context.Context, id string, patch any) (*Document[T], error) {
	if id == "" {
		return nil, nil
	}
	return c.UpdateOne(ctx, domain.Filter{domain.FieldID: id}, patch)
}

func (c *Collection[T]) update(ctx context.Context, query domain.Document, patch any, multi bool) ([]*Document[T], error) {
	changes, err := c.encodePatch(patch)
	if err != nil {
		return nil, err
	}

	unlock, err := c.locker.Lock(ctx, c.path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, docs, err := c.read(ctx)
	if err != nil {
		return nil, err
	}

	idx := c.indexes(docs, query, multi)
	if len(idx) == 0 {
		c.logger.Debug("update", zap.Int("updated", 0))
		return make([]*Document[T], 0), nil
	}

	now := c.timeGetter.GetTime()
	updated := make([]domain.Document, len(idx))
	for n, i := range idx {
		merged, err := c.merge(docs[i], changes, now)
		if err != nil {
			return nil, err
		}
		docs[i] = merged
		updated[n] = merged
	}

	data[c.name] = docs
	if err := c.store.Write(ctx, c.path, data); err != nil {
		return nil, err
	}

	res := make([]*Document[T], len(updated))
	for n, raw := range updated {
		if res[n], err = c.newDocument(raw); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("update", zap.Int("updated", len(res)))
	return res, nil
}

// merge returns a copy of doc with changes applied. The id and createdAt are
// kept. The new updatedAt is never before createdAt and always at least one
// millisecond after the stored updatedAt, even if the clock stood still or
// went back.
func (c *Collection[T]) merge(doc domain.Document, changes domain.Document, now time.Time) (domain.Document, error) {
	res := make(domain.Document, len(doc)+len(changes))
	for k, v := range doc {
		res[k] = v
	}
	for k, v := range changes {
		res[k] = v
	}

	now = domain.Truncate(now)
	if created, ok := doc[domain.FieldCreatedAt]; ok && created != nil {
		createdAt, err := domain.ParseTime(created)
		if err != nil {
			return nil, err
		}
		if now.Before(createdAt) {
			now = createdAt
		}
	}
	if updated, ok := doc[domain.FieldUpdatedAt]; ok && updated != nil {
		updatedAt, err := domain.ParseTime(updated)
		if err != nil {
			return nil, err
		}
		if next := updatedAt.Add(time.Millisecond); now.Before(next) {
			now = next
		}
	}
	res[domain.FieldUpdatedAt] = domain.FormatTime(now)
	return res, nil
}

// DeleteOne removes the first document matching filter and returns how many
// documents were removed.
func (c *Collection[T]) DeleteOne(ctx context.Context, filter domain.Filter) (int64, error) {
	if filter == nil {
		return 0, domain.ErrFilterRequired
	}
	query, err := c.compile(filter)
	if err != nil {
		return 0, err
	}
	return c.remove(ctx, query, false)
}

// DeleteMany removes every document matching filter and returns how many
// documents were removed.
func (c *Collection[T]) DeleteMany(ctx context.Context, filter domain.Filter) (int64, error) {
	if filter == nil {
		return 0, domain.ErrFilterRequired
	}
	query, err := c.compile(filter)
	if err != nil {
		return 0, err
	}
	return c.remove(ctx, query, true)
}

// FindByIDAndDelete removes the document with the given id. An empty id
// removes nothing.
func (c *Collection[T]) FindByIDAndDelete(ctx context.Context, id string) (int64, error) {
	if id == "" {
		return 0, nil
	}
	return c.DeleteOne(ctx, domain.Filter{domain.FieldID: id})
}

func (c *Collection[T]) remove(ctx context.Context, query domain.Document, multi bool) (int64, error) {
	unlock, err := c.locker.Lock(ctx, c.path)
	if err != nil {
		return 0, err
	}
	defer unlock()

	data, docs, err := c.read(ctx)
	if err != nil {
		return 0, err
	}

	idx := c.indexes(docs, query, multi)
	if len(idx) == 0 {
		c.logger.Debug("delete", zap.Int("deleted", 0))
		return 0, nil
	}

	kept := make([]domain.Document, 0, len(docs)-len(idx))
	for n, raw := range docs {
		if !slices.Contains(idx, n) {
			kept = append(kept, raw)
		}
	}

	data[c.name] = kept
	if err := c.store.Write(ctx, c.path, data); err != nil {
		return 0, err
	}

	c.logger.Debug("delete", zap.Int("deleted", len(idx)))
	return int64(len(idx)), nil
}

// read returns the whole database and the documents of this collection. A
// collection missing from the file is read as empty and will be added by the
// next write.
func (c *Collection[T]) read(ctx context.Context) (domain.Data, []domain.Document, error) {
	data, err := c.store.Read(ctx, c.path)
	if err != nil {
		return nil, nil, err
	}
	docs := data[c.name]
	if docs == nil {
		docs = make([]domain.Document, 0)
	}
	return data, docs, nil
}

// indexes returns the positions of documents matching query. Unless multi is
// set, it stops at the first match.
func (c *Collection[T]) indexes(docs []domain.Document, query domain.Document, multi bool) []int {
	var res []int
	for n, raw := range docs {
		if !c.matcher.Match(raw, query) {
			continue
		}
		res = append(res, n)
		if !multi {
			break
		}
	}
	return res
}

// compile converts filter to the representation of stored documents, so that
// values like int(5) or a [time.Time] on a timestamp field can be compared to
// what was read from the file. A nil filter compiles to nil.
func (c *Collection[T]) compile(filter domain.Filter) (domain.Document, error) {
	if filter == nil {
		return nil, nil
	}
	normalized := make(domain.Filter, len(filter))
	for k, v := range filter {
		if t, ok := v.(time.Time); ok && (k == domain.FieldCreatedAt || k == domain.FieldUpdatedAt) {
			v = domain.FormatTime(t)
		}
		normalized[k] = v
	}
	return c.decoder.Encode(normalized)
}

// encode converts a payload to a raw document, rejecting system fields.
func (c *Collection[T]) encode(value any) (domain.Document, error) {
	doc, err := c.decoder.Encode(value)
	if err != nil {
		return nil, err
	}
	for _, field := range domain.SystemFields {
		if _, ok := doc[field]; ok {
			return nil, domain.ErrSystemField{Field: field}
		}
	}
	return doc, nil
}

// encodePatch is like encode, but a nil patch is an empty one.
func (c *Collection[T]) encodePatch(patch any) (domain.Document, error) {
	if patch == nil {
		return domain.Document{}, nil
	}
	return c.encode(patch)
}

// newDocument builds a handle from a raw document. Missing timestamps are
// left as zero values; malformed ones are an error.
func (c *Collection[T]) newDocument(raw domain.Document) (*Document[T], error) {
	doc := &Document[T]{collection: c}
	doc.ID, _ = raw[domain.FieldID].(string)

	var err error
	if v, ok := raw[domain.FieldCreatedAt]; ok && v != nil {
		if doc.CreatedAt, err = domain.ParseTime(v); err != nil {
			return nil, err
		}
	}
	if v, ok := raw[domain.FieldUpdatedAt]; ok && v != nil {
		if doc.UpdatedAt, err = domain.ParseTime(v); err != nil {
			return nil, err
		}
	}

	payload := make(domain.Document, len(raw))
	for k, v := range raw {
		if !domain.IsSystemField(k) {
			payload[k] = v
		}
	}
	if err := c.decoder.Decode(payload, &doc.Payload); err != nil {
		return nil, err
	}
	return doc, nil
}
