package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/chatdb-init/internal/models"
	"github.com/fathima-sithara/chatdb-init/internal/schema"
)

type Repository struct {
	db      *mongo.Database
	timeout time.Duration
}

// NewRepository bounds every call by timeout; zero means the caller's context alone.
func NewRepository(db *mongo.Database, timeout time.Duration) *Repository {
	return &Repository{db: db, timeout: timeout}
}

func (r *Repository) Database() string { return r.db.Name() }

func (r *Repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *Repository) EnsureCollection(ctx context.Context, name string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.db.CreateCollection(ctx, name); err != nil && !isNamespaceExists(err) {
		return err
	}
	return nil
}

func (r *Repository) EnsureIndex(ctx context.Context, idx schema.Index) (string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	name, err := r.db.Collection(idx.Collection).Indexes().CreateOne(ctx, idx.Model())
	if err != nil {
		return "", classify(err)
	}
	return name, nil
}

func (r *Repository) InsertChat(ctx context.Context, c *models.Chat) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.Collection(schema.ChatsCollection).InsertOne(ctx, c)
	if err != nil {
		return classify(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

func (r *Repository) InsertMessage(ctx context.Context, m *models.Message) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.Collection(schema.MessagesCollection).InsertOne(ctx, m)
	if err != nil {
		return classify(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid
	}
	return nil
}

func (r *Repository) CollectionNames(ctx context.Context) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.ListCollectionNames(ctx, bson.D{})
}

// Indexes returns the index definitions present on collection, including _id_.
func (r *Repository) Indexes(ctx context.Context, collection string) ([]schema.Index, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	specs, err := r.db.Collection(collection).Indexes().ListSpecifications(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]schema.Index, 0, len(specs))
	for _, s := range specs {
		idx := schema.Index{
			Collection: collection,
			Name:       s.Name,
			Unique:     s.Unique != nil && *s.Unique,
		}
		elems, err := s.KeysDocument.Elements()
		if err != nil {
			return nil, err
		}
		for _, e := range elems {
			idx.Keys = append(idx.Keys, schema.Key{Field: e.Key(), Order: keyOrder(e.Value())})
		}
		out = append(out, idx)
	}
	return out, nil
}

// keyOrder maps numeric key directions to +1/-1; special index types such as "text" map to 0.
func keyOrder(v bson.RawValue) int {
	var f float64
	switch v.Type {
	case bsontype.Int32:
		f = float64(v.Int32())
	case bsontype.Int64:
		f = float64(v.Int64())
	case bsontype.Double:
		f = v.Double()
	}
	switch {
	case f > 0:
		return schema.Ascending
	case f < 0:
		return schema.Descending
	}
	return 0
}

func (r *Repository) CountChats(ctx context.Context, chatID int64) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Collection(schema.ChatsCollection).CountDocuments(ctx, bson.M{"chat_id": chatID})
}

// ChatsByParticipant matches chats whose participants array contains userID.
func (r *Repository) ChatsByParticipant(ctx context.Context, userID int64, limit int64) ([]*models.Chat, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "chat_id", Value: 1}}).SetLimit(limit)
	cur, err := r.db.Collection(schema.ChatsCollection).Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*models.Chat{}
	for cur.Next(ctx) {
		var c models.Chat
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

// RecentMessages returns messages of chatID, newest first.
func (r *Repository) RecentMessages(ctx context.Context, chatID int64, limit int64) ([]*models.Message, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cur, err := r.db.Collection(schema.MessagesCollection).Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*models.Message{}
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}
