package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"client-gate/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and returns the client. Caller should call
// client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// clientDoc is the stored shape of a tenant record; the ID is
// store-generated.
type clientDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// MongoDirectory implements domain.DirectoryStore over the "users" and
// "clients" collections. User documents use the identity uid as _id.
type MongoDirectory struct {
	users   *mongo.Collection
	clients *mongo.Collection
}

// NewMongoDirectory creates the directory store and ensures its indexes.
func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	users := db.Collection("users")
	clients := db.Collection("clients")

	// Lookup paths: by email at login, by client for listings and the
	// tenant cascade.
	users.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})

	return &MongoDirectory{users: users, clients: clients}
}

// GetUser returns the directory record for a uid.
func (d *MongoDirectory) GetUser(ctx context.Context, uid string) (*domain.DirectoryUser, error) {
	var user domain.DirectoryUser
	err := d.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, directoryErr(err)
	}
	return &user, nil
}

// GetUserByEmail returns the directory record for an email address.
func (d *MongoDirectory) GetUserByEmail(ctx context.Context, email string) (*domain.DirectoryUser, error) {
	var user domain.DirectoryUser
	err := d.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, directoryErr(err)
	}
	return &user, nil
}

// PutUser creates a directory record with the uid as document ID. The
// createdAt timestamp is store-assigned on write.
func (d *MongoDirectory) PutUser(ctx context.Context, user *domain.DirectoryUser) error {
	record := *user
	record.CreatedAt = time.Now().UTC()

	if _, err := d.users.InsertOne(ctx, &record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: directory record for uid %q already exists", domain.ErrInvalidInput, user.UID)
		}
		return directoryErr(err)
	}
	user.CreatedAt = record.CreatedAt
	return nil
}

// DeleteUser removes the directory record for a uid.
func (d *MongoDirectory) DeleteUser(ctx context.Context, uid string) error {
	res, err := d.users.DeleteOne(ctx, bson.M{"_id": uid})
	if err != nil {
		return directoryErr(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListClientUsers returns the non-admin users of one client, newest first.
func (d *MongoDirectory) ListClientUsers(ctx context.Context, clientID string) ([]*domain.DirectoryUser, error) {
	return d.findUsers(ctx, bson.M{"clientId": clientID, "isAdmin": false})
}

// ListAdmins returns all global admins, newest first.
func (d *MongoDirectory) ListAdmins(ctx context.Context) ([]*domain.DirectoryUser, error) {
	return d.findUsers(ctx, bson.M{"isAdmin": true})
}

func (d *MongoDirectory) findUsers(ctx context.Context, filter bson.M) ([]*domain.DirectoryUser, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := d.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, directoryErr(err)
	}
	defer cur.Close(ctx)

	out := []*domain.DirectoryUser{}
	for cur.Next(ctx) {
		var user domain.DirectoryUser
		if err := cur.Decode(&user); err != nil {
			return nil, directoryErr(err)
		}
		out = append(out, &user)
	}
	if err := cur.Err(); err != nil {
		return nil, directoryErr(err)
	}
	return out, nil
}

// CountUsers counts non-admin users, optionally restricted to one client.
func (d *MongoDirectory) CountUsers(ctx context.Context, clientID string) (int64, error) {
	filter := bson.M{"isAdmin": false}
	if clientID != "" {
		filter["clientId"] = clientID
	}

	count, err := d.users.CountDocuments(ctx, filter)
	if err != nil {
		return 0, directoryErr(err)
	}
	return count, nil
}

// CreateClient creates a tenant record with a store-generated ID.
func (d *MongoDirectory) CreateClient(ctx context.Context, name string) (*domain.Client, error) {
	doc := clientDoc{Name: name, CreatedAt: time.Now().UTC()}

	res, err := d.clients.InsertOne(ctx, &doc)
	if err != nil {
		return nil, directoryErr(err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected inserted id type %T", domain.ErrDirectoryUnavailable, res.InsertedID)
	}
	return &domain.Client{ID: id.Hex(), Name: doc.Name, CreatedAt: doc.CreatedAt}, nil
}

// GetClient returns a tenant record by ID.
func (d *MongoDirectory) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var doc clientDoc
	err = d.clients.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, directoryErr(err)
	}
	return &domain.Client{ID: doc.ID.Hex(), Name: doc.Name, CreatedAt: doc.CreatedAt}, nil
}

// ListClients returns all tenant records, newest first.
func (d *MongoDirectory) ListClients(ctx context.Context) ([]*domain.Client, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := d.clients.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, directoryErr(err)
	}
	defer cur.Close(ctx)

	out := []*domain.Client{}
	for cur.Next(ctx) {
		var doc clientDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, directoryErr(err)
		}
		out = append(out, &domain.Client{ID: doc.ID.Hex(), Name: doc.Name, CreatedAt: doc.CreatedAt})
	}
	if err := cur.Err(); err != nil {
		return nil, directoryErr(err)
	}
	return out, nil
}

// DeleteClient removes a tenant record. The caller is responsible for
// cascading user deletion first.
func (d *MongoDirectory) DeleteClient(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	res, err := d.clients.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return directoryErr(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func directoryErr(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrDirectoryUnavailable, err)
}
