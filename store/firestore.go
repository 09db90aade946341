package store

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Mandeep003/nestle-truck-monitor/models"
)

const trucksCollection = "trucks"

// FirestoreStore keeps the board in a Firestore collection. Each document is
// the wire field map; the document id is the record id.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore initializes a Firestore-backed record store
func NewFirestoreStore(ctx context.Context, projectID, credentialsPath string) (*FirestoreStore, error) {
	opt := option.WithCredentialsFile(credentialsPath)

	config := &firebase.Config{ProjectID: projectID}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firestore client: %w", err)
	}

	log.Printf("✅ Connected to Firestore project: %s", projectID)

	return &FirestoreStore{client: client}, nil
}

// Close closes the Firestore client
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) ListAll(ctx context.Context) ([]models.TruckRecord, error) {
	iter := s.client.Collection(trucksCollection).Documents(ctx)
	defer iter.Stop()

	var records []models.TruckRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate trucks: %w", err)
		}

		record, err := models.RecordFromFields(doc.Ref.ID, docFields(doc))
		if err != nil {
			log.Printf("Warning: failed to parse truck %s: %v", doc.Ref.ID, err)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (models.TruckRecord, error) {
	doc, err := s.client.Collection(trucksCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.TruckRecord{}, ErrNotFound
		}
		return models.TruckRecord{}, fmt.Errorf("failed to get truck: %w", err)
	}
	return models.RecordFromFields(doc.Ref.ID, docFields(doc))
}

func (s *FirestoreStore) Create(ctx context.Context, record models.TruckRecord) (string, error) {
	ref, _, err := s.client.Collection(trucksCollection).Add(ctx, wireFields(record))
	if err != nil {
		return "", fmt.Errorf("failed to create truck: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Update(ctx context.Context, id string, record models.TruckRecord) error {
	_, err := s.client.Collection(trucksCollection).Doc(id).Set(ctx, wireFields(record))
	if err != nil {
		return fmt.Errorf("failed to update truck: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.Collection(trucksCollection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete truck: %w", err)
	}
	return nil
}

// wireFields widens the string field map for the Firestore client.
func wireFields(record models.TruckRecord) map[string]interface{} {
	fields := record.Fields()
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// docFields narrows a document back to the string field map, dropping any
// non-string values written by other tooling.
func docFields(doc *firestore.DocumentSnapshot) map[string]string {
	fields := make(map[string]string)
	for k, v := range doc.Data() {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}
	return fields
}
