package mongo

import (
	"context"

	"alcyxob/fitness-ai/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// mongoTxManager implements repository.TxManager on top of mongo client
// sessions. Repositories pick up the session automatically through the
// SessionContext passed to fn, so all writes inside fn commit or abort as
// one multi-document transaction.
type mongoTxManager struct {
	client *mongo.Client
}

// NewMongoTxManager creates a transaction manager bound to the given client.
func NewMongoTxManager(client *mongo.Client) repository.TxManager {
	return &mongoTxManager{client: client}
}

func (m *mongoTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
