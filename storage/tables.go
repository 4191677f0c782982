package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"slate-api/domain"
)

const boardRowKey = "board"

// TableStorage persists the board document as a single table entity. The
// entity carries the whole JSON document and is replaced on every write.
type TableStorage struct {
	table *aztables.Client
	now   func() time.Time
}

// NewTables creates a TableStorage from the given connection string.
func NewTables(connStr, tableName string) (*TableStorage, error) {
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &opts)
	if err != nil {
		return nil, err
	}
	return &TableStorage{table: svc.NewClient(tableName), now: time.Now}, nil
}

type boardEntity struct {
	aztables.Entity
	Document string `json:"Document"`
}

// LoadBoard reads the board entity, seeding the welcome board when absent.
func (s *TableStorage) LoadBoard(ctx context.Context) (*domain.Board, error) {
	ent, err := s.table.GetEntity(ctx, boardRowKey, boardRowKey, nil)
	if err != nil {
		if isNotFound(err) {
			b := domain.SeedBoard(s.now())
			if err := s.SaveBoard(ctx, b); err != nil {
				return nil, err
			}
			return b, nil
		}
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}
	return decodeBoardEntity(ent.Value)
}

// SaveBoard replaces the board entity with the new document.
func (s *TableStorage) SaveBoard(ctx context.Context, b *domain.Board) error {
	payload, err := encodeBoardEntity(b)
	if err != nil {
		return err
	}
	mode := aztables.UpdateModeReplace
	if _, err := s.table.UpsertEntity(ctx, payload, &aztables.UpsertEntityOptions{UpdateMode: mode}); err != nil {
		return &domain.PersistenceError{Op: "write", Err: err}
	}
	return nil
}

func decodeBoardEntity(data []byte) (*domain.Board, error) {
	var raw boardEntity
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}
	var b domain.Board
	if err := json.Unmarshal([]byte(raw.Document), &b); err != nil {
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}
	return &b, nil
}

func encodeBoardEntity(b *domain.Board) ([]byte, error) {
	doc, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, &domain.PersistenceError{Op: "write", Err: err}
	}
	ent := boardEntity{
		Entity:   aztables.Entity{PartitionKey: boardRowKey, RowKey: boardRowKey},
		Document: string(doc),
	}
	payload, err := json.Marshal(ent)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "write", Err: err}
	}
	return payload, nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == 404
}
