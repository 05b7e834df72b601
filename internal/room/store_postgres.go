package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the slice of pgxpool.Pool the store needs. It is implemented by
// *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// rowQuerier is satisfied by both DB and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists each room as one document-style row: members, theme
// and queue live in jsonb columns, so the row maps 1:1 onto the Room struct.
// Mutations load the row under FOR UPDATE, apply the same in-memory
// transitions as MemoryStore, and write the result back in the same
// transaction.
type PostgresStore struct {
	db       DB
	resolver TrackResolver
}

func NewPostgresStore(db DB, resolver TrackResolver) *PostgresStore {
	return &PostgresStore{db: db, resolver: resolver}
}

func AutoMigrate(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS rooms(
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL DEFAULT 'New Room',
            is_public BOOLEAN NOT NULL DEFAULT true,
            join_code TEXT,
            theme JSONB NOT NULL DEFAULT '{}'::jsonb,
            members JSONB NOT NULL DEFAULT '[]'::jsonb,
            queue JSONB NOT NULL DEFAULT '[]'::jsonb,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_rooms_join_code ON rooms(join_code) WHERE join_code IS NOT NULL`)
	return err
}

const roomColumns = `id, name, is_public, join_code, theme, members, queue, created_at`

func scanRoom(row pgx.Row) (*Room, error) {
	var (
		r        Room
		joinCode *string
		theme    []byte
		members  []byte
		queue    []byte
	)
	err := row.Scan(&r.ID, &r.Name, &r.IsPublic, &joinCode, &theme, &members, &queue, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if joinCode != nil {
		r.JoinCode = *joinCode
	}
	if err := json.Unmarshal(theme, &r.Theme); err != nil {
		return nil, fmt.Errorf("decode theme: %w", err)
	}
	if err := json.Unmarshal(members, &r.Members); err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}
	if err := json.Unmarshal(queue, &r.Queue); err != nil {
		return nil, fmt.Errorf("decode queue: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) loadForUpdate(ctx context.Context, tx rowQuerier, roomID string) (*Room, error) {
	r, err := scanRoom(tx.QueryRow(ctx, `
        SELECT `+roomColumns+`
        FROM rooms WHERE id = $1
        FOR UPDATE
    `, roomID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	return r, err
}

func (s *PostgresStore) saveMembers(ctx context.Context, tx pgx.Tx, r *Room) error {
	members, err := json.Marshal(r.Members)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
        UPDATE rooms SET members = $1, updated_at = now() WHERE id = $2
    `, members, r.ID)
	return err
}

func (s *PostgresStore) saveQueue(ctx context.Context, tx pgx.Tx, r *Room) error {
	queue, err := json.Marshal(r.Queue)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
        UPDATE rooms SET queue = $1, updated_at = now() WHERE id = $2
    `, queue, r.ID)
	return err
}

func (s *PostgresStore) ListRooms(ctx context.Context, callerID string) ([]RoomSummary, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+roomColumns+`
        FROM rooms ORDER BY created_at ASC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RoomSummary, 0)
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r.summary(callerID))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) CreateRoom(ctx context.Context, callerID, name string, isPublic bool, theme *Theme) (*Room, error) {
	if name == "" {
		name = "New Room"
	}
	th := defaultTheme()
	if theme != nil {
		th = *theme
	}

	r := &Room{
		ID:        uuid.NewString(),
		Name:      name,
		Members:   []string{},
		Queue:     []QueueEntry{},
		Theme:     th,
		IsPublic:  isPublic,
		CreatedAt: time.Now().UTC(),
	}
	if callerID != "" {
		r.Members = append(r.Members, callerID)
	}
	if !isPublic {
		code, err := s.uniqueJoinCode(ctx)
		if err != nil {
			return nil, err
		}
		r.JoinCode = code
	}

	themeJSON, err := json.Marshal(r.Theme)
	if err != nil {
		return nil, err
	}
	membersJSON, err := json.Marshal(r.Members)
	if err != nil {
		return nil, err
	}
	var joinCode *string
	if r.JoinCode != "" {
		joinCode = &r.JoinCode
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO rooms(id, name, is_public, join_code, theme, members, queue, created_at)
        VALUES($1, $2, $3, $4, $5, $6, '[]'::jsonb, $7)
    `, r.ID, r.Name, r.IsPublic, joinCode, themeJSON, membersJSON, r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) uniqueJoinCode(ctx context.Context) (string, error) {
	for {
		code := newJoinCode()
		var exists bool
		err := s.db.QueryRow(ctx, `
            SELECT EXISTS(SELECT 1 FROM rooms WHERE join_code = $1)
        `, code).Scan(&exists)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}

func (s *PostgresStore) GetRoom(ctx context.Context, roomID, callerID string) (*RoomView, error) {
	r, err := scanRoom(s.db.QueryRow(ctx, `
        SELECT `+roomColumns+`
        FROM rooms WHERE id = $1
    `, roomID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.view(callerID, s.resolver), nil
}

func (s *PostgresStore) JoinRoom(ctx context.Context, roomID, callerID, code string) (*RoomView, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	r, err := s.loadForUpdate(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}
	if !r.canJoin(code) {
		return nil, ErrBadCode
	}
	if r.addMember(callerID) {
		if err := s.saveMembers(ctx, tx, r); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.view(callerID, s.resolver), nil
}

func (s *PostgresStore) JoinByCode(ctx context.Context, code, callerID string) (*RoomView, error) {
	if code == "" {
		return nil, ErrRoomNotFound
	}
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	r, err := scanRoom(tx.QueryRow(ctx, `
        SELECT `+roomColumns+`
        FROM rooms WHERE join_code = $1 AND is_public = false
        FOR UPDATE
    `, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if r.addMember(callerID) {
		if err := s.saveMembers(ctx, tx, r); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.view(callerID, s.resolver), nil
}

func (s *PostgresStore) LeaveRoom(ctx context.Context, roomID, callerID string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	r, err := s.loadForUpdate(ctx, tx, roomID)
	if err != nil {
		return err
	}
	r.removeMember(callerID)
	if err := s.saveMembers(ctx, tx, r); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Enqueue(ctx context.Context, roomID, callerID string, ref TrackRef) ([]QueueItem, error) {
	entry, err := buildEntry(ref, s.resolver)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	r, err := s.loadForUpdate(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}
	if !r.isMember(callerID) {
		return nil, ErrNotMember
	}
	before := len(r.Queue)
	r.enqueue(entry, callerID)
	if len(r.Queue) != before {
		if err := s.saveQueue(ctx, tx, r); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return serializeQueue(r.Queue, s.resolver), nil
}

func (s *PostgresStore) Vote(ctx context.Context, roomID, callerID, key, direction string) ([]QueueItem, error) {
	if direction != VoteUp && direction != VoteDown {
		return nil, ErrBadVote
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	r, err := s.loadForUpdate(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}
	if !r.isMember(callerID) {
		return nil, ErrNotMember
	}
	if err := r.setVote(key, callerID, direction); err != nil {
		return nil, err
	}
	if err := s.saveQueue(ctx, tx, r); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return serializeQueue(r.Queue, s.resolver), nil
}
