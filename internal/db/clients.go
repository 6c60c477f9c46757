package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/staffing-console/internal/types"
)

// CreateClient stores a freshly created pipeline client along with its
// seeded stage history.
func (db *DB) CreateClient(ctx context.Context, client *types.PipelineClient) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx,
		`INSERT INTO clients (id, name, status, blocked, held_from_stage,
		 assigned_recruiter_id, assigned_sales_person_id, backed_out_reason, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		client.ID, client.Name, client.Status, client.Blocked, client.HeldFromStage,
		client.AssignedRecruiterID, client.AssignedSalesPersonID, client.BackedOutReason,
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	for _, event := range client.StageHistory {
		if err := insertStageEvent(ctx, tx, client.ID, event); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func insertStageEvent(ctx context.Context, tx pgx.Tx, clientID uuid.UUID, event types.StageEvent) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO stage_history (client_id, status, entered_at, changed_by)
		 VALUES ($1, $2, $3, $4)`,
		clientID, event.Status, event.EnteredAt, event.ChangedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to append stage history: %w", err)
	}
	return nil
}

// GetClient fetches a client snapshot including its full stage history.
func (db *DB) GetClient(ctx context.Context, id uuid.UUID) (*types.PipelineClient, error) {
	var client types.PipelineClient
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, status, blocked, held_from_stage,
		 assigned_recruiter_id, assigned_sales_person_id, backed_out_reason, created_at, updated_at
		 FROM clients WHERE id = $1`,
		id,
	).Scan(&client.ID, &client.Name, &client.Status, &client.Blocked, &client.HeldFromStage,
		&client.AssignedRecruiterID, &client.AssignedSalesPersonID, &client.BackedOutReason,
		&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT status, entered_at, changed_by FROM stage_history
		 WHERE client_id = $1 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stage history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var event types.StageEvent
		if err := rows.Scan(&event.Status, &event.EnteredAt, &event.ChangedBy); err != nil {
			return nil, fmt.Errorf("failed to scan stage history: %w", err)
		}
		client.StageHistory = append(client.StageHistory, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stage history: %w", err)
	}
	return &client, nil
}

// ListClients returns every client's base snapshot, without stage
// history. Sufficient for summaries; use GetClient for audit views.
func (db *DB) ListClients(ctx context.Context) ([]types.PipelineClient, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, status, blocked, held_from_stage,
		 assigned_recruiter_id, assigned_sales_person_id, backed_out_reason, created_at, updated_at
		 FROM clients ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []types.PipelineClient
	for rows.Next() {
		var client types.PipelineClient
		if err := rows.Scan(&client.ID, &client.Name, &client.Status, &client.Blocked, &client.HeldFromStage,
			&client.AssignedRecruiterID, &client.AssignedSalesPersonID, &client.BackedOutReason,
			&client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read clients: %w", err)
	}
	return clients, nil
}

// CommitTransition persists a transitioned snapshot with a
// compare-and-set on the previous status and blocked flag: a concurrent
// writer that moved or blocked the client first makes this commit fail
// with ErrStaleSnapshot, forcing the caller to recompute against the
// fresh row.
func (db *DB) CommitTransition(ctx context.Context, next *types.PipelineClient, prevStatus types.Stage, prevBlocked bool) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	tag, err := tx.Exec(ctx,
		`UPDATE clients SET status = $1, held_from_stage = $2, backed_out_reason = $3, updated_at = $4
		 WHERE id = $5 AND status = $6 AND blocked = $7`,
		next.Status, next.HeldFromStage, next.BackedOutReason, next.UpdatedAt,
		next.ID, prevStatus, prevBlocked,
	)
	if err != nil {
		return fmt.Errorf("failed to commit transition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.staleOrMissing(ctx, next.ID)
	}

	event := next.CurrentStageEvent()
	if event == nil {
		return fmt.Errorf("transitioned client %s has no stage history", next.ID)
	}
	if err := insertStageEvent(ctx, tx, next.ID, *event); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateBlocked persists a block/unblock toggle with a compare-and-set on
// both the previous blocked flag and the stage the engine authorized
// against.
func (db *DB) UpdateBlocked(ctx context.Context, next *types.PipelineClient, prevBlocked bool) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE clients SET blocked = $1, updated_at = $2
		 WHERE id = $3 AND blocked = $4 AND status = $5`,
		next.Blocked, next.UpdatedAt,
		next.ID, prevBlocked, next.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update blocked flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.staleOrMissing(ctx, next.ID)
	}
	return nil
}

// UpdateAssignment persists recruiter/sales-person assignment fields.
func (db *DB) UpdateAssignment(ctx context.Context, next *types.PipelineClient) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE clients SET assigned_recruiter_id = $1, assigned_sales_person_id = $2, updated_at = $3
		 WHERE id = $4`,
		next.AssignedRecruiterID, next.AssignedSalesPersonID, next.UpdatedAt, next.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) staleOrMissing(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := db.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check client existence: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStaleSnapshot
}

// InsertActionRecord stores an immutable action record.
func (db *DB) InsertActionRecord(ctx context.Context, record *types.ActionRecord) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO action_records (id, client_id, action_name, comment, evidence_ref, performed_by, role, performed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID, record.ClientID, record.ActionName, record.Comment, record.EvidenceRef,
		record.PerformedBy, record.Role, record.PerformedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert action record: %w", err)
	}
	return nil
}

// ListActionRecords returns a client's action records, oldest first.
func (db *DB) ListActionRecords(ctx context.Context, clientID uuid.UUID) ([]types.ActionRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, client_id, action_name, comment, evidence_ref, performed_by, role, performed_at
		 FROM action_records WHERE client_id = $1 ORDER BY performed_at`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list action records: %w", err)
	}
	defer rows.Close()

	var records []types.ActionRecord
	for rows.Next() {
		var record types.ActionRecord
		if err := rows.Scan(&record.ID, &record.ClientID, &record.ActionName, &record.Comment,
			&record.EvidenceRef, &record.PerformedBy, &record.Role, &record.PerformedAt); err != nil {
			return nil, fmt.Errorf("failed to scan action record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read action records: %w", err)
	}
	return records, nil
}
