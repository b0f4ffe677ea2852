package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"nba-chat/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTicketsTable is the table ticket rows are read from
const DefaultTicketsTable = "voice_tickets"

// DB represents the database connection
type DB struct {
	Pool         *pgxpool.Pool
	TicketsTable string
}

// NewDB creates a new database connection
func NewDB(ctx context.Context, connStr string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool, TicketsTable: DefaultTicketsTable}, nil
}

// Initialize sets up the knowledge tables and indices
func (db *DB) Initialize(ctx context.Context, dimension int) error {
	if _, err := db.Pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	_, err := db.Pool.Exec(ctx, fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS knowledge_chunks (
            id SERIAL PRIMARY KEY,
            index_name TEXT NOT NULL,
            source TEXT NOT NULL,
            content TEXT NOT NULL,
            page_number INTEGER NOT NULL,
            section TEXT,
            chunk_type TEXT,
            embedding vector(%d) NOT NULL
        )
    `, dimension))
	if err != nil {
		return fmt.Errorf("failed to create knowledge_chunks table: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS knowledge_chunks_embedding_idx ON knowledge_chunks
		USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)
	`)
	if err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS knowledge_chunks_index_name_idx ON knowledge_chunks (index_name)
	`)
	if err != nil {
		return fmt.Errorf("failed to create index_name index: %w", err)
	}

	return nil
}

// StoreTextChunk stores a text chunk in the database
func (db *DB) StoreTextChunk(ctx context.Context, chunk *models.TextChunk) error {
	_, err := db.Pool.Exec(ctx, `
        INSERT INTO knowledge_chunks (
            index_name, source, content, page_number, section, chunk_type, embedding
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7::vector)
    `,
		chunk.Metadata.Index,
		chunk.Metadata.Source,
		chunk.Content,
		chunk.Metadata.PageNumber,
		chunk.Metadata.Section,
		chunk.Metadata.ChunkType,
		VectorLiteral(chunk.Embedding))

	return err
}

// DeleteIndex removes every chunk of a knowledge index
func (db *DB) DeleteIndex(ctx context.Context, index string) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM knowledge_chunks WHERE index_name = $1`, index)
	if err != nil {
		return 0, fmt.Errorf("failed to delete index %s: %w", index, err)
	}
	return tag.RowsAffected(), nil
}

// QuerySimilar finds the chunks of an index closest to the query embedding
func (db *DB) QuerySimilar(ctx context.Context, index string, embedding []float64, limit int) ([]models.TextChunk, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, content, index_name, source, page_number,
		       COALESCE(section, ''), COALESCE(chunk_type, '')
		FROM knowledge_chunks
		WHERE index_name = $1
		ORDER BY embedding <=> $2::vector
		LIMIT $3
	`, index, VectorLiteral(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar chunks: %w", err)
	}
	return processRows(rows)
}

func processRows(rows pgx.Rows) ([]models.TextChunk, error) {
	defer rows.Close()

	var chunks []models.TextChunk
	for rows.Next() {
		var chunk models.TextChunk

		if err := rows.Scan(
			&chunk.ID,
			&chunk.Content,
			&chunk.Metadata.Index,
			&chunk.Metadata.Source,
			&chunk.Metadata.PageNumber,
			&chunk.Metadata.Section,
			&chunk.Metadata.ChunkType); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return chunks, nil
}

// GetIndexes retrieves all knowledge index names
func (db *DB) GetIndexes(ctx context.Context) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT index_name FROM knowledge_chunks ORDER BY index_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var index string
		if err := rows.Scan(&index); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		indexes = append(indexes, index)
	}

	return indexes, rows.Err()
}

// ListTickets returns every row of the tickets table
func (db *DB) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	rows, err := db.Pool.Query(ctx, TicketsQuery(db.TicketsTable))
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(
			&t.TicketNumber,
			&t.CreationDate,
			&t.CurrentStatus,
			&t.AssignedTo,
			&t.Priority,
			&t.Subject,
			&t.AnyOtherComments); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, nil
}

// TicketsQuery builds the ticket listing statement for a possibly
// schema-qualified table name. Every column is read as text.
func TicketsQuery(table string) string {
	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	return `
		SELECT COALESCE(ticket_number::text, ''),
		       COALESCE(creation_date::text, ''),
		       COALESCE(current_Status::text, ''),
		       COALESCE(assigned_to::text, ''),
		       COALESCE(priority::text, ''),
		       COALESCE(subject::text, ''),
		       COALESCE(any_other_comments::text, '')
		FROM ` + ident
}

// Ping checks the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close closes the database connection
func (db *DB) Close() {
	db.Pool.Close()
}

// VectorLiteral renders an embedding in pgvector's text input format
func VectorLiteral(v []float64) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}
