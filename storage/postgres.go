package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Eyepatch5263/Scribble-server/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const roomColumns = `name, word, occupancy, max_rounds, current_round, turn_index, is_join, players`

// PostgresRepo stores each room as one row with its players as a JSONB
// document.
type PostgresRepo struct {
	pool         *pgxpool.Pool
	wordsTimeout time.Duration
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresRepo{pool: pool, wordsTimeout: 5 * time.Second}, nil
}

func (pg *PostgresRepo) Close() {
	pg.pool.Close()
}

func scanRoom(row pgx.Row) (domain.Room, error) {
	var (
		room    domain.Room
		players []byte
	)
	err := row.Scan(&room.Name, &room.Word, &room.Occupancy, &room.MaxRounds,
		&room.CurrentRound, &room.TurnIndex, &room.IsJoin, &players)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Room{}, domain.ErrRoomNotFound
		}
		return domain.Room{}, wrapDBError(err)
	}
	if err := json.Unmarshal(players, &room.Players); err != nil {
		return domain.Room{}, wrapDBError(err)
	}
	room.RecomputeTurn()
	return room, nil
}

func (pg *PostgresRepo) FindByName(ctx context.Context, name string) (domain.Room, error) {
	row := pg.pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE name = $1`, name)
	return scanRoom(row)
}

func (pg *PostgresRepo) FindByMemberConnectionID(ctx context.Context, connID string) (domain.Room, error) {
	filter, err := json.Marshal([]map[string]string{{"socketID": connID}})
	if err != nil {
		return domain.Room{}, err
	}
	row := pg.pool.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE players @> $1::jsonb LIMIT 1`, string(filter))
	return scanRoom(row)
}

func (pg *PostgresRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := pg.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, wrapDBError(err)
	}
	return exists, nil
}

func (pg *PostgresRepo) Save(ctx context.Context, room domain.Room) error {
	players, err := json.Marshal(playersOrEmpty(room.Players))
	if err != nil {
		return err
	}

	_, err = pg.pool.Exec(ctx, `
		INSERT INTO rooms (`+roomColumns+`, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, now())
		ON CONFLICT (name) DO UPDATE SET
			word = EXCLUDED.word,
			occupancy = EXCLUDED.occupancy,
			max_rounds = EXCLUDED.max_rounds,
			current_round = EXCLUDED.current_round,
			turn_index = EXCLUDED.turn_index,
			is_join = EXCLUDED.is_join,
			players = EXCLUDED.players,
			updated_at = now()`,
		room.Name, room.Word, room.Occupancy, room.MaxRounds,
		room.CurrentRound, room.TurnIndex, room.IsJoin, string(players))
	if err != nil {
		var pgErr *pgconn.PgError
		// 23514 is check_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return domain.ErrInvalidRoomConfig
		}
		return wrapDBError(err)
	}
	return nil
}

func (pg *PostgresRepo) Delete(ctx context.Context, name string) error {
	if _, err := pg.pool.Exec(ctx, `DELETE FROM rooms WHERE name = $1`, name); err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Generate picks count random words from the words table. Failures yield an
// empty slice so callers can fall back to another supplier.
func (pg *PostgresRepo) Generate(count int) []string {
	ctx, cancel := context.WithTimeout(context.Background(), pg.wordsTimeout)
	defer cancel()

	rows, err := pg.pool.Query(ctx, `SELECT word FROM words ORDER BY RANDOM() LIMIT $1`, count)
	if err != nil {
		log.Error().Err(err).Msg("failed to query random words")
		return []string{}
	}
	defer rows.Close()

	words := make([]string, 0, count)
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			continue
		}
		words = append(words, word)
	}
	return words
}

func playersOrEmpty(players []domain.Player) []domain.Player {
	if players == nil {
		return []domain.Player{}
	}
	return players
}
