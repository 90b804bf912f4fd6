package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Eyepatch5263/Scribble-server/domain"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// SQLiteRepo is the single file variant of PostgresRepo. Players are kept as
// a JSON text column and searched with json_each.
type SQLiteRepo struct {
	db *sql.DB
}

// OpenSQLite opens the database file with the settings the repo relies on.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers anyway
	db.SetMaxOpenConns(1)
	return db, nil
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

func (s *SQLiteRepo) Close() error {
	return s.db.Close()
}

func scanSQLiteRoom(row *sql.Row) (domain.Room, error) {
	var (
		room    domain.Room
		players string
	)
	err := row.Scan(&room.Name, &room.Word, &room.Occupancy, &room.MaxRounds,
		&room.CurrentRound, &room.TurnIndex, &room.IsJoin, &players)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Room{}, domain.ErrRoomNotFound
		}
		return domain.Room{}, wrapDBError(err)
	}
	if err := json.Unmarshal([]byte(players), &room.Players); err != nil {
		return domain.Room{}, wrapDBError(err)
	}
	room.RecomputeTurn()
	return room, nil
}

func (s *SQLiteRepo) FindByName(ctx context.Context, name string) (domain.Room, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE name = ?`, name)
	return scanSQLiteRoom(row)
}

func (s *SQLiteRepo) FindByMemberConnectionID(ctx context.Context, connID string) (domain.Room, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+roomColumns+` FROM rooms
		WHERE EXISTS (
			SELECT 1 FROM json_each(rooms.players)
			WHERE json_extract(json_each.value, '$.socketID') = ?
		)
		LIMIT 1`, connID)
	return scanSQLiteRoom(row)
}

func (s *SQLiteRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE name = ?)`, name).Scan(&exists)
	if err != nil {
		return false, wrapDBError(err)
	}
	return exists, nil
}

func (s *SQLiteRepo) Save(ctx context.Context, room domain.Room) error {
	players, err := json.Marshal(playersOrEmpty(room.Players))
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rooms (`+roomColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET
			word = excluded.word,
			occupancy = excluded.occupancy,
			max_rounds = excluded.max_rounds,
			current_round = excluded.current_round,
			turn_index = excluded.turn_index,
			is_join = excluded.is_join,
			players = excluded.players,
			updated_at = CURRENT_TIMESTAMP`,
		room.Name, room.Word, room.Occupancy, room.MaxRounds,
		room.CurrentRound, room.TurnIndex, room.IsJoin, string(players))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return domain.ErrInvalidRoomConfig
		}
		return wrapDBError(err)
	}
	return nil
}

func (s *SQLiteRepo) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE name = ?`, name); err != nil {
		return wrapDBError(err)
	}
	return nil
}
