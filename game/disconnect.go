package game

import (
	"context"
	"errors"

	"github.com/Eyepatch5263/Scribble-server/domain"
	"github.com/rs/zerolog/log"
)

// Disconnect removes the connection's player from whatever room holds it.
// An empty room is deleted; a lone survivor gets the leaderboard.
func (s *Service) Disconnect(ctx context.Context, connID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	found, err := s.repo.FindByMemberConnectionID(ctx, connID)
	if errors.Is(err, domain.ErrRoomNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(found.Name)
	defer unlock()

	// Re-read under the lock; the room may have changed since the lookup.
	room, err := s.repo.FindByName(ctx, found.Name)
	if errors.Is(err, domain.ErrRoomNotFound) {
		s.broadcaster.Unsubscribe(connID, found.Name)
		return nil
	}
	if err != nil {
		return err
	}

	s.broadcaster.Unsubscribe(connID, room.Name)

	idx := room.PlayerIndexBySocket(connID)
	if idx < 0 {
		return nil
	}
	removed := room.RemovePlayerAt(idx)

	logger := log.With().Str("room", room.Name).Str("conn", connID).Str("nickname", removed.Nickname).Logger()

	if len(room.Players) == 0 {
		if err := s.repo.Delete(ctx, room.Name); err != nil {
			return err
		}
		logger.Info().Msg("last player left, room deleted")
		return nil
	}

	if err := s.repo.Save(ctx, room); err != nil {
		return err
	}

	if len(room.Players) == 1 {
		s.broadcaster.SendToGroupExcept(room.Name, connID, EventShowLeaderboard, room.Players)
	} else {
		s.broadcaster.SendToGroupExcept(room.Name, connID, EventUserDisconnected, room)
	}

	logger.Info().Int("players", len(room.Players)).Msg("player disconnected")
	return nil
}
