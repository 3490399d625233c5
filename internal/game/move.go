// internal/game/move.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/roshambo/internal/chain"
	"github.com/jason-s-yu/roshambo/internal/models"
)

const (
	// moveBufferLen is how many random bytes are read per draw attempt.
	moveBufferLen = 3
	// maxMoveDraws bounds the retries when every byte of a buffer is discarded.
	maxMoveDraws = 8
	// unusableByte is skipped because 256 values don't split evenly into three moves.
	unusableByte = 255
)

// drawMove assigns a uniformly distributed move from the environment's randomness.
func drawMove(env chain.Env) (models.Move, error) {
	for attempt := 0; attempt < maxMoveDraws; attempt++ {
		buf, err := env.RandomBytes(moveBufferLen)
		if err != nil {
			return 0, fmt.Errorf("draw move: %w: %v", models.ErrRandomness, err)
		}
		for _, b := range buf {
			if b != unusableByte {
				return models.Move(b % 3), nil
			}
		}
	}
	return 0, fmt.Errorf("draw move after %d attempts: %w", maxMoveDraws, models.ErrRandomness)
}
