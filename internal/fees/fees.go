// internal/fees/fees.go
package fees

import (
	"fmt"
	"math"

	"github.com/jason-s-yu/roshambo/internal/models"
)

// BPSDenominator is 100% expressed in basis points.
const BPSDenominator = 10_000

// Schedule holds the named minimum deposits for each paid operation.
type Schedule struct {
	Room        models.Amount `json:"room"`
	JoinRequest models.Amount `json:"join_request"`
	Game        models.Amount `json:"game"`
	Play        models.Amount `json:"play"`
	Stake       models.Amount `json:"stake"`

	// WinnerBonusBPS is the share of the play fee paid to the winner on top of their own fee.
	WinnerBonusBPS uint64 `json:"winner_bonus_bps"`
}

// DefaultSchedule prices operations in micro units
// (room 0.7, game 0.5, play 0.2) and pays the winner a 50% bonus.
func DefaultSchedule() Schedule {
	return Schedule{
		Room:           700_000,
		JoinRequest:    100_000,
		Game:           500_000,
		Play:           200_000,
		Stake:          200_000,
		WinnerBonusBPS: 5_000,
	}
}

// Validate rejects schedules whose winner reward could exceed the pool of a completed game.
func (s Schedule) Validate() error {
	if s.WinnerBonusBPS > BPSDenominator {
		return fmt.Errorf("winner bonus %d bps exceeds %d", s.WinnerBonusBPS, BPSDenominator)
	}
	if s.Play == 0 {
		return fmt.Errorf("play fee must be positive")
	}
	if uint64(s.Play) > math.MaxUint64/BPSDenominator {
		return fmt.Errorf("play fee %d is too large to apply a bonus to", s.Play)
	}
	return nil
}

// WinnerReward is the play fee plus the configured bonus fraction of it.
func (s Schedule) WinnerReward() models.Amount {
	bonus := uint64(s.Play) * s.WinnerBonusBPS / BPSDenominator
	return s.Play + models.Amount(bonus)
}

// Verify fails when the attached value is below the required minimum.
func Verify(name string, attached, required models.Amount) error {
	if attached < required {
		return fmt.Errorf("%w: %s requires at least %d, got %d", models.ErrInsufficientFee, name, required, attached)
	}
	return nil
}
