// internal/settlement/settlement.go
package settlement

import (
	"context"
	"fmt"

	"github.com/jason-s-yu/roshambo/internal/chain"
	"github.com/jason-s-yu/roshambo/internal/fees"
	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/jason-s-yu/roshambo/internal/store"
	"github.com/sirupsen/logrus"
)

// Role tells why a payee was paid.
type Role string

const (
	RoleWinner Role = "winner"
	RoleBacker Role = "backer"
	RoleRefund Role = "refund"
)

// Payout is one transfer made by settlement.
type Payout struct {
	To     models.AccountID `json:"to"`
	Amount models.Amount    `json:"amount"`
	Role   Role             `json:"role"`
}

// Settlement distributes a completed game's pool.
type Settlement struct {
	store  store.Store
	fees   fees.Schedule
	logger logrus.FieldLogger
}

func New(s store.Store, schedule fees.Schedule, logger logrus.FieldLogger) *Settlement {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Settlement{
		store:  s,
		fees:   schedule,
		logger: logger.WithField("component", "settlement"),
	}
}

// Payout pays out a completed game once, on behalf of its creator.
//
// A decisive game pays the winner their play fee plus the bonus, then splits
// what is left evenly between the stakers who backed the winner. Anything
// that doesn't divide evenly, or that nobody backed, stays in the pool.
// A drawn game refunds every player fee and every stake.
func (s *Settlement) Payout(ctx context.Context, env chain.Env, gameID string) ([]Payout, error) {
	g, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if env.Caller() != g.CreatedBy {
		return nil, fmt.Errorf("only the creator of game %s can pay out: %w", gameID, models.ErrUnauthorized)
	}
	if g.Status != models.Completed {
		return nil, fmt.Errorf("game %s is %s: %w", gameID, g.Status, models.ErrNotCompleted)
	}
	if g.Settled {
		return nil, fmt.Errorf("game %s: %w", gameID, models.ErrAlreadySettled)
	}

	var payouts []Payout
	if g.IsDraw() {
		payouts = refunds(g)
	} else {
		winner, ok := g.Winner()
		if !ok {
			return nil, fmt.Errorf("game %s has no resolved winner", gameID)
		}
		payouts = s.winnings(g, winner)
	}

	var total models.Amount
	for _, p := range payouts {
		total += p.Amount
	}
	if total > g.Pool {
		return nil, fmt.Errorf("game %s: payouts %d exceed pool %d", gameID, total, g.Pool)
	}
	for _, p := range payouts {
		if err := env.Transfer(p.To, p.Amount); err != nil {
			return nil, fmt.Errorf("pay %s: %w", p.To, err)
		}
	}

	g.Pool -= total
	g.Settled = true
	env.Writes().PutGame(g, false)

	s.logger.WithFields(logrus.Fields{
		"game":      gameID,
		"payees":    len(payouts),
		"paid":      total,
		"remaining": g.Pool,
	}).Debug("game paid out")
	return payouts, nil
}

func (s *Settlement) winnings(g *models.Game, winner models.AccountID) []Payout {
	var fee models.Amount
	for _, p := range g.Players {
		if p.Account == winner {
			fee = p.FeePaid
			break
		}
	}
	reward := fee + models.Amount(uint64(fee)*s.fees.WinnerBonusBPS/fees.BPSDenominator)
	if reward > g.Pool {
		reward = g.Pool
	}

	payouts := []Payout{}
	if reward > 0 {
		payouts = append(payouts, Payout{To: winner, Amount: reward, Role: RoleWinner})
	}

	var backers []models.Staker
	for _, st := range g.Stakers {
		if st.Backed == winner {
			backers = append(backers, st)
		}
	}
	if len(backers) == 0 {
		return payouts
	}
	share := (g.Pool - reward) / models.Amount(len(backers))
	if share == 0 {
		return payouts
	}
	for _, st := range backers {
		payouts = append(payouts, Payout{To: st.Account, Amount: share, Role: RoleBacker})
	}
	return payouts
}

func refunds(g *models.Game) []Payout {
	payouts := []Payout{}
	for _, p := range g.Players {
		if p.FeePaid > 0 {
			payouts = append(payouts, Payout{To: p.Account, Amount: p.FeePaid, Role: RoleRefund})
		}
	}
	for _, st := range g.Stakers {
		if st.Amount > 0 {
			payouts = append(payouts, Payout{To: st.Account, Amount: st.Amount, Role: RoleRefund})
		}
	}
	return payouts
}
