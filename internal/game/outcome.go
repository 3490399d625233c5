// internal/game/outcome.go
package game

import "github.com/jason-s-yu/roshambo/internal/models"

// Result is the outcome of one pair of moves.
type Result uint8

const (
	Draw Result = iota
	FirstWins
	SecondWins
)

func (r Result) String() string {
	switch r {
	case FirstWins:
		return "first_wins"
	case SecondWins:
		return "second_wins"
	default:
		return "draw"
	}
}

// beats holds the one move each move defeats.
var beats = map[models.Move]models.Move{
	models.Paper:   models.Rock,
	models.Scissor: models.Paper,
	models.Rock:    models.Scissor,
}

// Resolve compares the first and second player's moves.
func Resolve(a, b models.Move) Result {
	switch {
	case a == b:
		return Draw
	case beats[a] == b:
		return FirstWins
	default:
		return SecondWins
	}
}

// winnersOf returns the winners list for a full two-player roster.
func winnersOf(players []models.Player) []string {
	first, second := players[0], players[1]
	switch Resolve(first.Move, second.Move) {
	case FirstWins:
		return []string{string(first.Account)}
	case SecondWins:
		return []string{string(second.Account)}
	default:
		return []string{models.DrawMarker}
	}
}
