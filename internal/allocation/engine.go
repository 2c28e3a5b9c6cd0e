// Package allocation matches classes to rooms inside a single time-slot.
package allocation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
)

// Strategy selects the matching algorithm.
type Strategy string

const (
	// StrategyHungarian finds the optimal matching.
	StrategyHungarian Strategy = "hungarian"
	// StrategyGreedy takes the best pair first. It is an approximation.
	StrategyGreedy Strategy = "greedy"
)

// ErrMalformedInput is returned when rooms or classes break their invariants.
var ErrMalformedInput = errors.New("malformed allocation input")

// Assignment places one class in one room.
type Assignment struct {
	Sala      models.Sala
	Turma     models.Turma
	Score     float64
	Rationale models.Rationale
}

// Unassigned is a class the engine could not place.
type Unassigned struct {
	Turma  models.Turma
	Motivo models.MotivoNaoAlocacao
}

// Stats describes the matrix the engine worked on.
type Stats struct {
	Strategy       Strategy `json:"estrategia"`
	SalasAtivas    int      `json:"salas_ativas"`
	SalasInativas  int      `json:"salas_inativas"`
	Doadoras       int      `json:"salas_doadoras"`
	ParesAvaliados int      `json:"pares_avaliados"`
	ParesViaveis   int      `json:"pares_viaveis"`
	ScoreMaximo    float64  `json:"score_maximo_possivel"`
	ScoreObtido    float64  `json:"score_obtido"`
}

// Outcome is the result of matching one time-slot.
type Outcome struct {
	Assignments     []Assignment
	Unassigned      []Unassigned
	ScoreOtimizacao float64
	AcuraciaModelo  float64
	Stats           Stats
}

// Engine assigns classes to rooms. It holds no state between calls and is safe
// for concurrent use.
type Engine struct {
	strategy Strategy
	match    matcher
}

// NewEngine builds an engine for the given strategy, defaulting to the
// Hungarian algorithm for unknown values.
func NewEngine(strategy string) *Engine {
	if Strategy(strategy) == StrategyGreedy {
		return &Engine{strategy: StrategyGreedy, match: greedyMatch}
	}
	return &Engine{strategy: StrategyHungarian, match: hungarianMatch}
}

// Strategy returns the active matching strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Assign matches classes to the active rooms. Classes that cannot be placed are
// reported in Unassigned; an error is only returned for malformed input.
func (e *Engine) Assign(rooms []models.Sala, classes []models.Turma, prefs models.Preferencias) (*Outcome, error) {
	if err := validateInput(rooms, classes); err != nil {
		return nil, err
	}

	active := make([]models.Sala, 0, len(rooms))
	for _, room := range rooms {
		if room.Ativa() {
			active = append(active, room)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })

	ordered := append([]models.Turma(nil), classes...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Alunos != ordered[j].Alunos {
			return ordered[i].Alunos > ordered[j].Alunos
		}
		return ordered[i].ID < ordered[j].ID
	})

	donors := Donors(active)
	outcome := &Outcome{
		Assignments: make([]Assignment, 0, len(ordered)),
		Unassigned:  make([]Unassigned, 0),
		Stats: Stats{
			Strategy:       e.strategy,
			SalasAtivas:    len(active),
			SalasInativas:  len(rooms) - len(active),
			Doadoras:       len(donors),
			ParesAvaliados: len(active) * len(ordered),
		},
	}

	if len(active) == 0 {
		for _, class := range ordered {
			outcome.Unassigned = append(outcome.Unassigned, Unassigned{Turma: class, Motivo: models.MotivoSemSalasAtivas})
		}
		return outcome, nil
	}

	matrix := make([][]Compatibility, len(ordered))
	scores := make([][]float64, len(ordered))
	feasible := make([][]bool, len(ordered))
	classSize := make([]int, len(ordered))
	for i, class := range ordered {
		matrix[i] = make([]Compatibility, len(active))
		scores[i] = make([]float64, len(active))
		feasible[i] = make([]bool, len(active))
		classSize[i] = class.Alunos
		for j, room := range active {
			c := Score(room, class, donors, prefs)
			matrix[i][j] = c
			scores[i][j] = c.Score
			feasible[i][j] = !c.HardFail
			if !c.HardFail {
				outcome.Stats.ParesViaveis++
			}
		}
	}

	match := e.match(scores, feasible, classSize)

	var best, achieved float64
	for i, class := range ordered {
		bestForClass, anyFeasible := bestScore(matrix[i])
		best += bestForClass

		col := match[i]
		if col >= 0 {
			c := matrix[i][col]
			achieved += c.Score
			outcome.Assignments = append(outcome.Assignments, Assignment{
				Sala:      active[col],
				Turma:     class,
				Score:     c.Score,
				Rationale: c.Rationale,
			})
			continue
		}
		outcome.Unassigned = append(outcome.Unassigned, Unassigned{Turma: class, Motivo: rejectionReason(matrix[i], class, anyFeasible)})
	}

	outcome.Stats.ScoreMaximo = round2(best)
	outcome.Stats.ScoreObtido = round2(achieved)
	// Mean compatibility of placed classes scaled by the placed fraction.
	if len(ordered) > 0 {
		outcome.ScoreOtimizacao = round2(achieved / float64(len(ordered)))
	}
	if best > 0 {
		outcome.AcuraciaModelo = round2(min(100, 100*achieved/best))
	}
	return outcome, nil
}

func bestScore(row []Compatibility) (float64, bool) {
	best := 0.0
	found := false
	for _, c := range row {
		if c.HardFail {
			continue
		}
		found = true
		if c.Score > best {
			best = c.Score
		}
	}
	return best, found
}

// rejectionReason explains why a class was left out. Only active rooms are
// considered.
func rejectionReason(row []Compatibility, class models.Turma, anyFeasible bool) models.MotivoNaoAlocacao {
	if anyFeasible {
		return models.MotivoSalasEsgotadas
	}
	for _, c := range row {
		if c.EffectiveCapacity >= class.Alunos {
			return models.MotivoEspeciaisInsuficientes
		}
	}
	return models.MotivoCapacidadeInsuficiente
}

func validateInput(rooms []models.Sala, classes []models.Turma) error {
	seenRooms := make(map[string]struct{}, len(rooms))
	for _, room := range rooms {
		switch {
		case room.ID == "":
			return fmt.Errorf("%w: sala sem id", ErrMalformedInput)
		case room.CapacidadeTotal <= 0:
			return fmt.Errorf("%w: sala %s com capacidade %d", ErrMalformedInput, room.ID, room.CapacidadeTotal)
		case room.CadeirasEspeciais < 0 || room.CadeirasEspeciais > room.CapacidadeTotal:
			return fmt.Errorf("%w: sala %s com %d cadeiras especiais para capacidade %d", ErrMalformedInput, room.ID, room.CadeirasEspeciais, room.CapacidadeTotal)
		case !room.Status.Valid():
			return fmt.Errorf("%w: sala %s com status %q", ErrMalformedInput, room.ID, room.Status)
		}
		if _, dup := seenRooms[room.ID]; dup {
			return fmt.Errorf("%w: sala %s duplicada", ErrMalformedInput, room.ID)
		}
		seenRooms[room.ID] = struct{}{}
	}

	seenClasses := make(map[string]struct{}, len(classes))
	for _, class := range classes {
		switch {
		case class.ID == "":
			return fmt.Errorf("%w: turma sem id", ErrMalformedInput)
		case class.Alunos <= 0:
			return fmt.Errorf("%w: turma %s com %d alunos", ErrMalformedInput, class.ID, class.Alunos)
		case class.EspNecessarias < 0:
			return fmt.Errorf("%w: turma %s com %d cadeiras especiais necessarias", ErrMalformedInput, class.ID, class.EspNecessarias)
		}
		if _, dup := seenClasses[class.ID]; dup {
			return fmt.Errorf("%w: turma %s duplicada", ErrMalformedInput, class.ID)
		}
		seenClasses[class.ID] = struct{}{}
	}
	return nil
}
