package allocation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
)

// Occupancy band considered ideal for a room.
const (
	idealOccupancyMin = 0.70
	idealOccupancyMax = 0.95

	overfillSlope   = 4.0
	borrowPenalty   = 0.9
	reservedSpecial = 0.85
)

// Weights of each score component.
const (
	weightOccupancy         = 50.0
	weightOccupancyPriority = 60.0
	weightSpecial           = 35.0
	weightSpecialPriority   = 45.0
	weightProximity         = 15.0
)

// Compatibility is the outcome of scoring one room for one class.
type Compatibility struct {
	Score     float64
	Rationale models.Rationale
	HardFail  bool
	// Motivo is set on hard failures and tells which constraint could not be met.
	Motivo models.MotivoNaoAlocacao
	// EffectiveCapacity includes seats the best donor could lend.
	EffectiveCapacity int
}

// Donor is a room whose special seats may be lent to another room.
type Donor struct {
	ID       string
	Nome     string
	Lendable int
}

// Donors returns the rooms allowed to lend seats: active rooms flagged as
// movable with at least one special seat, ordered by lendable seats then id.
func Donors(rooms []models.Sala) []Donor {
	donors := make([]Donor, 0)
	for _, room := range rooms {
		if !room.Ativa() || !room.CadeirasMoveis || room.CadeirasEspeciais <= 0 {
			continue
		}
		donors = append(donors, Donor{ID: room.ID, Nome: room.Nome, Lendable: room.CadeirasEspeciais})
	}
	sort.Slice(donors, func(i, j int) bool {
		if donors[i].Lendable != donors[j].Lendable {
			return donors[i].Lendable > donors[j].Lendable
		}
		return donors[i].ID < donors[j].ID
	})
	return donors
}

// bestDonor picks the first donor that is not the target room. donors must be
// ordered as returned by Donors.
func bestDonor(target string, donors []Donor) *Donor {
	for i := range donors {
		if donors[i].ID != target {
			return &donors[i]
		}
	}
	return nil
}

// Score rates how well room fits class. Hard failures always score 0.
func Score(room models.Sala, class models.Turma, donors []Donor, prefs models.Preferencias) Compatibility {
	donor := bestDonor(room.ID, donors)
	lendable := 0
	if donor != nil {
		lendable = donor.Lendable
	}

	capacityGap := max(0, class.Alunos-room.CapacidadeTotal)
	specialGap := max(0, class.EspNecessarias-room.CadeirasEspeciais)
	borrowed := max(capacityGap, specialGap)

	result := Compatibility{
		EffectiveCapacity: room.CapacidadeTotal + lendable,
		Rationale: models.Rationale{
			SpecialAvailable: room.CadeirasEspeciais,
		},
	}

	if borrowed > lendable {
		result.HardFail = true
		if capacityGap > lendable {
			result.Motivo = models.MotivoCapacidadeInsuficiente
		} else {
			result.Motivo = models.MotivoEspeciaisInsuficientes
		}
		result.Rationale.OccupancyPct = round2(100 * float64(class.Alunos) / float64(room.CapacidadeTotal))
		result.Rationale.SpecialUsed = min(class.EspNecessarias, room.CadeirasEspeciais)
		return result
	}

	capacity := room.CapacidadeTotal + borrowed
	occupancy := float64(class.Alunos) / float64(capacity)

	result.Rationale.OccupancyPct = round2(100 * occupancy)
	result.Rationale.SpecialUsed = class.EspNecessarias
	if borrowed > 0 {
		result.Rationale.MovableBorrowed = borrowed
		result.Rationale.MovableSourceRoom = donor.Nome
		result.Rationale.MovableSourceID = donor.ID
	}

	occWeight := weightOccupancy
	if prefs.PriorizarCapacidade {
		occWeight = weightOccupancyPriority
	}
	specWeight := weightSpecial
	if prefs.PriorizarEspeciais {
		specWeight = weightSpecialPriority
	}
	proxWeight := 0.0
	if prefs.PriorizarProximidade {
		proxWeight = weightProximity
	}

	weighted := occWeight*occupancyComponent(occupancy) +
		specWeight*specialComponent(room, class, prefs) +
		proxWeight*proximityComponent(room, class)
	score := 100 * weighted / (occWeight + specWeight + proxWeight)
	if borrowed > 0 {
		score *= borrowPenalty
	}

	result.Score = round2(math.Max(0, math.Min(100, score)))
	return result
}

// occupancyComponent is 1 inside the ideal band, rises linearly towards it
// from below and falls linearly above it.
func occupancyComponent(ratio float64) float64 {
	switch {
	case ratio < idealOccupancyMin:
		return ratio / idealOccupancyMin
	case ratio > idealOccupancyMax:
		return math.Max(0, 1-(ratio-idealOccupancyMax)*overfillSlope)
	default:
		return 1
	}
}

func specialComponent(room models.Sala, class models.Turma, prefs models.Preferencias) float64 {
	if class.EspNecessarias == 0 {
		if prefs.PriorizarEspeciais && room.CadeirasEspeciais > 0 {
			return reservedSpecial
		}
		return 1
	}
	if room.CadeirasEspeciais >= class.EspNecessarias {
		return 1
	}
	return 0.5 + 0.5*float64(room.CadeirasEspeciais)/float64(class.EspNecessarias)
}

func proximityComponent(room models.Sala, class models.Turma) float64 {
	preferred := strings.TrimSpace(class.LocalizacaoPreferida)
	if preferred == "" {
		return 1
	}
	if strings.EqualFold(preferred, strings.TrimSpace(room.Localizacao)) {
		return 1
	}
	return 0
}

// Observacoes renders the rationale in the legacy text format that older
// clients still parse.
func Observacoes(r models.Rationale) string {
	text := fmt.Sprintf("Ocupacao: %.1f%% | Especiais: %d/%d", r.OccupancyPct, r.SpecialUsed, r.SpecialAvailable)
	if r.MovableBorrowed > 0 {
		text += fmt.Sprintf(" | +%d moveis (%s)", r.MovableBorrowed, strings.ReplaceAll(r.MovableSourceRoom, ")", ""))
	}
	return text
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
