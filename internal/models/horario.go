package models

import "time"

// DiaSemana is the weekday of a time-slot.
type DiaSemana string

const (
	DiaSegunda DiaSemana = "SEGUNDA"
	DiaTerca   DiaSemana = "TERCA"
	DiaQuarta  DiaSemana = "QUARTA"
	DiaQuinta  DiaSemana = "QUINTA"
	DiaSexta   DiaSemana = "SEXTA"
	DiaSabado  DiaSemana = "SABADO"
)

// Periodo is the part of the day of a time-slot.
type Periodo string

const (
	PeriodoMatutino   Periodo = "MATUTINO"
	PeriodoVespertino Periodo = "VESPERTINO"
	PeriodoNoturno    Periodo = "NOTURNO"
)

var (
	diaOrder     = map[DiaSemana]int{DiaSegunda: 1, DiaTerca: 2, DiaQuarta: 3, DiaQuinta: 4, DiaSexta: 5, DiaSabado: 6}
	periodoOrder = map[Periodo]int{PeriodoMatutino: 1, PeriodoVespertino: 2, PeriodoNoturno: 3}
)

// Ordem returns the weekday position starting at 1 for Monday, or 0 when unknown.
func (d DiaSemana) Ordem() int { return diaOrder[d] }

// Ordem returns the period position within the day, or 0 when unknown.
func (p Periodo) Ordem() int { return periodoOrder[p] }

// SlotLess orders (day, period) pairs chronologically.
func SlotLess(d1 DiaSemana, p1 Periodo, d2 DiaSemana, p2 Periodo) bool {
	if d1.Ordem() != d2.Ordem() {
		return d1.Ordem() < d2.Ordem()
	}
	return p1.Ordem() < p2.Ordem()
}

// Horario is a (day, period) slot inside an allocation.
type Horario struct {
	ID         string    `db:"id" json:"id"`
	AlocacaoID string    `db:"alocacao_id" json:"alocacao_id"`
	DiaSemana  DiaSemana `db:"dia_semana" json:"dia_semana"`
	Periodo    Periodo   `db:"periodo" json:"periodo"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// HorarioDetalhado nests the classes scheduled in a slot.
type HorarioDetalhado struct {
	Horario
	Turmas []Turma `json:"turmas"`
}

// HorarioTurma is a row of the slot/class membership table.
type HorarioTurma struct {
	HorarioID string `db:"horario_id"`
	Turma
}
