package models

import "time"

// Alocacao groups rooms and time-slots for an allocation run.
type Alocacao struct {
	ID        string    `db:"id" json:"id"`
	Nome      string    `db:"nome" json:"nome"`
	Descricao string    `db:"descricao" json:"descricao"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AlocacaoDetalhada is the nested view served to the frontend.
type AlocacaoDetalhada struct {
	Alocacao
	Salas    []Sala             `json:"salas"`
	Horarios []HorarioDetalhado `json:"horarios"`
}

// AlocacaoSala is a row of the allocation/room membership table.
type AlocacaoSala struct {
	AlocacaoID string `db:"alocacao_id"`
	Sala
}

// Preferencias are the soft-preference flags of an allocation run.
type Preferencias struct {
	PriorizarCapacidade  bool `json:"priorizar_capacidade"`
	PriorizarEspeciais   bool `json:"priorizar_especiais"`
	PriorizarProximidade bool `json:"priorizar_proximidade"`
}

// DefaultPreferencias enables every preference.
func DefaultPreferencias() Preferencias {
	return Preferencias{PriorizarCapacidade: true, PriorizarEspeciais: true, PriorizarProximidade: true}
}
