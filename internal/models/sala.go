package models

import "time"

// SalaStatus represents the operational state of a room.
type SalaStatus string

const (
	SalaStatusAtiva      SalaStatus = "ATIVA"
	SalaStatusInativa    SalaStatus = "INATIVA"
	SalaStatusManutencao SalaStatus = "MANUTENCAO"
)

// Valid reports whether s is a known status.
func (s SalaStatus) Valid() bool {
	switch s {
	case SalaStatusAtiva, SalaStatusInativa, SalaStatusManutencao:
		return true
	}
	return false
}

// Sala is a physical room that can host a class.
type Sala struct {
	ID                string     `db:"id" json:"id"`
	Nome              string     `db:"nome" json:"nome"`
	CapacidadeTotal   int        `db:"capacidade_total" json:"capacidade_total"`
	Localizacao       string     `db:"localizacao" json:"localizacao"`
	Status            SalaStatus `db:"status" json:"status"`
	CadeirasMoveis    bool       `db:"cadeiras_moveis" json:"cadeiras_moveis"`
	CadeirasEspeciais int        `db:"cadeiras_especiais" json:"cadeiras_especiais"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Ativa reports whether the room may receive classes.
func (s Sala) Ativa() bool {
	return s.Status == SalaStatusAtiva
}

// SalaFilter narrows room listings.
type SalaFilter struct {
	Status SalaStatus
	Search string
}
