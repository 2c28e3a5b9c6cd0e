package models

import "time"

// Turma is a student group that needs a room for one time-slot.
type Turma struct {
	ID                   string    `db:"id" json:"id"`
	Nome                 string    `db:"nome" json:"nome"`
	Alunos               int       `db:"alunos" json:"alunos"`
	DuracaoMin           int       `db:"duracao_min" json:"duracao_min"`
	EspNecessarias       int       `db:"esp_necessarias" json:"esp_necessarias"`
	LocalizacaoPreferida string    `db:"localizacao_preferida" json:"localizacao_preferida,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// TurmaFilter narrows class listings.
type TurmaFilter struct {
	Search string
}
