package dto

import "github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"

// SalaRequest is the payload for creating or replacing a room.
type SalaRequest struct {
	Nome              string `json:"nome" validate:"required,max=120"`
	CapacidadeTotal   int    `json:"capacidade_total" validate:"required,gt=0"`
	Localizacao       string `json:"localizacao" validate:"max=120"`
	Status            string `json:"status" validate:"omitempty,oneof=ATIVA INATIVA MANUTENCAO"`
	CadeirasMoveis    bool   `json:"cadeiras_moveis"`
	CadeirasEspeciais int    `json:"cadeiras_especiais" validate:"gte=0,ltefield=CapacidadeTotal"`
	AlocacaoID        string `json:"alocacao_id,omitempty" validate:"omitempty,max=64"`
}

// SalaQuery filters room listings.
type SalaQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=ATIVA INATIVA MANUTENCAO"`
	Search string `form:"search"`
}

// TurmaRequest is the payload for creating or replacing a class.
type TurmaRequest struct {
	Nome                 string `json:"nome" validate:"required,max=120"`
	Alunos               int    `json:"alunos" validate:"required,gt=0"`
	DuracaoMin           int    `json:"duracao_min" validate:"gte=0"`
	EspNecessarias       int    `json:"esp_necessarias" validate:"gte=0,ltefield=Alunos"`
	LocalizacaoPreferida string `json:"localizacao_preferida" validate:"max=120"`
}

// TurmaQuery filters class listings.
type TurmaQuery struct {
	Search string `form:"search"`
}

// AlocacaoRequest is the payload for creating or renaming an allocation.
type AlocacaoRequest struct {
	Nome      string `json:"nome" validate:"required,max=120"`
	Descricao string `json:"descricao" validate:"max=500"`
}

// AddSalaRequest attaches a room to an allocation.
type AddSalaRequest struct {
	SalaID string `json:"sala_id" validate:"required"`
}

// HorarioRequest creates a time-slot inside an allocation.
type HorarioRequest struct {
	DiaSemana string `json:"dia_semana" validate:"required,oneof=SEGUNDA TERCA QUARTA QUINTA SEXTA SABADO"`
	Periodo   string `json:"periodo" validate:"required,oneof=MATUTINO VESPERTINO NOTURNO"`
}

// CloneHorarioRequest copies a time-slot, with its classes, to a new (day, period).
type CloneHorarioRequest struct {
	AlocacaoID string `json:"alocacao_id" validate:"required"`
	DiaSemana  string `json:"dia_semana" validate:"required,oneof=SEGUNDA TERCA QUARTA QUINTA SEXTA SABADO"`
	Periodo    string `json:"periodo" validate:"required,oneof=MATUTINO VESPERTINO NOTURNO"`
}

// AddTurmaRequest attaches a class to a time-slot.
type AddTurmaRequest struct {
	TurmaID string `json:"turma_id" validate:"required"`
}

// RunRequest carries the soft preferences of an allocation run. Omitted flags
// default to true.
type RunRequest struct {
	PriorizarCapacidade  *bool `json:"priorizar_capacidade"`
	PriorizarEspeciais   *bool `json:"priorizar_especiais"`
	PriorizarProximidade *bool `json:"priorizar_proximidade"`
}

// Preferencias resolves the request flags.
func (r RunRequest) Preferencias() models.Preferencias {
	prefs := models.DefaultPreferencias()
	if r.PriorizarCapacidade != nil {
		prefs.PriorizarCapacidade = *r.PriorizarCapacidade
	}
	if r.PriorizarEspeciais != nil {
		prefs.PriorizarEspeciais = *r.PriorizarEspeciais
	}
	if r.PriorizarProximidade != nil {
		prefs.PriorizarProximidade = *r.PriorizarProximidade
	}
	return prefs
}

// ResultadosQuery filters the results listing.
type ResultadosQuery struct {
	Ultima bool `form:"ultima"`
}

// ExportQuery selects the export format of the results listing.
type ExportQuery struct {
	Formato string `form:"formato" validate:"omitempty,oneof=csv pdf"`
	Ultima  bool   `form:"ultima"`
}

// RunAccepted is returned when a run was queued.
type RunAccepted struct {
	ExecucaoID string                `json:"execucao_id"`
	Status     models.ExecucaoStatus `json:"status"`
}
