package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// MotivoNaoAlocacao is the reason a class was left without a room.
type MotivoNaoAlocacao string

const (
	MotivoSemSalasAtivas         MotivoNaoAlocacao = "NO_ACTIVE_ROOMS"
	MotivoCapacidadeInsuficiente MotivoNaoAlocacao = "CAPACITY_INSUFFICIENT"
	MotivoEspeciaisInsuficientes MotivoNaoAlocacao = "SPECIAL_SEATS_INSUFFICIENT"
	MotivoSalasEsgotadas         MotivoNaoAlocacao = "ROOMS_EXHAUSTED"
	MotivoErroProcessamento      MotivoNaoAlocacao = "PROCESSING_ERROR"
)

var motivoDescricoes = map[MotivoNaoAlocacao]string{
	MotivoSemSalasAtivas:         "Nenhuma sala ativa disponivel",
	MotivoCapacidadeInsuficiente: "Nenhuma sala comporta a quantidade de alunos",
	MotivoEspeciaisInsuficientes: "Cadeiras especiais insuficientes em todas as salas",
	MotivoSalasEsgotadas:         "Salas compativeis ja ocupadas por outras turmas",
	MotivoErroProcessamento:      "Erro ao processar o horario",
}

// Descricao returns the human readable reason shown in the UI.
func (m MotivoNaoAlocacao) Descricao() string {
	if d, ok := motivoDescricoes[m]; ok {
		return d
	}
	return string(m)
}

// Rationale explains a compatibility score in structured form.
type Rationale struct {
	OccupancyPct      float64 `json:"occupancy_pct"`
	SpecialUsed       int     `json:"special_used"`
	SpecialAvailable  int     `json:"special_available"`
	MovableBorrowed   int     `json:"movable_borrowed"`
	MovableSourceRoom string  `json:"movable_source_room,omitempty"`
	MovableSourceID   string  `json:"movable_source_room_id,omitempty"`
}

// ResultadoAlocacao is the persisted header of one slot outcome in one run.
type ResultadoAlocacao struct {
	ID                string         `db:"id"`
	AlocacaoID        string         `db:"alocacao_id"`
	HorarioID         *string        `db:"horario_id"`
	ExecucaoID        string         `db:"execucao_id"`
	DiaSemana         DiaSemana      `db:"dia_semana"`
	Periodo           Periodo        `db:"periodo"`
	ScoreOtimizacao   float64        `db:"score_otimizacao"`
	AcuraciaModelo    float64        `db:"acuracia_modelo"`
	TotalTurmas       int            `db:"total_turmas"`
	TurmasAlocadas    int            `db:"turmas_alocadas"`
	TurmasSobrando    int            `db:"turmas_sobrando"`
	AnaliseDetalhada  types.JSONText `db:"analise_detalhada"`
	DebugInfo         types.JSONText `db:"debug_info"`
	TurmasNaoAlocadas types.JSONText `db:"turmas_nao_alocadas"`
	Erro              *string        `db:"erro"`
	DataGeracao       time.Time      `db:"data_geracao"`
}

// ResultadoItem is one class placed in one room, with snapshots of both.
type ResultadoItem struct {
	ID                    string         `db:"id"`
	ResultadoID           string         `db:"resultado_id"`
	SalaID                string         `db:"sala_id"`
	SalaNome              string         `db:"sala_nome"`
	SalaCapacidadeTotal   int            `db:"sala_capacidade_total"`
	SalaCadeirasEspeciais int            `db:"sala_cadeiras_especiais"`
	TurmaID               string         `db:"turma_id"`
	TurmaNome             string         `db:"turma_nome"`
	TurmaAlunos           int            `db:"turma_alunos"`
	TurmaEspNecessarias   int            `db:"turma_esp_necessarias"`
	CompatibilidadeScore  float64        `db:"compatibilidade_score"`
	Observacoes           string         `db:"observacoes"`
	Racional              types.JSONText `db:"racional"`
}

// TurmaNaoAlocada is an entry of the turmas_nao_alocadas payload.
type TurmaNaoAlocada struct {
	ID              string            `json:"id"`
	Nome            string            `json:"nome"`
	Alunos          int               `json:"alunos"`
	EspNecessarias  int               `json:"esp_necessarias"`
	Motivo          MotivoNaoAlocacao `json:"motivo"`
	MotivoDescricao string            `json:"motivo_descricao"`
}

// ProblemaCritico groups the classes affected by the same issue.
type ProblemaCritico struct {
	Resumo   string   `json:"resumo"`
	Detalhes []string `json:"detalhes"`
}

// AnaliseDetalhada is the analise_detalhada payload.
type AnaliseDetalhada struct {
	TotalTurmas       int               `json:"total_turmas"`
	TotalSalas        int               `json:"total_salas"`
	SalasInativas     int               `json:"salas_inativas"`
	ProblemasCriticos []ProblemaCritico `json:"problemas_criticos"`
	Avisos            []string          `json:"avisos"`
	Erro              string            `json:"erro,omitempty"`
	Detalhes          string            `json:"detalhes,omitempty"`
}

// HorarioRef identifies the slot a result belongs to.
type HorarioRef struct {
	ID        string    `json:"id"`
	DiaSemana DiaSemana `json:"dia_semana"`
	Periodo   Periodo   `json:"periodo"`
}

// SalaRef is the room snapshot embedded in a result item.
type SalaRef struct {
	ID                string `json:"id"`
	Nome              string `json:"nome"`
	CapacidadeTotal   int    `json:"capacidade_total"`
	CadeirasEspeciais int    `json:"cadeiras_especiais"`
}

// TurmaRef is the class snapshot embedded in a result item.
type TurmaRef struct {
	ID             string `json:"id"`
	Nome           string `json:"nome"`
	Alunos         int    `json:"alunos"`
	EspNecessarias int    `json:"esp_necessarias"`
}

// AlocacaoItemView is an assignment as served to the frontend.
type AlocacaoItemView struct {
	ID                   string    `json:"id"`
	CompatibilidadeScore float64   `json:"compatibilidade_score"`
	Observacoes          string    `json:"observacoes"`
	Racional             Rationale `json:"racional"`
	Sala                 SalaRef   `json:"sala"`
	Turma                TurmaRef  `json:"turma"`
}

// ResultadoView is a persisted result as served to the frontend.
// analise_detalhada, debug_info and turmas_nao_alocadas stay JSON encoded strings.
type ResultadoView struct {
	ID                string             `json:"id"`
	AlocacaoID        string             `json:"alocacao_id"`
	ExecucaoID        string             `json:"execucao_id"`
	ScoreOtimizacao   float64            `json:"score_otimizacao"`
	AcuraciaModelo    float64            `json:"acuracia_modelo"`
	DataGeracao       time.Time          `json:"data_geracao"`
	TotalTurmas       int                `json:"total_turmas"`
	TurmasAlocadas    int                `json:"turmas_alocadas"`
	TurmasSobrando    int                `json:"turmas_sobrando"`
	AnaliseDetalhada  string             `json:"analise_detalhada"`
	DebugInfo         string             `json:"debug_info"`
	TurmasNaoAlocadas string             `json:"turmas_nao_alocadas"`
	Erro              *string            `json:"erro"`
	Horario           HorarioRef         `json:"horario"`
	Alocacoes         []AlocacaoItemView `json:"alocacoes"`
}

// RunSummary is returned after an allocation run completes.
type RunSummary struct {
	ExecucaoID          string          `json:"execucao_id"`
	AlocacaoID          string          `json:"alocacao_id"`
	HorariosProcessados int             `json:"horarios_processados"`
	TotalHorarios       int             `json:"total_horarios"`
	HorariosComErro     int             `json:"horarios_com_erro"`
	ScoreGeral          float64         `json:"score_geral"`
	Preferencias        Preferencias    `json:"preferencias"`
	Resultados          []ResultadoView `json:"resultados"`
}
