package models

import "time"

// ExecucaoStatus is the lifecycle of an asynchronous allocation run.
type ExecucaoStatus string

const (
	ExecucaoQueued     ExecucaoStatus = "QUEUED"
	ExecucaoProcessing ExecucaoStatus = "PROCESSING"
	ExecucaoFinished   ExecucaoStatus = "FINISHED"
	ExecucaoFailed     ExecucaoStatus = "FAILED"
)

// Execucao tracks an asynchronous run requested through the job queue.
type Execucao struct {
	ID           string         `json:"id"`
	AlocacaoID   string         `json:"alocacao_id"`
	Status       ExecucaoStatus `json:"status"`
	Preferencias Preferencias   `json:"preferencias"`
	Resumo       *RunSummary    `json:"resumo,omitempty"`
	Erro         string         `json:"erro,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	FinishedAt   *time.Time     `json:"finished_at,omitempty"`
}
