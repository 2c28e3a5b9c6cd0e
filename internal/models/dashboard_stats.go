package models

import "time"

// DashboardStats aggregates counts for the home dashboard.
type DashboardStats struct {
	TotalSalas        int       `json:"totalSalas"`
	SalasAtivas       int       `json:"salasAtivas"`
	TotalTurmas       int       `json:"totalTurmas"`
	TotalAlunos       int       `json:"totalAlunos"`
	TotalAlocacoes    int       `json:"totalAlocacoes"`
	AlocacoesAtivas   int       `json:"alocacoesAtivas"`
	AlocacoesProntas  int       `json:"alocacoesProntas"`
	ResultadosGerados int       `json:"resultadosGerados"`
	GeneratedAt       time.Time `json:"generatedAt"`
}
