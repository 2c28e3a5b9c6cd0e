package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/export"
)

type resultadoStore interface {
	ListByAlocacao(ctx context.Context, alocacaoID string, latestOnly bool) ([]models.ResultadoAlocacao, error)
	ListByExecucao(ctx context.Context, execucaoID string) ([]models.ResultadoAlocacao, error)
	ListItens(ctx context.Context, resultadoIDs []string) ([]models.ResultadoItem, error)
	Delete(ctx context.Context, id string) error
}

// ExportFile is a rendered results document.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ResultadoServiceConfig tunes the reporter.
type ResultadoServiceConfig struct {
	PDFTitle string
}

// ResultadoService reads persisted allocation results back for display and export.
type ResultadoService struct {
	repo      resultadoStore
	alocacoes alocacaoFinder
	stats     statsInvalidator
	logger    *zap.Logger
	cfg       ResultadoServiceConfig
}

// NewResultadoService constructs the reporter.
func NewResultadoService(repo resultadoStore, alocacoes alocacaoFinder, stats statsInvalidator, logger *zap.Logger, cfg ResultadoServiceConfig) *ResultadoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PDFTitle == "" {
		cfg.PDFTitle = "Resultado da Alocacao"
	}
	return &ResultadoService{repo: repo, alocacoes: alocacoes, stats: stats, logger: logger, cfg: cfg}
}

// Results lists the results of an allocation ordered by (day, period), newest
// run first within a slot.
func (s *ResultadoService) Results(ctx context.Context, alocacaoID string, latestOnly bool) ([]models.ResultadoView, error) {
	if _, err := s.alocacoes.FindByID(ctx, alocacaoID); err != nil {
		return nil, storeError(err, "alocacao not found", "", "failed to load alocacao")
	}
	resultados, err := s.repo.ListByAlocacao(ctx, alocacaoID, latestOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resultados")
	}
	return s.views(ctx, resultados)
}

// ResultsByExecucao lists the results written by a single run.
func (s *ResultadoService) ResultsByExecucao(ctx context.Context, execucaoID string) ([]models.ResultadoView, error) {
	resultados, err := s.repo.ListByExecucao(ctx, execucaoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resultados")
	}
	if len(resultados) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "execucao has no resultados")
	}
	return s.views(ctx, resultados)
}

func (s *ResultadoService) views(ctx context.Context, resultados []models.ResultadoAlocacao) ([]models.ResultadoView, error) {
	ids := make([]string, 0, len(resultados))
	for _, r := range resultados {
		ids = append(ids, r.ID)
	}
	itens, err := s.repo.ListItens(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resultado itens")
	}
	byResultado := make(map[string][]models.ResultadoItem, len(resultados))
	for _, item := range itens {
		byResultado[item.ResultadoID] = append(byResultado[item.ResultadoID], item)
	}

	sort.SliceStable(resultados, func(i, j int) bool {
		a, b := resultados[i], resultados[j]
		if a.DiaSemana != b.DiaSemana || a.Periodo != b.Periodo {
			return models.SlotLess(a.DiaSemana, a.Periodo, b.DiaSemana, b.Periodo)
		}
		if !a.DataGeracao.Equal(b.DataGeracao) {
			return a.DataGeracao.After(b.DataGeracao)
		}
		return a.ID < b.ID
	})

	views := make([]models.ResultadoView, 0, len(resultados))
	for _, r := range resultados {
		views = append(views, resultadoView(r, byResultado[r.ID]))
	}
	return views, nil
}

// Delete removes one result.
func (s *ResultadoService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "resultado not found", "", "failed to delete resultado")
	}
	if s.stats != nil {
		s.stats.InvalidateStats(ctx)
	}
	return nil
}

var exportHeaders = []string{"Dia", "Periodo", "Turma", "Alunos", "Especiais", "Sala", "Capacidade", "Score", "Situacao", "Observacoes"}

// Export renders the results of an allocation as CSV or PDF, one row per class.
func (s *ResultadoService) Export(ctx context.Context, alocacaoID, formato string, latestOnly bool) (*ExportFile, error) {
	exporter, err := export.ForFormat(formato)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported export format")
	}
	views, err := s.Results(ctx, alocacaoID, latestOnly)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Title: s.cfg.PDFTitle, Headers: exportHeaders, Rows: make([]map[string]string, 0)}
	for _, view := range views {
		dia, periodo := string(view.Horario.DiaSemana), string(view.Horario.Periodo)
		for _, item := range view.Alocacoes {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Dia":         dia,
				"Periodo":     periodo,
				"Turma":       item.Turma.Nome,
				"Alunos":      strconv.Itoa(item.Turma.Alunos),
				"Especiais":   strconv.Itoa(item.Turma.EspNecessarias),
				"Sala":        item.Sala.Nome,
				"Capacidade":  strconv.Itoa(item.Sala.CapacidadeTotal),
				"Score":       strconv.FormatFloat(item.CompatibilidadeScore, 'f', 2, 64),
				"Situacao":    "ALOCADA",
				"Observacoes": item.Observacoes,
			})
		}
		var naoAlocadas []models.TurmaNaoAlocada
		if err := json.Unmarshal([]byte(view.TurmasNaoAlocadas), &naoAlocadas); err != nil {
			s.logger.Warn("skipping malformed turmas_nao_alocadas", zap.String("resultado_id", view.ID), zap.Error(err))
			continue
		}
		for _, t := range naoAlocadas {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Dia":         dia,
				"Periodo":     periodo,
				"Turma":       t.Nome,
				"Alunos":      strconv.Itoa(t.Alunos),
				"Especiais":   strconv.Itoa(t.EspNecessarias),
				"Situacao":    string(t.Motivo),
				"Observacoes": t.MotivoDescricao,
			})
		}
	}

	content, err := exporter.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("resultados-%s.%s", alocacaoID, exporter.Extension()),
		ContentType: exporter.ContentType(),
		Content:     content,
	}, nil
}

// resultadoView converts a stored result and its items into the wire format.
func resultadoView(r models.ResultadoAlocacao, itens []models.ResultadoItem) models.ResultadoView {
	view := models.ResultadoView{
		ID:                r.ID,
		AlocacaoID:        r.AlocacaoID,
		ExecucaoID:        r.ExecucaoID,
		ScoreOtimizacao:   r.ScoreOtimizacao,
		AcuraciaModelo:    r.AcuraciaModelo,
		DataGeracao:       r.DataGeracao,
		TotalTurmas:       r.TotalTurmas,
		TurmasAlocadas:    r.TurmasAlocadas,
		TurmasSobrando:    r.TurmasSobrando,
		AnaliseDetalhada:  jsonString(r.AnaliseDetalhada, `{}`),
		DebugInfo:         jsonString(r.DebugInfo, `{}`),
		TurmasNaoAlocadas: jsonString(r.TurmasNaoAlocadas, `[]`),
		Erro:              r.Erro,
		Horario:           models.HorarioRef{DiaSemana: r.DiaSemana, Periodo: r.Periodo},
		Alocacoes:         make([]models.AlocacaoItemView, 0, len(itens)),
	}
	if r.HorarioID != nil {
		view.Horario.ID = *r.HorarioID
	}
	for _, item := range itens {
		var racional models.Rationale
		if len(item.Racional) > 0 {
			_ = json.Unmarshal(item.Racional, &racional)
		}
		view.Alocacoes = append(view.Alocacoes, models.AlocacaoItemView{
			ID:                   item.ID,
			CompatibilidadeScore: item.CompatibilidadeScore,
			Observacoes:          item.Observacoes,
			Racional:             racional,
			Sala: models.SalaRef{
				ID:                item.SalaID,
				Nome:              item.SalaNome,
				CapacidadeTotal:   item.SalaCapacidadeTotal,
				CadeirasEspeciais: item.SalaCadeirasEspeciais,
			},
			Turma: models.TurmaRef{
				ID:             item.TurmaID,
				Nome:           item.TurmaNome,
				Alunos:         item.TurmaAlunos,
				EspNecessarias: item.TurmaEspNecessarias,
			},
		})
	}
	return view
}

func jsonString(raw []byte, fallback string) string {
	if len(raw) == 0 {
		return fallback
	}
	return string(raw)
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
