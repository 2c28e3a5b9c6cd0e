package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/allocation"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
)

const (
	runStatusSuccess = "success"
	runStatusPartial = "partial"
	runStatusFailed  = "failed"
	runStatusEmpty   = "empty"
)

type runSalaReader interface {
	ListByAlocacao(ctx context.Context, alocacaoID string) ([]models.Sala, error)
}

type runHorarioReader interface {
	ListByAlocacao(ctx context.Context, alocacaoID string) ([]models.Horario, error)
}

type resultadoWriter interface {
	Create(ctx context.Context, exec sqlx.ExtContext, resultado *models.ResultadoAlocacao, itens []models.ResultadoItem) error
}

type assigner interface {
	Assign(rooms []models.Sala, classes []models.Turma, prefs models.Preferencias) (*allocation.Outcome, error)
	Strategy() allocation.Strategy
}

// AllocationServiceConfig tunes run orchestration.
type AllocationServiceConfig struct {
	Workers     int
	SlotTimeout time.Duration
}

// AllocationService runs the assignment engine over every time-slot of an
// allocation and persists one result per slot.
type AllocationService struct {
	alocacoes  alocacaoFinder
	salas      runSalaReader
	horarios   runHorarioReader
	turmas     horarioTurmaReader
	resultados resultadoWriter
	tx         txProvider
	engine     assigner
	stats      statsInvalidator
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        AllocationServiceConfig
	now        func() time.Time
}

// NewAllocationService wires the run orchestrator.
func NewAllocationService(
	alocacoes alocacaoFinder,
	salas runSalaReader,
	horarios runHorarioReader,
	turmas horarioTurmaReader,
	resultados resultadoWriter,
	tx txProvider,
	engine assigner,
	stats statsInvalidator,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg AllocationServiceConfig,
) *AllocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = allocation.NewEngine("")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &AllocationService{
		alocacoes:  alocacoes,
		salas:      salas,
		horarios:   horarios,
		turmas:     turmas,
		resultados: resultados,
		tx:         tx,
		engine:     engine,
		stats:      stats,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// slotInput is one time-slot with the classes scheduled in it.
type slotInput struct {
	horario models.Horario
	turmas  []models.Turma
}

// slotOutcome is what a worker hands back for its slot.
type slotOutcome struct {
	resultado models.ResultadoAlocacao
	itens     []models.ResultadoItem
	failed    bool
}

// Run allocates every non-empty time-slot of the allocation under a new run id.
func (s *AllocationService) Run(ctx context.Context, alocacaoID string, prefs models.Preferencias) (*models.RunSummary, error) {
	return s.RunExecucao(ctx, uuid.NewString(), alocacaoID, prefs)
}

// RunExecucao is Run with a caller supplied run id. The run is detached from
// ctx cancellation so an abandoned request never turns finished slots into
// errored results; SlotTimeout still bounds every slot.
func (s *AllocationService) RunExecucao(ctx context.Context, execucaoID, alocacaoID string, prefs models.Preferencias) (*models.RunSummary, error) {
	ctx = context.WithoutCancel(ctx)
	started := s.now()
	logger := s.logger.With(zap.String("execucao_id", execucaoID), zap.String("alocacao_id", alocacaoID))

	if _, err := s.alocacoes.FindByID(ctx, alocacaoID); err != nil {
		return nil, storeError(err, "alocacao not found", "", "failed to load alocacao")
	}
	salas, err := s.salas.ListByAlocacao(ctx, alocacaoID)
	if err != nil {
		s.metrics.ObserveRun(runStatusFailed, time.Since(started), 0)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load alocacao salas")
	}
	slots, err := s.loadSlots(ctx, alocacaoID)
	if err != nil {
		s.metrics.ObserveRun(runStatusFailed, time.Since(started), 0)
		return nil, err
	}

	summary := &models.RunSummary{
		ExecucaoID:    execucaoID,
		AlocacaoID:    alocacaoID,
		TotalHorarios: len(slots),
		Preferencias:  prefs,
		Resultados:    make([]models.ResultadoView, 0, len(slots)),
	}
	if len(slots) == 0 {
		logger.Info("allocation run skipped, no horario with turmas")
		s.metrics.ObserveRun(runStatusEmpty, time.Since(started), 0)
		return summary, nil
	}

	outcomes := make([]slotOutcome, len(slots))
	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i := range slots {
		i := i
		g.Go(func() error {
			outcomes[i] = s.processSlot(ctx, execucaoID, alocacaoID, salas, slots[i], prefs, logger)
			return nil
		})
	}
	_ = g.Wait()

	var scoreSum float64
	for _, out := range outcomes {
		if out.failed {
			summary.HorariosComErro++
		} else {
			summary.HorariosProcessados++
			scoreSum += out.resultado.ScoreOtimizacao
		}
		summary.Resultados = append(summary.Resultados, resultadoView(out.resultado, out.itens))
	}
	if summary.HorariosProcessados > 0 {
		summary.ScoreGeral = roundScore(scoreSum / float64(summary.HorariosProcessados))
	}

	status := runStatusSuccess
	switch {
	case summary.HorariosProcessados == 0:
		status = runStatusFailed
	case summary.HorariosComErro > 0:
		status = runStatusPartial
	}
	s.metrics.ObserveRun(status, time.Since(started), summary.ScoreGeral)
	if s.stats != nil {
		s.stats.InvalidateStats(ctx)
	}

	logger.Info("allocation run finished",
		zap.String("status", status),
		zap.Int("horarios_processados", summary.HorariosProcessados),
		zap.Int("horarios_com_erro", summary.HorariosComErro),
		zap.Float64("score_geral", summary.ScoreGeral),
		zap.Duration("duration", time.Since(started)),
	)
	return summary, nil
}

// loadSlots returns the time-slots that hold at least one class, in
// chronological order.
func (s *AllocationService) loadSlots(ctx context.Context, alocacaoID string) ([]slotInput, error) {
	horarios, err := s.horarios.ListByAlocacao(ctx, alocacaoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load horarios")
	}
	ids := make([]string, 0, len(horarios))
	for _, horario := range horarios {
		ids = append(ids, horario.ID)
	}
	memberships, err := s.turmas.ListByHorarios(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load horario turmas")
	}
	byHorario := make(map[string][]models.Turma, len(horarios))
	for _, m := range memberships {
		byHorario[m.HorarioID] = append(byHorario[m.HorarioID], m.Turma)
	}

	slots := make([]slotInput, 0, len(horarios))
	for _, horario := range horarios {
		if turmas := byHorario[horario.ID]; len(turmas) > 0 {
			slots = append(slots, slotInput{horario: horario, turmas: turmas})
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i].horario, slots[j].horario
		return models.SlotLess(a.DiaSemana, a.Periodo, b.DiaSemana, b.Periodo)
	})
	return slots, nil
}

// processSlot never fails: engine errors, panics and persistence failures all
// become an errored result for that slot.
func (s *AllocationService) processSlot(
	ctx context.Context,
	execucaoID, alocacaoID string,
	salas []models.Sala,
	slot slotInput,
	prefs models.Preferencias,
	logger *zap.Logger,
) (out slotOutcome) {
	started := time.Now()
	logger = logger.With(zap.String("horario_id", slot.horario.ID))
	defer func() {
		if r := recover(); r != nil {
			logger.Error("horario processing panicked", zap.Any("panic", r))
			out = s.failSlot(ctx, execucaoID, alocacaoID, salas, slot, fmt.Errorf("panic: %v", r), logger)
		}
		s.metrics.ObserveSlot(out.failed, time.Since(started))
	}()

	if s.cfg.SlotTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SlotTimeout)
		defer cancel()
	}

	outcome, err := s.engine.Assign(salas, slot.turmas, prefs)
	if err != nil {
		logger.Warn("horario rejected by engine", zap.Error(err))
		return s.failSlot(ctx, execucaoID, alocacaoID, salas, slot, err, logger)
	}

	resultado, itens := s.buildResultado(execucaoID, alocacaoID, salas, slot, outcome, time.Since(started))
	if err := s.persist(ctx, &resultado, itens); err != nil {
		logger.Error("horario result not persisted", zap.Error(err))
		return s.failSlot(ctx, execucaoID, alocacaoID, salas, slot, err, logger)
	}
	for _, u := range outcome.Unassigned {
		s.metrics.RecordUnassigned(u.Motivo)
	}
	return slotOutcome{resultado: resultado, itens: itens}
}

// failSlot records an errored result with every class unassigned. The errored
// result is still reported when it cannot be stored.
func (s *AllocationService) failSlot(
	ctx context.Context,
	execucaoID, alocacaoID string,
	salas []models.Sala,
	slot slotInput,
	cause error,
	logger *zap.Logger,
) slotOutcome {
	inativas := 0
	for _, sala := range salas {
		if !sala.Ativa() {
			inativas++
		}
	}
	turmas := sortedTurmas(slot.turmas)
	naoAlocadas := make([]models.TurmaNaoAlocada, 0, len(turmas))
	for _, turma := range turmas {
		naoAlocadas = append(naoAlocadas, turmaNaoAlocada(turma, models.MotivoErroProcessamento))
		s.metrics.RecordUnassigned(models.MotivoErroProcessamento)
	}
	analise := models.AnaliseDetalhada{
		TotalTurmas:       len(turmas),
		TotalSalas:        len(salas),
		SalasInativas:     inativas,
		ProblemasCriticos: []models.ProblemaCritico{},
		Avisos:            []string{},
		Erro:              "Erro ao processar o horario",
		Detalhes:          cause.Error(),
	}
	message := cause.Error()
	resultado := models.ResultadoAlocacao{
		AlocacaoID:        alocacaoID,
		HorarioID:         horarioRef(slot.horario.ID),
		ExecucaoID:        execucaoID,
		DiaSemana:         slot.horario.DiaSemana,
		Periodo:           slot.horario.Periodo,
		TotalTurmas:       len(turmas),
		TurmasSobrando:    len(turmas),
		AnaliseDetalhada:  mustJSON(analise),
		DebugInfo:         mustJSON(map[string]interface{}{"execucao_id": execucaoID, "estrategia": s.engine.Strategy()}),
		TurmasNaoAlocadas: mustJSON(naoAlocadas),
		Erro:              &message,
		DataGeracao:       s.now().UTC(),
	}
	if err := s.persist(context.WithoutCancel(ctx), &resultado, nil); err != nil {
		logger.Error("errored horario result not persisted", zap.Error(err))
		if resultado.ID == "" {
			resultado.ID = uuid.NewString()
		}
	}
	return slotOutcome{resultado: resultado, itens: []models.ResultadoItem{}, failed: true}
}

func (s *AllocationService) buildResultado(
	execucaoID, alocacaoID string,
	salas []models.Sala,
	slot slotInput,
	outcome *allocation.Outcome,
	elapsed time.Duration,
) (models.ResultadoAlocacao, []models.ResultadoItem) {
	itens := make([]models.ResultadoItem, 0, len(outcome.Assignments))
	avisos := make([]string, 0)
	if outcome.Stats.SalasInativas > 0 {
		avisos = append(avisos, fmt.Sprintf("%d sala(s) inativa(s) desconsiderada(s)", outcome.Stats.SalasInativas))
	}
	for _, a := range outcome.Assignments {
		itens = append(itens, models.ResultadoItem{
			SalaID:                a.Sala.ID,
			SalaNome:              a.Sala.Nome,
			SalaCapacidadeTotal:   a.Sala.CapacidadeTotal,
			SalaCadeirasEspeciais: a.Sala.CadeirasEspeciais,
			TurmaID:               a.Turma.ID,
			TurmaNome:             a.Turma.Nome,
			TurmaAlunos:           a.Turma.Alunos,
			TurmaEspNecessarias:   a.Turma.EspNecessarias,
			CompatibilidadeScore:  a.Score,
			Observacoes:           allocation.Observacoes(a.Rationale),
			Racional:              mustJSON(a.Rationale),
		})
		if a.Rationale.MovableBorrowed > 0 {
			avisos = append(avisos, fmt.Sprintf("%s usa %d cadeira(s) movel(is) de %s", a.Turma.Nome, a.Rationale.MovableBorrowed, a.Rationale.MovableSourceRoom))
		}
	}

	naoAlocadas := make([]models.TurmaNaoAlocada, 0, len(outcome.Unassigned))
	grouped := make(map[models.MotivoNaoAlocacao][]string)
	motivos := make([]models.MotivoNaoAlocacao, 0)
	for _, u := range outcome.Unassigned {
		naoAlocadas = append(naoAlocadas, turmaNaoAlocada(u.Turma, u.Motivo))
		if _, seen := grouped[u.Motivo]; !seen {
			motivos = append(motivos, u.Motivo)
		}
		grouped[u.Motivo] = append(grouped[u.Motivo], fmt.Sprintf("%s (%d alunos, %d especiais)", u.Turma.Nome, u.Turma.Alunos, u.Turma.EspNecessarias))
	}
	problemas := make([]models.ProblemaCritico, 0, len(motivos))
	for _, motivo := range motivos {
		problemas = append(problemas, models.ProblemaCritico{
			Resumo:   fmt.Sprintf("%d turma(s): %s", len(grouped[motivo]), motivo.Descricao()),
			Detalhes: grouped[motivo],
		})
	}

	analise := models.AnaliseDetalhada{
		TotalTurmas:       len(slot.turmas),
		TotalSalas:        len(salas),
		SalasInativas:     outcome.Stats.SalasInativas,
		ProblemasCriticos: problemas,
		Avisos:            avisos,
	}
	debug := map[string]interface{}{
		"execucao_id": execucaoID,
		"duracao_ms":  elapsed.Milliseconds(),
		"engine":      outcome.Stats,
	}

	resultado := models.ResultadoAlocacao{
		AlocacaoID:        alocacaoID,
		HorarioID:         horarioRef(slot.horario.ID),
		ExecucaoID:        execucaoID,
		DiaSemana:         slot.horario.DiaSemana,
		Periodo:           slot.horario.Periodo,
		ScoreOtimizacao:   outcome.ScoreOtimizacao,
		AcuraciaModelo:    outcome.AcuraciaModelo,
		TotalTurmas:       len(slot.turmas),
		TurmasAlocadas:    len(outcome.Assignments),
		TurmasSobrando:    len(outcome.Unassigned),
		AnaliseDetalhada:  mustJSON(analise),
		DebugInfo:         mustJSON(debug),
		TurmasNaoAlocadas: mustJSON(naoAlocadas),
		DataGeracao:       s.now().UTC(),
	}
	return resultado, itens
}

// persist writes header and items in one transaction.
func (s *AllocationService) persist(ctx context.Context, resultado *models.ResultadoAlocacao, itens []models.ResultadoItem) (err error) {
	if s.tx == nil {
		return fmt.Errorf("transaction provider missing")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin resultado tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = s.resultados.Create(ctx, tx, resultado, itens); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit resultado tx: %w", err)
	}
	return nil
}

func sortedTurmas(turmas []models.Turma) []models.Turma {
	ordered := append([]models.Turma(nil), turmas...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Alunos != ordered[j].Alunos {
			return ordered[i].Alunos > ordered[j].Alunos
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

func turmaNaoAlocada(turma models.Turma, motivo models.MotivoNaoAlocacao) models.TurmaNaoAlocada {
	return models.TurmaNaoAlocada{
		ID:              turma.ID,
		Nome:            turma.Nome,
		Alunos:          turma.Alunos,
		EspNecessarias:  turma.EspNecessarias,
		Motivo:          motivo,
		MotivoDescricao: motivo.Descricao(),
	}
}

func horarioRef(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func mustJSON(v interface{}) types.JSONText {
	payload, err := json.Marshal(v)
	if err != nil {
		return types.JSONText(`{}`)
	}
	return types.JSONText(payload)
}
