package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/service"
)

const sampleSeed = `
salas:
  - nome: Sala 101
    capacidade_total: 40
    localizacao: Bloco A
    cadeiras_especiais: 2
  - nome: Lab 2
    capacidade_total: 25
    status: MANUTENCAO
turmas:
  - nome: Calculo I
    alunos: 35
    esp_necessarias: 1
  - nome: Redes
    alunos: 20
alocacoes:
  - nome: "2026.1"
    salas: [Sala 101, Lab 2]
    horarios:
      - dia_semana: SEGUNDA
        periodo: MATUTINO
        turmas: [Calculo I, Redes]
      - dia_semana: QUARTA
        periodo: NOTURNO
`

func TestParseSeedAcceptsValidDocument(t *testing.T) {
	seed, err := parseSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)
	assert.Len(t, seed.Salas, 2)
	assert.Equal(t, "MANUTENCAO", seed.Salas[1].Status)
	assert.Equal(t, []string{"Calculo I", "Redes"}, seed.Alocacoes[0].Horarios[0].Turmas)
}

func TestParseSeedRejects(t *testing.T) {
	cases := map[string]string{
		"empty":           ``,
		"unknown field":   "salas:\n  - nome: A\n    capacidade: 10\n",
		"zero capacity":   "salas:\n  - nome: A\n    capacidade_total: 0\n",
		"too many chairs": "salas:\n  - nome: A\n    capacidade_total: 10\n    cadeiras_especiais: 11\n",
		"bad period":      "alocacoes:\n  - nome: X\n    horarios:\n      - dia_semana: SEGUNDA\n        periodo: MADRUGADA\n",
		"unknown sala":    "alocacoes:\n  - nome: X\n    salas: [Nope]\n",
		"unknown turma":   "alocacoes:\n  - nome: X\n    horarios:\n      - dia_semana: SEGUNDA\n        periodo: MATUTINO\n        turmas: [Nope]\n",
		"duplicate slot":  "alocacoes:\n  - nome: X\n    horarios:\n      - {dia_semana: SEGUNDA, periodo: MATUTINO}\n      - {dia_semana: SEGUNDA, periodo: MATUTINO}\n",
		"duplicate sala":  "salas:\n  - {nome: A, capacidade_total: 10}\n  - {nome: A, capacidade_total: 20}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseSeed(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

type seedRecorder struct {
	calls   []string
	failOn  string
	counter int
}

func (r *seedRecorder) next(prefix string) string {
	r.counter++
	return fmt.Sprintf("%s-%d", prefix, r.counter)
}

func (r *seedRecorder) record(call string) error {
	r.calls = append(r.calls, call)
	if call == r.failOn {
		return errors.New("boom")
	}
	return nil
}

type salaCreator struct{ *seedRecorder }

func (s salaCreator) Create(_ context.Context, req dto.SalaRequest) (*models.Sala, error) {
	return &models.Sala{ID: s.next("sala")}, s.record("sala " + req.Nome)
}

type turmaCreator struct{ *seedRecorder }

func (s turmaCreator) Create(_ context.Context, req dto.TurmaRequest) (*models.Turma, error) {
	return &models.Turma{ID: s.next("turma")}, s.record("turma " + req.Nome)
}

type alocacaoCreator struct{ *seedRecorder }

func (s alocacaoCreator) Create(_ context.Context, req dto.AlocacaoRequest) (*models.Alocacao, error) {
	return &models.Alocacao{ID: s.next("aloc")}, s.record("alocacao " + req.Nome)
}

func (s alocacaoCreator) AddSala(_ context.Context, alocacaoID string, req dto.AddSalaRequest) error {
	return s.record("add " + req.SalaID + " to " + alocacaoID)
}

type horarioCreator struct{ *seedRecorder }

func (s horarioCreator) Create(_ context.Context, alocacaoID string, req dto.HorarioRequest) (*models.Horario, error) {
	return &models.Horario{ID: s.next("hor")}, s.record("horario " + req.DiaSemana + "/" + req.Periodo + " in " + alocacaoID)
}

func (s horarioCreator) AddTurma(_ context.Context, horarioID string, req dto.AddTurmaRequest) error {
	return s.record("schedule " + req.TurmaID + " in " + horarioID)
}

func newSeeder(rec *seedRecorder) seeder {
	return seeder{salas: salaCreator{rec}, turmas: turmaCreator{rec}, alocacoes: alocacaoCreator{rec}, horarios: horarioCreator{rec}}
}

func TestSeederResolvesNamesToIDs(t *testing.T) {
	seed, err := parseSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)
	rec := &seedRecorder{}

	report, err := newSeeder(rec).apply(context.Background(), seed)
	require.NoError(t, err)

	assert.Equal(t, SeedReport{Salas: 2, Turmas: 2, Alocacoes: 1, Horarios: 2}, report)
	assert.Equal(t, []string{
		"sala Sala 101",
		"sala Lab 2",
		"turma Calculo I",
		"turma Redes",
		"alocacao 2026.1",
		"add sala-1 to aloc-5",
		"add sala-2 to aloc-5",
		"horario SEGUNDA/MATUTINO in aloc-5",
		"schedule turma-3 in hor-6",
		"schedule turma-4 in hor-6",
		"horario QUARTA/NOTURNO in aloc-5",
	}, rec.calls)
}

func TestSeederStopsOnFirstError(t *testing.T) {
	seed, err := parseSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)
	rec := &seedRecorder{failOn: "turma Redes"}

	report, err := newSeeder(rec).apply(context.Background(), seed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `create turma "Redes"`)
	assert.Equal(t, SeedReport{Salas: 2, Turmas: 1}, report)
	assert.Len(t, rec.calls, 4)
}

func TestPrintResultadosTable(t *testing.T) {
	erro := "Erro ao processar o horario"
	var buf bytes.Buffer
	printResultados(&buf, []models.ResultadoView{
		{Horario: models.HorarioRef{DiaSemana: models.DiaSegunda, Periodo: models.PeriodoMatutino}, TotalTurmas: 3, TurmasAlocadas: 2, TurmasSobrando: 1, ScoreOtimizacao: 61.2},
		{Horario: models.HorarioRef{DiaSemana: models.DiaTerca, Periodo: models.PeriodoNoturno}, TotalTurmas: 1, Erro: &erro},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "1 sem sala")
	assert.Contains(t, lines[1], "61.20")
	assert.Contains(t, lines[2], erro)
}

func TestWriteExport(t *testing.T) {
	file := &service.ExportFile{Filename: "resultados-a1.csv", Content: []byte("Dia;Periodo\n")}

	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, file, "-"))
	assert.Equal(t, "Dia;Periodo\n", buf.String())

	dir := t.TempDir()
	target := filepath.Join(dir, "out.csv")
	buf.Reset()
	require.NoError(t, writeExport(&buf, file, target))
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, file.Content, content)
	assert.Contains(t, buf.String(), "out.csv")
}
