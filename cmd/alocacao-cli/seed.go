package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
)

// SeedFile is the YAML document accepted by the seed command. Allocations
// refer to rooms and classes by name.
type SeedFile struct {
	Salas     []SeedSala     `yaml:"salas" validate:"dive"`
	Turmas    []SeedTurma    `yaml:"turmas" validate:"dive"`
	Alocacoes []SeedAlocacao `yaml:"alocacoes" validate:"dive"`
}

type SeedSala struct {
	Nome              string `yaml:"nome" validate:"required"`
	CapacidadeTotal   int    `yaml:"capacidade_total" validate:"required,gt=0"`
	Localizacao       string `yaml:"localizacao"`
	Status            string `yaml:"status" validate:"omitempty,oneof=ATIVA INATIVA MANUTENCAO"`
	CadeirasMoveis    bool   `yaml:"cadeiras_moveis"`
	CadeirasEspeciais int    `yaml:"cadeiras_especiais" validate:"gte=0,ltefield=CapacidadeTotal"`
}

type SeedTurma struct {
	Nome                 string `yaml:"nome" validate:"required"`
	Alunos               int    `yaml:"alunos" validate:"required,gt=0"`
	DuracaoMin           int    `yaml:"duracao_min" validate:"gte=0"`
	EspNecessarias       int    `yaml:"esp_necessarias" validate:"gte=0,ltefield=Alunos"`
	LocalizacaoPreferida string `yaml:"localizacao_preferida"`
}

type SeedAlocacao struct {
	Nome      string        `yaml:"nome" validate:"required"`
	Descricao string        `yaml:"descricao"`
	Salas     []string      `yaml:"salas"`
	Horarios  []SeedHorario `yaml:"horarios" validate:"dive"`
}

type SeedHorario struct {
	DiaSemana string   `yaml:"dia_semana" validate:"required,oneof=SEGUNDA TERCA QUARTA QUINTA SEXTA SABADO"`
	Periodo   string   `yaml:"periodo" validate:"required,oneof=MATUTINO VESPERTINO NOTURNO"`
	Turmas    []string `yaml:"turmas"`
}

// SeedReport counts what a seed created.
type SeedReport struct {
	Salas     int
	Turmas    int
	Alocacoes int
	Horarios  int
}

var seedValidator = validator.New()

// parseSeed decodes and validates a seed document, including name references.
func parseSeed(r io.Reader) (*SeedFile, error) {
	var seed SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("seed file is empty")
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := seedValidator.Struct(seed); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	salas := make(map[string]struct{}, len(seed.Salas))
	for _, s := range seed.Salas {
		if _, dup := salas[s.Nome]; dup {
			return nil, fmt.Errorf("sala %q declared twice", s.Nome)
		}
		salas[s.Nome] = struct{}{}
	}
	turmas := make(map[string]struct{}, len(seed.Turmas))
	for _, t := range seed.Turmas {
		if _, dup := turmas[t.Nome]; dup {
			return nil, fmt.Errorf("turma %q declared twice", t.Nome)
		}
		turmas[t.Nome] = struct{}{}
	}
	for _, a := range seed.Alocacoes {
		for _, nome := range a.Salas {
			if _, ok := salas[nome]; !ok {
				return nil, fmt.Errorf("alocacao %q references unknown sala %q", a.Nome, nome)
			}
		}
		slots := make(map[string]struct{}, len(a.Horarios))
		for _, h := range a.Horarios {
			key := h.DiaSemana + "/" + h.Periodo
			if _, dup := slots[key]; dup {
				return nil, fmt.Errorf("alocacao %q declares %s twice", a.Nome, key)
			}
			slots[key] = struct{}{}
			for _, nome := range h.Turmas {
				if _, ok := turmas[nome]; !ok {
					return nil, fmt.Errorf("alocacao %q horario %s references unknown turma %q", a.Nome, key, nome)
				}
			}
		}
	}
	return &seed, nil
}

type seedSalaCreator interface {
	Create(ctx context.Context, req dto.SalaRequest) (*models.Sala, error)
}

type seedTurmaCreator interface {
	Create(ctx context.Context, req dto.TurmaRequest) (*models.Turma, error)
}

type seedAlocacaoCreator interface {
	Create(ctx context.Context, req dto.AlocacaoRequest) (*models.Alocacao, error)
	AddSala(ctx context.Context, alocacaoID string, req dto.AddSalaRequest) error
}

type seedHorarioCreator interface {
	Create(ctx context.Context, alocacaoID string, req dto.HorarioRequest) (*models.Horario, error)
	AddTurma(ctx context.Context, horarioID string, req dto.AddTurmaRequest) error
}

type seeder struct {
	salas     seedSalaCreator
	turmas    seedTurmaCreator
	alocacoes seedAlocacaoCreator
	horarios  seedHorarioCreator
}

// apply creates everything in the seed through the services, so the same
// validation as the API applies. It stops at the first error.
func (s seeder) apply(ctx context.Context, seed *SeedFile) (SeedReport, error) {
	var report SeedReport
	salaIDs := make(map[string]string, len(seed.Salas))
	for _, in := range seed.Salas {
		sala, err := s.salas.Create(ctx, dto.SalaRequest{
			Nome:              in.Nome,
			CapacidadeTotal:   in.CapacidadeTotal,
			Localizacao:       in.Localizacao,
			Status:            in.Status,
			CadeirasMoveis:    in.CadeirasMoveis,
			CadeirasEspeciais: in.CadeirasEspeciais,
		})
		if err != nil {
			return report, fmt.Errorf("create sala %q: %w", in.Nome, err)
		}
		salaIDs[in.Nome] = sala.ID
		report.Salas++
	}

	turmaIDs := make(map[string]string, len(seed.Turmas))
	for _, in := range seed.Turmas {
		turma, err := s.turmas.Create(ctx, dto.TurmaRequest{
			Nome:                 in.Nome,
			Alunos:               in.Alunos,
			DuracaoMin:           in.DuracaoMin,
			EspNecessarias:       in.EspNecessarias,
			LocalizacaoPreferida: in.LocalizacaoPreferida,
		})
		if err != nil {
			return report, fmt.Errorf("create turma %q: %w", in.Nome, err)
		}
		turmaIDs[in.Nome] = turma.ID
		report.Turmas++
	}

	for _, in := range seed.Alocacoes {
		alocacao, err := s.alocacoes.Create(ctx, dto.AlocacaoRequest{Nome: in.Nome, Descricao: in.Descricao})
		if err != nil {
			return report, fmt.Errorf("create alocacao %q: %w", in.Nome, err)
		}
		report.Alocacoes++
		for _, nome := range in.Salas {
			if err := s.alocacoes.AddSala(ctx, alocacao.ID, dto.AddSalaRequest{SalaID: salaIDs[nome]}); err != nil {
				return report, fmt.Errorf("add sala %q to %q: %w", nome, in.Nome, err)
			}
		}
		for _, h := range in.Horarios {
			horario, err := s.horarios.Create(ctx, alocacao.ID, dto.HorarioRequest{DiaSemana: h.DiaSemana, Periodo: h.Periodo})
			if err != nil {
				return report, fmt.Errorf("create horario %s/%s in %q: %w", h.DiaSemana, h.Periodo, in.Nome, err)
			}
			report.Horarios++
			for _, nome := range h.Turmas {
				if err := s.horarios.AddTurma(ctx, horario.ID, dto.AddTurmaRequest{TurmaID: turmaIDs[nome]}); err != nil {
					return report, fmt.Errorf("schedule turma %q: %w", nome, err)
				}
			}
		}
	}
	return report, nil
}

func seedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load rooms, classes and allocations from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open seed: %w", err)
			}
			defer f.Close()

			seed, err := parseSeed(f)
			if err != nil {
				return err
			}
			report, err := seeder{
				salas:     app.salas,
				turmas:    app.turmas,
				alocacoes: app.alocacoes,
				horarios:  app.horarios,
			}.apply(cmd.Context(), seed)
			app.logger.Info("seed applied",
				zap.String("file", path),
				zap.Int("salas", report.Salas),
				zap.Int("turmas", report.Turmas),
				zap.Int("alocacoes", report.Alocacoes),
				zap.Int("horarios", report.Horarios))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d salas, %d turmas, %d alocacoes, %d horarios\n",
				report.Salas, report.Turmas, report.Alocacoes, report.Horarios)
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "Path to the YAML seed file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
