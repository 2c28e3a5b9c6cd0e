package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/service"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/database"
)

func migrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := database.Migrate(cmd.Context(), app.db)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
				return nil
			}
			for _, version := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "applied", version)
			}
			return nil
		},
	}
}

func runCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <alocacao-id>",
		Short: "Run the allocation for every time-slot of an allocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs := models.DefaultPreferencias()
			prefs.PriorizarCapacidade, _ = cmd.Flags().GetBool("capacidade")
			prefs.PriorizarEspeciais, _ = cmd.Flags().GetBool("especiais")
			prefs.PriorizarProximidade, _ = cmd.Flags().GetBool("proximidade")

			app.logger.Debug("run command", zap.String("alocacao_id", args[0]), zap.Any("preferencias", prefs))
			summary, err := app.allocation.Run(cmd.Context(), args[0], prefs)
			if err != nil {
				return fmt.Errorf("run failed: %w", err)
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().Bool("capacidade", true, "Prefer rooms whose size fits the class")
	cmd.Flags().Bool("especiais", true, "Prefer rooms whose special chairs match the need")
	cmd.Flags().Bool("proximidade", true, "Prefer rooms at the class's preferred location")
	return cmd
}

func resultadosCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resultados <alocacao-id>",
		Short: "Show or export stored allocation results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ultima, _ := cmd.Flags().GetBool("ultima")
			execucao, _ := cmd.Flags().GetString("execucao")
			formato, _ := cmd.Flags().GetString("formato")
			out, _ := cmd.Flags().GetString("out")

			if execucao != "" {
				views, err := app.resultados.ResultsByExecucao(cmd.Context(), execucao)
				if err != nil {
					return err
				}
				printResultados(cmd.OutOrStdout(), views)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("an alocacao id or --execucao is required")
			}
			if formato == "" {
				views, err := app.resultados.Results(cmd.Context(), args[0], ultima)
				if err != nil {
					return err
				}
				printResultados(cmd.OutOrStdout(), views)
				return nil
			}

			file, err := app.resultados.Export(cmd.Context(), args[0], formato, ultima)
			if err != nil {
				return err
			}
			return writeExport(cmd.OutOrStdout(), file, out)
		},
	}
	cmd.Flags().Bool("ultima", false, "Only the latest result per time-slot")
	cmd.Flags().String("execucao", "", "Show the results written by one run")
	cmd.Flags().String("formato", "", "Export as csv or pdf instead of printing")
	cmd.Flags().StringP("out", "o", "", "Export destination, defaults to the suggested file name")
	return cmd
}

func tokenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "token",
		Short:       "Issue a bearer token signed with JWT_SECRET for local testing",
		Annotations: map[string]string{skipDatabase: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			role, _ := cmd.Flags().GetString("role")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			auth := service.NewAuthService(service.AuthConfig{Secret: app.cfg.JWT.Secret, Issuer: app.cfg.JWT.Issuer})
			token, err := auth.IssueToken(user, models.UserRole(role), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("user", "cli", "Subject of the token")
	cmd.Flags().String("role", string(models.RoleCoordenador), "ADMIN, COORDENADOR or VISUALIZADOR")
	cmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	return cmd
}

func printSummary(w io.Writer, summary *models.RunSummary) {
	fmt.Fprintf(w, "Execucao:   %s\n", summary.ExecucaoID)
	fmt.Fprintf(w, "Horarios:   %d/%d processados, %d com erro\n", summary.HorariosProcessados, summary.TotalHorarios, summary.HorariosComErro)
	fmt.Fprintf(w, "Score:      %.2f\n\n", summary.ScoreGeral)
	printResultados(w, summary.Resultados)
}

func printResultados(w io.Writer, views []models.ResultadoView) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DIA\tPERIODO\tTURMAS\tALOCADAS\tSCORE\tACURACIA\tSITUACAO")
	for _, v := range views {
		situacao := "ok"
		if v.Erro != nil {
			situacao = *v.Erro
		} else if v.TurmasSobrando > 0 {
			situacao = fmt.Sprintf("%d sem sala", v.TurmasSobrando)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2f\t%.2f\t%s\n",
			v.Horario.DiaSemana, v.Horario.Periodo, v.TotalTurmas, v.TurmasAlocadas, v.ScoreOtimizacao, v.AcuraciaModelo, situacao)
	}
	_ = tw.Flush()
}

// writeExport writes to path, to the suggested file name when path is empty,
// or to w when path is "-".
func writeExport(w io.Writer, file *service.ExportFile, path string) error {
	if path == "-" {
		_, err := w.Write(file.Content)
		return err
	}
	if path == "" {
		path = file.Filename
	}
	if err := os.WriteFile(path, file.Content, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(w, "wrote %s (%d bytes)\n", path, len(file.Content))
	return nil
}
